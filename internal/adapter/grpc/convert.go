package grpc

import (
	"github.com/Abdurahmanit/GroupProject/campus-cars/internal/listing/domain"
	"google.golang.org/protobuf/types/known/structpb"
)

func stringField(s *structpb.Struct, name string) string {
	return s.GetFields()[name].GetStringValue()
}

func numberField(s *structpb.Struct, name string) float64 {
	return s.GetFields()[name].GetNumberValue()
}

func toListingFields(s *structpb.Struct) domain.ListingFields {
	return domain.ListingFields{
		Title:       stringField(s, "title"),
		Price:       numberField(s, "price"),
		Make:        stringField(s, "make"),
		Model:       stringField(s, "model"),
		Year:        numberField(s, "year"),
		Mileage:     numberField(s, "mileage"),
		Condition:   stringField(s, "condition"),
		Location:    stringField(s, "location"),
		Description: stringField(s, "description"),
	}
}

func toListingMap(l domain.Listing) map[string]interface{} {
	return map[string]interface{}{
		"id":           l.ID,
		"ownerEmail":   l.OwnerEmail,
		"title":        l.Title,
		"price":        l.Price,
		"make":         l.Make,
		"model":        l.Model,
		"year":         l.Year,
		"mileage":      l.Mileage,
		"condition":    l.Condition,
		"location":     l.Location,
		"description":  l.Description,
		"photoDataUrl": l.Photo,
		"createdAt":    l.CreatedAt.UnixMilli(),
		"updatedAt":    l.UpdatedAt.UnixMilli(),
		"isSold":       l.IsSold,
	}
}

func listingStruct(l domain.Listing) (*structpb.Struct, error) {
	return structpb.NewStruct(map[string]interface{}{"listing": toListingMap(l)})
}

func listingsStruct(listings []domain.Listing) (*structpb.Struct, error) {
	items := make([]interface{}, 0, len(listings))
	for _, l := range listings {
		items = append(items, toListingMap(l))
	}
	return structpb.NewStruct(map[string]interface{}{"listings": items})
}
