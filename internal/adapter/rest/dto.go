package rest

import (
	"github.com/Abdurahmanit/GroupProject/campus-cars/internal/listing/domain"
)

type userResponse struct {
	Email string `json:"email"`
	Name  string `json:"name"`
}

type sessionResponse struct {
	Token     string        `json:"token,omitempty"`
	ExpiresAt int64         `json:"expiresAt,omitempty"`
	User      *userResponse `json:"user"`
}

type listingResponse struct {
	ID           string  `json:"id"`
	OwnerEmail   string  `json:"ownerEmail"`
	Title        string  `json:"title"`
	Price        float64 `json:"price"`
	Make         string  `json:"make"`
	Model        string  `json:"model"`
	Year         float64 `json:"year"`
	Mileage      float64 `json:"mileage"`
	Condition    string  `json:"condition"`
	Location     string  `json:"location"`
	Description  string  `json:"description"`
	PhotoDataURL string  `json:"photoDataUrl"`
	CreatedAt    int64   `json:"createdAt"`
	UpdatedAt    int64   `json:"updatedAt"`
	IsSold       bool    `json:"isSold"`
	IsOwner      bool    `json:"isOwner"`
}

// listingRequest is the form body. Numbers may be omitted; missing required
// ones fail validation.
type listingRequest struct {
	Title        string  `json:"title"`
	Price        float64 `json:"price"`
	Make         string  `json:"make"`
	Model        string  `json:"model"`
	Year         float64 `json:"year"`
	Mileage      float64 `json:"mileage"`
	Condition    string  `json:"condition"`
	Location     string  `json:"location"`
	Description  string  `json:"description"`
	PhotoDataURL string  `json:"photoDataUrl,omitempty"`
}

type editorResponse struct {
	Mode      domain.EditMode  `json:"mode"`
	ListingID string           `json:"listingId,omitempty"`
	Photo     string           `json:"photoDataUrl"`
	Listing   *listingResponse `json:"listing,omitempty"`
}

type photoResponse struct {
	Photo   string `json:"photoDataUrl"`
	Applied bool   `json:"applied"`
}

type inquiryRequest struct {
	Message string `json:"message"`
}

func (req listingRequest) fields() domain.ListingFields {
	return domain.ListingFields{
		Title:       req.Title,
		Price:       req.Price,
		Make:        req.Make,
		Model:       req.Model,
		Year:        req.Year,
		Mileage:     req.Mileage,
		Condition:   req.Condition,
		Location:    req.Location,
		Description: req.Description,
	}
}

func (req listingRequest) photo() (string, error) {
	return domain.PhotoReference(req.PhotoDataURL)
}

func toUserResponse(id *domain.Identity) *userResponse {
	if id == nil {
		return nil
	}
	return &userResponse{Email: id.Email, Name: id.DisplayName}
}

func toListingResponse(l domain.Listing, viewer *domain.Identity) listingResponse {
	return listingResponse{
		ID:           l.ID,
		OwnerEmail:   l.OwnerEmail,
		Title:        l.Title,
		Price:        l.Price,
		Make:         l.Make,
		Model:        l.Model,
		Year:         l.Year,
		Mileage:      l.Mileage,
		Condition:    l.Condition,
		Location:     l.Location,
		Description:  l.Description,
		PhotoDataURL: l.Photo,
		CreatedAt:    l.CreatedAt.UnixMilli(),
		UpdatedAt:    l.UpdatedAt.UnixMilli(),
		IsSold:       l.IsSold,
		IsOwner:      viewer != nil && viewer.Email == l.OwnerEmail,
	}
}

func toListingResponses(listings []domain.Listing, viewer *domain.Identity) []listingResponse {
	out := make([]listingResponse, 0, len(listings))
	for _, l := range listings {
		out = append(out, toListingResponse(l, viewer))
	}
	return out
}
