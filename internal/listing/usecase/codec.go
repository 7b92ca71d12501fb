package usecase

import (
	"encoding/json"
	"time"

	"github.com/Abdurahmanit/GroupProject/campus-cars/internal/listing/domain"
)

// Keys of the two persisted records. They match the keys the browser board
// wrote so existing data keeps loading.
const (
	sessionKey  = "cc_user"
	listingsKey = "cc_listings"

	sessionIndexKey = "cc_sessions"
)

type sessionRecord struct {
	Email string `json:"email"`
	Name  string `json:"name"`
}

type listingRecord struct {
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
}

// listingEvent is the message body of created/updated events. The photo is
// left out, it can be several megabytes.
type listingEvent struct {
	ID         string  `json:"id"`
	OwnerEmail string  `json:"ownerEmail"`
	Title      string  `json:"title"`
	Price      float64 `json:"price"`
	Make       string  `json:"make"`
	Model      string  `json:"model"`
	Year       float64 `json:"year"`
	HasPhoto   bool    `json:"hasPhoto"`
	UpdatedAt  int64   `json:"updatedAt"`
}

type deletedEvent struct {
	ID string `json:"id"`
}

func toListingRecord(l domain.Listing) listingRecord {
	return listingRecord{
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
	}
}

func toDomainListing(r listingRecord) domain.Listing {
	return domain.Listing{
		ID:          r.ID,
		OwnerEmail:  r.OwnerEmail,
		Title:       r.Title,
		Price:       r.Price,
		Make:        r.Make,
		Model:       r.Model,
		Year:        r.Year,
		Mileage:     r.Mileage,
		Condition:   r.Condition,
		Location:    r.Location,
		Description: r.Description,
		Photo:       r.PhotoDataURL,
		CreatedAt:   time.UnixMilli(r.CreatedAt),
		UpdatedAt:   time.UnixMilli(r.UpdatedAt),
		IsSold:      r.IsSold,
	}
}

func toListingEvent(l domain.Listing) listingEvent {
	return listingEvent{
		ID:         l.ID,
		OwnerEmail: l.OwnerEmail,
		Title:      l.Title,
		Price:      l.Price,
		Make:       l.Make,
		Model:      l.Model,
		Year:       l.Year,
		HasPhoto:   l.Photo != "",
		UpdatedAt:  l.UpdatedAt.UnixMilli(),
	}
}

func decodeListings(raw string) ([]domain.Listing, error) {
	var records []listingRecord
	if err := json.Unmarshal([]byte(raw), &records); err != nil {
		return nil, err
	}
	listings := make([]domain.Listing, 0, len(records))
	for _, r := range records {
		listings = append(listings, toDomainListing(r))
	}
	return listings, nil
}

func encodeListings(listings []domain.Listing) (string, error) {
	records := make([]listingRecord, 0, len(listings))
	for _, l := range listings {
		records = append(records, toListingRecord(l))
	}
	data, err := json.Marshal(records)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func decodeSession(raw string) (*domain.Identity, error) {
	var rec *sessionRecord
	if err := json.Unmarshal([]byte(raw), &rec); err != nil {
		return nil, err
	}
	if rec == nil || rec.Email == "" {
		return nil, nil
	}
	return &domain.Identity{Email: rec.Email, DisplayName: rec.Name}, nil
}

func encodeSession(id domain.Identity) (string, error) {
	data, err := json.Marshal(sessionRecord{Email: id.Email, Name: id.DisplayName})
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func decodeSessionIndex(raw string) (map[string]int64, error) {
	index := make(map[string]int64)
	if err := json.Unmarshal([]byte(raw), &index); err != nil {
		return nil, err
	}
	if index == nil {
		index = make(map[string]int64)
	}
	return index, nil
}

func encodeSessionIndex(index map[string]int64) (string, error) {
	data, err := json.Marshal(index)
	if err != nil {
		return "", err
	}
	return string(data), nil
}
