package domain

import (
	"context"
	"io"
)

// KeyValueStore persists opaque text values by key. Load reports found=false
// for an absent key.
type KeyValueStore interface {
	Load(ctx context.Context, key string) (value string, found bool, err error)
	Save(ctx context.Context, key, value string) error
	Remove(ctx context.Context, key string) error
}

// EventPublisher announces listing mutations to other services.
type EventPublisher interface {
	Publish(ctx context.Context, subject string, data interface{}) error
}

// PhotoStorage keeps uploaded photos outside the listing record and returns
// the URL to store in Listing.Photo.
type PhotoStorage interface {
	Upload(ctx context.Context, fileName, contentType string, data io.Reader, size int64) (string, error)
}

// Mailer delivers board notifications.
type Mailer interface {
	SendListingCreated(ctx context.Context, to string, listing Listing) error
	SendInquiry(ctx context.Context, inquiry Inquiry) error
}

// Inquiry is a buyer's message to the owner of a listing.
type Inquiry struct {
	ListingID  string
	Title      string
	SellerMail string
	BuyerMail  string
	BuyerName  string
	Message    string
}
