package domain

import "time"

// Identity is the signed-in user. DisplayName is the local part of Email.
type Identity struct {
	Email       string
	DisplayName string
}

// Listing is one vehicle offered on the board. ID and OwnerEmail never change
// after creation.
type Listing struct {
	ID          string
	OwnerEmail  string
	Title       string
	Make        string
	Model       string
	Condition   string
	Location    string
	Description string
	Price       float64
	Year        float64
	Mileage     float64
	Photo       string // data URL or object URL, empty means no photo
	CreatedAt   time.Time
	UpdatedAt   time.Time
	IsSold      bool // reserved, never toggled
}

// ListingFields is the user-editable part of a listing.
type ListingFields struct {
	Title       string
	Price       float64
	Make        string
	Model       string
	Year        float64
	Mileage     float64
	Condition   string
	Location    string
	Description string
}

// Fields returns the editable part of l.
func (l Listing) Fields() ListingFields {
	return ListingFields{
		Title:       l.Title,
		Price:       l.Price,
		Make:        l.Make,
		Model:       l.Model,
		Year:        l.Year,
		Mileage:     l.Mileage,
		Condition:   l.Condition,
		Location:    l.Location,
		Description: l.Description,
	}
}

// Apply overwrites the editable fields of l with f.
func (l *Listing) Apply(f ListingFields) {
	l.Title = f.Title
	l.Price = f.Price
	l.Make = f.Make
	l.Model = f.Model
	l.Year = f.Year
	l.Mileage = f.Mileage
	l.Condition = f.Condition
	l.Location = f.Location
	l.Description = f.Description
}

// Query narrows a listing collection. Zero values mean "no constraint".
type Query struct {
	Text     string
	MinPrice float64
	MaxPrice float64
}

// EditMode is the state of an edit session.
type EditMode string

const (
	ModeCreating EditMode = "creating"
	ModeEditing  EditMode = "editing"
)

// Event subjects published after successful mutations.
const (
	SubjectListingCreated = "listing.created"
	SubjectListingUpdated = "listing.updated"
	SubjectListingDeleted = "listing.deleted"
)
