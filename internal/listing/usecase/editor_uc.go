package usecase

import (
	"context"
	"sync"

	"github.com/Abdurahmanit/GroupProject/campus-cars/internal/listing/domain"
)

// ListingWriter is what an edit session commits through.
type ListingWriter interface {
	Create(ctx context.Context, ownerEmail string, fields domain.ListingFields, photo string) (domain.Listing, error)
	Update(ctx context.Context, id, actingEmail string, fields domain.ListingFields, photo string) (domain.Listing, error)
}

// EditSession decides whether a submitted form creates a new listing or
// updates the one being edited. It starts, and always returns to, Creating.
type EditSession struct {
	mu     sync.Mutex
	mode   domain.EditMode
	editID string
	photo  *PhotoSlot
}

func NewEditSession() *EditSession {
	return &EditSession{mode: domain.ModeCreating, photo: &PhotoSlot{}}
}

// State returns the mode and, when editing, the target listing id.
func (s *EditSession) State() (domain.EditMode, string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.mode, s.editID
}

func (s *EditSession) Photo() *PhotoSlot {
	return s.photo
}

// BeginEdit enters Editing(listing.ID) when acting owns the listing. The
// listing's current photo becomes the pending photo.
func (s *EditSession) BeginEdit(listing domain.Listing, acting *domain.Identity) error {
	if acting == nil {
		return domain.ErrNotSignedIn
	}
	if acting.Email != listing.OwnerEmail {
		return &domain.AuthorizationError{ListingID: listing.ID, Actor: acting.Email}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.mode = domain.ModeEditing
	s.editID = listing.ID
	s.photo.Set(listing.Photo)
	return nil
}

// CancelEdit returns to Creating and drops the pending photo.
func (s *EditSession) CancelEdit() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reset()
}

// Reset is forced on sign-out.
func (s *EditSession) Reset() {
	s.CancelEdit()
}

// Commit creates or updates depending on the state, using the pending photo.
// On success the session is back in Creating; on failure nothing changes.
func (s *EditSession) Commit(ctx context.Context, acting *domain.Identity, fields domain.ListingFields, listings ListingWriter) (domain.Listing, error) {
	if acting == nil {
		return domain.Listing{}, domain.ErrNotSignedIn
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	var (
		listing domain.Listing
		err     error
	)
	photo := s.photo.Current()
	if s.mode == domain.ModeEditing {
		listing, err = listings.Update(ctx, s.editID, acting.Email, fields, photo)
	} else {
		listing, err = listings.Create(ctx, acting.Email, fields, photo)
	}
	if err != nil {
		return domain.Listing{}, err
	}
	s.reset()
	return listing, nil
}

func (s *EditSession) reset() {
	s.mode = domain.ModeCreating
	s.editID = ""
	s.photo.Clear()
}
