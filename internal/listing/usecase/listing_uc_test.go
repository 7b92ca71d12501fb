package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Abdurahmanit/GroupProject/campus-cars/internal/listing/domain"
	"github.com/Abdurahmanit/GroupProject/campus-cars/internal/platform/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const (
	alice = "alice@school.edu"
	bob   = "bob@school.edu"
)

func TestListingUsecase_CreatePrependsAndPersists(t *testing.T) {
	ctx := context.Background()
	uc, store := newTestListingUsecase()

	first, err := uc.Create(ctx, alice, bikeFields(), "")
	require.NoError(t, err)
	second, err := uc.Create(ctx, alice, domain.ListingFields{Title: "Civic", Price: 9000, Make: "Honda", Model: "Civic", Year: 2012}, "")
	require.NoError(t, err)

	listings, err := uc.List(ctx)
	require.NoError(t, err)
	require.Len(t, listings, 2)
	assert.Equal(t, second.ID, listings[0].ID)
	assert.Equal(t, first.ID, listings[1].ID)
	assert.NotEqual(t, first.ID, second.ID)

	assert.Equal(t, alice, first.OwnerEmail)
	assert.False(t, first.IsSold)
	assert.Equal(t, first.CreatedAt, first.UpdatedAt)

	raw, found, err := store.Load(ctx, "cc_listings")
	require.NoError(t, err)
	require.True(t, found)
	assert.Contains(t, raw, `"ownerEmail":"alice@school.edu"`)
	assert.Contains(t, raw, `"photoDataUrl":""`)
}

func TestListingUsecase_CreateTrimsFields(t *testing.T) {
	uc, _ := newTestListingUsecase()
	fields := bikeFields()
	fields.Title = "  Bike  "
	fields.Location = " Dorm A "

	listing, err := uc.Create(context.Background(), alice, fields, "")
	require.NoError(t, err)
	assert.Equal(t, "Bike", listing.Title)
	assert.Equal(t, "Dorm A", listing.Location)
}

func TestListingUsecase_CreateValidation(t *testing.T) {
	ctx := context.Background()
	uc, store := newTestListingUsecase()

	fields := bikeFields()
	fields.Title = ""
	_, err := uc.Create(ctx, alice, fields, "")
	require.Error(t, err)
	assert.True(t, domain.IsValidation(err))
	assert.ErrorIs(t, err, domain.ErrMissingRequiredField)

	_, err = uc.Create(ctx, "", bikeFields(), "")
	assert.True(t, domain.IsValidation(err))

	_, found, _ := store.Load(ctx, "cc_listings")
	assert.False(t, found, "nothing is written when validation fails")
}

func TestListingUsecase_UniqueIDs(t *testing.T) {
	ids := []string{"dup", "dup", "dup", "fresh"}
	next := 0
	uc, _ := newTestListingUsecase(WithIDGenerator(func() string {
		id := ids[next]
		next++
		return id
	}))
	ctx := context.Background()

	first, err := uc.Create(ctx, alice, bikeFields(), "")
	require.NoError(t, err)
	second, err := uc.Create(ctx, alice, bikeFields(), "")
	require.NoError(t, err)

	assert.Equal(t, "dup", first.ID)
	assert.Equal(t, "fresh", second.ID)
}

func TestListingUsecase_UpdateKeepsPositionAndIdentity(t *testing.T) {
	ctx := context.Background()
	clock := &fakeClock{t: time.UnixMilli(1_700_000_000_000)}
	uc, _ := newTestListingUsecase(WithClock(clock.Now))

	older, err := uc.Create(ctx, alice, bikeFields(), "data:image/png;base64,AAAA")
	require.NoError(t, err)
	_, err = uc.Create(ctx, bob, bikeFields(), "")
	require.NoError(t, err)

	fields := bikeFields()
	fields.Price = 80
	updated, err := uc.Update(ctx, older.ID, alice, fields, "")
	require.NoError(t, err)

	assert.Equal(t, older.ID, updated.ID)
	assert.Equal(t, older.OwnerEmail, updated.OwnerEmail)
	assert.Equal(t, older.CreatedAt, updated.CreatedAt)
	assert.True(t, updated.UpdatedAt.After(older.UpdatedAt))
	assert.Equal(t, float64(80), updated.Price)
	assert.Equal(t, "data:image/png;base64,AAAA", updated.Photo, "empty photo keeps the existing one")

	listings, err := uc.List(ctx)
	require.NoError(t, err)
	require.Len(t, listings, 2)
	assert.Equal(t, older.ID, listings[1].ID)

	replaced, err := uc.Update(ctx, older.ID, alice, fields, "data:image/png;base64,BBBB")
	require.NoError(t, err)
	assert.Equal(t, "data:image/png;base64,BBBB", replaced.Photo)
}

func TestListingUsecase_UpdatedAtNeverGoesBackwards(t *testing.T) {
	ctx := context.Background()
	now := time.UnixMilli(1_700_000_000_000)
	uc, _ := newTestListingUsecase(WithClock(func() time.Time { return now }))

	listing, err := uc.Create(ctx, alice, bikeFields(), "")
	require.NoError(t, err)

	now = now.Add(-time.Hour)
	updated, err := uc.Update(ctx, listing.ID, alice, bikeFields(), "")
	require.NoError(t, err)
	assert.Equal(t, listing.UpdatedAt, updated.UpdatedAt)
}

func TestListingUsecase_UpdateErrors(t *testing.T) {
	ctx := context.Background()
	uc, _ := newTestListingUsecase()
	listing, err := uc.Create(ctx, alice, bikeFields(), "")
	require.NoError(t, err)

	_, err = uc.Update(ctx, "missing", alice, bikeFields(), "")
	assert.ErrorIs(t, err, domain.ErrListingNotFound)

	_, err = uc.Update(ctx, listing.ID, bob, bikeFields(), "")
	assert.ErrorIs(t, err, domain.ErrForbidden)
	var authErr *domain.AuthorizationError
	require.True(t, errors.As(err, &authErr))
	assert.Equal(t, bob, authErr.Actor)

	invalid := bikeFields()
	invalid.Year = 0
	_, err = uc.Update(ctx, "missing", alice, invalid, "")
	assert.True(t, domain.IsValidation(err), "validation runs before the lookup")

	stored, err := uc.Get(ctx, listing.ID)
	require.NoError(t, err)
	assert.Equal(t, listing, stored)
}

func TestListingUsecase_Delete(t *testing.T) {
	ctx := context.Background()
	uc, _ := newTestListingUsecase()
	listing, err := uc.Create(ctx, alice, bikeFields(), "")
	require.NoError(t, err)

	removed, err := uc.Delete(ctx, listing.ID, bob)
	assert.ErrorIs(t, err, domain.ErrForbidden)
	assert.False(t, removed)

	removed, err = uc.Delete(ctx, listing.ID, alice)
	require.NoError(t, err)
	assert.True(t, removed)

	removed, err = uc.Delete(ctx, listing.ID, alice)
	require.NoError(t, err)
	assert.False(t, removed)

	listings, err := uc.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, listings)
}

func TestListingUsecase_MalformedRecordReadsAsEmpty(t *testing.T) {
	ctx := context.Background()
	uc, store := newTestListingUsecase()
	require.NoError(t, store.Save(ctx, "cc_listings", "{not json"))

	listings, err := uc.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, listings)

	listing, err := uc.Create(ctx, alice, bikeFields(), "")
	require.NoError(t, err)
	listings, err = uc.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []domain.Listing{listing}, listings)
}

func TestListingUsecase_BackendErrorsPropagate(t *testing.T) {
	uc := NewListingUsecase(brokenStore{}, logger.NewNop())
	ctx := context.Background()

	_, err := uc.List(ctx)
	assert.ErrorIs(t, err, errBackend)
	_, err = uc.Create(ctx, alice, bikeFields(), "")
	assert.ErrorIs(t, err, errBackend)
	_, err = uc.Delete(ctx, "x", alice)
	assert.ErrorIs(t, err, errBackend)
}

func TestListingUsecase_SearchBikeScenario(t *testing.T) {
	ctx := context.Background()
	uc, _ := newTestListingUsecase()
	_, err := uc.Create(ctx, alice, bikeFields(), "")
	require.NoError(t, err)
	_, err = uc.Create(ctx, bob, domain.ListingFields{Title: "Civic", Price: 9000, Make: "Honda", Model: "Civic", Year: 2012}, "")
	require.NoError(t, err)

	got, err := uc.Search(ctx, domain.Query{Text: "trek"})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Bike", got[0].Title)

	got, err = uc.Search(ctx, domain.Query{MinPrice: 100, MaxPrice: 100})
	require.NoError(t, err)
	require.Len(t, got, 1)

	got, err = uc.Search(ctx, domain.Query{})
	require.NoError(t, err)
	assert.Len(t, got, 2)
}

func TestListingUsecase_SideEffects(t *testing.T) {
	ctx := context.Background()
	mailer := new(MockMailer)
	publisher := new(MockPublisher)
	recorder := &countingRecorder{}
	uc, _ := newTestListingUsecase(WithMailer(mailer), WithPublisher(publisher), WithMetrics(recorder))

	mailer.On("SendListingCreated", mock.Anything, alice, mock.AnythingOfType("domain.Listing")).
		Return(errors.New("smtp down")).Once()
	publisher.On("Publish", mock.Anything, domain.SubjectListingCreated, mock.AnythingOfType("usecase.listingEvent")).
		Return(nil).Once()
	publisher.On("Publish", mock.Anything, domain.SubjectListingDeleted, mock.AnythingOfType("usecase.deletedEvent")).
		Return(errors.New("nats down")).Once()

	listing, err := uc.Create(ctx, alice, bikeFields(), "")
	require.NoError(t, err, "mail failures do not fail the create")
	_, err = uc.Delete(ctx, listing.ID, alice)
	require.NoError(t, err, "publish failures do not fail the delete")

	assert.Equal(t, []string{"create", "delete"}, recorder.ops)
	mailer.AssertExpectations(t)
	publisher.AssertExpectations(t)
}
