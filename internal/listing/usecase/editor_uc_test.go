package usecase

import (
	"context"
	"testing"

	"github.com/Abdurahmanit/GroupProject/campus-cars/internal/listing/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEditSession_StartsCreating(t *testing.T) {
	mode, id := NewEditSession().State()
	assert.Equal(t, domain.ModeCreating, mode)
	assert.Empty(t, id)
}

func TestEditSession_BeginEditRequiresOwner(t *testing.T) {
	listing := domain.Listing{ID: "l1", OwnerEmail: alice, Photo: "data:image/png;base64,AAAA"}
	session := NewEditSession()

	assert.ErrorIs(t, session.BeginEdit(listing, nil), domain.ErrNotSignedIn)
	assert.ErrorIs(t, session.BeginEdit(listing, &domain.Identity{Email: bob}), domain.ErrForbidden)
	mode, _ := session.State()
	assert.Equal(t, domain.ModeCreating, mode)

	require.NoError(t, session.BeginEdit(listing, &domain.Identity{Email: alice}))
	mode, id := session.State()
	assert.Equal(t, domain.ModeEditing, mode)
	assert.Equal(t, "l1", id)
	assert.Equal(t, listing.Photo, session.Photo().Current())

	session.CancelEdit()
	mode, id = session.State()
	assert.Equal(t, domain.ModeCreating, mode)
	assert.Empty(t, id)
	assert.Empty(t, session.Photo().Current())
}

func TestEditSession_CommitCreates(t *testing.T) {
	ctx := context.Background()
	uc, _ := newTestListingUsecase()
	session := NewEditSession()
	session.Photo().Set("data:image/png;base64,AAAA")

	_, err := session.Commit(ctx, nil, bikeFields(), uc)
	assert.ErrorIs(t, err, domain.ErrNotSignedIn)

	listing, err := session.Commit(ctx, &domain.Identity{Email: alice}, bikeFields(), uc)
	require.NoError(t, err)
	assert.Equal(t, alice, listing.OwnerEmail)
	assert.Equal(t, "data:image/png;base64,AAAA", listing.Photo)
	assert.Empty(t, session.Photo().Current(), "commit clears the pending photo")
}

func TestEditSession_CommitUpdatesEditedListing(t *testing.T) {
	ctx := context.Background()
	uc, _ := newTestListingUsecase()
	owner := &domain.Identity{Email: alice}
	original, err := uc.Create(ctx, alice, bikeFields(), "data:image/png;base64,AAAA")
	require.NoError(t, err)

	session := NewEditSession()
	require.NoError(t, session.BeginEdit(original, owner))

	fields := original.Fields()
	fields.Price = 75
	updated, err := session.Commit(ctx, owner, fields, uc)
	require.NoError(t, err)
	assert.Equal(t, original.ID, updated.ID)
	assert.Equal(t, float64(75), updated.Price)
	assert.Equal(t, original.Photo, updated.Photo)

	mode, _ := session.State()
	assert.Equal(t, domain.ModeCreating, mode)

	listings, err := uc.List(ctx)
	require.NoError(t, err)
	assert.Len(t, listings, 1)
}

func TestEditSession_FailedCommitKeepsState(t *testing.T) {
	ctx := context.Background()
	uc, _ := newTestListingUsecase()
	owner := &domain.Identity{Email: alice}
	original, err := uc.Create(ctx, alice, bikeFields(), "")
	require.NoError(t, err)

	session := NewEditSession()
	require.NoError(t, session.BeginEdit(original, owner))
	session.Photo().Set("data:image/png;base64,BBBB")

	invalid := original.Fields()
	invalid.Title = ""
	_, err = session.Commit(ctx, owner, invalid, uc)
	assert.True(t, domain.IsValidation(err))

	mode, id := session.State()
	assert.Equal(t, domain.ModeEditing, mode)
	assert.Equal(t, original.ID, id)
	assert.Equal(t, "data:image/png;base64,BBBB", session.Photo().Current())
}

func TestEditSession_CommitAfterListingDeleted(t *testing.T) {
	ctx := context.Background()
	uc, _ := newTestListingUsecase()
	owner := &domain.Identity{Email: alice}
	original, err := uc.Create(ctx, alice, bikeFields(), "")
	require.NoError(t, err)

	session := NewEditSession()
	require.NoError(t, session.BeginEdit(original, owner))
	_, err = uc.Delete(ctx, original.ID, alice)
	require.NoError(t, err)

	_, err = session.Commit(ctx, owner, original.Fields(), uc)
	assert.ErrorIs(t, err, domain.ErrListingNotFound)
}
