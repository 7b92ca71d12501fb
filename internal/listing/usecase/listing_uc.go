package usecase

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/Abdurahmanit/GroupProject/campus-cars/internal/listing/domain"
	"github.com/Abdurahmanit/GroupProject/campus-cars/internal/platform/logger"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	oteltrace "go.opentelemetry.io/otel/trace"
)

var tracer = otel.Tracer("campus-cars/listing-usecase")

// MutationRecorder counts successful listing mutations ("create", "update", "delete").
type MutationRecorder interface {
	ListingMutated(op string)
}

// ListingUsecase owns the listing collection stored under one key of a
// KeyValueStore. The whole collection is read and rewritten on every mutation;
// mutations are serialized so concurrent requests do not lose writes.
type ListingUsecase struct {
	store     domain.KeyValueStore
	logger    *logger.Logger
	publisher domain.EventPublisher
	mailer    domain.Mailer
	metrics   MutationRecorder
	now       func() time.Time
	newID     func() string

	mu sync.Mutex
}

type ListingOption func(*ListingUsecase)

func WithPublisher(p domain.EventPublisher) ListingOption {
	return func(uc *ListingUsecase) { uc.publisher = p }
}

func WithMailer(m domain.Mailer) ListingOption {
	return func(uc *ListingUsecase) { uc.mailer = m }
}

func WithMetrics(m MutationRecorder) ListingOption {
	return func(uc *ListingUsecase) { uc.metrics = m }
}

func WithClock(now func() time.Time) ListingOption {
	return func(uc *ListingUsecase) { uc.now = now }
}

func WithIDGenerator(newID func() string) ListingOption {
	return func(uc *ListingUsecase) { uc.newID = newID }
}

func NewListingUsecase(store domain.KeyValueStore, log *logger.Logger, opts ...ListingOption) *ListingUsecase {
	uc := &ListingUsecase{
		store:  store,
		logger: log,
		now:    time.Now,
		newID:  uuid.NewString,
	}
	for _, opt := range opts {
		opt(uc)
	}
	return uc
}

// List returns the persisted collection, newest first. A malformed record
// yields an empty collection.
func (uc *ListingUsecase) List(ctx context.Context) ([]domain.Listing, error) {
	return uc.load(ctx)
}

// Search returns the listings matching q, in collection order.
func (uc *ListingUsecase) Search(ctx context.Context, q domain.Query) ([]domain.Listing, error) {
	listings, err := uc.load(ctx)
	if err != nil {
		return nil, err
	}
	result := domain.FilterListings(listings, q)
	uc.logger.Debug("ListingUsecase.Search: filtered listings", "query", q.Text, "min_price", q.MinPrice,
		"max_price", q.MaxPrice, "total", len(listings), "matched", len(result))
	return result, nil
}

func (uc *ListingUsecase) Get(ctx context.Context, id string) (domain.Listing, error) {
	listings, err := uc.load(ctx)
	if err != nil {
		return domain.Listing{}, err
	}
	if idx := indexOf(listings, id); idx >= 0 {
		return listings[idx], nil
	}
	return domain.Listing{}, &domain.NotFoundError{ID: id}
}

func (uc *ListingUsecase) Create(ctx context.Context, ownerEmail string, fields domain.ListingFields, photo string) (domain.Listing, error) {
	ctx, span := tracer.Start(ctx, "ListingUsecase.Create", oteltrace.WithAttributes(
		attribute.String("owner_email", ownerEmail),
		attribute.String("title", fields.Title),
	))
	defer span.End()

	ownerEmail = strings.TrimSpace(ownerEmail)
	if ownerEmail == "" {
		return domain.Listing{}, &domain.ValidationError{Field: "ownerEmail", Err: domain.ErrMissingRequiredField}
	}
	if err := fields.Validate(); err != nil {
		uc.logger.Warn("ListingUsecase.Create: validation failed", "owner_email", ownerEmail, "error", err.Error())
		return domain.Listing{}, err
	}

	uc.mu.Lock()
	listings, err := uc.load(ctx)
	if err != nil {
		uc.mu.Unlock()
		return domain.Listing{}, uc.fail(span, "ListingUsecase.Create: failed to load listings", err)
	}
	now := uc.timestamp(time.Time{})
	listing := domain.Listing{
		ID:         uc.uniqueID(listings),
		OwnerEmail: ownerEmail,
		Photo:      photo,
		CreatedAt:  now,
		UpdatedAt:  now,
		IsSold:     false,
	}
	listing.Apply(fields.Normalize())
	listings = append([]domain.Listing{listing}, listings...)
	err = uc.persist(ctx, listings)
	uc.mu.Unlock()
	if err != nil {
		return domain.Listing{}, uc.fail(span, "ListingUsecase.Create: failed to persist listings", err)
	}

	span.SetAttributes(attribute.String("listing_id", listing.ID))
	uc.logger.Info("ListingUsecase.Create: listing created", "listing_id", listing.ID, "owner_email", ownerEmail)
	uc.afterMutation(ctx, "create", domain.SubjectListingCreated, toListingEvent(listing))
	uc.notifyOwner(ctx, listing)
	return listing, nil
}

// Update replaces the editable fields of listing id. actingEmail, when not
// empty, must be the owner's. The photo is replaced only by a non-empty one.
func (uc *ListingUsecase) Update(ctx context.Context, id, actingEmail string, fields domain.ListingFields, photo string) (domain.Listing, error) {
	ctx, span := tracer.Start(ctx, "ListingUsecase.Update", oteltrace.WithAttributes(
		attribute.String("listing_id", id),
		attribute.String("acting_email", actingEmail),
	))
	defer span.End()

	if err := fields.Validate(); err != nil {
		uc.logger.Warn("ListingUsecase.Update: validation failed", "listing_id", id, "error", err.Error())
		return domain.Listing{}, err
	}

	uc.mu.Lock()
	listings, err := uc.load(ctx)
	if err != nil {
		uc.mu.Unlock()
		return domain.Listing{}, uc.fail(span, "ListingUsecase.Update: failed to load listings", err)
	}
	idx := indexOf(listings, id)
	if idx < 0 {
		uc.mu.Unlock()
		uc.logger.Warn("ListingUsecase.Update: listing not found", "listing_id", id)
		return domain.Listing{}, &domain.NotFoundError{ID: id}
	}
	current := listings[idx]
	if actingEmail != "" && current.OwnerEmail != actingEmail {
		uc.mu.Unlock()
		uc.logger.Warn("ListingUsecase.Update: forbidden to update listing",
			"listing_id", id, "listing_owner", current.OwnerEmail, "acting_email", actingEmail)
		return domain.Listing{}, &domain.AuthorizationError{ListingID: id, Actor: actingEmail}
	}

	updated := current
	updated.Apply(fields.Normalize())
	if photo != "" {
		updated.Photo = photo
	}
	updated.UpdatedAt = uc.timestamp(current.UpdatedAt)
	listings[idx] = updated
	err = uc.persist(ctx, listings)
	uc.mu.Unlock()
	if err != nil {
		return domain.Listing{}, uc.fail(span, "ListingUsecase.Update: failed to persist listings", err)
	}

	uc.logger.Info("ListingUsecase.Update: listing updated", "listing_id", id, "owner_email", updated.OwnerEmail)
	uc.afterMutation(ctx, "update", domain.SubjectListingUpdated, toListingEvent(updated))
	return updated, nil
}

// Delete removes listing id and reports whether anything was removed.
// Deleting an absent id is not an error.
func (uc *ListingUsecase) Delete(ctx context.Context, id, actingEmail string) (bool, error) {
	ctx, span := tracer.Start(ctx, "ListingUsecase.Delete", oteltrace.WithAttributes(
		attribute.String("listing_id", id),
		attribute.String("acting_email", actingEmail),
	))
	defer span.End()

	uc.mu.Lock()
	listings, err := uc.load(ctx)
	if err != nil {
		uc.mu.Unlock()
		return false, uc.fail(span, "ListingUsecase.Delete: failed to load listings", err)
	}
	idx := indexOf(listings, id)
	if idx < 0 {
		uc.mu.Unlock()
		uc.logger.Debug("ListingUsecase.Delete: nothing to delete", "listing_id", id)
		return false, nil
	}
	if actingEmail != "" && listings[idx].OwnerEmail != actingEmail {
		uc.mu.Unlock()
		uc.logger.Warn("ListingUsecase.Delete: forbidden to delete listing",
			"listing_id", id, "listing_owner", listings[idx].OwnerEmail, "acting_email", actingEmail)
		return false, &domain.AuthorizationError{ListingID: id, Actor: actingEmail}
	}
	remaining := make([]domain.Listing, 0, len(listings)-1)
	remaining = append(remaining, listings[:idx]...)
	remaining = append(remaining, listings[idx+1:]...)
	err = uc.persist(ctx, remaining)
	uc.mu.Unlock()
	if err != nil {
		return false, uc.fail(span, "ListingUsecase.Delete: failed to persist listings", err)
	}

	uc.logger.Info("ListingUsecase.Delete: listing deleted", "listing_id", id)
	uc.afterMutation(ctx, "delete", domain.SubjectListingDeleted, deletedEvent{ID: id})
	return true, nil
}

func (uc *ListingUsecase) load(ctx context.Context) ([]domain.Listing, error) {
	raw, found, err := uc.store.Load(ctx, listingsKey)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", listingsKey, err)
	}
	if !found {
		return []domain.Listing{}, nil
	}
	listings, err := decodeListings(raw)
	if err != nil {
		decodeErr := &domain.StorageDecodeError{Key: listingsKey, Err: err}
		uc.logger.Warn("ListingUsecase: stored listings are malformed, using an empty collection", "error", decodeErr.Error())
		return []domain.Listing{}, nil
	}
	return listings, nil
}

func (uc *ListingUsecase) persist(ctx context.Context, listings []domain.Listing) error {
	raw, err := encodeListings(listings)
	if err != nil {
		return fmt.Errorf("encode %s: %w", listingsKey, err)
	}
	if err := uc.store.Save(ctx, listingsKey, raw); err != nil {
		return fmt.Errorf("save %s: %w", listingsKey, err)
	}
	return nil
}

// timestamp returns the current time at millisecond precision, never earlier
// than notBefore.
func (uc *ListingUsecase) timestamp(notBefore time.Time) time.Time {
	now := time.UnixMilli(uc.now().UnixMilli())
	if now.Before(notBefore) {
		return notBefore
	}
	return now
}

func (uc *ListingUsecase) uniqueID(existing []domain.Listing) string {
	for {
		id := uc.newID()
		if id != "" && indexOf(existing, id) < 0 {
			return id
		}
	}
}

func (uc *ListingUsecase) fail(span oteltrace.Span, msg string, err error) error {
	uc.logger.Error(msg, "error", err.Error())
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	return err
}

func (uc *ListingUsecase) afterMutation(ctx context.Context, op, subject string, payload interface{}) {
	if uc.metrics != nil {
		uc.metrics.ListingMutated(op)
	}
	if uc.publisher == nil {
		return
	}
	if err := uc.publisher.Publish(ctx, subject, payload); err != nil {
		uc.logger.Warn("ListingUsecase: failed to publish event", "subject", subject, "error", err.Error())
	}
}

func (uc *ListingUsecase) notifyOwner(ctx context.Context, listing domain.Listing) {
	if uc.mailer == nil {
		return
	}
	if err := uc.mailer.SendListingCreated(ctx, listing.OwnerEmail, listing); err != nil {
		uc.logger.Warn("ListingUsecase.Create: failed to send confirmation email",
			"listing_id", listing.ID, "owner_email", listing.OwnerEmail, "error", err.Error())
	}
}

func indexOf(listings []domain.Listing, id string) int {
	for i, l := range listings {
		if l.ID == id {
			return i
		}
	}
	return -1
}
