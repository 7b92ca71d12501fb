package usecase

import (
	"context"
	"errors"
	"io"
	"time"

	"github.com/Abdurahmanit/GroupProject/campus-cars/internal/adapter/repository/memory"
	"github.com/Abdurahmanit/GroupProject/campus-cars/internal/listing/domain"
	"github.com/Abdurahmanit/GroupProject/campus-cars/internal/platform/logger"
	"github.com/stretchr/testify/mock"
)

type MockMailer struct {
	mock.Mock
}

func (m *MockMailer) SendListingCreated(ctx context.Context, to string, listing domain.Listing) error {
	args := m.Called(ctx, to, listing)
	return args.Error(0)
}

func (m *MockMailer) SendInquiry(ctx context.Context, inquiry domain.Inquiry) error {
	args := m.Called(ctx, inquiry)
	return args.Error(0)
}

type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) Publish(ctx context.Context, subject string, data interface{}) error {
	args := m.Called(ctx, subject, data)
	return args.Error(0)
}

type MockPhotoStorage struct {
	mock.Mock
}

func (m *MockPhotoStorage) Upload(ctx context.Context, fileName, contentType string, data io.Reader, size int64) (string, error) {
	args := m.Called(ctx, fileName, contentType, data, size)
	return args.String(0), args.Error(1)
}

type countingRecorder struct {
	ops []string
}

func (r *countingRecorder) ListingMutated(op string) {
	r.ops = append(r.ops, op)
}

// brokenStore fails every call.
type brokenStore struct{}

var errBackend = errors.New("backend unavailable")

func (brokenStore) Load(context.Context, string) (string, bool, error) { return "", false, errBackend }
func (brokenStore) Save(context.Context, string, string) error         { return errBackend }
func (brokenStore) Remove(context.Context, string) error               { return errBackend }

// fakeClock advances by one millisecond per reading.
type fakeClock struct {
	t time.Time
}

func (c *fakeClock) Now() time.Time {
	c.t = c.t.Add(time.Millisecond)
	return c.t
}

func newTestListingUsecase(opts ...ListingOption) (*ListingUsecase, *memory.Store) {
	store := memory.NewStore()
	return NewListingUsecase(store, logger.NewNop(), opts...), store
}

func bikeFields() domain.ListingFields {
	return domain.ListingFields{Title: "Bike", Price: 100, Make: "Trek", Model: "FX", Year: 2020}
}
