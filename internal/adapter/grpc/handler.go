package grpc

import (
	"context"
	"errors"
	"time"

	"github.com/Abdurahmanit/GroupProject/campus-cars/internal/adapter/grpc/middleware"
	"github.com/Abdurahmanit/GroupProject/campus-cars/internal/auth"
	"github.com/Abdurahmanit/GroupProject/campus-cars/internal/listing/domain"
	"github.com/Abdurahmanit/GroupProject/campus-cars/internal/platform/logger"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	oteltrace "go.opentelemetry.io/otel/trace"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"
)

var tracer = otel.Tracer("campus-cars/grpc-handler")

type ListingService interface {
	Search(ctx context.Context, q domain.Query) ([]domain.Listing, error)
	Get(ctx context.Context, id string) (domain.Listing, error)
	Create(ctx context.Context, ownerEmail string, fields domain.ListingFields, photo string) (domain.Listing, error)
	Update(ctx context.Context, id, actingEmail string, fields domain.ListingFields, photo string) (domain.Listing, error)
	Delete(ctx context.Context, id, actingEmail string) (bool, error)
}

type SessionBoard interface {
	SignIn(ctx context.Context, email string) (string, domain.Identity, error)
	Identity(ctx context.Context, sessionID string) (*domain.Identity, error)
	SignOut(ctx context.Context, sessionID string) error
}

type Handler struct {
	listings ListingService
	board    SessionBoard
	tokens   *auth.TokenManager
	logger   *logger.Logger
}

func NewHandler(listings ListingService, board SessionBoard, tokens *auth.TokenManager, log *logger.Logger) *Handler {
	return &Handler{listings: listings, board: board, tokens: tokens, logger: log}
}

// toStatus maps usecase errors to gRPC status codes.
func toStatus(err error) error {
	switch {
	case err == nil:
		return nil
	case domain.IsValidation(err):
		return status.Error(codes.InvalidArgument, err.Error())
	case errors.Is(err, domain.ErrForbidden):
		return status.Error(codes.PermissionDenied, err.Error())
	case errors.Is(err, domain.ErrListingNotFound):
		return status.Error(codes.NotFound, err.Error())
	case errors.Is(err, domain.ErrNotSignedIn), errors.Is(err, domain.ErrInvalidSession):
		return status.Error(codes.Unauthenticated, err.Error())
	case errors.Is(err, context.Canceled):
		return status.Error(codes.Canceled, err.Error())
	case errors.Is(err, context.DeadlineExceeded):
		return status.Error(codes.DeadlineExceeded, err.Error())
	default:
		return status.Error(codes.Internal, "internal error")
	}
}

func requireIdentity(ctx context.Context) (*domain.Identity, error) {
	_, identity := middleware.SessionFromContext(ctx)
	if identity == nil {
		return nil, toStatus(domain.ErrNotSignedIn)
	}
	return identity, nil
}

func (h *Handler) SignIn(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	sessionID, identity, err := h.board.SignIn(ctx, stringField(req, "email"))
	if err != nil {
		return nil, toStatus(err)
	}
	token, expiresAt, err := h.tokens.Issue(sessionID, identity.Email)
	if err != nil {
		h.logger.Error("SignIn: failed to issue token", "error", err.Error())
		return nil, toStatus(err)
	}
	return structpb.NewStruct(map[string]interface{}{
		"token":     token,
		"expiresAt": expiresAt.Format(time.RFC3339),
		"user": map[string]interface{}{
			"email": identity.Email,
			"name":  identity.DisplayName,
		},
	})
}

func (h *Handler) SignOut(ctx context.Context, _ *structpb.Struct) (*structpb.Struct, error) {
	sessionID, _ := middleware.SessionFromContext(ctx)
	if sessionID == "" {
		return nil, toStatus(domain.ErrNotSignedIn)
	}
	if err := h.board.SignOut(ctx, sessionID); err != nil {
		return nil, toStatus(err)
	}
	return &structpb.Struct{}, nil
}

func (h *Handler) ListListings(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	q := domain.Query{
		Text:     stringField(req, "q"),
		MinPrice: numberField(req, "minPrice"),
		MaxPrice: numberField(req, "maxPrice"),
	}
	listings, err := h.listings.Search(ctx, q)
	if err != nil {
		h.logger.Error("ListListings: usecase failed", "error", err.Error())
		return nil, toStatus(err)
	}
	return listingsStruct(listings)
}

func (h *Handler) GetListing(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	listing, err := h.listings.Get(ctx, stringField(req, "id"))
	if err != nil {
		return nil, toStatus(err)
	}
	return listingStruct(listing)
}

func (h *Handler) CreateListing(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	identity, err := requireIdentity(ctx)
	if err != nil {
		return nil, err
	}
	ctx, span := tracer.Start(ctx, "Handler.CreateListing", oteltrace.WithAttributes(
		attribute.String("owner_email", identity.Email),
	))
	defer span.End()

	photo, err := domain.PhotoReference(stringField(req, "photoDataUrl"))
	if err != nil {
		return nil, toStatus(err)
	}
	listing, err := h.listings.Create(ctx, identity.Email, toListingFields(req), photo)
	if err != nil {
		span.RecordError(err)
		return nil, toStatus(err)
	}
	span.SetAttributes(attribute.String("listing_id", listing.ID))
	return listingStruct(listing)
}

func (h *Handler) UpdateListing(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	identity, err := requireIdentity(ctx)
	if err != nil {
		return nil, err
	}
	id := stringField(req, "id")
	ctx, span := tracer.Start(ctx, "Handler.UpdateListing", oteltrace.WithAttributes(
		attribute.String("listing_id", id),
		attribute.String("acting_email", identity.Email),
	))
	defer span.End()

	photo, err := domain.PhotoReference(stringField(req, "photoDataUrl"))
	if err != nil {
		return nil, toStatus(err)
	}
	listing, err := h.listings.Update(ctx, id, identity.Email, toListingFields(req), photo)
	if err != nil {
		span.RecordError(err)
		return nil, toStatus(err)
	}
	return listingStruct(listing)
}

func (h *Handler) DeleteListing(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	identity, err := requireIdentity(ctx)
	if err != nil {
		return nil, err
	}
	id := stringField(req, "id")
	ctx, span := tracer.Start(ctx, "Handler.DeleteListing", oteltrace.WithAttributes(
		attribute.String("listing_id", id),
		attribute.String("acting_email", identity.Email),
	))
	defer span.End()

	removed, err := h.listings.Delete(ctx, id, identity.Email)
	if err != nil {
		span.RecordError(err)
		return nil, toStatus(err)
	}
	return structpb.NewStruct(map[string]interface{}{"deleted": removed})
}
