package rest

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/Abdurahmanit/GroupProject/campus-cars/internal/auth"
	"github.com/Abdurahmanit/GroupProject/campus-cars/internal/listing/domain"
	"github.com/Abdurahmanit/GroupProject/campus-cars/internal/listing/usecase"
	"github.com/Abdurahmanit/GroupProject/campus-cars/internal/platform/logger"
	"github.com/go-chi/chi/v5"
)

const paramID = "id"

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
	Editor(sessionID string) *usecase.EditSession
}

type PhotoLoader interface {
	Load(ctx context.Context, slot *usecase.PhotoSlot, fileName, contentType string, r io.Reader) (string, bool, error)
}

type InquirySender interface {
	ContactSeller(ctx context.Context, listingID string, buyer *domain.Identity, message string) error
}

// Handler serves the board's JSON API.
type Handler struct {
	listings  ListingService
	board     SessionBoard
	photos    PhotoLoader
	inquiries InquirySender
	tokens    *auth.TokenManager
	logger    *logger.Logger
}

func NewHandler(listings ListingService, board SessionBoard, photos PhotoLoader, inquiries InquirySender,
	tokens *auth.TokenManager, log *logger.Logger) *Handler {
	return &Handler{
		listings:  listings,
		board:     board,
		photos:    photos,
		inquiries: inquiries,
		tokens:    tokens,
		logger:    log,
	}
}

// appHandler is a handler that reports failures by returning them.
type appHandler func(w http.ResponseWriter, r *http.Request) error

func (h *Handler) wrap(fn appHandler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		err := fn(w, r)
		if err == nil {
			return
		}
		status, msg := statusFor(err)
		if status >= http.StatusInternalServerError {
			h.logger.Error("HTTP handler failed", "method", r.Method, "path", r.URL.Path, "error", err.Error())
		} else {
			h.logger.Debug("HTTP client error", "method", r.Method, "path", r.URL.Path, "status", status, "error", err.Error())
		}
		respondError(w, status, msg)
	}
}

func (h *Handler) createSession(w http.ResponseWriter, r *http.Request) error {
	var req struct {
		Email string `json:"email"`
	}
	if err := decodeJSON(r, &req); err != nil {
		return err
	}
	sessionID, identity, err := h.board.SignIn(r.Context(), req.Email)
	if err != nil {
		return err
	}
	token, expiresAt, err := h.tokens.Issue(sessionID, identity.Email)
	if err != nil {
		return err
	}
	respondJSON(w, http.StatusCreated, sessionResponse{
		Token:     token,
		ExpiresAt: expiresAt.UnixMilli(),
		User:      toUserResponse(&identity),
	})
	return nil
}

func (h *Handler) getSession(w http.ResponseWriter, r *http.Request) error {
	_, identity := sessionFromContext(r.Context())
	respondJSON(w, http.StatusOK, sessionResponse{User: toUserResponse(identity)})
	return nil
}

func (h *Handler) deleteSession(w http.ResponseWriter, r *http.Request) error {
	sessionID, _ := sessionFromContext(r.Context())
	if sessionID == "" {
		return domain.ErrNotSignedIn
	}
	if err := h.board.SignOut(r.Context(), sessionID); err != nil {
		return err
	}
	w.WriteHeader(http.StatusNoContent)
	return nil
}

func (h *Handler) listListings(w http.ResponseWriter, r *http.Request) error {
	q, err := parseQuery(r)
	if err != nil {
		return err
	}
	listings, err := h.listings.Search(r.Context(), q)
	if err != nil {
		return err
	}
	_, viewer := sessionFromContext(r.Context())
	respondJSON(w, http.StatusOK, toListingResponses(listings, viewer))
	return nil
}

func (h *Handler) getListing(w http.ResponseWriter, r *http.Request) error {
	listing, err := h.listings.Get(r.Context(), chi.URLParam(r, paramID))
	if err != nil {
		return err
	}
	_, viewer := sessionFromContext(r.Context())
	respondJSON(w, http.StatusOK, toListingResponse(listing, viewer))
	return nil
}

func (h *Handler) createListing(w http.ResponseWriter, r *http.Request) error {
	identity, err := requireIdentity(r.Context())
	if err != nil {
		return err
	}
	var req listingRequest
	if err := decodeJSON(r, &req); err != nil {
		return err
	}
	photo, err := req.photo()
	if err != nil {
		return err
	}
	listing, err := h.listings.Create(r.Context(), identity.Email, req.fields(), photo)
	if err != nil {
		return err
	}
	respondJSON(w, http.StatusCreated, toListingResponse(listing, identity))
	return nil
}

func (h *Handler) updateListing(w http.ResponseWriter, r *http.Request) error {
	identity, err := requireIdentity(r.Context())
	if err != nil {
		return err
	}
	var req listingRequest
	if err := decodeJSON(r, &req); err != nil {
		return err
	}
	photo, err := req.photo()
	if err != nil {
		return err
	}
	listing, err := h.listings.Update(r.Context(), chi.URLParam(r, paramID), identity.Email, req.fields(), photo)
	if err != nil {
		return err
	}
	respondJSON(w, http.StatusOK, toListingResponse(listing, identity))
	return nil
}

func (h *Handler) deleteListing(w http.ResponseWriter, r *http.Request) error {
	identity, err := requireIdentity(r.Context())
	if err != nil {
		return err
	}
	id := chi.URLParam(r, paramID)
	removed, err := h.listings.Delete(r.Context(), id, identity.Email)
	if err != nil {
		return err
	}
	if !removed {
		return &domain.NotFoundError{ID: id}
	}
	w.WriteHeader(http.StatusNoContent)
	return nil
}

func (h *Handler) editorState(w http.ResponseWriter, r *http.Request) error {
	sessionID, _, err := requireSession(r.Context())
	if err != nil {
		return err
	}
	respondJSON(w, http.StatusOK, editorView(h.board.Editor(sessionID), nil))
	return nil
}

func (h *Handler) beginEdit(w http.ResponseWriter, r *http.Request) error {
	sessionID, identity, err := requireSession(r.Context())
	if err != nil {
		return err
	}
	listing, err := h.listings.Get(r.Context(), chi.URLParam(r, paramID))
	if err != nil {
		return err
	}
	editor := h.board.Editor(sessionID)
	if err := editor.BeginEdit(listing, identity); err != nil {
		return err
	}
	view := toListingResponse(listing, identity)
	respondJSON(w, http.StatusOK, editorView(editor, &view))
	return nil
}

func (h *Handler) cancelEdit(w http.ResponseWriter, r *http.Request) error {
	sessionID, _, err := requireSession(r.Context())
	if err != nil {
		return err
	}
	h.board.Editor(sessionID).CancelEdit()
	w.WriteHeader(http.StatusNoContent)
	return nil
}

func (h *Handler) uploadPhoto(w http.ResponseWriter, r *http.Request) error {
	sessionID, _, err := requireSession(r.Context())
	if err != nil {
		return err
	}
	r.Body = http.MaxBytesReader(w, r.Body, maxPhotoRequestBytes)
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			return &domain.ValidationError{Field: "photo", Err: domain.ErrPhotoTooLarge}
		}
		return errBadRequest("invalid multipart form", err)
	}
	file, header, err := r.FormFile("photo")
	if err != nil {
		return &domain.ValidationError{Field: "photo", Err: domain.ErrMissingRequiredField}
	}
	defer file.Close()

	value, applied, err := h.photos.Load(r.Context(), h.board.Editor(sessionID).Photo(),
		header.Filename, header.Header.Get(headerContentType), file)
	if err != nil {
		return err
	}
	respondJSON(w, http.StatusOK, photoResponse{Photo: value, Applied: applied})
	return nil
}

func (h *Handler) commitEdit(w http.ResponseWriter, r *http.Request) error {
	sessionID, identity, err := requireSession(r.Context())
	if err != nil {
		return err
	}
	var req listingRequest
	if err := decodeJSON(r, &req); err != nil {
		return err
	}
	editor := h.board.Editor(sessionID)
	mode, _ := editor.State()
	listing, err := editor.Commit(r.Context(), identity, req.fields(), h.listings)
	if err != nil {
		return err
	}
	status := http.StatusOK
	if mode == domain.ModeCreating {
		status = http.StatusCreated
	}
	respondJSON(w, status, toListingResponse(listing, identity))
	return nil
}

func (h *Handler) contactSeller(w http.ResponseWriter, r *http.Request) error {
	identity, err := requireIdentity(r.Context())
	if err != nil {
		return err
	}
	var req inquiryRequest
	if err := decodeJSON(r, &req); err != nil {
		return err
	}
	if err := h.inquiries.ContactSeller(r.Context(), chi.URLParam(r, paramID), identity, req.Message); err != nil {
		return err
	}
	respondJSON(w, http.StatusAccepted, map[string]string{"status": "sent"})
	return nil
}

func healthz(w http.ResponseWriter, _ *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func editorView(editor *usecase.EditSession, listing *listingResponse) editorResponse {
	mode, id := editor.State()
	return editorResponse{Mode: mode, ListingID: id, Photo: editor.Photo().Current(), Listing: listing}
}

// parseQuery reads q, minPrice and maxPrice. Blank bounds mean no bound.
func parseQuery(r *http.Request) (domain.Query, error) {
	values := r.URL.Query()
	q := domain.Query{Text: values.Get("q")}
	for _, bound := range []struct {
		name string
		dst  *float64
	}{
		{"minPrice", &q.MinPrice},
		{"maxPrice", &q.MaxPrice},
	} {
		raw := strings.TrimSpace(values.Get(bound.name))
		if raw == "" {
			continue
		}
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return domain.Query{}, &domain.ValidationError{Field: bound.name, Err: domain.ErrInvalidField}
		}
		*bound.dst = v
	}
	return q, nil
}
