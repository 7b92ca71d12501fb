package rest

import (
	"net/http"
	"time"

	"github.com/Abdurahmanit/GroupProject/campus-cars/internal/listing/usecase"
	"github.com/Abdurahmanit/GroupProject/campus-cars/internal/platform/logger"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

const (
	apiBasePath     = "/api"
	sessionPath     = "/session"
	listingsPath    = "/listings"
	editorPath      = "/editor"
	multipartMemory = 1 << 20

	maxPhotoRequestBytes = usecase.DefaultMaxPhotoBytes + multipartMemory
)

type RouterOptions struct {
	RateLimiter *RateLimiter
	Metrics     RequestObserver
	Timeout     time.Duration
}

func NewRouter(h *Handler, log *logger.Logger, opts RouterOptions) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(RequestLogger(log))
	r.Use(middleware.Recoverer)
	if opts.Metrics != nil {
		r.Use(Metrics(opts.Metrics))
	}
	if opts.Timeout > 0 {
		r.Use(middleware.Timeout(opts.Timeout))
	}

	r.Get("/healthz", healthz)

	r.Route(apiBasePath, func(r chi.Router) {
		if opts.RateLimiter != nil {
			r.Use(opts.RateLimiter.Middleware)
		}
		r.Use(h.Session)

		r.Route(sessionPath, func(r chi.Router) {
			r.Get("/", h.wrap(h.getSession))
			r.Post("/", h.wrap(h.createSession))
			r.Delete("/", h.wrap(h.deleteSession))
		})

		r.Route(listingsPath, func(r chi.Router) {
			r.Get("/", h.wrap(h.listListings))
			r.Post("/", h.wrap(h.createListing))
			r.Route("/{"+paramID+"}", func(r chi.Router) {
				r.Get("/", h.wrap(h.getListing))
				r.Put("/", h.wrap(h.updateListing))
				r.Delete("/", h.wrap(h.deleteListing))
				r.Post("/inquiries", h.wrap(h.contactSeller))
			})
		})

		r.Route(editorPath, func(r chi.Router) {
			r.Get("/", h.wrap(h.editorState))
			r.Delete("/", h.wrap(h.cancelEdit))
			r.Post("/edit/{"+paramID+"}", h.wrap(h.beginEdit))
			r.Post("/photo", h.wrap(h.uploadPhoto))
			r.Post("/commit", h.wrap(h.commitEdit))
		})
	})

	return r
}
