package http

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"video-rental-store/internal/logger"
	"video-rental-store/internal/security"
	"video-rental-store/internal/service"
)

const maxBodyBytes = 1 << 20

// Pinger reports whether the backing store is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Services holds all service dependencies needed by the HTTP handlers
type Services struct {
	Genres    service.GenreService
	Movies    service.MovieService
	Customers service.CustomerService
	Rentals   service.RentalService
	Auth      service.AuthService
	Users     service.UserService
}

type Handler struct {
	svc      Services
	tokens   security.TokenManager
	health   Pinger
	validate *validator.Validate
}

func NewHandler(svc Services, tokens security.TokenManager, health Pinger) *Handler {
	return &Handler{
		svc:      svc,
		tokens:   tokens,
		health:   health,
		validate: NewValidator(),
	}
}

// NewRouter registers every API route on a gorilla/mux router.
func NewRouter(h *Handler) *mux.Router {
	r := mux.NewRouter()
	r.Use(requestIDMiddleware, accessLogMiddleware, recoverMiddleware)

	authed := authenticate(h.tokens)
	protect := func(f http.HandlerFunc) http.Handler { return authed(f) }
	admin := func(f http.HandlerFunc) http.Handler { return authed(requireAdmin(f)) }

	r.HandleFunc("/healthz", h.healthz).Methods(http.MethodGet)

	api := r.PathPrefix("/api").Subrouter()

	api.HandleFunc("/genres", h.listGenres).Methods(http.MethodGet)
	api.Handle("/genres", protect(h.createGenre)).Methods(http.MethodPost)
	api.HandleFunc("/genres/{id}", h.getGenre).Methods(http.MethodGet)
	api.Handle("/genres/{id}", protect(h.updateGenre)).Methods(http.MethodPut)
	api.Handle("/genres/{id}", admin(h.deleteGenre)).Methods(http.MethodDelete)

	api.HandleFunc("/movies", h.listMovies).Methods(http.MethodGet)
	api.Handle("/movies", protect(h.createMovie)).Methods(http.MethodPost)
	api.HandleFunc("/movies/{id}", h.getMovie).Methods(http.MethodGet)
	api.Handle("/movies/{id}", protect(h.updateMovie)).Methods(http.MethodPut)
	api.Handle("/movies/{id}", admin(h.deleteMovie)).Methods(http.MethodDelete)

	api.Handle("/customers", protect(h.listCustomers)).Methods(http.MethodGet)
	api.Handle("/customers", protect(h.createCustomer)).Methods(http.MethodPost)
	api.Handle("/customers/{id}", protect(h.getCustomer)).Methods(http.MethodGet)
	api.Handle("/customers/{id}", protect(h.updateCustomer)).Methods(http.MethodPut)
	api.Handle("/customers/{id}", protect(h.deleteCustomer)).Methods(http.MethodDelete)

	api.HandleFunc("/users", h.register).Methods(http.MethodPost)
	api.Handle("/users/me", protect(h.me)).Methods(http.MethodGet)
	api.HandleFunc("/auth", h.login).Methods(http.MethodPost)

	api.Handle("/rentals", protect(h.listRentals)).Methods(http.MethodGet)
	api.Handle("/rentals", protect(h.checkout)).Methods(http.MethodPost)
	api.Handle("/rentals/{id}", protect(h.getRental)).Methods(http.MethodGet)
	api.Handle("/returns", protect(h.processReturn)).Methods(http.MethodPost)

	return r
}

func (h *Handler) healthz(w http.ResponseWriter, r *http.Request) {
	if err := h.health.Ping(r.Context()); err != nil {
		logger.ErrorContext(r.Context(), "Health check failed", "error", err)
		http.Error(w, "Store unavailable.", http.StatusServiceUnavailable)
		return
	}
	writeJSON(w, r, http.StatusOK, map[string]string{"status": "ok"})
}

// decodeAndValidate reads a JSON body into dst and runs its validate tags.
// It writes the 400 response itself and reports whether to continue.
func (h *Handler) decodeAndValidate(w http.ResponseWriter, r *http.Request, dst any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		http.Error(w, "Invalid JSON body.", http.StatusBadRequest)
		return false
	}
	if err := h.validate.Struct(dst); err != nil {
		http.Error(w, validationMessage(err), http.StatusBadRequest)
		return false
	}
	return true
}

// pathID parses the {id} route variable. Malformed ids are reported as not
// found, the same as ids that match nothing.
func pathID(r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		return uuid.Nil, false
	}
	return id, true
}

func writeJSON(w http.ResponseWriter, r *http.Request, status int, body any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		logger.ErrorContext(r.Context(), "Failed to encode response", "error", err)
	}
}

// internalError logs err and answers 500 without leaking details.
func internalError(w http.ResponseWriter, r *http.Request, op string, err error) {
	logger.ErrorContext(r.Context(), "Request failed", "operation", op, "error", err)
	http.Error(w, "Something failed.", http.StatusInternalServerError)
}
