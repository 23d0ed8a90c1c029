package http

import (
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"video-rental-store/internal/domain"
	"video-rental-store/internal/service"
)

const (
	msgGenreNotFound    = "The genre with the given ID was not found."
	msgMovieNotFound    = "The movie with the given ID was not found."
	msgCustomerNotFound = "The customer with the given ID was not found."
)

func (h *Handler) listGenres(w http.ResponseWriter, r *http.Request) {
	genres, err := h.svc.Genres.ListGenres(r.Context())
	if err != nil {
		internalError(w, r, "ListGenres", err)
		return
	}
	writeJSON(w, r, http.StatusOK, mapSlice(genres, toGenreResponse))
}

func (h *Handler) getGenre(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		http.Error(w, msgGenreNotFound, http.StatusNotFound)
		return
	}
	g, err := h.svc.Genres.GetGenre(r.Context(), id)
	if err != nil {
		h.genreError(w, r, "GetGenre", err)
		return
	}
	writeJSON(w, r, http.StatusOK, toGenreResponse(*g))
}

func (h *Handler) createGenre(w http.ResponseWriter, r *http.Request) {
	var req genreRequest
	if !h.decodeAndValidate(w, r, &req) {
		return
	}
	g, err := h.svc.Genres.CreateGenre(r.Context(), req.Name)
	if err != nil {
		internalError(w, r, "CreateGenre", err)
		return
	}
	writeJSON(w, r, http.StatusOK, toGenreResponse(*g))
}

func (h *Handler) updateGenre(w http.ResponseWriter, r *http.Request) {
	var req genreRequest
	if !h.decodeAndValidate(w, r, &req) {
		return
	}
	id, ok := pathID(r)
	if !ok {
		http.Error(w, msgGenreNotFound, http.StatusNotFound)
		return
	}
	g, err := h.svc.Genres.UpdateGenre(r.Context(), id, req.Name)
	if err != nil {
		h.genreError(w, r, "UpdateGenre", err)
		return
	}
	writeJSON(w, r, http.StatusOK, toGenreResponse(*g))
}

func (h *Handler) deleteGenre(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		http.Error(w, msgGenreNotFound, http.StatusNotFound)
		return
	}
	g, err := h.svc.Genres.DeleteGenre(r.Context(), id)
	if err != nil {
		h.genreError(w, r, "DeleteGenre", err)
		return
	}
	writeJSON(w, r, http.StatusOK, toGenreResponse(*g))
}

func (h *Handler) genreError(w http.ResponseWriter, r *http.Request, op string, err error) {
	if errors.Is(err, service.ErrGenreNotFound) {
		http.Error(w, msgGenreNotFound, http.StatusNotFound)
		return
	}
	internalError(w, r, op, err)
}

func (h *Handler) listMovies(w http.ResponseWriter, r *http.Request) {
	movies, err := h.svc.Movies.ListMovies(r.Context())
	if err != nil {
		internalError(w, r, "ListMovies", err)
		return
	}
	writeJSON(w, r, http.StatusOK, mapSlice(movies, toMovieResponse))
}

func (h *Handler) getMovie(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		http.Error(w, msgMovieNotFound, http.StatusNotFound)
		return
	}
	m, err := h.svc.Movies.GetMovie(r.Context(), id)
	if err != nil {
		h.movieError(w, r, "GetMovie", err)
		return
	}
	writeJSON(w, r, http.StatusOK, toMovieResponse(*m))
}

func (h *Handler) createMovie(w http.ResponseWriter, r *http.Request) {
	var req movieRequest
	if !h.decodeAndValidate(w, r, &req) {
		return
	}
	m, err := h.svc.Movies.CreateMovie(r.Context(), movieInput(req))
	if err != nil {
		h.movieError(w, r, "CreateMovie", err)
		return
	}
	writeJSON(w, r, http.StatusOK, toMovieResponse(*m))
}

func (h *Handler) updateMovie(w http.ResponseWriter, r *http.Request) {
	var req movieRequest
	if !h.decodeAndValidate(w, r, &req) {
		return
	}
	id, ok := pathID(r)
	if !ok {
		http.Error(w, msgMovieNotFound, http.StatusNotFound)
		return
	}
	m, err := h.svc.Movies.UpdateMovie(r.Context(), id, movieInput(req))
	if err != nil {
		h.movieError(w, r, "UpdateMovie", err)
		return
	}
	writeJSON(w, r, http.StatusOK, toMovieResponse(*m))
}

func (h *Handler) deleteMovie(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		http.Error(w, msgMovieNotFound, http.StatusNotFound)
		return
	}
	m, err := h.svc.Movies.DeleteMovie(r.Context(), id)
	if err != nil {
		h.movieError(w, r, "DeleteMovie", err)
		return
	}
	writeJSON(w, r, http.StatusOK, toMovieResponse(*m))
}

func (h *Handler) movieError(w http.ResponseWriter, r *http.Request, op string, err error) {
	switch {
	case errors.Is(err, service.ErrMovieNotFound):
		http.Error(w, msgMovieNotFound, http.StatusNotFound)
	case errors.Is(err, service.ErrGenreNotFound):
		http.Error(w, "Invalid genre.", http.StatusBadRequest)
	default:
		internalError(w, r, op, err)
	}
}

// movieInput converts a validated request; the uuid tag guarantees GenreID parses.
func movieInput(req movieRequest) service.MovieInput {
	return service.MovieInput{
		Title:           req.Title,
		GenreID:         uuid.MustParse(req.GenreID),
		NumberInStock:   *req.NumberInStock,
		DailyRentalRate: decimal.NewFromFloat(*req.DailyRentalRate),
	}
}

func (h *Handler) listCustomers(w http.ResponseWriter, r *http.Request) {
	customers, err := h.svc.Customers.ListCustomers(r.Context())
	if err != nil {
		internalError(w, r, "ListCustomers", err)
		return
	}
	writeJSON(w, r, http.StatusOK, mapSlice(customers, toCustomerResponse))
}

func (h *Handler) getCustomer(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		http.Error(w, msgCustomerNotFound, http.StatusNotFound)
		return
	}
	c, err := h.svc.Customers.GetCustomer(r.Context(), id)
	if err != nil {
		h.customerError(w, r, "GetCustomer", err)
		return
	}
	writeJSON(w, r, http.StatusOK, toCustomerResponse(*c))
}

func (h *Handler) createCustomer(w http.ResponseWriter, r *http.Request) {
	var req customerRequest
	if !h.decodeAndValidate(w, r, &req) {
		return
	}
	c := &domain.Customer{Name: req.Name, Phone: req.Phone, IsGold: req.IsGold}
	if err := h.svc.Customers.CreateCustomer(r.Context(), c); err != nil {
		internalError(w, r, "CreateCustomer", err)
		return
	}
	writeJSON(w, r, http.StatusOK, toCustomerResponse(*c))
}

func (h *Handler) updateCustomer(w http.ResponseWriter, r *http.Request) {
	var req customerRequest
	if !h.decodeAndValidate(w, r, &req) {
		return
	}
	id, ok := pathID(r)
	if !ok {
		http.Error(w, msgCustomerNotFound, http.StatusNotFound)
		return
	}
	c := &domain.Customer{ID: id, Name: req.Name, Phone: req.Phone, IsGold: req.IsGold}
	if err := h.svc.Customers.UpdateCustomer(r.Context(), c); err != nil {
		h.customerError(w, r, "UpdateCustomer", err)
		return
	}
	writeJSON(w, r, http.StatusOK, toCustomerResponse(*c))
}

func (h *Handler) deleteCustomer(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		http.Error(w, msgCustomerNotFound, http.StatusNotFound)
		return
	}
	c, err := h.svc.Customers.DeleteCustomer(r.Context(), id)
	if err != nil {
		h.customerError(w, r, "DeleteCustomer", err)
		return
	}
	writeJSON(w, r, http.StatusOK, toCustomerResponse(*c))
}

func (h *Handler) customerError(w http.ResponseWriter, r *http.Request, op string, err error) {
	if errors.Is(err, service.ErrCustomerNotFound) {
		http.Error(w, msgCustomerNotFound, http.StatusNotFound)
		return
	}
	internalError(w, r, op, err)
}
