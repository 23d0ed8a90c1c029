package http

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"video-rental-store/internal/repository"
	"video-rental-store/internal/service"
)

func (h *Handler) checkout(w http.ResponseWriter, r *http.Request) {
	var req rentalRequest
	if !h.decodeAndValidate(w, r, &req) {
		return
	}

	rental, err := h.svc.Rentals.Checkout(r.Context(), uuid.MustParse(req.CustomerID), uuid.MustParse(req.MovieID))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrCustomerNotFound):
			http.Error(w, fmt.Sprintf("Customer with id: %s not found.", req.CustomerID), http.StatusBadRequest)
		case errors.Is(err, service.ErrMovieNotFound):
			http.Error(w, fmt.Sprintf("Movie with id: %s not found.", req.MovieID), http.StatusBadRequest)
		case errors.Is(err, service.ErrOutOfStock):
			http.Error(w, "Movie not in stock.", http.StatusBadRequest)
		default:
			internalError(w, r, "Checkout", err)
		}
		return
	}
	writeJSON(w, r, http.StatusOK, toRentalResponse(*rental))
}

func (h *Handler) processReturn(w http.ResponseWriter, r *http.Request) {
	var req rentalRequest
	if !h.decodeAndValidate(w, r, &req) {
		return
	}

	rental, err := h.svc.Rentals.ProcessReturn(r.Context(), uuid.MustParse(req.CustomerID), uuid.MustParse(req.MovieID))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrRentalNotFound):
			http.Error(w, "Rental not found.", http.StatusNotFound)
		case errors.Is(err, service.ErrAlreadyProcessed):
			http.Error(w, "Return already processed.", http.StatusBadRequest)
		case errors.Is(err, service.ErrMovieNotFound):
			http.Error(w, "Movie not found.", http.StatusNotFound)
		default:
			internalError(w, r, "ProcessReturn", err)
		}
		return
	}
	writeJSON(w, r, http.StatusOK, toRentalResponse(*rental))
}

func (h *Handler) listRentals(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	var filter repository.RentalFilter
	for key, dst := range map[string]*uuid.UUID{"customerId": &filter.CustomerID, "movieId": &filter.MovieID} {
		if raw := q.Get(key); raw != "" {
			id, err := uuid.Parse(raw)
			if err != nil {
				http.Error(w, "Invalid "+key+".", http.StatusBadRequest)
				return
			}
			*dst = id
		}
	}
	filter.OpenOnly = q.Get("open") == "true"

	rentals, err := h.svc.Rentals.ListRentals(r.Context(), filter)
	if err != nil {
		internalError(w, r, "ListRentals", err)
		return
	}
	writeJSON(w, r, http.StatusOK, mapSlice(rentals, toRentalDetailResponse))
}

func (h *Handler) getRental(w http.ResponseWriter, r *http.Request) {
	notFound := fmt.Sprintf("Rental with id: %s not found.", mux.Vars(r)["id"])
	id, ok := pathID(r)
	if !ok {
		http.Error(w, notFound, http.StatusNotFound)
		return
	}
	rental, err := h.svc.Rentals.GetRental(r.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrRentalNotFound) {
			http.Error(w, notFound, http.StatusNotFound)
			return
		}
		internalError(w, r, "GetRental", err)
		return
	}
	writeJSON(w, r, http.StatusOK, toRentalDetailResponse(*rental))
}
