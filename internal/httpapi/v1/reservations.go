package v1

import (
	"errors"
	"net/http"
	"strconv"

	chi "github.com/go-chi/chi/v5"

	"github.com/tablebook/reservations/internal/errs"
	"github.com/tablebook/reservations/internal/reservation"
	"github.com/tablebook/reservations/internal/service/booking"
)

// getReservationViaToken fetches one upcoming reservation by its capability
// token.
func (s *Server) getReservationViaToken(w http.ResponseWriter, r *http.Request) {
	token := r.URL.Query().Get("reservation_token")
	res, err := s.svc.GetByToken(r.Context(), token)
	if errors.Is(err, errs.ErrNotFound) {
		notFound(w, booking.MsgNotFound)
		return
	}
	if err != nil {
		s.log.Error("token lookup failed", "err", err)
		storageError(w, "Error fetching reservation")
		return
	}
	toJSON(w, http.StatusOK, reservationResponse{
		FirstName:      res.FirstName,
		LastName:       res.LastName,
		Datetime:       reservation.FormatDateTime(res.ScheduledAt),
		PhoneNumber:    res.Phone,
		NumberOfGuests: res.PartySize,
	})
}

// addReservation creates a reservation and returns the generated token.
func (s *Server) addReservation(w http.ResponseWriter, r *http.Request) {
	token, violations, err := s.svc.Create(r.Context(), payloadFrom(r.Context()))
	if err != nil {
		s.log.Error("insert failed", "err", err)
		storageError(w, "Error in the INSERT")
		return
	}
	if len(violations) > 0 {
		unprocessable(w, violations)
		return
	}
	toJSON(w, http.StatusOK, token)
}

// updateReservation overwrites the mutable fields of an existing reservation.
func (s *Server) updateReservation(w http.ResponseWriter, r *http.Request) {
	id, ok := reservationID(w, r)
	if !ok {
		return
	}
	violations, err := s.svc.Update(r.Context(), id, payloadFrom(r.Context()))
	if err != nil {
		s.log.Error("update failed", "id", id, "err", err)
		storageError(w, "Error updating reservation")
		return
	}
	if len(violations) > 0 {
		unprocessable(w, violations)
		return
	}
	toJSON(w, http.StatusOK, messageResponse{Message: "Reservation updated successfully"})
}

// deleteReservation removes a reservation.
func (s *Server) deleteReservation(w http.ResponseWriter, r *http.Request) {
	id, ok := reservationID(w, r)
	if !ok {
		return
	}
	violations, err := s.svc.Delete(r.Context(), id)
	if err != nil {
		s.log.Error("delete failed", "id", id, "err", err)
		storageError(w, "Error deleting reservation")
		return
	}
	if len(violations) > 0 {
		unprocessable(w, violations)
		return
	}
	toJSON(w, http.StatusOK, messageResponse{Message: "Reservation deleted successfully"})
}

// listReservations returns all reservations from the start of the current day
// onward, without id, token or phone number.
func (s *Server) listReservations(w http.ResponseWriter, r *http.Request) {
	items, err := s.svc.ListUpcoming(r.Context())
	if err != nil {
		s.log.Error("list failed", "err", err)
		storageError(w, "Error fetching reservations")
		return
	}
	out := make([]listItemResponse, 0, len(items))
	for _, res := range items {
		out = append(out, listItemResponse{
			FirstName:      res.FirstName,
			LastName:       res.LastName,
			Datetime:       reservation.FormatDateTime(res.ScheduledAt),
			NumberOfGuests: res.PartySize,
		})
	}
	toJSON(w, http.StatusOK, out)
}

func reservationID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		badRequest(w, "invalid reservation id")
		return 0, false
	}
	return id, true
}
