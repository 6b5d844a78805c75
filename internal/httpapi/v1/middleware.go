package v1

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/tablebook/reservations/internal/service/booking"
)

type ctxKey string

const ctxKeyPayload ctxKey = "decodedReservation"

// decodeReservation parses the JSON body of a create/update request and
// stores the payload in the request context for the handler to use. Rule
// validation stays in the service; only malformed requests are rejected here.
func (s *Server) decodeReservation() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !requireJSON(w, r) {
				return
			}
			var req reservationRequest
			if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
				badRequest(w, "invalid JSON: "+err.Error())
				return
			}
			p := booking.Payload{
				FirstName:   req.FirstName,
				LastName:    req.LastName,
				ScheduledAt: req.Datetime,
				Phone:       req.PhoneNumber,
				PartySize:   req.NumberOfGuests,
			}
			ctx := context.WithValue(r.Context(), ctxKeyPayload, p)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func payloadFrom(ctx context.Context) booking.Payload {
	p, _ := ctx.Value(ctxKeyPayload).(booking.Payload)
	return p
}
