// Package booking holds the reservation rules: payload validation, slot
// capacity, the advance-notice window and the edit window, plus the thin
// orchestration over the store that the HTTP layer calls into.
package booking

import (
	"context"
	"errors"
	"time"

	"github.com/tablebook/reservations/internal/errs"
	"github.com/tablebook/reservations/internal/reservation"
)

// Validation messages. These are the user-facing texts returned in 422
// responses; tests assert on them verbatim.
const (
	MsgGuestsRange   = "Number of guests should be between 1 and 5"
	MsgBadDatetime   = "Invalid datetime format. Use YYYY-MM-DD HH:MM"
	MsgServiceHours  = "Reservation time should be between 6:00 PM and 9:30 PM"
	MsgSlotBoundary  = "Reservation time should be divisible by 30 minutes (e.g., 6:00 PM, 6:30 PM, etc.)"
	MsgAdvanceNotice = "Reservation date should be at least 2 days in advance"
	MsgSlotFull      = "There can only be 3 reservations made per 30 minutes."
	MsgNotFound      = "Reservation not found"
	MsgEditWindow    = "Reservation to be updated must not be within two days from now"
)

// Repo defines read operations needed by the service.
type Repo interface {
	ReservationByID(ctx context.Context, id int64) (reservation.Reservation, error)
	ReservationByToken(ctx context.Context, token string, now time.Time) (reservation.Reservation, error)
	ListFrom(ctx context.Context, from time.Time) ([]reservation.Reservation, error)
	CountInRange(ctx context.Context, start, end time.Time) (int, error)
}

// Writer defines write operations needed by the service.
type Writer interface {
	Insert(ctx context.Context, r reservation.Reservation) (reservation.Reservation, error)
	Update(ctx context.Context, r reservation.Reservation) error
	Delete(ctx context.Context, id int64) error
}

// Payload carries the fields of a create/update request as submitted.
// PartySize is a pointer so that an absent field is distinguishable from an
// explicit zero.
type Payload struct {
	FirstName   string
	LastName    string
	ScheduledAt string
	Phone       string
	PartySize   *int
}

// Service exposes validation and the reservation operations.
//
// Validation methods return the ordered list of human-readable rule
// violations; an empty list is the only success signal. The error return is
// reserved for storage faults, never for rule violations.
type Service interface {
	ValidatePayload(ctx context.Context, p Payload) ([]string, error)
	ValidateTarget(ctx context.Context, id int64) ([]string, error)
	Create(ctx context.Context, p Payload) (string, []string, error)
	Update(ctx context.Context, id int64, p Payload) ([]string, error)
	Delete(ctx context.Context, id int64) ([]string, error)
	GetByToken(ctx context.Context, token string) (reservation.Reservation, error)
	ListUpcoming(ctx context.Context) ([]reservation.Reservation, error)
}

type service struct {
	repo   Repo
	writer Writer
	now    func() time.Time
}

// New constructs the booking service over the given store.
func New(repo Repo, writer Writer) Service {
	return &service{repo: repo, writer: writer, now: time.Now}
}

// ValidatePayload checks a proposed reservation payload against the booking
// rules in order: required fields, party size, then the datetime rules.
// A datetime parse failure contributes a single message and skips the
// datetime-dependent checks.
func (s *service) ValidatePayload(ctx context.Context, p Payload) ([]string, error) {
	var violations []string

	if p.FirstName == "" {
		violations = append(violations, fieldRequired("reservation_first_name"))
	}
	if p.LastName == "" {
		violations = append(violations, fieldRequired("reservation_last_name"))
	}
	if p.ScheduledAt == "" {
		violations = append(violations, fieldRequired("reservation_datetime"))
	}
	if p.Phone == "" {
		violations = append(violations, fieldRequired("phone_number"))
	}
	if p.PartySize == nil {
		violations = append(violations, fieldRequired("number_of_guests"))
	}

	// An absent party size counts as 0 and always fails the range check.
	guests := 0
	if p.PartySize != nil {
		guests = *p.PartySize
	}
	if guests < 1 || guests > reservation.MaxPartySize {
		violations = append(violations, MsgGuestsRange)
	}

	if p.ScheduledAt != "" {
		at, err := reservation.ParseDateTime(p.ScheduledAt)
		if err != nil {
			violations = append(violations, MsgBadDatetime)
			return violations, nil
		}
		if !reservation.InServiceWindow(at) {
			violations = append(violations, MsgServiceHours)
		}
		if !reservation.OnSlotBoundary(at) {
			violations = append(violations, MsgSlotBoundary)
		}
		today := reservation.DateOf(s.now())
		if !reservation.DateOf(at).After(today.AddDate(0, 0, 1)) {
			violations = append(violations, MsgAdvanceNotice)
		}
		n, err := s.repo.CountInRange(ctx, at, at.Add(reservation.SlotDuration))
		if err != nil {
			return nil, err
		}
		if n >= reservation.SlotCapacity {
			violations = append(violations, MsgSlotFull)
		}
	}
	return violations, nil
}

// ValidateTarget checks that an existing reservation may be modified or
// deleted. A missing record short-circuits before anything reads its fields.
func (s *service) ValidateTarget(ctx context.Context, id int64) ([]string, error) {
	existing, err := s.repo.ReservationByID(ctx, id)
	if errors.Is(err, errs.ErrNotFound) {
		return []string{MsgNotFound}, nil
	}
	if err != nil {
		return nil, err
	}

	// The edit window is checked against the current, not the proposed, date.
	today := reservation.DateOf(s.now())
	if !reservation.DateOf(existing.ScheduledAt).After(today.AddDate(0, 0, 1)) {
		return []string{MsgEditWindow}, nil
	}
	return nil, nil
}

func (s *service) Create(ctx context.Context, p Payload) (string, []string, error) {
	violations, err := s.ValidatePayload(ctx, p)
	if err != nil {
		return "", nil, err
	}
	if len(violations) > 0 {
		return "", violations, nil
	}
	at, _ := reservation.ParseDateTime(p.ScheduledAt)
	saved, err := s.writer.Insert(ctx, reservation.Reservation{
		FirstName:   p.FirstName,
		LastName:    p.LastName,
		Phone:       p.Phone,
		PartySize:   *p.PartySize,
		ScheduledAt: at,
	})
	if err != nil {
		return "", nil, err
	}
	return saved.Token, nil, nil
}

func (s *service) Update(ctx context.Context, id int64, p Payload) ([]string, error) {
	violations, err := s.ValidateTarget(ctx, id)
	if err != nil || len(violations) > 0 {
		return violations, err
	}
	violations, err = s.ValidatePayload(ctx, p)
	if err != nil || len(violations) > 0 {
		return violations, err
	}
	at, _ := reservation.ParseDateTime(p.ScheduledAt)
	return nil, s.writer.Update(ctx, reservation.Reservation{
		ID:          id,
		FirstName:   p.FirstName,
		LastName:    p.LastName,
		Phone:       p.Phone,
		PartySize:   *p.PartySize,
		ScheduledAt: at,
	})
}

func (s *service) Delete(ctx context.Context, id int64) ([]string, error) {
	violations, err := s.ValidateTarget(ctx, id)
	if err != nil || len(violations) > 0 {
		return violations, err
	}
	return nil, s.writer.Delete(ctx, id)
}

// GetByToken returns the reservation for the capability token, only while it
// is still upcoming.
func (s *service) GetByToken(ctx context.Context, token string) (reservation.Reservation, error) {
	return s.repo.ReservationByToken(ctx, token, reservation.Naive(s.now()))
}

// ListUpcoming returns reservations from the start of the current day onward,
// in storage order.
func (s *service) ListUpcoming(ctx context.Context) ([]reservation.Reservation, error) {
	return s.repo.ListFrom(ctx, reservation.DateOf(s.now()))
}

func fieldRequired(column string) string {
	return "Field '" + column + "' is required"
}
