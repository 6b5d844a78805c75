package memory

// Package memory provides a simple in-memory implementation used for
// development and tests. It keeps code paths easy to follow while allowing us
// to plug in a real DB later.

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/tablebook/reservations/internal/errs"
	"github.com/tablebook/reservations/internal/reservation"
)

// Store is an in-memory reservation table guarded by an RWMutex.
// List order is insertion order, matching what a scan of an auto-increment
// table returns.
type Store struct {
	mu    sync.RWMutex
	seq   int64
	byID  map[int64]*reservation.Reservation
	order []int64
}

// New constructs an empty in-memory store.
func New() *Store {
	return &Store{byID: make(map[int64]*reservation.Reservation)}
}

// Seed inserts a reservation bypassing validation, for tests. A zero ID gets
// the next sequence value; an empty token gets a fresh one.
func (s *Store) Seed(r reservation.Reservation) reservation.Reservation {
	s.mu.Lock()
	defer s.mu.Unlock()
	if r.ID == 0 {
		s.seq++
		r.ID = s.seq
	} else if r.ID > s.seq {
		s.seq = r.ID
	}
	if r.Token == "" {
		r.Token = uuid.NewString()
	}
	rec := r
	s.byID[rec.ID] = &rec
	s.order = append(s.order, rec.ID)
	return rec
}

// Reset clears the store.
func (s *Store) Reset() {
	s.mu.Lock()
	s.seq = 0
	s.byID = make(map[int64]*reservation.Reservation)
	s.order = nil
	s.mu.Unlock()
}

// Insert assigns a fresh id and token and stores the record.
func (s *Store) Insert(_ context.Context, r reservation.Reservation) (reservation.Reservation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seq++
	r.ID = s.seq
	r.Token = uuid.NewString()
	rec := r
	s.byID[rec.ID] = &rec
	s.order = append(s.order, rec.ID)
	return rec, nil
}

// Update overwrites the mutable fields of an existing record.
func (s *Store) Update(_ context.Context, r reservation.Reservation) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cur, ok := s.byID[r.ID]
	if !ok {
		return errs.ErrNotFound
	}
	cur.FirstName = r.FirstName
	cur.LastName = r.LastName
	cur.Phone = r.Phone
	cur.PartySize = r.PartySize
	cur.ScheduledAt = r.ScheduledAt
	return nil
}

// Delete removes a record by id.
func (s *Store) Delete(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.byID[id]; !ok {
		return errs.ErrNotFound
	}
	delete(s.byID, id)
	for i, oid := range s.order {
		if oid == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return nil
}

// ReservationByID returns a record by id.
func (s *Store) ReservationByID(_ context.Context, id int64) (reservation.Reservation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.byID[id]
	if !ok {
		return reservation.Reservation{}, errs.ErrNotFound
	}
	return *r, nil
}

// ReservationByToken returns the record for a token while it is still
// upcoming relative to now.
func (s *Store) ReservationByToken(_ context.Context, token string, now time.Time) (reservation.Reservation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, id := range s.order {
		r := s.byID[id]
		if r.Token == token && !r.ScheduledAt.Before(now) {
			return *r, nil
		}
	}
	return reservation.Reservation{}, errs.ErrNotFound
}

// ListFrom returns records scheduled at or after from, in insertion order.
func (s *Store) ListFrom(_ context.Context, from time.Time) ([]reservation.Reservation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]reservation.Reservation, 0)
	for _, id := range s.order {
		r := s.byID[id]
		if !r.ScheduledAt.Before(from) {
			out = append(out, *r)
		}
	}
	return out, nil
}

// CountInRange counts records with ScheduledAt in [start, end).
func (s *Store) CountInRange(_ context.Context, start, end time.Time) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	n := 0
	for _, r := range s.byID {
		if !r.ScheduledAt.Before(start) && r.ScheduledAt.Before(end) {
			n++
		}
	}
	return n, nil
}
