package sqlite

// Package sqlite provides an embedded single-file store using the pure-Go
// modernc.org/sqlite driver. Datetimes are stored as zero-padded
// "YYYY-MM-DD HH:MM" text so lexicographic comparison in SQL matches
// chronological order.

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/tablebook/reservations/internal/errs"
	"github.com/tablebook/reservations/internal/reservation"
)

const schema = `CREATE TABLE IF NOT EXISTS reservations (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	reservation_datetime TEXT NOT NULL,
	reservation_first_name TEXT NOT NULL,
	reservation_last_name TEXT NOT NULL,
	phone_number TEXT NOT NULL,
	reservation_token TEXT NOT NULL UNIQUE,
	number_of_guests INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_reservations_datetime ON reservations(reservation_datetime);`

// Store wraps a *sql.DB over a sqlite file.
type Store struct {
	db *sql.DB
}

// Open opens (creating if needed) the sqlite database at path and ensures the
// schema exists.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	if _, err := db.Exec(`PRAGMA journal_mode=WAL;`); err != nil {
		db.Close()
		return nil, err
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, err
	}
	return &Store{db: db}, nil
}

// Close releases the underlying handle.
func (s *Store) Close() error { return s.db.Close() }

// Ready pings the database to verify connectivity.
func (s *Store) Ready(ctx context.Context) error { return s.db.PingContext(ctx) }

// Insert stores the record with a fresh token and returns it with the
// assigned id.
func (s *Store) Insert(ctx context.Context, r reservation.Reservation) (reservation.Reservation, error) {
	r.Token = uuid.NewString()
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO reservations (
			reservation_first_name,
			reservation_last_name,
			reservation_datetime,
			phone_number,
			number_of_guests,
			reservation_token
		) VALUES (?, ?, ?, ?, ?, ?)`,
		r.FirstName, r.LastName, reservation.FormatDateTime(r.ScheduledAt), r.Phone, r.PartySize, r.Token,
	)
	if err != nil {
		return reservation.Reservation{}, err
	}
	r.ID, err = res.LastInsertId()
	if err != nil {
		return reservation.Reservation{}, err
	}
	return r, nil
}

// Update overwrites the mutable fields of an existing row.
func (s *Store) Update(ctx context.Context, r reservation.Reservation) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE reservations
		 SET reservation_first_name = ?,
		     reservation_last_name = ?,
		     reservation_datetime = ?,
		     phone_number = ?,
		     number_of_guests = ?
		 WHERE id = ?`,
		r.FirstName, r.LastName, reservation.FormatDateTime(r.ScheduledAt), r.Phone, r.PartySize, r.ID,
	)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return errs.ErrNotFound
	}
	return nil
}

// Delete removes a row by id.
func (s *Store) Delete(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM reservations WHERE id = ?`, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return errs.ErrNotFound
	}
	return nil
}

// ReservationByID returns a row by id.
func (s *Store) ReservationByID(ctx context.Context, id int64) (reservation.Reservation, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, reservation_token, reservation_first_name, reservation_last_name,
		        phone_number, number_of_guests, reservation_datetime
		 FROM reservations WHERE id = ?`, id)
	return scanReservation(row)
}

// ReservationByToken returns the row for a token while it is still upcoming.
func (s *Store) ReservationByToken(ctx context.Context, token string, now time.Time) (reservation.Reservation, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, reservation_token, reservation_first_name, reservation_last_name,
		        phone_number, number_of_guests, reservation_datetime
		 FROM reservations
		 WHERE reservation_token = ? AND reservation_datetime >= ?`,
		token, reservation.FormatDateTime(now))
	return scanReservation(row)
}

// ListFrom returns rows scheduled at or after from, in insertion order.
func (s *Store) ListFrom(ctx context.Context, from time.Time) ([]reservation.Reservation, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, reservation_token, reservation_first_name, reservation_last_name,
		        phone_number, number_of_guests, reservation_datetime
		 FROM reservations WHERE reservation_datetime >= ?`,
		reservation.FormatDateTime(from))
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]reservation.Reservation, 0)
	for rows.Next() {
		var r reservation.Reservation
		var at string
		if err := rows.Scan(&r.ID, &r.Token, &r.FirstName, &r.LastName, &r.Phone, &r.PartySize, &at); err != nil {
			return nil, err
		}
		if r.ScheduledAt, err = reservation.ParseDateTime(at); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// CountInRange counts rows with a datetime in [start, end).
func (s *Store) CountInRange(ctx context.Context, start, end time.Time) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM reservations
		 WHERE reservation_datetime >= ? AND reservation_datetime < ?`,
		reservation.FormatDateTime(start), reservation.FormatDateTime(end)).Scan(&n)
	return n, err
}

func scanReservation(row *sql.Row) (reservation.Reservation, error) {
	var r reservation.Reservation
	var at string
	err := row.Scan(&r.ID, &r.Token, &r.FirstName, &r.LastName, &r.Phone, &r.PartySize, &at)
	if errors.Is(err, sql.ErrNoRows) {
		return reservation.Reservation{}, errs.ErrNotFound
	}
	if err != nil {
		return reservation.Reservation{}, err
	}
	if r.ScheduledAt, err = reservation.ParseDateTime(at); err != nil {
		return reservation.Reservation{}, err
	}
	return r, nil
}
