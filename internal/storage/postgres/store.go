package postgres

// Package postgres provides a pgx-backed storage implementation that
// satisfies the repository and writer interfaces used by the booking service.
//
// It is intentionally small and explicit. The schema lives under
// db/migrations. Datetimes are stored as zero-padded "YYYY-MM-DD HH:MM" text
// so lexicographic comparison matches chronological order, identical to the
// sqlite backend.

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/tablebook/reservations/internal/errs"
	"github.com/tablebook/reservations/internal/reservation"
)

// Store holds a pgx connection pool. All methods are safe for concurrent use.
type Store struct {
	pool *pgxpool.Pool
}

// Open establishes a pgx pool using the provided connection string.
func Open(ctx context.Context, dsn string) (*Store, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, err
	}
	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, err
	}
	// Verify connection
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	return &Store{pool: pool}, nil
}

// Close releases the underlying pool.
func (s *Store) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}

// Ready pings the pool to verify connectivity.
func (s *Store) Ready(ctx context.Context) error { return s.pool.Ping(ctx) }

// Insert stores the record with a fresh token and returns it with the
// assigned id.
func (s *Store) Insert(ctx context.Context, r reservation.Reservation) (reservation.Reservation, error) {
	r.Token = uuid.NewString()
	err := s.pool.QueryRow(ctx, `
		insert into reservations (
			reservation_first_name,
			reservation_last_name,
			reservation_datetime,
			phone_number,
			number_of_guests,
			reservation_token
		) values ($1,$2,$3,$4,$5,$6)
		returning id
	`, r.FirstName, r.LastName, reservation.FormatDateTime(r.ScheduledAt), r.Phone, r.PartySize, r.Token).Scan(&r.ID)
	if err != nil {
		return reservation.Reservation{}, err
	}
	return r, nil
}

// Update overwrites the mutable fields of an existing row.
func (s *Store) Update(ctx context.Context, r reservation.Reservation) error {
	ct, err := s.pool.Exec(ctx, `
		update reservations
		set reservation_first_name=$1,
		    reservation_last_name=$2,
		    reservation_datetime=$3,
		    phone_number=$4,
		    number_of_guests=$5
		where id=$6
	`, r.FirstName, r.LastName, reservation.FormatDateTime(r.ScheduledAt), r.Phone, r.PartySize, r.ID)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return errs.ErrNotFound
	}
	return nil
}

// Delete removes a row by id.
func (s *Store) Delete(ctx context.Context, id int64) error {
	ct, err := s.pool.Exec(ctx, `delete from reservations where id=$1`, id)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return errs.ErrNotFound
	}
	return nil
}

// ReservationByID fetches a single row by id.
func (s *Store) ReservationByID(ctx context.Context, id int64) (reservation.Reservation, error) {
	row := s.pool.QueryRow(ctx, `
		select id, reservation_token, reservation_first_name, reservation_last_name,
		       phone_number, number_of_guests, reservation_datetime
		from reservations
		where id = $1
	`, id)
	return scanReservation(row)
}

// ReservationByToken fetches the row for a token while it is still upcoming.
func (s *Store) ReservationByToken(ctx context.Context, token string, now time.Time) (reservation.Reservation, error) {
	row := s.pool.QueryRow(ctx, `
		select id, reservation_token, reservation_first_name, reservation_last_name,
		       phone_number, number_of_guests, reservation_datetime
		from reservations
		where reservation_token = $1 and reservation_datetime >= $2
	`, token, reservation.FormatDateTime(now))
	return scanReservation(row)
}

// ListFrom returns rows scheduled at or after from, in insertion order.
func (s *Store) ListFrom(ctx context.Context, from time.Time) ([]reservation.Reservation, error) {
	rows, err := s.pool.Query(ctx, `
		select id, reservation_token, reservation_first_name, reservation_last_name,
		       phone_number, number_of_guests, reservation_datetime
		from reservations
		where reservation_datetime >= $1
		order by id asc
	`, reservation.FormatDateTime(from))
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
	err := s.pool.QueryRow(ctx, `
		select count(*) from reservations
		where reservation_datetime >= $1 and reservation_datetime < $2
	`, reservation.FormatDateTime(start), reservation.FormatDateTime(end)).Scan(&n)
	return n, err
}

func scanReservation(row pgx.Row) (reservation.Reservation, error) {
	var r reservation.Reservation
	var at string
	err := row.Scan(&r.ID, &r.Token, &r.FirstName, &r.LastName, &r.Phone, &r.PartySize, &at)
	if errors.Is(err, pgx.ErrNoRows) {
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
