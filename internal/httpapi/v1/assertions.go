package v1

import (
	"github.com/tablebook/reservations/internal/service/booking"
	"github.com/tablebook/reservations/internal/storage/memory"
	"github.com/tablebook/reservations/internal/storage/postgres"
	"github.com/tablebook/reservations/internal/storage/sqlite"
)

// Compile-time interface assertions for the storage backends against the
// service interfaces.
var (
	_ booking.Repo   = (*memory.Store)(nil)
	_ booking.Writer = (*memory.Store)(nil)
	_ booking.Repo   = (*sqlite.Store)(nil)
	_ booking.Writer = (*sqlite.Store)(nil)
	_ booking.Repo   = (*postgres.Store)(nil)
	_ booking.Writer = (*postgres.Store)(nil)
)
