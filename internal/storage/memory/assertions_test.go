package memory

import "github.com/tablebook/reservations/internal/service/booking"

// Compile-time interface assertions against the service interfaces.
var (
	_ booking.Repo   = (*Store)(nil)
	_ booking.Writer = (*Store)(nil)
)
