package model

import (
	"database/sql"
	"time"
)

const (
	TableName  = "checkout_inconsistencies"
	EntityName = "inconsistency"
)

type Kind string

const (
	KindReservationFailedAfterCharge Kind = "reservation_failed_after_charge"
	KindPaymentLinkFailed            Kind = "payment_link_failed"
)

// Record is a checkout left in a state that needs out-of-band repair: either
// money moved without a reservation, or a reservation whose payment
// cross-reference could not be patched.
type Record struct {
	ID            string         `db:"id"`
	PaymentID     string         `db:"payment_id"`
	ReservationID sql.NullString `db:"reservation_id"`
	HospedajeID   string         `db:"hospedaje_id"`
	Kind          Kind           `db:"kind"`
	Message       string         `db:"message"`
	Resolved      bool           `db:"resolved"`
	CreatedAt     time.Time      `db:"created_at"`
	ModifiedAt    time.Time      `db:"modified_at"`
}
