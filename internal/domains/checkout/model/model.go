package model

import (
	"fmt"
	"time"
)

type PaymentStatus string

const (
	StatusPendiente  PaymentStatus = "PENDIENTE"
	StatusProcesando PaymentStatus = "PROCESANDO"
	StatusAprobado   PaymentStatus = "APROBADO"
	StatusRechazado  PaymentStatus = "RECHAZADO"
	StatusCancelado  PaymentStatus = "CANCELADO"
)

// AllowsReservation reports whether a charge in this status may proceed to
// reservation creation. PROCESANDO counts: the gateway settles it later and
// the reservation carries the payment status for downstream reconciliation.
func (s PaymentStatus) AllowsReservation() bool {
	return s == StatusAprobado || s == StatusProcesando
}

// Rejected reports whether the gateway definitively declined the charge.
func (s PaymentStatus) Rejected() bool {
	return s == StatusRechazado || s == StatusCancelado
}

type PaymentMethod string

const (
	MethodTarjeta       PaymentMethod = "TARJETA"
	MethodTransferencia PaymentMethod = "TRANSFERENCIA"
)

type CardType string

const (
	CardCredito CardType = "CREDITO"
	CardDebito  CardType = "DEBITO"
)

type Card struct {
	Numero      string
	Titular     string
	Vencimiento string
	CVE         string
	Tipo        CardType
	Entidad     string
}

// Complete reports whether every field the gateway requires is present.
func (c Card) Complete() bool {
	return c.Numero != "" && c.Titular != "" && c.Vencimiento != "" &&
		c.CVE != "" && c.Tipo != "" && c.Entidad != ""
}

type Amounts struct {
	Reserva   float64
	Impuestos float64
	Total     float64
}

func (a Amounts) NonNegative() bool {
	return a.Reserva >= 0 && a.Impuestos >= 0 && a.Total >= 0
}

// Payment mirrors the gateway's view of a charge. Amounts are the settled
// figures returned by the gateway, not the ones the caller submitted.
type Payment struct {
	ID        string
	Estado    PaymentStatus
	Metodo    PaymentMethod
	Amounts   Amounts
	ReservaID *string
}

type ReservationLine struct {
	HabitacionID string
	Personas     int
}

type Companion struct {
	Nombre   string
	Apellido string
	DNI      string
	Telefono string
}

// ReservationDraft is the stay the guest is paying for. It is only submitted
// to the store after the charge succeeds.
type ReservationDraft struct {
	HospedajeID   string
	FechaInicio   time.Time
	FechaFin      time.Time
	Lineas        []ReservationLine
	Observacion   string
	Acompaniantes []Companion
}

type Reservation struct {
	ID       string
	Estado   string
	CodigoQr string
}

type Step string

const (
	StepCharge      Step = "charge"
	StepApproval    Step = "approval"
	StepReservation Step = "reservation"
	StepLink        Step = "link"
)

// Error is the checkout failure type. Inconsistent marks the money-moved,
// no-reservation case: the charge went through but the stay was never created,
// so the record needs out-of-band repair.
type Error struct {
	Step         Step   `json:"step"`
	Message      string `json:"message"`
	PaymentID    string `json:"paymentId,omitempty"`
	Inconsistent bool   `json:"inconsistent"`
	cause        error
}

func (e *Error) Error() string {
	return fmt.Sprintf("checkout %s failed: %s", e.Step, e.Message)
}

func (e *Error) Unwrap() error {
	return e.cause
}

// ChargeFailed wraps a gateway transport or processing failure before any
// money moved.
func ChargeFailed(err error) *Error {
	return &Error{
		Step:    StepCharge,
		Message: err.Error(),
		cause:   err,
	}
}

// PaymentRejected marks a charge the gateway definitively declined.
func PaymentRejected(paymentID string, status PaymentStatus) *Error {
	return &Error{
		Step:      StepApproval,
		Message:   fmt.Sprintf("payment was rejected by the gateway (estado %s)", status),
		PaymentID: paymentID,
	}
}

// PaymentNotApproved marks a charge left in a status that does not allow a
// reservation, without being an outright rejection.
func PaymentNotApproved(paymentID string, status PaymentStatus) *Error {
	return &Error{
		Step:      StepApproval,
		Message:   fmt.Sprintf("payment is not in an approvable status (estado %s)", status),
		PaymentID: paymentID,
	}
}

// ReservationCreationFailed marks the post-charge inconsistency: the payment
// exists but creating the reservation failed.
func ReservationCreationFailed(paymentID string, err error) *Error {
	return &Error{
		Step:         StepReservation,
		Message:      err.Error(),
		PaymentID:    paymentID,
		Inconsistent: true,
		cause:        err,
	}
}

const (
	EventReservationFailedAfterCharge = "reservation_failed_after_charge"
	EventPaymentLinkFailed            = "payment_link_failed"
)

// CheckoutEvent is published to Kafka whenever the protocol leaves state that
// needs out-of-band repair.
type CheckoutEvent struct {
	Kind          string    `json:"kind"`
	PaymentID     string    `json:"payment_id"`
	ReservationID string    `json:"reservation_id,omitempty"`
	HospedajeID   string    `json:"hospedaje_id"`
	Message       string    `json:"message"`
	OccurredAt    time.Time `json:"occurred_at"`
}
