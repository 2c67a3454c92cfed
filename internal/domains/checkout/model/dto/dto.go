package dto

import (
	"time"

	"cumbrecita/internal/domains/checkout/model"
	"cumbrecita/shared/constant"
)

type CardRequest struct {
	Numero      string `json:"numero"      validate:"required,min=13,max=19"`
	Titular     string `json:"titular"     validate:"required,max=100"`
	Vencimiento string `json:"vencimiento" validate:"required,len=5"`
	CVE         string `json:"cve"         validate:"required,min=3,max=4"`
	Tipo        string `json:"tipo"        validate:"required,oneof=CREDITO DEBITO"`
	Entidad     string `json:"entidad"     validate:"required,max=50"`
}

type PaymentRequest struct {
	Metodo         string       `json:"metodo"         validate:"required,oneof=TARJETA TRANSFERENCIA"`
	Tarjeta        *CardRequest `json:"tarjeta"        validate:"omitempty"`
	MontoReserva   float64      `json:"montoReserva"   validate:"min=0"`
	MontoImpuestos float64      `json:"montoImpuestos" validate:"min=0"`
	MontoTotal     float64      `json:"montoTotal"     validate:"min=0"`
}

type ReservationLineRequest struct {
	HabitacionID string `json:"habitacionId" validate:"required"`
	Personas     int    `json:"personas"     validate:"required,min=1"`
}

type CompanionRequest struct {
	Nombre   string `json:"nombre"   validate:"required,max=100"`
	Apellido string `json:"apellido" validate:"required,max=100"`
	DNI      string `json:"dni"      validate:"required,max=20"`
	Telefono string `json:"telefono" validate:"omitempty,max=30"`
}

type ReservationDraftRequest struct {
	HospedajeID   string                   `json:"hospedajeId"   validate:"required"`
	FechaInicio   string                   `json:"fechaInicio"   validate:"required"`
	FechaFin      string                   `json:"fechaFin"      validate:"required"`
	Lineas        []ReservationLineRequest `json:"lineas"        validate:"required,min=1,dive"`
	Observacion   string                   `json:"observacion"   validate:"omitempty,max=500"`
	Acompaniantes []CompanionRequest       `json:"acompaniantes" validate:"omitempty,dive"`
}

type CheckoutRequest struct {
	Reserva ReservationDraftRequest `json:"reserva" validate:"required"`
	Pago    PaymentRequest          `json:"pago"    validate:"required"`
}

func (r *ReservationDraftRequest) ToModel() (model.ReservationDraft, error) {
	fechaInicio, err := parseDate(r.FechaInicio)
	if err != nil {
		return model.ReservationDraft{}, err
	}

	fechaFin, err := parseDate(r.FechaFin)
	if err != nil {
		return model.ReservationDraft{}, err
	}

	lineas := make([]model.ReservationLine, len(r.Lineas))
	for i, l := range r.Lineas {
		lineas[i] = model.ReservationLine{
			HabitacionID: l.HabitacionID,
			Personas:     l.Personas,
		}
	}

	var acompaniantes []model.Companion
	for _, a := range r.Acompaniantes {
		acompaniantes = append(acompaniantes, model.Companion{
			Nombre:   a.Nombre,
			Apellido: a.Apellido,
			DNI:      a.DNI,
			Telefono: a.Telefono,
		})
	}

	return model.ReservationDraft{
		HospedajeID:   r.HospedajeID,
		FechaInicio:   fechaInicio,
		FechaFin:      fechaFin,
		Lineas:        lineas,
		Observacion:   r.Observacion,
		Acompaniantes: acompaniantes,
	}, nil
}

// parseDate accepts both the date-only and the full timestamp forms the
// storefront sends, depending on where the draft originated.
func parseDate(value string) (time.Time, error) {
	if t, err := time.Parse(constant.DateOnlyFormat, value); err == nil {
		return t, nil
	}

	return time.Parse(constant.DateFormat, value)
}

func (r *PaymentRequest) ToModel() (model.PaymentMethod, *model.Card, model.Amounts) {
	var card *model.Card
	if r.Tarjeta != nil {
		card = &model.Card{
			Numero:      r.Tarjeta.Numero,
			Titular:     r.Tarjeta.Titular,
			Vencimiento: r.Tarjeta.Vencimiento,
			CVE:         r.Tarjeta.CVE,
			Tipo:        model.CardType(r.Tarjeta.Tipo),
			Entidad:     r.Tarjeta.Entidad,
		}
	}

	return model.PaymentMethod(r.Metodo), card, model.Amounts{
		Reserva:   r.MontoReserva,
		Impuestos: r.MontoImpuestos,
		Total:     r.MontoTotal,
	}
}

type PaymentResponse struct {
	ID             string  `json:"id"`
	Estado         string  `json:"estado"`
	Metodo         string  `json:"metodo"`
	MontoReserva   float64 `json:"montoReserva"`
	MontoImpuestos float64 `json:"montoImpuestos"`
	MontoTotal     float64 `json:"montoTotal"`
}

type ReservationResponse struct {
	ID       string `json:"id"`
	Estado   string `json:"estado,omitempty"`
	CodigoQr string `json:"codigoQr,omitempty"`
}

type CheckoutResponse struct {
	Reserva  ReservationResponse `json:"reserva"`
	Pago     PaymentResponse     `json:"pago"`
	Warnings []string            `json:"warnings,omitempty"`
}

func (r *CheckoutResponse) FromModels(payment model.Payment, reservation model.Reservation, warnings []string) {
	r.Pago = PaymentResponse{
		ID:             payment.ID,
		Estado:         string(payment.Estado),
		Metodo:         string(payment.Metodo),
		MontoReserva:   payment.Amounts.Reserva,
		MontoImpuestos: payment.Amounts.Impuestos,
		MontoTotal:     payment.Amounts.Total,
	}
	r.Reserva = ReservationResponse{
		ID:       reservation.ID,
		Estado:   reservation.Estado,
		CodigoQr: reservation.CodigoQr,
	}
	r.Warnings = warnings
}
