package service

import (
	"context"
	"fmt"

	"cumbrecita/config"
	"cumbrecita/infras/gateways/payments"
	"cumbrecita/infras/gateways/reservations"
	"cumbrecita/infras/kafka"
	"cumbrecita/infras/otel"
	"cumbrecita/internal/domains/checkout/model"
	"cumbrecita/internal/domains/checkout/model/dto"
	"cumbrecita/shared/constant"
	"cumbrecita/shared/failure"
	"cumbrecita/shared/timezone"

	"github.com/rs/zerolog/log"
)

const linkFailureWarning = "payment could not be linked to the reservation; it will be reconciled out-of-band"

type Checkout interface {
	Checkout(ctx context.Context, req dto.CheckoutRequest) (dto.CheckoutResponse, error)
}

type serviceImpl struct {
	payments     payments.Gateway
	reservations reservations.Store
	kafka        kafka.Client
	cfg          *config.Config
	otel         otel.Otel
}

func New(
	paymentGateway payments.Gateway,
	reservationStore reservations.Store,
	kafkaClient kafka.Client,
	cfg *config.Config,
	otel otel.Otel,
) Checkout {
	return &serviceImpl{
		payments:     paymentGateway,
		reservations: reservationStore,
		kafka:        kafkaClient,
		cfg:          cfg,
		otel:         otel,
	}
}

// Checkout runs the payment-first protocol: charge without a reservation
// reference, gate on the charge status, create the reservation with the
// settled amounts, then patch the cross-reference. Exactly one charge is
// attempted per call; nothing is retried or refunded here.
func (s *serviceImpl) Checkout(ctx context.Context, req dto.CheckoutRequest) (res dto.CheckoutResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Checkout")
	defer scope.End()
	defer scope.TraceIfError(err)

	draft, err := req.Reserva.ToModel()
	if err != nil {
		log.Error().Err(err).Msg("failed to parse reservation draft")

		return res, failure.BadRequestFromString(fmt.Sprintf("invalid date format: %v", err)) // nolint:wrapcheck
	}

	metodo, card, amounts := req.Pago.ToModel()

	if err = validateCheckout(draft, metodo, card, amounts); err != nil {
		return res, err
	}

	scope.SetAttribute("hospedaje.id", draft.HospedajeID)
	scope.SetAttribute("payment.method", string(metodo))

	payment, err := s.charge(ctx, metodo, card, amounts)
	if err != nil {
		return res, err
	}

	reservation, err := s.createReservation(ctx, draft, payment)
	if err != nil {
		return res, err
	}

	var warnings []string
	if err := s.payments.LinkReservation(ctx, payment.ID, reservation.ID); err != nil {
		log.Warn().Err(err).Str("pagoId", payment.ID).Str("reservaId", reservation.ID).
			Msg("failed to link payment to reservation, continuing")

		warnings = append(warnings, linkFailureWarning)

		s.publishEvent(ctx, model.CheckoutEvent{
			Kind:          model.EventPaymentLinkFailed,
			PaymentID:     payment.ID,
			ReservationID: reservation.ID,
			HospedajeID:   draft.HospedajeID,
			Message:       err.Error(),
			OccurredAt:    timezone.Now(),
		})
	}

	res.FromModels(payment, reservation, warnings)

	return res, nil
}

// validateCheckout enforces the preconditions that must hold before any
// network call. Amount consistency (total = reserva + impuestos) is the
// caller's responsibility and is deliberately not checked here.
func validateCheckout(draft model.ReservationDraft, metodo model.PaymentMethod, card *model.Card, amounts model.Amounts) error {
	if len(draft.Lineas) == 0 {
		return failure.BadRequestFromString("reservation must contain at least one room line") // nolint:wrapcheck
	}

	for _, linea := range draft.Lineas {
		if linea.Personas < 1 {
			return failure.BadRequestFromString("each room line must have at least one occupant") // nolint:wrapcheck
		}
	}

	if !draft.FechaInicio.Before(draft.FechaFin) {
		return failure.BadRequestFromString("check-in date must be before check-out date") // nolint:wrapcheck
	}

	if metodo == model.MethodTarjeta && (card == nil || !card.Complete()) {
		return failure.BadRequestFromString("card payments require complete card details") // nolint:wrapcheck
	}

	if !amounts.NonNegative() {
		return failure.BadRequestFromString("amounts must not be negative") // nolint:wrapcheck
	}

	return nil
}

func (s *serviceImpl) charge(ctx context.Context, metodo model.PaymentMethod, card *model.Card, amounts model.Amounts) (model.Payment, error) {
	chargeReq := payments.CreatePaymentRequest{
		Metodo:         string(metodo),
		MontoReserva:   amounts.Reserva,
		MontoImpuestos: amounts.Impuestos,
		MontoTotal:     amounts.Total,
	}
	if card != nil {
		chargeReq.Tarjeta = &payments.Card{
			Numero:      card.Numero,
			Titular:     card.Titular,
			Vencimiento: card.Vencimiento,
			CVE:         card.CVE,
			Tipo:        string(card.Tipo),
			Entidad:     card.Entidad,
		}
	}

	created, err := s.payments.CreatePayment(ctx, chargeReq)
	if err != nil {
		log.Error().Err(err).Msg("payment charge failed")

		return model.Payment{}, model.ChargeFailed(err)
	}

	payment := model.Payment{
		ID:     created.ID,
		Estado: model.PaymentStatus(created.Estado),
		Metodo: model.PaymentMethod(created.Metodo),
		Amounts: model.Amounts{
			Reserva:   created.MontoReserva,
			Impuestos: created.MontoImpuestos,
			Total:     created.MontoTotal,
		},
		ReservaID: created.ReservaID,
	}

	if !payment.Estado.AllowsReservation() {
		log.Error().Str("pagoId", payment.ID).Str("estado", string(payment.Estado)).
			Msg("payment status does not allow reservation")

		if payment.Estado.Rejected() {
			return model.Payment{}, model.PaymentRejected(payment.ID, payment.Estado)
		}

		return model.Payment{}, model.PaymentNotApproved(payment.ID, payment.Estado)
	}

	return payment, nil
}

func (s *serviceImpl) createReservation(ctx context.Context, draft model.ReservationDraft, payment model.Payment) (model.Reservation, error) {
	lineas := make([]reservations.Line, len(draft.Lineas))
	for i, l := range draft.Lineas {
		lineas[i] = reservations.Line{
			HabitacionID: l.HabitacionID,
			Personas:     l.Personas,
		}
	}

	var acompaniantes []reservations.Companion
	for _, a := range draft.Acompaniantes {
		acompaniantes = append(acompaniantes, reservations.Companion{
			Nombre:   a.Nombre,
			Apellido: a.Apellido,
			DNI:      a.DNI,
			Telefono: a.Telefono,
		})
	}

	created, err := s.reservations.CreateReservation(ctx, reservations.CreateReservationRequest{
		HospedajeID:       draft.HospedajeID,
		FechaInicio:       draft.FechaInicio.Format(constant.DateFormat),
		FechaFin:          draft.FechaFin.Format(constant.DateFormat),
		Lineas:            lineas,
		Observacion:       draft.Observacion,
		Acompaniantes:     acompaniantes,
		PagoID:            payment.ID,
		MontoRealPago:     payment.Amounts.Reserva,
		ImpuestosRealPago: payment.Amounts.Impuestos,
		TotalRealPago:     payment.Amounts.Total,
		EstadoPago:        string(payment.Estado),
	})
	if err != nil {
		log.Error().Err(err).Str("pagoId", payment.ID).
			Msg("reservation creation failed after successful charge")

		s.publishEvent(ctx, model.CheckoutEvent{
			Kind:        model.EventReservationFailedAfterCharge,
			PaymentID:   payment.ID,
			HospedajeID: draft.HospedajeID,
			Message:     err.Error(),
			OccurredAt:  timezone.Now(),
		})

		return model.Reservation{}, model.ReservationCreationFailed(payment.ID, err)
	}

	return model.Reservation{
		ID:       created.ID,
		Estado:   created.Estado,
		CodigoQr: created.CodigoQr,
	}, nil
}

// publishEvent hands the event to the reconciliation topic. Publish failures
// are logged only; they never change the checkout outcome.
func (s *serviceImpl) publishEvent(ctx context.Context, event model.CheckoutEvent) {
	msg := kafka.Message{
		Key:   event.PaymentID,
		Value: event,
	}

	if err := s.kafka.SendMessages(ctx, s.cfg.Kafka.Topics.CheckoutEvents, msg); err != nil {
		log.Error().Err(err).Str("kind", event.Kind).Str("pagoId", event.PaymentID).
			Msg("failed to publish checkout event")
	}
}
