package service

import (
	"context"
	"database/sql"
	"fmt"

	"cumbrecita/infras/gateways/payments"
	"cumbrecita/infras/otel"
	checkoutModel "cumbrecita/internal/domains/checkout/model"
	"cumbrecita/internal/domains/reconciliation/model"
	"cumbrecita/internal/domains/reconciliation/model/dto"
	"cumbrecita/internal/domains/reconciliation/repository"
	"cumbrecita/shared/constant"
	"cumbrecita/shared/failure"
	"cumbrecita/shared/timezone"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

type Reconciliation interface {
	HandleEvent(ctx context.Context, event checkoutModel.CheckoutEvent) error
	List(ctx context.Context, onlyUnresolved bool, limit, offset int) (dto.ListRecordsResponse, error)
	Resolve(ctx context.Context, id string) error
}

type serviceImpl struct {
	repo     repository.Reconciliation
	payments payments.Gateway
	otel     otel.Otel
}

func New(repo repository.Reconciliation, paymentGateway payments.Gateway, otel otel.Otel) Reconciliation {
	return &serviceImpl{
		repo:     repo,
		payments: paymentGateway,
		otel:     otel,
	}
}

// HandleEvent processes one checkout event from the topic. Link failures get
// one repair attempt against the gateway; whatever cannot be repaired is
// recorded for the back office.
func (s *serviceImpl) HandleEvent(ctx context.Context, event checkoutModel.CheckoutEvent) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelEventScopeName, constant.OtelEventScopeName+".HandleEvent")
	defer scope.End()
	defer scope.TraceIfError(err)

	scope.SetAttribute("event.kind", event.Kind)
	scope.SetAttribute("payment.id", event.PaymentID)

	if event.Kind == checkoutModel.EventPaymentLinkFailed && event.ReservationID != "" {
		if linkErr := s.payments.LinkReservation(ctx, event.PaymentID, event.ReservationID); linkErr == nil {
			log.Info().Str("pagoId", event.PaymentID).Str("reservaId", event.ReservationID).
				Msg("payment link repaired on retry")

			return nil
		}

		log.Warn().Str("pagoId", event.PaymentID).Msg("payment link retry failed, recording for back office")
	}

	record := model.Record{
		ID:          uuid.NewString(),
		PaymentID:   event.PaymentID,
		HospedajeID: event.HospedajeID,
		Kind:        model.Kind(event.Kind),
		Message:     event.Message,
		CreatedAt:   timezone.Now(),
		ModifiedAt:  timezone.Now(),
	}
	if event.ReservationID != "" {
		record.ReservationID = sql.NullString{String: event.ReservationID, Valid: true}
	}

	if err = s.repo.Insert(ctx, record); err != nil {
		log.Error().Err(err).Str("pagoId", event.PaymentID).Msg("failed to record checkout event")

		return fmt.Errorf("failed to record checkout event: %w", err)
	}

	return nil
}

func (s *serviceImpl) List(ctx context.Context, onlyUnresolved bool, limit, offset int) (res dto.ListRecordsResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".List")
	defer scope.End()
	defer scope.TraceIfError(err)

	if limit < 1 {
		limit = constant.DefaultValueLimit
	}

	total, err := s.repo.Count(ctx, onlyUnresolved)
	if err != nil {
		return res, fmt.Errorf("failed to count inconsistencies: %w", err)
	}

	records, err := s.repo.GetAll(ctx, onlyUnresolved, limit, offset)
	if err != nil {
		return res, fmt.Errorf("failed to list inconsistencies: %w", err)
	}

	res.FromModels(records, total)

	return res, nil
}

func (s *serviceImpl) Resolve(ctx context.Context, id string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Resolve")
	defer scope.End()
	defer scope.TraceIfError(err)

	updated, err := s.repo.MarkResolved(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to resolve inconsistency: %w", err)
	}

	if !updated {
		return failure.NotFound("inconsistency not found or already resolved") // nolint:wrapcheck
	}

	return nil
}
