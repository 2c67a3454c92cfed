package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	"cumbrecita/config"
	"cumbrecita/infras/gateways/payments"
	paymentsMocks "cumbrecita/infras/gateways/payments/mocks"
	"cumbrecita/infras/gateways/reservations"
	reservationsMocks "cumbrecita/infras/gateways/reservations/mocks"
	kafkaMocks "cumbrecita/infras/kafka/mocks"
	"cumbrecita/infras/otel/mocks"
	"cumbrecita/internal/domains/checkout/model"
	"cumbrecita/internal/domains/checkout/model/dto"
	"cumbrecita/internal/domains/checkout/service"
	"cumbrecita/shared/failure"
)

func validRequest() dto.CheckoutRequest {
	return dto.CheckoutRequest{
		Reserva: dto.ReservationDraftRequest{
			HospedajeID: "hosp-1",
			FechaInicio: "2026-09-10",
			FechaFin:    "2026-09-12",
			Lineas: []dto.ReservationLineRequest{
				{HabitacionID: "hab-1", Personas: 2},
			},
		},
		Pago: dto.PaymentRequest{
			Metodo: "TARJETA",
			Tarjeta: &dto.CardRequest{
				Numero:      "4111111111111111",
				Titular:     "Juan Perez",
				Vencimiento: "12/27",
				CVE:         "123",
				Tipo:        "CREDITO",
				Entidad:     "VISA",
			},
			MontoReserva:   100,
			MontoImpuestos: 21,
			MontoTotal:     121,
		},
	}
}

func TestCheckoutService_Checkout(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockPayments := paymentsMocks.NewMockGateway(ctrl)
	mockReservations := reservationsMocks.NewMockStore(ctrl)
	mockKafka := kafkaMocks.NewMockClient(ctrl)
	mockOtel := mocks.NewOtel()

	cfg := &config.Config{}
	cfg.Kafka.Topics.CheckoutEvents = "checkout-events"

	svc := service.New(mockPayments, mockReservations, mockKafka, cfg, mockOtel)

	approvedPayment := payments.Payment{
		ID:             "pago-123",
		Estado:         "APROBADO",
		Metodo:         "TARJETA",
		MontoReserva:   100,
		MontoImpuestos: 21,
		MontoTotal:     121,
	}

	tests := []struct {
		name         string
		req          dto.CheckoutRequest
		setupMock    func()
		wantErr      bool
		wantStep     model.Step
		wantWarnings int
		check        func(t *testing.T, res dto.CheckoutResponse, err error)
	}{
		{
			name: "successful checkout",
			req:  validRequest(),
			setupMock: func() {
				mockPayments.EXPECT().
					CreatePayment(gomock.Any(), gomock.Any()).
					Return(approvedPayment, nil)
				mockReservations.EXPECT().
					CreateReservation(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, req reservations.CreateReservationRequest) (reservations.Reservation, error) {
						assert.Equal(t, "pago-123", req.PagoID)
						assert.Equal(t, float64(100), req.MontoRealPago)
						assert.Equal(t, "APROBADO", req.EstadoPago)

						return reservations.Reservation{ID: "res-456", CodigoQr: "qr-abc"}, nil
					})
				mockPayments.EXPECT().
					LinkReservation(gomock.Any(), "pago-123", "res-456").
					Return(nil)
			},
			check: func(t *testing.T, res dto.CheckoutResponse, err error) {
				assert.NoError(t, err)
				assert.Equal(t, "res-456", res.Reserva.ID)
				assert.Equal(t, "qr-abc", res.Reserva.CodigoQr)
				assert.Equal(t, "pago-123", res.Pago.ID)
				assert.Empty(t, res.Warnings)
			},
		},
		{
			name: "processing payment still proceeds",
			req:  validRequest(),
			setupMock: func() {
				processing := approvedPayment
				processing.Estado = "PROCESANDO"

				mockPayments.EXPECT().
					CreatePayment(gomock.Any(), gomock.Any()).
					Return(processing, nil)
				mockReservations.EXPECT().
					CreateReservation(gomock.Any(), gomock.Any()).
					Return(reservations.Reservation{ID: "res-456"}, nil)
				mockPayments.EXPECT().
					LinkReservation(gomock.Any(), "pago-123", "res-456").
					Return(nil)
			},
			check: func(t *testing.T, res dto.CheckoutResponse, err error) {
				assert.NoError(t, err)
				assert.Equal(t, "PROCESANDO", res.Pago.Estado)
			},
		},
		{
			name: "rejected payment never reaches the reservation store",
			req:  validRequest(),
			setupMock: func() {
				rejected := approvedPayment
				rejected.Estado = "RECHAZADO"

				mockPayments.EXPECT().
					CreatePayment(gomock.Any(), gomock.Any()).
					Return(rejected, nil)
			},
			check: func(t *testing.T, _ dto.CheckoutResponse, err error) {
				var checkoutErr *model.Error
				assert.ErrorAs(t, err, &checkoutErr)
				assert.Equal(t, model.StepApproval, checkoutErr.Step)
				assert.Equal(t, "pago-123", checkoutErr.PaymentID)
				assert.False(t, checkoutErr.Inconsistent)
			},
		},
		{
			name: "pending payment is not approvable",
			req:  validRequest(),
			setupMock: func() {
				pending := approvedPayment
				pending.Estado = "PENDIENTE"

				mockPayments.EXPECT().
					CreatePayment(gomock.Any(), gomock.Any()).
					Return(pending, nil)
			},
			check: func(t *testing.T, _ dto.CheckoutResponse, err error) {
				var checkoutErr *model.Error
				assert.ErrorAs(t, err, &checkoutErr)
				assert.Equal(t, model.StepApproval, checkoutErr.Step)
			},
		},
		{
			name: "charge failure",
			req:  validRequest(),
			setupMock: func() {
				mockPayments.EXPECT().
					CreatePayment(gomock.Any(), gomock.Any()).
					Return(payments.Payment{}, errors.New("gateway unavailable"))
			},
			check: func(t *testing.T, _ dto.CheckoutResponse, err error) {
				var checkoutErr *model.Error
				assert.ErrorAs(t, err, &checkoutErr)
				assert.Equal(t, model.StepCharge, checkoutErr.Step)
				assert.Empty(t, checkoutErr.PaymentID)
			},
		},
		{
			name: "reservation failure after charge flags inconsistency",
			req:  validRequest(),
			setupMock: func() {
				mockPayments.EXPECT().
					CreatePayment(gomock.Any(), gomock.Any()).
					Return(approvedPayment, nil)
				mockReservations.EXPECT().
					CreateReservation(gomock.Any(), gomock.Any()).
					Return(reservations.Reservation{}, errors.New("store unavailable"))
				mockKafka.EXPECT().
					SendMessages(gomock.Any(), "checkout-events", gomock.Any()).
					Return(nil)
			},
			check: func(t *testing.T, _ dto.CheckoutResponse, err error) {
				var checkoutErr *model.Error
				assert.ErrorAs(t, err, &checkoutErr)
				assert.Equal(t, model.StepReservation, checkoutErr.Step)
				assert.Equal(t, "pago-123", checkoutErr.PaymentID)
				assert.True(t, checkoutErr.Inconsistent)
			},
		},
		{
			name: "link failure is a warning, not an error",
			req:  validRequest(),
			setupMock: func() {
				mockPayments.EXPECT().
					CreatePayment(gomock.Any(), gomock.Any()).
					Return(approvedPayment, nil)
				mockReservations.EXPECT().
					CreateReservation(gomock.Any(), gomock.Any()).
					Return(reservations.Reservation{ID: "res-456"}, nil)
				mockPayments.EXPECT().
					LinkReservation(gomock.Any(), "pago-123", "res-456").
					Return(errors.New("patch failed"))
				mockKafka.EXPECT().
					SendMessages(gomock.Any(), "checkout-events", gomock.Any()).
					Return(nil)
			},
			check: func(t *testing.T, res dto.CheckoutResponse, err error) {
				assert.NoError(t, err)
				assert.Equal(t, "res-456", res.Reserva.ID)
				assert.Len(t, res.Warnings, 1)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.setupMock()

			res, err := svc.Checkout(context.Background(), tt.req)
			tt.check(t, res, err)
		})
	}
}

func TestCheckoutService_Validation(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockPayments := paymentsMocks.NewMockGateway(ctrl)
	mockReservations := reservationsMocks.NewMockStore(ctrl)
	mockKafka := kafkaMocks.NewMockClient(ctrl)
	mockOtel := mocks.NewOtel()

	cfg := &config.Config{}

	svc := service.New(mockPayments, mockReservations, mockKafka, cfg, mockOtel)

	tests := []struct {
		name   string
		mutate func(req *dto.CheckoutRequest)
	}{
		{
			name: "empty room lines",
			mutate: func(req *dto.CheckoutRequest) {
				req.Reserva.Lineas = nil
			},
		},
		{
			name: "zero occupants",
			mutate: func(req *dto.CheckoutRequest) {
				req.Reserva.Lineas[0].Personas = 0
			},
		},
		{
			name: "check-in not before check-out",
			mutate: func(req *dto.CheckoutRequest) {
				req.Reserva.FechaInicio = "2026-09-12"
				req.Reserva.FechaFin = "2026-09-10"
			},
		},
		{
			name: "card payment without card",
			mutate: func(req *dto.CheckoutRequest) {
				req.Pago.Tarjeta = nil
			},
		},
		{
			name: "card payment with incomplete card",
			mutate: func(req *dto.CheckoutRequest) {
				req.Pago.Tarjeta.CVE = ""
			},
		},
		{
			name: "negative amount",
			mutate: func(req *dto.CheckoutRequest) {
				req.Pago.MontoTotal = -1
			},
		},
		{
			name: "unparseable date",
			mutate: func(req *dto.CheckoutRequest) {
				req.Reserva.FechaInicio = "10/09/2026"
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validRequest()
			tt.mutate(&req)

			// No gateway expectations: validation failures must stay local.
			_, err := svc.Checkout(context.Background(), req)

			assert.Error(t, err)
			assert.Equal(t, 400, failure.GetCode(err))
		})
	}
}

func TestCheckoutService_TransferWithoutCard(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockPayments := paymentsMocks.NewMockGateway(ctrl)
	mockReservations := reservationsMocks.NewMockStore(ctrl)
	mockKafka := kafkaMocks.NewMockClient(ctrl)
	mockOtel := mocks.NewOtel()

	cfg := &config.Config{}

	svc := service.New(mockPayments, mockReservations, mockKafka, cfg, mockOtel)

	req := validRequest()
	req.Pago.Metodo = "TRANSFERENCIA"
	req.Pago.Tarjeta = nil

	mockPayments.EXPECT().
		CreatePayment(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, chargeReq payments.CreatePaymentRequest) (payments.Payment, error) {
			assert.Nil(t, chargeReq.Tarjeta)
			assert.Equal(t, "TRANSFERENCIA", chargeReq.Metodo)

			return payments.Payment{ID: "pago-9", Estado: "PROCESANDO", Metodo: "TRANSFERENCIA"}, nil
		})
	mockReservations.EXPECT().
		CreateReservation(gomock.Any(), gomock.Any()).
		Return(reservations.Reservation{ID: "res-9"}, nil)
	mockPayments.EXPECT().
		LinkReservation(gomock.Any(), "pago-9", "res-9").
		Return(nil)

	res, err := svc.Checkout(context.Background(), req)

	assert.NoError(t, err)
	assert.Equal(t, "res-9", res.Reserva.ID)
}
