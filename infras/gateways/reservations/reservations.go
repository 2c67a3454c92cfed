package reservations

//go:generate go run go.uber.org/mock/mockgen -source=./reservations.go -destination=./mocks/reservations_mock.go -package=mocks

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"cumbrecita/config"
	"cumbrecita/infras/otel"

	"github.com/rs/zerolog/log"
)

const otelScopeName = "gateway.reservations"

type Line struct {
	HabitacionID string `json:"habitacionId"`
	Personas     int    `json:"personas"`
}

type Companion struct {
	Nombre   string `json:"nombre"`
	Apellido string `json:"apellido"`
	DNI      string `json:"dni"`
	Telefono string `json:"telefono,omitempty"`
}

// CreateReservationRequest carries the draft plus the settled payment figures.
// The MontoRealPago family must come from the gateway response, not from the
// amounts the client originally submitted.
type CreateReservationRequest struct {
	HospedajeID       string      `json:"hospedajeId"`
	FechaInicio       string      `json:"fechaInicio"`
	FechaFin          string      `json:"fechaFin"`
	Lineas            []Line      `json:"lineas"`
	Observacion       string      `json:"observacion,omitempty"`
	Acompaniantes     []Companion `json:"acompaniantes,omitempty"`
	PagoID            string      `json:"pagoId"`
	MontoRealPago     float64     `json:"montoRealPago"`
	ImpuestosRealPago float64     `json:"impuestosRealPago"`
	TotalRealPago     float64     `json:"totalRealPago"`
	EstadoPago        string      `json:"estadoPago"`
}

// Reservation is the store's confirmation. CodigoQr is an opaque check-in
// reference carried through to the caller untouched.
type Reservation struct {
	ID          string `json:"id"`
	Estado      string `json:"estado,omitempty"`
	CodigoQr    string `json:"codigoQr,omitempty"`
	HospedajeID string `json:"hospedajeId,omitempty"`
	FechaInicio string `json:"fechaInicio,omitempty"`
	FechaFin    string `json:"fechaFin,omitempty"`
}

type Store interface {
	CreateReservation(ctx context.Context, req CreateReservationRequest) (Reservation, error)
}

type storeImpl struct {
	baseURL string
	client  *http.Client
	otel    otel.Otel
}

func New(config *config.Config, ot otel.Otel) Store {
	return &storeImpl{
		baseURL: config.External.ReservationStore.BaseURL,
		client: &http.Client{
			Timeout: time.Duration(config.External.ReservationStore.TimeoutSeconds) * time.Second,
		},
		otel: ot,
	}
}

func (s *storeImpl) CreateReservation(ctx context.Context, req CreateReservationRequest) (reservation Reservation, err error) {
	ctx, scope := s.otel.NewScope(ctx, otelScopeName, otelScopeName+".CreateReservation")
	defer scope.End()
	defer scope.TraceIfError(err)

	scope.SetAttribute("hospedaje.id", req.HospedajeID)
	scope.SetAttribute("payment.id", req.PagoID)

	body, err := json.Marshal(req)
	if err != nil {
		log.Error().Err(err).Msg("Failed to marshal reservation request")

		return Reservation{}, fmt.Errorf("failed to marshal reservation request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+"/reservas", bytes.NewReader(body))
	if err != nil {
		return Reservation{}, fmt.Errorf("failed to build reservation request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(httpReq)
	if err != nil {
		log.Error().Err(err).Str("pagoId", req.PagoID).Msg("Reservation store request failed")

		return Reservation{}, fmt.Errorf("reservation store request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusMultipleChoices {
		raw, _ := io.ReadAll(resp.Body)
		log.Error().Int("status", resp.StatusCode).Str("body", string(raw)).Str("pagoId", req.PagoID).Msg("Reservation store returned an error status")

		return Reservation{}, fmt.Errorf("reservation store returned status %d", resp.StatusCode)
	}

	err = json.NewDecoder(resp.Body).Decode(&reservation)
	if err != nil {
		log.Error().Err(err).Msg("Failed to decode reservation store response")

		return Reservation{}, fmt.Errorf("failed to decode reservation store response: %w", err)
	}

	log.Info().Str("reservaId", reservation.ID).Str("pagoId", req.PagoID).Msg("Reservation created")

	return reservation, nil
}
