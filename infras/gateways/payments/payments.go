package payments

//go:generate go run go.uber.org/mock/mockgen -source=./payments.go -destination=./mocks/payments_mock.go -package=mocks

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

const otelScopeName = "gateway.payments"

// Card carries the card details forwarded to the gateway. Values pass through
// to the charge request and are never persisted on this side.
type Card struct {
	Numero      string `json:"numero"`
	Titular     string `json:"titular"`
	Vencimiento string `json:"vencimiento"`
	CVE         string `json:"cve"`
	Tipo        string `json:"tipo"`
	Entidad     string `json:"entidad"`
}

// CreatePaymentRequest is the charge request. It deliberately has no
// reservation reference; the link is patched in after the reservation exists.
type CreatePaymentRequest struct {
	Metodo         string  `json:"metodo"`
	Tarjeta        *Card   `json:"tarjeta,omitempty"`
	MontoReserva   float64 `json:"montoReserva"`
	MontoImpuestos float64 `json:"montoImpuestos"`
	MontoTotal     float64 `json:"montoTotal"`
}

// Payment is the gateway's view of a charge. The amounts here are the settled
// ones and take precedence over whatever the caller submitted.
type Payment struct {
	ID             string  `json:"id"`
	Estado         string  `json:"estado"`
	Metodo         string  `json:"metodo"`
	MontoReserva   float64 `json:"montoReserva"`
	MontoImpuestos float64 `json:"montoImpuestos"`
	MontoTotal     float64 `json:"montoTotal"`
	ReservaID      *string `json:"reservaId"`
	FechaPago      string  `json:"fechaPago,omitempty"`
}

type Gateway interface {
	CreatePayment(ctx context.Context, req CreatePaymentRequest) (Payment, error)
	LinkReservation(ctx context.Context, pagoID, reservaID string) error
}

type gatewayImpl struct {
	baseURL string
	client  *http.Client
	otel    otel.Otel
}

func New(config *config.Config, ot otel.Otel) Gateway {
	return &gatewayImpl{
		baseURL: config.External.PaymentGateway.BaseURL,
		client: &http.Client{
			Timeout: time.Duration(config.External.PaymentGateway.TimeoutSeconds) * time.Second,
		},
		otel: ot,
	}
}

func (g *gatewayImpl) CreatePayment(ctx context.Context, req CreatePaymentRequest) (payment Payment, err error) {
	ctx, scope := g.otel.NewScope(ctx, otelScopeName, otelScopeName+".CreatePayment")
	defer scope.End()
	defer scope.TraceIfError(err)

	scope.SetAttribute("payment.method", req.Metodo)

	body, err := json.Marshal(req)
	if err != nil {
		log.Error().Err(err).Msg("Failed to marshal payment request")

		return Payment{}, fmt.Errorf("failed to marshal payment request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, g.baseURL+"/pagos", bytes.NewReader(body))
	if err != nil {
		return Payment{}, fmt.Errorf("failed to build payment request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := g.client.Do(httpReq)
	if err != nil {
		log.Error().Err(err).Msg("Payment gateway request failed")

		return Payment{}, fmt.Errorf("payment gateway request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusMultipleChoices {
		raw, _ := io.ReadAll(resp.Body)
		log.Error().Int("status", resp.StatusCode).Str("body", string(raw)).Msg("Payment gateway returned an error status")

		return Payment{}, fmt.Errorf("payment gateway returned status %d", resp.StatusCode)
	}

	err = json.NewDecoder(resp.Body).Decode(&payment)
	if err != nil {
		log.Error().Err(err).Msg("Failed to decode payment gateway response")

		return Payment{}, fmt.Errorf("failed to decode payment gateway response: %w", err)
	}

	log.Info().Str("pagoId", payment.ID).Str("estado", payment.Estado).Msg("Payment created")

	return payment, nil
}

func (g *gatewayImpl) LinkReservation(ctx context.Context, pagoID, reservaID string) (err error) {
	ctx, scope := g.otel.NewScope(ctx, otelScopeName, otelScopeName+".LinkReservation")
	defer scope.End()
	defer scope.TraceIfError(err)

	scope.SetAttribute("payment.id", pagoID)
	scope.SetAttribute("reservation.id", reservaID)

	url := fmt.Sprintf("%s/pagos/%s/reserva/%s", g.baseURL, pagoID, reservaID)

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPatch, url, nil)
	if err != nil {
		return fmt.Errorf("failed to build link request: %w", err)
	}

	resp, err := g.client.Do(httpReq)
	if err != nil {
		log.Error().Err(err).Str("pagoId", pagoID).Str("reservaId", reservaID).Msg("Payment link request failed")

		return fmt.Errorf("payment link request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusMultipleChoices {
		raw, _ := io.ReadAll(resp.Body)
		log.Error().Int("status", resp.StatusCode).Str("body", string(raw)).Msg("Payment link returned an error status")

		return fmt.Errorf("payment link returned status %d", resp.StatusCode)
	}

	log.Info().Str("pagoId", pagoID).Str("reservaId", reservaID).Msg("Payment linked to reservation")

	return nil
}
