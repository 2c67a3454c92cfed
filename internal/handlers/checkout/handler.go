package checkout

import (
	"errors"
	"net/http"

	"cumbrecita/infras/otel"
	"cumbrecita/internal/domains/checkout/model"
	"cumbrecita/internal/domains/checkout/model/dto"
	"cumbrecita/internal/domains/checkout/service"
	"cumbrecita/shared/constant"
	"cumbrecita/shared/validator"
	"cumbrecita/transport/http/response"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

type Handler struct {
	service service.Checkout
	otel    otel.Otel
}

func New(service service.Checkout, otel otel.Otel) Handler {
	return Handler{
		service: service,
		otel:    otel,
	}
}

func (handler *Handler) Router(router chi.Router) {
	router.Post("/checkout", handler.Checkout)
}

// Checkout runs the payment-then-reservation protocol for a stay.
// @Summary Pay for and create a reservation
// @Description Charge the payment gateway, create the reservation with the settled amounts, and link both records.
// @Tags Checkout
// @Accept json
// @Produce json
// @Param request body dto.CheckoutRequest true "Checkout Request"
// @Success 201 {object} response.Data[dto.CheckoutResponse] "Reservation created and paid"
// @Failure 400 {object} response.Error
// @Failure 402 {object} model.Error "Payment rejected or not approvable"
// @Failure 502 {object} model.Error "Gateway failure; inconsistent=true means the charge went through"
// @Router /v1/checkout [post]
func (handler *Handler) Checkout(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".Checkout")
	defer scope.End()

	req := dto.CheckoutRequest{}

	if err := validator.Validate(request.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate checkout request")

		response.WithError(writer, err)

		return
	}

	res, err := handler.service.Checkout(ctx, req)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("checkout failed")

		var checkoutErr *model.Error
		if errors.As(err, &checkoutErr) {
			response.WithErrorPayload(writer, statusFor(checkoutErr), checkoutErr)

			return
		}

		response.WithError(writer, err)

		return
	}

	scope.AddEvent("Checkout completed for reservation " + res.Reserva.ID)

	response.WithJSON(writer, http.StatusCreated, res)
}

func statusFor(err *model.Error) int {
	switch err.Step {
	case model.StepApproval:
		return http.StatusPaymentRequired
	case model.StepCharge, model.StepReservation:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
