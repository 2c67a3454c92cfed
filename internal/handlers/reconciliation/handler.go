package reconciliation

import (
	"net/http"
	"strconv"

	"cumbrecita/infras/otel"
	"cumbrecita/internal/domains/reconciliation/service"
	"cumbrecita/shared/constant"
	"cumbrecita/shared/failure"
	"cumbrecita/transport/http/response"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

type Handler struct {
	service service.Reconciliation
	otel    otel.Otel
}

func New(service service.Reconciliation, otel otel.Otel) Handler {
	return Handler{
		service: service,
		otel:    otel,
	}
}

func (handler *Handler) Router(router chi.Router) {
	router.Route("/reconciliation/inconsistencies", func(routerGroup chi.Router) {
		routerGroup.Get("/", handler.List)
		routerGroup.Patch("/{id}/resolve", handler.Resolve)
	})
}

// List returns the recorded checkout inconsistencies.
// @Summary List checkout inconsistencies
// @Description Back-office listing of checkouts that need out-of-band repair.
// @Tags Reconciliation
// @Produce json
// @Param unresolved query bool false "Only unresolved records"
// @Param limit query int false "Page size"
// @Param offset query int false "Page offset"
// @Success 200 {object} response.Data[dto.ListRecordsResponse]
// @Failure 500 {object} response.Error
// @Router /v1/reconciliation/inconsistencies [get]
func (handler *Handler) List(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".List")
	defer scope.End()

	query := request.URL.Query()

	onlyUnresolved, _ := strconv.ParseBool(query.Get(constant.RequestParamOnlyUnresolved))
	offset, _ := strconv.Atoi(query.Get(constant.RequestParamOffset))

	var limit int

	if raw := query.Get(constant.RequestParamLimit); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			response.WithError(writer, failure.InvalidLimitParam)

			return
		}

		limit = parsed
	}

	res, err := handler.service.List(ctx, onlyUnresolved, limit, offset)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to list inconsistencies")

		response.WithError(writer, err)

		return
	}

	response.WithJSON(writer, http.StatusOK, res)
}

// Resolve marks a recorded inconsistency as handled.
// @Summary Resolve an inconsistency
// @Tags Reconciliation
// @Produce json
// @Param id path string true "Record ID"
// @Success 200 {object} response.Message
// @Failure 404 {object} response.Error
// @Router /v1/reconciliation/inconsistencies/{id}/resolve [patch]
func (handler *Handler) Resolve(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".Resolve")
	defer scope.End()

	id := chi.URLParam(request, constant.RequestParamID)

	if err := handler.service.Resolve(ctx, id); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to resolve inconsistency")

		response.WithError(writer, err)

		return
	}

	response.WithMessage(writer, http.StatusOK, "Inconsistency resolved")
}
