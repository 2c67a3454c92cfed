package chat

import (
	"bytes"
	"io"
	"net/http"

	"cumbrecita/infras/otel"
	"cumbrecita/internal/domains/chat/model/dto"
	"cumbrecita/internal/domains/chat/service"
	"cumbrecita/shared/constant"
	"cumbrecita/shared/validator"
	"cumbrecita/transport/http/response"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

type Handler struct {
	service service.Chat
	otel    otel.Otel
}

func New(service service.Chat, otel otel.Otel) Handler {
	return Handler{
		service: service,
		otel:    otel,
	}
}

func (handler *Handler) Router(router chi.Router) {
	router.Route("/chat/{hospedajeId}", func(routerGroup chi.Router) {
		routerGroup.Post("/sessions", handler.InitializeSession)
		routerGroup.Route("/sessions/{sessionId}", func(sessionGroup chi.Router) {
			sessionGroup.Get("/", handler.GetContext)
			sessionGroup.Delete("/", handler.ClearContext)
			sessionGroup.Post("/messages", handler.SendMessage)
			sessionGroup.Patch("/query", handler.SeedQuery)
		})
	})
}

// InitializeSession creates or resumes a chat session for a property.
// @Summary Initialize a chat session
// @Description Resume the given session if it is still fresh, otherwise start a new one. The body is optional.
// @Tags Chat
// @Accept json
// @Produce json
// @Param hospedajeId path string true "Property ID"
// @Param request body dto.InitializeSessionRequest false "Existing session to resume"
// @Success 200 {object} response.Data[dto.ContextResponse]
// @Failure 400 {object} response.Error
// @Router /v1/chat/{hospedajeId}/sessions [post]
func (handler *Handler) InitializeSession(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".InitializeSession")
	defer scope.End()

	hospedajeID := chi.URLParam(request, constant.RequestParamHospedajeID)

	req := dto.InitializeSessionRequest{}

	// The body is optional: a bare POST starts a fresh session.
	body, _ := io.ReadAll(request.Body)
	if len(body) > 0 {
		if err := validator.Validate(bytes.NewReader(body), &req); err != nil {
			scope.TraceError(err)
			log.Error().Err(err).Msg("failed to validate session request")

			response.WithError(writer, err)

			return
		}
	}

	res, err := handler.service.Initialize(ctx, hospedajeID, req)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to initialize chat session")

		response.WithError(writer, err)

		return
	}

	response.WithJSON(writer, http.StatusOK, res)
}

// SendMessage forwards a guest message to the assistant backend.
// @Summary Send a chat message
// @Description Extract trip parameters, forward the message with the current context, and append both turns to the history.
// @Tags Chat
// @Accept json
// @Produce json
// @Param hospedajeId path string true "Property ID"
// @Param sessionId path string true "Session ID"
// @Param request body dto.SendMessageRequest true "Message"
// @Success 200 {object} response.Data[dto.SendMessageResponse]
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 429 {object} response.Error "Duplicate or concurrent send"
// @Router /v1/chat/{hospedajeId}/sessions/{sessionId}/messages [post]
func (handler *Handler) SendMessage(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".SendMessage")
	defer scope.End()

	hospedajeID := chi.URLParam(request, constant.RequestParamHospedajeID)
	sessionID := chi.URLParam(request, constant.RequestParamSessionID)

	req := dto.SendMessageRequest{}

	if err := validator.Validate(request.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate message request")

		response.WithError(writer, err)

		return
	}

	res, err := handler.service.SendMessage(ctx, hospedajeID, sessionID, req)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to send chat message")

		response.WithError(writer, err)

		return
	}

	response.WithJSON(writer, http.StatusOK, res)
}

// SeedQuery seeds trip parameters from URL deep-link parameters.
// @Summary Seed the trip snapshot
// @Description Fill the unset fields of the current query from search parameters; established values are kept.
// @Tags Chat
// @Accept json
// @Produce json
// @Param hospedajeId path string true "Property ID"
// @Param sessionId path string true "Session ID"
// @Param request body dto.SeedQueryRequest true "Trip parameters"
// @Success 200 {object} response.Data[dto.ContextResponse]
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Router /v1/chat/{hospedajeId}/sessions/{sessionId}/query [patch]
func (handler *Handler) SeedQuery(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".SeedQuery")
	defer scope.End()

	hospedajeID := chi.URLParam(request, constant.RequestParamHospedajeID)
	sessionID := chi.URLParam(request, constant.RequestParamSessionID)

	req := dto.SeedQueryRequest{}

	if err := validator.Validate(request.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate seed request")

		response.WithError(writer, err)

		return
	}

	res, err := handler.service.SeedQuery(ctx, hospedajeID, sessionID, req)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to seed chat query")

		response.WithError(writer, err)

		return
	}

	response.WithJSON(writer, http.StatusOK, res)
}

// GetContext returns the current conversation state.
// @Summary Get the chat context
// @Tags Chat
// @Produce json
// @Param hospedajeId path string true "Property ID"
// @Param sessionId path string true "Session ID"
// @Success 200 {object} response.Data[dto.ContextResponse]
// @Failure 404 {object} response.Error
// @Router /v1/chat/{hospedajeId}/sessions/{sessionId} [get]
func (handler *Handler) GetContext(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetContext")
	defer scope.End()

	hospedajeID := chi.URLParam(request, constant.RequestParamHospedajeID)
	sessionID := chi.URLParam(request, constant.RequestParamSessionID)

	res, err := handler.service.GetContext(ctx, hospedajeID, sessionID)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get chat context")

		response.WithError(writer, err)

		return
	}

	response.WithJSON(writer, http.StatusOK, res)
}

// ClearContext drops the history and the trip snapshot for a session.
// @Summary Clear the chat context
// @Tags Chat
// @Produce json
// @Param hospedajeId path string true "Property ID"
// @Param sessionId path string true "Session ID"
// @Success 200 {object} response.Message
// @Failure 404 {object} response.Error
// @Router /v1/chat/{hospedajeId}/sessions/{sessionId} [delete]
func (handler *Handler) ClearContext(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".ClearContext")
	defer scope.End()

	hospedajeID := chi.URLParam(request, constant.RequestParamHospedajeID)
	sessionID := chi.URLParam(request, constant.RequestParamSessionID)

	if err := handler.service.ClearContext(ctx, hospedajeID, sessionID); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to clear chat context")

		response.WithError(writer, err)

		return
	}

	response.WithMessage(writer, http.StatusOK, "Chat context cleared")
}
