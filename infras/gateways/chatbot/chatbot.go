package chatbot

//go:generate go run go.uber.org/mock/mockgen -source=./chatbot.go -destination=./mocks/chatbot_mock.go -package=mocks

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

const otelScopeName = "gateway.chatbot"

// MessageRequest is the assistant backend's wire contract. Token is a pointer
// so anonymous callers serialize an explicit null, which the backend expects.
type MessageRequest struct {
	UserID        string  `json:"user_id"`
	Message       string  `json:"message"`
	Token         *string `json:"token"`
	SessionID     string  `json:"session_id"`
	Context       any     `json:"context"`
	SaveToHistory bool    `json:"saveToHistory"`
}

type MessageResponse struct {
	Response     string  `json:"response"`
	SessionID    string  `json:"session_id,omitempty"`
	HospedajeID  string  `json:"hospedaje_id,omitempty"`
	QueryType    string  `json:"query_type,omitempty"`
	ResponseTime float64 `json:"response_time,omitempty"`
	ContextUsed  bool    `json:"context_used,omitempty"`
}

type Backend interface {
	SendMessage(ctx context.Context, hospedajeID string, req MessageRequest) (MessageResponse, error)
}

type backendImpl struct {
	baseURL string
	client  *http.Client
	otel    otel.Otel
}

func New(config *config.Config, ot otel.Otel) Backend {
	return &backendImpl{
		baseURL: config.External.ChatBackend.BaseURL,
		client: &http.Client{
			Timeout: time.Duration(config.External.ChatBackend.TimeoutSeconds) * time.Second,
		},
		otel: ot,
	}
}

func (b *backendImpl) SendMessage(ctx context.Context, hospedajeID string, req MessageRequest) (response MessageResponse, err error) {
	ctx, scope := b.otel.NewScope(ctx, otelScopeName, otelScopeName+".SendMessage")
	defer scope.End()
	defer scope.TraceIfError(err)

	scope.SetAttribute("hospedaje.id", hospedajeID)
	scope.SetAttribute("chat.session_id", req.SessionID)

	body, err := json.Marshal(req)
	if err != nil {
		log.Error().Err(err).Msg("Failed to marshal chat message request")

		return MessageResponse{}, fmt.Errorf("failed to marshal chat message request: %w", err)
	}

	url := fmt.Sprintf("%s/chat/%s", b.baseURL, hospedajeID)

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return MessageResponse{}, fmt.Errorf("failed to build chat message request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := b.client.Do(httpReq)
	if err != nil {
		log.Error().Err(err).Str("hospedajeId", hospedajeID).Msg("Chat backend request failed")

		return MessageResponse{}, fmt.Errorf("chat backend request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusMultipleChoices {
		raw, _ := io.ReadAll(resp.Body)
		log.Error().Int("status", resp.StatusCode).Str("body", string(raw)).Msg("Chat backend returned an error status")

		return MessageResponse{}, fmt.Errorf("chat backend returned status %d", resp.StatusCode)
	}

	err = json.NewDecoder(resp.Body).Decode(&response)
	if err != nil {
		log.Error().Err(err).Msg("Failed to decode chat backend response")

		return MessageResponse{}, fmt.Errorf("failed to decode chat backend response: %w", err)
	}

	return response, nil
}
