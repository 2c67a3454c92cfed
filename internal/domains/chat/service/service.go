package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"cumbrecita/config"
	"cumbrecita/infras/gateways/chatbot"
	"cumbrecita/infras/jwt"
	"cumbrecita/infras/otel"
	"cumbrecita/internal/domains/chat/extract"
	"cumbrecita/internal/domains/chat/model"
	"cumbrecita/internal/domains/chat/model/dto"
	"cumbrecita/shared"
	"cumbrecita/shared/cache"
	"cumbrecita/shared/constant"
	"cumbrecita/shared/failure"
	"cumbrecita/shared/timezone"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

const (
	cacheChatContext = "chat:context"

	// Shown as the assistant's reply when the backend is unreachable, so the
	// conversation keeps a consistent turn structure.
	transportErrorReply = "Lo siento, hubo un error procesando tu mensaje. Por favor, intenta nuevamente."

	anonymousUserID = "anonymous"
)

type Chat interface {
	Initialize(ctx context.Context, hospedajeID string, req dto.InitializeSessionRequest) (dto.ContextResponse, error)
	SeedQuery(ctx context.Context, hospedajeID, sessionID string, req dto.SeedQueryRequest) (dto.ContextResponse, error)
	SendMessage(ctx context.Context, hospedajeID, sessionID string, req dto.SendMessageRequest) (dto.SendMessageResponse, error)
	GetContext(ctx context.Context, hospedajeID, sessionID string) (dto.ContextResponse, error)
	ClearContext(ctx context.Context, hospedajeID, sessionID string) error
}

type sendStamp struct {
	normalized string
	at         time.Time
}

type serviceImpl struct {
	backend   chatbot.Backend
	cache     cache.RedisCache
	jwt       jwt.JWT
	extractor extract.Extractor
	cfg       *config.Config
	otel      otel.Otel

	mu       sync.Mutex
	inFlight map[string]bool
	lastSend map[string]sendStamp
}

func New(
	backend chatbot.Backend,
	redisCache cache.RedisCache,
	jwtService jwt.JWT,
	extractor extract.Extractor,
	cfg *config.Config,
	otel otel.Otel,
) Chat {
	return &serviceImpl{
		backend:   backend,
		cache:     redisCache,
		jwt:       jwtService,
		extractor: extractor,
		cfg:       cfg,
		otel:      otel,
		inFlight:  make(map[string]bool),
		lastSend:  make(map[string]sendStamp),
	}
}

func (s *serviceImpl) Initialize(ctx context.Context, hospedajeID string, req dto.InitializeSessionRequest) (res dto.ContextResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Initialize")
	defer scope.End()
	defer scope.TraceIfError(err)

	scope.SetAttribute("hospedaje.id", hospedajeID)

	now := timezone.Now()

	if req.SessionID != "" {
		existing, loadErr := s.load(ctx, hospedajeID, req.SessionID)
		if loadErr == nil && existing.Fresh(now, s.contextTTL()) {
			res.FromModel(existing)

			return res, nil
		}
	}

	chatContext := model.New(hospedajeID, uuid.NewString(), now)

	if err = s.save(ctx, chatContext); err != nil {
		return res, err
	}

	log.Info().Str("hospedajeId", hospedajeID).Str("sessionId", chatContext.SessionID).Msg("chat session created")

	res.FromModel(chatContext)

	return res, nil
}

func (s *serviceImpl) SeedQuery(ctx context.Context, hospedajeID, sessionID string, req dto.SeedQueryRequest) (res dto.ContextResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".SeedQuery")
	defer scope.End()
	defer scope.TraceIfError(err)

	checkIn, checkOut, err := req.ToDates()
	if err != nil {
		return res, failure.BadRequestFromString(fmt.Sprintf("invalid date format: %v", err)) // nolint:wrapcheck
	}

	chatContext, err := s.load(ctx, hospedajeID, sessionID)
	if err != nil {
		return res, err
	}

	chatContext.CurrentQuery.Seed(checkIn, checkOut, req.Huespedes, req.Habitaciones)
	chatContext.LastActivity = timezone.Now()

	if err = s.save(ctx, chatContext); err != nil {
		return res, err
	}

	res.FromModel(chatContext)

	return res, nil
}

func (s *serviceImpl) SendMessage(ctx context.Context, hospedajeID, sessionID string, req dto.SendMessageRequest) (res dto.SendMessageResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".SendMessage")
	defer scope.End()
	defer scope.TraceIfError(err)

	scope.SetAttribute("hospedaje.id", hospedajeID)
	scope.SetAttribute("chat.session_id", sessionID)

	normalized := shared.NormalizeText(req.Message)
	now := timezone.Now()

	if err = s.acquireSend(sessionID, normalized, now); err != nil {
		return res, err
	}
	defer s.releaseSend(sessionID, normalized)

	chatContext, err := s.load(ctx, hospedajeID, sessionID)
	if err != nil {
		return res, err
	}

	extraction := s.extractor.Extract(req.Message)
	if extraction.GeneralQuery {
		chatContext.CurrentQuery.Clear()
	} else {
		chatContext.CurrentQuery.Apply(extraction)
	}

	chatContext.AddMessage(model.RoleUser, req.Message, now, s.cfg.Chat.HistoryMaxMessages)

	userID, token := s.classifyCaller(req.Token)

	backendRes, backendErr := s.backend.SendMessage(ctx, hospedajeID, chatbot.MessageRequest{
		UserID:        userID,
		Message:       req.Message,
		Token:         token,
		SessionID:     sessionID,
		Context:       chatContext.CurrentQuery,
		SaveToHistory: token != nil,
	})

	reply := backendRes.Response
	if backendErr != nil {
		log.Error().Err(backendErr).Str("sessionId", sessionID).Msg("chat backend call failed, replying with error message")

		reply = transportErrorReply
	} else if !extraction.GeneralQuery {
		// The assistant's reply is the other half of the exchange: it may
		// carry dates the guest only asked about, so it feeds the snapshot
		// too. Assistant text never triggers the general-query clearing.
		if assistant := s.extractor.Extract(reply); !assistant.GeneralQuery {
			chatContext.CurrentQuery.Apply(assistant)
		}
	}

	chatContext.AddMessage(model.RoleAssistant, reply, timezone.Now(), s.cfg.Chat.HistoryMaxMessages)

	if err = s.save(ctx, chatContext); err != nil {
		return res, err
	}

	res.Response = reply
	res.SessionID = sessionID
	res.QueryType = backendRes.QueryType
	res.CurrentQuery.FromModel(chatContext.CurrentQuery)

	return res, nil
}

func (s *serviceImpl) GetContext(ctx context.Context, hospedajeID, sessionID string) (res dto.ContextResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".GetContext")
	defer scope.End()
	defer scope.TraceIfError(err)

	chatContext, err := s.load(ctx, hospedajeID, sessionID)
	if err != nil {
		return res, err
	}

	res.FromModel(chatContext)

	return res, nil
}

// ClearContext drops the stored context entirely. The session identifier dies
// with it; the next Initialize starts over with a fresh one.
func (s *serviceImpl) ClearContext(ctx context.Context, hospedajeID, sessionID string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".ClearContext")
	defer scope.End()
	defer scope.TraceIfError(err)

	if _, err = s.load(ctx, hospedajeID, sessionID); err != nil {
		return err
	}

	key := shared.BuildCacheKey(cacheChatContext, hospedajeID, sessionID)

	if err = s.cache.Delete(ctx, key); err != nil {
		log.Error().Err(err).Str("key", key).Msg("failed to clear chat context")

		return fmt.Errorf("failed to clear chat context: %w", err)
	}

	return nil
}

// acquireSend enforces the per-session send guard: one in-flight request at a
// time, and no identical normalized text within the de-dup window. Both checks
// happen before any network call.
func (s *serviceImpl) acquireSend(sessionID, normalized string, now time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.inFlight[sessionID] {
		return failure.DuplicateMessageError // nolint:wrapcheck
	}

	if stamp, ok := s.lastSend[sessionID]; ok {
		window := time.Duration(s.cfg.Chat.DedupWindowSeconds) * time.Second
		if stamp.normalized == normalized && now.Sub(stamp.at) < window {
			return failure.DuplicateMessageError // nolint:wrapcheck
		}
	}

	s.inFlight[sessionID] = true

	return nil
}

func (s *serviceImpl) releaseSend(sessionID, normalized string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := timezone.Now()
	window := time.Duration(s.cfg.Chat.DedupWindowSeconds) * time.Second

	// Stamps only matter inside the window; drop the expired ones so the map
	// does not grow with every session ever seen.
	for id, stamp := range s.lastSend {
		if now.Sub(stamp.at) >= window {
			delete(s.lastSend, id)
		}
	}

	delete(s.inFlight, sessionID)
	s.lastSend[sessionID] = sendStamp{
		normalized: normalized,
		at:         now,
	}
}

// classifyCaller decides the saveToHistory side of the backend contract: only
// a verifiable token makes the conversation durable upstream.
func (s *serviceImpl) classifyCaller(rawToken string) (string, *string) {
	if rawToken == "" {
		return anonymousUserID, nil
	}

	claims, err := s.jwt.ValidateToken(rawToken)
	if err != nil {
		log.Warn().Err(err).Msg("chat token failed validation, treating caller as anonymous")

		return anonymousUserID, nil
	}

	return claims.UserID, &rawToken
}

func (s *serviceImpl) load(ctx context.Context, hospedajeID, sessionID string) (model.ChatContext, error) {
	var chatContext model.ChatContext

	key := shared.BuildCacheKey(cacheChatContext, hospedajeID, sessionID)

	err := s.cache.Get(ctx, key, &chatContext)
	if err != nil {
		if errors.Is(err, cache.Nil) {
			return chatContext, failure.NotFound("chat session not found") // nolint:wrapcheck
		}

		log.Error().Err(err).Str("key", key).Msg("failed to load chat context")

		return chatContext, fmt.Errorf("failed to load chat context: %w", err)
	}

	if chatContext.HospedajeID != hospedajeID {
		return model.ChatContext{}, failure.NotFound("chat session not found") // nolint:wrapcheck
	}

	return chatContext, nil
}

func (s *serviceImpl) save(ctx context.Context, chatContext model.ChatContext) error {
	key := shared.BuildCacheKey(cacheChatContext, chatContext.HospedajeID, chatContext.SessionID)

	ttlSeconds := int(s.contextTTL() / time.Second)

	if err := s.cache.Save(ctx, key, chatContext, ttlSeconds); err != nil {
		log.Error().Err(err).Str("key", key).Msg("failed to save chat context")

		return fmt.Errorf("failed to save chat context: %w", err)
	}

	return nil
}

func (s *serviceImpl) contextTTL() time.Duration {
	return time.Duration(s.cfg.Chat.ContextTTLHours) * time.Hour
}
