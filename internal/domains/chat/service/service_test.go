package service_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	"cumbrecita/config"
	"cumbrecita/infras/gateways/chatbot"
	chatbotMocks "cumbrecita/infras/gateways/chatbot/mocks"
	"cumbrecita/infras/jwt"
	jwtMocks "cumbrecita/infras/jwt/mocks"
	"cumbrecita/infras/otel/mocks"
	"cumbrecita/internal/domains/chat/extract"
	"cumbrecita/internal/domains/chat/model"
	"cumbrecita/internal/domains/chat/model/dto"
	"cumbrecita/internal/domains/chat/service"
	"cumbrecita/shared/cache"
	cacheMocks "cumbrecita/shared/cache/mocks"
	"cumbrecita/shared/failure"
	"cumbrecita/shared/timezone"
)

const (
	hospedajeID = "hosp-1"
	sessionID   = "sess-1"
	contextKey  = "chat:context:hosp-1:sess-1"
)

type fixture struct {
	svc     service.Chat
	backend *chatbotMocks.MockBackend
	cache   *cacheMocks.MockRedisCache
	jwt     *jwtMocks.MockJWT
}

func newFixture(t *testing.T) fixture {
	ctrl := gomock.NewController(t)
	t.Cleanup(ctrl.Finish)

	mockBackend := chatbotMocks.NewMockBackend(ctrl)
	mockCache := cacheMocks.NewMockRedisCache(ctrl)
	mockJWT := jwtMocks.NewMockJWT(ctrl)
	mockOtel := mocks.NewOtel()

	cfg := &config.Config{}
	cfg.Chat.ContextTTLHours = 24
	cfg.Chat.HistoryMaxMessages = 10
	cfg.Chat.DedupWindowSeconds = 2

	return fixture{
		svc:     service.New(mockBackend, mockCache, mockJWT, extract.NewRegexExtractor(), cfg, mockOtel),
		backend: mockBackend,
		cache:   mockCache,
		jwt:     mockJWT,
	}
}

func storedContext() model.ChatContext {
	return model.New(hospedajeID, sessionID, timezone.Now())
}

func (f fixture) stubLoad(chatContext model.ChatContext) {
	f.cache.EXPECT().
		Get(gomock.Any(), contextKey, gomock.Any()).
		DoAndReturn(func(_ context.Context, _ string, value any) error {
			*(value.(*model.ChatContext)) = chatContext

			return nil
		})
}

func TestChatService_SendMessage(t *testing.T) {
	t.Run("forwards message and appends both turns", func(t *testing.T) {
		f := newFixture(t)
		f.stubLoad(storedContext())

		f.backend.EXPECT().
			SendMessage(gomock.Any(), hospedajeID, gomock.Any()).
			DoAndReturn(func(_ context.Context, _ string, req chatbot.MessageRequest) (chatbot.MessageResponse, error) {
				assert.Equal(t, "anonymous", req.UserID)
				assert.Nil(t, req.Token)
				assert.False(t, req.SaveToHistory)
				assert.Equal(t, sessionID, req.SessionID)

				return chatbot.MessageResponse{Response: "tenemos disponibilidad", QueryType: "availability"}, nil
			})

		var saved model.ChatContext
		f.cache.EXPECT().
			Save(gomock.Any(), contextKey, gomock.Any(), 24*3600).
			DoAndReturn(func(_ context.Context, _ string, value any, _ int) error {
				saved = value.(model.ChatContext)

				return nil
			})

		res, err := f.svc.SendMessage(context.Background(), hospedajeID, sessionID, dto.SendMessageRequest{
			Message: "hay lugar del 10/09/2026 al 12/09/2026?",
		})

		assert.NoError(t, err)
		assert.Equal(t, "tenemos disponibilidad", res.Response)
		assert.Equal(t, "availability", res.QueryType)
		assert.Equal(t, "2026-09-10", res.CurrentQuery.CheckIn)
		assert.Equal(t, "2026-09-12", res.CurrentQuery.CheckOut)

		assert.Len(t, saved.History, 2)
		assert.Equal(t, model.RoleUser, saved.History[0].Role)
		assert.Equal(t, model.RoleAssistant, saved.History[1].Role)
	})

	t.Run("dates in the assistant reply reach the snapshot", func(t *testing.T) {
		f := newFixture(t)
		f.stubLoad(storedContext())

		f.backend.EXPECT().
			SendMessage(gomock.Any(), hospedajeID, gomock.Any()).
			Return(chatbot.MessageResponse{Response: "Tenemos lugar del 10/09/2026 al 12/09/2026"}, nil)

		var saved model.ChatContext
		f.cache.EXPECT().
			Save(gomock.Any(), contextKey, gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, _ string, value any, _ int) error {
				saved = value.(model.ChatContext)

				return nil
			})

		res, err := f.svc.SendMessage(context.Background(), hospedajeID, sessionID, dto.SendMessageRequest{
			Message: "busco lugar para este finde",
		})

		assert.NoError(t, err)
		assert.Equal(t, "2026-09-10", res.CurrentQuery.CheckIn)
		assert.Equal(t, "2026-09-12", res.CurrentQuery.CheckOut)

		expectedCheckIn := time.Date(2026, time.September, 10, 0, 0, 0, 0, time.UTC)
		if assert.NotNil(t, saved.CurrentQuery.CheckIn) {
			assert.Equal(t, expectedCheckIn, *saved.CurrentQuery.CheckIn)
		}
	})

	t.Run("transport failure becomes an assistant error message", func(t *testing.T) {
		f := newFixture(t)
		f.stubLoad(storedContext())

		f.backend.EXPECT().
			SendMessage(gomock.Any(), hospedajeID, gomock.Any()).
			Return(chatbot.MessageResponse{}, errors.New("connection refused"))

		var saved model.ChatContext
		f.cache.EXPECT().
			Save(gomock.Any(), contextKey, gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, _ string, value any, _ int) error {
				saved = value.(model.ChatContext)

				return nil
			})

		res, err := f.svc.SendMessage(context.Background(), hospedajeID, sessionID, dto.SendMessageRequest{
			Message: "hola",
		})

		assert.NoError(t, err)
		assert.Contains(t, res.Response, "Lo siento")
		assert.Len(t, saved.History, 2)
		assert.Equal(t, model.RoleAssistant, saved.History[1].Role)
		assert.Contains(t, saved.History[1].Content, "Lo siento")
	})

	t.Run("general query clears the trip snapshot but keeps history", func(t *testing.T) {
		f := newFixture(t)

		chatContext := storedContext()
		checkIn := time.Date(2026, time.September, 10, 0, 0, 0, 0, time.UTC)
		checkOut := time.Date(2026, time.September, 12, 0, 0, 0, 0, time.UTC)
		guests := 4
		chatContext.CurrentQuery = model.CurrentQuery{CheckIn: &checkIn, CheckOut: &checkOut, Guests: &guests}
		chatContext.AddMessage(model.RoleUser, "mensaje previo", timezone.Now(), 10)

		f.stubLoad(chatContext)

		f.backend.EXPECT().
			SendMessage(gomock.Any(), hospedajeID, gomock.Any()).
			DoAndReturn(func(_ context.Context, _ string, req chatbot.MessageRequest) (chatbot.MessageResponse, error) {
				query := req.Context.(model.CurrentQuery)
				assert.Nil(t, query.CheckIn)
				assert.Nil(t, query.Guests)

				return chatbot.MessageResponse{Response: "contamos con pileta"}, nil
			})

		var saved model.ChatContext
		f.cache.EXPECT().
			Save(gomock.Any(), contextKey, gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, _ string, value any, _ int) error {
				saved = value.(model.ChatContext)

				return nil
			})

		res, err := f.svc.SendMessage(context.Background(), hospedajeID, sessionID, dto.SendMessageRequest{
			Message: "¿tienen pileta?",
		})

		assert.NoError(t, err)
		assert.Empty(t, res.CurrentQuery.CheckIn)
		assert.Len(t, saved.History, 3)
	})

	t.Run("authenticated caller saves to history upstream", func(t *testing.T) {
		f := newFixture(t)
		f.stubLoad(storedContext())

		f.jwt.EXPECT().
			ValidateToken("valid-token").
			Return(&jwt.Claims{UserID: "user-42"}, nil)

		f.backend.EXPECT().
			SendMessage(gomock.Any(), hospedajeID, gomock.Any()).
			DoAndReturn(func(_ context.Context, _ string, req chatbot.MessageRequest) (chatbot.MessageResponse, error) {
				assert.Equal(t, "user-42", req.UserID)
				assert.NotNil(t, req.Token)
				assert.True(t, req.SaveToHistory)

				return chatbot.MessageResponse{Response: "ok"}, nil
			})

		f.cache.EXPECT().
			Save(gomock.Any(), contextKey, gomock.Any(), gomock.Any()).
			Return(nil)

		_, err := f.svc.SendMessage(context.Background(), hospedajeID, sessionID, dto.SendMessageRequest{
			Message: "hola",
			Token:   "valid-token",
		})

		assert.NoError(t, err)
	})

	t.Run("invalid token falls back to anonymous", func(t *testing.T) {
		f := newFixture(t)
		f.stubLoad(storedContext())

		f.jwt.EXPECT().
			ValidateToken("bad-token").
			Return(nil, jwt.ErrInvalidToken)

		f.backend.EXPECT().
			SendMessage(gomock.Any(), hospedajeID, gomock.Any()).
			DoAndReturn(func(_ context.Context, _ string, req chatbot.MessageRequest) (chatbot.MessageResponse, error) {
				assert.Equal(t, "anonymous", req.UserID)
				assert.Nil(t, req.Token)
				assert.False(t, req.SaveToHistory)

				return chatbot.MessageResponse{Response: "ok"}, nil
			})

		f.cache.EXPECT().
			Save(gomock.Any(), contextKey, gomock.Any(), gomock.Any()).
			Return(nil)

		_, err := f.svc.SendMessage(context.Background(), hospedajeID, sessionID, dto.SendMessageRequest{
			Message: "hola",
			Token:   "bad-token",
		})

		assert.NoError(t, err)
	})

	t.Run("duplicate text within the window is rejected before any call", func(t *testing.T) {
		f := newFixture(t)

		f.stubLoad(storedContext())
		f.backend.EXPECT().
			SendMessage(gomock.Any(), hospedajeID, gomock.Any()).
			Return(chatbot.MessageResponse{Response: "ok"}, nil)
		f.cache.EXPECT().
			Save(gomock.Any(), contextKey, gomock.Any(), gomock.Any()).
			Return(nil)

		_, err := f.svc.SendMessage(context.Background(), hospedajeID, sessionID, dto.SendMessageRequest{
			Message: "Hola,   que tal?",
		})
		assert.NoError(t, err)

		// Same text modulo case and whitespace: no load, no backend call.
		_, err = f.svc.SendMessage(context.Background(), hospedajeID, sessionID, dto.SendMessageRequest{
			Message: "hola, que tal?",
		})

		assert.ErrorIs(t, err, failure.DuplicateMessageError)
	})

	t.Run("concurrent send on the same session is rejected", func(t *testing.T) {
		f := newFixture(t)

		entered := make(chan struct{})
		release := make(chan struct{})

		f.stubLoad(storedContext())
		f.backend.EXPECT().
			SendMessage(gomock.Any(), hospedajeID, gomock.Any()).
			DoAndReturn(func(_ context.Context, _ string, _ chatbot.MessageRequest) (chatbot.MessageResponse, error) {
				close(entered)
				<-release

				return chatbot.MessageResponse{Response: "ok"}, nil
			})
		f.cache.EXPECT().
			Save(gomock.Any(), contextKey, gomock.Any(), gomock.Any()).
			Return(nil)

		done := make(chan error, 1)
		go func() {
			_, err := f.svc.SendMessage(context.Background(), hospedajeID, sessionID, dto.SendMessageRequest{
				Message: "primer mensaje",
			})
			done <- err
		}()

		<-entered

		_, err := f.svc.SendMessage(context.Background(), hospedajeID, sessionID, dto.SendMessageRequest{
			Message: "otro mensaje distinto",
		})
		assert.ErrorIs(t, err, failure.DuplicateMessageError)

		close(release)
		assert.NoError(t, <-done)
	})

	t.Run("unknown session is not found", func(t *testing.T) {
		f := newFixture(t)

		f.cache.EXPECT().
			Get(gomock.Any(), contextKey, gomock.Any()).
			Return(errors.New("failed to get cache value: redis: nil"))

		_, err := f.svc.SendMessage(context.Background(), hospedajeID, sessionID, dto.SendMessageRequest{
			Message: "hola",
		})

		assert.Error(t, err)
	})
}

func TestChatService_Initialize(t *testing.T) {
	t.Run("creates a new session when none is given", func(t *testing.T) {
		f := newFixture(t)

		f.cache.EXPECT().
			Save(gomock.Any(), gomock.Any(), gomock.Any(), 24*3600).
			Return(nil)

		res, err := f.svc.Initialize(context.Background(), hospedajeID, dto.InitializeSessionRequest{})

		assert.NoError(t, err)
		assert.Equal(t, hospedajeID, res.HospedajeID)
		assert.NotEmpty(t, res.SessionID)
		assert.Empty(t, res.History)
	})

	t.Run("resumes a fresh existing session", func(t *testing.T) {
		f := newFixture(t)

		existing := storedContext()
		existing.AddMessage(model.RoleUser, "hola", timezone.Now(), 10)

		f.stubLoad(existing)

		res, err := f.svc.Initialize(context.Background(), hospedajeID, dto.InitializeSessionRequest{SessionID: sessionID})

		assert.NoError(t, err)
		assert.Equal(t, sessionID, res.SessionID)
		assert.Len(t, res.History, 1)
	})

	t.Run("stale session gets replaced", func(t *testing.T) {
		f := newFixture(t)

		stale := storedContext()
		stale.LastActivity = timezone.Now().Add(-25 * time.Hour)

		f.stubLoad(stale)
		f.cache.EXPECT().
			Save(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
			Return(nil)

		res, err := f.svc.Initialize(context.Background(), hospedajeID, dto.InitializeSessionRequest{SessionID: sessionID})

		assert.NoError(t, err)
		assert.NotEqual(t, sessionID, res.SessionID)
	})
}

func TestChatService_SeedQuery(t *testing.T) {
	t.Run("seeds only unset fields", func(t *testing.T) {
		f := newFixture(t)

		existingGuests := 5
		chatContext := storedContext()
		chatContext.CurrentQuery.Guests = &existingGuests

		f.stubLoad(chatContext)

		var saved model.ChatContext
		f.cache.EXPECT().
			Save(gomock.Any(), contextKey, gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, _ string, value any, _ int) error {
				saved = value.(model.ChatContext)

				return nil
			})

		seedGuests := 2
		seedRooms := 1
		res, err := f.svc.SeedQuery(context.Background(), hospedajeID, sessionID, dto.SeedQueryRequest{
			FechaInicio:  "2026-09-10",
			FechaFin:     "2026-09-12",
			Huespedes:    &seedGuests,
			Habitaciones: &seedRooms,
		})

		assert.NoError(t, err)
		assert.Equal(t, "2026-09-10", res.CurrentQuery.CheckIn)
		assert.Equal(t, &existingGuests, saved.CurrentQuery.Guests)
		assert.Equal(t, &seedRooms, saved.CurrentQuery.Rooms)
	})

	t.Run("rejects malformed dates", func(t *testing.T) {
		f := newFixture(t)

		_, err := f.svc.SeedQuery(context.Background(), hospedajeID, sessionID, dto.SeedQueryRequest{
			FechaInicio: "10/09/2026",
			FechaFin:    "12/09/2026",
		})

		assert.Error(t, err)
		assert.Equal(t, 400, failure.GetCode(err))
	})
}

func TestChatService_ClearContext(t *testing.T) {
	t.Run("deletes the stored context", func(t *testing.T) {
		f := newFixture(t)

		chatContext := storedContext()
		chatContext.AddMessage(model.RoleUser, "hola", timezone.Now(), 10)
		single := time.Date(2026, time.September, 15, 0, 0, 0, 0, time.UTC)
		chatContext.CurrentQuery.SingleDate = &single

		f.stubLoad(chatContext)
		f.cache.EXPECT().
			Delete(gomock.Any(), contextKey).
			Return(nil)

		err := f.svc.ClearContext(context.Background(), hospedajeID, sessionID)

		assert.NoError(t, err)
	})

	t.Run("next initialize starts a fresh session", func(t *testing.T) {
		f := newFixture(t)

		f.cache.EXPECT().
			Get(gomock.Any(), contextKey, gomock.Any()).
			Return(fmt.Errorf("failed to get cache value: %w", cache.Nil))
		f.cache.EXPECT().
			Save(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
			Return(nil)

		res, err := f.svc.Initialize(context.Background(), hospedajeID, dto.InitializeSessionRequest{SessionID: sessionID})

		assert.NoError(t, err)
		assert.NotEqual(t, sessionID, res.SessionID)
		assert.Empty(t, res.History)
	})

	t.Run("unknown session is not found", func(t *testing.T) {
		f := newFixture(t)

		f.cache.EXPECT().
			Get(gomock.Any(), contextKey, gomock.Any()).
			Return(fmt.Errorf("failed to get cache value: %w", cache.Nil))

		err := f.svc.ClearContext(context.Background(), hospedajeID, sessionID)

		assert.Equal(t, 404, failure.GetCode(err))
	})
}
