package dto

import (
	"time"

	"cumbrecita/internal/domains/chat/model"
	"cumbrecita/shared/constant"
)

type InitializeSessionRequest struct {
	SessionID string `json:"session_id" validate:"omitempty,uuid4"`
}

type SeedQueryRequest struct {
	FechaInicio  string `json:"fechaInicio"  validate:"omitempty"`
	FechaFin     string `json:"fechaFin"     validate:"omitempty"`
	Huespedes    *int   `json:"huespedes"    validate:"omitempty,min=1"`
	Habitaciones *int   `json:"habitaciones" validate:"omitempty,min=1"`
}

func (r *SeedQueryRequest) ToDates() (checkIn, checkOut *time.Time, err error) {
	if r.FechaInicio == "" || r.FechaFin == "" {
		return nil, nil, nil
	}

	start, err := time.Parse(constant.DateOnlyFormat, r.FechaInicio)
	if err != nil {
		return nil, nil, err
	}

	end, err := time.Parse(constant.DateOnlyFormat, r.FechaFin)
	if err != nil {
		return nil, nil, err
	}

	return &start, &end, nil
}

type SendMessageRequest struct {
	Message string `json:"message" validate:"required,max=2000"`
	Token   string `json:"token"   validate:"omitempty"`
}

type MessageResponse struct {
	Role      string `json:"role"`
	Content   string `json:"content"`
	Timestamp string `json:"timestamp"`
}

type QueryResponse struct {
	CheckIn    string `json:"checkIn,omitempty"`
	CheckOut   string `json:"checkOut,omitempty"`
	SingleDate string `json:"singleDate,omitempty"`
	Guests     *int   `json:"guests,omitempty"`
	Rooms      *int   `json:"rooms,omitempty"`
}

func (r *QueryResponse) FromModel(query model.CurrentQuery) {
	r.CheckIn = formatDate(query.CheckIn)
	r.CheckOut = formatDate(query.CheckOut)
	r.SingleDate = formatDate(query.SingleDate)
	r.Guests = query.Guests
	r.Rooms = query.Rooms
}

type ContextResponse struct {
	HospedajeID  string            `json:"hospedajeId"`
	SessionID    string            `json:"sessionId"`
	History      []MessageResponse `json:"history"`
	CurrentQuery QueryResponse     `json:"currentQuery"`
	LastActivity string            `json:"lastActivity"`
}

func (r *ContextResponse) FromModel(chatContext model.ChatContext) {
	r.HospedajeID = chatContext.HospedajeID
	r.SessionID = chatContext.SessionID
	r.LastActivity = chatContext.LastActivity.Format(constant.DateFormat)
	r.CurrentQuery.FromModel(chatContext.CurrentQuery)

	r.History = make([]MessageResponse, len(chatContext.History))
	for i, msg := range chatContext.History {
		r.History[i] = MessageResponse{
			Role:      string(msg.Role),
			Content:   msg.Content,
			Timestamp: msg.Timestamp.Format(constant.DateFormat),
		}
	}
}

type SendMessageResponse struct {
	Response     string        `json:"response"`
	SessionID    string        `json:"session_id"`
	QueryType    string        `json:"query_type,omitempty"`
	CurrentQuery QueryResponse `json:"currentQuery"`
}

func formatDate(t *time.Time) string {
	if t == nil {
		return ""
	}

	return t.Format(constant.DateOnlyFormat)
}
