package model

import (
	"time"

	"cumbrecita/internal/domains/chat/extract"
)

type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

type Message struct {
	Role      Role      `json:"role"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}

// CurrentQuery is the running trip snapshot sent to the assistant backend as
// conversation context. A range and a single date are mutually exclusive.
type CurrentQuery struct {
	CheckIn    *time.Time `json:"checkIn,omitempty"`
	CheckOut   *time.Time `json:"checkOut,omitempty"`
	SingleDate *time.Time `json:"singleDate,omitempty"`
	Guests     *int       `json:"guests,omitempty"`
	Rooms      *int       `json:"rooms,omitempty"`
}

// Apply merges an extraction into the snapshot. A full range supersedes any
// single date; a lone date never overwrites an established range. Counts
// update on explicit mention only, so an empty result changes nothing.
func (q *CurrentQuery) Apply(res extract.Result) {
	switch {
	case res.CheckIn != nil && res.CheckOut != nil:
		q.CheckIn = res.CheckIn
		q.CheckOut = res.CheckOut
		q.SingleDate = nil
	case res.SingleDate != nil && q.CheckIn == nil && q.CheckOut == nil:
		q.SingleDate = res.SingleDate
	}

	if res.Guests != nil {
		q.Guests = res.Guests
	}

	if res.Rooms != nil {
		q.Rooms = res.Rooms
	}
}

// Seed fills only the fields that are still unset, so deep-link parameters
// never clobber what the guest already told the assistant.
func (q *CurrentQuery) Seed(checkIn, checkOut *time.Time, guests, rooms *int) {
	if checkIn != nil && checkOut != nil && q.CheckIn == nil && q.CheckOut == nil {
		q.CheckIn = checkIn
		q.CheckOut = checkOut
		q.SingleDate = nil
	}

	if guests != nil && q.Guests == nil {
		q.Guests = guests
	}

	if rooms != nil && q.Rooms == nil {
		q.Rooms = rooms
	}
}

func (q *CurrentQuery) Clear() {
	*q = CurrentQuery{}
}

// ChatContext is the per-hospedaje, per-session conversation state.
type ChatContext struct {
	HospedajeID  string       `json:"hospedajeId"`
	SessionID    string       `json:"sessionId"`
	History      []Message    `json:"history"`
	CurrentQuery CurrentQuery `json:"currentQuery"`
	LastActivity time.Time    `json:"lastActivity"`
}

func New(hospedajeID, sessionID string, now time.Time) ChatContext {
	return ChatContext{
		HospedajeID:  hospedajeID,
		SessionID:    sessionID,
		LastActivity: now,
	}
}

// AddMessage appends to the history, keeping only the most recent maxHistory
// entries.
func (c *ChatContext) AddMessage(role Role, content string, now time.Time, maxHistory int) {
	c.History = append(c.History, Message{
		Role:      role,
		Content:   content,
		Timestamp: now,
	})

	if maxHistory > 0 && len(c.History) > maxHistory {
		c.History = c.History[len(c.History)-maxHistory:]
	}

	c.LastActivity = now
}

// Fresh reports whether the context saw activity within ttl of now. Stored
// contexts older than that are treated as expired even if still present.
func (c *ChatContext) Fresh(now time.Time, ttl time.Duration) bool {
	return now.Sub(c.LastActivity) <= ttl
}
