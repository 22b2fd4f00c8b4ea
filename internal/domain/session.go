package domain

import (
	"fmt"
	"time"
)

// Session representa um touchpoint de marketing registrado pela ingestão
// upstream. Imutável após a ingestão.
type Session struct {
	SessionID             string
	UserID                string
	ChannelName           string
	EventDate             string
	EventTime             string
	HolderEngagement      bool
	CloserEngagement      bool
	ImpressionInteraction bool
}

// NewSession valida os campos obrigatórios antes de construir a sessão
func NewSession(
	sessionID string,
	userID string,
	channelName string,
	eventDate string,
	eventTime string,
	holderEngagement bool,
	closerEngagement bool,
	impressionInteraction bool,
) (*Session, error) {
	s := &Session{
		SessionID:             sessionID,
		UserID:                userID,
		ChannelName:           channelName,
		EventDate:             eventDate,
		EventTime:             eventTime,
		HolderEngagement:      holderEngagement,
		CloserEngagement:      closerEngagement,
		ImpressionInteraction: impressionInteraction,
	}

	if err := s.Validate(); err != nil {
		return nil, err
	}

	return s, nil
}

func (s *Session) Validate() error {
	if s.SessionID == "" {
		return fmt.Errorf("sessão sem session_id")
	}
	if s.UserID == "" {
		return fmt.Errorf("sessão %s sem user_id", s.SessionID)
	}
	if s.ChannelName == "" {
		return fmt.Errorf("sessão %s sem channel_name", s.SessionID)
	}
	if _, err := s.Timestamp(); err != nil {
		return fmt.Errorf("sessão %s com data/hora inválida: %w", s.SessionID, err)
	}

	return nil
}

// Timestamp combina event_date e event_time em um time.Time (UTC)
func (s *Session) Timestamp() (time.Time, error) {
	return ParseDateTime(s.EventDate, s.EventTime)
}

// SessionCost registra o custo de mídia de uma sessão (1:1 por session_id).
// Sessões orgânicas não possuem registro de custo.
type SessionCost struct {
	SessionID string
	Cost      float64
}

func (c *SessionCost) Validate() error {
	if c.SessionID == "" {
		return fmt.Errorf("custo de sessão sem session_id")
	}
	if c.Cost < 0 {
		return fmt.Errorf("custo negativo para a sessão %s", c.SessionID)
	}

	return nil
}

// ParseDateTime interpreta o par (data, hora) usado nas tabelas de origem
func ParseDateTime(date, clock string) (time.Time, error) {
	return time.Parse(time.DateOnly+" "+time.TimeOnly, date+" "+clock)
}
