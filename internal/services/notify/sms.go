package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/visaflow/backend/internal/config"
	"github.com/visaflow/backend/internal/models"
)

// SMSSender delivers notifications through an HTTP SMS provider.
type SMSSender struct {
	cfg    config.SMSConfig
	client *http.Client
}

// NewSMSSender creates an SMS sender from provider configuration.
func NewSMSSender(cfg config.SMSConfig) *SMSSender {
	return &SMSSender{
		cfg:    cfg,
		client: &http.Client{Timeout: 10 * time.Second},
	}
}

func (s *SMSSender) Channel() Channel {
	return ChannelSMS
}

type smsRequest struct {
	To       string `json:"to"`
	SenderID string `json:"sender_id"`
	Message  string `json:"message"`
}

// Send posts the message to the provider. Users without a phone number
// on file are skipped without error.
func (s *SMSSender) Send(ctx context.Context, user *models.User, msg Message) error {
	if s.cfg.BaseURL == "" || s.cfg.APIKey == "" {
		return fmt.Errorf("sms sender not configured")
	}
	if user.Phone == nil || *user.Phone == "" {
		return nil
	}

	payload, err := json.Marshal(smsRequest{
		To:       *user.Phone,
		SenderID: s.cfg.SenderID,
		Message:  msg.Body,
	})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.cfg.BaseURL+"/v1/messages", bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+s.cfg.APIKey)

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("sms provider request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("sms provider returned %d: %s", resp.StatusCode, string(body))
	}
	return nil
}
