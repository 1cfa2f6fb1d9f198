package notify

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/visaflow/backend/internal/config"
	"github.com/visaflow/backend/internal/models"
)

// WhatsAppSender delivers notifications through a third-party WhatsApp
// messaging gateway. The gateway takes the api key, channel id and
// recipient number as query parameters.
type WhatsAppSender struct {
	cfg    config.WhatsAppConfig
	client *http.Client
}

// NewWhatsAppSender creates a WhatsApp sender from gateway configuration.
func NewWhatsAppSender(cfg config.WhatsAppConfig) *WhatsAppSender {
	return &WhatsAppSender{
		cfg:    cfg,
		client: &http.Client{Timeout: 10 * time.Second},
	}
}

func (s *WhatsAppSender) Channel() Channel {
	return ChannelWhatsApp
}

// Send delivers the message to the user's phone via the gateway. Users
// without a phone number are skipped without error.
func (s *WhatsAppSender) Send(ctx context.Context, user *models.User, msg Message) error {
	if s.cfg.BaseURL == "" || s.cfg.APIKey == "" || s.cfg.ChannelID == "" {
		return fmt.Errorf("whatsapp sender not configured")
	}
	if user.Phone == nil || *user.Phone == "" {
		return nil
	}

	text := msg.WhatsAppText
	if text == "" {
		text = msg.Body
	}

	params := url.Values{}
	params.Set("api_key", s.cfg.APIKey)
	params.Set("channel", s.cfg.ChannelID)
	params.Set("to", *user.Phone)
	params.Set("message", text)

	endpoint := s.cfg.BaseURL + "/api/send?" + params.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return err
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("whatsapp gateway request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("whatsapp gateway returned %d: %s", resp.StatusCode, string(body))
	}
	return nil
}
