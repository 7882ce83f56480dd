package notification

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/communityservice/platform-backend/internal/config"
)

// ErrChannelDisabled возвращается при попытке отправки через ненастроенный канал.
var ErrChannelDisabled = errors.New("notification channel is not configured")

// Channel: один внешний транспорт сообщений.
type Channel interface {
	Name() string
	IsEnabled() bool
	Send(ctx context.Context, recipient, message string) error
}

// CredentialsSource возвращает актуальные учётные данные канала.
// Вызывается при каждой отправке, поэтому перезагрузка конфигурации
// подхватывается без пересоздания канала.
type CredentialsSource func() config.Credentials

// httpChannel отправляет JSON POST запрос с Bearer авторизацией.
type httpChannel struct {
	name        string
	credentials CredentialsSource
	endpoint    func(config.Credentials) string
	payload     func(recipient, message string) any
	client      *http.Client
}

func (c *httpChannel) Name() string { return c.name }

func (c *httpChannel) IsEnabled() bool {
	return c.credentials().Configured()
}

func (c *httpChannel) Send(ctx context.Context, recipient, message string) error {
	creds := c.credentials()
	if !creds.Configured() {
		return ErrChannelDisabled
	}

	body, err := json.Marshal(c.payload(recipient, message))
	if err != nil {
		return fmt.Errorf("%s: marshal payload: %w", c.name, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint(creds), bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("%s: build request: %w", c.name, err)
	}
	req.Header.Set("Authorization", "Bearer "+creds.APIKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("%s: request failed: %w", c.name, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("%s: unexpected status %d: %s", c.name, resp.StatusCode, bytes.TrimSpace(snippet))
	}

	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}

// NewHTTPClient создаёт HTTP клиент для каналов. Таймаут клиента действует,
// даже если контекст попытки не ограничен.
func NewHTTPClient(timeout time.Duration) *http.Client {
	return &http.Client{Timeout: timeout}
}
