package notification

import (
	"net/http"

	"github.com/communityservice/platform-backend/internal/config"
)

// ChannelWhatsApp: имя канала мессенджера.
const ChannelWhatsApp = "whatsapp"

type whatsAppPayload struct {
	Phone   string `json:"phone"`
	Message string `json:"message"`
}

// NewWhatsAppChannel создаёт канал WhatsApp шлюза: POST {url}/send {"phone","message"}.
func NewWhatsAppChannel(credentials CredentialsSource, client *http.Client) Channel {
	return &httpChannel{
		name:        ChannelWhatsApp,
		credentials: credentials,
		endpoint: func(c config.Credentials) string {
			return c.APIURL + "/send"
		},
		payload: func(recipient, message string) any {
			return whatsAppPayload{Phone: recipient, Message: message}
		},
		client: client,
	}
}
