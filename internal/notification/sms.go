package notification

import (
	"net/http"

	"github.com/communityservice/platform-backend/internal/config"
)

// ChannelSMS: имя SMS канала.
const ChannelSMS = "sms"

type smsPayload struct {
	To      string `json:"to"`
	Message string `json:"message"`
}

// NewSMSChannel создаёт канал SMS шлюза: POST {url} {"to","message"}.
func NewSMSChannel(credentials CredentialsSource, client *http.Client) Channel {
	return &httpChannel{
		name:        ChannelSMS,
		credentials: credentials,
		endpoint: func(c config.Credentials) string {
			return c.APIURL
		},
		payload: func(recipient, message string) any {
			return smsPayload{To: recipient, Message: message}
		},
		client: client,
	}
}
