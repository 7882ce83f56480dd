package config

import (
	"strings"
	"sync"
)

// Credentials: адрес и ключ внешнего API отправки сообщений.
type Credentials struct {
	APIURL string
	APIKey string
}

// Configured сообщает, заданы ли и URL, и ключ.
func (c Credentials) Configured() bool {
	return c.APIURL != "" && c.APIKey != ""
}

// ChannelSettings описывает учётные данные всех каналов уведомлений.
type ChannelSettings struct {
	WhatsApp Credentials
	SMS      Credentials
}

// LoadChannelSettings читает учётные данные каналов из окружения.
func LoadChannelSettings() ChannelSettings {
	return channelSettingsFrom(func(key string) string { return getEnv(key, "") })
}

func channelSettingsFrom(get func(string) string) ChannelSettings {
	return ChannelSettings{
		WhatsApp: Credentials{
			APIURL: strings.TrimRight(strings.TrimSpace(get("WHATSAPP_API_URL")), "/"),
			APIKey: strings.TrimSpace(get("WHATSAPP_API_KEY")),
		},
		SMS: Credentials{
			APIURL: strings.TrimSpace(get("SMS_API_URL")),
			APIKey: strings.TrimSpace(get("SMS_API_KEY")),
		},
	}
}

// reloadLookup отдаёт значение из свежего .env. Ключ, который был взят из .env
// и пропал из файла, считается пустым. Остальные ключи берутся из окружения.
func reloadLookup(values map[string]string) func(string) string {
	return func(key string) string {
		if v, ok := values[key]; ok {
			return v
		}
		if fromDotEnv(key) {
			return ""
		}
		return getEnv(key, "")
	}
}

// ChannelStore хранит текущие настройки каналов и позволяет заменить их на лету.
// Каналы читают настройки при каждой отправке, поэтому перезагрузка
// сразу меняет доступность каналов.
type ChannelStore struct {
	mu       sync.RWMutex
	settings ChannelSettings
}

// NewChannelStore создаёт хранилище с начальными настройками.
func NewChannelStore(settings ChannelSettings) *ChannelStore {
	return &ChannelStore{settings: settings}
}

// WhatsApp возвращает текущие учётные данные WhatsApp.
func (s *ChannelStore) WhatsApp() Credentials {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.settings.WhatsApp
}

// SMS возвращает текущие учётные данные SMS шлюза.
func (s *ChannelStore) SMS() Credentials {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.settings.SMS
}

// Set заменяет настройки целиком.
func (s *ChannelStore) Set(settings ChannelSettings) {
	s.mu.Lock()
	s.settings = settings
	s.mu.Unlock()
}

// Reload перечитывает .env и переменные окружения. Значения из .env
// перекрывают уже установленные, удалённые из файла ключи отключают канал.
func (s *ChannelStore) Reload() ChannelSettings {
	settings := channelSettingsFrom(reloadLookup(readDotEnv()))
	s.Set(settings)
	return settings
}
