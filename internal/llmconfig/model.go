// Package llmconfig stores the active language-model provider settings and
// turns them into llm clients.
package llmconfig

import (
	"strings"
	"time"
)

// Known provider names.
const (
	ProviderOpenAI   = "OpenAI"
	ProviderDeepSeek = "DeepSeek"
	ProviderGoogle   = "Google"
	ProviderCustom   = "custom"
)

// Config is one stored provider configuration. At most one is active.
type Config struct {
	ID            string    `json:"id"`
	ProviderName  string    `json:"providerName"`
	ModelName     string    `json:"modelName"`
	APIKey        string    `json:"-"`
	BaseURL       string    `json:"baseUrl,omitempty"`
	IsActive      bool      `json:"isActive"`
	LastUpdatedBy string    `json:"lastUpdatedBy,omitempty"`
	LastUpdatedAt time.Time `json:"lastUpdatedDate"`
}

// View is the API representation with the key masked.
type View struct {
	Config
	APIKey string `json:"apiKey"`
}

// Masked returns the API view of c.
func (c Config) Masked() View {
	return View{Config: c, APIKey: MaskKey(c.APIKey)}
}

// MaskKey keeps the last four characters of key.
func MaskKey(key string) string {
	key = strings.TrimSpace(key)
	if key == "" {
		return ""
	}
	if len(key) <= 4 {
		return "****"
	}
	return "****" + key[len(key)-4:]
}

// CanonicalProvider maps case variants onto the known provider names.
func CanonicalProvider(name string) (string, bool) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "openai":
		return ProviderOpenAI, true
	case "deepseek":
		return ProviderDeepSeek, true
	case "google", "gemini":
		return ProviderGoogle, true
	case "custom":
		return ProviderCustom, true
	}
	return "", false
}
