package multi

import (
	"math"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// MaxInactivityTimeout is the longest idle period the server accepts.
const MaxInactivityTimeout = 180 * time.Second

// ConnectConfig selects the voice, model and audio format of a
// multi-context stream.
type ConnectConfig struct {
	BaseURL string // defaults to DefaultBaseURL()
	VoiceID string
	APIKey  string // sent as the xi-api-key header

	ModelID      string
	LanguageCode string
	OutputFormat string

	// InactivityTimeout closes an idle socket server side. It is sent in
	// whole seconds, rounded up and capped at MaxInactivityTimeout.
	InactivityTimeout time.Duration
}

func DefaultBaseURL() string { return "wss://api.elevenlabs.io" }

func inactivitySeconds(d time.Duration) int {
	if d > MaxInactivityTimeout {
		d = MaxInactivityTimeout
	}
	return int(math.Ceil(d.Seconds()))
}

// BuildURL returns the stream-input endpoint for cfg.VoiceID with the
// optional settings encoded as query parameters.
func BuildURL(cfg ConnectConfig) (string, error) {
	base := strings.TrimRight(cfg.BaseURL, "/")
	if base == "" {
		base = DefaultBaseURL()
	}

	u, err := url.Parse(base + "/v1/text-to-speech/" + url.PathEscape(cfg.VoiceID) + "/multi-stream-input")
	if err != nil {
		return "", err
	}

	q := u.Query()
	for key, value := range map[string]string{
		"model_id":      cfg.ModelID,
		"language_code": cfg.LanguageCode,
		"output_format": cfg.OutputFormat,
	} {
		if value != "" {
			q.Set(key, value)
		}
	}
	if cfg.InactivityTimeout > 0 {
		q.Set("inactivity_timeout", strconv.Itoa(inactivitySeconds(cfg.InactivityTimeout)))
	}
	u.RawQuery = q.Encode()
	return u.String(), nil
}
