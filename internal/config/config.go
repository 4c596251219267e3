package config

import (
	"net/url"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"github.com/pkg/errors"
)

const minNonceSecretLen = 16

// Common holds settings shared by both servers.
type Common struct {
	Port     string `env:"PORT"`
	Env      string `env:"ENV" envDefault:"development"`
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`
}

// RelayConfig configures the widget host and the chat relay.
type RelayConfig struct {
	Common

	// APIBase is the external chat API base; the relay posts to APIBase + "/chat".
	APIBase         string        `env:"PGN_CHATBOT_API_BASE,required,notEmpty"`
	NonceSecret     string        `env:"PGN_CHATBOT_NONCE_SECRET,required,notEmpty"`
	NonceTTL        time.Duration `env:"PGN_CHATBOT_NONCE_TTL" envDefault:"24h"`
	UpstreamTimeout time.Duration `env:"PGN_CHATBOT_UPSTREAM_TIMEOUT" envDefault:"15s"`
	CookieSecure    bool          `env:"PGN_CHATBOT_COOKIE_SECURE" envDefault:"false"`
	AjaxPath        string        `env:"PGN_CHATBOT_AJAX_PATH" envDefault:"/ajax"`
}

// APIConfig configures the reference chat API.
type APIConfig struct {
	Common

	DatabaseURL    string   `env:"DATABASE_URL" envDefault:"sqlite:///./pgn_chatbot.db"`
	AllowedOrigins []string `env:"ALLOWED_ORIGINS" envSeparator:","`

	OpenAIKey   string `env:"OPENAI_API_KEY"`
	OpenAIModel string `env:"OPENAI_MODEL" envDefault:"gpt-4o-mini"`
}

// LoadRelay reads .env (if present) and the environment into a RelayConfig.
func LoadRelay() (*RelayConfig, error) {
	_ = godotenv.Load()

	cfg := &RelayConfig{}
	if err := env.Parse(cfg); err != nil {
		return nil, errors.Wrap(err, "parse relay config")
	}
	if cfg.Port == "" {
		cfg.Port = "8080"
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadAPI reads .env (if present) and the environment into an APIConfig.
func LoadAPI() (*APIConfig, error) {
	_ = godotenv.Load()

	cfg := &APIConfig{}
	if err := env.Parse(cfg); err != nil {
		return nil, errors.Wrap(err, "parse api config")
	}
	if cfg.Port == "" {
		cfg.Port = "8000"
	}
	cfg.AllowedOrigins = cleanList(cfg.AllowedOrigins)
	return cfg, nil
}

func (c *RelayConfig) Validate() error {
	u, err := url.Parse(c.APIBase)
	if err != nil {
		return errors.Wrap(err, "PGN_CHATBOT_API_BASE")
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return errors.Errorf("PGN_CHATBOT_API_BASE must be an absolute http(s) URL, got %q", c.APIBase)
	}
	c.APIBase = strings.TrimRight(c.APIBase, "/")

	if len(c.NonceSecret) < minNonceSecretLen {
		return errors.Errorf("PGN_CHATBOT_NONCE_SECRET must be at least %d bytes", minNonceSecretLen)
	}
	if c.NonceTTL <= 0 {
		return errors.New("PGN_CHATBOT_NONCE_TTL must be positive")
	}
	if c.UpstreamTimeout <= 0 {
		return errors.New("PGN_CHATBOT_UPSTREAM_TIMEOUT must be positive")
	}
	if !strings.HasPrefix(c.AjaxPath, "/") {
		c.AjaxPath = "/" + c.AjaxPath
	}
	return nil
}

func cleanList(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
