package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Notification channels
const (
	NotifierTelegram = "telegram"
	NotifierSMTP     = "smtp"
	NotifierNone     = "none"
)

const devSecretKey = "dev-secret-key-change-me"

type Config struct {
	Port string
	// SecretKey is reserved for signing; no route signs anything yet, but
	// deployments set it and it must be non-empty
	SecretKey string
	Debug     bool
	// Outbound channel: telegram, smtp or none
	Notifier string
	// Telegram bot
	BotToken     string
	ChatID       string
	BotAPIURL    string
	BotParseMode string
	// SMTP
	SMTPHost       string
	SMTPPort       string
	SMTPUsername   string
	SMTPPassword   string
	SMTPFromEmail  string
	ContactEmailTo string
	// Contact pipeline
	DispatchTimeout  time.Duration
	MaxMessageLength int
	DenylistFile     string
	SanitizeMode     string
	DevLogPath       string
	// HTTP
	AllowedOrigins []string
	MaxBodyBytes   int64
	// Redis (rate limit store, optional)
	RedisURL      string
	RedisPassword string
	// Rate Limiting Configuration
	RateLimitWindowSeconds    int
	RateLimitContactThreshold int
	RateLimitGlobalThreshold  int
}

func LoadConfig() (*Config, error) {
	// .env is optional; real environment wins
	_ = godotenv.Load()

	cfg := &Config{
		Port:      getEnv("PORT", "5000"),
		SecretKey: getEnv("SECRET_KEY", devSecretKey),
		Debug:     getEnvBool("DEBUG", false),
		Notifier:  strings.ToLower(strings.TrimSpace(getEnv("NOTIFIER", ""))),
		// Telegram (TELEGRAM_* names kept for existing deployments)
		BotToken:     getEnv("BOT_TOKEN", getEnv("TELEGRAM_BOT_TOKEN", "")),
		ChatID:       getEnv("CHAT_ID", getEnv("TELEGRAM_CHAT_ID", "")),
		BotAPIURL:    strings.TrimRight(getEnv("BOT_API_URL", "https://api.telegram.org"), "/"),
		BotParseMode: getEnv("BOT_PARSE_MODE", "Markdown"),
		// SMTP Configuration
		SMTPHost:       getEnv("SMTP_HOST", ""),
		SMTPPort:       getEnv("SMTP_PORT", "587"),
		SMTPUsername:   getEnv("SMTP_USERNAME", ""),
		SMTPPassword:   getEnv("SMTP_PASSWORD", ""),
		SMTPFromEmail:  getEnv("SMTP_FROM_EMAIL", ""),
		ContactEmailTo: getEnv("CONTACT_EMAIL_TO", ""),
		// Contact pipeline
		DispatchTimeout:  time.Duration(getEnvInt("DISPATCH_TIMEOUT_SECONDS", 10)) * time.Second,
		MaxMessageLength: getEnvInt("MAX_MESSAGE_LENGTH", 3000),
		DenylistFile:     getEnv("DENYLIST_FILE", ""),
		SanitizeMode:     getEnv("SANITIZE_MODE", "escape"),
		DevLogPath:       getEnv("DEV_LOG_PATH", "messages/messages.json"),
		// HTTP
		AllowedOrigins: splitList(getEnv("ALLOWED_ORIGINS", "*")),
		MaxBodyBytes:   int64(getEnvInt("MAX_BODY_BYTES", 64<<10)),
		// Redis Configuration
		RedisURL:      getEnv("REDIS_URL", ""),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		// Rate Limiting Configuration
		RateLimitWindowSeconds:    getEnvInt("RATE_LIMIT_WINDOW_SECONDS", 60),
		RateLimitContactThreshold: getEnvInt("RATE_LIMIT_CONTACT_THRESHOLD", 5),
		RateLimitGlobalThreshold:  getEnvInt("RATE_LIMIT_GLOBAL_THRESHOLD", 100),
	}

	if cfg.ContactEmailTo == "" {
		cfg.ContactEmailTo = cfg.SMTPUsername
	}
	if cfg.Notifier == "" {
		cfg.Notifier = cfg.detectNotifier()
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	if cfg.SecretKey == devSecretKey {
		log.Println("WARNING: SECRET_KEY is not set. Using the development key.")
	}
	if cfg.Notifier == NotifierNone {
		log.Println("WARNING: no notification channel configured. Contact messages will not be delivered.")
	}
	if cfg.RedisURL == "" {
		log.Println("WARNING: REDIS_URL not configured. Rate limiting will use in-memory store.")
	}

	return cfg, nil
}

// detectNotifier picks the channel whose credentials are present
func (c *Config) detectNotifier() string {
	switch {
	case c.BotToken != "" && c.ChatID != "":
		return NotifierTelegram
	case c.SMTPHost != "" && c.SMTPUsername != "" && c.SMTPPassword != "":
		return NotifierSMTP
	default:
		return NotifierNone
	}
}

// Validate rejects settings the server cannot run with.
func (c *Config) Validate() error {
	switch c.Notifier {
	case NotifierTelegram:
		if c.BotToken == "" || c.ChatID == "" {
			return fmt.Errorf("config: NOTIFIER=telegram requires BOT_TOKEN and CHAT_ID")
		}
	case NotifierSMTP:
		if c.SMTPHost == "" || c.SMTPUsername == "" || c.SMTPPassword == "" {
			return fmt.Errorf("config: NOTIFIER=smtp requires SMTP_HOST, SMTP_USERNAME and SMTP_PASSWORD")
		}
	case NotifierNone:
	default:
		return fmt.Errorf("config: unknown NOTIFIER %q", c.Notifier)
	}
	if c.SecretKey == "" {
		return fmt.Errorf("config: SECRET_KEY must not be empty")
	}
	if c.MaxMessageLength <= 0 {
		return fmt.Errorf("config: MAX_MESSAGE_LENGTH must be positive")
	}
	if c.DispatchTimeout <= 0 {
		return fmt.Errorf("config: DISPATCH_TIMEOUT_SECONDS must be positive")
	}
	return nil
}

// IsProduction reports whether gin runs in release mode.
func (c *Config) IsProduction() bool {
	return os.Getenv("GIN_MODE") == "release"
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

// getEnvInt returns an integer environment variable or fallback if not set/invalid
func getEnvInt(key string, fallback int) int {
	if value, exists := os.LookupEnv(key); exists {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return fallback
}

// getEnvBool returns a boolean environment variable or fallback if not set/invalid
func getEnvBool(key string, fallback bool) bool {
	if value, exists := os.LookupEnv(key); exists {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return fallback
}

func splitList(v string) []string {
	var out []string
	for _, p := range strings.Split(v, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, strings.TrimRight(p, "/"))
		}
	}
	return out
}
