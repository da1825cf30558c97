// internal/config/config.go
package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	AppEnv     string
	ServerPort string
	DBConn     string

	JWTSecret    string
	JWTExpiresIn time.Duration

	BackendURL     string
	BackendTimeout time.Duration
	VerifyTTL      time.Duration

	CookieName   string
	CookieSecure bool
	LoginPath    string

	Currency string
	Locale   string

	TelegramToken string
}

// MustLoad reads the environment. An empty DATABASE_URL means sessions are
// kept in memory.
func MustLoad() Config {
	port := getenv("PORT", "8080")

	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		jwtSecret = "your-super-secret-jwt-key-change-in-prod"
	}

	return Config{
		AppEnv:         getenv("APP_ENV", "development"),
		ServerPort:     ":" + port,
		DBConn:         os.Getenv("DATABASE_URL"),
		JWTSecret:      jwtSecret,
		JWTExpiresIn:   getDuration("JWT_EXPIRES_IN", 24*time.Hour),
		BackendURL:     strings.TrimRight(getenv("BACKEND_URL", "http://localhost:5000/api"), "/"),
		BackendTimeout: getDuration("BACKEND_TIMEOUT", 15*time.Second),
		VerifyTTL:      getDuration("AUTH_VERIFY_TTL", time.Minute),
		CookieName:     getenv("SESSION_COOKIE", "ld_session"),
		CookieSecure:   getBool("COOKIE_SECURE", false),
		LoginPath:      getenv("LOGIN_PATH", "/login"),
		Currency:       getenv("CURRENCY", "INR"),
		Locale:         getenv("LOCALE", "en-IN"),
		TelegramToken:  os.Getenv("TELEGRAM_BOT_TOKEN"),
	}
}

func (c Config) IsProduction() bool {
	return c.AppEnv == "production"
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getDuration(key string, def time.Duration) time.Duration {
	if s := os.Getenv(key); s != "" {
		if d, err := time.ParseDuration(s); err == nil {
			return d
		}
	}
	return def
}

func getBool(key string, def bool) bool {
	if s := os.Getenv(key); s != "" {
		if b, err := strconv.ParseBool(s); err == nil {
			return b
		}
	}
	return def
}
