package app

import (
	"errors"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Issuer        string        // Optional: issuer claim of session tokens (default: peertutor)
	SessionSecret string        // Optional: secret the session and flash keys derive from (default: random per process)
	SessionTTL    time.Duration // Optional: lifetime of a browser-session login (default: 12h)
	RememberTTL   time.Duration // Optional: lifetime of a "remember me" login (default: 30 days)
	SecureCookies bool          // Optional: mark cookies Secure, for HTTPS deployments (default: false)
	EmailSuffix   string        // Optional: institutional email suffix (default: @menloschool.org)
	BaseURL       string        // Optional: public URL linked from emails (default: http://localhost:8080)

	DatabaseFile string // Optional: path to SQLite database file (default: ./peertutor.db)
	PepperFile   string // Optional: path to file containing pepper for password hashing (default: ./pepper)
	SubjectsFile string // Optional: YAML subject catalogue seeded into an empty database

	MailDriver   string        // Optional: smtp or log (default: log in dev, smtp elsewhere)
	MailFrom     string        // Required for smtp: sender address
	MailTimeout  time.Duration // Optional: bound on one delivery (default: 15s)
	SMTPHost     string
	SMTPPort     int // default: 587
	SMTPUsername string
	SMTPPassword string

	Env                  string        // Environment (dev, staging, prod) (default: dev)
	LogLevel             string        // Log level (debug, info, warn, error) (default: info)
	LogFormat            string        // Log format (json, text) (default: json)
	Port                 int           // HTTP server port (default: 8080)
	ShutdownGracePeriod  time.Duration // Graceful shutdown timeout (default: 10s)
	HousekeepingInterval time.Duration // Housekeeping interval (default: 1h)
}

// LoadConfig reads the environment, after loading a .env file from the
// working directory when there is one.
func LoadConfig() (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, err
	}

	env := getEnvOrDefault("ENV", "dev")

	cfg := Config{
		Issuer:        getEnvOrDefault("PEERTUTOR_ISSUER", "peertutor"),
		SessionSecret: os.Getenv("PEERTUTOR_SESSION_SECRET"),
		SessionTTL:    getEnvDurationOrDefault("PEERTUTOR_SESSION_TTL", 12*time.Hour),
		RememberTTL:   getEnvDurationOrDefault("PEERTUTOR_REMEMBER_TTL", 30*24*time.Hour),
		SecureCookies: getEnvBoolOrDefault("PEERTUTOR_SECURE_COOKIES", false),
		EmailSuffix:   getEnvOrDefault("PEERTUTOR_EMAIL_SUFFIX", "@menloschool.org"),
		BaseURL:       strings.TrimSuffix(getEnvOrDefault("PEERTUTOR_BASE_URL", "http://localhost:8080"), "/"),

		DatabaseFile: getEnvOrDefault("PEERTUTOR_DATABASE_FILE", "peertutor.db"),
		PepperFile:   getEnvOrDefault("PEERTUTOR_PEPPER_FILE", "pepper"),
		SubjectsFile: os.Getenv("PEERTUTOR_SUBJECTS_FILE"),

		MailDriver:   getEnvOrDefault("MAIL_DRIVER", defaultMailDriver(env)),
		MailFrom:     os.Getenv("MAIL_FROM"),
		MailTimeout:  getEnvDurationOrDefault("MAIL_TIMEOUT", 15*time.Second),
		SMTPHost:     os.Getenv("SMTP_HOST"),
		SMTPPort:     getEnvIntOrDefault("SMTP_PORT", 587),
		SMTPUsername: os.Getenv("SMTP_USERNAME"),
		SMTPPassword: os.Getenv("SMTP_PASSWORD"),

		Env:                  env,
		LogLevel:             getEnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:            getEnvOrDefault("LOG_FORMAT", "json"),
		Port:                 getEnvIntOrDefault("PORT", 8080),
		ShutdownGracePeriod:  getEnvDurationOrDefault("SHUTDOWN_GRACE_PERIOD", 10*time.Second),
		HousekeepingInterval: getEnvDurationOrDefault("HOUSEKEEPING_INTERVAL", 1*time.Hour),
	}

	return cfg, nil
}

// defaultMailDriver only falls back to the log mailer in dev. It writes
// reset passwords into the logs.
func defaultMailDriver(env string) string {
	if env == "dev" {
		return "log"
	}
	return "smtp"
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	if intValue, err := strconv.Atoi(value); err == nil {
		return intValue
	}

	return defaultValue
}

func getEnvBoolOrDefault(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	if boolValue, err := strconv.ParseBool(value); err == nil {
		return boolValue
	}

	return defaultValue
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	// Try parsing as duration (e.g., "1h", "30m", "90s")
	if duration, err := time.ParseDuration(value); err == nil {
		return duration
	}

	// Bare integers are minutes
	if minutes, err := strconv.Atoi(value); err == nil {
		return time.Duration(minutes) * time.Minute
	}

	return defaultValue
}
