package config

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

// PostsPerPage is the page size used by every paginated post listing.
const PostsPerPage = 10

// Languages lists the locales the API can answer in. The first one is the fallback.
var Languages = []string{"en", "sr"}

type Config struct {
	Port                    string
	Env                     string
	Testing                 bool
	DatabaseURL             string
	SecretKey               string
	MailServer              string
	MailPort                int
	MailUseTLS              bool
	MailUsername            string
	MailPassword            string
	Admins                  []string
	ElasticsearchURL        string
	RedisURL                string
	MetricsPort             string
	FirebaseCredentialsPath string
	LogLevel                string
}

// Load reads .env from the working directory (if present) and resolves the
// configuration from the environment.
func Load() *Config {
	basedir, err := os.Getwd()
	if err != nil {
		basedir = "."
	}
	if err := godotenv.Load(filepath.Join(basedir, ".env")); err != nil {
		logrus.Debug("No .env file found, assuming environment variables are set.")
	}

	return &Config{
		Port:                    getEnv("PORT", "8080"),
		Env:                     getEnv("ENV", "development"),
		DatabaseURL:             getEnv("DATABASE_URL", "sqlite:///"+filepath.Join(basedir, "app.db")),
		SecretKey:               getEnv("SECRET_KEY", "whatever"),
		MailServer:              os.Getenv("MAIL_SERVER"),
		MailPort:                getEnvInt("MAIL_PORT", 25),
		MailUseTLS:              isSet("MAIL_USE_TLS"),
		MailUsername:            os.Getenv("MAIL_USERNAME"),
		MailPassword:            os.Getenv("MAIL_PASSWORD"),
		Admins:                  getEnvList("ADMINS", []string{"admin@microblog.lol"}),
		ElasticsearchURL:        os.Getenv("ELASTICSEARCH_URL"),
		RedisURL:                os.Getenv("REDIS_URL"),
		MetricsPort:             getEnv("METRICS_PORT", "9090"),
		FirebaseCredentialsPath: os.Getenv("FIREBASE_CREDENTIALS_PATH"),
		LogLevel:                getEnv("LOG_LEVEL", "info"),
	}
}

// TestConfig returns a copy of c backed by an in-memory SQLite database.
func (c *Config) TestConfig() *Config {
	t := *c
	t.Testing = true
	t.DatabaseURL = "sqlite://"
	t.Admins = append([]string(nil), c.Admins...)
	return &t
}

func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// Sender is the address outgoing mail is sent from.
func (c *Config) Sender() string {
	if len(c.Admins) == 0 {
		return ""
	}
	return c.Admins[0]
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		logrus.WithField("key", key).Warnf("invalid integer %q, using %d", value, defaultValue)
		return defaultValue
	}
	return n
}

func getEnvList(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	if len(out) == 0 {
		return defaultValue
	}
	return out
}

// isSet reports whether the variable exists at all; MAIL_USE_TLS= still enables TLS.
func isSet(key string) bool {
	_, ok := os.LookupEnv(key)
	return ok
}
