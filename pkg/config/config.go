package config

import (
	"errors"
	"os"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	App      AppConfig
	Server   ServerConfig
	Storage  StorageConfig
	Database DatabaseConfig
	JWT      JWTConfig
	Cookie   CookieConfig
	OTP      OTPConfig
	Mail     MailConfig
	Redis    RedisConfig
}

type AppConfig struct {
	Name        string
	Version     string
	Environment string
}

func (a AppConfig) IsProduction() bool {
	return a.Environment == "production"
}

type ServerConfig struct {
	Port           string
	AllowedOrigins []string
	RequestTimeout time.Duration
}

type StorageConfig struct {
	// Driver is "json" (default) or "postgres".
	Driver  string
	DataDir string
}

type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	Name     string
	SSLMode  string
}

type JWTConfig struct {
	SecretKey string
	TTL       time.Duration
}

type CookieConfig struct {
	Name   string
	Domain string
	Secure bool
}

type OTPConfig struct {
	TTL time.Duration
}

type MailConfig struct {
	// Provider is "mailjet", "mailgun" or "log".
	Provider string
	Mailjet  MailjetConfig
	Mailgun  MailgunConfig
}

type MailjetConfig struct {
	MailjetBaseUrl           string
	MailjetBasicAuthUsername string
	MailjetBasicAuthPassword string
	MailjetSenderEmail       string
	MailjetSenderName        string
}

type MailgunConfig struct {
	Domain      string
	APIKey      string
	SenderEmail string
	SenderName  string
}

type RedisConfig struct {
	Enabled       bool
	RedisHost     string
	RedisPort     string
	RedisPassword string
	RedisDB       int
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	redisDB, err := strconv.Atoi(getEnv("REDIS_DB", "0"))
	if err != nil {
		return nil, errors.New("invalid redis database")
	}

	app := AppConfig{
		Name:        getEnv("APP_NAME", "Ecom Store API"),
		Version:     getEnv("APP_VERSION", "1.0.0"),
		Environment: getEnv("APP_ENV", "development"),
	}

	cfg := &Config{
		App: app,
		Server: ServerConfig{
			Port:           getEnv("PORT", "8080"),
			AllowedOrigins: splitList(getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:3000")),
			RequestTimeout: getDuration("REQUEST_TIMEOUT", 10*time.Second),
		},
		Storage: StorageConfig{
			Driver:  strings.ToLower(getEnv("STORE_DRIVER", "json")),
			DataDir: getEnv("DATA_DIR", "data"),
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", ""),
			Name:     getEnv("DB_NAME", "ecom_store"),
			SSLMode:  getEnv("DB_SSL_MODE", "disable"),
		},
		JWT: JWTConfig{
			SecretKey: getEnv("JWT_SECRET", ""),
			TTL:       getDuration("JWT_TTL", 7*24*time.Hour),
		},
		Cookie: CookieConfig{
			Name:   getEnv("COOKIE_NAME", "auth-token"),
			Domain: getEnv("COOKIE_DOMAIN", ""),
			Secure: getBool("COOKIE_SECURE", app.IsProduction()),
		},
		OTP: OTPConfig{
			TTL: getDuration("OTP_TTL", 10*time.Minute),
		},
		Mail: MailConfig{
			Provider: strings.ToLower(getEnv("MAIL_PROVIDER", "log")),
			Mailjet: MailjetConfig{
				MailjetBaseUrl:           getEnv("MAILJET_BASE_URL", "https://api.mailjet.com"),
				MailjetBasicAuthUsername: getEnv("MAILJET_BASIC_AUTH_USERNAME", ""),
				MailjetBasicAuthPassword: getEnv("MAILJET_BASIC_AUTH_PASSWORD", ""),
				MailjetSenderEmail:       getEnv("MAILJET_SENDER_EMAIL", ""),
				MailjetSenderName:        getEnv("MAILJET_SENDER_NAME", "Ecom Store"),
			},
			Mailgun: MailgunConfig{
				Domain:      getEnv("MAILGUN_DOMAIN", ""),
				APIKey:      getEnv("MAILGUN_API_KEY", ""),
				SenderEmail: getEnv("MAILGUN_SENDER_EMAIL", ""),
				SenderName:  getEnv("MAILGUN_SENDER_NAME", "Ecom Store"),
			},
		},
		Redis: RedisConfig{
			Enabled:       getBool("REDIS_ENABLED", false),
			RedisHost:     getEnv("REDIS_HOST", "localhost"),
			RedisPort:     getEnv("REDIS_PORT", "6379"),
			RedisPassword: getEnv("REDIS_PASSWORD", ""),
			RedisDB:       redisDB,
		},
	}

	if cfg.JWT.SecretKey == "" {
		return nil, errors.New("missing jwt secret")
	}

	// Browsers refuse a wildcard origin on credentialed requests.
	if slices.Contains(cfg.Server.AllowedOrigins, "*") {
		return nil, errors.New("CORS_ALLOWED_ORIGINS must list explicit origins")
	}

	switch cfg.Storage.Driver {
	case "json":
	case "postgres":
		if cfg.Database.Password == "" {
			return nil, errors.New("missing database password")
		}
	default:
		return nil, errors.New("unknown store driver " + cfg.Storage.Driver)
	}

	switch cfg.Mail.Provider {
	case "log":
	case "mailjet":
		if cfg.Mail.Mailjet.MailjetBasicAuthUsername == "" || cfg.Mail.Mailjet.MailjetBasicAuthPassword == "" {
			return nil, errors.New("missing mailjet credentials")
		}
	case "mailgun":
		if cfg.Mail.Mailgun.Domain == "" || cfg.Mail.Mailgun.APIKey == "" {
			return nil, errors.New("missing mailgun credentials")
		}
	default:
		return nil, errors.New("unknown mail provider " + cfg.Mail.Provider)
	}

	return cfg, nil
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}

	return defaultVal
}

func getBool(key string, defaultVal bool) bool {
	b, err := strconv.ParseBool(os.Getenv(key))
	if err != nil {
		return defaultVal
	}
	return b
}

func getDuration(key string, defaultVal time.Duration) time.Duration {
	d, err := time.ParseDuration(os.Getenv(key))
	if err != nil || d <= 0 {
		return defaultVal
	}
	return d
}

func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
