package config

import (
	"time"
)

// Config holds the application configuration.
type Config struct {
	App       AppConfig       `yaml:"app"`
	Server    ServerConfig    `yaml:"server"`
	Database  DatabaseConfig  `yaml:"database"`
	Auth      AuthConfig      `yaml:"auth"`
	Mail      MailConfig      `yaml:"mail"`
	Alerts    AlertsConfig    `yaml:"alerts"`
	CORS      CORSConfig      `yaml:"cors"`
	Log       LogConfig       `yaml:"log"`
	RateLimit RateLimitConfig `yaml:"rate_limit"`
	Tasks     TasksConfig     `yaml:"tasks"`
}

// AppConfig holds deployment-wide settings.
type AppConfig struct {
	Env         string `yaml:"env"          env:"APP_ENV"      env-default:"development"`
	FrontendURL string `yaml:"frontend_url" env:"FRONTEND_URL" env-default:"http://localhost:3000"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port            int           `yaml:"port"             env:"PORT"                    env-default:"8080"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" env:"SERVER_SHUTDOWN_TIMEOUT" env-default:"5s"`
}

// DatabaseConfig holds SQLite settings.
type DatabaseConfig struct {
	Path string `yaml:"path" env:"DATABASE_PATH" env-default:"./fintrack.db"`
}

// AuthConfig holds JWT settings.
type AuthConfig struct {
	JWTSecret string        `yaml:"jwt_secret" env:"JWT_SECRET"    env-required:"true"`
	TokenTTL  time.Duration `yaml:"token_ttl"  env:"JWT_TOKEN_TTL" env-default:"720h"`
}

// MailConfig holds SMTP credentials. Host, Port and AltPort describe the two
// candidate transports probed at startup.
type MailConfig struct {
	Host     string        `yaml:"host"      env:"EMAIL_HOST"      env-default:"smtp.gmail.com"`
	Port     int           `yaml:"port"      env:"EMAIL_PORT"      env-default:"587"`
	AltPort  int           `yaml:"alt_port"  env:"EMAIL_ALT_PORT"  env-default:"465"`
	Username string        `yaml:"username"  env:"EMAIL_USER"`
	Password string        `yaml:"password"  env:"EMAIL_PASS"`
	FromName string        `yaml:"from_name" env:"EMAIL_FROM_NAME" env-default:"AI Finance"`
	Timeout  time.Duration `yaml:"timeout"   env:"EMAIL_TIMEOUT"   env-default:"15s"`
}

// AlertsConfig holds low-balance alert settings.
type AlertsConfig struct {
	Threshold float64 `yaml:"threshold" env:"ALERT_THRESHOLD" env-default:"10000"`
	Schedule  string  `yaml:"schedule"  env:"ALERT_SCHEDULE"  env-default:"0 9 * * *"`
	Timezone  string  `yaml:"timezone"  env:"ALERT_TIMEZONE"  env-default:"UTC"`
	Enabled   bool    `yaml:"enabled"   env:"ALERT_ENABLED"   env-default:"true"`

	// Location is resolved from Timezone during validation.
	Location *time.Location `yaml:"-" env:"-"`
}

// CORSConfig holds CORS settings.
type CORSConfig struct {
	AllowedOrigins []string `yaml:"allowed_origins" env:"CORS_ALLOWED_ORIGINS" env-separator:"," env-default:"http://localhost:3000"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `yaml:"level"  env:"LOG_LEVEL"  env-default:"info"`
	Format string `yaml:"format" env:"LOG_FORMAT" env-default:"text"`
}

// RateLimitConfig holds auth endpoint throttling settings. An empty RedisAddr
// selects the in-memory limiter.
type RateLimitConfig struct {
	AuthLimit     int           `yaml:"auth_limit"     env:"RATE_LIMIT_AUTH"     env-default:"20"`
	Window        time.Duration `yaml:"window"         env:"RATE_LIMIT_WINDOW"   env-default:"1m"`
	RedisAddr     string        `yaml:"redis_addr"     env:"REDIS_ADDR"`
	RedisPassword string        `yaml:"redis_password" env:"REDIS_PASSWORD"`
	RedisDB       int           `yaml:"redis_db"       env:"REDIS_DB"            env-default:"0"`
}

// TasksConfig holds background task queue settings.
type TasksConfig struct {
	Workers  int `yaml:"workers"   env:"TASK_WORKERS"    env-default:"2"`
	QueueLen int `yaml:"queue_len" env:"TASK_QUEUE_LEN"  env-default:"128"`
}

// IsProduction reports whether the app runs with APP_ENV=production.
func (c AppConfig) IsProduction() bool {
	return c.Env == "production"
}

// HasCredentials reports whether SMTP credentials are configured.
func (c MailConfig) HasCredentials() bool {
	return c.Username != "" && c.Password != ""
}
