package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"

	"celebrisaludos/internal/models"
)

type HTTPConfig struct {
	Host         string
	Port         int
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
}

type PostgresConfig struct {
	DSN             string
	MaxOpen         int
	MaxIdle         int
	ConnMaxLifetime time.Duration
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// StorageConfig is optional; an empty Endpoint keeps concept images inline.
type StorageConfig struct {
	Endpoint       string
	AccessKey      string
	SecretKey      string
	BucketConcepts string
	PublicBaseURL  string
	UseSSL         bool
	Region         string
}

type SecurityConfig struct {
	JWTAccessSecret string
	JWTAccessTTL    time.Duration
}

type AdminConfig struct {
	ID       string
	Email    string
	Name     string
	Password string
}

type PersistenceConfig struct {
	Driver           string
	Namespace        string
	SimulatedLatency time.Duration
}

// AssistConfig leaves the gateway in canned mode while APIKey is empty.
type AssistConfig struct {
	APIKey     string
	BaseURL    string
	TextModel  string
	ImageModel string
	Timeout    time.Duration
}

type CatalogConfig struct {
	Packages []models.ShoutoutPackage
}

type EventsConfig struct {
	Enabled bool
	Stream  string
}

type WorkerConfig struct {
	Group         string
	Consumer      string
	BlockTimeout  time.Duration
	MinIdle       time.Duration
	ClaimInterval time.Duration
}

type JobsConfig struct {
	SweepSchedule        string
	PaymentReminderAfter time.Duration
}

type RateLimitConfig struct {
	AssistPerMinute int
	AssistBurst     int
}

type LoggingConfig struct {
	Level string
}

type AppConfig struct {
	Environment      string
	HTTP             HTTPConfig
	Postgres         PostgresConfig
	Redis            RedisConfig
	Storage          StorageConfig
	Security         SecurityConfig
	Admin            AdminConfig
	Persistence      PersistenceConfig
	Assist           AssistConfig
	Catalog          CatalogConfig
	Events           EventsConfig
	Worker           WorkerConfig
	Jobs             JobsConfig
	RateLimit        RateLimitConfig
	Logging          LoggingConfig
	AllowCORSOrigins []string
}

const (
	DriverMemory   = "memory"
	DriverRedis    = "redis"
	DriverPostgres = "postgres"
)

// Load reads .env, then config.yaml, then CELEBRI_* environment overrides.
// The API and the worker share the same file.
func Load() (*AppConfig, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("../config")

	v.SetEnvPrefix("CELEBRI")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("load config file: %w", err)
		}
	}

	return decode(v)
}

func decode(v *viper.Viper) (*AppConfig, error) {
	var cfg AppConfig
	if err := v.Unmarshal(&cfg, func(dc *mapstructure.DecoderConfig) {
		dc.TagName = "mapstructure"
		dc.DecodeHook = mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
		)
	}); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *AppConfig) Validate() error {
	switch c.Persistence.Driver {
	case DriverMemory, DriverRedis:
	case DriverPostgres:
		if c.Postgres.DSN == "" {
			return errors.New("postgres.dsn is required for the postgres driver")
		}
	default:
		return fmt.Errorf("unknown persistence driver %q", c.Persistence.Driver)
	}
	if c.Security.JWTAccessSecret == "" {
		return errors.New("security.jwtaccesssecret is required")
	}
	if c.Admin.Email == "" || c.Admin.Password == "" {
		return errors.New("admin.email and admin.password are required")
	}
	return nil
}

func (c *AppConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.HTTP.Host, c.HTTP.Port)
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("environment", "development")

	v.SetDefault("http.host", "0.0.0.0")
	v.SetDefault("http.port", 8080)
	v.SetDefault("http.readtimeout", "10s")
	v.SetDefault("http.writetimeout", "60s")
	v.SetDefault("http.idletimeout", "60s")

	v.SetDefault("postgres.dsn", "")
	v.SetDefault("postgres.maxopen", 20)
	v.SetDefault("postgres.maxidle", 5)
	v.SetDefault("postgres.connmaxlifetime", "30m")

	v.SetDefault("redis.addr", "127.0.0.1:6379")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)

	v.SetDefault("storage.endpoint", "")
	v.SetDefault("storage.accesskey", "")
	v.SetDefault("storage.secretkey", "")
	v.SetDefault("storage.bucketconcepts", "celebri-concepts")
	v.SetDefault("storage.publicbaseurl", "")
	v.SetDefault("storage.usessl", false)
	v.SetDefault("storage.region", "us-east-1")

	v.SetDefault("security.jwtaccesssecret", "dev-secret-change-me")
	v.SetDefault("security.jwtaccessttl", "24h")

	v.SetDefault("admin.id", "admin_user_001")
	v.SetDefault("admin.email", "admin@celebri.greet")
	v.SetDefault("admin.name", "Admin Famoso")
	v.SetDefault("admin.password", "adminpassword")

	v.SetDefault("persistence.driver", DriverMemory)
	v.SetDefault("persistence.namespace", "celebri")
	v.SetDefault("persistence.simulatedlatency", "0s")

	v.SetDefault("assist.apikey", "")
	v.SetDefault("assist.baseurl", "https://generativelanguage.googleapis.com/v1beta")
	v.SetDefault("assist.textmodel", "gemini-2.5-flash")
	v.SetDefault("assist.imagemodel", "imagen-3.0-generate-002")
	v.SetDefault("assist.timeout", "30s")

	v.SetDefault("events.enabled", false)
	v.SetDefault("events.stream", "shoutout:events")

	v.SetDefault("worker.group", "shoutout-workers")
	v.SetDefault("worker.consumer", "worker-1")
	v.SetDefault("worker.blocktimeout", "5s")
	v.SetDefault("worker.minidle", "2m")
	v.SetDefault("worker.claiminterval", "30s")

	v.SetDefault("jobs.sweepschedule", "@every 1h")
	v.SetDefault("jobs.paymentreminderafter", "24h")

	v.SetDefault("ratelimit.assistperminute", 20)
	v.SetDefault("ratelimit.assistburst", 5)

	v.SetDefault("logging.level", "")

	v.SetDefault("allowcorsorigins", []string{"*"})
}
