package config

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// -----------------------------------------------------------------------------
// Environment variable configuration guidelines:
// - required: Values that differ between environments (port, DB connection, secrets)
// - default: Values common across all environments (timeouts, thresholds, paths)
// -----------------------------------------------------------------------------

type Config struct {
	Server   ServerConfig
	DB       DBConfig
	Redis    RedisConfig
	Kafka    KafkaConfig
	CORS     CORSConfig
	Log      LogConfig
	JWT      JWTConfig
	Cookie   CookieConfig
	Services ServicesConfig
	Gateway  GatewayConfig
	Checkout CheckoutConfig
	Retry    RetryConfig
}

type ServerConfig struct {
	Port string `envconfig:"PORT" required:"true"`
}

type DBConfig struct {
	Host     string `envconfig:"DB_HOST" default:"localhost"`
	Port     string `envconfig:"DB_PORT" default:"5432"`
	User     string `envconfig:"DB_USER" required:"true"`
	Password string `envconfig:"DB_PASSWORD" required:"true"`
	DBName   string `envconfig:"DB_NAME" required:"true"`
	SSLMode  string `envconfig:"DB_SSL_MODE" default:"disable"`
	TimeZone string `envconfig:"DB_TIMEZONE" default:"UTC"`
}

// Addr empty means the in-memory stores are used (single instance only).
type RedisConfig struct {
	Addr     string `envconfig:"REDIS_ADDR"`
	Password string `envconfig:"REDIS_PASSWORD"`
	DB       int    `envconfig:"REDIS_DB" default:"0"`
}

type KafkaConfig struct {
	Brokers      []string      `envconfig:"KAFKA_BROKERS" default:"localhost:9092"`
	OutcomeTopic string        `envconfig:"KAFKA_OUTCOME_TOPIC" default:"checkout.payment-outcomes"`
	PollInterval time.Duration `envconfig:"KAFKA_RELAY_POLL_INTERVAL" default:"2s"`
	BatchSize    int           `envconfig:"KAFKA_RELAY_BATCH_SIZE" default:"50"`
}

type CORSConfig struct {
	AllowOrigins     []string      `envconfig:"CORS_ALLOW_ORIGINS" default:"http://localhost:3000,http://localhost:8080"`
	AllowMethods     []string      `envconfig:"CORS_ALLOW_METHODS" default:"GET,POST,PUT,PATCH,DELETE,OPTIONS"`
	AllowHeaders     []string      `envconfig:"CORS_ALLOW_HEADERS" default:"Origin,Content-Type,Accept,Authorization,Idempotency-Key"`
	ExposeHeaders    []string      `envconfig:"CORS_EXPOSE_HEADERS" default:"Content-Length,Location"`
	AllowCredentials bool          `envconfig:"CORS_ALLOW_CREDENTIALS" default:"true"`
	MaxAge           time.Duration `envconfig:"CORS_MAX_AGE" default:"12h"`
}

type LogConfig struct {
	Level          string `envconfig:"LOG_LEVEL" default:"info"`
	TimeZone       string `envconfig:"LOG_TIMEZONE" default:"UTC"`
	TimeFormat     string `envconfig:"LOG_TIME_FORMAT" default:"2006-01-02 15:04:05.000"`
	TimeZoneOffset int    `envconfig:"LOG_TIMEZONE_OFFSET" default:"0"`
}

type JWTConfig struct {
	Secret string `envconfig:"JWT_SECRET" required:"true"`
	// TokenDuration only applies to tokens minted locally (tooling, tests).
	TokenDuration time.Duration `envconfig:"JWT_TOKEN_DURATION" default:"15m"`
	// StateSecret signs the pending-payment cookie; falls back to Secret.
	StateSecret string `envconfig:"JWT_STATE_SECRET"`
}

type CookieConfig struct {
	Domain   string `envconfig:"COOKIE_DOMAIN" default:""`
	Secure   bool   `envconfig:"COOKIE_SECURE" default:"false"`
	SameSite string `envconfig:"COOKIE_SAME_SITE" default:"Lax"`
}

type ServicesConfig struct {
	BookingBaseURL string        `envconfig:"BOOKING_SERVICE_URL" required:"true"`
	PaymentBaseURL string        `envconfig:"PAYMENT_SERVICE_URL" required:"true"`
	RequestTimeout time.Duration `envconfig:"SERVICE_REQUEST_TIMEOUT" default:"30s"`
}

type GatewayConfig struct {
	SecretKey string `envconfig:"STRIPE_SECRET_KEY" required:"true"`
	// APIURL overrides the gateway endpoint (stubs, local mocks).
	APIURL string `envconfig:"STRIPE_API_URL"`
}

type CheckoutConfig struct {
	LocalCurrency            string        `envconfig:"CHECKOUT_LOCAL_CURRENCY" default:"vnd"`
	SettlementCurrency       string        `envconfig:"CHECKOUT_SETTLEMENT_CURRENCY" default:"usd"`
	ExchangeRate             string        `envconfig:"CHECKOUT_EXCHANGE_RATE" default:"24500"`
	RateVersion              string        `envconfig:"CHECKOUT_RATE_VERSION" default:"default"`
	RatesFile                string        `envconfig:"CHECKOUT_RATES_FILE"`
	GatewayMaxAmount         string        `envconfig:"CHECKOUT_GATEWAY_MAX_AMOUNT" default:"999999.99"`
	PendingRecordTTL         time.Duration `envconfig:"CHECKOUT_PENDING_RECORD_TTL" default:"5m"`
	SubmitLockTTL            time.Duration `envconfig:"CHECKOUT_SUBMIT_LOCK_TTL" default:"45s"`
	AttemptTTL               time.Duration `envconfig:"CHECKOUT_ATTEMPT_TTL" default:"1h"`
	IdempotencyTTL           time.Duration `envconfig:"CHECKOUT_IDEMPOTENCY_TTL" default:"24h"`
	IdempotencySweepInterval time.Duration `envconfig:"CHECKOUT_IDEMPOTENCY_SWEEP_INTERVAL" default:"1h"`
	ReturnURL                string        `envconfig:"CHECKOUT_RETURN_URL" default:"http://localhost:8080/payments/return"`
	SuccessPath              string        `envconfig:"CHECKOUT_SUCCESS_PATH" default:"/booking/success"`
	FailurePath              string        `envconfig:"CHECKOUT_FAILURE_PATH" default:"/booking/failure"`
	IdlePath                 string        `envconfig:"CHECKOUT_IDLE_PATH" default:"/"`
	LoginPath                string        `envconfig:"CHECKOUT_LOGIN_PATH" default:"/login"`
}

type RetryConfig struct {
	MaxAttempts int           `envconfig:"RETRY_MAX_ATTEMPTS" default:"3"`
	BaseDelay   time.Duration `envconfig:"RETRY_BASE_DELAY" default:"300ms"`
	Factor      float64       `envconfig:"RETRY_FACTOR" default:"2"`
	MaxDelay    time.Duration `envconfig:"RETRY_MAX_DELAY" default:"3s"`
}

func (c *DBConfig) BuildDSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=%s&timezone=%s",
		c.User, c.Password, c.Host, c.Port, c.DBName, c.SSLMode, c.TimeZone,
	)
}

func (c JWTConfig) StateSigningSecret() string {
	if c.StateSecret != "" {
		return c.StateSecret
	}
	return c.Secret
}

func LoadConfig() (Config, error) {
	// .env is optional; real environment variables take precedence.
	if _, err := os.Stat(".env"); err == nil {
		if err := godotenv.Load(); err != nil {
			return Config{}, fmt.Errorf("failed to load .env: %w", err)
		}
	}

	var cfg Config
	err := envconfig.Process("", &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("failed to process env config: %w", err)
	}
	return cfg, nil
}

func NewTestConfig() Config {
	return Config{
		Server: ServerConfig{
			Port: "8889", // Test port
		},
		DB: DBConfig{
			Host:     "localhost",
			Port:     "15433", // Test DB port
			User:     "test",
			Password: "test",
			DBName:   "test_db",
			SSLMode:  "disable",
			TimeZone: "UTC",
		},
		Kafka: KafkaConfig{
			OutcomeTopic: "checkout.payment-outcomes",
			PollInterval: 100 * time.Millisecond,
			BatchSize:    10,
		},
		Log: LogConfig{
			Level:      "error", // Error level only for tests
			TimeZone:   "UTC",
			TimeFormat: "2006-01-02 15:04:05.000",
		},
		JWT: JWTConfig{
			Secret:        "test-secret",
			TokenDuration: 15 * time.Minute,
		},
		Cookie: CookieConfig{
			SameSite: "Lax",
		},
		Services: ServicesConfig{
			BookingBaseURL: "http://localhost:18080",
			PaymentBaseURL: "http://localhost:18081",
			RequestTimeout: 2 * time.Second,
		},
		Gateway: GatewayConfig{
			SecretKey: "sk_test_dummy",
		},
		Checkout: CheckoutConfig{
			LocalCurrency:            "vnd",
			SettlementCurrency:       "usd",
			ExchangeRate:             "24500",
			RateVersion:              "test",
			GatewayMaxAmount:         "999999.99",
			PendingRecordTTL:         5 * time.Minute,
			SubmitLockTTL:            45 * time.Second,
			AttemptTTL:               time.Hour,
			IdempotencyTTL:           24 * time.Hour,
			IdempotencySweepInterval: time.Hour,
			ReturnURL:                "http://localhost:8889/payments/return",
			SuccessPath:              "/booking/success",
			FailurePath:              "/booking/failure",
			IdlePath:                 "/",
			LoginPath:                "/login",
		},
		Retry: RetryConfig{
			MaxAttempts: 3,
			BaseDelay:   time.Millisecond,
			Factor:      2,
			MaxDelay:    5 * time.Millisecond,
		},
	}
}
