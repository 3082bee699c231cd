// Package config loads the skill configuration from the environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

const (
	BackendHTTP     = "http"
	BackendPostgres = "postgres"
)

type Config struct {
	Server    Server
	Catalog   Catalog
	History   History
	OpenAI    OpenAI
	RateLimit RateLimit

	InscriptionEmail string `envconfig:"ZONAEI_INSCRIPTION_EMAIL" default:"silvia.salazarr@tec.mx"`
	LogLevel         string `envconfig:"LOG_LEVEL" default:"info"`
	LogFormat        string `envconfig:"LOG_FORMAT" default:"console"`
}

type Server struct {
	HTTPAddr string `envconfig:"ZONAEI_HTTP_ADDR" default:":8080"`
	// GRPCAddr serves the gRPC health service; empty disables it.
	GRPCAddr string `envconfig:"ZONAEI_GRPC_ADDR" default:":9090"`
	TLSCert  string `envconfig:"ZONAEI_TLS_CERT"`
	TLSKey   string `envconfig:"ZONAEI_TLS_KEY"`

	// ApplicationID, when set, rejects envelopes addressed to another skill.
	ApplicationID      string        `envconfig:"ZONAEI_APPLICATION_ID"`
	VerifyTimestamp    bool          `envconfig:"ZONAEI_VERIFY_TIMESTAMP" default:"true"`
	TimestampTolerance time.Duration `envconfig:"ZONAEI_TIMESTAMP_TOLERANCE" default:"150s"`
	MaxBodyBytes       int64         `envconfig:"ZONAEI_MAX_BODY_BYTES" default:"262144"`
	ShutdownTimeout    time.Duration `envconfig:"ZONAEI_SHUTDOWN_TIMEOUT" default:"10s"`
}

type Catalog struct {
	Backend     string        `envconfig:"ZONAEI_CATALOG_BACKEND" default:"http"`
	APIURL      string        `envconfig:"ZONAEI_API_URL" default:"https://alexa-conecta.herokuapp.com/api"`
	APITimeout  time.Duration `envconfig:"ZONAEI_API_TIMEOUT" default:"5s"`
	APIRetryMax int           `envconfig:"ZONAEI_API_RETRY_MAX" default:"0"`
	DatabaseURL string        `envconfig:"ZONAEI_DATABASE_URL"`
}

type History struct {
	// RedisAddr empty disables transcripts.
	RedisAddr     string        `envconfig:"ZONAEI_REDIS_ADDR"`
	RedisPassword string        `envconfig:"ZONAEI_REDIS_PASSWORD"`
	RedisDB       int           `envconfig:"ZONAEI_REDIS_DB" default:"0"`
	TTL           time.Duration `envconfig:"ZONAEI_HISTORY_TTL" default:"24h"`
}

type OpenAI struct {
	// APIKey empty keeps free questions on the static answer.
	APIKey  string `envconfig:"ZONAEI_OPENAI_KEY"`
	Model   string `envconfig:"ZONAEI_OPENAI_MODEL" default:"gpt-4o-mini"`
	BaseURL string `envconfig:"ZONAEI_OPENAI_BASE_URL"`
}

type RateLimit struct {
	RPS   float64 `envconfig:"ZONAEI_RATE_LIMIT_RPS" default:"2"`
	Burst int     `envconfig:"ZONAEI_RATE_LIMIT_BURST" default:"5"`
}

// Load reads an optional .env file (missing is fine) and then the environment.
// Values already present in the environment win over the file.
func Load(envFile string) (Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, os.ErrNotExist) {
			return Config{}, fmt.Errorf("load %s: %w", envFile, err)
		}
	}

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	switch c.Catalog.Backend {
	case BackendHTTP:
		if c.Catalog.APIURL == "" {
			return errors.New("ZONAEI_API_URL is required for the http catalog")
		}
	case BackendPostgres:
		if c.Catalog.DatabaseURL == "" {
			return errors.New("ZONAEI_DATABASE_URL is required for the postgres catalog")
		}
	default:
		return fmt.Errorf("unknown catalog backend %q", c.Catalog.Backend)
	}
	if (c.Server.TLSCert == "") != (c.Server.TLSKey == "") {
		return errors.New("ZONAEI_TLS_CERT and ZONAEI_TLS_KEY must be set together")
	}
	return nil
}
