// Package config centralises all environment configuration for the API.
// It should be imported only by the binaries under cmd/ (and test code).
// Business-logic layers receive an already-built Config via dependency injection.
package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Provider and store names accepted by Validate.
const (
	ProviderOpenAI = "openai"
	ProviderVertex = "vertex"
	ProviderDummy  = "dummy"

	StoreMongo    = "mongo"
	StoreWeaviate = "weaviate"
)

// Config holds every runtime option the server needs.
// Keep it flat and simple; prefer primitive types over embedding structs.
type Config struct {
	// Network
	Port            string `envconfig:"PORT" default:"8080"`
	ReadTimeoutSec  int    `envconfig:"READ_TIMEOUT_SEC" default:"10"`
	WriteTimeoutSec int    `envconfig:"WRITE_TIMEOUT_SEC" default:"0"` // 0 keeps long streams open

	// Logging
	LogLevel    string `envconfig:"LOG_LEVEL" default:"info"`
	Environment string `envconfig:"ENVIRONMENT" default:"development"`

	// Model providers
	EmbedProvider string `envconfig:"EMBED_PROVIDER" default:"openai"`
	EmbedModel    string `envconfig:"EMBED_MODEL"` // empty picks the provider default
	LLMProvider   string `envconfig:"LLM_PROVIDER" default:"openai"`
	LLMModel      string `envconfig:"LLM_MODEL"`

	// OpenAI-compatible endpoint
	OpenAIAPIKey  string  `envconfig:"OPENAI_API_KEY"`
	OpenAIBaseURL string  `envconfig:"OPENAI_BASE_URL" default:"https://api.openai.com/v1"`
	OpenAIRPS     float64 `envconfig:"OPENAI_RPS" default:"5"`

	// Google Cloud / Vertex AI
	ProjectID       string `envconfig:"GCP_PROJECT_ID"`
	Location        string `envconfig:"GCP_LOCATION" default:"us-central1"`
	CredentialsFile string `envconfig:"GOOGLE_APPLICATION_CREDENTIALS"`

	// Vector index
	VectorStore      string `envconfig:"VECTOR_STORE" default:"mongo"`
	MongoURI         string `envconfig:"MONGODB_URI"`
	DBName           string `envconfig:"MONGODB_DB" default:"rate_my_professor"`
	MongoCollection  string `envconfig:"MONGODB_COLLECTION" default:"professors"`
	MongoVectorIndex string `envconfig:"MONGODB_VECTOR_INDEX" default:"professor_embedding_index"`
	WeaviateHost     string `envconfig:"WEAVIATE_HOST" default:"localhost:8081"`
	WeaviateScheme   string `envconfig:"WEAVIATE_SCHEME" default:"http"`
	WeaviateClass    string `envconfig:"WEAVIATE_CLASS" default:"Professor"`

	// Retrieval
	IndexDimension int    `envconfig:"INDEX_DIMENSION" default:"0"` // 0 disables projection
	ProjectionSeed uint64 `envconfig:"PROJECTION_SEED" default:"0"` // 0 draws a fresh matrix per call
	TopK           int    `envconfig:"TOP_K" default:"3"`
}

// Load parses the environment (and an optional .env file) into Config.
func Load() (*Config, error) {
	// godotenv.Load() fails when .env doesn't exist, which is fine to ignore in production.
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process environment variables: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks provider names and the credentials each one needs.
func (c *Config) Validate() error {
	var errs []error

	for _, p := range []struct{ key, val string }{
		{"EMBED_PROVIDER", c.EmbedProvider},
		{"LLM_PROVIDER", c.LLMProvider},
	} {
		switch p.val {
		case ProviderOpenAI:
			if c.OpenAIAPIKey == "" {
				errs = append(errs, fmt.Errorf("%s=%s requires OPENAI_API_KEY", p.key, p.val))
			}
		case ProviderVertex:
			if c.ProjectID == "" {
				errs = append(errs, fmt.Errorf("%s=%s requires GCP_PROJECT_ID", p.key, p.val))
			}
		case ProviderDummy:
		default:
			errs = append(errs, fmt.Errorf("unsupported %s: %q", p.key, p.val))
		}
	}

	switch c.VectorStore {
	case StoreMongo:
		if c.MongoURI == "" {
			errs = append(errs, errors.New("VECTOR_STORE=mongo requires MONGODB_URI"))
		}
	case StoreWeaviate:
		if c.WeaviateHost == "" {
			errs = append(errs, errors.New("VECTOR_STORE=weaviate requires WEAVIATE_HOST"))
		}
	default:
		errs = append(errs, fmt.Errorf("unsupported VECTOR_STORE: %q", c.VectorStore))
	}

	if c.IndexDimension < 0 {
		errs = append(errs, fmt.Errorf("INDEX_DIMENSION must be >= 0, got %d", c.IndexDimension))
	}
	if c.TopK <= 0 {
		errs = append(errs, fmt.Errorf("TOP_K must be positive, got %d", c.TopK))
	}
	if c.OpenAIRPS <= 0 {
		errs = append(errs, fmt.Errorf("OPENAI_RPS must be positive, got %v", c.OpenAIRPS))
	}

	return errors.Join(errs...)
}

// Addr returns the listen address for the HTTP server.
func (c *Config) Addr() string {
	return ":" + c.Port
}

// ReadTimeout converts ReadTimeoutSec to a Duration.
func (c *Config) ReadTimeout() time.Duration {
	return time.Duration(c.ReadTimeoutSec) * time.Second
}

// WriteTimeout converts WriteTimeoutSec to a Duration.
func (c *Config) WriteTimeout() time.Duration {
	return time.Duration(c.WriteTimeoutSec) * time.Second
}

// NewForTesting returns a valid offline configuration: dummy providers and a
// Weaviate store that is never dialled by unit tests.
func NewForTesting() *Config {
	return &Config{
		Port:           "8080",
		ReadTimeoutSec: 10,
		LogLevel:       "debug",
		Environment:    "testing",
		EmbedProvider:  ProviderDummy,
		EmbedModel:     "dummy",
		LLMProvider:    ProviderDummy,
		LLMModel:       "dummy",
		OpenAIBaseURL:  "https://api.openai.com/v1",
		OpenAIRPS:      5,
		Location:       "us-central1",
		VectorStore:    StoreWeaviate,
		DBName:         "rate_my_professor",
		WeaviateHost:   "localhost:8081",
		WeaviateScheme: "http",
		WeaviateClass:  "Professor",
		TopK:           3,
	}
}
