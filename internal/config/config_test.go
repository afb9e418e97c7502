package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "sk-test")
	t.Setenv("MONGODB_URI", "mongodb://localhost:27017")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, ":8080", cfg.Addr())
	assert.Equal(t, 10*time.Second, cfg.ReadTimeout())
	assert.Equal(t, time.Duration(0), cfg.WriteTimeout())
	assert.Equal(t, ProviderOpenAI, cfg.EmbedProvider)
	assert.Empty(t, cfg.EmbedModel)
	assert.Empty(t, cfg.LLMModel)
	assert.Equal(t, StoreMongo, cfg.VectorStore)
	assert.Equal(t, "professor_embedding_index", cfg.MongoVectorIndex)
	assert.Equal(t, 0, cfg.IndexDimension)
	assert.Equal(t, uint64(0), cfg.ProjectionSeed)
	assert.Equal(t, 3, cfg.TopK)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("PORT", "9000")
	t.Setenv("EMBED_PROVIDER", "dummy")
	t.Setenv("LLM_PROVIDER", "dummy")
	t.Setenv("VECTOR_STORE", "weaviate")
	t.Setenv("WEAVIATE_HOST", "weaviate:8080")
	t.Setenv("INDEX_DIMENSION", "384")
	t.Setenv("PROJECTION_SEED", "42")
	t.Setenv("TOP_K", "5")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":9000", cfg.Addr())
	assert.Equal(t, StoreWeaviate, cfg.VectorStore)
	assert.Equal(t, "weaviate:8080", cfg.WeaviateHost)
	assert.Equal(t, 384, cfg.IndexDimension)
	assert.Equal(t, uint64(42), cfg.ProjectionSeed)
	assert.Equal(t, 5, cfg.TopK)
}

func TestLoad_RejectsMalformedNumber(t *testing.T) {
	t.Setenv("EMBED_PROVIDER", "dummy")
	t.Setenv("LLM_PROVIDER", "dummy")
	t.Setenv("VECTOR_STORE", "weaviate")
	t.Setenv("TOP_K", "three")

	_, err := Load()
	require.Error(t, err)
}

func TestValidate(t *testing.T) {
	cases := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"testing config is valid", func(*Config) {}, ""},
		{"unknown embed provider", func(c *Config) { c.EmbedProvider = "cohere" }, "unsupported EMBED_PROVIDER"},
		{"unknown llm provider", func(c *Config) { c.LLMProvider = "claude" }, "unsupported LLM_PROVIDER"},
		{"openai without key", func(c *Config) { c.LLMProvider = ProviderOpenAI }, "requires OPENAI_API_KEY"},
		{"vertex without project", func(c *Config) { c.EmbedProvider = ProviderVertex }, "requires GCP_PROJECT_ID"},
		{"mongo without uri", func(c *Config) { c.VectorStore = StoreMongo }, "requires MONGODB_URI"},
		{"unknown store", func(c *Config) { c.VectorStore = "pinecone" }, "unsupported VECTOR_STORE"},
		{"negative dimension", func(c *Config) { c.IndexDimension = -1 }, "INDEX_DIMENSION"},
		{"zero top k", func(c *Config) { c.TopK = 0 }, "TOP_K"},
		{"zero rps", func(c *Config) { c.OpenAIRPS = 0 }, "OPENAI_RPS"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := NewForTesting()
			tc.mutate(cfg)
			err := cfg.Validate()
			if tc.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.wantErr)
		})
	}
}

func TestValidate_JoinsAllProblems(t *testing.T) {
	cfg := NewForTesting()
	cfg.TopK = 0
	cfg.VectorStore = "pinecone"

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "TOP_K")
	assert.Contains(t, err.Error(), "VECTOR_STORE")
}
