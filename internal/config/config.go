package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Provider names accepted by llm.provider
const (
	ProviderAzure  = "azure"
	ProviderOpenAI = "openai"
	ProviderGroq   = "groq"
	ProviderGemini = "gemini"
	ProviderLocal  = "local"
)

type Config struct {
	Server struct {
		Port         int           `yaml:"port"`
		ReadTimeout  time.Duration `yaml:"readTimeout"`
		WriteTimeout time.Duration `yaml:"writeTimeout"`
		IdleTimeout  time.Duration `yaml:"idleTimeout"`
		CORSOrigins  []string      `yaml:"corsOrigins"`
		// tenant -> api key; empty disables auth on mutating routes
		APIKeys   map[string]string `yaml:"apiKeys"`
		RateLimit struct {
			RequestsPerSecond float64 `yaml:"requestsPerSecond"`
			Burst             int     `yaml:"burst"`
		} `yaml:"rateLimit"`
	} `yaml:"server"`

	Log struct {
		Level string `yaml:"level"`
	} `yaml:"log"`

	LLM struct {
		Provider    string  `yaml:"provider"`
		Temperature float32 `yaml:"temperature"`
		MaxTokens   int     `yaml:"maxTokens"`

		OpenAI struct {
			APIKey         string `yaml:"apiKey"`
			Model          string `yaml:"model"`
			EmbeddingModel string `yaml:"embeddingModel"`
			BaseURL        string `yaml:"baseURL"`
		} `yaml:"openai"`

		Azure struct {
			APIKey              string `yaml:"apiKey"`
			Endpoint            string `yaml:"endpoint"`
			InstanceName        string `yaml:"instanceName"`
			APIVersion          string `yaml:"apiVersion"`
			Deployment          string `yaml:"deployment"`
			EmbeddingDeployment string `yaml:"embeddingDeployment"`
		} `yaml:"azure"`

		Groq struct {
			APIKey  string `yaml:"apiKey"`
			Model   string `yaml:"model"`
			BaseURL string `yaml:"baseURL"`
		} `yaml:"groq"`

		Gemini struct {
			APIKey         string `yaml:"apiKey"`
			Model          string `yaml:"model"`
			EmbeddingModel string `yaml:"embeddingModel"`
		} `yaml:"gemini"`
	} `yaml:"llm"`

	Inspector struct {
		Timeout      time.Duration `yaml:"timeout"`
		Renderer     string        `yaml:"renderer"` // http | browser
		UserAgent    string        `yaml:"userAgent"`
		MaxBodyBytes int64         `yaml:"maxBodyBytes"`
		// DevTools websocket of a running Chrome; empty launches a local headless one
		BrowserURL string `yaml:"browserURL"`
	} `yaml:"inspector"`

	Ingest struct {
		ChunkSize    int   `yaml:"chunkSize"`
		ChunkOverlap int   `yaml:"chunkOverlap"`
		MaxUpload    int64 `yaml:"maxUploadBytes"`
	} `yaml:"ingest"`

	Index struct {
		Driver string `yaml:"driver"` // sqlite | mysql | postgres
		DSN    string `yaml:"dsn"`
		TopK   int    `yaml:"topK"`
	} `yaml:"index"`

	Minio struct {
		Endpoint   string `yaml:"endpoint"`
		AccessKey  string `yaml:"accessKey"`
		SecretKey  string `yaml:"secretKey"`
		BucketName string `yaml:"bucketName"`
		Region     string `yaml:"region"`
		UseSSL     bool   `yaml:"useSSL"`
	} `yaml:"minio"`
}

// Default config sebelum file dan env diterapkan
func Default() *Config {
	var c Config
	c.Server.Port = 4000
	c.Server.ReadTimeout = 15 * time.Second
	c.Server.WriteTimeout = 120 * time.Second
	c.Server.IdleTimeout = 60 * time.Second
	c.Server.CORSOrigins = []string{"http://localhost:3000"}
	c.Server.RateLimit.RequestsPerSecond = 20
	c.Server.RateLimit.Burst = 40
	c.Log.Level = "info"
	c.LLM.Provider = ProviderAzure
	c.LLM.MaxTokens = 2048
	c.LLM.OpenAI.Model = "gpt-4o-mini"
	c.LLM.OpenAI.EmbeddingModel = "text-embedding-3-small"
	c.LLM.Azure.APIVersion = "2024-02-01"
	c.LLM.Azure.Deployment = "gpt-4"
	c.LLM.Azure.EmbeddingDeployment = "text-embedding-ada-002"
	c.LLM.Groq.Model = "mixtral-8x7b-32768"
	c.LLM.Groq.BaseURL = "https://api.groq.com/openai/v1"
	c.LLM.Gemini.Model = "gemini-2.0-flash"
	c.LLM.Gemini.EmbeddingModel = "gemini-embedding-001"
	c.Inspector.Timeout = 10 * time.Second
	c.Inspector.Renderer = "http"
	c.Inspector.UserAgent = "aem-assistant/1.0"
	c.Inspector.MaxBodyBytes = 5 << 20
	c.Ingest.ChunkSize = 1000
	c.Ingest.ChunkOverlap = 200
	c.Ingest.MaxUpload = 32 << 20
	c.Index.TopK = 4
	c.Minio.BucketName = "aem-ingest"
	return &c
}

// Load baca config.yaml (opsional) lalu override dari environment
func Load(path string) (*Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("parse %s: %w", path, err)
			}
		case errors.Is(err, os.ErrNotExist):
			// file optional, env + defaults cukup
		default:
			return nil, err
		}
	}
	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() error {
	str := func(key string, dst *string) {
		if v, ok := os.LookupEnv(key); ok && v != "" {
			*dst = v
		}
	}
	str("LOG_LEVEL", &c.Log.Level)
	str("LLM_PROVIDER", &c.LLM.Provider)
	str("OPENAI_API_KEY", &c.LLM.OpenAI.APIKey)
	str("OPENAI_MODEL", &c.LLM.OpenAI.Model)
	str("OPENAI_BASE_URL", &c.LLM.OpenAI.BaseURL)
	str("AZURE_OPENAI_API_KEY", &c.LLM.Azure.APIKey)
	str("AZURE_OPENAI_ENDPOINT", &c.LLM.Azure.Endpoint)
	str("AZURE_OPENAI_INSTANCE_NAME", &c.LLM.Azure.InstanceName)
	str("AZURE_OPENAI_API_VERSION", &c.LLM.Azure.APIVersion)
	str("AZURE_OPENAI_DEPLOYMENT_NAME", &c.LLM.Azure.Deployment)
	str("AZURE_OPENAI_EMBEDDING_DEPLOYMENT", &c.LLM.Azure.EmbeddingDeployment)
	str("GROQ_API_KEY", &c.LLM.Groq.APIKey)
	str("GROQ_MODEL", &c.LLM.Groq.Model)
	str("GEMINI_API_KEY", &c.LLM.Gemini.APIKey)
	str("GEMINI_MODEL", &c.LLM.Gemini.Model)
	str("INDEX_DRIVER", &c.Index.Driver)
	str("INDEX_DSN", &c.Index.DSN)
	str("INSPECTOR_RENDERER", &c.Inspector.Renderer)
	str("INSPECTOR_BROWSER_URL", &c.Inspector.BrowserURL)
	str("MINIO_ENDPOINT", &c.Minio.Endpoint)
	str("MINIO_ACCESS_KEY", &c.Minio.AccessKey)
	str("MINIO_SECRET_KEY", &c.Minio.SecretKey)
	str("MINIO_BUCKET", &c.Minio.BucketName)

	if v := os.Getenv("PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("PORT: %w", err)
		}
		c.Server.Port = port
	}
	if v := os.Getenv("INSPECTOR_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("INSPECTOR_TIMEOUT: %w", err)
		}
		c.Inspector.Timeout = d
	}
	if v := os.Getenv("CORS_ORIGINS"); v != "" {
		c.Server.CORSOrigins = splitList(v)
	}
	if v := os.Getenv("API_KEYS"); v != "" {
		keys, err := parseKeys(v)
		if err != nil {
			return err
		}
		c.Server.APIKeys = keys
	}
	return nil
}

// Validate cek nilai yang tidak masuk akal
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port out of range: %d", c.Server.Port)
	}
	switch c.LLM.Provider {
	case ProviderAzure, ProviderOpenAI, ProviderGroq, ProviderGemini, ProviderLocal:
	default:
		return fmt.Errorf("llm.provider %q not supported", c.LLM.Provider)
	}
	if c.Ingest.ChunkSize <= 0 {
		return fmt.Errorf("ingest.chunkSize must be positive")
	}
	if c.Ingest.ChunkOverlap < 0 || c.Ingest.ChunkOverlap >= c.Ingest.ChunkSize {
		return fmt.Errorf("ingest.chunkOverlap must be in [0, chunkSize)")
	}
	switch c.Index.Driver {
	case "", "sqlite", "mysql", "postgres":
	default:
		return fmt.Errorf("index.driver %q not supported", c.Index.Driver)
	}
	switch c.Inspector.Renderer {
	case "http", "browser":
	default:
		return fmt.Errorf("inspector.renderer %q not supported", c.Inspector.Renderer)
	}
	if c.Inspector.Timeout <= 0 {
		return fmt.Errorf("inspector.timeout must be positive")
	}
	return nil
}

// IndexEnabled true kalau driver dan DSN sama-sama diisi
func (c *Config) IndexEnabled() bool {
	return c.Index.Driver != "" && c.Index.DSN != ""
}

// MinioEnabled true kalau endpoint MinIO diisi
func (c *Config) MinioEnabled() bool {
	return c.Minio.Endpoint != ""
}

func splitList(v string) []string {
	var out []string
	for _, p := range strings.Split(v, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// parseKeys parses "tenant=key,tenant2=key2"
func parseKeys(v string) (map[string]string, error) {
	out := make(map[string]string)
	for _, pair := range splitList(v) {
		tenant, key, ok := strings.Cut(pair, "=")
		if !ok || tenant == "" || key == "" {
			return nil, fmt.Errorf("API_KEYS: malformed entry %q", pair)
		}
		out[tenant] = key
	}
	return out, nil
}
