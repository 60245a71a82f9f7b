package config

import (
	"fmt"
	"net/url"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server struct {
		Port            int           `yaml:"port"`
		ReadTimeout     time.Duration `yaml:"readTimeout"`
		WriteTimeout    time.Duration `yaml:"writeTimeout"`
		ShutdownTimeout time.Duration `yaml:"shutdownTimeout"`
		AllowedOrigins  []string      `yaml:"allowedOrigins"`
	} `yaml:"server"`

	Log struct {
		Level string `yaml:"level"`
		File  string `yaml:"file"`
	} `yaml:"log"`

	Database struct {
		// Driver is mysql, postgres or memory.
		Driver       string `yaml:"driver"`
		Host         string `yaml:"host"`
		Port         int    `yaml:"port"`
		User         string `yaml:"user"`
		Password     string `yaml:"password"`
		Name         string `yaml:"name"`
		SSLMode      string `yaml:"sslMode"`
		MaxOpenConns int    `yaml:"maxOpenConns"`
		AutoMigrate  bool   `yaml:"autoMigrate"`
	} `yaml:"database"`

	Minio struct {
		Enabled       bool          `yaml:"enabled"`
		Endpoint      string        `yaml:"endpoint"`
		AccessKey     string        `yaml:"accessKey"`
		SecretKey     string        `yaml:"secretKey"`
		BucketName    string        `yaml:"bucketName"`
		Region        string        `yaml:"region"`
		UseSSL        bool          `yaml:"useSSL"`
		PresignExpiry time.Duration `yaml:"presignExpiry"`
	} `yaml:"minio"`

	Reddit struct {
		AuthURL           string        `yaml:"authURL"`
		APIURL            string        `yaml:"apiURL"`
		UserAgent         string        `yaml:"userAgent"`
		RequestsPerMinute int           `yaml:"requestsPerMinute"`
		Timeout           time.Duration `yaml:"timeout"`
		// Server-wide fallback app credentials.
		ClientID     string `yaml:"clientId"`
		ClientSecret string `yaml:"clientSecret"`
	} `yaml:"reddit"`

	Providers struct {
		OpenRouter struct {
			BaseURL string        `yaml:"baseURL"`
			APIKey  string        `yaml:"apiKey"`
			Referer string        `yaml:"referer"`
			Timeout time.Duration `yaml:"timeout"`
		} `yaml:"openRouter"`
		Gemini struct {
			BaseURL string        `yaml:"baseURL"`
			APIKey  string        `yaml:"apiKey"`
			Timeout time.Duration `yaml:"timeout"`
		} `yaml:"gemini"`
	} `yaml:"providers"`

	Analysis struct {
		DefaultModel string `yaml:"defaultModel"`
		SearchLimit  int    `yaml:"searchLimit"`
		HistoryCap   int    `yaml:"historyCap"`
	} `yaml:"analysis"`

	Auth struct {
		// APIKeys maps tenant → API key. Empty disables authentication.
		APIKeys map[string]string `yaml:"apiKeys"`
	} `yaml:"auth"`

	RateLimit struct {
		Enabled           bool `yaml:"enabled"`
		RequestsPerMinute int  `yaml:"requestsPerMinute"`
		Burst             int  `yaml:"burst"`
	} `yaml:"rateLimit"`
}

// Load baca file config.yaml
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(data)
}

// Parse decodes YAML and applies defaults.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Server.Port == 0 {
		c.Server.Port = 8080
	}
	if c.Server.ReadTimeout == 0 {
		c.Server.ReadTimeout = 15 * time.Second
	}
	// analysis requests wait on the model
	if c.Server.WriteTimeout == 0 {
		c.Server.WriteTimeout = 120 * time.Second
	}
	if c.Server.ShutdownTimeout == 0 {
		c.Server.ShutdownTimeout = 10 * time.Second
	}
	if len(c.Server.AllowedOrigins) == 0 {
		c.Server.AllowedOrigins = []string{"*"}
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Database.Driver == "" {
		c.Database.Driver = "memory"
	}
	if c.Database.Port == 0 {
		switch c.Database.Driver {
		case "mysql":
			c.Database.Port = 3306
		case "postgres":
			c.Database.Port = 5432
		}
	}
	if c.Database.SSLMode == "" {
		c.Database.SSLMode = "disable"
	}
	if c.Minio.PresignExpiry == 0 {
		c.Minio.PresignExpiry = 24 * time.Hour
	}
	if c.Reddit.RequestsPerMinute == 0 {
		c.Reddit.RequestsPerMinute = 60
	}
	if c.Reddit.Timeout == 0 {
		c.Reddit.Timeout = 30 * time.Second
	}
	if c.Providers.OpenRouter.Timeout == 0 {
		c.Providers.OpenRouter.Timeout = 90 * time.Second
	}
	if c.Providers.Gemini.Timeout == 0 {
		c.Providers.Gemini.Timeout = 90 * time.Second
	}
	if c.Analysis.HistoryCap == 0 {
		c.Analysis.HistoryCap = 20
	}
	if c.RateLimit.RequestsPerMinute == 0 {
		c.RateLimit.RequestsPerMinute = 30
	}
	if c.RateLimit.Burst == 0 {
		c.RateLimit.Burst = 5
	}
}

// Validate checks the fields that have no safe default.
func (c *Config) Validate() error {
	switch c.Database.Driver {
	case "memory":
	case "mysql", "postgres":
		if c.Database.Host == "" || c.Database.Name == "" {
			return fmt.Errorf("database.host and database.name are required for driver %s", c.Database.Driver)
		}
	default:
		return fmt.Errorf("unknown database.driver %q (allowed: mysql, postgres, memory)", c.Database.Driver)
	}
	if c.Minio.Enabled && (c.Minio.Endpoint == "" || c.Minio.BucketName == "") {
		return fmt.Errorf("minio.endpoint and minio.bucketName are required when minio is enabled")
	}
	if c.Analysis.SearchLimit < 0 || c.Analysis.SearchLimit > 100 {
		return fmt.Errorf("analysis.searchLimit must be between 0 and 100")
	}
	return nil
}

// Helper untuk build DSN MySQL
func (c *Config) MySQLDSN() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?parseTime=true&charset=utf8mb4&loc=UTC",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.Name,
	)
}

// PostgresDSN builds a lib/pq connection URL.
func (c *Config) PostgresDSN() string {
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.Database.User, c.Database.Password),
		Host:     fmt.Sprintf("%s:%d", c.Database.Host, c.Database.Port),
		Path:     "/" + c.Database.Name,
		RawQuery: "sslmode=" + url.QueryEscape(c.Database.SSLMode),
	}
	return u.String()
}
