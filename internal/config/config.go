package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/moodsense-ai/moodsense/internal/domain/analysis"
)

type Config struct {
	Server struct {
		Port      int      `yaml:"port"`
		APIKeys   []string `yaml:"apiKeys"`
		RateLimit struct {
			Capacity     int `yaml:"capacity"`
			RefillPerSec int `yaml:"refillPerSec"`
		} `yaml:"rateLimit"`
	} `yaml:"server"`

	Database struct {
		Driver   string `yaml:"driver"` // mysql | postgres
		Host     string `yaml:"host"`
		Port     int    `yaml:"port"`
		User     string `yaml:"user"`
		Password string `yaml:"password"`
		Name     string `yaml:"name"`
		SSLMode  string `yaml:"sslMode"`
	} `yaml:"database"`

	Minio struct {
		Endpoint   string `yaml:"endpoint"`
		AccessKey  string `yaml:"accessKey"`
		SecretKey  string `yaml:"secretKey"`
		BucketName string `yaml:"bucketName"`
		Region     string `yaml:"region"`
		UseSSL     bool   `yaml:"useSSL"`
	} `yaml:"minio"`

	OpenAI struct {
		APIKey      string `yaml:"apiKey"`
		Model       string `yaml:"model"`
		VisionModel string `yaml:"visionModel"`
	} `yaml:"openai"`

	Limits struct {
		MaxAudioMB      int      `yaml:"maxAudioMB"`
		MaxImageMB      int      `yaml:"maxImageMB"`
		MaxMessageChars int      `yaml:"maxMessageChars"`
		AudioExtensions []string `yaml:"audioExtensions"`
	} `yaml:"limits"`

	Privacy struct {
		StoreMedia bool `yaml:"storeMedia"`
	} `yaml:"privacy"`

	Risk analysis.Thresholds `yaml:"risk"`
}

// Load baca file config.yaml dan terapkan default
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	cfg.applyDefaults()
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Server.Port == 0 {
		c.Server.Port = 8000
	}
	if c.Server.RateLimit.Capacity == 0 {
		c.Server.RateLimit.Capacity = 60
	}
	if c.Server.RateLimit.RefillPerSec == 0 {
		c.Server.RateLimit.RefillPerSec = 1
	}
	if c.Database.Driver == "" {
		c.Database.Driver = "postgres"
	}
	if c.Database.SSLMode == "" {
		c.Database.SSLMode = "disable"
	}
	if c.Limits.MaxAudioMB == 0 {
		c.Limits.MaxAudioMB = 10
	}
	if c.Limits.MaxImageMB == 0 {
		c.Limits.MaxImageMB = 5
	}
	if c.Limits.MaxMessageChars == 0 {
		c.Limits.MaxMessageChars = 4000
	}
	if len(c.Limits.AudioExtensions) == 0 {
		c.Limits.AudioExtensions = []string{".wav"}
	}
	if (c.Risk == analysis.Thresholds{}) {
		c.Risk = analysis.DefaultThresholds()
	}
}

func (c *Config) validate() error {
	switch c.Database.Driver {
	case "mysql", "postgres":
	default:
		return fmt.Errorf("unsupported database driver: %s", c.Database.Driver)
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

// Helper untuk build DSN Postgres
func (c *Config) PostgresDSN() string {
	parts := []string{
		fmt.Sprintf("host=%s", c.Database.Host),
		fmt.Sprintf("port=%d", c.Database.Port),
		fmt.Sprintf("user=%s", c.Database.User),
		fmt.Sprintf("dbname=%s", c.Database.Name),
		fmt.Sprintf("sslmode=%s", c.Database.SSLMode),
	}
	if c.Database.Password != "" {
		parts = append(parts, fmt.Sprintf("password=%s", c.Database.Password))
	}
	return strings.Join(parts, " ")
}
