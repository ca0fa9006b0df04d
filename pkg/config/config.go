package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/Is0meone/TransitTracker/pkg/util"
	"gopkg.in/yaml.v3"
)

var ErrMissingAPIBaseURL = errors.New("api base_url must be set")

type Config struct {
	API           APIConfig           `yaml:"api"`
	Redis         RedisConfig         `yaml:"redis"`
	MongoDB       MongoDBConfig       `yaml:"mongodb"`
	Elasticsearch ElasticsearchConfig `yaml:"elasticsearch"`
	ReportCache   ReportCacheConfig   `yaml:"report_cache"`
	Sessions      SessionsConfig      `yaml:"sessions"`
	Map           MapConfig           `yaml:"map"`
}

type APIConfig struct {
	BaseURL   string `yaml:"base_url"`
	AgentURL  string `yaml:"agent_url"`
	UserAgent string `yaml:"user_agent"`

	// Zero leaves requests without a deadline.
	Timeout time.Duration `yaml:"timeout"`
}

type RedisConfig struct {
	Address  string `yaml:"address"`
	Password string `yaml:"password"`
	Database int    `yaml:"database"`
}

func (r RedisConfig) Enabled() bool {
	return r.Address != ""
}

type MongoDBConfig struct {
	Connection string `yaml:"connection"`
	Database   string `yaml:"database"`
}

func (m MongoDBConfig) Enabled() bool {
	return m.Connection != ""
}

type ElasticsearchConfig struct {
	Address  string `yaml:"address"`
	Username string `yaml:"username"`
	Password string `yaml:"password"`

	InsecureSkipVerify bool `yaml:"insecure_skip_verify"`
}

func (e ElasticsearchConfig) Enabled() bool {
	return e.Address != ""
}

type ReportCacheConfig struct {
	Expiration time.Duration `yaml:"expiration"`
}

type SessionsConfig struct {
	TTL                  time.Duration `yaml:"ttl"`
	MaxConcurrentFetches int           `yaml:"max_concurrent_fetches"`
}

type MapConfig struct {
	TileURL     string  `yaml:"tile_url"`
	Attribution string  `yaml:"attribution"`
	CenterLat   float64 `yaml:"center_lat"`
	CenterLng   float64 `yaml:"center_lng"`
	Zoom        int     `yaml:"zoom"`
}

func Default() *Config {
	return &Config{
		API: APIConfig{
			UserAgent: "transittracker/0.1",
		},
		MongoDB: MongoDBConfig{
			Database: "transittracker",
		},
		ReportCache: ReportCacheConfig{
			Expiration: 5 * time.Minute,
		},
		Sessions: SessionsConfig{
			TTL:                  30 * time.Minute,
			MaxConcurrentFetches: 8,
		},
		Map: MapConfig{
			TileURL:     "https://{s}.basemaps.cartocdn.com/rastertiles/voyager/{z}/{x}/{y}{r}.png",
			Attribution: `&copy; Transit, <a href="https://www.openstreetmap.org/copyright">OpenStreetMap</a> contributors &copy; <a href="https://carto.com/attributions">CARTO</a>`,
			CenterLat:   50.0589,
			CenterLng:   19.9379,
			Zoom:        16,
		},
	}
}

// Load reads the optional YAML file at path on top of the defaults and then applies
// TRANSITTRACKER_* environment overrides.
func Load(path string) (*Config, error) {
	config := Default()

	env := util.GetEnvironmentVariables()
	if path == "" {
		path = env["TRANSITTRACKER_CONFIG"]
	}

	if path != "" {
		contents, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}

		if err := yaml.Unmarshal(contents, config); err != nil {
			return nil, fmt.Errorf("parsing %s: %w", path, err)
		}
	}

	if err := config.applyEnvironment(env); err != nil {
		return nil, err
	}

	return config, nil
}

func (c *Config) applyEnvironment(env map[string]string) error {
	if env["TRANSITTRACKER_API_URL"] != "" {
		c.API.BaseURL = env["TRANSITTRACKER_API_URL"]
	}
	if env["TRANSITTRACKER_AGENT_URL"] != "" {
		c.API.AgentURL = env["TRANSITTRACKER_AGENT_URL"]
	}
	if env["TRANSITTRACKER_USER_AGENT"] != "" {
		c.API.UserAgent = env["TRANSITTRACKER_USER_AGENT"]
	}

	if env["TRANSITTRACKER_REDIS_ADDRESS"] != "" {
		c.Redis.Address = env["TRANSITTRACKER_REDIS_ADDRESS"]
	}
	if env["TRANSITTRACKER_REDIS_PASSWORD"] != "" {
		c.Redis.Password = env["TRANSITTRACKER_REDIS_PASSWORD"]
	}
	if env["TRANSITTRACKER_REDIS_DATABASE"] != "" {
		n, err := strconv.Atoi(env["TRANSITTRACKER_REDIS_DATABASE"])
		if err != nil {
			return fmt.Errorf("TRANSITTRACKER_REDIS_DATABASE: %w", err)
		}
		c.Redis.Database = n
	}

	if env["TRANSITTRACKER_MONGODB_CONNECTION"] != "" {
		c.MongoDB.Connection = env["TRANSITTRACKER_MONGODB_CONNECTION"]
	}
	if env["TRANSITTRACKER_MONGODB_DATABASE"] != "" {
		c.MongoDB.Database = env["TRANSITTRACKER_MONGODB_DATABASE"]
	}

	if env["TRANSITTRACKER_ELASTICSEARCH_ADDRESS"] != "" {
		c.Elasticsearch.Address = env["TRANSITTRACKER_ELASTICSEARCH_ADDRESS"]
	}
	if env["TRANSITTRACKER_ELASTICSEARCH_USERNAME"] != "" {
		c.Elasticsearch.Username = env["TRANSITTRACKER_ELASTICSEARCH_USERNAME"]
	}
	if env["TRANSITTRACKER_ELASTICSEARCH_PASSWORD"] != "" {
		c.Elasticsearch.Password = env["TRANSITTRACKER_ELASTICSEARCH_PASSWORD"]
	}

	var err error
	if c.API.Timeout, err = util.EnvDuration(env, "TRANSITTRACKER_API_TIMEOUT", c.API.Timeout); err != nil {
		return fmt.Errorf("TRANSITTRACKER_API_TIMEOUT: %w", err)
	}
	if c.ReportCache.Expiration, err = util.EnvDuration(env, "TRANSITTRACKER_REPORT_CACHE_TTL", c.ReportCache.Expiration); err != nil {
		return fmt.Errorf("TRANSITTRACKER_REPORT_CACHE_TTL: %w", err)
	}
	if c.Sessions.TTL, err = util.EnvDuration(env, "TRANSITTRACKER_SESSION_TTL", c.Sessions.TTL); err != nil {
		return fmt.Errorf("TRANSITTRACKER_SESSION_TTL: %w", err)
	}
	if c.Sessions.MaxConcurrentFetches, err = util.EnvInt(env, "TRANSITTRACKER_MAX_CONCURRENT_FETCHES", c.Sessions.MaxConcurrentFetches); err != nil {
		return fmt.Errorf("TRANSITTRACKER_MAX_CONCURRENT_FETCHES: %w", err)
	}

	return nil
}

func (c *Config) Validate() error {
	if c.API.BaseURL == "" {
		return ErrMissingAPIBaseURL
	}

	return nil
}
