package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	ProjectDir   string `json:"project_dir"`
	ResultsDir   string `json:"results_dir"`
	DataDir      string `json:"data_dir"`
	DataCacheDir string `json:"data_cache_dir"`

	OnlineTools  bool `json:"online_tools"`
	CacheEnabled bool `json:"cache_enabled"`
	Debug        bool `json:"debug"`

	// Per-fetch timeout for market data requests, in seconds. A timeout is
	// treated the same as any other fetch failure: skip and continue.
	FetchTimeoutSec int `json:"fetch_timeout_sec"`

	// Default number of screening results when the query does not ask for
	// a specific count.
	DefaultResultCount int `json:"default_result_count"`

	// Finnhub supplies fundamentals (beta, growth, leverage) that the quote
	// feed does not carry. Optional; missing fields degrade to zero.
	FinnhubAPIKey string `json:"finnhub_api_key"`
}

func DefaultConfig() *Config {
	currentDir, _ := os.Getwd()

	cfg := &Config{
		ProjectDir:   currentDir,
		ResultsDir:   filepath.Join(currentDir, "results"),
		DataDir:      filepath.Join(currentDir, "data"),
		DataCacheDir: filepath.Join(currentDir, "data", "cache"),

		OnlineTools:  true,
		CacheEnabled: true,
		Debug:        false,

		FetchTimeoutSec:    15,
		DefaultResultCount: 8,
	}

	// Load environment variables from .env file
	_ = godotenv.Load()

	cfg.loadFromEnv()

	return cfg
}

func (c *Config) loadFromEnv() {
	if val := os.Getenv("PROJECT_DIR"); val != "" {
		c.ProjectDir = val
	}
	if val := os.Getenv("RESULTS_DIR"); val != "" {
		c.ResultsDir = val
	}
	if val := os.Getenv("DATA_DIR"); val != "" {
		c.DataDir = val
	}
	if val := os.Getenv("DATA_CACHE_DIR"); val != "" {
		c.DataCacheDir = val
	}

	if val := os.Getenv("ONLINE_TOOLS"); val != "" {
		if enabled, err := strconv.ParseBool(val); err == nil {
			c.OnlineTools = enabled
		}
	}
	if val := os.Getenv("CACHE_ENABLED"); val != "" {
		if enabled, err := strconv.ParseBool(val); err == nil {
			c.CacheEnabled = enabled
		}
	}
	if val := os.Getenv("ALPHADESK_DEBUG"); val != "" {
		if enabled, err := strconv.ParseBool(val); err == nil {
			c.Debug = enabled
		}
	}

	if val := os.Getenv("FETCH_TIMEOUT_SEC"); val != "" {
		if v, err := strconv.Atoi(val); err == nil && v > 0 {
			c.FetchTimeoutSec = v
		}
	}
	if val := os.Getenv("DEFAULT_RESULT_COUNT"); val != "" {
		if v, err := strconv.Atoi(val); err == nil && v > 0 {
			c.DefaultResultCount = v
		}
	}

	if val := os.Getenv("ALPHADESK_FINNHUB_API_KEY"); val != "" {
		c.FinnhubAPIKey = val
	}
}

func (c *Config) EnsureDirectories() error {
	dirs := []string{c.ProjectDir, c.ResultsDir, c.DataDir, c.DataCacheDir}
	for _, dir := range dirs {
		path := strings.TrimSpace(dir)
		if path == "" {
			continue
		}
		if err := os.MkdirAll(path, 0o755); err != nil {
			return fmt.Errorf("create directory %s: %w", path, err)
		}
	}
	return nil
}
