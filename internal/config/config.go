// Package config holds the runtime configuration for the portal scraper.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds all options for a scraper run.
type Config struct {
	// Portal credentials
	Pin      string `yaml:"pin"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`

	// Portal endpoints
	BaseURL string `yaml:"base_url"`

	// Listing traversal
	StartPage int `yaml:"start_page"`
	EndPage   int `yaml:"end_page"`

	// Row matching
	Hold        string `yaml:"hold"`
	YearPattern string `yaml:"year_pattern"`

	// Output
	OutputDir string `yaml:"output_dir"`

	// Browser
	ExecPath    string        `yaml:"exec_path"`
	ProfilePath string        `yaml:"profile_path"`
	Headless    bool          `yaml:"headless"`
	NavTimeout  time.Duration `yaml:"nav_timeout"`

	// Image fetch
	FetchTimeout time.Duration `yaml:"fetch_timeout"`

	// Logging
	LogLevel string `yaml:"log_level"`
}

// Default returns a Config with the defaults the portal variants agreed on.
// The page bound differed between the two historical scripts (45 vs 120);
// it is a plain setting here.
func Default() *Config {
	return &Config{
		BaseURL:      "https://portal.rescuegroups.org",
		StartPage:    1,
		EndPage:      45,
		Hold:         "Hold",
		YearPattern:  "-24-",
		OutputDir:    "pages",
		Headless:     false,
		NavTimeout:   2 * time.Hour,
		FetchTimeout: 5 * time.Second,
		LogLevel:     "info",
	}
}

// LoadFile merges settings from a YAML file into the config.
func (c *Config) LoadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse config file: %w", err)
	}
	return nil
}

// LoadEnv merges settings from LDAR_* environment variables into the
// config. A .env file in the working directory is honored when present.
func (c *Config) LoadEnv() error {
	// Silently ignore a missing .env; explicit env vars still apply.
	_ = godotenv.Load()

	if v := os.Getenv("LDAR_PIN"); v != "" {
		c.Pin = v
	}
	if v := os.Getenv("LDAR_USER"); v != "" {
		c.User = v
	}
	if v := os.Getenv("LDAR_PASSWORD"); v != "" {
		c.Password = v
	}
	if v := os.Getenv("LDAR_BASE_URL"); v != "" {
		c.BaseURL = v
	}
	if v := os.Getenv("LDAR_OUTPUT_DIR"); v != "" {
		c.OutputDir = v
	}
	if v := os.Getenv("LDAR_HOLD"); v != "" {
		c.Hold = v
	}
	if v := os.Getenv("LDAR_YEAR_PATTERN"); v != "" {
		c.YearPattern = v
	}
	if v := os.Getenv("LDAR_LOG_LEVEL"); v != "" {
		c.LogLevel = v
	}
	if v := os.Getenv("LDAR_START_PAGE"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid LDAR_START_PAGE %q: %w", v, err)
		}
		c.StartPage = n
	}
	if v := os.Getenv("LDAR_END_PAGE"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid LDAR_END_PAGE %q: %w", v, err)
		}
		c.EndPage = n
	}
	return nil
}

// Validate checks that the config describes a runnable scrape.
func (c *Config) Validate() error {
	if c.Pin == "" {
		return fmt.Errorf("account pin is required")
	}
	if c.User == "" {
		return fmt.Errorf("user name is required")
	}
	if c.Password == "" {
		return fmt.Errorf("password is required")
	}
	if c.BaseURL == "" {
		return fmt.Errorf("base URL is required")
	}
	if c.StartPage < 1 {
		return fmt.Errorf("start page must be >= 1, got %d", c.StartPage)
	}
	if c.EndPage < c.StartPage {
		return fmt.Errorf("end page %d is before start page %d", c.EndPage, c.StartPage)
	}
	if c.Hold == "" {
		return fmt.Errorf("hold pattern is required")
	}
	if c.YearPattern == "" {
		return fmt.Errorf("year pattern is required")
	}
	return nil
}
