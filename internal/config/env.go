package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/local/pdfnup/internal/pagecount"
)

// LoggingConfig holds logging-related configuration.
type LoggingConfig struct {
	Level      string
	Pretty     bool
	File       string
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
	Compress   bool
}

// AxiomConfig holds Axiom logging configuration.
type AxiomConfig struct {
	Send          bool
	APIKey        string
	OrgID         string
	Dataset       string
	FlushInterval time.Duration
}

// EngineConfig selects the LaTeX engine.
type EngineConfig struct {
	Command string
	Runs    int
	Timeout time.Duration
}

// PageCountConfig selects how page counts are discovered.
type PageCountConfig struct {
	Backends       []string
	PdfinfoCommand string
	Timeout        time.Duration
}

// FetchConfig tunes downloads of remote inputs.
type FetchConfig struct {
	Timeout time.Duration
}

// MetricsConfig controls the node_exporter textfile.
type MetricsConfig struct {
	Textfile string
}

// AWSConfig records which AWS settings are present for s3:// inputs.
// The SDK reads them itself; pdfnup only uses them to decide what to check.
type AWSConfig struct {
	Region  string
	Profile string
}

// Configured reports whether an AWS region or profile is set.
func (c AWSConfig) Configured() bool { return c.Region != "" || c.Profile != "" }

// Config is the top-level configuration.
type Config struct {
	Logging   LoggingConfig
	Axiom     AxiomConfig
	Engine    EngineConfig
	PageCount PageCountConfig
	Fetch     FetchConfig
	Metrics   MetricsConfig
	AWS       AWSConfig
}

// Load reads the given dotenv files (".env" when none are named) into the
// environment, skipping missing ones, and then calls FromEnv. Variables
// already set in the environment win over the files.
func Load(files ...string) (Config, error) {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, os.ErrNotExist) {
			return Config{}, fmt.Errorf("load %s: %w", f, err)
		}
	}
	cfg := FromEnv()
	return cfg, cfg.Validate()
}

// FromEnv loads configuration from environment with sensible defaults.
func FromEnv() Config {
	cfg := Config{}

	// Logging defaults; a CLI stays quiet unless asked.
	cfg.Logging = LoggingConfig{
		Level:      getEnv("LOG_LEVEL", "warn"),
		Pretty:     parseBool(getEnv("LOG_PRETTY", "true")),
		File:       getEnv("LOG_FILE", ""),
		MaxSizeMB:  parseInt(getEnv("LOG_MAX_SIZE_MB", "10"), 10),
		MaxBackups: parseInt(getEnv("LOG_MAX_BACKUPS", "3"), 3),
		MaxAgeDays: parseInt(getEnv("LOG_MAX_AGE_DAYS", "30"), 30),
		Compress:   parseBool(getEnv("LOG_COMPRESS", "true")),
	}

	// Axiom defaults
	baseDataset := getEnv("AXIOM_DATASET", "dev")
	cfg.Axiom = AxiomConfig{
		Send:          parseBool(getEnv("SEND_LOGS_TO_AXIOM", "0")),
		APIKey:        getEnv("AXIOM_API_KEY", ""),
		OrgID:         getEnv("AXIOM_ORG_ID", ""),
		Dataset:       baseDataset + "_pdfnup",
		FlushInterval: parseDuration(getEnv("AXIOM_FLUSH_INTERVAL", "10s"), 10*time.Second),
	}

	cfg.Engine = EngineConfig{
		Command: getEnv("LATEX_ENGINE", "pdflatex"),
		Runs:    parseInt(getEnv("LATEX_RUNS", "1"), 1),
		Timeout: parseDuration(getEnv("LATEX_TIMEOUT", "120s"), 120*time.Second),
	}

	cfg.PageCount = PageCountConfig{
		Backends:       parseList(getEnv("PAGECOUNT_BACKENDS", "pdfinfo")),
		PdfinfoCommand: getEnv("PDFINFO_COMMAND", "pdfinfo"),
		Timeout:        parseDuration(getEnv("PAGECOUNT_TIMEOUT", "10s"), 10*time.Second),
	}

	cfg.Fetch = FetchConfig{
		Timeout: parseDuration(getEnv("FETCH_TIMEOUT", "60s"), 60*time.Second),
	}

	cfg.Metrics = MetricsConfig{
		Textfile: getEnv("METRICS_TEXTFILE", ""),
	}

	cfg.AWS = AWSConfig{
		Region:  getEnv("AWS_REGION", ""),
		Profile: getEnv("AWS_PROFILE", ""),
	}

	return cfg
}

// Validate reports settings that cannot work.
func (c Config) Validate() error {
	var errs []error
	if c.Engine.Command == "" {
		errs = append(errs, errors.New("LATEX_ENGINE is empty"))
	}
	if c.Engine.Runs < 1 {
		errs = append(errs, fmt.Errorf("LATEX_RUNS must be at least 1, got %d", c.Engine.Runs))
	}
	if c.Engine.Timeout <= 0 {
		errs = append(errs, fmt.Errorf("LATEX_TIMEOUT must be positive, got %v", c.Engine.Timeout))
	}
	if c.PageCount.Timeout <= 0 {
		errs = append(errs, fmt.Errorf("PAGECOUNT_TIMEOUT must be positive, got %v", c.PageCount.Timeout))
	}
	if _, err := pagecount.FromNames(c.PageCount.Backends, pagecount.Options{}); err != nil {
		errs = append(errs, fmt.Errorf("PAGECOUNT_BACKENDS: %w", err))
	}
	return errors.Join(errs...)
}

// Helpers
func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func parseInt(s string, def int) int {
	if s == "" {
		return def
	}
	if n, err := strconv.Atoi(s); err == nil {
		return n
	}
	return def
}

func parseBool(s string) bool {
	v := strings.ToLower(strings.TrimSpace(s))
	return v == "1" || v == "true" || v == "yes" || v == "on"
}

func parseDuration(s string, def time.Duration) time.Duration {
	if s == "" {
		return def
	}
	if d, err := time.ParseDuration(s); err == nil {
		return d
	}
	return def
}

func parseList(s string) []string {
	var out []string
	for _, item := range strings.Split(s, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
