package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config is the central typed configuration struct.
type Config struct {
	App        AppConfig
	Log        LogConfig
	Dependence DependenceConfig
}

type AppConfig struct {
	Name  string
	Env   string // local | production | testing
	Debug bool
}

type LogConfig struct {
	Level  string // debug | info | warn | error
	Format string // console | json
}

type DependenceConfig struct {
	// Trace logs every dependency dispatch at debug level.
	Trace bool
}

// Load reads .env (if present) and populates a Config. Variables already set
// in the process environment win over the files.
// Call once at bootstrap: cfg := config.Load()
func Load(envFiles ...string) *Config {
	files := envFiles
	if len(files) == 0 {
		files = []string{".env"}
	}
	// Non-fatal: .env may not exist in production
	vars, _ := godotenv.Read(files...)
	s := source(vars)

	return &Config{
		App: AppConfig{
			Name:  s.env("APP_NAME", "GoDependence"),
			Env:   s.env("APP_ENV", "local"),
			Debug: s.envBool("APP_DEBUG", false),
		},
		Log: LogConfig{
			Level:  s.env("LOG_LEVEL", "info"),
			Format: s.env("LOG_FORMAT", "console"),
		},
		Dependence: DependenceConfig{
			Trace: s.envBool("DEPENDENCE_TRACE", false),
		},
	}
}

// ── helpers ─────────────────────────────────────────────────────────────────

// source resolves a key from the process environment, then the env files.
type source map[string]string

func (s source) lookup(key string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return s[key]
}

func (s source) env(key, fallback string) string {
	if v := s.lookup(key); v != "" {
		return v
	}
	return fallback
}

func (s source) envBool(key string, fallback bool) bool {
	v := s.lookup(key)
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return b
}
