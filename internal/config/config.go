package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Source string

const (
	SourceLocal Source = "local"
	SourceCMS   Source = "cms"
)

var ErrMissingCMSCredentials = errors.New("MICROCMS_SERVICE_DOMAIN / MICROCMS_API_KEY are not set")

type Config struct {
	Port          string
	DBDriver      string
	DBDSN         string
	Source        Source
	SeedFile      string
	PageSize      int
	SecureCookies bool
	CORSOrigins   []string

	CMS CMS
}

// CMS holds the content-source credentials.
type CMS struct {
	ServiceDomain string
	APIKey        string
}

func (c CMS) Valid() bool {
	return c.ServiceDomain != "" && c.APIKey != ""
}

// LoadDotenv reads .env.local, then .env. Variables already set in the
// environment win; missing files are ignored.
func LoadDotenv() {
	for _, f := range []string{".env.local", ".env"} {
		if _, err := os.Stat(f); err == nil {
			_ = godotenv.Load(f)
		}
	}
}

// Load reads the server configuration and validates it.
func Load() (Config, error) {
	LoadDotenv()
	cfg := Config{
		Port:          envOr("PORT", "8080"),
		DBDriver:      envOr("DB_DRIVER", "sqlite"),
		DBDSN:         envOr("DB_DSN", "quiz.db"),
		Source:        Source(strings.ToLower(envOr("CONTENT_SOURCE", string(SourceLocal)))),
		SeedFile:      os.Getenv("SEED_FILE"),
		PageSize:      envInt("PAGE_SIZE", 10),
		SecureCookies: envBool("SECURE_COOKIES", false),
		CORSOrigins:   csvOr("CORS_ORIGINS", "http://localhost:3000"),
		CMS:           LoadCMS(),
	}
	return cfg, cfg.Validate()
}

// LoadCMS reads only the CMS credentials.
func LoadCMS() CMS {
	return CMS{
		ServiceDomain: strings.TrimSpace(os.Getenv("MICROCMS_SERVICE_DOMAIN")),
		APIKey:        strings.TrimSpace(os.Getenv("MICROCMS_API_KEY")),
	}
}

func (c Config) Validate() error {
	switch c.DBDriver {
	case "sqlite", "postgres":
	default:
		return fmt.Errorf("DB_DRIVER must be sqlite or postgres, got %q", c.DBDriver)
	}
	switch c.Source {
	case SourceLocal:
	case SourceCMS:
		if !c.CMS.Valid() {
			return ErrMissingCMSCredentials
		}
	default:
		return fmt.Errorf("CONTENT_SOURCE must be local or cms, got %q", c.Source)
	}
	if c.PageSize < 1 || c.PageSize > 100 {
		return fmt.Errorf("PAGE_SIZE must be within 1..100, got %d", c.PageSize)
	}
	return nil
}

func envOr(k, def string) string {
	if v := strings.TrimSpace(os.Getenv(k)); v != "" {
		return v
	}
	return def
}

func envBool(k string, def bool) bool {
	v := strings.TrimSpace(os.Getenv(k))
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return def
	}
	return b
}

func envInt(k string, def int) int {
	v := strings.TrimSpace(os.Getenv(k))
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

func csvOr(k, def string) []string {
	v := envOr(k, def)
	var out []string
	for _, p := range strings.Split(v, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
