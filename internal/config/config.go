// Package config manages environment variables.
//
// It reads variables from the process environment (and a `.env` file when one
// exists), loads them into structured Go types, and validates that required
// values are present so the process fails fast before serving any request.
//
// Responsibilities:
//   - Load environment variables (optionally from a `.env` file).
//   - Map the hosted database credentials (SUPABASE_URL, SUPABASE_KEY) and the
//     prefixed POSTS_ settings into Config.
//   - Validate required values so the app refuses to start on bad/missing config.
//   - Provide defaults for everything optional.
package config

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	// Side-effect import: if a `.env` file exists it is loaded into the process
	// environment before any variable is read.
	_ "github.com/joho/godotenv/autoload"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/v2"
)

/*
	Two env sources are merged into one koanf instance:

	1. POSTS_-prefixed settings. The prefix is stripped, the key lowercased, and a
	   double underscore marks nesting:
	     POSTS_SERVER__READ_TIMEOUT          -> server.read_timeout
	     POSTS_OBSERVABILITY__LOGGING__LEVEL -> observability.logging.level

	2. Fixed names owned by the hosting platform and the frontend deployment:
	     SUPABASE_URL -> database.url
	     SUPABASE_KEY -> database.key
	     FRONTEND_URL -> server.frontend_url
	     PORT         -> server.port

	The fixed names are loaded last so they win over POSTS_ equivalents.
*/

const (
	envPrefix = "POSTS_"

	// EnvDatabaseURL and EnvDatabaseKey are required; startup aborts without them.
	EnvDatabaseURL = "SUPABASE_URL"
	EnvDatabaseKey = "SUPABASE_KEY"

	EnvFrontendURL = "FRONTEND_URL"
	EnvPort        = "PORT"
)

// Config is the root configuration object for the application.
//
// The `koanf:"..."` tags specify where koanf maps values from and the
// `validate:"..."` tags are enforced by go-playground/validator.
type Config struct {
	Primary       Primary              `koanf:"primary" validate:"required"`
	Server        ServerConfig         `koanf:"server" validate:"required"`
	Database      DatabaseConfig       `koanf:"database" validate:"required"`
	Observability *ObservabilityConfig `koanf:"observability" validate:"required"`
}

// Primary holds top-level information about the runtime environment.
// Used to tag logs/traces and to switch behavior ("local" enables SQL logging).
type Primary struct {
	Env string `koanf:"env" validate:"required"`
}

// ServerConfig groups settings for the HTTP server runtime.
//
// Timeouts are whole seconds.
type ServerConfig struct {
	Port         string `koanf:"port" validate:"required,numeric"`
	ReadTimeout  int    `koanf:"read_timeout" validate:"min=1"`
	WriteTimeout int    `koanf:"write_timeout" validate:"min=1"`
	IdleTimeout  int    `koanf:"idle_timeout" validate:"min=1"`

	// BodyLimit caps request bodies, in echo's size notation ("10M", "512K").
	BodyLimit string `koanf:"body_limit" validate:"required"`

	// CORSAllowedOrigins is the fixed allow-list. FrontendURL, when set, is
	// appended to it by AllowedOrigins.
	CORSAllowedOrigins []string `koanf:"cors_allowed_origins" validate:"required,dive,required"`
	FrontendURL        string   `koanf:"frontend_url"`

	// RateLimit is the per-client request rate in requests per second.
	// Zero disables rate limiting.
	RateLimit float64 `koanf:"rate_limit" validate:"min=0"`
	RateBurst int     `koanf:"rate_burst" validate:"min=0"`
}

// DatabaseConfig contains the hosted database credentials and optional pool tuning.
//
// URL is a Postgres connection URL. Key is the access key issued by the hosting
// platform and is used as the connection password.
type DatabaseConfig struct {
	URL string `koanf:"url" validate:"required"`
	Key string `koanf:"key" validate:"required"`

	// Pool tuning. Zero values keep pgx defaults.
	MaxConns        int32 `koanf:"max_conns" validate:"min=0"`
	MinConns        int32 `koanf:"min_conns" validate:"min=0"`
	ConnMaxLifetime int   `koanf:"conn_max_lifetime" validate:"min=0"`
	ConnMaxIdleTime int   `koanf:"conn_max_idle_time" validate:"min=0"`
}

// AllowedOrigins returns the CORS allow-list: the configured origins followed by
// FrontendURL (if set), without duplicates or trailing slashes.
func (s ServerConfig) AllowedOrigins() []string {
	seen := make(map[string]struct{}, len(s.CORSAllowedOrigins)+1)
	origins := make([]string, 0, len(s.CORSAllowedOrigins)+1)

	add := func(origin string) {
		origin = strings.TrimRight(strings.TrimSpace(origin), "/")
		if origin == "" {
			return
		}
		if _, ok := seen[origin]; ok {
			return
		}
		seen[origin] = struct{}{}
		origins = append(origins, origin)
	}

	for _, origin := range s.CORSAllowedOrigins {
		add(origin)
	}
	add(s.FrontendURL)

	return origins
}

// DefaultConfig returns a Config with every optional value populated.
// Database credentials are left empty on purpose: they must come from the
// environment.
func DefaultConfig() *Config {
	return &Config{
		Primary: Primary{
			Env: "development",
		},
		Server: ServerConfig{
			Port:         "3000",
			ReadTimeout:  30,
			WriteTimeout: 30,
			IdleTimeout:  60,
			BodyLimit:    "10M",
			CORSAllowedOrigins: []string{
				"http://localhost:3000",
				"http://localhost:3001",
				"http://localhost:5173",
				"http://127.0.0.1:3000",
			},
		},
		Observability: DefaultObservabilityConfig(),
	}
}

// LoadConfig loads configuration from environment variables on top of
// DefaultConfig, validates it, and returns the resulting config.
//
// A missing SUPABASE_URL or SUPABASE_KEY is reported by name so the operator
// sees exactly what to set.
func LoadConfig() (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(env.ProviderWithValue(envPrefix, ".", prefixedKey), nil); err != nil {
		return nil, fmt.Errorf("could not load %s env variables: %w", envPrefix, err)
	}

	if err := k.Load(env.ProviderWithValue("", ".", fixedKey), nil); err != nil {
		return nil, fmt.Errorf("could not load platform env variables: %w", err)
	}

	// Unmarshal onto the defaults: keys absent from the environment keep their
	// default values.
	mainConfig := DefaultConfig()
	if err := k.Unmarshal("", mainConfig); err != nil {
		return nil, fmt.Errorf("could not unmarshal main config: %w", err)
	}

	var missing []string
	if mainConfig.Database.URL == "" {
		missing = append(missing, EnvDatabaseURL)
	}
	if mainConfig.Database.Key == "" {
		missing = append(missing, EnvDatabaseKey)
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("missing required environment variables: %s", strings.Join(missing, ", "))
	}

	validate := validator.New()
	if err := validate.Struct(mainConfig); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	// Service name is fixed; environment always follows primary.env so logs and
	// traces agree.
	mainConfig.Observability.ServiceName = ServiceName
	mainConfig.Observability.Environment = mainConfig.Primary.Env

	if err := mainConfig.Observability.Validate(); err != nil {
		return nil, fmt.Errorf("invalid observability config: %w", err)
	}

	return mainConfig, nil
}

// prefixedKey maps POSTS_SECTION__KEY=value onto "section.key". List settings
// are split on commas.
func prefixedKey(key, value string) (string, any) {
	key = strings.ToLower(strings.TrimPrefix(key, envPrefix))
	key = strings.ReplaceAll(key, "__", ".")

	if key == "server.cors_allowed_origins" {
		return key, splitList(value)
	}

	return key, value
}

// fixedKey maps the unprefixed platform variables. Everything else in the
// environment is ignored (an empty key tells koanf to skip the variable).
func fixedKey(key, value string) (string, any) {
	switch key {
	case EnvDatabaseURL:
		return "database.url", value
	case EnvDatabaseKey:
		return "database.key", value
	case EnvFrontendURL:
		return "server.frontend_url", value
	case EnvPort:
		return "server.port", value
	default:
		return "", nil
	}
}

func splitList(value string) []string {
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
