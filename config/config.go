package config

import (
	"os"
	"path/filepath"
	"strings"
	"time"
	"unicode"

	"github.com/go-viper/mapstructure/v2"
	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env/v2"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	"github.com/pkg/errors"
)

const (
	defaultPath                   = "."
	defaultLoginPath              = "/login"
	defaultCookieName             = "token"
	defaultUnauthenticatedMessage = "Authentication token is required, Please Login first"
	defaultStateKey               = "auth"
	defaultRequestTimeout         = 30 * time.Second
	defaultMaxRequestBodySize     = "10M"
	defaultHTTPPort               = 8080
)

type Config struct {
	Env struct {
		Env         string `json:"env" yaml:"env"`
		ServiceName string `json:"serviceName" yaml:"serviceName"`
		Debug       bool   `json:"debug" yaml:"debug"`
		Log         Log    `json:"log" yaml:"log"`
	} `json:"env" yaml:"env"`

	HTTP struct {
		Port int `json:"port" yaml:"port"`
		// Echo body limit, e.g. "10M"; admin uploads pass through it
		MaxRequestBodySize string `json:"maxRequestBodySize" yaml:"maxRequestBodySize"`
		Timeouts           struct {
			ReadTimeout       time.Duration `json:"readTimeout" yaml:"readTimeout"`
			ReadHeaderTimeout time.Duration `json:"readHeaderTimeout" yaml:"readHeaderTimeout"`
			WriteTimeout      time.Duration `json:"writeTimeout" yaml:"writeTimeout"`
			IdleTimeout       time.Duration `json:"idleTimeout" yaml:"idleTimeout"`
		} `json:"timeouts" yaml:"timeouts"`
	} `json:"http" yaml:"http"`

	// API configuration for the backend REST API
	API APIConfig `json:"api" yaml:"api"`

	// Auth configuration for session cookie handling and login redirects
	Auth AuthConfig `json:"auth" yaml:"auth"`

	// Cache configuration for the client-side query cache
	Cache CacheConfig `json:"cache" yaml:"cache"`

	// State configuration for persisted client state
	State *StateConfig `json:"state" yaml:"state"`
}

// APIConfig holds the backend base URLs. PublicBaseURL is the one visible to
// browser-context callers, ServerBaseURL is only used by the server-side client.
type APIConfig struct {
	PublicBaseURL string        `json:"publicBaseUrl" yaml:"publicBaseUrl"`
	ServerBaseURL string        `json:"serverBaseUrl" yaml:"serverBaseUrl"`
	Timeout       time.Duration `json:"timeout" yaml:"timeout"`
}

// AuthConfig defines how the session credential is carried and when a login redirect happens
type AuthConfig struct {
	LoginPath              string `json:"loginPath" yaml:"loginPath"`
	CookieName             string `json:"cookieName" yaml:"cookieName"`
	UnauthenticatedMessage string `json:"unauthenticatedMessage" yaml:"unauthenticatedMessage"`
}

// CacheConfig defines query cache behaviour
type CacheConfig struct {
	// How long a fetched value is served without refetching. Zero means every
	// read after the first load refetches (concurrent reads still share one call).
	StaleTime time.Duration `json:"staleTime" yaml:"staleTime"`
}

// StateConfig defines where persisted client state (the "auth" entry) lives
type StateConfig struct {
	// Provider type: "blob" for a gocloud bucket URL or "redis"
	Provider string `json:"provider" yaml:"provider"`

	// Bucket URL for the blob provider, e.g. file:///var/lib/storefront or mem://
	BucketURL string `json:"bucketUrl" yaml:"bucketUrl"`

	// Entry name the state is stored under
	Key string `json:"key" yaml:"key"`

	Redis *RedisConfig `json:"redis" yaml:"redis"`
}

// RedisConfig defines the redis connection for the redis state provider
type RedisConfig struct {
	Addr     string `json:"addr" yaml:"addr"`
	Username string `json:"username" yaml:"username"`
	Password string `json:"password" yaml:"password"`
	DB       int    `json:"db" yaml:"db"`
}

type Log struct {
	Pretty bool   `json:"pretty" yaml:"pretty"`
	Level  string `json:"level" yaml:"level"`
}

// LoadWithEnv loads .yaml files through koanf.
func LoadWithEnv[T any](currEnv string, configPath ...string) (*T, error) {
	cfg := new(T)
	koanfInstance := koanf.New(".")

	// Build list of paths to search for config file
	searchPaths := []string{defaultPath}
	if len(configPath) != 0 {
		pwd, err := os.Getwd()
		if err != nil {
			return nil, errors.Wrap(err, "os.Getwd")
		}
		for _, path := range configPath {
			abs := filepath.Join(pwd, path)
			searchPaths = append(searchPaths, abs)
		}
	}

	// Try to find and load the config file
	var configFile string
	var found bool
	for _, path := range searchPaths {
		candidate := filepath.Join(path, currEnv+".yaml")
		if _, err := os.Stat(candidate); err == nil {
			configFile = candidate
			found = true

			break
		}
	}

	if !found {
		return nil, errors.Errorf("config file %s.yaml not found in any search path", currEnv)
	}

	// Load YAML config file
	if err := koanfInstance.Load(file.Provider(configFile), yaml.Parser()); err != nil {
		return nil, errors.Wrapf(err, "read %s config failed", currEnv)
	}

	existingConfigMap := koanfInstance.Raw()

	// Load environment variables
	if err := koanfInstance.Load(env.Provider(".", env.Opt{
		TransformFunc: func(k, v string) (string, any) {
			// Example: API_PUBLICBASEURL -> api.publicBaseUrl
			key := canonicalizeEnvKey(k, existingConfigMap)

			return key, v
		},
	}), nil); err != nil {
		return nil, errors.Wrap(err, "load env variables failed")
	}

	if err := koanfInstance.UnmarshalWithConf("", cfg, koanf.UnmarshalConf{
		DecoderConfig: &mapstructure.DecoderConfig{
			Result:           cfg,
			WeaklyTypedInput: true,
			DecodeHook: mapstructure.ComposeDecodeHookFunc(
				mapstructure.StringToTimeDurationHookFunc(),
			),
			MatchName: func(mapKey, fieldName string) bool {
				return strings.EqualFold(mapKey, fieldName)
			},
		},
	}); err != nil {
		return nil, errors.Wrapf(err, "unmarshal %s config failed", currEnv)
	}

	return cfg, nil
}

func New() (*Config, error) {
	// A missing .env is normal outside local development
	_ = godotenv.Load()

	cfg, err := LoadWithEnv[Config]("config", "config", "../config", "../../config")
	if err != nil {
		return nil, err
	}

	cfg.ApplyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// ApplyDefaults fills optional settings that were left empty
func (c *Config) ApplyDefaults() {
	if strings.TrimSpace(c.Auth.LoginPath) == "" {
		c.Auth.LoginPath = defaultLoginPath
	}
	if strings.TrimSpace(c.Auth.CookieName) == "" {
		c.Auth.CookieName = defaultCookieName
	}
	if strings.TrimSpace(c.Auth.UnauthenticatedMessage) == "" {
		c.Auth.UnauthenticatedMessage = defaultUnauthenticatedMessage
	}
	if c.API.Timeout <= 0 {
		c.API.Timeout = defaultRequestTimeout
	}
	if c.HTTP.MaxRequestBodySize == "" {
		c.HTTP.MaxRequestBodySize = defaultMaxRequestBodySize
	}
	if c.HTTP.Port == 0 {
		c.HTTP.Port = defaultHTTPPort
	}
	if c.API.ServerBaseURL == "" {
		c.API.ServerBaseURL = c.API.PublicBaseURL
	}
	if c.State != nil && c.State.Key == "" {
		c.State.Key = defaultStateKey
	}
}

// Validate checks the settings every component depends on
func (c *Config) Validate() error {
	if c.API.PublicBaseURL == "" {
		return errors.New("api.publicBaseUrl is required")
	}
	if c.Cache.StaleTime < 0 {
		return errors.Errorf("cache.staleTime must not be negative: %s", c.Cache.StaleTime)
	}

	return nil
}

func canonicalizeEnvKey(rawKey string, existing map[string]any) string {
	segments := strings.Split(strings.ToLower(rawKey), "_")
	canonical := make([]string, 0, len(segments))
	current := existing

	for _, segment := range segments {
		if segment == "" {
			continue
		}

		if matched, next, ok := findExistingSegment(current, segment); ok {
			canonical = append(canonical, matched)
			current = next
		} else {
			canonical = append(canonical, segment)
			current = nil
		}
	}

	return strings.Join(canonical, ".")
}

func findExistingSegment(current map[string]any, segment string) (matched string, next map[string]any, ok bool) {
	if len(current) == 0 {
		return "", nil, false
	}

	needle := normalizeToken(segment)
	for key, value := range current {
		if normalizeToken(key) != needle {
			continue
		}

		child, _ := value.(map[string]any)

		return key, child, true
	}

	return "", nil, false
}

func normalizeToken(s string) string {
	var normalized strings.Builder
	normalized.Grow(len(s))

	for _, r := range s {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			continue
		}
		normalized.WriteRune(unicode.ToLower(r))
	}

	return normalized.String()
}
