package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/youruser/storycards/internal/cards"
	imagepkg "github.com/youruser/storycards/internal/image"
)

// Config is the server configuration. Files may be YAML or TOML; anything
// left out keeps its default.
type Config struct {
	Server ServerConfig `yaml:"server" toml:"server"`
	Log    LogConfig    `yaml:"log" toml:"log"`
	Cards  CardsConfig  `yaml:"cards" toml:"cards"`
	Images ImagesConfig `yaml:"images" toml:"images"`
}

type ServerConfig struct {
	Port string `yaml:"port" toml:"port"`
	// PublicURL is the externally reachable base used in share QR codes.
	PublicURL string `yaml:"public_url" toml:"public_url"`
}

type LogConfig struct {
	Level       string `yaml:"level" toml:"level"` // debug, info, warn, error
	Development bool   `yaml:"development" toml:"development"`
}

type CardsConfig struct {
	Count             cards.CountRange `yaml:"count" toml:"count"`
	RevealPolicy      string           `yaml:"reveal_policy" toml:"reveal_policy"`
	SessionTTLMinutes int              `yaml:"session_ttl_minutes" toml:"session_ttl_minutes"`
}

type ImagesConfig struct {
	PhotoPoolSize        int    `yaml:"photo_pool_size" toml:"photo_pool_size"`
	PhotoURLTemplate     string `yaml:"photo_url_template" toml:"photo_url_template"`
	PicsumBaseURL        string `yaml:"picsum_base_url" toml:"picsum_base_url"`
	ProxyTimeoutSeconds  int    `yaml:"proxy_timeout_seconds" toml:"proxy_timeout_seconds"`
	CacheMaxAgeSeconds   int    `yaml:"cache_max_age_seconds" toml:"cache_max_age_seconds"`
	AssetsDir            string `yaml:"assets_dir" toml:"assets_dir"`
	AssetsPrefix         string `yaml:"assets_prefix" toml:"assets_prefix"`
	IllustrationCount    int    `yaml:"illustration_count" toml:"illustration_count"`
	IllustrationManifest string `yaml:"illustration_manifest" toml:"illustration_manifest"`
}

func Default() Config {
	return Config{
		Server: ServerConfig{Port: "8080"},
		Log:    LogConfig{Level: "info"},
		Cards: CardsConfig{
			Count:             cards.DefaultCountRange,
			RevealPolicy:      string(cards.PolicyToggle),
			SessionTTLMinutes: 120,
		},
		Images: ImagesConfig{
			PhotoPoolSize:       imagepkg.DefaultPhotoPoolSize,
			PhotoURLTemplate:    imagepkg.DefaultPhotoURLTemplate,
			PicsumBaseURL:       "https://picsum.photos/200/300",
			ProxyTimeoutSeconds: 12,
			CacheMaxAgeSeconds:  3600,
			AssetsPrefix:        "/assets",
			IllustrationCount:   imagepkg.DefaultIllustrationCount,
		},
	}
}

// Load reads path over the defaults, applies environment overrides and
// validates the result. An empty path yields defaults plus overrides.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path != "" {
		if err := decodeFile(path, &cfg); err != nil {
			return nil, err
		}
	}
	cfg.applyEnvOverrides()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func decodeFile(path string, cfg *Config) error {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		if _, err := toml.DecodeFile(path, cfg); err != nil {
			return fmt.Errorf("error decoding config file %s: %w", path, err)
		}
		return nil
	case ".yaml", ".yml", "":
		b, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(b, cfg); err != nil {
			return fmt.Errorf("error decoding config file %s: %w", path, err)
		}
		return nil
	default:
		return fmt.Errorf("unsupported config format %q", filepath.Ext(path))
	}
}

func (c *Config) applyEnvOverrides() {
	if v := os.Getenv("PORT"); v != "" {
		c.Server.Port = v
	}
	if v := os.Getenv("STORYCARDS_PUBLIC_URL"); v != "" {
		c.Server.PublicURL = v
	}
	if v := os.Getenv("STORYCARDS_LOG_LEVEL"); v != "" {
		c.Log.Level = v
	}
	if v := os.Getenv("STORYCARDS_ASSETS_DIR"); v != "" {
		c.Images.AssetsDir = v
	}
}

func (c *Config) Validate() error {
	var errs []error
	if c.Server.Port == "" {
		errs = append(errs, errors.New("server.port is required"))
	}
	if c.Cards.Count.Min < 1 || c.Cards.Count.Max < c.Cards.Count.Min {
		errs = append(errs, fmt.Errorf("cards.count: bad range %d-%d", c.Cards.Count.Min, c.Cards.Count.Max))
	}
	if _, err := cards.ParsePolicy(c.Cards.RevealPolicy); err != nil {
		errs = append(errs, fmt.Errorf("cards.reveal_policy: %w", err))
	}
	if c.Images.PhotoPoolSize < 0 {
		errs = append(errs, errors.New("images.photo_pool_size must not be negative"))
	}
	if strings.Count(c.Images.PhotoURLTemplate, "%d") != 1 {
		errs = append(errs, fmt.Errorf("images.photo_url_template %q needs exactly one %%d", c.Images.PhotoURLTemplate))
	}
	if c.Images.IllustrationCount < 0 {
		errs = append(errs, errors.New("images.illustration_count must not be negative"))
	}
	if c.Images.ProxyTimeoutSeconds <= 0 {
		errs = append(errs, errors.New("images.proxy_timeout_seconds must be positive"))
	}
	return errors.Join(errs...)
}

func (c *Config) SessionTTL() time.Duration {
	return time.Duration(c.Cards.SessionTTLMinutes) * time.Minute
}

func (c *Config) ProxyTimeout() time.Duration {
	return time.Duration(c.Images.ProxyTimeoutSeconds) * time.Second
}

// Illustrations resolves the illustration pool: the manifest when one is
// configured, otherwise the numbered defaults under AssetsPrefix.
func (c *Config) Illustrations() ([]string, error) {
	if c.Images.IllustrationManifest != "" {
		return imagepkg.LoadIllustrationsCSV(c.Images.IllustrationManifest)
	}
	return imagepkg.DefaultIllustrations(c.Images.AssetsPrefix, c.Images.IllustrationCount), nil
}

// Addr is the listen address for the HTTP server.
func (c *Config) Addr() string {
	if strings.Contains(c.Server.Port, ":") {
		return c.Server.Port
	}
	return ":" + c.Server.Port
}

// BaseURL is PublicURL or a localhost URL built from the port.
func (c *Config) BaseURL() string {
	if c.Server.PublicURL != "" {
		return strings.TrimRight(c.Server.PublicURL, "/")
	}
	return "http://localhost" + c.Addr()
}
