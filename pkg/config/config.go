package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Defaults applied by Validate.
const (
	DefaultListenAddr    = ":8080"
	DefaultAdminPassword = "admin123"
	DefaultStorePath     = "./data/portfolio.json"
	DefaultSQLiteDSN     = "./data/folio.db"
	DefaultUploadsDir    = "./public/uploads"
	DefaultUploadsPrefix = "/uploads"
	DefaultUploadBytes   = 5 * 1024 * 1024
	DefaultOutputDir     = "./cv"
)

// Config represents the application configuration.
type Config struct {
	Name            string        `json:"name" yaml:"name"`
	ListenAddr      string        `json:"listen_addr,omitempty" yaml:"listen_addr,omitempty"`
	BaseURL         string        `json:"base_url,omitempty" yaml:"base_url,omitempty"`
	Store           StoreConfig   `json:"store" yaml:"store"`
	AdminPassword   string        `json:"admin_password,omitempty" yaml:"admin_password,omitempty"`
	SessionSecret   string        `json:"session_secret,omitempty" yaml:"session_secret,omitempty"`
	Production      bool          `json:"production,omitempty" yaml:"production,omitempty"`
	Uploads         UploadsConfig `json:"uploads" yaml:"uploads"`
	CORS            CORSConfig    `json:"cors" yaml:"cors"`
	Log             LogConfig     `json:"log" yaml:"log"`
	AnthropicAPIKey string        `json:"anthropic_api_key,omitempty" yaml:"anthropic_api_key,omitempty"`
	Models          ModelsConfig  `json:"models,omitempty" yaml:"models,omitempty"`
	Pandoc          PandocConfig  `json:"pandoc" yaml:"pandoc"`
	Defaults        DefaultConfig `json:"defaults" yaml:"defaults"`
}

// StoreConfig selects and locates the content backend.
type StoreConfig struct {
	Driver string `json:"driver" yaml:"driver"`
	Path   string `json:"path,omitempty" yaml:"path,omitempty"`
	DSN    string `json:"dsn,omitempty" yaml:"dsn,omitempty"`
}

// Location returns the path or DSN for the configured driver.
func (s StoreConfig) Location() (location string) {
	if s.Driver == "sqlite" {
		location = s.DSN
		return location
	}
	location = s.Path
	return location
}

// UploadsConfig holds image upload settings.
type UploadsConfig struct {
	Dir       string `json:"dir" yaml:"dir"`
	URLPrefix string `json:"url_prefix,omitempty" yaml:"url_prefix,omitempty"`
	MaxBytes  int64  `json:"max_bytes,omitempty" yaml:"max_bytes,omitempty"`
}

// CORSConfig lists origins allowed to call the API with credentials.
type CORSConfig struct {
	AllowedOrigins []string `json:"allowed_origins,omitempty" yaml:"allowed_origins,omitempty"`
}

// LogConfig holds logger settings.
type LogConfig struct {
	Level  string `json:"level,omitempty" yaml:"level,omitempty"`
	Format string `json:"format,omitempty" yaml:"format,omitempty"`
}

// ModelsConfig holds model selection for the translation assistant.
type ModelsConfig struct {
	Translation string `json:"translation,omitempty" yaml:"translation,omitempty"`
}

// PandocConfig holds pandoc-related configuration. Both fields are optional.
type PandocConfig struct {
	TemplatePath string `json:"template_path,omitempty" yaml:"template_path,omitempty"`
	ClassFile    string `json:"class_file,omitempty" yaml:"class_file,omitempty"`
}

// DefaultConfig holds default values for commands.
type DefaultConfig struct {
	OutputDir string `json:"output_dir" yaml:"output_dir"`
}

// GetTranslationModel returns the translation model or default if not specified.
func (c *Config) GetTranslationModel() (model string) {
	if c.Models.Translation != "" {
		model = c.Models.Translation
		return model
	}
	model = "claude-sonnet-4-20250514"
	return model
}

// DefaultPath returns ~/.folio/config.json.
func DefaultPath() (path string, err error) {
	var homeDir string
	homeDir, err = os.UserHomeDir()
	if err != nil {
		err = errors.Wrap(err, "failed to get user home directory")
		return path, err
	}
	path = filepath.Join(homeDir, ".folio", "config.json")
	return path, err
}

// Load reads configuration from file with environment variable overrides.
func Load(configPath string) (cfg Config, err error) {
	path := configPath
	if path == "" {
		path, err = DefaultPath()
		if err != nil {
			return cfg, err
		}
	}

	var data []byte
	data, err = os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			err = errors.Errorf("config file not found: %s (run 'folio init' to create)", path)
			return cfg, err
		}
		err = errors.Wrapf(err, "failed to read config file: %s", path)
		return cfg, err
	}

	if isYAML(path) {
		err = yaml.Unmarshal(data, &cfg)
	} else {
		err = json.Unmarshal(data, &cfg)
	}
	if err != nil {
		err = errors.Wrapf(err, "failed to parse config file: %s", path)
		return cfg, err
	}

	cfg.ApplyEnv()

	err = cfg.Validate()
	if err != nil {
		err = errors.Wrap(err, "config validation failed")
		return cfg, err
	}

	return cfg, err
}

// ApplyEnv overrides settings from the environment.
func (c *Config) ApplyEnv() {
	if password := os.Getenv("ADMIN_PASSWORD"); password != "" {
		c.AdminPassword = password
	}

	if apiKey := os.Getenv("ANTHROPIC_API_KEY"); apiKey != "" {
		c.AnthropicAPIKey = apiKey
	}

	if addr := os.Getenv("FOLIO_LISTEN_ADDR"); addr != "" {
		c.ListenAddr = addr
	}

	if os.Getenv("FOLIO_ENV") == "production" || os.Getenv("NODE_ENV") == "production" {
		c.Production = true
	}
}

// Validate fills defaults and rejects settings the server cannot run with.
func (c *Config) Validate() (err error) {
	if c.ListenAddr == "" {
		c.ListenAddr = DefaultListenAddr
	}

	if c.AdminPassword == "" {
		c.AdminPassword = DefaultAdminPassword
	}

	switch c.Store.Driver {
	case "", "file":
		c.Store.Driver = "file"
		if c.Store.Path == "" {
			c.Store.Path = DefaultStorePath
		}
	case "sqlite":
		if c.Store.DSN == "" {
			c.Store.DSN = DefaultSQLiteDSN
		}
	default:
		err = errors.Errorf("unsupported store.driver %q (use file or sqlite)", c.Store.Driver)
		return err
	}

	if c.Uploads.Dir == "" {
		c.Uploads.Dir = DefaultUploadsDir
	}

	if c.Uploads.URLPrefix == "" {
		c.Uploads.URLPrefix = DefaultUploadsPrefix
	}

	if c.Uploads.MaxBytes == 0 {
		c.Uploads.MaxBytes = DefaultUploadBytes
	}

	if c.Uploads.MaxBytes < 0 {
		err = errors.Errorf("uploads.max_bytes must be positive, got %d", c.Uploads.MaxBytes)
		return err
	}

	if c.Defaults.OutputDir == "" {
		c.Defaults.OutputDir = DefaultOutputDir
	}

	return err
}

// RequireAnthropic checks that an API key is available for the translation assistant.
func (c *Config) RequireAnthropic() (err error) {
	if c.AnthropicAPIKey == "" {
		err = errors.New("anthropic_api_key is required (set in config or ANTHROPIC_API_KEY env var)")
		return err
	}
	return err
}

// InitConfig creates a default configuration file.
func InitConfig(configPath string) (err error) {
	path := configPath
	if path == "" {
		path, err = DefaultPath()
		if err != nil {
			return err
		}
	}

	dir := filepath.Dir(path)
	err = os.MkdirAll(dir, 0750)
	if err != nil {
		err = errors.Wrapf(err, "failed to create config directory: %s", dir)
		return err
	}

	_, err = os.Stat(path)
	if err == nil {
		err = errors.Errorf("config file already exists: %s", path)
		return err
	}

	defaultConfig := Config{
		Name:          "your-name",
		ListenAddr:    DefaultListenAddr,
		BaseURL:       "http://localhost:8080",
		Store:         StoreConfig{Driver: "file", Path: DefaultStorePath},
		AdminPassword: DefaultAdminPassword,
		Uploads: UploadsConfig{
			Dir:       DefaultUploadsDir,
			URLPrefix: DefaultUploadsPrefix,
			MaxBytes:  DefaultUploadBytes,
		},
		CORS:     CORSConfig{AllowedOrigins: []string{"http://localhost:3000"}},
		Log:      LogConfig{Level: "info", Format: "text"},
		Defaults: DefaultConfig{OutputDir: DefaultOutputDir},
	}

	var data []byte
	if isYAML(path) {
		data, err = yaml.Marshal(defaultConfig)
	} else {
		data, err = json.MarshalIndent(defaultConfig, "", "  ")
	}
	if err != nil {
		err = errors.Wrap(err, "failed to marshal default config")
		return err
	}

	err = os.WriteFile(path, data, 0600)
	if err != nil {
		err = errors.Wrapf(err, "failed to write config file: %s", path)
		return err
	}

	return err
}

func isYAML(path string) (yes bool) {
	ext := strings.ToLower(filepath.Ext(path))
	yes = ext == ".yaml" || ext == ".yml"
	return yes
}
