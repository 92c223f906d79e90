package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	configFileName = "config.yaml"
	dirMode        = 0700
	fileMode       = 0600

	HandleEnvVar      = "BSKY_HANDLE"
	AppPasswordEnvVar = "BSKY_APP_PASSWORD"

	DefaultHost          = "https://bsky.social"
	DefaultSearchLimit   = 10
	DefaultTimelineLimit = 100
	DefaultWindowHours   = 24
	DefaultTopPosts      = 15
)

// Config represents app config object.
type Config struct {
	Host          string   `yaml:"host"`
	Handle        string   `yaml:"handle,omitempty"`
	Hashtags      []string `yaml:"hashtags"`
	SearchLimit   int      `yaml:"search_limit"`
	TimelineLimit int      `yaml:"timeline_limit"`
	WindowHours   int      `yaml:"window_hours"`
	TopPosts      int      `yaml:"top_posts"`
}

// Credentials are the two values needed to create a session.
type Credentials struct {
	Handle      string
	AppPassword string
}

func (c *Credentials) Valid() bool {
	return c != nil && c.Handle != "" && c.AppPassword != ""
}

func getDefaultConfig() *Config {
	return &Config{
		Host:          DefaultHost,
		Hashtags:      []string{"#Soziologie", "#CfP"},
		SearchLimit:   DefaultSearchLimit,
		TimelineLimit: DefaultTimelineLimit,
		WindowHours:   DefaultWindowHours,
		TopPosts:      DefaultTopPosts,
	}
}

// applyDefaults fills zero values left by partial config files.
func (c *Config) applyDefaults() {
	d := getDefaultConfig()
	if c.Host == "" {
		c.Host = d.Host
	}
	if c.Hashtags == nil {
		c.Hashtags = d.Hashtags
	}
	if c.SearchLimit <= 0 {
		c.SearchLimit = d.SearchLimit
	}
	if c.TimelineLimit <= 0 {
		c.TimelineLimit = d.TimelineLimit
	}
	if c.WindowHours <= 0 {
		c.WindowHours = d.WindowHours
	}
	if c.TopPosts <= 0 {
		c.TopPosts = d.TopPosts
	}
}

func Save(dirPath string, c *Config) error {
	if dirPath == "" {
		return errors.New("config directory required")
	}
	if c == nil {
		return errors.New("config required")
	}
	b, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	path := filepath.Join(dirPath, configFileName)
	if err := os.WriteFile(path, b, fileMode); err != nil {
		return fmt.Errorf("writing config file %s: %w", path, err)
	}
	return nil
}

// ReadOrCreate reads app config from directory or creates a new one.
func ReadOrCreate(dirPath string) (*Config, error) {
	if dirPath == "" {
		return nil, errors.New("config directory required")
	}

	if _, err := os.Stat(dirPath); errors.Is(err, os.ErrNotExist) {
		if err := os.MkdirAll(dirPath, dirMode); err != nil {
			return nil, fmt.Errorf("creating dir %s: %w", dirPath, err)
		}
	}

	path := filepath.Join(dirPath, configFileName)

	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		slog.Debug("creating default config", "path", path)
		if err := Save(dirPath, getDefaultConfig()); err != nil {
			return nil, fmt.Errorf("creating default config: %w", err)
		}
	}

	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file %s: %w", path, err)
	}

	var c Config
	if err := yaml.Unmarshal(b, &c); err != nil {
		return nil, fmt.Errorf("unmarshaling config file %s: %w", path, err)
	}
	c.applyDefaults()

	return &c, nil
}

// Reset replaces the config file in the directory with the defaults.
func Reset(dirPath string) (*Config, error) {
	if dirPath == "" {
		return nil, errors.New("config directory required")
	}
	path := filepath.Join(dirPath, configFileName)
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("deleting config file %s: %w", path, err)
	}
	return ReadOrCreate(dirPath)
}

// LoadEnv loads the .env files when present. Missing files are not an error.
func LoadEnv(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}

	existing := make([]string, 0, len(files))
	for _, f := range files {
		if _, err := os.Stat(f); err == nil {
			existing = append(existing, f)
		}
	}
	if len(existing) == 0 {
		return nil
	}

	// Load does not override variables already set in the environment
	if err := godotenv.Load(existing...); err != nil {
		return fmt.Errorf("loading env files %v: %w", existing, err)
	}
	slog.Debug("loaded env files", "files", existing)
	return nil
}

// CredentialsFromEnv reads the handle and app password from the environment.
func CredentialsFromEnv() *Credentials {
	return &Credentials{
		Handle:      strings.TrimSpace(os.Getenv(HandleEnvVar)),
		AppPassword: strings.TrimSpace(os.Getenv(AppPasswordEnvVar)),
	}
}

// GetOrCreateHomeDir returns the home directory for the current user.
// The create flag is set to true if the directory was created.
func GetOrCreateHomeDir(name string) (path string, created bool, err error) {
	if name == "" {
		return "", false, errors.New("name cannot be empty")
	}

	if !strings.HasPrefix(name, ".") {
		name = "." + name
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", false, fmt.Errorf("getting user home dir: %w", err)
	}
	slog.Debug("home dir", "path", home)

	dir := filepath.Join(home, name)
	if _, err := os.Stat(dir); errors.Is(err, os.ErrNotExist) {
		slog.Debug("creating dir", "path", dir)
		if err := os.Mkdir(dir, dirMode); err != nil {
			return "", false, fmt.Errorf("creating dir %s: %w", dir, err)
		}
		created = true
	}
	return dir, created, nil
}
