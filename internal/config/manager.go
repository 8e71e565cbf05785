package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/all-dot-files/wifiprov/internal/models"
	"github.com/all-dot-files/wifiprov/internal/storage"
	"github.com/all-dot-files/wifiprov/internal/storage/sqlite"
	yamlStore "github.com/all-dot-files/wifiprov/internal/storage/yaml"
	"github.com/all-dot-files/wifiprov/pkg/fileio"
)

const (
	DefaultConfigDir  = ".config/wifiprov"
	DefaultConfigFile = "config.yaml"

	historyYAML   = "history.yaml"
	historySQLite = "history.db"
)

// Manager handles settings persistence
type Manager struct {
	configPath string
	config     *models.Config
}

// NewManager creates a new configuration manager
func NewManager(configPath string) (*Manager, error) {
	if configPath == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("failed to get home directory: %w", err)
		}
		configPath = filepath.Join(home, DefaultConfigDir, DefaultConfigFile)
	}

	return &Manager{configPath: configPath}, nil
}

// GetConfigPath returns the path to the configuration file
func (m *Manager) GetConfigPath() string {
	return m.configPath
}

// GetConfigDir returns the directory containing the configuration
func (m *Manager) GetConfigDir() string {
	return filepath.Dir(m.configPath)
}

// Load loads the configuration from disk. A missing file yields defaults.
func (m *Manager) Load() error {
	data, err := os.ReadFile(m.configPath)
	if err != nil {
		if os.IsNotExist(err) {
			m.config = models.DefaultConfig()
			return nil
		}
		return fmt.Errorf("failed to read config file: %w", err)
	}

	var config models.Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return fmt.Errorf("failed to parse config file: %w", err)
	}
	config.ApplyDefaults()

	if err := Validate(&config); err != nil {
		return err
	}
	m.config = &config
	return nil
}

// Validate checks settings values
func Validate(c *models.Config) error {
	switch c.StorageDriver {
	case "yaml", "sqlite":
	default:
		return fmt.Errorf("invalid storage_driver %q (must be yaml or sqlite)", c.StorageDriver)
	}
	switch c.LogFormat {
	case "text", "json":
	default:
		return fmt.Errorf("invalid log_format %q (must be text or json)", c.LogFormat)
	}
	return nil
}

// Save saves the configuration to disk
func (m *Manager) Save() error {
	if m.config == nil {
		return fmt.Errorf("no configuration to save")
	}

	m.config.UpdatedAt = time.Now()

	dir := filepath.Dir(m.configPath)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(m.config)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := fileio.WriteFile(m.configPath, data, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Get returns the current configuration
func (m *Manager) Get() *models.Config {
	if m.config == nil {
		m.config = models.DefaultConfig()
	}
	return m.config
}

// Initialize writes a default configuration file
func (m *Manager) Initialize(force bool) error {
	if _, err := os.Stat(m.configPath); err == nil && !force {
		return fmt.Errorf("configuration already exists at %s", m.configPath)
	}

	m.config = models.DefaultConfig()
	if err := m.Save(); err != nil {
		return fmt.Errorf("failed to save initial configuration: %w", err)
	}
	return nil
}

// OpenStore opens the run history selected by storage_driver
func (m *Manager) OpenStore() (storage.Store, error) {
	cfg := m.Get()
	dir := m.GetConfigDir()

	if cfg.StorageDriver == "sqlite" {
		if err := os.MkdirAll(dir, 0700); err != nil {
			return nil, fmt.Errorf("failed to create config directory: %w", err)
		}
		store, err := sqlite.NewStore(filepath.Join(dir, historySQLite))
		if err != nil {
			return nil, fmt.Errorf("failed to initialize sqlite store: %w", err)
		}
		return store, nil
	}

	store, err := yamlStore.NewStore(filepath.Join(dir, historyYAML))
	if err != nil {
		return nil, fmt.Errorf("failed to initialize yaml store: %w", err)
	}
	return store, nil
}
