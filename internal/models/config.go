package models

import (
	"time"
)

// Config represents the wifiprov settings file
type Config struct {
	// wpa_cli binary and control socket directory
	WpaCli  string `yaml:"wpa_cli" json:"wpa_cli"`
	CtrlDir string `yaml:"ctrl_dir,omitempty" json:"ctrl_dir,omitempty"`

	// Storage configuration
	StorageDriver string `yaml:"storage_driver,omitempty" json:"storage_driver,omitempty"` // "yaml" or "sqlite"
	HistoryLimit  int    `yaml:"history_limit,omitempty" json:"history_limit,omitempty"`

	// Logging
	LogFormat string `yaml:"log_format,omitempty" json:"log_format,omitempty"` // "text" or "json"
	LogLevel  string `yaml:"log_level,omitempty" json:"log_level,omitempty"`

	// Credential file handling
	DefaultConfig   string `yaml:"default_config,omitempty" json:"default_config,omitempty"`
	ProcessedSuffix string `yaml:"processed_suffix,omitempty" json:"processed_suffix,omitempty"`
	NotePrefix      string `yaml:"note_prefix,omitempty" json:"note_prefix,omitempty"`

	// Debug mode
	Debug bool `yaml:"debug,omitempty" json:"debug,omitempty"`

	// Metadata
	Version   string    `yaml:"version" json:"version"`
	UpdatedAt time.Time `yaml:"updated_at" json:"updated_at"`
}

// DefaultConfig returns a new Config with default values
func DefaultConfig() *Config {
	return &Config{
		WpaCli:          "wpa_cli",
		StorageDriver:   "yaml",
		HistoryLimit:    200,
		LogFormat:       "text",
		LogLevel:        "warn",
		DefaultConfig:   "/boot/wifi.conf",
		ProcessedSuffix: ".applied",
		NotePrefix:      "wifiprov",
		Version:         "1.0.0",
		UpdatedAt:       time.Now(),
	}
}

// ApplyDefaults fills zero fields from DefaultConfig.
func (c *Config) ApplyDefaults() {
	d := DefaultConfig()
	if c.WpaCli == "" {
		c.WpaCli = d.WpaCli
	}
	if c.StorageDriver == "" {
		c.StorageDriver = d.StorageDriver
	}
	if c.HistoryLimit <= 0 {
		c.HistoryLimit = d.HistoryLimit
	}
	if c.LogFormat == "" {
		c.LogFormat = d.LogFormat
	}
	if c.LogLevel == "" {
		c.LogLevel = d.LogLevel
	}
	if c.DefaultConfig == "" {
		c.DefaultConfig = d.DefaultConfig
	}
	if c.ProcessedSuffix == "" {
		c.ProcessedSuffix = d.ProcessedSuffix
	}
	if c.NotePrefix == "" {
		c.NotePrefix = d.NotePrefix
	}
	if c.Version == "" {
		c.Version = d.Version
	}
}
