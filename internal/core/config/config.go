// Package config provides configuration management for FormLogic hosts.
package config

import (
	"fmt"
	"time"
)

// ServiceConfig holds configuration shared by the gRPC service and the CLI.
type ServiceConfig struct {
	Host           string
	Port           int
	RequestTimeout time.Duration
	MaxFields      int
	MaxRuleNodes   int
	LogLevel       string
	LogFormat      string
	DatabaseURL    string
}

// DefaultServiceConfig returns configuration with default values.
func DefaultServiceConfig() *ServiceConfig {
	return &ServiceConfig{
		Host:           "0.0.0.0",
		Port:           50061,
		RequestTimeout: 5 * time.Second,
		MaxFields:      500,
		MaxRuleNodes:   5000,
		LogLevel:       "info",
		LogFormat:      "json",
	}
}

// Address returns the host:port listen address.
func (c *ServiceConfig) Address() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// validLogLevels are the zap levels accepted in configuration.
var validLogLevels = map[string]bool{
	"debug": true,
	"info":  true,
	"warn":  true,
	"error": true,
}

// validLogFormats selects the zap encoder.
var validLogFormats = map[string]bool{
	"json": true,
	"text": true,
}

// validateConfig checks port range, positive limits and timeout, and log settings.
func validateConfig(cfg *ServiceConfig) error {
	if cfg.Port <= 0 || cfg.Port > 65535 {
		return fmt.Errorf("port must be between 1 and 65535, got %d", cfg.Port)
	}
	if cfg.RequestTimeout <= 0 {
		return fmt.Errorf("request_timeout must be positive, got %v", cfg.RequestTimeout)
	}
	if cfg.MaxFields <= 0 {
		return fmt.Errorf("max_fields must be positive, got %d", cfg.MaxFields)
	}
	if cfg.MaxRuleNodes <= 0 {
		return fmt.Errorf("max_rule_nodes must be positive, got %d", cfg.MaxRuleNodes)
	}
	if !validLogLevels[cfg.LogLevel] {
		return fmt.Errorf("log level must be one of debug, info, warn, error; got %q", cfg.LogLevel)
	}
	if !validLogFormats[cfg.LogFormat] {
		return fmt.Errorf("log format must be json or text, got %q", cfg.LogFormat)
	}
	return nil
}
