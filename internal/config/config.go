package config

import "strings"

// Config holds all configuration options for the GA4 MCP server
type Config struct {
	// Service account credentials
	ClientEmail    string `mapstructure:"client_email"`
	PrivateKey     string `mapstructure:"private_key"` // PEM, possibly with escaped newlines
	PrivateKeyFile string `mapstructure:"private_key_file"`

	// Default GA4 property
	PropertyID string `mapstructure:"property_id"`

	// Transport selection
	Transport string `mapstructure:"transport"` // "stdio" or "http"
	HTTPAddr  string `mapstructure:"http_addr"`

	// Output and debugging
	Verbose bool `mapstructure:"verbose"`
	Debug   bool `mapstructure:"debug"`
	Trace   bool `mapstructure:"trace"`
}

// HasCredentials returns true if service account credentials are configured
func (c *Config) HasCredentials() bool {
	return c.ClientEmail != "" && (c.PrivateKey != "" || c.PrivateKeyFile != "")
}

// NormalizedPrivateKey returns the PEM key with escaped newlines expanded.
// Keys pasted into .env files commonly arrive with literal "\n" sequences.
func (c *Config) NormalizedPrivateKey() string {
	return strings.ReplaceAll(c.PrivateKey, `\n`, "\n")
}

// UseHTTP returns true if the HTTP/SSE transport is selected
func (c *Config) UseHTTP() bool {
	return strings.EqualFold(c.Transport, "http")
}
