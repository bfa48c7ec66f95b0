// Package config provides configuration management for go-pressleaf.
package config

import "log"

var AppVersion = "-unset-" // will be set at build time

const (
	// DefaultListenPort is the web server port used when no flag is given
	DefaultListenPort = 11990

	// Form field constraints, enforced at registration and article submission
	NameMinLen     = 4
	NameMaxLen     = 25
	UsernameMinLen = 5
	UsernameMaxLen = 35
	PasswordMinLen = 6
	PasswordMaxLen = 128
	TitleMinLen    = 5
	TitleMaxLen    = 100
	ContentMinLen  = 10
)

// MainConfig holds the main configuration for go-pressleaf
type MainConfig struct {
	// Web interface settings
	Web WebConfig `json:"web"`

	// Database settings
	Database DatabaseConfig `json:"database"`

	AppVersion string `json:"app_version"` // Application version, set at build time
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	DataDir string `json:"data_dir"` // Directory holding the SQLite database file
}

// WebConfig holds web interface configuration
type WebConfig struct {
	ListenPort  int    `json:"listen_port"`
	SSL         bool   `json:"ssl"`
	CertFile    string `json:"cert_file,omitempty"`
	KeyFile     string `json:"key_file,omitempty"`
	StaticDir   string `json:"static_dir"`
	TemplateDir string `json:"template_dir"`
	Debug       bool   `json:"debug"` // Enable debug logging for sessions/auth
}

// NewDefaultConfig returns a configuration with sensible defaults
func NewDefaultConfig() *MainConfig {
	maincfg := &MainConfig{
		AppVersion: AppVersion, // Set application version
		Web: WebConfig{
			ListenPort:  DefaultListenPort,
			SSL:         false,
			StaticDir:   "web/static",
			TemplateDir: "web/templates",
		},
		Database: DatabaseConfig{
			DataDir: "data",
		},
	}
	log.Printf("MainConfig initialized: web port %d, data dir %s", maincfg.Web.ListenPort, maincfg.Database.DataDir)
	return maincfg
}
