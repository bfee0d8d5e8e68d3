package app

import (
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds the application configuration loaded from environment
// variables, .env files, and defaults. The data layer itself takes no
// configuration from the environment; everything funnels through here.
type Config struct {
	DatabasePath   string
	ImageDirectory string
	BaseURL        string
	Timeout        time.Duration

	LogLevel  string
	LogFormat string
}

// LoadConfig loads configuration in order of precedence:
// 1. Command-line flags (handled by cobra)
// 2. Environment variables (AMIIBODEX_*)
// 3. .env files
// 4. Defaults
func LoadConfig() (*Config, error) {
	loadEnvFiles()

	viper.SetEnvPrefix("amiibodex")
	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))

	viper.SetDefault("database", "amiibodex.db")
	viper.SetDefault("images", "images")
	viper.SetDefault("base-url", "")
	viper.SetDefault("timeout", 10*time.Second)
	viper.SetDefault("log-level", "info")
	viper.SetDefault("log-format", "auto")

	return &Config{
		DatabasePath:   viper.GetString("database"),
		ImageDirectory: viper.GetString("images"),
		BaseURL:        viper.GetString("base-url"),
		Timeout:        viper.GetDuration("timeout"),
		LogLevel:       viper.GetString("log-level"),
		LogFormat:      viper.GetString("log-format"),
	}, nil
}

// loadEnvFiles loads .env files from the working directory when present.
func loadEnvFiles() {
	for _, file := range []string{".env.local", ".env"} {
		if _, err := os.Stat(file); err == nil {
			_ = godotenv.Load(file)
		}
	}
}
