package config

import "github.com/kelseyhightower/envconfig"

// Config holds runtime settings loaded from environment variables. A
// missing BOT_TOKEN is fatal at startup; everything else has a default.
type Config struct {
	BotToken    string `envconfig:"BOT_TOKEN" required:"true"`
	DatabaseURL string `envconfig:"DATABASE_URL" default:"countdown.db"`
	HTTPAddr    string `envconfig:"HTTP_ADDR" default:":8080"`
	LogLevel    string `envconfig:"LOG_LEVEL" default:"info"` // debug|info|warn|error
}

// Load reads environment variables into Config.
func Load() (Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}
