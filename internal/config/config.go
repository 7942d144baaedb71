package config

import (
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	DiscordBotToken string `mapstructure:"DISCORD_BOT_TOKEN"`
	DatabasePath    string `mapstructure:"DATABASE_PATH"`
	SweepInterval   int    `mapstructure:"SWEEP_INTERVAL_SECONDS"`
	APIPort         string `mapstructure:"API_PORT"`
	APISecret       string `mapstructure:"API_SECRET"`
	LogLevel        string `mapstructure:"LOG_LEVEL"`
	LogFormat       string `mapstructure:"LOG_FORMAT"`
}

func LoadConfig() (*Config, error) {
	viper.SetDefault("DATABASE_PATH", "guilds.db")
	viper.SetDefault("SWEEP_INTERVAL_SECONDS", 30)
	viper.SetDefault("API_PORT", "8080")
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("LOG_FORMAT", "console")

	viper.BindEnv("DISCORD_BOT_TOKEN")
	viper.BindEnv("DATABASE_PATH")
	viper.BindEnv("SWEEP_INTERVAL_SECONDS")
	viper.BindEnv("API_PORT")
	viper.BindEnv("API_SECRET")
	viper.BindEnv("LOG_LEVEL")
	viper.BindEnv("LOG_FORMAT")

	viper.AutomaticEnv()

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, err
	}

	return &config, nil
}

// SweepEvery returns the sweep cadence as a duration, defaulting to 30s for
// zero or negative configured values.
func (c *Config) SweepEvery() time.Duration {
	if c.SweepInterval <= 0 {
		return 30 * time.Second
	}
	return time.Duration(c.SweepInterval) * time.Second
}
