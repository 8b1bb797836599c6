package config

import (
	"errors"
	"os"

	"github.com/spf13/viper"
)

type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	Auth     AuthConfig     `mapstructure:"auth"`
	Feed     FeedConfig     `mapstructure:"feed"`
}

type ServerConfig struct {
	Port string `mapstructure:"port"`
	Mode string `mapstructure:"mode"` // debug or release
}

type DatabaseConfig struct {
	Host     string `mapstructure:"host"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	DBName   string `mapstructure:"dbname"`
	Port     string `mapstructure:"port"`
	SSLMode  string `mapstructure:"sslmode"`
}

type AuthConfig struct {
	// Secret verifies Bearer tokens when a caller presents one. Requests
	// without a usable token act as the demo user.
	Secret string `mapstructure:"secret"`
}

type FeedConfig struct {
	DemoUsername     string `mapstructure:"demo_username"`
	PostKarma        int    `mapstructure:"post_karma"`
	CommentKarma     int    `mapstructure:"comment_karma"`
	LeaderboardHours int    `mapstructure:"leaderboard_hours"`
	LeaderboardSize  int    `mapstructure:"leaderboard_size"`
	FeedLimit        int    `mapstructure:"feed_limit"`
}

// Load reads config.yaml (if present) and the environment, applying defaults
// for everything the deployment does not override.
func Load() (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath("./configs")
	viper.AddConfigPath(".")

	viper.SetDefault("server.port", "8080")
	viper.SetDefault("server.mode", "debug")
	viper.SetDefault("database.host", "localhost")
	viper.SetDefault("database.user", "postgres")
	viper.SetDefault("database.dbname", "community_feed")
	viper.SetDefault("database.port", "5432")
	viper.SetDefault("database.sslmode", "disable")
	viper.SetDefault("feed.demo_username", "demo_user")
	viper.SetDefault("feed.post_karma", 5)
	viper.SetDefault("feed.comment_karma", 1)
	viper.SetDefault("feed.leaderboard_hours", 24)
	viper.SetDefault("feed.leaderboard_size", 5)
	viper.SetDefault("feed.feed_limit", 20)

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, err
		}
	}

	viper.AutomaticEnv()

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	// DB_* variables keep working for deployments that set them directly.
	applyEnvOverrides(&cfg)

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("PORT"); v != "" {
		cfg.Server.Port = v
	}
	if v := os.Getenv("DB_HOST"); v != "" {
		cfg.Database.Host = v
	}
	if v := os.Getenv("DB_PORT"); v != "" {
		cfg.Database.Port = v
	}
	if v := os.Getenv("DB_USER"); v != "" {
		cfg.Database.User = v
	}
	if v := os.Getenv("DB_PASSWORD"); v != "" {
		cfg.Database.Password = v
	}
	if v := os.Getenv("DB_NAME"); v != "" {
		cfg.Database.DBName = v
	}
	if v := os.Getenv("DB_SSLMODE"); v != "" {
		cfg.Database.SSLMode = v
	}
	if v := os.Getenv("JWT_SECRET"); v != "" {
		cfg.Auth.Secret = v
	}
}

func (c *Config) validate() error {
	if c.Database.Host == "" || c.Database.User == "" || c.Database.DBName == "" {
		return errors.New("database configuration is incomplete")
	}
	if c.Feed.PostKarma <= 0 || c.Feed.CommentKarma <= 0 {
		return errors.New("karma weights must be positive")
	}
	if c.Feed.LeaderboardHours <= 0 || c.Feed.LeaderboardSize <= 0 {
		return errors.New("leaderboard window and size must be positive")
	}
	return nil
}
