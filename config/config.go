package config

import (
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

type Config struct {
	Server    Server
	Database  Database
	JWTSecret string
	Archive   Archive
}

type Server struct {
	Port string
}

type Database struct {
	Host     string
	Port     string
	User     string
	Password string
	Name     string
}

type Archive struct {
	GracePeriodDays   int
	StaleAttemptHours int
	RunAt             string // "HH:MM", UTC
}

func NewConfig() (*Config, error) {
	viper.SetConfigName(".env")
	viper.SetConfigType("env")
	viper.AddConfigPath(".")

	viper.AutomaticEnv()

	viper.SetDefault("SERVER_PORT", "8080")
	viper.SetDefault("GRACE_PERIOD_DAYS", 30)
	viper.SetDefault("STALE_ATTEMPT_HOURS", 24)
	viper.SetDefault("ARCHIVE_RUN_AT", "00:00")

	if err := viper.ReadInConfig(); err != nil {
		log.Warn().Err(err).Msg("Error reading config file")
	}

	var config Config

	config.Server.Port = viper.GetString("SERVER_PORT")
	config.Database.Host = viper.GetString("DATABASE_HOST")
	config.Database.Port = viper.GetString("DATABASE_PORT")
	config.Database.User = viper.GetString("DATABASE_USER")
	config.Database.Password = viper.GetString("DATABASE_PASSWORD")
	config.Database.Name = viper.GetString("DATABASE_NAME")

	config.JWTSecret = viper.GetString("JWT_SECRET")

	config.Archive.GracePeriodDays = viper.GetInt("GRACE_PERIOD_DAYS")
	config.Archive.StaleAttemptHours = viper.GetInt("STALE_ATTEMPT_HOURS")
	config.Archive.RunAt = viper.GetString("ARCHIVE_RUN_AT")

	log.Info().Str("port", config.Server.Port).Str("archiveRunAt", config.Archive.RunAt).Msg("Config loaded")
	return &config, nil
}
