package config

import (
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Env             string        `mapstructure:"ENV"`
	Port            string        `mapstructure:"PORT"`
	DatabaseURL     string        `mapstructure:"DATABASE_URL"`
	RedisAddr       string        `mapstructure:"REDIS_ADDR"`
	AdminKey        string        `mapstructure:"ADMIN_KEY"`
	GeocoderURL     string        `mapstructure:"GEOCODER_URL"`
	CORSAllowed     string        `mapstructure:"CORS_ALLOWED_ORIGINS"`
	RequestTimeout  time.Duration `mapstructure:"REQUEST_TIMEOUT"`
	LogLevel        string        `mapstructure:"LOG_LEVEL"`
	MaxUploadSizeMB int64         `mapstructure:"MAX_UPLOAD_MB"`
	CountryDefault  string        `mapstructure:"COUNTRY_DEFAULT"`
	AverageSpeedKmh float64       `mapstructure:"AVERAGE_SPEED_KMH"`
	OfficeLat       float64       `mapstructure:"OFFICE_LAT"`
	OfficeLon       float64       `mapstructure:"OFFICE_LON"`
	LiveLocationTTL time.Duration `mapstructure:"LIVE_LOCATION_TTL"`
}

func Load() (Config, error) {
	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	v.AutomaticEnv()
	_ = v.ReadInConfig()

	v.SetDefault("ENV", "dev")
	v.SetDefault("PORT", "8080")
	v.SetDefault("REQUEST_TIMEOUT", "30s")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("CORS_ALLOWED_ORIGINS", "*")
	v.SetDefault("MAX_UPLOAD_MB", 20)
	v.SetDefault("COUNTRY_DEFAULT", "Brasil")
	v.SetDefault("AVERAGE_SPEED_KMH", 30.0)
	// Office default: Recife center, where collection rounds depart.
	v.SetDefault("OFFICE_LAT", -8.0476)
	v.SetDefault("OFFICE_LON", -34.8770)
	v.SetDefault("LIVE_LOCATION_TTL", "30m")

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
