package config

import (
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Env               string        `mapstructure:"ENV"`
	Port              string        `mapstructure:"PORT"`
	DatabaseURL       string        `mapstructure:"DATABASE_URL"`
	CORSAllowed       string        `mapstructure:"CORS_ALLOWED_ORIGINS"`
	RequestTimeout    time.Duration `mapstructure:"REQUEST_TIMEOUT"`
	LogLevel          string        `mapstructure:"LOG_LEVEL"`
	JWTSecret         string        `mapstructure:"JWT_SECRET"`
	TokenTTL          time.Duration `mapstructure:"TOKEN_TTL"`
	AdminEmail        string        `mapstructure:"ADMIN_EMAIL"`
	AdminPasswordHash string        `mapstructure:"ADMIN_PASSWORD_HASH"`
	AlertRecipients   string        `mapstructure:"ALERT_RECIPIENTS"`
	OfficePhone       string        `mapstructure:"OFFICE_PHONE"`
	Timezone          string        `mapstructure:"TIMEZONE"`
	AssistantBaseURL  string        `mapstructure:"ASSISTANT_BASE_URL"`
	AssistantModel    string        `mapstructure:"ASSISTANT_MODEL"`
	AssistantAPIKey   string        `mapstructure:"ASSISTANT_API_KEY"`
	GeocoderBaseURL   string        `mapstructure:"GEOCODER_BASE_URL"`
	GeocodeDelay      time.Duration `mapstructure:"GEOCODE_DELAY"`
	GeocodeCron       string        `mapstructure:"GEOCODE_CRON"`
	EmailAPIURL       string        `mapstructure:"EMAIL_API_URL"`
	EmailAPIKey       string        `mapstructure:"EMAIL_API_KEY"`
	EmailFrom         string        `mapstructure:"EMAIL_FROM"`
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
	v.SetDefault("TOKEN_TTL", "12h")
	v.SetDefault("OFFICE_PHONE", "(555) 123-4567")
	v.SetDefault("TIMEZONE", "America/Denver")
	v.SetDefault("GEOCODE_DELAY", "250ms")
	v.SetDefault("GEOCODE_CRON", "0 3 * * *")
	v.SetDefault("EMAIL_FROM", "office@peakcomfort.example")

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
