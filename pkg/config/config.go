package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Redis     RedisConfig     `mapstructure:"redis"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Quota     QuotaConfig     `mapstructure:"quota"`
	Providers ProvidersConfig `mapstructure:"providers"`
	Auth      AuthConfig      `mapstructure:"auth"`
	Content   ContentConfig   `mapstructure:"content"`
}

type ServerConfig struct {
	Host        string `mapstructure:"host"`
	Port        int    `mapstructure:"port"`
	MetricsPort int    `mapstructure:"metrics_port"`
}

type RedisConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

type DatabaseConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	DBName   string `mapstructure:"name"`
	SSLMode  string `mapstructure:"sslmode"`
}

func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.DBName, d.SSLMode)
}

// QuotaConfig selects the counter backend and optionally overrides the
// shipped per-action limits.
type QuotaConfig struct {
	Backend       string                 `mapstructure:"backend"` // redis, postgres or memory
	SweepInterval string                 `mapstructure:"sweep_interval"`
	Limits        map[string]LimitConfig `mapstructure:"limits"`
}

type LimitConfig struct {
	Limit  int    `mapstructure:"limit"`
	Window string `mapstructure:"window"`
}

type ProvidersConfig struct {
	Classifier ClassifierConfig `mapstructure:"classifier"`
	Moderation ModerationConfig `mapstructure:"moderation"`
}

type ClassifierConfig struct {
	APIKey  string `mapstructure:"api_key"`
	Model   string `mapstructure:"model"`
	Timeout string `mapstructure:"timeout"`
}

type ModerationConfig struct {
	APIKey  string `mapstructure:"api_key"`
	URL     string `mapstructure:"url"`
	Timeout string `mapstructure:"timeout"`
}

type AuthConfig struct {
	JWTSecret string `mapstructure:"jwt_secret"`
}

type ContentConfig struct {
	MaxLength int `mapstructure:"max_length"`
}

var globalConfig Config

func Load(configPath string) error {
	if err := loadConfigFile(configPath, "config", &globalConfig); err != nil {
		return err
	}
	setDefaultValues()
	return nil
}

func loadConfigFile(configPath, fileName string, out interface{}) error {
	viper.SetConfigName(fileName)
	viper.SetConfigType("yaml")
	viper.AddConfigPath(configPath)
	viper.AddConfigPath("./config")
	viper.AddConfigPath(".")

	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		var configFileNotFoundError viper.ConfigFileNotFoundError
		if !errors.As(err, &configFileNotFoundError) {
			return fmt.Errorf("error reading config file %s.yaml: %w", fileName, err)
		}
	}

	if err := viper.Unmarshal(out); err != nil {
		return fmt.Errorf("failed to unmarshal %s config: %w", fileName, err)
	}

	return nil
}

func setDefaultValues() {
	if globalConfig.Server.Port == 0 {
		globalConfig.Server.Port = 8080
	}
	if globalConfig.Server.MetricsPort == 0 {
		globalConfig.Server.MetricsPort = 9090
	}
	if globalConfig.Quota.Backend == "" {
		globalConfig.Quota.Backend = "redis"
	}
	if globalConfig.Database.SSLMode == "" {
		globalConfig.Database.SSLMode = "disable"
	}
	if globalConfig.Content.MaxLength == 0 {
		globalConfig.Content.MaxLength = 10000
	}
}

func GetConfig() *Config {
	return &globalConfig
}

// ParseDuration reads a duration setting, falling back when empty or bad.
func ParseDuration(value string, fallback time.Duration) time.Duration {
	if value == "" {
		return fallback
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return fallback
	}
	return d
}
