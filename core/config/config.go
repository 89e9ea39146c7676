package config

import (
	"fmt"
	"strings"
	"sync"

	"campus-events/core/constants"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type ServerConfig struct {
	Host      string `mapstructure:"host"`
	Port      int    `mapstructure:"port"`
	LogLevel  string `mapstructure:"log_level"`
	LogPretty bool   `mapstructure:"log_pretty"`
}

type DatabaseConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	DBName   string `mapstructure:"dbname"`
	SSLMode  string `mapstructure:"sslmode"`
}

type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

type JWTConfig struct {
	Secret              string `mapstructure:"secret"`
	AccessTokenMinutes  int    `mapstructure:"access_token_minutes"`
	RefreshTokenMinutes int    `mapstructure:"refresh_token_minutes"`
}

type GoogleAPIConfig struct {
	ClientID     string `mapstructure:"client_id"`
	ClientSecret string `mapstructure:"client_secret"`
	RedirectURI  string `mapstructure:"redirect_uri"`
}

type AWSConfig struct {
	Region          string `mapstructure:"region"`
	AccessKeyID     string `mapstructure:"access_key_id"`
	SecretAccessKey string `mapstructure:"secret_access_key"`
	Bucket          string `mapstructure:"bucket"`
	PresignMinutes  int    `mapstructure:"presign_minutes"`
}

type EmailConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
	From     string `mapstructure:"from"`
}

// SchedulerConfig holds the campus working hours that bound slot suggestions,
// in minutes since local midnight.
type SchedulerConfig struct {
	WorkingHoursStart int `mapstructure:"working_hours_start"`
	WorkingHoursEnd   int `mapstructure:"working_hours_end"`
}

type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Redis     RedisConfig     `mapstructure:"redis"`
	JWT       JWTConfig       `mapstructure:"jwt"`
	GoogleAPI GoogleAPIConfig `mapstructure:"google_api"`
	AWS       AWSConfig       `mapstructure:"aws"`
	Email     EmailConfig     `mapstructure:"email"`
	Scheduler SchedulerConfig `mapstructure:"scheduler"`
}

var (
	instance *Config
	mu       sync.RWMutex
)

// Load reads config.yaml (optional) and environment variables, env taking
// precedence. A .env file is honored for local development.
func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")

	v.SetEnvPrefix("APP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("read config file: %w", err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	mu.Lock()
	instance = cfg
	mu.Unlock()

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 7070)
	v.SetDefault("server.log_level", "info")
	v.SetDefault("server.log_pretty", false)

	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "postgres")
	v.SetDefault("database.dbname", "campus_events")
	v.SetDefault("database.sslmode", constants.DatabaseSSLMode)

	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.db", 0)

	v.SetDefault("jwt.access_token_minutes", 60)
	v.SetDefault("jwt.refresh_token_minutes", 60*24*7)

	v.SetDefault("aws.region", "ap-south-1")
	v.SetDefault("aws.presign_minutes", 15)

	v.SetDefault("email.port", 587)

	v.SetDefault("scheduler.working_hours_start", constants.SchedulerWorkingHoursStart)
	v.SetDefault("scheduler.working_hours_end", constants.SchedulerWorkingHoursEnd)
}

// Get returns the loaded config; it panics if Load was never called.
func Get() *Config {
	mu.RLock()
	defer mu.RUnlock()
	if instance == nil {
		panic("config: Get called before Load")
	}
	return instance
}

// GetSafe returns the loaded config and whether initialization happened.
func GetSafe() (*Config, bool) {
	mu.RLock()
	defer mu.RUnlock()
	return instance, instance != nil
}
