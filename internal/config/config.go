package config

import (
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"golang.org/x/crypto/bcrypt"
)

// Config holds every runtime setting of the application.
type Config struct {
	AppEnv            string
	AppPort           string
	SiteTitle         string
	DatabaseDriver    string // "sqlite" or "postgres"
	DatabaseDSN       string
	JWTSecret         string
	SessionDuration   time.Duration
	UsersPerPage      int
	MicropostsPerPage int
	BcryptCost        int
	RabbitMQURL       string // empty disables event publishing
	RabbitMQQueue     string
	RedisAddr         string // empty keeps revoked sessions in the database
	RedisPassword     string
	RedisDB           int
	LogLevel          string
}

// setDefaults registers the fallback value of every key on v.
func setDefaults(v *viper.Viper) {
	v.SetDefault("APP_ENV", "development")
	v.SetDefault("APP_PORT", ":8080")
	v.SetDefault("SITE_TITLE", "Rspecing")
	v.SetDefault("DATABASE_DRIVER", "sqlite")
	v.SetDefault("DATABASE_DSN", "microblog.db")
	v.SetDefault("JWT_SECRET", "change_me_in_production")
	v.SetDefault("SESSION_DURATION", "175200h") // twenty years, a "permanent" cookie
	v.SetDefault("USERS_PER_PAGE", 30)
	v.SetDefault("MICROPOSTS_PER_PAGE", 30)
	v.SetDefault("BCRYPT_COST", bcrypt.DefaultCost)
	v.SetDefault("RABBITMQ_URL", "")
	v.SetDefault("RABBITMQ_QUEUE", "microblog_events")
	v.SetDefault("REDIS_ADDR", "")
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("LOG_LEVEL", "info")
}

// Load reads an optional .env file, then environment variables, on top of
// the defaults.
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found; using environment variables")
	}

	v := viper.New()
	setDefaults(v)
	v.AutomaticEnv()
	return fromViper(v)
}

// Default returns the configuration built from defaults only. Tests start
// from it and override what they need.
func Default() *Config {
	v := viper.New()
	setDefaults(v)
	return fromViper(v)
}

func fromViper(v *viper.Viper) *Config {
	return &Config{
		AppEnv:            v.GetString("APP_ENV"),
		AppPort:           v.GetString("APP_PORT"),
		SiteTitle:         v.GetString("SITE_TITLE"),
		DatabaseDriver:    v.GetString("DATABASE_DRIVER"),
		DatabaseDSN:       v.GetString("DATABASE_DSN"),
		JWTSecret:         v.GetString("JWT_SECRET"),
		SessionDuration:   v.GetDuration("SESSION_DURATION"),
		UsersPerPage:      positive(v.GetInt("USERS_PER_PAGE"), 30),
		MicropostsPerPage: positive(v.GetInt("MICROPOSTS_PER_PAGE"), 30),
		BcryptCost:        bcryptCost(v.GetInt("BCRYPT_COST")),
		RabbitMQURL:       v.GetString("RABBITMQ_URL"),
		RabbitMQQueue:     v.GetString("RABBITMQ_QUEUE"),
		RedisAddr:         v.GetString("REDIS_ADDR"),
		RedisPassword:     v.GetString("REDIS_PASSWORD"),
		RedisDB:           v.GetInt("REDIS_DB"),
		LogLevel:          v.GetString("LOG_LEVEL"),
	}
}

func positive(n, fallback int) int {
	if n <= 0 {
		return fallback
	}
	return n
}

func bcryptCost(cost int) int {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		return bcrypt.DefaultCost
	}
	return cost
}

// IsProduction reports whether the app runs with production settings.
func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}
