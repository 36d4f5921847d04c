package config

import (
	"log"
	"time"

	"github.com/caarlos0/env/v11"
)

type Config struct {
	Port    string `env:"PORT" envDefault:"8081"`
	DBDSN   string `env:"DB_DSN" envDefault:"shopdemo.db"` // sqlite file in project root
	LogFile string `env:"LOG_FILE" envDefault:"./shopdemo.log"`
	// Storage selects where per-session key/value data lives: sqlite | memory.
	Storage       string        `env:"STORAGE" envDefault:"sqlite"`
	LoginDelay    time.Duration `env:"LOGIN_DELAY" envDefault:"1s"`
	CheckoutDelay time.Duration `env:"CHECKOUT_DELAY" envDefault:"2s"`
	// SessionIdle is how long an unused session lives before it is reaped.
	SessionIdle time.Duration `env:"SESSION_IDLE" envDefault:"30m"`
}

func Load() Config {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		log.Printf("[config] %v; falling back to defaults", err)
		cfg = Defaults()
	}
	if cfg.Storage != "memory" {
		cfg.Storage = "sqlite"
	}
	if cfg.SessionIdle <= 0 {
		cfg.SessionIdle = Defaults().SessionIdle
	}
	log.Printf("[config] PORT=%s DB_DSN=%s STORAGE=%s LOG_FILE=%s LOGIN_DELAY=%s CHECKOUT_DELAY=%s SESSION_IDLE=%s",
		cfg.Port, cfg.DBDSN, cfg.Storage, cfg.LogFile, cfg.LoginDelay, cfg.CheckoutDelay, cfg.SessionIdle)
	return cfg
}

// Defaults returns the configuration used when no env vars are set.
func Defaults() Config {
	return Config{
		Port:          "8081",
		DBDSN:         "shopdemo.db",
		LogFile:       "./shopdemo.log",
		Storage:       "sqlite",
		LoginDelay:    time.Second,
		CheckoutDelay: 2 * time.Second,
		SessionIdle:   30 * time.Minute,
	}
}
