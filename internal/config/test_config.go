package config

import "time"

func LoadTestConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host:           "localhost",
			Port:           8081,
			AllowedOrigins: []string{"*"},
			RequestTimeout: 5 * time.Second,
			RateLimit:      1000,
		},
		Database: DatabaseConfig{
			Host:     "localhost",
			Port:     5432,
			Name:     "storefront_test",
			User:     "test_user",
			Password: "test_password",
			SSLMode:  "disable",
		},
		JWT: JWTConfig{
			Secret:     "test-secret",
			AccessTTL:  time.Hour,
			RefreshTTL: 24 * time.Hour,
		},
		Auth: AuthConfig{
			BcryptCost:   4,
			ResetCodeTTL: 15 * time.Minute,
		},
		Redis: RedisConfig{
			Addr: "localhost:6379",
		},
		Crypto: CryptoConfig{
			ImagePublicKey:  "public_test",
			ImagePrivateKey: "private_test",
			ImageTokenTTL:   30 * time.Minute,
		},
		Leads: LeadsConfig{
			RateWindow: time.Hour,
			RateMax:    5,
		},
		Scheduler: SchedulerConfig{
			CleanupCron: "@hourly",
		},
	}
}
