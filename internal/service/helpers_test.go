package service_test

import (
	"time"

	"user_auth/internal/config"

	"golang.org/x/crypto/bcrypt"
)

func testConfig() *config.Config {
	return &config.Config{
		JWT:   config.JWT{Secret: "service-test-secret", TTL: time.Hour},
		Auth:  config.Auth{BcryptCost: bcrypt.MinCost},
		Audit: config.Audit{Retention: time.Hour, PruneInterval: time.Minute},
	}
}
