// Package config gathers every environment setting of the shop service.
package config

import (
	"os"
	"strings"

	"github.com/pkg/errors"

	"github.com/ovaphlow/pitchfork/service-shop-go/internal/session"
	"github.com/ovaphlow/pitchfork/service-shop-go/internal/user"
	"github.com/ovaphlow/pitchfork/service-shop-go/pkg/database"
	"github.com/ovaphlow/pitchfork/service-shop-go/pkg/money"
	"github.com/ovaphlow/pitchfork/service-shop-go/pkg/utilities"
)

const DefaultAddr = "0.0.0.0:8080"

type Config struct {
	Addr            string
	AdminUsername   string
	AdminPassword   string
	StartingBalance money.Cents
	SnowflakeNode   int64
	Session         session.Config
	Database        database.Config
	Log             utilities.Config
}

// FromEnv reads the configuration. Only a malformed STARTING_BALANCE is an
// error; everything else falls back to defaults.
func FromEnv() (Config, error) {
	cfg := Config{
		Addr:            envOr("HTTP_ADDR", DefaultAddr),
		AdminUsername:   envOr("ADMIN_USERNAME", "admin"),
		AdminPassword:   os.Getenv("ADMIN_PASSWORD"),
		StartingBalance: user.DefaultStartingBalance,
		SnowflakeNode:   utilities.NodeIDFromEnv(),
		Session:         session.ConfigFromEnv(),
		Database:        database.ConfigFromEnv(),
		Log:             utilities.ConfigFromEnv(),
	}
	if v := strings.TrimSpace(os.Getenv("STARTING_BALANCE")); v != "" {
		b, err := money.ParseCents(v)
		if err != nil || b < 0 {
			return cfg, errors.Errorf("STARTING_BALANCE: invalid amount %q", v)
		}
		cfg.StartingBalance = b
	}
	return cfg, nil
}

func envOr(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}
