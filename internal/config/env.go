package config

import (
	"log"
	"os"
	"strings"

	"github.com/shopspring/decimal"
)

type Env struct {
	AppAddr string
	GinMode string

	DBUser string
	DBPass string
	DBHost string
	DBName string

	JWTSecret string

	// TaxRate applies to the post-discount subtotal of every booking.
	TaxRate decimal.Decimal

	// AMQPURL enables the customer notification publisher when set.
	AMQPURL string
}

func LoadEnv() Env {
	taxRate := decimal.NewFromFloat(0.18)
	if raw := strings.TrimSpace(os.Getenv("TAX_RATE")); raw != "" {
		parsed, err := decimal.NewFromString(raw)
		if err != nil || parsed.IsNegative() || parsed.GreaterThanOrEqual(decimal.NewFromInt(1)) {
			log.Printf("ignoring invalid TAX_RATE %q, keeping default 0.18", raw)
		} else {
			taxRate = parsed
		}
	}

	return Env{
		AppAddr: getenv("APP_ADDR", ":8080"),
		GinMode: strings.TrimSpace(os.Getenv("GIN_MODE")),

		DBUser: getenv("DB_USER", "root"),
		DBPass: strings.TrimSpace(os.Getenv("DB_PASS")),
		DBHost: getenv("DB_HOST", "127.0.0.1:3306"),
		DBName: getenv("DB_NAME", "bookandgo"),

		JWTSecret: getenv("JWT_SECRET", "super-secret-key-change-me"),

		TaxRate: taxRate,
		AMQPURL: strings.TrimSpace(os.Getenv("AMQP_URL")),
	}
}

func getenv(key, def string) string {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	return v
}
