package config

import (
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
)

// Config holds application configuration.
type Config struct {
	DatabaseURL   string
	Port          string
	IsProduction  bool
	EnableDBCheck bool

	JWTSecret         string
	JWTExpiryDuration time.Duration
	JWTIssuer         string

	// Requests per minute allowed per client IP.
	RateLimitPerMinute int64

	// Payroll validation bounds.
	MinNetPay       decimal.Decimal
	GrossPayCeiling decimal.Decimal

	// Upper bound for any contribution base amount.
	ContributionBaseCeiling decimal.Decimal
}

// LoadConfig loads configuration from environment variables and .env file if present.
func LoadConfig() (*Config, error) {
	// Attempt to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()

	viper.SetDefault("PGSQL_URL", "")
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("IS_PRODUCTION", false)
	viper.SetDefault("ENABLE_DB_CHECK", false)
	viper.SetDefault("JWT_SECRET", "a-very-secret-key-should-be-longer-and-random")
	viper.SetDefault("JWT_EXPIRY_DURATION", "1h")
	viper.SetDefault("JWT_ISSUER", "payroll-backend")
	viper.SetDefault("RATE_LIMIT_PER_MINUTE", 120)
	viper.SetDefault("MIN_NET_PAY", "0")
	viper.SetDefault("GROSS_PAY_CEILING", "1000000")
	viper.SetDefault("CONTRIBUTION_BASE_CEILING", "500000")

	viper.AutomaticEnv()

	cfg := &Config{}

	cfg.DatabaseURL = viper.GetString("PGSQL_URL")
	if cfg.DatabaseURL == "" {
		log.Println("Warning: PGSQL_URL environment variable not set.")
	}

	cfg.Port = viper.GetString("PORT")
	cfg.IsProduction = viper.GetBool("IS_PRODUCTION")
	cfg.EnableDBCheck = viper.GetBool("ENABLE_DB_CHECK")

	cfg.JWTSecret = viper.GetString("JWT_SECRET")
	if cfg.JWTSecret == "a-very-secret-key-should-be-longer-and-random" {
		log.Println("Warning: JWT_SECRET environment variable not set. Using default insecure key.")
	}

	jwtExpiryStr := viper.GetString("JWT_EXPIRY_DURATION")
	jwtExpiryDuration, err := time.ParseDuration(jwtExpiryStr)
	if err != nil {
		jwtExpiryDuration = time.Hour
		log.Printf("Warning: Invalid value for JWT_EXPIRY_DURATION ('%s'). Defaulting to %s.\n", jwtExpiryStr, jwtExpiryDuration.String())
	}
	cfg.JWTExpiryDuration = jwtExpiryDuration
	cfg.JWTIssuer = viper.GetString("JWT_ISSUER")

	cfg.RateLimitPerMinute = viper.GetInt64("RATE_LIMIT_PER_MINUTE")
	if cfg.RateLimitPerMinute <= 0 {
		cfg.RateLimitPerMinute = 120
	}

	cfg.MinNetPay, err = decimal.NewFromString(viper.GetString("MIN_NET_PAY"))
	if err != nil {
		log.Printf("Warning: Invalid value for MIN_NET_PAY ('%s'). Defaulting to 0.\n", viper.GetString("MIN_NET_PAY"))
		cfg.MinNetPay = decimal.Zero
	}

	cfg.GrossPayCeiling, err = decimal.NewFromString(viper.GetString("GROSS_PAY_CEILING"))
	if err != nil {
		log.Printf("Warning: Invalid value for GROSS_PAY_CEILING ('%s'). Defaulting to 1000000.\n", viper.GetString("GROSS_PAY_CEILING"))
		cfg.GrossPayCeiling = decimal.NewFromInt(1000000)
	}

	cfg.ContributionBaseCeiling, err = decimal.NewFromString(viper.GetString("CONTRIBUTION_BASE_CEILING"))
	if err != nil {
		log.Printf("Warning: Invalid value for CONTRIBUTION_BASE_CEILING ('%s'). Defaulting to 500000.\n", viper.GetString("CONTRIBUTION_BASE_CEILING"))
		cfg.ContributionBaseCeiling = decimal.NewFromInt(500000)
	}

	return cfg, nil
}
