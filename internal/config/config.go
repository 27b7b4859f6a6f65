package config // package config loads application configuration from environment variables

import (
    "log"
    "os"
    "strconv"
    "time"
)

// Config holds all runtime configuration values.  Each field corresponds
// to an environment variable.  Secrets and timeouts are injected into
// components at construction time; nothing reads process-wide state ad
// hoc after startup.
type Config struct {
    Env    string // application environment (e.g. "dev", "prod")
    Port   string // HTTP port to listen on
    DBUser string // database username
    DBPass string // database password (optional)
    DBHost string // database host address
    DBPort string // database port number
    DBName string // database name

    JWTSecret     string // secret used to verify access tokens
    WebhookSecret string // HMAC secret shared with the payment gateway
    SweepSecret   string // shared secret authenticating the sweep trigger

    GatewayURL     string        // payment gateway base URL
    GatewayKey     string        // payment gateway API key
    GatewayTimeout time.Duration // bound on every outbound gateway call

    HoldTTL         time.Duration // how long a pending hold reserves a room
    Currency        string        // ISO currency code used for charges
    TaxRateBps      int64         // tax as basis points of the discounted subtotal
    ServiceFeeCents int64         // flat per-booking service fee in cents
    DiscountTiers   string        // length-of-stay tiers, "nights:bps,..." format
}

// Load reads configuration from environment variables.  Required
// variables are enforced by must() and missing values cause the program
// to exit with a fatal log message; tuning values fall back to defaults.
func Load() Config {
    return Config{
        Env:    must("APP_ENV"),
        Port:   must("APP_PORT"),
        DBUser: must("DB_USER"),
        DBPass: os.Getenv("DB_PASS"), // empty allowed
        DBHost: must("DB_HOST"),
        DBPort: must("DB_PORT"),
        DBName: must("DB_NAME"),

        JWTSecret:     must("JWT_SECRET"),
        WebhookSecret: must("PAYMENT_WEBHOOK_SECRET"),
        SweepSecret:   must("SWEEP_SECRET"),

        GatewayURL:     must("PAYMENT_GATEWAY_URL"),
        GatewayKey:     must("PAYMENT_GATEWAY_KEY"),
        GatewayTimeout: envDur("PAYMENT_GATEWAY_TIMEOUT", 10*time.Second),

        HoldTTL:         envDur("HOLD_TTL", 15*time.Minute),
        Currency:        envStr("CURRENCY", "USD"),
        TaxRateBps:      int64(envInt("TAX_RATE_BPS", 1000)),
        ServiceFeeCents: int64(envInt("SERVICE_FEE_CENTS", 500)),
        DiscountTiers:   envStr("DISCOUNT_TIERS", "7:1500,3:500"),
    }
}

// must retrieves the value of a required environment variable.  If the
// variable is unset or empty, the application logs a fatal error and exits.
func must(key string) string {
    v, ok := os.LookupEnv(key)
    if !ok || v == "" {
        log.Fatalf("missing required env var: %s", key)
    }
    return v
}

func envStr(k, d string) string {
    if v := os.Getenv(k); v != "" {
        return v
    }
    return d
}

func envInt(k string, d int) int {
    v := os.Getenv(k)
    if v == "" {
        return d
    }
    if n, err := strconv.Atoi(v); err == nil {
        return n
    }
    return d
}

func envDur(k string, d time.Duration) time.Duration {
    v := os.Getenv(k)
    if v == "" {
        return d
    }
    if dur, err := time.ParseDuration(v); err == nil {
        return dur
    }
    return d
}
