// Package config loads runtime settings from the environment.
package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Store drivers accepted in STORE_DRIVER.
const (
	DriverSupabase = "supabase"
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
	DriverBolt     = "bolt"
)

// Config holds every setting the server and tools read at startup.
//
// SupabaseServiceKey and DatabaseURL are secrets; never log them directly,
// use Redacted instead.
type Config struct {
	HTTPAddr string
	LogLevel string

	Store StoreConfig

	// RedisURL switches the per-client ledger to a shared Redis window.
	RedisURL string

	// IngressRPS caps the whole process; 0 (the default) disables the cap.
	IngressRPS   float64
	IngressBurst int
}

// StoreConfig selects and addresses the persistence backend.
type StoreConfig struct {
	Driver string

	SupabaseURL        string
	SupabaseServiceKey string
	Table              string

	DatabaseURL string
	SQLitePath  string
	BoltPath    string
}

// Load reads .env files (if present) and the process environment.
func Load() Config {
	_ = godotenv.Load()
	_ = godotenv.Load(".env.local")

	addr := os.Getenv("HTTP_ADDR")
	if addr == "" {
		if port := os.Getenv("PORT"); port != "" {
			addr = ":" + port
		} else {
			addr = ":8080"
		}
	}

	return Config{
		HTTPAddr: addr,
		LogLevel: getenvDefault("LOG_LEVEL", "INFO"),
		Store: StoreConfig{
			Driver:             strings.ToLower(getenvDefault("STORE_DRIVER", DriverSupabase)),
			SupabaseURL:        strings.TrimRight(os.Getenv("SUPABASE_URL"), "/"),
			SupabaseServiceKey: os.Getenv("SUPABASE_SERVICE_KEY"),
			Table:              getenvDefault("SUPABASE_TABLE", "contact_submissions"),
			DatabaseURL:        os.Getenv("DATABASE_URL"),
			SQLitePath:         getenvDefault("SQLITE_PATH", "contact.db"),
			BoltPath:           getenvDefault("BOLT_PATH", "contact.bolt"),
		},
		RedisURL:     os.Getenv("REDIS_URL"),
		IngressRPS:   getenvFloat("INGRESS_RPS", 0),
		IngressBurst: getenvInt("INGRESS_BURST", 40),
	}
}

// Redacted returns log-safe key/value pairs describing c.
func (c Config) Redacted() []any {
	return []any{
		"addr", c.HTTPAddr,
		"store_driver", c.Store.Driver,
		"supabase_url_set", c.Store.SupabaseURL != "",
		"supabase_key_set", c.Store.SupabaseServiceKey != "",
		"database_url_set", c.Store.DatabaseURL != "",
		"redis", c.RedisURL != "",
		"ingress_rps", c.IngressRPS,
	}
}

func getenvDefault(k, def string) string {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	return v
}

func getenvInt(k string, def int) int {
	n, err := strconv.Atoi(os.Getenv(k))
	if err != nil {
		return def
	}
	return n
}

func getenvFloat(k string, def float64) float64 {
	f, err := strconv.ParseFloat(os.Getenv(k), 64)
	if err != nil {
		return def
	}
	return f
}
