package config // package config loads application configuration from environment variables

import (
	"log"     // log is used to report configuration errors and halt execution
	"os"      // os provides access to environment variables
	"strconv" // strconv converts strings to other types
	"time"    // time provides duration types for lockout windows
)

// Config holds all runtime configuration values.  Each field corresponds to
// an environment variable.  Secrets and identifiers are strings; durations
// and counters use the types the security layer consumes directly.
type Config struct {
	Env             string        // application environment (e.g. "dev", "prod")
	Port            string        // HTTP port to listen on
	DBUser          string        // database username
	DBPass          string        // database password (optional)
	DBHost          string        // database host address
	DBPort          string        // database port number
	DBName          string        // database name
	JWTSecret       string        // symmetric secret used to sign access tokens
	AccessTTLMin    int           // access token time-to-live in minutes
	BcryptCost      int           // bcrypt cost for password hashing
	LockoutAttempts int           // consecutive failed logins before an account locks
	LockoutDuration time.Duration // how long a locked account stays locked
}

// Load reads configuration values from environment variables and returns a
// Config.  Required variables are enforced by must() and missing values
// cause the program to exit with a fatal log message.  Security tunables
// (token TTL, lockout policy) fall back to the documented defaults so a
// minimal environment still produces a safe configuration.
func Load() Config {
	return Config{
		Env:             must("APP_ENV"),      // environment (dev/test/prod)
		Port:            must("APP_PORT"),     // port to bind the HTTP server
		DBUser:          must("DB_USER"),      // database user
		DBPass:          os.Getenv("DB_PASS"), // database password (empty allowed)
		DBHost:          must("DB_HOST"),      // database host
		DBPort:          must("DB_PORT"),      // database port
		DBName:          must("DB_NAME"),      // database name
		JWTSecret:       must("JWT_SECRET"),   // secret used for signing JWTs
		AccessTTLMin:    envInt("ACCESS_TOKEN_TTL_MIN", 30),
		BcryptCost:      envInt("BCRYPT_COST", 12),
		LockoutAttempts: envInt("LOCKOUT_ATTEMPTS", 5),
		LockoutDuration: envDur("LOCKOUT_DURATION", 30*time.Minute),
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

// envStr returns the value of an optional environment variable or the
// supplied default when unset.
func envStr(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}

// envInt parses an optional integer environment variable, falling back to
// the default on absence or parse failure.
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

// envBool parses an optional boolean environment variable.
func envBool(k string, d bool) bool {
	switch os.Getenv(k) {
	case "1", "true", "TRUE", "True", "yes", "YES", "on", "ON":
		return true
	case "0", "false", "FALSE", "False", "no", "NO", "off", "OFF":
		return false
	}
	return d
}

// envDur parses an optional duration environment variable (e.g. "30m").
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
