package config // package config loads application configuration from environment variables

import (
	"log"
	"os"

	"github.com/joho/godotenv"
)

// Config holds all runtime configuration values. Each field
// corresponds to an environment variable: strings for identifiers and
// secrets, the verifier mode selecting which credential check the
// auth ceremony runs.
type Config struct {
	Env          string // application environment (e.g. "dev", "prod")
	Port         string // HTTP port to listen on
	DBUser       string // database username
	DBPass       string // database password (optional)
	DBHost       string // database host address
	DBPort       string // database port number
	DBName       string // database name
	AuthSecret   string // secret verifying signed finish-step assertions
	VerifierMode string // "echo" (placeholder) or "assertion" (signed)
	AdminKeyHash string // bcrypt hash guarding the admin reset/seed routes (optional)
}

// Load reads configuration from the environment, after sourcing an
// optional .env file. Required variables are enforced by must() and
// missing values cause the program to exit with a fatal log message.
func Load() Config {
	_ = godotenv.Load() // absent .env is fine; real env wins anyway

	return Config{
		Env:          must("APP_ENV"),
		Port:         must("APP_PORT"),
		DBUser:       must("DB_USER"),
		DBPass:       os.Getenv("DB_PASS"), // empty allowed
		DBHost:       must("DB_HOST"),
		DBPort:       must("DB_PORT"),
		DBName:       must("DB_NAME"),
		AuthSecret:   must("AUTH_SECRET"),
		VerifierMode: envStr("AUTH_VERIFIER", "echo"),
		AdminKeyHash: os.Getenv("ADMIN_KEY_HASH"),
	}
}

// must retrieves the value of a required environment variable. If the
// variable is unset or empty, the application logs a fatal error and
// exits.
func must(key string) string {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		log.Fatalf("missing required env var: %s", key)
	}
	return v
}
