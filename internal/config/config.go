// File: internal/config/config.go
package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	ServerPort     string
	MongoURI       string
	MongoDBName    string
	AuthServiceURL string
	DBServiceURL   string
	CORSOrigin     string
	Environment    string

	// Realtime limits: fixed windows per user, abuse backstop only.
	ConnectionLimit       int
	ConnectionLimitWindow time.Duration
	MessageLimit          int
	MessageLimitWindow    time.Duration

	// Whether a dropped socket broadcasts user_left like an explicit leave.
	BroadcastLeaveOnDisconnect bool
}

// Load reads configuration from environment variables or .env file.
func Load() *Config {
	env := os.Getenv("ENV")
	if strings.ToLower(env) != "production" {
		if err := godotenv.Load(); err != nil {
			log.Println("No .env file found; continuing with environment variables")
		}
	}

	cfg := &Config{
		ServerPort:     getEnv("SERVER_PORT", "3001"),
		MongoURI:       getEnv("MONGODB_URI", "mongodb://localhost:27017"),
		MongoDBName:    getEnv("MONGODB_DB_NAME", "chat_service"),
		AuthServiceURL: getEnv("AUTH_SERVICE_URL", "http://localhost:3000"),
		DBServiceURL:   getEnv("DB_SERVICE_URL", "http://localhost:4000"),
		CORSOrigin:     getEnv("CORS_ORIGIN", "*"),
		Environment:    env,

		ConnectionLimit:       getEnvAsInt("WS_CONNECTION_LIMIT", 10),
		ConnectionLimitWindow: getEnvAsDuration("WS_CONNECTION_LIMIT_WINDOW", time.Minute),
		MessageLimit:          getEnvAsInt("WS_MESSAGE_LIMIT", 60),
		MessageLimitWindow:    getEnvAsDuration("WS_MESSAGE_LIMIT_WINDOW", time.Minute),

		BroadcastLeaveOnDisconnect: getEnvAsBool("WS_BROADCAST_LEAVE_ON_DISCONNECT", false),
	}

	// Validation for production environments
	if strings.ToLower(env) == "production" {
		missing := []string{}
		if cfg.MongoURI == "" {
			missing = append(missing, "MONGODB_URI")
		}
		if cfg.AuthServiceURL == "" {
			missing = append(missing, "AUTH_SERVICE_URL")
		}
		if cfg.DBServiceURL == "" {
			missing = append(missing, "DB_SERVICE_URL")
		}
		if len(missing) > 0 {
			log.Fatalf("Missing required production environment variables: %v", missing)
		}
	}

	return cfg
}

// getEnv returns the value of an environment variable or a default.
func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

// getEnvAsInt gets an env var as an integer, with a fallback.
func getEnvAsInt(key string, defaultValue int) int {
	strValue := getEnv(key, "")
	if strValue == "" {
		return defaultValue
	}
	intValue, err := strconv.Atoi(strValue)
	if err != nil {
		log.Printf("Warning: could not parse env var %s as integer. Using default value.", key)
		return defaultValue
	}
	return intValue
}

// getEnvAsDuration gets an env var as a time.Duration, with a fallback.
func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	strValue := getEnv(key, "")
	if strValue == "" {
		return defaultValue
	}
	d, err := time.ParseDuration(strValue)
	if err != nil {
		log.Printf("Warning: could not parse env var %s as duration. Using default value.", key)
		return defaultValue
	}
	return d
}

// getEnvAsBool gets an env var as a boolean, with a fallback.
func getEnvAsBool(key string, defaultValue bool) bool {
	strValue := getEnv(key, "")
	if strValue == "" {
		return defaultValue
	}
	b, err := strconv.ParseBool(strValue)
	if err != nil {
		log.Printf("Warning: could not parse env var %s as boolean. Using default value.", key)
		return defaultValue
	}
	return b
}
