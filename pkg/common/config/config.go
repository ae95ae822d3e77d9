package config

import (
	"os"
	"strconv"
	"time"
)

// Known BBMRI-ERIC directory GraphQL endpoints. The environment is selected
// explicitly per deployment instead of being baked into individual sync
// functions.
const (
	DirectoryProductionURL = "https://directory.bbmri-eric.eu/ERIC/directory/graphql"
	DirectoryAcceptanceURL = "https://directory-emx2-acc.molgenis.net/ERIC/directory/graphql"
)

type Config struct {
	// Server
	ServerPort   string
	ServerHost   string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration

	// Directory service (source)
	DirectoryURL     string
	DirectoryTimeout time.Duration

	// FHIR store (destination)
	FHIRBaseURL        string
	FHIRUsername       string
	FHIRPassword       string
	FHIRTokenURL       string
	FHIRClientID       string
	FHIRClientSecret   string
	FHIRRequestTimeout time.Duration
	FHIRRetryAttempts  int

	// Fallback managing biobank for networks; the directory payload does not
	// carry this reference.
	NetworkManagingBiobankID string

	// Database
	PostgresHost     string
	PostgresPort     string
	PostgresUser     string
	PostgresPassword string
	PostgresDB       string
	PostgresSSLMode  string

	// Redis
	RedisHost     string
	RedisPort     string
	RedisPassword string
	RedisDB       int

	// Organization lookup cache
	OrganizationCacheTTL time.Duration

	// Kafka
	KafkaBrokers []string
	KafkaGroupID string

	// Vocabulary
	VocabularyPath string
}

func Load() *Config {
	return &Config{
		ServerPort:   getEnv("SERVER_PORT", "8080"),
		ServerHost:   getEnv("SERVER_HOST", "0.0.0.0"),
		ReadTimeout:  getDuration("READ_TIMEOUT", 30*time.Second),
		WriteTimeout: getDuration("WRITE_TIMEOUT", 30*time.Second),

		DirectoryURL:     getEnv("DIRECTORY_URL", DirectoryProductionURL),
		DirectoryTimeout: getDuration("DIRECTORY_TIMEOUT", 60*time.Second),

		FHIRBaseURL:        getEnv("FHIR_BASE_URL", "http://localhost:8080/fhir"),
		FHIRUsername:       getEnv("FHIR_USERNAME", ""),
		FHIRPassword:       getEnv("FHIR_PASSWORD", ""),
		FHIRTokenURL:       getEnv("FHIR_TOKEN_URL", ""),
		FHIRClientID:       getEnv("FHIR_CLIENT_ID", ""),
		FHIRClientSecret:   getEnv("FHIR_CLIENT_SECRET", ""),
		FHIRRequestTimeout: getDuration("FHIR_REQUEST_TIMEOUT", 30*time.Second),
		FHIRRetryAttempts:  getIntEnv("FHIR_RETRY_ATTEMPTS", 3),

		NetworkManagingBiobankID: getEnv("NETWORK_MANAGING_BIOBANK_ID", "bbmri-eric:ID:AT_MUG"),

		PostgresHost:     getEnv("POSTGRES_HOST", "localhost"),
		PostgresPort:     getEnv("POSTGRES_PORT", "5432"),
		PostgresUser:     getEnv("POSTGRES_USER", "directorysync"),
		PostgresPassword: getEnv("POSTGRES_PASSWORD", "directorysync123"),
		PostgresDB:       getEnv("POSTGRES_DB", "directorysync"),
		PostgresSSLMode:  getEnv("POSTGRES_SSLMODE", "disable"),

		RedisHost:     getEnv("REDIS_HOST", "localhost"),
		RedisPort:     getEnv("REDIS_PORT", "6379"),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisDB:       getIntEnv("REDIS_DB", 0),

		OrganizationCacheTTL: getDuration("ORGANIZATION_CACHE_TTL", 15*time.Minute),

		KafkaBrokers: getStringSliceEnv("KAFKA_BROKERS", []string{"localhost:9092"}),
		KafkaGroupID: getEnv("KAFKA_GROUP_ID", "directory-sync"),

		VocabularyPath: getEnv("VOCABULARY_PATH", ""),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getStringSliceEnv(key string, defaultValue []string) []string {
	if value := os.Getenv(key); value != "" {
		return []string{value}
	}
	return defaultValue
}

func getDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
