package configs

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	AppEnv     string
	AppPort    int
	DBHost     string
	DBPort     int
	DBUser     string
	DBPassword string
	DBName     string
	DBNameTest string
	RedisHost  string
	RedisPort  int
	// CompletionDelay is how long a task stays in "processing" before the
	// completion worker marks it completed.
	CompletionDelay time.Duration
	// SessionTTL is the absolute session lifetime. It is never refreshed.
	SessionTTL time.Duration
}

func LoadConfig() Config {
	if err := godotenv.Load(); err != nil {
		if os.Getenv("GO_ENV") != "test" {
			log.Println("No .env file found, using default values")
		}
	}

	appPort, err := strconv.Atoi(os.Getenv("APP_PORT"))
	if err != nil {
		appPort = 3000
	}

	dbPort, err := strconv.Atoi(os.Getenv("DB_PORT"))
	if err != nil {
		dbPort = 5432
	}

	redisPort, err := strconv.Atoi(os.Getenv("REDIS_PORT"))
	if err != nil {
		redisPort = 6379
	}

	delaySeconds, err := strconv.Atoi(os.Getenv("TASK_COMPLETION_DELAY"))
	if err != nil || delaySeconds <= 0 {
		delaySeconds = 60
	}

	return Config{
		AppEnv:          os.Getenv("APP_ENV"),
		AppPort:         appPort,
		DBHost:          os.Getenv("DB_HOST"),
		DBPort:          dbPort,
		DBUser:          os.Getenv("DB_USER"),
		DBPassword:      os.Getenv("DB_PASSWORD"),
		DBName:          os.Getenv("DB_NAME"),
		DBNameTest:      os.Getenv("DB_NAME_TEST"),
		RedisHost:       os.Getenv("REDIS_HOST"),
		RedisPort:       redisPort,
		CompletionDelay: time.Duration(delaySeconds) * time.Second,
		SessionTTL:      24 * time.Hour,
	}
}
