package configs

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	DBHost     string
	DBPort     int
	DBUser     string
	DBPassword string
	DBName     string
	DBNameTest string
	RedisHost  string
	RedisPort  int
	ListenAddr string

	// SessionLifetimeSeconds bounds how long a login stays valid.
	SessionLifetimeSeconds int
}

func LoadConfig() Config {
	if err := godotenv.Load(); err != nil {
		if os.Getenv("GO_ENV") != "test" {
			log.Println("No .env file found, using default values")
		}
	}

	dbPort, err := strconv.Atoi(os.Getenv("DB_PORT"))
	if err != nil {
		dbPort = 5432
	}

	redisPort, err := strconv.Atoi(os.Getenv("REDIS_PORT"))
	if err != nil {
		redisPort = 6379
	}

	lifetime, err := strconv.Atoi(os.Getenv("SESSION_LIFETIME_SECONDS"))
	if err != nil || lifetime <= 0 {
		lifetime = 1800
	}

	addr := os.Getenv("LISTEN_ADDR")
	if addr == "" {
		addr = ":3004"
	}

	return Config{
		DBHost:                 os.Getenv("DB_HOST"),
		DBPort:                 dbPort,
		DBUser:                 os.Getenv("DB_USER"),
		DBPassword:             os.Getenv("DB_PASSWORD"),
		DBName:                 os.Getenv("DB_NAME"),
		DBNameTest:             os.Getenv("DB_NAME_TEST"),
		RedisHost:              os.Getenv("REDIS_HOST"),
		RedisPort:              redisPort,
		ListenAddr:             addr,
		SessionLifetimeSeconds: lifetime,
	}
}
