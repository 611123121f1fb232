package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	DBHost     string
	DBUser     string
	DBPassword string
	DBName     string
	DBPort     string
	AppPort    string
	AppEnv     string
	JWTSecret  string
	BcryptCost int
}

func LoadConfig() *Config {
	_ = godotenv.Load()

	cfg := &Config{
		DBHost:     os.Getenv("DB_HOST"),
		DBUser:     os.Getenv("DB_USER"),
		DBPassword: os.Getenv("DB_PASSWORD"),
		DBName:     os.Getenv("DB_NAME"),
		DBPort:     os.Getenv("DB_PORT"),
		AppPort:    os.Getenv("APP_PORT"),
		AppEnv:     os.Getenv("APP_ENV"),
		JWTSecret:  os.Getenv("JWT_SECRET"),
		BcryptCost: 10,
	}

	if v := os.Getenv("BCRYPT_COST"); v != "" {
		cost, err := strconv.Atoi(v)
		if err != nil {
			log.Fatalf("Invalid BCRYPT_COST: %v", err)
		}
		cfg.BcryptCost = cost
	}

	if cfg.AppPort == "" {
		cfg.AppPort = "8080"
	}

	if cfg.DBHost == "" {
		log.Fatal("Environment variables not loaded properly")
	}

	if cfg.JWTSecret == "" {
		log.Fatal("JWT_SECRET is not set")
	}

	return cfg
}
