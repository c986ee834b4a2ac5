package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	Port string

	DBHost     string
	DBPort     int
	DBUser     string
	DBPassword string
	DBName     string

	JWTSecret string

	OpenAIKey   string
	OpenAIModel string
}

func Load() *Config {
	// .env is optional; deployments use plain env vars
	_ = godotenv.Load()

	portStr := os.Getenv("DB_PORT")
	dbPort, err := strconv.Atoi(portStr)
	if err != nil {
		dbPort = 5432 // fallback
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	model := os.Getenv("LLM_MODEL")
	if model == "" {
		model = "gpt-4o-mini"
	}

	return &Config{
		Port: port,

		DBHost:     os.Getenv("DB_HOST"),
		DBPort:     dbPort,
		DBUser:     os.Getenv("DB_USER"),
		DBPassword: os.Getenv("DB_PASSWORD"),
		DBName:     os.Getenv("DB_NAME"),

		JWTSecret: os.Getenv("JWT_SECRET"),

		// OPENAI_API_KEY may legitimately be empty: the generate/llm
		// endpoint then serves keyword-based tasks instead
		OpenAIKey:   os.Getenv("OPENAI_API_KEY"),
		OpenAIModel: model,
	}
}

func (c *Config) ConnString() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=disable",
		c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName,
	)
}
