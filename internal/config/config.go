package config

import (
	"log"
	"os"

	"github.com/joho/godotenv"
)

type Config struct {
	HTTPAddr     string
	DBPath       string
	DataSource   string // "local" (sqlite file) or "fixture" (in-memory demo)
	DemoUsername string
	DemoPassword string
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func Load() Config {
	_ = godotenv.Load() // load .env if it exists
	cfg := Config{
		HTTPAddr:     getenv("HTTP_ADDR", ":8080"),
		DBPath:       getenv("DB_PATH", "./data/warung.db"),
		DataSource:   getenv("DATA_SOURCE", "local"),
		DemoUsername: getenv("DEMO_USERNAME", "demo"),
		DemoPassword: getenv("DEMO_PASSWORD", "warung123"),
	}
	log.Printf("[config] HTTP_ADDR=%s", cfg.HTTPAddr)
	log.Printf("[config] DB_PATH=%s", cfg.DBPath)
	log.Printf("[config] DATA_SOURCE=%s", cfg.DataSource)
	return cfg
}
