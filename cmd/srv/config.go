package main

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/bridgeart/backend/config"
	"github.com/bridgeart/backend/pkg/logger"

	"github.com/joho/godotenv"
)

func loadConfigsFromEnv() config.Configs {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("Cannot load .env file: %v", err)
	}

	return config.Configs{
		Env:      getEnv("ENV", "local"),
		LogLevel: logger.ParseLevel(getEnv("LOG_LEVEL", "info")),
		Database: config.DatabaseConfigs{
			Host:     getEnv("MYSQL_HOST", "localhost"),
			Port:     getEnv("MYSQL_PORT", "3306"),
			Database: getEnv("MYSQL_DATABASE", "bridgeart"),
			User:     getEnv("MYSQL_USER", "mysql"),
			Password: getEnv("MYSQL_PASSWORD", "mysql"),
			LogLevel: getEnv("DATABASE_LOG_LEVEL", "error"),
		},
		ApiServer: config.APIServerConfigs{
			ServerConfigs: config.ServerConfigs{
				Host: getEnv("API_HOST", "localhost"),
				Port: getEnv("API_PORT", "8080"),
				Cert: getEnv("SERVER_CERT", ""),
				Key:  getEnv("SERVER_KEY", ""),
			},
			MaxLimit:       parseInt(getEnv("API_MAX_LIMIT", "50")),
			DefaultLimit:   parseInt(getEnv("API_DEFAULT_LIMIT", "12")),
			AllowedOrigins: parseList(getEnv("API_ALLOWED_ORIGINS", "http://localhost:3000")),
		},
		Auth: config.AuthConfigs{
			TokenSecret: getEnv("TOKEN_SECRET", "token_secret"),
			AccessToken: config.TokenConfigs{
				Name:       "access_token",
				Expiration: parseDuration(getEnv("ACCESS_TOKEN_DURATION", "24h")),
			},
		},
		Session: config.SessionConfigs{
			Secret: getEnv("SESSION_SECRET", "secret"),
			Name:   getEnv("SESSION_NAME", "bridgeart_session"),
		},
		Storage: config.S3Configs{
			Region:         getEnv("STORAGE_REGION", "auto"),
			Endpoint:       getEnv("STORAGE_ENDPOINT", ""),
			PublicEndpoint: getEnv("STORAGE_PUBLIC_ENDPOINT", ""),
			AccessKey:      getEnv("STORAGE_ACCESS_KEY", ""),
			SecretKey:      getEnv("STORAGE_SECRET_KEY", ""),
			Bucket:         getEnv("STORAGE_BUCKET", ""),
			SSLDisabled:    parseBool(getEnv("STORAGE_SSL_DISABLED", "false")),
		},
		File: config.FileConfigs{
			MaxSize:       int64(parseInt(getEnv("MAX_UPLOAD_FILE", "2"))) * 1024 * 1024,
			ThumbnailSize: parseInt(getEnv("THUMBNAIL_SIZE", "256")),
		},
		Pinata: config.PinataConfigs{
			Token:   getEnv("PINATA_TOKEN", ""),
			Gateway: getEnv("PINATA_GATEWAY", "https://gateway.pinata.cloud/ipfs/"),
		},
		ImageGen: config.ImageGenConfigs{
			Endpoint: getEnv("OPENAI_ENDPOINT", "https://api.openai.com/v1/images/generations"),
			APIKey:   getEnv("OPENAI_API_KEY", ""),
			Model:    getEnv("OPENAI_IMAGE_MODEL", ""),
			Size:     getEnv("OPENAI_IMAGE_SIZE", "1024x1024"),
		},
		Redis: config.RedisConfigs{
			Addr: getEnv("REDIS_ADDRESS", "localhost:6379"),
		},
		Kafka: config.KafkaConfigs{
			Addr: getEnv("KAFKA_ADDRESS", "localhost:9092"),
		},
		Blockchain: config.BlockchainConfigs{
			SecretKey:                  getEnv("BLOCKCHAIN_SECRET_KEY", ""),
			SolanaPrivateKey:           getEnv("SOLANA_PRIVATE_KEY", ""),
			ChainsFile:                 getEnv("CHAINS_FILE", "chains.toml"),
			DefaultChain:               getEnv("DEFAULT_CHAIN", "solana"),
			RefreshConnectionFrequency: parseDuration(getEnv("REFRESH_CONNECTION_FREQUENCY", "1m")),
			ReloadFrequency:            parseDuration(getEnv("CHAIN_RELOAD_FREQUENCY", "30s")),
			WatchInterval:              parseDuration(getEnv("TX_WATCH_INTERVAL", "5s")),
		},
		Bridge: config.BridgeConfigs{
			PollInterval: parseDuration(getEnv("BRIDGE_POLL_INTERVAL", "5s")),
			Timeout:      parseDuration(getEnv("BRIDGE_TIMEOUT", "10m")),
			MaxWorkers:   parseInt(getEnv("BRIDGE_MAX_WORKERS", "4")),
		},
		Search: config.SearchConfigs{
			IndexDir: getEnv("SEARCH_INDEX_DIR", ""),
		},
	}
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}

	return fallback
}

func parseDuration(s string) time.Duration {
	duration, err := time.ParseDuration(s)
	if err != nil {
		panic(err)
	}

	return duration
}

func parseInt(s string) int {
	i, err := strconv.Atoi(s)
	if err != nil {
		panic(err)
	}

	return i
}

func parseBool(s string) bool {
	b, err := strconv.ParseBool(s)
	if err != nil {
		panic(err)
	}

	return b
}

func parseList(s string) []string {
	result := []string{}
	for _, item := range strings.Split(s, ",") {
		if item = strings.TrimSpace(item); item != "" {
			result = append(result, item)
		}
	}

	return result
}
