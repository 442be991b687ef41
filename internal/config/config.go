package config

import (
	"log"
	"os"

	"github.com/ilyakaznacheev/cleanenv"
)

type RatesConfig struct {
	Env          string `yaml:"env"`
	HTTPServer   `yaml:"http_server"`
	RatesDB      `yaml:"rates_db"`
	LogConfig    `yaml:"log_config"`
	KafkaService `yaml:"kafka_service"`
	OfficialRate `yaml:"official_rate"`
	Migrations   `yaml:"migrations"`
}

type HTTPServer struct {
	Host string `yaml:"host"`
	Port string `yaml:"port"`
}

type RatesDB struct {
	Dsn string `yaml:"dsn"`
}

type LogConfig struct {
	LogLevel  string `yaml:"log_level"`
	LogFormat string `yaml:"log_format"`
}

type KafkaService struct {
	Enabled bool   `yaml:"enabled"`
	Host    string `yaml:"host"`
	Port    string `yaml:"port"`
	Topic   string `yaml:"topic"`
}

type OfficialRate struct {
	BaseURL string `yaml:"base_url"`
	APIKey  string `yaml:"api_key" env:"EXCHANGE_RATE_API_KEY"`
}

type Migrations struct {
	Path string `yaml:"path"`
}

func MustLoad() *RatesConfig {
	configPath := os.Getenv("RATES_CONFIG_PATH")

	if configPath == "" {
		log.Fatalf("RATES_CONFIG_PATH was not found\n")
	}

	if _, err := os.Stat(configPath); err != nil {
		log.Fatalf("failed to find config file: %v\n", err)
	}

	var cfg RatesConfig
	if err := cleanenv.ReadConfig(configPath, &cfg); err != nil {
		log.Fatalf("failed to read config file: %v", err)
	}

	return &cfg
}
