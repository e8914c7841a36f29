package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type Config struct {
	HTTP     HTTPConfig     `yaml:"http"`
	Database DatabaseConfig `yaml:"database"`
	Redis    RedisConfig    `yaml:"redis"`
	Kafka    KafkaConfig    `yaml:"kafka"`
	Wizard   WizardConfig   `yaml:"wizard"`
}

type HTTPConfig struct {
	Address    string `yaml:"address"`
	SwaggerDir string `yaml:"swagger_dir"`
}

type DatabaseConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Name     string `yaml:"name"`
	SSLMode  string `yaml:"ssl_mode"`
}

func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s", d.Host, d.Port, d.User, d.Password, d.Name, d.SSLMode)
}

type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

type KafkaConfig struct {
	Brokers            []string `yaml:"brokers"`
	BookingEventsTopic string   `yaml:"booking_events_topic"`
	NotificationsTopic string   `yaml:"notifications_topic"`
	GroupID            string   `yaml:"group_id"`
}

type WizardConfig struct {
	SessionTTLMinutes       int `yaml:"session_ttl_minutes"`
	FlightsCacheTTLSeconds  int `yaml:"flights_cache_ttl_seconds"`
	PassportGuardWindowDays int `yaml:"passport_guard_window_days"`
	LeadPassengerMinimumAge int `yaml:"lead_passenger_minimum_age"`
}

func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if cfg.Wizard.SessionTTLMinutes == 0 {
		cfg.Wizard.SessionTTLMinutes = 60
	}
	if cfg.Wizard.PassportGuardWindowDays == 0 {
		cfg.Wizard.PassportGuardWindowDays = 180
	}
	if cfg.Wizard.LeadPassengerMinimumAge == 0 {
		cfg.Wizard.LeadPassengerMinimumAge = 18
	}

	return &cfg, nil
}
