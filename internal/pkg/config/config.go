package config

import (
	"errors"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	DBUsername string `yaml:"db_username"`
	DBPassword string `yaml:"db_password"`
	DBHost     string `yaml:"db_host"`
	DBPort     string `yaml:"db_port"`
	DBName     string `yaml:"db_name"`
	DisableTLS bool   `yaml:"disable_tls"`

	ServerPort string `yaml:"server_port"`
	BaseUrl    string `yaml:"base_url"`
	JWTKeyPath string `yaml:"jwt_key_path"`
	RedisAddr  string `yaml:"redis_addr"`

	FaceServiceURL     string `yaml:"face_service_url"`
	FaceTimeoutSeconds int    `yaml:"face_timeout_seconds"`

	// Timezone fixes the calendar-day boundary for the whole system; it is
	// never taken per request.
	Timezone       string `yaml:"timezone"`
	OnTimeDeadline string `yaml:"on_time_deadline"`
}

func NewConfig(path string) (*Config, error) {
	var c Config

	yamlFile, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	err = yaml.Unmarshal(yamlFile, &c)
	if err != nil {
		return nil, err
	}

	if c.DBUsername == "" || c.DBPassword == "" || c.DBHost == "" || c.DBName == "" {
		return nil, errors.New("missing required database configuration")
	}
	if c.FaceServiceURL == "" {
		return nil, errors.New("face_service_url is required")
	}

	if c.ServerPort == "" {
		c.ServerPort = ":8080"
	}
	if c.JWTKeyPath == "" {
		c.JWTKeyPath = "./private.pem"
	}
	if c.Timezone == "" {
		c.Timezone = "UTC"
	}
	if c.OnTimeDeadline == "" {
		c.OnTimeDeadline = "09:00:00"
	}
	if c.FaceTimeoutSeconds <= 0 {
		c.FaceTimeoutSeconds = 90
	}

	return &c, nil
}

// FaceTimeout is the bound applied to every face-service call.
func (c *Config) FaceTimeout() time.Duration {
	return time.Duration(c.FaceTimeoutSeconds) * time.Second
}
