package config

import "time"

// Chat definition chat_service YAML structure
type Chat struct {
	Port        string         `mapstructure:"port"`
	AuthTimeout time.Duration  `mapstructure:"auth_timeout"`
	MongoSQL    DatabaseConfig `mapstructure:"mongo"`
	Redis       RedisConfig    `mapstructure:"redis"`
}

// RedisConfig definition redis setting
type RedisConfig struct {
	Host    string `mapstructure:"host"`
	Port    int    `mapstructure:"port"`
	RedisDB int    `mapstructure:"redis_db"`
}

// DatabaseConfig definition db setting
type DatabaseConfig struct {
	Host          string `mapstructure:"host"`
	Port          int    `mapstructure:"port"`
	User          string `mapstructure:"user"`
	Password      string `mapstructure:"password"`
	Database      string `mapstructure:"database"`
	RetryInterval int    `mapstructure:"retry_interval"`
	RetryCount    int    `mapstructure:"retry_count"`
}
