package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Redis    RedisConfig
	Kafka    KafkaConfig
	Auth     AuthConfig
	Worker   WorkerConfig
	Storage  StorageConfig
}

type ServerConfig struct {
	Port         string        `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	IdleTimeout  time.Duration `mapstructure:"idle_timeout"`
}

type DatabaseConfig struct {
	Host     string `mapstructure:"host"`
	Port     string `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	Name     string `mapstructure:"name"`
	SSLMode  string `mapstructure:"ssl_mode"`
}

type RedisConfig struct {
	Addr string `mapstructure:"addr"`
}

type KafkaConfig struct {
	Broker            string `mapstructure:"broker"`
	NotificationTopic string `mapstructure:"notification_topic"`
	ConsumerGroup     string `mapstructure:"consumer_group"`
}

type AuthConfig struct {
	JWTSecret string `mapstructure:"jwt_secret"`
}

type WorkerConfig struct {
	OutboxPollInterval time.Duration `mapstructure:"outbox_poll_interval"`
	OrphanSweepCron    string        `mapstructure:"orphan_sweep_cron"`
	OrphanMaxAge       time.Duration `mapstructure:"orphan_max_age"`
}

type StorageConfig struct {
	Dir string `mapstructure:"dir"`
}

func Load() (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath("/etc/hrcore/")
	viper.AddConfigPath(".")

	viper.SetEnvPrefix("HRCORE")
	viper.AutomaticEnv()

	viper.SetDefault("server.port", "3000")
	viper.SetDefault("server.read_timeout", "5s")
	viper.SetDefault("server.write_timeout", "10s")
	viper.SetDefault("server.idle_timeout", "60s")
	viper.SetDefault("database.host", "localhost")
	viper.SetDefault("database.port", "5432")
	viper.SetDefault("database.ssl_mode", "disable")
	viper.SetDefault("redis.addr", "localhost:6379")
	viper.SetDefault("kafka.notification_topic", "hr.leave.notification.v1")
	viper.SetDefault("kafka.consumer_group", "hrcore-notification-delivery")
	viper.SetDefault("worker.outbox_poll_interval", "3s")
	viper.SetDefault("worker.orphan_sweep_cron", "@every 1h")
	viper.SetDefault("worker.orphan_max_age", "24h")
	viper.SetDefault("storage.dir", "./uploads")

	if err := viper.ReadInConfig(); err != nil {
		// Config file is optional, env vars and defaults carry the rest.
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	return &cfg, nil
}
