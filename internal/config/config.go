package config

import (
	"strings"

	"github.com/spf13/viper"
)

// DatabaseConfig holds Postgres connection settings.
type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
}

// KafkaConfig holds broker addresses and the consumer group prefix.
type KafkaConfig struct {
	Brokers     []string
	GroupPrefix string
}

// JWTConfig holds the token verification secret.
type JWTConfig struct {
	Secret string
}

// ServiceConfig holds all configuration for the booking service.
type ServiceConfig struct {
	Port           string
	AppEnv         string
	AllowedOrigins []string
	DBConfig       DatabaseConfig
	JWTConfig      JWTConfig
	KafkaConfig    KafkaConfig
}

// Load reads configuration from MYSTIC_-prefixed environment variables with
// local-development defaults.
func Load() (*ServiceConfig, error) {
	v := viper.New()
	v.SetEnvPrefix("MYSTIC")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("service_port", ":8080")
	v.SetDefault("app_env", "development")
	v.SetDefault("allowed_origins", "")
	v.SetDefault("db_host", "localhost")
	v.SetDefault("db_port", "5432")
	v.SetDefault("db_user", "mystic")
	v.SetDefault("db_password", "mystic")
	v.SetDefault("db_name", "mystic_tours")
	v.SetDefault("db_sslmode", "disable")
	v.SetDefault("jwt_secret", "dev-secret-change-me")
	v.SetDefault("kafka_brokers", "localhost:9092")
	v.SetDefault("kafka_group_prefix", "mystic-tours.")

	port := v.GetString("service_port")
	if !strings.HasPrefix(port, ":") {
		port = ":" + port
	}

	var origins []string
	if raw := v.GetString("allowed_origins"); raw != "" {
		origins = splitAndTrim(raw)
	}

	return &ServiceConfig{
		Port:           port,
		AppEnv:         v.GetString("app_env"),
		AllowedOrigins: origins,
		DBConfig: DatabaseConfig{
			Host:     v.GetString("db_host"),
			Port:     v.GetString("db_port"),
			User:     v.GetString("db_user"),
			Password: v.GetString("db_password"),
			DBName:   v.GetString("db_name"),
			SSLMode:  v.GetString("db_sslmode"),
		},
		JWTConfig: JWTConfig{
			Secret: v.GetString("jwt_secret"),
		},
		KafkaConfig: KafkaConfig{
			Brokers:     splitAndTrim(v.GetString("kafka_brokers")),
			GroupPrefix: v.GetString("kafka_group_prefix"),
		},
	}, nil
}

func splitAndTrim(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
