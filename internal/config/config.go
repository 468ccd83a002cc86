package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/ivesbwas/bwas/internal/types"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Configuration struct {
	Deployment    DeploymentConfig    `mapstructure:"deployment" validate:"required"`
	Server        ServerConfig        `mapstructure:"server" validate:"required"`
	Logging       LoggingConfig       `mapstructure:"logging" validate:"required"`
	Store         StoreConfig         `mapstructure:"store" validate:"required"`
	Postgres      PostgresConfig      `mapstructure:"postgres"`
	SQLite        SQLiteConfig        `mapstructure:"sqlite"`
	DynamoDB      DynamoDBConfig      `mapstructure:"dynamodb"`
	Signature     ServiceConfig       `mapstructure:"signature" validate:"required"`
	Document      ServiceConfig       `mapstructure:"document" validate:"required"`
	Authorization AuthorizationConfig `mapstructure:"authorization" validate:"required"`
	Events        EventsConfig        `mapstructure:"events"`
	Kafka         KafkaConfig         `mapstructure:"kafka"`
	Sentry        SentryConfig        `mapstructure:"sentry"`
}

type DeploymentConfig struct {
	Mode types.RunMode `mapstructure:"mode" validate:"required"`
}

type ServerConfig struct {
	Address string `mapstructure:"address" validate:"required"`
}

type LoggingConfig struct {
	Level types.LogLevel `mapstructure:"level" validate:"required"`
}

type StoreConfig struct {
	Driver types.StoreDriver `mapstructure:"driver" validate:"required,oneof=postgres sqlite dynamodb"`
}

type PostgresConfig struct {
	Host                   string `mapstructure:"host"`
	Port                   int    `mapstructure:"port"`
	User                   string `mapstructure:"user"`
	Password               string `mapstructure:"password"`
	DBName                 string `mapstructure:"dbname"`
	SSLMode                string `mapstructure:"sslmode"`
	MaxOpenConns           int    `mapstructure:"max_open_conns" default:"10"`
	MaxIdleConns           int    `mapstructure:"max_idle_conns" default:"5"`
	ConnMaxLifetimeMinutes int    `mapstructure:"conn_max_lifetime_minutes" default:"60"`
}

type SQLiteConfig struct {
	Path string `mapstructure:"path"`
}

// DynamoDBConfig holds configuration for DynamoDB
type DynamoDBConfig struct {
	Region    string `mapstructure:"region"`
	TableName string `mapstructure:"table_name"`
	// Endpoint overrides the AWS endpoint, used for dynamodb-local
	Endpoint string `mapstructure:"endpoint"`
}

// ServiceConfig configures an outbound integration
type ServiceConfig struct {
	BaseURL string        `mapstructure:"base_url" validate:"required,url"`
	Timeout time.Duration `mapstructure:"timeout" validate:"required"`
	// RateLimit caps outbound requests per second, 0 disables the limiter
	RateLimit float64 `mapstructure:"rate_limit" validate:"gte=0"`
	RateBurst int     `mapstructure:"rate_burst" validate:"gte=0"`
}

type AuthorizationConfig struct {
	PageSize int    `mapstructure:"page_size" validate:"required,gt=0"`
	AppName  string `mapstructure:"app_name" validate:"required"`
}

type EventsConfig struct {
	Enabled bool             `mapstructure:"enabled"`
	PubSub  types.PubSubType `mapstructure:"pubsub"`
	Topic   string           `mapstructure:"topic"`
}

type KafkaConfig struct {
	Brokers       []string `mapstructure:"brokers"`
	ConsumerGroup string   `mapstructure:"consumer_group"`
	ClientID      string   `mapstructure:"client_id"`
}

type SentryConfig struct {
	Enabled     bool    `mapstructure:"enabled"`
	DSN         string  `mapstructure:"dsn"`
	Environment string  `mapstructure:"environment"`
	SampleRate  float64 `mapstructure:"sample_rate"`
}

func NewConfig() (*Configuration, error) {
	// a missing .env is fine, deployed environments export variables directly
	_ = godotenv.Load()

	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./internal/config")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("/etc/bwas")

	v.SetEnvPrefix("BWAS")
	v.SetEnvKeyReplacer(strings.NewReplacer(
		".", "_",
		"-", "_",
	))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		fmt.Printf("Error reading config file: %v\n", err)
		if !errors.As(err, &viper.ConfigFileNotFoundError{}) {
			return nil, err
		}
	} else {
		fmt.Printf("Using config file: %s\n", v.ConfigFileUsed())
	}

	var config Configuration
	if err := v.Unmarshal(&config); err != nil {
		return nil, err
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &config, nil
}

// setDefaults registers every key so AutomaticEnv can override keys that are
// absent from config.yaml.
func setDefaults(v *viper.Viper) {
	d := GetDefaultConfig()
	v.SetDefault("deployment.mode", d.Deployment.Mode)
	v.SetDefault("server.address", d.Server.Address)
	v.SetDefault("logging.level", d.Logging.Level)
	v.SetDefault("store.driver", d.Store.Driver)
	v.SetDefault("postgres.host", "localhost")
	v.SetDefault("postgres.port", 5432)
	v.SetDefault("postgres.user", "")
	v.SetDefault("postgres.password", "")
	v.SetDefault("postgres.dbname", "bwas")
	v.SetDefault("postgres.sslmode", "disable")
	v.SetDefault("postgres.max_open_conns", 10)
	v.SetDefault("postgres.max_idle_conns", 5)
	v.SetDefault("postgres.conn_max_lifetime_minutes", 60)
	v.SetDefault("sqlite.path", d.SQLite.Path)
	v.SetDefault("dynamodb.region", "us-east-1")
	v.SetDefault("dynamodb.table_name", "authorization_documents")
	v.SetDefault("dynamodb.endpoint", "")
	v.SetDefault("signature.base_url", d.Signature.BaseURL)
	v.SetDefault("signature.timeout", d.Signature.Timeout)
	v.SetDefault("signature.rate_limit", 0)
	v.SetDefault("signature.rate_burst", 1)
	v.SetDefault("document.base_url", d.Document.BaseURL)
	v.SetDefault("document.timeout", d.Document.Timeout)
	v.SetDefault("document.rate_limit", 0)
	v.SetDefault("document.rate_burst", 1)
	v.SetDefault("authorization.page_size", d.Authorization.PageSize)
	v.SetDefault("authorization.app_name", d.Authorization.AppName)
	v.SetDefault("events.enabled", false)
	v.SetDefault("events.pubsub", types.MemoryPubSub)
	v.SetDefault("events.topic", "authorization_decisions")
	v.SetDefault("kafka.brokers", []string{"localhost:9092"})
	v.SetDefault("kafka.consumer_group", "bwas")
	v.SetDefault("kafka.client_id", "bwas")
	v.SetDefault("sentry.enabled", false)
	v.SetDefault("sentry.dsn", "")
	v.SetDefault("sentry.environment", "local")
	v.SetDefault("sentry.sample_rate", 1.0)
}

func (c Configuration) Validate() error {
	validate := validator.New()
	if err := validate.Struct(c); err != nil {
		return err
	}

	switch c.Store.Driver {
	case types.StoreDriverDynamoDB:
		if c.DynamoDB.TableName == "" {
			return errors.New("dynamodb.table_name is required when store.driver is dynamodb")
		}
	case types.StoreDriverSQLite:
		if c.SQLite.Path == "" {
			return errors.New("sqlite.path is required when store.driver is sqlite")
		}
	}

	if c.Events.Enabled && c.Events.PubSub == types.KafkaPubSub && len(c.Kafka.Brokers) == 0 {
		return errors.New("kafka.brokers is required when events are published to kafka")
	}
	return nil
}

// GetDefaultConfig returns a default configuration for local development
// This is useful for running scripts or other non-web applications
func GetDefaultConfig() *Configuration {
	return &Configuration{
		Deployment: DeploymentConfig{Mode: types.ModeLocal},
		Server:     ServerConfig{Address: ":8080"},
		Logging:    LoggingConfig{Level: types.LogLevelDebug},
		Store:      StoreConfig{Driver: types.StoreDriverSQLite},
		SQLite:     SQLiteConfig{Path: "bwas.db"},
		Signature: ServiceConfig{
			BaseURL: "http://localhost:8081",
			Timeout: 10 * time.Second,
		},
		Document: ServiceConfig{
			BaseURL: "http://localhost:8082",
			Timeout: 10 * time.Second,
		},
		Authorization: AuthorizationConfig{
			PageSize: 20,
			AppName:  "BWAS",
		},
		Events: EventsConfig{
			PubSub: types.MemoryPubSub,
			Topic:  "authorization_decisions",
		},
	}
}

func (c PostgresConfig) GetDSN() string {
	return fmt.Sprintf(
		"user=%s password=%s dbname=%s host=%s port=%d sslmode=%s",
		c.User,
		c.Password,
		c.DBName,
		c.Host,
		c.Port,
		c.SSLMode,
	)
}
