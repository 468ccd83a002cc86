package types

type RunMode string

const (
	// ModeLocal runs the API server against a local sqlite store
	ModeLocal RunMode = "local"
	// ModeAPI runs just the API server
	ModeAPI RunMode = "api"
)

type LogLevel string

const (
	LogLevelDebug LogLevel = "debug"
	LogLevelInfo  LogLevel = "info"
	LogLevelWarn  LogLevel = "warn"
	LogLevelError LogLevel = "error"
)

// StoreDriver selects the authorization store backend
type StoreDriver string

const (
	StoreDriverPostgres StoreDriver = "postgres"
	StoreDriverSQLite   StoreDriver = "sqlite"
	StoreDriverDynamoDB StoreDriver = "dynamodb"
)

// PubSubType selects the transport for decision events
type PubSubType string

const (
	MemoryPubSub PubSubType = "memory"
	KafkaPubSub  PubSubType = "kafka"
)

const (
	HeaderRequestID = "X-Request-ID"
)
