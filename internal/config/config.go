// Package config loads and validates the application configuration.
package config

// Config holds all application configuration.
// It organizes settings into logical groups for better maintainability.
type Config struct {
	Server       ServerConfig       `mapstructure:"server" validate:"required"`
	Database     DatabaseConfig     `mapstructure:"database" validate:"required"`
	Auth         AuthConfig         `mapstructure:"auth" validate:"required"`
	Kafka        KafkaConfig        `mapstructure:"kafka" validate:"required"`
	Oracle       OracleConfig       `mapstructure:"oracle" validate:"required"`
	Registration RegistrationConfig `mapstructure:"registration" validate:"required"`
}

// ServerConfig contains all HTTP server related settings.
type ServerConfig struct {
	Port     int    `mapstructure:"port" validate:"required,gt=0,lt=65536"`
	LogLevel string `mapstructure:"log_level" validate:"required,oneof=debug info warn error"`
}

// DatabaseConfig contains all database-related configuration settings.
type DatabaseConfig struct {
	URL string `mapstructure:"url" validate:"required"`
}

// AuthConfig contains authentication and token issuance settings.
type AuthConfig struct {
	JWTSecret            string `mapstructure:"jwt_secret" validate:"required,min=32"`
	TokenLifetimeMinutes int    `mapstructure:"token_lifetime_minutes" validate:"required,gt=0"`
}

// KafkaConfig contains event-bus settings shared by all saga producers and
// consumers.
type KafkaConfig struct {
	Brokers []string `mapstructure:"brokers" validate:"required,min=1"`
	GroupID string   `mapstructure:"group_id" validate:"required"`
	// MaxAttempts is the per-message retry budget before an order-created
	// fact is shunted to the dead-letter topic.
	MaxAttempts int `mapstructure:"max_attempts" validate:"required,gt=0"`
}

// OracleConfig contains settings for the external decision service.
type OracleConfig struct {
	URL            string `mapstructure:"url" validate:"required,url"`
	TimeoutSeconds int    `mapstructure:"timeout_seconds" validate:"required,gt=0"`
}

// RegistrationConfig contains settings for the registration coordinator and
// its collaborator services.
type RegistrationConfig struct {
	ProfileServiceURL    string `mapstructure:"profile_service_url" validate:"required,url"`
	CredentialServiceURL string `mapstructure:"credential_service_url" validate:"required,url"`
	// InternalSecret authenticates service-to-service calls on the profile
	// and credential endpoints.
	InternalSecret string `mapstructure:"internal_secret" validate:"required,min=16"`
	TimeoutSeconds int    `mapstructure:"timeout_seconds" validate:"required,gt=0"`
}
