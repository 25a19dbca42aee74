package config

// Config holds all application configuration.
// It organizes settings into logical groups for better maintainability.
type Config struct {
	Server   ServerConfig   `mapstructure:"server" validate:"required"`
	Database DatabaseConfig `mapstructure:"database" validate:"required"`
	Auth     AuthConfig     `mapstructure:"auth" validate:"required"`
	XP       XPConfig       `mapstructure:"xp" validate:"required"`
}

// ServerConfig contains all server-related configuration settings.
type ServerConfig struct {
	Port            int    `mapstructure:"port"              validate:"required,gt=0,lt=65536"`
	LogLevel        string `mapstructure:"log_level"         validate:"required,oneof=debug info warn error"`
	ShutdownTimeout int    `mapstructure:"shutdown_timeout"  validate:"gte=0"` // seconds
}

// DatabaseConfig contains all database-related configuration settings.
type DatabaseConfig struct {
	URL string `mapstructure:"url" validate:"required"`
}

// AuthConfig contains authentication settings for validating access
// tokens issued by the identity service.
type AuthConfig struct {
	JWTSecret        string `mapstructure:"jwt_secret"         validate:"required,min=32"`
	TokenLifetimeMin int    `mapstructure:"token_lifetime_min" validate:"gt=0"`
}

// XPConfig contains settings for the weekly XP ledger.
type XPConfig struct {
	// BonusTimezone is the IANA zone in which the day-of-week double-XP
	// bonus is evaluated.
	BonusTimezone string `mapstructure:"bonus_timezone" validate:"required"`
}
