package database

import "strings"

// Supported drivers.
const (
	DriverPostgres = "postgres"
	DriverMySQL    = "mysql"
	DriverSQLite   = "sqlite"
)

// Config holds configuration for the direct database connection.
type Config struct {
	// Driver is the database driver (postgres, mysql, sqlite).
	Driver string `mapstructure:"driver" default:"postgres"`
	// DSN is a full connection string; when set it wins over the discrete fields.
	DSN string `mapstructure:"dsn" default:""`
	// Host is the database host.
	Host string `mapstructure:"host" default:""`
	// Port is the database port.
	Port int `mapstructure:"port" default:"5432"`
	// User is the database user.
	User string `mapstructure:"user" default:"postgres"`
	// Password is the database password.
	Password string `mapstructure:"password" default:""`
	// Name is the database name, or the file path for sqlite.
	Name string `mapstructure:"name" default:"postgres"`
	// SSLMode is the postgres sslmode.
	SSLMode string `mapstructure:"ssl_mode" default:"require"`
	// TimeoutSeconds bounds connection setup and the initial ping.
	TimeoutSeconds int `mapstructure:"timeout_seconds" default:"30"`
}

// Enabled reports whether enough is configured to attempt a connection.
func (c Config) Enabled() bool {
	if strings.EqualFold(c.Driver, DriverSQLite) {
		return c.Name != "" || c.DSN != ""
	}
	return c.DSN != "" || c.Host != ""
}
