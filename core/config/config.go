package config

import (
	"path/filepath"
	"reflect"
	"strings"

	"backend-probe/core/backend"
	"backend-probe/core/database"
	"backend-probe/core/logger"
	"backend-probe/core/server"
	"backend-probe/core/storage"
	"backend-probe/feature/probe"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all configuration for the application.
// It is built once at start and passed down explicitly; nothing below cmd/
// reads the environment.
type Config struct {
	// Supabase holds the hosted backend coordinates and keys.
	Supabase backend.Config `mapstructure:"supabase"`
	// Database holds the optional direct SQL connection.
	Database database.Config `mapstructure:"database"`
	// Storage holds the optional S3-compatible bucket.
	Storage storage.Config `mapstructure:"storage"`
	// Server holds configuration for the HTTP surface.
	Server server.Config `mapstructure:"server"`
	// Log holds configuration for the logger.
	Log logger.Config `mapstructure:"log"`
	// Probe holds probe defaults (table, columns, round-trip columns).
	Probe probe.Config `mapstructure:"probe"`
}

// LoadConfig loads configuration from environment variables and an optional
// .env file in path. Variables already set in the .env file win over the
// process environment.
func LoadConfig(path string) (*Config, error) {
	// Ignore error if file doesn't exist (e.g. CI)
	_ = godotenv.Overload(filepath.Join(path, ".env"))

	v := viper.New()

	// Register every key with its default so AutomaticEnv can see it
	bindValues(v, Config{}, "")

	// SUPABASE_ANON_KEY -> supabase.anon_key
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, err
	}

	return &config, nil
}

// bindValues walks the struct and sets viper defaults from the 'default' and
// 'mapstructure' tags.
func bindValues(v *viper.Viper, iface any, prefix string) {
	t := reflect.TypeOf(iface)
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		tag := field.Tag.Get("mapstructure")
		if tag == "" {
			continue
		}

		key := tag
		if prefix != "" {
			key = prefix + "." + tag
		}

		if field.Type.Kind() == reflect.Struct {
			bindValues(v, reflect.New(field.Type).Elem().Interface(), key)
			continue
		}

		v.SetDefault(key, field.Tag.Get("default"))
	}
}
