// Package config provides configuration management for backend-probe.
//
// It loads an optional .env file with godotenv and then resolves every key
// through Viper, using the `default` struct tags of each section as fallbacks.
//
// # Configuration Structure
//
// The Config struct is divided into subsections, each owned by its package:
//   - Supabase: endpoint URL, anon key, service-role key, role, access token
//   - Database: optional direct SQL connection (postgres, mysql, sqlite)
//   - Storage: optional S3-compatible bucket
//   - Server: HTTP port and API key for the serve command
//   - Log: logging level and format
//   - Probe: default table, columns and round-trip settings
//
// Environment variables map onto nested keys by replacing dots with
// underscores, e.g. SUPABASE_ANON_KEY -> supabase.anon_key.
//
// # Usage
//
//	cfg, err := config.LoadConfig(".")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	creds := cfg.Supabase.Credentials()
package config
