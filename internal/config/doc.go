// Package config loads and validates application settings from environment
// variables and an optional config file, giving the rest of the service
// typed access to server, database, auth, storage and pub/sub options.
package config
