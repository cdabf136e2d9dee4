// Package config reads runtime settings: environment variables for service
// endpoints and credentials, a yaml tuning file for simulation parameters.
package config

import (
	"os"
	"strconv"
)

// Get returns the environment variable or the fallback when unset.
func Get(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// GetInt returns the environment variable parsed as int, or the fallback
// when unset or unparseable.
func GetInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}
