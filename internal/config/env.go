package config

import (
	"os"
	"strconv"
)

// ApplyEnv overrides run settings from environment variables.
// Unset or unparsable variables leave the scenario value in place.
func (c *Config) ApplyEnv() {
	if val, ok := getEnvInt64("MARKETSIM_SEED"); ok {
		c.Seed = val
	}
	if val, ok := getEnvInt64("MARKETSIM_TICKS"); ok && val >= 0 {
		c.Ticks = uint64(val)
	}
	if val := os.Getenv("MARKETSIM_DB"); val != "" {
		c.DBPath = val
	}
	if val, ok := getEnvInt64("MARKETSIM_API_PORT"); ok && val >= 0 {
		c.APIPort = int(val)
	}
	if val := os.Getenv("MARKETSIM_LOG_LEVEL"); val != "" {
		c.LogLevel = val
	}
	if val := os.Getenv("MARKETSIM_ADMIN_KEY"); val != "" {
		c.AdminKey = val
	}
}

func getEnvInt64(key string) (int64, bool) {
	val := os.Getenv(key)
	if val == "" {
		return 0, false
	}
	n, err := strconv.ParseInt(val, 10, 64)
	if err != nil {
		return 0, false
	}
	return n, true
}
