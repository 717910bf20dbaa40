package common

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"
)

// GetEnv looks up a key under its name in env or name+_FILE to read the value
// from a file. fallback will be defaulted to if a value is not found.
func GetEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	} else if value, ok := os.LookupEnv(key + "_FILE"); ok {
		dat, err := os.ReadFile(filepath.Clean(value))
		if err == nil {
			return strings.TrimSpace(string(dat))
		}
		logrus.WithError(err).WithFields(logrus.Fields{"environment_key": key + "_FILE"}).Warn("Could not read value from file")
	}
	return fallback
}

// GetEnvBool is GetEnv for booleans; unparseable values yield fallback.
func GetEnvBool(key string, fallback bool) bool {
	value := GetEnv(key, "")
	if value == "" {
		return fallback
	}
	b, err := strconv.ParseBool(value)
	if err != nil {
		logrus.WithError(err).WithFields(logrus.Fields{"string": value, "environment_key": key}).Warn("Failed to convert string to bool")
		return fallback
	}
	return b
}
