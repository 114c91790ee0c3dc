package utils

import "os"

// Getenv retrieves the value of the environment variable named by the key.
// If the variable is unset or empty, the fallback string is returned.
func Getenv(key, fallback string) string {
	value := os.Getenv(key)
	if len(value) == 0 {
		return fallback
	}
	return value
}
