package utils

import "strings"

// MaskSecret keeps the first few characters of an API key or token and hides the rest.
func MaskSecret(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	if len(s) <= 8 {
		return "***"
	}
	return s[:6] + "***"
}
