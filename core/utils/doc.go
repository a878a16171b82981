// Package utils provides small helpers shared across packages: loose conversion
// of backend values (JSON numbers, driver scalars) and masking of secrets before
// they reach a terminal or a log line.
package utils
