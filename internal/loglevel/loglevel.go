// Package loglevel defines the fixed severity enum for ingested entries.
package loglevel

import "strings"

// Default is the level assigned when a submission omits one.
const Default = "INFO"

// Levels lists the accepted severity levels in ascending order.
var Levels = []string{"DEBUG", "INFO", "WARN", "ERROR", "FATAL"}

// Valid reports whether lvl (already uppercase) is a member of the enum.
func Valid(lvl string) bool {
	for _, l := range Levels {
		if lvl == l {
			return true
		}
	}
	return false
}

// Normalize uppercases lvl and reports whether the result is an accepted
// level. An empty input normalizes to the default level.
func Normalize(lvl string) (string, bool) {
	if lvl == "" {
		return Default, true
	}
	upper := strings.ToUpper(strings.TrimSpace(lvl))
	return upper, Valid(upper)
}

// All returns a comma-separated list of accepted levels, for error messages.
func All() string {
	return strings.Join(Levels, ", ")
}
