package core

import (
	"strings"
	"time"
)

// NowFunc is the clock used by every service. mockable
var NowFunc = time.Now

// CleanString trims all leading and trailing whitespace in `s` and optionally lowers it.
func CleanString(s string, lower ...bool) string {
	s = strings.TrimSpace(s)
	if len(lower) > 0 && lower[0] {
		return strings.ToLower(s)
	}
	return s
}

// Today returns the current date as YYYY-MM-DD.
func Today() string {
	return NowFunc().Format("2006-01-02")
}
