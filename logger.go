package blogkit

import (
	"strings"

	"github.com/labstack/gommon/log"
)

// NewLogger returns a gommon logger with the given prefix, at the level named
// by level ("debug", "info", "warn", "error", "off"). Unknown names mean info.
func NewLogger(prefix, level string) *log.Logger {
	l := log.New(prefix)
	l.SetLevel(parseLevel(level))
	return l
}

func parseLevel(level string) log.Lvl {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return log.DEBUG
	case "warn":
		return log.WARN
	case "error":
		return log.ERROR
	case "off":
		return log.OFF
	default:
		return log.INFO
	}
}
