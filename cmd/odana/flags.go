package main

import (
	"log/slog"
	"strings"

	"github.com/odana/odana-core/address"
	"github.com/odana/odana-core/primitives"
)

// decodeAddressFlag parses a bech32 address given on the command line,
// returning both the raw address and the network its prefix named.
func decodeAddressFlag(s string) (primitives.Address, address.Network, error) {
	return address.Decode(s)
}

// parseLogLevel maps the config's log level name onto slog's level type.
// Unrecognized names fall back to info, matching the teacher's permissive
// verbosity handling.
func parseLogLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
