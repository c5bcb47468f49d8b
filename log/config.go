package log

import (
	"io"
	"log/slog"
)

// Config holds level/format values for constructing a [slog.Handler].
//
// Create instances with [NewConfig] and set [Config.Level]/[Config.Format]
// directly, or build one by hand when those values arrive from somewhere
// other than strings (an embedding application's own config file, say).
type Config struct {
	Level  string
	Format string
}

// NewConfig returns a new [Config] defaulting to info/text.
func NewConfig() *Config {
	return &Config{
		Level:  "info",
		Format: "text",
	}
}

// NewHandler creates a new [slog.Handler] that writes to w, using the level
// and format strings stored in c. It delegates to [CreateHandlerWithStrings].
func (c *Config) NewHandler(w io.Writer) (slog.Handler, error) {
	return CreateHandlerWithStrings(w, c.Level, c.Format)
}
