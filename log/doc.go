// Package log provides structured logging handler construction for use with
// [log/slog].
//
// It supports two output formats, [FormatJSON] and [FormatLogfmt], and the
// usual slog severity levels parsed from strings via [GetLevel]. Use
// [CreateHandler] to build a handler directly from a [slog.Level] and
// [Format], or [CreateHandlerWithStrings] when those values come from
// user-supplied strings (a config file, an environment variable):
//
//	cfg := log.NewConfig()
//	cfg.Level, cfg.Format = "debug", "json"
//
//	handler, err := cfg.NewHandler(os.Stderr)
//	if err != nil {
//	    return err
//	}
//	slog.SetDefault(slog.New(handler))
package log
