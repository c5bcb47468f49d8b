// Package relax implements the permissive multi-dialect parser: a single
// grammar with fifteen independently togglable extensions beyond strict
// JSON (alternate integer bases, comments, relaxed commas, single-quoted
// and unquoted strings, triple-quoted multiline blocks), converting source
// text directly to a [document.Node] tree.
//
// [JSON], [JSON5], and [HJSON] are named presets over that one grammar;
// [Permissive] enables every extension, and the zero-value [Config] is
// strict JSON.
package relax

import "log/slog"

// Config is the permissive-parser feature set. Each field independently
// enables one grammar extension beyond strict JSON; the zero value is
// strict JSON (every extension off).
type Config struct {
	// CommaTrailing allows a trailing comma before a closing ] or }.
	CommaTrailing bool
	// CommaOptional allows a newline to separate elements when the comma
	// between them is omitted.
	CommaOptional bool
	// NumberBin permits 0b-prefixed integer literals.
	NumberBin bool
	// NumberHex permits 0x-prefixed integer literals.
	NumberHex bool
	// NumberOct permits 0o-prefixed integer literals.
	NumberOct bool
	// NumberPlus permits a leading + on numeric literals.
	NumberPlus bool
	// NumberLaxDecPoint permits a leading or trailing decimal point
	// ("1." or ".1") on float literals.
	NumberLaxDecPoint bool
	// StringSingleQuote permits '...' strings in addition to "...".
	StringSingleQuote bool
	// StringUnquoted permits HJSON's bareword rest-of-line string values.
	StringUnquoted bool
	// StringIdent permits identifier-shaped bare keys in mappings.
	StringIdent bool
	// StringJSON5Multiline accepts a backslash immediately before a
	// newline inside a quoted string as a line continuation.
	StringJSON5Multiline bool
	// StringHJSONMultiline permits '''...''' triple-quoted blocks.
	StringHJSONMultiline bool
	// CommentSlash permits //... line comments.
	CommentSlash bool
	// CommentHash permits #... line comments.
	CommentHash bool
	// CommentBlock permits /* ... */ block comments.
	CommentBlock bool

	// Logger, if non-nil, receives a debug-level trace of comment-attachment
	// decisions as the parser groups a comment with the key/value pair or
	// array element that precedes or follows it. Nil disables tracing
	// entirely; this never affects parse results, only observability.
	Logger *slog.Logger
}

// Permissive returns a Config with every extension enabled.
func Permissive() Config {
	return Config{
		CommaTrailing:        true,
		CommaOptional:        true,
		NumberBin:            true,
		NumberHex:            true,
		NumberOct:            true,
		NumberPlus:           true,
		NumberLaxDecPoint:    true,
		StringSingleQuote:    true,
		StringUnquoted:       true,
		StringIdent:          true,
		StringJSON5Multiline: true,
		StringHJSONMultiline: true,
		CommentSlash:         true,
		CommentHash:          true,
		CommentBlock:         true,
	}
}

// JSON returns a strict-JSON Config: every extension disabled.
func JSON() Config {
	return Config{}
}

// JSON5 returns the json5 dialect: [Permissive] minus {CommaOptional,
// StringUnquoted, StringHJSONMultiline, CommentHash, NumberBin, NumberOct}.
func JSON5() Config {
	c := Permissive()
	c.CommaOptional = false
	c.StringUnquoted = false
	c.StringHJSONMultiline = false
	c.CommentHash = false
	c.NumberBin = false
	c.NumberOct = false

	return c
}

// HJSON returns the hjson dialect: [Permissive] minus
// {StringJSON5Multiline, NumberBin, NumberHex, NumberOct, NumberPlus,
// NumberLaxDecPoint}.
func HJSON() Config {
	c := Permissive()
	c.StringJSON5Multiline = false
	c.NumberBin = false
	c.NumberHex = false
	c.NumberOct = false
	c.NumberPlus = false
	c.NumberLaxDecPoint = false

	return c
}
