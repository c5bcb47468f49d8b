package relax_test

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go.istra.dev/annotate/document"
	"go.istra.dev/annotate/log"
	"go.istra.dev/annotate/relax"
)

func parseString(t *testing.T, cfg relax.Config, text string) (string, error) {
	t.Helper()

	doc, err := relax.Parse(text, cfg)
	if err != nil {
		return "", err
	}

	s, ok := doc.(document.Str)
	require.Truef(t, ok, "expected document.Str, got %T", doc)

	return s.Text, nil
}

func parseInt(t *testing.T, cfg relax.Config, text string) int64 {
	t.Helper()

	doc, err := relax.Parse(text, cfg)
	require.NoError(t, err)

	i, ok := doc.(document.Int)
	require.Truef(t, ok, "expected document.Int, got %T", doc)

	return i.Value.ToInt64()
}

func parseFloat(t *testing.T, cfg relax.Config, text string) float64 {
	t.Helper()

	doc, err := relax.Parse(text, cfg)
	require.NoError(t, err)

	f, ok := doc.(document.Float)
	require.Truef(t, ok, "expected document.Float, got %T", doc)

	return float64(f)
}

func TestNull(t *testing.T) {
	t.Parallel()

	doc, err := relax.Parse("null", relax.Permissive())
	require.NoError(t, err)
	assert.Equal(t, document.Null{}, doc)
}

func TestBoolean(t *testing.T) {
	t.Parallel()

	doc, err := relax.Parse("true", relax.Permissive())
	require.NoError(t, err)
	assert.Equal(t, document.Bool(true), doc)

	doc, err = relax.Parse("false", relax.Permissive())
	require.NoError(t, err)
	assert.Equal(t, document.Bool(false), doc)
}

func TestString(t *testing.T) {
	t.Parallel()

	s, err := parseString(t, relax.Permissive(), `"foo"`)
	require.NoError(t, err)
	assert.Equal(t, "foo", s)

	s, err = parseString(t, relax.Permissive(), `"\"\'\\\/\b\f\n\r\t™\xac"`)
	require.NoError(t, err)
	assert.Equal(t, "\"'\\/\b\f\n\r\t™¬", s)

	_, err = parseString(t, relax.Permissive(), `"\e"`)
	require.Error(t, err)
}

func TestNumberBin(t *testing.T) {
	t.Parallel()

	assert.EqualValues(t, 0xA5, parseInt(t, relax.Permissive(), "0b10100101"))
	assert.EqualValues(t, -255, parseInt(t, relax.Permissive(), "-0b11111111"))
}

func TestNumberHex(t *testing.T) {
	t.Parallel()

	assert.EqualValues(t, 0x1234, parseInt(t, relax.Permissive(), "0x1234"))
	assert.EqualValues(t, -0x5678, parseInt(t, relax.Permissive(), "-0x5678"))
}

func TestNumberOct(t *testing.T) {
	t.Parallel()

	assert.EqualValues(t, 0o755, parseInt(t, relax.Permissive(), "0o755"))
	assert.EqualValues(t, -64, parseInt(t, relax.Permissive(), "-0o100"))
}

func TestNumberDec(t *testing.T) {
	t.Parallel()

	assert.EqualValues(t, 1234, parseInt(t, relax.Permissive(), "+1234"))
	assert.EqualValues(t, -5678, parseInt(t, relax.Permissive(), "-5678"))
}

func TestNumberFloat(t *testing.T) {
	t.Parallel()

	assert.InDelta(t, 1234.56, parseFloat(t, relax.Permissive(), "+1234.56"), 1e-9)
	assert.InDelta(t, -5e6, parseFloat(t, relax.Permissive(), "-5e6"), 1e-9)
	assert.True(t, parseFloat(t, relax.Permissive(), "Infinity") > 1e300)
}

func kvStrings(t *testing.T, frag document.Node) (string, string) {
	t.Helper()

	key, val, err := document.AsKV(frag)
	require.NoError(t, err)

	ks, ok := key.(document.Str)
	require.True(t, ok)

	vs, ok := val.(document.Str)
	require.True(t, ok)

	return ks.Text, vs.Text
}

func TestMapping(t *testing.T) {
	t.Parallel()

	doc, err := relax.Parse(`{"foo": "bar", baz: "boo"}`, relax.Permissive())
	require.NoError(t, err)

	m, ok := doc.(document.Mapping)
	require.True(t, ok)
	require.Len(t, m, 2)

	k, v := kvStrings(t, m[0])
	assert.Equal(t, "foo", k)
	assert.Equal(t, "bar", v)

	k, v = kvStrings(t, m[1])
	assert.Equal(t, "baz", k)
	assert.Equal(t, "boo", v)
}

func TestSequence(t *testing.T) {
	t.Parallel()

	doc, err := relax.Parse("[true, false, 3.14159]", relax.Permissive())
	require.NoError(t, err)

	s, ok := doc.(document.Sequence)
	require.True(t, ok)
	require.Len(t, s, 3)
	assert.Equal(t, document.Bool(true), s[0])
	assert.Equal(t, document.Bool(false), s[1])
	_, ok = s[2].(document.Float)
	assert.True(t, ok)
}

func TestCommentAttachment(t *testing.T) {
	t.Parallel()

	doc, err := relax.Parse(`[
		// Some true value
		// extended
		true,
		// A false value
		false
	]`, relax.Permissive())
	require.NoError(t, err)

	s, ok := doc.(document.Sequence)
	require.True(t, ok)
	require.Len(t, s, 2)

	for _, elem := range s {
		frag, ok := elem.(document.Fragment)
		require.True(t, ok)
		require.Len(t, frag, 2)

		_, _, isComment := document.AsComment(frag[0])
		assert.True(t, isComment)
	}
}

func TestDialectComments(t *testing.T) {
	t.Parallel()

	_, err := relax.Parse("// foo", relax.JSON())
	require.Error(t, err)
	_, err = relax.Parse("# foo", relax.JSON())
	require.Error(t, err)
	_, err = relax.Parse("/* foo */", relax.JSON())
	require.Error(t, err)

	_, err = relax.Parse("// foo", relax.JSON5())
	require.NoError(t, err)
	_, err = relax.Parse("# foo", relax.JSON5())
	require.Error(t, err)
	_, err = relax.Parse("/* foo */", relax.JSON5())
	require.NoError(t, err)

	_, err = relax.Parse("// foo", relax.HJSON())
	require.NoError(t, err)
	_, err = relax.Parse("# foo", relax.HJSON())
	require.NoError(t, err)
	_, err = relax.Parse("/* foo */", relax.HJSON())
	require.NoError(t, err)
}

func TestDialectCommas(t *testing.T) {
	t.Parallel()

	_, err := relax.Parse("[true, false]", relax.JSON())
	require.NoError(t, err)
	_, err = relax.Parse("[true, false,]", relax.JSON())
	require.Error(t, err)
	_, err = relax.Parse("[true\nfalse]", relax.JSON())
	require.Error(t, err)

	_, err = relax.Parse("[true, false,]", relax.JSON5())
	require.NoError(t, err)
	_, err = relax.Parse("[true\nfalse]", relax.JSON5())
	require.Error(t, err)

	_, err = relax.Parse("[true, false,]", relax.HJSON())
	require.NoError(t, err)
	_, err = relax.Parse("[true\nfalse]", relax.HJSON())
	require.NoError(t, err)
}

func TestDialectStrings(t *testing.T) {
	t.Parallel()

	_, err := parseString(t, relax.JSON(), `'foo'`)
	require.Error(t, err)

	s, err := parseString(t, relax.JSON5(), `'foo'`)
	require.NoError(t, err)
	assert.Equal(t, "foo", s)

	_, err = relax.Parse("{a: true}", relax.JSON())
	require.Error(t, err)

	_, err = relax.Parse("{a: true}", relax.JSON5())
	require.NoError(t, err)
}

func TestUnquotedHJSON(t *testing.T) {
	t.Parallel()

	doc, err := relax.Parse("{name: Fred}", relax.HJSON())
	require.NoError(t, err)

	m, ok := doc.(document.Mapping)
	require.True(t, ok)

	_, v, err := document.AsKV(m[0])
	require.NoError(t, err)

	vs, ok := v.(document.Str)
	require.True(t, ok)
	assert.Equal(t, "Fred", vs.Text)
	assert.Equal(t, document.StrUnquoted, vs.Format)
}

func TestSyntaxErrorCaret(t *testing.T) {
	t.Parallel()

	_, err := relax.Parse("# nope", relax.JSON())
	require.Error(t, err)

	var synErr *relax.SyntaxError

	require.ErrorAs(t, err, &synErr)
	assert.Equal(t, 1, synErr.Line)
	assert.Contains(t, synErr.Caret(), "^")
}

func TestConfigLoggerTracesCommentAttachment(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer

	handler := log.CreateHandler(&buf, slog.LevelDebug, log.FormatLogfmt)
	cfg := relax.Permissive()
	cfg.Logger = slog.New(handler)

	_, err := relax.Parse(`{
		// a comment
		a: 1
	}`, cfg)
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "comment attached to mapping entry")
}
