package annotate_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	annotate "go.istra.dev/annotate"
	"go.istra.dev/annotate/jsonfmt"
)

type serverConfig struct {
	Host string `annotate:"host"`
	Port int    `annotate:"port"`
}

func TestMarshalUnmarshalRoundTrip(t *testing.T) {
	t.Parallel()

	cfg := serverConfig{Host: "localhost", Port: 8080}

	doc, err := annotate.Marshal(cfg)
	require.NoError(t, err)

	var out serverConfig

	require.NoError(t, annotate.Unmarshal(doc, &out))
	assert.Equal(t, cfg, out)
}

func TestFromString(t *testing.T) {
	t.Parallel()

	text := `{
		// a relaxed config
		host: "example.com",
		port: 9090,
	}`

	var cfg serverConfig

	require.NoError(t, annotate.FromString(text, &cfg))
	assert.Equal(t, "example.com", cfg.Host)
	assert.Equal(t, 9090, cfg.Port)
}

func TestParseThenEmit(t *testing.T) {
	t.Parallel()

	doc, err := annotate.Parse(`{a: 1, b: [true, false]}`)
	require.NoError(t, err)

	out, err := jsonfmt.String(doc, jsonfmt.JSON5Dialect())
	require.NoError(t, err)
	assert.Contains(t, out, "a: 1")
}
