package configx

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sample struct {
	Addr string `json:"addr" yaml:"addr"`
	N    int    `json:"n" yaml:"n"`
}

func write(t *testing.T, name, body string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(p, []byte(body), 0o600))
	return p
}

func TestDecodeFile_JSON(t *testing.T) {
	var s sample
	require.NoError(t, DecodeFile(write(t, "c.json", `{"addr":"x:1","n":2}`), &s))
	assert.Equal(t, sample{Addr: "x:1", N: 2}, s)
}

func TestDecodeFile_YAML(t *testing.T) {
	for _, name := range []string{"c.yaml", "c.YML"} {
		var s sample
		require.NoError(t, DecodeFile(write(t, name, "addr: y:2\nn: 3\n"), &s))
		assert.Equal(t, sample{Addr: "y:2", N: 3}, s)
	}
}

func TestDecodeFile_Errors(t *testing.T) {
	var s sample
	require.ErrorContains(t, DecodeFile(filepath.Join(t.TempDir(), "missing.json"), &s), "read config")
	require.ErrorContains(t, DecodeFile(write(t, "bad.json", "{nope"), &s), "decode config")
}
