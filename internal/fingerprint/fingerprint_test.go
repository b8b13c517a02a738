package fingerprint

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSum(t *testing.T) {
	tests := []struct {
		name    string
		content []byte
		same    []byte
		diff    []byte
	}{
		{
			name:    "source-sized text",
			content: []byte("import Index from './pages/index.js'\n"),
			same:    []byte("import Index from './pages/index.js'\n"),
			diff:    []byte("import Index from './pages/index.jsx'\n"),
		},
		{
			name:    "empty content",
			content: []byte{},
			same:    []byte{},
			diff:    []byte("x"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, Sum(tt.content), Sum(tt.same), "equal content must produce equal digests")
			assert.NotEqual(t, Sum(tt.content), Sum(tt.diff), "different content must produce different digests")
		})
	}
}

func TestSumFixedLength(t *testing.T) {
	inputs := [][]byte{
		nil,
		[]byte("a"),
		[]byte("new App({})"),
		make([]byte, 64*1024),
	}

	for _, input := range inputs {
		assert.Len(t, string(Sum(input)), 8)
	}
}

func TestSumFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "router.js")
	content := []byte("// Code generated\n")

	require.NoError(t, os.WriteFile(path, content, 0o644))

	digest, err := SumFile(path)
	require.NoError(t, err)
	assert.Equal(t, Sum(content), digest)
}

func TestSumFileMissing(t *testing.T) {
	_, err := SumFile(filepath.Join(t.TempDir(), "missing.js"))
	assert.True(t, os.IsNotExist(err))
}
