package router

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lumeui/lume-cli/internal/pages"
)

func fixtureSet(t *testing.T) (pages.PageSet, pages.Page, string) {
	t.Helper()

	root := t.TempDir()
	srcDir := filepath.Join(root, "src")
	pagesDir := filepath.Join(srcDir, "pages")
	require.NoError(t, os.MkdirAll(pagesDir, 0o755))

	index := pages.Page{Name: "index.js", Stem: "index", Ident: "Index", Path: filepath.Join(pagesDir, "index.js")}
	about := pages.Page{Name: "about.js", Stem: "about", Ident: "About", Path: filepath.Join(pagesDir, "about.js")}

	return pages.PageSet{about, index}, index, srcDir
}

func TestSynthesize(t *testing.T) {
	set, home, srcDir := fixtureSet(t)

	text, err := Synthesize(set, home, srcDir)
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(text, Header), "generated file must carry the header comment")
	assert.Contains(t, text, "import { App } from 'lume'")
	assert.Contains(t, text, "import Index from './pages/index.js'")
	assert.Contains(t, text, "import About from './pages/about.js'")
	assert.Contains(t, text, "home: new Index(),")
	assert.Contains(t, text, "'about': new About(),")

	// Home is excluded from the route table.
	assert.NotContains(t, text, "'index':")
	assert.Equal(t, 1, strings.Count(text, "': new"), "route table must contain exactly one entry")
}

func TestSynthesizeDeterministic(t *testing.T) {
	set, home, srcDir := fixtureSet(t)

	first, err := Synthesize(set, home, srcDir)
	require.NoError(t, err)
	second, err := Synthesize(set, home, srcDir)
	require.NoError(t, err)

	assert.Equal(t, first, second, "unchanged page set must synthesize byte-identical output")
}

func TestSynthesizeHomeOnly(t *testing.T) {
	_, home, srcDir := fixtureSet(t)

	text, err := Synthesize(pages.PageSet{home}, home, srcDir)
	require.NoError(t, err)

	assert.Contains(t, text, "home: new Index(),")
	assert.NotContains(t, text, "': new", "route table must be empty")
}

func TestSynthesizeQuotesAwkwardNames(t *testing.T) {
	_, home, srcDir := fixtureSet(t)
	obrien := pages.Page{
		Name:  "o'brien.js",
		Stem:  "o'brien",
		Ident: "Obrien",
		Path:  filepath.Join(srcDir, "pages", "o'brien.js"),
	}

	text, err := Synthesize(pages.PageSet{home, obrien}, home, srcDir)
	require.NoError(t, err)

	// Quotes in filenames must not break out of the string literals.
	assert.Contains(t, text, `import Obrien from './pages/o\'brien.js'`)
	assert.Contains(t, text, `'o\'brien': new Obrien(),`)
	assert.NotContains(t, text, "'o'brien'")
}

func TestWriteIfChanged(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "src", "router.js")

	wrote, err := WriteIfChanged(path, "first\n", false)
	require.NoError(t, err)
	assert.True(t, wrote, "missing file must be written")

	wrote, err = WriteIfChanged(path, "first\n", false)
	require.NoError(t, err)
	assert.False(t, wrote, "matching fingerprint must skip the write")

	wrote, err = WriteIfChanged(path, "second\n", false)
	require.NoError(t, err)
	assert.True(t, wrote, "changed content must be written")

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "second\n", string(content))
}

func TestWriteIfChangedNoMutationOnMatch(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "router.js")
	require.NoError(t, os.WriteFile(path, []byte("stable\n"), 0o644))

	before, err := os.Stat(path)
	require.NoError(t, err)

	wrote, err := WriteIfChanged(path, "stable\n", false)
	require.NoError(t, err)
	assert.False(t, wrote)

	after, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, before.ModTime(), after.ModTime(), "gated write must not touch the file")
}
