// Package pages provides page discovery for Lume projects.
//
// A page is a source file in the project's pages directory whose name ends in
// a recognized extension and does not carry the reserved ".part." infix
// (partials and other non-page artifacts). The scanner lists the directory
// non-recursively, derives identifiers from filenames, and resolves the home
// page according to a fixed priority order.
package pages

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	lumeerrors "github.com/lumeui/lume-cli/internal/errors"
)

// NonPageMarker is the reserved filename infix for non-page artifacts.
// A file like header.part.js sits in the pages directory but is never a page.
const NonPageMarker = ".part."

// Extensions lists the recognized page source extensions, in no particular
// priority order.
var Extensions = []string{".js", ".jsx", ".ts", ".tsx"}

// titleCaser capitalizes the leading rune of identifiers, Unicode-correct.
var titleCaser = cases.Title(language.Und)

// Page is one discovered page source file.
type Page struct {
	// Name is the filename as listed, e.g. "about.js".
	Name string
	// Stem is the case-folded filename stem, used as the route key.
	Stem string
	// Ident is the widget symbol name: the stem capitalized and reduced to
	// legal identifier runes.
	Ident string
	// Path is the absolute source path.
	Path string
}

// ImportPath computes the page's import path relative to the directory of
// the generated router, always slash-separated and rooted with "./".
func (p Page) ImportPath(fromDir string) (string, error) {
	rel, err := filepath.Rel(fromDir, p.Path)
	if err != nil {
		return "", lumeerrors.NewInternalError("page_relpath",
			fmt.Sprintf("computing import path for %s", p.Name), err)
	}

	rel = filepath.ToSlash(rel)
	if !strings.HasPrefix(rel, ".") {
		rel = "./" + rel
	}
	return rel, nil
}

// PageSet is one pages-directory snapshot. It is replaced wholesale on every
// scan and treated as immutable once handed to the synthesizer.
type PageSet []Page

// Find returns the page with the given stem, if any.
func (s PageSet) Find(stem string) (Page, bool) {
	for _, p := range s {
		if p.Stem == stem {
			return p, true
		}
	}
	return Page{}, false
}

// IsPageFile reports whether a filename qualifies as a page source file:
// recognized extension, no reserved non-page infix.
func IsPageFile(name string) bool {
	if strings.Contains(name, NonPageMarker) {
		return false
	}
	for _, ext := range Extensions {
		if strings.HasSuffix(name, ext) {
			return true
		}
	}
	return false
}

// DeriveIdentifier derives the route key and symbol name from a filename.
// Rules: strip the recognized extension, case-fold the stem for the route
// key, build the symbol name from the stem's identifier runes. Callers
// resolve duplicate stems across extensions by keeping the first listed file.
func DeriveIdentifier(name string) (stem, ident string) {
	base := name
	for _, ext := range Extensions {
		if strings.HasSuffix(base, ext) {
			base = strings.TrimSuffix(base, ext)
			break
		}
	}

	stem = strings.ToLower(base)

	if stem == "" {
		return "", ""
	}

	return stem, identFromStem(stem)
}

// identFromStem builds the widget symbol name from a route key. Filenames
// can carry runes that are illegal in a JavaScript identifier (apostrophes,
// hyphens); those are dropped, a digit-leading result gets a Page prefix,
// and the first rune is capitalized.
func identFromStem(stem string) string {
	var b strings.Builder
	for _, r := range stem {
		if r == '_' || r == '$' || unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}

	id := b.String()
	if id == "" {
		return "Page"
	}

	first, width := utf8.DecodeRuneInString(id)
	if unicode.IsDigit(first) {
		return "Page" + id
	}
	return titleCaser.String(id[:width]) + id[width:]
}

// Scan lists the pages directory and returns the filtered page set.
//
// Listing order follows os.ReadDir's lexical order, so output is reproducible
// across platforms. A missing directory yields an empty set; a path that
// exists but is not a directory is a fatal configuration error.
func Scan(dir string) (PageSet, error) {
	info, err := os.Stat(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return PageSet{}, nil
		}
		return nil, lumeerrors.NewIOError("pages_stat", "inspecting pages directory", err, false).WithPath(dir)
	}
	if !info.IsDir() {
		return nil, lumeerrors.NewConfigError("pages_not_directory",
			"pages path exists but is not a directory").WithPath(dir)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, lumeerrors.NewIOError("pages_list", "listing pages directory", err, false).WithPath(dir)
	}

	set := make(PageSet, 0, len(entries))
	seen := make(map[string]struct{}, len(entries))

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if !IsPageFile(name) {
			continue
		}

		stem, ident := DeriveIdentifier(name)
		if stem == "" {
			continue
		}
		if _, dup := seen[stem]; dup {
			// Duplicate stem across extensions: first listed file wins.
			continue
		}
		seen[stem] = struct{}{}

		abs, err := filepath.Abs(filepath.Join(dir, name))
		if err != nil {
			return nil, lumeerrors.NewIOError("pages_abs", "resolving page path", err, false).WithPath(name)
		}

		set = append(set, Page{
			Name:  name,
			Stem:  stem,
			Ident: ident,
			Path:  abs,
		})
	}

	return set, nil
}

// PlaceholderTemplate is the fixed content written for the default page when
// a project has no pages at all.
const PlaceholderTemplate = `import { Page } from 'lume'

export default class Index extends Page {
  render() {
    return this.html` + "`" + `<h1>Welcome to Lume</h1>` + "`" + `
  }
}
`

// AutoDetectHome resolves the home page for a set.
//
// Priority order, significant and fixed: the configured candidate if a page
// with that stem exists, then "index", then "home", then the first scanned
// page. An empty set triggers creation of a placeholder index page on disk,
// which is returned with created=true.
func AutoDetectHome(set PageSet, candidate, dir string) (home Page, created bool, err error) {
	for _, stem := range []string{candidate, "index", "home"} {
		if stem == "" {
			continue
		}
		if p, ok := set.Find(stem); ok {
			return p, false, nil
		}
	}

	if len(set) > 0 {
		return set[0], false, nil
	}

	return createPlaceholder(dir)
}

// createPlaceholder writes the default index page into the pages directory,
// creating the directory first when needed.
func createPlaceholder(dir string) (Page, bool, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return Page{}, false, lumeerrors.NewIOError("pages_mkdir", "creating pages directory", err, false).WithPath(dir)
	}

	path := filepath.Join(dir, "index.js")
	if err := os.WriteFile(path, []byte(PlaceholderTemplate), 0o644); err != nil {
		return Page{}, false, lumeerrors.NewIOError("pages_placeholder", "writing placeholder page", err, false).WithPath(path)
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return Page{}, false, lumeerrors.NewIOError("pages_abs", "resolving placeholder path", err, false).WithPath(path)
	}

	return Page{Name: "index.js", Stem: "index", Ident: "Index", Path: abs}, true, nil
}
