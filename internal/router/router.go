// Package router synthesizes the generated router module for a Lume project.
//
// Given a page set and a resolved home page, Synthesize produces the router
// source text: a header comment, the framework entry import, one import per
// page (paths relative to the generated file's own directory), and an
// application-bootstrap expression instantiating the home page with a route
// table for everything else. WriteIfChanged gates the disk write behind a
// fingerprint comparison so that re-synthesis from an unchanged page set
// never touches the filesystem.
package router

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	lumeerrors "github.com/lumeui/lume-cli/internal/errors"
	"github.com/lumeui/lume-cli/internal/fingerprint"
	"github.com/lumeui/lume-cli/internal/pages"
)

// FileName is the generated router artifact, relative to the source root.
const FileName = "router.js"

// Header marks the artifact as machine-generated.
const Header = "// Code generated by lume-cli. DO NOT EDIT."

// Synthesize produces the router source text for a page set.
//
// Output is deterministic for a fixed set order and home selection: the home
// import comes first, remaining pages follow in set order, and the route
// table is keyed by each page's stem with the home page excluded.
func Synthesize(set pages.PageSet, home pages.Page, outDir string) (string, error) {
	var b strings.Builder

	b.WriteString(Header)
	b.WriteString("\n")
	b.WriteString("import { App } from 'lume'\n")

	homeImport, err := home.ImportPath(outDir)
	if err != nil {
		return "", err
	}
	fmt.Fprintf(&b, "import %s from %s\n", home.Ident, jsString(homeImport))

	routed := make(pages.PageSet, 0, len(set))
	for _, p := range set {
		if p.Stem == home.Stem {
			continue
		}
		imp, err := p.ImportPath(outDir)
		if err != nil {
			return "", err
		}
		fmt.Fprintf(&b, "import %s from %s\n", p.Ident, jsString(imp))
		routed = append(routed, p)
	}

	b.WriteString("\nnew App({\n")
	fmt.Fprintf(&b, "  home: new %s(),\n", home.Ident)
	b.WriteString("  routes: {\n")
	for _, p := range routed {
		fmt.Fprintf(&b, "    %s: new %s(),\n", jsString(p.Stem), p.Ident)
	}
	b.WriteString("  },\n")
	b.WriteString("})\n")

	return b.String(), nil
}

// jsString renders s as a single-quoted JavaScript string literal. Route keys
// and import paths come from filenames, which may carry quotes or backslashes.
func jsString(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `'`, `\'`)
	return "'" + s + "'"
}

// WriteIfChanged writes text to path only when no prior file exists or the
// on-disk fingerprint differs from the fingerprint of text. Returns whether
// a write happened. recoverable controls the severity of I/O failures:
// watcher-triggered passes pass true so a failure is logged, not fatal.
func WriteIfChanged(path, text string, recoverable bool) (bool, error) {
	fresh := fingerprint.Sum([]byte(text))

	if existing, err := fingerprint.SumFile(path); err == nil && existing == fresh {
		return false, nil
	} else if err != nil && !os.IsNotExist(err) {
		return false, lumeerrors.NewIOError("router_read", "reading generated router", err, recoverable).WithPath(path)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return false, lumeerrors.NewIOError("router_mkdir", "creating output directory", err, recoverable).WithPath(path)
	}

	if err := os.WriteFile(path, []byte(text), 0o644); err != nil {
		return false, lumeerrors.NewIOError("router_write", "writing generated router", err, recoverable).WithPath(path)
	}

	return true, nil
}
