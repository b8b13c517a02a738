//go:build property

package router

import (
	"path/filepath"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	"github.com/lumeui/lume-cli/internal/pages"
)

// TestSynthesisProperties validates synthesis idempotence and the
// fingerprint write gate over arbitrary page sets.
func TestSynthesisProperties(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.Rng.Seed(1337)
	parameters.MinSuccessfulTests = 50

	properties := gopter.NewProperties(parameters)

	buildSet := func(stems []string, srcDir string) pages.PageSet {
		set := make(pages.PageSet, 0, len(stems))
		seen := make(map[string]struct{})
		for _, s := range stems {
			stem, ident := pages.DeriveIdentifier(s + ".js")
			if stem == "" {
				continue
			}
			if _, dup := seen[stem]; dup {
				continue
			}
			seen[stem] = struct{}{}
			set = append(set, pages.Page{
				Name:  stem + ".js",
				Stem:  stem,
				Ident: ident,
				Path:  filepath.Join(srcDir, "pages", stem+".js"),
			})
		}
		return set
	}

	properties.Property("synthesis is byte-identical for an unchanged set", prop.ForAll(
		func(stems []string) bool {
			srcDir := t.TempDir()
			set := buildSet(stems, srcDir)
			if len(set) == 0 {
				return true
			}
			home := set[0]

			first, err1 := Synthesize(set, home, srcDir)
			second, err2 := Synthesize(set, home, srcDir)
			return err1 == nil && err2 == nil && first == second
		},
		gen.SliceOf(gen.AlphaString()),
	))

	properties.Property("second gated write never touches the file", prop.ForAll(
		func(stems []string) bool {
			srcDir := t.TempDir()
			set := buildSet(stems, srcDir)
			if len(set) == 0 {
				return true
			}

			text, err := Synthesize(set, set[0], srcDir)
			if err != nil {
				return false
			}

			path := filepath.Join(srcDir, FileName)
			wrote1, err1 := WriteIfChanged(path, text, false)
			wrote2, err2 := WriteIfChanged(path, text, false)
			return err1 == nil && err2 == nil && wrote1 && !wrote2
		},
		gen.SliceOf(gen.AlphaString()),
	))

	properties.TestingRun(t)
}
