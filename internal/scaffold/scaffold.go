// Package scaffold creates new Lume projects for the init command.
package scaffold

import (
	"fmt"
	"os"
	"path/filepath"

	lumeerrors "github.com/lumeui/lume-cli/internal/errors"
	"github.com/lumeui/lume-cli/internal/pages"
)

const packageJSONTemplate = `{
  "name": %q,
  "private": true,
  "dependencies": {
    "lume": "^1.0.0"
  }
}
`

const configTemplate = `home: index
pages: src/pages
ssr: false
title: %s
`

const indexHTMLTemplate = `<!DOCTYPE html>
<html>
<head>
  <meta charset="utf-8">
  <title>%s</title>
</head>
<body>
  <div id="app"></div>
  <script src="/router.js" type="module"></script>
</body>
</html>
`

// Generate lays out a new project under dir. The directory may exist but
// must be empty; anything else is refused rather than overwritten.
func Generate(dir, name string) error {
	if entries, err := os.ReadDir(dir); err == nil && len(entries) > 0 {
		return lumeerrors.NewConfigError("scaffold_nonempty",
			"target directory is not empty").WithPath(dir)
	} else if err != nil && !os.IsNotExist(err) {
		return lumeerrors.NewIOError("scaffold_read", "inspecting target directory", err, false).WithPath(dir)
	}

	files := map[string]string{
		"package.json":                fmt.Sprintf(packageJSONTemplate, name),
		".lume.yml":                   fmt.Sprintf(configTemplate, name),
		filepath.Join("src", "pages", "index.js"): pages.PlaceholderTemplate,
		filepath.Join("public", "index.html"):     fmt.Sprintf(indexHTMLTemplate, name),
	}

	for rel, content := range files {
		path := filepath.Join(dir, rel)
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return lumeerrors.NewIOError("scaffold_mkdir", "creating project directory", err, false).WithPath(filepath.Dir(path))
		}
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			return lumeerrors.NewIOError("scaffold_write", "writing project file", err, false).WithPath(path)
		}
	}

	return nil
}
