package theme

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

// ErrNotFound is returned when neither the user directory nor the bundle
// has a theme by the requested name.
var ErrNotFound = errors.New("theme not found")

// importRegex matches @import "file.css"; or @import 'file.css'; or @import url("file.css");
var importRegex = regexp.MustCompile(`@import\s+(?:url\s*\(\s*)?["']([^"']+)["']\s*\)?;?`)

// Theme is a resolved stylesheet.
type Theme struct {
	Name    string
	Path    string // Empty for bundled themes
	CSS     string // With imports inlined
	Bundled bool
}

// Resolve finds a theme by name. User themes in dir take precedence over
// bundled ones. An unknown name resolves to the default theme together with
// an error wrapping ErrNotFound, so callers can report it and carry on.
func Resolve(name, dir string) (*Theme, error) {
	if name == "" {
		name = DefaultThemeName
	}

	if dir != "" {
		path := filepath.Join(dir, name+".css")
		css, err := os.ReadFile(path)
		switch {
		case err == nil:
			return &Theme{
				Name: name,
				Path: path,
				CSS:  ProcessImports(string(css), filepath.Dir(path), nil),
			}, nil
		case !os.IsNotExist(err):
			return defaultTheme(), fmt.Errorf("failed to read theme %s: %w", path, err)
		}
	}

	if css, found := GetEmbeddedTheme(name); found {
		return &Theme{
			Name:    name,
			CSS:     ProcessImports(css, "", nil),
			Bundled: true,
		}, nil
	}

	return defaultTheme(), fmt.Errorf("%w: %s", ErrNotFound, name)
}

func defaultTheme() *Theme {
	css, _ := GetEmbeddedTheme(DefaultThemeName)
	return &Theme{
		Name:    DefaultThemeName,
		CSS:     ProcessImports(css, "", nil),
		Bundled: true,
	}
}

// ProcessImports resolves and inlines @import statements in CSS.
// Imports are resolved relative to baseDir, falling back to the bundled
// partials. The seen map prevents circular imports.
func ProcessImports(css string, baseDir string, seen map[string]bool) string {
	if seen == nil {
		seen = make(map[string]bool)
	}

	return importRegex.ReplaceAllStringFunc(css, func(match string) string {
		submatch := importRegex.FindStringSubmatch(match)
		if len(submatch) < 2 {
			return match
		}
		importPath := submatch[1]

		fullPath := importPath
		if !filepath.IsAbs(importPath) {
			fullPath = filepath.Join(baseDir, importPath)
		}

		if seen[fullPath] {
			return "/* circular import prevented: " + importPath + " */"
		}
		seen[fullPath] = true

		// Bundled themes have no directory and only import bundled partials.
		var imported []byte
		err := error(os.ErrNotExist)
		if baseDir != "" || filepath.IsAbs(importPath) {
			imported, err = os.ReadFile(fullPath)
		}
		if err != nil {
			baseName := filepath.Base(importPath)
			if strings.HasPrefix(baseName, "_") {
				if embedded, found := GetEmbeddedPartial(baseName); found {
					return "/* imported (embedded): " + importPath + " */\n" + ProcessImports(embedded, "", seen)
				}
			}
			if embedded, found := GetEmbeddedTheme(strings.TrimSuffix(baseName, ".css")); found {
				return "/* imported (embedded): " + importPath + " */\n" + ProcessImports(embedded, "", seen)
			}
			return "/* import failed: " + importPath + " - " + err.Error() + " */"
		}

		return "/* imported: " + importPath + " */\n" + ProcessImports(string(imported), filepath.Dir(fullPath), seen)
	})
}

// Info describes an available theme.
type Info struct {
	Name    string
	Path    string
	Bundled bool
}

// List returns the bundled themes followed by user themes in dir. A user
// theme that overrides a bundled one is listed once, with its path.
func List(dir string) ([]Info, error) {
	var themes []Info
	index := make(map[string]int)

	for _, name := range ListEmbeddedThemes() {
		index[name] = len(themes)
		themes = append(themes, Info{Name: name, Bundled: true})
	}

	if dir == "" {
		return themes, nil
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return themes, nil
		}
		return themes, err
	}

	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || filepath.Ext(name) != ".css" || strings.HasPrefix(name, "_") {
			continue
		}
		themeName := strings.TrimSuffix(name, ".css")
		info := Info{Name: themeName, Path: filepath.Join(dir, name)}
		if i, ok := index[themeName]; ok {
			themes[i] = info
			continue
		}
		index[themeName] = len(themes)
		themes = append(themes, info)
	}

	return themes, nil
}
