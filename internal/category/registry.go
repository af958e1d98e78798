package category

import (
	"os"
	"path/filepath"
	"runtime"

	"github.com/adrg/xdg"
)

// Defaults returns the built-in categories for the current platform, rooted
// at home.
func Defaults(home string) []Definition {
	if runtime.GOOS == "darwin" {
		return darwinDefaults(home)
	}
	return xdgDefaults()
}

func darwinDefaults(home string) []Definition {
	library := filepath.Join(home, "Library")
	defs := []Definition{
		{
			Name:        "system.cache",
			DisplayName: "System Caches",
			Icon:        "square.3.layers.3d.top.filled",
			Path:        filepath.Join(library, "Caches"),
			Selected:    true,
		},
		{
			Name:        "xcode.cache",
			DisplayName: "Xcode Derived Data",
			Icon:        "hammer.fill",
			Path:        filepath.Join(library, "Developer", "Xcode", "DerivedData"),
			Selected:    true,
		},
		{
			Name:        "system.logs",
			DisplayName: "System Logs",
			Icon:        "doc.text.fill",
			Path:        filepath.Join(library, "Logs"),
			Selected:    true,
		},
		{
			Name:        "app.state",
			DisplayName: "Saved Application State",
			Icon:        "folder.fill.badge.gearshape",
			Path:        filepath.Join(library, "Saved Application State"),
			Selected:    true,
		},
	}
	// launchd sets TMPDIR to the per-user /var/folders/.../T directory.
	if dir, ok := userTempDir(); ok {
		defs = append(defs, Definition{
			Name:        "temp.cache",
			DisplayName: "Temporary Files",
			Icon:        "trash.fill",
			Path:        dir,
			Selected:    true,
		})
	}
	return defs
}

func xdgDefaults() []Definition {
	defs := []Definition{
		{
			Name:        "system.cache",
			DisplayName: "User Caches",
			Icon:        "square.3.layers.3d.top.filled",
			Path:        xdg.CacheHome,
			Selected:    true,
		},
		{
			Name:        "system.logs",
			DisplayName: "Logs",
			Icon:        "doc.text.fill",
			Path:        filepath.Join(xdg.StateHome, "log"),
			Selected:    true,
		},
	}
	if dir, ok := userTempDir(); ok {
		defs = append(defs, Definition{
			Name:        "temp.cache",
			DisplayName: "Temporary Files",
			Icon:        "trash.fill",
			Path:        dir,
			Selected:    true,
		})
	}
	return defs
}

// sharedTempDirs hold other users' and live processes' files (sockets,
// locks) and are never cleaned as a whole.
var sharedTempDirs = map[string]bool{
	"/":        true,
	"/tmp":     true,
	"/var/tmp": true,
	"/dev/shm": true,

	"/private/tmp":     true,
	"/private/var/tmp": true,
}

// userTempDir returns $TMPDIR when it names a per-user directory. Without it
// the temp dir is the shared /tmp, so no temp category is registered.
func userTempDir() (string, bool) {
	dir := os.Getenv("TMPDIR")
	if dir == "" || !filepath.IsAbs(dir) {
		return "", false
	}
	dir = filepath.Clean(dir)
	if sharedTempDirs[dir] {
		return "", false
	}
	if resolved, err := filepath.EvalSymlinks(dir); err == nil && sharedTempDirs[resolved] {
		return "", false
	}
	return dir, true
}

// Build merges the defaults with user-defined extras, dropping disabled
// names. Extras replace a default of the same name.
func Build(defaults, extra []Definition, disabled []string) []Definition {
	skip := make(map[string]bool, len(disabled))
	for _, name := range disabled {
		skip[name] = true
	}

	override := make(map[string]Definition, len(extra))
	for _, d := range extra {
		override[d.Name] = d
	}

	result := make([]Definition, 0, len(defaults)+len(extra))
	seen := make(map[string]bool)
	for _, d := range defaults {
		if o, ok := override[d.Name]; ok {
			d = o
		}
		if skip[d.Name] || seen[d.Name] {
			continue
		}
		seen[d.Name] = true
		result = append(result, d)
	}
	for _, d := range extra {
		if skip[d.Name] || seen[d.Name] || d.Name == "" {
			continue
		}
		seen[d.Name] = true
		result = append(result, d)
	}
	return result
}
