package category

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

func TestIDForIsStable(t *testing.T) {
	a := IDFor("system.cache")
	b := IDFor("system.cache")
	if a != b {
		t.Errorf("IDFor returned %v then %v for the same name", a, b)
	}
	if IDFor("system.logs") == a {
		t.Error("different names should produce different IDs")
	}
}

func TestNew(t *testing.T) {
	c := New(Definition{Name: "npm.cache", Path: "/tmp/npm", Selected: true})
	if c.DisplayName != "npm.cache" {
		t.Errorf("DisplayName = %q, want fallback to name", c.DisplayName)
	}
	if c.ID != IDFor("npm.cache") {
		t.Errorf("ID = %v, want %v", c.ID, IDFor("npm.cache"))
	}
	if !c.Selected {
		t.Error("expected Selected from definition")
	}
	if c.Scanned || c.Size != 0 || c.Files != 0 {
		t.Errorf("new category should be unscanned and empty, got %+v", c)
	}
}

func TestInvalidate(t *testing.T) {
	c := New(Definition{Name: "x"})
	c.Size, c.Files, c.Scanned = 100, 3, true
	c.Invalidate()
	if c.Size != 0 || c.Files != 0 || c.Scanned {
		t.Errorf("Invalidate left %+v", c)
	}
}

func TestDefaults(t *testing.T) {
	defs := Defaults("/Users/me")
	if len(defs) == 0 {
		t.Fatal("expected built-in categories")
	}
	names := make(map[string]bool)
	for _, d := range defs {
		if names[d.Name] {
			t.Errorf("duplicate category %q", d.Name)
		}
		names[d.Name] = true
		if d.Path == "" {
			t.Errorf("category %q has empty path", d.Name)
		}
		if !d.Selected {
			t.Errorf("category %q should default to selected", d.Name)
		}
	}
	for _, want := range []string{"system.cache", "system.logs"} {
		if !names[want] {
			t.Errorf("missing category %q", want)
		}
	}
	if runtime.GOOS == "darwin" {
		if defs[0].Path != "/Users/me/Library/Caches" {
			t.Errorf("system.cache path = %q", defs[0].Path)
		}
		if !names["xcode.cache"] || !names["app.state"] || !names["temp.cache"] {
			t.Error("darwin defaults should include xcode.cache, app.state and temp.cache")
		}
	}
}

func TestXDGDefaults_TempDir(t *testing.T) {
	private := t.TempDir()
	linked := filepath.Join(t.TempDir(), "tmp-link")
	if err := os.Symlink("/tmp", linked); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name   string
		tmpdir string
		want   string
	}{
		{"unset", "", ""},
		{"shared tmp", "/tmp", ""},
		{"shared tmp trailing slash", "/tmp/", ""},
		{"var tmp", "/var/tmp", ""},
		{"root", "/", ""},
		{"relative", "tmp", ""},
		{"symlink to tmp", linked, ""},
		{"private", private, private},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("TMPDIR", tt.tmpdir)

			var got *Definition
			defs := xdgDefaults()
			for i := range defs {
				if defs[i].Name == "temp.cache" {
					got = &defs[i]
				}
			}
			if tt.want == "" {
				if got != nil {
					t.Errorf("temp.cache registered at %q, want none", got.Path)
				}
				return
			}
			if got == nil {
				t.Fatal("temp.cache missing")
			}
			if got.Path != tt.want {
				t.Errorf("temp.cache path = %q, want %q", got.Path, tt.want)
			}
		})
	}
}

func TestDefaults_NeverSelectsSharedTemp(t *testing.T) {
	t.Setenv("TMPDIR", "")
	for _, d := range Defaults("/home/u") {
		if d.Selected && sharedTempDirs[filepath.Clean(d.Path)] {
			t.Errorf("category %q selects shared temp dir %q by default", d.Name, d.Path)
		}
	}
}

func TestBuild(t *testing.T) {
	defaults := []Definition{
		{Name: "a", Path: "/a", Selected: true},
		{Name: "b", Path: "/b", Selected: true},
		{Name: "c", Path: "/c", Selected: true},
	}
	extra := []Definition{
		{Name: "b", Path: "/custom-b", Selected: false},
		{Name: "d", Path: "/d", Selected: true},
		{Name: "", Path: "/nameless"},
	}

	got := Build(defaults, extra, []string{"c"})

	want := []struct {
		name string
		path string
	}{
		{"a", "/a"},
		{"b", "/custom-b"},
		{"d", "/d"},
	}
	if len(got) != len(want) {
		t.Fatalf("Build returned %d definitions, want %d: %+v", len(got), len(want), got)
	}
	for i, w := range want {
		if got[i].Name != w.name || got[i].Path != w.path {
			t.Errorf("got[%d] = %s %s, want %s %s", i, got[i].Name, got[i].Path, w.name, w.path)
		}
	}
	if got[1].Selected {
		t.Error("override should replace default selection")
	}
}
