package cli

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/lu-zhengda/cleanslim/internal/category"
	"github.com/lu-zhengda/cleanslim/internal/engine"
	"github.com/lu-zhengda/cleanslim/internal/inspect"
)

type sizeInspector map[string]int64

func (s sizeInspector) Inspect(_ context.Context, path string) inspect.Stats {
	return inspect.Stats{Size: s[path], Files: 1}
}

func testEngine() *engine.Engine {
	return engine.New([]category.Definition{
		{Name: "system.cache", Path: "/c", Selected: true},
		{Name: "system.logs", Path: "/l", Selected: false},
		{Name: "temp.cache", Path: "/t", Selected: true},
	}, nil)
}

func selectedNames(e *engine.Engine) []string {
	var names []string
	for _, c := range e.Categories() {
		if c.Selected {
			names = append(names, c.Name)
		}
	}
	return names
}

func TestApplySelectionOverride(t *testing.T) {
	tests := []struct {
		name    string
		all     bool
		only    []string
		want    []string
		wantErr bool
	}{
		{"no override", false, nil, []string{"system.cache", "temp.cache"}, false},
		{"all", true, nil, []string{"system.cache", "system.logs", "temp.cache"}, false},
		{"only", false, []string{"system.logs"}, []string{"system.logs"}, false},
		{"only trims spaces", false, []string{" temp.cache"}, []string{"temp.cache"}, false},
		{"only unknown", false, []string{"nope"}, nil, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := testEngine()
			err := applySelectionOverride(e, tt.all, tt.only)
			if tt.wantErr {
				if !errors.Is(err, engine.ErrUnknownCategory) {
					t.Errorf("error = %v, want ErrUnknownCategory", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("applySelectionOverride failed: %v", err)
			}
			got := selectedNames(e)
			if fmt.Sprint(got) != fmt.Sprint(tt.want) {
				t.Errorf("selected = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestDeselectSmall(t *testing.T) {
	e := testEngine()
	e.SetInspector(sizeInspector{"/c": 500, "/l": 10, "/t": 50})
	if err := scanNow(context.Background(), e); err != nil {
		t.Fatalf("scanNow failed: %v", err)
	}

	if err := deselectSmall(e, 0); err != nil {
		t.Fatal(err)
	}
	if got := fmt.Sprint(selectedNames(e)); got != "[system.cache temp.cache]" {
		t.Errorf("zero threshold changed selection: %s", got)
	}

	if err := deselectSmall(e, 100); err != nil {
		t.Fatal(err)
	}
	if got := fmt.Sprint(selectedNames(e)); got != "[system.cache]" {
		t.Errorf("selected = %s, want [system.cache]", got)
	}
}

func TestParseOnOff(t *testing.T) {
	tests := []struct {
		in      string
		want    bool
		wantErr bool
	}{
		{"on", true, false},
		{"yes", true, false},
		{"off", false, false},
		{"false", false, false},
		{"maybe", false, true},
	}
	for _, tt := range tests {
		got, err := parseOnOff(tt.in)
		if (err != nil) != tt.wantErr || got != tt.want {
			t.Errorf("parseOnOff(%q) = %v, %v", tt.in, got, err)
		}
	}
}
