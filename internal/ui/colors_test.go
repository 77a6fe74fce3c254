package ui

import (
	"strings"
	"testing"

	"github.com/desertthunder/airlift/internal/tasks"
)

func TestRenderUpdate(t *testing.T) {
	cases := []struct {
		name   string
		update tasks.CycleUpdate
	}{
		{"Added", tasks.CycleUpdate{Outcome: tasks.Added, Message: "added a song"}},
		{"Catalog Down", tasks.CycleUpdate{Outcome: tasks.CatalogDown, Message: "catalog down"}},
		{"No Match", tasks.CycleUpdate{Outcome: tasks.NoMatch, Message: "no match"}},
		{"No Change", tasks.CycleUpdate{Outcome: tasks.NoChange, Message: "no new data"}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rendered := RenderUpdate(tc.update)
			if !strings.Contains(rendered, tc.update.Message) {
				t.Errorf("expected message %q in output %q", tc.update.Message, rendered)
			}
		})
	}
}

func TestTitle(t *testing.T) {
	if !strings.Contains(Title("Playlists"), "Playlists") {
		t.Error("expected title text to survive styling")
	}
}
