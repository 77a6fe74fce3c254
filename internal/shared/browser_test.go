package shared

import (
	"strings"
	"testing"
)

func TestOpenBrowser(t *testing.T) {
	t.Run("Unsupported Platform", func(t *testing.T) {
		orig := getRuntime
		getRuntime = func() string { return "plan9" }
		defer func() { getRuntime = orig }()

		err := OpenBrowser("https://accounts.spotify.com/authorize")
		if err == nil {
			t.Fatal("expected an error on an unsupported platform")
		}
		if !strings.Contains(err.Error(), "plan9") {
			t.Errorf("expected platform name in error, got %v", err)
		}
	})

	t.Run("Missing Launcher Fails Without Panic", func(t *testing.T) {
		orig := getRuntime
		getRuntime = func() string { return "windows" }
		defer func() { getRuntime = orig }()

		// The launcher binary does not exist on this host; the command start
		// failure must surface as an error the login flow can fall back on.
		if err := OpenBrowser("https://accounts.spotify.com/authorize"); err == nil {
			t.Skip("launcher unexpectedly available")
		}
	})
}
