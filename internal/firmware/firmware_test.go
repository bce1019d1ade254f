package firmware

import "testing"

func TestLoadMissingFileReturnsError(t *testing.T) {
	if _, err := Load("/nonexistent/path/does-not-exist.hex"); err == nil {
		t.Fatalf("expected error loading a nonexistent file")
	}
}
