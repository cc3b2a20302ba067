package ingest

import (
	"os"
	"path/filepath"
	"testing"
)

func TestScanDirs(t *testing.T) {
	root := t.TempDir()
	write := func(rel string) {
		t.Helper()
		p := filepath.Join(root, rel)
		if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(p, []byte("{}"), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	write("b.json")
	write("nested/a.JSON")
	write("notes.txt")
	write(".cache/c.json")

	files, err := ScanDirs(root, filepath.Join(root, "does-not-exist"), "")
	if err != nil {
		t.Fatalf("ScanDirs() error = %v", err)
	}
	got := Paths(files)
	want := []string{filepath.Join(root, "b.json"), filepath.Join(root, "nested", "a.JSON")}
	if len(got) != len(want) {
		t.Fatalf("ScanDirs() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("files[%d] = %s, want %s", i, got[i], want[i])
		}
	}
}
