package results

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func TestListTargetNames(t *testing.T) {
	dir := t.TempDir()

	files := []string{
		"PGR_target.pdb",
		"KIT_target.pdb",
		"KIT_target.pdbqt", // companion file, not a target marker
		"KIT_conf.txt",
		"readme.md",
	}
	for _, name := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("x"), 0644); err != nil {
			t.Fatalf("failed to write %s: %v", name, err)
		}
	}
	// Directories never count, even with a matching name
	if err := os.Mkdir(filepath.Join(dir, "FAKE_target.pdb"), 0755); err != nil {
		t.Fatalf("failed to create directory: %v", err)
	}

	names, err := ListTargetNames(dir)
	if err != nil {
		t.Fatalf("ListTargetNames failed: %v", err)
	}

	want := []string{"KIT", "PGR"}
	if !reflect.DeepEqual(names, want) {
		t.Errorf("got %v, want %v", names, want)
	}
}

func TestListTargetNamesMissingDir(t *testing.T) {
	if _, err := ListTargetNames(filepath.Join(t.TempDir(), "nope")); err == nil {
		t.Error("Expected an error for a missing targets directory")
	}
}
