package results

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLayoutDerivesCanonicalPaths(t *testing.T) {
	l := NewLayout(filepath.Join("results", "virtual-screening"), "ridge")

	tests := []struct {
		name string
		got  string
		want string
	}{
		{
			name: "method dir",
			got:  l.MethodDir(),
			want: filepath.Join("results", "virtual-screening", "ridge"),
		},
		{
			name: "result dir",
			got:  l.ResultDir("KIT"),
			want: filepath.Join("results", "virtual-screening", "ridge", "KIT"),
		},
		{
			name: "output dir",
			got:  l.OutputDir("PARP1", 0),
			want: filepath.Join("results", "virtual-screening", "ridge", "PARP1", "predictions-trial-0"),
		},
		{
			name: "output file uses dataset basename",
			got:  l.OutputFile("PGR", 0, filepath.Join("data", "in.csv")),
			want: filepath.Join("results", "virtual-screening", "ridge", "PGR", "predictions-trial-0", "in.csv"),
		},
		{
			name: "model dir",
			got:  l.ModelDir("KIT", 2),
			want: filepath.Join("results", "virtual-screening", "ridge", "KIT", "model-2"),
		},
		{
			name: "manifest path",
			got:  l.ManifestPath(),
			want: filepath.Join("results", "virtual-screening", "ridge", "run-manifest.json"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.want {
				t.Errorf("got %q, want %q", tt.got, tt.want)
			}
		})
	}
}

func TestLayoutDeterministic(t *testing.T) {
	a := NewLayout("results", "ridge").OutputFile("KIT", 1, "/abs/path/data.csv")
	b := NewLayout("results", "ridge").OutputFile("KIT", 1, "/abs/path/data.csv")
	if a != b {
		t.Errorf("Path derivation must be deterministic: %q vs %q", a, b)
	}
}

func TestEnsureDirsIdempotent(t *testing.T) {
	dir := t.TempDir()
	l := NewLayout(dir, "ridge")

	for i := 0; i < 2; i++ {
		if err := l.EnsureResultDir("KIT"); err != nil {
			t.Fatalf("EnsureResultDir (pass %d) failed: %v", i, err)
		}
		if err := l.EnsureOutputDir("KIT", 0); err != nil {
			t.Fatalf("EnsureOutputDir (pass %d) failed: %v", i, err)
		}
	}

	if _, err := os.Stat(l.OutputDir("KIT", 0)); err != nil {
		t.Fatalf("Output dir missing after EnsureOutputDir: %v", err)
	}
}

func TestOutputExists(t *testing.T) {
	dir := t.TempDir()
	l := NewLayout(dir, "ridge")

	if l.OutputExists("KIT", 0, "in.csv") {
		t.Error("OutputExists should be false before the file is written")
	}

	if err := l.EnsureOutputDir("KIT", 0); err != nil {
		t.Fatalf("EnsureOutputDir failed: %v", err)
	}
	if err := os.WriteFile(l.OutputFile("KIT", 0, "in.csv"), []byte("x"), 0644); err != nil {
		t.Fatalf("failed to write output file: %v", err)
	}

	if !l.OutputExists("KIT", 0, "in.csv") {
		t.Error("OutputExists should be true after the file is written")
	}
	if !l.OutputExists("KIT", 0, filepath.Join("some", "other", "dir", "in.csv")) {
		t.Error("OutputExists should only depend on the dataset basename")
	}
}
