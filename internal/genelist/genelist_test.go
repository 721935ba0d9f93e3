package genelist

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func writeList(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "genes.txt")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestReadDedupAndTrim(t *testing.T) {
	path := writeList(t, "TP53\nEGFR\nTP53\n")

	set, err := Read(path)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	want := []string{"EGFR", "TP53"}
	if got := set.List(); !reflect.DeepEqual(got, want) {
		t.Errorf("List() = %v, want %v", got, want)
	}
}

func TestReadSkipsBlanksAndWhitespace(t *testing.T) {
	path := writeList(t, "  TP53 \n\n\tEGFR\n   \nVCP\n")

	set, err := Read(path)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	want := []string{"EGFR", "TP53", "VCP"}
	if got := set.List(); !reflect.DeepEqual(got, want) {
		t.Errorf("List() = %v, want %v", got, want)
	}
}

func TestReadMissingFile(t *testing.T) {
	if _, err := Read(filepath.Join(t.TempDir(), "missing.txt")); err == nil {
		t.Error("expected error for missing input file")
	}
}

func TestJoinSplitRoundTrip(t *testing.T) {
	tests := []struct {
		name  string
		genes []string
	}{
		{"single", []string{"TP53"}},
		{"pair", []string{"TP53", "EGFR"}},
		{"many", []string{"VCP", "TP53", "EGFR", "MAPT", "SOD1"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			set := FromSlice(tt.genes)
			back := Split(set.Join())
			if !reflect.DeepEqual(back, set) {
				t.Errorf("Split(Join()) = %v, want %v", back.List(), set.List())
			}
		})
	}
}

func TestSplitEmpty(t *testing.T) {
	if got := Split(""); got.Len() != 0 {
		t.Errorf("Split(\"\") has %d entries, want 0", got.Len())
	}
}

func TestJoinUsesSeparator(t *testing.T) {
	set := FromSlice([]string{"EGFR", "TP53"})
	if got, want := set.Join(), "EGFR%0dTP53"; got != want {
		t.Errorf("Join() = %q, want %q", got, want)
	}
}

func TestFromSliceDedup(t *testing.T) {
	set := FromSlice([]string{"TP53", " TP53", "TP53 ", ""})
	if set.Len() != 1 {
		t.Errorf("Len() = %d, want 1", set.Len())
	}
}
