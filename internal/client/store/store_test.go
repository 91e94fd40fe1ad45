package store

import (
	"path/filepath"
	"testing"

	"go.uber.org/zap"
)

func openTest(t *testing.T, path string) *Store {
	t.Helper()
	s, err := Open(path, zap.NewNop())
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestReadAbsent(t *testing.T) {
	s := openTest(t, filepath.Join(t.TempDir(), "klinik.db"))

	if _, ok := s.Read("patients"); ok {
		t.Error("expected absent for never-written key")
	}
	var dest []string
	if s.ReadJSON("patients", &dest) {
		t.Error("ReadJSON reported ok for absent key")
	}
}

func TestWriteReadRoundTrip(t *testing.T) {
	s := openTest(t, filepath.Join(t.TempDir(), "klinik.db"))

	in := map[string]int{"a": 1, "b": 2}
	if err := s.WriteJSON("counts", in); err != nil {
		t.Fatalf("WriteJSON failed: %v", err)
	}

	var out map[string]int
	if !s.ReadJSON("counts", &out) {
		t.Fatal("ReadJSON reported absent after write")
	}
	if out["a"] != 1 || out["b"] != 2 {
		t.Errorf("unexpected value: %+v", out)
	}
}

func TestWriteReplacesPriorValue(t *testing.T) {
	s := openTest(t, filepath.Join(t.TempDir(), "klinik.db"))

	if err := s.WriteJSON("k", "first"); err != nil {
		t.Fatal(err)
	}
	if err := s.WriteJSON("k", "second"); err != nil {
		t.Fatal(err)
	}

	var out string
	if !s.ReadJSON("k", &out) || out != "second" {
		t.Errorf("expected replaced value, got %q", out)
	}
}

// Durability: a value written before close must be readable after reopening
// the same file, simulating a process restart.
func TestDurableAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "klinik.db")

	s := openTest(t, path)
	if err := s.WriteJSON("patients", []string{"p1"}); err != nil {
		t.Fatal(err)
	}
	if err := s.Close(); err != nil {
		t.Fatal(err)
	}

	s2 := openTest(t, path)
	var out []string
	if !s2.ReadJSON("patients", &out) {
		t.Fatal("value lost across reopen")
	}
	if len(out) != 1 || out[0] != "p1" {
		t.Errorf("unexpected value after reopen: %v", out)
	}
}

// A corrupted row must be reported as absent, never crash or half-populate
// the destination.
func TestMalformedValueFailsSoft(t *testing.T) {
	s := openTest(t, filepath.Join(t.TempDir(), "klinik.db"))

	if _, err := s.db.Exec(`INSERT INTO kv (key, value) VALUES ('broken', '{not-json')`); err != nil {
		t.Fatal(err)
	}

	var dest map[string]string
	if s.ReadJSON("broken", &dest) {
		t.Error("ReadJSON reported ok for malformed value")
	}
	if dest != nil {
		t.Errorf("dest mutated on malformed value: %v", dest)
	}
}

func TestClear(t *testing.T) {
	s := openTest(t, filepath.Join(t.TempDir(), "klinik.db"))

	_ = s.WriteJSON("a", 1)
	_ = s.WriteJSON("b", 2)
	if err := s.Clear(); err != nil {
		t.Fatalf("Clear failed: %v", err)
	}
	if _, ok := s.Read("a"); ok {
		t.Error("key survived Clear")
	}
	if _, ok := s.Read("b"); ok {
		t.Error("key survived Clear")
	}
}
