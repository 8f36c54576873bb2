package core

import "testing"

func TestEnsureLenReuse(t *testing.T) {
	buf := make([]float64, 4, 8)

	out := EnsureLen(buf, 6)
	if len(out) != 6 {
		t.Fatalf("len = %d, want 6", len(out))
	}
	if &out[0] != &buf[0] {
		t.Fatal("expected backing array to be reused")
	}
}

func TestEnsureLenGrow(t *testing.T) {
	buf := make([]float64, 2)
	out := EnsureLen(buf, 16)
	if len(out) != 16 {
		t.Fatalf("len = %d, want 16", len(out))
	}
	if len(EnsureLen(out, 0)) != 0 {
		t.Fatal("expected empty slice for n <= 0")
	}
}

func TestCloneIndependent(t *testing.T) {
	src := []float64{1, 2, 3}
	dst := Clone(src)
	dst[0] = 9
	if src[0] != 1 {
		t.Fatalf("src[0] = %v, want 1", src[0])
	}
	if Clone(nil) != nil {
		t.Fatal("Clone(nil) should be nil")
	}
}
