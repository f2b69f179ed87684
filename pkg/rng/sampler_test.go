package rng

import (
	"errors"
	"testing"
)

func TestUniformIndexRange(t *testing.T) {
	for n := 1; n <= 10; n++ {
		for i := 0; i < 100; i++ {
			idx, err := UniformIndex(n)
			if err != nil {
				t.Fatalf("UniformIndex(%d) returned error: %v", n, err)
			}
			if idx < 0 || idx >= n {
				t.Fatalf("UniformIndex(%d) = %d, out of range", n, idx)
			}
		}
	}
}

func TestUniformIndexEmptyRange(t *testing.T) {
	if _, err := UniformIndex(0); !errors.Is(err, ErrEmptyRange) {
		t.Errorf("UniformIndex(0) error = %v, want ErrEmptyRange", err)
	}
	if _, err := UniformIndex(-3); !errors.Is(err, ErrEmptyRange) {
		t.Errorf("UniformIndex(-3) error = %v, want ErrEmptyRange", err)
	}
}

func TestUniformIndexCoversAllValues(t *testing.T) {
	const n = 5
	seen := make(map[int]int, n)
	for i := 0; i < 5000; i++ {
		idx, err := UniformIndex(n)
		if err != nil {
			t.Fatal(err)
		}
		seen[idx]++
	}
	for v := 0; v < n; v++ {
		if seen[v] == 0 {
			t.Errorf("value %d never drawn in 5000 attempts", v)
		}
	}
}

func TestAuditSeedUnique(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		seed, err := AuditSeed()
		if err != nil {
			t.Fatal(err)
		}
		if seed == "" {
			t.Fatal("AuditSeed returned empty string")
		}
		if seen[seed] {
			t.Fatalf("AuditSeed produced duplicate: %s", seed)
		}
		seen[seed] = true
	}
}
