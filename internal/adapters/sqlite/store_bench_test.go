package sqlite

import (
	"path/filepath"
	"testing"

	"treedit/internal/domain"
	"treedit/internal/ports"
)

// BenchmarkSave benchmarks storing the view state of a large, fully expanded document
func BenchmarkSave(b *testing.B) {
	dir := b.TempDir()
	s, err := Open(dir)
	if err != nil {
		b.Fatalf("failed to open store: %v", err)
	}
	defer func() {
		if err := s.Close(); err != nil {
			b.Fatalf("failed to close store: %v", err)
		}
	}()

	state := ports.ViewState{Cursor: domain.Path{0}}
	for i := 0; i < 1000; i++ {
		state.Expanded = append(state.Expanded, domain.Path{i}, domain.Path{i, 0})
	}
	doc := filepath.Join(dir, "big.yaml")

	b.ResetTimer()
	for b.Loop() {
		if err := s.Save(doc, state); err != nil {
			b.Fatalf("save failed: %v", err)
		}
	}
}

// BenchmarkLoad benchmarks restoring that view state
func BenchmarkLoad(b *testing.B) {
	dir := b.TempDir()
	s, err := Open(dir)
	if err != nil {
		b.Fatalf("failed to open store: %v", err)
	}
	defer s.Close()

	state := ports.ViewState{Cursor: domain.Path{0}}
	for i := 0; i < 1000; i++ {
		state.Expanded = append(state.Expanded, domain.Path{i})
	}
	doc := filepath.Join(dir, "big.yaml")
	if err := s.Save(doc, state); err != nil {
		b.Fatalf("save failed: %v", err)
	}

	b.ResetTimer()
	for b.Loop() {
		if _, err := s.Load(doc); err != nil {
			b.Fatalf("load failed: %v", err)
		}
	}
}
