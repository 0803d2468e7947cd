package views

import "testing"

func TestScroller_Follow(t *testing.T) {
	tests := []struct {
		name      string
		cursor    int
		total     int
		wantStart int
		wantEnd   int
	}{
		{"fits", 3, 4, 0, 4},
		{"top", 0, 100, 0, 10},
		{"inside margin", 7, 100, 0, 10},
		{"past margin", 8, 100, 1, 11},
		{"bottom", 99, 100, 90, 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewScroller(2)
			s.SetHeight(10)
			start, end := s.Follow(tt.cursor, tt.total)
			if start != tt.wantStart || end != tt.wantEnd {
				t.Errorf("Follow(%d, %d) = [%d, %d), want [%d, %d)", tt.cursor, tt.total, start, end, tt.wantStart, tt.wantEnd)
			}
		})
	}
}

func TestScroller_ScrollsBackUp(t *testing.T) {
	s := NewScroller(2)
	s.SetHeight(10)
	s.Follow(50, 100)

	start, _ := s.Follow(45, 100)
	if start != 43 {
		t.Errorf("start = %d, want 43", start)
	}
}
