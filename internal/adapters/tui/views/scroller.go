package views

// Scroller keeps a cursor inside a window of visible rows
type Scroller struct {
	height int
	offset int
	margin int
}

// NewScroller creates a scroller that keeps margin rows of context around
// the cursor when it can
func NewScroller(margin int) *Scroller {
	return &Scroller{height: 10, margin: margin}
}

// SetHeight sets how many rows fit in the window
func (s *Scroller) SetHeight(height int) {
	if height < 1 {
		height = 1
	}
	s.height = height
}

// Height returns the window height
func (s *Scroller) Height() int {
	return s.height
}

// Follow scrolls so cursor is visible and returns the [start, end) rows to draw
func (s *Scroller) Follow(cursor, total int) (start, end int) {
	margin := min(s.margin, (s.height-1)/2)

	if cursor < s.offset+margin {
		s.offset = cursor - margin
	}
	if cursor >= s.offset+s.height-margin {
		s.offset = cursor - s.height + margin + 1
	}
	s.offset = max(0, min(s.offset, total-s.height))

	start = s.offset
	end = min(s.offset+s.height, total)
	return start, end
}

// Offset returns the first visible row
func (s *Scroller) Offset() int {
	return s.offset
}
