package transform

import "github.com/goliatone/go-richtext/internal/document"

// ActiveMarks is the mark set accumulated while descending into a subtree.
// Siblings share one ActiveMarks value, so toggles applied by a fallback
// handler (for example an opening <u>) stay in effect for the following
// siblings; mark wrappers hand their children a fresh copy instead.
type ActiveMarks struct {
	marks []document.Mark
}

// NewActiveMarks seeds a mark set.
func NewActiveMarks(marks ...document.Mark) *ActiveMarks {
	return &ActiveMarks{marks: append([]document.Mark(nil), marks...)}
}

// List returns a copy of the marks in accumulation order.
func (a *ActiveMarks) List() []document.Mark {
	if a == nil {
		return []document.Mark{}
	}
	return append([]document.Mark{}, a.marks...)
}

// Has reports whether m is active.
func (a *ActiveMarks) Has(m document.Mark) bool {
	if a == nil {
		return false
	}
	for _, mark := range a.marks {
		if mark == m {
			return true
		}
	}
	return false
}

// Push appends m.
func (a *ActiveMarks) Push(m document.Mark) {
	a.marks = append(a.marks, m)
}

// Remove drops the first occurrence of m; it is a no-op when m is not active.
func (a *ActiveMarks) Remove(m document.Mark) {
	for idx, mark := range a.marks {
		if mark == m {
			a.marks = append(a.marks[:idx:idx], a.marks[idx+1:]...)
			return
		}
	}
}

// With returns a new set holding the current marks followed by m.
func (a *ActiveMarks) With(m document.Mark) *ActiveMarks {
	next := NewActiveMarks(a.List()...)
	next.Push(m)
	return next
}
