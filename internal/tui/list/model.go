package listview

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
)

// minHeight keeps at least one row visible on tiny terminals.
const minHeight = 1

// RenderFunc renders one row. selected is true for the row under the cursor.
type RenderFunc[T any] func(item T, selected bool) string

// Model is a cursor over a list of rows with a scrolling viewport.
type Model[T any] struct {
	items      []T
	render     RenderFunc[T]
	selectable func(T) bool

	// cursor is the selected row index; -1 when no row is selectable.
	cursor int
	// offset is the first row inside the viewport.
	offset int
	height int
}

// Option configures a Model.
type Option[T any] func(*Model[T])

// WithSelectable restricts the cursor to rows for which fn returns true.
func WithSelectable[T any](fn func(T) bool) Option[T] {
	return func(m *Model[T]) { m.selectable = fn }
}

// New creates an empty list showing height rows.
func New[T any](height int, render RenderFunc[T], opts ...Option[T]) *Model[T] {
	m := &Model[T]{
		render:     render,
		selectable: func(T) bool { return true },
		cursor:     -1,
		height:     max(height, minHeight),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// SetItems replaces the rows. When same is non-nil and the previously
// selected row is still present, the cursor follows it; otherwise the cursor
// keeps its index, moved to the nearest selectable row.
func (m *Model[T]) SetItems(items []T, same func(a, b T) bool) {
	prev, hadPrev := m.Selected()
	m.items = items

	if hadPrev && same != nil {
		for i, it := range items {
			if same(prev, it) && m.selectable(it) {
				m.cursor = i
				m.ensureVisible()
				return
			}
		}
	}
	m.cursor = m.nearestSelectable(max(m.cursor, 0))
	m.ensureVisible()
}

// Select moves the cursor to the first selectable row matching pred.
func (m *Model[T]) Select(pred func(T) bool) bool {
	for i, it := range m.items {
		if m.selectable(it) && pred(it) {
			m.cursor = i
			m.ensureVisible()
			return true
		}
	}
	return false
}

// SetHeight resizes the viewport.
func (m *Model[T]) SetHeight(height int) {
	m.height = max(height, minHeight)
	m.ensureVisible()
}

// HandleKey applies navigation keys and reports whether msg was one.
func (m *Model[T]) HandleKey(msg tea.KeyMsg) bool {
	switch msg.String() {
	case "up", "k":
		m.step(-1)
	case "down", "j":
		m.step(1)
	case "pgup":
		m.jump(m.cursor-m.height, -1)
	case "pgdown":
		m.jump(m.cursor+m.height, 1)
	case "home", "g":
		m.jump(0, 1)
	case "end", "G":
		m.jump(len(m.items)-1, -1)
	default:
		return false
	}
	m.ensureVisible()
	return true
}

// View renders the rows inside the viewport.
func (m *Model[T]) View() string {
	if len(m.items) == 0 {
		return ""
	}
	end := min(m.offset+m.height, len(m.items))

	var b strings.Builder
	for i := m.offset; i < end; i++ {
		if i > m.offset {
			b.WriteByte('\n')
		}
		b.WriteString(m.render(m.items[i], i == m.cursor))
	}
	return b.String()
}

// Selected returns the row under the cursor.
func (m *Model[T]) Selected() (T, bool) {
	if m.cursor < 0 || m.cursor >= len(m.items) {
		var zero T
		return zero, false
	}
	return m.items[m.cursor], true
}

// Cursor returns the selected row index, or -1.
func (m *Model[T]) Cursor() int {
	return m.cursor
}

// Offset returns the first row inside the viewport.
func (m *Model[T]) Offset() int {
	return m.offset
}

// Len returns the number of rows.
func (m *Model[T]) Len() int {
	return len(m.items)
}

// Height returns the viewport height.
func (m *Model[T]) Height() int {
	return m.height
}

func (m *Model[T]) step(dir int) {
	for i := m.cursor + dir; i >= 0 && i < len(m.items); i += dir {
		if m.selectable(m.items[i]) {
			m.cursor = i
			return
		}
	}
}

// jump moves to target, clamped, then searches in dir for a selectable row,
// falling back to the other direction.
func (m *Model[T]) jump(target, dir int) {
	if len(m.items) == 0 {
		return
	}
	target = min(max(target, 0), len(m.items)-1)
	if i := m.scan(target, dir); i >= 0 {
		m.cursor = i
		return
	}
	if i := m.scan(target, -dir); i >= 0 {
		m.cursor = i
	}
}

func (m *Model[T]) scan(from, dir int) int {
	for i := from; i >= 0 && i < len(m.items); i += dir {
		if m.selectable(m.items[i]) {
			return i
		}
	}
	return -1
}

func (m *Model[T]) nearestSelectable(from int) int {
	if len(m.items) == 0 {
		return -1
	}
	from = min(from, len(m.items)-1)
	if i := m.scan(from, 1); i >= 0 {
		return i
	}
	return m.scan(from, -1)
}

// ensureVisible scrolls the viewport so the cursor is inside it and no
// space is wasted past the last row.
func (m *Model[T]) ensureVisible() {
	if m.cursor >= 0 {
		if m.cursor < m.offset {
			m.offset = m.cursor
		}
		if m.cursor >= m.offset+m.height {
			m.offset = m.cursor - m.height + 1
		}
	}
	m.offset = max(min(m.offset, len(m.items)-m.height), 0)
}
