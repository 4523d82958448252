// Package disclosure tracks which nodes of the team/member hierarchy are
// expanded.
//
// Each level allows at most one expanded node. The member level is only
// meaningful relative to the selected team, so every team change collapses
// it.
package disclosure

// Level is the expand/collapse state of one hierarchy level: either
// Collapsed or expanded at exactly one id. The zero value is Collapsed.
type Level[ID comparable] struct {
	id       ID
	expanded bool
}

// Expand makes id the expanded node and reports whether anything changed.
func (l *Level[ID]) Expand(id ID) bool {
	if l.expanded && l.id == id {
		return false
	}
	l.id = id
	l.expanded = true
	return true
}

// Collapse returns the level to Collapsed and reports whether anything changed.
func (l *Level[ID]) Collapse() bool {
	if !l.expanded {
		return false
	}
	var zero ID
	l.id = zero
	l.expanded = false
	return true
}

// Toggle collapses id if it is expanded, otherwise expands it.
// It returns true when the call expanded id.
func (l *Level[ID]) Toggle(id ID) bool {
	if l.IsExpanded(id) {
		l.Collapse()
		return false
	}
	return l.Expand(id)
}

// Expanded returns the expanded id, if any.
func (l *Level[ID]) Expanded() (ID, bool) {
	return l.id, l.expanded
}

// IsExpanded reports whether id is the expanded node.
func (l *Level[ID]) IsExpanded(id ID) bool {
	return l.expanded && l.id == id
}
