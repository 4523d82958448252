// Package listview provides a scrolling cursor list for Bubble Tea views
// whose rows change shape while the user navigates.
//
// Rows are rebuilt on every state change (a team opens, a profile arrives),
// so SetItems keeps the cursor on the same logical row and rows that are
// not selectable (detail lines, notices) are skipped by the cursor. Only
// the rows inside the viewport are rendered.
package listview
