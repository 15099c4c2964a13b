package watcher

import "strings"

// Op is the kind of name change a backend observed. The watch loop does not
// act on it; it is kept for diagnostics.
type Op uint8

const (
	OpCreate Op = 1 << iota
	OpRemove
	OpRename
)

func (op Op) Has(other Op) bool {
	return op&other != 0
}

func (op Op) String() string {
	names := make([]string, 0, 3)
	if op.Has(OpCreate) {
		names = append(names, "create")
	}
	if op.Has(OpRemove) {
		names = append(names, "remove")
	}
	if op.Has(OpRename) {
		names = append(names, "rename")
	}
	if len(names) == 0 {
		return "none"
	}
	return strings.Join(names, "|")
}

// ChangeEvent is a single decoded notification: a bare file name inside the
// watched folder.
type ChangeEvent struct {
	Name string
	Op   Op
}
