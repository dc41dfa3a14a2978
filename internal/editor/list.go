package editor

import (
	"fmt"

	apperrors "github.com/fabricio2fb/reviewlar/pkg/errors"
)

// ErrIndexOutOfRange is returned by RemoveAt for a position outside the list.
var ErrIndexOutOfRange = fmt.Errorf("%w: index out of range", apperrors.ErrInvalidInput)

// List is one ordered, repeatable field group. Items keep insertion order and
// duplicates are allowed.
type List[T any] []T

// Append adds item to the end of the list.
func (l *List[T]) Append(item T) {
	*l = append(*l, item)
}

// RemoveAt deletes the item at index. Later items shift left.
func (l *List[T]) RemoveAt(index int) error {
	if index < 0 || index >= len(*l) {
		return fmt.Errorf("remove item %d of %d: %w", index, len(*l), ErrIndexOutOfRange)
	}
	*l = append((*l)[:index:index], (*l)[index+1:]...)
	return nil
}

// ReplaceAll discards the current items and installs a copy of items.
func (l *List[T]) ReplaceAll(items []T) {
	out := make(List[T], len(items))
	copy(out, items)
	*l = out
}

// Len returns the number of items.
func (l List[T]) Len() int { return len(l) }

// Items returns a copy of the items.
func (l List[T]) Items() []T {
	out := make([]T, len(l))
	copy(out, l)
	return out
}

func (l List[T]) clone() List[T] {
	return List[T](l.Items())
}
