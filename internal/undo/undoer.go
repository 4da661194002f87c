package undo

import (
	"context"

	"github.com/MrJamesThe3rd/budgie/internal/tracker"
)

// Undoer ties expense deletion on a tracker service to a Buffer.
type Undoer struct {
	svc *tracker.Service
	buf *Buffer
}

func NewUndoer(svc *tracker.Service, buf *Buffer) *Undoer {
	return &Undoer{svc: svc, buf: buf}
}

// Delete removes the expense and stages it for undo. An unknown id leaves
// any pending deletion untouched and reports false.
func (u *Undoer) Delete(ctx context.Context, id string) (tracker.Expense, bool) {
	removed, ok := u.svc.DeleteExpense(ctx, id)
	if !ok {
		return tracker.Expense{}, false
	}

	u.buf.Stage(removed)

	return removed, true
}

// Undo restores the pending deletion. The expense is appended at the end of
// the list. It reports false when there is nothing to undo.
func (u *Undoer) Undo(ctx context.Context) (tracker.Expense, bool) {
	e, ok := u.buf.Take()
	if !ok {
		return tracker.Expense{}, false
	}

	u.svc.RestoreExpense(ctx, e)

	return e, true
}

// Pending exposes the buffer's pending deletion.
func (u *Undoer) Pending() (tracker.Expense, bool) {
	e, _, ok := u.buf.Pending()
	return e, ok
}
