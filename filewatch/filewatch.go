// Package filewatch watches a single file for modifications by polling its
// modification timestamp, optionally woken up by OS file notifications.
package filewatch

import (
	"fmt"
	"os"
	"time"
)

// Watch polls a single file's modification time and calls a callback
// when it changes. Watch is not safe for concurrent use; it is meant to be
// checked once per frame from the render thread.
type Watch struct {
	path      string
	stamp     time.Time
	onChanged func(path string) error
	notify    *Notifier
	changes   int
}

// New returns a Watch bound to path. The recorded timestamp starts at the zero
// time so the first successful call to [Watch.Check] always invokes onChanged.
// onChanged may be nil.
func New(path string, onChanged func(path string) error) *Watch {
	return &Watch{path: path, onChanged: onChanged}
}

// SetNotifier makes Check skip the filesystem stat while n reports no pending
// changes. The first Check after construction always stats the file.
func (w *Watch) SetNotifier(n *Notifier) { w.notify = n }

// Path returns the watched file path.
func (w *Watch) Path() string { return w.path }

// Stamp returns the last observed modification time.
func (w *Watch) Stamp() time.Time { return w.stamp }

// Changes returns the number of modification time changes observed.
func (w *Watch) Changes() int { return w.changes }

// Check reads the file's modification time. If it differs from the recorded one
// the recorded value is replaced and the callback is invoked with the file path.
// The timestamp is recorded before the callback runs so a failing callback is not
// retried until the file changes again. Errors from stat and from the callback are
// returned wrapped.
func (w *Watch) Check() error {
	if w.notify != nil && !w.stamp.IsZero() && !w.notify.Pending() {
		return nil
	}
	info, err := os.Stat(w.path)
	if err != nil {
		return fmt.Errorf("filewatch: stat %q: %w", w.path, err)
	}
	stamp := info.ModTime()
	if stamp.Equal(w.stamp) {
		return nil
	}
	w.stamp = stamp
	w.changes++
	if w.onChanged == nil {
		return nil
	}
	err = w.onChanged(w.path)
	if err != nil {
		return fmt.Errorf("filewatch: on change of %q: %w", w.path, err)
	}
	return nil
}
