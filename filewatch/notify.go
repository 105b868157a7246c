package filewatch

import (
	"fmt"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// Notifier listens for OS file notifications on a single file and coalesces them
// into a pending flag consumed by [Watch.Check]. The directory containing the file
// is watched instead of the file itself since editors commonly save by renaming
// a temporary file over the original, which drops watches on the old inode.
type Notifier struct {
	name    string
	w       *fsnotify.Watcher
	pending chan struct{}
	done    chan struct{}
	log     *zap.Logger
	once    sync.Once
	wg      sync.WaitGroup
}

// NewNotifier starts watching path. log may be nil.
func NewNotifier(path string, log *zap.Logger) (*Notifier, error) {
	if log == nil {
		log = zap.NewNop()
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("filewatch: creating notifier: %w", err)
	}
	dir := filepath.Dir(abs)
	err = w.Add(dir)
	if err != nil {
		w.Close()
		return nil, fmt.Errorf("filewatch: watching %q: %w", dir, err)
	}
	n := &Notifier{
		name:    filepath.Base(abs),
		w:       w,
		pending: make(chan struct{}, 1),
		done:    make(chan struct{}),
		log:     log.With(zap.String("dir", dir)),
	}
	n.wg.Add(1)
	go n.run()
	return n, nil
}

func (n *Notifier) run() {
	defer n.wg.Done()
	for {
		select {
		case <-n.done:
			return
		case ev, ok := <-n.w.Events:
			if !ok {
				return
			}
			if filepath.Base(ev.Name) != n.name {
				continue
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename|fsnotify.Chmod) == 0 {
				continue
			}
			n.log.Debug("file event", zap.String("file", ev.Name), zap.Stringer("op", ev.Op))
			n.signal()
		case err, ok := <-n.w.Errors:
			if !ok {
				return
			}
			n.log.Warn("notifier error", zap.Error(err))
			// Fall back to a stat on the next check so nothing is missed.
			n.signal()
		}
	}
}

// signal marks a change as pending. Never blocks: pending changes coalesce.
func (n *Notifier) signal() {
	select {
	case n.pending <- struct{}{}:
	default:
	}
}

// Pending reports whether a change notification arrived since the last call
// and clears it.
func (n *Notifier) Pending() bool {
	select {
	case <-n.pending:
		return true
	default:
		return false
	}
}

// Close stops the notifier. It is safe to call Close more than once.
func (n *Notifier) Close() error {
	var err error
	n.once.Do(func() {
		close(n.done)
		err = n.w.Close()
		n.wg.Wait()
	})
	return err
}
