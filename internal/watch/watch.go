// Package watch keeps text and HTML files under a directory converted:
// whenever a watched file is created or written, its numerals are
// rewritten in place.
package watch

import (
	"bytes"
	"context"
	"crypto/sha256"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/kansuji-go/kansuji"
	"github.com/kansuji-go/kansuji/internal/htmlhost"
	"go.uber.org/zap"
)

// Options configures a Watcher.
type Options struct {
	// Extensions lists the file suffixes to convert, e.g. ".txt".
	Extensions []string
	// Debounce is how long a file must be quiet before it is converted.
	Debounce time.Duration
	// OnResult, if set, is called from the watch goroutine after every
	// file the watcher processed.
	OnResult func(Result)
}

// Result describes one processed file.
type Result struct {
	Path string
	// Changed is true when the file was rewritten.
	Changed bool
	// Skipped is true when the file still held content this watcher
	// wrote, so it was not converted again.
	Skipped bool
	Err     error
}

// Watcher converts files as they change.
type Watcher struct {
	conv *kansuji.Converter
	log  *zap.Logger
	fsw  *fsnotify.Watcher
	opts Options
	exts map[string]bool

	mu sync.Mutex
	// written maps a path to the hash of the content last written there.
	written map[string][sha256.Size]byte
	// pending maps a path to the time of its latest event.
	pending map[string]time.Time
	running bool
	stopped bool

	stopCh chan struct{}
	doneCh chan struct{}
}

// New creates a Watcher. Call Add to watch directories and Start to
// begin processing events.
func New(conv *kansuji.Converter, log *zap.Logger, opts Options) (*Watcher, error) {
	if log == nil {
		log = zap.NewNop()
	}
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}
	exts := make(map[string]bool, len(opts.Extensions))
	for _, e := range opts.Extensions {
		exts[strings.ToLower(e)] = true
	}
	return &Watcher{
		conv:    conv,
		log:     log,
		fsw:     fsw,
		opts:    opts,
		exts:    exts,
		written: make(map[string][sha256.Size]byte),
		pending: make(map[string]time.Time),
		stopCh:  make(chan struct{}),
		doneCh:  make(chan struct{}),
	}, nil
}

// Add watches root and every directory below it.
func (w *Watcher) Add(root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if err := w.fsw.Add(path); err != nil {
			return fmt.Errorf("watch %s: %w", path, err)
		}
		w.log.Debug("watching directory", zap.String("dir", path))
		return nil
	})
}

// Start processes events in a new goroutine until ctx is done or Stop
// is called. A stopped Watcher cannot be restarted.
func (w *Watcher) Start(ctx context.Context) {
	w.mu.Lock()
	if w.running || w.stopped {
		w.mu.Unlock()
		return
	}
	w.running = true
	w.mu.Unlock()

	go w.run(ctx)
}

// Stop ends event processing and releases the underlying watcher.
func (w *Watcher) Stop() error {
	w.mu.Lock()
	if w.stopped {
		w.mu.Unlock()
		return nil
	}
	running := w.running
	w.running = false
	w.stopped = true
	w.mu.Unlock()

	if running {
		close(w.stopCh)
		<-w.doneCh
	}
	return w.fsw.Close()
}

func (w *Watcher) run(ctx context.Context) {
	defer close(w.doneCh)

	tick := w.opts.Debounce / 2
	if tick < 10*time.Millisecond {
		tick = 10 * time.Millisecond
	}
	ticker := time.NewTicker(tick)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-w.stopCh:
			return
		case ev, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			w.handle(ev)
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			w.log.Warn("watch error", zap.Error(err))
		case now := <-ticker.C:
			w.flush(now)
		}
	}
}

func (w *Watcher) handle(ev fsnotify.Event) {
	if ev.Has(fsnotify.Create) {
		if info, err := os.Stat(ev.Name); err == nil && info.IsDir() {
			if err := w.Add(ev.Name); err != nil {
				w.log.Warn("watch new directory", zap.String("dir", ev.Name), zap.Error(err))
			}
			return
		}
	}
	if !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Write) {
		return
	}
	if !w.Watched(ev.Name) {
		return
	}
	w.mu.Lock()
	w.pending[ev.Name] = time.Now()
	w.mu.Unlock()
}

func (w *Watcher) flush(now time.Time) {
	var due []string
	w.mu.Lock()
	for path, at := range w.pending {
		if now.Sub(at) >= w.opts.Debounce {
			due = append(due, path)
			delete(w.pending, path)
		}
	}
	w.mu.Unlock()

	for _, path := range due {
		res := w.ConvertFile(path)
		if res.Err != nil {
			w.log.Warn("convert file", zap.String("path", path), zap.Error(res.Err))
		} else if res.Changed {
			w.log.Info("converted file", zap.String("path", path))
		}
		if w.opts.OnResult != nil {
			w.opts.OnResult(res)
		}
	}
}

// Watched reports whether path has one of the configured extensions.
func (w *Watcher) Watched(path string) bool {
	return w.exts[strings.ToLower(filepath.Ext(path))]
}

// ConvertFile converts one file in place. Content this watcher wrote
// itself is left alone.
func (w *Watcher) ConvertFile(path string) Result {
	res := Result{Path: path}

	data, err := os.ReadFile(path)
	if err != nil {
		res.Err = fmt.Errorf("read %s: %w", path, err)
		return res
	}

	sum := sha256.Sum256(data)
	w.mu.Lock()
	prev, seen := w.written[path]
	w.mu.Unlock()
	if seen && prev == sum {
		res.Skipped = true
		return res
	}

	out, changed, err := w.convert(path, data)
	if err != nil {
		res.Err = err
		return res
	}
	if !changed {
		return res
	}

	info, err := os.Stat(path)
	if err != nil {
		res.Err = fmt.Errorf("stat %s: %w", path, err)
		return res
	}
	// Record before writing: the write raises an event for this file.
	w.mu.Lock()
	w.written[path] = sha256.Sum256(out)
	w.mu.Unlock()
	if err := os.WriteFile(path, out, info.Mode().Perm()); err != nil {
		res.Err = fmt.Errorf("write %s: %w", path, err)
		return res
	}
	res.Changed = true
	return res
}

func (w *Watcher) convert(path string, data []byte) ([]byte, bool, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".html", ".htm":
		var buf bytes.Buffer
		st, err := htmlhost.ConvertDocument(w.conv, bytes.NewReader(data), &buf)
		if err != nil {
			return nil, false, fmt.Errorf("convert %s: %w", path, err)
		}
		return buf.Bytes(), st.Converted > 0, nil
	default:
		in := string(data)
		out := w.conv.Convert(in)
		return []byte(out), out != in, nil
	}
}
