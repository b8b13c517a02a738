// Package watcher observes a pages directory for page additions and removals
// and triggers re-synthesis of the generated router.
//
// The watch is single-directory and non-recursive: the watch root itself is
// never an event subject, subdirectories are ignored entirely, and paths
// without a recognized page extension are filtered out. Events are debounced
// per burst; each flush triggers exactly one handler invocation, and handler
// invocations are serialized on a single goroutine so a rescan never observes
// a directory mid-mutation from an overlapping pass.
package watcher

import (
	"context"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/lumeui/lume-cli/internal/logging"
	"github.com/lumeui/lume-cli/internal/pages"
)

// EventType represents the kind of page change.
type EventType int

const (
	EventTypeAdded EventType = iota
	EventTypeRemoved
)

// String returns the string representation of the EventType.
func (e EventType) String() string {
	switch e {
	case EventTypeAdded:
		return "added"
	case EventTypeRemoved:
		return "removed"
	default:
		return "unknown"
	}
}

// ChangeEvent represents one qualifying page add or removal.
type ChangeEvent struct {
	Type EventType
	Path string
}

// ChangeHandler handles a debounced batch of page change events. A non-nil
// error is logged and the watcher continues.
type ChangeHandler func(events []ChangeEvent) error

// PageWatcher watches one pages directory for add/remove events.
type PageWatcher struct {
	dir       string
	watcher   *fsnotify.Watcher
	debouncer *debouncer
	handlers  []ChangeHandler
	logger    logging.Logger
	mutex     sync.RWMutex
}

// debouncer groups rapid file changes into one flush.
type debouncer struct {
	delay   time.Duration
	events  chan ChangeEvent
	output  chan []ChangeEvent
	timer   *time.Timer
	pending []ChangeEvent
	mutex   sync.Mutex
}

// New creates a watcher for the given pages directory. The directory must
// exist before Start is called. Initial contents do not generate events;
// only changes after Start do.
func New(dir string, debounceDelay time.Duration, logger logging.Logger) (*PageWatcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, err
	}

	return &PageWatcher{
		dir:     abs,
		watcher: fsw,
		debouncer: &debouncer{
			delay:   debounceDelay,
			events:  make(chan ChangeEvent, 100),
			output:  make(chan []ChangeEvent, 10),
			pending: make([]ChangeEvent, 0),
		},
		logger: logger.WithComponent("watcher"),
	}, nil
}

// AddHandler registers a change handler.
func (pw *PageWatcher) AddHandler(handler ChangeHandler) {
	pw.mutex.Lock()
	defer pw.mutex.Unlock()
	pw.handlers = append(pw.handlers, handler)
}

// Start begins watching. The watcher runs until ctx is done.
func (pw *PageWatcher) Start(ctx context.Context) error {
	if err := pw.watcher.Add(pw.dir); err != nil {
		return err
	}

	go pw.debouncer.start(ctx)
	go pw.processEvents(ctx)
	go pw.watchLoop(ctx)

	return nil
}

// Stop stops the watcher and releases its resources.
func (pw *PageWatcher) Stop() error {
	pw.debouncer.mutex.Lock()
	if pw.debouncer.timer != nil {
		pw.debouncer.timer.Stop()
	}
	pw.debouncer.mutex.Unlock()

	return pw.watcher.Close()
}

func (pw *PageWatcher) watchLoop(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-pw.watcher.Events:
			if !ok {
				return
			}
			pw.handleFsnotifyEvent(ctx, event)
		case err, ok := <-pw.watcher.Errors:
			if !ok {
				return
			}
			pw.logger.Info(ctx, "watch error, continuing", "error", err.Error())
		}
	}
}

// handleFsnotifyEvent filters raw events down to page adds and removals.
func (pw *PageWatcher) handleFsnotifyEvent(ctx context.Context, event fsnotify.Event) {
	path := filepath.Clean(event.Name)

	// The watch root itself is never an event subject.
	if path == pw.dir {
		return
	}
	// Only direct children qualify; subdirectory contents are ignored.
	if filepath.Dir(path) != pw.dir {
		return
	}
	if !pages.IsPageFile(filepath.Base(path)) {
		return
	}

	var eventType EventType
	switch {
	case event.Op.Has(fsnotify.Create):
		eventType = EventTypeAdded
	case event.Op.Has(fsnotify.Remove), event.Op.Has(fsnotify.Rename):
		eventType = EventTypeRemoved
	default:
		// Writes to an existing page do not change the page set.
		return
	}

	// The debouncer drains this channel quickly (addEvent only appends),
	// so blocking here never stalls for long. Dropping instead would lose
	// the last event of a burst with no later flush to recover it.
	select {
	case pw.debouncer.events <- ChangeEvent{Type: eventType, Path: path}:
	case <-ctx.Done():
	}
}

// processEvents runs handlers for each debounced batch. Batches are handled
// one at a time on this goroutine, which serializes synthesis passes.
func (pw *PageWatcher) processEvents(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case events := <-pw.debouncer.output:
			pw.mutex.RLock()
			handlers := pw.handlers
			pw.mutex.RUnlock()

			for _, handler := range handlers {
				if err := handler(events); err != nil {
					pw.logger.Info(ctx, "synthesis pass failed, watcher stays live", "error", err.Error())
				}
			}
		}
	}
}

func (d *debouncer) start(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case event := <-d.events:
			d.addEvent(event)
		}
	}
}

func (d *debouncer) addEvent(event ChangeEvent) {
	d.mutex.Lock()
	defer d.mutex.Unlock()

	d.pending = append(d.pending, event)

	if d.timer != nil {
		d.timer.Stop()
	}

	d.timer = time.AfterFunc(d.delay, func() {
		d.flush()
	})
}

func (d *debouncer) flush() {
	d.mutex.Lock()
	defer d.mutex.Unlock()

	if len(d.pending) == 0 {
		return
	}

	// Deduplicate by path, keeping the latest event for each.
	eventMap := make(map[string]ChangeEvent, len(d.pending))
	order := make([]string, 0, len(d.pending))
	for _, event := range d.pending {
		if _, seen := eventMap[event.Path]; !seen {
			order = append(order, event.Path)
		}
		eventMap[event.Path] = event
	}

	events := make([]ChangeEvent, 0, len(eventMap))
	for _, path := range order {
		events = append(events, eventMap[path])
	}

	select {
	case d.output <- events:
		d.pending = d.pending[:0]
	default:
		// Consumer is mid-pass and the buffer is full. Keep the batch and
		// retry after another window; a trailing burst must never be lost.
		d.timer = time.AfterFunc(d.delay, d.flush)
	}
}
