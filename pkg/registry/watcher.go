package registry

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"

	"github.com/treelinehq/treeline/pkg/log"
	"github.com/treelinehq/treeline/pkg/types"
)

// Watcher keeps an InMemory registry in sync with a directory of *.json
// ruleset definition files. Files are (re)registered as they appear or
// change and unregistered when removed.
type Watcher struct {
	dir      string
	registry *InMemory
	watcher  *fsnotify.Watcher

	mu  sync.Mutex
	ids map[string]string // file path -> registered ruleset id

	stopCh chan struct{}
	doneCh chan struct{}
}

// NewWatcher creates a watcher over dir, registering every ruleset file
// already present.
func NewWatcher(dir string, reg *InMemory) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create fsnotify watcher: %w", err)
	}

	w := &Watcher{
		dir:      dir,
		registry: reg,
		watcher:  fsw,
		ids:      make(map[string]string),
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		fsw.Close()
		return nil, fmt.Errorf("failed to read ruleset directory: %w", err)
	}
	logger := log.WithComponent("registry")
	for _, entry := range entries {
		if entry.IsDir() || !isRulesetFile(entry.Name()) {
			continue
		}
		if err := w.loadFile(filepath.Join(dir, entry.Name())); err != nil {
			logger.Warn().Err(err).Str("file", entry.Name()).Msg("skipping ruleset file")
		}
	}

	if err := fsw.Add(dir); err != nil {
		fsw.Close()
		return nil, fmt.Errorf("failed to watch ruleset directory: %w", err)
	}

	return w, nil
}

// Start begins processing file events
func (w *Watcher) Start() {
	go w.run()
}

// Stop stops the watcher and closes the underlying fsnotify watcher
func (w *Watcher) Stop() error {
	close(w.stopCh)
	<-w.doneCh
	return w.watcher.Close()
}

func (w *Watcher) run() {
	defer close(w.doneCh)

	logger := log.WithComponent("registry")
	for {
		select {
		case <-w.stopCh:
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if !isRulesetFile(event.Name) {
				continue
			}
			switch {
			case event.Op.Has(fsnotify.Create) || event.Op.Has(fsnotify.Write):
				if err := w.loadFile(event.Name); err != nil {
					logger.Warn().Err(err).Str("file", event.Name).Msg("failed to load ruleset file")
				}
			case event.Op.Has(fsnotify.Remove) || event.Op.Has(fsnotify.Rename):
				w.removeFile(event.Name)
			}

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			logger.Error().Err(err).Msg("ruleset watcher error")
		}
	}
}

func (w *Watcher) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	var ruleset types.Ruleset
	if err := json.Unmarshal(data, &ruleset); err != nil {
		return fmt.Errorf("invalid ruleset definition: %w", err)
	}
	if ruleset.ID == "" {
		return fmt.Errorf("ruleset definition in %s has no id", filepath.Base(path))
	}

	w.mu.Lock()
	if prev, ok := w.ids[path]; ok && prev != ruleset.ID {
		w.registry.Unregister(prev)
	}
	w.ids[path] = ruleset.ID
	w.mu.Unlock()

	w.registry.Register(&ruleset)
	logger := log.WithComponent("registry")
	logger.Info().
		Str("ruleset_id", ruleset.ID).
		Str("file", filepath.Base(path)).
		Msg("ruleset registered")
	return nil
}

func (w *Watcher) removeFile(path string) {
	w.mu.Lock()
	id, ok := w.ids[path]
	delete(w.ids, path)
	w.mu.Unlock()

	if !ok {
		return
	}
	w.registry.Unregister(id)
	logger := log.WithComponent("registry")
	logger.Info().
		Str("ruleset_id", id).
		Msg("ruleset unregistered")
}

func isRulesetFile(name string) bool {
	return strings.HasSuffix(strings.ToLower(name), ".json")
}
