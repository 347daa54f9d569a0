package common

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"resumeparser/internal/errors"

	"github.com/fsnotify/fsnotify"
)

const defaultDebounceDelay = 500 * time.Millisecond

type fileState struct {
	modTime time.Time
	size    int64
}

// FileWatcher watches input files and calls onChange, debounced, with the
// files whose content changed.
type FileWatcher struct {
	mu sync.Mutex

	files []string
	state map[string]fileState

	fsWatcher     *fsnotify.Watcher
	debounceDelay time.Duration
	debounceTimer *time.Timer

	stopChan    chan struct{}
	triggerChan chan struct{}
	done        chan struct{}

	onChange func(changed []string)
	logger   *errors.Logger

	running bool
}

// NewFileWatcher creates a watcher for files. A zero debounceDelay uses 500ms.
func NewFileWatcher(files []string, debounceDelay time.Duration, onChange func(changed []string), logger *errors.Logger) (*FileWatcher, error) {
	if len(files) == 0 {
		return nil, fmt.Errorf("no files to watch")
	}
	if onChange == nil {
		return nil, fmt.Errorf("onChange callback is required")
	}
	if debounceDelay <= 0 {
		debounceDelay = defaultDebounceDelay
	}

	abs := make([]string, 0, len(files))
	for _, f := range files {
		p, err := filepath.Abs(f)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve %s: %w", f, err)
		}
		abs = append(abs, p)
	}

	return &FileWatcher{
		files:         abs,
		state:         make(map[string]fileState),
		debounceDelay: debounceDelay,
		onChange:      onChange,
		logger:        logger,
	}, nil
}

// Start begins watching. It returns once the watches are registered.
func (fw *FileWatcher) Start() error {
	fw.mu.Lock()
	defer fw.mu.Unlock()

	if fw.running {
		return fmt.Errorf("file watcher is already running")
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}
	fw.fsWatcher = watcher

	for _, file := range fw.files {
		fw.state[file] = statFile(file)
		// the directory catches editors that save by rename
		if err := watcher.Add(filepath.Dir(file)); err != nil {
			_ = watcher.Close()
			return fmt.Errorf("failed to watch directory of %s: %w", file, err)
		}
	}

	fw.stopChan = make(chan struct{})
	fw.triggerChan = make(chan struct{}, 1)
	fw.done = make(chan struct{})
	fw.running = true
	go fw.watchLoop()

	fw.logger.Info("File watcher started", "files", fw.files, "debounce_delay", fw.debounceDelay)
	return nil
}

// Stop stops the watcher and waits for the event loop to exit.
func (fw *FileWatcher) Stop() error {
	fw.mu.Lock()
	if !fw.running {
		fw.mu.Unlock()
		return nil
	}
	fw.running = false
	close(fw.stopChan)
	if fw.debounceTimer != nil {
		fw.debounceTimer.Stop()
	}
	done := fw.done
	fw.mu.Unlock()

	<-done
	err := fw.fsWatcher.Close()
	if err != nil {
		fw.logger.LogError(err, "Failed to close file system watcher")
	}
	fw.logger.Info("File watcher stopped")
	return err
}

// IsRunning reports whether the watcher is active
func (fw *FileWatcher) IsRunning() bool {
	fw.mu.Lock()
	defer fw.mu.Unlock()
	return fw.running
}

// WatchedFiles returns the absolute paths being watched
func (fw *FileWatcher) WatchedFiles() []string {
	return append([]string(nil), fw.files...)
}

func (fw *FileWatcher) watchLoop() {
	defer close(fw.done)

	for {
		select {
		case event, ok := <-fw.fsWatcher.Events:
			if !ok {
				return
			}
			if fw.isRelevant(event) {
				fw.scheduleCheck()
			}

		case err, ok := <-fw.fsWatcher.Errors:
			if !ok {
				return
			}
			fw.logger.LogError(err, "File watcher error")

		case <-fw.triggerChan:
			if changed := fw.changedFiles(); len(changed) > 0 {
				fw.logger.Info("Watched files changed", "files", changed)
				fw.onChange(changed)
			}

		case <-fw.stopChan:
			return
		}
	}
}

func (fw *FileWatcher) isRelevant(event fsnotify.Event) bool {
	if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
		return false
	}
	name := filepath.Clean(event.Name)
	for _, file := range fw.files {
		if name == file {
			return true
		}
	}
	return false
}

func (fw *FileWatcher) scheduleCheck() {
	fw.mu.Lock()
	defer fw.mu.Unlock()

	if !fw.running {
		return
	}
	if fw.debounceTimer != nil {
		fw.debounceTimer.Stop()
	}
	fw.debounceTimer = time.AfterFunc(fw.debounceDelay, func() {
		select {
		case fw.triggerChan <- struct{}{}:
		default:
		}
	})
}

// changedFiles is only called from the event loop.
func (fw *FileWatcher) changedFiles() []string {
	var changed []string
	for _, file := range fw.files {
		current := statFile(file)
		if current == (fileState{}) {
			// deleted or mid-rename; wait for the next event
			continue
		}
		if current != fw.state[file] {
			fw.state[file] = current
			changed = append(changed, file)
		}
	}
	return changed
}

func statFile(path string) fileState {
	info, err := os.Stat(path)
	if err != nil {
		return fileState{}
	}
	return fileState{modTime: info.ModTime(), size: info.Size()}
}
