// Package watch re-runs a deployment whenever the mapping file or a source
// asset changes.
package watch

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/arthur-debert/assetdeploy/pkg/errors"
	"github.com/arthur-debert/assetdeploy/pkg/logging"
	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"
)

// DefaultDebounce is used when no debounce is configured
const DefaultDebounce = 300 * time.Millisecond

// ChangeFunc is called after a burst of changes has settled
type ChangeFunc func(ctx context.Context) error

// Watcher monitors the mapping file and the source tree. Callbacks run one
// at a time on the goroutine that called Run.
type Watcher struct {
	mappingFile string
	sourceRoot  string
	debounce    time.Duration
	onChange    ChangeFunc

	watcher *fsnotify.Watcher
	watched map[string]bool
	logger  zerolog.Logger
}

// New creates a watcher. It does not watch anything until Run is called.
func New(mappingFile, sourceRoot string, debounce time.Duration, onChange ChangeFunc) (*Watcher, error) {
	if onChange == nil {
		return nil, errors.New(errors.ErrInvalidInput, "watch needs a change callback")
	}
	if debounce <= 0 {
		debounce = DefaultDebounce
	}

	mappingFile, err := filepath.Abs(mappingFile)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrWatch, "failed to resolve mapping path")
	}
	sourceRoot, err = filepath.Abs(sourceRoot)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrWatch, "failed to resolve source root")
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrWatch, "failed to create file watcher")
	}

	return &Watcher{
		mappingFile: mappingFile,
		sourceRoot:  sourceRoot,
		debounce:    debounce,
		onChange:    onChange,
		watcher:     fw,
		watched:     make(map[string]bool),
		logger:      logging.GetLogger("watch"),
	}, nil
}

// Run watches until ctx is cancelled. It always closes the underlying
// watcher before returning.
func (w *Watcher) Run(ctx context.Context) error {
	defer func() {
		if err := w.watcher.Close(); err != nil {
			w.logger.Error().Err(err).Msg("Error closing file watcher")
		}
	}()

	// Directories are watched rather than files: editors replace files on
	// save, which drops a watch held on the file itself.
	if err := w.add(filepath.Dir(w.mappingFile)); err != nil {
		return err
	}
	if err := w.add(w.sourceRoot); err != nil {
		return err
	}
	w.syncCategories()

	w.logger.Info().
		Str("mapping", w.mappingFile).
		Str("source", w.sourceRoot).
		Dur("debounce", w.debounce).
		Msg("Watching for changes")

	timer := time.NewTimer(w.debounce)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			w.logger.Info().Msg("Stopping watcher")
			return nil

		case event, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			if !w.relevant(event) {
				continue
			}
			w.logger.Debug().Str("file", event.Name).Str("op", event.Op.String()).Msg("Change detected")
			switch {
			case event.Has(fsnotify.Create) && filepath.Dir(event.Name) == w.sourceRoot:
				w.syncCategories()
			case event.Has(fsnotify.Remove) || event.Has(fsnotify.Rename):
				// fsnotify drops the watch of a removed directory
				delete(w.watched, filepath.Clean(event.Name))
			}
			timer.Reset(w.debounce)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			w.logger.Error().Err(err).Msg("Watcher error")

		case <-timer.C:
			w.syncCategories()
			if err := w.onChange(ctx); err != nil {
				w.logger.Error().Err(err).Msg("Redeploy failed")
			}
		}
	}
}

// relevant drops events for files next to the mapping file that are not
// the mapping file itself, and chmod-only events.
func (w *Watcher) relevant(event fsnotify.Event) bool {
	if event.Op == fsnotify.Chmod {
		return false
	}
	name := filepath.Clean(event.Name)
	if name == w.mappingFile {
		return true
	}
	return name == w.sourceRoot || strings.HasPrefix(name, w.sourceRoot+string(filepath.Separator))
}

// syncCategories watches every directory directly under the source root
func (w *Watcher) syncCategories() {
	entries, err := readDirs(w.sourceRoot)
	if err != nil {
		w.logger.Debug().Err(err).Msg("Cannot list source root")
		return
	}
	for _, dir := range entries {
		if err := w.add(dir); err != nil {
			w.logger.Warn().Err(err).Str("dir", dir).Msg("Cannot watch category")
		}
	}
}

func readDirs(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	var dirs []string
	for _, e := range entries {
		if e.IsDir() {
			dirs = append(dirs, filepath.Join(dir, e.Name()))
		}
	}
	return dirs, nil
}

func (w *Watcher) add(dir string) error {
	if w.watched[dir] {
		return nil
	}
	if err := w.watcher.Add(dir); err != nil {
		return errors.Wrapf(err, errors.ErrWatch, "failed to watch %s", dir).
			WithDetail(errors.DetailPath, dir)
	}
	w.watched[dir] = true
	return nil
}
