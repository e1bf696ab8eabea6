package arbor

import (
	"os"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
	"github.com/pkg/errors"
)

// ShaderWatcher recompiles shaders when their source files change on disk.
// fsnotify delivers events on its own goroutine; Poll drains them without
// blocking so recompilation happens on the game goroutine.
type ShaderWatcher struct {
	watcher *fsnotify.Watcher
	shaders map[string][]*Shader
	dirs    map[string]bool
	dirty   map[string]bool
}

// NewShaderWatcher starts an fsnotify watcher.
func NewShaderWatcher() (*ShaderWatcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, errors.Wrap(err, "start shader watcher")
	}
	return &ShaderWatcher{
		watcher: w,
		shaders: make(map[string][]*Shader),
		dirs:    make(map[string]bool),
		dirty:   make(map[string]bool),
	}, nil
}

// Watch reloads shader from path whenever the file changes. The containing
// directory is watched so editors that save by renaming are seen too.
func (w *ShaderWatcher) Watch(shader *Shader, path string) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return errors.Wrapf(err, "watch %s", path)
	}
	dir := filepath.Dir(abs)
	if !w.dirs[dir] {
		if err := w.watcher.Add(dir); err != nil {
			return errors.Wrapf(err, "watch %s", dir)
		}
		w.dirs[dir] = true
	}
	w.shaders[abs] = append(w.shaders[abs], shader)
	return nil
}

// Poll handles the pending file events and reloads every changed shader once.
// It returns the number of successful reloads.
func (w *ShaderWatcher) Poll() int {
	for {
		select {
		case ev, ok := <-w.watcher.Events:
			if !ok {
				return w.flush()
			}
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Rename) {
				continue
			}
			if _, watched := w.shaders[filepath.Clean(ev.Name)]; watched {
				w.dirty[filepath.Clean(ev.Name)] = true
			}
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return w.flush()
			}
			logger.Warn("shader watcher", "err", err)
		default:
			return w.flush()
		}
	}
}

func (w *ShaderWatcher) flush() int {
	reloaded := 0
	for path := range w.dirty {
		delete(w.dirty, path)
		src, err := os.ReadFile(path)
		if err != nil {
			// Rename-based saves can briefly leave no file; the Create
			// event that follows triggers another attempt.
			logger.Debug("shader source not readable", "path", path, "err", err)
			continue
		}
		for _, s := range w.shaders[path] {
			if err := s.Reload(src); err != nil {
				logger.Warn("shader reload failed, keeping previous program", "shader", s.Name, "err", err)
				continue
			}
			logger.Info("shader reloaded", "shader", s.Name)
			reloaded++
		}
	}
	return reloaded
}

// Close stops the watcher.
func (w *ShaderWatcher) Close() error {
	return w.watcher.Close()
}
