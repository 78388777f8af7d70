package parsers

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/cosmic17/gowire"
)

// File serves path lookups from a JSON or YAML config file, selected by
// extension. Lookup is safe to install as a gowire.Parser; Reload swaps
// the underlying document atomically, and WithWatch reloads on file
// changes so factories built after WireAll see updated values.
type File struct {
	path  string
	log   *zap.Logger
	watch bool

	mu     sync.RWMutex
	parser gowire.Parser

	watcher *fsnotify.Watcher
	done    chan struct{}
}

// FileOption configures a File source.
type FileOption func(*File)

// WithFileLogger routes reload and watch diagnostics through log.
func WithFileLogger(log *zap.Logger) FileOption {
	return func(f *File) {
		if log != nil {
			f.log = log
		}
	}
}

// WithWatch reloads the file whenever it changes on disk. The watch runs
// until Close.
func WithWatch() FileOption {
	return func(f *File) {
		f.watch = true
	}
}

// NewFile loads the config file at path and returns a File source.
// Supported extensions: .json, .yaml, .yml.
func NewFile(path string, options ...FileOption) (*File, error) {
	f := &File{
		path: path,
		log:  zap.NewNop(),
	}
	for _, opt := range options {
		opt(f)
	}
	if err := f.Reload(); err != nil {
		return nil, err
	}
	if f.watch {
		if err := f.startWatch(); err != nil {
			return nil, err
		}
	}
	return f, nil
}

// Reload re-reads the file and swaps in a parser over its contents.
func (f *File) Reload() error {
	data, err := os.ReadFile(f.path)
	if err != nil {
		return fmt.Errorf("parsers: read %s: %w", f.path, err)
	}

	var p gowire.Parser
	switch ext := filepath.Ext(f.path); ext {
	case ".json":
		p = JSON(data)
	case ".yaml", ".yml":
		p, err = YAML(data)
		if err != nil {
			return err
		}
	default:
		return fmt.Errorf("parsers: unsupported config extension %q", ext)
	}

	f.mu.Lock()
	f.parser = p
	f.mu.Unlock()
	f.log.Debug("config reloaded", zap.String("file", f.path))
	return nil
}

// Lookup resolves a path against the current document. It has the
// gowire.Parser signature.
func (f *File) Lookup(path string) (any, error) {
	f.mu.RLock()
	p := f.parser
	f.mu.RUnlock()
	return p(path)
}

// Parser returns Lookup as a gowire.Parser.
func (f *File) Parser() gowire.Parser {
	return f.Lookup
}

// startWatch watches the file's directory rather than the file itself,
// so atomic replace-by-rename (the way most editors and config pushers
// write) still triggers a reload.
func (f *File) startWatch() error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("parsers: watch %s: %w", f.path, err)
	}
	if err := w.Add(filepath.Dir(f.path)); err != nil {
		_ = w.Close()
		return fmt.Errorf("parsers: watch %s: %w", f.path, err)
	}
	f.watcher = w
	f.done = make(chan struct{})
	go f.watchLoop()
	return nil
}

func (f *File) watchLoop() {
	for {
		select {
		case ev, ok := <-f.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(ev.Name) != filepath.Clean(f.path) {
				continue
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			if err := f.Reload(); err != nil {
				f.log.Warn("config reload failed", zap.String("file", f.path), zap.Error(err))
			}
		case err, ok := <-f.watcher.Errors:
			if !ok {
				return
			}
			f.log.Warn("config watch error", zap.Error(err))
		case <-f.done:
			return
		}
	}
}

// Close stops watching. Lookup keeps serving the last loaded document.
func (f *File) Close() error {
	var err error
	if f.done != nil {
		close(f.done)
		f.done = nil
	}
	if f.watcher != nil {
		err = multierr.Append(err, f.watcher.Close())
		f.watcher = nil
	}
	return err
}
