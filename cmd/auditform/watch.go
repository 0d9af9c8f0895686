package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/fsnotify/fsnotify"
)

const watchDebounce = 300 * time.Millisecond

// formWatcher reports form files that were written or created under a set of
// roots. Bursts of events for the same file collapse into one notification.
type formWatcher struct {
	watcher  *fsnotify.Watcher
	files    map[string]struct{}
	debounce time.Duration
}

// newFormWatcher subscribes to every directory under roots. Roots naming a
// single file watch its directory but only report that file.
func newFormWatcher(roots []string, debounce time.Duration) (*formWatcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	fw := &formWatcher{watcher: w, files: map[string]struct{}{}, debounce: debounce}
	for _, root := range roots {
		if err := fw.add(root); err != nil {
			_ = w.Close()
			return nil, err
		}
	}
	return fw, nil
}

func (fw *formWatcher) add(root string) error {
	info, err := os.Stat(root)
	if err != nil {
		return err
	}
	if !info.IsDir() {
		fw.files[filepath.Clean(root)] = struct{}{}
		return fw.watcher.Add(filepath.Dir(root))
	}
	return filepath.WalkDir(root, func(p string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return fw.watcher.Add(p)
		}
		return nil
	})
}

func (fw *formWatcher) relevant(ev fsnotify.Event) bool {
	if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) {
		return false
	}
	if !isFormFile(ev.Name) {
		return false
	}
	if len(fw.files) == 0 {
		return true
	}
	if _, ok := fw.files[filepath.Clean(ev.Name)]; ok {
		return true
	}
	// Files inside watched directories count unless only single files were
	// requested for that directory.
	for file := range fw.files {
		if filepath.Dir(file) == filepath.Dir(ev.Name) {
			return false
		}
	}
	return true
}

// Run delivers changed paths to onChange, sorted, until ctx ends. The watcher
// is closed on return.
func (fw *formWatcher) Run(ctx context.Context, onChange func(path string)) error {
	defer fw.watcher.Close()

	pending := map[string]struct{}{}
	var (
		timer *time.Timer
		fire  <-chan time.Time
	)
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-fw.watcher.Events:
			if !ok {
				return nil
			}
			if !fw.relevant(ev) {
				continue
			}
			pending[ev.Name] = struct{}{}
			if timer == nil {
				timer = time.NewTimer(fw.debounce)
			} else {
				timer.Reset(fw.debounce)
			}
			fire = timer.C
		case err, ok := <-fw.watcher.Errors:
			if !ok {
				return nil
			}
			return fmt.Errorf("watch: %w", err)
		case <-fire:
			fire = nil
			paths := make([]string, 0, len(pending))
			for p := range pending {
				paths = append(paths, p)
			}
			sort.Strings(paths)
			clear(pending)
			for _, p := range paths {
				onChange(p)
			}
		}
	}
}
