package main

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
)

func TestFormWatcher_ReportsChangedForms(t *testing.T) {
	dir := t.TempDir()
	fw, err := newFormWatcher([]string{dir}, 20*time.Millisecond)
	if err != nil {
		t.Fatalf("watcher: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	changed := make(chan string, 8)
	done := make(chan error, 1)
	go func() {
		done <- fw.Run(ctx, func(p string) { changed <- p })
	}()

	writeFile(t, dir, "notes.txt", "ignored")
	want := writeFile(t, dir, "form.json", `{"id":"x","title":"X","sections":[]}`)

	select {
	case got := <-changed:
		if filepath.Clean(got) != filepath.Clean(want) {
			t.Fatalf("unexpected path %q", got)
		}
	case <-time.After(5 * time.Second):
		t.Fatalf("no change reported")
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("run: %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatalf("watcher did not stop")
	}
}

func TestFormWatcher_SingleFileRoot(t *testing.T) {
	dir := t.TempDir()
	target := writeFile(t, dir, "a.yaml", "id: a\n")
	fw, err := newFormWatcher([]string{target}, time.Millisecond)
	if err != nil {
		t.Fatalf("watcher: %v", err)
	}
	defer fw.watcher.Close()

	if !fw.relevant(fsnotifyWrite(target)) {
		t.Fatalf("the watched file should be reported")
	}
	if fw.relevant(fsnotifyWrite(filepath.Join(dir, "b.yaml"))) {
		t.Fatalf("siblings of a single-file root should be ignored")
	}
}

func TestLint_WatchNeedsPaths(t *testing.T) {
	_, _, err := execute(t, "lint", "--watch")
	if exitCode(err) != 3 {
		t.Fatalf("expected exit code 3, got %v", err)
	}
}

func fsnotifyWrite(name string) fsnotify.Event {
	return fsnotify.Event{Name: name, Op: fsnotify.Write}
}
