package watcher

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
)

func TestDecodeEvent(t *testing.T) {
	root := filepath.Join(string(filepath.Separator), "inbox")

	tests := []struct {
		name  string
		event fsnotify.Event
		want  ChangeEvent
		ok    bool
	}{
		{
			name:  "Create",
			event: fsnotify.Event{Name: filepath.Join(root, "a.pdf"), Op: fsnotify.Create},
			want:  ChangeEvent{Name: "a.pdf", Op: OpCreate},
			ok:    true,
		},
		{
			name:  "Rename out",
			event: fsnotify.Event{Name: filepath.Join(root, "a.pdf"), Op: fsnotify.Rename},
			want:  ChangeEvent{Name: "a.pdf", Op: OpRename},
			ok:    true,
		},
		{
			name:  "Remove",
			event: fsnotify.Event{Name: filepath.Join(root, "a.pdf"), Op: fsnotify.Remove},
			want:  ChangeEvent{Name: "a.pdf", Op: OpRemove},
			ok:    true,
		},
		{
			name:  "Write",
			event: fsnotify.Event{Name: filepath.Join(root, "a.pdf"), Op: fsnotify.Write},
		},
		{
			name:  "Chmod",
			event: fsnotify.Event{Name: filepath.Join(root, "a.pdf"), Op: fsnotify.Chmod},
		},
		{
			name:  "Nested",
			event: fsnotify.Event{Name: filepath.Join(root, "sub", "a.pdf"), Op: fsnotify.Create},
		},
		{
			name:  "Root itself",
			event: fsnotify.Event{Name: root, Op: fsnotify.Remove},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := decodeEvent(root, tt.event)
			if ok != tt.ok || got != tt.want {
				t.Errorf("decodeEvent() = %v, %v, want %v, %v", got, ok, tt.want, tt.ok)
			}
		})
	}
}

func TestFSNotify(t *testing.T) {
	dir := t.TempDir()

	sub, err := NewFSNotify().Subscribe(dir)
	if err != nil {
		t.Fatalf("Subscribe() error = %v", err)
	}
	defer sub.Close()

	if writeErr := os.WriteFile(filepath.Join(dir, "a.pdf"), []byte("%PDF"), 0o600); writeErr != nil {
		t.Fatal(writeErr)
	}

	want := ChangeEvent{Name: "a.pdf", Op: OpCreate}
	for {
		got, readErr := readBatch(t, sub)
		if readErr != nil {
			t.Fatalf("ReadBatch() error = %v", readErr)
		}
		for _, event := range got {
			if event == want {
				return
			}
		}
	}
}

func TestFSNotify_FolderRemoved(t *testing.T) {
	if runtime.GOOS != "linux" {
		t.Skip("relies on inotify reporting the removal of the watched folder")
	}

	dir := filepath.Join(t.TempDir(), "inbox")
	if err := os.Mkdir(dir, 0o700); err != nil {
		t.Fatal(err)
	}

	sub, err := NewFSNotify().Subscribe(dir)
	if err != nil {
		t.Fatalf("Subscribe() error = %v", err)
	}
	defer sub.Close()

	if removeErr := os.Remove(dir); removeErr != nil {
		t.Fatal(removeErr)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	for {
		batch, readErr := sub.ReadBatch(ctx)
		if readErr != nil {
			if !errors.Is(readErr, ErrWatchedDirGone) {
				t.Errorf("ReadBatch() error = %v, want %v", readErr, ErrWatchedDirGone)
			}
			return
		}
		for range batch {
		}
	}
}

func TestFSNotify_CloseTwice(t *testing.T) {
	sub, err := NewFSNotify().Subscribe(t.TempDir())
	if err != nil {
		t.Fatalf("Subscribe() error = %v", err)
	}

	if closeErr := sub.Close(); closeErr != nil {
		t.Errorf("first Close() error = %v", closeErr)
	}
	if closeErr := sub.Close(); closeErr != nil {
		t.Errorf("second Close() error = %v", closeErr)
	}
}

func TestFSNotify_SubscribeMissing(t *testing.T) {
	if _, err := NewFSNotify().Subscribe(filepath.Join(t.TempDir(), "missing")); err == nil {
		t.Error("Subscribe() error = nil, want error")
	}
}
