package watcher

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
)

func skipHousekeeping(name string) bool {
	return strings.HasPrefix(name, ".") || name == "node_modules" || name == "__pycache__"
}

func isPython(name string) bool {
	return filepath.Ext(name) == ".py"
}

// collect gathers events until the window elapses or the channel closes.
func collect(events <-chan Event, window time.Duration) []Event {
	var collected []Event
	timeout := time.After(window)
	for {
		select {
		case evt, ok := <-events:
			if !ok {
				return collected
			}
			collected = append(collected, evt)
		case <-timeout:
			return collected
		}
	}
}

func startWatcher(t *testing.T, cfg WatcherConfig) <-chan Event {
	t.Helper()
	w, err := NewWatcher(cfg)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { w.Close() })

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	t.Cleanup(cancel)

	events, err := w.Start(ctx)
	if err != nil {
		t.Fatal(err)
	}
	// Give the watcher time to initialize.
	time.Sleep(200 * time.Millisecond)
	return events
}

func TestEventDebouncing(t *testing.T) {
	tmpDir := t.TempDir()
	testFile := filepath.Join(tmpDir, "mod.py")
	if err := os.WriteFile(testFile, []byte("x = 0\n"), 0644); err != nil {
		t.Fatal(err)
	}

	events := startWatcher(t, WatcherConfig{Root: tmpDir, Match: isPython})

	// Write to the file multiple times in rapid succession.
	for i := 0; i < 5; i++ {
		if err := os.WriteFile(testFile, []byte("x = "+string(rune('0'+i))+"\n"), 0644); err != nil {
			t.Fatal(err)
		}
		time.Sleep(10 * time.Millisecond)
	}
	time.Sleep(300 * time.Millisecond)

	collected := collect(events, 500*time.Millisecond)
	if len(collected) == 0 {
		t.Error("expected at least one debounced event, got none")
	}
	if len(collected) >= 5 {
		t.Errorf("expected debouncing to reduce events, got %d events for 5 writes", len(collected))
	}
	for _, evt := range collected {
		if evt.Path != testFile {
			t.Errorf("unexpected event path: %s", evt.Path)
		}
	}
}

func TestWatcherNewDirectory(t *testing.T) {
	tmpDir := t.TempDir()
	events := startWatcher(t, WatcherConfig{Root: tmpDir, Match: isPython})

	subDir := filepath.Join(tmpDir, "pkg")
	if err := os.Mkdir(subDir, 0755); err != nil {
		t.Fatal(err)
	}
	// Wait for the directory to be added to the watcher.
	time.Sleep(300 * time.Millisecond)

	newFile := filepath.Join(subDir, "new.py")
	if err := os.WriteFile(newFile, []byte("pass\n"), 0644); err != nil {
		t.Fatal(err)
	}
	time.Sleep(300 * time.Millisecond)

	collected := collect(events, 500*time.Millisecond)
	if len(collected) == 0 {
		t.Fatal("expected events for the new file, got none")
	}
	for _, evt := range collected {
		if evt.Path == subDir {
			t.Errorf("directory creation should not be emitted: %+v", evt)
		}
	}
}

func TestWatcherSkipsAndFilters(t *testing.T) {
	tmpDir := t.TempDir()
	nmDir := filepath.Join(tmpDir, "node_modules")
	if err := os.MkdirAll(nmDir, 0755); err != nil {
		t.Fatal(err)
	}

	events := startWatcher(t, WatcherConfig{
		Root:     tmpDir,
		Skip:     skipHousekeeping,
		Match:    isPython,
		Debounce: 50 * time.Millisecond,
	})

	writes := map[string]string{
		filepath.Join(nmDir, "vendored.py"): "pass\n",
		filepath.Join(tmpDir, ".hidden.py"): "pass\n",
		filepath.Join(tmpDir, "notes.txt"):  "text\n",
		filepath.Join(tmpDir, "main.py"):    "pass\n",
	}
	for path, content := range writes {
		if err := os.WriteFile(path, []byte(content), 0644); err != nil {
			t.Fatal(err)
		}
	}
	time.Sleep(300 * time.Millisecond)

	collected := collect(events, 500*time.Millisecond)
	sawMain := false
	for _, evt := range collected {
		if evt.Path == filepath.Join(tmpDir, "main.py") {
			sawMain = true
			continue
		}
		t.Errorf("unexpected event: %+v", evt)
	}
	if !sawMain {
		t.Error("expected an event for main.py")
	}
}

func TestWatcherClosesChannelOnCancel(t *testing.T) {
	w, err := NewWatcher(WatcherConfig{Root: t.TempDir()})
	if err != nil {
		t.Fatal(err)
	}
	defer w.Close()

	ctx, cancel := context.WithCancel(context.Background())
	events, err := w.Start(ctx)
	if err != nil {
		t.Fatal(err)
	}
	cancel()

	select {
	case _, ok := <-events:
		if ok {
			t.Error("expected closed channel")
		}
	case <-time.After(2 * time.Second):
		t.Fatal("channel not closed after cancel")
	}
}

func TestConvertOp(t *testing.T) {
	tests := []struct {
		name   string
		op     fsnotify.Op
		want   EventOp
		wantOk bool
	}{
		{"create", fsnotify.Create, Create, true},
		{"write", fsnotify.Write, Write, true},
		{"remove", fsnotify.Remove, Remove, true},
		{"rename", fsnotify.Rename, Rename, true},
		{"chmod only", fsnotify.Chmod, 0, false},
		{"create and write", fsnotify.Create | fsnotify.Write, Create, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := convertOp(tt.op)
			if ok != tt.wantOk || got != tt.want {
				t.Errorf("convertOp(%v) = %v, %v; want %v, %v", tt.op, got, ok, tt.want, tt.wantOk)
			}
		})
	}
}

func TestEventOpString(t *testing.T) {
	for op, want := range map[EventOp]string{Create: "Create", Write: "Write", Remove: "Remove", Rename: "Rename", EventOp(42): "Unknown"} {
		if got := op.String(); got != want {
			t.Errorf("EventOp(%d).String() = %q, want %q", op, got, want)
		}
	}
}
