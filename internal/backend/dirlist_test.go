package backend

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"golang.org/x/sys/unix"
)

func TestListDirEntries(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "file.txt"), []byte("hello"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := os.Mkdir(filepath.Join(dir, "sub"), 0755); err != nil {
		t.Fatal(err)
	}

	got := make(map[string]unix.Stat_t)
	err := ListDir(dir, func(name string, st *unix.Stat_t) bool {
		got[name] = *st
		return true
	})
	if err != nil {
		t.Fatalf("ListDir failed: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("ListDir yielded %d entries, want 2", len(got))
	}

	// Each snapshot must match a direct attribute query on the same path.
	for name, st := range got {
		var direct unix.Stat_t
		if err := unix.Lstat(filepath.Join(dir, name), &direct); err != nil {
			t.Fatalf("Lstat(%s) failed: %v", name, err)
		}
		if st.Ino != direct.Ino || st.Mode != direct.Mode || st.Size != direct.Size {
			t.Errorf("entry %s snapshot differs from direct lstat", name)
		}
	}

	if got["file.txt"].Mode&unix.S_IFMT != unix.S_IFREG {
		t.Error("file.txt not reported as regular file")
	}
	if got["sub"].Mode&unix.S_IFMT != unix.S_IFDIR {
		t.Error("sub not reported as directory")
	}
}

// TestListDirEarlyStop verifies the emit callback's continuation signal
// halts enumeration immediately.
func TestListDirEarlyStop(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"a", "b", "c", "d", "e"} {
		if err := os.WriteFile(filepath.Join(dir, name), nil, 0644); err != nil {
			t.Fatal(err)
		}
	}

	seen := 0
	err := ListDir(dir, func(name string, st *unix.Stat_t) bool {
		seen++
		return false
	})
	if err != nil {
		t.Fatalf("ListDir failed: %v", err)
	}
	if seen != 1 {
		t.Errorf("enumeration continued past stop signal: %d entries", seen)
	}
}

// TestListDirSkipsUnstatable verifies that entries whose lstat fails are
// skipped while enumeration continues. A dangling symlink still lstats, so
// the race is simulated by removing a file between listing and stat via a
// subdirectory the test user cannot search.
func TestListDirSkipsUnstatable(t *testing.T) {
	if os.Getuid() == 0 {
		t.Skip("permission-based skip does not trigger as root")
	}

	dir := t.TempDir()
	sub := filepath.Join(dir, "locked")
	if err := os.Mkdir(sub, 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(sub, "hidden"), nil, 0644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(sub, "visible"), nil, 0644); err != nil {
		t.Fatal(err)
	}
	if err := os.Chmod(sub, 0400); err != nil { // listable, not searchable
		t.Fatal(err)
	}
	defer os.Chmod(sub, 0755)

	names := []string{}
	err := ListDir(sub, func(name string, st *unix.Stat_t) bool {
		names = append(names, name)
		return true
	})
	if err != nil {
		t.Fatalf("ListDir failed: %v", err)
	}
	if len(names) != 0 {
		t.Errorf("unstatable entries were emitted: %v", names)
	}
}

func TestListDirMissing(t *testing.T) {
	err := ListDir(filepath.Join(t.TempDir(), "nope"), func(string, *unix.Stat_t) bool {
		t.Error("emit called for missing directory")
		return true
	})
	var errno unix.Errno
	if !errors.As(err, &errno) || errno != unix.ENOENT {
		t.Fatalf("expected ENOENT, got %v", err)
	}
}
