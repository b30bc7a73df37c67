package backend

import (
	"os"

	"golang.org/x/sys/unix"
)

// ListDir enumerates the backend directory at path, calling emit once per
// entry with the entry name and a fresh attribute snapshot. Entries whose
// lstat fails (for example a broken symlink racing with removal) are
// skipped and enumeration continues. When emit returns false the
// enumeration stops immediately; this is the request source signalling a
// full output buffer. The directory stream is closed on every exit path.
// Entry order is whatever the backend produces.
func ListDir(path string, emit func(name string, st *unix.Stat_t) bool) error {
	dir, err := os.Open(path)
	if err != nil {
		return err
	}
	defer dir.Close()

	names, err := dir.Readdirnames(-1)
	if err != nil {
		return err
	}

	for _, name := range names {
		var st unix.Stat_t
		if err := unix.Lstat(path+"/"+name, &st); err != nil {
			continue
		}
		if !emit(name, &st) {
			break
		}
	}
	return nil
}
