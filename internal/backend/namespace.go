package backend

import (
	"golang.org/x/sys/unix"
)

// Create makes (or opens) the file at path and returns a bound handle.
// Unlike Acquire, create does not forward the caller's access flags: the
// backend open always uses O_CREAT|O_WRONLY, augmented with O_APPEND when
// the caller asked for append semantics. This asymmetry with Acquire is
// deliberate and must be kept.
func Create(path string, callerFlags int, mode uint32) (*Handle, error) {
	flags := unix.O_CREAT | unix.O_WRONLY
	if callerFlags&unix.O_APPEND != 0 {
		flags |= unix.O_APPEND
	}
	fd, err := unix.Open(path, flags, mode)
	if err != nil {
		return nil, err
	}
	return &Handle{fd: fd}, nil
}

// Unlink removes the file name at path. Whether data outlives the name for
// concurrently open handles is the backend filesystem's business.
func Unlink(path string) error {
	return unix.Unlink(path)
}

// Mkdir creates a directory at path with the given mode.
func Mkdir(path string, mode uint32) error {
	return unix.Mkdir(path, mode)
}

// Rmdir removes the directory at path.
func Rmdir(path string) error {
	return unix.Rmdir(path)
}

// Rename moves oldpath to newpath. Flagged rename variants (exchange,
// no-replace) are not supported: any non-zero flags fail with EINVAL
// before the backend is touched.
func Rename(oldpath, newpath string, flags uint32) error {
	if flags != 0 {
		return unix.EINVAL
	}
	return unix.Rename(oldpath, newpath)
}
