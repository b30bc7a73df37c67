package backend

import (
	"golang.org/x/sys/unix"
)

// Metadata operations are single pass-through backend calls resolved by
// absolute backend path; no attribute state is kept on this side. Failures
// surface verbatim as the backend's errno.

// Lstat fills st with the attributes of the node at path, without
// following a final symlink.
func Lstat(path string, st *unix.Stat_t) error {
	return unix.Lstat(path, st)
}

// Chmod changes the permission bits of the node at path.
func Chmod(path string, mode uint32) error {
	return unix.Chmod(path, mode)
}

// Chown changes ownership of the node at path, without following a final
// symlink. An id of -1 leaves that id unchanged.
func Chown(path string, uid, gid int) error {
	return unix.Lchown(path, uid, gid)
}

// Truncate sets the size of the file at path.
func Truncate(path string, size int64) error {
	return unix.Truncate(path, size)
}

// Utimens applies an (atime, mtime) pair to the node at path. The path is
// absolute, so no working directory is involved. A nil ts sets both times
// to now.
func Utimens(path string, ts []unix.Timespec) error {
	return unix.UtimesNanoAt(unix.AT_FDCWD, path, ts, 0)
}

// Statfs fills st with the statistics of the filesystem holding path.
func Statfs(path string, st *unix.Statfs_t) error {
	return unix.Statfs(path, st)
}
