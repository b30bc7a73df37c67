// Package fuse implements the BasicFS operation dispatcher and mount
// lifecycle.
//
// Passthrough is the façade the FUSE request source drives: one method per
// filesystem operation (getattr, readdir, create, open, read, write,
// release, unlink, rename, mkdir, rmdir, chmod, chown, truncate, utimens,
// statfs). Each method resolves the virtual path against the configured
// backend root, performs the matching action through internal/backend, and
// returns 0 on success or the negated OS error code the backend produced.
// Error codes are never translated or re-interpreted on the way out; the
// single absorbed failure in the system is the EINTR retry inside the
// backend write loop.
//
// The dispatcher holds no locks and keeps no per-path or per-handle state
// beyond the immutable backend root: concurrent operations, including on
// the same path or handle, are handed to the backend filesystem as-is and
// rely on its own guarantees.
//
// MountManager owns the cgofuse FileSystemHost. Mount blocks serving
// requests until the filesystem is unmounted, so callers typically arrange
// an Unmount from a signal handler.
package fuse
