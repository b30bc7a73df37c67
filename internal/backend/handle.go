package backend

import (
	"golang.org/x/sys/unix"
)

// Handle owns one open backend file descriptor. A handle is created by
// Acquire or Create, used for positioned I/O, and destroyed by Release.
// Ownership is the caller's: no table of live handles is kept, and the
// FUSE request source guarantees exactly one Release per acquisition.
type Handle struct {
	fd int
}

// Acquire opens the backend file at path for a plain open request. The
// caller's flags are passed through to the backend unmodified; no
// translation or restriction is applied.
func Acquire(path string, flags int) (*Handle, error) {
	fd, err := unix.Open(path, flags, 0)
	if err != nil {
		return nil, err
	}
	return &Handle{fd: fd}, nil
}

// Release closes the backend descriptor. Releasing a nil, zeroed, or
// already-released handle is a no-op that reports success.
func (h *Handle) Release() error {
	if h == nil || h.fd <= 0 {
		return nil
	}
	fd := h.fd
	h.fd = -1
	return unix.Close(fd)
}

// FH returns the handle in the uint64 form carried in the FUSE file-handle
// slot. The value is the raw backend descriptor.
func (h *Handle) FH() uint64 {
	return uint64(h.fd)
}

// FromFH reconstructs a handle from the FUSE file-handle slot.
func FromFH(fh uint64) *Handle {
	return &Handle{fd: int(fh)}
}
