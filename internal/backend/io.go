package backend

import (
	"golang.org/x/sys/unix"
)

// Syscall seams so tests can inject partial writes and EINTR.
var (
	pread  = unix.Pread
	pwrite = unix.Pwrite
)

// ReadAt performs a single positioned read into buf. The returned count may
// be short of len(buf) at end of file; that is not an error.
func (h *Handle) ReadAt(buf []byte, off int64) (int, error) {
	n, err := pread(h.fd, buf, off)
	if err != nil {
		return 0, err
	}
	return n, nil
}

// WriteAt writes all of buf at the given offset, issuing as many backend
// writes as needed. A write interrupted by EINTR is retried without losing
// progress; every partial write advances the offset and shrinks the
// remainder. On success the returned count is exactly len(buf).
func (h *Handle) WriteAt(buf []byte, off int64) (int, error) {
	total := len(buf)
	for len(buf) > 0 {
		n, err := pwrite(h.fd, buf, off)
		if err == unix.EINTR {
			continue
		}
		if err != nil {
			return total - len(buf), err
		}
		buf = buf[n:]
		off += int64(n)
	}
	return total, nil
}
