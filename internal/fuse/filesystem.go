package fuse

import (
	"errors"
	"time"

	"github.com/winfsp/cgofuse/fuse"
	"golang.org/x/sys/unix"

	"github.com/sari-harin/BASIC-FUSE/internal/backend"
	"github.com/sari-harin/BASIC-FUSE/internal/metrics"
	"github.com/sari-harin/BASIC-FUSE/pkg/utils"
)

// invalidFH is the file-handle value cgofuse expects alongside a failed
// open or create.
const invalidFH = ^uint64(0)

// Passthrough implements the FUSE operation set against a backend
// directory tree. It composes the backend components and owns the
// error-to-negated-errno conversion; it keeps no mutable state of its own.
type Passthrough struct {
	fuse.FileSystemBase

	resolver *backend.Resolver
	metrics  *metrics.Collector
	logger   *utils.Logger
}

// NewPassthrough creates a dispatcher rooted at the given backend
// directory. The collector and logger may be nil.
func NewPassthrough(root string, collector *metrics.Collector, logger *utils.Logger) *Passthrough {
	if logger == nil {
		logger = utils.Discard()
	}
	return &Passthrough{
		resolver: backend.NewResolver(root),
		metrics:  collector,
		logger:   logger,
	}
}

// errno converts a backend failure into the negated OS error code the FUSE
// convention requires. Errors that carry no errno (which the backend layer
// never produces in practice) degrade to EIO.
func errno(err error) int {
	if err == nil {
		return 0
	}
	var e unix.Errno
	if errors.As(err, &e) {
		return -int(e)
	}
	return -int(unix.EIO)
}

func (p *Passthrough) record(op string, start time.Time, errc *int) {
	if p.metrics != nil {
		p.metrics.RecordOperation(op, time.Since(start), *errc >= 0)
	}
}

// copyStat mirrors a backend attribute record into the FUSE stat buffer.
func copyStat(dst *fuse.Stat_t, src *unix.Stat_t) {
	dst.Dev = src.Dev
	dst.Ino = src.Ino
	dst.Mode = src.Mode
	dst.Nlink = uint32(src.Nlink)
	dst.Uid = src.Uid
	dst.Gid = src.Gid
	dst.Rdev = src.Rdev
	dst.Size = src.Size
	dst.Atim = fuse.Timespec{Sec: src.Atim.Sec, Nsec: src.Atim.Nsec}
	dst.Mtim = fuse.Timespec{Sec: src.Mtim.Sec, Nsec: src.Mtim.Nsec}
	dst.Ctim = fuse.Timespec{Sec: src.Ctim.Sec, Nsec: src.Ctim.Nsec}
	dst.Blksize = src.Blksize
	dst.Blocks = src.Blocks
}

// Init is invoked once by the request source before any other operation.
func (p *Passthrough) Init() {
	p.logger.Info("basicfs initialized, backend: %s", p.resolver.Root())
}

// Getattr returns the attributes of the node at path. The file handle is
// ignored; attributes are always resolved by path, as the backend is the
// only attribute store.
func (p *Passthrough) Getattr(path string, stat *fuse.Stat_t, fh uint64) (errc int) {
	defer p.record("getattr", time.Now(), &errc)

	fpath, err := p.resolver.Resolve(path)
	if err != nil {
		return errno(err)
	}
	var st unix.Stat_t
	if err := backend.Lstat(fpath, &st); err != nil {
		return errno(err)
	}
	copyStat(stat, &st)
	return 0
}

// Readdir streams directory entries to fill, each with a fresh attribute
// snapshot. Entries that cannot be stat'ed are skipped by the enumerator;
// fill returning false stops the stream early.
func (p *Passthrough) Readdir(path string,
	fill func(name string, stat *fuse.Stat_t, ofst int64) bool,
	ofst int64, fh uint64) (errc int) {
	defer p.record("readdir", time.Now(), &errc)

	fpath, err := p.resolver.Resolve(path)
	if err != nil {
		return errno(err)
	}

	fill(".", nil, 0)
	fill("..", nil, 0)

	err = backend.ListDir(fpath, func(name string, st *unix.Stat_t) bool {
		var stat fuse.Stat_t
		copyStat(&stat, st)
		return fill(name, &stat, 0)
	})
	return errno(err)
}

// Create makes the file at path and returns a handle bound to it.
func (p *Passthrough) Create(path string, flags int, mode uint32) (errc int, fh uint64) {
	defer p.record("create", time.Now(), &errc)

	fpath, err := p.resolver.Resolve(path)
	if err != nil {
		return errno(err), invalidFH
	}
	h, err := backend.Create(fpath, flags, mode)
	if err != nil {
		return errno(err), invalidFH
	}
	return 0, h.FH()
}

// Open opens the file at path with the caller's flags and returns a bound
// handle.
func (p *Passthrough) Open(path string, flags int) (errc int, fh uint64) {
	defer p.record("open", time.Now(), &errc)

	fpath, err := p.resolver.Resolve(path)
	if err != nil {
		return errno(err), invalidFH
	}
	h, err := backend.Acquire(fpath, flags)
	if err != nil {
		return errno(err), invalidFH
	}
	return 0, h.FH()
}

// Read reads up to len(buff) bytes at ofst through the handle. A short
// count at end of file is success. The path is unused once a handle
// exists.
func (p *Passthrough) Read(path string, buff []byte, ofst int64, fh uint64) (n int) {
	defer p.record("read", time.Now(), &n)

	count, err := backend.FromFH(fh).ReadAt(buff, ofst)
	if err != nil {
		return errno(err)
	}
	if p.metrics != nil {
		p.metrics.RecordBytes("read", count)
	}
	return count
}

// Write writes all of buff at ofst through the handle. On success the
// returned count equals len(buff) even when the backend serviced the
// request as several partial writes.
func (p *Passthrough) Write(path string, buff []byte, ofst int64, fh uint64) (n int) {
	defer p.record("write", time.Now(), &n)

	count, err := backend.FromFH(fh).WriteAt(buff, ofst)
	if err != nil {
		return errno(err)
	}
	if p.metrics != nil {
		p.metrics.RecordBytes("write", count)
	}
	return count
}

// Release closes the handle created by Open or Create. A zeroed handle is
// a no-op that still reports success.
func (p *Passthrough) Release(path string, fh uint64) (errc int) {
	defer p.record("release", time.Now(), &errc)

	return errno(backend.FromFH(fh).Release())
}

// Unlink removes the file at path.
func (p *Passthrough) Unlink(path string) (errc int) {
	defer p.record("unlink", time.Now(), &errc)

	fpath, err := p.resolver.Resolve(path)
	if err != nil {
		return errno(err)
	}
	return errno(backend.Unlink(fpath))
}

// Rename moves oldpath to newpath. The request source at this binding
// never carries rename flags; the backend layer still rejects any that
// appear.
func (p *Passthrough) Rename(oldpath string, newpath string) (errc int) {
	defer p.record("rename", time.Now(), &errc)

	from, err := p.resolver.Resolve(oldpath)
	if err != nil {
		return errno(err)
	}
	to, err := p.resolver.Resolve(newpath)
	if err != nil {
		return errno(err)
	}
	return errno(backend.Rename(from, to, 0))
}

// Mkdir creates a directory at path.
func (p *Passthrough) Mkdir(path string, mode uint32) (errc int) {
	defer p.record("mkdir", time.Now(), &errc)

	fpath, err := p.resolver.Resolve(path)
	if err != nil {
		return errno(err)
	}
	return errno(backend.Mkdir(fpath, mode))
}

// Rmdir removes the directory at path.
func (p *Passthrough) Rmdir(path string) (errc int) {
	defer p.record("rmdir", time.Now(), &errc)

	fpath, err := p.resolver.Resolve(path)
	if err != nil {
		return errno(err)
	}
	return errno(backend.Rmdir(fpath))
}

// Chmod changes the permission bits of the node at path.
func (p *Passthrough) Chmod(path string, mode uint32) (errc int) {
	defer p.record("chmod", time.Now(), &errc)

	fpath, err := p.resolver.Resolve(path)
	if err != nil {
		return errno(err)
	}
	return errno(backend.Chmod(fpath, mode))
}

// Chown changes ownership of the node at path.
func (p *Passthrough) Chown(path string, uid uint32, gid uint32) (errc int) {
	defer p.record("chown", time.Now(), &errc)

	fpath, err := p.resolver.Resolve(path)
	if err != nil {
		return errno(err)
	}
	return errno(backend.Chown(fpath, chownID(uid), chownID(gid)))
}

// chownID maps the FUSE "leave unchanged" marker to the -1 the syscall
// expects.
func chownID(id uint32) int {
	if id == ^uint32(0) {
		return -1
	}
	return int(id)
}

// Truncate sets the size of the file at path. The handle, when present, is
// ignored; truncation is always by path.
func (p *Passthrough) Truncate(path string, size int64, fh uint64) (errc int) {
	defer p.record("truncate", time.Now(), &errc)

	fpath, err := p.resolver.Resolve(path)
	if err != nil {
		return errno(err)
	}
	return errno(backend.Truncate(fpath, size))
}

// Utimens applies an (atime, mtime) pair to the node at path. A nil pair
// sets both times to now.
func (p *Passthrough) Utimens(path string, tmsp []fuse.Timespec) (errc int) {
	defer p.record("utimens", time.Now(), &errc)

	fpath, err := p.resolver.Resolve(path)
	if err != nil {
		return errno(err)
	}
	var ts []unix.Timespec
	if tmsp != nil {
		ts = []unix.Timespec{
			{Sec: tmsp[0].Sec, Nsec: tmsp[0].Nsec},
			{Sec: tmsp[1].Sec, Nsec: tmsp[1].Nsec},
		}
	}
	return errno(backend.Utimens(fpath, ts))
}

// Statfs reports the statistics of the backend filesystem.
func (p *Passthrough) Statfs(path string, stat *fuse.Statfs_t) (errc int) {
	defer p.record("statfs", time.Now(), &errc)

	fpath, err := p.resolver.Resolve(path)
	if err != nil {
		return errno(err)
	}
	var st unix.Statfs_t
	if err := backend.Statfs(fpath, &st); err != nil {
		return errno(err)
	}
	stat.Bsize = uint64(st.Bsize)
	stat.Frsize = uint64(st.Frsize)
	stat.Blocks = st.Blocks
	stat.Bfree = st.Bfree
	stat.Bavail = st.Bavail
	stat.Files = st.Files
	stat.Ffree = st.Ffree
	stat.Favail = st.Ffree
	stat.Namemax = uint64(st.Namelen)
	return 0
}
