package backend

import (
	"golang.org/x/sys/unix"
)

// Resolver maps virtual paths seen by the FUSE layer to absolute paths in
// the backend directory tree. Resolution is plain concatenation: virtual
// paths arrive from the kernel already absolute and sanitized, so no
// normalization or traversal checks are applied here.
type Resolver struct {
	root string
}

// NewResolver creates a resolver anchored at the given backend root.
// The root must be an absolute path and is fixed for the resolver's lifetime.
func NewResolver(root string) *Resolver {
	return &Resolver{root: root}
}

// Root returns the backend root directory.
func (r *Resolver) Root() string {
	return r.root
}

// Resolve returns the backend path for a virtual path. If the combined
// length exceeds the system path limit the resolution fails with
// ENAMETOOLONG rather than handing a truncated path to the kernel.
func (r *Resolver) Resolve(vpath string) (string, error) {
	if len(r.root)+len(vpath) > unix.PathMax {
		return "", unix.ENAMETOOLONG
	}
	return r.root + vpath, nil
}
