package fuse

import (
	"fmt"
	"os"
	"sync"

	"github.com/winfsp/cgofuse/fuse"

	"github.com/sari-harin/BASIC-FUSE/pkg/utils"
)

// MountOptions contains mount-specific configuration.
type MountOptions struct {
	MountPoint string
	FSName     string
	Subtype    string
	AllowOther bool
	ReadOnly   bool
}

// MountManager owns the FUSE host for a single mount.
type MountManager struct {
	mu      sync.Mutex
	fs      *Passthrough
	host    *fuse.FileSystemHost
	opts    *MountOptions
	logger  *utils.Logger
	mounted bool
}

// NewMountManager creates a mount manager for the given dispatcher.
func NewMountManager(filesystem *Passthrough, opts *MountOptions, logger *utils.Logger) *MountManager {
	if opts == nil {
		opts = &MountOptions{
			FSName:  "basicfs",
			Subtype: "passthrough",
		}
	}
	if logger == nil {
		logger = utils.Discard()
	}
	return &MountManager{
		fs:     filesystem,
		opts:   opts,
		logger: logger,
	}
}

// Mount mounts the filesystem and serves requests until it is unmounted.
// It returns once the mount ends, with an error if mounting failed.
func (m *MountManager) Mount() error {
	m.mu.Lock()
	if m.mounted {
		m.mu.Unlock()
		return fmt.Errorf("filesystem is already mounted")
	}
	if err := validateMountPoint(m.opts.MountPoint); err != nil {
		m.mu.Unlock()
		return fmt.Errorf("invalid mount point: %w", err)
	}
	m.host = fuse.NewFileSystemHost(m.fs)
	m.mounted = true
	m.mu.Unlock()

	m.logger.Info("mounting basicfs at %s", m.opts.MountPoint)
	ok := m.host.Mount(m.opts.MountPoint, m.buildOptions())

	m.mu.Lock()
	m.mounted = false
	m.mu.Unlock()

	if !ok {
		return fmt.Errorf("mount failed at %s", m.opts.MountPoint)
	}
	m.logger.Info("basicfs unmounted from %s", m.opts.MountPoint)
	return nil
}

// Unmount asks the host to end the mount. Safe to call from a signal
// handler goroutine while Mount is serving.
func (m *MountManager) Unmount() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.mounted || m.host == nil {
		return fmt.Errorf("filesystem is not mounted")
	}
	if !m.host.Unmount() {
		return fmt.Errorf("unmount failed at %s", m.opts.MountPoint)
	}
	return nil
}

// IsMounted reports whether the filesystem is currently mounted.
func (m *MountManager) IsMounted() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.mounted
}

// MountPoint returns the configured mount point.
func (m *MountManager) MountPoint() string {
	return m.opts.MountPoint
}

func (m *MountManager) buildOptions() []string {
	opts := []string{
		"-o", "fsname=" + m.opts.FSName,
		"-o", "subtype=" + m.opts.Subtype,
	}
	if m.opts.AllowOther {
		opts = append(opts, "-o", "allow_other")
	}
	if m.opts.ReadOnly {
		opts = append(opts, "-o", "ro")
	}
	return opts
}

func validateMountPoint(mountPoint string) error {
	if mountPoint == "" {
		return fmt.Errorf("mount point is required")
	}
	info, err := os.Stat(mountPoint)
	if err != nil {
		return fmt.Errorf("mount point not accessible: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("mount point %s is not a directory", mountPoint)
	}
	return nil
}
