package fuse

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateMountPoint(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "f")
	require.NoError(t, os.WriteFile(file, nil, 0644))

	tests := []struct {
		name       string
		mountPoint string
		wantErr    bool
	}{
		{"empty", "", true},
		{"missing", filepath.Join(dir, "nope"), true},
		{"regular file", file, true},
		{"directory", dir, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateMountPoint(tt.mountPoint)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestBuildOptions(t *testing.T) {
	m := NewMountManager(nil, &MountOptions{
		MountPoint: "/mnt/x",
		FSName:     "basicfs",
		Subtype:    "passthrough",
	}, nil)
	opts := m.buildOptions()
	assert.Contains(t, opts, "fsname=basicfs")
	assert.Contains(t, opts, "subtype=passthrough")
	assert.NotContains(t, opts, "allow_other")
	assert.NotContains(t, opts, "ro")

	m = NewMountManager(nil, &MountOptions{
		MountPoint: "/mnt/x",
		FSName:     "basicfs",
		Subtype:    "passthrough",
		AllowOther: true,
		ReadOnly:   true,
	}, nil)
	opts = m.buildOptions()
	assert.Contains(t, opts, "allow_other")
	assert.Contains(t, opts, "ro")
}

func TestUnmountWhenNotMounted(t *testing.T) {
	m := NewMountManager(nil, &MountOptions{MountPoint: t.TempDir()}, nil)
	assert.Error(t, m.Unmount())
	assert.False(t, m.IsMounted())
}

func TestMountRejectsBadMountPoint(t *testing.T) {
	m := NewMountManager(NewPassthrough(t.TempDir(), nil, nil), &MountOptions{
		MountPoint: filepath.Join(t.TempDir(), "missing"),
	}, nil)
	assert.Error(t, m.Mount())
}
