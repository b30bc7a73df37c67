package metrics

import (
	"context"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestNewCollectorDefaults(t *testing.T) {
	c, err := NewCollector(nil)
	if err != nil {
		t.Fatalf("NewCollector failed: %v", err)
	}
	if c.config.Namespace != "basicfs" {
		t.Errorf("namespace = %s, want basicfs", c.config.Namespace)
	}
	if c.Registry() == nil {
		t.Error("enabled collector has no registry")
	}
}

func TestDisabledCollectorIsNoop(t *testing.T) {
	c, err := NewCollector(&Config{Enabled: false})
	if err != nil {
		t.Fatalf("NewCollector failed: %v", err)
	}

	// Must not panic with no registry behind it.
	c.RecordOperation("getattr", time.Millisecond, true)
	c.RecordBytes("read", 512)

	ctx := context.Background()
	if err := c.Start(ctx); err != nil {
		t.Errorf("Start on disabled collector failed: %v", err)
	}
	if err := c.Stop(ctx); err != nil {
		t.Errorf("Stop on disabled collector failed: %v", err)
	}
}

func TestRecordOperation(t *testing.T) {
	c, err := NewCollector(&Config{
		Enabled:   true,
		Port:      0,
		Path:      "/metrics",
		Namespace: "basicfs",
	})
	if err != nil {
		t.Fatalf("NewCollector failed: %v", err)
	}

	c.RecordOperation("getattr", time.Millisecond, true)
	c.RecordOperation("getattr", time.Millisecond, true)
	c.RecordOperation("getattr", time.Millisecond, false)
	c.RecordOperation("write", 2*time.Millisecond, true)

	if got := testutil.ToFloat64(c.operationCounter.WithLabelValues("getattr", "success")); got != 2 {
		t.Errorf("getattr success count = %v, want 2", got)
	}
	if got := testutil.ToFloat64(c.operationCounter.WithLabelValues("getattr", "error")); got != 1 {
		t.Errorf("getattr error count = %v, want 1", got)
	}
	if got := testutil.ToFloat64(c.operationCounter.WithLabelValues("write", "success")); got != 1 {
		t.Errorf("write success count = %v, want 1", got)
	}
}

func TestRecordBytes(t *testing.T) {
	c, err := NewCollector(&Config{
		Enabled:   true,
		Port:      0,
		Path:      "/metrics",
		Namespace: "basicfs",
	})
	if err != nil {
		t.Fatalf("NewCollector failed: %v", err)
	}

	c.RecordBytes("read", 100)
	c.RecordBytes("read", 28)
	c.RecordBytes("write", 5)
	c.RecordBytes("write", 0) // ignored

	if got := testutil.ToFloat64(c.bytesTransferred.WithLabelValues("read")); got != 128 {
		t.Errorf("read bytes = %v, want 128", got)
	}
	if got := testutil.ToFloat64(c.bytesTransferred.WithLabelValues("write")); got != 5 {
		t.Errorf("write bytes = %v, want 5", got)
	}
}
