package monitoring

import (
	"errors"
	"sync"
	"testing"
	"time"
)

type recordMonitor struct {
	mu   sync.Mutex
	errs []error
	tags []map[string]string
}

func (r *recordMonitor) CaptureException(err error, tags map[string]string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.errs = append(r.errs, err)
	r.tags = append(r.tags, tags)
}

func (r *recordMonitor) Recover()            {}
func (r *recordMonitor) Flush(time.Duration) {}

func TestCaptureUsesInstalledMonitor(t *testing.T) {
	rec := &recordMonitor{}
	Init(rec)
	t.Cleanup(func() { Init(NopMonitor{}) })

	CaptureException(errors.New("boom"), map[string]string{"component": "api"})
	if len(rec.errs) != 1 || rec.tags[0]["component"] != "api" {
		t.Fatalf("exception not forwarded: %+v", rec)
	}

	Init(nil)
	CaptureException(errors.New("again"), nil)
	if len(rec.errs) != 2 {
		t.Fatalf("nil Init must keep the current monitor")
	}
}

func TestGoRunsFunction(t *testing.T) {
	done := make(chan struct{})
	Go(func() { close(done) })
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("function not run")
	}
}
