package inspector

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/use-agent/dashprobe/models"
)

func TestResolveTarget_LocalPath(t *testing.T) {
	tgt, err := resolveTarget("web/unified_asi_monitor.html")
	if err != nil {
		t.Fatalf("resolveTarget: %v", err)
	}
	if tgt.remote {
		t.Error("local path classified as remote")
	}
	if !strings.HasPrefix(tgt.navURL, "file://") {
		t.Errorf("navURL = %q, want file:// scheme", tgt.navURL)
	}
	if !filepath.IsAbs(tgt.path) {
		t.Errorf("path should be absolute: %q", tgt.path)
	}
	if tgt.display != "unified_asi_monitor.html" {
		t.Errorf("display = %q, want the bare file name", tgt.display)
	}
}

func TestResolveTarget_RemoteURL(t *testing.T) {
	for _, raw := range []string{"http://dash.example.com", "https://dash.example.com/monitor"} {
		tgt, err := resolveTarget(raw)
		if err != nil {
			t.Fatalf("resolveTarget(%q): %v", raw, err)
		}
		if !tgt.remote {
			t.Errorf("%q should be remote", raw)
		}
		if tgt.navURL != raw || tgt.display != raw {
			t.Errorf("remote target should pass through unchanged: %#v", tgt)
		}
		if tgt.path != "" {
			t.Errorf("remote target has no local path, got %q", tgt.path)
		}
	}
}

func TestCategorizeError(t *testing.T) {
	err := categorizeError(context.DeadlineExceeded, "timed out waiting for DOM construction")
	if err.Code != models.ErrCodeTimeout {
		t.Errorf("deadline error code = %q, want %q", err.Code, models.ErrCodeTimeout)
	}

	err = categorizeError(context.Canceled, "ignored")
	if err.Code != models.ErrCodeTimeout {
		t.Errorf("cancel error code = %q, want %q", err.Code, models.ErrCodeTimeout)
	}

	err = categorizeError(errors.New("net::ERR_ABORTED"), "navigation to target failed")
	if err.Code != models.ErrCodeNavigation {
		t.Errorf("generic error code = %q, want %q", err.Code, models.ErrCodeNavigation)
	}
}

func TestSleepCtx(t *testing.T) {
	if err := sleepCtx(context.Background(), time.Millisecond); err != nil {
		t.Errorf("short sleep returned %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	start := time.Now()
	err := sleepCtx(ctx, time.Minute)
	if err == nil {
		t.Fatal("cancelled sleep should return the context error")
	}
	if time.Since(start) > time.Second {
		t.Error("cancelled sleep did not return promptly")
	}
}
