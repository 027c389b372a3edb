package inspector

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-rod/rod/lib/proto"
	"github.com/go-rod/stealth"
	"github.com/use-agent/dashprobe/config"
	"github.com/use-agent/dashprobe/models"
	"github.com/use-agent/dashprobe/preflight"
)

// Run performs one complete inspection: acquire browser, register event
// listeners, resolve the target, navigate, settle, snapshot, probe, and
// persist the report. The browser is closed on every exit path. The only
// error returned is a report-write failure; every other failure is
// communicated through the report itself, never through the exit status.
func Run(ctx context.Context, browserCfg config.BrowserConfig, inspCfg config.InspectorConfig) error {
	events := newCollector()

	// ── 1. Acquire browser ────────────────────────────────────────────
	ins, err := New(browserCfg, inspCfg)
	if err != nil {
		slog.Error("browser acquisition failed", "error", err)
		return writeReport(inspCfg.Output, errorReport(err, events.drain()))
	}
	defer ins.Close()

	rep := ins.inspect(ctx, events)

	slog.Info("writing report", "path", inspCfg.Output, "loadStatus", rep.LoadStatus)
	return writeReport(inspCfg.Output, rep)
}

// inspect walks the linear flow and always returns a well-formed report.
//
// Lifecycle (numbered steps match the inline comments):
//
//  2. Resolve target      – absolute path (or URL reachability check)
//  3. Page + listeners    – MUST precede navigation: early page-load
//     console/error activity must not be lost
//  4. Stealth injection   – optional, remote dashboards only
//  5. Navigate            – DOM construction only, bounded by NavTimeout
//  6. Two-phase settle    – 1s → initial snapshot → 7s → final snapshot
//  7. Probe pass          – one atomic in-page evaluation
//  8. Assemble            – merge probes + snapshots + drained events
func (ins *Inspector) inspect(ctx context.Context, events *collector) (rep *models.Report) {
	// Catch-all: a panic below (rod's internals can panic on a dead
	// browser) becomes an error report rather than a crash with no report.
	defer func() {
		if r := recover(); r != nil {
			err := models.NewInspectError(
				models.ErrCodeInternal,
				fmt.Sprintf("panic during inspection: %v", r),
				nil,
			)
			rep = errorReport(err, events.drain())
		}
	}()

	// ── 2. Resolve target document ────────────────────────────────────
	tgt, err := resolveTarget(ins.inspCfg.Target)
	if err != nil {
		return errorReport(err, events.drain())
	}
	exists, err := ins.targetExists(ctx, tgt)
	if err != nil {
		return errorReport(err, events.drain())
	}
	if !exists {
		slog.Warn("target does not exist, skipping navigation", "target", tgt.display)
		return notFoundReport(tgt.display, tgt.remote)
	}

	// ── 3. Create page and register listeners BEFORE navigation ──────
	page, err := ins.browser.Page(proto.TargetCreateTarget{})
	if err != nil {
		return errorReport(models.NewInspectError(
			models.ErrCodeBrowserCrash, "failed to create page", err,
		), events.drain())
	}
	defer func() { _ = page.Close() }()

	events.attach(page)

	// ── 4. Stealth injection ──────────────────────────────────────────
	if ins.browserCfg.Stealth {
		if _, evalErr := page.EvalOnNewDocument(stealth.JS); evalErr != nil {
			slog.Warn("stealth injection failed, proceeding without stealth",
				"error", evalErr,
			)
		}
	}

	// ── 5. Navigate, waiting for DOM construction only ────────────────
	// The DomContent waiter is registered before Navigate so the event
	// cannot slip past between the two calls.
	navCtx, cancelNav := context.WithTimeout(ctx, ins.inspCfg.NavTimeout)
	defer cancelNav()
	p := page.Context(navCtx)

	waitDOM := p.WaitEvent(&proto.PageDomContentEventFired{})
	if navErr := p.Navigate(tgt.navURL); navErr != nil {
		return errorReport(categorizeError(navErr, "navigation to target failed"), events.drain())
	}
	waitDOM()
	if navCtx.Err() != nil {
		return errorReport(categorizeError(navCtx.Err(), "timed out waiting for DOM construction"), events.drain())
	}

	// Navigation bound no longer applies; rebind to the run context.
	p = page.Context(ctx)

	// ── 6. Two-phase settle with metric snapshots ─────────────────────
	// The waits are unconditional: they are not cut short when content
	// loads faster, so the total settle time stays comparable across runs.
	slog.Info("navigated, settling", "target", tgt.display, "wait", ins.inspCfg.InitialSettle)
	if err := sleepCtx(ctx, ins.inspCfg.InitialSettle); err != nil {
		return errorReport(categorizeError(err, "interrupted during initial settle"), events.drain())
	}
	initial, err := captureSnapshot(p)
	if err != nil {
		return errorReport(err, events.drain())
	}
	slog.Info("initial metric snapshot captured", "wait", ins.inspCfg.FinalSettle)

	if err := sleepCtx(ctx, ins.inspCfg.FinalSettle); err != nil {
		return errorReport(categorizeError(err, "interrupted during final settle"), events.drain())
	}
	final, err := captureSnapshot(p)
	if err != nil {
		return errorReport(err, events.drain())
	}
	slog.Info("final metric snapshot captured")

	// ── 7. Probe pass ─────────────────────────────────────────────────
	facts, err := runProbes(p)
	if err != nil {
		return errorReport(err, events.drain())
	}
	slog.Info("probe pass complete")

	// ── 8. Assemble ───────────────────────────────────────────────────
	totalSettle := ins.inspCfg.InitialSettle + ins.inspCfg.FinalSettle
	return successReport(facts, initial, final, totalSettle, events.drain())
}

// target is a resolved inspection target.
type target struct {
	navURL  string
	display string
	remote  bool
	path    string // absolute local path; empty for remote targets
}

// resolveTarget classifies the configured target as a local document or a
// remote URL and computes the navigation URL for it.
func resolveTarget(raw string) (*target, error) {
	if strings.HasPrefix(raw, "http://") || strings.HasPrefix(raw, "https://") {
		return &target{navURL: raw, display: raw, remote: true}, nil
	}
	abs, err := filepath.Abs(raw)
	if err != nil {
		return nil, models.NewInspectError(
			models.ErrCodeInternal, "failed to resolve target path", err,
		)
	}
	return &target{
		navURL:  "file://" + abs,
		display: filepath.Base(abs),
		path:    abs,
	}, nil
}

// targetExists is the precondition check: os.Stat for local documents, an
// HTTP reachability probe for remote ones.
func (ins *Inspector) targetExists(ctx context.Context, t *target) (bool, error) {
	if t.remote {
		return preflight.Reachable(ctx, t.navURL, ins.browserCfg.Proxy), nil
	}
	if _, err := os.Stat(t.path); err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, models.NewInspectError(
			models.ErrCodeInternal, "failed to stat target document", err,
		)
	}
	return true, nil
}

// categorizeError wraps raw errors into typed InspectErrors so the report
// carries a meaningful error name.
func categorizeError(err error, msg string) *models.InspectError {
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return models.NewInspectError(models.ErrCodeTimeout, msg, err)
	case errors.Is(err, context.Canceled):
		return models.NewInspectError(models.ErrCodeTimeout, "inspection canceled", err)
	default:
		return models.NewInspectError(models.ErrCodeNavigation, msg, err)
	}
}

// sleepCtx suspends the calling task for d, honoring context cancellation.
func sleepCtx(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
