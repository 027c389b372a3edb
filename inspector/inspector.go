package inspector

import (
	"log/slog"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/launcher/flags"
	"github.com/use-agent/dashprobe/config"
	"github.com/use-agent/dashprobe/models"
)

// Inspector owns a single browser instance for the duration of one run.
type Inspector struct {
	browser    *rod.Browser
	browserCfg config.BrowserConfig
	inspCfg    config.InspectorConfig
}

// New launches an isolated headless browser tuned for GPU-less,
// /dev/shm-constrained environments and connects to it.
func New(browserCfg config.BrowserConfig, inspCfg config.InspectorConfig) (*Inspector, error) {
	l := launcher.New().
		Headless(browserCfg.Headless).
		NoSandbox(browserCfg.NoSandbox)

	if browserCfg.BrowserBin != "" {
		l = l.Bin(browserCfg.BrowserBin)
	}
	if browserCfg.Proxy != "" {
		l = l.Proxy(browserCfg.Proxy)
	}

	// Diagnostic runs happen in CI containers without a GPU and with a
	// small /dev/shm, so rendering goes through the software path and
	// shared memory is avoided.
	l.Set(flags.Flag("disable-gpu"))
	l.Set(flags.Flag("disable-dev-shm-usage"))
	l.Set(flags.Flag("disable-software-rasterizer"))
	l.Set(flags.Flag("mute-audio"))
	l.Set(flags.Flag("disable-extensions"))
	l.Set(flags.Flag("disable-component-update"))
	l.Set(flags.Flag("disable-default-apps"))
	l.Set(flags.Flag("no-first-run"))

	controlURL, err := l.Launch()
	if err != nil {
		return nil, models.NewInspectError(
			models.ErrCodeBrowserCrash,
			"failed to launch browser",
			err,
		)
	}
	slog.Info("browser launched", "controlURL", controlURL)

	browser := rod.New().ControlURL(controlURL)
	if err := browser.Connect(); err != nil {
		// The process is already up; kill it so the failed run leaks nothing.
		l.Kill()
		return nil, models.NewInspectError(
			models.ErrCodeBrowserCrash,
			"failed to connect to browser",
			err,
		)
	}

	return &Inspector{
		browser:    browser,
		browserCfg: browserCfg,
		inspCfg:    inspCfg,
	}, nil
}

// Close kills the browser process. It runs on every exit path, including
// the not-found and error branches, so no Chrome process is leaked.
func (ins *Inspector) Close() {
	slog.Info("inspector shutting down: closing browser")
	if err := ins.browser.Close(); err != nil {
		slog.Warn("browser close failed", "error", err)
	}
	slog.Info("inspector shutdown complete")
}
