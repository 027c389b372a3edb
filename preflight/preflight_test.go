package preflight

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// dashboardHTML is a static skeleton of the monitored dashboard: the
// layout regions exist in markup, the canvases are filled in by scripts.
const dashboardHTML = `<!DOCTYPE html>
<html>
<head>
    <title>Unified ASI Monitor</title>
    <style>body { background: #0a0a1a; color: #cde; }</style>
</head>
<body>
    <div class="sidebar">
        <span id="semantic-depth">0</span>
        <span id="coherence-level">0.00</span>
        <span id="reasoning-status">idle</span>
    </div>
    <div class="content-area">
        <div id="quantum-interface"><svg id="quantum-canvas"></svg></div>
        <div id="neural-visualization"></div>
        <canvas id="metrics-chart"></canvas>
    </div>
    <script>console.log('boot');</script>
    <script>setInterval(() => {}, 1000);</script>
</body>
</html>`

var testSelectors = []string{
	".sidebar",
	".content-area",
	"#quantum-canvas",
	"#neural-visualization",
	"#metrics-chart",
	".control-panel",
}

func writeTempHTML(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "dashboard.html")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestScanFile(t *testing.T) {
	scan, err := ScanFile(writeTempHTML(t, dashboardHTML), testSelectors)
	if err != nil {
		t.Fatalf("ScanFile: %v", err)
	}

	for _, sel := range []string{".sidebar", ".content-area", "#quantum-canvas", "#neural-visualization", "#metrics-chart"} {
		if !scan.SelectorsFound[sel] {
			t.Errorf("selector %q should be found in static markup", sel)
		}
	}
	if scan.SelectorsFound[".control-panel"] {
		t.Error(".control-panel does not exist in the static markup")
	}
	if scan.FoundCount() != 5 {
		t.Errorf("FoundCount = %d, want 5", scan.FoundCount())
	}
	if scan.ScriptTags != 2 {
		t.Errorf("ScriptTags = %d, want 2", scan.ScriptTags)
	}
}

func TestScanFile_Missing(t *testing.T) {
	if _, err := ScanFile(filepath.Join(t.TempDir(), "nope.html"), testSelectors); err == nil {
		t.Fatal("expected an error for a missing file")
	}
}

func TestJSDriven(t *testing.T) {
	// The dashboard skeleton has almost no static text: JS-driven.
	scan, err := ScanFile(writeTempHTML(t, dashboardHTML), nil)
	if err != nil {
		t.Fatal(err)
	}
	if !scan.JSDriven() {
		t.Error("near-empty dashboard skeleton should be classified as JS-driven")
	}

	// A long static article is not.
	texty := "<html><body><p>" + strings.Repeat("static prose ", 60) + "</p></body></html>"
	scan, err = ScanFile(writeTempHTML(t, texty), nil)
	if err != nil {
		t.Fatal(err)
	}
	if scan.JSDriven() {
		t.Error("text-heavy static page should not be classified as JS-driven")
	}
}

func TestExtractVisibleText_SkipsScriptsAndStyles(t *testing.T) {
	got := extractVisibleText([]byte(dashboardHTML))
	if strings.Contains(got, "setInterval") {
		t.Errorf("script content leaked into visible text: %q", got)
	}
	if strings.Contains(got, "background") {
		t.Errorf("style content leaked into visible text: %q", got)
	}
	if !strings.Contains(got, "idle") {
		t.Errorf("body text missing from visible text: %q", got)
	}
}

func TestValidateSelectors(t *testing.T) {
	if err := ValidateSelectors(testSelectors); err != nil {
		t.Errorf("valid selectors rejected: %v", err)
	}
	if err := ValidateSelectors([]string{".sidebar", "[["}); err == nil {
		t.Error("invalid selector accepted")
	}
}
