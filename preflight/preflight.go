// Package preflight inspects the target document before the browser
// launches: a static selector scan for local files and an HTTP
// reachability probe for remote targets. Its findings go to the log only;
// they are not part of the persisted report contract.
package preflight

import (
	"bytes"
	"fmt"
	"os"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/andybalholm/cascadia"
	"golang.org/x/net/html"
)

// StaticScan summarizes what the target's static markup already contains,
// before any page script has run.
type StaticScan struct {
	// SelectorsFound maps each probe selector to whether the static
	// markup contains at least one match.
	SelectorsFound map[string]bool

	// ScriptTags counts <script> elements.
	ScriptTags int

	// VisibleTextLen is the length of the visible body text, scripts and
	// styles stripped.
	VisibleTextLen int
}

// JSDriven reports whether the document likely depends on client-side
// rendering: a near-empty body, or many scripts with little static text.
func (s *StaticScan) JSDriven() bool {
	if s.VisibleTextLen < 200 {
		return true
	}
	return s.ScriptTags > 10 && s.VisibleTextLen < 500
}

// FoundCount counts the selectors already present in static markup.
func (s *StaticScan) FoundCount() int {
	n := 0
	for _, ok := range s.SelectorsFound {
		if ok {
			n++
		}
	}
	return n
}

// ValidateSelectors parses every selector and returns the first failure.
// Run at startup so a bad probe selector surfaces before the browser does.
func ValidateSelectors(selectors []string) error {
	for _, sel := range selectors {
		if _, err := cascadia.Parse(sel); err != nil {
			return fmt.Errorf("invalid probe selector %q: %w", sel, err)
		}
	}
	return nil
}

// ScanFile parses the local document and checks each selector against its
// static markup.
func ScanFile(path string, selectors []string) (*StaticScan, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("preflight: read target: %w", err)
	}
	return scan(raw, selectors)
}

func scan(raw []byte, selectors []string) (*StaticScan, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("preflight: parse target: %w", err)
	}

	found := make(map[string]bool, len(selectors))
	for _, sel := range selectors {
		found[sel] = doc.Find(sel).Length() > 0
	}

	return &StaticScan{
		SelectorsFound: found,
		ScriptTags:     doc.Find("script").Length(),
		VisibleTextLen: len(extractVisibleText(raw)),
	}, nil
}

// extractVisibleText extracts the visible text from within <body>,
// stripping all tags and <script>/<style> content. Used for the JS-driven
// heuristic only.
func extractVisibleText(body []byte) string {
	tokenizer := html.NewTokenizer(bytes.NewReader(body))
	var buf strings.Builder
	inBody := false
	skipDepth := 0

	for {
		tt := tokenizer.Next()
		switch tt {
		case html.ErrorToken:
			return buf.String()
		case html.StartTagToken:
			tn, _ := tokenizer.TagName()
			tag := string(tn)
			if tag == "body" {
				inBody = true
			}
			if tag == "script" || tag == "style" || tag == "noscript" {
				skipDepth++
			}
		case html.EndTagToken:
			tn, _ := tokenizer.TagName()
			tag := string(tn)
			if tag == "script" || tag == "style" || tag == "noscript" {
				if skipDepth > 0 {
					skipDepth--
				}
			}
		case html.TextToken:
			if inBody && skipDepth == 0 {
				text := strings.TrimSpace(string(tokenizer.Text()))
				if text != "" {
					buf.WriteString(text)
					buf.WriteByte(' ')
				}
			}
		}
	}
}
