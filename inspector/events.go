package inspector

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/proto"
	"github.com/use-agent/dashprobe/models"
)

// eventBufferSize bounds the collector channel. A diagnostic run observes
// at most a few hundred console lines; anything past the buffer is dropped
// with a warning rather than blocking the CDP event loop.
const eventBufferSize = 4096

// noReasonSentinel is recorded when a failed request carries no error text.
const noReasonSentinel = "Unknown network failure"

// collector gathers page events on a channel owned by the run. Listeners
// are the only writers; the channel is drained exactly once, at report
// serialization time, so no slice is shared across callback boundaries.
type collector struct {
	ch chan models.ConsoleEvent
}

func newCollector() *collector {
	return &collector{ch: make(chan models.ConsoleEvent, eventBufferSize)}
}

// publish enqueues one event, dropping it if the buffer is saturated.
func (c *collector) publish(ev models.ConsoleEvent) {
	select {
	case c.ch <- ev:
	default:
		slog.Warn("event buffer full, dropping page event", "type", ev.Type)
	}
}

// drain empties the channel and returns the buffered events in arrival
// order. The result is never nil so the report serializes an empty array
// rather than null.
func (c *collector) drain() []models.ConsoleEvent {
	out := []models.ConsoleEvent{}
	for {
		select {
		case ev := <-c.ch:
			out = append(out, ev)
		default:
			return out
		}
	}
}

// attach registers the console, pageerror, and requestfailed listeners on
// the page. It MUST run before navigation: early page-load console and
// error activity would otherwise be lost.
//
// All four handlers run on the page's single CDP event loop, so the
// request-URL map needs no locking.
func (c *collector) attach(page *rod.Page) {
	requestURLs := map[proto.NetworkRequestID]string{}

	wait := page.EachEvent(
		func(e *proto.RuntimeConsoleAPICalled) {
			c.publish(models.ConsoleEvent{
				Type: string(e.Type),
				Text: formatConsoleArgs(e.Args),
			})
		},
		func(e *proto.RuntimeExceptionThrown) {
			c.publish(consoleEventFromException(e))
		},
		func(e *proto.NetworkRequestWillBeSent) {
			requestURLs[e.RequestID] = e.Request.URL
		},
		func(e *proto.NetworkLoadingFailed) {
			reason := e.ErrorText
			if reason == "" {
				reason = noReasonSentinel
			}
			url := requestURLs[e.RequestID]
			if url == "" {
				url = "unknown URL"
			}
			c.publish(models.ConsoleEvent{
				Type: "requestfailed",
				Text: fmt.Sprintf("%s %s", url, reason),
			})
		},
	)

	// wait() blocks until the page closes; it must live in its own goroutine.
	go wait()
}

// formatConsoleArgs joins the console call's arguments the way DevTools
// renders them: stringified, space-separated. Objects come through with a
// nil Value and are represented by their CDP description.
func formatConsoleArgs(args []*proto.RuntimeRemoteObject) string {
	parts := make([]string, 0, len(args))
	for _, arg := range args {
		switch v := arg.Value.Val().(type) {
		case nil:
			if arg.Description != "" {
				parts = append(parts, arg.Description)
			}
		case string:
			parts = append(parts, v)
		default:
			parts = append(parts, fmt.Sprintf("%v", v))
		}
	}
	return strings.Join(parts, " ")
}

// consoleEventFromException converts an uncaught page exception into a
// pageerror event with its message and stack trace.
func consoleEventFromException(e *proto.RuntimeExceptionThrown) models.ConsoleEvent {
	d := e.ExceptionDetails

	text := d.Text
	stack := ""
	if d.Exception != nil && d.Exception.Description != "" {
		// V8's description is "message\n    at frame...": the whole thing
		// is the stack; the first line is the human-readable message.
		stack = d.Exception.Description
		if text == "" || text == "Uncaught" {
			if i := strings.IndexByte(stack, '\n'); i >= 0 {
				text = stack[:i]
			} else {
				text = stack
			}
		}
	}
	if stack == "" && d.StackTrace != nil {
		frames := make([]string, 0, len(d.StackTrace.CallFrames))
		for _, f := range d.StackTrace.CallFrames {
			frames = append(frames, fmt.Sprintf("    at %s (%s:%d:%d)",
				f.FunctionName, f.URL, f.LineNumber, f.ColumnNumber))
		}
		stack = strings.Join(frames, "\n")
	}

	return models.ConsoleEvent{Type: "pageerror", Text: text, Stack: stack}
}
