package preflight

import (
	"context"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"time"

	utls "github.com/refraction-networking/utls"
)

const chromeUA = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/131.0.0.0 Safari/537.36"

// reachabilityTimeout bounds the whole probe; an unreachable dashboard
// should fail fast, well before the navigation timeout would.
const reachabilityTimeout = 10 * time.Second

// Reachable probes a remote target with a plain HTTP GET carrying a Chrome
// TLS fingerprint, so dashboards behind TLS-fingerprinting front doors
// answer the same way they would answer the browser. Any response below
// 400 counts as reachable.
func Reachable(ctx context.Context, targetURL, proxy string) bool {
	ctx, cancel := context.WithTimeout(ctx, reachabilityTimeout)
	defer cancel()

	transport := &http.Transport{
		DialTLSContext: func(ctx context.Context, network, addr string) (net.Conn, error) {
			return dialTLSChrome(ctx, network, addr)
		},
	}
	if proxy != "" {
		if proxyURL, err := url.Parse(proxy); err == nil && (proxyURL.Scheme == "http" || proxyURL.Scheme == "https") {
			transport.Proxy = http.ProxyURL(proxyURL)
		}
	}

	client := &http.Client{Transport: transport}
	defer client.CloseIdleConnections()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, targetURL, nil)
	if err != nil {
		slog.Warn("reachability probe: bad target URL", "target", targetURL, "error", err)
		return false
	}
	req.Header.Set("User-Agent", chromeUA)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")

	resp, err := client.Do(req)
	if err != nil {
		slog.Warn("reachability probe failed", "target", targetURL, "error", err)
		return false
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		slog.Warn("reachability probe got error status", "target", targetURL, "status", resp.StatusCode)
		return false
	}
	return true
}

// dialTLSChrome establishes a TLS connection using a Chrome fingerprint.
func dialTLSChrome(ctx context.Context, network, addr string) (net.Conn, error) {
	dialer := &net.Dialer{}
	rawConn, err := dialer.DialContext(ctx, network, addr)
	if err != nil {
		return nil, err
	}

	host, _, _ := net.SplitHostPort(addr)
	tlsConn := utls.UClient(rawConn, &utls.Config{
		ServerName: host,
	}, utls.HelloChrome_Auto)

	if err := tlsConn.HandshakeContext(ctx); err != nil {
		rawConn.Close()
		return nil, err
	}
	return tlsConn, nil
}
