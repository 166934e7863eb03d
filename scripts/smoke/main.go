// Command smoke probes a running QuickBite deployment and verifies that
// the public surface answers with the expected statuses and the common
// response envelope. Intended for post-deploy checks; exits non-zero
// when a critical probe fails.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"
)

type probe struct {
	Method       string `json:"method"`
	Path         string `json:"path"`
	ExpectStatus int    `json:"expect_status"`
	Envelope     bool   `json:"envelope"`
	Critical     bool   `json:"critical"`
}

type result struct {
	Probe    probe
	Status   int
	Latency  time.Duration
	Err      error
	Envelope bool
}

// defaultProbes covers every endpoint reachable without credentials.
var defaultProbes = []probe{
	{Method: "GET", Path: "/health", ExpectStatus: 200, Critical: true},
	{Method: "GET", Path: "/ready", ExpectStatus: 200, Critical: true},
	{Method: "GET", Path: "/metrics", ExpectStatus: 200},
	{Method: "GET", Path: "/api/restaurants", ExpectStatus: 200, Envelope: true, Critical: true},
	{Method: "GET", Path: "/api/global-categories", ExpectStatus: 200, Envelope: true},
	{Method: "GET", Path: "/api/orders", ExpectStatus: 401, Envelope: true, Critical: true},
	{Method: "POST", Path: "/api/auth/login", ExpectStatus: 400, Envelope: true},
}

func main() {
	var (
		base       string
		probesPath string
		timeout    time.Duration
	)
	flag.StringVar(&base, "base", "http://localhost:8080", "API base URL")
	flag.StringVar(&probesPath, "probes", "", "optional JSON file overriding the built-in probe list")
	flag.DurationVar(&timeout, "timeout", 5*time.Second, "per-request timeout")
	flag.Parse()

	probes := defaultProbes
	if probesPath != "" {
		loaded, err := loadProbes(probesPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "load probes: %v\n", err)
			os.Exit(2)
		}
		probes = loaded
	}

	client := &http.Client{Timeout: timeout}
	failures := 0
	fmt.Printf("Smoke check against %s\n", base)
	for _, p := range probes {
		res := run(client, base, p)
		report(res)
		if failed(res) && p.Critical {
			failures++
		}
	}
	if failures > 0 {
		fmt.Printf("%d critical probe(s) failed\n", failures)
		os.Exit(1)
	}
	fmt.Println("All critical probes passed")
}

func loadProbes(path string) ([]probe, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var probes []probe
	if err := json.Unmarshal(data, &probes); err != nil {
		return nil, err
	}
	if len(probes) == 0 {
		return nil, fmt.Errorf("no probes defined in %s", path)
	}
	return probes, nil
}

func run(client *http.Client, base string, p probe) result {
	res := result{Probe: p}

	method := strings.ToUpper(p.Method)
	if method == "" {
		method = http.MethodGet
	}
	url := strings.TrimRight(base, "/") + p.Path

	req, err := http.NewRequest(method, url, nil)
	if err != nil {
		res.Err = err
		return res
	}
	if method != http.MethodGet {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := client.Do(req)
	res.Latency = time.Since(start)
	if err != nil {
		res.Err = err
		return res
	}
	defer resp.Body.Close()
	res.Status = resp.StatusCode

	if p.Envelope {
		body, err := io.ReadAll(resp.Body)
		if err != nil {
			res.Err = fmt.Errorf("read body: %w", err)
			return res
		}
		res.Envelope = hasEnvelopeShape(body)
	}
	return res
}

// hasEnvelopeShape accepts any JSON object exposing at least one of the
// envelope's top-level keys.
func hasEnvelopeShape(body []byte) bool {
	var m map[string]json.RawMessage
	if err := json.Unmarshal(body, &m); err != nil {
		return false
	}
	for _, key := range []string{"data", "error", "pagination", "meta"} {
		if _, ok := m[key]; ok {
			return true
		}
	}
	return false
}

func failed(res result) bool {
	if res.Err != nil {
		return true
	}
	if res.Status != res.Probe.ExpectStatus {
		return true
	}
	if res.Probe.Envelope && !res.Envelope {
		return true
	}
	return false
}

func report(res result) {
	label := "OK"
	if failed(res) {
		label = "FAIL"
	}
	fmt.Printf("[%s] %s %s\n", label, res.Probe.Method, res.Probe.Path)
	if res.Err != nil {
		fmt.Printf("  error: %v\n", res.Err)
		return
	}
	fmt.Printf("  status: %d (want %d) latency: %s\n", res.Status, res.Probe.ExpectStatus, res.Latency)
	if res.Probe.Envelope {
		fmt.Printf("  envelope: %t\n", res.Envelope)
	}
}
