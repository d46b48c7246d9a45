// Command parity_check replays read-only directory and search requests
// against both this service and the legacy platform and reports response
// differences. Run it during cutover before shifting traffic.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"time"
)

type probe struct {
	Path string `json:"path"`
	// Critical probes fail the run on any difference; the rest only
	// count toward the summary.
	Critical bool `json:"critical"`
	// IgnoreKeys lists JSON object keys excluded from the body
	// comparison, for values that legitimately differ between the two
	// systems (refresh timestamps, continuation links).
	IgnoreKeys []string `json:"ignore_keys"`
}

type probeFile struct {
	Probes []probe `json:"probes"`
}

type result struct {
	Probe          probe
	ServiceStatus  int
	LegacyStatus   int
	StatusMatch    bool
	BodyMatch      bool
	Err            error
	ServiceLatency time.Duration
	LegacyLatency  time.Duration
}

func main() {
	var (
		serviceBase string
		legacyBase  string
		probesPath  string
		token       string
		timeout     time.Duration
	)

	flag.StringVar(&serviceBase, "service-base", "http://localhost:8080", "directory service base URL")
	flag.StringVar(&legacyBase, "legacy-base", "http://localhost:3000", "legacy platform base URL")
	flag.StringVar(&probesPath, "probes", filepath.Join("scripts", "parity_check", "probes.json"), "path to the JSON probe list")
	flag.StringVar(&token, "token", "", "bearer token sent to both endpoints")
	flag.DurationVar(&timeout, "timeout", 10*time.Second, "per-request timeout")
	flag.Parse()

	probes, err := loadProbes(probesPath)
	if err != nil {
		log.Fatalf("failed to load probes: %v", err)
	}

	client := &http.Client{Timeout: timeout}
	var (
		results      []result
		criticalDiff int
		minorDiff    int
	)

	for _, p := range probes {
		res := runProbe(client, serviceBase, legacyBase, token, p)
		if res.Err != nil || !res.StatusMatch || !res.BodyMatch {
			if p.Critical {
				criticalDiff++
			} else {
				minorDiff++
			}
		}
		results = append(results, res)
	}

	printResults(results)

	fmt.Printf("critical diffs: %d, minor diffs: %d\n", criticalDiff, minorDiff)
	if criticalDiff > 0 {
		os.Exit(1)
	}
}

func loadProbes(path string) ([]probe, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var file probeFile
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, err
	}
	if len(file.Probes) == 0 {
		return nil, fmt.Errorf("no probes defined in %s", path)
	}
	return file.Probes, nil
}

func runProbe(client *http.Client, serviceBase, legacyBase, token string, p probe) result {
	res := result{Probe: p}

	serviceBody, serviceStatus, serviceLatency, err := fetch(client, serviceBase, p.Path, token)
	if err != nil {
		res.Err = fmt.Errorf("service request: %w", err)
		return res
	}
	legacyBody, legacyStatus, legacyLatency, err := fetch(client, legacyBase, p.Path, token)
	if err != nil {
		res.Err = fmt.Errorf("legacy request: %w", err)
		return res
	}

	res.ServiceStatus = serviceStatus
	res.LegacyStatus = legacyStatus
	res.ServiceLatency = serviceLatency
	res.LegacyLatency = legacyLatency
	res.StatusMatch = serviceStatus == legacyStatus
	res.BodyMatch = bodiesEquivalent(serviceBody, legacyBody, p.IgnoreKeys)
	return res
}

func fetch(client *http.Client, base, path, token string) ([]byte, int, time.Duration, error) {
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	req, err := http.NewRequest(http.MethodGet, strings.TrimRight(base, "/")+path, nil)
	if err != nil {
		return nil, 0, 0, err
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	start := time.Now()
	resp, err := client.Do(req)
	if err != nil {
		return nil, 0, 0, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, 0, 0, err
	}
	return body, resp.StatusCode, time.Since(start), nil
}

// bodiesEquivalent compares two JSON payloads structurally after removing
// ignored keys and folding whole-number floats, so formatting and field
// order never count as a difference.
func bodiesEquivalent(a, b []byte, ignoreKeys []string) bool {
	var av, bv interface{}
	if err := json.Unmarshal(a, &av); err != nil {
		return false
	}
	if err := json.Unmarshal(b, &bv); err != nil {
		return false
	}

	ignored := make(map[string]struct{}, len(ignoreKeys))
	for _, key := range ignoreKeys {
		ignored[key] = struct{}{}
	}
	scrub(&av, ignored)
	scrub(&bv, ignored)
	return reflect.DeepEqual(av, bv)
}

func scrub(v *interface{}, ignored map[string]struct{}) {
	switch val := (*v).(type) {
	case map[string]interface{}:
		for key, child := range val {
			if _, skip := ignored[key]; skip {
				delete(val, key)
				continue
			}
			scrub(&child, ignored)
			val[key] = child
		}
	case []interface{}:
		for i, child := range val {
			scrub(&child, ignored)
			val[i] = child
		}
	case float64:
		if val == float64(int64(val)) {
			*v = int64(val)
		}
	}
}

func printResults(results []result) {
	fmt.Println("Directory Parity Report")
	fmt.Println("=======================")
	for _, res := range results {
		status := "OK"
		if res.Err != nil {
			status = "ERROR"
		} else if !res.StatusMatch || !res.BodyMatch {
			status = "DIFF"
		}
		fmt.Printf("[%s] GET %s\n", status, res.Probe.Path)
		if res.Err != nil {
			fmt.Printf("  error: %v\n", res.Err)
			continue
		}
		fmt.Printf("  service: %d (%s) | legacy: %d (%s)\n",
			res.ServiceStatus, res.ServiceLatency, res.LegacyStatus, res.LegacyLatency)
		fmt.Printf("  status match: %t | body match: %t | critical: %t\n",
			res.StatusMatch, res.BodyMatch, res.Probe.Critical)
	}
}
