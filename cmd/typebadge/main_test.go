package main

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/typebadge/typebadge/internal/config"
	"github.com/typebadge/typebadge/internal/model"
	"github.com/typebadge/typebadge/internal/store"
)

// isolateHome points the XDG directories at a temp dir so commands never
// touch the developer's real config or history database.
func isolateHome(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(dir, "config"))
	t.Setenv("XDG_DATA_HOME", filepath.Join(dir, "data"))
	return dir
}

// captureStderr swaps os.Stderr for a pipe and returns a function that
// restores it and yields everything written in between.
func captureStderr(t *testing.T) func() string {
	t.Helper()
	orig := os.Stderr
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("pipe: %v", err)
	}
	os.Stderr = w
	return func() string {
		if cerr := w.Close(); cerr != nil {
			t.Fatalf("close pipe: %v", cerr)
		}
		os.Stderr = orig
		data, rerr := io.ReadAll(r)
		if rerr != nil {
			t.Fatalf("read stderr: %v", rerr)
		}
		return string(data)
	}
}

func TestBadgeCommandWritesSummaryBadge(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`[{"wpm": 120.4, "acc": 97.2}, {"wpm": 110, "acc": 95}]`))
	}))
	defer srv.Close()

	dir := isolateHome(t)
	t.Setenv(config.EnvAPIBase, srv.URL)

	outPath := filepath.Join(dir, "badge.svg")
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"--username", "luke", "--output", outPath})
	if err := cmd.Execute(); err != nil {
		t.Fatalf("execute: %v", err)
	}

	data, err := os.ReadFile(outPath)
	if err != nil {
		t.Fatalf("read badge: %v", err)
	}
	if !strings.Contains(string(data), ">120 WPM · 96.1%</text>") {
		t.Fatalf("badge missing summary text: %s", data)
	}
	if !strings.Contains(out.String(), "Wrote badge to "+outPath) {
		t.Fatalf("unexpected command output: %q", out.String())
	}

	st, err := store.Open(config.DefaultDBPath())
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	defer st.Close()
	snaps, err := st.ListSnapshots(context.Background(), model.HistoryConfig{Username: "luke"})
	if err != nil {
		t.Fatalf("list snapshots: %v", err)
	}
	if len(snaps) != 1 || snaps[0].BestWPM != 120 {
		t.Fatalf("expected one recorded snapshot with best 120, got %+v", snaps)
	}
}

func TestBadgeCommandDegradesOnFetchFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	dir := isolateHome(t)
	t.Setenv(config.EnvAPIBase, srv.URL)

	// Output path with a missing parent: the command must create it.
	outPath := filepath.Join(dir, "reports", "badge.svg")

	readStderr := captureStderr(t)
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"--username", "luke", "--output", outPath})
	err := cmd.Execute()
	diag := readStderr()
	if err != nil {
		t.Fatalf("fetch failure must not fail the command: %v", err)
	}

	info, err := os.Stat(filepath.Join(dir, "reports"))
	if err != nil || !info.IsDir() {
		t.Fatalf("expected output directory to be created: %v", err)
	}
	data, err := os.ReadFile(outPath)
	if err != nil {
		t.Fatalf("read badge: %v", err)
	}
	if !strings.Contains(string(data), ">no data</text>") {
		t.Fatalf("badge missing no-data text: %s", data)
	}
	if !strings.Contains(out.String(), "Wrote badge to "+outPath) {
		t.Fatalf("unexpected command output: %q", out.String())
	}

	if !strings.Contains(diag, "failed to fetch scoreboard") {
		t.Fatalf("expected fetch diagnostic on stderr, got %q", diag)
	}
	if got := strings.Count(diag, "\n"); got != 1 {
		t.Fatalf("expected a single diagnostic line, got %d in %q", got, diag)
	}

	// No summary means no history snapshot.
	if _, err := os.Stat(config.DefaultDBPath()); !os.IsNotExist(err) {
		t.Fatalf("expected no history db after a failed fetch, got stat err %v", err)
	}
}

func TestHistoryCommandRendersToCommandWriter(t *testing.T) {
	isolateHome(t)

	st, err := store.Open(config.DefaultDBPath())
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	base := time.Date(2026, 8, 25, 10, 0, 0, 0, time.UTC)
	for i, wpm := range []int{100, 110, 120} {
		snap := model.Snapshot{
			FetchedAt: base.Add(time.Duration(i) * time.Hour),
			Username:  "luke",
			BestWPM:   wpm,
			AvgAcc:    95.5,
			Runs:      10 + i,
		}
		if _, err := st.InsertSnapshot(context.Background(), snap); err != nil {
			t.Fatalf("insert snapshot: %v", err)
		}
	}
	if err := st.Close(); err != nil {
		t.Fatalf("close store: %v", err)
	}

	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"history", "--username", "luke"})
	if err := cmd.Execute(); err != nil {
		t.Fatalf("execute: %v", err)
	}

	got := out.String()
	for _, want := range []string{"Fetch History", "luke", "120", "Best WPM: "} {
		if !strings.Contains(got, want) {
			t.Fatalf("output missing %q: %q", want, got)
		}
	}
}
