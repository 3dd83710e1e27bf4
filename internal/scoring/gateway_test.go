package scoring

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"resume-shortlister/internal/jobs"
)

// TestHelperProcess is not a real test. It is re-executed as the scoring
// worker by the tests below, selected via SCORER_TEST_MODE.
func TestHelperProcess(t *testing.T) {
	if os.Getenv("GO_WANT_HELPER_PROCESS") != "1" {
		return
	}
	defer os.Exit(0)

	input, err := io.ReadAll(os.Stdin)
	if err != nil {
		fmt.Fprintln(os.Stderr, "read stdin:", err)
		os.Exit(3)
	}

	switch os.Getenv("SCORER_TEST_MODE") {
	case "ok":
		var req struct {
			JobDescription string   `json:"job_description"`
			FilePaths      []string `json:"file_paths"`
		}
		if err := json.Unmarshal(input, &req); err != nil {
			fmt.Fprintln(os.Stderr, "bad request payload:", err)
			os.Exit(3)
		}
		if req.JobDescription == "" || len(req.FilePaths) == 0 {
			fmt.Fprintln(os.Stderr, "empty request payload")
			os.Exit(3)
		}
		fmt.Fprint(os.Stdout, `[
			{"fileName":"a.pdf","matchPercentage":87.5,"skills":["go"],"missingSkills":["k8s"],"pros":["solid"],"cons":[]},
			{"fileName":"b.pdf","matchPercentage":120,"status":"Shortlisted"},
			{"fileName":"","matchPercentage":50},
			{"fileName":"d.pdf"}
		]`)
	case "crash":
		fmt.Fprintln(os.Stderr, "ModuleNotFoundError: No module named 'sentence_transformers'")
		os.Exit(1)
	case "garbage":
		fmt.Fprintln(os.Stdout, "Traceback (most recent call last):")
	case "slow":
		time.Sleep(10 * time.Second)
	}
}

func newTestGateway(t *testing.T, mode string, timeout time.Duration) *ProcessGateway {
	t.Helper()
	t.Setenv("GO_WANT_HELPER_PROCESS", "1")
	t.Setenv("SCORER_TEST_MODE", mode)
	return NewProcessGateway(os.Args[0], []string{"-test.run=TestHelperProcess", "--"}, timeout)
}

func TestScoreParsesWorkerOutput(t *testing.T) {
	g := newTestGateway(t, "ok", 30*time.Second)

	got, err := g.Score(context.Background(), "backend engineer", []string{"/tmp/a.pdf", "/tmp/b.pdf", "/tmp/c.pdf", "/tmp/d.pdf"})
	if err != nil {
		t.Fatalf("Score: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 candidates after skipping invalid records, got %d", len(got))
	}

	first := got[0]
	if first.FileName != "a.pdf" || first.MatchPercentage != 87.5 {
		t.Fatalf("unexpected first candidate: %+v", first)
	}
	if first.Status != jobs.StatusApplied {
		t.Fatalf("expected default status %q, got %q", jobs.StatusApplied, first.Status)
	}
	if first.ExtraSkills == nil || first.ImprovementTips == nil {
		t.Fatalf("expected optional slices defaulted to empty, got %+v", first)
	}

	second := got[1]
	if second.MatchPercentage != 100 {
		t.Fatalf("expected match percentage clamped to 100, got %v", second.MatchPercentage)
	}
	if second.Status != jobs.StatusShortlisted {
		t.Fatalf("expected supplied status kept, got %q", second.Status)
	}
}

func TestScoreWorkerCrash(t *testing.T) {
	g := newTestGateway(t, "crash", 30*time.Second)

	_, err := g.Score(context.Background(), "jd", []string{"/tmp/a.pdf"})
	var procErr *ProcessError
	if !errors.As(err, &procErr) {
		t.Fatalf("expected ProcessError, got %v", err)
	}
	if procErr.ExitCode != 1 {
		t.Fatalf("expected exit code 1, got %d", procErr.ExitCode)
	}
	if !strings.Contains(procErr.Stderr, "ModuleNotFoundError") {
		t.Fatalf("expected stderr captured, got %q", procErr.Stderr)
	}
}

func TestScoreInvalidOutput(t *testing.T) {
	g := newTestGateway(t, "garbage", 30*time.Second)

	_, err := g.Score(context.Background(), "jd", []string{"/tmp/a.pdf"})
	var respErr *InvalidResponseError
	if !errors.As(err, &respErr) {
		t.Fatalf("expected InvalidResponseError, got %v", err)
	}
	if !strings.Contains(respErr.Sample, "Traceback") {
		t.Fatalf("expected sample to carry worker output, got %q", respErr.Sample)
	}
}

func TestScoreEmptyOutput(t *testing.T) {
	g := newTestGateway(t, "empty", 30*time.Second)

	_, err := g.Score(context.Background(), "jd", []string{"/tmp/a.pdf"})
	var respErr *InvalidResponseError
	if !errors.As(err, &respErr) {
		t.Fatalf("expected InvalidResponseError for empty output, got %v", err)
	}
}

func TestScoreTimeout(t *testing.T) {
	g := newTestGateway(t, "slow", 150*time.Millisecond)

	_, err := g.Score(context.Background(), "jd", []string{"/tmp/a.pdf"})
	if !errors.Is(err, ErrTimeout) {
		t.Fatalf("expected ErrTimeout, got %v", err)
	}
}

func TestScoreRejectsEmptyInputs(t *testing.T) {
	g := newTestGateway(t, "ok", 30*time.Second)

	if _, err := g.Score(context.Background(), "  ", []string{"/tmp/a.pdf"}); err == nil {
		t.Fatal("expected error for empty job description")
	}
	if _, err := g.Score(context.Background(), "jd", nil); err == nil {
		t.Fatal("expected error for empty file list")
	}
}

func TestSampleTruncatesOnRuneBoundary(t *testing.T) {
	// Place a multi-byte rune straddling the truncation point.
	long := strings.Repeat("a", maxSampleLen-1) + "日本語のテキスト"

	got := sample([]byte(long))
	if !utf8.ValidString(got) {
		t.Fatalf("expected valid UTF-8 sample, got %q", got)
	}
	if !strings.HasSuffix(got, "...") {
		t.Fatalf("expected truncated sample to end with ellipsis, got %q", got)
	}
	if len(got) > maxSampleLen+len("...") {
		t.Fatalf("sample too long: %d bytes", len(got))
	}

	short := "short output"
	if s := sample([]byte(short)); s != short {
		t.Fatalf("expected short input untouched, got %q", s)
	}
}
