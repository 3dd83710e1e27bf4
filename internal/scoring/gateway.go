package scoring

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"
	"unicode/utf8"

	"resume-shortlister/internal/jobs"
	"resume-shortlister/internal/shared/metrics"
	"resume-shortlister/internal/shared/telemetry"
)

// Gateway scores a batch of resume files against a job description and
// returns one candidate record per successfully scored file.
type Gateway interface {
	Score(ctx context.Context, jobDescription string, filePaths []string) ([]jobs.Candidate, error)
}

// maxSampleLen caps how much raw worker output an InvalidResponseError
// carries. Enough to diagnose, small enough to log.
const maxSampleLen = 512

// scoreRequest is the payload written to the worker's stdin.
type scoreRequest struct {
	JobDescription string   `json:"job_description"`
	FilePaths      []string `json:"file_paths"`
}

// rawCandidate mirrors the worker's per-candidate output. Pointer fields
// distinguish "absent" from zero values for the required keys.
type rawCandidate struct {
	FileName        string   `json:"fileName"`
	MatchPercentage *float64 `json:"matchPercentage"`
	Skills          []string `json:"skills"`
	MissingSkills   []string `json:"missingSkills"`
	ExtraSkills     []string `json:"extraSkills"`
	Pros            []string `json:"pros"`
	Cons            []string `json:"cons"`
	ImprovementTips []string `json:"improvementTips"`
	ExperienceYears *float64 `json:"experienceYears"`
	SemanticScore   *float64 `json:"semanticScore"`
	SkillScore      *float64 `json:"skillScore"`
	SelectionChance string   `json:"selectionChance"`
	DownloadLink    string   `json:"downloadLink"`
	Status          string   `json:"status"`
}

// ProcessGateway runs the scoring worker as a subprocess per call. The whole
// request is written to the worker's stdin, stdin is closed, and stdout and
// stderr are buffered until the worker exits.
type ProcessGateway struct {
	Command string
	Args    []string
	Timeout time.Duration
}

func NewProcessGateway(command string, args []string, timeout time.Duration) *ProcessGateway {
	return &ProcessGateway{Command: command, Args: args, Timeout: timeout}
}

func (g *ProcessGateway) Score(ctx context.Context, jobDescription string, filePaths []string) ([]jobs.Candidate, error) {
	if strings.TrimSpace(jobDescription) == "" {
		return nil, errors.New("scoring: empty job description")
	}
	if len(filePaths) == 0 {
		return nil, errors.New("scoring: no file paths")
	}

	payload, err := json.Marshal(scoreRequest{JobDescription: jobDescription, FilePaths: filePaths})
	if err != nil {
		return nil, fmt.Errorf("scoring: encode request: %w", err)
	}

	runCtx := ctx
	if g.Timeout > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(ctx, g.Timeout)
		defer cancel()
	}

	metrics.IncScoringStarted()
	start := time.Now()

	cmd := exec.CommandContext(runCtx, g.Command, g.Args...)
	cmd.Stdin = bytes.NewReader(payload)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	runErr := cmd.Run()

	if runCtx.Err() == context.DeadlineExceeded {
		metrics.IncScoringFailed()
		return nil, fmt.Errorf("%w after %s", ErrTimeout, g.Timeout)
	}
	if runErr != nil {
		metrics.IncScoringFailed()
		var exitErr *exec.ExitError
		if errors.As(runErr, &exitErr) {
			return nil, &ProcessError{
				ExitCode: exitErr.ExitCode(),
				Stderr:   strings.TrimSpace(stderr.String()),
			}
		}
		return nil, fmt.Errorf("scoring: start worker: %w", runErr)
	}

	var raw []rawCandidate
	if err := json.Unmarshal(stdout.Bytes(), &raw); err != nil {
		metrics.IncScoringFailed()
		return nil, &InvalidResponseError{Sample: sample(stdout.Bytes())}
	}

	candidates := make([]jobs.Candidate, 0, len(raw))
	for i, rc := range raw {
		if rc.FileName == "" || rc.MatchPercentage == nil {
			telemetry.Warn("scoring record skipped", map[string]any{
				"index":    i,
				"fileName": rc.FileName,
			})
			continue
		}
		candidates = append(candidates, toCandidate(rc))
	}

	metrics.IncScoringCompleted()
	metrics.ObserveScoringDurationMs(metrics.SinceMillis(start))
	return candidates, nil
}

func toCandidate(rc rawCandidate) jobs.Candidate {
	c := jobs.Candidate{
		FileName:        rc.FileName,
		MatchPercentage: clamp(*rc.MatchPercentage, 0, 100),
		Skills:          orEmpty(rc.Skills),
		MissingSkills:   orEmpty(rc.MissingSkills),
		ExtraSkills:     orEmpty(rc.ExtraSkills),
		Pros:            orEmpty(rc.Pros),
		Cons:            orEmpty(rc.Cons),
		ImprovementTips: orEmpty(rc.ImprovementTips),
		ExperienceYears: rc.ExperienceYears,
		SemanticScore:   rc.SemanticScore,
		SkillScore:      rc.SkillScore,
		SelectionChance: rc.SelectionChance,
		DownloadLink:    rc.DownloadLink,
		Status:          jobs.StatusApplied,
	}
	if s, err := jobs.ParseStatus(rc.Status); err == nil {
		c.Status = s
	}
	return c
}

func orEmpty(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func sample(b []byte) string {
	s := strings.ToValidUTF8(string(b), "")
	if len(s) > maxSampleLen {
		cut := maxSampleLen
		// Back up so the cut never lands inside a multi-byte rune.
		for cut > 0 && !utf8.RuneStart(s[cut]) {
			cut--
		}
		s = s[:cut] + "..."
	}
	return s
}
