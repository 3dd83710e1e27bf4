package main

// Exercise the scoring worker from the command line:
//   go run ./cmd/scorertest -jd jd.txt resume1.pdf resume2.pdf

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"resume-shortlister/internal/scoring"
	"resume-shortlister/internal/shared/config"
)

func main() {
	cfg := config.Load()

	jdPath := flag.String("jd", "", "Path to job description file")
	command := flag.String("command", cfg.ScorerCommand, "Scorer command")
	script := flag.String("script", cfg.ScorerScript, "Scorer script path")
	timeout := flag.Duration("timeout", cfg.ScorerTimeout, "Scoring timeout")
	outPath := flag.String("out", "", "Path to write JSON output (optional)")
	flag.Parse()

	if strings.TrimSpace(*jdPath) == "" {
		exitErr("jd path is required")
	}
	if flag.NArg() == 0 {
		exitErr("at least one resume path is required")
	}

	jdBytes, err := os.ReadFile(*jdPath)
	if err != nil {
		exitErr(fmt.Sprintf("read job description: %v", err))
	}

	paths := make([]string, 0, flag.NArg())
	for _, arg := range flag.Args() {
		abs, err := filepath.Abs(arg)
		if err != nil {
			exitErr(fmt.Sprintf("resolve %s: %v", arg, err))
		}
		paths = append(paths, abs)
	}

	gateway := scoring.NewProcessGateway(*command, []string{*script}, *timeout)

	started := time.Now()
	candidates, err := gateway.Score(context.Background(), string(jdBytes), paths)
	if err != nil {
		exitErr(fmt.Sprintf("score: %v", err))
	}
	fmt.Fprintf(os.Stderr, "scored %d candidates in %s\n", len(candidates), time.Since(started).Round(time.Millisecond))

	encoded, err := json.MarshalIndent(candidates, "", "  ")
	if err != nil {
		exitErr(fmt.Sprintf("encode output: %v", err))
	}
	if *outPath != "" {
		if err := os.WriteFile(*outPath, encoded, 0o644); err != nil {
			exitErr(fmt.Sprintf("write output: %v", err))
		}
		return
	}
	fmt.Println(string(encoded))
}

func exitErr(msg string) {
	fmt.Fprintln(os.Stderr, msg)
	os.Exit(2)
}
