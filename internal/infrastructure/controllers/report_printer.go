package controllers

import (
	"fmt"
	"io"

	"github.com/fatih/color"

	"github.com/rios0rios0/releaseflow/internal/domain/entities"
)

var (
	successColor = color.New(color.FgGreen, color.Bold)
	failureColor = color.New(color.FgRed, color.Bold)
	detailColor  = color.New(color.FgCyan)
)

// printReport writes the operator summary of a run.
func printReport(out io.Writer, report entities.ReleaseReport) {
	if report.Phase == entities.PhaseFailed {
		failureColor.Fprintf(out, "✗ release failed: %v\n", report.Err)
	} else {
		successColor.Fprintf(out, "✓ release %s\n", report.Phase)
	}
	if report.Version != "" {
		detailColor.Fprintf(out, "  version: %s\n", report.Version)
	}
	if report.Branch != "" {
		detailColor.Fprintf(out, "  branch:  %s\n", report.Branch)
	}
	if report.Build != entities.BuildPending {
		detailColor.Fprintf(out, "  build:   %s\n", report.Build)
	}
	fmt.Fprintf(out, "  run:     %s\n", report.RunID)
}

// reportError turns a finished run into the controller result.
func reportError(report entities.ReleaseReport) error {
	if report.Phase != entities.PhaseFailed {
		return nil
	}
	return report.Err
}

func workingDir(args []string) string {
	if len(args) > 0 {
		return args[0]
	}
	return "."
}
