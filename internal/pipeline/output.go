package pipeline

import (
	"fmt"
	"io"
	"strings"

	"github.com/shouni/go-creative-kit/pkg/compliance"
	"github.com/shouni/go-creative-kit/pkg/publisher"
	"github.com/shouni/go-creative-kit/pkg/runner"
)

func printReport(w io.Writer, report compliance.Report, quick []compliance.Verdict) {
	fmt.Fprintf(w, "%s compliance score: %d (%s)\n", report.DisplayName, report.Score, report.Grade())
	fmt.Fprintf(w, "passed %d / warnings %d / failed %d\n\n",
		len(report.Passed()), len(report.Warnings()), len(report.Failures()))
	for _, v := range report.Verdicts {
		fmt.Fprintf(w, "%s %s: %s\n", publisher.StatusIcon(v.Status), v.Rule, v.Message)
		if v.Fix != "" {
			fmt.Fprintf(w, "    fix: %s\n", v.Fix)
		}
		if v.Suggestion != "" {
			fmt.Fprintf(w, "    suggestion: %s\n", v.Suggestion)
		}
	}

	if len(quick) == 0 {
		return
	}
	fmt.Fprintln(w, "\nquick check:")
	for _, v := range quick {
		fmt.Fprintf(w, "%s %s\n", publisher.StatusIcon(v.Status), v.Rule)
	}
}

func printPrediction(w io.Writer, res runner.PredictResult) {
	p := res.Prediction
	fmt.Fprintf(w, "quality score: %d\n", p.Quality)
	fmt.Fprintf(w, "compliance likelihood: %.0f%%\n", p.Compliance*100)
	factors := make([]string, len(p.Factors))
	for i, f := range p.Factors {
		factors[i] = string(f)
	}
	fmt.Fprintf(w, "factors: %s\n", strings.Join(factors, ", "))

	proj := res.Projection
	fmt.Fprintf(w, "predicted CTR: %.2f%% (%s, category avg %.2f%%)\n", proj.PredictedCTR, proj.Comparison(), proj.CategoryAvgCTR)
	fmt.Fprintf(w, "ROAS: %gx / confidence: %d%%\n", proj.ROAS, proj.Confidence)
}
