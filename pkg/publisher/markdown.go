package publisher

import (
	"fmt"
	"strings"

	"github.com/shouni/go-creative-kit/pkg/compliance"
	"github.com/shouni/go-creative-kit/pkg/export"
)

const defaultReportTitle = "Creative Export Report"

var statusIcons = map[compliance.Status]string{
	compliance.StatusPassed:  "✅",
	compliance.StatusWarning: "⚠️",
	compliance.StatusFailed:  "❌",
}

// StatusIcon は判定結果の表示用アイコンです。
func StatusIcon(s compliance.Status) string {
	return statusIcons[s]
}

// BuildReport は評価結果と書き出し一覧の Markdown を生成します。
// fileNames は batch.Renditions と同じ順序の保存ファイル名です。
func BuildReport(title string, batch *export.Batch, report *compliance.Report, fileNames []string) string {
	if title == "" {
		title = defaultReportTitle
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "# %s\n\n", title)

	if report != nil {
		name := report.DisplayName
		if name == "" {
			name = report.Profile
		}
		fmt.Fprintf(&sb, "## Compliance: %s\n\n", name)
		fmt.Fprintf(&sb, "- score: %d (%s)\n", report.Score, report.Grade())
		fmt.Fprintf(&sb, "- passed: %d / warnings: %d / failed: %d\n\n",
			len(report.Passed()), len(report.Warnings()), len(report.Failures()))

		for _, v := range report.Verdicts {
			fmt.Fprintf(&sb, "- %s **%s**: %s\n", statusIcons[v.Status], v.Rule, v.Message)
			if v.Fix != "" {
				fmt.Fprintf(&sb, "  - fix: %s\n", v.Fix)
			}
			if v.Suggestion != "" {
				fmt.Fprintf(&sb, "  - suggestion: %s\n", v.Suggestion)
			}
		}
		sb.WriteString("\n")
	}

	fmt.Fprintf(&sb, "## Renditions (%s)\n\n", batch.State)
	fmt.Fprintf(&sb, "- source: %gx%g\n- policy: %s\n\n", batch.Plan.SourceWidth, batch.Plan.SourceHeight, batch.Plan.Policy)
	sb.WriteString("| # | format | size | scale | file |\n")
	sb.WriteString("|---|---|---|---|---|\n")
	for i, r := range batch.Renditions {
		file := "-"
		if i < len(fileNames) && fileNames[i] != "" {
			file = fmt.Sprintf("[%s](%s)", fileNames[i], fileNames[i])
		}
		fmt.Fprintf(&sb, "| %d | %s | %s | %.3f | %s |\n",
			r.Entry.Index+1, r.Entry.Target.Label(), r.Entry.Target.Dimensions(), r.Entry.Scale, file)
	}
	return sb.String()
}
