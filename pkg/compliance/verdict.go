package compliance

import "math"

// Status は判定結果の種別です。
type Status string

const (
	StatusPassed  Status = "passed"
	StatusWarning Status = "warning"
	StatusFailed  Status = "failed"
)

// ルール名です。レポート上の見出しとして使われます。
const (
	RuleProductImage     = "Product Image Required"
	RuleProductImageSize = "Product Image Size"
	RuleTextContent      = "Text Content"
	RuleCTA              = "Call-to-Action"
	RulePrice            = "Price Display"
	RuleTextCoverage     = "Text Coverage"
	RuleRestrictedWords  = "Restricted Words"
	RuleReadability      = "Text Readability"
	RuleBrandLogo        = "Brand Logo"
	RuleDesignElements   = "Design Elements"
	RuleSmartBadges      = "Smart Badges"
)

// Verdict は1つのチェックの判定です。生成後に変更されることはありません。
type Verdict struct {
	Status     Status `json:"status"`
	Rule       string `json:"rule"`
	Message    string `json:"message"`
	Fix        string `json:"fix,omitempty"`
	Suggestion string `json:"suggestion,omitempty"`
}

// Passed は合格判定を作ります。
func Passed(rule, description string) Verdict {
	return Verdict{Status: StatusPassed, Rule: rule, Message: description}
}

// Warning は警告判定を作ります。
func Warning(rule, message, fix, suggestion string) Verdict {
	return Verdict{Status: StatusWarning, Rule: rule, Message: message, Fix: fix, Suggestion: suggestion}
}

// Failed は不合格判定を作ります。
func Failed(rule, message, fix string) Verdict {
	return Verdict{Status: StatusFailed, Rule: rule, Message: message, Fix: fix}
}

// Report はコンプライアンス評価の結果です。評価のたびに新しく作られます。
type Report struct {
	Profile     string    `json:"profile"`
	DisplayName string    `json:"display_name"`
	Verdicts    []Verdict `json:"verdicts"`
	Score       int       `json:"score"`
}

// Filter は指定ステータスの判定を評価順のまま返します。
func (r Report) Filter(status Status) []Verdict {
	var out []Verdict
	for _, v := range r.Verdicts {
		if v.Status == status {
			out = append(out, v)
		}
	}
	return out
}

// Passed は合格判定の一覧です。
func (r Report) Passed() []Verdict { return r.Filter(StatusPassed) }

// Warnings は警告判定の一覧です。
func (r Report) Warnings() []Verdict { return r.Filter(StatusWarning) }

// Failures は不合格判定の一覧です。
func (r Report) Failures() []Verdict { return r.Filter(StatusFailed) }

// Grade はスコアを good / fair / poor の3段階に分けます。
func (r Report) Grade() string {
	switch {
	case r.Score >= 80:
		return "good"
	case r.Score >= 60:
		return "fair"
	default:
		return "poor"
	}
}

// Score は判定の一覧を 0〜100 の整数スコアにまとめます。
// 合格は1、警告は0.5、不合格は0の重みで、判定が1つもない場合は0なのだ。
func Score(verdicts []Verdict) int {
	if len(verdicts) == 0 {
		return 0
	}
	var weight float64
	for _, v := range verdicts {
		switch v.Status {
		case StatusPassed:
			weight += 1
		case StatusWarning:
			weight += 0.5
		}
	}
	return int(math.Round(100 * weight / float64(len(verdicts))))
}
