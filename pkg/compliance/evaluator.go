package compliance

import (
	"context"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/patrickmn/go-cache"
	"github.com/shouni/go-creative-kit/pkg/domain"
	"github.com/shouni/go-creative-kit/pkg/rules"
	"golang.org/x/sync/singleflight"
)

// Evaluate はシーンをプロファイルに照らして判定し、レポートを返します。
// チェックの順序は固定で、乱数や時刻には依存しません。要素が1つもないシーンでもパニックしないのだ。
func Evaluate(scene domain.Scene, p rules.Profile) Report {
	var verdicts []Verdict
	verdicts = append(verdicts, checkProductImage(scene, p)...)

	texts := scene.TextContents()
	if len(texts) == 0 {
		verdicts = append(verdicts, Warning(RuleTextContent,
			"No text found in creative",
			"Add headline and call-to-action text",
			"Creatives with clear headlines have 40% higher CTR"))
	} else {
		verdicts = append(verdicts, checkCTA(texts, p)...)
		verdicts = append(verdicts, checkPrice(texts, p)...)
		verdicts = append(verdicts,
			checkTextCoverage(scene, p),
			checkForbidden(texts, p),
			checkReadability(scene, p),
		)
	}
	verdicts = append(verdicts, checkBrandLogo(scene, p)...)
	verdicts = append(verdicts, checkAuxiliary(scene)...)

	return Report{
		Profile:     p.Name,
		DisplayName: p.DisplayName,
		Verdicts:    verdicts,
		Score:       Score(verdicts),
	}
}

// Evaluator はレジストリからプロファイルを引いて評価します。
type Evaluator struct {
	registry *rules.Registry
}

// NewEvaluator は Evaluator を生成します。registry が nil の場合は組み込みレジストリを使います。
func NewEvaluator(registry *rules.Registry) *Evaluator {
	if registry == nil {
		registry = rules.Default()
	}
	return &Evaluator{registry: registry}
}

// Registry は評価に使うレジストリを返します。
func (e *Evaluator) Registry() *rules.Registry {
	return e.registry
}

// Evaluate はプロファイル名で評価します。未知の名前は rules.ErrInvalidProfile です。
func (e *Evaluator) Evaluate(_ context.Context, scene domain.Scene, profileName string) (Report, error) {
	p, err := e.registry.Lookup(profileName)
	if err != nil {
		return Report{}, err
	}
	return Evaluate(scene, p), nil
}

// ReportEvaluator はシーンのコンプライアンス評価を行うインターフェースです。
type ReportEvaluator interface {
	Evaluate(ctx context.Context, scene domain.Scene, profileName string) (Report, error)
}

// CachedEvaluator はシーンのダイジェストとプロファイル名をキーに評価結果をキャッシュします。
// 同じキーに対する同時評価は singleflight で1回にまとめられます。
type CachedEvaluator struct {
	inner  ReportEvaluator
	cache  *cache.Cache
	group  singleflight.Group
	hits   atomic.Int64
	misses atomic.Int64
}

// NewCachedEvaluator は CachedEvaluator を生成します。
func NewCachedEvaluator(inner ReportEvaluator, ttl, cleanup time.Duration) (*CachedEvaluator, error) {
	if inner == nil {
		return nil, fmt.Errorf("inner evaluator は必須です")
	}
	return &CachedEvaluator{
		inner: inner,
		cache: cache.New(ttl, cleanup),
	}, nil
}

// Evaluate はキャッシュ済みのレポートがあればそれを返し、なければ評価して保存します。
func (c *CachedEvaluator) Evaluate(ctx context.Context, scene domain.Scene, profileName string) (Report, error) {
	digest, err := scene.Digest()
	if err != nil {
		return Report{}, fmt.Errorf("キャッシュキーの計算に失敗しました: %w", err)
	}
	key := profileName + ":" + digest

	if v, ok := c.cache.Get(key); ok {
		c.hits.Add(1)
		slog.DebugContext(ctx, "compliance cache hit", "profile", profileName)
		return cloneReport(v.(Report)), nil
	}

	val, err, _ := c.group.Do(key, func() (interface{}, error) {
		// 待機中に別のゴルーチンが評価を終えている可能性があるため再確認する
		if v, ok := c.cache.Get(key); ok {
			return v, nil
		}
		c.misses.Add(1)
		report, evalErr := c.inner.Evaluate(ctx, scene, profileName)
		if evalErr != nil {
			return nil, evalErr
		}
		c.cache.SetDefault(key, report)
		return report, nil
	})
	if err != nil {
		return Report{}, err
	}

	report, ok := val.(Report)
	if !ok {
		return Report{}, fmt.Errorf("unexpected return type from singleflight: %T", val)
	}
	return cloneReport(report), nil
}

// Stats はキャッシュのヒット数とミス数を返します。
func (c *CachedEvaluator) Stats() (hits, misses int64) {
	return c.hits.Load(), c.misses.Load()
}

// Flush はキャッシュを空にします。
func (c *CachedEvaluator) Flush() {
	c.cache.Flush()
}

func cloneReport(r Report) Report {
	r.Verdicts = append([]Verdict(nil), r.Verdicts...)
	return r
}
