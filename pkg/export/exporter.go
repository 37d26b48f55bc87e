package export

import (
	"context"
	"errors"
	"fmt"
	"image"
	"log/slog"
	"sync"
	"time"

	"github.com/shouni/go-creative-kit/pkg/domain"
	"github.com/shouni/go-creative-kit/pkg/render"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"
)

// State は書き出しバッチの状態です。
type State string

const (
	StateIdle      State = "idle"
	StatePlanning  State = "planning"
	StateRendering State = "rendering"
	StateCompleted State = "completed"
	StateFailed    State = "failed"
	StateCancelled State = "cancelled"
)

// Event は状態遷移の通知です。Rendering の場合のみ Index と Target が意味を持ちます。
type Event struct {
	State  State
	Index  int
	Total  int
	Target Size
	Err    error
}

// Observer は状態遷移を受け取る関数です。同時に複数回呼ばれることはありません。
type Observer func(Event)

// SceneRenderer はシーンをラスタ画像に描画します。
type SceneRenderer interface {
	Render(ctx context.Context, scene domain.Scene) (image.Image, error)
}

// Rendition は1サイズ分の書き出し結果です。
type Rendition struct {
	Entry  Entry         `json:"entry"`
	Format render.Format `json:"format"`
	Data   []byte        `json:"-"`
}

// Batch は書き出しバッチの結果です。キャンセルや失敗の場合も完了済みの Rendition は保持されます。
type Batch struct {
	Plan       Plan        `json:"plan"`
	Renditions []Rendition `json:"renditions"`
	State      State       `json:"state"`
}

// Options は Exporter の動作設定です。
type Options struct {
	// Concurrency は同時に描画するサイズ数です。1以下なら逐次処理です。
	Concurrency int
	// Interval はサイズごとの描画開始間隔です。0 なら制限しません。
	Interval time.Duration
	Format   render.Format
	Quality  int
	Observer Observer
}

// Exporter は計画に従ってサイズごとにシーンを複製・変換・描画・エンコードします。
// 共有のシーンを直接変更することはありません。
type Exporter struct {
	renderer SceneRenderer
	opts     Options
	mu       sync.Mutex
}

// New は Exporter を生成します。
func New(renderer SceneRenderer, opts Options) (*Exporter, error) {
	if renderer == nil {
		return nil, fmt.Errorf("renderer は必須です")
	}
	if opts.Format == "" {
		opts.Format = render.FormatPNG
	}
	if _, err := render.ParseFormat(string(opts.Format)); err != nil {
		return nil, err
	}
	if opts.Concurrency < 1 {
		opts.Concurrency = 1
	}
	return &Exporter{renderer: renderer, opts: opts}, nil
}

// Format は書き出し形式を返します。
func (x *Exporter) Format() render.Format {
	return x.opts.Format
}

// Run はバッチを実行します。
// 状態は Idle → Planning → Rendering(i)… → Completed と遷移し、計画に失敗した場合は Failed、
// サイズ間でコンテキストがキャンセルされた場合は Cancelled になります。
func (x *Exporter) Run(ctx context.Context, scene domain.Scene, targets []Size, policy Policy) (*Batch, error) {
	batch := &Batch{State: StateIdle}
	x.emit(Event{State: StateIdle, Total: len(targets)})

	batch.State = StatePlanning
	x.emit(Event{State: StatePlanning, Total: len(targets)})
	plan, err := PlanExport(scene, targets, policy)
	if err != nil {
		return x.finish(ctx, batch, StateFailed, err)
	}
	batch.Plan = plan

	slog.InfoContext(ctx, "Export batch started",
		"targets", len(plan.Entries),
		"policy", string(policy),
		"format", string(x.opts.Format),
		"concurrency", x.opts.Concurrency,
	)

	// 呼び出し側が実行中にシーンを変更しても影響を受けないよう、最初に複製しておく
	source := scene.Clone()

	var limiter *rate.Limiter
	if x.opts.Interval > 0 {
		limiter = rate.NewLimiter(rate.Every(x.opts.Interval), 1)
	}

	if x.opts.Concurrency > 1 {
		err = x.runParallel(ctx, batch, source, limiter)
	} else {
		err = x.runSequential(ctx, batch, source, limiter)
	}
	if err != nil {
		if ctx.Err() != nil {
			return x.finish(ctx, batch, StateCancelled, err)
		}
		return x.finish(ctx, batch, StateFailed, err)
	}
	return x.finish(ctx, batch, StateCompleted, nil)
}

func (x *Exporter) runSequential(ctx context.Context, batch *Batch, source domain.Scene, limiter *rate.Limiter) error {
	for _, entry := range batch.Plan.Entries {
		if err := ctx.Err(); err != nil {
			return err
		}
		if limiter != nil {
			if err := limiter.Wait(ctx); err != nil {
				return err
			}
		}
		r, err := x.renderEntry(ctx, source, entry, len(batch.Plan.Entries))
		if err != nil {
			return err
		}
		batch.Renditions = append(batch.Renditions, r)
	}
	return nil
}

func (x *Exporter) runParallel(ctx context.Context, batch *Batch, source domain.Scene, limiter *rate.Limiter) error {
	results := make([]*Rendition, len(batch.Plan.Entries))
	eg, egCtx := errgroup.WithContext(ctx)
	eg.SetLimit(x.opts.Concurrency)

	for i, entry := range batch.Plan.Entries {
		eg.Go(func() error {
			if err := egCtx.Err(); err != nil {
				return err
			}
			if limiter != nil {
				if err := limiter.Wait(egCtx); err != nil {
					return err
				}
			}
			r, err := x.renderEntry(egCtx, source, entry, len(results))
			if err != nil {
				return err
			}
			results[i] = &r
			return nil
		})
	}

	err := eg.Wait()
	for _, r := range results {
		if r != nil {
			batch.Renditions = append(batch.Renditions, *r)
		}
	}
	return err
}

// renderEntry は複製したシーンを変換して描画します。複製は描画後に捨てられます。
func (x *Exporter) renderEntry(ctx context.Context, source domain.Scene, entry Entry, total int) (Rendition, error) {
	x.emit(Event{State: StateRendering, Index: entry.Index, Total: total, Target: entry.Target})

	scaled := Transform(source, entry)
	img, err := x.renderer.Render(ctx, scaled)
	if err != nil {
		return Rendition{}, fmt.Errorf("%s の描画に失敗しました: %w", entry.Target, err)
	}
	data, err := render.EncodeBytes(img, x.opts.Format, x.opts.Quality)
	if err != nil {
		return Rendition{}, fmt.Errorf("%s のエンコードに失敗しました: %w", entry.Target, err)
	}

	slog.DebugContext(ctx, "Rendition completed",
		"index", entry.Index,
		"target", entry.Target.String(),
		"scale", entry.Scale,
		"bytes", len(data),
	)
	return Rendition{Entry: entry, Format: x.opts.Format, Data: data}, nil
}

func (x *Exporter) finish(ctx context.Context, batch *Batch, state State, err error) (*Batch, error) {
	batch.State = state
	x.emit(Event{State: state, Total: len(batch.Plan.Entries), Err: err})

	switch state {
	case StateCompleted:
		slog.InfoContext(ctx, "Export batch completed", "renditions", len(batch.Renditions))
	case StateCancelled:
		slog.WarnContext(ctx, "Export batch cancelled", "completed", len(batch.Renditions), "error", err)
	default:
		if errors.Is(err, ErrEmptyScene) {
			slog.WarnContext(ctx, "Export aborted: add some content to the canvas first")
		} else {
			slog.ErrorContext(ctx, "Export batch failed", "error", err)
		}
	}
	return batch, err
}

func (x *Exporter) emit(ev Event) {
	if x.opts.Observer == nil {
		return
	}
	x.mu.Lock()
	defer x.mu.Unlock()
	x.opts.Observer(ev)
}
