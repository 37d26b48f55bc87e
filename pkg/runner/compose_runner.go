package runner

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"math/rand/v2"

	"github.com/shouni/go-creative-kit/pkg/compliance"
	"github.com/shouni/go-creative-kit/pkg/config"
	"github.com/shouni/go-creative-kit/pkg/domain"
	"github.com/shouni/go-creative-kit/pkg/export"
	"github.com/shouni/go-creative-kit/pkg/parser"
	"github.com/shouni/go-creative-kit/pkg/rules"
	"github.com/shouni/go-creative-kit/pkg/session"
	"github.com/shouni/go-creative-kit/pkg/templates"
)

// Measure は画像ソースの画素サイズを返します。
type Measure func(source string) (int, int, error)

// CreativeComposeRunner はブリーフからシーンを組み立てます。
type CreativeComposeRunner struct {
	cfg       config.Config
	reader    parser.InputReader
	parser    *parser.BriefParser
	catalog   *templates.Catalog
	registry  *rules.Registry
	evaluator compliance.ReportEvaluator
	measure   Measure
	rng       *rand.Rand
}

// ComposeDeps は CreativeComposeRunner の依存関係です。
type ComposeDeps struct {
	Reader    parser.InputReader
	Catalog   *templates.Catalog
	Registry  *rules.Registry
	Evaluator compliance.ReportEvaluator
	Measure   Measure
	Rand      *rand.Rand
}

// NewCreativeComposeRunner は依存関係を注入して初期化します。
func NewCreativeComposeRunner(cfg config.Config, deps ComposeDeps) *CreativeComposeRunner {
	return &CreativeComposeRunner{
		cfg:       cfg,
		reader:    deps.Reader,
		parser:    parser.NewBriefParser(),
		catalog:   deps.Catalog,
		registry:  deps.Registry,
		evaluator: deps.Evaluator,
		measure:   deps.Measure,
		rng:       deps.Rand,
	}
}

// RunFromPath はブリーフファイルを読み込んでシーンを組み立てます。
// size が空ならブリーフの指定を使い、どちらもなければ defaultSize です。
func (r *CreativeComposeRunner) RunFromPath(ctx context.Context, briefPath string, size export.Size, defaultSize string) (*session.Session, *parser.Brief, error) {
	slog.InfoContext(ctx, "ComposeRunner: Reading brief", "path", briefPath)
	rc, err := r.reader.Open(ctx, briefPath)
	if err != nil {
		return nil, nil, fmt.Errorf("ブリーフファイルのオープンに失敗しました (%s): %w", briefPath, err)
	}
	defer rc.Close()

	content, err := io.ReadAll(rc)
	if err != nil {
		return nil, nil, fmt.Errorf("ブリーフファイルの読み込みに失敗しました: %w", err)
	}
	brief, err := r.parser.Parse(briefPath, string(content))
	if err != nil {
		return nil, nil, fmt.Errorf("ブリーフの解析に失敗しました: %w", err)
	}

	if size.Width == 0 {
		sizeKey := brief.Size
		if sizeKey == "" {
			sizeKey = defaultSize
		}
		if size, err = export.ParseSize(sizeKey); err != nil {
			return nil, nil, err
		}
	}

	sess, err := r.Run(ctx, brief, size)
	if err != nil {
		return nil, nil, err
	}
	return sess, brief, nil
}

// Run はテンプレートを適用し、ブリーフの文言・画像・バッジを1件の履歴としてまとめて反映します。
func (r *CreativeComposeRunner) Run(ctx context.Context, brief *parser.Brief, size export.Size) (*session.Session, error) {
	if brief == nil {
		return nil, fmt.Errorf("brief は必須です")
	}
	profile := brief.Profile
	if profile == "" {
		profile = r.cfg.Profile
	}

	sess, err := session.New(domain.NewScene(float64(size.Width), float64(size.Height)), session.Options{
		HistoryCapacity: r.cfg.HistoryCapacity,
		Profile:         profile,
		Registry:        r.registry,
		Evaluator:       r.evaluator,
		Rand:            r.rng,
	})
	if err != nil {
		return nil, err
	}

	if brief.Template != "" {
		t, ok := r.catalog.ByID(brief.Template)
		if !ok {
			return nil, fmt.Errorf("テンプレートが見つかりません: %s", brief.Template)
		}
		if err := sess.ApplyTemplate(t); err != nil {
			return nil, err
		}
	}

	err = sess.Batch("apply brief", func() error {
		if brief.Template == "" {
			if err := addCopy(sess, brief.Copy); err != nil {
				return err
			}
		} else if err := sess.FillCopy(brief.Copy); err != nil {
			return err
		}
		if brief.Background != "" {
			if err := sess.SetBackground(brief.Background); err != nil {
				return err
			}
		}
		for _, img := range brief.Images {
			w, h, err := r.measure(img.Source)
			if err != nil {
				return fmt.Errorf("画像サイズの取得に失敗しました (%s): %w", img.Source, err)
			}
			id, err := sess.AddProductImage(img.Source, w, h, img.Position, img.Scale)
			if err != nil {
				return err
			}
			if img.Filter != "" {
				if err := sess.ApplyFilter(id, img.Filter); err != nil {
					return err
				}
			}
		}
		for _, kind := range brief.Badges {
			if _, err := sess.AddBadge(kind); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	slog.InfoContext(ctx, "ComposeRunner: Scene composed",
		"title", brief.Title,
		"template", brief.Template,
		"size", size.Dimensions(),
		"elements", len(sess.Scene().Elements),
	)
	return sess, nil
}

// addCopy はテンプレートを使わない場合に文言をテキスト要素として追加し、自動配置します。
func addCopy(sess *session.Session, c templates.Copy) error {
	added := 0
	for _, line := range []struct {
		content string
		size    float64
	}{
		{c.Heading, 42},
		{c.Tagline, 20},
		{c.Price, 28},
		{c.CTA, 24},
	} {
		if line.content == "" {
			continue
		}
		if _, err := sess.AddElement(domain.NewText(line.content, 0, 0, line.size)); err != nil {
			return err
		}
		added++
	}
	if added < 2 {
		return nil
	}
	return sess.AutoArrange()
}
