package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"sync"

	"github.com/shouni/go-creative-kit/pkg/compliance"
	"github.com/shouni/go-creative-kit/pkg/domain"
	"github.com/shouni/go-creative-kit/pkg/history"
	"github.com/shouni/go-creative-kit/pkg/layout"
	"github.com/shouni/go-creative-kit/pkg/rules"
)

// ErrLocked はロックされた要素を移動しようとした場合のエラーです。
var ErrLocked = errors.New("element is locked")

// DefaultProfile は最初に選択されるプロファイルです。
const DefaultProfile = "tesco"

// Options は Session の設定です。ゼロ値の項目には既定値が使われます。
type Options struct {
	// HistoryCapacity は undo 履歴の上限です。
	HistoryCapacity int
	// Profile は最初に選択するプロファイル名です。
	Profile string
	// Registry はプロファイルの解決に使います。nil なら組み込みレジストリです。
	Registry *rules.Registry
	// Evaluator はコンプライアンス評価に使います。nil なら Registry を使う Evaluator です。
	Evaluator compliance.ReportEvaluator
	// Rand はバッジやテンプレートの選択に使う乱数源です。nil なら常に同じ選択になります。
	Rand *rand.Rand
	// Layout は整列と自動配置のルールです。
	Layout *layout.LayoutManager
}

// Session は編集中のシーンと履歴、選択中のプロファイルを保持します。
// 全ての変更は1回の操作につき1件だけ履歴に記録されます。
type Session struct {
	mu        sync.Mutex
	scene     domain.Scene
	history   *history.Manager
	profile   string
	registry  *rules.Registry
	evaluator compliance.ReportEvaluator
	layout    *layout.LayoutManager
	rng       *rand.Rand

	batchDepth  int
	batchDirty  bool
	batchAction string
}

// New はシーンを初期状態として記録した Session を生成します。
func New(scene domain.Scene, opts Options) (*Session, error) {
	if err := scene.Validate(); err != nil {
		return nil, err
	}
	if opts.Registry == nil {
		opts.Registry = rules.Default()
	}
	if opts.Evaluator == nil {
		opts.Evaluator = compliance.NewEvaluator(opts.Registry)
	}
	if opts.Layout == nil {
		opts.Layout = layout.NewLayoutManager()
	}
	if opts.Profile == "" {
		opts.Profile = DefaultProfile
	}
	p, err := opts.Registry.Lookup(opts.Profile)
	if err != nil {
		return nil, err
	}

	s := &Session{
		scene:     scene.Clone(),
		history:   history.New(opts.HistoryCapacity),
		profile:   p.Name,
		registry:  opts.Registry,
		evaluator: opts.Evaluator,
		layout:    opts.Layout,
		rng:       opts.Rand,
	}
	if err := s.record("initial"); err != nil {
		return nil, err
	}
	return s, nil
}

// Scene は現在のシーンのコピーを返します。
func (s *Session) Scene() domain.Scene {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.scene.Clone()
}

// Profile は選択中のプロファイル名です。
func (s *Session) Profile() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.profile
}

// SelectProfile はプロファイルを切り替えます。未知の名前は rules.ErrInvalidProfile です。
// プロファイルの選択は履歴に残りません。
func (s *Session) SelectProfile(name string) error {
	p, err := s.registry.Lookup(name)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.profile = p.Name
	s.mu.Unlock()
	return nil
}

// Evaluate は現在のシーンを選択中のプロファイルで評価します。
func (s *Session) Evaluate(ctx context.Context) (compliance.Report, error) {
	s.mu.Lock()
	scene, profile := s.scene.Clone(), s.profile
	s.mu.Unlock()
	return s.evaluator.Evaluate(ctx, scene, profile)
}

// QuickCheck は選択中のプロファイルで簡易チェックを行います。
func (s *Session) QuickCheck() ([]compliance.Verdict, error) {
	s.mu.Lock()
	scene, profile := s.scene.Clone(), s.profile
	s.mu.Unlock()
	p, err := s.registry.Lookup(profile)
	if err != nil {
		return nil, err
	}
	return compliance.QuickCheck(scene, p), nil
}

// Undo は1つ前の状態に戻します。戻れない場合は false を返します。
func (s *Session) Undo() (bool, error) {
	return s.restore(s.history.Undo)
}

// Redo は取り消した状態をやり直します。やり直せない場合は false を返します。
func (s *Session) Redo() (bool, error) {
	return s.restore(s.history.Redo)
}

// CanUndo は戻せる状態があるかを返します。
func (s *Session) CanUndo() bool { return s.history.CanUndo() }

// CanRedo はやり直せる状態があるかを返します。
func (s *Session) CanRedo() bool { return s.history.CanRedo() }

// Current は履歴のカーソル位置の記録です。
func (s *Session) Current() (history.Entry, bool) {
	return s.history.Current()
}

// History は記録済みの操作名を古い順に返します。
func (s *Session) History() []string {
	return s.history.Actions()
}

func (s *Session) restore(step func() (history.Entry, bool)) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.batchDepth > 0 {
		return false, fmt.Errorf("バッチ処理中は履歴を移動できません")
	}
	entry, ok := step()
	if !ok {
		return false, nil
	}
	scene, err := domain.DecodeScene(entry.Snapshot)
	if err != nil {
		return false, err
	}
	s.scene = scene
	slog.Debug("履歴を移動しました", "seq", entry.Seq, "action", entry.Action)
	return true, nil
}

// Batch は fn 内の変更をまとめて1件の履歴として記録します。
// fn がエラーを返した場合はバッチ開始前のシーンに戻し、何も記録しません。
func (s *Session) Batch(action string, fn func() error) error {
	s.mu.Lock()
	before := s.scene.Clone()
	s.batchDepth++
	if s.batchDepth == 1 {
		s.batchAction = action
		s.batchDirty = false
	}
	s.mu.Unlock()

	fnErr := fn()

	s.mu.Lock()
	defer s.mu.Unlock()
	s.batchDepth--
	if fnErr != nil {
		s.scene = before
		if s.batchDepth == 0 {
			s.batchDirty = false
		}
		return fnErr
	}
	if s.batchDepth > 0 || !s.batchDirty {
		return nil
	}
	s.batchDirty = false
	return s.recordLocked(s.batchAction)
}

// mutate はシーンのコピーに fn を適用し、変更があれば置き換えて記録します。
// fn が false を返した場合は変更なしとして記録しません。
func (s *Session) mutate(action string, fn func(scene *domain.Scene) (bool, error)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	work := s.scene.Clone()
	changed, err := fn(&work)
	if err != nil {
		return err
	}
	if !changed {
		return nil
	}
	s.scene = work
	if s.batchDepth > 0 {
		s.batchDirty = true
		return nil
	}
	return s.recordLocked(action)
}

func (s *Session) record(action string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.recordLocked(action)
}

func (s *Session) recordLocked(action string) error {
	snap, err := s.scene.Encode()
	if err != nil {
		return err
	}
	s.history.RecordAction(action, snap)
	return nil
}
