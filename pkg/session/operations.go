package session

import (
	"fmt"

	"github.com/shouni/go-creative-kit/pkg/domain"
	"github.com/shouni/go-creative-kit/pkg/layout"
	"github.com/shouni/go-creative-kit/pkg/render"
	"github.com/shouni/go-creative-kit/pkg/templates"
)

// DuplicateOffset は複製した要素をずらす量です。
const DuplicateOffset = 20.0

// AddElement は要素を最前面に追加し、ID を返します。
func (s *Session) AddElement(e domain.Element) (string, error) {
	var id string
	err := s.mutate("add "+string(e.Kind), func(scene *domain.Scene) (bool, error) {
		id = scene.Add(e.Clone())
		return true, scene.Validate()
	})
	return id, err
}

// RemoveElement は要素を削除します。
func (s *Session) RemoveElement(id string) error {
	return s.mutate("remove", func(scene *domain.Scene) (bool, error) {
		return true, scene.Remove(id)
	})
}

// UpdateElement は fn で要素を書き換えます。ID と種類は変更できません。
// fn が何も変えなかった場合は履歴に残りません。
func (s *Session) UpdateElement(id string, fn func(e *domain.Element)) error {
	return s.mutate("update", func(scene *domain.Scene) (bool, error) {
		e, err := scene.Find(id)
		if err != nil {
			return false, err
		}
		return changedBy(scene, func() {
			kind := e.Kind
			fn(e)
			e.ID, e.Kind = id, kind
		})
	})
}

// changedBy は fn の前後でシーンのダイジェストが変わったかを返します。
func changedBy(scene *domain.Scene, fn func()) (bool, error) {
	before, err := scene.Digest()
	if err != nil {
		return false, err
	}
	fn()
	after, err := scene.Digest()
	if err != nil {
		return false, err
	}
	return before != after, nil
}

// Move は要素を移動します。ロックされた要素は ErrLocked です。
func (s *Session) Move(id string, x, y float64) error {
	return s.mutate("move", func(scene *domain.Scene) (bool, error) {
		e, err := scene.Find(id)
		if err != nil {
			return false, err
		}
		if e.Locked {
			return false, fmt.Errorf("%w: %s", ErrLocked, id)
		}
		if e.X == x && e.Y == y {
			return false, nil
		}
		e.X, e.Y = x, y
		return true, nil
	})
}

// Duplicate は要素を複製して右下にずらした位置に追加し、新しい ID を返します。
func (s *Session) Duplicate(id string) (string, error) {
	var newID string
	err := s.mutate("duplicate", func(scene *domain.Scene) (bool, error) {
		e, err := scene.Find(id)
		if err != nil {
			return false, err
		}
		c := renew(e.Clone())
		c.X += DuplicateOffset
		c.Y += DuplicateOffset
		newID = scene.Add(c)
		return true, nil
	})
	return newID, err
}

// renew は要素と子要素に新しい ID を振り直します。
func renew(e domain.Element) domain.Element {
	e.ID = domain.NewID()
	if e.Group != nil {
		for i := range e.Group.Children {
			e.Group.Children[i] = renew(e.Group.Children[i])
		}
	}
	return e
}

// BringForward は要素を1つ前面に移動します。最前面なら何もしません。
func (s *Session) BringForward(id string) error {
	return s.mutate("bring forward", func(scene *domain.Scene) (bool, error) {
		return scene.Shift(id, 1)
	})
}

// SendBackward は要素を1つ背面に移動します。最背面なら何もしません。
func (s *Session) SendBackward(id string) error {
	return s.mutate("send backward", func(scene *domain.Scene) (bool, error) {
		return scene.Shift(id, -1)
	})
}

// ToggleLock は要素のロックを切り替えます。
func (s *Session) ToggleLock(id string) error {
	return s.mutate("toggle lock", func(scene *domain.Scene) (bool, error) {
		e, err := scene.Find(id)
		if err != nil {
			return false, err
		}
		e.Locked = !e.Locked
		return true, nil
	})
}

// ToggleVisibility は要素の表示を切り替えます。
func (s *Session) ToggleVisibility(id string) error {
	return s.mutate("toggle visibility", func(scene *domain.Scene) (bool, error) {
		e, err := scene.Find(id)
		if err != nil {
			return false, err
		}
		e.Visible = !e.Visible
		return true, nil
	})
}

// Flip は要素を左右または上下に反転します。
func (s *Session) Flip(id string, horizontal bool) error {
	return s.mutate("flip", func(scene *domain.Scene) (bool, error) {
		e, err := scene.Find(id)
		if err != nil {
			return false, err
		}
		if horizontal {
			e.FlipX = !e.FlipX
		} else {
			e.FlipY = !e.FlipY
		}
		return true, nil
	})
}

// ApplyFilter は画像要素のエフェクトを差し替えます。FilterNone で解除します。
// 明るさなどの調整値はそのまま残ります。
func (s *Session) ApplyFilter(id string, kind domain.FilterKind) error {
	parsed, err := domain.ParseFilterKind(string(kind))
	if err != nil {
		return err
	}
	return s.mutateImage("filter "+string(parsed), id, func(f *domain.ImageFilters) {
		f.Effect = parsed
	})
}

// AdjustImage は画像要素の明るさ・コントラスト・彩度(%)を設定します。値は ±100 に丸められます。
func (s *Session) AdjustImage(id string, brightness, contrast, saturation float64) error {
	return s.mutateImage("adjust image", id, func(f *domain.ImageFilters) {
		f.Brightness, f.Contrast, f.Saturation = brightness, contrast, saturation
	})
}

func (s *Session) mutateImage(action, id string, fn func(f *domain.ImageFilters)) error {
	return s.mutate(action, func(scene *domain.Scene) (bool, error) {
		e, err := scene.Find(id)
		if err != nil {
			return false, err
		}
		if e.Kind != domain.KindImage || e.Image == nil {
			return false, fmt.Errorf("画像要素ではありません: %s", id)
		}
		next := e.Image.Filters
		fn(&next)
		next = next.Clamped()
		if next == e.Image.Filters {
			return false, nil
		}
		e.Image.Filters = next
		return true, nil
	})
}

// SetBackground はキャンバスの背景色を変更します。
func (s *Session) SetBackground(color string) error {
	if _, err := render.ParseColor(color); err != nil {
		return err
	}
	return s.mutate("background", func(scene *domain.Scene) (bool, error) {
		if scene.Background == color {
			return false, nil
		}
		scene.Background = color
		return true, nil
	})
}

// Align は要素をキャンバスの端または中央に揃えます。
func (s *Session) Align(id string, pos layout.Position) error {
	return s.mutate("align "+string(pos), func(scene *domain.Scene) (bool, error) {
		e, err := scene.Find(id)
		if err != nil {
			return false, err
		}
		if e.Locked {
			return false, fmt.Errorf("%w: %s", ErrLocked, id)
		}
		return true, s.layout.Align(scene, id, pos)
	})
}

// AutoArrange は要素を種類ごとに自動配置します。
func (s *Session) AutoArrange() error {
	return s.mutate("auto arrange", func(scene *domain.Scene) (bool, error) {
		return true, s.layout.AutoArrange(scene)
	})
}

// ResizeCanvas はキャンバスの寸法を変更し、要素を比例させて移動・拡縮します。
func (s *Session) ResizeCanvas(width, height float64) error {
	return s.mutate("resize", func(scene *domain.Scene) (bool, error) {
		if scene.Width == width && scene.Height == height {
			return false, nil
		}
		return true, s.layout.Resize(scene, width, height)
	})
}

// AddBadge はスマートバッジを既存のバッジの下に追加し、ID を返します。
func (s *Session) AddBadge(kind templates.BadgeKind) (string, error) {
	var id string
	err := s.mutate("add badge", func(scene *domain.Scene) (bool, error) {
		badge, err := templates.NewBadgeElement(kind, scene.Width, len(scene.Badges()), s.rng)
		if err != nil {
			return false, err
		}
		id = scene.Add(badge)
		return true, nil
	})
	return id, err
}

// ApplyTemplate はキャンバスを消去し、テンプレートからシーンを組み立て直します。
// キャンバスの寸法は維持されます。
func (s *Session) ApplyTemplate(t templates.Template) error {
	return s.mutate("template "+t.ID, func(scene *domain.Scene) (bool, error) {
		*scene = templates.Build(t, scene.Width, scene.Height, s.rng)
		return true, nil
	})
}

// Load はシーン全体を置き換えます。保存済みプロジェクトの読み込みに使います。
func (s *Session) Load(scene domain.Scene) error {
	if err := scene.Validate(); err != nil {
		return err
	}
	return s.mutate("load", func(work *domain.Scene) (bool, error) {
		*work = scene.Clone()
		return true, nil
	})
}

// DefaultImageScale は商品画像の長辺をキャンバス短辺の何割にするかの既定値です。
const DefaultImageScale = 0.5

// FillCopy はテンプレートのプレースホルダ文言を差し替えます。
func (s *Session) FillCopy(c templates.Copy) error {
	return s.mutate("fill copy", func(scene *domain.Scene) (bool, error) {
		return changedBy(scene, func() { templates.Fill(scene, c) })
	})
}

// AddProductImage は商品画像をロックされた背景要素のすぐ前面に追加し、pos に揃えます。
// scale は画像の長辺とキャンバス短辺の比率で、0 以下なら DefaultImageScale です。
func (s *Session) AddProductImage(source string, pixelW, pixelH int, pos layout.Position, scale float64) (string, error) {
	if pixelW <= 0 || pixelH <= 0 {
		return "", fmt.Errorf("画像サイズが不正です: %dx%d", pixelW, pixelH)
	}
	if scale <= 0 {
		scale = DefaultImageScale
	}
	var id string
	err := s.mutate("add image", func(scene *domain.Scene) (bool, error) {
		img := domain.NewImage(source, pixelW, pixelH, 0, 0)
		k := min(scene.Width, scene.Height) * scale / float64(max(pixelW, pixelH))
		img.ScaleX, img.ScaleY = k, k

		at := 0
		for at < len(scene.Elements) && scene.Elements[at].Locked {
			at++
		}
		scene.Elements = append(scene.Elements[:at], append([]domain.Element{img}, scene.Elements[at:]...)...)
		id = img.ID

		if err := s.layout.Align(scene, id, pos); err != nil {
			return false, err
		}
		if pos == layout.Center || pos == layout.Left || pos == layout.Right {
			return true, s.layout.Align(scene, id, layout.Middle)
		}
		return true, s.layout.Align(scene, id, layout.Center)
	})
	return id, err
}
