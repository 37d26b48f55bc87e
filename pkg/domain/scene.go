package domain

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
)

// DefaultBackground はシーンの既定の背景色です。
const DefaultBackground = "#ffffff"

// ErrElementNotFound は指定IDの要素がシーンに存在しない場合のエラーです。
var ErrElementNotFound = errors.New("element not found")

// Scene はキャンバスの寸法・背景色と、重なり順に並んだ要素列です。
// 末尾の要素ほど前面に描画されます。
type Scene struct {
	Width      float64   `json:"width"`
	Height     float64   `json:"height"`
	Background string    `json:"background,omitempty"`
	Elements   []Element `json:"elements"`
}

// NewScene は空のシーンを生成します。
func NewScene(width, height float64) Scene {
	return Scene{Width: width, Height: height, Background: DefaultBackground}
}

// Snapshot はシリアライズ済みのシーンです。履歴に積まれる単位なのだ。
type Snapshot []byte

// Area はキャンバス面積を返します。
func (s Scene) Area() float64 {
	return s.Width * s.Height
}

// IsEmpty は要素が1つもないかを判定します。
func (s Scene) IsEmpty() bool {
	return len(s.Elements) == 0
}

// Clone は要素を含むディープコピーを返します。
func (s Scene) Clone() Scene {
	c := s
	if s.Elements != nil {
		c.Elements = make([]Element, len(s.Elements))
		for i, e := range s.Elements {
			c.Elements[i] = e.Clone()
		}
	}
	return c
}

// OfKind は指定種別の要素を重なり順のまま返します。
func (s Scene) OfKind(kinds ...ElementKind) []Element {
	var out []Element
	for _, e := range s.Elements {
		for _, k := range kinds {
			if e.Kind == k {
				out = append(out, e)
				break
			}
		}
	}
	return out
}

// Images は画像要素の一覧です。
func (s Scene) Images() []Element { return s.OfKind(KindImage) }

// Texts はテキスト要素の一覧です。
func (s Scene) Texts() []Element { return s.OfKind(KindText) }

// Shapes は矩形・円要素の一覧です。
func (s Scene) Shapes() []Element { return s.OfKind(KindRect, KindCircle) }

// Badges はバッジとしてタグ付けされたグループの一覧です。
func (s Scene) Badges() []Element {
	var out []Element
	for _, e := range s.Elements {
		if e.IsBadge() {
			out = append(out, e)
		}
	}
	return out
}

// IndexOf は要素IDの重なり順インデックスを返します。見つからない場合は -1 です。
func (s Scene) IndexOf(id string) int {
	for i, e := range s.Elements {
		if e.ID == id {
			return i
		}
	}
	return -1
}

// Find は要素IDに一致する要素のポインタを返します。
func (s *Scene) Find(id string) (*Element, error) {
	idx := s.IndexOf(id)
	if idx < 0 {
		return nil, fmt.Errorf("%w: %s", ErrElementNotFound, id)
	}
	return &s.Elements[idx], nil
}

// Validate はシーンとして最低限の整合性を確認します。
func (s Scene) Validate() error {
	if s.Width <= 0 || s.Height <= 0 {
		return fmt.Errorf("キャンバスサイズが不正です: %vx%v", s.Width, s.Height)
	}
	seen := make(map[string]struct{}, len(s.Elements))
	for _, e := range s.Elements {
		if e.ID == "" {
			continue
		}
		if _, dup := seen[e.ID]; dup {
			return fmt.Errorf("要素IDが重複しています: %s", e.ID)
		}
		seen[e.ID] = struct{}{}
	}
	return nil
}

// Encode はシーンをスナップショットにシリアライズします。
func (s Scene) Encode() (Snapshot, error) {
	data, err := json.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("シーンのシリアライズに失敗しました: %w", err)
	}
	return data, nil
}

// Digest はシーン内容の SHA-256 ダイジェストです。キャッシュキーとして使います。
func (s Scene) Digest() (string, error) {
	data, err := s.Encode()
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:]), nil
}

// DecodeScene はスナップショットからシーンを復元します。
func DecodeScene(snap Snapshot) (Scene, error) {
	var s Scene
	if err := json.Unmarshal(snap, &s); err != nil {
		return Scene{}, fmt.Errorf("シーンのデコードに失敗しました: %w", err)
	}
	if s.Background == "" {
		s.Background = DefaultBackground
	}
	return s, nil
}
