package domain

import "fmt"

// Add は要素を最前面に追加します。ID が空なら採番します。
func (s *Scene) Add(e Element) string {
	if e.ID == "" {
		e.ID = NewID()
	}
	s.Elements = append(s.Elements, e)
	return e.ID
}

// Remove は要素を取り除きます。
func (s *Scene) Remove(id string) error {
	idx := s.IndexOf(id)
	if idx < 0 {
		return fmt.Errorf("%w: %s", ErrElementNotFound, id)
	}
	s.Elements = append(s.Elements[:idx], s.Elements[idx+1:]...)
	return nil
}

// Replace は同じIDの要素を置き換えます。重なり順は維持されます。
func (s *Scene) Replace(e Element) error {
	idx := s.IndexOf(e.ID)
	if idx < 0 {
		return fmt.Errorf("%w: %s", ErrElementNotFound, e.ID)
	}
	s.Elements[idx] = e
	return nil
}

// Shift は要素を重なり順で delta だけ移動します。端を越える移動は端で止まります。
// 移動が発生したかどうかを返すのだ。
func (s *Scene) Shift(id string, delta int) (bool, error) {
	idx := s.IndexOf(id)
	if idx < 0 {
		return false, fmt.Errorf("%w: %s", ErrElementNotFound, id)
	}
	to := min(max(idx+delta, 0), len(s.Elements)-1)
	if to == idx {
		return false, nil
	}
	e := s.Elements[idx]
	s.Elements = append(s.Elements[:idx], s.Elements[idx+1:]...)
	s.Elements = append(s.Elements[:to], append([]Element{e}, s.Elements[to:]...)...)
	return true, nil
}

// ToBack は要素を最背面へ移動します。
func (s *Scene) ToBack(id string) error {
	_, err := s.Shift(id, -len(s.Elements))
	return err
}

// ToFront は要素を最前面へ移動します。
func (s *Scene) ToFront(id string) error {
	_, err := s.Shift(id, len(s.Elements))
	return err
}

// TextContents は全テキスト要素の内容を重なり順で返します。
func (s Scene) TextContents() []string {
	var out []string
	for _, e := range s.Elements {
		if e.Kind == KindText {
			out = append(out, e.TextContent())
		}
	}
	return out
}

// LayerNames はレイヤーパネル用に前面から順に名前を返します。
func (s Scene) LayerNames() []string {
	names := make([]string, 0, len(s.Elements))
	for i := len(s.Elements) - 1; i >= 0; i-- {
		names = append(names, s.Elements[i].LayerName())
	}
	return names
}
