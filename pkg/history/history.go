package history

import (
	"slices"
	"sync"

	"github.com/shouni/go-creative-kit/pkg/domain"
)

// DefaultCapacity は保持するスナップショット数の既定上限です。
const DefaultCapacity = 50

// Entry は履歴の1件です。Seq は記録順に単調増加し、削除されても再利用されません。
type Entry struct {
	Seq      uint64          `json:"seq"`
	Action   string          `json:"action,omitempty"`
	Snapshot domain.Snapshot `json:"snapshot"`
}

// Manager は単一ブランチの undo/redo 履歴です。
// Undo の後に新しく記録すると、やり直し可能だった未来の履歴は破棄されます。
type Manager struct {
	mu       sync.Mutex
	entries  []Entry
	cursor   int
	capacity int
	nextSeq  uint64
}

// New は指定容量の Manager を生成します。容量が1未満なら DefaultCapacity を使います。
func New(capacity int) *Manager {
	if capacity < 1 {
		capacity = DefaultCapacity
	}
	return &Manager{cursor: -1, capacity: capacity}
}

// Record はスナップショットを記録します。
func (m *Manager) Record(snap domain.Snapshot) Entry {
	return m.RecordAction("", snap)
}

// RecordAction は操作名付きでスナップショットを記録します。
// 容量を超えた場合は最も古い記録を捨て、カーソルは追加した記録を指したままになるのだ。
func (m *Manager) RecordAction(action string, snap domain.Snapshot) Entry {
	m.mu.Lock()
	defer m.mu.Unlock()

	// entries は [old..., cursor] となる
	if m.cursor < len(m.entries)-1 {
		clear(m.entries[m.cursor+1:])
		m.entries = m.entries[:m.cursor+1]
	}

	m.nextSeq++
	e := Entry{Seq: m.nextSeq, Action: action, Snapshot: slices.Clone(snap)}
	m.entries = append(m.entries, e)
	m.cursor = len(m.entries) - 1

	if len(m.entries) > m.capacity {
		m.entries[0] = Entry{}
		m.entries = m.entries[1:]
		m.cursor--
	}
	return m.entryAt(m.cursor)
}

// Undo はカーソルを1つ戻し、その位置の記録を返します。最古の位置では何もせず false を返します。
func (m *Manager) Undo() (Entry, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.cursor <= 0 {
		return Entry{}, false
	}
	m.cursor--
	return m.entryAt(m.cursor), true
}

// Redo はカーソルを1つ進め、その位置の記録を返します。最新の位置では何もせず false を返します。
func (m *Manager) Redo() (Entry, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.cursor >= len(m.entries)-1 {
		return Entry{}, false
	}
	m.cursor++
	return m.entryAt(m.cursor), true
}

// Current はカーソル位置の記録を返します。履歴が空なら false です。
func (m *Manager) Current() (Entry, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.cursor < 0 {
		return Entry{}, false
	}
	return m.entryAt(m.cursor), true
}

// CanUndo は Undo できる記録があるかを返します。
func (m *Manager) CanUndo() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.cursor > 0
}

// CanRedo は Redo できる記録があるかを返します。
func (m *Manager) CanRedo() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.cursor < len(m.entries)-1
}

// Len は保持している記録数です。
func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.entries)
}

// Cursor は現在位置のインデックスです。空の場合は -1 です。
func (m *Manager) Cursor() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.cursor
}

// Capacity は保持できる記録数の上限です。
func (m *Manager) Capacity() int {
	return m.capacity
}

// Actions は保持している記録の操作名を古い順に返します。
func (m *Manager) Actions() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, len(m.entries))
	for i, e := range m.entries {
		out[i] = e.Action
	}
	return out
}

// Reset は履歴を空にします。Seq の採番は継続します。
func (m *Manager) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = nil
	m.cursor = -1
}

// entryAt は呼び出し側がロックを保持している前提でコピーを返します。
func (m *Manager) entryAt(i int) Entry {
	e := m.entries[i]
	e.Snapshot = slices.Clone(e.Snapshot)
	return e
}
