package rules

import (
	"fmt"
	"os"
	"sort"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

// Registry は名前でルールプロファイルを引くためのレジストリです。
type Registry struct {
	mu       sync.RWMutex
	profiles map[string]Profile
}

// NewRegistry は組み込みプロファイルを登録済みのレジストリを返します。
func NewRegistry() *Registry {
	r := &Registry{profiles: make(map[string]Profile, len(builtinProfiles))}
	for _, p := range builtinProfiles {
		r.profiles[p.Name] = p.withDefaults()
	}
	return r
}

var (
	defaultRegistry     *Registry
	defaultRegistryOnce sync.Once
)

// Default はプロセス共通の組み込みレジストリを返します。
func Default() *Registry {
	defaultRegistryOnce.Do(func() {
		defaultRegistry = NewRegistry()
	})
	return defaultRegistry
}

// Lookup はプロファイル名（大文字小文字は区別しない）で検索します。
// 見つからない場合は ErrInvalidProfile を返すのだ。
func (r *Registry) Lookup(name string) (Profile, error) {
	key := strings.ToLower(strings.TrimSpace(name))
	r.mu.RLock()
	p, ok := r.profiles[key]
	r.mu.RUnlock()
	if !ok {
		return Profile{}, fmt.Errorf("%w: %q", ErrInvalidProfile, name)
	}
	return p.clone(), nil
}

// Names は登録済みプロファイル名を昇順で返します。
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.profiles))
	for k := range r.profiles {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

// Register はプロファイルを追加します。同名のプロファイルは置き換えられます。
func (r *Registry) Register(p Profile) error {
	p.Name = strings.ToLower(strings.TrimSpace(p.Name))
	if p.Name == "" {
		return fmt.Errorf("プロファイル名が空です")
	}
	if p.MaxTextPercentage < 0 || p.MaxTextPercentage > 100 {
		return fmt.Errorf("プロファイル %s: max_text_percentage は 0〜100 で指定してください: %v", p.Name, p.MaxTextPercentage)
	}
	r.mu.Lock()
	r.profiles[p.Name] = p.clone().withDefaults()
	r.mu.Unlock()
	return nil
}

// profileFile は YAML プロファイル定義ファイルの構造です。
type profileFile struct {
	Profiles []Profile `yaml:"profiles"`
}

// LoadYAML は YAML で記述されたプロファイル群を登録します。
func (r *Registry) LoadYAML(data []byte) error {
	var f profileFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return fmt.Errorf("プロファイル定義のパースに失敗しました: %w", err)
	}
	for _, p := range f.Profiles {
		if err := r.Register(p); err != nil {
			return err
		}
	}
	return nil
}

// LoadFile はファイルから YAML プロファイル定義を読み込みます。
func (r *Registry) LoadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("プロファイル定義ファイルの読み込みに失敗しました: %w", err)
	}
	return r.LoadYAML(data)
}
