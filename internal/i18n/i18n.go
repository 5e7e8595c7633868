// internal/i18n/i18n.go
package i18n

import (
	"embed"
	"encoding/json"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"
	"sync"
)

//go:embed locales/*.json
var locales embed.FS

// Bundle holds one flat key→message table per language.
type Bundle struct {
	mu       sync.RWMutex
	messages map[string]map[string]string
	fallback string
}

var (
	instance *Bundle
	once     sync.Once
)

// Initialize loads the embedded locales once.
func Initialize() error {
	var err error
	once.Do(func() {
		instance, err = load(locales)
	})
	return err
}

func load(fsys fs.FS) (*Bundle, error) {
	files, err := fs.Glob(fsys, "locales/*.json")
	if err != nil {
		return nil, fmt.Errorf("failed to list locales: %w", err)
	}

	b := &Bundle{messages: make(map[string]map[string]string, len(files)), fallback: "en"}
	for _, file := range files {
		data, err := fs.ReadFile(fsys, file)
		if err != nil {
			return nil, fmt.Errorf("failed to read locale %s: %w", file, err)
		}
		var table map[string]string
		if err := json.Unmarshal(data, &table); err != nil {
			return nil, fmt.Errorf("failed to parse locale %s: %w", file, err)
		}
		b.messages[strings.TrimSuffix(path.Base(file), ".json")] = table
	}
	return b, nil
}

func (b *Bundle) SetDefault(lang string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if _, ok := b.messages[lang]; ok {
		b.fallback = lang
	}
}

// T formats key in lang, then in the fallback language, then returns the
// key itself.
func (b *Bundle) T(lang, key string, args ...interface{}) string {
	b.mu.RLock()
	defer b.mu.RUnlock()

	for _, l := range []string{lang, b.fallback} {
		if text, ok := b.messages[l][key]; ok {
			if len(args) == 0 {
				return text
			}
			return fmt.Sprintf(text, args...)
		}
	}
	return key
}

func (b *Bundle) Supports(lang string) bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	_, ok := b.messages[lang]
	return ok
}

func (b *Bundle) Languages() []string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	langs := make([]string, 0, len(b.messages))
	for lang := range b.messages {
		langs = append(langs, lang)
	}
	sort.Strings(langs)
	return langs
}

func T(lang, key string, args ...interface{}) string {
	if instance == nil {
		return key
	}
	return instance.T(lang, key, args...)
}

// SetDefault changes the fallback language when it has a locale file.
func SetDefault(lang string) {
	if instance != nil {
		instance.SetDefault(lang)
	}
}

// Supports reports whether lang has a locale. Before Initialize only "en"
// is supported.
func Supports(lang string) bool {
	if instance == nil {
		return lang == "en"
	}
	return instance.Supports(lang)
}

func GetSupportedLanguages() []string {
	if instance == nil {
		return []string{"en"}
	}
	return instance.Languages()
}
