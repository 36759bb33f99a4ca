package i18n

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"golang.org/x/text/language"
)

// SupportedLanguages in priority order; the first entry is the fallback.
var SupportedLanguages = []language.Tag{
	language.English,
	language.Spanish,
}

var matcher = language.NewMatcher(SupportedLanguages)

const fallbackLang = "en"

type contextKey string

const langContextKey contextKey = "i18n_lang"

// Bundle holds the loaded message catalogs, one per language.
type Bundle struct {
	mu       sync.RWMutex
	catalogs map[string]map[string]string
}

func NewBundle() *Bundle {
	return &Bundle{catalogs: make(map[string]map[string]string)}
}

// LoadMessages parses a flat key -> message JSON catalog for one language.
func (b *Bundle) LoadMessages(lang string, data []byte) error {
	var messages map[string]string
	if err := json.Unmarshal(data, &messages); err != nil {
		return fmt.Errorf("i18n: failed to parse %s catalog: %w", lang, err)
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	b.catalogs[lang] = messages
	return nil
}

// Translate looks up a key in the requested language, falling back to English
// and finally to the key itself.
func (b *Bundle) Translate(lang, key string) string {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if catalog, ok := b.catalogs[lang]; ok {
		if msg, ok := catalog[key]; ok {
			return msg
		}
	}
	if lang != fallbackLang {
		if catalog, ok := b.catalogs[fallbackLang]; ok {
			if msg, ok := catalog[key]; ok {
				return msg
			}
		}
	}
	return key
}

// Translatef is Translate with fmt.Sprintf arguments.
func (b *Bundle) Translatef(lang, key string, args ...any) string {
	template := b.Translate(lang, key)
	if len(args) == 0 {
		return template
	}
	return fmt.Sprintf(template, args...)
}

// MatchLanguage resolves an Accept-Language header (or ?lang value) to a
// supported language code.
func MatchLanguage(acceptLanguage string) string {
	if acceptLanguage == "" {
		return fallbackLang
	}
	tag, _ := language.MatchStrings(matcher, acceptLanguage)
	base, _ := tag.Base()
	return base.String()
}

// WithLang stores the request language in the context.
func WithLang(ctx context.Context, lang string) context.Context {
	return context.WithValue(ctx, langContextKey, lang)
}

// LangFromContext returns the request language, defaulting to English.
func LangFromContext(ctx context.Context) string {
	if lang, ok := ctx.Value(langContextKey).(string); ok && lang != "" {
		return lang
	}
	return fallbackLang
}

var (
	globalBundle *Bundle
	globalOnce   sync.Once
)

// Init creates (once) and returns the process-wide bundle.
func Init() *Bundle {
	globalOnce.Do(func() {
		globalBundle = NewBundle()
	})
	return globalBundle
}

// T translates a key using the context language and the global bundle.
func T(ctx context.Context, key string) string {
	if globalBundle == nil {
		return key
	}
	return globalBundle.Translate(LangFromContext(ctx), key)
}

// Tf is T with format arguments.
func Tf(ctx context.Context, key string, args ...any) string {
	if globalBundle == nil {
		if len(args) == 0 {
			return key
		}
		return fmt.Sprintf(key, args...)
	}
	return globalBundle.Translatef(LangFromContext(ctx), key, args...)
}
