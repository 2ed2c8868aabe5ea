package notify

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	i18n "github.com/goliatone/go-i18n"
)

// DefaultLocale is used when no locale is configured and as the last
// fallback during lookup.
const DefaultLocale = "en"

// CatalogConfig configures a message catalog.
type CatalogConfig struct {
	Locale   string
	Fallback string
	// Messages maps locale -> key -> template. Templates reference
	// parameters as {name}.
	Messages map[string]map[string]string
	// SkipDefaults leaves out the built in English messages.
	SkipDefaults bool
}

// Catalog resolves message keys into text through a go-i18n translator.
// It implements types.Translator.
type Catalog struct {
	locale string
	shared *catalogBundle
}

// catalogBundle is shared by catalogs derived through WithLocale so that
// Register is visible to all of them. StaticStore is immutable, so the store
// and translator are rebuilt on every Register.
type catalogBundle struct {
	mu         sync.RWMutex
	fallback   string
	templates  map[string]map[string]string
	resolver   *i18n.StaticFallbackResolver
	store      *i18n.StaticStore
	translator *i18n.SimpleTranslator
}

// NewCatalog builds a catalog seeded with the default English messages.
func NewCatalog(cfg CatalogConfig) *Catalog {
	if cfg.Locale == "" {
		cfg.Locale = DefaultLocale
	}
	if cfg.Fallback == "" {
		cfg.Fallback = DefaultLocale
	}

	shared := &catalogBundle{
		fallback:  cfg.Fallback,
		templates: make(map[string]map[string]string),
		resolver:  i18n.NewStaticFallbackResolver(),
	}
	c := &Catalog{locale: cfg.Locale, shared: shared}
	shared.follow(cfg.Locale)

	if !cfg.SkipDefaults {
		shared.merge(DefaultLocale, DefaultMessages())
	}
	for locale, messages := range cfg.Messages {
		shared.merge(locale, messages)
	}
	shared.rebuild()
	return c
}

// Register adds or overrides templates for locale.
func (c *Catalog) Register(locale string, messages map[string]string) {
	c.shared.merge(locale, messages)
	c.shared.rebuild()
}

// WithLocale returns a catalog sharing the same templates that resolves
// against locale first.
func (c *Catalog) WithLocale(locale string) *Catalog {
	c.shared.follow(locale)
	return &Catalog{locale: locale, shared: c.shared}
}

// Locale returns the primary lookup locale.
func (c *Catalog) Locale() string { return c.locale }

// Locales lists the locales with registered templates.
func (c *Catalog) Locales() []string {
	c.shared.mu.RLock()
	defer c.shared.mu.RUnlock()
	return c.shared.store.Locales()
}

// Translate resolves key with params. Unknown keys are returned unchanged so
// missing translations stay visible.
func (c *Catalog) Translate(key string, params map[string]any) string {
	c.shared.mu.RLock()
	translator := c.shared.translator
	c.shared.mu.RUnlock()

	args := make([]any, 0, 2)
	if count, ok := params["count"]; ok {
		args = append(args, i18n.WithCount(count))
	}
	if len(params) > 0 {
		args = append(args, params)
	}

	text, err := translator.Translate(c.locale, key, args...)
	if err != nil {
		return key
	}
	return text
}

// Has reports whether key resolves in the primary or fallback locale.
func (c *Catalog) Has(key string) bool {
	c.shared.mu.RLock()
	translator := c.shared.translator
	c.shared.mu.RUnlock()
	_, err := translator.Translate(c.locale, key)
	return err == nil
}

// follow registers the catalog wide fallback for locale. Parent locales
// (es-MX -> es) and DefaultLocale are resolved by the translator itself.
func (b *catalogBundle) follow(locale string) {
	if b.resolver.Has(locale) {
		return
	}
	b.resolver.Set(locale, b.fallback)
}

func (b *catalogBundle) merge(locale string, messages map[string]string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	bucket := b.templates[locale]
	if bucket == nil {
		bucket = make(map[string]string, len(messages))
		b.templates[locale] = bucket
	}
	for key, tmpl := range messages {
		bucket[key] = tmpl
	}
}

func (b *catalogBundle) rebuild() {
	b.mu.Lock()
	defer b.mu.Unlock()

	translations := make(i18n.Translations, len(b.templates))
	for locale, bucket := range b.templates {
		catalog := &i18n.TranslationCatalog{
			Locale:   i18n.Locale{Code: locale},
			Messages: make(map[string]i18n.Message, len(bucket)),
		}
		for key, tmpl := range bucket {
			message := i18n.Message{
				MessageMetadata: i18n.MessageMetadata{ID: key, Locale: locale},
			}
			message.SetContent(tmpl)
			catalog.Messages[key] = message
		}
		translations[locale] = catalog
	}

	b.store = i18n.NewStaticStore(translations)
	// NewSimpleTranslator never fails for a non nil store.
	b.translator, _ = i18n.NewSimpleTranslator(b.store,
		i18n.WithTranslatorDefaultLocale(DefaultLocale),
		i18n.WithTranslatorFallbackResolver(b.resolver),
		i18n.WithTranslatorFormatter(i18n.FormatterFunc(formatNamed)),
	)
}

// formatNamed fills {name} placeholders from the params map passed as the
// single format argument.
func formatNamed(template string, args ...any) (string, error) {
	if len(args) == 0 || !strings.Contains(template, "{") {
		return template, nil
	}
	params, ok := args[0].(map[string]any)
	if !ok || len(params) == 0 {
		return template, nil
	}
	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	pairs := make([]string, 0, len(keys)*2)
	for _, k := range keys {
		pairs = append(pairs, "{"+k+"}", fmt.Sprint(params[k]))
	}
	return strings.NewReplacer(pairs...).Replace(template), nil
}
