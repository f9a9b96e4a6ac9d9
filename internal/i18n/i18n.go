package i18n

import (
	"embed"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/message/catalog"
)

// BaseLanguage is used when a key or language is missing
const BaseLanguage = "en"

//go:embed locales/*.toml
var embeddedLocales embed.FS

// Bundle holds the flattened message tables of every supported language
type Bundle struct {
	tags     []language.Tag
	messages map[language.Tag]map[string]string
	matcher  language.Matcher
	catalog  *catalog.Builder
}

// Load loads the embedded locale tables
func Load() (*Bundle, error) {
	return LoadFromFS(embeddedLocales)
}

// LoadFromFS loads locales/<lang>.toml files from fsys
func LoadFromFS(fsys fs.FS) (*Bundle, error) {
	paths, err := fs.Glob(fsys, "locales/*.toml")
	if err != nil {
		return nil, fmt.Errorf("glob locales: %w", err)
	}
	sort.Strings(paths)

	base := language.Make(BaseLanguage)
	b := &Bundle{
		messages: make(map[language.Tag]map[string]string),
		catalog:  catalog.NewBuilder(catalog.Fallback(base)),
	}

	for _, p := range paths {
		name := strings.TrimSuffix(path.Base(p), path.Ext(p))
		tag, err := language.Parse(name)
		if err != nil {
			return nil, fmt.Errorf("locale %s: %w", p, err)
		}

		data, err := fs.ReadFile(fsys, p)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", p, err)
		}

		var tree map[string]interface{}
		if _, err := toml.Decode(string(data), &tree); err != nil {
			return nil, fmt.Errorf("parse %s: %w", p, err)
		}

		flat := make(map[string]string)
		if err := flatten("", tree, flat); err != nil {
			return nil, fmt.Errorf("%s: %w", p, err)
		}

		for key, value := range flat {
			if err := b.catalog.SetString(tag, key, value); err != nil {
				return nil, fmt.Errorf("register %s %s: %w", tag, key, err)
			}
		}

		b.messages[tag] = flat
		b.tags = append(b.tags, tag)
	}

	if _, ok := b.messages[base]; !ok {
		return nil, fmt.Errorf("base language %s is not defined", BaseLanguage)
	}

	// the matcher prefers its first tag on a miss
	ordered := []language.Tag{base}
	for _, tag := range b.tags {
		if tag != base {
			ordered = append(ordered, tag)
		}
	}
	b.tags = ordered
	b.matcher = language.NewMatcher(ordered)

	return b, nil
}

func flatten(prefix string, tree map[string]interface{}, out map[string]string) error {
	for k, v := range tree {
		key := k
		if prefix != "" {
			key = prefix + "." + k
		}
		switch val := v.(type) {
		case string:
			out[key] = val
		case map[string]interface{}:
			if err := flatten(key, val, out); err != nil {
				return err
			}
		default:
			return fmt.Errorf("key %s: unsupported value type %T", key, v)
		}
	}
	return nil
}

// Languages returns the supported languages, base language first
func (b *Bundle) Languages() []language.Tag {
	out := make([]language.Tag, len(b.tags))
	copy(out, b.tags)
	return out
}

// Match picks the supported language closest to lang, which may be a tag
// like "es-MX" or an Accept-Language style list
func (b *Bundle) Match(lang string) language.Tag {
	tags, _, err := language.ParseAcceptLanguage(lang)
	if err != nil || len(tags) == 0 {
		return b.tags[0]
	}
	_, index, confidence := b.matcher.Match(tags...)
	if confidence == language.No {
		return b.tags[0]
	}
	return b.tags[index]
}

// Supported reports whether lang matches a supported language with at
// least high confidence
func (b *Bundle) Supported(lang string) bool {
	tag, err := language.Parse(lang)
	if err != nil {
		return false
	}
	_, _, confidence := b.matcher.Match(tag)
	return confidence >= language.High
}

// T returns the message for key, falling back to the base language and
// then to the key itself
func (b *Bundle) T(tag language.Tag, key string) string {
	if msgs, ok := b.messages[tag]; ok {
		if v, ok := msgs[key]; ok {
			return v
		}
	}
	if v, ok := b.messages[language.Make(BaseLanguage)][key]; ok {
		return v
	}
	return key
}

// Printer returns a printer bound to this bundle's catalog
func (b *Bundle) Printer(tag language.Tag) *message.Printer {
	return message.NewPrinter(tag, message.Catalog(b.catalog))
}
