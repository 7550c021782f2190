package translator

import (
	"embed"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/nicksnyder/go-i18n/v2/i18n"
	"github.com/pelletier/go-toml/v2"
	"go.uber.org/zap"
	"golang.org/x/text/language"
)

//go:embed lang/*.toml
var embedded embed.FS

const (
	LanguageEn = "en"
	LanguageFr = "fr"
)

type Config struct {
	// TranslationFolder optionally holds *.toml files that override or extend
	// the embedded catalogs.
	TranslationFolder  string
	SupportedLanguages []string
}

var (
	mu         sync.RWMutex
	bundle     *i18n.Bundle
	matcher    language.Matcher
	supported  []language.Tag
	initOnce   sync.Once
	defaultCfg = Config{SupportedLanguages: []string{LanguageEn, LanguageFr}}
)

func InitTranslator(cfg Config) {
	if len(cfg.SupportedLanguages) == 0 {
		cfg.SupportedLanguages = defaultCfg.SupportedLanguages
	}

	b := i18n.NewBundle(language.English)
	b.RegisterUnmarshalFunc("toml", toml.Unmarshal)

	files, err := fs.Glob(embedded, "lang/*.toml")
	if err != nil {
		zap.L().Error("failed to list embedded translations", zap.Error(err))
	}
	for _, f := range files {
		if _, err := b.LoadMessageFileFS(embedded, f); err != nil {
			zap.L().Warn("failed to load embedded translation", zap.String("file", f), zap.Error(err))
		}
	}

	if cfg.TranslationFolder != "" {
		loadFolder(b, cfg.TranslationFolder)
	}

	tags := make([]language.Tag, 0, len(cfg.SupportedLanguages))
	for _, lang := range cfg.SupportedLanguages {
		tag, err := language.Parse(lang)
		if err != nil {
			zap.L().Warn("ignoring unsupported language", zap.String("lang", lang), zap.Error(err))
			continue
		}
		tags = append(tags, tag)
	}
	if len(tags) == 0 || tags[0] != language.English {
		tags = append([]language.Tag{language.English}, tags...)
	}

	mu.Lock()
	bundle = b
	supported = tags
	matcher = language.NewMatcher(tags)
	mu.Unlock()
}

func loadFolder(b *i18n.Bundle, folder string) {
	entries, err := os.ReadDir(folder)
	if err != nil {
		zap.L().Error("failed to list translation folder", zap.String("folder", folder), zap.Error(err))
		return
	}

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		path := filepath.Join(folder, entry.Name())
		if _, err := b.LoadMessageFile(path); err != nil {
			zap.L().Warn("failed to load translation file", zap.String("file", entry.Name()), zap.Error(err))
		}
	}
}

func ensure() {
	initOnce.Do(func() {
		mu.RLock()
		ready := bundle != nil
		mu.RUnlock()
		if !ready {
			InitTranslator(defaultCfg)
		}
	})
}

// Match resolves an Accept-Language header to the closest supported language.
func Match(acceptLanguage string) string {
	ensure()

	if acceptLanguage == "" {
		return LanguageEn
	}
	tags, _, err := language.ParseAcceptLanguage(acceptLanguage)
	if err != nil || len(tags) == 0 {
		return LanguageEn
	}

	mu.RLock()
	m, langs := matcher, supported
	mu.RUnlock()

	_, index, confidence := m.Match(tags...)
	if confidence == language.No {
		return LanguageEn
	}
	base, _ := langs[index].Base()
	return base.String()
}

// Localize renders messageID in lang, falling back to English and then to
// the message ID itself.
func Localize(lang, messageID string, data map[string]interface{}) string {
	ensure()

	mu.RLock()
	b := bundle
	mu.RUnlock()

	localizer := i18n.NewLocalizer(b, lang, LanguageEn)
	msg, err := localizer.Localize(&i18n.LocalizeConfig{
		MessageID:    messageID,
		TemplateData: data,
	})
	if err != nil {
		zap.L().Warn("translation not found", zap.String("lang", lang), zap.String("message_id", messageID), zap.Error(err))
		return messageID
	}
	return msg
}

func T(lang, messageID string) string {
	return Localize(lang, messageID, nil)
}
