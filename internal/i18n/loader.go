package i18n

import (
	"fmt"

	"github.com/racedaylabs/platform-service/internal/utils"
)

// LoadFromEmbedFS loads every shipped catalog (locales/en.json, locales/es.json)
// into the bundle. Called once at startup; a missing catalog fails startup.
func LoadFromEmbedFS(bundle *Bundle, logger utils.Logger) error {
	langs := []string{"en", "es"}

	for _, lang := range langs {
		path := fmt.Sprintf("locales/%s.json", lang)
		data, err := LocaleFS.ReadFile(path)
		if err != nil {
			return fmt.Errorf("i18n: failed to read %s: %w", path, err)
		}
		if err := bundle.LoadMessages(lang, data); err != nil {
			return err
		}
	}

	logger.Info("i18n catalogs loaded", "languages", len(langs))
	return nil
}
