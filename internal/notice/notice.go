// Package notice renders the short flash-style messages shown to chat users.
package notice

import (
	"embed"
	"encoding/json"
	"errors"
	"fmt"

	"campusbingo/internal/common"
	"campusbingo/internal/config"

	"github.com/nicksnyder/go-i18n/v2/i18n"
	"golang.org/x/text/language"
)

//go:embed locales/*.json
var locales embed.FS

var (
	msgChatStarted = &i18n.Message{ID: "ChatStarted", Other: "Chat started with {{.Name}}!"}
	msgSelfChat    = &i18n.Message{ID: "SelfChat", Other: "You cannot message yourself on your own listing."}
	msgEmpty       = &i18n.Message{ID: "EmptyMessage", Other: "Cannot send an empty message."}
	msgTooLong     = &i18n.Message{ID: "MessageTooLong", Other: "Message is too long (max {{.Max}} characters)."}
)

type Translator struct {
	bundle      *i18n.Bundle
	defaultLang string
	maxLength   int
}

func NewTranslator(cfg *config.Config) (*Translator, error) {
	def := language.Make(cfg.Chat.DefaultLocale)
	if def == language.Und {
		def = language.English
	}

	bundle := i18n.NewBundle(def)
	bundle.RegisterUnmarshalFunc("json", json.Unmarshal)

	files, err := locales.ReadDir("locales")
	if err != nil {
		return nil, fmt.Errorf("failed to read locales: %w", err)
	}
	for _, f := range files {
		path := "locales/" + f.Name()
		data, err := locales.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", path, err)
		}
		if _, err := bundle.ParseMessageFileBytes(data, path); err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", path, err)
		}
	}

	return &Translator{
		bundle:      bundle,
		defaultLang: def.String(),
		maxLength:   cfg.Chat.MaxMessageLength,
	}, nil
}

// Localizer accepts a raw Accept-Language header value.
func (t *Translator) Localizer(acceptLanguage string) *i18n.Localizer {
	if acceptLanguage == "" {
		return i18n.NewLocalizer(t.bundle, t.defaultLang)
	}
	return i18n.NewLocalizer(t.bundle, acceptLanguage, t.defaultLang)
}

func (t *Translator) ChatStarted(acceptLanguage, name string) string {
	return t.localize(acceptLanguage, msgChatStarted, map[string]string{"Name": name})
}

func (t *Translator) MessageTooLong(acceptLanguage string, limit int) string {
	return t.localize(acceptLanguage, msgTooLong, map[string]int{"Max": limit})
}

// ForError returns the user-facing warning for err, or "" when err carries none.
func (t *Translator) ForError(acceptLanguage string, err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, common.ErrSelfChat):
		return t.localize(acceptLanguage, msgSelfChat, nil)
	case errors.Is(err, common.ErrEmptyMessage):
		return t.localize(acceptLanguage, msgEmpty, nil)
	case errors.Is(err, common.ErrMessageTooLong):
		return t.MessageTooLong(acceptLanguage, t.maxLength)
	default:
		return ""
	}
}

func (t *Translator) localize(acceptLanguage string, msg *i18n.Message, data interface{}) string {
	out, err := t.Localizer(acceptLanguage).Localize(&i18n.LocalizeConfig{
		DefaultMessage: msg,
		TemplateData:   data,
	})
	if err != nil {
		return msg.Other
	}
	return out
}
