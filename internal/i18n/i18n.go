// Package i18n picks the response language from Accept-Language and
// translates user-facing API messages.
package i18n

import (
	"github.com/labstack/echo/v4"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/message/catalog"

	"github.com/anonto42/microblog/pkg/config"
)

// ContextLangKey is the echo context key holding the negotiated language.Tag.
const ContextLangKey = "lang"

var (
	matcher  = language.NewMatcher(supportedTags())
	messages = newCatalog()
)

func supportedTags() []language.Tag {
	tags := make([]language.Tag, 0, len(config.Languages))
	for _, l := range config.Languages {
		tags = append(tags, language.Make(l))
	}
	return tags
}

// Negotiate returns the best supported language for an Accept-Language header,
// English when nothing matches.
func Negotiate(acceptLanguage string) language.Tag {
	tags, _, _ := language.ParseAcceptLanguage(acceptLanguage)
	tag, _, _ := matcher.Match(tags...)
	base, _ := tag.Base()
	return language.Make(base.String())
}

// Middleware stores the negotiated language on the context.
func Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			tag := Negotiate(c.Request().Header.Get("Accept-Language"))
			c.Set(ContextLangKey, tag)
			c.Response().Header().Set("Content-Language", tag.String())
			return next(c)
		}
	}
}

func Lang(c echo.Context) language.Tag {
	if tag, ok := c.Get(ContextLangKey).(language.Tag); ok {
		return tag
	}
	return language.English
}

// T formats key in the request's language.
func T(c echo.Context, key string, args ...any) string {
	return Sprintf(Lang(c), key, args...)
}

func Sprintf(tag language.Tag, key string, args ...any) string {
	return message.NewPrinter(tag, message.Catalog(messages)).Sprintf(key, args...)
}

func newCatalog() catalog.Catalog {
	b := catalog.NewBuilder(catalog.Fallback(language.English))
	for key, msg := range serbian {
		if err := b.SetString(language.Serbian, key, msg); err != nil {
			panic(err)
		}
	}
	return b
}
