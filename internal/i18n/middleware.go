package i18n

import "github.com/gin-gonic/gin"

// Middleware resolves the request language from the ?lang query parameter (set
// by the localized route prefix upstream) or the Accept-Language header, and
// stores it in the request context for i18n.T lookups.
func Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		lang := c.Query("lang")
		if lang == "" {
			lang = c.GetHeader("Accept-Language")
		}

		resolved := MatchLanguage(lang)
		c.Request = c.Request.WithContext(WithLang(c.Request.Context(), resolved))
		c.Header("Content-Language", resolved)
		c.Next()
	}
}
