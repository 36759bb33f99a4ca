package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/racedaylabs/platform-service/internal/apperrors"
	"github.com/racedaylabs/platform-service/internal/i18n"
	"github.com/racedaylabs/platform-service/internal/utils"
)

type ContentHandler struct {
	BaseHandler
}

func NewContentHandler(logger utils.Logger) *ContentHandler {
	return &ContentHandler{BaseHandler: NewBaseHandler(logger)}
}

// pageFields lists the catalog fields each public page carries. Texts live in
// the locale catalogs under "page.<slug>.<field>".
var pageFields = map[string][]string{
	"home":       {"title", "subtitle", "cta"},
	"about":      {"title", "body"},
	"organizers": {"title", "body"},
	"athletes":   {"title", "body"},
	"contact":    {"title", "body"},
}

type ContentPageResponse struct {
	Slug     string            `json:"slug"`
	Language string            `json:"language"`
	Content  map[string]string `json:"content"`
}

// GetPage returns the localized content of one public page
// @Summary Get content page
// @Description Localized marketing/content payload; language follows ?lang or Accept-Language, Spanish falls back to English per key
// @Tags content
// @Produce json
// @Param slug path string true "Page slug (home, about, organizers, athletes, contact)"
// @Success 200 {object} ContentPageResponse
// @Failure 404 {object} ErrorResponse "Unknown page"
// @Router /content/pages/{slug} [get]
func (h *ContentHandler) GetPage(c *gin.Context) {
	slug := c.Param("slug")

	fields, ok := pageFields[slug]
	if !ok {
		h.handleServiceError(c, apperrors.New(apperrors.CodeNotFound, "unknown page"))
		return
	}

	ctx := c.Request.Context()
	content := make(map[string]string, len(fields))
	for _, field := range fields {
		content[field] = i18n.T(ctx, fmt.Sprintf("page.%s.%s", slug, field))
	}

	c.JSON(http.StatusOK, ContentPageResponse{
		Slug:     slug,
		Language: i18n.LangFromContext(ctx),
		Content:  content,
	})
}
