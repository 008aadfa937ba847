package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/pageza/foodgram/backend/internal/service"
)

// ListTags returns every tag, unpaginated.
func (h *Handler) ListTags(c *gin.Context) {
	tags, err := h.svc.Catalog.ListTags(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, tags)
}

func (h *Handler) GetTag(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	tag, err := h.svc.Catalog.GetTag(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, tag)
}

// ListIngredients supports ?name= as a case-insensitive prefix search.
func (h *Handler) ListIngredients(c *gin.Context) {
	filter := service.IngredientFilter{Name: c.Query("name")}
	ingredients, err := h.svc.Catalog.ListIngredients(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, ingredients)
}

func (h *Handler) GetIngredient(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	ingredient, err := h.svc.Catalog.GetIngredient(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, ingredient)
}
