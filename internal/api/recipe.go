package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/pageza/foodgram/backend/internal/middleware"
	"github.com/pageza/foodgram/backend/internal/models"
	"github.com/pageza/foodgram/backend/internal/service"
	"github.com/pageza/foodgram/backend/internal/types"
)

// ShoppingListFilename is the attachment name of the downloaded list.
const ShoppingListFilename = "shopping_cart.txt"

func queryFlag(c *gin.Context, name string) bool {
	v := c.Query(name)
	return v == "1" || v == "true"
}

// ListRecipes handles GET /api/recipes/ with the author, tags,
// is_favorited and is_in_shopping_cart filters.
func (h *Handler) ListRecipes(c *gin.Context) {
	viewerID := middleware.CurrentUserID(c)
	filter := service.RecipeFilter{
		Tags:             c.QueryArray("tags"),
		IsFavorited:      queryFlag(c, "is_favorited"),
		IsInShoppingCart: queryFlag(c, "is_in_shopping_cart"),
		ViewerID:         viewerID,
	}
	if raw := c.Query("author"); raw != "" {
		id, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			respondError(c, service.FieldError("author", "Select a valid choice."))
			return
		}
		author := uint(id)
		filter.AuthorID = &author
	}

	page := h.page(c)
	res, err := h.svc.Recipes.ListRecipes(c.Request.Context(), filter, page)
	if err != nil {
		respondError(c, err)
		return
	}
	results, err := h.renderRecipes(c.Request.Context(), viewerID, res.Items)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, envelope(h, c, res.Count, res.Page, results))
}

func (h *Handler) GetRecipe(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	recipe, err := h.svc.Recipes.GetRecipe(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	h.respondRecipe(c, http.StatusOK, recipe)
}

// CreateRecipe handles POST /api/recipes/.
func (h *Handler) CreateRecipe(c *gin.Context) {
	var in types.RecipeInput
	if err := c.ShouldBindJSON(&in); err != nil {
		respondBindError(c, err)
		return
	}

	user := middleware.CurrentUser(c)
	recipe, err := h.svc.Recipes.CreateRecipe(c.Request.Context(), user.ID, &in)
	if err != nil {
		respondError(c, err)
		return
	}
	h.respondRecipe(c, http.StatusCreated, recipe)
}

// UpdateRecipe handles PATCH /api/recipes/:id/. Tags and ingredients are
// replaced wholesale.
func (h *Handler) UpdateRecipe(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	var in types.RecipeInput
	if err := c.ShouldBindJSON(&in); err != nil {
		respondBindError(c, err)
		return
	}

	recipe, err := h.svc.Recipes.UpdateRecipe(c.Request.Context(), middleware.CurrentUser(c), id, &in)
	if err != nil {
		respondError(c, err)
		return
	}
	h.respondRecipe(c, http.StatusOK, recipe)
}

func (h *Handler) DeleteRecipe(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	if err := h.svc.Recipes.DeleteRecipe(c.Request.Context(), middleware.CurrentUser(c), id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// respondRecipe renders a fully loaded recipe for the caller.
func (h *Handler) respondRecipe(c *gin.Context, status int, recipe *models.Recipe) {
	resp, err := h.renderRecipe(c.Request.Context(), middleware.CurrentUserID(c), recipe)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(status, resp)
}

// GetLink returns the absolute short link of a recipe.
func (h *Handler) GetLink(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	recipe, err := h.svc.Recipes.GetRecipe(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, types.ShortLinkResponse{ShortLink: h.baseURL + "/s/" + recipe.ShortCode + "/"})
}

// ResolveShortLink redirects a short link to the recipe page.
func (h *Handler) ResolveShortLink(c *gin.Context) {
	recipe, err := h.svc.Recipes.GetByShortCode(c.Request.Context(), c.Param("code"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.Redirect(http.StatusFound, "/recipes/"+strconv.FormatUint(uint64(recipe.ID), 10)+"/")
}

func (h *Handler) AddFavorite(c *gin.Context) {
	h.addToList(c, service.Favorites)
}

func (h *Handler) RemoveFavorite(c *gin.Context) {
	h.removeFromList(c, service.Favorites)
}

func (h *Handler) AddToShoppingCart(c *gin.Context) {
	h.addToList(c, service.ShoppingCart)
}

func (h *Handler) RemoveFromShoppingCart(c *gin.Context) {
	h.removeFromList(c, service.ShoppingCart)
}

func (h *Handler) addToList(c *gin.Context, list service.RecipeList) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	recipe, err := h.svc.Interactions.Add(c.Request.Context(), list, middleware.CurrentUserID(c), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, types.NewRecipeShortResponse(recipe))
}

func (h *Handler) removeFromList(c *gin.Context, list service.RecipeList) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	if err := h.svc.Interactions.Remove(c.Request.Context(), list, middleware.CurrentUserID(c), id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// DownloadShoppingCart sends the aggregated shopping list as a text file.
func (h *Handler) DownloadShoppingCart(c *gin.Context) {
	list, err := h.svc.ShoppingList.Build(c.Request.Context(), middleware.CurrentUserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="`+ShoppingListFilename+`"`)
	c.Data(http.StatusOK, "text/plain; charset=utf-8", []byte(list.Text()))
}
