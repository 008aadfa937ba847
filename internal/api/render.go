package api

import (
	"context"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/pageza/foodgram/backend/internal/models"
	"github.com/pageza/foodgram/backend/internal/service"
	"github.com/pageza/foodgram/backend/internal/types"
)

// page reads the page and limit query parameters.
func (h *Handler) page(c *gin.Context) service.Page {
	number, _ := strconv.Atoi(c.Query("page"))
	size, _ := strconv.Atoi(c.Query("limit"))
	return service.Page{Number: number, Size: size}.Normalize(h.pageSize)
}

// pageLink rebuilds the current URL pointing at page number n.
func (h *Handler) pageLink(c *gin.Context, n int) *string {
	q := c.Request.URL.Query()
	if n <= 1 {
		q.Del("page")
	} else {
		q.Set("page", strconv.Itoa(n))
	}
	link := h.baseURL + c.Request.URL.Path
	if enc := q.Encode(); enc != "" {
		link += "?" + enc
	}
	return &link
}

func envelope[T any](h *Handler, c *gin.Context, count int64, p service.Page, results []T) types.PageResponse[T] {
	resp := types.PageResponse[T]{Count: count, Results: results}
	if p.HasNext(count) {
		resp.Next = h.pageLink(c, p.Number+1)
	}
	if p.Number > 1 {
		resp.Previous = h.pageLink(c, p.Number-1)
	}
	return resp
}

// renderRecipes builds full representations for the viewer, resolving flags
// and author subscriptions in two batched lookups.
func (h *Handler) renderRecipes(ctx context.Context, viewerID uint, recipes []models.Recipe) ([]types.RecipeResponse, error) {
	recipeIDs := make([]uint, 0, len(recipes))
	authorIDs := make([]uint, 0, len(recipes))
	for i := range recipes {
		recipeIDs = append(recipeIDs, recipes[i].ID)
		authorIDs = append(authorIDs, recipes[i].AuthorID)
	}

	flags, err := h.svc.Interactions.Flags(ctx, viewerID, recipeIDs)
	if err != nil {
		return nil, err
	}
	subscribed, err := h.svc.Subscriptions.SubscribedSet(ctx, viewerID, authorIDs)
	if err != nil {
		return nil, err
	}

	out := make([]types.RecipeResponse, 0, len(recipes))
	for i := range recipes {
		r := &recipes[i]
		f := flags[r.ID]
		out = append(out, recipeResponse(r, subscribed[r.AuthorID], f))
	}
	return out, nil
}

func (h *Handler) renderRecipe(ctx context.Context, viewerID uint, r *models.Recipe) (*types.RecipeResponse, error) {
	out, err := h.renderRecipes(ctx, viewerID, []models.Recipe{*r})
	if err != nil {
		return nil, err
	}
	return &out[0], nil
}

func recipeResponse(r *models.Recipe, subscribed bool, f service.RecipeFlags) types.RecipeResponse {
	tags := r.Tags
	if tags == nil {
		tags = []models.Tag{}
	}
	ingredients := make([]types.RecipeIngredientResponse, 0, len(r.Ingredients))
	for _, ri := range r.Ingredients {
		ingredients = append(ingredients, types.RecipeIngredientResponse{
			ID:              ri.IngredientID,
			Name:            ri.Ingredient.Name,
			MeasurementUnit: ri.Ingredient.MeasurementUnit,
			Amount:          ri.Amount,
		})
	}
	return types.RecipeResponse{
		ID:               r.ID,
		Tags:             tags,
		Author:           types.NewUserResponse(&r.Author, subscribed),
		Ingredients:      ingredients,
		Name:             r.Name,
		Image:            r.Image,
		Text:             r.Text,
		CookingTime:      r.CookingTime,
		IsFavorited:      f.IsFavorited,
		IsInShoppingCart: f.IsInShoppingCart,
	}
}

func (h *Handler) renderUsers(ctx context.Context, viewerID uint, users []models.User) ([]types.UserResponse, error) {
	ids := make([]uint, 0, len(users))
	for i := range users {
		ids = append(ids, users[i].ID)
	}
	subscribed, err := h.svc.Subscriptions.SubscribedSet(ctx, viewerID, ids)
	if err != nil {
		return nil, err
	}
	out := make([]types.UserResponse, 0, len(users))
	for i := range users {
		out = append(out, types.NewUserResponse(&users[i], subscribed[users[i].ID]))
	}
	return out, nil
}

// subscriptionResponse renders an author the caller follows.
func subscriptionResponse(s *service.AuthorSummary) types.SubscriptionResponse {
	recipes := make([]types.RecipeShortResponse, 0, len(s.Recipes))
	for i := range s.Recipes {
		recipes = append(recipes, types.NewRecipeShortResponse(&s.Recipes[i]))
	}
	return types.SubscriptionResponse{
		UserResponse: types.NewUserResponse(&s.Author, true),
		Recipes:      recipes,
		RecipesCount: s.RecipesCount,
	}
}

// idParam parses a positive numeric path parameter. Anything else is treated
// as an unknown resource.
func idParam(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		respondError(c, service.ErrNotFound)
		return 0, false
	}
	return uint(id), true
}

// recipesLimit reads the recipes_limit query parameter; absent means
// unlimited. Anything but a non-negative integer is rejected with 400.
func recipesLimit(c *gin.Context) (int, bool) {
	raw, ok := c.GetQuery("recipes_limit")
	if !ok || raw == "" {
		return 0, true
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		respondError(c, service.FieldError("recipes_limit", "A valid non-negative integer is required."))
		return 0, false
	}
	return n, true
}
