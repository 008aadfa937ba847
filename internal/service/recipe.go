package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/pageza/foodgram/backend/internal/database"
	"github.com/pageza/foodgram/backend/internal/logging"
	"github.com/pageza/foodgram/backend/internal/metrics"
	"github.com/pageza/foodgram/backend/internal/models"
	"github.com/pageza/foodgram/backend/internal/types"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const (
	MaxRecipeNameLength = 256
	// MaxSmallInt bounds cooking_time and amount.
	MaxSmallInt = 32767
)

// RecipeService owns the recipe aggregate: the recipe row, its ingredient
// amounts and its tag set.
type RecipeService struct {
	db      *gorm.DB
	images  ImageStore
	codeGen func() string
}

// NewRecipeService creates a new RecipeService instance
func NewRecipeService(db *gorm.DB, images ImageStore) *RecipeService {
	return &RecipeService{
		db:      db,
		images:  images,
		codeGen: NewShortCode,
	}
}

// SetShortCodeGenerator replaces the short code source.
func (s *RecipeService) SetShortCodeGenerator(fn func() string) {
	s.codeGen = fn
}

// validatedRecipe is a RecipeInput whose references were resolved.
type validatedRecipe struct {
	tags        []models.Tag
	ingredients []types.RecipeIngredientInput
	image       *Image
}

// CreateRecipe validates input and persists the recipe, its ingredient rows
// and its tags in one transaction under a freshly allocated short code.
func (s *RecipeService) CreateRecipe(ctx context.Context, authorID uint, in *types.RecipeInput) (*models.Recipe, error) {
	v, err := s.validate(ctx, in, true)
	if err != nil {
		return nil, err
	}

	imageURL, err := s.images.Save(ctx, ImageKey("recipes/images", v.image), v.image)
	if err != nil {
		return nil, err
	}

	recipe := &models.Recipe{
		AuthorID:    authorID,
		Name:        strings.TrimSpace(*in.Name),
		Text:        *in.Text,
		CookingTime: *in.CookingTime,
		Image:       imageURL,
	}

	for attempt := 1; ; attempt++ {
		recipe.ID = 0
		recipe.ShortCode = s.codeGen()
		err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			if err := tx.Omit(clause.Associations).Create(recipe).Error; err != nil {
				if database.IsUniqueViolation(err) {
					return errShortCodeTaken
				}
				return err
			}
			return writeComposition(tx, recipe, v)
		})
		if !errors.Is(err, errShortCodeTaken) {
			break
		}
		metrics.ShortCodeCollisions.Inc()
		logging.Ctx(ctx).Warn().Str("short_code", recipe.ShortCode).Int("attempt", attempt).Msg("short code collision")
		if attempt >= shortCodeAttempts {
			err = ErrShortCodeExhausted
			break
		}
	}
	if err != nil {
		s.discardImage(ctx, imageURL)
		return nil, fmt.Errorf("failed to create recipe: %w", err)
	}

	metrics.RecipesCreated.Inc()
	logging.Ctx(ctx).Info().Uint("recipe_id", recipe.ID).Str("short_code", recipe.ShortCode).Msg("recipe created")
	return s.GetRecipe(ctx, recipe.ID)
}

// UpdateRecipe replaces the recipe's scalar fields that are present in in,
// and replaces its ingredient and tag sets wholesale. Both sets are required.
func (s *RecipeService) UpdateRecipe(ctx context.Context, actor *types.AuthUser, id uint, in *types.RecipeInput) (*models.Recipe, error) {
	recipe, err := s.loadForWrite(ctx, actor, id)
	if err != nil {
		return nil, err
	}

	v, err := s.validate(ctx, in, false)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	if in.Name != nil {
		updates["name"] = strings.TrimSpace(*in.Name)
	}
	if in.Text != nil {
		updates["text"] = *in.Text
	}
	if in.CookingTime != nil {
		updates["cooking_time"] = *in.CookingTime
	}

	oldImage := recipe.Image
	newImage := ""
	if v.image != nil {
		newImage, err = s.images.Save(ctx, ImageKey("recipes/images", v.image), v.image)
		if err != nil {
			return nil, err
		}
		updates["image"] = newImage
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if len(updates) > 0 {
			if err := tx.Model(recipe).Omit(clause.Associations).Updates(updates).Error; err != nil {
				return err
			}
		}
		if err := tx.Where("recipe_id = ?", recipe.ID).Delete(&models.RecipeIngredient{}).Error; err != nil {
			return err
		}
		return writeComposition(tx, recipe, v)
	})
	if err != nil {
		s.discardImage(ctx, newImage)
		return nil, fmt.Errorf("failed to update recipe: %w", err)
	}
	if newImage != "" {
		s.discardImage(ctx, oldImage)
	}

	return s.GetRecipe(ctx, recipe.ID)
}

// writeComposition inserts the ingredient rows and sets the tag association.
func writeComposition(tx *gorm.DB, recipe *models.Recipe, v *validatedRecipe) error {
	rows := make([]models.RecipeIngredient, 0, len(v.ingredients))
	for _, in := range v.ingredients {
		rows = append(rows, models.RecipeIngredient{
			RecipeID:     recipe.ID,
			IngredientID: in.ID,
			Amount:       in.Amount,
		})
	}
	if err := tx.Omit(clause.Associations).Create(&rows).Error; err != nil {
		return err
	}
	return tx.Model(recipe).Association("Tags").Replace(v.tags)
}

// DeleteRecipe removes the recipe with everything hanging off it.
func (s *RecipeService) DeleteRecipe(ctx context.Context, actor *types.AuthUser, id uint) error {
	recipe, err := s.loadForWrite(ctx, actor, id)
	if err != nil {
		return err
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, model := range []interface{}{&models.RecipeIngredient{}, &models.Favorite{}, &models.ShoppingCartItem{}} {
			if err := tx.Where("recipe_id = ?", recipe.ID).Delete(model).Error; err != nil {
				return err
			}
		}
		if err := tx.Model(recipe).Association("Tags").Clear(); err != nil {
			return err
		}
		return tx.Delete(recipe).Error
	})
	if err != nil {
		return fmt.Errorf("failed to delete recipe: %w", err)
	}

	s.discardImage(ctx, recipe.Image)
	logging.Ctx(ctx).Info().Uint("recipe_id", recipe.ID).Msg("recipe deleted")
	return nil
}

func (s *RecipeService) loadForWrite(ctx context.Context, actor *types.AuthUser, id uint) (*models.Recipe, error) {
	if actor == nil {
		return nil, ErrUnauthorized
	}
	var recipe models.Recipe
	if err := s.db.WithContext(ctx).First(&recipe, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if recipe.AuthorID != actor.ID && !actor.IsStaff {
		return nil, ErrForbidden
	}
	return &recipe, nil
}

func (s *RecipeService) discardImage(ctx context.Context, url string) {
	if url == "" {
		return
	}
	if err := s.images.Delete(ctx, url); err != nil {
		logging.Ctx(ctx).Warn().Err(err).Str("image", url).Msg("failed to remove image")
	}
}

// withComposition preloads everything a full recipe representation needs.
func withComposition(q *gorm.DB) *gorm.DB {
	return q.
		Preload("Author").
		Preload("Tags", func(db *gorm.DB) *gorm.DB { return db.Order("tags.id") }).
		Preload("Ingredients", func(db *gorm.DB) *gorm.DB { return db.Order("recipe_ingredients.id") }).
		Preload("Ingredients.Ingredient")
}

// GetRecipe retrieves a recipe by ID
func (s *RecipeService) GetRecipe(ctx context.Context, id uint) (*models.Recipe, error) {
	var recipe models.Recipe
	if err := withComposition(s.db.WithContext(ctx)).First(&recipe, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &recipe, nil
}

// GetByShortCode resolves a short link to its recipe.
func (s *RecipeService) GetByShortCode(ctx context.Context, code string) (*models.Recipe, error) {
	var recipe models.Recipe
	if err := s.db.WithContext(ctx).Where("short_code = ?", code).First(&recipe).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &recipe, nil
}

// ListRecipes returns one page of recipes, newest first.
func (s *RecipeService) ListRecipes(ctx context.Context, filter RecipeFilter, page Page) (*PageResult[models.Recipe], error) {
	base := filter.Apply(s.db.WithContext(ctx).Model(&models.Recipe{}))

	var count int64
	if err := base.Session(&gorm.Session{}).Count(&count).Error; err != nil {
		return nil, err
	}

	var recipes []models.Recipe
	err := withComposition(base.Session(&gorm.Session{})).
		Scopes(Paginate(page)).
		Order("recipes.created_at DESC").
		Order("recipes.id DESC").
		Find(&recipes).Error
	if err != nil {
		return nil, err
	}
	return &PageResult[models.Recipe]{Items: recipes, Count: count, Page: page}, nil
}

// validate checks in and resolves its tag and ingredient references. On
// create every field is required; on update only tags and ingredients are.
func (s *RecipeService) validate(ctx context.Context, in *types.RecipeInput, create bool) (*validatedRecipe, error) {
	verr := NewValidationError()
	out := &validatedRecipe{}

	if err := validate.Struct(in); err != nil {
		if err := recipeFieldErrors(err, in, verr); err != nil {
			return nil, err
		}
	}

	if (in.Name != nil || create) && (in.Name == nil || strings.TrimSpace(*in.Name) == "") {
		verr.Add("name", "This field is required.")
	}
	if (in.Text != nil || create) && (in.Text == nil || strings.TrimSpace(*in.Text) == "") {
		verr.Add("text", "This field is required.")
	}
	if create && in.CookingTime == nil {
		verr.Add("cooking_time", "This field is required.")
	}
	if in.Image != nil || create {
		if in.Image == nil || *in.Image == "" {
			verr.Add("image", "This field is required.")
		} else if img, err := DecodeDataURI(*in.Image); err != nil {
			verr.Add("image", err.Error())
		} else {
			out.image = img
		}
	}

	tags, err := s.validateTags(ctx, in.Tags, verr)
	if err != nil {
		return nil, err
	}
	out.tags = tags

	if err := s.validateIngredients(ctx, in.Ingredients, verr); err != nil {
		return nil, err
	}
	out.ingredients = in.Ingredients

	if verr.HasErrors() {
		return nil, verr
	}
	return out, nil
}

func (s *RecipeService) validateTags(ctx context.Context, ids []uint, verr *ValidationError) ([]models.Tag, error) {
	if ids == nil {
		verr.Add("tags", "This field is required.")
		return nil, nil
	}
	if len(ids) == 0 {
		verr.Add("tags", "At least one tag is required.")
		return nil, nil
	}
	if dup := duplicates(ids); len(dup) > 0 {
		verr.Add("tags", fmt.Sprintf("Tags must not repeat: %v.", dup))
		return nil, nil
	}

	var tags []models.Tag
	if err := s.db.WithContext(ctx).Where("id IN ?", ids).Order("id").Find(&tags).Error; err != nil {
		return nil, err
	}
	found := make(map[uint]bool, len(tags))
	for _, t := range tags {
		found[t.ID] = true
	}
	if missing := missingIDs(ids, found); len(missing) > 0 {
		verr.Add("tags", fmt.Sprintf("Tags with ids %v do not exist.", missing))
	}
	return tags, nil
}

func (s *RecipeService) validateIngredients(ctx context.Context, items []types.RecipeIngredientInput, verr *ValidationError) error {
	if items == nil {
		verr.Add("ingredients", "This field is required.")
		return nil
	}
	if len(items) == 0 {
		verr.Add("ingredients", "At least one ingredient is required.")
		return nil
	}

	ids := make([]uint, 0, len(items))
	for _, it := range items {
		ids = append(ids, it.ID)
	}
	if dup := duplicates(ids); len(dup) > 0 {
		verr.Add("ingredients", fmt.Sprintf("Ingredients must not repeat: %v.", dup))
		return nil
	}

	var existing []uint
	if err := s.db.WithContext(ctx).Model(&models.Ingredient{}).Where("id IN ?", ids).Pluck("id", &existing).Error; err != nil {
		return err
	}
	found := make(map[uint]bool, len(existing))
	for _, id := range existing {
		found[id] = true
	}
	if missing := missingIDs(ids, found); len(missing) > 0 {
		verr.Add("ingredients", fmt.Sprintf("Ingredients with ids %v do not exist.", missing))
	}
	return nil
}

// recipeFieldErrors turns the struct tag violations of a RecipeInput into
// field messages.
func recipeFieldErrors(err error, in *types.RecipeInput, verr *ValidationError) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	for _, fe := range verrs {
		switch fe.StructField() {
		case "Name":
			verr.Add("name", fmt.Sprintf("Ensure this field has no more than %d characters.", MaxRecipeNameLength))
		case "CookingTime":
			verr.Add("cooking_time", fmt.Sprintf("Cooking time must be between 1 and %d.", MaxSmallInt))
		case "Amount":
			var idx int
			ns := fe.StructNamespace()
			if i := strings.Index(ns, "Ingredients["); i >= 0 {
				fmt.Sscanf(ns[i+len("Ingredients["):], "%d]", &idx)
			}
			if idx >= 0 && idx < len(in.Ingredients) {
				verr.Add("ingredients", fmt.Sprintf("Amount for ingredient %d must be between 1 and %d.", in.Ingredients[idx].ID, MaxSmallInt))
			}
		default:
			verr.Add(fe.Field(), "Invalid value.")
		}
	}
	return nil
}

func duplicates(ids []uint) []uint {
	seen := make(map[uint]int, len(ids))
	var dup []uint
	for _, id := range ids {
		seen[id]++
		if seen[id] == 2 {
			dup = append(dup, id)
		}
	}
	return dup
}

func missingIDs(ids []uint, found map[uint]bool) []uint {
	var missing []uint
	for _, id := range ids {
		if !found[id] {
			missing = append(missing, id)
		}
	}
	sort.Slice(missing, func(i, j int) bool { return missing[i] < missing[j] })
	return missing
}
