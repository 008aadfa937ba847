package service

import (
	"strings"

	"gorm.io/gorm"
)

// DefaultPageSize is used when neither configuration nor the request sets one.
const DefaultPageSize = 6

// MaxPageSize caps the limit query parameter.
const MaxPageSize = 100

// RecipeFilter narrows a recipe listing. All set fields are ANDed; Tags is
// an OR over slugs.
type RecipeFilter struct {
	AuthorID *uint
	Tags     []string
	// IsFavorited and IsInShoppingCart only apply when ViewerID is set.
	IsFavorited      bool
	IsInShoppingCart bool
	ViewerID         uint
}

// Apply adds the filter's predicates to a query over recipes.
func (f RecipeFilter) Apply(q *gorm.DB) *gorm.DB {
	if f.AuthorID != nil {
		q = q.Where("recipes.author_id = ?", *f.AuthorID)
	}

	if tags := nonEmpty(f.Tags); len(tags) > 0 {
		q = q.Where(
			"EXISTS (SELECT 1 FROM recipe_tags rt JOIN tags t ON t.id = rt.tag_id WHERE rt.recipe_id = recipes.id AND t.slug IN ?)",
			tags,
		)
	}

	if f.ViewerID != 0 {
		if f.IsFavorited {
			q = q.Where("EXISTS (SELECT 1 FROM favorites f WHERE f.recipe_id = recipes.id AND f.user_id = ?)", f.ViewerID)
		}
		if f.IsInShoppingCart {
			q = q.Where("EXISTS (SELECT 1 FROM shopping_cart sc WHERE sc.recipe_id = recipes.id AND sc.user_id = ?)", f.ViewerID)
		}
	}
	return q
}

func nonEmpty(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}

// IngredientFilter matches ingredient names that start with Name, ignoring case.
type IngredientFilter struct {
	Name string
}

func (f IngredientFilter) Apply(q *gorm.DB) *gorm.DB {
	name := strings.TrimSpace(f.Name)
	if name == "" {
		return q
	}
	return q.Where("ingredients.name_lower LIKE ? ESCAPE '\\'", escapeLike(strings.ToLower(name))+"%")
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}

// Page selects a 1-based page of a listing.
type Page struct {
	Number int
	Size   int
}

// Normalize clamps the page to sane bounds using def as the default size.
func (p Page) Normalize(def int) Page {
	if def <= 0 {
		def = DefaultPageSize
	}
	if p.Number < 1 {
		p.Number = 1
	}
	if p.Size <= 0 {
		p.Size = def
	}
	if p.Size > MaxPageSize {
		p.Size = MaxPageSize
	}
	return p
}

func (p Page) Offset() int {
	return (p.Number - 1) * p.Size
}

// HasNext reports whether another page follows given the total count.
func (p Page) HasNext(count int64) bool {
	return int64(p.Number*p.Size) < count
}

// Paginate applies limit and offset.
func Paginate(p Page) func(*gorm.DB) *gorm.DB {
	return func(q *gorm.DB) *gorm.DB {
		return q.Offset(p.Offset()).Limit(p.Size)
	}
}

// PageResult is one page of a listing together with the total count.
type PageResult[T any] struct {
	Items []T
	Count int64
	Page  Page
}
