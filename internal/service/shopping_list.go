package service

import (
	"context"
	"fmt"
	"strings"

	"gorm.io/gorm"
)

// ShoppingListHeader is the first line of the rendered report.
const ShoppingListHeader = "Shopping list:"

// ShoppingListRow is one recipe ingredient line from a user's cart.
type ShoppingListRow struct {
	IngredientID    uint
	Name            string
	MeasurementUnit string
	Amount          int
}

// ShoppingListItem is the consolidated total for one ingredient.
type ShoppingListItem struct {
	IngredientID    uint
	Name            string
	MeasurementUnit string
	Amount          int
}

// ShoppingList holds items in the order their ingredient was first seen.
type ShoppingList struct {
	Items []ShoppingListItem
}

// AggregateShoppingList sums amounts per ingredient id, keeping first-seen
// order. Rows with the same name but a different ingredient id stay apart.
func AggregateShoppingList(rows []ShoppingListRow) ShoppingList {
	index := make(map[uint]int, len(rows))
	list := ShoppingList{Items: make([]ShoppingListItem, 0, len(rows))}
	for _, r := range rows {
		if i, ok := index[r.IngredientID]; ok {
			list.Items[i].Amount += r.Amount
			continue
		}
		index[r.IngredientID] = len(list.Items)
		list.Items = append(list.Items, ShoppingListItem(r))
	}
	return list
}

// Text renders the header followed by one "name: amount unit" line per item.
func (l ShoppingList) Text() string {
	var b strings.Builder
	b.WriteString(ShoppingListHeader)
	b.WriteByte('\n')
	for _, it := range l.Items {
		fmt.Fprintf(&b, "%s: %d %s\n", it.Name, it.Amount, it.MeasurementUnit)
	}
	return b.String()
}

// ShoppingListService builds a user's consolidated shopping list.
type ShoppingListService struct {
	db *gorm.DB
}

func NewShoppingListService(db *gorm.DB) *ShoppingListService {
	return &ShoppingListService{db: db}
}

// Build reads the user's cart in a stable order and aggregates it.
func (s *ShoppingListService) Build(ctx context.Context, userID uint) (ShoppingList, error) {
	var rows []ShoppingListRow
	err := s.db.WithContext(ctx).
		Table("shopping_cart AS sc").
		Select("i.id AS ingredient_id, i.name AS name, i.measurement_unit AS measurement_unit, ri.amount AS amount").
		Joins("JOIN recipe_ingredients ri ON ri.recipe_id = sc.recipe_id").
		Joins("JOIN ingredients i ON i.id = ri.ingredient_id").
		Where("sc.user_id = ?", userID).
		Order("sc.id").
		Order("ri.id").
		Scan(&rows).Error
	if err != nil {
		return ShoppingList{}, err
	}
	return AggregateShoppingList(rows), nil
}
