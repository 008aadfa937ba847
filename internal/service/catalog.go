package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/pageza/foodgram/backend/internal/logging"
	"github.com/pageza/foodgram/backend/internal/models"
	"github.com/pageza/foodgram/backend/internal/types"
	"gorm.io/gorm"
)

// CatalogService serves tag and ingredient reference data.
type CatalogService struct {
	db *gorm.DB
}

func NewCatalogService(db *gorm.DB) *CatalogService {
	return &CatalogService{db: db}
}

func (s *CatalogService) ListTags(ctx context.Context) ([]models.Tag, error) {
	var tags []models.Tag
	if err := s.db.WithContext(ctx).Order("name").Find(&tags).Error; err != nil {
		return nil, err
	}
	return tags, nil
}

func (s *CatalogService) GetTag(ctx context.Context, id uint) (*models.Tag, error) {
	var tag models.Tag
	if err := s.db.WithContext(ctx).First(&tag, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &tag, nil
}

// ListIngredients returns ingredients ordered by name, narrowed by filter.
func (s *CatalogService) ListIngredients(ctx context.Context, filter IngredientFilter) ([]models.Ingredient, error) {
	var ingredients []models.Ingredient
	q := filter.Apply(s.db.WithContext(ctx).Model(&models.Ingredient{}))
	if err := q.Order("ingredients.name").Order("ingredients.id").Find(&ingredients).Error; err != nil {
		return nil, err
	}
	return ingredients, nil
}

func (s *CatalogService) GetIngredient(ctx context.Context, id uint) (*models.Ingredient, error) {
	var ing models.Ingredient
	if err := s.db.WithContext(ctx).First(&ing, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &ing, nil
}

// ImportResult counts rows handled by an import.
type ImportResult struct {
	Created int
	Skipped int
}

// ImportIngredients loads rows, skipping (name, unit) pairs that already exist.
func (s *CatalogService) ImportIngredients(ctx context.Context, rows []types.IngredientImport) (ImportResult, error) {
	var res ImportResult
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for i, row := range rows {
			if err := validate.Struct(row); err != nil {
				return fmt.Errorf("row %d: %w", i+1, validationFromStruct(err, importFields))
			}
			created, err := createIfAbsent(tx,
				&models.Ingredient{Name: row.Name, MeasurementUnit: row.MeasurementUnit},
				"name = ? AND measurement_unit = ?", row.Name, row.MeasurementUnit)
			if err != nil {
				return fmt.Errorf("row %d: %w", i+1, err)
			}
			res.count(created)
		}
		return nil
	})
	if err != nil {
		return ImportResult{}, err
	}

	logging.Ctx(ctx).Info().Int("created", res.Created).Int("skipped", res.Skipped).Msg("imported ingredients")
	return res, nil
}

// ImportTags loads rows, skipping slugs that already exist.
func (s *CatalogService) ImportTags(ctx context.Context, rows []types.TagImport) (ImportResult, error) {
	var res ImportResult
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for i, row := range rows {
			if err := validate.Struct(row); err != nil {
				return fmt.Errorf("row %d: %w", i+1, validationFromStruct(err, importFields))
			}
			created, err := createIfAbsent(tx, &models.Tag{Name: row.Name, Slug: row.Slug}, "slug = ?", row.Slug)
			if err != nil {
				return fmt.Errorf("row %d: %w", i+1, err)
			}
			res.count(created)
		}
		return nil
	})
	if err != nil {
		return ImportResult{}, err
	}

	logging.Ctx(ctx).Info().Int("created", res.Created).Int("skipped", res.Skipped).Msg("imported tags")
	return res, nil
}

func (r *ImportResult) count(created bool) {
	if created {
		r.Created++
	} else {
		r.Skipped++
	}
}

// createIfAbsent inserts row unless a row of the same model matches the
// condition.
func createIfAbsent(tx *gorm.DB, row interface{}, cond string, args ...interface{}) (bool, error) {
	var n int64
	if err := tx.Model(row).Where(cond, args...).Count(&n).Error; err != nil {
		return false, err
	}
	if n > 0 {
		return false, nil
	}
	return true, tx.Create(row).Error
}

var importFields = map[string]string{
	"Name":            "name",
	"Slug":            "slug",
	"MeasurementUnit": "measurement_unit",
}
