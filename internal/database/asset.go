package database

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/librarease/assetvault/internal/usecase"
)

type Asset struct {
	ID             int            `gorm:"column:id;primaryKey;autoIncrement"`
	Name           string         `gorm:"column:name;type:text;not null"`
	Category       string         `gorm:"column:category;type:varchar(50);not null;index"`
	EstimatedValue int            `gorm:"column:estimated_value;type:int;not null"`
	Confidence     int            `gorm:"column:confidence;type:int;not null"`
	ImageURL       string         `gorm:"column:image_url;type:text;not null"`
	ImageData      *string        `gorm:"column:image_data;type:text"`
	PurchaseDate   *string        `gorm:"column:purchase_date;type:text"`
	Notes          *string        `gorm:"column:notes;type:text"`
	Colors         datatypes.JSON `gorm:"column:colors"`
	CreatedAt      time.Time      `gorm:"column:created_at;index"`
}

func (Asset) TableName() string {
	return "assets"
}

const newestFirst = "created_at DESC, id DESC"

func (s *service) ListAssets(ctx context.Context) ([]usecase.Asset, error) {
	var assets []Asset

	err := s.db.WithContext(ctx).
		Order(newestFirst).
		Find(&assets).
		Error
	if err != nil {
		return nil, err
	}

	return convertAssets(assets), nil
}

func (s *service) GetAssetByID(ctx context.Context, id int) (usecase.Asset, error) {
	var a Asset

	err := s.db.WithContext(ctx).Where("id = ?", id).First(&a).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return usecase.Asset{}, usecase.AssetNotFound(id)
	}
	if err != nil {
		return usecase.Asset{}, err
	}

	return a.ConvertToUsecase(), nil
}

func (s *service) CreateAsset(ctx context.Context, asset usecase.Asset) (usecase.Asset, error) {
	a := Asset{
		Name:           asset.Name,
		Category:       asset.Category,
		EstimatedValue: asset.EstimatedValue,
		Confidence:     asset.Confidence,
		ImageURL:       asset.ImageURL,
		ImageData:      asset.ImageData,
		PurchaseDate:   asset.PurchaseDate,
		Notes:          asset.Notes,
		Colors:         encodeColors(asset.Colors),
		CreatedAt:      time.Now(),
	}

	if err := s.db.WithContext(ctx).Create(&a).Error; err != nil {
		return usecase.Asset{}, err
	}

	return a.ConvertToUsecase(), nil
}

// UpdateAsset locks the row so concurrent updates of the same asset
// apply one after the other.
func (s *service) UpdateAsset(ctx context.Context, id int, patch usecase.AssetPatch) (usecase.Asset, error) {
	var updated usecase.Asset

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var a Asset
		if err := tx.
			Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("id = ?", id).
			First(&a).Error; err != nil {
			return err
		}

		updated = a.ConvertToUsecase().Apply(patch)
		if patch.IsEmpty() {
			return nil
		}

		return tx.Model(&Asset{}).
			Where("id = ?", id).
			Updates(patchColumns(patch)).
			Error
	})
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return usecase.Asset{}, usecase.AssetNotFound(id)
	}
	if err != nil {
		return usecase.Asset{}, err
	}

	return updated, nil
}

func (s *service) DeleteAsset(ctx context.Context, id int) (bool, error) {
	res := s.db.WithContext(ctx).Where("id = ?", id).Delete(&Asset{})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (s *service) SearchAssets(ctx context.Context, query string) ([]usecase.Asset, error) {
	if query == "" {
		return []usecase.Asset{}, nil
	}

	var assets []Asset
	like := "%" + escapeLike(query) + "%"

	err := s.db.WithContext(ctx).
		Where("name ILIKE ? OR category ILIKE ? OR notes ILIKE ?", like, like, like).
		Order(newestFirst).
		Find(&assets).
		Error
	if err != nil {
		return nil, err
	}

	return convertAssets(assets), nil
}

func (s *service) ListAssetsByCategory(ctx context.Context, category string) ([]usecase.Asset, error) {
	if category == usecase.CategoryAll {
		return s.ListAssets(ctx)
	}

	var assets []Asset

	err := s.db.WithContext(ctx).
		Where("category = ?", category).
		Order(newestFirst).
		Find(&assets).
		Error
	if err != nil {
		return nil, err
	}

	return convertAssets(assets), nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// escapeLike makes the user's query match literally inside a LIKE pattern.
func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}

func patchColumns(p usecase.AssetPatch) map[string]any {
	m := make(map[string]any)
	if p.Name != nil {
		m["name"] = *p.Name
	}
	if p.Category != nil {
		m["category"] = *p.Category
	}
	if p.EstimatedValue != nil {
		m["estimated_value"] = *p.EstimatedValue
	}
	if p.Confidence != nil {
		m["confidence"] = *p.Confidence
	}
	if p.ImageURL != nil {
		m["image_url"] = *p.ImageURL
	}
	if p.ImageData != nil {
		m["image_data"] = *p.ImageData
	}
	if p.PurchaseDate != nil {
		m["purchase_date"] = *p.PurchaseDate
	}
	if p.Notes != nil {
		m["notes"] = *p.Notes
	}
	if p.Colors != nil {
		m["colors"] = encodeColors(*p.Colors)
	}
	return m
}

func encodeColors(colors []string) datatypes.JSON {
	if len(colors) == 0 {
		return nil
	}
	b, err := json.Marshal(colors)
	if err != nil {
		return nil
	}
	return datatypes.JSON(b)
}

func convertAssets(assets []Asset) []usecase.Asset {
	list := make([]usecase.Asset, 0, len(assets))
	for _, a := range assets {
		list = append(list, a.ConvertToUsecase())
	}
	return list
}

// Convert core model to Usecase
func (a Asset) ConvertToUsecase() usecase.Asset {
	var colors []string
	if len(a.Colors) > 0 {
		_ = json.Unmarshal(a.Colors, &colors)
	}

	return usecase.Asset{
		ID:             a.ID,
		Name:           a.Name,
		Category:       a.Category,
		EstimatedValue: a.EstimatedValue,
		Confidence:     a.Confidence,
		ImageURL:       a.ImageURL,
		ImageData:      a.ImageData,
		PurchaseDate:   a.PurchaseDate,
		Notes:          a.Notes,
		Colors:         colors,
		CreatedAt:      a.CreatedAt,
	}
}
