package usecase

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"strconv"
	"time"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

const (
	CategoryElectronics = "Electronics"
	CategoryFurniture   = "Furniture"
	CategoryJewelry     = "Jewelry"
	CategoryFashion     = "Fashion"
	CategorySports      = "Sports"
	CategoryOther       = "Other"

	// CategoryAll is the filter value meaning "no category filter".
	CategoryAll = "all"
)

const (
	SortValueHigh = "value-high"
	SortValueLow  = "value-low"
	SortName      = "name"
	SortDateNew   = "date-new"
	SortDateOld   = "date-old"
)

type Asset struct {
	ID             int
	Name           string
	Category       string
	EstimatedValue int
	Confidence     int
	ImageURL       string
	ImageData      *string
	PurchaseDate   *string
	Notes          *string
	Colors         []string
	CreatedAt      time.Time
}

// AssetPatch carries the fields of an update; nil fields are left as is.
type AssetPatch struct {
	Name           *string
	Category       *string
	EstimatedValue *int
	Confidence     *int
	ImageURL       *string
	ImageData      *string
	PurchaseDate   *string
	Notes          *string
	Colors         *[]string
}

func (p AssetPatch) IsEmpty() bool {
	return p == AssetPatch{}
}

// Apply merges p onto a. ID and CreatedAt are never touched.
func (a Asset) Apply(p AssetPatch) Asset {
	if p.Name != nil {
		a.Name = *p.Name
	}
	if p.Category != nil {
		a.Category = *p.Category
	}
	if p.EstimatedValue != nil {
		a.EstimatedValue = *p.EstimatedValue
	}
	if p.Confidence != nil {
		a.Confidence = *p.Confidence
	}
	if p.ImageURL != nil {
		a.ImageURL = *p.ImageURL
	}
	if p.ImageData != nil {
		a.ImageData = ptr(*p.ImageData)
	}
	if p.PurchaseDate != nil {
		a.PurchaseDate = ptr(*p.PurchaseDate)
	}
	if p.Notes != nil {
		a.Notes = ptr(*p.Notes)
	}
	if p.Colors != nil {
		a.Colors = slices.Clone(*p.Colors)
	}
	return a
}

// Clone returns a copy that shares no pointers with a.
func (a Asset) Clone() Asset {
	if a.ImageData != nil {
		a.ImageData = ptr(*a.ImageData)
	}
	if a.PurchaseDate != nil {
		a.PurchaseDate = ptr(*a.PurchaseDate)
	}
	if a.Notes != nil {
		a.Notes = ptr(*a.Notes)
	}
	a.Colors = slices.Clone(a.Colors)
	return a
}

func ptr[T any](v T) *T {
	return &v
}

// CompareNewestFirst orders by CreatedAt descending, then ID descending.
func CompareNewestFirst(a, b Asset) int {
	if c := b.CreatedAt.Compare(a.CreatedAt); c != 0 {
		return c
	}
	return cmp.Compare(b.ID, a.ID)
}

type ListAssetsOption struct {
	Search   string
	Category string
	SortBy   string
}

func (u Usecase) ListAssets(ctx context.Context, opt ListAssetsOption) ([]Asset, error) {
	var (
		list []Asset
		err  error
	)

	switch {
	case opt.Search != "":
		list, err = u.repo.SearchAssets(ctx, opt.Search)
		if err == nil && opt.Category != "" && opt.Category != CategoryAll {
			list = slices.DeleteFunc(list, func(a Asset) bool {
				return a.Category != opt.Category
			})
		}
	case opt.Category != "":
		list, err = u.repo.ListAssetsByCategory(ctx, opt.Category)
	default:
		list, err = u.repo.ListAssets(ctx)
	}
	if err != nil {
		return nil, err
	}

	SortAssets(list, opt.SortBy)

	return list, nil
}

// SortAssets sorts list in place. An empty sortBy keeps the store order.
func SortAssets(list []Asset, sortBy string) {
	switch sortBy {
	case SortValueHigh:
		slices.SortStableFunc(list, func(a, b Asset) int {
			return cmp.Compare(b.EstimatedValue, a.EstimatedValue)
		})
	case SortValueLow:
		slices.SortStableFunc(list, func(a, b Asset) int {
			return cmp.Compare(a.EstimatedValue, b.EstimatedValue)
		})
	case SortName:
		// a Collator keeps internal buffers and is not safe to share
		c := collate.New(language.Und)
		slices.SortStableFunc(list, func(a, b Asset) int {
			return c.CompareString(a.Name, b.Name)
		})
	case SortDateNew:
		slices.SortStableFunc(list, func(a, b Asset) int {
			return b.CreatedAt.Compare(a.CreatedAt)
		})
	case SortDateOld:
		slices.SortStableFunc(list, func(a, b Asset) int {
			return a.CreatedAt.Compare(b.CreatedAt)
		})
	}
}

func (u Usecase) GetAssetByID(ctx context.Context, id int) (Asset, error) {
	return u.repo.GetAssetByID(ctx, id)
}

func (u Usecase) CreateAsset(ctx context.Context, asset Asset) (Asset, error) {
	a, err := u.repo.CreateAsset(ctx, asset)
	if err != nil {
		return Asset{}, fmt.Errorf("create asset: %w", err)
	}

	u.publish(ctx, AssetEvent{Type: AssetEventCreated, AssetID: a.ID, Asset: &a})

	return a, nil
}

func (u Usecase) UpdateAsset(ctx context.Context, id int, patch AssetPatch) (Asset, error) {
	a, err := u.repo.UpdateAsset(ctx, id, patch)
	if err != nil {
		if IsNotFound(err) {
			return Asset{}, err
		}
		return Asset{}, fmt.Errorf("update asset %d: %w", id, err)
	}

	if !patch.IsEmpty() {
		u.publish(ctx, AssetEvent{Type: AssetEventUpdated, AssetID: a.ID, Asset: &a})
	}

	return a, nil
}

func (u Usecase) DeleteAsset(ctx context.Context, id int) error {
	deleted, err := u.repo.DeleteAsset(ctx, id)
	if err != nil {
		return fmt.Errorf("delete asset %d: %w", id, err)
	}
	if !deleted {
		return AssetNotFound(id)
	}

	u.publish(ctx, AssetEvent{Type: AssetEventDeleted, AssetID: id})

	return nil
}

func AssetNotFound(id int) ErrNotFound {
	return ErrNotFound{
		ID:      id,
		Code:    "asset_not_found",
		Message: "asset " + strconv.Itoa(id) + " not found",
	}
}
