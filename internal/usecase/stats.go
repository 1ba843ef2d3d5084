package usecase

import (
	"context"
	"math"
)

type AssetSummary struct {
	TotalItems int
	TotalValue int
	AvgValue   int
	Categories int
}

// Summarize derives the aggregate view of list.
func Summarize(list []Asset) AssetSummary {
	var (
		s          AssetSummary
		categories = make(map[string]struct{})
	)

	for _, a := range list {
		s.TotalValue += a.EstimatedValue
		categories[a.Category] = struct{}{}
	}

	s.TotalItems = len(list)
	s.Categories = len(categories)
	if s.TotalItems > 0 {
		s.AvgValue = int(math.Round(float64(s.TotalValue) / float64(s.TotalItems)))
	}

	return s
}

func (u Usecase) GetAssetSummary(ctx context.Context) (AssetSummary, error) {
	list, err := u.repo.ListAssets(ctx)
	if err != nil {
		return AssetSummary{}, err
	}
	return Summarize(list), nil
}
