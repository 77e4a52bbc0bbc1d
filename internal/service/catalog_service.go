package service

import (
	"context"
	"sort"

	"github.com/alexanderramin/peplaybook/internal/catalog"
	"github.com/alexanderramin/peplaybook/internal/domain"
)

type catalogService struct {
	catalog *catalog.Catalog
}

func NewCatalogService(cat *catalog.Catalog) CatalogService {
	return &catalogService{catalog: cat}
}

func (s *catalogService) Standards(ctx context.Context) []domain.Standard {
	out := s.catalog.Standards()
	sort.SliceStable(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (s *catalogService) Activities(ctx context.Context, q catalog.Query) []domain.Activity {
	out := s.catalog.Search(q)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Category != out[j].Category {
			return out[i].Category < out[j].Category
		}
		return out[i].Name < out[j].Name
	})
	return out
}
