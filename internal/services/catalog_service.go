package services

import (
	"cmp"
	"slices"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"shopdemo/internal/domain"
	"shopdemo/internal/repos"
)

type SortKey string

const (
	SortName      SortKey = "name"
	SortPriceAsc  SortKey = "price-asc"
	SortPriceDesc SortKey = "price-desc"
	SortNewest    SortKey = "newest"
)

// ParseSortKey maps a query value to a sort key, defaulting to newest.
func ParseSortKey(s string) (SortKey, bool) {
	switch k := SortKey(strings.TrimSpace(s)); k {
	case SortName, SortPriceAsc, SortPriceDesc, SortNewest:
		return k, true
	}
	return SortNewest, false
}

const DefaultPageSize = 12

// CatalogService answers read-only queries over the seeded product list.
type CatalogService struct {
	products   []domain.Product
	categories []string
	byID       map[string]int
}

func NewCatalogService(prods *repos.ProductRepo) *CatalogService {
	s := &CatalogService{products: prods.List(), categories: prods.Categories()}
	s.byID = make(map[string]int, len(s.products))
	for i, p := range s.products {
		s.byID[p.ID] = i
	}
	return s
}

func (s *CatalogService) All() []domain.Product {
	return slices.Clone(s.products)
}

func (s *CatalogService) Categories() []string {
	return slices.Clone(s.categories)
}

func (s *CatalogService) GetByID(id string) (domain.Product, bool) {
	i, ok := s.byID[id]
	if !ok {
		return domain.Product{}, false
	}
	return s.products[i], true
}

func (s *CatalogService) GetByCategory(category string) []domain.Product {
	out := []domain.Product{}
	for _, p := range s.products {
		if p.Category == category {
			out = append(out, p)
		}
	}
	return out
}

// Search matches query case-insensitively against name, description and
// category. An empty query matches everything; callers decide whether to
// call it at all.
func (s *CatalogService) Search(query string) []domain.Product {
	fold := cases.Fold()
	q := fold.String(query)
	out := []domain.Product{}
	for _, p := range s.products {
		if strings.Contains(fold.String(p.Name), q) ||
			strings.Contains(fold.String(p.Description), q) ||
			strings.Contains(fold.String(p.Category), q) {
			out = append(out, p)
		}
	}
	return out
}

// Sort returns a stably sorted copy of products. Unknown keys return the
// copy unchanged.
func (s *CatalogService) Sort(products []domain.Product, key SortKey) []domain.Product {
	out := slices.Clone(products)
	switch key {
	case SortName:
		col := collate.New(language.English)
		slices.SortStableFunc(out, func(a, b domain.Product) int { return col.CompareString(a.Name, b.Name) })
	case SortPriceAsc:
		slices.SortStableFunc(out, func(a, b domain.Product) int { return cmp.Compare(a.Price, b.Price) })
	case SortPriceDesc:
		slices.SortStableFunc(out, func(a, b domain.Product) int { return cmp.Compare(b.Price, a.Price) })
	case SortNewest:
		slices.SortStableFunc(out, func(a, b domain.Product) int { return b.CreatedAt.Compare(a.CreatedAt) })
	}
	return out
}

// Filter is the product list pipeline: category, then search within it,
// then sort.
func (s *CatalogService) Filter(category, query string, key SortKey) []domain.Product {
	list := s.products
	if category != "" {
		list = s.GetByCategory(category)
	}
	if query != "" {
		matched := []domain.Product{}
		for _, p := range s.Search(query) {
			if category == "" || p.Category == category {
				matched = append(matched, p)
			}
		}
		list = matched
	}
	return s.Sort(list, key)
}

// Featured returns the first n products in catalog order.
func (s *CatalogService) Featured(n int) []domain.Product {
	n = min(max(n, 0), len(s.products))
	return slices.Clone(s.products[:n])
}

// Newest returns the last n products in catalog order.
func (s *CatalogService) Newest(n int) []domain.Product {
	n = min(max(n, 0), len(s.products))
	return slices.Clone(s.products[len(s.products)-n:])
}

// Related returns up to n other products in p's category.
func (s *CatalogService) Related(p domain.Product, n int) []domain.Product {
	out := []domain.Product{}
	for _, q := range s.products {
		if len(out) == n {
			break
		}
		if q.Category == p.Category && q.ID != p.ID {
			out = append(out, q)
		}
	}
	return out
}

type ProductPage struct {
	Products []domain.Product
	Page     int
	Pages    int
	Total    int
}

func (pp ProductPage) HasPrev() bool { return pp.Page > 1 }
func (pp ProductPage) HasNext() bool { return pp.Page < pp.Pages }
func (pp ProductPage) Prev() int     { return pp.Page - 1 }
func (pp ProductPage) Next() int     { return pp.Page + 1 }

// Paginate slices list into pages of size; page is clamped into range.
func Paginate(list []domain.Product, page, size int) ProductPage {
	if size <= 0 {
		size = DefaultPageSize
	}
	pages := (len(list) + size - 1) / size
	if pages == 0 {
		pages = 1
	}
	page = min(max(page, 1), pages)
	start := min((page-1)*size, len(list))
	end := min(start+size, len(list))
	return ProductPage{Products: slices.Clone(list[start:end]), Page: page, Pages: pages, Total: len(list)}
}
