package api

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/kmoo25z/ameriduka/pkg/enums"
	pkgerrors "github.com/kmoo25z/ameriduka/pkg/errors"
)

// Product mirrors the backend's catalog payload.
type Product struct {
	ProductID        string                 `json:"product_id"`
	Name             string                 `json:"name"`
	Description      string                 `json:"description"`
	Category         enums.ProductCategory  `json:"category"`
	Brand            string                 `json:"brand"`
	Condition        enums.ProductCondition `json:"condition"`
	PriceUSD         float64                `json:"price_usd"`
	OriginalPriceUSD float64                `json:"original_price_usd"`
	Stock            int                    `json:"stock"`
	Images           []string               `json:"images"`
	Specifications   map[string]any         `json:"specifications"`
	WarrantyMonths   int                    `json:"warranty_months"`
	Featured         bool                   `json:"featured"`
	Tags             []string               `json:"tags"`
	Rating           float64                `json:"rating"`
	ReviewCount      int                    `json:"review_count"`
	SoldCount        int                    `json:"sold_count"`
	CreatedAt        time.Time              `json:"created_at"`
}

// ProductList is one page of catalog results.
type ProductList struct {
	Products   []Product `json:"products"`
	Total      int       `json:"total"`
	Page       int       `json:"page"`
	Limit      int       `json:"limit"`
	TotalPages int       `json:"total_pages"`
}

// ProductQuery selects and orders a catalog page.
type ProductQuery struct {
	Page      int
	Limit     int
	Category  enums.ProductCategory
	Brand     string
	Condition enums.ProductCondition
	MinPrice  *float64
	MaxPrice  *float64
	Search    string
	SortBy    string
	SortOrder string
	Featured  *bool
}

func (q ProductQuery) values() url.Values {
	query := url.Values{}
	if q.Page > 0 {
		query.Set("page", strconv.Itoa(q.Page))
	}
	if q.Limit > 0 {
		query.Set("limit", strconv.Itoa(q.Limit))
	}
	if q.Category != "" {
		query.Set("category", q.Category.String())
	}
	if q.Brand != "" {
		query.Set("brand", q.Brand)
	}
	if q.Condition != "" {
		query.Set("condition", q.Condition.String())
	}
	if q.MinPrice != nil {
		query.Set("min_price", strconv.FormatFloat(*q.MinPrice, 'f', -1, 64))
	}
	if q.MaxPrice != nil {
		query.Set("max_price", strconv.FormatFloat(*q.MaxPrice, 'f', -1, 64))
	}
	if q.Search != "" {
		query.Set("search", q.Search)
	}
	if q.SortBy != "" {
		query.Set("sort_by", q.SortBy)
	}
	if q.SortOrder != "" {
		query.Set("sort_order", q.SortOrder)
	}
	if q.Featured != nil {
		query.Set("featured", strconv.FormatBool(*q.Featured))
	}
	return query
}

// ListProducts fetches a filtered catalog page.
func (c *Client) ListProducts(ctx context.Context, q ProductQuery) (*ProductList, error) {
	var list ProductList
	err := c.do(ctx, requestSpec{
		method: http.MethodGet,
		path:   "/products",
		query:  q.values(),
		out:    &list,
	})
	if err != nil {
		return nil, err
	}
	return &list, nil
}

// GetProduct fetches one product by id.
func (c *Client) GetProduct(ctx context.Context, productID string) (*Product, error) {
	trimmed := strings.TrimSpace(productID)
	if trimmed == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product ID is required")
	}

	var product Product
	err := c.do(ctx, requestSpec{
		method: http.MethodGet,
		path:   "/products/" + url.PathEscape(trimmed),
		out:    &product,
	})
	if err != nil {
		return nil, err
	}
	return &product, nil
}

// FeaturedProducts fetches up to limit featured products.
func (c *Client) FeaturedProducts(ctx context.Context, limit int) ([]Product, error) {
	query := url.Values{}
	if limit > 0 {
		query.Set("limit", strconv.Itoa(limit))
	}

	var products []Product
	err := c.do(ctx, requestSpec{
		method: http.MethodGet,
		path:   "/products/featured",
		query:  query,
		out:    &products,
	})
	if err != nil {
		return nil, err
	}
	return products, nil
}

// CategoryCount is a catalog facet with its product count.
type CategoryCount struct {
	Category string `json:"category"`
	Count    int    `json:"count"`
}

// BrandCount is a brand facet with its product count.
type BrandCount struct {
	Brand string `json:"brand"`
	Count int    `json:"count"`
}

// Categories lists catalog categories with counts.
func (c *Client) Categories(ctx context.Context) ([]CategoryCount, error) {
	var categories []CategoryCount
	err := c.do(ctx, requestSpec{
		method: http.MethodGet,
		path:   "/products/categories",
		out:    &categories,
	})
	if err != nil {
		return nil, err
	}
	return categories, nil
}

// Brands lists catalog brands with counts.
func (c *Client) Brands(ctx context.Context) ([]BrandCount, error) {
	var brands []BrandCount
	err := c.do(ctx, requestSpec{
		method: http.MethodGet,
		path:   "/products/brands",
		out:    &brands,
	})
	if err != nil {
		return nil, err
	}
	return brands, nil
}
