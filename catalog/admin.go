package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	apperrors "github.com/jrsteele09/go-storefront-client/internal/errors"
	"github.com/jrsteele09/go-storefront-client/rest"
	"github.com/rs/zerolog/log"
)

// AdminClient manages the catalog through .../admin. The rest.Client must
// attach the bearer token of an admin session.
type AdminClient struct {
	client *rest.Client
}

func NewAdminClient(client *rest.Client) *AdminClient {
	return &AdminClient{client: client}
}

// Counts fetches product and user totals.
func (c *AdminClient) Counts(ctx context.Context) (Counts, error) {
	products, err := c.count(ctx, "/products/count")
	if err != nil {
		return Counts{}, err
	}
	users, err := c.count(ctx, "/users/count")
	if err != nil {
		return Counts{}, err
	}
	return Counts{Products: products, Users: users}, nil
}

func (c *AdminClient) Categories(ctx context.Context) ([]Category, error) {
	return list[Category](ctx, c.client, "/categories")
}

func (c *AdminClient) AddCategory(ctx context.Context, in CategoryInput) (*Category, error) {
	if in.Name == "" {
		return nil, apperrors.Wrapf(apperrors.ErrInvalidInput, "AdminClient.AddCategory: name is required")
	}
	var out Category
	if err := c.client.Post(ctx, "/categories", in, &out); err != nil {
		return nil, err
	}
	log.Info().Int64("id", out.ID).Str("name", in.Name).Msg("category added")
	return &out, nil
}

func (c *AdminClient) UpdateCategory(ctx context.Context, id int64, in CategoryInput) (*Category, error) {
	var out Category
	if err := c.client.Put(ctx, fmt.Sprintf("/categories/%d", id), in, &out); err != nil {
		return nil, notFound(err, "category", id)
	}
	return &out, nil
}

func (c *AdminClient) DeleteCategory(ctx context.Context, id int64) error {
	return c.remove(ctx, "category", fmt.Sprintf("/categories/%d", id), id)
}

func (c *AdminClient) SubCategories(ctx context.Context) ([]SubCategory, error) {
	return list[SubCategory](ctx, c.client, "/subcategories")
}

func (c *AdminClient) AddSubCategory(ctx context.Context, in SubCategoryInput) (*SubCategory, error) {
	if in.Name == "" || in.CategoryID <= 0 {
		return nil, apperrors.Wrapf(apperrors.ErrInvalidInput, "AdminClient.AddSubCategory: name and category are required")
	}
	var out SubCategory
	if err := c.client.Post(ctx, "/subcategories", in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *AdminClient) UpdateSubCategory(ctx context.Context, id int64, in SubCategoryInput) (*SubCategory, error) {
	var out SubCategory
	if err := c.client.Put(ctx, fmt.Sprintf("/subcategories/%d", id), in, &out); err != nil {
		return nil, notFound(err, "subcategory", id)
	}
	return &out, nil
}

func (c *AdminClient) DeleteSubCategory(ctx context.Context, id int64) error {
	return c.remove(ctx, "subcategory", fmt.Sprintf("/subcategories/%d", id), id)
}

func (c *AdminClient) Products(ctx context.Context) ([]Product, error) {
	return list[Product](ctx, c.client, "/products")
}

func (c *AdminClient) AddProduct(ctx context.Context, in ProductInput) (*Product, error) {
	if in.Name == "" || in.Price < 0 || in.CategoryID <= 0 {
		return nil, apperrors.Wrapf(apperrors.ErrInvalidInput, "AdminClient.AddProduct: name, non-negative price and category are required")
	}
	var out Product
	if err := c.client.Post(ctx, "/products", in, &out); err != nil {
		return nil, err
	}
	log.Info().Int64("id", out.ID).Str("name", in.Name).Msg("product added")
	return &out, nil
}

func (c *AdminClient) UpdateProduct(ctx context.Context, id int64, in ProductInput) (*Product, error) {
	if in.Price < 0 {
		return nil, apperrors.Wrapf(apperrors.ErrInvalidInput, "AdminClient.UpdateProduct: negative price")
	}
	var out Product
	if err := c.client.Put(ctx, fmt.Sprintf("/products/%d", id), in, &out); err != nil {
		return nil, notFound(err, "product", id)
	}
	return &out, nil
}

func (c *AdminClient) DeleteProduct(ctx context.Context, id int64) error {
	return c.remove(ctx, "product", fmt.Sprintf("/products/%d", id), id)
}

func (c *AdminClient) remove(ctx context.Context, kind, path string, id int64) error {
	if _, err := c.client.DoRaw(ctx, http.MethodDelete, path, nil); err != nil {
		return notFound(err, kind, id)
	}
	log.Info().Int64("id", id).Msgf("%s deleted", kind)
	return nil
}

// count accepts a bare number or an object with a count field.
func (c *AdminClient) count(ctx context.Context, path string) (int64, error) {
	body, err := c.client.DoRaw(ctx, http.MethodGet, path, nil)
	if err != nil {
		return 0, err
	}
	var n int64
	if err := json.Unmarshal(body, &n); err == nil {
		return n, nil
	}
	var wrapped struct {
		Count *int64 `json:"count"`
	}
	if err := json.Unmarshal(body, &wrapped); err != nil || wrapped.Count == nil {
		return 0, fmt.Errorf("GET %s: %w: expected a count", path, apperrors.ErrInvalidResponse)
	}
	return *wrapped.Count, nil
}
