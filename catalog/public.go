package catalog

import (
	"context"
	"fmt"

	"github.com/jrsteele09/go-storefront-client/rest"
)

// PublicClient reads the storefront's public catalog (.../public). No token
// is sent.
type PublicClient struct {
	client *rest.Client
}

func NewPublicClient(client *rest.Client) *PublicClient {
	return &PublicClient{client: client}
}

func (c *PublicClient) Products(ctx context.Context) ([]Product, error) {
	return list[Product](ctx, c.client, "/products")
}

func (c *PublicClient) Product(ctx context.Context, id int64) (*Product, error) {
	var p Product
	if err := c.client.Get(ctx, fmt.Sprintf("/products/%d", id), &p); err != nil {
		return nil, notFound(err, "product", id)
	}
	return &p, nil
}

func (c *PublicClient) Categories(ctx context.Context) ([]Category, error) {
	return list[Category](ctx, c.client, "/categories")
}

func (c *PublicClient) ProductsByCategory(ctx context.Context, categoryID int64) ([]Product, error) {
	return list[Product](ctx, c.client, fmt.Sprintf("/categories/%d/products", categoryID))
}

func (c *PublicClient) SubCategoriesByCategory(ctx context.Context, categoryID int64) ([]SubCategory, error) {
	return list[SubCategory](ctx, c.client, fmt.Sprintf("/subcategories/category/%d", categoryID))
}

func (c *PublicClient) ProductsBySubCategory(ctx context.Context, subCategoryID int64) ([]Product, error) {
	return list[Product](ctx, c.client, fmt.Sprintf("/subcategories/%d/products", subCategoryID))
}
