package catalog

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/jrsteele09/go-storefront-client/cart"
)

type Product struct {
	ID          int64   `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description,omitempty"`
	Price       float64 `json:"price"`
	Image       string  `json:"image,omitempty"`
	Unit        string  `json:"unit,omitempty"`
	Stock       int     `json:"stock"`
	Discount    float64 `json:"discount,omitempty"`
	Publish     bool    `json:"publish"`
	Category    *Ref    `json:"category,omitempty"`
	SubCategory *Ref    `json:"subCategory,omitempty"`
}

// CartProduct is the subset of p a cart line needs.
func (p Product) CartProduct() cart.Product {
	return cart.Product{
		ID:          p.ID,
		Name:        p.Name,
		Price:       p.Price,
		Image:       p.Image,
		Description: p.Description,
	}
}

type Category struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Image string `json:"image,omitempty"`
}

type SubCategory struct {
	ID           int64  `json:"id"`
	Name         string `json:"name"`
	Image        string `json:"image,omitempty"`
	CategoryID   int64  `json:"categoryId,omitempty"`
	CategoryName string `json:"categoryName,omitempty"`
	Category     *Ref   `json:"category,omitempty"`
}

// Ref points at a category or subcategory. The backend sends it as an object,
// a bare id or a bare name depending on the endpoint.
type Ref struct {
	ID   int64  `json:"id,omitempty"`
	Name string `json:"name,omitempty"`
}

func (r *Ref) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case bytes.Equal(data, []byte("null")):
		return nil
	case len(data) > 0 && data[0] == '{':
		type plain Ref
		return json.Unmarshal(data, (*plain)(r))
	case len(data) > 0 && data[0] == '"':
		return json.Unmarshal(data, &r.Name)
	default:
		id, err := strconv.ParseInt(string(data), 10, 64)
		if err != nil {
			return fmt.Errorf("catalog ref: %w", err)
		}
		r.ID = id
		return nil
	}
}

// Counts is the admin dashboard summary.
type Counts struct {
	Products int64 `json:"products"`
	Users    int64 `json:"users"`
}

// ProductInput is the body of an admin create or update.
type ProductInput struct {
	Name          string  `json:"name"`
	Description   string  `json:"description,omitempty"`
	Price         float64 `json:"price"`
	Image         string  `json:"image,omitempty"`
	Unit          string  `json:"unit,omitempty"`
	Stock         int     `json:"stock"`
	Discount      float64 `json:"discount,omitempty"`
	Publish       bool    `json:"publish"`
	CategoryID    int64   `json:"categoryId"`
	SubCategoryID int64   `json:"subCategoryId,omitempty"`
}

type CategoryInput struct {
	Name  string `json:"name"`
	Image string `json:"image,omitempty"`
}

type SubCategoryInput struct {
	Name       string `json:"name"`
	Image      string `json:"image,omitempty"`
	CategoryID int64  `json:"categoryId"`
}
