package cart

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	apperrors "github.com/jrsteele09/go-storefront-client/internal/errors"
	"github.com/jrsteele09/go-storefront-client/internal/utils"
	"github.com/jrsteele09/go-storefront-client/rest"
)

const cartPath = "/cart"

var _ Remote = (*RESTRemote)(nil)

// RESTRemote talks to the user route group of the backend (…/user/cart).
// The rest.Client it is given must attach the bearer token.
type RESTRemote struct {
	client *rest.Client
}

func NewRESTRemote(client *rest.Client) *RESTRemote {
	return &RESTRemote{client: client}
}

// wireCart is one cart grouping as GET /cart returns it.
type wireCart struct {
	ID    *int64      `json:"id"`
	Items *[]wireItem `json:"items"`
}

// wireItem accepts both flat lines and lines that nest the product.
type wireItem struct {
	ID          *int64       `json:"id"`
	ProductID   *int64       `json:"productId"`
	Name        *string      `json:"name"`
	Price       *float64     `json:"price"`
	Quantity    *int         `json:"quantity"`
	Image       *string      `json:"image"`
	Description *string      `json:"description"`
	Product     *wireProduct `json:"product"`
}

type wireProduct struct {
	ID          *int64   `json:"id"`
	Name        *string  `json:"name"`
	Price       *float64 `json:"price"`
	Image       *string  `json:"image"`
	Description *string  `json:"description"`
}

type addRequest struct {
	ProductID int64 `json:"productId"`
	Quantity  int   `json:"quantity"`
}

type updateRequest struct {
	Quantity int `json:"quantity"`
}

func (r *RESTRemote) FetchCart(ctx context.Context) ([]LineItem, error) {
	var carts []wireCart
	if err := r.client.Get(ctx, cartPath, &carts); err != nil {
		return nil, err
	}
	// one active cart per session; only the first grouping counts
	if len(carts) == 0 {
		return []LineItem{}, nil
	}
	if carts[0].Items == nil {
		return nil, fmt.Errorf("%w: cart grouping has no items array", apperrors.ErrInvalidResponse)
	}
	return normalizeItems(*carts[0].Items)
}

func (r *RESTRemote) AddItem(ctx context.Context, productID int64, quantity int) (Ack, error) {
	body, err := r.client.DoRaw(ctx, http.MethodPost, cartPath, addRequest{ProductID: productID, Quantity: quantity})
	if err != nil {
		return Ack{}, err
	}
	return parseAck(body, productID), nil
}

func (r *RESTRemote) UpdateItem(ctx context.Context, itemID int64, quantity int) (Ack, error) {
	body, err := r.client.DoRaw(ctx, http.MethodPut, fmt.Sprintf("%s/%d", cartPath, itemID), updateRequest{Quantity: quantity})
	if err != nil {
		return Ack{}, err
	}
	return parseAck(body, 0), nil
}

func (r *RESTRemote) RemoveItem(ctx context.Context, itemID int64) (Ack, error) {
	body, err := r.client.DoRaw(ctx, http.MethodDelete, fmt.Sprintf("%s/%d", cartPath, itemID), nil)
	if err != nil {
		return Ack{}, err
	}
	return parseAck(body, 0), nil
}

func (r *RESTRemote) ClearCart(ctx context.Context) (Ack, error) {
	body, err := r.client.DoRaw(ctx, http.MethodDelete, cartPath, nil)
	if err != nil {
		return Ack{}, err
	}
	return parseAck(body, 0), nil
}

// normalizeItems turns wire lines into LineItems, refusing anything that would
// break the cart's invariants.
func normalizeItems(wire []wireItem) ([]LineItem, error) {
	items := make([]LineItem, 0, len(wire))
	seen := make(map[int64]struct{}, len(wire))
	for i, w := range wire {
		item, err := normalizeItem(w)
		if err != nil {
			return nil, fmt.Errorf("%w: item %d: %v", apperrors.ErrInvalidResponse, i, err)
		}
		if _, dup := seen[item.ID]; dup {
			return nil, fmt.Errorf("%w: item %d: duplicate id %d", apperrors.ErrInvalidResponse, i, item.ID)
		}
		seen[item.ID] = struct{}{}
		items = append(items, item)
	}
	return items, nil
}

func normalizeItem(w wireItem) (LineItem, error) {
	if w.ID == nil {
		return LineItem{}, fmt.Errorf("missing id")
	}
	p := w.Product
	if p == nil {
		p = &wireProduct{}
	}

	productID := utils.Coalesce(w.ProductID, p.ID)
	if productID == nil {
		return LineItem{}, fmt.Errorf("missing productId")
	}
	price := utils.Coalesce(w.Price, p.Price)
	if price == nil || *price < 0 {
		return LineItem{}, fmt.Errorf("missing or negative price")
	}
	if w.Quantity == nil || *w.Quantity < 1 {
		return LineItem{}, fmt.Errorf("missing or non-positive quantity")
	}

	return LineItem{
		ID:          *w.ID,
		ProductID:   *productID,
		Name:        utils.FirstNonZero(w.Name, p.Name),
		Price:       *price,
		Quantity:    *w.Quantity,
		Image:       utils.FirstNonZero(w.Image, p.Image),
		Description: utils.FirstNonZero(w.Description, p.Description),
	}, nil
}

// parseAck keeps the raw acknowledgement and, when the body is the created
// line for productID, the line id the backend assigned.
func parseAck(body []byte, productID int64) Ack {
	ack := Ack{Message: strings.TrimSpace(string(body))}
	if productID == 0 || !bytes.HasPrefix(bytes.TrimSpace(body), []byte("{")) {
		return ack
	}
	var line wireItem
	if err := json.Unmarshal(body, &line); err != nil || line.ID == nil {
		return ack
	}
	var nested *int64
	if line.Product != nil {
		nested = line.Product.ID
	}
	if utils.Value(utils.Coalesce(line.ProductID, nested)) == productID {
		ack.ItemID = *line.ID
	}
	return ack
}
