package main

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"text/tabwriter"

	"github.com/jrsteele09/go-storefront-client/app"
)

func init() {
	register(newCartCommand)
	register(newCartAddCommand)
	register(newCartUpdateCommand)
	register(newCartRemoveCommand)
	register(newCartClearCommand)
	register(newPromoCommand)
}

func newCartCommand() Command {
	return &funcCommand{
		info: Info{Name: "cart", Purpose: "show the cart and its totals"},
		run: func(ctx context.Context, e *env) error {
			if err := e.app.LoadCart(ctx); err != nil {
				return err
			}
			return printSummary(e)
		},
	}
}

func newCartAddCommand() Command {
	var productID int64
	return &funcCommand{
		info: Info{Name: "cart-add", Args: "<product-id>", Purpose: "add one unit of a product"},
		init: func(args []string) error { return idArg(args, &productID) },
		run: func(ctx context.Context, e *env) error {
			if err := e.app.AddProduct(ctx, productID); err != nil {
				return err
			}
			return printSummary(e)
		},
	}
}

func newCartUpdateCommand() Command {
	var lineID int64
	var quantity int
	return &funcCommand{
		info: Info{Name: "cart-update", Args: "<line-id> <quantity>", Purpose: "set the quantity of a cart line"},
		init: func(args []string) error {
			var idStr, qtyStr string
			if err := positional(args, &idStr, &qtyStr); err != nil {
				return err
			}
			var err error
			if lineID, err = parseID(idStr); err != nil {
				return err
			}
			if quantity, err = strconv.Atoi(qtyStr); err != nil {
				return fmt.Errorf("invalid quantity %q", qtyStr)
			}
			return nil
		},
		run: func(ctx context.Context, e *env) error {
			if err := e.app.UpdateQuantity(ctx, lineID, quantity); err != nil {
				return err
			}
			return printSummary(e)
		},
	}
}

func newCartRemoveCommand() Command {
	var lineID int64
	return &funcCommand{
		info: Info{Name: "cart-remove", Args: "<line-id>", Purpose: "remove a cart line"},
		init: func(args []string) error { return idArg(args, &lineID) },
		run: func(ctx context.Context, e *env) error {
			if err := e.app.RemoveFromCart(ctx, lineID); err != nil {
				return err
			}
			return printSummary(e)
		},
	}
}

func newCartClearCommand() Command {
	return &funcCommand{
		info: Info{Name: "cart-clear", Purpose: "empty the cart"},
		run: func(ctx context.Context, e *env) error {
			if err := e.app.ClearCart(ctx); err != nil {
				return err
			}
			return printSummary(e)
		},
	}
}

func newPromoCommand() Command {
	var code string
	return &funcCommand{
		info: Info{Name: "promo", Args: "<code>", Purpose: "apply a promo code to the cart totals"},
		init: func(args []string) error { return positional(args, &code) },
		run: func(ctx context.Context, e *env) error {
			if _, err := e.app.ApplyPromo(ctx, code); err != nil {
				return err
			}
			return printSummary(e)
		},
	}
}

func idArg(args []string, dst *int64) error {
	var s string
	if err := positional(args, &s); err != nil {
		return err
	}
	id, err := parseID(s)
	if err != nil {
		return err
	}
	*dst = id
	return nil
}

func printSummary(e *env) error {
	s := e.app.Summary()
	return e.print(s, func(w io.Writer) { writeSummary(w, s) })
}

func writeSummary(w io.Writer, s app.Summary) {
	if len(s.Items) == 0 {
		fmt.Fprintln(w, "Your cart is empty")
	} else {
		tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "LINE\tPRODUCT\tNAME\tPRICE\tQTY\tTOTAL")
		for _, item := range s.Items {
			fmt.Fprintf(tw, "%d\t%d\t%s\t%.2f\t%d\t%.2f\n", item.ID, item.ProductID, item.Name, item.Price, item.Quantity, item.LineTotal())
		}
		_ = tw.Flush()
	}

	t := s.Totals
	fmt.Fprintf(w, "\nSubtotal  %10.2f\n", t.Subtotal)
	if t.Shipping == 0 {
		fmt.Fprintf(w, "Shipping  %10s\n", "FREE")
	} else {
		fmt.Fprintf(w, "Shipping  %10.2f\n", t.Shipping)
	}
	fmt.Fprintf(w, "Tax       %10.2f\n", t.Tax)
	if s.PromoApplied {
		fmt.Fprintf(w, "Discount  %10.2f\n", -t.Discount)
	}
	fmt.Fprintf(w, "Total     %10.2f\n", t.Total)
	if t.Negative() {
		fmt.Fprintln(w, "warning: discount exceeds the order value")
	}
}
