package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/jrsteele09/go-storefront-client/catalog"
	"github.com/juju/gnuflag"
)

func init() {
	register(newProductsCommand)
	register(newProductCommand)
	register(newCategoriesCommand)
}

func newProductsCommand() Command {
	var categoryID, subCategoryID int64
	return &funcCommand{
		info: Info{Name: "products", Args: "[--category ID | --subcategory ID]", Purpose: "list products"},
		setFlags: func(f *gnuflag.FlagSet) {
			f.Int64Var(&categoryID, "category", 0, "only products of this category")
			f.Int64Var(&subCategoryID, "subcategory", 0, "only products of this subcategory")
		},
		init: func(args []string) error {
			if categoryID != 0 && subCategoryID != 0 {
				return errors.New("--category and --subcategory are exclusive")
			}
			return checkEmpty(args)
		},
		run: func(ctx context.Context, e *env) error {
			var products []catalog.Product
			var err error
			switch {
			case categoryID != 0:
				products, err = e.catalog.ProductsByCategory(ctx, categoryID)
			case subCategoryID != 0:
				products, err = e.catalog.ProductsBySubCategory(ctx, subCategoryID)
			default:
				products, err = e.catalog.Products(ctx)
			}
			if err != nil {
				return err
			}
			return e.print(products, func(w io.Writer) { writeProducts(w, products) })
		},
	}
}

func newProductCommand() Command {
	var id int64
	return &funcCommand{
		info: Info{Name: "product", Args: "<id>", Purpose: "show one product"},
		init: func(args []string) error { return idArg(args, &id) },
		run: func(ctx context.Context, e *env) error {
			p, err := e.catalog.Product(ctx, id)
			if err != nil {
				return err
			}
			return e.print(p, func(w io.Writer) {
				fmt.Fprintf(w, "%s (#%d)\n%.2f", p.Name, p.ID, p.Price)
				if p.Unit != "" {
					fmt.Fprintf(w, " per %s", p.Unit)
				}
				fmt.Fprintf(w, ", %d in stock\n", p.Stock)
				if p.Description != "" {
					fmt.Fprintf(w, "\n%s\n", p.Description)
				}
			})
		},
	}
}

func newCategoriesCommand() Command {
	var categoryID int64
	return &funcCommand{
		info: Info{Name: "categories", Args: "[--category ID]", Purpose: "list categories, or the subcategories of one"},
		setFlags: func(f *gnuflag.FlagSet) {
			f.Int64Var(&categoryID, "category", 0, "list this category's subcategories")
		},
		run: func(ctx context.Context, e *env) error {
			if categoryID != 0 {
				subs, err := e.catalog.SubCategoriesByCategory(ctx, categoryID)
				if err != nil {
					return err
				}
				return e.print(subs, func(w io.Writer) {
					tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
					fmt.Fprintln(tw, "ID\tNAME")
					for _, s := range subs {
						fmt.Fprintf(tw, "%d\t%s\n", s.ID, s.Name)
					}
					_ = tw.Flush()
				})
			}
			categories, err := e.catalog.Categories(ctx)
			if err != nil {
				return err
			}
			return e.print(categories, func(w io.Writer) { writeCategories(w, categories) })
		},
	}
}

func writeProducts(w io.Writer, products []catalog.Product) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tPRICE\tSTOCK")
	for _, p := range products {
		fmt.Fprintf(tw, "%d\t%s\t%.2f\t%d\n", p.ID, p.Name, p.Price, p.Stock)
	}
	_ = tw.Flush()
}

func writeCategories(w io.Writer, categories []catalog.Category) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME")
	for _, c := range categories {
		fmt.Fprintf(tw, "%d\t%s\n", c.ID, c.Name)
	}
	_ = tw.Flush()
}
