package main

import (
	"context"
	"fmt"
	"io"

	"github.com/jrsteele09/go-storefront-client/catalog"
	"github.com/juju/gnuflag"
)

func init() {
	register(newAdminCountsCommand)
	register(newAdminCategoriesCommand)
	register(newAdminCategoryAddCommand)
	register(newAdminCategoryDeleteCommand)
	register(newAdminProductsCommand)
	register(newAdminProductDeleteCommand)
}

func newAdminCountsCommand() Command {
	return &funcCommand{
		info: Info{Name: "admin-counts", Purpose: "show product and user totals"},
		run: func(ctx context.Context, e *env) error {
			return e.app.Admin(ctx, func(admin *catalog.AdminClient) error {
				counts, err := admin.Counts(ctx)
				if err != nil {
					return err
				}
				return e.print(counts, func(w io.Writer) {
					fmt.Fprintf(w, "Products: %d\nUsers:    %d\n", counts.Products, counts.Users)
				})
			})
		},
	}
}

func newAdminCategoriesCommand() Command {
	return &funcCommand{
		info: Info{Name: "admin-categories", Purpose: "list categories as an admin"},
		run: func(ctx context.Context, e *env) error {
			return e.app.Admin(ctx, func(admin *catalog.AdminClient) error {
				categories, err := admin.Categories(ctx)
				if err != nil {
					return err
				}
				return e.print(categories, func(w io.Writer) { writeCategories(w, categories) })
			})
		},
	}
}

func newAdminCategoryAddCommand() Command {
	var in catalog.CategoryInput
	return &funcCommand{
		info: Info{Name: "admin-category-add", Args: "<name> [--image URL]", Purpose: "create a category"},
		setFlags: func(f *gnuflag.FlagSet) {
			f.StringVar(&in.Image, "image", "", "image URL")
		},
		init: func(args []string) error { return positional(args, &in.Name) },
		run: func(ctx context.Context, e *env) error {
			return e.app.Admin(ctx, func(admin *catalog.AdminClient) error {
				created, err := admin.AddCategory(ctx, in)
				if err != nil {
					return err
				}
				return e.print(created, func(w io.Writer) {
					fmt.Fprintf(w, "Created category %s (#%d)\n", created.Name, created.ID)
				})
			})
		},
	}
}

func newAdminCategoryDeleteCommand() Command {
	var id int64
	return &funcCommand{
		info: Info{Name: "admin-category-delete", Args: "<id>", Purpose: "delete a category"},
		init: func(args []string) error { return idArg(args, &id) },
		run: func(ctx context.Context, e *env) error {
			return e.app.Admin(ctx, func(admin *catalog.AdminClient) error {
				if err := admin.DeleteCategory(ctx, id); err != nil {
					return err
				}
				return e.print(map[string]int64{"deleted": id}, func(w io.Writer) {
					fmt.Fprintf(w, "Deleted category #%d\n", id)
				})
			})
		},
	}
}

func newAdminProductsCommand() Command {
	return &funcCommand{
		info: Info{Name: "admin-products", Purpose: "list all products, published or not"},
		run: func(ctx context.Context, e *env) error {
			return e.app.Admin(ctx, func(admin *catalog.AdminClient) error {
				products, err := admin.Products(ctx)
				if err != nil {
					return err
				}
				return e.print(products, func(w io.Writer) { writeProducts(w, products) })
			})
		},
	}
}

func newAdminProductDeleteCommand() Command {
	var id int64
	return &funcCommand{
		info: Info{Name: "admin-product-delete", Args: "<id>", Purpose: "delete a product"},
		init: func(args []string) error { return idArg(args, &id) },
		run: func(ctx context.Context, e *env) error {
			return e.app.Admin(ctx, func(admin *catalog.AdminClient) error {
				if err := admin.DeleteProduct(ctx, id); err != nil {
					return err
				}
				return e.print(map[string]int64{"deleted": id}, func(w io.Writer) {
					fmt.Fprintf(w, "Deleted product #%d\n", id)
				})
			})
		},
	}
}
