package cli

import (
	"io"
	"strings"

	"github.com/ram-us/internal/storefront"

	"github.com/spf13/cobra"
)

// NewLoginCommand 用 Telegram initData 换取 Token
func NewLoginCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "login <init-data>",
		Short: "Exchange Telegram initData for a user token",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := opts.client().LoginTelegram(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return opts.formatter(cmd).Emit(result, func(w io.Writer) {
				line(w, "token\t%s", result.Token)
				line(w, "expires_at\t%s", result.ExpiresAt.Format("2006-01-02 15:04"))
			})
		},
	}
}

// NewCategoriesCommand 输出分类树
func NewCategoriesCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "categories",
		Short: "Print the category tree",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			tree, err := storefront.NewCatalog(opts.client()).Tree(cmd.Context())
			if err != nil {
				return err
			}
			return opts.formatter(cmd).Emit(tree, func(w io.Writer) {
				printCategoryNodes(w, tree, 0)
			})
		},
	}
}

func printCategoryNodes(w io.Writer, nodes []*storefront.CategoryNode, depth int) {
	for _, node := range nodes {
		line(w, "%s%d\t%s", strings.Repeat("  ", depth), node.ID, node.Name)
		printCategoryNodes(w, node.Children, depth+1)
	}
}

// NewProductsCommand 分页浏览商品
func NewProductsCommand(opts *RootOptions) *cobra.Command {
	var query storefront.ProductQuery
	cmd := &cobra.Command{
		Use:   "products",
		Short: "Browse the parts catalog",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			page, err := storefront.NewCatalog(opts.client()).Browse(cmd.Context(), query)
			if err != nil {
				return err
			}
			return opts.formatter(cmd).Emit(page, func(w io.Writer) {
				line(w, "ID\tPART\tNAME\tPRICE\tSTOCK")
				for _, p := range page.Items {
					line(w, "%d\t%s\t%s\t%s\t%d", p.ID, p.PartNumber, p.Name, p.PriceRub.StringFixed(2), p.Stock)
				}
				line(w, "page %d, %d total", page.Page, page.Total)
			})
		},
	}
	cmd.Flags().IntVar(&query.Page, "page", 1, "page number")
	cmd.Flags().IntVar(&query.PageSize, "page-size", 20, "page size")
	cmd.Flags().UintVar(&query.CategoryID, "category", 0, "category id")
	cmd.Flags().StringVarP(&query.Search, "search", "s", "", "search by name or part number")
	cmd.Flags().StringVar(&query.Brand, "brand", "", "brand filter")
	cmd.Flags().BoolVar(&query.InStock, "in-stock", false, "only products in stock")
	cmd.Flags().StringVar(&query.Sort, "sort", "", "sort order")
	return cmd
}

// NewFavoritesCommand 收藏列表与切换
func NewFavoritesCommand(opts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "favorites",
		Short: "List favorite product ids",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store := storefront.NewFavoritesStore(opts.client(), opts.log())
			if err := store.Fetch(cmd.Context()); err != nil {
				return err
			}
			ids := store.IDs()
			return opts.formatter(cmd).Emit(ids, func(w io.Writer) {
				for _, id := range ids {
					line(w, "%d", id)
				}
			})
		},
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "toggle <product-id>",
		Short: "Add or remove a product from favorites",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseProductID(args[0])
			if err != nil {
				return err
			}
			store := storefront.NewFavoritesStore(opts.client(), opts.log())
			if err := store.Fetch(cmd.Context()); err != nil {
				return err
			}
			member := store.Toggle(cmd.Context(), id)
			out := map[string]interface{}{"product_id": id, "favorite": member}
			return opts.formatter(cmd).Emit(out, func(w io.Writer) {
				line(w, "%d\tfavorite=%t", id, member)
			})
		},
	})
	return cmd
}
