package main

import (
	"context"
	"fmt"
	"io"
	"strconv"

	"github.com/tidecart/internal/apiclient"
	"github.com/tidecart/internal/apiclient/fallback"
	"github.com/tidecart/internal/logger"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

type catalogCategory struct {
	ID   uint   `json:"id"`
	Slug string `json:"slug"`
	Name string `json:"name"`
}

type catalogProduct struct {
	ID         uint   `json:"id"`
	CategoryID uint   `json:"category_id"`
	Slug       string `json:"slug"`
	Name       string `json:"name"`
	Price      string `json:"price"`
	Unit       string `json:"unit"`
	InStock    bool   `json:"in_stock"`
}

type catalogBadge struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

type catalogSlot struct {
	ID        uint   `json:"id"`
	Display   string `json:"display"`
	Available bool   `json:"available"`
}

type catalogSnapshot struct {
	Categories []catalogCategory
	Products   []catalogProduct
	Badges     []catalogBadge
	Slots      []catalogSlot
	Fallbacks  []string
}

func (s *shopperCLI) catalogCmd() *cobra.Command {
	var category string
	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "List categories, products, trust badges and delivery slots",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := s.context(cmd)
			defer cancel()
			snapshot, err := s.fetchCatalog(ctx, category)
			if err != nil {
				return explain(err)
			}
			printCatalog(cmd.OutOrStdout(), snapshot)
			return nil
		},
	}
	cmd.Flags().StringVar(&category, "category", "", "filter products by category slug")
	return cmd
}

// fetchCatalog 并发拉取目录；不可达时按接口选用兜底数据
func (s *shopperCLI) fetchCatalog(ctx context.Context, category string) (*catalogSnapshot, error) {
	snapshot := &catalogSnapshot{}
	fallbacks := make([]bool, 4)

	productQuery := map[string][]string{"page_size": {"100"}}
	if category != "" {
		productQuery["category"] = []string{category}
	}

	group, groupCtx := errgroup.WithContext(ctx)
	group.Go(func() (err error) {
		snapshot.Categories, fallbacks[0], err = fetchOrFallback[[]catalogCategory](groupCtx, s, "/categories", apiclient.RequestOptions{})
		return err
	})
	group.Go(func() (err error) {
		snapshot.Products, fallbacks[1], err = fetchOrFallback[[]catalogProduct](groupCtx, s, "/products", apiclient.RequestOptions{Query: productQuery})
		return err
	})
	group.Go(func() (err error) {
		snapshot.Badges, fallbacks[2], err = fetchOrFallback[[]catalogBadge](groupCtx, s, "/trusted-badges", apiclient.RequestOptions{})
		return err
	})
	group.Go(func() (err error) {
		snapshot.Slots, fallbacks[3], err = fetchOrFallback[[]catalogSlot](groupCtx, s, "/delivery-slots", apiclient.RequestOptions{})
		return err
	})
	if err := group.Wait(); err != nil {
		return nil, err
	}
	for i, name := range []string{"categories", "products", "trusted-badges", "delivery-slots"} {
		if fallbacks[i] {
			snapshot.Fallbacks = append(snapshot.Fallbacks, name)
		}
	}
	return snapshot, nil
}

// fetchOrFallback always_mock 时直接使用兜底数据；服务不可达且允许兜底时降级
func fetchOrFallback[T any](ctx context.Context, s *shopperCLI, endpoint string, opts apiclient.RequestOptions) (T, bool, error) {
	if s.cfg.Client.AlwaysMock {
		return loadFixture[T](s.fixtures, endpoint)
	}
	value, err := apiclient.FetchJSON[T](ctx, s.client, endpoint, opts)
	if err == nil {
		return value, false, nil
	}
	if !s.cfg.Client.FallbackOnErr || !apiclient.IsUnavailable(err) {
		return value, false, err
	}
	logger.Warnw("shopper_catalog_fallback", "endpoint", endpoint, "error", err)
	return loadFixture[T](s.fixtures, endpoint)
}

func loadFixture[T any](fixtures *fallback.Catalog, endpoint string) (T, bool, error) {
	value, ok, err := fallback.Decode[T](fixtures, endpoint)
	if err != nil {
		return value, true, err
	}
	if !ok {
		return value, false, fmt.Errorf("no fallback data for %s", endpoint)
	}
	return value, true, nil
}

func printCatalog(out io.Writer, snapshot *catalogSnapshot) {
	if len(snapshot.Fallbacks) > 0 {
		fmt.Fprintf(out, "! offline data for: %v\n\n", snapshot.Fallbacks)
	}
	names := make(map[uint]string, len(snapshot.Categories))
	for _, c := range snapshot.Categories {
		names[c.ID] = c.Name
	}

	rows := make([][]string, 0, len(snapshot.Products))
	for _, p := range snapshot.Products {
		stock := "in stock"
		if !p.InStock {
			stock = "sold out"
		}
		rows = append(rows, []string{strconv.FormatUint(uint64(p.ID), 10), p.Name, names[p.CategoryID], p.Price + " / " + p.Unit, stock})
	}
	fmt.Fprintln(out, renderTable([]string{"ID", "PRODUCT", "CATEGORY", "PRICE", "STOCK"}, rows))

	if len(snapshot.Badges) > 0 {
		fmt.Fprintln(out)
		for _, b := range snapshot.Badges {
			fmt.Fprintf(out, "* %s: %s\n", b.Title, b.Description)
		}
	}
	if len(snapshot.Slots) > 0 {
		fmt.Fprintln(out, "\nDelivery slots:")
		for _, slot := range snapshot.Slots {
			mark := ""
			if !slot.Available {
				mark = " (full)"
			}
			fmt.Fprintf(out, "  [%d] %s%s\n", slot.ID, slot.Display, mark)
		}
	}
}
