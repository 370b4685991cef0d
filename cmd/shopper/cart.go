package main

import (
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/tidecart/internal/apiclient"

	"github.com/spf13/cobra"
)

type cartLine struct {
	ProductID uint   `json:"product_id"`
	Name      string `json:"name"`
	UnitPrice string `json:"unit_price"`
	Quantity  int    `json:"quantity"`
}

type cartSummary struct {
	Subtotal    string `json:"subtotal"`
	DeliveryFee string `json:"delivery_fee"`
	Discount    string `json:"discount"`
	Total       string `json:"total"`
}

type cartView struct {
	Items    []cartLine  `json:"items"`
	Summary  cartSummary `json:"summary"`
	Currency string      `json:"currency"`
}

type cartMutation struct {
	Cart    cartView `json:"cart"`
	Clamped bool     `json:"clamped"`
	Notice  string   `json:"notice"`
}

func (s *shopperCLI) cartCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cart",
		Short: "Show or change the cart",
	}

	show := &cobra.Command{
		Use:   "show",
		Short: "Print cart lines and totals",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := s.context(cmd)
			defer cancel()
			view, err := apiclient.FetchJSON[cartView](ctx, s.client, "/cart", apiclient.RequestOptions{})
			if err != nil {
				return explain(err)
			}
			printCart(cmd.OutOrStdout(), view)
			return nil
		},
	}

	add := &cobra.Command{
		Use:   "add <product_id> [quantity]",
		Short: "Add a product (quantities merge per product)",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			productID, err := strconv.ParseUint(args[0], 10, 64)
			if err != nil || productID == 0 {
				return fmt.Errorf("invalid product id %q", args[0])
			}
			quantity := 1
			if len(args) == 2 {
				if quantity, err = strconv.Atoi(args[1]); err != nil || quantity <= 0 {
					return fmt.Errorf("invalid quantity %q", args[1])
				}
			}
			ctx, cancel := s.context(cmd)
			defer cancel()
			result, err := apiclient.FetchJSON[cartMutation](ctx, s.client, "/cart", apiclient.RequestOptions{
				Method: http.MethodPost,
				Body:   map[string]interface{}{"product_id": productID, "quantity": quantity},
			})
			if err != nil {
				return explain(err)
			}
			if result.Notice != "" {
				fmt.Fprintf(cmd.OutOrStdout(), "note: %s\n", result.Notice)
			}
			printCart(cmd.OutOrStdout(), result.Cart)
			return nil
		},
	}

	clearCmd := &cobra.Command{
		Use:   "clear",
		Short: "Remove every line",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := s.context(cmd)
			defer cancel()
			if _, err := apiclient.FetchJSON[map[string]bool](ctx, s.client, "/cart", apiclient.RequestOptions{Method: http.MethodDelete}); err != nil {
				return explain(err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "cart cleared")
			return nil
		},
	}

	cmd.AddCommand(show, add, clearCmd)
	return cmd
}

func printCart(out io.Writer, view cartView) {
	if len(view.Items) == 0 {
		fmt.Fprintln(out, "cart is empty")
		return
	}
	rows := make([][]string, 0, len(view.Items))
	for _, line := range view.Items {
		rows = append(rows, []string{strconv.FormatUint(uint64(line.ProductID), 10), line.Name, strconv.Itoa(line.Quantity), line.UnitPrice})
	}
	fmt.Fprintln(out, renderTable([]string{"ID", "ITEM", "QTY", "UNIT"}, rows))
	fmt.Fprintf(out, "\nsubtotal %s  delivery %s  discount -%s  total %s %s\n",
		view.Summary.Subtotal, view.Summary.DeliveryFee, view.Summary.Discount, view.Summary.Total, view.Currency)
}
