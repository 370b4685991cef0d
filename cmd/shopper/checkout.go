package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/tidecart/internal/apiclient"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

type wizardState struct {
	Step           int    `json:"step"`
	Aborted        bool   `json:"aborted"`
	SelectedSlotID *uint  `json:"selected_slot_id"`
	LastError      string `json:"last_error"`
	OrderNo        string `json:"order_no"`
}

type submitResult struct {
	Success  bool   `json:"success"`
	OrderNo  string `json:"order_no"`
	Replayed bool   `json:"replayed"`
}

type wizardView struct {
	State          wizardState   `json:"state"`
	StepName       string        `json:"step_name"`
	Cart           *cartView     `json:"cart"`
	DeliverySlots  []catalogSlot `json:"delivery_slots"`
	PaymentMethods []string      `json:"payment_methods"`
	Result         *submitResult `json:"result"`
}

// wizardEnvelope 成功时 data 即视图，失败时视图位于 data.checkout
type wizardEnvelope struct {
	wizardView
	Checkout *wizardView `json:"checkout"`
}

type addressForm struct {
	Name    string `json:"name"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
	City    string `json:"city"`
	State   string `json:"state"`
	Pincode string `json:"pincode"`
}

func (s *shopperCLI) checkoutCmd() *cobra.Command {
	var form addressForm
	var slotID uint
	var method, key string
	cmd := &cobra.Command{
		Use:   "checkout",
		Short: "Run the address, delivery, payment and confirmation steps",
		Long: `Drives the server-side checkout wizard from the first step.

A failed payment leaves the cart untouched. Re-run with the printed --key to
retry without risking a duplicate order: the payment step is resubmitted
first and an order already placed under that key is reported as is.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			retry := cmd.Flags().Changed("key") && strings.TrimSpace(key) != ""
			if !retry {
				key = uuid.NewString()
			}
			ctx, cancel := s.context(cmd)
			defer cancel()
			return s.runCheckout(ctx, cmd.OutOrStdout(), form, slotID, method, key, retry)
		},
	}
	flags := cmd.Flags()
	flags.StringVar(&form.Name, "name", "", "recipient name")
	flags.StringVar(&form.Phone, "phone", "", "contact phone")
	flags.StringVar(&form.Address, "address", "", "street address")
	flags.StringVar(&form.City, "city", "", "city")
	flags.StringVar(&form.State, "state", "", "state")
	flags.StringVar(&form.Pincode, "pincode", "", "pincode")
	flags.UintVar(&slotID, "slot", 0, "delivery slot id (default: first available)")
	flags.StringVar(&method, "method", "UPI", "payment method")
	flags.StringVar(&key, "key", "", "idempotency key (default: random)")
	return cmd
}

func (s *shopperCLI) runCheckout(ctx context.Context, out io.Writer, form addressForm, slotID uint, method, key string, retry bool) error {
	if retry {
		if done, err := s.resumePayment(ctx, out, method, key); done || err != nil {
			return err
		}
	}

	view, err := s.wizardStep(ctx, "/checkout/reset", nil, "")
	if err != nil {
		return err
	}

	if view, err = s.wizardStep(ctx, "/checkout/address", form, ""); err != nil {
		return err
	}
	fmt.Fprintf(out, "[1/4] address saved for %s\n", form.Pincode)

	if slotID == 0 {
		slotID = firstAvailableSlot(view.DeliverySlots)
		if slotID == 0 {
			return errors.New("no delivery slot is available right now")
		}
	}
	if _, err = s.wizardStep(ctx, "/checkout/slot", map[string]uint{"slot_id": slotID}, ""); err != nil {
		return err
	}
	if view, err = s.wizardStep(ctx, "/checkout/continue", nil, ""); err != nil {
		return err
	}
	fmt.Fprintf(out, "[2/4] delivery slot %d selected\n", slotID)
	if view.Cart != nil {
		fmt.Fprintf(out, "      total %s %s\n", view.Cart.Summary.Total, view.Cart.Currency)
	}

	view, err = s.wizardStep(ctx, "/checkout/payment", map[string]string{"payment_method": strings.ToUpper(method)}, key)
	if err != nil {
		fmt.Fprintf(out, "[3/4] payment failed, cart kept. retry with --key %s\n", key)
		return err
	}
	fmt.Fprintf(out, "[3/4] payment method %s accepted\n", strings.ToUpper(method))
	fmt.Fprintf(out, "[4/4] order %s confirmed\n", view.State.OrderNo)
	return nil
}

// resumePayment 重试时先用同一个 key 提交支付：已下单则直接回放，仍停在支付步骤则再提交一次。
// 返回 false 表示会话已不在支付步骤，需要从头走一遍向导
func (s *shopperCLI) resumePayment(ctx context.Context, out io.Writer, method, key string) (bool, error) {
	method = strings.ToUpper(method)
	view, err := s.wizardStep(ctx, "/checkout/payment", map[string]string{"payment_method": method}, key)
	if err == nil {
		if view.Result != nil && view.Result.Replayed {
			fmt.Fprintf(out, "[4/4] order %s was already placed with --key %s\n", view.Result.OrderNo, key)
			return true, nil
		}
		orderNo := view.State.OrderNo
		if view.Result != nil && view.Result.OrderNo != "" {
			orderNo = view.Result.OrderNo
		}
		fmt.Fprintf(out, "[3/4] payment method %s accepted\n", method)
		fmt.Fprintf(out, "[4/4] order %s confirmed\n", orderNo)
		return true, nil
	}
	if view == nil {
		return true, err
	}
	if view.State.Step == 3 && !view.State.Aborted {
		fmt.Fprintf(out, "[3/4] payment failed, cart kept. retry with --key %s\n", key)
		return true, err
	}
	fmt.Fprintf(out, "no pending payment for --key %s, starting over\n", key)
	return false, nil
}

// wizardStep 调用一次向导接口；失败时优先展示服务端记录的 last_error
func (s *shopperCLI) wizardStep(ctx context.Context, endpoint string, body interface{}, key string) (*wizardView, error) {
	opts := apiclient.RequestOptions{Method: http.MethodPost, Body: body, IdempotencyKey: key}
	data, bizErr, err := apiclient.FetchEnvelope[wizardEnvelope](ctx, s.client, endpoint, opts)
	if err != nil {
		return nil, explain(err)
	}
	if bizErr != nil {
		if data.Checkout != nil && data.Checkout.State.LastError != "" {
			return data.Checkout, fmt.Errorf("%s: %s", bizErr.Message, data.Checkout.State.LastError)
		}
		return data.Checkout, explain(bizErr)
	}
	return &data.wizardView, nil
}

func firstAvailableSlot(slots []catalogSlot) uint {
	for _, slot := range slots {
		if slot.Available {
			return slot.ID
		}
	}
	return 0
}
