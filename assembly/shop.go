package assembly

import (
	"github.com/byceps/announce/announcement"
	"github.com/byceps/announce/event"
	"github.com/byceps/announce/webhook"
)

var paymentMethodLabels = map[string]string{
	"bank_transfer": msgPaymentBankTransfer,
	"cash":          msgPaymentCash,
	"direct_debit":  msgPaymentDirectDebit,
	"free":          msgPaymentFree,
}

// paymentMethodLabel localizes known payment methods and passes unknown
// ones through.
func paymentMethodLabel(method string) string {
	if key, ok := paymentMethodLabels[method]; ok {
		return tr(key)
	}
	return method
}

func shopOrderPlaced(e event.ShopOrderPlaced, _ *webhook.Webhook) *announcement.Announcement {
	return text(tr(msgOrderPlaced, name(e.Orderer), e.OrderNumber))
}

func shopOrderCanceled(e event.ShopOrderCanceled, _ *webhook.Webhook) *announcement.Announcement {
	return text(tr(msgOrderCanceled, initiator(e), e.OrderNumber, name(e.Orderer)))
}

func shopOrderPaid(e event.ShopOrderPaid, _ *webhook.Webhook) *announcement.Announcement {
	return text(tr(msgOrderPaid,
		initiator(e), e.OrderNumber, name(e.Orderer), paymentMethodLabel(e.PaymentMethod)))
}
