package event

import "github.com/google/uuid"

// Order identifies the shop order a shop event is about.
type Order struct {
	ShopID      string    `json:"shop_id"`
	OrderID     uuid.UUID `json:"order_id"`
	OrderNumber string    `json:"order_number"`
	Orderer     User      `json:"orderer"`
}

type ShopOrderPlaced struct {
	Envelope
	Order
}

// ShopOrderCanceled is emitted when an admin (the initiator) cancels an
// order.
type ShopOrderCanceled struct {
	Envelope
	Order
}

// ShopOrderPaid is emitted when an order is marked as paid. PaymentMethod
// is the machine name, e.g. "bank_transfer".
type ShopOrderPaid struct {
	Envelope
	Order
	PaymentMethod string `json:"payment_method"`
}

func (ShopOrderPlaced) Kind() Kind   { return KindShopOrderPlaced }
func (ShopOrderCanceled) Kind() Kind { return KindShopOrderCanceled }
func (ShopOrderPaid) Kind() Kind     { return KindShopOrderPaid }

func (e ShopOrderPlaced) Attributes() Attributes   { return Attributes{AttrShopID: e.ShopID} }
func (e ShopOrderCanceled) Attributes() Attributes { return Attributes{AttrShopID: e.ShopID} }
func (e ShopOrderPaid) Attributes() Attributes     { return Attributes{AttrShopID: e.ShopID} }
