package events

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/abgdnv/inventory/internal/platform/messaging"
)

// ProductSoldEvent is emitted after a sale has been committed.
// Carrier holds the propagated trace context of the sale.
type ProductSoldEvent struct {
	Carrier        map[string]string `json:"carrier,omitempty"`
	ProductID      int64             `json:"product_id"`
	RemainingStock int32             `json:"remaining_stock"`
	Price          int64             `json:"price"`
	SoldAt         time.Time         `json:"sold_at"`
}

func (e ProductSoldEvent) Subject() string {
	return messaging.ProductsSoldSubject
}

func (e ProductSoldEvent) Payload() ([]byte, error) {
	return json.Marshal(e)
}

// MessageID identifies the sale. Stock only ever decreases, so a product never reports
// the same remaining stock twice.
func (e ProductSoldEvent) MessageID() string {
	return fmt.Sprintf("product-%d-stock-%d", e.ProductID, e.RemainingStock)
}
