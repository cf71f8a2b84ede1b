package notifier

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/mesarest/comanda-app/models"
	"github.com/mesarest/comanda-app/utils"
)

// SnapshotLine is one flattened order line for kitchen/display consumers.
type SnapshotLine struct {
	Category string          `json:"category"`
	Product  string          `json:"product"`
	Quantity int             `json:"quantity"`
	Price    decimal.Decimal `json:"price"`
}

// BillingDocument is the minimal billing payload downstream systems print.
type BillingDocument struct {
	Number   string          `json:"number"`
	Subtotal decimal.Decimal `json:"subtotal"`
	Tax      decimal.Decimal `json:"tax"`
	Discount decimal.Decimal `json:"discount"`
	Total    decimal.Decimal `json:"total"`
	IssuedAt time.Time       `json:"issued_at"`
}

type OrderSnapshot struct {
	OrderID    uint            `json:"order_id"`
	Number     string          `json:"number"`
	Status     string          `json:"status"`
	TableLabel string          `json:"table_label"`
	ZoneLabel  string          `json:"zone_label"`
	Lines      []SnapshotLine  `json:"lines"`
	Billing    BillingDocument `json:"billing"`
	CreatedAt  time.Time       `json:"created_at"`
}

// Publisher is the post-commit fan-out consumed by the order builder.
// Implementations must be safe for concurrent use.
type Publisher interface {
	PublishOrderCreated(ctx context.Context, snap *OrderSnapshot) error
	PublishOrderStatus(ctx context.Context, snap *OrderSnapshot) error
}

// Snapshot flattens a fully preloaded order. Missing preloads degrade to
// empty labels rather than failing; the snapshot is best-effort by contract.
func Snapshot(order *models.Order) *OrderSnapshot {
	snap := &OrderSnapshot{
		OrderID:    order.ID,
		Number:     order.Number,
		Status:     order.Status,
		TableLabel: order.Table.Number,
		ZoneLabel:  order.Table.Zone.Label,
		Billing: BillingDocument{
			Number:   order.Number,
			Subtotal: order.Subtotal,
			Tax:      order.Tax,
			Discount: order.Discount,
			Total:    order.Total,
			IssuedAt: order.CreatedAt,
		},
		CreatedAt: order.CreatedAt,
	}

	for _, item := range order.Items {
		snap.Lines = append(snap.Lines, SnapshotLine{
			Category: item.Product.Category.Name,
			Product:  item.Product.Name,
			Quantity: item.Quantity,
			Price:    item.Subtotal,
		})
	}
	return snap
}

// Dispatcher fans one snapshot out to every registered publisher in a
// background goroutine. Failures are logged and swallowed; they never
// reach the caller and never affect the committed order.
type Dispatcher struct {
	publishers []Publisher
	timeout    time.Duration
}

func NewDispatcher(publishers ...Publisher) *Dispatcher {
	return &Dispatcher{
		publishers: publishers,
		timeout:    5 * time.Second,
	}
}

func (d *Dispatcher) OrderCreated(order *models.Order) {
	d.dispatch(Snapshot(order), Publisher.PublishOrderCreated)
}

func (d *Dispatcher) OrderStatusChanged(order *models.Order) {
	d.dispatch(Snapshot(order), Publisher.PublishOrderStatus)
}

func (d *Dispatcher) dispatch(snap *OrderSnapshot, send func(Publisher, context.Context, *OrderSnapshot) error) {
	go func() {
		for _, pub := range d.publishers {
			ctx, cancel := context.WithTimeout(context.Background(), d.timeout)
			if err := send(pub, ctx, snap); err != nil {
				utils.ErrorLogger.Errorf("notify order %s: %v", snap.Number, err)
			}
			cancel()
		}
	}()
}
