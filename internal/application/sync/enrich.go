package sync

import (
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/shopspring/decimal"

	"github.com/opsdash/backend/internal/domain/order"
)

// buyerNames is the fixed set of demo buyers sampled during enrichment
var buyerNames = []string{
	"Kim Minjun",
	"Lee Seoyeon",
	"Park Jiho",
	"Choi Haeun",
	"Jung Woojin",
	"Han Sumin",
}

// enrichment amount bounds and cost ratio, simulating real order variance
const (
	amountMin    = 10.0
	amountMax    = 500.0
	costRatioMin = 0.4
	costRatioMax = 0.9
)

// Enrich augments a raw order record with synthetic demo attributes: a
// buyer sampled from a fixed set, a monetary amount within a fixed range
// and a cost that is a fraction of that amount. Pure aside from the
// intentional randomness; the input is never mutated.
func Enrich(raw order.RawOrder) order.RawOrder {
	enriched := raw.Clone()

	amount := decimal.NewFromFloat(amountMin + rand.Float64()*(amountMax-amountMin)).Round(2)
	cost := amount.Mul(decimal.NewFromFloat(costRatioMin + rand.Float64()*(costRatioMax-costRatioMin))).Round(2)

	enriched[order.FieldBuyerName] = buyerNames[rand.IntN(len(buyerNames))]
	enriched[order.FieldOrderAmount] = amount
	enriched[order.FieldCost] = cost
	return enriched
}

// NewDemoOrder synthesizes a local demo order. The identifier carries the
// current UTC time at microsecond precision so it is unique within a run.
func NewDemoOrder(now time.Time) order.RawOrder {
	now = now.UTC()
	id := fmt.Sprintf("DEMO-%s%06d", now.Format("20060102150405"), now.Nanosecond()/1000)
	return order.RawOrder{
		order.FieldAmazonOrderID: id,
		order.FieldOrderStatus:   order.DemoOrderStatus,
		order.FieldPurchaseDate:  now.Format(time.RFC3339),
	}
}
