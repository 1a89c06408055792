package order

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Order is a persisted sandbox order pulled from the upstream API.
// AmazonOrderID is the stable natural key; every sync either creates
// the row or overwrites it with the latest upstream values.
type Order struct {
	ID             uint             `gorm:"primaryKey;autoIncrement"`
	AmazonOrderID  string           `gorm:"type:varchar(64);not null;uniqueIndex:idx_orders_amazon_order_id"`
	OrderStatus    *string          `gorm:"type:varchar(32)"`
	PurchaseDate   *time.Time       `gorm:"type:timestamptz"`
	LastUpdateDate *time.Time       `gorm:"type:timestamptz"`
	BuyerName      *string          `gorm:"type:varchar(100)"`
	Amount         *decimal.Decimal `gorm:"type:decimal(18,2)"`
	Cost           *decimal.Decimal `gorm:"type:decimal(18,2)"`
	RawPayload     Payload          `gorm:"type:jsonb"`
	SyncedAt       time.Time        `gorm:"not null;index"`
}

// TableName returns the table name for GORM
func (Order) TableName() string {
	return "orders"
}

// Payload stores the full upstream order record verbatim for auditability.
type Payload map[string]any

// Value implements driver.Valuer, serializing the payload to JSON
func (p Payload) Value() (driver.Value, error) {
	if p == nil {
		return nil, nil
	}
	return json.Marshal(p)
}

// Scan implements sql.Scanner, reading JSON from text or byte columns
func (p *Payload) Scan(value any) error {
	if value == nil {
		*p = nil
		return nil
	}
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, p)
	case string:
		return json.Unmarshal([]byte(v), p)
	default:
		return fmt.Errorf("payload: unsupported column type %T", value)
	}
}

// RawOrder is the loosely-typed order record as received from the upstream
// API. The pipeline only ever reads through the typed accessors below;
// everything else passes through opaquely into Payload.
type RawOrder map[string]any

// Well-known upstream field names. BuyerName, OrderAmount and Cost are
// written by the enrichment step rather than the upstream API.
const (
	FieldAmazonOrderID  = "AmazonOrderId"
	FieldOrderStatus    = "OrderStatus"
	FieldPurchaseDate   = "PurchaseDate"
	FieldLastUpdateDate = "LastUpdateDate"
	FieldBuyerName      = "BuyerName"
	FieldOrderAmount    = "OrderAmount"
	FieldCost           = "Cost"
)

// AmazonOrderID returns the external order identifier, empty if absent
func (r RawOrder) AmazonOrderID() string {
	s, _ := r[FieldAmazonOrderID].(string)
	return s
}

// OrderStatus returns the upstream order status, nil if absent or empty
func (r RawOrder) OrderStatus() *string {
	return r.stringField(FieldOrderStatus)
}

// BuyerName returns the enriched buyer name, nil if absent
func (r RawOrder) BuyerName() *string {
	return r.stringField(FieldBuyerName)
}

// PurchaseDate returns the parsed purchase timestamp in UTC, nil if absent
func (r RawOrder) PurchaseDate() *time.Time {
	return r.timeField(FieldPurchaseDate)
}

// LastUpdateDate returns the parsed last-update timestamp in UTC, nil if absent
func (r RawOrder) LastUpdateDate() *time.Time {
	return r.timeField(FieldLastUpdateDate)
}

// Amount returns the enriched monetary amount, nil if absent
func (r RawOrder) Amount() *decimal.Decimal {
	return r.decimalField(FieldOrderAmount)
}

// Cost returns the enriched cost, nil if absent
func (r RawOrder) Cost() *decimal.Decimal {
	return r.decimalField(FieldCost)
}

// Payload returns the full record as an opaque pass-through payload
func (r RawOrder) Payload() Payload {
	return Payload(r)
}

// Clone returns a shallow copy so enrichment never mutates its input
func (r RawOrder) Clone() RawOrder {
	out := make(RawOrder, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}

func (r RawOrder) stringField(key string) *string {
	s, ok := r[key].(string)
	if !ok || s == "" {
		return nil
	}
	return &s
}

func (r RawOrder) timeField(key string) *time.Time {
	s, ok := r[key].(string)
	if !ok {
		return nil
	}
	return ParseUpstreamTime(s)
}

func (r RawOrder) decimalField(key string) *decimal.Decimal {
	switch v := r[key].(type) {
	case decimal.Decimal:
		return &v
	case string:
		d, err := decimal.NewFromString(v)
		if err != nil {
			return nil
		}
		return &d
	case float64:
		d := decimal.NewFromFloat(v)
		return &d
	case json.Number:
		d, err := decimal.NewFromString(v.String())
		if err != nil {
			return nil
		}
		return &d
	default:
		return nil
	}
}

// upstream timestamps are ISO-8601 with an optional Z suffix; values
// without an offset are taken as UTC
var upstreamTimeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
}

// ParseUpstreamTime parses an upstream timestamp string into a UTC instant.
// Absent, empty or malformed values map to nil, never an error.
func ParseUpstreamTime(value string) *time.Time {
	if value == "" {
		return nil
	}
	for _, layout := range upstreamTimeLayouts {
		if t, err := time.ParseInLocation(layout, value, time.UTC); err == nil {
			utc := t.UTC()
			return &utc
		}
	}
	return nil
}
