package models

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Commodity mirrors the original source's commodity enum
// (original_source/ctenex/domain/entities.py Commodity).
type Commodity string

const (
	CommodityPower      Commodity = "power"
	CommodityNaturalGas Commodity = "natural_gas"
	CommodityCrudeOil   Commodity = "crude_oil"
)

// DeliveryPeriod mirrors original_source's DeliveryPeriod enum.
type DeliveryPeriod string

const (
	DeliveryHourly    DeliveryPeriod = "hourly"
	DeliveryDaily     DeliveryPeriod = "daily"
	DeliveryMonthly   DeliveryPeriod = "monthly"
	DeliveryQuarterly DeliveryPeriod = "quarterly"
	DeliveryYearly    DeliveryPeriod = "yearly"
)

// ParseCommodity validates a configured commodity string.
func ParseCommodity(s string) (Commodity, error) {
	switch Commodity(s) {
	case CommodityPower, CommodityNaturalGas, CommodityCrudeOil:
		return Commodity(s), nil
	default:
		return "", fmt.Errorf("unknown commodity: %s", s)
	}
}

// ParseDeliveryPeriod validates a configured delivery period string.
func ParseDeliveryPeriod(s string) (DeliveryPeriod, error) {
	switch DeliveryPeriod(s) {
	case DeliveryHourly, DeliveryDaily, DeliveryMonthly, DeliveryQuarterly, DeliveryYearly:
		return DeliveryPeriod(s), nil
	default:
		return "", fmt.Errorf("unknown delivery period: %s", s)
	}
}

// Contract is a single member of the static contract universe declared in
// configuration (spec §6 "Environment").
type Contract struct {
	ID             ContractID
	Commodity      Commodity
	DeliveryPeriod DeliveryPeriod
	StartDate      time.Time
	EndDate        time.Time
	Location       string
	TickSize       decimal.Decimal
	ContractSize   decimal.Decimal
}

// ConformsToTick reports whether price is an integer multiple of the
// contract's tick size. The engine itself never calls this (spec §6: "the
// engine itself does not validate ticks") — it exists for the HTTP façade.
func (c Contract) ConformsToTick(price decimal.Decimal) bool {
	if c.TickSize.Sign() <= 0 {
		return true
	}
	return price.Mod(c.TickSize).IsZero()
}
