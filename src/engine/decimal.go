package engine

import "github.com/cockroachdb/apd"

// DecimalContext is the context used for every price computation in the
// engine. 16 digits is far beyond what cent-quoted prices plus a halving
// per trade can produce.
var DecimalContext = apd.Context{
	Precision:   16,
	MaxExponent: apd.MaxExponent,
	MinExponent: apd.MinExponent,
	Traps:       apd.DefaultTraps,
}

var decimalTwo = apd.New(2, 0)

// midpoint is the execution price of a crossed bid/ask pair: neither side
// pays the counterparty's full quoted price.
func midpoint(bid, ask *apd.Decimal) apd.Decimal {
	sum := new(apd.Decimal)
	if _, err := DecimalContext.Add(sum, bid, ask); err != nil {
		panic("midpoint: " + err.Error())
	}
	half := new(apd.Decimal)
	if _, err := DecimalContext.Quo(half, sum, decimalTwo); err != nil {
		panic("midpoint: " + err.Error())
	}
	return *half
}
