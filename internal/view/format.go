package view

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var (
	brl      = message.NewPrinter(language.BrazilianPortuguese)
	saoPaulo = loadLocation("America/Sao_Paulo")
)

func loadLocation(name string) *time.Location {
	loc, err := time.LoadLocation(name)
	if err != nil {
		return time.UTC
	}
	return loc
}

// Money formats v as Brazilian reais, e.g. "R$ 1.234,50".
func Money(v float64) string {
	return "R$ " + brl.Sprintf("%.2f", v)
}

// Percent formats v with a decimal comma and no trailing zeros.
func Percent(v float64) string {
	return strings.Replace(decimal.NewFromFloat(v).String(), ".", ",", 1) + "%"
}

// Status renders an active flag with the given labels.
func Status(active bool, on, off string) string {
	if active {
		return on
	}
	return off
}
