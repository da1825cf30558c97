// internal/format/format.go
package format

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"

	"luckydraw-crm/internal/domain"
)

// Formatter renders money and dates for display.
type Formatter struct {
	printer *message.Printer
	unit    currency.Unit
	symbol  string
	scale   int
}

func New(currencyCode, locale string) (*Formatter, error) {
	unit, err := currency.ParseISO(strings.ToUpper(currencyCode))
	if err != nil {
		return nil, fmt.Errorf("currency %q: %w", currencyCode, err)
	}
	tag, err := language.Parse(locale)
	if err != nil {
		return nil, fmt.Errorf("locale %q: %w", locale, err)
	}
	p := message.NewPrinter(tag)
	scale, _ := currency.Standard.Rounding(unit)
	return &Formatter{
		printer: p,
		unit:    unit,
		symbol:  p.Sprint(currency.Symbol(unit)),
		scale:   scale,
	}, nil
}

// Money: "₹ 1,234.50".
func (f *Formatter) Money(d decimal.Decimal) string {
	rounded := d.Round(int32(f.scale))
	return f.symbol + " " + f.printer.Sprint(number.Decimal(rounded.InexactFloat64(), number.Scale(f.scale)))
}

func (f *Formatter) Date(d domain.Date) string {
	if d.IsZero() {
		return "-"
	}
	return d.Format("02 Jan 2006")
}

// Month turns "2024-03" into "Mar 2024"; unknown input is returned as is.
func (f *Formatter) Month(key string) string {
	t, err := time.Parse("2006-01", key)
	if err != nil {
		return key
	}
	return t.Format("Jan 2006")
}

func (f *Formatter) Currency() string {
	return f.unit.String()
}
