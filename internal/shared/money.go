package shared

import (
	"math"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var clpPrinter = message.NewPrinter(language.MustParse("es-CL"))

// FormatAmount renders a peso amount with es-CL digit grouping and no
// decimals, matching how the portal displays invoice and guide totals.
func FormatAmount(v float64) string {
	return clpPrinter.Sprintf("%d", int64(math.Round(v)))
}

// FormatCount renders an integer with es-CL digit grouping.
func FormatCount(v int64) string {
	return clpPrinter.Sprintf("%d", v)
}
