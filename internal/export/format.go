package export

import (
	"math"
	"strconv"
)

// nbsp is the grouping/currency separator used by the ru-RU locale.
const nbsp = " "

// FormatCurrency renders an amount the way the ru-RU locale does for rubles
// with no fraction digits: "12 500 ₽" (non-breaking spaces).
func FormatCurrency(amount float64) string {
	negative := amount < 0
	whole := int64(math.Round(math.Abs(amount)))

	s := strconv.FormatInt(whole, 10)
	grouped := make([]byte, 0, len(s)+len(s)/3*2)
	for i := 0; i < len(s); i++ {
		if i > 0 && (len(s)-i)%3 == 0 {
			grouped = append(grouped, nbsp...)
		}
		grouped = append(grouped, s[i])
	}

	out := string(grouped) + nbsp + "₽"
	if negative {
		return "-" + out
	}
	return out
}
