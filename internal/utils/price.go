package utils

import "github.com/shopspring/decimal"

// FormatPrice formate un prix pour l'affichage, ex. 1099.9 -> "$1099.90"
func FormatPrice(price float64) string {
	return FormatAmount(decimal.NewFromFloat(price))
}

func FormatAmount(amount decimal.Decimal) string {
	return "$" + amount.StringFixed(2)
}
