// Package sales contiene el cálculo de totales de una venta.
// El redondeo a 2 decimales se aplica una sola vez por campo derivado (impuesto, línea, total).
package sales

import "github.com/shopspring/decimal"

// CurrencyPlaces precisión monetaria de la moneda.
const CurrencyPlaces = 2

// Totals totales derivados de una orden.
type Totals struct {
	Subtotal decimal.Decimal
	Tax      decimal.Decimal
	Discount decimal.Decimal
	Total    decimal.Decimal
}

// Round2 redondea a la precisión monetaria (mitad lejos de cero).
func Round2(d decimal.Decimal) decimal.Decimal {
	return d.Round(CurrencyPlaces)
}

// LineTotal = round2(unitPrice * qty).
func LineTotal(unitPrice decimal.Decimal, qty int64) decimal.Decimal {
	return Round2(unitPrice.Mul(decimal.NewFromInt(qty)))
}

// LineAmount importe sin redondear de una línea; se acumula en el subtotal.
func LineAmount(unitPrice decimal.Decimal, qty int64) decimal.Decimal {
	return unitPrice.Mul(decimal.NewFromInt(qty))
}

// Calculate deriva impuesto y total a partir del subtotal acumulado.
//
//	tax   = round2(subtotal * taxRate)
//	total = round2(subtotal + tax - round2(discount))
//
// El impuesto y el total se calculan sobre el subtotal sin redondear; el subtotal
// devuelto se redondea solo para persistirlo con la precisión de la moneda.
// El descuento es un monto de entrada: se lleva a centavos antes de restarlo, así el
// total coincide con el descuento que queda guardado.
func Calculate(subtotal, taxRate, discount decimal.Decimal) Totals {
	tax := Round2(subtotal.Mul(taxRate))
	discount = Round2(discount)
	total := Round2(subtotal.Add(tax).Sub(discount))
	return Totals{
		Subtotal: Round2(subtotal),
		Tax:      tax,
		Discount: discount,
		Total:    total,
	}
}
