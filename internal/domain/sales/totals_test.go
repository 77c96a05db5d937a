package sales_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/retailflow-api/internal/domain/sales"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

// Subtotal 100.00, tasa 0.08, descuento 5.00 ⇒ impuesto 8.00, total 103.00.
func TestCalculate_EscenarioImpuestoYDescuento(t *testing.T) {
	got := sales.Calculate(dec("100.00"), dec("0.08"), dec("5.00"))

	assert.True(t, got.Subtotal.Equal(dec("100.00")))
	assert.True(t, got.Tax.Equal(dec("8.00")), "tax = %s", got.Tax)
	assert.True(t, got.Discount.Equal(dec("5.00")))
	assert.True(t, got.Total.Equal(dec("103.00")), "total = %s", got.Total)
}

func TestCalculate_ImpuestoRedondeadoUnaVez(t *testing.T) {
	// 19.99 * 3 = 59.97; 59.97 * 0.0825 = 4.947525 -> 4.95
	got := sales.Calculate(dec("59.97"), dec("0.0825"), decimal.Zero)

	assert.Equal(t, "4.95", got.Tax.StringFixed(2))
	assert.Equal(t, "64.92", got.Total.StringFixed(2))
}

func TestCalculate_SinImpuestoNiDescuento(t *testing.T) {
	got := sales.Calculate(dec("42.50"), decimal.Zero, decimal.Zero)

	assert.True(t, got.Tax.IsZero())
	assert.True(t, got.Total.Equal(dec("42.50")))
}

// Un descuento con fracción de centavo se redondea antes de restarlo: lo guardado cuadra.
func TestCalculate_DescuentoSeRedondeaAntesDelTotal(t *testing.T) {
	got := sales.Calculate(dec("10.00"), decimal.Zero, dec("5.005"))

	assert.Equal(t, "5.01", got.Discount.String())
	assert.Equal(t, "4.99", got.Total.StringFixed(2))
	assert.True(t, got.Subtotal.Add(got.Tax).Sub(got.Discount).Equal(got.Total))
}

func TestLineTotal_RedondeaADosDecimales(t *testing.T) {
	assert.Equal(t, "3.33", sales.LineTotal(dec("1.111"), 3).StringFixed(2))
	assert.Equal(t, "59.97", sales.LineTotal(dec("19.99"), 3).StringFixed(2))
}

func TestLineAmount_SinRedondeo(t *testing.T) {
	assert.True(t, sales.LineAmount(dec("1.111"), 3).Equal(dec("3.333")))
}
