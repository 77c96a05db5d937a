// Package pdf genera el comprobante de venta (recibo) de una orden con Maroto v2.
//
// Layout de la página A5:
//
//	┌───────────────────────────────────────────┐
//	│  Tienda              │  Recibo N° + Fecha │
//	│  Cliente (si hay)                          │
//	│  ────────────────────────────────────────  │
//	│  Cant | SKU | Producto | P.Unit | Total    │
//	│  ────────────────────────────────────────  │
//	│  Subtotal / Impuesto / Descuento / TOTAL   │
//	│  Pagos                                     │
//	│  QR con el ID de la orden                  │
//	└───────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"
	"strings"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/code"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/retailflow-api/internal/application/orders"
	"github.com/jhoicas/retailflow-api/internal/domain/entity"
)

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
)

var _ orders.ReceiptGenerator = (*MarotoReceiptGenerator)(nil)

// MarotoReceiptGenerator implementa orders.ReceiptGenerator usando Maroto v2.
type MarotoReceiptGenerator struct{}

// NewMarotoReceiptGenerator construye el generador.
func NewMarotoReceiptGenerator() *MarotoReceiptGenerator { return &MarotoReceiptGenerator{} }

// GenerateReceipt genera el PDF y devuelve sus bytes.
func (g *MarotoReceiptGenerator) GenerateReceipt(_ context.Context, data orders.ReceiptData) ([]byte, error) {
	if data.Order == nil {
		return nil, fmt.Errorf("pdf: orden requerida")
	}
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A5).
		WithLeftMargin(8).WithRightMargin(8).
		WithTopMargin(8).WithBottomMargin(8).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 8}).
		WithTitle("Recibo de venta", true).
		WithAuthor(nonEmpty(data.StoreName, "POS"), true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(data))
	if data.Customer != nil {
		m.AddRows(customerRow(data.Customer))
	}
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.4}))

	m.AddRows(tableHeaderRow())
	m.AddRows(itemRows(data.Items)...)

	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(totalsRow(data.Order))
	m.AddRows(paymentRows(data.Payments)...)

	m.AddRows(line.NewRow(3))
	m.AddRows(row.New(30).Add(
		col.New(4).Add(code.NewQr(data.Order.ID, props.Rect{Percent: 90, Center: true})),
		col.New(8).Add(text.New("Gracias por su compra.", props.Text{
			Style: fontstyle.Bold, Size: 9, Top: 10, Left: 3, Color: colorPrimary,
		})),
	))

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

// headerRow: tienda (izq) y número + fecha (der).
func headerRow(data orders.ReceiptData) core.Row {
	return row.New(16).Add(
		col.New(6).Add(
			text.New(nonEmpty(data.StoreName, "POS"), props.Text{
				Style: fontstyle.Bold, Size: 12, Color: colorPrimary, Top: 1,
			}),
		),
		col.New(6).Add(
			text.New("RECIBO DE VENTA", props.Text{
				Style: fontstyle.Bold, Size: 8, Align: align.Right, Color: colorPrimary, Top: 1,
			}),
			text.New(shortID(data.Order.ID), props.Text{
				Style: fontstyle.Bold, Size: 10, Align: align.Right, Top: 6,
			}),
			text.New("Fecha: "+data.Order.CreatedAt.Format("02/01/2006 15:04"), props.Text{
				Size: 7, Align: align.Right, Top: 12, Color: colorGray,
			}),
		),
	)
}

func customerRow(c *entity.Customer) core.Row {
	return row.New(10).Add(col.New(12).Add(
		text.New("Cliente: "+c.FullName, props.Text{Style: fontstyle.Bold, Size: 8, Top: 1}),
		text.New(fmt.Sprintf("Email: %s   |   Tel: %s", nonEmpty(c.Email, "-"), nonEmpty(c.Phone, "-")),
			props.Text{Size: 7, Top: 5, Color: colorGray}),
	))
}

func tableHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 7, Align: a, Top: 1, Color: colorPrimary,
		}))
	}
	return row.New(6).Add(
		h("Cant.", 1, align.Center),
		h("SKU", 2, align.Left),
		h("Producto", 5, align.Left),
		h("P.Unit", 2, align.Right),
		h("Total", 2, align.Right),
	)
}

// itemRows: una fila por línea, en el orden del carrito.
func itemRows(items []*entity.OrderItem) []core.Row {
	rows := make([]core.Row, 0, len(items))
	for _, it := range items {
		rows = append(rows, row.New(5).Add(
			col.New(1).Add(text.New(fmt.Sprintf("%d", it.Qty), props.Text{Size: 7, Align: align.Center})),
			col.New(2).Add(text.New(it.ProductSKU, props.Text{Size: 7})),
			col.New(5).Add(text.New(it.ProductName, props.Text{Size: 7})),
			col.New(2).Add(text.New(formatMoney(it.UnitPrice), props.Text{Size: 7, Align: align.Right})),
			col.New(2).Add(text.New(formatMoney(it.LineTotal), props.Text{Size: 7, Align: align.Right})),
		))
	}
	return rows
}

func totalsRow(o *entity.Order) core.Row {
	label := func(s string) core.Component {
		return text.New(s, props.Text{Style: fontstyle.Bold, Size: 8, Align: align.Right, Right: 2})
	}
	value := func(s string) core.Component {
		return text.New(s, props.Text{Size: 8, Align: align.Right})
	}
	return row.New(22).Add(
		col.New(6),
		col.New(3).Add(
			label("Subtotal:"),
			label("Impuesto:"),
			label("Descuento:"),
			text.New("TOTAL:", props.Text{Style: fontstyle.Bold, Size: 10, Align: align.Right, Right: 2, Color: colorPrimary}),
		),
		col.New(3).Add(
			value(formatMoney(o.Subtotal)),
			value(formatMoney(o.Tax)),
			value("-"+formatMoney(o.Discount)),
			text.New(formatMoney(o.Total), props.Text{Style: fontstyle.Bold, Size: 10, Align: align.Right, Color: colorPrimary}),
		),
	)
}

func paymentRows(payments []*entity.Payment) []core.Row {
	rows := make([]core.Row, 0, len(payments))
	for _, p := range payments {
		rows = append(rows, row.New(5).Add(
			col.New(9).Add(text.New("Pago "+p.Method, props.Text{Size: 7, Align: align.Right, Right: 2, Color: colorGray})),
			col.New(3).Add(text.New(formatMoney(p.Amount), props.Text{Size: 7, Align: align.Right, Color: colorGray})),
		))
	}
	return rows
}

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}

// shortID primeros 8 caracteres del UUID, en mayúsculas.
func shortID(id string) string {
	if len(id) > 8 {
		id = id[:8]
	}
	return strings.ToUpper(id)
}

// formatMoney "$1,234.50": separador de miles y dos decimales.
func formatMoney(d decimal.Decimal) string {
	s := d.Abs().StringFixed(2)
	intPart, frac := s[:len(s)-3], s[len(s)-2:]

	n := len(intPart)
	buf := make([]byte, 0, n+n/3)
	for i, c := range []byte(intPart) {
		if i > 0 && (n-i)%3 == 0 {
			buf = append(buf, ',')
		}
		buf = append(buf, c)
	}
	sign := ""
	if d.IsNegative() {
		sign = "-"
	}
	return sign + "$" + string(buf) + "." + frac
}
