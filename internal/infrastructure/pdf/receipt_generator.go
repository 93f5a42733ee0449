// Package pdf implementa la generación del recibo de venta POS.
//
// Layout de la página A5:
//
//	┌──────────────────────────────────────────────┐
//	│  HEADER: Nombre tienda  │  N° Venta + Fecha  │
//	│  ──────────────────────────────────────────  │
//	│  Cliente / Método de pago / Cajero           │
//	│  ──────────────────────────────────────────  │
//	│  TABLA: Cant | Producto | P.Unit | Subtotal  │
//	│  ──────────────────────────────────────────  │
//	│  TOTALES: Subtotal / Descuento / Imp / TOTAL │
//	│  ──────────────────────────────────────────  │
//	│  FOOTER: QR con N° de venta + leyenda        │
//	└──────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"

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

	"github.com/jhoicas/pos-ledger/internal/domain/entity"
)

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
)

// MarotoReceiptGenerator implementa sales.ReceiptPDFGenerator usando Maroto v2.
type MarotoReceiptGenerator struct {
	storeName string
}

// NewMarotoReceiptGenerator construye el generador con el nombre de la tienda
// que encabeza cada recibo.
func NewMarotoReceiptGenerator(storeName string) *MarotoReceiptGenerator {
	return &MarotoReceiptGenerator{storeName: storeName}
}

// GenerateReceiptPDF genera el PDF del recibo y devuelve sus bytes.
// productNames mapea ProductID -> nombre a mostrar en cada línea.
func (g *MarotoReceiptGenerator) GenerateReceiptPDF(
	_ context.Context,
	sale *entity.Sale,
	items []*entity.SaleItem,
	productNames map[string]string,
) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A5).
		WithLeftMargin(8).WithRightMargin(8).
		WithTopMargin(8).WithBottomMargin(8).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Recibo "+sale.SaleNumber, true).
		WithAuthor(g.storeName, true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(g.headerRow(sale))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(saleInfoRow(sale))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))

	m.AddRows(tableHeaderRow())
	for _, r := range tableItemRows(items, productNames) {
		m.AddRows(r)
	}

	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(totalsRow(sale))

	m.AddRows(line.NewRow(2))
	m.AddRows(line.NewRow(1, props.Line{Color: colorGray, Thickness: 0.3}))
	for _, r := range footerRows(sale) {
		m.AddRows(r)
	}

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar recibo: %w", err)
	}
	return doc.GetBytes(), nil
}

// headerRow: nombre de la tienda (izq) y número de venta + fecha (der).
func (g *MarotoReceiptGenerator) headerRow(sale *entity.Sale) core.Row {
	fecha := sale.CreatedAt.Format("02/01/2006 15:04")

	return row.New(16).Add(
		col.New(6).Add(
			text.New(g.storeName, props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New("Recibo de venta", props.Text{
				Size: 8, Top: 9, Color: colorGray,
			}),
		),
		col.New(6).Add(
			text.New(sale.SaleNumber, props.Text{
				Style: fontstyle.Bold, Size: 11, Align: align.Right, Top: 2,
			}),
			text.New("Fecha: "+fecha, props.Text{
				Size: 8, Align: align.Right, Top: 9, Color: colorGray,
			}),
		),
	)
}

// saleInfoRow: cliente, método de pago y estado.
func saleInfoRow(sale *entity.Sale) core.Row {
	return row.New(10).Add(
		col.New(12).Add(
			text.New(fmt.Sprintf("Cliente: %s   |   Pago: %s   |   Estado: %s",
				nonEmpty(sale.CustomerName, "—"),
				paymentMethodLabel(sale.PaymentMethod),
				statusLabel(sale.Status),
			), props.Text{Size: 8, Top: 2, Color: colorGray}),
		),
	)
}

// tableHeaderRow: cabecera de la tabla de líneas.
func tableHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a,
			Color: colorPrimary, Top: 2, Left: 1, Right: 1,
		}))
	}
	return row.New(8).Add(
		h("Cant.", 1, align.Center),
		h("Producto", 5, align.Left),
		h("P.Unit.", 2, align.Right),
		h("Desc.", 2, align.Right),
		h("Subtotal", 2, align.Right),
	)
}

// tableItemRows: una fila por línea de venta.
func tableItemRows(items []*entity.SaleItem, productNames map[string]string) []core.Row {
	result := make([]core.Row, 0, len(items))
	for _, it := range items {
		name := productNames[it.ProductID]
		if name == "" {
			name = it.ProductID
		}
		if it.VariantID != "" {
			name = name + " (" + it.VariantID + ")"
		}
		result = append(result, row.New(7).Add(
			col.New(1).Add(text.New(
				fmt.Sprintf("%d", it.Quantity),
				props.Text{Size: 8, Align: align.Center, Top: 1},
			)),
			col.New(5).Add(text.New(
				name,
				props.Text{Size: 8, Align: align.Left, Top: 1, Left: 1},
			)),
			col.New(2).Add(text.New(
				"$"+it.UnitPrice.StringFixed(2),
				props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1},
			)),
			col.New(2).Add(text.New(
				"$"+it.Discount.StringFixed(2),
				props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1},
			)),
			col.New(2).Add(text.New(
				"$"+it.Subtotal.StringFixed(2),
				props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1},
			)),
		))
	}
	return result
}

// totalsRow: bloque de totales alineado a la derecha.
func totalsRow(sale *entity.Sale) core.Row {
	label := func(s string) core.Component {
		return text.New(s, props.Text{
			Style: fontstyle.Bold, Size: 9, Align: align.Right, Right: 2,
		})
	}
	value := func(s string) core.Component {
		return text.New(s, props.Text{Size: 9, Align: align.Right, Right: 1})
	}
	grandLabel := func(s string) core.Component {
		return text.New(s, props.Text{
			Style: fontstyle.Bold, Size: 10, Align: align.Right,
			Color: colorPrimary, Right: 2,
		})
	}
	grandValue := func(s string) core.Component {
		return text.New(s, props.Text{
			Style: fontstyle.Bold, Size: 10, Align: align.Right,
			Color: colorPrimary, Right: 1,
		})
	}

	return row.New(30).Add(
		col.New(4),
		col.New(4).Add(
			label("Subtotal:"),
			label("Descuento:"),
			label("Impuesto:"),
			grandLabel("TOTAL:"),
		),
		col.New(4).Add(
			value("$"+sale.Subtotal.StringFixed(2)),
			value("$"+sale.DiscountAmount.StringFixed(2)),
			value("$"+sale.TaxAmount.StringFixed(2)),
			grandValue("$"+sale.Total.StringFixed(2)),
		),
	)
}

// footerRows: QR con el número de venta para reimpresión + leyenda.
func footerRows(sale *entity.Sale) []core.Row {
	rows := []core.Row{
		row.New(30).Add(
			col.New(4).Add(code.NewQr(sale.SaleNumber, props.Rect{
				Percent: 90,
				Center:  true,
			})),
			col.New(8).Add(
				text.New("Escanea el código QR para reimprimir\neste recibo en caja.", props.Text{
					Size: 8, Top: 4, Left: 3, Color: colorGray,
				}),
				text.New("¡Gracias por su compra!", props.Text{
					Style: fontstyle.Bold, Size: 10, Top: 18,
					Left: 3, Color: colorPrimary,
				}),
			),
		),
	}

	rows = append(rows, row.New(6).Add(col.New(12).Add(
		text.New(
			"Conserve este recibo como soporte de cambios y devoluciones.",
			props.Text{Size: 6.5, Color: colorGray, Top: 2},
		),
	)))

	return rows
}

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}

func paymentMethodLabel(method string) string {
	switch method {
	case entity.PaymentMethodCash:
		return "Efectivo"
	case entity.PaymentMethodCard:
		return "Tarjeta"
	case entity.PaymentMethodTransfer:
		return "Transferencia"
	default:
		return method
	}
}

func statusLabel(status string) string {
	switch status {
	case entity.SaleStatusCompleted:
		return "Completada"
	case entity.SaleStatusRefunded:
		return "Reembolsada"
	case entity.SaleStatusPending:
		return "Pendiente"
	default:
		return status
	}
}
