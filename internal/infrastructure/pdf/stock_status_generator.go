// Package pdf implementa el reporte imprimible de estado de stock.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Título + fecha del reporte                          │
//	│  ─────────────────────────────────────────────────────────  │
//	│  RESUMEN: medicamentos / lotes / unidades / plan diario      │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: Alertas de stock bajo (cobertura en días)            │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: Lotes por vencer dentro de la ventana                │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"
	"time"

	maroto "github.com/johnfercher/maroto/v2"
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

	"github.com/Tanmay-Jain0221/med-inventory/internal/application/dto"
)

var (
	colorPrimary = &props.Color{Red: 0, Green: 90, Blue: 60}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorAlert   = &props.Color{Red: 170, Green: 30, Blue: 30}
)

// StockStatusGenerator genera el PDF de estado de stock usando Maroto v2.
type StockStatusGenerator struct{}

// NewStockStatusGenerator construye el generador.
func NewStockStatusGenerator() *StockStatusGenerator { return &StockStatusGenerator{} }

// Generate genera el reporte y devuelve sus bytes.
func (g *StockStatusGenerator) Generate(
	_ context.Context,
	asOf time.Time,
	overview *dto.OverviewDTO,
	lowStock []dto.LowStockDTO,
	expiring []dto.ExpiringBatchDTO,
) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Estado de stock", true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(asOf))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(overviewRow(overview))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))

	m.AddRows(sectionTitleRow("ALERTAS DE STOCK BAJO"))
	if len(lowStock) == 0 {
		m.AddRows(emptyRow("Sin alertas: todos los medicamentos del plan diario tienen cobertura."))
	} else {
		m.AddRows(lowStockHeaderRow())
		for _, r := range lowStockRows(lowStock) {
			m.AddRows(r)
		}
	}

	m.AddRows(line.NewRow(3))
	m.AddRows(sectionTitleRow("LOTES POR VENCER"))
	if len(expiring) == 0 {
		m.AddRows(emptyRow("Ningún lote con stock vence dentro de la ventana."))
	} else {
		m.AddRows(expiringHeaderRow())
		for _, r := range expiringRows(expiring) {
			m.AddRows(r)
		}
	}

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

// headerRow: título del reporte + fecha.
func headerRow(asOf time.Time) core.Row {
	return row.New(14).Add(
		col.New(8).Add(
			text.New("ESTADO DE STOCK", props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New("Inventario de medicamentos", props.Text{
				Size: 9, Top: 9, Color: colorGray,
			}),
		),
		col.New(4).Add(
			text.New("Fecha: "+asOf.Format("02/01/2006"), props.Text{
				Size: 9, Align: align.Right, Top: 3, Color: colorGray,
			}),
		),
	)
}

// overviewRow: métricas generales en una línea.
func overviewRow(o *dto.OverviewDTO) core.Row {
	metric := func(label, value string) core.Col {
		return col.New(3).Add(
			text.New(label, props.Text{Size: 7, Color: colorGray, Top: 1, Align: align.Center}),
			text.New(value, props.Text{Style: fontstyle.Bold, Size: 11, Top: 5, Align: align.Center}),
		)
	}
	return row.New(13).Add(
		metric("Medicamentos", fmt.Sprintf("%d", o.Medicines)),
		metric("Lotes", fmt.Sprintf("%d", o.Batches)),
		metric("Unidades en stock", o.UnitsInStock.StringFixed(0)),
		metric("En plan diario", fmt.Sprintf("%d", o.DailyPlanned)),
	)
}

func sectionTitleRow(title string) core.Row {
	return row.New(8).Add(col.New(12).Add(
		text.New(title, props.Text{Style: fontstyle.Bold, Size: 9, Color: colorPrimary, Top: 2}),
	))
}

func emptyRow(msg string) core.Row {
	return row.New(6).Add(col.New(12).Add(
		text.New(msg, props.Text{Size: 8, Color: colorGray, Top: 1, Left: 2}),
	))
}

func lowStockHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a, Top: 1,
		}))
	}
	return row.New(6).Add(
		h("Código", 2, align.Left),
		h("Medicamento", 4, align.Left),
		h("Stock", 2, align.Right),
		h("Reorden", 2, align.Right),
		h("Cobertura (días)", 2, align.Right),
	)
}

func lowStockRows(items []dto.LowStockDTO) []core.Row {
	result := make([]core.Row, 0, len(items))
	for _, it := range items {
		cover := "—"
		coverColor := colorGray
		if !it.DaysCover.IsZero() {
			cover = it.DaysCover.StringFixed(1)
			if it.DaysCover.IntPart() < 7 {
				coverColor = colorAlert
			}
		}
		result = append(result, row.New(6).Add(
			col.New(2).Add(text.New(it.MedicineID, props.Text{Size: 8, Top: 1})),
			col.New(4).Add(text.New(it.MedicineName, props.Text{Size: 8, Top: 1})),
			col.New(2).Add(text.New(it.TotalStock.StringFixed(0), props.Text{Size: 8, Align: align.Right, Top: 1})),
			col.New(2).Add(text.New(it.ReorderLevel.StringFixed(0), props.Text{Size: 8, Align: align.Right, Top: 1})),
			col.New(2).Add(text.New(cover, props.Text{Size: 8, Align: align.Right, Top: 1, Color: coverColor})),
		))
	}
	return result
}

func expiringHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a, Top: 1,
		}))
	}
	return row.New(6).Add(
		h("Medicamento", 4, align.Left),
		h("Lote", 2, align.Left),
		h("Cantidad", 2, align.Right),
		h("Vence", 2, align.Right),
		h("Días", 2, align.Right),
	)
}

func expiringRows(items []dto.ExpiringBatchDTO) []core.Row {
	result := make([]core.Row, 0, len(items))
	for _, it := range items {
		daysColor := colorGray
		if it.DaysLeft <= 7 {
			daysColor = colorAlert
		}
		result = append(result, row.New(6).Add(
			col.New(4).Add(text.New(it.MedicineName, props.Text{Size: 8, Top: 1})),
			col.New(2).Add(text.New(it.BatchNo, props.Text{Size: 8, Top: 1})),
			col.New(2).Add(text.New(it.Quantity.StringFixed(0), props.Text{Size: 8, Align: align.Right, Top: 1})),
			col.New(2).Add(text.New(it.ExpiryDate, props.Text{Size: 8, Align: align.Right, Top: 1})),
			col.New(2).Add(text.New(fmt.Sprintf("%d", it.DaysLeft), props.Text{Size: 8, Align: align.Right, Top: 1, Color: daysColor})),
		))
	}
	return result
}
