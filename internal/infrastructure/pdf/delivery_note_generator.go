// Package pdf renders the delivery note (bordereau de livraison) handed
// to the driver, using Maroto v2.
//
// A4 layout:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Cooperative name    │  Delivery number + date      │
//	│  ───────────────────────────────────────────────────────── │
//	│  WHOLESALER: name + contact                                 │
//	│  DRIVER: name + phone                                       │
//	│  ───────────────────────────────────────────────────────── │
//	│  TABLE: Qty | Product | Lot code | Unit                     │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"

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

	appdelivery "github.com/mokpokpo/supply-api/internal/application/delivery"
	"github.com/mokpokpo/supply-api/internal/domain/entity"
)

var _ appdelivery.NotePDFGenerator = (*MarotoNoteGenerator)(nil)

var (
	colorPrimary = &props.Color{Red: 72, Green: 54, Blue: 24}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
)

// MarotoNoteGenerator renders delivery notes with Maroto v2.
type MarotoNoteGenerator struct{}

// NewMarotoNoteGenerator builds the generator.
func NewMarotoNoteGenerator() *MarotoNoteGenerator { return &MarotoNoteGenerator{} }

// GenerateDeliveryNote renders the PDF and returns its bytes.
func (g *MarotoNoteGenerator) GenerateDeliveryNote(_ context.Context, delivery *entity.Delivery,
	wholesaler, driver *entity.User, lines []appdelivery.NoteLine) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Bordereau de livraison "+delivery.Number, true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(delivery))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(partyRow("GROSSISTE", wholesaler))
	m.AddRows(partyRow("LIVREUR", driver))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))

	m.AddRows(tableHeaderRow())
	for _, r := range tableLineRows(lines) {
		m.AddRows(r)
	}

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generate document: %w", err)
	}
	return doc.GetBytes(), nil
}

// headerRow: cooperative name (left), delivery number + dates (right).
func headerRow(delivery *entity.Delivery) core.Row {
	return row.New(18).Add(
		col.New(7).Add(
			text.New("Coopérative Mokpokpo", props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New("Café & Cacao", props.Text{Size: 9, Top: 9, Color: colorGray}),
		),
		col.New(5).Add(
			text.New("BORDEREAU DE LIVRAISON", props.Text{
				Style: fontstyle.Bold, Size: 8, Align: align.Right, Color: colorPrimary, Top: 1,
			}),
			text.New(delivery.Number, props.Text{
				Style: fontstyle.Bold, Size: 12, Align: align.Right, Top: 7,
			}),
			text.New("Livraison demandée: "+delivery.RequestedDate.Format("02/01/2006"), props.Text{
				Size: 8, Align: align.Right, Top: 14, Color: colorGray,
			}),
		),
	)
}

// partyRow: one labelled block for wholesaler or driver.
func partyRow(label string, user *entity.User) core.Row {
	name := "—"
	contact := "—"
	if user != nil {
		name = fmt.Sprintf("%s %s", user.FirstName, user.LastName)
		contact = nonEmpty(user.Phone, nonEmpty(user.Email, "—"))
	}
	return row.New(12).Add(
		col.New(12).Add(
			text.New(label, props.Text{
				Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1,
			}),
			text.New(fmt.Sprintf("%s   |   Contact: %s", name, contact),
				props.Text{Size: 9, Top: 7}),
		),
	)
}

// tableHeaderRow: line table header.
func tableHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a, Color: colorPrimary, Top: 2,
		}))
	}
	return row.New(8).Add(
		h("Qté", 2, align.Center),
		h("Produit", 5, align.Left),
		h("Lot", 3, align.Left),
		h("Unité", 2, align.Center),
	)
}

// tableLineRows: one row per delivery line.
func tableLineRows(lines []appdelivery.NoteLine) []core.Row {
	result := make([]core.Row, 0, len(lines))
	for _, l := range lines {
		result = append(result, row.New(7).Add(
			col.New(2).Add(text.New(l.Quantity.String(), props.Text{Size: 8, Align: align.Center, Top: 1})),
			col.New(5).Add(text.New(l.ProductName, props.Text{Size: 8, Top: 1})),
			col.New(3).Add(text.New(nonEmpty(l.LotCode, "—"), props.Text{Size: 8, Top: 1})),
			col.New(2).Add(text.New(l.Unit, props.Text{Size: 8, Align: align.Center, Top: 1})),
		))
	}
	return result
}

func nonEmpty(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}
