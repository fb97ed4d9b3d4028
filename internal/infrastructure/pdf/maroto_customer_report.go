// Package pdf genera la ficha de cliente en PDF.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Nombre del cliente + estado  │  Fecha de emisión   │
//	│  ─────────────────────────────────────────────────────────  │
//	│  DATOS: Dirección / Tel / Web / Zammad                       │
//	│  ─────────────────────────────────────────────────────────  │
//	│  CONTACTOS: Nombre | Email                                   │
//	│  NOTAS: Título + contenido                                   │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TICKETS: Total / Abiertos + últimos tickets + QR al listado │
//	└─────────────────────────────────────────────────────────────┘
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

	"github.com/jhoicas/andromeda-crm/internal/application/ports"
	"github.com/jhoicas/andromeda-crm/internal/domain/entity"
)

// maxTicketRows tickets listados en la ficha; el resto se consulta en la mesa de ayuda.
const maxTicketRows = 15

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorWhite   = &props.Color{Red: 255, Green: 255, Blue: 255}
	headerBg     = &props.Cell{BackgroundColor: colorPrimary}
)

// ── Generator ─────────────────────────────────────────────────────────────────

var _ ports.CustomerReportGenerator = (*MarotoReportGenerator)(nil)

// MarotoReportGenerator implementa ports.CustomerReportGenerator usando Maroto v2.
type MarotoReportGenerator struct{}

// NewMarotoReportGenerator construye el generador.
func NewMarotoReportGenerator() *MarotoReportGenerator { return &MarotoReportGenerator{} }

// GenerateCustomerReport genera el PDF y devuelve sus bytes.
func (g *MarotoReportGenerator) GenerateCustomerReport(_ context.Context, r ports.CustomerReport) ([]byte, error) {
	if r.Customer == nil {
		return nil, fmt.Errorf("pdf: cliente requerido")
	}
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Customer report - "+r.Customer.Name, true).
		WithAuthor("Andromeda CRM", true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(r))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(detailsRow(r.Customer))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))

	m.AddRows(sectionTitle(fmt.Sprintf("CONTACTS (%d)", len(r.Contacts))))
	m.AddRows(contactRows(r.Contacts)...)

	m.AddRows(line.NewRow(3))
	m.AddRows(sectionTitle(fmt.Sprintf("NOTES (%d)", len(r.Notes))))
	m.AddRows(noteRows(r.Notes)...)

	m.AddRows(line.NewRow(3))
	m.AddRows(line.NewRow(1, props.Line{Color: colorGray, Thickness: 0.3}))
	m.AddRows(ticketRows(r.Customer, r.Tickets)...)

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

// headerRow: nombre + estado (izq) y fecha de emisión (der).
func headerRow(r ports.CustomerReport) core.Row {
	status := "Active"
	if !r.Customer.IsActive {
		status = "Inactive"
	}
	return row.New(18).Add(
		col.New(8).Add(
			text.New(r.Customer.Name, props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New("Status: "+status, props.Text{
				Size: 9, Top: 9, Color: colorGray,
			}),
		),
		col.New(4).Add(
			text.New("CUSTOMER REPORT", props.Text{
				Style: fontstyle.Bold, Size: 8, Align: align.Right,
				Color: colorPrimary, Top: 1,
			}),
			text.New("Generated: "+r.GeneratedAt.Format("2006-01-02 15:04"), props.Text{
				Size: 8, Align: align.Right, Top: 9, Color: colorGray,
			}),
		),
	)
}

// detailsRow: dirección y medios de contacto del cliente.
func detailsRow(c *entity.Customer) core.Row {
	address := strings.Join(nonBlank(c.Street, c.City, c.State, c.Postal), ", ")
	zammad := "-"
	if c.ZammadID != nil {
		zammad = fmt.Sprintf("#%d", *c.ZammadID)
	}
	return row.New(16).Add(
		col.New(12).Add(
			text.New("CUSTOMER DETAILS", props.Text{
				Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1,
			}),
			text.New("Address: "+nonEmpty(address, "-"), props.Text{Size: 8, Top: 6, Color: colorGray}),
			text.New(fmt.Sprintf("Phone: %s   |   Website: %s   |   Helpdesk organization: %s",
				nonEmpty(c.Phone, "-"),
				nonEmpty(c.Website, "-"),
				zammad,
			), props.Text{Size: 8, Top: 11, Color: colorGray}),
		),
	)
}

func sectionTitle(label string) core.Row {
	return row.New(7).Add(col.New(12).Add(
		text.New(label, props.Text{Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1}),
	))
}

// tableHeader cabecera con fondo de color.
func tableHeader(labels []string, sizes []int) core.Row {
	cols := make([]core.Col, 0, len(labels))
	for i, l := range labels {
		cols = append(cols, col.New(sizes[i]).Add(text.New(l, props.Text{
			Style: fontstyle.Bold, Size: 8, Color: colorWhite, Top: 1.5, Left: 1,
		})))
	}
	return row.New(7).Add(cols...).WithStyle(headerBg)
}

func contactRows(contacts []*entity.Contact) []core.Row {
	if len(contacts) == 0 {
		return []core.Row{emptyRow("No contacts registered.")}
	}
	rows := []core.Row{tableHeader([]string{"Name", "Email"}, []int{5, 7})}
	for _, c := range contacts {
		rows = append(rows, row.New(6).Add(
			col.New(5).Add(text.New(strings.TrimSpace(c.FirstName+" "+c.LastName), props.Text{Size: 8, Top: 1, Left: 1})),
			col.New(7).Add(text.New(c.Email, props.Text{Size: 8, Top: 1, Left: 1})),
		))
	}
	return rows
}

func noteRows(notes []*entity.Note) []core.Row {
	if len(notes) == 0 {
		return []core.Row{emptyRow("No notes registered.")}
	}
	var rows []core.Row
	for _, n := range notes {
		rows = append(rows, row.New(6).Add(col.New(12).Add(
			text.New(n.Title+"  ("+n.CreatedAt.Format("2006-01-02")+")", props.Text{
				Style: fontstyle.Bold, Size: 8, Top: 1,
			}),
		)))
		for _, chunk := range splitEvery(strings.Join(strings.Fields(n.Content), " "), 110) {
			rows = append(rows, row.New(4).Add(col.New(12).Add(
				text.New(chunk, props.Text{Size: 7.5, Color: colorGray, Left: 2}),
			)))
		}
	}
	return rows
}

// ticketRows: resumen + tabla de tickets + QR al listado. Sin datos de la mesa de ayuda se indica.
func ticketRows(c *entity.Customer, sum *entity.TicketSummary) []core.Row {
	rows := []core.Row{sectionTitle("HELPDESK TICKETS")}
	if c.ZammadID == nil {
		return append(rows, emptyRow("Customer is not linked to the helpdesk."))
	}
	if sum == nil {
		return append(rows, emptyRow("Ticket information is currently unavailable."))
	}

	rows = append(rows, row.New(6).Add(col.New(12).Add(
		text.New(fmt.Sprintf("Total tickets: %d   |   Open tickets: %d", sum.TotalCount, sum.OpenCount), props.Text{
			Size: 9, Top: 1,
		}),
	)))
	if len(sum.Tickets) > 0 {
		rows = append(rows, tableHeader([]string{"Number", "Title", "State", "Priority"}, []int{2, 6, 2, 2}))
		for i, t := range sum.Tickets {
			if i == maxTicketRows {
				rows = append(rows, emptyRow(fmt.Sprintf("... and %d more.", len(sum.Tickets)-maxTicketRows)))
				break
			}
			rows = append(rows, row.New(6).Add(
				col.New(2).Add(text.New(t.Number, props.Text{Size: 8, Top: 1, Left: 1})),
				col.New(6).Add(text.New(t.Title, props.Text{Size: 8, Top: 1, Left: 1})),
				col.New(2).Add(text.New(t.State, props.Text{Size: 8, Top: 1, Left: 1})),
				col.New(2).Add(text.New(t.Priority, props.Text{Size: 8, Top: 1, Left: 1})),
			))
		}
	}
	if sum.URL != "" {
		rows = append(rows, row.New(3), row.New(40).Add(
			col.New(3).Add(code.NewQr(sum.URL, props.Rect{Percent: 95, Center: true})),
			col.New(9).Add(
				text.New("Scan the QR code to open the ticket list\nof this customer in the helpdesk.", props.Text{
					Size: 8, Top: 4, Left: 3, Color: colorGray,
				}),
			),
		))
	}
	return rows
}

func emptyRow(msg string) core.Row {
	return row.New(6).Add(col.New(12).Add(
		text.New(msg, props.Text{Size: 8, Style: fontstyle.Italic, Color: colorGray, Top: 1}),
	))
}

// ── helpers ───────────────────────────────────────────────────────────────────

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}

func nonBlank(values ...string) []string {
	out := values[:0:0]
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			out = append(out, strings.TrimSpace(v))
		}
	}
	return out
}

// splitEvery divide s en trozos de max n runas.
func splitEvery(s string, n int) []string {
	var parts []string
	r := []rune(s)
	for len(r) > n {
		parts = append(parts, string(r[:n]))
		r = r[n:]
	}
	if len(r) > 0 {
		parts = append(parts, string(r))
	}
	return parts
}
