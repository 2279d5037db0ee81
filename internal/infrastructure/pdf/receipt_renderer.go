// Package pdf renders deletion receipts and reads text out of uploaded PDFs.
//
// Receipt layout (A4):
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: title + audit id    │  date + duration             │
//	│  ─────────────────────────────────────────────────────────  │
//	│  ACCOUNT: deleted employer + company                        │
//	│  ACTOR: who ran the deletion                                │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLE: category | rows removed                             │
//	│  ─────────────────────────────────────────────────────────  │
//	│  FOOTER: QR with the audit id + retention note              │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"fmt"
	"strconv"

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

	"github.com/jhoicas/talent-api/internal/application/ports"
	"github.com/jhoicas/talent-api/internal/domain/entity"
)

var _ ports.ReceiptRenderer = (*ReceiptRenderer)(nil)

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorWhite   = &props.Color{Red: 255, Green: 255, Blue: 255}
)

// ReceiptRenderer renders deletion audits with Maroto v2.
type ReceiptRenderer struct {
	appName string
}

// NewReceiptRenderer builds the renderer. appName is printed as the author.
func NewReceiptRenderer(appName string) *ReceiptRenderer {
	return &ReceiptRenderer{appName: nonEmpty(appName, "talent-api")}
}

// RenderDeletionReceipt returns the PDF bytes of one audit.
func (r *ReceiptRenderer) RenderDeletionReceipt(a *entity.DeletionAudit) ([]byte, error) {
	if a == nil {
		return nil, fmt.Errorf("pdf: nil audit")
	}
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Account deletion receipt", true).
		WithAuthor(r.appName, true).
		Build()

	m := maroto.New(cfg)
	m.AddRows(headerRow(a))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(accountRow(a))
	m.AddRows(actorRow(a))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(tableHeaderRow())
	m.AddRows(statRows(a.Stats)...)
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(footerRows(a)...)

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generate receipt: %w", err)
	}
	return doc.GetBytes(), nil
}

func headerRow(a *entity.DeletionAudit) core.Row {
	return row.New(18).Add(
		col.New(7).Add(
			text.New("ACCOUNT DELETION RECEIPT", props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New("Audit "+a.ID, props.Text{Size: 8, Top: 9, Color: colorGray}),
		),
		col.New(5).Add(
			text.New(a.CreatedAt.UTC().Format("2006-01-02 15:04:05 UTC"), props.Text{
				Style: fontstyle.Bold, Size: 9, Align: align.Right, Top: 2,
			}),
			text.New("Completed in "+a.Duration.String(), props.Text{
				Size: 8, Align: align.Right, Top: 9, Color: colorGray,
			}),
		),
	)
}

func accountRow(a *entity.DeletionAudit) core.Row {
	return row.New(14).Add(
		col.New(12).Add(
			text.New("DELETED ACCOUNT", props.Text{
				Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1,
			}),
			text.New(nonEmpty(a.RootEmail, a.RootUserID), props.Text{
				Style: fontstyle.Bold, Size: 10, Top: 6,
			}),
			text.New(fmt.Sprintf("User: %s   |   Company: %s (%s)",
				a.RootUserID,
				nonEmpty(a.CompanyName, "-"),
				nonEmpty(a.CompanyID, "none"),
			), props.Text{Size: 8, Top: 11, Color: colorGray}),
		),
	)
}

func actorRow(a *entity.DeletionAudit) core.Row {
	return row.New(12).Add(
		col.New(12).Add(
			text.New("PERFORMED BY", props.Text{
				Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1,
			}),
			text.New(fmt.Sprintf("%s (%s)", nonEmpty(a.ActorEmail, "-"), a.ActorID), props.Text{
				Size: 9, Top: 6,
			}),
		),
	)
}

func tableHeaderRow() core.Row {
	return row.New(8).WithStyle(&props.Cell{BackgroundColor: colorPrimary}).Add(
		col.New(9).Add(text.New("Category", props.Text{
			Style: fontstyle.Bold, Size: 8, Color: colorWhite, Top: 2, Left: 2,
		})),
		col.New(3).Add(text.New("Rows", props.Text{
			Style: fontstyle.Bold, Size: 8, Align: align.Right, Color: colorWhite, Top: 2, Right: 2,
		})),
	)
}

// statLines lists the receipt table in print order.
func statLines(s entity.DeletionStats) [][2]string {
	n := func(v int64) string { return strconv.FormatInt(v, 10) }
	return [][2]string{
		{"Users deleted", n(s.Users)},
		{"Users detached from the company", n(s.DetachedUsers)},
		{"Job postings", n(s.Jobs)},
		{"Job applications", n(s.JobApplications)},
		{"Teams", n(s.Teams)},
		{"Profile allocations", n(s.ProfileAllocations)},
		{"Candidate submissions", n(s.RecruiterCandidates)},
		{"Reports", n(s.Reports)},
		{"User creation requests", n(s.CreationRequests)},
		{"Employee deletion requests", n(s.DeletionRequests)},
		{"Employer applications", n(s.EmployerApplications)},
		{"Role change records", n(s.RoleChanges)},
		{"Companies", n(s.Companies)},
	}
}

func statRows(s entity.DeletionStats) []core.Row {
	lines := statLines(s)
	out := make([]core.Row, 0, len(lines))
	for _, l := range lines {
		out = append(out, row.New(7).Add(
			col.New(9).Add(text.New(l[0], props.Text{Size: 8, Top: 1, Left: 2})),
			col.New(3).Add(text.New(l[1], props.Text{Size: 8, Align: align.Right, Top: 1, Right: 2})),
		))
	}
	return out
}

func footerRows(a *entity.DeletionAudit) []core.Row {
	return []core.Row{
		row.New(3),
		row.New(40).Add(
			col.New(3).Add(code.NewQr(a.ID, props.Rect{Percent: 95, Center: true})),
			col.New(9).Add(
				text.New("Keep this receipt. The audit id identifies the deletion in the audit log.", props.Text{
					Size: 8, Top: 4, Left: 3, Color: colorGray,
				}),
				text.New("Deleted data cannot be restored.", props.Text{
					Style: fontstyle.Bold, Size: 9, Top: 16, Left: 3, Color: colorPrimary,
				}),
			),
		),
	}
}

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}
