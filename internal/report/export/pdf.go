package export

import (
	"fmt"
	"strconv"

	"github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/props"
	"github.com/mutazsaeed/fitzy/internal/report/domain"
)

// WritePDF renders the reconciliation dataset as a paginated table. The
// title, period line and column header repeat on every page.
func WritePDF(ds domain.ReconciliationDataset) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageNumber(props.PageNumber{
			Pattern: "Page {current} of {total}",
			Place:   props.RightBottom,
		}).
		Build()

	m := maroto.New(cfg)

	err := m.RegisterHeader(
		row.New(10).Add(
			text.NewCol(12, "Monthly Reconciliation", props.Text{
				Size:  16,
				Style: fontstyle.Bold,
			}),
		),
		row.New(6).Add(
			text.NewCol(12, fmt.Sprintf("Period: %s to %s (%s)", ds.Range.From, ds.Range.To, ds.Range.Timezone), props.Text{
				Size: 9,
			}),
		),
		row.New(8).Add(
			text.NewCol(1, "Gym ID", props.Text{Style: fontstyle.Bold, Size: 9}),
			text.NewCol(4, "Gym Name", props.Text{Style: fontstyle.Bold, Size: 9}),
			text.NewCol(2, "Price", props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right}),
			text.NewCol(1, "Visits", props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right}),
			text.NewCol(2, "Dues", props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right}),
			text.NewCol(2, "Invoice #", props.Text{Style: fontstyle.Bold, Size: 9}),
		),
	)
	if err != nil {
		return nil, err
	}

	for _, item := range ds.Items {
		price := ""
		if item.VisitPrice != nil {
			price = formatAmount(*item.VisitPrice)
		}
		m.AddRow(7,
			text.NewCol(1, strconv.FormatInt(item.GymID, 10), props.Text{Size: 9}),
			text.NewCol(4, item.GymName, props.Text{Size: 9}),
			text.NewCol(2, price, props.Text{Size: 9, Align: align.Right}),
			text.NewCol(1, strconv.Itoa(item.Visits), props.Text{Size: 9, Align: align.Right}),
			text.NewCol(2, formatAmount(item.Dues), props.Text{Size: 9, Align: align.Right}),
			text.NewCol(2, item.InvoiceNumber, props.Text{Size: 9}),
		)
	}

	m.AddRow(9,
		text.NewCol(5, "TOTALS", props.Text{Style: fontstyle.Bold, Size: 9}),
		text.NewCol(2, "", props.Text{Size: 9}),
		text.NewCol(1, strconv.Itoa(ds.Totals.TotalVisits), props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right}),
		text.NewCol(2, formatAmount(ds.Totals.TotalDues), props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right}),
		text.NewCol(2, "", props.Text{Size: 9}),
	)

	doc, err := m.Generate()
	if err != nil {
		return nil, err
	}
	return doc.GetBytes(), nil
}
