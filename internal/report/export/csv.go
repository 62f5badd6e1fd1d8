package export

import (
	"bytes"
	"encoding/csv"
	"strconv"

	"github.com/mutazsaeed/fitzy/internal/report/domain"
)

var csvHeader = []string{
	"gymId", "gymName", "visitPrice", "visits", "dues",
	"invoiceNumber", "periodFrom", "periodTo",
}

// WriteCSV renders the full reconciliation dataset: header, one row per
// gym, and a TOTALS trailer carrying only the visits and dues sums.
func WriteCSV(ds domain.ReconciliationDataset) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write(csvHeader); err != nil {
		return nil, err
	}
	for _, item := range ds.Items {
		price := ""
		if item.VisitPrice != nil {
			price = formatAmount(*item.VisitPrice)
		}
		record := []string{
			strconv.FormatInt(item.GymID, 10),
			item.GymName,
			price,
			strconv.Itoa(item.Visits),
			formatAmount(item.Dues),
			item.InvoiceNumber,
			ds.Range.From,
			ds.Range.To,
		}
		if err := w.Write(record); err != nil {
			return nil, err
		}
	}

	trailer := []string{
		"TOTALS", "", "",
		strconv.Itoa(ds.Totals.TotalVisits),
		formatAmount(ds.Totals.TotalDues),
		"", "", "",
	}
	if err := w.Write(trailer); err != nil {
		return nil, err
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func formatAmount(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}
