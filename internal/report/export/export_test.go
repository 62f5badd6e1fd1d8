package export

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestBuildPayload_StampsAndSanitizes(t *testing.T) {
	now := time.Date(2025, 9, 15, 9, 30, 0, 0, time.UTC) // 12:30 in Asia/Riyadh

	p := BuildPayload("reconciliation 2025/09", ExtCSV, []byte("x"), now)
	assert.Equal(t, "reconciliation-2025-09-20250915-123000.csv", p.Filename)
	assert.Equal(t, MimeCSV, p.Mime)
	assert.Equal(t, []byte("x"), p.Buffer)

	p = BuildPayload("", ExtPDF, nil, now)
	assert.Equal(t, "report-20250915-123000.pdf", p.Filename)
	assert.Equal(t, MimePDF, p.Mime)
}

func TestContentDisposition(t *testing.T) {
	h := ContentDisposition("report-202509.csv")
	assert.Equal(t, `attachment; filename="report-202509.csv"; filename*=UTF-8''report-202509.csv`, h)

	h = ContentDisposition("تقرير.csv")
	assert.True(t, strings.HasPrefix(h, `attachment; filename="`))
	assert.Contains(t, h, "filename*=UTF-8''%D8%AA")
	assert.NotContains(t, h[len(`attachment; filename="`):strings.Index(h, `"; filename*`)], "تقرير")
}
