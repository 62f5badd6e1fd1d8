// Package export renders reconciliation datasets into downloadable
// CSV and PDF payloads.
package export

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	visitdomain "github.com/mutazsaeed/fitzy/internal/visit/domain"
)

const (
	MimeCSV = "text/csv; charset=utf-8"
	MimePDF = "application/pdf"

	ExtCSV = "csv"
	ExtPDF = "pdf"
)

// Payload is a fully rendered download: either the whole buffer is
// written or the request fails, never a truncated file.
type Payload struct {
	Filename string
	Mime     string
	Buffer   []byte
}

var unsafeFilename = regexp.MustCompile(`[^a-zA-Z0-9._-]+`)

// BuildPayload stamps the base name with the generation time in the
// display timezone and picks the mime type from the extension.
func BuildPayload(base, ext string, buf []byte, now time.Time) Payload {
	safe := unsafeFilename.ReplaceAllString(base, "-")
	safe = strings.Trim(safe, "-")
	if safe == "" {
		safe = "report"
	}
	stamp := now.In(visitdomain.DisplayLocation()).Format("20060102-150405")

	mime := MimeCSV
	if ext == ExtPDF {
		mime = MimePDF
	}
	return Payload{
		Filename: fmt.Sprintf("%s-%s.%s", safe, stamp, ext),
		Mime:     mime,
		Buffer:   buf,
	}
}

// ContentDisposition renders the attachment header with both the plain
// ASCII fallback and the RFC 5987 encoded form.
func ContentDisposition(filename string) string {
	ascii := make([]rune, 0, len(filename))
	for _, r := range filename {
		if r < 0x20 || r > 0x7e || r == '"' || r == '\\' {
			ascii = append(ascii, '_')
			continue
		}
		ascii = append(ascii, r)
	}
	return fmt.Sprintf(`attachment; filename="%s"; filename*=UTF-8''%s`, string(ascii), rfc5987(filename))
}

// rfc5987 percent-encodes every byte outside the attr-char set.
func rfc5987(value string) string {
	var b strings.Builder
	for i := 0; i < len(value); i++ {
		c := value[i]
		switch {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9':
			b.WriteByte(c)
		case c == '!' || c == '#' || c == '$' || c == '&' || c == '+' ||
			c == '-' || c == '.' || c == '^' || c == '_' || c == '`' ||
			c == '|' || c == '~':
			b.WriteByte(c)
		default:
			fmt.Fprintf(&b, "%%%02X", c)
		}
	}
	return b.String()
}
