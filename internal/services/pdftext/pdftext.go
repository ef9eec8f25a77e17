package pdftext

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"regexp"
	"strings"
	"sync"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

// Option configures the extractor.
type Option func(*Extractor)

// WithMaxPages limits how many leading pages are read. Zero reads all pages.
func WithMaxPages(n int) Option {
	return func(e *Extractor) {
		if n >= 0 {
			e.maxPages = n
		}
	}
}

// Extractor implements services.TextExtractor on top of pdfcpu.
type Extractor struct {
	maxPages int
}

var disableConfigDir sync.Once

// New constructs an extractor using defaults. pdfcpu runs with its built-in
// configuration and never touches the user config directory.
func New(opts ...Option) *Extractor {
	disableConfigDir.Do(api.DisableConfigDir)
	e := &Extractor{}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// ExtractPages returns the text lines of every page of the PDF at path.
func (e *Extractor) ExtractPages(ctx context.Context, path string) ([][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	conf := model.NewDefaultConfiguration()
	pdf, err := api.ReadValidateAndOptimize(f, conf)
	if err != nil {
		return nil, fmt.Errorf("pdfcpu read: %w", err)
	}

	count := pdf.PageCount
	if e.maxPages > 0 && e.maxPages < count {
		count = e.maxPages
	}
	pages := make([][]string, 0, count)
	for pageNr := 1; pageNr <= count; pageNr++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		lines, err := pageLines(pdf, pageNr)
		if err != nil {
			return nil, fmt.Errorf("page %d: %w", pageNr, err)
		}
		pages = append(pages, lines)
	}
	return pages, nil
}

func pageLines(pdf *model.Context, pageNr int) ([]string, error) {
	r, err := pdfcpu.ExtractPageContent(pdf, pageNr)
	if err != nil {
		return nil, err
	}
	if r == nil {
		return nil, nil
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	return streamLines(data), nil
}

// stringLiteral matches PDF string literals: (text here)
var stringLiteral = regexp.MustCompile(`\(((?:\\.|[^\\)])*)\)`)

// streamLines interprets the text operators of a content stream. Tj, TJ, '
// and " show text; Td, TD, Tm, T*, ' and " begin a new line.
func streamLines(data []byte) []string {
	var (
		lines   []string
		current strings.Builder
	)
	flush := func() {
		text := strings.Join(strings.Fields(current.String()), " ")
		if text != "" {
			lines = append(lines, text)
		}
		current.Reset()
	}
	show := func(line []byte) {
		for _, m := range stringLiteral.FindAllSubmatch(line, -1) {
			current.WriteString(decodeString(m[1]))
		}
	}

	for _, line := range bytes.Split(data, []byte{'\n'}) {
		line = bytes.TrimSpace(line)
		switch {
		case len(line) == 0:
		case bytes.HasSuffix(line, []byte("Tj")), bytes.HasSuffix(line, []byte("TJ")):
			show(line)
		case bytes.HasSuffix(line, []byte("'")), bytes.HasSuffix(line, []byte(`"`)):
			flush()
			show(line)
		case bytes.HasSuffix(line, []byte("Td")), bytes.HasSuffix(line, []byte("TD")),
			bytes.HasSuffix(line, []byte("Tm")), bytes.Equal(line, []byte("T*")),
			bytes.Equal(line, []byte("ET")):
			flush()
		}
	}
	flush()
	return lines
}

// decodeString handles the escape sequences of a PDF string literal.
func decodeString(raw []byte) string {
	var sb strings.Builder
	for i := 0; i < len(raw); i++ {
		if raw[i] != '\\' || i+1 >= len(raw) {
			sb.WriteByte(raw[i])
			continue
		}
		i++
		switch raw[i] {
		case 'n', 'r', 't':
			sb.WriteByte(' ')
		case '\\', '(', ')':
			sb.WriteByte(raw[i])
		default:
			if raw[i] < '0' || raw[i] > '7' {
				sb.WriteByte(raw[i])
				continue
			}
			// Up to three octal digits.
			val := int(raw[i] - '0')
			for n := 0; n < 2 && i+1 < len(raw) && raw[i+1] >= '0' && raw[i+1] <= '7'; n++ {
				i++
				val = val*8 + int(raw[i]-'0')
			}
			sb.WriteByte(byte(val))
		}
	}
	return sb.String()
}
