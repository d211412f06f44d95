package spreadsheet

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"
)

// ErrUnsupportedFormat is wrapped by SourceReadError for files no reader handles.
var ErrUnsupportedFormat = errors.New("unsupported spreadsheet format")

// SourceReadError reports a spreadsheet that could not be opened or decoded.
type SourceReadError struct {
	Source string
	Err    error
}

func (e *SourceReadError) Error() string {
	return fmt.Sprintf("read spreadsheet %s: %v", e.Source, e.Err)
}

func (e *SourceReadError) Unwrap() error { return e.Err }

// Source is one named spreadsheet and a way to open it.
type Source struct {
	Name string
	Open func(ctx context.Context) (io.ReadCloser, error)
}

// FileSource reads a spreadsheet from the local filesystem.
func FileSource(path string) Source {
	return Source{
		Name: filepath.Base(path),
		Open: func(ctx context.Context) (io.ReadCloser, error) {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			return os.Open(path)
		},
	}
}

// Supported reports whether ReadRows can decode name. Legacy BIFF .xls
// workbooks are not readable and are rejected up front.
func Supported(name string) bool {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".xlsx", ".csv":
		return true
	}
	return false
}

// ReadRows decodes the first sheet of an .xlsx workbook, or a .csv file, into cell text.
func ReadRows(name string, r io.Reader) ([][]string, error) {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".xlsx":
		return readXLSX(r)
	case ".csv":
		return readCSV(r)
	default:
		return nil, ErrUnsupportedFormat
	}
}

func readXLSX(r io.Reader) ([][]string, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, errors.New("workbook has no sheets")
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", sheets[0], err)
	}
	return rows, nil
}

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

func readCSV(r io.Reader) ([][]string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	cr := csv.NewReader(bytes.NewReader(bytes.TrimPrefix(data, utf8BOM)))
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true
	rows, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse csv: %w", err)
	}
	return rows, nil
}

// ParseFile opens src and parses its rows. Open and decode failures come back
// as *SourceReadError; a sheet without data rows wraps ErrMalformedInput.
func (p *Parser) ParseFile(ctx context.Context, src Source) ([]Report, error) {
	rc, err := src.Open(ctx)
	if err != nil {
		return nil, &SourceReadError{Source: src.Name, Err: err}
	}
	defer rc.Close()

	rows, err := ReadRows(src.Name, rc)
	if err != nil {
		return nil, &SourceReadError{Source: src.Name, Err: err}
	}
	reports, err := p.ParseRows(rows)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", src.Name, err)
	}
	return reports, nil
}
