package dataset

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/fooddemand/api/internal/domain"
)

const (
	MsgUnsupportedFormat = "Unsupported format. Upload CSV, XLSX, or XLS."
	MsgNoTabularRows     = "File parsed but no tabular rows were found."
)

// SupportedExtension reports whether fileName has one of the accepted
// extensions.
func SupportedExtension(fileName string) bool {
	switch strings.ToLower(filepath.Ext(fileName)) {
	case ".csv", ".xlsx", ".xls":
		return true
	}
	return false
}

// parseFile reads the raw upload into headers plus header-keyed rows.
// Blank-header columns get a synthetic column_N name; rows with no non-blank
// cell are dropped.
func parseFile(fileName string, data []byte) ([]string, []map[string]string, error) {
	var matrix [][]string
	var err error
	switch strings.ToLower(filepath.Ext(fileName)) {
	case ".csv":
		matrix, err = parseCSV(data)
	case ".xlsx", ".xls":
		matrix, err = parseExcel(data)
	default:
		return nil, nil, domain.UserError(domain.ErrBadRequest, MsgUnsupportedFormat)
	}
	if err != nil {
		return nil, nil, err
	}
	if len(matrix) == 0 || len(matrix[0]) == 0 {
		return nil, nil, domain.UserError(domain.ErrBadRequest, MsgNoTabularRows)
	}

	headers := make([]string, len(matrix[0]))
	for i, h := range matrix[0] {
		h = strings.TrimSpace(h)
		if h == "" {
			h = fmt.Sprintf("column_%d", i+1)
		}
		headers[i] = h
	}

	var rows []map[string]string
	for _, raw := range matrix[1:] {
		row := make(map[string]string, len(headers))
		blank := true
		for i, h := range headers {
			var cell string
			if i < len(raw) {
				cell = raw[i]
			}
			row[h] = cell
			if strings.TrimSpace(cell) != "" {
				blank = false
			}
		}
		if !blank {
			rows = append(rows, row)
		}
	}
	return headers, rows, nil
}

func parseCSV(data []byte) ([][]string, error) {
	r := csv.NewReader(bytes.NewReader(data))
	r.FieldsPerRecord = -1 // ragged rows are handled downstream
	r.TrimLeadingSpace = true
	var matrix [][]string
	for {
		record, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, domain.UserError(domain.ErrBadRequest, "Unable to parse file.")
		}
		matrix = append(matrix, record)
	}
	return matrix, nil
}

func parseExcel(data []byte) ([][]string, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, domain.UserError(domain.ErrBadRequest, "Unable to parse file.")
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, domain.UserError(domain.ErrBadRequest, MsgNoTabularRows)
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, domain.UserError(domain.ErrBadRequest, "Unable to parse file.")
	}
	return rows, nil
}
