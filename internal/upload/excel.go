package upload

import (
	apiError "collaborative-annotation-server/internal/errors"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"
)

// ExcelParser reads the first sheet of a workbook row by row with the same
// column shape as the CSV parser: `text` or `text,label`, optional header.
type ExcelParser struct{}

func (p *ExcelParser) Parse(input io.Reader) (*RecordReader, error) {
	file, err := excelize.OpenReader(input)
	if err != nil {
		return nil, apiError.Format(0, "invalid Excel workbook", err)
	}

	sheets := file.GetSheetList()
	if len(sheets) == 0 {
		file.Close()
		return nil, apiError.Format(0, "workbook has no sheets", nil)
	}

	rows, err := file.Rows(sheets[0])
	if err != nil {
		file.Close()
		return nil, apiError.Format(0, "can't read workbook rows", err)
	}

	index := 0
	sawHeader := false

	return NewRecordReader(func() (*Record, error) {
		for rows.Next() {
			row, err := rows.Columns()
			if err != nil {
				rows.Close()
				file.Close()
				return nil, apiError.Format(index, "invalid row", err)
			}

			if !sawHeader {
				sawHeader = true
				if len(row) > 0 && strings.EqualFold(strings.TrimSpace(row[0]), "text") {
					continue
				}
			}

			// excelize reports trailing empty cells; drop them before
			// validating arity
			for len(row) > 0 && strings.TrimSpace(row[len(row)-1]) == "" {
				row = row[:len(row)-1]
			}
			if len(row) == 0 {
				continue
			}

			record, err := csvRowToRecord(index, row)
			if err != nil {
				rows.Close()
				file.Close()
				return nil, err
			}
			index++
			if record == nil {
				continue // blank row
			}
			return record, nil
		}

		rows.Close()
		file.Close()
		return nil, io.EOF
	}), nil
}
