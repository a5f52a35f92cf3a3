package feed

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"
)

// ParseCSV decodes a CSV document with a header row into a generic feed
// tree. Rows are exposed as a list of maps under the "items" field, so
// CSV mappings use "items" as the item path and plain column names as
// field paths.
func ParseCSV(r io.Reader) (*Node, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("CSV feed is empty")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV header: %w", err)
	}
	for i := range header {
		header[i] = strings.TrimSpace(header[i])
	}

	var rows []*Node
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read CSV row %d: %w", len(rows)+2, err)
		}

		fields := make(map[string]*Node, len(header))
		for i, col := range header {
			if col == "" || i >= len(record) {
				continue
			}
			fields[col] = Scalar(record[i])
		}
		rows = append(rows, Map(fields))
	}

	return Map(map[string]*Node{"items": List(rows...)}), nil
}
