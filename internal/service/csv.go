package service

import (
	"encoding/csv"
	"fmt"
	"io"
)

// WriteCSV writes the records with a header made of every known column present in any record
func WriteCSV(w io.Writer, records []Record) error {
	header := presentColumns(records)

	cw := csv.NewWriter(w)
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("csv couldn't write header: %v", err)
	}
	row := make([]string, len(header))
	for _, r := range records {
		for i, col := range header {
			row[i] = r[col]
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("csv couldn't write row: %v", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

func presentColumns(records []Record) []string {
	var header []string
	for _, col := range Columns {
		for _, r := range records {
			if _, ok := r[col]; ok {
				header = append(header, col)
				break
			}
		}
	}
	return header
}
