package catalog

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

var importColumns = []string{"sku", "name", "category", "description", "price", "currency", "uom"}

func parseProductCSV(data []byte) ([]ProductDto, error) {
	r := csv.NewReader(bytes.NewReader(data))
	r.TrimLeadingSpace = true

	header, err := r.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, invalidImport(1, errors.New("missing header"))
		}
		return nil, invalidImport(1, err)
	}

	index := make(map[string]int, len(header))
	for i, name := range header {
		index[strings.ToLower(strings.TrimSpace(name))] = i
	}
	for _, required := range []string{"sku", "name"} {
		if _, ok := index[required]; !ok {
			return nil, invalidImport(1, fmt.Errorf("missing %s column", required))
		}
	}

	var rows []ProductDto
	for line := 2; ; line++ {
		record, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, invalidImport(line, err)
		}

		field := func(name string) string {
			i, ok := index[name]
			if !ok || i >= len(record) {
				return ""
			}
			return strings.TrimSpace(record[i])
		}

		row := ProductDto{
			SKU:         field("sku"),
			Name:        field("name"),
			Description: field("description"),
			Currency:    field("currency"),
			UOM:         field("uom"),
		}
		if row.SKU == "" || row.Name == "" {
			return nil, invalidImport(line, errors.New("sku and name are required"))
		}

		category, ok := ParseCategory(field("category"))
		if !ok {
			return nil, invalidImport(line, fmt.Errorf("unknown category %q", field("category")))
		}
		row.Category = category

		if raw := field("price"); raw != "" {
			price, err := strconv.ParseFloat(raw, 64)
			if err != nil || price < 0 {
				return nil, invalidImport(line, fmt.Errorf("invalid price %q", raw))
			}
			row.Price = price
		}
		rows = append(rows, row)
	}

	if len(rows) == 0 {
		return nil, invalidImport(2, errors.New("no products"))
	}
	return rows, nil
}
