package export

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"time"

	"catalogcore/pkg/domain"
)

var (
	categoryHeader = []string{"id", "name", "slug", "is_active", "sort_order", "created_at"}
	productHeader  = []string{"id", "name", "slug", "sku", "category_id", "brand", "price", "is_active", "stock_quantity", "created_at"}
	orderHeader    = []string{"id", "email", "total", "status", "created_at"}
)

func categoryRows(items []domain.Category) [][]string {
	rows := make([][]string, 0, len(items))
	for _, c := range items {
		rows = append(rows, []string{
			c.ID, c.Name, c.Slug,
			strconv.FormatBool(c.IsActive),
			strconv.Itoa(c.SortOrder),
			c.CreatedAt.UTC().Format(time.RFC3339),
		})
	}
	return rows
}

func productRows(items []domain.Product) [][]string {
	rows := make([][]string, 0, len(items))
	for _, p := range items {
		rows = append(rows, []string{
			p.ID, p.Name, p.Slug, p.SKU, p.CategoryID, p.Brand,
			strconv.FormatFloat(p.Price, 'f', -1, 64),
			strconv.FormatBool(p.IsActive),
			strconv.Itoa(p.StockQuantity),
			p.CreatedAt.UTC().Format(time.RFC3339),
		})
	}
	return rows
}

func orderRows(items []domain.Order) [][]string {
	rows := make([][]string, 0, len(items))
	for _, o := range items {
		rows = append(rows, []string{
			o.ID, o.Email,
			strconv.FormatFloat(o.Total, 'f', 2, 64),
			string(o.Status),
			o.CreatedAt.UTC().Format(time.RFC3339),
		})
	}
	return rows
}

// encode renders rows in the requested format and reports the content type.
func encode(format Format, header []string, rows [][]string) ([]byte, string, error) {
	switch format {
	case FormatCSV:
		buf := &bytes.Buffer{}
		writer := csv.NewWriter(buf)
		if err := writer.Write(header); err != nil {
			return nil, "", err
		}
		for _, row := range rows {
			if err := writer.Write(row); err != nil {
				return nil, "", err
			}
		}
		writer.Flush()
		if err := writer.Error(); err != nil {
			return nil, "", err
		}
		return buf.Bytes(), "text/csv", nil
	case FormatJSON:
		objects := make([]map[string]string, 0, len(rows))
		for _, row := range rows {
			obj := make(map[string]string, len(header))
			for i, col := range header {
				if i < len(row) {
					obj[col] = row[i]
				}
			}
			objects = append(objects, obj)
		}
		payload, err := json.Marshal(objects)
		if err != nil {
			return nil, "", err
		}
		return payload, "application/json", nil
	default:
		return nil, "", fmt.Errorf("unsupported export format %s", format)
	}
}

func bytesReader(payload []byte) io.Reader { return bytes.NewReader(payload) }
