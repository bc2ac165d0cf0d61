package pipeline

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
)

// ToJSON serializes a RegionSet to pretty JSON.
func ToJSON(rs *RegionSet) (string, error) {
	if rs == nil {
		return "", errors.New("nil result")
	}
	b, err := json.MarshalIndent(rs, "", "  ")
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// ToPlainText extracts region text in merge order, one region per line.
func ToPlainText(rs *RegionSet) (string, error) {
	if rs == nil {
		return "", errors.New("nil result")
	}
	return rs.Text(), nil
}

// ToCSV exports per-region structured data as CSV with header.
func ToCSV(rs *RegionSet) (string, error) {
	if rs == nil {
		return "", errors.New("nil result")
	}
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	_ = w.Write([]string{"min_x", "min_y", "max_x", "max_y", "script", "language", "text"})
	for i := range rs.Regions {
		r := &rs.Regions[i]
		minX, minY, maxX, maxY := "", "", "", ""
		if r.Box != nil {
			minX = fmt.Sprintf("%.1f", r.Box.MinX)
			minY = fmt.Sprintf("%.1f", r.Box.MinY)
			maxX = fmt.Sprintf("%.1f", r.Box.MaxX)
			maxY = fmt.Sprintf("%.1f", r.Box.MaxY)
		}
		_ = w.Write([]string{minX, minY, maxX, maxY, string(r.Script), r.Language, strings.ReplaceAll(r.Text, "\n", " ")})
	}
	w.Flush()
	return buf.String(), nil
}

// SortRegionsTopLeft sorts regions by top-left (y, then x) for readable
// ordering. Regions without geometry sort last, keeping their relative order.
func SortRegionsTopLeft(rs *RegionSet) {
	sort.SliceStable(rs.Regions, func(i, j int) bool {
		a, b := rs.Regions[i].Box, rs.Regions[j].Box
		if a == nil || b == nil {
			return b == nil && a != nil
		}
		if a.MinY == b.MinY {
			return a.MinX < b.MinX
		}
		return a.MinY < b.MinY
	})
}
