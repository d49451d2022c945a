package main

import (
	"fmt"
	"strconv"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"slideloop/internal/catalog"
	"slideloop/internal/compositor"
	"slideloop/internal/trace"
)

type columnAlignment int

const (
	alignLeft columnAlignment = iota
	alignRight
)

func renderTable(headers []string, rows [][]string, aligns []columnAlignment) string {
	columns := len(headers)
	if columns == 0 {
		return ""
	}

	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)

	header := make(table.Row, columns)
	for i := range columns {
		header[i] = headers[i]
	}
	tw.AppendHeader(header)

	for _, row := range rows {
		r := make(table.Row, columns)
		for i := range columns {
			if i < len(row) {
				r[i] = row[i]
			}
		}
		tw.AppendRow(r)
	}

	columnConfigs := make([]table.ColumnConfig, 0, columns)
	for i := range columns {
		align := text.AlignLeft
		if i < len(aligns) && aligns[i] == alignRight {
			align = text.AlignRight
		}
		columnConfigs = append(columnConfigs, table.ColumnConfig{
			Number:      i + 1,
			Align:       align,
			AlignHeader: text.AlignLeft,
		})
	}
	tw.SetColumnConfigs(columnConfigs)

	return tw.Render()
}

// renderSectionTable lists sections in playback order with their image
// digests and the clear image dimensions.
func renderSectionTable(cat *catalog.Catalog) (string, error) {
	rows := make([][]string, 0, cat.Len())
	for i := range cat.Len() {
		section, err := cat.Get(i)
		if err != nil {
			return "", err
		}
		size := "?"
		if imgCfg, _, err := compositor.DecodeImage(section.Clear); err == nil {
			size = fmt.Sprintf("%dx%d", imgCfg.Width, imgCfg.Height)
		}
		rows = append(rows, []string{
			strconv.Itoa(i),
			section.Name,
			section.Blurred.ShortDigest(),
			section.Clear.ShortDigest(),
			size,
			section.Clear.Source,
		})
	}
	return renderTable(
		[]string{"#", "Section", "Blurred", "Clear", "Size", "Source"},
		rows,
		[]columnAlignment{alignRight},
	), nil
}

func renderViolationTable(violations []trace.Violation) string {
	rows := make([][]string, 0, len(violations))
	for _, v := range violations {
		rows = append(rows, []string{strconv.FormatUint(v.Seq, 10), v.Section, v.Reason})
	}
	return renderTable([]string{"Frame", "Section", "Problem"}, rows, []columnAlignment{alignRight})
}
