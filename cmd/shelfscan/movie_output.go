package main

import (
	"fmt"
	"strconv"
	"time"

	"shelfscan/internal/collection"
	"shelfscan/internal/movie"
)

var fieldColumns = []tableColumn{
	{Header: "Field"},
	{Header: "Value", MaxWidth: 70},
}

func recordRows(record movie.Record) [][]string {
	rows := [][]string{{"Title", record.Title}}
	if record.Year > 0 {
		rows = append(rows, []string{"Year", strconv.Itoa(record.Year)})
	}
	rows = appendField(rows, "Director", record.Director)
	rows = appendField(rows, "Genre", record.Genre)
	rows = appendField(rows, "Format", string(record.Format))
	rows = appendField(rows, "Barcode", record.Barcode)
	rows = appendField(rows, "TMDB ID", record.TMDBID)
	rows = appendField(rows, "Poster", record.PosterURL)
	rows = appendField(rows, "Source", record.LookupSource)
	return rows
}

func itemRows(item *collection.Item) [][]string {
	rows := [][]string{{"ID", strconv.FormatInt(item.ID, 10)}}
	rows = append(rows, recordRows(item.Record)...)
	rows = appendField(rows, "Location", item.Location)
	rows = append(rows, []string{"Condition", string(item.Condition)})
	rows = append(rows, []string{"Added", formatAdded(item.AddedAt)})
	return rows
}

func appendField(rows [][]string, label, value string) [][]string {
	if value == "" {
		return rows
	}
	return append(rows, []string{label, value})
}

func formatAdded(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Local().Format("2006-01-02 15:04")
}

func renderRecord(record movie.Record) string {
	return renderTable(fieldColumns, recordRows(record), "")
}

func renderItem(item *collection.Item) string {
	return renderTable(fieldColumns, itemRows(item), "")
}

func renderItemList(items []*collection.Item) string {
	columns := []tableColumn{
		{Header: "ID", Align: alignRight},
		{Header: "Title", MaxWidth: 40},
		{Header: "Year", Align: alignRight},
		{Header: "Format"},
		{Header: "Condition"},
		{Header: "Location", MaxWidth: 24},
		{Header: "Added"},
	}
	rows := make([][]string, 0, len(items))
	for _, item := range items {
		year := ""
		if item.Year > 0 {
			year = strconv.Itoa(item.Year)
		}
		rows = append(rows, []string{
			strconv.FormatInt(item.ID, 10),
			item.Title,
			year,
			string(item.Format),
			string(item.Condition),
			item.Location,
			formatAdded(item.AddedAt),
		})
	}
	return renderTable(columns, rows, fmt.Sprintf("%d movies", len(items)))
}
