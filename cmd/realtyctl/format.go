package main

import (
	"encoding/json"
	"io"
	"text/tabwriter"
)

const (
	outputFormatTab  = "tab"
	outputFormatJSON = "json"
)

func newTabwriter(out io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(out, 0, 2, 2, ' ', 0)
}

func outputJSON(v interface{}, out io.Writer) error {
	e := json.NewEncoder(out)
	e.SetIndent("", "  ")
	return e.Encode(v)
}

func checkOutputFormat(format string) error {
	switch format {
	case outputFormatTab, outputFormatJSON:
		return nil
	}
	return errorInvalidOutputFormat
}
