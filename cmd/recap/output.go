package main

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"gopkg.in/yaml.v3"

	"github.com/albapepper/dci-recap/internal/poll"
	"github.com/albapepper/dci-recap/internal/seen"
)

func writeSeen(w io.Writer, entries []seen.Entry, format string) error {
	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if entries == nil {
			entries = []seen.Entry{}
		}
		return enc.Encode(entries)
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(entries); err != nil {
			return err
		}
		return enc.Close()
	case "text", "":
		tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "DATE\tNAME\tID")
		for _, e := range entries {
			fmt.Fprintf(tw, "%s\t%s\t%s\n", e.Date, e.Name, e.ID)
		}
		return tw.Flush()
	default:
		return fmt.Errorf("unknown format %q (want text, json or yaml)", format)
	}
}

func writeEvents(w io.Writer, events []poll.EventStatus) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "DATE\tNAME\tID\tSEEN")
	for _, e := range events {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%t\n", e.Date, e.Name, e.ID, e.Seen)
	}
	return tw.Flush()
}
