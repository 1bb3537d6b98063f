package main

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/ayusman/bodyscan/internal/measure"
	"github.com/ayusman/bodyscan/internal/store"
)

// printScan writes the measurement table followed by validation warnings,
// or the whole scan as indented JSON.
func printScan(w io.Writer, sc *store.Scan, asJSON bool) error {
	if asJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(sc)
	}

	fmt.Fprintf(w, "Scan %s (%s)\n\n", sc.ID, sc.Kind)

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "MEASUREMENT\tCM\tCONFIDENCE")
	m := &sc.Measurements
	for _, n := range measure.Names {
		fmt.Fprintf(tw, "%s\t%.1f\t%s\n", n, m.Get(n), m.ConfidenceOf(n))
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	if len(sc.Issues) == 0 {
		fmt.Fprintln(w, "\nAll measurements within plausible ranges.")
		return nil
	}
	fmt.Fprintln(w, "\nWarnings:")
	for _, is := range sc.Issues {
		fmt.Fprintf(w, "  %s\n", is)
	}
	return nil
}
