package main

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/Overland-East-Bay/location-finder-api/internal/domain"
	"github.com/Overland-East-Bay/location-finder-api/internal/resultset"
)

func render(w io.Writer, v resultset.View, unit domain.Unit, types []resultset.ProfileType) error {
	if v.Empty {
		_, err := fmt.Fprintln(w, "No members found.")
		return err
	}

	if len(types) > 0 {
		labels := make([]string, 0, len(types))
		for _, pt := range types {
			labels = append(labels, fmt.Sprintf("%s (%s)", pt.Label, pt.Type))
		}
		fmt.Fprintf(w, "Profile types: %s\n\n", strings.Join(labels, ", "))
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	for i, e := range v.Entries {
		label := e.ProfileTypeLabel
		if label == "" {
			label = e.ProfileType
		}
		fmt.Fprintf(tw, "%d.\t%s\t%s\t%.1f %s\t%s\n",
			v.First+i, e.DisplayName, strings.Join(e.LocationParts, ", "), e.Distance, unit, label)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	_, err := fmt.Fprintf(w, "\n%s\n", pager(v))
	return err
}

// pager renders "Page 2 of 7  « 1 [2] 3 4 5 »".
func pager(v resultset.View) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Page %d of %d (%d members)", v.Page, v.TotalPages, v.Total)
	if v.TotalPages <= 1 {
		return b.String()
	}
	b.WriteString("  ")
	if v.HasPrev {
		b.WriteString("« ")
	}
	for i, p := range v.Window {
		if i > 0 {
			b.WriteByte(' ')
		}
		if p == v.Page {
			b.WriteString("[" + strconv.Itoa(p) + "]")
		} else {
			b.WriteString(strconv.Itoa(p))
		}
	}
	if v.HasNext {
		b.WriteString(" »")
	}
	return b.String()
}
