// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package report renders search results, simulations, and journal entries
// for the terminal as tables, JSON, or YAML.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/nexus/internal/journal"
	"github.com/pdiddy/nexus/internal/view"
	"github.com/pdiddy/nexus/pkg/types"
)

// Format selects an output encoding.
type Format string

const (
	FormatTable Format = "table"
	FormatJSON  Format = "json"
	FormatYAML  Format = "yaml"
)

// ParseFormat validates a format name. Empty means table.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case "":
		return FormatTable, nil
	case FormatTable, FormatJSON, FormatYAML:
		return f, nil
	default:
		return "", fmt.Errorf("unknown format %q (want table, json, or yaml)", s)
	}
}

// Search writes a grounded search result.
func Search(w io.Writer, r types.SearchResult, f Format) error {
	if f != FormatTable {
		return encode(w, r, f)
	}

	fmt.Fprintln(w, "Executive Summary")
	fmt.Fprintln(w, strings.Repeat("-", 80))
	fmt.Fprintln(w, strings.TrimSpace(r.Summary))
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Cited Sources")
	fmt.Fprintln(w, strings.Repeat("-", 80))
	if len(r.Sources) == 0 {
		fmt.Fprintln(w, "No direct sources linked.")
		return nil
	}
	fmt.Fprintf(w, "%-4s  %-50s  %s\n", "#", "Title", "Host")
	for i, s := range r.Sources {
		fmt.Fprintf(w, "%-4d  %-50s  %s\n", i+1, truncate(s.Title, 50), s.Host())
		fmt.Fprintf(w, "      %s\n", s.URI)
	}
	fmt.Fprintf(w, "\n%d sources\n", len(r.Sources))
	return nil
}

// Simulation writes a simulation with its derived projections.
func Simulation(w io.Writer, p view.Projection, f Format) error {
	if f != FormatTable {
		return encode(w, p, f)
	}

	fmt.Fprintf(w, "Confidence Score:   %s%% (%s)\n", formatScore(p.Confidence.Value), p.Band)
	fmt.Fprintf(w, "Primary Risk:       %s\n", p.PrimaryRisk)
	fmt.Fprintf(w, "Expected Timeline:  %d Phases\n\n", p.Phases)

	fmt.Fprintln(w, "Predictive Analysis")
	fmt.Fprintln(w, strings.Repeat("-", 80))
	fmt.Fprintln(w, strings.TrimSpace(p.Result.Prediction))
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Risk Assessment")
	fmt.Fprintln(w, strings.Repeat("-", 80))
	if len(p.RiskSeries) == 0 {
		fmt.Fprintln(w, "No risk factors reported.")
	}
	for _, b := range p.RiskSeries {
		fmt.Fprintf(w, "%-24s  %5s  %s\n", truncate(b.Name, 24), formatScore(b.Value), bar(b.Value))
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Projected Timeline")
	fmt.Fprintln(w, strings.Repeat("-", 80))
	if len(p.Result.Timeline) == 0 {
		fmt.Fprintln(w, "No phases reported.")
	}
	for i, st := range p.Result.Timeline {
		fmt.Fprintf(w, "%d. %s\n   %s\n", i+1, st.Stage, st.Outcome)
	}
	return nil
}

// Journal writes journaled calls.
func Journal(w io.Writer, entries []journal.Entry, f Format) error {
	switch f {
	case FormatJSON:
		return journal.ExportJSON(entries, w)
	case FormatYAML:
		return journal.ExportYAML(entries, w)
	}

	if len(entries) == 0 {
		fmt.Fprintln(w, "No calls recorded.")
		return nil
	}
	fmt.Fprintf(w, "%-20s  %-20s  %8s  %-30s  %s\n", "Started", "Operation", "Millis", "Outcome", "Cause")
	fmt.Fprintln(w, strings.Repeat("-", 110))
	for _, e := range entries {
		fmt.Fprintf(w, "%-20s  %-20s  %8d  %-30s  %s\n",
			e.StartedAt.Local().Format(time.DateTime), e.Op, e.DurationMS, e.Outcome, truncate(e.Cause, 40))
	}
	fmt.Fprintf(w, "\n%d calls\n", len(entries))
	return nil
}

func encode(w io.Writer, v any, f Format) error {
	switch f {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return fmt.Errorf("encoding YAML: %w", err)
		}
		return enc.Close()
	default:
		return fmt.Errorf("unknown format %q", f)
	}
}

func formatScore(v float64) string {
	return strings.TrimSuffix(fmt.Sprintf("%.1f", v), ".0")
}

// bar draws value (0-100) as a 20-cell gauge.
func bar(v float64) string {
	n := int(v/5 + 0.5)
	n = max(0, min(n, 20))
	return strings.Repeat("#", n) + strings.Repeat(".", 20-n)
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max-3] + "..."
}
