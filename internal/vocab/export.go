package vocab

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"
)

// GoExporter renders the vocabulary as a generated Go source file so other
// services can embed the keyword tables without reading the JSON document.
type GoExporter struct {
	// Package is the package clause of the generated file; defaults to
	// "keywordcfg".
	Package string
}

var _ Exporter = (*GoExporter)(nil)

var exportVarNames = map[TierName]string{
	TierCritical:      "CriticalKeywords",
	TierStrategic:     "StrategicKeywords",
	TierOperational:   "OperationalKeywords",
	TierOpportunities: "OpportunityKeywords",
}

// Export renders the full vocabulary. Output is deterministic: tiers in
// precedence order, terms in insertion order.
func (g *GoExporter) Export(v Vocabulary) ([]byte, error) {
	pkg := g.Package
	if pkg == "" {
		pkg = "keywordcfg"
	}

	var buf bytes.Buffer
	buf.WriteString("// Code generated from the vocabulary document. DO NOT EDIT.\n")
	buf.WriteString("// Edit via the keyword admin API instead.\n")
	if v.Metadata.LastUpdated != "" {
		fmt.Fprintf(&buf, "// Last updated: %s\n", v.Metadata.LastUpdated)
	}
	if v.Metadata.Maintainer != "" {
		fmt.Fprintf(&buf, "// Maintainer: %s\n", v.Metadata.Maintainer)
	}
	fmt.Fprintf(&buf, "\npackage %s\n", pkg)

	for _, name := range TierOrder {
		t := v.Tier(name)
		fmt.Fprintf(&buf, "\n// %s: %s\n", name, t.Description)
		fmt.Fprintf(&buf, "var %s = map[string]float64{\n", exportVarNames[name])
		for _, e := range t.Entries() {
			fmt.Fprintf(&buf, "\t%s: %s,\n", strconv.Quote(e.Term), formatWeight(e.Weight))
		}
		buf.WriteString("}\n")
	}

	return buf.Bytes(), nil
}

func formatWeight(w float64) string {
	s := strconv.FormatFloat(w, 'g', -1, 64)
	if !strings.ContainsAny(s, ".eE") {
		s += ".0"
	}
	return s
}
