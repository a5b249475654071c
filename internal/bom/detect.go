package bom

import "strings"

// Column probes are matched against headers with spaces, dashes,
// underscores and dots stripped, case-insensitively. Order matters: the
// first probe with a hit wins.
var (
	partColumnProbes = []string{
		"manufacturerorderno",
		"herstellerbestellnummer",
		"bestellnummer",
		"orderno",
		"manufacturerpartnumber",
		"mpn",
		"hersteller",
		"manu",
	}
	sapColumnProbes = []string{
		"saparticleno",
		"sapartikelnr",
		"sapnummer",
		"sap",
		"material",
		"artikel",
	}
)

func detectColumn(headers []string, probes []string) int {
	folded := make([]string, len(headers))
	for i, h := range headers {
		folded[i] = foldHeader(h)
	}
	for _, probe := range probes {
		for i, h := range folded {
			if h != "" && strings.Contains(h, probe) {
				return i
			}
		}
	}
	return -1
}

func foldHeader(h string) string {
	h = strings.ToLower(h)
	for _, cut := range []string{" ", "-", "_", "."} {
		h = strings.ReplaceAll(h, cut, "")
	}
	return h
}
