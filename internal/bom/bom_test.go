package bom

import (
	"os"
	"path/filepath"
	"testing"
)

func TestFromRowsDetectsColumns(t *testing.T) {
	rows := [][]string{
		{"preamble"},
		{"Pos", "WN_HerstellerBestellnummer_1", "WN_SAP-Artikel-NR", "Qty"},
		{"1", "MX-150", "1000123", "10"},
	}
	b, err := fromRows(rows, 2)
	if err != nil {
		t.Fatal(err)
	}
	if b.PartCol != 1 || b.SAPCol != 2 {
		t.Fatalf("PartCol=%d SAPCol=%d", b.PartCol, b.SAPCol)
	}
}

func TestFromRowsNoIdentifierColumn(t *testing.T) {
	rows := [][]string{{"Pos", "Description", "Qty"}}
	if _, err := fromRows(rows, 1); err == nil {
		t.Fatalf("expected error for missing identifier columns")
	}
}

func TestPartIDs(t *testing.T) {
	rows := [][]string{
		{"Order No", "SAP"},
		{"MX-150", "1000123"},
		{"mx-150", "1000123"}, // duplicate, case-insensitive
		{"", "2000456"},       // falls back to SAP
		{"", ""},              // empty, dropped
		{"nan", ""},           // pandas artifact, dropped
		{"SPL-99", "3000789"},
	}
	b, err := fromRows(rows, 1)
	if err != nil {
		t.Fatal(err)
	}
	got := b.PartIDs()
	want := []string{"MX-150", "2000456", "SPL-99"}
	if len(got) != len(want) {
		t.Fatalf("ids=%v", got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("ids[%d]=%q want %q", i, got[i], want[i])
		}
	}
}

func TestLoadCSVSemicolon(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bom.csv")
	content := "Order No;SAP;Qty\nMX-150;1000123;10\nCON-2;2000456;5\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	b, err := Load(path, 1)
	if err != nil {
		t.Fatal(err)
	}
	ids := b.PartIDs()
	if len(ids) != 2 || ids[0] != "MX-150" || ids[1] != "CON-2" {
		t.Fatalf("ids=%v", ids)
	}
}

func TestLoadUnsupportedFormat(t *testing.T) {
	if _, err := Load("bom.pdf", 1); err == nil {
		t.Fatalf("expected error for unsupported format")
	}
}

func TestSniffDelimiter(t *testing.T) {
	cases := []struct {
		line string
		want rune
	}{
		{"a,b,c", ','},
		{"a;b;c", ';'},
		{"a\tb\tc", '\t'},
		{"a;b,c;d", ';'},
	}
	for _, tc := range cases {
		if got := sniffDelimiter(tc.line); got != tc.want {
			t.Fatalf("sniffDelimiter(%q)=%q want %q", tc.line, got, tc.want)
		}
	}
}
