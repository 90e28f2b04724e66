package main

import (
	"testing"

	"SignalDesk/internal/model"
)

func TestSelectTickers(t *testing.T) {
	all := []model.Ticker{{Symbol: "AAPL", Name: "Apple"}, {Symbol: "MSFT", Name: "Microsoft"}}

	if got := selectTickers(all, nil); len(got) != 2 {
		t.Errorf("no filter: got %v", got)
	}
	got := selectTickers(all, []string{"msft", "IBM"})
	if len(got) != 2 || got[0].Name != "Microsoft" || got[1].Symbol != "IBM" || got[1].Name != "" {
		t.Errorf("filtered: got %v", got)
	}
}

func TestSelectTickers_Deduplicates(t *testing.T) {
	all := []model.Ticker{{Symbol: "AAPL", Name: "Apple"}}

	got := selectTickers(all, []string{"aapl", "AAPL", " Aapl ", "ibm", "IBM"})
	if len(got) != 2 || got[0].Symbol != "AAPL" || got[0].Name != "Apple" || got[1].Symbol != "IBM" {
		t.Errorf("deduplicated: got %v", got)
	}
}

func TestPlainText(t *testing.T) {
	if got := plainText("<b>AT&amp;T</b> <i>note</i>"); got != "AT&T note" {
		t.Errorf("plainText = %q", got)
	}
}
