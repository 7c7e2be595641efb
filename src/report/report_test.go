package report_test

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/cockroachdb/apd"

	"github.com/abhatnagar21/HFT-Simulator/src/engine"
	"github.com/abhatnagar21/HFT-Simulator/src/report"
)

func cents(c int64) apd.Decimal {
	return *apd.New(c, -2)
}

// TestRenderDepthShowsBothSides verifies the rendered table carries every
// level's price.
func TestRenderDepthShowsBothSides(t *testing.T) {
	bids := []engine.DepthLevel{{Price: cents(10050), Quantity: 100}}
	asks := []engine.DepthLevel{
		{Price: cents(10060), Quantity: 150},
		{Price: cents(10070), Quantity: 250},
	}

	var buf bytes.Buffer
	report.RenderDepth(&buf, "SIM", bids, asks)

	out := buf.String()
	for _, want := range []string{"100.50", "100.60", "100.70", "SIM depth"} {
		if !strings.Contains(out, want) {
			t.Errorf("rendered depth missing %q", want)
		}
	}
}

// TestRenderTrades verifies trade rows make it into the table.
func TestRenderTrades(t *testing.T) {
	trades := []engine.Trade{
		{ID: "t1", Price: cents(10000), Quantity: 10, BuySequence: 1, SellSequence: 2, Timestamp: time.Unix(0, 0).UTC()},
	}

	var buf bytes.Buffer
	report.RenderTrades(&buf, trades)

	out := buf.String()
	if !strings.Contains(out, "100.00") {
		t.Error("rendered trades missing the trade price")
	}
}

// TestWritePriceCSV verifies the exported series round-trips through the
// file, header included.
func TestWritePriceCSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prices.csv")
	prices := []apd.Decimal{cents(10000), cents(10050)}

	if err := report.WritePriceCSV(path, prices); err != nil {
		t.Fatalf("write failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read failed: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected header plus 2 rows, got %d lines", len(lines))
	}
	if lines[0] != "step,price" {
		t.Errorf("unexpected header: %q", lines[0])
	}
	if lines[2] != "2,100.50" {
		t.Errorf("unexpected second row: %q", lines[2])
	}
}

// TestWriteTradeCSV verifies the trade log export.
func TestWriteTradeCSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "trades.csv")
	trades := []engine.Trade{
		{ID: "t1", Price: cents(10000), Quantity: 10, BuySequence: 1, SellSequence: 2, Timestamp: time.Unix(0, 0).UTC()},
	}

	if err := report.WriteTradeCSV(path, trades); err != nil {
		t.Fatalf("write failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read failed: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected header plus 1 row, got %d lines", len(lines))
	}
	if !strings.HasPrefix(lines[1], "t1,100.00,10,1,2,") {
		t.Errorf("unexpected trade row: %q", lines[1])
	}
}
