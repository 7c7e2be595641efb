// Package report renders engine state for the console and exports run data
// to CSV files. Strictly read-only: it consumes depth snapshots and trade
// copies and never feeds anything back into the engine.
package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/cockroachdb/apd"
	"github.com/olekukonko/tablewriter"

	"github.com/abhatnagar21/HFT-Simulator/src/engine"
)

// RenderDepth prints both sides of a depth snapshot, best to worst.
func RenderDepth(w io.Writer, symbol string, bids, asks []engine.DepthLevel) {
	writer := tablewriter.NewWriter(w)
	writer.SetHeader([]string{"bid qty", "bid price", "ask price", "ask qty"})

	rows := len(bids)
	if len(asks) > rows {
		rows = len(asks)
	}
	for i := 0; i < rows; i++ {
		row := []string{"", "", "", ""}
		if i < len(bids) {
			row[0] = strconv.FormatInt(bids[i].Quantity, 10)
			row[1] = bids[i].Price.String()
		}
		if i < len(asks) {
			row[2] = asks[i].Price.String()
			row[3] = strconv.FormatInt(asks[i].Quantity, 10)
		}
		writer.Append(row)
	}
	writer.SetCaption(true, fmt.Sprintf("%s depth", symbol))
	writer.Render()
}

// RenderTrades prints the trade log in execution order.
func RenderTrades(w io.Writer, trades []engine.Trade) {
	writer := tablewriter.NewWriter(w)
	writer.SetHeader([]string{"time", "price", "qty", "buy seq", "sell seq"})
	for _, trade := range trades {
		writer.Append([]string{
			trade.Timestamp.Format(time.RFC3339),
			trade.Price.String(),
			strconv.FormatInt(trade.Quantity, 10),
			strconv.FormatUint(trade.BuySequence, 10),
			strconv.FormatUint(trade.SellSequence, 10),
		})
	}
	writer.SetCaption(true, "trades")
	writer.Render()
}

// WritePriceCSV writes the walk price series, one row per step.
func WritePriceCSV(path string, prices []apd.Decimal) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	if err := writer.Write([]string{"step", "price"}); err != nil {
		return err
	}
	for i := range prices {
		if err := writer.Write([]string{strconv.Itoa(i + 1), prices[i].String()}); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}

// WriteTradeCSV writes the full trade log.
func WriteTradeCSV(path string, trades []engine.Trade) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	if err := writer.Write([]string{"trade_id", "price", "quantity", "buy_sequence", "sell_sequence", "timestamp"}); err != nil {
		return err
	}
	for _, trade := range trades {
		record := []string{
			trade.ID,
			trade.Price.String(),
			strconv.FormatInt(trade.Quantity, 10),
			strconv.FormatUint(trade.BuySequence, 10),
			strconv.FormatUint(trade.SellSequence, 10),
			trade.Timestamp.Format(time.RFC3339Nano),
		}
		if err := writer.Write(record); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}
