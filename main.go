package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"

	"github.com/abhatnagar21/HFT-Simulator/src/logger"
	"github.com/abhatnagar21/HFT-Simulator/src/report"
	"github.com/abhatnagar21/HFT-Simulator/src/sim"
)

func main() {
	var (
		symbol     = flag.String("symbol", "SIM", "instrument symbol")
		steps      = flag.Int("steps", 100, "number of simulation steps")
		seed       = flag.Int64("seed", 1, "random seed for the order source")
		startPrice = flag.Int64("start-price", 10000, "starting price in cents")
		volatility = flag.Float64("volatility", 0.02, "per-step price walk range")
		spread     = flag.Float64("spread", 0.001, "market maker spread fraction")
		makerSize  = flag.Int64("maker-size", 10, "market maker quote size")
		cash       = flag.Int64("cash", 1000000, "initial portfolio cash in cents")
		shares     = flag.Int64("shares", 0, "initial portfolio shares")
		depth      = flag.Int("depth", 10, "depth levels to render after the run")
		render     = flag.Bool("render", true, "render depth and trade tables after the run")
		csvPrices  = flag.String("csv-prices", "", "write the price history to this CSV file")
		csvTrades  = flag.String("csv-trades", "", "write the trade log to this CSV file")
	)
	flag.Parse()

	logger.Init()
	defer logger.Close()

	log.Info().
		Str("symbol", *symbol).
		Int("steps", *steps).
		Int64("seed", *seed).
		Msg("Initializing HFT simulator")

	simulator := sim.New(sim.Config{
		Symbol:           *symbol,
		StartPriceCents:  *startPrice,
		Volatility:       *volatility,
		SpreadPercent:    *spread,
		MakerSize:        *makerSize,
		InitialCashCents: *cash,
		InitialShares:    *shares,
		Seed:             *seed,
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-quit
		log.Info().Msg("Received shutdown signal, stopping simulation...")
		cancel()
	}()

	if err := simulator.Run(ctx, *steps); err != nil {
		log.Fatal().Err(err).Msg("Simulation failed")
	}

	price := simulator.CurrentPrice()
	portfolio := simulator.Portfolio()
	trades := simulator.Session().Trades()

	if *render {
		bids, asks := simulator.Session().Depth(*depth)
		report.RenderDepth(os.Stdout, *symbol, bids, asks)
		report.RenderTrades(os.Stdout, trades)
	}

	if *csvPrices != "" {
		if err := report.WritePriceCSV(*csvPrices, simulator.History()); err != nil {
			log.Error().Err(err).Str("path", *csvPrices).Msg("Failed to write price CSV")
		}
	}
	if *csvTrades != "" {
		if err := report.WriteTradeCSV(*csvTrades, trades); err != nil {
			log.Error().Err(err).Str("path", *csvTrades).Msg("Failed to write trade CSV")
		}
	}

	value := portfolio.Value(price)
	finalCash := portfolio.Cash()
	fmt.Printf("Steps: %d, Trades: %d\n", simulator.Steps(), len(trades))
	fmt.Printf("Final price: %s\n", price.String())
	fmt.Printf("Cash: %s, Shares: %d\n", finalCash.String(), portfolio.Shares())
	fmt.Printf("Portfolio value: %s, PnL: %.2f%%\n", value.String(), portfolio.PnLPercent(price))
}
