// Command backtest replays a short synthetic stream of bid/ask updates
// against a single-account, single-instrument Exchange and, when a data
// directory is set, saves the resulting account state. It submits no orders
// itself. It is deliberately small: config -> logger -> exchange ->
// optional persistence -> optional view server -> replay loop, mirroring
// the teacher's cmd/node bootstrap shape.
package main

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/marginforge/isolex/internal/core"
	"github.com/marginforge/isolex/internal/market"
	"github.com/marginforge/isolex/internal/money"
	"github.com/marginforge/isolex/internal/tracker"
	"github.com/marginforge/isolex/params"
	"github.com/marginforge/isolex/pkg/persist"
	"github.com/marginforge/isolex/pkg/util"
	"github.com/marginforge/isolex/pkg/view"
)

func main() {
	cfg := params.LoadFromEnv("")

	runID := os.Getenv("ISOLEX_RUN_ID")
	if runID == "" {
		runID = uuid.NewString()
	}

	logFile := os.Getenv("LOG_FILE")
	if logFile == "" {
		logFile = "data/backtest.log"
	}
	logger, err := util.NewLoggerWithFile(logFile)
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer logger.Sync()
	logger = logger.With(zap.String("run_id", runID))
	logger.Sugar().Infow("logger_initialized", "log_file", logFile)

	exchangeCfg := core.Config{
		FuturesType:     cfg.Instrument.FuturesType,
		StartingBalance: cfg.Instrument.StartingBalance,
		Leverage:        cfg.Instrument.Leverage,
		MakerFee:        cfg.Instrument.FeeMaker,
		TakerFee:        cfg.Instrument.FeeTaker,
		PriceFilter:     cfg.Instrument.PriceFilter,
		QuantityFilter:  cfg.Instrument.QuantityFilter,
		MaxActiveOrders: cfg.Instrument.MaxActiveOrders,
	}

	initialBid := money.QuoteFromFloat(99)
	initialAsk := money.QuoteFromFloat(101)
	exchange := core.NewExchange(exchangeCfg, initialBid, initialAsk, tracker.NewLoggingTracker(logger))

	var store *persist.Store
	if dataDir := os.Getenv("ISOLEX_DATA_DIR"); dataDir != "" {
		store, err = persist.Open(dataDir)
		if err != nil {
			logger.Sugar().Fatalw("persist_open_failed", "err", err)
		}
		defer store.Close()
		if restored, err := store.LoadInto(runID, exchange.Account()); err != nil {
			logger.Sugar().Fatalw("persist_restore_failed", "err", err)
		} else if restored {
			logger.Sugar().Infow("account_restored", "data_dir", dataDir)
		}
	}

	if addr := os.Getenv("ISOLEX_VIEW_ADDR"); addr != "" {
		viewServer := view.NewServer(exchange)
		go func() {
			if err := viewServer.Start(addr); err != nil {
				logger.Sugar().Errorw("view_server_stopped", "err", err)
			}
		}()
	}

	replayTicks(exchange, util.RealClock{}, tickInterval(), logger.Sugar())

	if store != nil {
		if err := store.SaveExchange(runID, exchange); err != nil {
			logger.Sugar().Errorw("persist_save_failed", "err", err)
		}
	}
}

// tickInterval is the pacing between replayed ticks, so a run against a live
// view server streams at a watchable rate instead of finishing instantly.
// Zero (the default) replays as fast as possible.
func tickInterval() time.Duration {
	v := os.Getenv("ISOLEX_TICK_INTERVAL_MS")
	if v == "" {
		return 0
	}
	ms, err := strconv.Atoi(v)
	if err != nil || ms <= 0 {
		return 0
	}
	return time.Duration(ms) * time.Millisecond
}

// replayTicks feeds a small synthetic bid/ask walk through exchange, pacing
// each tick through clock.After. A real run replaces this with a driver that
// reads ticks/orders from a file or channel; this exists to demonstrate the
// wiring compiles and runs end to end.
func replayTicks(exchange *core.Exchange, clock util.Clock, interval time.Duration, log *zap.SugaredLogger) {
	walk := []market.Bba{
		{Bid: money.QuoteFromFloat(99), Ask: money.QuoteFromFloat(101)},
		{Bid: money.QuoteFromFloat(100), Ask: money.QuoteFromFloat(102)},
		{Bid: money.QuoteFromFloat(98), Ask: money.QuoteFromFloat(100)},
	}
	for i, tick := range walk {
		ts := uint64(i + 1)
		if err := exchange.UpdateState(tick, ts); err != nil {
			log.Errorw("tick_rejected", "step", i, "err", err)
			continue
		}
		if interval > 0 {
			<-clock.After(interval)
		}
	}
}
