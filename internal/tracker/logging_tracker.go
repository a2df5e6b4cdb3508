// Package tracker holds concrete AccountTracker implementations. The engine
// itself depends only on the core.AccountTracker interface; this package is
// what a driver (cmd/backtest, pkg/view) actually wires in.
package tracker

import (
	"go.uber.org/zap"

	"github.com/marginforge/isolex/internal/core"
	"github.com/marginforge/isolex/internal/money"
)

// LoggingTracker is a core.AccountTracker that emits a structured log line
// per event, grounded in the teacher's zap.NewProductionConfig logging
// style (pkg/util/log.go).
type LoggingTracker struct {
	log *zap.Logger
}

// NewLoggingTracker wraps an existing logger. Passing nil falls back to
// zap.NewNop(), so a tracker can always be constructed even before a
// driver's logger is ready.
func NewLoggingTracker(log *zap.Logger) *LoggingTracker {
	if log == nil {
		log = zap.NewNop()
	}
	return &LoggingTracker{log: log.Named("tracker")}
}

var _ core.AccountTracker = (*LoggingTracker)(nil)

func (t *LoggingTracker) OrderAccepted(order *core.Order) {
	t.log.Info("order accepted",
		zap.Uint64("order_id", order.ID),
		zap.String("side", order.Side.String()),
		zap.String("size", order.Size.String()),
		zap.Bool("market", order.IsMarket()),
	)
}

func (t *LoggingTracker) OrderRejected(order *core.Order, err error) {
	t.log.Warn("order rejected",
		zap.Uint64("order_id", order.ID),
		zap.String("side", order.Side.String()),
		zap.String("size", order.Size.String()),
		zap.Error(err),
	)
}

func (t *LoggingTracker) OrderFilled(order *core.Order, fillPrice money.Quote, pnl money.Amount) {
	t.log.Info("order filled",
		zap.Uint64("order_id", order.ID),
		zap.String("side", order.Side.String()),
		zap.String("size", order.Size.String()),
		zap.String("fill_price", fillPrice.String()),
		zap.String("realized_pnl", pnl.String()),
	)
}

func (t *LoggingTracker) OrderCancelled(order *core.Order) {
	t.log.Info("order cancelled", zap.Uint64("order_id", order.ID))
}

func (t *LoggingTracker) PositionLiquidated(account *core.Account, price money.Quote) {
	t.log.Error("position liquidated",
		zap.String("liquidation_price", price.String()),
		zap.String("wallet_balance", account.Margin().WalletBalance().String()),
	)
}

func (t *LoggingTracker) MarginInvariantViolated(account *core.Account) {
	t.log.Error("margin invariant violated",
		zap.String("wallet_balance", account.Margin().WalletBalance().String()),
		zap.String("position_margin", account.Margin().PositionMargin().String()),
		zap.String("order_margin", account.Margin().OrderMargin().String()),
		zap.String("available_balance", account.Margin().AvailableBalance().String()),
	)
}
