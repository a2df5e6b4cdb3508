package view

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/rs/cors"

	"github.com/marginforge/isolex/internal/core"
	"github.com/marginforge/isolex/internal/money"
)

// Server is the read-only HTTP/WebSocket view over an Exchange, ported from
// the teacher's pkg/api.Server: a mux.Router wrapped in rs/cors, plus a
// Hub for the WebSocket feed.
type Server struct {
	exchange *core.Exchange
	router   *mux.Router
	hub      *Hub
}

// NewServer builds a view Server over exchange. Tracker() returns an
// AccountTracker that broadcasts to WebSocket subscribers; an Exchange takes
// its tracker only in NewExchange, so the exchange passed here does not
// report to that tracker.
func NewServer(exchange *core.Exchange) *Server {
	s := &Server{
		exchange: exchange,
		router:   mux.NewRouter(),
		hub:      NewHub(),
	}
	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	v1 := s.router.PathPrefix("/v1").Subrouter()
	v1.HandleFunc("/market", s.handleMarket).Methods("GET")
	v1.HandleFunc("/margin", s.handleMargin).Methods("GET")
	v1.HandleFunc("/position", s.handlePosition).Methods("GET")
	v1.HandleFunc("/orders", s.handleOrders).Methods("GET")
	s.router.HandleFunc("/ws", s.handleWebSocket)
	s.router.HandleFunc("/health", s.handleHealth).Methods("GET")
}

// Start runs the WebSocket hub and serves HTTP on addr. It blocks until the
// server stops or errors.
func (s *Server) Start(addr string) error {
	go s.hub.Run()

	c := cors.New(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "OPTIONS"},
	})
	handler := c.Handler(s.router)

	log.Printf("[view] server starting on %s", addr)
	return http.ListenAndServe(addr, handler)
}

// Tracker returns an AccountTracker that broadcasts every hook to connected
// WebSocket clients.
func (s *Server) Tracker() core.AccountTracker {
	return &broadcastTracker{hub: s.hub}
}

func (s *Server) handleMarket(w http.ResponseWriter, r *http.Request) {
	state := s.exchange.MarketState()
	respondJSON(w, BbaSnapshot{
		Bid:  state.Bid().String(),
		Ask:  state.Ask().String(),
		Low:  state.Low().String(),
		High: state.High().String(),
		Step: state.Step(),
	})
}

func (s *Server) handleMargin(w http.ResponseWriter, r *http.Request) {
	m := s.exchange.Account().Margin()
	respondJSON(w, MarginSnapshot{
		WalletBalance:    m.WalletBalance().String(),
		PositionMargin:   m.PositionMargin().String(),
		OrderMargin:      m.OrderMargin().String(),
		AvailableBalance: m.AvailableBalance().String(),
	})
}

func (s *Server) handlePosition(w http.ResponseWriter, r *http.Request) {
	p := s.exchange.Account().Position()
	respondJSON(w, PositionSnapshot{
		Size:           p.Size().String(),
		EntryPrice:     p.EntryPrice().String(),
		PositionMargin: p.PositionMargin().String(),
		Leverage:       p.Leverage().Decimal().String(),
		IsLong:         p.IsLong(),
		IsShort:        p.IsShort(),
	})
}

func (s *Server) handleOrders(w http.ResponseWriter, r *http.Request) {
	orders := s.exchange.Account().ActiveOrders()
	out := make([]OrderSnapshot, 0, len(orders))
	for _, o := range orders {
		snap := OrderSnapshot{ID: o.ID, Side: o.Side.String(), Size: o.Size.String(), Status: o.Status.String()}
		if o.LimitPrice != nil {
			p := o.LimitPrice.String()
			snap.LimitPrice = &p
		}
		out = append(out, snap)
	}
	respondJSON(w, out)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, map[string]string{"status": "ok"})
}

func respondJSON(w http.ResponseWriter, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(data)
}

// broadcastTracker adapts core.AccountTracker onto the Hub's broadcast
// channel (ported from the teacher's Server.BroadcastOrderbook, generalized
// to every tracker hook instead of one hardcoded orderbook update).
type broadcastTracker struct {
	hub *Hub
}

var _ core.AccountTracker = (*broadcastTracker)(nil)

func (t *broadcastTracker) OrderAccepted(order *core.Order) {
	t.hub.Broadcast(Event{Type: "order_accepted", Data: orderEventData(order)})
}

func (t *broadcastTracker) OrderRejected(order *core.Order, err error) {
	t.hub.Broadcast(Event{Type: "order_rejected", Data: map[string]interface{}{
		"order": orderEventData(order),
		"error": err.Error(),
	}})
}

func (t *broadcastTracker) OrderFilled(order *core.Order, fillPrice money.Quote, pnl money.Amount) {
	t.hub.Broadcast(Event{Type: "order_filled", Data: map[string]interface{}{
		"order":      orderEventData(order),
		"fill_price": fillPrice.String(),
		"pnl":        pnl.String(),
	}})
}

func (t *broadcastTracker) OrderCancelled(order *core.Order) {
	t.hub.Broadcast(Event{Type: "order_cancelled", Data: orderEventData(order)})
}

func (t *broadcastTracker) PositionLiquidated(account *core.Account, price money.Quote) {
	t.hub.Broadcast(Event{Type: "position_liquidated", Data: map[string]interface{}{
		"price":          price.String(),
		"wallet_balance": account.Margin().WalletBalance().String(),
	}})
}

func (t *broadcastTracker) MarginInvariantViolated(account *core.Account) {
	t.hub.Broadcast(Event{Type: "margin_invariant_violated", Data: map[string]interface{}{
		"wallet_balance":    account.Margin().WalletBalance().String(),
		"available_balance": account.Margin().AvailableBalance().String(),
	}})
}

func orderEventData(order *core.Order) map[string]interface{} {
	return map[string]interface{}{
		"id":     order.ID,
		"side":   order.Side.String(),
		"size":   order.Size.String(),
		"status": order.Status.String(),
	}
}
