// Package folio tracks an investor's portfolio from an append-only ledger of trades and a
// history of daily close prices.
//
// Nothing derived is ever stored. Positions, average cost, realized gains and cash are
// recomputed by replaying the trades, so they cannot drift away from the ledger.
//
// The core functionalities include:
//   - Ledger: validated recording of BUY and SELL trades, short selling is rejected.
//   - Replay: average-cost basis and realized profit per instrument.
//   - Overview: point-in-time positions valued at the latest known close.
//   - Performance: a time-weighted return index normalized to 100, comparable to a
//     benchmark, with a static-basket fallback when history is too short.
//
// Persistence and market data are reached through the narrow ports declared in store.go;
// the store and yahoo packages provide the implementations used by the `pft` tool.
package folio
