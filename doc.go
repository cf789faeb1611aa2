// Package chipbook provides a complete set of functions and types for
// keeping the books of a recurring home poker game. It is designed to be
// local-first, auditable, and extensible, ensuring organizers have full
// control and transparency over their game data.
//
// The core functionalities include:
//   - Ledger Management: Recording players, sessions, and per-player
//     participations (buy-ins, cash-outs, net results) in a single
//     invariant-preserving store.
//   - Tabular Import: Turning a spreadsheet grid of historical per-session
//     results into normalized ledger records, collecting structured errors
//     and warnings along the way.
//   - Identity Reconciliation: Merging imported or remotely synced player
//     lists against the local roster by case-insensitive name, preserving
//     local identity.
//   - Statistics Engine: A stateless engine that derives per-player metrics
//     (profit, win rate, variance, ROI) and a chronological balance history
//     from the ledger, with optional date-range filtering.
//   - Data Persistence: Handling the encoding and decoding of ledger
//     snapshots to and from a human-readable, version-controllable format,
//     with file, HTTP, and SQLite backends, plus a polling sync loop for
//     multi-device use.
//
// This package serves as the foundational logic for the `cbk` command-line
// tool, ensuring that all operations are consistent and based on a single
// source of truth.
package chipbook
