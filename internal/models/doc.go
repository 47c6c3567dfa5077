// Package models defines the core domain models for OneVault.
//
// # Core Models
//
//   - Account: a money account with a running balance in minor units
//   - LedgerRecord: a single expense or income entry, optionally linked to an account
//   - SplitBill: a multi-item receipt divided among named participants
//   - SplitItem / SplitParticipant: line items and people on a split bill
//   - Category: user-defined grouping for ledger records
//   - Credential / VaultFile: encrypted vault entries, carried through backups
//
// # Design Principles
//
// 1. **Minor units**: every money amount is an int64 in the currency's smallest
// unit. Balances are never recomputed from scans; they only move by deltas.
// 2. **Avoid circular references**: relationships use ID strings, not pointers.
// 3. **Derived stays derived**: a participant's ShareAmount is always the output
// of the allocation engine, never set directly.
package models
