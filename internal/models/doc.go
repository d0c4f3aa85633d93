// Package models defines the core domain models for splitledger.
//
// # Ledger rows
//
// A ledger is a list of PaymentRecord values, exactly as a person typed them:
// the debtor side is a free-form recipient expression ("Alice + Pizza - Bob")
// and the amount is the raw text of the amount cell. Records are never
// mutated once ingested.
//
// # Pipeline stages
//
// Each stage of the settlement pipeline has its own explicit type:
//   - ExpandedRecord: a record whose recipient expression has been resolved
//   - AllocatedRow: one person's even share of an expanded record
//   - DebtCell: all shares summed per (creditor, debtor) pair
//   - PersonBalance: net position of one person
//   - Transfer: one payment of the final clearing
//
// All money is carried as decimal.Decimal and is never rounded while the
// pipeline runs. Rounding to cents happens only when a stage is snapshotted
// for display.
//
// # Sign convention
//
// A positive balance means the person paid more than they consumed and is
// owed money; a negative balance means they owe money.
package models
