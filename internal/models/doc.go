// Package models defines the core domain models for the group ledger.
//
// # Models
//
//   - User: a registered account (email + bcrypt password hash)
//   - Group: a named collection of members sharing expenses
//   - Member: a user's participation in one group
//   - Expense: a cost paid by one member, divided into Shares
//   - Payment: a direct settlement transfer between two members
//
// # Design Principles
//
// 1. **Integer money**: every amount is a money.Amount (cents), never a float
// 2. **Avoid circular references**: relationships use ID strings, not pointers
// 3. **Derived data is not stored**: balances are computed on demand from
// expenses and payments by the calculator package
package models
