// Package accounts computes read-only views over the operations of one or
// more accounts.
//
// An Account is a snapshot: a live balance, a currency, and the operations
// that led to it, most-recent-first. From it the package derives:
//   - Balance history: the balance at the start of each of the last days,
//     reconstructed by rewinding operations from the live balance, ending
//     with the live balance itself (NewBalanceHistory).
//   - Total balance history: the pointwise sum of several accounts'
//     histories, each valued in a common unit by an injected
//     CalculateCounterValue function (NewBalanceHistorySum).
//   - Daily sections: the most recent operations grouped by calendar day,
//     for one account or merged across accounts (GroupByDay, OperationsByDay).
//
// None of these functions mutate their inputs, concurrent callers can share
// the same snapshot.
//
// Accounts are persisted as one JSONL ledger per account (DecodeAccount,
// EncodeAccount) in a folder (FindAccounts, SaveAccount).
package accounts
