package accounts

import "iter"

// Merge returns an iterator over the operations of all accounts, most-recent-first.
//
// Each account's operations must already be sorted most-recent-first: the
// accounts are merged lazily, one head at a time, without sorting.
// Operations at the same instant are yielded by increasing account ID, and in
// their account order within the same account.
func Merge(accounts ...*Account) iter.Seq[Operation] {
	return func(yield func(Operation) bool) {
		indexes := make([]int, len(accounts))
		for {
			// find the newest head among accounts not yet consumed.
			best := -1
			for i, index := range indexes {
				if index >= len(accounts[i].operations) {
					continue
				}
				if best < 0 || newer(accounts[i], index, accounts[best], indexes[best]) {
					best = i
				}
			}
			if best < 0 {
				// All accounts have been consumed.
				return
			}
			op := accounts[best].operations[indexes[best]]
			indexes[best]++
			if !yield(op) {
				return
			}
		}
	}
}

// newer reports whether operation i of a must be yielded before operation j of b.
func newer(a *Account, i int, b *Account, j int) bool {
	x, y := a.operations[i].Date, b.operations[j].Date
	if !x.Equal(y) {
		return x.After(y)
	}
	return a.ID < b.ID
}
