package accounts

import (
	"fmt"
	"iter"
	"time"

	"github.com/etnz/accounts/date"
)

// DailySection holds the operations of a single calendar day, most-recent-first.
type DailySection struct {
	Day        time.Time // midnight in the grouping location
	Operations []Operation
}

// GroupByDay groups the first 'count' operations of ops by calendar day in loc,
// time.Local if nil. Days start at the same midnight as NewBalanceHistory's
// checkpoints when loc is the location of its 'now'.
//
// ops must yield operations most-recent-first; sections are returned newest
// day first. A count of zero returns no section.
func GroupByDay(ops iter.Seq[Operation], count int, loc *time.Location) ([]DailySection, error) {
	if count < 0 {
		return nil, fmt.Errorf("grouping %d operations: %w", count, ErrInvalidArgument)
	}
	if loc == nil {
		loc = time.Local
	}
	var (
		sections []DailySection
		current  *DailySection
		n        int
		previous time.Time
	)
	for op := range ops {
		if n >= count {
			break
		}
		if n > 0 && op.Date.After(previous) {
			return nil, fmt.Errorf("operation %d (%v) is newer than its predecessor (%v): %w", n, op.Date, previous, ErrUnordered)
		}
		n++
		previous = op.Date

		if current == nil || op.Date.Before(current.Day) {
			sections = append(sections, DailySection{Day: date.StartOfDay(op.Date.In(loc))})
			current = &sections[len(sections)-1]
		}
		current.Operations = append(current.Operations, op)
	}
	return sections, nil
}

// OperationsByDay returns the account's 'count' most recent operations grouped by day in loc.
func (a *Account) OperationsByDay(count int, loc *time.Location) ([]DailySection, error) {
	if err := a.Validate(); err != nil {
		return nil, err
	}
	return GroupByDay(a.Operations(), count, loc)
}

// OperationsByDay returns the 'count' most recent operations across all
// accounts, grouped by day in loc.
func OperationsByDay(accounts []*Account, count int, loc *time.Location) ([]DailySection, error) {
	for _, a := range accounts {
		if err := a.Validate(); err != nil {
			return nil, err
		}
	}
	return GroupByDay(Merge(accounts...), count, loc)
}
