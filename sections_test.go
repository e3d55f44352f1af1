package accounts

import (
	"errors"
	"slices"
	"testing"
	"time"
)

func at(s string) time.Time {
	t, err := time.Parse("2006-01-02T15:04", s)
	if err != nil {
		panic(err)
	}
	return t
}

func day(s string) time.Time { return at(s + "T00:00") }

func TestGroupByDay(t *testing.T) {
	ops := []Operation{
		op(at("2024-01-02T23:00"), 1),
		op(at("2024-01-02T01:00"), 2),
		op(at("2024-01-01T10:00"), 3),
	}
	a := NewAccount("main", "EUR", D(6), ops...)

	got, err := a.OperationsByDay(10, time.UTC)
	if err != nil {
		t.Fatalf("OperationsByDay() error = %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("len(OperationsByDay()) = %d want 2: %v", len(got), got)
	}
	if !got[0].Day.Equal(day("2024-01-02")) || len(got[0].Operations) != 2 {
		t.Errorf("OperationsByDay()[0] = %v want day 2024-01-02 with 2 operations", got[0])
	}
	if !got[1].Day.Equal(day("2024-01-01")) || len(got[1].Operations) != 1 {
		t.Errorf("OperationsByDay()[1] = %v want day 2024-01-01 with 1 operation", got[1])
	}

	// concatenating all sections gives back the operations in order.
	var all []Operation
	for _, s := range got {
		all = append(all, s.Operations...)
	}
	if !slices.EqualFunc(all, a.operations, Operation.Equal) {
		t.Errorf("OperationsByDay() concatenated = %v want %v", all, a.operations)
	}
}

func TestGroupByDayCount(t *testing.T) {
	a := NewAccount("main", "EUR", D(6),
		op(at("2024-01-03T10:00"), 1),
		op(at("2024-01-02T10:00"), 2),
		op(at("2024-01-01T10:00"), 3),
	)
	tests := []struct {
		count    int
		sections int
		ops      int
	}{
		{0, 0, 0},
		{1, 1, 1},
		{2, 2, 2},
		{3, 3, 3},
		{100, 3, 3}, // clamped
	}
	for _, tt := range tests {
		got, err := a.OperationsByDay(tt.count, time.UTC)
		if err != nil {
			t.Fatalf("OperationsByDay(%d) error = %v", tt.count, err)
		}
		n := 0
		for _, s := range got {
			n += len(s.Operations)
			if len(s.Operations) == 0 {
				t.Errorf("OperationsByDay(%d) has an empty section %v", tt.count, s)
			}
		}
		if len(got) != tt.sections || n != tt.ops {
			t.Errorf("OperationsByDay(%d) = %d sections, %d ops want %d, %d", tt.count, len(got), n, tt.sections, tt.ops)
		}
	}

	if _, err := a.OperationsByDay(-1, time.UTC); !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("OperationsByDay(-1, time.UTC) error = %v want %v", err, ErrInvalidArgument)
	}
}

func TestGroupByDayEmpty(t *testing.T) {
	got, err := NewAccount("main", "EUR", D(0)).OperationsByDay(10, time.UTC)
	if err != nil || len(got) != 0 {
		t.Errorf("OperationsByDay() on empty account = %v, %v want no section", got, err)
	}
	got, err = OperationsByDay(nil, 10, time.UTC)
	if err != nil || len(got) != 0 {
		t.Errorf("OperationsByDay(nil, time.UTC) = %v, %v want no section", got, err)
	}
}

func TestGroupByDayUnordered(t *testing.T) {
	ops := slices.Values([]Operation{
		op(at("2024-01-01T10:00"), 1),
		op(at("2024-01-02T10:00"), 2),
	})
	if _, err := GroupByDay(ops, 10, time.UTC); !errors.Is(err, ErrUnordered) {
		t.Errorf("GroupByDay(unordered) error = %v want %v", err, ErrUnordered)
	}
}

func TestMerge(t *testing.T) {
	a := NewAccount("a", "EUR", D(0),
		Operation{ID: "a1", Date: at("2024-01-03T10:00")},
		Operation{ID: "a2", Date: at("2024-01-02T10:00")},
		Operation{ID: "a3", Date: at("2024-01-01T10:00")},
	)
	b := NewAccount("b", "USD", D(0),
		Operation{ID: "b1", Date: at("2024-01-02T12:00")},
		Operation{ID: "b2", Date: at("2024-01-02T10:00")}, // same instant as a2
	)

	var got []string
	// order of the accounts must not matter.
	for op := range Merge(b, a) {
		got = append(got, op.ID)
	}
	want := []string{"a1", "b1", "a2", "b2", "a3"}
	if !slices.Equal(got, want) {
		t.Errorf("Merge() = %v want %v", got, want)
	}

	// stopping early.
	got = got[:0]
	for op := range Merge(a, b) {
		got = append(got, op.ID)
		if len(got) == 2 {
			break
		}
	}
	if !slices.Equal(got, want[:2]) {
		t.Errorf("Merge() stopped at 2 = %v want %v", got, want[:2])
	}
}

func TestOperationsByDayAcrossAccounts(t *testing.T) {
	a := NewAccount("a", "EUR", D(0),
		Operation{ID: "a1", Date: at("2024-01-02T23:00")},
		Operation{ID: "a2", Date: at("2024-01-01T10:00")},
	)
	b := NewAccount("b", "USD", D(0),
		Operation{ID: "b1", Date: at("2024-01-02T01:00")},
	)
	got, err := OperationsByDay([]*Account{a, b}, 10, time.UTC)
	if err != nil {
		t.Fatalf("OperationsByDay() error = %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("len(OperationsByDay()) = %d want 2", len(got))
	}
	ids := func(s DailySection) []string {
		var ids []string
		for _, op := range s.Operations {
			ids = append(ids, op.ID+"@"+op.Account)
		}
		return ids
	}
	if got, want := ids(got[0]), []string{"a1@a", "b1@b"}; !slices.Equal(got, want) {
		t.Errorf("OperationsByDay()[0] = %v want %v", got, want)
	}
	if got, want := ids(got[1]), []string{"a2@a"}; !slices.Equal(got, want) {
		t.Errorf("OperationsByDay()[1] = %v want %v", got, want)
	}

	// partial count across accounts
	got, err = OperationsByDay([]*Account{a, b}, 2, time.UTC)
	if err != nil || len(got) != 1 || len(got[0].Operations) != 2 {
		t.Errorf("OperationsByDay(2, time.UTC) = %v, %v want one section with 2 operations", got, err)
	}
}

func TestOperationsByDayValidates(t *testing.T) {
	bad := NewAccount("bad", "EUR", D(0), op(at("2024-01-01T10:00"), 1), op(at("2024-01-02T10:00"), 1))
	good := NewAccount("good", "EUR", D(0))
	if _, err := OperationsByDay([]*Account{good, bad}, 10, time.UTC); !errors.Is(err, ErrUnordered) {
		t.Errorf("OperationsByDay(unordered, time.UTC) error = %v want %v", err, ErrUnordered)
	}
}

func TestAppend(t *testing.T) {
	a := NewAccount("main", "EUR", D(0))
	first := Operation{ID: "first", Date: at("2024-01-02T10:00"), Amount: D(1)}
	second := Operation{ID: "second", Date: at("2024-01-02T10:00"), Amount: D(2)}
	older := Operation{ID: "older", Date: at("2024-01-01T10:00"), Amount: D(4)}
	a.Append(first, older)
	a.Append(second)

	if !a.Balance.Equal(D(7)) {
		t.Errorf("Append().Balance = %v want 7", a.Balance)
	}
	var got []string
	for op := range a.Operations() {
		got = append(got, op.ID)
		if op.Account != "main" {
			t.Errorf("Append() operation %q Account = %q want main", op.ID, op.Account)
		}
	}
	if want := []string{"second", "first", "older"}; !slices.Equal(got, want) {
		t.Errorf("Append() = %v want %v", got, want)
	}
	if err := a.Validate(); err != nil {
		t.Errorf("Append().Validate() = %v", err)
	}
}

func TestGroupByDayLocation(t *testing.T) {
	cet := time.FixedZone("CET", 3600)
	late := time.Date(2024, 1, 2, 23, 30, 0, 0, time.UTC) // 00:30 on the 3rd in CET
	evening := time.Date(2024, 1, 2, 23, 30, 0, 0, cet)   // 22:30 UTC
	a := NewAccount("main", "EUR", D(3), op(late, 1), op(evening, 2))

	got, err := a.OperationsByDay(10, cet)
	if err != nil {
		t.Fatalf("OperationsByDay() error = %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("len(OperationsByDay(cet)) = %d want 2: %v", len(got), got)
	}
	if want := time.Date(2024, 1, 3, 0, 0, 0, 0, cet); !got[0].Day.Equal(want) {
		t.Errorf("OperationsByDay(cet)[0].Day = %v want %v", got[0].Day, want)
	}
	if want := time.Date(2024, 1, 2, 0, 0, 0, 0, cet); !got[1].Day.Equal(want) {
		t.Errorf("OperationsByDay(cet)[1].Day = %v want %v", got[1].Day, want)
	}

	// the same operations fall on a single UTC day.
	utc, err := a.OperationsByDay(10, time.UTC)
	if err != nil {
		t.Fatalf("OperationsByDay() error = %v", err)
	}
	if len(utc) != 1 {
		t.Errorf("len(OperationsByDay(utc)) = %d want 1: %v", len(utc), utc)
	}

	// sections agree with the balance history checkpoints in the same location.
	h, err := NewBalanceHistory(a, 3, time.Date(2024, 1, 3, 12, 0, 0, 0, cet))
	if err != nil {
		t.Fatalf("NewBalanceHistory() error = %v", err)
	}
	if want := []float64{0, 2, 3}; !equalFloats(values(h), want) {
		t.Fatalf("NewBalanceHistory() = %v want %v", values(h), want)
	}
	for i, s := range got {
		start, end := h[len(h)-2-i], h[len(h)-1-i]
		if !s.Day.Equal(start.Date) {
			t.Errorf("section %d day = %v want checkpoint %v", i, s.Day, start.Date)
		}
		sum := D(0)
		for _, o := range s.Operations {
			sum = sum.Add(o.Amount)
		}
		if !sum.Equal(end.Value.Sub(start.Value)) {
			t.Errorf("section %d total = %v want %v", i, sum, end.Value.Sub(start.Value))
		}
	}
}

func TestGroupByDayDefaultLocation(t *testing.T) {
	a := NewAccount("main", "EUR", D(1), op(at("2024-01-02T12:00"), 1))
	got, err := a.OperationsByDay(10, nil)
	if err != nil {
		t.Fatalf("OperationsByDay() error = %v", err)
	}
	if len(got) != 1 || got[0].Day.Location() != time.Local {
		t.Errorf("OperationsByDay(nil) = %v want one section in time.Local", got)
	}
}
