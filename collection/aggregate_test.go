package collection

import (
	"testing"

	"github.com/kbukum/collectkit/errors"
)

func TestAggregates(t *testing.T) {
	src := New(4, 1, 3, 2)
	if got, _ := Sum(src); got != 10 {
		t.Errorf("Sum: got %d, want 10", got)
	}
	if got, _ := Average(src); got != 2.5 {
		t.Errorf("Average: got %v, want 2.5", got)
	}
	if got, _ := Median(src); got != 2.5 {
		t.Errorf("Median even: got %v, want 2.5", got)
	}
	if got, _ := Median(New(5, 1, 3)); got != 3 {
		t.Errorf("Median odd: got %v, want 3", got)
	}
	if got, _ := Min(src); got != 1 {
		t.Errorf("Min: got %d, want 1", got)
	}
	if got, _ := Max(New("pear", "apple", "zucchini")); got != "zucchini" {
		t.Errorf("Max: got %q, want zucchini", got)
	}
	if got, _ := src.Percentage(isEven); got != 50 {
		t.Errorf("Percentage: got %v, want 50", got)
	}
}

func TestAggregates_EmptyCollection(t *testing.T) {
	empty := Empty[float64]()
	checks := map[string]func() error{
		"sum":        func() error { _, err := Sum(empty); return err },
		"average":    func() error { _, err := Average(empty); return err },
		"median":     func() error { _, err := Median(empty); return err },
		"min":        func() error { _, err := Min(empty); return err },
		"max":        func() error { _, err := Max(empty); return err },
		"percentage": func() error { _, err := empty.Percentage(func(float64, int) bool { return true }); return err },
	}
	for name, check := range checks {
		t.Run(name, func(t *testing.T) {
			wantCode(t, check(), errors.ErrCodeEmptyCollection)
		})
	}
}

func TestAggregates_NonNumericIsTypeError(t *testing.T) {
	_, err := Sum(Numbers(New[any](1, 2.5, "three")))
	wantCode(t, err, errors.ErrCodeTypeError)

	got, err := Sum(Numbers(New[any](1, uint8(2), 2.5)))
	if err != nil {
		t.Fatal(err)
	}
	if got != 5.5 {
		t.Errorf("got %v, want 5.5", got)
	}
}
