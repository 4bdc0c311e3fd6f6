// Package services contains the orchestration layer between transport,
// storage, and the messaging fabric.
package services

import (
	"fmt"
	"time"

	"nossosgastos/internal/core"
)

// DuenessChecker decides whether a recurring template should materialize
// now. dayOfMonth and monthOfYear come from the template; monthOfYear is
// ignored by monthly checkers.
type DuenessChecker interface {
	IsDue(lastExecution, now time.Time, dayOfMonth, monthOfYear int) bool
}

// MonthlyChecker fires once per calendar month, on or after the target day.
type MonthlyChecker struct{}

func (MonthlyChecker) IsDue(lastExecution, now time.Time, dayOfMonth, _ int) bool {
	if !lastExecution.IsZero() &&
		lastExecution.Year() == now.Year() && lastExecution.Month() == now.Month() {
		return false
	}
	return now.Day() >= clampToMonth(dayOfMonth, now)
}

// YearlyChecker fires once per calendar year, on or after the target
// month and day.
type YearlyChecker struct{}

func (YearlyChecker) IsDue(lastExecution, now time.Time, dayOfMonth, monthOfYear int) bool {
	if !lastExecution.IsZero() && lastExecution.Year() == now.Year() {
		return false
	}
	if int(now.Month()) < monthOfYear {
		return false
	}
	if int(now.Month()) == monthOfYear {
		return now.Day() >= clampToMonth(dayOfMonth, now)
	}
	return true
}

// clampToMonth pulls a target day that does not exist in now's month
// (like 31 in April) back to the month's last day.
func clampToMonth(targetDay int, now time.Time) int {
	lastDay := time.Date(now.Year(), now.Month()+1, 0, 0, 0, 0, 0, time.UTC).Day()
	if targetDay > lastDay {
		return lastDay
	}
	return targetDay
}

var duenessStrategies = map[core.Frequency]DuenessChecker{
	core.Monthly: MonthlyChecker{},
	core.Yearly:  YearlyChecker{},
}

// GetDuenessChecker returns the checker for a frequency, or an error for
// unknown frequencies.
func GetDuenessChecker(frequency core.Frequency) (DuenessChecker, error) {
	checker, ok := duenessStrategies[frequency]
	if !ok {
		return nil, fmt.Errorf("unknown frequency: %s", frequency)
	}
	return checker, nil
}
