// internal/schedule/schedule.go
package schedule

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"luckydraw-crm/internal/domain"
)

// Schedule is the installment table of one season, optionally settled
// against a customer's repayments.
type Schedule struct {
	SeasonID     string               `json:"seasonId"`
	Installments []domain.Installment `json:"installments"`
	Summary      Summary              `json:"summary"`
}

type Summary struct {
	Months      int                              `json:"months"`
	Total       decimal.Decimal                  `json:"total"`
	Paid        decimal.Decimal                  `json:"paid"`
	Outstanding decimal.Decimal                  `json:"outstanding"`
	ByStatus    map[domain.InstallmentStatus]int `json:"byStatus"`
	NextDue     *domain.Installment              `json:"nextDue,omitempty"`
	Unmatched   int                              `json:"unmatched"` // repayments filed outside the season
}

// MonthSpan counts calendar months between start and end, both inclusive.
func MonthSpan(start, end time.Time) (int, error) {
	if end.Before(start) {
		return 0, fmt.Errorf("%w: end %s before start %s", domain.ErrInvalidSeason,
			end.Format("2006-01-02"), start.Format("2006-01-02"))
	}
	return (end.Year()-start.Year())*12 + int(end.Month()) - int(start.Month()) + 1, nil
}

// AddMonths moves t forward by n months, clamping the day to the end of the
// target month instead of overflowing into the next one.
func AddMonths(t time.Time, n int) time.Time {
	first := time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location()).AddDate(0, n, 0)
	day := t.Day()
	if last := daysIn(first.Year(), first.Month(), t.Location()); day > last {
		day = last
	}
	return time.Date(first.Year(), first.Month(), day, 0, 0, 0, 0, t.Location())
}

func daysIn(year int, month time.Month, loc *time.Location) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, loc).Day()
}

// Build derives one installment per month of the season. Repayments are
// matched by month key; those outside the season are counted as unmatched.
// Outstanding is owed per slot, so an overpaid month never covers another.
func Build(season domain.Season, repayments []domain.Repayment, now time.Time) (*Schedule, error) {
	if season.StartDate.IsZero() || season.EndDate.IsZero() {
		return nil, fmt.Errorf("%w: season %q has no start or end date", domain.ErrInvalidSeason, season.ID)
	}
	months, err := MonthSpan(season.StartDate.Time, season.EndDate.Time)
	if err != nil {
		return nil, err
	}

	paidByMonth := make(map[string]decimal.Decimal, len(repayments))
	countByMonth := make(map[string]int, len(repayments))
	for _, r := range repayments {
		paidByMonth[r.Month] = paidByMonth[r.Month].Add(r.Amount)
		countByMonth[r.Month]++
	}

	today := truncateDay(now.In(season.StartDate.Location()))
	sched := &Schedule{
		SeasonID:     season.ID,
		Installments: make([]domain.Installment, 0, months),
		Summary: Summary{
			Months:   months,
			ByStatus: make(map[domain.InstallmentStatus]int),
		},
	}

	for i := 0; i < months; i++ {
		due := AddMonths(season.StartDate.Time, i)
		month := due.Format("2006-01")
		paid := paidByMonth[month]
		delete(countByMonth, month)

		inst := domain.Installment{
			Number:  i + 1,
			Month:   month,
			DueDate: domain.Date{Time: due},
			Amount:  season.MonthlyAmount,
			Paid:    paid,
			Elapsed: !truncateDay(due).After(today),
		}
		inst.Status = status(inst, today)

		sched.Installments = append(sched.Installments, inst)
		sched.Summary.Total = sched.Summary.Total.Add(inst.Amount)
		sched.Summary.Paid = sched.Summary.Paid.Add(inst.Paid)
		if owed := inst.Amount.Sub(inst.Paid); owed.IsPositive() {
			sched.Summary.Outstanding = sched.Summary.Outstanding.Add(owed)
		}
		sched.Summary.ByStatus[inst.Status]++
		if sched.Summary.NextDue == nil && inst.Status != domain.InstallmentPaid {
			next := inst
			sched.Summary.NextDue = &next
		}
	}

	for _, n := range countByMonth {
		sched.Summary.Unmatched += n
	}
	return sched, nil
}

func status(inst domain.Installment, today time.Time) domain.InstallmentStatus {
	switch {
	case inst.Amount.IsPositive() && inst.Paid.GreaterThanOrEqual(inst.Amount):
		return domain.InstallmentPaid
	case inst.Paid.IsPositive():
		return domain.InstallmentPartial
	}
	due := truncateDay(inst.DueDate.Time)
	switch {
	case due.Before(today):
		return domain.InstallmentOverdue
	case due.Year() == today.Year() && due.Month() == today.Month():
		return domain.InstallmentDue
	default:
		return domain.InstallmentUpcoming
	}
}

func truncateDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
