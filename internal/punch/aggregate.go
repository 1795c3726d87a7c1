package punch

import (
	"sort"
	"strconv"
	"time"

	"github.com/shopspring/decimal"
)

var secondsPerHour = decimal.NewFromInt(3600)

type dayKey struct {
	personID   string
	personName string
	date       string
}

// AggregateDays groups punches by (person, date) and derives one DayRecord
// per group: earliest punch is the check-in, latest the check-out, and hours
// is the elapsed time between them rounded to 2 decimals, half away from
// zero. A person with no valid punches produces no sheet at all.
func AggregateDays(punches []Punch, location string) []PersonSheet {
	groups := map[dayKey][]Punch{}
	for _, p := range punches {
		key := dayKey{personID: p.PersonID, personName: p.PersonName, date: p.Date}
		groups[key] = append(groups[key], p)
	}

	type personKey struct {
		id   string
		name string
	}
	byPerson := map[personKey][]DayRecord{}
	for key, group := range groups {
		sort.Slice(group, func(i, j int) bool {
			return group[i].Timestamp.Before(group[j].Timestamp)
		})
		start := group[0].Timestamp
		end := group[len(group)-1].Timestamp
		byPerson[personKey{id: key.personID, name: key.personName}] = append(
			byPerson[personKey{id: key.personID, name: key.personName}],
			DayRecord{
				PersonID:   key.personID,
				PersonName: key.personName,
				Location:   location,
				Date:       key.date,
				Start:      start,
				End:        end,
				Hours:      elapsedHours(start, end),
			},
		)
	}

	sheets := make([]PersonSheet, 0, len(byPerson))
	for key, days := range byPerson {
		sort.Slice(days, func(i, j int) bool {
			return days[i].Start.Before(days[j].Start)
		})
		sheets = append(sheets, PersonSheet{
			PersonID:   key.id,
			PersonName: key.name,
			Days:       days,
		})
	}
	sort.Slice(sheets, func(i, j int) bool {
		if sheets[i].PersonID != sheets[j].PersonID {
			return lessPersonID(sheets[i].PersonID, sheets[j].PersonID)
		}
		return sheets[i].PersonName < sheets[j].PersonName
	})
	return sheets
}

// TotalHours sums a person's daily hours, rounded to 2 decimals.
func (s PersonSheet) TotalHours() decimal.Decimal {
	total := decimal.Zero
	for _, day := range s.Days {
		total = total.Add(day.Hours)
	}
	return total.Round(2)
}

// elapsedHours converts the span between two punches to fractional hours
// with the payroll rounding rule pinned to 2 decimals, half away from zero.
func elapsedHours(start, end time.Time) decimal.Decimal {
	seconds := decimal.NewFromInt(int64(end.Sub(start).Seconds()))
	return seconds.Div(secondsPerHour).Round(2)
}

// lessPersonID orders numeric ids numerically and falls back to string
// order for exports with non-numeric identifiers.
func lessPersonID(a, b string) bool {
	an, aErr := strconv.Atoi(a)
	bn, bErr := strconv.Atoi(b)
	if aErr == nil && bErr == nil {
		return an < bn
	}
	return a < b
}
