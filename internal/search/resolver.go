package search

import (
	"sort"
	"strconv"
	"strings"
	"time"

	"go-agrimarket/internal/model"

	"github.com/araddon/dateparse"
)

// monthMap maps full month names to their respective numbers (1-12)
var monthMap = map[string]int{
	"january": 1, "february": 2, "march": 3, "april": 4,
	"may": 5, "june": 6, "july": 7, "august": 8,
	"september": 9, "october": 10, "november": 11, "december": 12,
}

// monthAbbreviationMap maps month abbreviations (e.g. "apr") to full month names,
// which monthMap then resolves to a number
var monthAbbreviationMap = map[string]string{
	"jan": "january", "feb": "february", "mar": "march", "apr": "april",
	"may": "may", "jun": "june", "jul": "july", "aug": "august",
	"sep": "september", "oct": "october", "nov": "november", "dec": "december",
}

// term holds the per-query state derived once before scanning the catalog
type term struct {
	lowered    string
	intValue   int
	isInt      bool
	parsedDate time.Time
	isFullDate bool
	month      int // 0 when the term is not a month name or abbreviation
}

func newTerm(raw string) term {
	t := term{lowered: strings.ToLower(raw)}

	t.intValue, t.isInt = parseInt(t.lowered)

	if parsed, err := dateparse.ParseAny(raw); err == nil {
		t.parsedDate = parsed
		t.isFullDate = true
	}

	if fullMonthName, ok := monthAbbreviationMap[t.lowered]; ok {
		t.month = monthMap[fullMonthName]
	} else if m, ok := monthMap[t.lowered]; ok {
		t.month = m
	}

	return t
}

// matches reports whether ANY clause holds for the product. The filter is
// deliberately permissive: a term like "5" surfaces products produced in May,
// on the 5th of any month, and in year 5 alike.
func (t term) matches(p *model.Product) bool {
	if strings.Contains(strings.ToLower(p.Name), t.lowered) ||
		strings.Contains(strings.ToLower(p.Description), t.lowered) {
		return true
	}

	if p.Farmer != nil {
		if strings.Contains(strings.ToLower(p.Farmer.FullName()), t.lowered) ||
			strings.Contains(strings.ToLower(p.Farmer.FirstName), t.lowered) ||
			strings.Contains(strings.ToLower(p.Farmer.LastName), t.lowered) {
			return true
		}
	}

	if strings.Contains(strconv.FormatFloat(p.Price, 'f', -1, 64), t.lowered) {
		return true
	}

	year, month, day := p.ProductionDate.Date()

	if t.isInt && (year == t.intValue || int(month) == t.intValue || day == t.intValue) {
		return true
	}

	if t.month != 0 && int(month) == t.month {
		return true
	}

	if t.isFullDate {
		py, pm, pd := t.parsedDate.Date()
		if year == py && month == pm && day == pd {
			return true
		}
	}

	return false
}

// Resolve filters the catalog against a free-text term and returns the
// matching products ordered by production date descending, ties keeping the
// input order. An empty term returns the full catalog.
func Resolve(rawTerm string, products []model.Product) []model.Product {
	matched := products

	if rawTerm != "" {
		t := newTerm(rawTerm)
		matched = make([]model.Product, 0, len(products))
		for i := range products {
			if t.matches(&products[i]) {
				matched = append(matched, products[i])
			}
		}
	}

	ordered := make([]model.Product, len(matched))
	copy(ordered, matched)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].ProductionDate.After(ordered[j].ProductionDate)
	})
	return ordered
}

func parseInt(s string) (int, bool) {
	v, err := strconv.Atoi(s)
	return v, err == nil
}
