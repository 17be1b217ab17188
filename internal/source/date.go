// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package source

import (
	"regexp"
	"strconv"
	"time"

	"github.com/pdiddy/docharvest/pkg/types"
)

// arxivIDPattern matches the modern arXiv identifier embedded in a URL or
// title: "2301.07041" means January 2023.
var arxivIDPattern = regexp.MustCompile(`(?:^|[^0-9])(\d{2})(\d{2})\.\d{4,5}(?:v\d+)?(?:$|[^0-9])`)

// yearPattern matches a plausible publication year.
var yearPattern = regexp.MustCompile(`(?:^|[^0-9])((?:19|20)\d{2})(?:$|[^0-9])`)

// ExtractDate attempts to derive a publication date for a candidate from
// its URL or title. Recognized conventions, in order:
//
//  1. An arXiv identifier (YYMM.NNNNN) in the URL — year and month.
//  2. A 4-digit year in the URL path.
//  3. A 4-digit year in the title.
//
// The returned date uses the first day of the resolved period, so range
// comparisons behave predictably.
func ExtractDate(c types.Candidate) (time.Time, bool) {
	if t, ok := dateFromArxivID(c.URL); ok {
		return t, true
	}
	if t, ok := dateFromArxivID(c.ID); ok {
		return t, true
	}
	if t, ok := dateFromYear(c.URL); ok {
		return t, true
	}
	if t, ok := dateFromYear(c.Title); ok {
		return t, true
	}
	return time.Time{}, false
}

func dateFromArxivID(s string) (time.Time, bool) {
	m := arxivIDPattern.FindStringSubmatch(s)
	if m == nil {
		return time.Time{}, false
	}
	yy, _ := strconv.Atoi(m[1])
	mm, _ := strconv.Atoi(m[2])
	if mm < 1 || mm > 12 {
		return time.Time{}, false
	}
	// Modern arXiv IDs start in 2007; two-digit years map into 2000-2099.
	return time.Date(2000+yy, time.Month(mm), 1, 0, 0, 0, 0, time.UTC), true
}

func dateFromYear(s string) (time.Time, bool) {
	m := yearPattern.FindStringSubmatch(s)
	if m == nil {
		return time.Time{}, false
	}
	year, _ := strconv.Atoi(m[1])
	now := time.Now().Year()
	if year < 1900 || year > now+1 {
		return time.Time{}, false
	}
	return time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC), true
}
