// Package contacts parses the contact CSV and cleans its records before import.
package contacts

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

var (
	emailPattern = regexp.MustCompile(`^\S+@\S+\.\S+$`)
	phonePattern = regexp.MustCompile(`^\+?[1-9][0-9]{7,14}$`)

	// multiValueSplitter separates the values of a multi-valued cell.
	multiValueSplitter = strings.NewReplacer(",", "\n", ";", "\n", "?", "")
)

const minPhoneLen = 7

// Record is one CSV row, keyed by column, before cleaning.
type Record struct {
	Name    string
	Emails  string
	Phones  string
	Company string
	Founded string
	Revenue string
	State   string
}

// Contact is a cleaned record ready for import.
type Contact struct {
	Name    string
	Emails  []string
	Phones  []string
	Company string
	// Founded is dot separated with every segment at least two characters wide.
	Founded string
	Revenue string
	State   string
}

// Reachable reports whether the contact carries a name or any valid way to reach it.
func (c Contact) Reachable() bool {
	return c.Name != "" || len(c.Emails) > 0 || len(c.Phones) > 0
}

// Clean normalizes a raw record. ok is false when the record has no name,
// no valid email, and no valid phone, in which case it should be dropped.
func Clean(r Record) (c Contact, ok bool) {
	c = Contact{
		Name:    strings.TrimSpace(r.Name),
		Emails:  filter(SplitMulti(r.Emails), ValidEmail),
		Phones:  filter(SplitMulti(r.Phones), ValidPhone),
		Company: strings.TrimSpace(r.Company),
		Founded: PadDate(strings.TrimSpace(r.Founded)),
		Revenue: strings.TrimSpace(r.Revenue),
		State:   strings.TrimSpace(r.State),
	}
	return c, c.Reachable()
}

// SplitMulti splits a cell on newlines, commas and semicolons, strips "?",
// and returns the non-empty values in order with duplicates removed.
func SplitMulti(s string) []string {
	parts := strings.Split(multiValueSplitter.Replace(s), "\n")

	seen := make(map[string]bool, len(parts))
	var out []string
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" || seen[p] {
			continue
		}
		seen[p] = true
		out = append(out, p)
	}
	return out
}

// ValidEmail reports whether s looks like a deliverable address.
func ValidEmail(s string) bool {
	return emailPattern.MatchString(s)
}

// ValidPhone reports whether s is an E.164-style number.
func ValidPhone(s string) bool {
	return len(s) >= minPhoneLen && phonePattern.MatchString(s)
}

// PadDate left-pads every dot-separated segment shorter than two characters
// with a zero, so "3.7.1999" becomes "03.07.1999". Empty input stays empty.
func PadDate(s string) string {
	if s == "" {
		return ""
	}
	segs := strings.Split(s, ".")
	for i, seg := range segs {
		if len(seg) < 2 {
			segs[i] = "0" + seg
		}
	}
	return strings.Join(segs, ".")
}

// FoundedISO converts a padded DD.MM.YYYY date to YYYY-MM-DD. When the value
// does not parse it is returned unchanged with ok set to false.
func FoundedISO(s string) (iso string, ok bool) {
	t, err := time.Parse("02.01.2006", s)
	if err != nil {
		return s, false
	}
	return t.Format(time.DateOnly), true
}

// RevenueValue parses a revenue cell such as "$1,250,000.50".
func RevenueValue(s string) (float64, bool) {
	s = strings.NewReplacer("$", "", ",", "", " ", "").Replace(s)
	if s == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

func filter(vals []string, keep func(string) bool) []string {
	var out []string
	for _, v := range vals {
		if keep(v) {
			out = append(out, v)
		}
	}
	return out
}
