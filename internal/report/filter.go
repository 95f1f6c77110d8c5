// Package report filters Close leads by founding date and summarizes them by state.
package report

import (
	"time"

	"github.com/rotisserie/eris"

	"github.com/sells-group/close-import/pkg/closeio"
)

// Window is an inclusive range of calendar dates.
type Window struct {
	Start time.Time
	End   time.Time
}

// ParseWindow parses two YYYY-MM-DD dates. start must not be after end.
func ParseWindow(start, end string) (Window, error) {
	s, err := time.Parse(time.DateOnly, start)
	if err != nil {
		return Window{}, eris.Wrapf(err, "report: parse start date %q", start)
	}
	e, err := time.Parse(time.DateOnly, end)
	if err != nil {
		return Window{}, eris.Wrapf(err, "report: parse end date %q", end)
	}
	if s.After(e) {
		return Window{}, eris.Errorf("report: start date %s is after end date %s", start, end)
	}
	return Window{Start: s, End: e}, nil
}

// Contains reports whether t falls within the window, bounds included.
func (w Window) Contains(t time.Time) bool {
	return !t.Before(w.Start) && !t.After(w.End)
}

// Lead is a lead that passed the filter, reduced to what the report needs.
type Lead struct {
	Name    string
	State   string
	Founded time.Time
	Revenue float64
}

// Fields names the lead custom fields holding founding date and revenue.
type Fields struct {
	Founded string
	Revenue string
}

// Filter keeps the leads that have both custom fields set, at least one
// address, and a founding date inside w. State comes from the first address.
// A founding date that is not YYYY-MM-DD is an error.
func Filter(leads []closeio.Lead, fields Fields, w Window) ([]Lead, error) {
	if fields.Founded == "" || fields.Revenue == "" {
		return nil, nil
	}

	var out []Lead
	for _, l := range leads {
		if !l.HasCustom(fields.Founded) || !l.HasCustom(fields.Revenue) || len(l.Addresses) == 0 {
			continue
		}

		raw := l.Custom(fields.Founded).String()
		founded, err := time.Parse(time.DateOnly, raw)
		if err != nil {
			return nil, eris.Wrapf(err, "report: lead %s has invalid founding date %q", l.ID, raw)
		}
		if !w.Contains(founded) {
			continue
		}

		out = append(out, Lead{
			Name:    l.Name,
			State:   l.Addresses[0].State,
			Founded: founded,
			Revenue: l.Custom(fields.Revenue).Float(),
		})
	}
	return out, nil
}
