package api

import (
	"net/http"

	"github.com/MrJamesThe3rd/budgie/internal/category"
	"github.com/MrJamesThe3rd/budgie/internal/tracker"
)

// FilterFromQuery reads category, start_date and end_date. Dates are
// YYYY-MM-DD and inclusive.
func FilterFromQuery(r *http.Request) (tracker.Filter, error) {
	q := r.URL.Query()

	filter := tracker.Filter{Category: category.Normalize(q.Get("category"))}

	if s := q.Get("start_date"); s != "" {
		t, err := tracker.ParseDate(s)
		if err != nil {
			return tracker.Filter{}, err
		}

		filter.StartDate = &t
	}

	if s := q.Get("end_date"); s != "" {
		t, err := tracker.ParseDate(s)
		if err != nil {
			return tracker.Filter{}, err
		}

		filter.EndDate = &t
	}

	return filter, nil
}
