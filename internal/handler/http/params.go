package http

import (
	"net/http"
	"strconv"
)

// queryPeriod reads the required period_month and period_year parameters.
// The returned message is empty on success.
func queryPeriod(r *http.Request) (month, year int, message string) {
	monthStr := r.URL.Query().Get("period_month")
	yearStr := r.URL.Query().Get("period_year")

	if monthStr == "" || yearStr == "" {
		return 0, 0, "period_month and period_year are required"
	}

	month, err := strconv.Atoi(monthStr)
	if err != nil || month < 1 || month > 12 {
		return 0, 0, "Invalid period_month"
	}

	year, err = strconv.Atoi(yearStr)
	if err != nil || year < 2020 {
		return 0, 0, "Invalid period_year"
	}

	return month, year, ""
}

// queryInt returns nil when the parameter is absent or not a number.
func queryInt(r *http.Request, key string) *int {
	if s := r.URL.Query().Get(key); s != "" {
		if v, err := strconv.Atoi(s); err == nil {
			return &v
		}
	}
	return nil
}

func queryString(r *http.Request, key string) *string {
	if s := r.URL.Query().Get(key); s != "" {
		return &s
	}
	return nil
}

func queryPage(r *http.Request) (page, limit int) {
	page, limit = 1, 20
	if p := queryInt(r, "page"); p != nil && *p > 0 {
		page = *p
	}
	if l := queryInt(r, "limit"); l != nil && *l > 0 {
		limit = *l
	}
	return page, limit
}
