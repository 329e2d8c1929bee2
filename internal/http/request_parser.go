// Package http exposes the transaction pipeline as a JSON API.
//
// This file implements parsing of request bodies and filter query
// parameters. Filter parsing is fail-open throughout: anything
// unparseable behaves as if that dimension were unset.
package http

import (
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"tally/internal/core"
)

// bodyParser handles JSON and form-encoded request bodies.
type bodyParser struct {
	jsonData map[string]any
	formData url.Values
}

func parseBody(r *http.Request) (*bodyParser, error) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		return nil, err
	}

	p := &bodyParser{}
	if len(body) == 0 {
		p.formData = url.Values{}
		return p, nil
	}

	if body[0] == '{' {
		p.jsonData = make(map[string]any)
		if err := json.Unmarshal(body, &p.jsonData); err != nil {
			return nil, err
		}
		return p, nil
	}

	p.formData, err = url.ParseQuery(string(body))
	if err != nil {
		return nil, err
	}
	return p, nil
}

// Get returns a trimmed string value from the parsed body.
func (p *bodyParser) Get(key string) string {
	if p.jsonData != nil {
		if val, ok := p.jsonData[key]; ok {
			return strings.TrimSpace(stringValue(val))
		}
		return ""
	}
	return strings.TrimSpace(p.formData.Get(key))
}

func stringValue(v any) string {
	switch val := v.(type) {
	case string:
		return val
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(val)
	default:
		return ""
	}
}

// parseFilter builds the date filter and type selector from query
// parameters. Supported forms:
//
//	?filter=month&year=2026&month=1
//	?filter=month&month=2026-01
//	?filter=range&start=2026-03-01&end=2026-03-31
//
// plus an independent &type=expense|income|all list selector.
func parseFilter(q url.Values) (core.Filter, string) {
	selector := strings.TrimSpace(q.Get("type"))

	switch strings.TrimSpace(q.Get("filter")) {
	case "month":
		f := core.Filter{Mode: core.FilterMonth}
		monthParam := strings.TrimSpace(q.Get("month"))
		if strings.Contains(monthParam, "-") {
			f.Year, f.Month = core.ParseMonth(monthParam)
			return f, selector
		}
		f.Year = atoiOrZero(q.Get("year"))
		f.Month = atoiOrZero(monthParam)
		return f, selector

	case "range":
		return core.Filter{
			Mode:  core.FilterRange,
			Start: core.ParseDate(strings.TrimSpace(q.Get("start"))),
			End:   core.ParseDate(strings.TrimSpace(q.Get("end"))),
		}, selector

	default:
		return core.Filter{Mode: core.FilterAll}, selector
	}
}

func atoiOrZero(s string) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0
	}
	return n
}

// filterCacheKey canonicalizes a filter for summary caching. The type
// selector is deliberately absent: it never affects totals.
func filterCacheKey(f core.Filter) string {
	switch f.Mode {
	case core.FilterMonth:
		return "month:" + strconv.Itoa(f.Year) + "-" + strconv.Itoa(f.Month)
	case core.FilterRange:
		key := "range:"
		if f.Start != nil {
			key += f.Start.Format("2006-01-02")
		}
		key += ".."
		if f.End != nil {
			key += f.End.Format("2006-01-02")
		}
		return key
	default:
		return "all"
	}
}
