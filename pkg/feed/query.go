package feed

import (
	"net/url"
	"strconv"
	"strings"
)

// Quote renders s as an OData string literal.
func Quote(s string) string {
	return "'" + strings.Replace(s, "'", "''", -1) + "'"
}

// Eq is the OData comparison `field eq 'value'`.
func Eq(field, value string) string {
	return field + " eq " + Quote(value)
}

// Or joins filter terms with `or`.
func Or(terms ...string) string {
	return strings.Join(terms, " or ")
}

// And joins filter terms with `and`.
func And(terms ...string) string {
	return strings.Join(terms, " and ")
}

// Query is the subset of OData system query options the feed is
// queried with. Zero values are left out of the encoded query.
type Query struct {
	Filter  string
	Select  []string
	OrderBy string
	Top     int
}

// Encode renders the query string (without the leading `?`). Option
// names keep their literal `$`; values are percent-encoded with spaces
// as %20, which is what OData servers expect.
func (q Query) Encode() string {
	var parts []string
	if q.Filter != "" {
		parts = append(parts, "$filter="+escape(q.Filter))
	}
	if len(q.Select) > 0 {
		parts = append(parts, "$select="+strings.Join(q.Select, ","))
	}
	if q.OrderBy != "" {
		parts = append(parts, "$orderby="+escape(q.OrderBy))
	}
	if q.Top > 0 {
		parts = append(parts, "$top="+strconv.Itoa(q.Top))
	}
	return strings.Join(parts, "&")
}

func escape(s string) string {
	return strings.Replace(url.QueryEscape(s), "+", "%20", -1)
}

// withQuery appends the encoded query to a base URL, respecting any
// query string the base already carries.
func withQuery(base string, q Query) string {
	encoded := q.Encode()
	if encoded == "" {
		return base
	}
	if strings.Contains(base, "?") {
		return base + "&" + encoded
	}
	return base + "?" + encoded
}
