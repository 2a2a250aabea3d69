package http

import (
	"net/http"
	"sort"

	"github.com/golang/gddo/httputil/header"
)

// negotiateContentType picks which of the offered content types to
// answer with, given the request's Accept header. Higher `q` wins;
// ties go to the earlier offer. Wildcards are not expanded, so a
// header naming none of the offers gets "".
func negotiateContentType(r *http.Request, offers []string) string {
	specs := header.ParseAccept(r.Header, "Accept")
	if len(specs) == 0 {
		return offers[0]
	}

	var acceptable []header.AcceptSpec
	for _, spec := range specs {
		if indexOf(offers, spec.Value) < len(offers) {
			acceptable = append(acceptable, spec)
		}
	}
	if len(acceptable) == 0 {
		return ""
	}
	sort.SliceStable(acceptable, func(i, j int) bool {
		if acceptable[i].Q == acceptable[j].Q {
			return indexOf(offers, acceptable[i].Value) < indexOf(offers, acceptable[j].Value)
		}
		return acceptable[i].Q > acceptable[j].Q
	})
	return acceptable[0].Value
}

// indexOf returns len(ss) when search is absent.
func indexOf(ss []string, search string) int {
	for i, s := range ss {
		if s == search {
			return i
		}
	}
	return len(ss)
}
