package metrics

/*
Labels and so on for metrics used in realtyd.
*/

const (
	LabelMethod  = "method"
	LabelRoute   = "route"
	LabelSuccess = "success"

	// Labels for upstream and cache metrics
	LabelKind   = "kind"
	LabelResult = "result"
	LabelStore  = "store"
)
