package http

const (
	ListListings = "ListListings"
	ListReviews  = "ListReviews"

	// Served by realtyd itself rather than through api.Server.
	GetImage = "GetImage"
	Health   = "Health"
	Metrics  = "Metrics"
	NotFound = "NotFound"
)
