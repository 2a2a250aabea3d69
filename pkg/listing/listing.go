// Package listing holds the listing record served by the API and the
// enrichment pass that attaches a cached photo URL to each listing.
package listing

// Listing is a property record as selected from the upstream feed. The
// JSON names mirror the feed's field names, since clients were written
// against those.
type Listing struct {
	ListingKey          string  `json:"ListingKey"`
	ListPrice           float64 `json:"ListPrice"`
	UnparsedAddress     string  `json:"UnparsedAddress"`
	PublicRemarks       string  `json:"PublicRemarks"`
	ListAgentFullName   string  `json:"ListAgentFullName"`
	MlsStatus           string  `json:"MlsStatus"`
	ListOfficeKey       string  `json:"ListOfficeKey"`
	ListingContractDate string  `json:"ListingContractDate"`
	// MediaURL is filled in by enrichment; empty when no photo could be
	// resolved.
	MediaURL string `json:"MediaURL"`
}

// Fields is the projection requested from the feed.
var Fields = []string{
	"ListingKey",
	"ListPrice",
	"UnparsedAddress",
	"PublicRemarks",
	"ListAgentFullName",
	"MlsStatus",
	"ListOfficeKey",
	"ListingContractDate",
}

// Media is a single media record for a listing.
type Media struct {
	ResourceRecordKey     string `json:"ResourceRecordKey"`
	MediaURL              string `json:"MediaURL"`
	ModificationTimestamp string `json:"ModificationTimestamp"`
}
