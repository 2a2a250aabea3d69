package review

// Review is one place review, as the places API returns it.
type Review struct {
	AuthorName              string `json:"author_name"`
	AuthorURL               string `json:"author_url,omitempty"`
	Language                string `json:"language,omitempty"`
	ProfilePhotoURL         string `json:"profile_photo_url,omitempty"`
	Rating                  int    `json:"rating"`
	RelativeTimeDescription string `json:"relative_time_description,omitempty"`
	Text                    string `json:"text"`
	// Seconds since the epoch.
	Time int64 `json:"time"`
}
