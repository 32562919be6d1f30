package model

// Snapshot is the complete view state rendered by the page, the JSON API
// and the live feed.
type Snapshot struct {
	Loading      bool        `json:"loading"`
	Tips         []TipRecord `json:"tips"`
	CurrentIndex int         `json:"current_index"`
	Current      *TipRecord  `json:"current,omitempty"`
	Emails       []string    `json:"emails"`
	PendingInput string      `json:"pending_input"`
	Status       string      `json:"status,omitempty"`
}
