package entity

// Reason is a default or recovery reason. Order is the 1-based position in the list the server returned.
type Reason struct {
	ID         string `json:"id"`
	Content    string `json:"content"`
	IsEnabled  bool   `json:"isEnabled"`
	Order      int    `json:"order"`
	CreateTime string `json:"createTime"`
	UpdateTime string `json:"updateTime"`
}

// EnabledReasons returns the selectable subset, keeping order
func EnabledReasons(reasons []Reason) []Reason {
	out := make([]Reason, 0, len(reasons))
	for _, r := range reasons {
		if r.IsEnabled {
			out = append(out, r)
		}
	}
	return out
}
