package entity

// Statistics holds the aggregate views computed by the backend
type Statistics struct {
	Industry []Share      `json:"industry"`
	Region   []Share      `json:"region"`
	Trend    []TrendPoint `json:"trend"`
}

// Share is one slice of a distribution
type Share struct {
	Name       string  `json:"name"`
	Count      int     `json:"count"`
	Percentage float64 `json:"percentage"`
}

// TrendPoint is the number of defaults recorded on a date
type TrendPoint struct {
	Date  string `json:"date"`
	Count int    `json:"count"`
}
