package entity

// Customer is a corporate customer as shown to desk users.
// IsDefaulted is owned by the backend and flips only when an audit approves an application.
type Customer struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	ExternalLevel string `json:"externalLevel"`
	IsDefaulted   bool   `json:"isDefaulted"`
	Industry      string `json:"industry"`
	Region        string `json:"region"`
}

// FilterCustomers returns the customers whose IsDefaulted flag equals defaulted, keeping order
func FilterCustomers(customers []Customer, defaulted bool) []Customer {
	out := make([]Customer, 0, len(customers))
	for _, c := range customers {
		if c.IsDefaulted == defaulted {
			out = append(out, c)
		}
	}
	return out
}
