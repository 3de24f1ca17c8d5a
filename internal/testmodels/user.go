package testmodels

import "net/netip"

type User struct {
	ID      int                `json:"id"`
	Name    string             `json:"full_name"`
	Info    Detail             `json:"info"`
	Roles   []string           `json:"roles"`
	Score   map[string]int     `json:"score"`
	Hosts   map[int]netip.Addr `json:"hosts"`
	Account string             `json:"account" jsonpatch:"readonly"`
	Secret  string             `json:"-"`
	Manager *User              `json:"manager,omitempty"`
	age     int                // Unexported field
}

type Detail struct {
	Age     int
	Address string `json:"addr"`
}

// AgePtr returns a pointer to the unexported age field for use in path selectors.
func (u *User) AgePtr() *int {
	return &u.age
}
