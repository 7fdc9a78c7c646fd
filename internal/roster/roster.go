// Package roster holds the fixed participant list every new event is seeded from.
package roster

import "github.com/baechuer/alchies-rsvp/internal/domain"

var defaultUsers = []domain.User{
	{ID: "1", Name: "Aubrey"},
	{ID: "2", Name: "Tze"},
	{ID: "3", Name: "Tram"},
	{ID: "4", Name: "Jojo", Avatar: "https://i.pravatar.cc/150?img=4"},
	{ID: "5", Name: "Cameron", Avatar: "https://i.pravatar.cc/150?img=5"},
	{ID: "6", Name: "Cindy"},
	{ID: "7", Name: "Stevie"},
	{ID: "8", Name: "Caden", Avatar: "https://i.pravatar.cc/150?img=8"},
	{ID: "9", Name: "Cara", Avatar: "https://i.pravatar.cc/150?img=9"},
	{ID: "10", Name: "Patti"},
	{ID: "11", Name: "James"},
	{ID: "12", Name: "Moe"},
	{ID: "13", Name: "Venessa"},
	{ID: "14", Name: "Vivek"},
}

// Users returns a copy of the roster in id order.
func Users() []domain.User {
	return append([]domain.User(nil), defaultUsers...)
}

// DefaultRSVPs returns a fresh all-undecided RSVP list, one entry per user.
func DefaultRSVPs() []domain.RSVP {
	out := make([]domain.RSVP, len(defaultUsers))
	for i, u := range defaultUsers {
		out[i] = domain.RSVP{
			UserID: u.ID,
			Name:   u.Name,
			Status: domain.RSVPUndecided,
		}
	}
	return out
}

func Lookup(id string) (domain.User, bool) {
	for _, u := range defaultUsers {
		if u.ID == id {
			return u, true
		}
	}
	return domain.User{}, false
}

func Size() int { return len(defaultUsers) }
