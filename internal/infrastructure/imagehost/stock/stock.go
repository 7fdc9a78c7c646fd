// Package stock hands out placeholder photos when no image host is reachable.
package stock

import (
	"math/rand/v2"

	"github.com/google/uuid"
)

const query = "?w=800&h=600&fit=crop&q=80"

var photos = []string{
	"https://images.unsplash.com/photo-1523837157348-ffbdaccfc7de",
	"https://images.unsplash.com/photo-1517604931442-7e0c8ed2963c",
	"https://images.unsplash.com/photo-1610890716171-6b1bb98ffd09",
	"https://images.unsplash.com/photo-1501281668745-f7f57925c3b4",
	"https://images.unsplash.com/photo-1496024840928-4c417adf211d",
}

type Picker struct {
	pick func(n int) int
}

func New() *Picker {
	return &Picker{pick: rand.IntN}
}

// Pick returns a random stock photo URL and a fresh id.
func (p *Picker) Pick() (url, id string) {
	return photos[p.pick(len(photos))] + query, uuid.NewString()
}

// URLs lists every URL Pick can return.
func URLs() []string {
	out := make([]string, len(photos))
	for i, p := range photos {
		out[i] = p + query
	}
	return out
}
