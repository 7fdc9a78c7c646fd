package event

import (
	"time"

	"github.com/baechuer/alchies-rsvp/internal/domain"
	"github.com/baechuer/alchies-rsvp/internal/roster"
)

// SampleEvents is the dev seed: two upcoming events with the default roster.
func SampleEvents() []domain.Event {
	return []domain.Event{
		{
			ID:          "1",
			Title:       "Beach BBQ",
			Date:        "2023-06-15",
			Time:        "15:00",
			Location:    "Sunny Beach",
			Description: "Let's have a BBQ at the beach! Bring your own drinks.",
			ImageURL:    "https://images.unsplash.com/photo-1523837157348-ffbdaccfc7de?auto=format&fit=crop&w=1000&q=80",
			Organizer: domain.User{
				ID:     "1",
				Name:   "Alex",
				Avatar: "https://i.pravatar.cc/150?img=1",
			},
			RSVPs:         roster.DefaultRSVPs(),
			Status:        domain.StatusActive,
			ShareableLink: "https://alchies.netlify.app/event/1",
			CreatedAt:     time.Date(2023, 5, 1, 12, 0, 0, 0, time.UTC),
			UpdatedAt:     time.Date(2023, 5, 1, 12, 0, 0, 0, time.UTC),
		},
		{
			ID:          "2",
			Title:       "Movie Night",
			Date:        "2023-06-20",
			Time:        "19:00",
			Location:    "Jamie's Place",
			Description: "We'll be watching the new Marvel movie. Popcorn provided!",
			ImageURL:    "https://images.unsplash.com/photo-1517604931442-7e0c8ed2963c?auto=format&fit=crop&w=1000&q=80",
			Organizer: domain.User{
				ID:     "2",
				Name:   "Jamie",
				Avatar: "https://i.pravatar.cc/150?img=2",
			},
			RSVPs:         roster.DefaultRSVPs(),
			ShareableLink: "https://alchies.netlify.app/event/2",
			CreatedAt:     time.Date(2023, 5, 10, 14, 30, 0, 0, time.UTC),
			UpdatedAt:     time.Date(2023, 5, 10, 14, 30, 0, 0, time.UTC),
		},
	}
}
