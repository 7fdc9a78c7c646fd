package domain

type RSVP struct {
	UserID  string     `json:"userId" bson:"userId" validate:"required"`
	Name    string     `json:"name" bson:"name"`
	Status  RSVPStatus `json:"status" bson:"status" validate:"required,oneof=attending not-attending undecided"`
	Comment string     `json:"comment,omitempty" bson:"comment,omitempty"`
	// Rating is nil when unset; JSON null.
	Rating *float64 `json:"rating" bson:"rating"`
}

const (
	MinRating = 0
	MaxRating = 10
)

func ValidRating(r *float64) bool {
	return r == nil || (*r >= MinRating && *r <= MaxRating)
}

func CloneRSVPs(in []RSVP) []RSVP {
	if in == nil {
		return nil
	}
	out := make([]RSVP, len(in))
	for i, r := range in {
		out[i] = r
		if r.Rating != nil {
			v := *r.Rating
			out[i].Rating = &v
		}
	}
	return out
}

// MergeRSVP replaces the entry with the same user id in place, or appends.
// The incoming record is taken as the full end state; nothing is carried over.
// The input slice is never modified.
func MergeRSVP(list []RSVP, rsvp RSVP) (out []RSVP, replaced bool) {
	out = CloneRSVPs(list)
	incoming := CloneRSVPs([]RSVP{rsvp})[0]
	for i := range out {
		if out[i].UserID == rsvp.UserID {
			out[i] = incoming
			return out, true
		}
	}
	return append(out, incoming), false
}

// SetRating sets (or clears, with nil) the rating of userID's RSVP.
func SetRating(list []RSVP, userID string, rating *float64) ([]RSVP, error) {
	if !ValidRating(rating) {
		return nil, ErrValidationMeta("rating must be between 0 and 10", map[string]string{"user_id": userID})
	}
	out := CloneRSVPs(list)
	for i := range out {
		if out[i].UserID == userID {
			if rating == nil {
				out[i].Rating = nil
			} else {
				v := *rating
				out[i].Rating = &v
			}
			return out, nil
		}
	}
	return nil, &AppError{Code: CodeNotFound, Message: "rsvp not found", Meta: map[string]string{"user_id": userID}}
}

func FindRSVP(list []RSVP, userID string) (RSVP, bool) {
	for _, r := range list {
		if r.UserID == userID {
			return r, true
		}
	}
	return RSVP{}, false
}

// CheckRSVPs rejects a list holding more than one entry for a user.
func CheckRSVPs(list []RSVP) error {
	seen := make(map[string]struct{}, len(list))
	for _, r := range list {
		if _, ok := seen[r.UserID]; ok {
			return ErrValidationMeta("rsvps must contain at most one entry per user", map[string]string{"user_id": r.UserID})
		}
		seen[r.UserID] = struct{}{}
	}
	return nil
}

// UniqueRSVPs reports whether every user id appears at most once.
func UniqueRSVPs(list []RSVP) bool {
	seen := make(map[string]struct{}, len(list))
	for _, r := range list {
		if _, ok := seen[r.UserID]; ok {
			return false
		}
		seen[r.UserID] = struct{}{}
	}
	return true
}
