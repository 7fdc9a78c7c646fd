package domain

import (
	"sort"
	"strings"
	"time"
)

type User struct {
	ID     string `json:"id" bson:"id"`
	Name   string `json:"name" bson:"name"`
	Avatar string `json:"avatar,omitempty" bson:"avatar,omitempty"`
}

type LocationDetails struct {
	PlaceID   string  `json:"placeId,omitempty" bson:"placeId,omitempty"`
	Latitude  float64 `json:"latitude" bson:"latitude"`
	Longitude float64 `json:"longitude" bson:"longitude"`
}

type Expense struct {
	ID          string          `json:"id" bson:"id"`
	Amount      float64         `json:"amount" bson:"amount" validate:"gte=0"`
	Description string          `json:"description" bson:"description" validate:"required"`
	Date        string          `json:"date" bson:"date"`
	PaidBy      string          `json:"paidBy" bson:"paidBy" validate:"required"`
	Category    ExpenseCategory `json:"category" bson:"category" validate:"required,expense_category"`
}

type Event struct {
	ID              string           `json:"id" bson:"_id"`
	Title           string           `json:"title" bson:"title"`
	Date            string           `json:"date" bson:"date"`
	Time            string           `json:"time" bson:"time"`
	Location        string           `json:"location" bson:"location"`
	LocationDetails *LocationDetails `json:"locationDetails,omitempty" bson:"locationDetails,omitempty"`
	Description     string           `json:"description" bson:"description"`
	ImageURL        string           `json:"imageUrl,omitempty" bson:"imageUrl,omitempty"`
	Organizer       User             `json:"organizer" bson:"organizer"`
	RSVPs           []RSVP           `json:"rsvps" bson:"rsvps"`
	Status          EventStatus      `json:"status,omitempty" bson:"status,omitempty"`
	IsArchived      bool             `json:"isArchived" bson:"isArchived"`
	CreatedAt       time.Time        `json:"createdAt" bson:"createdAt"`
	UpdatedAt       time.Time        `json:"updatedAt" bson:"updatedAt"`
	ShareableLink   string           `json:"shareableLink,omitempty" bson:"shareableLink,omitempty"`
	TotalExpense    *float64         `json:"totalExpense,omitempty" bson:"totalExpense,omitempty"`
	Expenses        []Expense        `json:"expenses,omitempty" bson:"expenses,omitempty"`
}

// Draft is an event before the gateway has assigned identity and timestamps.
type Draft struct {
	Title           string           `json:"title" validate:"required"`
	Date            string           `json:"date" validate:"required,datetime=2006-01-02"`
	Time            string           `json:"time" validate:"required"`
	Location        string           `json:"location" validate:"required"`
	LocationDetails *LocationDetails `json:"locationDetails,omitempty"`
	Description     string           `json:"description"`
	ImageURL        string           `json:"imageUrl,omitempty"`
	Organizer       User             `json:"organizer"`
	RSVPs           []RSVP           `json:"rsvps,omitempty" validate:"omitempty,dive"`
	Status          EventStatus      `json:"status,omitempty" validate:"omitempty,oneof=active cancelled"`
	ShareableLink   string           `json:"shareableLink,omitempty"`
	TotalExpense    *float64         `json:"totalExpense,omitempty"`
	Expenses        []Expense        `json:"expenses,omitempty" validate:"omitempty,dive"`
}

// NewEvent materialises a draft with the identity and timestamps a gateway assigns.
func NewEvent(id string, d Draft, now time.Time) Event {
	now = now.UTC()
	rsvps := CloneRSVPs(d.RSVPs)
	if rsvps == nil {
		rsvps = []RSVP{}
	}
	return Event{
		ID:              id,
		Title:           d.Title,
		Date:            d.Date,
		Time:            d.Time,
		Location:        d.Location,
		LocationDetails: d.LocationDetails,
		Description:     d.Description,
		ImageURL:        d.ImageURL,
		Organizer:       d.Organizer,
		RSVPs:           rsvps,
		Status:          d.Status,
		IsArchived:      false,
		CreatedAt:       now,
		UpdatedAt:       now,
		ShareableLink:   d.ShareableLink,
		TotalExpense:    d.TotalExpense,
		Expenses:        append([]Expense(nil), d.Expenses...),
	}
}

// Clone returns a deep copy so callers can never alias store-owned slices.
func (e Event) Clone() Event {
	out := e
	out.RSVPs = CloneRSVPs(e.RSVPs)
	if e.Expenses != nil {
		out.Expenses = append([]Expense(nil), e.Expenses...)
	}
	if e.LocationDetails != nil {
		ld := *e.LocationDetails
		out.LocationDetails = &ld
	}
	if e.TotalExpense != nil {
		v := *e.TotalExpense
		out.TotalExpense = &v
	}
	return out
}

// TimeRange splits "19:00-21:00" into its start and end. end is empty for a single time.
func (e Event) TimeRange() (start, end string) {
	start, end, _ = strings.Cut(e.Time, "-")
	return strings.TrimSpace(start), strings.TrimSpace(end)
}

// Touch stamps UpdatedAt with now, never moving it backwards.
func (e *Event) Touch(now time.Time) {
	now = now.UTC()
	if now.Before(e.UpdatedAt) {
		return
	}
	e.UpdatedAt = now
}

func (e Event) dateKey() time.Time {
	if t, err := time.Parse("2006-01-02", e.Date); err == nil {
		return t
	}
	if t, err := time.Parse(time.RFC3339, e.Date); err == nil {
		return t
	}
	return time.Time{}
}

// SortByDate orders events by date ascending. Unparseable dates sort first.
func SortByDate(events []Event) {
	sort.SliceStable(events, func(i, j int) bool {
		return events[i].dateKey().Before(events[j].dateKey())
	})
}
