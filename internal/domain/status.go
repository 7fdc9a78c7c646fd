package domain

type RSVPStatus string

const (
	RSVPAttending    RSVPStatus = "attending"
	RSVPNotAttending RSVPStatus = "not-attending"
	RSVPUndecided    RSVPStatus = "undecided"
)

func (s RSVPStatus) Valid() bool {
	return s == RSVPAttending || s == RSVPNotAttending || s == RSVPUndecided
}

// EventStatus is independent of the archive flag.
type EventStatus string

const (
	StatusActive    EventStatus = "active"
	StatusCancelled EventStatus = "cancelled"
)

func (s EventStatus) Valid() bool {
	return s == StatusActive || s == StatusCancelled
}

type ExpenseCategory string

const (
	CategoryFood          ExpenseCategory = "food"
	CategoryDrinks        ExpenseCategory = "drinks"
	CategoryTransport     ExpenseCategory = "transport"
	CategoryActivities    ExpenseCategory = "activities"
	CategoryAccommodation ExpenseCategory = "accommodation"
	CategoryOther         ExpenseCategory = "other"
)

func (c ExpenseCategory) Valid() bool {
	switch c {
	case CategoryFood, CategoryDrinks, CategoryTransport, CategoryActivities, CategoryAccommodation, CategoryOther:
		return true
	}
	return false
}
