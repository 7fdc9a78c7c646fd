package domain

// Patch is a partial event update. A nil field is left unchanged.
// id and createdAt are not patchable.
type Patch struct {
	Title           *string          `json:"title,omitempty"`
	Date            *string          `json:"date,omitempty"`
	Time            *string          `json:"time,omitempty"`
	Location        *string          `json:"location,omitempty"`
	LocationDetails *LocationDetails `json:"locationDetails,omitempty"`
	Description     *string          `json:"description,omitempty"`
	ImageURL        *string          `json:"imageUrl,omitempty"`
	Organizer       *User            `json:"organizer,omitempty"`
	RSVPs           *[]RSVP          `json:"rsvps,omitempty"`
	Status          *EventStatus     `json:"status,omitempty"`
	IsArchived      *bool            `json:"isArchived,omitempty"`
	ShareableLink   *string          `json:"shareableLink,omitempty"`
	TotalExpense    *float64         `json:"totalExpense,omitempty"`
	Expenses        *[]Expense       `json:"expenses,omitempty"`
}

func (p Patch) IsEmpty() bool {
	return p == (Patch{})
}

// Check rejects a patch whose RSVP list would break per-user uniqueness.
func (p Patch) Check() error {
	if p.RSVPs == nil {
		return nil
	}
	return CheckRSVPs(*p.RSVPs)
}

// Apply merges p into e. It does not touch UpdatedAt.
func (p Patch) Apply(e *Event) {
	if p.Title != nil {
		e.Title = *p.Title
	}
	if p.Date != nil {
		e.Date = *p.Date
	}
	if p.Time != nil {
		e.Time = *p.Time
	}
	if p.Location != nil {
		e.Location = *p.Location
	}
	if p.LocationDetails != nil {
		ld := *p.LocationDetails
		e.LocationDetails = &ld
	}
	if p.Description != nil {
		e.Description = *p.Description
	}
	if p.ImageURL != nil {
		e.ImageURL = *p.ImageURL
	}
	if p.Organizer != nil {
		e.Organizer = *p.Organizer
	}
	if p.RSVPs != nil {
		e.RSVPs = CloneRSVPs(*p.RSVPs)
	}
	if p.Status != nil {
		e.Status = *p.Status
	}
	if p.IsArchived != nil {
		e.IsArchived = *p.IsArchived
	}
	if p.ShareableLink != nil {
		e.ShareableLink = *p.ShareableLink
	}
	if p.TotalExpense != nil {
		v := *p.TotalExpense
		e.TotalExpense = &v
	}
	if p.Expenses != nil {
		e.Expenses = append([]Expense{}, *p.Expenses...)
	}
}

func StringPtr(s string) *string { return &s }
func BoolPtr(b bool) *bool       { return &b }
func FloatPtr(f float64) *float64 {
	return &f
}
