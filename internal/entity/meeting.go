package entity

import (
	"time"

	"github.com/Marga-Ghale/ora-admin-console/internal/types"
)

var MeetingKind = Kind{Name: types.KindMeeting, Path: "meetings", Envelope: "meetings"}

type Meeting struct {
	ID        string     `json:"id,omitempty"`
	Title     string     `json:"title" binding:"max=200"`
	Agenda    string     `json:"agenda,omitempty" binding:"max=4000"`
	Location  string     `json:"location,omitempty" binding:"max=200"`
	StartsAt  *time.Time `json:"startsAt,omitempty"`
	EndsAt    *time.Time `json:"endsAt,omitempty"`
	Attendees []string   `json:"attendees,omitempty" binding:"omitempty,dive,required"`
	Ownership
}

func (m *Meeting) Key() string          { return m.ID }
func (m *Meeting) RequiredName() string { return m.Title }

func (m *Meeting) SearchFields() []string {
	return []string{m.Title, m.Agenda, m.CompanyCode}
}
