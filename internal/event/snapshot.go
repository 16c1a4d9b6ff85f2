package event

import (
	"encoding/json"
	"time"
)

// Date is a day-resolution date serialized as YYYY-MM-DD.
type Date struct {
	time.Time
}

const dateLayout = "2006-01-02"

// NewDate wraps t truncated to its calendar day.
func NewDate(t time.Time) Date {
	return Date{time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)}
}

func (d Date) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.Format(dateLayout))
}

func (d *Date) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return err
	}
	d.Time = t
	return nil
}

// The *Details types below are the tagged snapshot variants, one per event
// type. The submitted payload is stored verbatim as the event's snapshot and
// decoded again on read; decodeSnapshot degrades to the zero value on
// malformed data because redisplay is best-effort and must not fail reads.

// BirthDetails carries the fields of a birth record submission.
type BirthDetails struct {
	Date           *Date   `json:"date,omitempty"`
	Place          *string `json:"place,omitempty"`
	Notes          *string `json:"notes,omitempty"`
	ChildPersonID  *int64  `json:"child_person_id,omitempty"`
	FatherPersonID *int64  `json:"father_person_id,omitempty"`
	MotherPersonID *int64  `json:"mother_person_id,omitempty"`
	SourceID       *int64  `json:"source_id,omitempty"`
	LocationID     *int64  `json:"location_id,omitempty"`
	RecordNumber   *string `json:"record_number,omitempty"`
	SocialClass    *string `json:"social_class,omitempty"`
	BaptismDate    *Date   `json:"baptism_date,omitempty"`
}

// DeathDetails carries the fields of a death record submission.
type DeathDetails struct {
	Date             *Date   `json:"date,omitempty"`
	Place            *string `json:"place,omitempty"`
	Notes            *string `json:"notes,omitempty"`
	Cause            *string `json:"cause,omitempty"`
	DeceasedPersonID *int64  `json:"deceased_person_id,omitempty"`
	SourceID         *int64  `json:"source_id,omitempty"`
	LocationID       *int64  `json:"location_id,omitempty"`
	RecordNumber     *string `json:"record_number,omitempty"`
	SocialClass      *string `json:"social_class,omitempty"`
	AgeAtDeath       *int    `json:"age_at_death,omitempty"`
}

// MarriageDetails carries the fields of a marriage record submission.
type MarriageDetails struct {
	Date          *Date   `json:"date,omitempty"`
	Place         *string `json:"place,omitempty"`
	Notes         *string `json:"notes,omitempty"`
	GroomPersonID *int64  `json:"groom_person_id,omitempty"`
	BridePersonID *int64  `json:"bride_person_id,omitempty"`
	SourceID      *int64  `json:"source_id,omitempty"`
	LocationID    *int64  `json:"location_id,omitempty"`
	RecordNumber  *string `json:"record_number,omitempty"`
	MahrAmount    *string `json:"mahr_amount,omitempty"`
}

// DivorceDetails carries the fields of a divorce record submission.
type DivorceDetails struct {
	Date            *Date   `json:"date,omitempty"`
	Place           *string `json:"place,omitempty"`
	Notes           *string `json:"notes,omitempty"`
	HusbandPersonID *int64  `json:"husband_person_id,omitempty"`
	WifePersonID    *int64  `json:"wife_person_id,omitempty"`
	SourceID        *int64  `json:"source_id,omitempty"`
	LocationID      *int64  `json:"location_id,omitempty"`
	RecordNumber    *string `json:"record_number,omitempty"`
	DivorceType     *string `json:"divorce_type,omitempty"`
}

// RevisionDetails carries the fields of a revision-census record submission.
type RevisionDetails struct {
	Date         *Date   `json:"date,omitempty"`
	Place        *string `json:"place,omitempty"`
	Notes        *string `json:"notes,omitempty"`
	Household    *string `json:"household,omitempty"`
	HeadPersonID *int64  `json:"head_person_id,omitempty"`
	SourceID     *int64  `json:"source_id,omitempty"`
	LocationID   *int64  `json:"location_id,omitempty"`
	RecordNumber *string `json:"record_number,omitempty"`
	SocialClass  *string `json:"social_class,omitempty"`
}

// decodeSnapshot unmarshals the stored snapshot into out. Malformed or
// missing snapshots leave out at its zero value.
func decodeSnapshot(raw []byte, out any) {
	if len(raw) == 0 {
		return
	}
	_ = json.Unmarshal(raw, out)
}

// Merge helpers. The snapshot field always wins; canonical columns and
// participant rows only fill fields the snapshot does not carry.

func mergeCommon(date **Date, notes **string, sourceID, locationID **int64, e *Event) {
	if *date == nil && e.EventDate != nil {
		d := NewDate(*e.EventDate)
		*date = &d
	}
	if *notes == nil && e.Notes != nil {
		*notes = e.Notes
	}
	if *sourceID == nil && e.SourceID != nil {
		*sourceID = e.SourceID
	}
	if *locationID == nil && e.LocationID != nil {
		*locationID = e.LocationID
	}
}

func participantByRole(parts []*Participant, role Role) *int64 {
	for _, p := range parts {
		if p.RoleID == role.ID() {
			pid := p.PersonID
			return &pid
		}
	}
	return nil
}

func (d *BirthDetails) merge(e *Event, parts []*Participant) {
	mergeCommon(&d.Date, &d.Notes, &d.SourceID, &d.LocationID, e)
	if d.ChildPersonID == nil {
		d.ChildPersonID = participantByRole(parts, RoleChild)
	}
	if d.FatherPersonID == nil {
		d.FatherPersonID = participantByRole(parts, RoleFather)
	}
	if d.MotherPersonID == nil {
		d.MotherPersonID = participantByRole(parts, RoleMother)
	}
}

func (d *DeathDetails) merge(e *Event, parts []*Participant) {
	mergeCommon(&d.Date, &d.Notes, &d.SourceID, &d.LocationID, e)
	if d.DeceasedPersonID == nil {
		d.DeceasedPersonID = participantByRole(parts, RoleDeceased)
	}
}

func (d *MarriageDetails) merge(e *Event, parts []*Participant) {
	mergeCommon(&d.Date, &d.Notes, &d.SourceID, &d.LocationID, e)
	if d.GroomPersonID == nil {
		d.GroomPersonID = participantByRole(parts, RoleGroom)
	}
	if d.BridePersonID == nil {
		d.BridePersonID = participantByRole(parts, RoleBride)
	}
}

func (d *DivorceDetails) merge(e *Event, parts []*Participant) {
	mergeCommon(&d.Date, &d.Notes, &d.SourceID, &d.LocationID, e)
	if d.HusbandPersonID == nil {
		d.HusbandPersonID = participantByRole(parts, RoleHusband)
	}
	if d.WifePersonID == nil {
		d.WifePersonID = participantByRole(parts, RoleWife)
	}
}

func (d *RevisionDetails) merge(e *Event, parts []*Participant) {
	mergeCommon(&d.Date, &d.Notes, &d.SourceID, &d.LocationID, e)
	if d.HeadPersonID == nil {
		d.HeadPersonID = participantByRole(parts, RoleHead)
	}
}
