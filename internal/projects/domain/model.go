package domain

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Stage is the lifecycle phase of a construction project. Transitions are
// unconstrained: any stage can follow any other.
type Stage string

const (
	StageDesign       Stage = "DESIGN"
	StageConstruction Stage = "CONSTRUCTION"
	StageFinishing    Stage = "FINISHING"
	StageCompleted    Stage = "COMPLETED"
)

func (s Stage) Valid() bool {
	switch s {
	case StageDesign, StageConstruction, StageFinishing, StageCompleted:
		return true
	}
	return false
}

// Status is the operating state of a project, independent of Stage.
type Status string

const (
	StatusActive Status = "ACTIVE"
	StatusOnHold Status = "ON_HOLD"
	StatusClosed Status = "CLOSED"
)

func (s Status) Valid() bool {
	switch s {
	case StatusActive, StatusOnHold, StatusClosed:
		return true
	}
	return false
}

const dateLayout = "2006-01-02"

// Date is a calendar date without a time component, serialized as
// "YYYY-MM-DD" to match the rest of the platform.
type Date struct {
	time.Time
}

func NewDate(year int, month time.Month, day int) Date {
	return Date{time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

func (d Date) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.Format(dateLayout))
}

func (d *Date) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("date must be a %q string", dateLayout)
	}
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return fmt.Errorf("invalid date %q, expected %q", s, dateLayout)
	}
	d.Time = t
	return nil
}

// Project is the sole entity owned by this service. It is storage-agnostic
// and shared across repository, service and HTTP layers.
type Project struct {
	ID           uuid.UUID `json:"id"`
	Name         string    `json:"name"`
	Code         *string   `json:"code"`
	Address      string    `json:"address"`
	CustomerName string    `json:"customer_name"`
	Stage        Stage     `json:"stage"`
	Status       Status    `json:"status"`
	ManagerID    uuid.UUID `json:"manager_id"`
	StartDate    *Date     `json:"start_date"`
	EndDate      *Date     `json:"end_date"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// NewProject carries the validated fields of a create request. ID and
// timestamps are assigned by the store.
type NewProject struct {
	Name         string
	Code         *string
	Address      string
	CustomerName string
	Stage        Stage
	Status       Status
	ManagerID    uuid.UUID
	StartDate    *Date
	EndDate      *Date
}

// Patch is a partial update: nil fields are left untouched. There is no way
// to null out an already-set optional field through a patch; that matches
// the platform's PATCH semantics.
type Patch struct {
	Name         *string
	Code         *string
	Address      *string
	CustomerName *string
	Stage        *Stage
	Status       *Status
	ManagerID    *uuid.UUID
	StartDate    *Date
	EndDate      *Date
}

// IsEmpty reports whether the patch carries no fields. An empty patch is
// still applied so updated_at advances.
func (p Patch) IsEmpty() bool {
	return p.Name == nil && p.Code == nil && p.Address == nil &&
		p.CustomerName == nil && p.Stage == nil && p.Status == nil &&
		p.ManagerID == nil && p.StartDate == nil && p.EndDate == nil
}

// ListFilter is the effective set of AND-combined list predicates after the
// access policy has been applied.
type ListFilter struct {
	Status       *Status
	Stage        *Stage
	CustomerName *string // case-insensitive substring match
	ManagerID    *uuid.UUID
}
