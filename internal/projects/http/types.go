package http

import (
	"strings"

	"github.com/google/uuid"

	"github.com/defectflow/projects-service/internal/projects/domain"
)

type createProjectRequest struct {
	Name         string       `json:"name"`
	Code         *string      `json:"code"`
	Address      string       `json:"address"`
	CustomerName string       `json:"customer_name"`
	Stage        string       `json:"stage"`
	Status       string       `json:"status"`
	ManagerID    string       `json:"manager_id"`
	StartDate    *domain.Date `json:"start_date"`
	EndDate      *domain.Date `json:"end_date"`
}

func (r createProjectRequest) toDomain() (domain.NewProject, *domain.ValidationError) {
	verr := &domain.ValidationError{}

	if strings.TrimSpace(r.Name) == "" {
		verr.Add("name", "is required")
	}
	if strings.TrimSpace(r.Address) == "" {
		verr.Add("address", "is required")
	}
	if strings.TrimSpace(r.CustomerName) == "" {
		verr.Add("customer_name", "is required")
	}

	stage := domain.Stage(r.Stage)
	if !stage.Valid() {
		verr.Add("stage", "must be one of DESIGN, CONSTRUCTION, FINISHING, COMPLETED")
	}
	status := domain.Status(r.Status)
	if !status.Valid() {
		verr.Add("status", "must be one of ACTIVE, ON_HOLD, CLOSED")
	}

	managerID, err := uuid.Parse(r.ManagerID)
	if err != nil {
		verr.Add("manager_id", "must be a valid UUID")
	}

	if verr.HasErrors() {
		return domain.NewProject{}, verr
	}

	return domain.NewProject{
		Name:         strings.TrimSpace(r.Name),
		Code:         r.Code,
		Address:      strings.TrimSpace(r.Address),
		CustomerName: strings.TrimSpace(r.CustomerName),
		Stage:        stage,
		Status:       status,
		ManagerID:    managerID,
		StartDate:    r.StartDate,
		EndDate:      r.EndDate,
	}, nil
}

type updateProjectRequest struct {
	Name         *string      `json:"name"`
	Code         *string      `json:"code"`
	Address      *string      `json:"address"`
	CustomerName *string      `json:"customer_name"`
	Stage        *string      `json:"stage"`
	Status       *string      `json:"status"`
	ManagerID    *string      `json:"manager_id"`
	StartDate    *domain.Date `json:"start_date"`
	EndDate      *domain.Date `json:"end_date"`
}

func (r updateProjectRequest) toPatch() (domain.Patch, *domain.ValidationError) {
	verr := &domain.ValidationError{}
	patch := domain.Patch{
		Code:      r.Code,
		StartDate: r.StartDate,
		EndDate:   r.EndDate,
	}

	if r.Name != nil {
		if strings.TrimSpace(*r.Name) == "" {
			verr.Add("name", "must not be blank")
		} else {
			name := strings.TrimSpace(*r.Name)
			patch.Name = &name
		}
	}
	if r.Address != nil {
		if strings.TrimSpace(*r.Address) == "" {
			verr.Add("address", "must not be blank")
		} else {
			address := strings.TrimSpace(*r.Address)
			patch.Address = &address
		}
	}
	if r.CustomerName != nil {
		if strings.TrimSpace(*r.CustomerName) == "" {
			verr.Add("customer_name", "must not be blank")
		} else {
			customer := strings.TrimSpace(*r.CustomerName)
			patch.CustomerName = &customer
		}
	}
	if r.Stage != nil {
		stage := domain.Stage(*r.Stage)
		if !stage.Valid() {
			verr.Add("stage", "must be one of DESIGN, CONSTRUCTION, FINISHING, COMPLETED")
		} else {
			patch.Stage = &stage
		}
	}
	if r.Status != nil {
		status := domain.Status(*r.Status)
		if !status.Valid() {
			verr.Add("status", "must be one of ACTIVE, ON_HOLD, CLOSED")
		} else {
			patch.Status = &status
		}
	}
	if r.ManagerID != nil {
		managerID, err := uuid.Parse(*r.ManagerID)
		if err != nil {
			verr.Add("manager_id", "must be a valid UUID")
		} else {
			patch.ManagerID = &managerID
		}
	}

	if verr.HasErrors() {
		return domain.Patch{}, verr
	}
	return patch, nil
}
