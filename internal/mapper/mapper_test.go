package mapper_test

import (
	"errors"
	"testing"
	"time"

	"github.com/straye-as/portfolio-api/internal/domain"
	"github.com/straye-as/portfolio-api/internal/mapper"
	"github.com/straye-as/portfolio-api/internal/repository"
	"github.com/stretchr/testify/assert"
)

func TestFormatTimestamp(t *testing.T) {
	oslo := time.FixedZone("CET", 3600)
	ts := time.Date(2024, 3, 1, 10, 30, 0, 0, oslo)

	assert.Equal(t, "2024-03-01T09:30:00Z", mapper.FormatTimestamp(ts))
}

func TestToProjectDTO(t *testing.T) {
	now := time.Date(2024, 5, 2, 8, 0, 0, 0, time.UTC)
	start := domain.NewDate(2024, time.January, 15)
	project := &domain.Project{
		ID:              12,
		LocationID:      3,
		Name:            "HVAC retrofit",
		Description:     "Replace air handlers",
		IsTop5:          true,
		Status:          domain.ProjectStatusAtRisk,
		Phase:           domain.ProjectPhaseConstruction,
		StartDate:       &start,
		PercentComplete: 40,
		BudgetPlanned:   1200000,
		BudgetActual:    650000,
		CreatedAt:       now,
		UpdatedAt:       now.Add(time.Hour),
	}

	dto := mapper.ToProjectDTO(project)

	assert.Equal(t, project.ID, dto.ID)
	assert.Equal(t, project.LocationID, dto.LocationID)
	assert.Equal(t, project.Name, dto.Name)
	assert.True(t, dto.IsTop5)
	assert.Equal(t, domain.ProjectStatusAtRisk, dto.Status)
	assert.Equal(t, domain.ProjectPhaseConstruction, dto.Phase)
	assert.Equal(t, &start, dto.StartDate)
	assert.Nil(t, dto.EndDate)
	assert.Equal(t, 40, dto.PercentComplete)
	assert.Equal(t, "2024-05-02T08:00:00Z", dto.CreatedAt)
	assert.Equal(t, "2024-05-02T09:00:00Z", dto.UpdatedAt)
}

func TestToLocationAssignmentDTO(t *testing.T) {
	row := &repository.AssignmentRow{
		ID:             7,
		PersonID:       2,
		LocationID:     1,
		RoleAtLocation: "Site Lead",
		Status:         domain.AssignmentStatusActive,
		AllocationPct:  60,
		CreatedAt:      time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		PersonName:     "Alice Johnson",
		PersonEmail:    "alice@example.com",
		PersonPhone:    "555-0101",
		Organization:   "Facilities",
		Skills:         "HVAC, Electrical",
		LocationName:   "Headquarters",
	}

	dto := mapper.ToLocationAssignmentDTO(row)

	assert.Equal(t, row.ID, dto.ID)
	assert.Equal(t, 60, dto.AllocationPct)
	assert.Equal(t, "Alice Johnson", dto.PersonName)
	assert.Equal(t, "555-0101", dto.PersonPhone)
	assert.Equal(t, "HVAC, Electrical", dto.Skills)
	assert.Equal(t, "2024-01-01T00:00:00Z", dto.CreatedAt)

	listItem := mapper.ToAssignmentListItemDTO(row)
	assert.Equal(t, "Headquarters", listItem.LocationName)
}

func TestToUserDTO(t *testing.T) {
	user := &domain.User{
		ID:           1,
		Username:     "admin",
		PasswordHash: "$2a$10$hash",
		Name:         "Admin User",
		Email:        "admin@example.com",
		Role:         domain.RoleAdmin,
	}

	dto := mapper.ToUserDTO(user)

	assert.Equal(t, user.ID, dto.ID)
	assert.Equal(t, "admin", dto.Username)
	assert.Equal(t, domain.RoleAdmin, dto.Role)
}

func TestFormatError(t *testing.T) {
	cause := errors.New("connection reset")
	err := mapper.FormatError("project", "update", cause)

	assert.EqualError(t, err, "failed to update project: connection reset")
	assert.ErrorIs(t, err, cause)
}
