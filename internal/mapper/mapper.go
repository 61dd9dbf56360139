package mapper

import (
	"fmt"
	"time"

	"github.com/straye-as/portfolio-api/internal/domain"
	"github.com/straye-as/portfolio-api/internal/repository"
)

// TimestampFormat is the ISO 8601 layout used for every timestamp in API responses
const TimestampFormat = "2006-01-02T15:04:05Z"

// FormatTimestamp renders t in UTC using TimestampFormat
func FormatTimestamp(t time.Time) string {
	return t.UTC().Format(TimestampFormat)
}

// ToLocationDTO converts Location to LocationDTO
func ToLocationDTO(location *domain.Location) domain.LocationDTO {
	return domain.LocationDTO{
		ID:          location.ID,
		Name:        location.Name,
		Description: location.Description,
		Lat:         location.Lat,
		Lng:         location.Lng,
		CreatedAt:   FormatTimestamp(location.CreatedAt),
	}
}

// ToContactDTO converts Contact to ContactDTO
func ToContactDTO(contact *domain.Contact) domain.ContactDTO {
	return domain.ContactDTO{
		ID:         contact.ID,
		LocationID: contact.LocationID,
		Name:       contact.Name,
		Role:       contact.Role,
		Email:      contact.Email,
		Phone:      contact.Phone,
	}
}

// ToProjectDTO converts Project to ProjectDTO
func ToProjectDTO(project *domain.Project) domain.ProjectDTO {
	return domain.ProjectDTO{
		ID:              project.ID,
		LocationID:      project.LocationID,
		Name:            project.Name,
		Description:     project.Description,
		IsTop5:          project.IsTop5,
		Status:          project.Status,
		Phase:           project.Phase,
		StartDate:       project.StartDate,
		EndDate:         project.EndDate,
		PercentComplete: project.PercentComplete,
		BudgetPlanned:   project.BudgetPlanned,
		BudgetActual:    project.BudgetActual,
		CreatedAt:       FormatTimestamp(project.CreatedAt),
		UpdatedAt:       FormatTimestamp(project.UpdatedAt),
	}
}

// ToPersonDTO converts Person to PersonDTO
func ToPersonDTO(person *domain.Person) domain.PersonDTO {
	return domain.PersonDTO{
		ID:           person.ID,
		Name:         person.Name,
		Role:         person.Role,
		Email:        person.Email,
		Phone:        person.Phone,
		Organization: person.Organization,
		Skills:       person.Skills,
		CreatedAt:    FormatTimestamp(person.CreatedAt),
	}
}

// ToAssignmentDTO converts Assignment to AssignmentDTO
func ToAssignmentDTO(assignment *domain.Assignment) domain.AssignmentDTO {
	return domain.AssignmentDTO{
		ID:             assignment.ID,
		PersonID:       assignment.PersonID,
		LocationID:     assignment.LocationID,
		RoleAtLocation: assignment.RoleAtLocation,
		StartDate:      assignment.StartDate,
		EndDate:        assignment.EndDate,
		Status:         assignment.Status,
		AllocationPct:  assignment.AllocationPct,
		CreatedAt:      FormatTimestamp(assignment.CreatedAt),
	}
}

func assignmentRowDTO(row *repository.AssignmentRow) domain.AssignmentDTO {
	return domain.AssignmentDTO{
		ID:             row.ID,
		PersonID:       row.PersonID,
		LocationID:     row.LocationID,
		RoleAtLocation: row.RoleAtLocation,
		StartDate:      row.StartDate,
		EndDate:        row.EndDate,
		Status:         row.Status,
		AllocationPct:  row.AllocationPct,
		CreatedAt:      FormatTimestamp(row.CreatedAt),
	}
}

// ToAssignmentListItemDTO converts a joined row to the flat list shape
func ToAssignmentListItemDTO(row *repository.AssignmentRow) domain.AssignmentListItemDTO {
	return domain.AssignmentListItemDTO{
		AssignmentDTO: assignmentRowDTO(row),
		PersonName:    row.PersonName,
		PersonRole:    row.PersonRole,
		PersonEmail:   row.PersonEmail,
		Organization:  row.Organization,
		LocationName:  row.LocationName,
	}
}

// ToLocationAssignmentDTO converts a joined row to the per-location shape
func ToLocationAssignmentDTO(row *repository.AssignmentRow) domain.LocationAssignmentDTO {
	return domain.LocationAssignmentDTO{
		AssignmentDTO: assignmentRowDTO(row),
		PersonName:    row.PersonName,
		PersonRole:    row.PersonRole,
		PersonEmail:   row.PersonEmail,
		PersonPhone:   row.PersonPhone,
		Organization:  row.Organization,
		Skills:        row.Skills,
	}
}

// ToPersonAssignmentDTO converts a joined row to the per-person shape
func ToPersonAssignmentDTO(row *repository.AssignmentRow) domain.PersonAssignmentDTO {
	return domain.PersonAssignmentDTO{
		AssignmentDTO:       assignmentRowDTO(row),
		LocationName:        row.LocationName,
		LocationDescription: row.LocationDescription,
	}
}

// ToReportDTO converts a joined report row to ReportDTO
func ToReportDTO(row *repository.ReportRow) domain.ReportDTO {
	return domain.ReportDTO{
		ID:           row.ID,
		LocationID:   row.LocationID,
		AuthorID:     row.AuthorID,
		Title:        row.Title,
		Body:         row.Body,
		ReportType:   row.ReportType,
		ReportDate:   row.ReportDate,
		CreatedAt:    FormatTimestamp(row.CreatedAt),
		LocationName: row.LocationName,
		AuthorName:   row.AuthorName,
	}
}

// ToActivityDTO converts ActivityLogEntry to ActivityLogEntryDTO
func ToActivityDTO(entry *domain.ActivityLogEntry) domain.ActivityLogEntryDTO {
	return domain.ActivityLogEntryDTO{
		ID:         entry.ID,
		EntityType: entry.EntityType,
		EntityID:   entry.EntityID,
		Action:     entry.Action,
		Details:    entry.Details,
		UserName:   entry.UserName,
		CreatedAt:  FormatTimestamp(entry.CreatedAt),
	}
}

// ToUserDTO converts User to UserDTO. The password hash never leaves the service layer.
func ToUserDTO(user *domain.User) domain.UserDTO {
	return domain.UserDTO{
		ID:       user.ID,
		Username: user.Username,
		Name:     user.Name,
		Email:    user.Email,
		Role:     user.Role,
	}
}

// ToNotificationDTO converts Notification to NotificationDTO
func ToNotificationDTO(notification *domain.Notification) domain.NotificationDTO {
	return domain.NotificationDTO{
		ID:        notification.ID,
		UserID:    notification.UserID,
		Title:     notification.Title,
		Message:   notification.Message,
		Type:      notification.Type,
		IsRead:    notification.IsRead,
		Link:      notification.Link,
		CreatedAt: FormatTimestamp(notification.CreatedAt),
	}
}

func ToNotificationPreferenceDTO(pref *domain.NotificationPreference) domain.NotificationPreferenceDTO {
	return domain.NotificationPreferenceDTO{
		UserID:               pref.UserID,
		DigestFrequency:      pref.DigestFrequency,
		AlertOvercommit:      pref.AlertOvercommit,
		AlertStatusChange:    pref.AlertStatusChange,
		AlertBudgetThreshold: pref.AlertBudgetThreshold,
		BudgetThresholdPct:   pref.BudgetThresholdPct,
	}
}

func ToMetricNoteDTO(note *domain.MetricNote) domain.MetricNoteDTO {
	return domain.MetricNoteDTO{
		ID:         note.ID,
		LocationID: note.LocationID,
		ReportText: note.ReportText,
		CreatedAt:  FormatTimestamp(note.CreatedAt),
	}
}

// FormatError creates a formatted error message
func FormatError(entity, operation string, err error) error {
	return fmt.Errorf("failed to %s %s: %w", operation, entity, err)
}
