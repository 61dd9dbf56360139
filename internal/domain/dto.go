package domain

// DTOs for API requests and responses. Timestamps are ISO 8601 strings,
// calendar dates use Date.

// ============================================================================
// Locations and contacts
// ============================================================================

type LocationDTO struct {
	ID          int64   `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Lat         float64 `json:"lat"`
	Lng         float64 `json:"lng"`
	CreatedAt   string  `json:"created_at"` // ISO 8601
}

// LocationRequest is used for both create and full replacement
type LocationRequest struct {
	Name        string  `json:"name" validate:"required,max=200"`
	Description string  `json:"description"`
	Lat         float64 `json:"lat" validate:"latitude"`
	Lng         float64 `json:"lng" validate:"longitude"`
}

type ContactDTO struct {
	ID         int64  `json:"id"`
	LocationID int64  `json:"location_id"`
	Name       string `json:"name"`
	Role       string `json:"role"`
	Email      string `json:"email"`
	Phone      string `json:"phone"`
}

type ContactRequest struct {
	Name  string `json:"name" validate:"required,max=200"`
	Role  string `json:"role" validate:"max=200"`
	Email string `json:"email" validate:"omitempty,email"`
	Phone string `json:"phone" validate:"max=50"`
}

// ============================================================================
// Projects
// ============================================================================

type ProjectDTO struct {
	ID              int64         `json:"id"`
	LocationID      int64         `json:"location_id"`
	Name            string        `json:"name"`
	Description     string        `json:"description"`
	IsTop5          bool          `json:"is_top_5"`
	Status          ProjectStatus `json:"status"`
	Phase           ProjectPhase  `json:"phase"`
	StartDate       *Date         `json:"start_date"`
	EndDate         *Date         `json:"end_date"`
	PercentComplete int           `json:"percent_complete"`
	BudgetPlanned   float64       `json:"budget_planned"`
	BudgetActual    float64       `json:"budget_actual"`
	CreatedAt       string        `json:"created_at"` // ISO 8601
	UpdatedAt       string        `json:"updated_at"` // ISO 8601
}

// ProjectRequest is used for both create and full replacement.
// Omitted status and phase fall back to on-track and planning.
type ProjectRequest struct {
	Name            string        `json:"name" validate:"required,max=200"`
	Description     string        `json:"description"`
	IsTop5          bool          `json:"is_top_5"`
	Status          ProjectStatus `json:"status" validate:"omitempty,oneof=on-track at-risk behind complete"`
	Phase           ProjectPhase  `json:"phase" validate:"omitempty,oneof=planning design procurement construction closeout"`
	StartDate       *Date         `json:"start_date"`
	EndDate         *Date         `json:"end_date"`
	PercentComplete int           `json:"percent_complete" validate:"gte=0,lte=100"`
	BudgetPlanned   float64       `json:"budget_planned" validate:"gte=0"`
	BudgetActual    float64       `json:"budget_actual" validate:"gte=0"`
}

// ============================================================================
// People and assignments
// ============================================================================

type PersonDTO struct {
	ID           int64  `json:"id"`
	Name         string `json:"name"`
	Role         string `json:"role"`
	Email        string `json:"email"`
	Phone        string `json:"phone"`
	Organization string `json:"organization"`
	Skills       string `json:"skills"`
	CreatedAt    string `json:"created_at"` // ISO 8601
}

type PersonRequest struct {
	Name         string `json:"name" validate:"required,max=200"`
	Role         string `json:"role" validate:"max=200"`
	Email        string `json:"email" validate:"omitempty,email"`
	Phone        string `json:"phone" validate:"max=50"`
	Organization string `json:"organization" validate:"max=200"`
	Skills       string `json:"skills"`
}

type AssignmentDTO struct {
	ID             int64            `json:"id"`
	PersonID       int64            `json:"person_id"`
	LocationID     int64            `json:"location_id"`
	RoleAtLocation string           `json:"role_at_location"`
	StartDate      *Date            `json:"start_date"`
	EndDate        *Date            `json:"end_date"`
	Status         AssignmentStatus `json:"status"`
	AllocationPct  int              `json:"allocation_pct"`
	CreatedAt      string           `json:"created_at"` // ISO 8601
}

// AssignmentListItemDTO is an assignment with the names of both ends
type AssignmentListItemDTO struct {
	AssignmentDTO
	PersonName   string `json:"person_name"`
	PersonRole   string `json:"person_role"`
	PersonEmail  string `json:"person_email"`
	Organization string `json:"organization"`
	LocationName string `json:"location_name"`
}

// LocationAssignmentDTO is an assignment seen from a location, with person details
type LocationAssignmentDTO struct {
	AssignmentDTO
	PersonName   string `json:"person_name"`
	PersonRole   string `json:"person_role"`
	PersonEmail  string `json:"person_email"`
	PersonPhone  string `json:"person_phone"`
	Organization string `json:"organization"`
	Skills       string `json:"skills"`
}

// PersonAssignmentDTO is an assignment seen from a person, with location details
type PersonAssignmentDTO struct {
	AssignmentDTO
	LocationName        string `json:"location_name"`
	LocationDescription string `json:"location_description"`
}

// AssignmentRequest is used for both create and full replacement.
// A nil allocation defaults to 100 on create.
type AssignmentRequest struct {
	PersonID       int64            `json:"person_id" validate:"required"`
	LocationID     int64            `json:"location_id" validate:"required"`
	RoleAtLocation string           `json:"role_at_location" validate:"max=200"`
	StartDate      *Date            `json:"start_date"`
	EndDate        *Date            `json:"end_date"`
	Status         AssignmentStatus `json:"status" validate:"omitempty,oneof=active inactive"`
	AllocationPct  *int             `json:"allocation_pct"`
}

// WorkloadDTO is one person's active allocation across locations
type WorkloadDTO struct {
	ID              int64                   `json:"id"`
	Name            string                  `json:"name"`
	Role            string                  `json:"role"`
	Organization    string                  `json:"organization"`
	TotalAllocation int                     `json:"total_allocation"`
	Overcommitted   bool                    `json:"overcommitted"`
	Assignments     []WorkloadAssignmentDTO `json:"assignments"`
}

type WorkloadAssignmentDTO struct {
	LocationID     int64  `json:"location_id"`
	LocationName   string `json:"location_name"`
	RoleAtLocation string `json:"role_at_location"`
	AllocationPct  int    `json:"allocation_pct"`
}

// ============================================================================
// Reports and activity
// ============================================================================

type ReportDTO struct {
	ID           int64      `json:"id"`
	LocationID   int64      `json:"location_id"`
	AuthorID     *int64     `json:"author_id"`
	Title        string     `json:"title"`
	Body         string     `json:"body"`
	ReportType   ReportType `json:"report_type"`
	ReportDate   *Date      `json:"report_date"`
	CreatedAt    string     `json:"created_at"` // ISO 8601
	LocationName string     `json:"location_name"`
	AuthorName   *string    `json:"author_name"`
}

type CreateReportRequest struct {
	LocationID int64      `json:"location_id" validate:"required"`
	AuthorID   *int64     `json:"author_id"`
	Title      string     `json:"title" validate:"required,max=300"`
	Body       string     `json:"body"`
	ReportType ReportType `json:"report_type" validate:"omitempty,oneof=general quarterly inspection sitrep assessment"`
	ReportDate *Date      `json:"report_date"`
}

// ReportFilters narrows report listings; zero values are ignored
type ReportFilters struct {
	Search     string
	ReportType ReportType
	LocationID *int64
}

type ActivityLogEntryDTO struct {
	ID         int64  `json:"id"`
	EntityType string `json:"entity_type"`
	EntityID   int64  `json:"entity_id"`
	Action     string `json:"action"`
	Details    string `json:"details"`
	UserName   string `json:"user_name"`
	CreatedAt  string `json:"created_at"` // ISO 8601
}

// ============================================================================
// Users, authentication and notifications
// ============================================================================

type UserDTO struct {
	ID       int64    `json:"id"`
	Username string   `json:"username"`
	Name     string   `json:"name"`
	Email    string   `json:"email"`
	Role     UserRole `json:"role"`
}

type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type LoginResponse struct {
	Token     string  `json:"token"`
	ExpiresAt string  `json:"expires_at"` // ISO 8601
	User      UserDTO `json:"user"`
}

type NotificationDTO struct {
	ID        int64            `json:"id"`
	UserID    int64            `json:"user_id"`
	Title     string           `json:"title"`
	Message   string           `json:"message"`
	Type      NotificationType `json:"type"`
	IsRead    bool             `json:"is_read"`
	Link      *string          `json:"link"`
	CreatedAt string           `json:"created_at"` // ISO 8601
}

type UnreadCountDTO struct {
	Count int64 `json:"count"`
}

// MarkAllReadDTO reports how many notifications a mark-all-read changed
type MarkAllReadDTO struct {
	Updated int64 `json:"updated"`
}

type NotificationPreferenceDTO struct {
	UserID               int64           `json:"user_id"`
	DigestFrequency      DigestFrequency `json:"digest_frequency"`
	AlertOvercommit      bool            `json:"alert_overcommit"`
	AlertStatusChange    bool            `json:"alert_status_change"`
	AlertBudgetThreshold bool            `json:"alert_budget_threshold"`
	BudgetThresholdPct   int             `json:"budget_threshold_pct"`
}

// NotificationPreferenceRequest replaces a user's preferences. Omitted fields take the defaults.
type NotificationPreferenceRequest struct {
	DigestFrequency      DigestFrequency `json:"digest_frequency" validate:"omitempty,oneof=none daily weekly"`
	AlertOvercommit      *bool           `json:"alert_overcommit"`
	AlertStatusChange    *bool           `json:"alert_status_change"`
	AlertBudgetThreshold *bool           `json:"alert_budget_threshold"`
	BudgetThresholdPct   *int            `json:"budget_threshold_pct" validate:"omitempty,gte=1,lte=1000"`
}

// ============================================================================
// Dashboard
// ============================================================================

type DashboardSummaryDTO struct {
	TotalLocations     int64   `json:"total_locations"`
	TotalPeople        int64   `json:"total_people"`
	TotalProjects      int64   `json:"total_projects"`
	TotalReports       int64   `json:"total_reports"`
	AtRiskCount        int64   `json:"at_risk_count"`
	BehindCount        int64   `json:"behind_count"`
	OvercommittedCount int64   `json:"overcommitted_count"`
	TotalBudgetPlanned float64 `json:"total_budget_planned"`
	TotalBudgetActual  float64 `json:"total_budget_actual"`
}

type LocationProjectsDTO struct {
	LocationID         int64        `json:"location_id"`
	LocationName       string       `json:"location_name"`
	Projects           []ProjectDTO `json:"projects"`
	ProjectCount       int          `json:"project_count"`
	Top5Count          int          `json:"top_5_count"`
	AtRiskCount        int          `json:"at_risk_count"`
	BehindCount        int          `json:"behind_count"`
	TotalBudgetPlanned float64      `json:"total_budget_planned"`
	TotalBudgetActual  float64      `json:"total_budget_actual"`
}

type LocationPeopleDTO struct {
	LocationID      int64               `json:"location_id"`
	LocationName    string              `json:"location_name"`
	People          []LocationPersonDTO `json:"people"`
	PeopleCount     int                 `json:"people_count"`
	TotalAllocation int                 `json:"total_allocation"`
}

type LocationPersonDTO struct {
	PersonID       int64            `json:"person_id"`
	PersonName     string           `json:"person_name"`
	PersonRole     string           `json:"person_role"`
	Organization   string           `json:"organization"`
	RoleAtLocation string           `json:"role_at_location"`
	Status         AssignmentStatus `json:"status"`
	Email          string           `json:"email"`
	AllocationPct  int              `json:"allocation_pct"`
}

type HeatmapEntryDTO struct {
	LocationID           int64   `json:"location_id"`
	LocationName         string  `json:"location_name"`
	BudgetRatio          float64 `json:"budget_ratio"`
	BudgetPlanned        float64 `json:"budget_planned"`
	BudgetActual         float64 `json:"budget_actual"`
	AvgCompletion        int     `json:"avg_completion"`
	OnTrack              int     `json:"on_track"`
	AtRisk               int     `json:"at_risk"`
	Behind               int     `json:"behind"`
	Complete             int     `json:"complete"`
	TotalProjects        int     `json:"total_projects"`
	TotalStaffAllocation int     `json:"total_staff_allocation"`
	StaffCount           int     `json:"staff_count"`
}

type BudgetByLocationDTO struct {
	Name    string  `json:"name"`
	Planned float64 `json:"planned"`
	Actual  float64 `json:"actual"`
}

type StatusCountDTO struct {
	Status ProjectStatus `json:"status"`
	Count  int64         `json:"count"`
}

type PhaseCountDTO struct {
	Phase ProjectPhase `json:"phase"`
	Count int64        `json:"count"`
}

type StaffingByLocationDTO struct {
	Name            string `json:"name"`
	Headcount       int64  `json:"headcount"`
	TotalAllocation int64  `json:"total_allocation"`
}

// ============================================================================
// Insights and export
// ============================================================================

type ProgramOverviewDTO struct {
	Overview string `json:"overview"`
}

type InsightMetricDTO struct {
	Name    string `json:"name"`
	Status  string `json:"status,omitempty"`
	Details string `json:"details,omitempty"`
	Value   string `json:"value,omitempty"`
	Trend   string `json:"trend,omitempty"`
}

type InsightMetricsDTO struct {
	Metrics []InsightMetricDTO `json:"metrics"`
}

type LocationAnalysisDTO struct {
	Summary       string   `json:"summary"`
	Risks         []string `json:"risks"`
	Opportunities []string `json:"opportunities"`
}

type MetricNoteDTO struct {
	ID         int64  `json:"id"`
	LocationID *int64 `json:"location_id"`
	ReportText string `json:"report_text"`
	CreatedAt  string `json:"created_at"` // ISO 8601
}

type MetricNoteRequest struct {
	LocationID *int64 `json:"location_id"`
	ReportText string `json:"report_text" validate:"required"`
}

// ExportSnapshotDTO names the objects written by a snapshot export
type ExportSnapshotDTO struct {
	ProjectsKey string `json:"projects_key"`
	PeopleKey   string `json:"people_key"`
	CreatedAt   string `json:"created_at"` // ISO 8601
}
