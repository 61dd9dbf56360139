package domain

import (
	"time"
)

// ProjectStatus is the health of a capital project
type ProjectStatus string

const (
	ProjectStatusOnTrack  ProjectStatus = "on-track"
	ProjectStatusAtRisk   ProjectStatus = "at-risk"
	ProjectStatusBehind   ProjectStatus = "behind"
	ProjectStatusComplete ProjectStatus = "complete"
)

// ProjectPhase is the lifecycle stage of a project. Phases are ordered, see PhaseOrder.
type ProjectPhase string

const (
	ProjectPhasePlanning     ProjectPhase = "planning"
	ProjectPhaseDesign       ProjectPhase = "design"
	ProjectPhaseProcurement  ProjectPhase = "procurement"
	ProjectPhaseConstruction ProjectPhase = "construction"
	ProjectPhaseCloseout     ProjectPhase = "closeout"
)

// PhaseOrder is the fixed lifecycle sequence used when presenting phases
var PhaseOrder = []ProjectPhase{
	ProjectPhasePlanning,
	ProjectPhaseDesign,
	ProjectPhaseProcurement,
	ProjectPhaseConstruction,
	ProjectPhaseCloseout,
}

// Rank returns the position of the phase in PhaseOrder, or len(PhaseOrder) for unknown phases
func (p ProjectPhase) Rank() int {
	for i, phase := range PhaseOrder {
		if phase == p {
			return i
		}
	}
	return len(PhaseOrder)
}

// AssignmentStatus marks whether an assignment counts toward workload
type AssignmentStatus string

const (
	AssignmentStatusActive   AssignmentStatus = "active"
	AssignmentStatusInactive AssignmentStatus = "inactive"
)

// DefaultAllocationPct is used when an assignment is created without an allocation
const DefaultAllocationPct = 100

// OvercommitThreshold is the active allocation sum above which a person is overcommitted
const OvercommitThreshold = 100

type ReportType string

const (
	ReportTypeGeneral    ReportType = "general"
	ReportTypeQuarterly  ReportType = "quarterly"
	ReportTypeInspection ReportType = "inspection"
	ReportTypeSitrep     ReportType = "sitrep"
	ReportTypeAssessment ReportType = "assessment"
)

// UserRole is the coarse permission level of a user
type UserRole string

const (
	RoleAdmin   UserRole = "admin"
	RoleManager UserRole = "manager"
	RoleViewer  UserRole = "viewer"
)

type NotificationType string

const (
	NotificationTypeInfo    NotificationType = "info"
	NotificationTypeWarning NotificationType = "warning"
	NotificationTypeAlert   NotificationType = "alert"
)

type DigestFrequency string

const (
	DigestNone   DigestFrequency = "none"
	DigestDaily  DigestFrequency = "daily"
	DigestWeekly DigestFrequency = "weekly"
)

// Activity entity types and actions
const (
	EntityLocation   = "location"
	EntityProject    = "project"
	EntityAssignment = "assignment"
	EntityReport     = "report"

	ActionCreated       = "created"
	ActionUpdated       = "updated"
	ActionDeleted       = "deleted"
	ActionStatusChanged = "status_changed"
)

// SystemActor is recorded as the actor when a mutation is made anonymously
const SystemActor = "System"

// Location is a physical site in the portfolio
type Location struct {
	ID          int64     `gorm:"primaryKey"`
	Name        string    `gorm:"type:text;not null"`
	Description string    `gorm:"type:text"`
	Lat         float64   `gorm:"not null"`
	Lng         float64   `gorm:"not null"`
	CreatedAt   time.Time `gorm:"not null"`
}

func (Location) TableName() string { return "locations" }

// Contact is a point of contact (POC) at a location
type Contact struct {
	ID         int64     `gorm:"primaryKey"`
	LocationID int64     `gorm:"not null;index"`
	Location   *Location `gorm:"constraint:OnDelete:CASCADE"`
	Name       string    `gorm:"type:text;not null"`
	Role       string    `gorm:"type:text"`
	Email      string    `gorm:"type:text"`
	Phone      string    `gorm:"type:text"`
	CreatedAt  time.Time `gorm:"not null"`
}

func (Contact) TableName() string { return "contacts" }

// Project is a capital project at a location
type Project struct {
	ID              int64         `gorm:"primaryKey"`
	LocationID      int64         `gorm:"not null;index"`
	Location        *Location     `gorm:"constraint:OnDelete:CASCADE"`
	Name            string        `gorm:"type:text;not null"`
	Description     string        `gorm:"type:text"`
	IsTop5          bool          `gorm:"column:is_top_5;not null"`
	Status          ProjectStatus `gorm:"type:varchar(20);not null;default:'on-track'"`
	Phase           ProjectPhase  `gorm:"type:varchar(20);not null;default:'planning'"`
	StartDate       *Date
	EndDate         *Date
	PercentComplete int       `gorm:"not null"`
	BudgetPlanned   float64   `gorm:"type:decimal(15,2);not null"`
	BudgetActual    float64   `gorm:"type:decimal(15,2);not null"`
	CreatedAt       time.Time `gorm:"not null"`
	UpdatedAt       time.Time `gorm:"not null"`
}

func (Project) TableName() string { return "projects" }

// Person is a staff member who can be assigned to locations
type Person struct {
	ID           int64     `gorm:"primaryKey"`
	Name         string    `gorm:"type:text;not null"`
	Role         string    `gorm:"type:text"`
	Email        string    `gorm:"type:text"`
	Phone        string    `gorm:"type:text"`
	Organization string    `gorm:"type:text"`
	Skills       string    `gorm:"type:text"`
	CreatedAt    time.Time `gorm:"not null"`
}

func (Person) TableName() string { return "people" }

// Assignment links a person to a location with an allocation percentage.
// The allocation is not range checked; overcommitment is reported at read time.
type Assignment struct {
	ID             int64            `gorm:"primaryKey"`
	PersonID       int64            `gorm:"not null;index"`
	Person         *Person          `gorm:"constraint:OnDelete:CASCADE"`
	LocationID     int64            `gorm:"not null;index"`
	Location       *Location        `gorm:"constraint:OnDelete:CASCADE"`
	RoleAtLocation string           `gorm:"type:text"`
	StartDate      *Date
	EndDate        *Date
	Status         AssignmentStatus `gorm:"type:varchar(20);not null;default:'active';index"`
	AllocationPct  int              `gorm:"not null"`
	CreatedAt      time.Time        `gorm:"not null"`
}

func (Assignment) TableName() string { return "assignments" }

// Report is a status report filed against a location
type Report struct {
	ID         int64      `gorm:"primaryKey"`
	LocationID int64      `gorm:"not null;index"`
	Location   *Location  `gorm:"constraint:OnDelete:CASCADE"`
	AuthorID   *int64     `gorm:"index"`
	Author     *Person    `gorm:"foreignKey:AuthorID;constraint:OnDelete:SET NULL"`
	Title      string     `gorm:"type:text;not null"`
	Body       string     `gorm:"type:text"`
	ReportType ReportType `gorm:"type:varchar(20);not null;default:'general'"`
	ReportDate *Date
	CreatedAt  time.Time `gorm:"not null"`
}

func (Report) TableName() string { return "reports" }

// ActivityLogEntry is an append-only audit record
type ActivityLogEntry struct {
	ID         int64     `gorm:"primaryKey"`
	EntityType string    `gorm:"type:varchar(50);not null;index"`
	EntityID   int64     `gorm:"not null"`
	Action     string    `gorm:"type:varchar(50);not null"`
	Details    string    `gorm:"type:text"`
	UserName   string    `gorm:"type:text;not null"`
	CreatedAt  time.Time `gorm:"not null;index"`
}

func (ActivityLogEntry) TableName() string { return "activity_log" }

// User is an account that can log in
type User struct {
	ID           int64     `gorm:"primaryKey"`
	Username     string    `gorm:"type:varchar(100);not null;uniqueIndex"`
	PasswordHash string    `gorm:"type:text;not null"`
	Name         string    `gorm:"type:text;not null"`
	Email        string    `gorm:"type:text"`
	Role         UserRole  `gorm:"type:varchar(20);not null;default:'viewer'"`
	CreatedAt    time.Time `gorm:"not null"`
}

func (User) TableName() string { return "users" }

// Notification is a per-user inbox message
type Notification struct {
	ID        int64            `gorm:"primaryKey"`
	UserID    int64            `gorm:"not null;index"`
	User      *User            `gorm:"constraint:OnDelete:CASCADE"`
	Title     string           `gorm:"type:text;not null"`
	Message   string           `gorm:"type:text"`
	Type      NotificationType `gorm:"type:varchar(20);not null;default:'info'"`
	IsRead    bool             `gorm:"column:is_read;not null;index"`
	Link      *string          `gorm:"type:text"`
	CreatedAt time.Time        `gorm:"not null;index"`
}

func (Notification) TableName() string { return "notifications" }

// NotificationPreference holds one user's digest and alert settings
type NotificationPreference struct {
	ID                   int64           `gorm:"primaryKey"`
	UserID               int64           `gorm:"not null;uniqueIndex"`
	User                 *User           `gorm:"constraint:OnDelete:CASCADE"`
	DigestFrequency      DigestFrequency `gorm:"type:varchar(20);not null"`
	AlertOvercommit      bool            `gorm:"not null"`
	AlertStatusChange    bool            `gorm:"not null"`
	AlertBudgetThreshold bool            `gorm:"not null"`
	BudgetThresholdPct   int             `gorm:"not null"`
	CreatedAt            time.Time       `gorm:"not null"`
	UpdatedAt            time.Time       `gorm:"not null"`
}

func (NotificationPreference) TableName() string { return "notification_preferences" }

// DefaultNotificationPreference returns the settings assumed for a user who never saved any
func DefaultNotificationPreference(userID int64) NotificationPreference {
	return NotificationPreference{
		UserID:               userID,
		DigestFrequency:      DigestWeekly,
		AlertOvercommit:      true,
		AlertStatusChange:    true,
		AlertBudgetThreshold: true,
		BudgetThresholdPct:   110,
	}
}

// MetricNote is a free-text metrics report submitted for a location
type MetricNote struct {
	ID         int64     `gorm:"primaryKey"`
	LocationID *int64    `gorm:"index"`
	Location   *Location `gorm:"constraint:OnDelete:CASCADE"`
	ReportText string    `gorm:"type:text"`
	CreatedAt  time.Time `gorm:"not null"`
}

func (MetricNote) TableName() string { return "metrics" }

// AllModels lists every persisted model in dependency order
func AllModels() []interface{} {
	return []interface{}{
		&Location{},
		&Contact{},
		&Project{},
		&Person{},
		&Assignment{},
		&Report{},
		&ActivityLogEntry{},
		&User{},
		&Notification{},
		&NotificationPreference{},
		&MetricNote{},
	}
}
