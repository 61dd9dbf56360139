package database

import (
	"fmt"
	"strings"
	"time"

	"github.com/straye-as/portfolio-api/internal/auth"
	"github.com/straye-as/portfolio-api/internal/domain"
	"gorm.io/gorm"
)

// SeedPassword is the password of every seeded user account
const SeedPassword = "password123"

type projectSeed struct {
	name        string
	description string
	isTop5      bool
	phase       domain.ProjectPhase
	planned     float64
}

var projectSeeds = []projectSeed{
	{"Solar Panel Upgrade", "Installing 500kw solar array", true, domain.ProjectPhaseConstruction, 850000},
	{"HVAC Renovation", "Replacing chillers in wing A", true, domain.ProjectPhaseProcurement, 1200000},
	{"Security System Overhaul", "Upgrading cameras and access control", false, domain.ProjectPhaseDesign, 420000},
	{"Lobby Remodel", "Modernizing the front entrance", true, domain.ProjectPhaseConstruction, 310000},
	{"Parking Lot Resurfacing", "Asphalt repair and striping", false, domain.ProjectPhasePlanning, 180000},
	{"Cafeteria Expansion", "Adding 50 seats to the dining area", true, domain.ProjectPhaseDesign, 540000},
	{"Network Infrastructure", "Fiber optic backbone upgrade", true, domain.ProjectPhaseCloseout, 760000},
}

var (
	seedStatuses = []domain.ProjectStatus{
		domain.ProjectStatusOnTrack,
		domain.ProjectStatusOnTrack,
		domain.ProjectStatusAtRisk,
		domain.ProjectStatusOnTrack,
		domain.ProjectStatusBehind,
		domain.ProjectStatusComplete,
	}
	seedSpendFactors = []float64{0.45, 0.62, 0.98, 1.12, 0.30, 0.81, 1.05}
	seedCompletion   = []int{40, 55, 85, 70, 15, 100, 90}
)

// Seed wipes every table and loads demonstration data in one transaction
func Seed(db *gorm.DB) error {
	hash, err := auth.HashPassword(SeedPassword)
	if err != nil {
		return fmt.Errorf("failed to hash seed password: %w", err)
	}

	return db.Transaction(func(tx *gorm.DB) error {
		if err := clearTables(tx); err != nil {
			return err
		}

		locations := []domain.Location{
			{Name: "Headquarters", Description: "Main administrative building", Lat: 38.8977, Lng: -77.0365},
			{Name: "R&D Center", Description: "Research and Development facility", Lat: 37.7749, Lng: -122.4194},
			{Name: "Manufacturing Plant", Description: "Primary production facility", Lat: 41.8781, Lng: -87.6298},
		}
		if err := tx.Create(&locations).Error; err != nil {
			return fmt.Errorf("failed to seed locations: %w", err)
		}

		for i, loc := range locations {
			contacts := []domain.Contact{
				{LocationID: loc.ID, Name: "John Doe", Role: "Facility Manager", Email: "john.doe@example.com", Phone: "555-0101"},
				{LocationID: loc.ID, Name: "Jane Smith", Role: "Security Chief", Email: "jane.smith@example.com", Phone: "555-0102"},
			}
			if err := tx.Create(&contacts).Error; err != nil {
				return fmt.Errorf("failed to seed contacts: %w", err)
			}

			projects := make([]domain.Project, 0, len(projectSeeds))
			for j, p := range projectSeeds {
				k := i + j
				start := domain.NewDate(2024, time.Month(1+j), 15)
				end := domain.NewDate(2025, time.Month(1+j), 15)
				projects = append(projects, domain.Project{
					LocationID:      loc.ID,
					Name:            p.name,
					Description:     p.description,
					IsTop5:          p.isTop5,
					Status:          seedStatuses[k%len(seedStatuses)],
					Phase:           p.phase,
					StartDate:       &start,
					EndDate:         &end,
					PercentComplete: seedCompletion[k%len(seedCompletion)],
					BudgetPlanned:   p.planned,
					BudgetActual:    p.planned * seedSpendFactors[k%len(seedSpendFactors)],
				})
			}
			if err := tx.Create(&projects).Error; err != nil {
				return fmt.Errorf("failed to seed projects: %w", err)
			}
		}

		people := []domain.Person{
			{Name: "Alice Johnson", Role: "Program Manager", Email: "alice.johnson@example.com", Phone: "555-0201", Organization: "Facilities Division", Skills: "Program management, Budgeting"},
			{Name: "Bob Martinez", Role: "Civil Engineer", Email: "bob.martinez@example.com", Phone: "555-0202", Organization: "Engineering Corp", Skills: "Structural analysis, AutoCAD"},
			{Name: "Carol Chen", Role: "Electrical Engineer", Email: "carol.chen@example.com", Phone: "555-0203", Organization: "Engineering Corp", Skills: "Solar, Power systems"},
			{Name: "David Kim", Role: "Security Specialist", Email: "david.kim@example.com", Phone: "555-0204", Organization: "SecureTech", Skills: "Access control, CCTV"},
			{Name: "Emma Wilson", Role: "Architect", Email: "emma.wilson@example.com", Phone: "555-0205", Organization: "Design Partners", Skills: "Interior design, Revit"},
			{Name: "Frank Osei", Role: "HVAC Technician", Email: "frank.osei@example.com", Phone: "555-0206", Organization: "Climate Systems Inc", Skills: "Chillers, BMS"},
			{Name: "Grace Patel", Role: "Network Engineer", Email: "grace.patel@example.com", Phone: "555-0207", Organization: "IT Services", Skills: "Fiber, Routing"},
			{Name: "Henry Brooks", Role: "Safety Officer", Email: "henry.brooks@example.com", Phone: "555-0208", Organization: "Facilities Division", Skills: "OSHA, Inspections"},
		}
		if err := tx.Create(&people).Error; err != nil {
			return fmt.Errorf("failed to seed people: %w", err)
		}

		start := domain.NewDate(2024, time.January, 8)
		assign := func(person, location int, role string, pct int, status domain.AssignmentStatus) domain.Assignment {
			return domain.Assignment{
				PersonID:       people[person].ID,
				LocationID:     locations[location].ID,
				RoleAtLocation: role,
				StartDate:      &start,
				Status:         status,
				AllocationPct:  pct,
			}
		}
		active := domain.AssignmentStatusActive
		assignments := []domain.Assignment{
			// Alice is deliberately overcommitted at 130%
			assign(0, 0, "Program Lead", 60, active),
			assign(0, 1, "Program Lead", 40, active),
			assign(0, 2, "Program Advisor", 30, active),
			assign(1, 0, "Site Engineer", 50, active),
			assign(1, 2, "Site Engineer", 50, active),
			assign(2, 1, "Solar Lead", 80, active),
			assign(3, 0, "Security Lead", 100, active),
			assign(4, 0, "Lobby Architect", 50, active),
			assign(5, 2, "HVAC Lead", 70, active),
			assign(5, 1, "HVAC Support", 50, domain.AssignmentStatusInactive),
			assign(6, 1, "Network Lead", 100, active),
			assign(7, 2, "Safety Lead", 60, active),
		}
		if err := tx.Create(&assignments).Error; err != nil {
			return fmt.Errorf("failed to seed assignments: %w", err)
		}

		reportDate := func(month time.Month, day int) *domain.Date {
			d := domain.NewDate(2024, month, day)
			return &d
		}
		authorID := func(i int) *int64 {
			id := people[i].ID
			return &id
		}
		reports := []domain.Report{
			{LocationID: locations[0].ID, AuthorID: authorID(0), Title: "Q2 Facilities Review", Body: "All top 5 projects reviewed. Lobby remodel is two weeks behind plan.", ReportType: domain.ReportTypeQuarterly, ReportDate: reportDate(time.June, 30)},
			{LocationID: locations[0].ID, AuthorID: authorID(3), Title: "Access Control Inspection", Body: "Badge readers on floors 2 and 3 replaced. No findings.", ReportType: domain.ReportTypeInspection, ReportDate: reportDate(time.May, 14)},
			{LocationID: locations[1].ID, AuthorID: authorID(2), Title: "Solar Array Sitrep", Body: "Panel delivery delayed by supplier. Installation crew on standby.", ReportType: domain.ReportTypeSitrep, ReportDate: reportDate(time.July, 2)},
			{LocationID: locations[1].ID, Title: "Lab Expansion Assessment", Body: "Power and cooling capacity assessed for the new lab wing.", ReportType: domain.ReportTypeAssessment, ReportDate: reportDate(time.April, 20)},
			{LocationID: locations[2].ID, AuthorID: authorID(7), Title: "Safety Walkthrough", Body: "Assembly line B guard rails need replacement.", ReportType: domain.ReportTypeInspection, ReportDate: reportDate(time.June, 11)},
			{LocationID: locations[2].ID, AuthorID: authorID(5), Title: "Chiller Replacement Update", Body: "Procurement of two chillers approved.", ReportType: domain.ReportTypeGeneral, ReportDate: reportDate(time.March, 3)},
		}
		if err := tx.Create(&reports).Error; err != nil {
			return fmt.Errorf("failed to seed reports: %w", err)
		}

		users := []domain.User{
			{Username: "admin", PasswordHash: hash, Name: "Admin User", Email: "admin@example.com", Role: domain.RoleAdmin},
			{Username: "manager", PasswordHash: hash, Name: "Portfolio Manager", Email: "manager@example.com", Role: domain.RoleManager},
			{Username: "viewer", PasswordHash: hash, Name: "Leadership Viewer", Email: "viewer@example.com", Role: domain.RoleViewer},
		}
		if err := tx.Create(&users).Error; err != nil {
			return fmt.Errorf("failed to seed users: %w", err)
		}

		link := "/people"
		notifications := []domain.Notification{
			{UserID: users[0].ID, Title: "Overcommitted staff", Message: "Alice Johnson is allocated at 130%.", Type: domain.NotificationTypeWarning, Link: &link},
			{UserID: users[0].ID, Title: "Welcome", Message: "Portfolio data has been loaded.", Type: domain.NotificationTypeInfo},
			{UserID: users[1].ID, Title: "Welcome", Message: "Portfolio data has been loaded.", Type: domain.NotificationTypeInfo},
		}
		if err := tx.Create(&notifications).Error; err != nil {
			return fmt.Errorf("failed to seed notifications: %w", err)
		}

		activity := make([]domain.ActivityLogEntry, 0, len(locations))
		for _, loc := range locations {
			activity = append(activity, domain.ActivityLogEntry{
				EntityType: domain.EntityLocation,
				EntityID:   loc.ID,
				Action:     domain.ActionCreated,
				Details:    fmt.Sprintf("%s created", loc.Name),
				UserName:   domain.SystemActor,
			})
		}
		if err := tx.Create(&activity).Error; err != nil {
			return fmt.Errorf("failed to seed activity: %w", err)
		}

		return nil
	})
}

// SeedIfEmpty seeds only when there are no locations yet
func SeedIfEmpty(db *gorm.DB) (bool, error) {
	var count int64
	if err := db.Model(&domain.Location{}).Count(&count).Error; err != nil {
		return false, fmt.Errorf("failed to count locations: %w", err)
	}
	if count > 0 {
		return false, nil
	}
	return true, Seed(db)
}

func clearTables(tx *gorm.DB) error {
	models := domain.AllModels()
	tables := make([]string, 0, len(models))
	for _, model := range models {
		stmt := &gorm.Statement{DB: tx}
		if err := stmt.Parse(model); err != nil {
			return fmt.Errorf("failed to parse model %T: %w", model, err)
		}
		tables = append(tables, stmt.Schema.Table)
	}

	if IsPostgres(tx) {
		sql := fmt.Sprintf("TRUNCATE TABLE %s RESTART IDENTITY CASCADE", strings.Join(tables, ", "))
		if err := tx.Exec(sql).Error; err != nil {
			return fmt.Errorf("failed to truncate tables: %w", err)
		}
		return nil
	}

	// Children first so foreign keys are never violated
	for i := len(tables) - 1; i >= 0; i-- {
		if err := tx.Exec("DELETE FROM " + tables[i]).Error; err != nil {
			return fmt.Errorf("failed to clear %s: %w", tables[i], err)
		}
	}
	if tx.Migrator().HasTable("sqlite_sequence") {
		if err := tx.Exec("DELETE FROM sqlite_sequence").Error; err != nil {
			return fmt.Errorf("failed to reset sequences: %w", err)
		}
	}
	return nil
}
