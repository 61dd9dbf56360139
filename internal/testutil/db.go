package testutil

import (
	"fmt"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/straye-as/portfolio-api/internal/auth"
	"github.com/straye-as/portfolio-api/internal/database"
	"github.com/straye-as/portfolio-api/internal/domain"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// TestPassword is the password of users created with CreateTestUser
const TestPassword = "secret-pass"

// SetupTestDB opens a private in-memory SQLite database with foreign keys on
// and the full schema applied. It is closed when the test ends.
func SetupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	dsn := fmt.Sprintf("file:%s_%s?mode=memory&cache=shared&_foreign_keys=on", name, uuid.NewString())

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err, "failed to open sqlite test database")

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, database.EnsureSchema(db))

	t.Cleanup(func() {
		_ = sqlDB.Close()
	})

	return db
}

// SetupSeededDB is SetupTestDB plus the demonstration data
func SetupSeededDB(t *testing.T) *gorm.DB {
	t.Helper()
	db := SetupTestDB(t)
	require.NoError(t, database.Seed(db))
	return db
}

// CreateTestLocation creates a location and returns it
func CreateTestLocation(t *testing.T, db *gorm.DB, name string) *domain.Location {
	t.Helper()
	loc := &domain.Location{Name: name, Description: name + " site", Lat: 59.91, Lng: 10.75}
	require.NoError(t, db.Create(loc).Error)
	return loc
}

// CreateTestProject creates a project with the given status and budgets
func CreateTestProject(t *testing.T, db *gorm.DB, locationID int64, name string, status domain.ProjectStatus, planned, actual float64) *domain.Project {
	t.Helper()
	project := &domain.Project{
		LocationID:    locationID,
		Name:          name,
		Status:        status,
		Phase:         domain.ProjectPhasePlanning,
		BudgetPlanned: planned,
		BudgetActual:  actual,
	}
	require.NoError(t, db.Create(project).Error)
	return project
}

// CreateTestPerson creates a person and returns it
func CreateTestPerson(t *testing.T, db *gorm.DB, name string) *domain.Person {
	t.Helper()
	person := &domain.Person{
		Name:         name,
		Role:         "Engineer",
		Email:        strings.ToLower(strings.ReplaceAll(name, " ", ".")) + "@example.com",
		Organization: "Facilities",
	}
	require.NoError(t, db.Create(person).Error)
	return person
}

// CreateTestAssignment creates an assignment and returns it
func CreateTestAssignment(t *testing.T, db *gorm.DB, personID, locationID int64, pct int, status domain.AssignmentStatus) *domain.Assignment {
	t.Helper()
	assignment := &domain.Assignment{
		PersonID:       personID,
		LocationID:     locationID,
		RoleAtLocation: "Support",
		Status:         status,
		AllocationPct:  pct,
	}
	require.NoError(t, db.Create(assignment).Error)
	return assignment
}

// CreateTestUser creates a user whose password is TestPassword
func CreateTestUser(t *testing.T, db *gorm.DB, username string, role domain.UserRole) *domain.User {
	t.Helper()
	hash, err := auth.HashPassword(TestPassword)
	require.NoError(t, err)
	user := &domain.User{
		Username:     username,
		PasswordHash: hash,
		Name:         "Test " + username,
		Email:        username + "@example.com",
		Role:         role,
	}
	require.NoError(t, db.Create(user).Error)
	return user
}
