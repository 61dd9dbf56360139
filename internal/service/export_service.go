package service

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/straye-as/portfolio-api/internal/domain"
	"github.com/straye-as/portfolio-api/internal/mapper"
	"github.com/straye-as/portfolio-api/internal/repository"
	"github.com/straye-as/portfolio-api/internal/storage"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
)

var (
	ProjectsCSVHeader = []string{"Location", "Project", "Description", "Status", "Phase", "Start Date", "End Date", "% Complete", "Budget Planned", "Budget Actual", "Top 5"}
	PeopleCSVHeader   = []string{"Name", "Role", "Organization", "Email", "Phone", "Total Allocation %", "Assignments"}
)

const (
	projectsSheet      = "Projects"
	snapshotPrefix     = "snapshots"
	snapshotTimeLayout = "20060102T150405Z"
)

// ExportService renders the fixed portfolio reports as CSV or XLSX and archives snapshots
type ExportService struct {
	projectRepo    *repository.ProjectRepository
	personRepo     *repository.PersonRepository
	assignmentRepo *repository.AssignmentRepository
	store          storage.Storage
	logger         *zap.Logger
	now            func() time.Time
}

// NewExportService creates an export service. store may be nil when snapshots are not used.
func NewExportService(
	projectRepo *repository.ProjectRepository,
	personRepo *repository.PersonRepository,
	assignmentRepo *repository.AssignmentRepository,
	store storage.Storage,
	logger *zap.Logger,
) *ExportService {
	return &ExportService{
		projectRepo:    projectRepo,
		personRepo:     personRepo,
		assignmentRepo: assignmentRepo,
		store:          store,
		logger:         logger,
		now:            time.Now,
	}
}

// SetClock overrides the time source used for snapshot names, for tests
func (s *ExportService) SetClock(now func() time.Time) {
	s.now = now
}

// ProjectRecords returns the projects report rows, header first
func (s *ExportService) ProjectRecords(ctx context.Context) ([][]string, error) {
	rows, err := s.projectRepo.ListForExport(ctx)
	if err != nil {
		return nil, mapper.FormatError("projects export", "load", err)
	}

	records := make([][]string, 0, len(rows)+1)
	records = append(records, ProjectsCSVHeader)
	for _, row := range rows {
		records = append(records, []string{
			row.LocationName,
			row.Name,
			row.Description,
			string(row.Status),
			string(row.Phase),
			formatDate(row.StartDate),
			formatDate(row.EndDate),
			strconv.Itoa(row.PercentComplete),
			formatAmount(row.BudgetPlanned),
			formatAmount(row.BudgetActual),
			yesNo(row.IsTop5),
		})
	}
	return records, nil
}

// PeopleRecords returns the people report rows, header first. Total allocation counts
// active assignments only; the assignment list covers every assignment.
func (s *ExportService) PeopleRecords(ctx context.Context) ([][]string, error) {
	people, err := s.personRepo.List(ctx)
	if err != nil {
		return nil, mapper.FormatError("people export", "load", err)
	}
	assignments, err := s.assignmentRepo.ListAllWithLocation(ctx)
	if err != nil {
		return nil, mapper.FormatError("people export", "load", err)
	}

	totals := make(map[int64]int)
	labels := make(map[int64]map[string]struct{})
	for _, a := range assignments {
		if a.Status == domain.AssignmentStatusActive {
			totals[a.PersonID] += a.AllocationPct
		}
		if labels[a.PersonID] == nil {
			labels[a.PersonID] = make(map[string]struct{})
		}
		labels[a.PersonID][fmt.Sprintf("%s (%d%%)", a.LocationName, a.AllocationPct)] = struct{}{}
	}

	records := make([][]string, 0, len(people)+1)
	records = append(records, PeopleCSVHeader)
	for _, p := range people {
		records = append(records, []string{
			p.Name,
			p.Role,
			p.Organization,
			p.Email,
			p.Phone,
			strconv.Itoa(totals[p.ID]),
			joinSorted(labels[p.ID]),
		})
	}
	return records, nil
}

func (s *ExportService) WriteProjectsCSV(ctx context.Context, w io.Writer) error {
	records, err := s.ProjectRecords(ctx)
	if err != nil {
		return err
	}
	return writeCSV(w, records)
}

func (s *ExportService) WritePeopleCSV(ctx context.Context, w io.Writer) error {
	records, err := s.PeopleRecords(ctx)
	if err != nil {
		return err
	}
	return writeCSV(w, records)
}

// WriteProjectsXLSX writes the projects report as a single-sheet workbook
func (s *ExportService) WriteProjectsXLSX(ctx context.Context, w io.Writer) error {
	records, err := s.ProjectRecords(ctx)
	if err != nil {
		return err
	}

	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName(f.GetSheetName(0), projectsSheet); err != nil {
		return fmt.Errorf("failed to name sheet: %w", err)
	}

	for i, record := range records {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		row := make([]interface{}, len(record))
		for j, v := range record {
			row[j] = v
		}
		if err := f.SetSheetRow(projectsSheet, cell, &row); err != nil {
			return fmt.Errorf("failed to write row %d: %w", i+1, err)
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

// Snapshot archives both CSV reports to object storage and returns their keys
func (s *ExportService) Snapshot(ctx context.Context) (*domain.ExportSnapshotDTO, error) {
	if s.store == nil {
		return nil, fmt.Errorf("snapshot storage is not configured")
	}

	createdAt := s.now().UTC()
	stamp := createdAt.Format(snapshotTimeLayout)

	var projects, people bytes.Buffer
	if err := s.WriteProjectsCSV(ctx, &projects); err != nil {
		return nil, err
	}
	if err := s.WritePeopleCSV(ctx, &people); err != nil {
		return nil, err
	}

	projectsKey := fmt.Sprintf("%s/projects-%s.csv", snapshotPrefix, stamp)
	peopleKey := fmt.Sprintf("%s/people-%s.csv", snapshotPrefix, stamp)

	if _, err := s.store.Upload(ctx, projectsKey, "text/csv", &projects); err != nil {
		return nil, mapper.FormatError("projects snapshot", "upload", err)
	}
	if _, err := s.store.Upload(ctx, peopleKey, "text/csv", &people); err != nil {
		return nil, mapper.FormatError("people snapshot", "upload", err)
	}

	s.logger.Info("export snapshot stored",
		zap.String("projects_key", projectsKey),
		zap.String("people_key", peopleKey),
	)

	return &domain.ExportSnapshotDTO{
		ProjectsKey: projectsKey,
		PeopleKey:   peopleKey,
		CreatedAt:   mapper.FormatTimestamp(createdAt),
	}, nil
}

func writeCSV(w io.Writer, records [][]string) error {
	cw := csv.NewWriter(w)
	if err := cw.WriteAll(records); err != nil {
		return fmt.Errorf("failed to write csv: %w", err)
	}
	return nil
}

func formatDate(d *domain.Date) string {
	if d == nil || d.IsZero() {
		return ""
	}
	return d.String()
}

func formatAmount(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}

func yesNo(b bool) string {
	if b {
		return "Yes"
	}
	return "No"
}

func joinSorted(set map[string]struct{}) string {
	items := make([]string, 0, len(set))
	for item := range set {
		items = append(items, item)
	}
	sort.Strings(items)
	return strings.Join(items, ", ")
}
