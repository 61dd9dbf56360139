package service

import (
	"context"

	"github.com/straye-as/portfolio-api/internal/datawarehouse"
	"github.com/straye-as/portfolio-api/internal/domain"
	"github.com/straye-as/portfolio-api/internal/mapper"
	"github.com/straye-as/portfolio-api/internal/repository"
	"go.uber.org/zap"
)

// InsightProvider supplies the narrative insight content shown on the dashboard
type InsightProvider interface {
	ProgramOverview(ctx context.Context) (*domain.ProgramOverviewDTO, error)
	Metrics(ctx context.Context) (*domain.InsightMetricsDTO, error)
	LocationAnalysis(ctx context.Context, locationID int64) (*domain.LocationAnalysisDTO, error)
}

const (
	programOverviewText = "This program focuses on sustainable architecture and renewable energy integration across all locations."
	noAnalysisSummary   = "No specific analysis available."
)

var staticAnalyses = map[int64]domain.LocationAnalysisDTO{
	1: {
		Summary:       "Headquarters operating at optimal efficiency. Energy consumption down 12% YOY.",
		Risks:         []string{"Lobby remodel slightly behind schedule"},
		Opportunities: []string{"Solar integration on South Wing"},
	},
	2: {
		Summary:       "R&D Center showing high resource utilization. New lab expansion recommended.",
		Risks:         []string{"Power grid stability during peak testing"},
		Opportunities: []string{"AI-driven climate control implementation"},
	},
	3: {
		Summary:       "Manufacturing Plant output steady. Maintenance requests have increased by 5%.",
		Risks:         []string{"Assembly Line B requires overhaul", "Safety certification renewal due"},
		Opportunities: []string{"Automation of packaging line"},
	},
}

// StaticInsightProvider serves a fixed lookup table
type StaticInsightProvider struct{}

func NewStaticInsightProvider() *StaticInsightProvider {
	return &StaticInsightProvider{}
}

func (p *StaticInsightProvider) ProgramOverview(ctx context.Context) (*domain.ProgramOverviewDTO, error) {
	return &domain.ProgramOverviewDTO{Overview: programOverviewText}, nil
}

func (p *StaticInsightProvider) Metrics(ctx context.Context) (*domain.InsightMetricsDTO, error) {
	return &domain.InsightMetricsDTO{
		Metrics: []domain.InsightMetricDTO{
			{Name: "SOW Duplication Check", Status: "Pass", Details: "No significant duplications found across 5 projects."},
			{Name: "Resource Utilization", Value: "85%", Trend: "up"},
		},
	}, nil
}

func (p *StaticInsightProvider) LocationAnalysis(ctx context.Context, locationID int64) (*domain.LocationAnalysisDTO, error) {
	analysis, ok := staticAnalyses[locationID]
	if !ok {
		return &domain.LocationAnalysisDTO{
			Summary:       noAnalysisSummary,
			Risks:         []string{},
			Opportunities: []string{},
		}, nil
	}

	// Copy so callers cannot mutate the table
	return &domain.LocationAnalysisDTO{
		Summary:       analysis.Summary,
		Risks:         append([]string(nil), analysis.Risks...),
		Opportunities: append([]string(nil), analysis.Opportunities...),
	}, nil
}

// WarehouseSource is the part of the data warehouse client the insight provider reads from
type WarehouseSource interface {
	FacilityInsight(ctx context.Context, table string, locationID int64) (*datawarehouse.FacilityInsight, error)
	ProgramOverview(ctx context.Context, table string) (string, bool, error)
}

// WarehouseInsightProvider reads curated insights from the data warehouse and falls
// back to another provider when the warehouse fails or has no row
type WarehouseInsightProvider struct {
	source        WarehouseSource
	fallback      InsightProvider
	insightsTable string
	overviewTable string
	logger        *zap.Logger
}

func NewWarehouseInsightProvider(
	source WarehouseSource,
	fallback InsightProvider,
	insightsTable, overviewTable string,
	logger *zap.Logger,
) *WarehouseInsightProvider {
	return &WarehouseInsightProvider{
		source:        source,
		fallback:      fallback,
		insightsTable: insightsTable,
		overviewTable: overviewTable,
		logger:        logger,
	}
}

func (p *WarehouseInsightProvider) ProgramOverview(ctx context.Context) (*domain.ProgramOverviewDTO, error) {
	overview, ok, err := p.source.ProgramOverview(ctx, p.overviewTable)
	if err != nil {
		p.logger.Warn("warehouse program overview failed, using fallback", zap.Error(err))
		return p.fallback.ProgramOverview(ctx)
	}
	if !ok {
		return p.fallback.ProgramOverview(ctx)
	}
	return &domain.ProgramOverviewDTO{Overview: overview}, nil
}

// Metrics has no warehouse source yet and always uses the fallback
func (p *WarehouseInsightProvider) Metrics(ctx context.Context) (*domain.InsightMetricsDTO, error) {
	return p.fallback.Metrics(ctx)
}

func (p *WarehouseInsightProvider) LocationAnalysis(ctx context.Context, locationID int64) (*domain.LocationAnalysisDTO, error) {
	insight, err := p.source.FacilityInsight(ctx, p.insightsTable, locationID)
	if err != nil {
		p.logger.Warn("warehouse location analysis failed, using fallback",
			zap.Int64("location_id", locationID),
			zap.Error(err),
		)
		return p.fallback.LocationAnalysis(ctx, locationID)
	}
	if insight == nil {
		return p.fallback.LocationAnalysis(ctx, locationID)
	}

	return &domain.LocationAnalysisDTO{
		Summary:       insight.Summary,
		Risks:         insight.Risks,
		Opportunities: insight.Opportunities,
	}, nil
}

// InsightService fronts the configured provider and stores submitted metric notes
type InsightService struct {
	provider       InsightProvider
	metricNoteRepo *repository.MetricNoteRepository
	locationRepo   *repository.LocationRepository
	logger         *zap.Logger
}

func NewInsightService(
	provider InsightProvider,
	metricNoteRepo *repository.MetricNoteRepository,
	locationRepo *repository.LocationRepository,
	logger *zap.Logger,
) *InsightService {
	return &InsightService{
		provider:       provider,
		metricNoteRepo: metricNoteRepo,
		locationRepo:   locationRepo,
		logger:         logger,
	}
}

func (s *InsightService) ProgramOverview(ctx context.Context) (*domain.ProgramOverviewDTO, error) {
	return s.provider.ProgramOverview(ctx)
}

func (s *InsightService) Metrics(ctx context.Context) (*domain.InsightMetricsDTO, error) {
	return s.provider.Metrics(ctx)
}

func (s *InsightService) LocationAnalysis(ctx context.Context, locationID int64) (*domain.LocationAnalysisDTO, error) {
	return s.provider.LocationAnalysis(ctx, locationID)
}

// SubmitMetricNote stores a free-text metrics report, optionally tied to a location
func (s *InsightService) SubmitMetricNote(ctx context.Context, req *domain.MetricNoteRequest) (*domain.MetricNoteDTO, error) {
	if req.LocationID != nil {
		if err := ensureLocation(ctx, s.locationRepo, *req.LocationID); err != nil {
			return nil, err
		}
	}

	note := &domain.MetricNote{
		LocationID: req.LocationID,
		ReportText: req.ReportText,
	}
	if err := s.metricNoteRepo.Create(ctx, note); err != nil {
		return nil, mapper.FormatError("metric note", "create", err)
	}

	dto := mapper.ToMetricNoteDTO(note)
	return &dto, nil
}
