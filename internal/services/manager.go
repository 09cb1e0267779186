package services

import (
	"log/slog"

	"github.com/mockmate/interview-service/internal/cache"
	"github.com/mockmate/interview-service/internal/clients"
	"github.com/mockmate/interview-service/internal/events"
	"github.com/mockmate/interview-service/internal/questionbank"
	"github.com/mockmate/interview-service/internal/repositories"
	"github.com/mockmate/interview-service/internal/utils"
)

// ServiceManager hands out the service layer as one unit.
type ServiceManager interface {
	Session() SessionService
	Resume() ResumeService
	Report() ReportService
	Export() ExportService
}

type serviceManager struct {
	session SessionService
	resume  ResumeService
	report  ReportService
	export  ExportService
}

// Dependencies carries everything the service layer is built from.
type Dependencies struct {
	Repo        repositories.Repository
	Snapshots   SnapshotStore
	Cache       cache.CacheService
	Planner     clients.PlannerClient
	Transcriber clients.TranscriberClient
	Scorer      clients.ScorerClient
	ResumeParse clients.ResumeParserClient
	Bank        *questionbank.Bank
	Publisher   events.EventPublisher
	Logger      *slog.Logger
	Validator   *utils.Validator

	// Think-time default for sessions that do not request their own.
	DefaultThinkTime int
}

func NewServiceManager(deps Dependencies) ServiceManager {
	report := NewReportService(deps.Repo, deps.Scorer, deps.Publisher, deps.Cache, deps.Logger)
	return &serviceManager{
		session: NewSessionService(
			deps.Repo,
			deps.Snapshots,
			deps.Planner,
			deps.Transcriber,
			deps.Scorer,
			deps.Bank,
			deps.Publisher,
			deps.Logger,
			deps.Validator,
			deps.DefaultThinkTime,
		),
		resume: NewResumeService(deps.Repo, deps.ResumeParse, deps.Logger),
		report: report,
		export: NewExportService(deps.Repo, report, deps.Logger),
	}
}

func (m *serviceManager) Session() SessionService { return m.session }

func (m *serviceManager) Resume() ResumeService { return m.resume }

func (m *serviceManager) Report() ReportService { return m.report }

func (m *serviceManager) Export() ExportService { return m.export }
