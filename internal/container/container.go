package container

import (
	"time"

	"photo-inspect/config"
	app "photo-inspect/internal/application"
	"photo-inspect/internal/domain/entity"
	"photo-inspect/internal/domain/port"
	"photo-inspect/internal/infrastructure/backend"
	"photo-inspect/internal/infrastructure/fetch"
	"photo-inspect/internal/infrastructure/vision"
	"photo-inspect/internal/parser"
)

type Container struct {
	UserService       *app.UserService
	InspectionService *app.InspectionService
	BatchService      *app.BatchService
	DecisionRepo      port.DecisionRepository
}

// New собирает сервисы приложения из конфигурации и политики.
func New(cfg *config.Config, policy *config.Policy, userRepo port.UserRepository, decisionRepo port.DecisionRepository) (*Container, error) {
	callTimeout := time.Duration(policy.CallTimeoutSec) * time.Second

	primary, err := backend.New(backend.Family(cfg.PrimaryFamily), backend.ClientConfig{
		BaseURL: cfg.PrimaryBaseURL,
		APIKey:  cfg.PrimaryAPIKey,
		Model:   cfg.PrimaryModel,
		Timeout: callTimeout,
	})
	if err != nil {
		return nil, err
	}

	secondary, err := backend.New(backend.Family(cfg.SecondaryFamily), backend.ClientConfig{
		BaseURL: cfg.SecondaryBaseURL,
		APIKey:  cfg.SecondaryAPIKey,
		Model:   cfg.SecondaryModel,
		Timeout: callTimeout,
	})
	if err != nil {
		return nil, err
	}

	primaryPrompt, err := policy.ActivePrompt(policy.PrimaryPrompt)
	if err != nil {
		return nil, err
	}
	secondaryPrompt, err := policy.ActivePrompt(policy.SecondaryPrompt)
	if err != nil {
		return nil, err
	}

	detector := vision.NewBandDetector(detectorConfig(policy.Detector))
	interp := parser.New(policy.Keywords.Reject, policy.Keywords.Accept)
	fetcher := fetch.NewHTTPFetcher(30 * time.Second)

	inspectionService := app.NewInspectionService(detector, primary, secondary, fetcher, interp, app.PipelineConfig{
		Mode:            entity.PipelineMode(policy.Mode),
		PrimaryPrompt:   app.Prompt{ID: policy.PrimaryPrompt, Text: primaryPrompt},
		SecondaryPrompt: app.Prompt{ID: policy.SecondaryPrompt, Text: secondaryPrompt},
		Trust: app.TrustRule{
			BorderTerms:      policy.Trust.BorderTerms,
			CertaintyPhrases: policy.Trust.CertaintyPhrases,
		},
		CallTimeout: callTimeout,
	})

	return &Container{
		UserService:       app.NewUserService(userRepo),
		InspectionService: inspectionService,
		BatchService:      app.NewBatchService(inspectionService, policy.Workers),
		DecisionRepo:      decisionRepo,
	}, nil
}

// detectorConfig накладывает переопределения политики на дефолты детектора.
// Нулевое значение в политике оставляет дефолт.
func detectorConfig(p config.DetectorPolicy) vision.Config {
	cfg := vision.DefaultConfig()
	if p.BandRatio > 0 {
		cfg.BandThicknessRatio = p.BandRatio
	}
	if p.MinBandThickness > 0 {
		cfg.MinBandThickness = p.MinBandThickness
	}
	if p.CenterExclusion > 0 {
		cfg.CenterExclusionRatio = p.CenterExclusion
	}
	if p.MatchLow > 0 {
		cfg.MatchLow = p.MatchLow
	}
	if p.MatchHigh > 0 {
		cfg.MatchHigh = p.MatchHigh
	}
	if p.ColorWeight > 0 {
		cfg.ColorWeight = p.ColorWeight
	}
	if p.EdgeWeight > 0 {
		cfg.EdgeWeight = p.EdgeWeight
	}
	if p.EdgeMagnitude > 0 {
		cfg.EdgeMagnitude = p.EdgeMagnitude
	}
	if p.DecisionThreshold > 0 {
		cfg.DecisionThreshold = p.DecisionThreshold
	}
	return cfg
}
