package app

import (
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/kerbaras/hadiths/pkg/app/screens"
	"github.com/kerbaras/hadiths/pkg/config"
	"github.com/kerbaras/hadiths/pkg/integrations"
	"github.com/kerbaras/hadiths/pkg/services"
	"github.com/kerbaras/hadiths/pkg/sources"
	"github.com/kerbaras/hadiths/pkg/utils"
)

type App struct {
	cfg    *config.Config
	logger *zap.Logger
	source sources.Source
}

func NewApp(cfg *config.Config, logger *zap.Logger) *App {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &App{
		cfg:    cfg,
		logger: logger,
		source: NewSource(cfg, logger),
	}
}

// NewSource builds the hadith API client described by cfg.
func NewSource(cfg *config.Config, logger *zap.Logger) *sources.HadithAPI {
	api := utils.NewAPI(cfg.BaseURL, cfg.APIKey,
		utils.WithTimeout(cfg.Timeout),
		utils.WithRateLimit(cfg.RateLimit, cfg.RateBurst),
		utils.WithLogger(logger),
	)
	return sources.NewHadithAPI(api, cfg.PageSize)
}

// NewExporter builds a chapter exporter writing into cfg.ExportDir.
func NewExporter(cfg *config.Config, source sources.Source, logger *zap.Logger) *services.Exporter {
	builder := integrations.NewEPubBuilder(cfg.ExportDir)
	builder.TranslationLabel = cfg.TranslationLabel
	return services.NewExporter(source, builder, logger)
}

func (a *App) Run() error {
	controller := services.NewBrowseController(a.source, a.logger)
	defer controller.Close()

	model := screens.NewRootScreen(
		controller,
		NewExporter(a.cfg, a.source, a.logger),
		a.logger,
		a.cfg.TranslationLabel,
	)
	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithMouseCellMotion())

	a.logger.Info("starting browser", zap.String("base_url", a.cfg.BaseURL))
	_, err := p.Run()
	return err
}
