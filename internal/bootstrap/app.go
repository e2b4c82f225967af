package bootstrap

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/Nick-Maximillien/autobooks-ai/internal/auth"
	"github.com/Nick-Maximillien/autobooks-ai/internal/copilot"
	"github.com/Nick-Maximillien/autobooks-ai/internal/invoices"
	"github.com/Nick-Maximillien/autobooks-ai/internal/ledger"
	"github.com/Nick-Maximillien/autobooks-ai/internal/llm"
	"github.com/Nick-Maximillien/autobooks-ai/internal/llm/gemini"
	"github.com/Nick-Maximillien/autobooks-ai/internal/llm/ollama"
	"github.com/Nick-Maximillien/autobooks-ai/internal/ocr"
	"github.com/Nick-Maximillien/autobooks-ai/internal/ocr/easyocr"
	"github.com/Nick-Maximillien/autobooks-ai/internal/parse"
	"github.com/Nick-Maximillien/autobooks-ai/internal/shared/config"
	"github.com/Nick-Maximillien/autobooks-ai/internal/shared/server"
	"github.com/Nick-Maximillien/autobooks-ai/internal/shared/storage/object"
	localstore "github.com/Nick-Maximillien/autobooks-ai/internal/shared/storage/object/local"
	s3store "github.com/Nick-Maximillien/autobooks-ai/internal/shared/storage/object/s3"
)

// App holds the process-wide singletons. Everything is built once here and
// injected; request handlers never construct collaborators.
type App struct {
	Config config.Config
	Router *gin.Engine

	Store     object.ObjectStore
	Ledger    *ledger.Client
	Validator *auth.Validator

	OCRExtractor   *ocr.Extractor
	FieldExtractor *parse.Extractor
	UploadService  *invoices.Service
	CopilotService *copilot.Service
}

// Build validates configuration and wires all dependencies.
func Build(cfg config.Config) (*App, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	ctx := context.Background()

	store, err := buildStore(ctx, cfg)
	if err != nil {
		return nil, err
	}

	ledgerClient := ledger.NewClient(cfg.BackendBaseURL, cfg.BackendTimeout, cfg.ReportTimeout)
	validator := auth.NewValidator([]byte(cfg.JWTSecret), ledgerClient)

	ocrExtractor := ocr.NewExtractor(easyocr.New(cfg.OCRServerURL))

	parseProvider, copilotProvider, err := buildProviders(ctx, cfg)
	if err != nil {
		return nil, err
	}
	fieldExtractor := parse.NewExtractor(parseProvider)

	uploadSvc := invoices.NewService(store, ocrExtractor, fieldExtractor, ledgerClient)
	copilotSvc := copilot.NewService(ledgerClient, copilotProvider)

	app := &App{
		Config:         cfg,
		Store:          store,
		Ledger:         ledgerClient,
		Validator:      validator,
		OCRExtractor:   ocrExtractor,
		FieldExtractor: fieldExtractor,
		UploadService:  uploadSvc,
		CopilotService: copilotSvc,
	}

	app.Router = server.NewRouter(server.RouterDeps{
		Config:         cfg,
		Validator:      validator,
		UploadHandler:  invoices.NewHandler(uploadSvc),
		CopilotHandler: copilot.NewHandler(copilotSvc),
	})

	return app, nil
}

func buildStore(ctx context.Context, cfg config.Config) (object.ObjectStore, error) {
	switch cfg.ObjectStoreType {
	case "s3":
		return s3store.New(ctx, cfg.AWSRegion, cfg.S3Bucket, cfg.S3Prefix, cfg.SSEKMSKeyID)
	default:
		return localstore.New(cfg.ReceiptsDir), nil
	}
}

// buildProviders returns the field-extraction provider and the copilot
// provider. With Gemini as primary, extraction gets a one-shot fallback to
// the completion server; the copilot uses the primary alone.
func buildProviders(ctx context.Context, cfg config.Config) (llm.Provider, llm.Provider, error) {
	completion := ollama.NewClient(cfg.NLPServerURL, cfg.NLPModel, cfg.BackendTimeout)

	if cfg.LLMProvider == "ollama" {
		return completion, completion, nil
	}

	gem, err := gemini.NewClient(ctx, cfg.GeminiAPIKey, cfg.GoogleCredentialsFile, cfg.GeminiModel)
	if err != nil {
		return nil, nil, err
	}
	return llm.WithFallback(gem, completion), gem, nil
}
