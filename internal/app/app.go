package app

import (
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/lexdesk/lexdesk/internal/config"
	"github.com/lexdesk/lexdesk/internal/db"
	"github.com/lexdesk/lexdesk/internal/markdown"
	"github.com/lexdesk/lexdesk/internal/render"
	"github.com/lexdesk/lexdesk/internal/repository"
	"github.com/lexdesk/lexdesk/internal/service"
	"github.com/lexdesk/lexdesk/internal/storage"
)

type App struct {
	Cfg                *config.Config
	DB                 *sqlx.DB
	Store              *repository.Store
	Storage            storage.Storage
	UserService        *service.UserService
	EmailService       *service.EmailService
	CustomFieldService *service.CustomFieldService
	CaseService        *service.CaseService
	ClientService      *service.ClientService
	TemplateService    *service.TemplateService
	DocumentService    *service.DocumentService
	NoteService        *service.NoteService
	CalendarService    *service.CalendarService
	PersonService      *service.PersonService
}

func New(cfg *config.Config) (*App, error) {
	// Initialize database
	database, err := db.Init(cfg.DBDriver, cfg.DBConnection)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	// Run database migrations
	err = db.RunMigrations(database.DB, cfg.DBDriver)
	if err != nil {
		database.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	// Storage
	fileStorage, err := storage.New(cfg)
	if err != nil {
		database.Close()
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}

	return Wire(cfg, database, fileStorage), nil
}

// Wire builds the services over an open database and storage backend.
func Wire(cfg *config.Config, database *sqlx.DB, fileStorage storage.Storage) *App {
	store := repository.NewStore(database)
	md := markdown.NewParser()
	renderer := render.New(md)

	// Services
	emailService := service.NewEmailService(
		cfg.ResendAPIKey,
		cfg.EmailFrom,
		cfg.AppURL,
		cfg.AppName,
		cfg.IsDevelopment(),
	)
	userService := service.NewUserService(store.Users, nil)
	customFieldService := service.NewCustomFieldService(store, nil)
	templateService := service.NewTemplateService(store.Templates, nil)
	documentService := service.NewDocumentService(
		store,
		fileStorage,
		renderer,
		templateService,
		customFieldService,
		emailService,
		service.DocumentServiceConfig{
			UploadDir: cfg.UploadDir,
			AppURL:    cfg.AppURL,
		},
	)

	return &App{
		Cfg:                cfg,
		DB:                 database,
		Store:              store,
		Storage:            fileStorage,
		UserService:        userService,
		EmailService:       emailService,
		CustomFieldService: customFieldService,
		CaseService:        service.NewCaseService(store, customFieldService, nil),
		ClientService:      service.NewClientService(store, customFieldService, nil),
		TemplateService:    templateService,
		DocumentService:    documentService,
		NoteService:        service.NewNoteService(store, md, nil),
		CalendarService:    service.NewCalendarService(store, nil),
		PersonService:      service.NewPersonService(store.People, nil),
	}
}

func (a *App) Close() error {
	if a.DB != nil {
		return db.Close(a.DB)
	}
	return nil
}
