package main

import (
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"

	"github.com/Nova-Gear/presence-api/internal/config"
	appHTTP "github.com/Nova-Gear/presence-api/internal/handler/http"
	"github.com/Nova-Gear/presence-api/internal/pkg/database"
	"github.com/Nova-Gear/presence-api/internal/pkg/jwt"
	"github.com/Nova-Gear/presence-api/internal/pkg/storage"
	"github.com/Nova-Gear/presence-api/internal/repository/postgresql"
	authService "github.com/Nova-Gear/presence-api/internal/service/auth"
	"github.com/Nova-Gear/presence-api/internal/service/file"
	manualRequestService "github.com/Nova-Gear/presence-api/internal/service/manualrequest"
	presenceService "github.com/Nova-Gear/presence-api/internal/service/presence"
	presenceConfigService "github.com/Nova-Gear/presence-api/internal/service/presenceconfig"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Println("Error loading config:", err)
		return
	}

	db, err := database.NewPostgreSQLDB(cfg.DatabaseURL())
	if err != nil {
		fmt.Println("Error connecting to database:", err)
		return
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil)).With(
		slog.String("app", cfg.App.Name),
	)

	userRepo := postgresql.NewUserRepository(db)
	companyRepo := postgresql.NewCompanyRepository(db)
	presenceRepo := postgresql.NewPresenceRepository(db)
	deviceMappingRepo := postgresql.NewDeviceMappingRepository(db)
	presenceConfigRepo := postgresql.NewPresenceConfigRepository(db)
	manualRequestRepo := postgresql.NewManualRequestRepository(db)
	txManager := postgresql.NewTxManager(db)

	jwtService := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiration)

	var fileStorage storage.FileStorage
	switch cfg.Storage.Type {
	case "local":
		fileStorage, err = storage.NewLocalStorage(
			cfg.Storage.BasePath,
			cfg.Storage.BaseURL,
		)
		if err != nil {
			log.Fatal("Failed to initialize local storage:", err)
		}
	default:
		log.Fatal("Unsupported storage type: ", cfg.Storage.Type)
	}

	fileService := file.NewFileService(fileStorage)
	authSvc := authService.NewAuthService(userRepo, companyRepo, jwtService)
	presenceSvc := presenceService.NewPresenceService(
		presenceRepo,
		deviceMappingRepo,
		presenceConfigRepo,
		userRepo,
		fileService,
		jwtService,
		logger,
	)
	configSvc := presenceConfigService.NewConfigService(presenceConfigRepo, companyRepo)
	requestSvc := manualRequestService.NewRequestService(
		manualRequestRepo,
		presenceRepo,
		userRepo,
		fileService,
		txManager,
		logger,
	)

	authHandler := appHTTP.NewAuthHandler(authSvc)
	presenceHandler := appHTTP.NewPresenceHandler(presenceSvc)
	configHandler := appHTTP.NewPresenceConfigHandler(configSvc)
	requestHandler := appHTTP.NewManualRequestHandler(requestSvc)

	router := appHTTP.NewRouter(
		cfg,
		jwtService,
		authHandler,
		presenceHandler,
		configHandler,
		requestHandler,
	)

	port := fmt.Sprintf(":%d", cfg.App.Port)
	fmt.Printf("Server running at http://localhost%s\n", port)
	if err := http.ListenAndServe(port, router); err != nil {
		fmt.Println("Server error:", err)
	}
}
