package bootstrap

import (
	"log"

	"deal-alert-be/internal/collector"
	"deal-alert-be/internal/config"
	"deal-alert-be/internal/controller"
	"deal-alert-be/internal/handler"
	"deal-alert-be/internal/pkg/logger"
	"deal-alert-be/internal/repository/memory"
	"deal-alert-be/internal/repository/persistence"
	"deal-alert-be/internal/service"
	"deal-alert-be/internal/websocket"
	pktNats "deal-alert-be/pkg/nats"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/redis/go-redis/v9"
)

type Container struct {
	// Controllers
	ProductController  controller.IProductController
	SettingsController controller.ISettingsController
	DataController     controller.IDataController

	// WebSockets
	StreamHandler *handler.StreamHandler
	WebSocketHub  *websocket.Hub

	// Background services (exposed for main.go to run)
	RefreshConsumer  service.IRefreshConsumerService
	SchedulerService service.ISchedulerService

	// Infra handles for shutdown
	NatsPublisher *pktNats.Publisher
}

func NewContainer(cfg *config.Config) *Container {
	// 1. Core facades
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")
	wsLogger := logger.NewIsolatedLogger(cfg.App.WsLogFilePath)

	// 2. Event bus
	watermillLogger := watermill.NewStdLogger(false, false)
	pubSub := gochannel.NewGoChannel(gochannel.Config{}, watermillLogger)

	// 3. Optional infrastructure
	var natsPub *pktNats.Publisher
	if cfg.App.NatsURL != "" {
		pub, err := pktNats.NewPublisher(cfg.App.NatsURL)
		if err != nil {
			log.Printf("[WARN] Failed to connect to NATS Publisher: %v", err)
		} else {
			natsPub = pub
		}
	}

	// 4. Persistence driver
	var snapshots persistence.SnapshotStore
	if cfg.Persistence.Driver == "redis" {
		opts, err := redis.ParseURL(cfg.Persistence.RedisURL)
		if err != nil {
			log.Fatalf("[FATAL] Invalid REDIS_URL: %v", err)
		}
		snapshots = persistence.NewRedisStore(redis.NewClient(opts))
		log.Printf("[INFO] Using persistence driver: REDIS")
	} else {
		fileStore, err := persistence.NewFileStore(cfg.Persistence.DataDir)
		if err != nil {
			log.Fatalf("[FATAL] Failed to prepare data directory: %v", err)
		}
		snapshots = fileStore
		log.Printf("[INFO] Using persistence driver: FILE (%s)", cfg.Persistence.DataDir)
	}

	// 5. Stores and sessions
	storageService := service.NewStorageService(snapshots, sysLogger)
	storageService.Load()

	sessionRegistry := memory.NewSessionRegistry()

	// 6. WebSocket hub
	hub := websocket.NewHub(wsLogger)
	go hub.Run()

	// 7. Domain services
	classifierService := service.NewClassifierService()
	projectorService := service.NewProjectorService()
	broadcastService := service.NewBroadcastService(hub, sessionRegistry, projectorService, storageService, natsPub, sysLogger)
	alertService := service.NewAlertService(storageService, classifierService, projectorService, broadcastService, sessionRegistry, sysLogger)

	// 8. Collection pipeline
	listingCollector := collector.NewHttpCollector(cfg.Collector, storageService, sysLogger)
	refreshService := service.NewRefreshService(pubSub, sysLogger)
	refreshConsumer := service.NewRefreshConsumerService(pubSub, listingCollector, alertService, storageService, broadcastService, sysLogger)
	schedulerService := service.NewSchedulerService(storageService, refreshService, sysLogger)

	// 9. HTTP surface
	productController := controller.NewProductController(alertService, storageService)
	settingsController := controller.NewSettingsController(storageService, broadcastService, schedulerService)
	dataController := controller.NewDataController(alertService, storageService, refreshService, sessionRegistry)
	streamHandler := handler.NewStreamHandler(hub, alertService, storageService, refreshService, broadcastService, schedulerService, wsLogger)

	return &Container{
		ProductController:  productController,
		SettingsController: settingsController,
		DataController:     dataController,
		StreamHandler:      streamHandler,
		WebSocketHub:       hub,
		RefreshConsumer:    refreshConsumer,
		SchedulerService:   schedulerService,
		NatsPublisher:      natsPub,
	}
}
