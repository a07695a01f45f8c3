package appServer

import (
	"context"
	"crypto/tls"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/dlotsss/brondau-server/config"
	repository "github.com/dlotsss/brondau-server/internal/database/postgres"
	"github.com/dlotsss/brondau-server/internal/service"
	"github.com/dlotsss/brondau-server/internal/transport"
	"github.com/dlotsss/brondau-server/internal/worker"

	"github.com/dlotsss/brondau-server/pkg/postgres"
	"github.com/dlotsss/brondau-server/pkg/queue"
	"github.com/dlotsss/brondau-server/pkg/redis"
	"github.com/dlotsss/brondau-server/pkg/scheduler"
	"github.com/dlotsss/brondau-server/pkg/telegram"
)

type Server struct {
	httpServer *http.Server
}

func (s *Server) Run(cfg *config.Config, handler http.Handler) error {
	s.httpServer = &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           handler,
		MaxHeaderBytes:    1 << 20,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      cfg.Server.Timeout,
		IdleTimeout:       cfg.Server.Idle_timeout,
		ReadHeaderTimeout: 3 * time.Second,
		TLSConfig:         &tls.Config{MinVersion: tls.VersionTLS12},           // ban on outdate TLS certificate
		ErrorLog:          log.New(os.Stderr, "SERVER ERROR: ", log.LstdFlags), // os.Stderr can be replaced with ElsasticSearch in the feature
	}
	return s.httpServer.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

func NewServer(cfg *config.Config) {

	logrus.SetFormatter(&logrus.JSONFormatter{})
	logrus.SetOutput(os.Stdout)
	logrus.SetLevel(logrus.InfoLevel)
	// Initialize database
	db, err := postgres.NewPostgresDB(&cfg.Database)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	// Run database migrations
	if err := postgres.RunMigrations(db); err != nil {
		logrus.Fatalf("Failed to run migrations: %v", err)
	}

	// Initialize repositories
	restaurantRepo := repository.NewRestaurantRepository(db)
	bookingRepo := repository.NewBookingRepository(db)
	subscriptionRepo := repository.NewSubscriptionRepository(db)

	// Initialize Telegram bot
	var telegramBot *telegram.Bot
	if cfg.Telegram.BotToken != "" {
		telegramBot = telegram.NewBot(cfg.Telegram.BotToken)
		logrus.Info("Telegram bot initialized")
	} else {
		logrus.Warn("Telegram bot token not provided, notifications disabled")
	}

	var redisQueue *queue.RedisQueue
	var eventPublisher service.EventPublisher

	if cfg.Redis.URL != "" {
		redisConfig := queue.DefaultRedisQueueConfig()
		redisConfig.Addr = cfg.Redis.URL
		redisConfig.Password = cfg.Redis.Password
		redisConfig.DB = cfg.Redis.DB

		retryManager := queue.NewRetryManager(3, 5*time.Second)
		redisClient := redis.NewRedisClient(&cfg.Redis)
		defer redisClient.Close()
		dlqHandler := queue.NewDefaultDLQHandler(redisClient, redisConfig.DLQ)

		redisQueue, err = queue.NewRedisQueue(redisConfig, retryManager, dlqHandler)
		if err != nil {
			logrus.Errorf("Failed to initialize Redis queue: %v. Continuing without queue...", err)
		} else {
			logrus.Info("Redis queue initialized")
			// Создаем адаптер для очереди
			eventPublisher = service.NewQueueAdapter(redisQueue)
		}
	}

	// Initialize services
	bookingService := service.NewBookingService(bookingRepo, restaurantRepo, eventPublisher, cfg.Booking, cfg.Worker.BatchSize)
	restaurantService := service.NewRestaurantService(restaurantRepo)
	notificationService := service.NewNotificationService(subscriptionRepo, bookingRepo, restaurantRepo, telegramBot)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Start queue consumer if queue is available
	if redisQueue != nil {
		go func() {
			if err := redisQueue.Subscribe(ctx, notificationService.HandleTask); err != nil {
				logrus.Errorf("Queue subscriber error: %v", err)
			}
		}()
		logrus.Info("Queue subscriber started")

		// Периодический отчет о состоянии очереди
		statsScheduler := scheduler.NewScheduler("queue-stats", func(ctx context.Context) error {
			stats, err := redisQueue.GetQueueStats(ctx)
			if err != nil {
				return err
			}
			logrus.WithFields(logrus.Fields{
				"main":       stats.MainQueue,
				"delayed":    stats.DelayedQueue,
				"processing": stats.ProcessingQueue,
				"dlq":        stats.DLQ,
			}).Info("Queue stats")
			return nil
		}, 5*time.Minute)
		go statsScheduler.Start(ctx)
	}

	// Initialize sweep worker
	sweepWorker := worker.NewBookingSweepWorker(bookingService, cfg.Worker.SweepInterval)
	go sweepWorker.Start(ctx)
	logrus.Info("Sweep worker started")

	// Initialize handlers
	restaurantHandler := transport.NewRestaurantHandler(restaurantService)
	bookingHandler := transport.NewBookingHandler(bookingService)
	subscriptionHandler := transport.NewSubscriptionHandler(notificationService)

	// Setup HTTP server
	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	srv := new(Server)
	go func() {
		if err := srv.Run(cfg, transport.InitRoutes(restaurantHandler, bookingHandler, subscriptionHandler)); err != nil {
			logrus.Fatalf("error occured while running http server: %s", err.Error())
		}
	}()

	logrus.Print("App Started")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGTERM, syscall.SIGINT)
	<-quit

	logrus.Print("App Shutting Down")

	if redisQueue != nil {
		if err := redisQueue.Close(); err != nil {
			logrus.Errorf("error occured on queue shutting down: %s", err.Error())
		}
	}

	if err := srv.Shutdown(context.Background()); err != nil {
		logrus.Errorf("error occured on server shutting down: %s", err.Error())
	}
}
