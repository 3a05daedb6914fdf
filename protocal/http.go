package protocal

import (
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"time"

	"localledger/configs"
	httpAdapter "localledger/internal/adapters/input/http"
	"localledger/internal/adapters/output/media"
	"localledger/internal/adapters/output/memory"
	"localledger/internal/adapters/output/postgres"
	"localledger/internal/application"
	"localledger/internal/application/flows"
	gormDriver "localledger/pkg/database_driver/gorm"
	"localledger/pkg/validator"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

type config struct {
	ENV string `mapstructure:"env"`
}

// ServeHTTP func
func ServeHTTP() error {
	app := fiber.New()
	var cfg config
	flag.StringVar(&cfg.ENV, "env", "", "the environment to use")
	flag.Parse()
	configs.InitViper("./configs", cfg.ENV)
	validate := validator.New()
	if err := validate.ValidateStruct(configs.GetViper()); err != nil {
		logrus.Fatalf("Invalid configuration: %v", err)
	}
	logrus.Info(configs.GetViper().Env)
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowHeaders: "Origin, Content-Type, Accept,Authorization",
	}))
	dbConGorm, err := gormDriver.ConnectToPostgreSQL(
		configs.GetViper().Postgres.Host,
		configs.GetViper().Postgres.Port,
		configs.GetViper().Postgres.Username,
		configs.GetViper().Postgres.Password,
		configs.GetViper().Postgres.DbName,
		configs.GetViper().Postgres.SSLMode,
	)
	if err != nil {
		return err
	}

	// Wire up the hexagonal architecture layers
	// Output adapters
	store := postgres.NewStore(dbConGorm.Postgres)
	sessions := memory.NewSessionRegistry(time.Duration(configs.GetViper().Session.IdleTimeout) * time.Second)
	barcode := media.NewBarcodeClientAdapter(configs.GetViper().Media)
	speech := media.NewSpeechClientAdapter(configs.GetViper().Media)

	// Application services
	registry := flows.NewRegistry(flows.Deps{
		Store:    store,
		Validate: validate,
	})
	reports := application.NewReportService(store)
	router, err := application.NewRouter(sessions, registry, reports)
	if err != nil {
		logrus.Fatalf("Failed to build command router: %v", err)
	}
	srv := application.NewDialogueService(sessions, registry, router, barcode, speech)

	// Input adapter
	hdl := httpAdapter.NewWebhookHandler(srv, dbConGorm.Postgres)

	// Idle sessions are also evicted lazily on access; the sweep just keeps
	// the shards from accumulating users who never came back.
	sweeper := cron.New()
	_, err = sweeper.AddFunc(fmt.Sprintf("@every %ds", configs.GetViper().Session.SweepInterval), func() {
		if evicted := sessions.Sweep(time.Now()); evicted > 0 {
			logrus.Infof("Session sweep evicted %d idle sessions", evicted)
		}
	})
	if err != nil {
		logrus.Fatalf("Failed to schedule session sweep: %v", err)
	}
	sweeper.Start()

	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt)
	go func() {
		for range c {
			log.Println("Gracefull shut down ...")
			sweeper.Stop()
			gormDriver.DisconnectPostgres(dbConGorm.Postgres)
			err := app.Shutdown()
			if err != nil {
				log.Println("Error when shutdown server: ", err)
			}
		}
	}()

	app.Get("/health", hdl.HealthCheck)

	webhook := app.Group("/webhook")
	{
		webhook.Post("/message", hdl.HandleWebhook)
	}

	err = app.Listen(":" + configs.GetViper().App.Port)
	if err != nil {
		return err
	}

	logrus.Println("Listerning on port: ", configs.GetViper().App.Port)
	return nil
}
