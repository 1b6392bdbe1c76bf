package main

import (
	"context"
	"errors"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/appetiteclub/apt"
	"github.com/appetiteclub/apt/middleware"

	"github.com/tilldesk/pos/internal/checkout"
	"github.com/tilldesk/pos/internal/mongo"
	"github.com/tilldesk/pos/pkg"
)

const (
	appNamespace = "POS"
	appName      = "pos"
	appVersion   = "0.1.0"
)

func main() {
	config, err := apt.LoadConfig(appNamespace, os.Args[1:])
	if err != nil {
		log.Fatalf("%s(%s) cannot setup: %v", appName, appVersion, err)
	}

	logLevel, _ := config.GetString("log.level")
	logger := apt.NewLogger(logLevel)

	ctx, stop := signal.NotifyContext(
		context.Background(),
		os.Interrupt,
		syscall.SIGINT,
		syscall.SIGTERM,
		syscall.SIGQUIT,
	)
	defer stop()

	seedCtx, cancelSeeds := context.WithCancel(ctx)
	defer cancelSeeds()

	baseRepo := mongo.NewBaseRepo(config, logger)
	err = baseRepo.Start(ctx)
	if err != nil {
		log.Fatalf("%s(%s) cannot start base repository: %v", appName, appVersion, err)
	}

	db := baseRepo.GetDatabase()
	if db == nil {
		log.Fatalf("%s(%s) cannot initialize repository database: %v", appName, appVersion, errors.New("repository database is nil"))
	}

	ticketRepo := mongo.NewTicketRepo(db)
	customerRepo := mongo.NewCustomerRepo(db)
	historyRepo := mongo.NewLoyaltyHistoryRepo(db)

	natsURL := config.GetStringOrDef("nats.url", "nats://localhost:4222")

	pub, err := pkg.NewNATSPublisher(natsURL)
	if err != nil {
		log.Fatalf("%s(%s) cannot connect to NATS publisher: %v", appName, appVersion, err)
	}

	sub, err := pkg.NewNATSSubscriber(natsURL)
	if err != nil {
		log.Fatalf("%s(%s) cannot connect to NATS subscriber: %v", appName, appVersion, err)
	}

	sequence := checkout.NewSequence(ticketRepo, customerRepo)
	directory := checkout.NewDirectory(customerRepo, sequence, logger)
	ledger := checkout.NewLedger(customerRepo, historyRepo, logger)

	retrySpec := config.GetStringOrDef("ledger.retry.spec", "@every 1m")
	reconciler, err := checkout.NewReconciler(ledger, retrySpec, logger)
	if err != nil {
		log.Fatalf("%s(%s) cannot create ledger reconciler: %v", appName, appVersion, err)
	}

	terminalUser := config.GetStringOrDef("terminal.user", "1234")
	finalizer := checkout.NewFinalizer(sequence, ticketRepo, ledger, reconciler, pub, terminalUser, logger)

	lifecycle := checkout.NewLifecycle()

	// Card terminal collaborator for capture requests
	paymentURL, _ := config.GetString("services.payment.url")
	capturer := checkout.NewCaptureClient(paymentURL, logger)

	// Capture completions come back asynchronously over NATS
	paymentSub := checkout.NewPaymentResultSubscriber(sub, lifecycle, logger)

	publisherLifecycle := apt.LifecycleHooks{
		OnStop: func(context.Context) error {
			return pub.Close()
		},
	}

	subLifecycle := apt.LifecycleHooks{
		OnStop: func(context.Context) error {
			return sub.Close()
		},
	}

	reconcilerLifecycle := apt.LifecycleHooks{
		OnStart: reconciler.Start,
		OnStop:  reconciler.Stop,
	}

	hd := checkout.HandlerDeps{
		Lifecycle: lifecycle,
		Directory: directory,
		Finalizer: finalizer,
		Capturer:  capturer,
	}

	handler := checkout.NewHandler(hd, config, logger)

	// Setup demo seeding if enabled
	demoEnabled, _ := config.GetString("seeding.demo")
	var seedHooks apt.LifecycleHooks
	if demoEnabled == "true" {
		logger.Info("Demo seeding enabled for pos service")
		seedHooks = apt.LifecycleHooks{
			OnStart: checkout.DemoSeedingFunc(seedCtx, customerRepo, logger),
			OnStop: func(context.Context) error {
				cancelSeeds()
				return nil
			},
		}
	}

	stack := middleware.DefaultStack(middleware.StackOptions{
		Logger:      logger,
		DisableCORS: true, // Till UI is served from the same host
	})
	stack = append(stack, middleware.InternalOnly())

	lifecycles := []interface{}{
		apt.LifecycleHooks{OnStop: baseRepo.Stop},
		paymentSub,
		publisherLifecycle,
		subLifecycle,
		reconcilerLifecycle,
	}
	if demoEnabled == "true" {
		lifecycles = append(lifecycles, seedHooks)
	}

	options := []apt.Option{
		apt.WithConfig(config),
		apt.WithLogger(logger),
		apt.WithHTTPMiddleware(stack...),
		apt.WithHTTPServerModules("web.port", handler),
		apt.WithLifecycle(lifecycles...),
		apt.WithHealthChecks(appName),
	}

	ms := apt.NewMicro(options...)
	logger.Infof("Starting %s(%s)", appName, appVersion)

	err = ms.Run(ctx)
	if err != nil {
		_ = baseRepo.Stop(context.Background())
		log.Fatalf("%s(%s) stopped: %v", appName, appVersion, err)
	}

	logger.Infof("%s(%s) stopped", appName, appVersion)
}
