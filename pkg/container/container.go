package container

import (
	"context"
	"fmt"
	"log"
	"time"

	"payhub-backend/internal/config"
	infraCache "payhub-backend/internal/infrastructure/cache"
	"payhub-backend/internal/infrastructure/database"
	"payhub-backend/internal/infrastructure/queue"
	"payhub-backend/pkg/cache"

	billingHandler "payhub-backend/internal/domains/billing/handler"
	billingService "payhub-backend/internal/domains/billing/service"
	gatewayModel "payhub-backend/internal/domains/gateway/model"
	"payhub-backend/internal/domains/gateway/verifier"

	gatewayRepo "payhub-backend/internal/domains/gateway/repository"
	schemaRepo "payhub-backend/internal/domains/schema/repository"
	schemaService "payhub-backend/internal/domains/schema/service"
	txnHandler "payhub-backend/internal/domains/transaction/handler"
	txnRepo "payhub-backend/internal/domains/transaction/repository"
	txnService "payhub-backend/internal/domains/transaction/service"
	walletHandler "payhub-backend/internal/domains/wallet/handler"
	walletRepo "payhub-backend/internal/domains/wallet/repository"
	walletService "payhub-backend/internal/domains/wallet/service"
	webhookHandler "payhub-backend/internal/domains/webhook/handler"
	webhookRepo "payhub-backend/internal/domains/webhook/repository"
	webhookService "payhub-backend/internal/domains/webhook/service"
)

// ========================================
// CONTAINER STRUCT
// ========================================

// Container is the root of the dependency graph. Everything in here is
// a singleton wired once at startup.
type Container struct {
	// ----------------------------------------
	// Infrastructure
	// ----------------------------------------
	Config     *config.Config
	DB         *database.PostgresDB
	Cache      cache.Cache
	Dispatcher queue.Dispatcher
	Verifiers  *verifier.Registry

	// ----------------------------------------
	// Repositories
	// ----------------------------------------
	GatewayRepo gatewayRepo.GatewayRepoInterface
	SchemaRepo  schemaRepo.SchemaRepoInterface
	LedgerRepo  txnRepo.LedgerRepoInterface
	WalletRepo  walletRepo.WalletRepoInterface
	WebhookRepo webhookRepo.WebhookRepoInterface

	// ----------------------------------------
	// Services
	// ----------------------------------------
	RateResolver  schemaService.RateResolver
	SchemaService schemaService.SchemaService
	PaymentSvc    txnService.PaymentService
	WalletSvc     walletService.WalletService
	BillSvc       billingService.BillService
	Reconciler    webhookService.ReconcilerService

	// ----------------------------------------
	// HTTP handlers
	// ----------------------------------------
	PaymentHandler *txnHandler.PaymentHandler
	WebhookHandler *webhookHandler.WebhookHandler
	BillHandler    *billingHandler.BillHandler
	WalletHandler  *walletHandler.WalletHandler
}

// NewContainer builds the whole dependency graph in order:
// config -> infrastructure -> repositories -> services -> handlers.
func NewContainer() (*Container, error) {
	c := &Container{}

	// ========================================
	// STEP 1: CONFIGURATION
	// ========================================
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	c.Config = cfg
	log.Printf("config loaded (environment: %s)", cfg.App.Environment)

	// ========================================
	// STEP 2: DATABASE
	// ========================================
	dbConfig, err := config.LoadDatabaseConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load database config: %w", err)
	}

	db := database.NewPostgresDB(dbConfig)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := db.Connect(ctx); err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := db.HealthCheck(ctx); err != nil {
		return nil, fmt.Errorf("database health check failed: %w", err)
	}
	c.DB = db
	log.Println("database connected")

	// ========================================
	// STEP 3: CACHE
	// ========================================
	redisCache := infraCache.NewRedisCache(
		cfg.Redis.Host,
		cfg.Redis.Password,
		cfg.Redis.DB,
	)
	if rc, ok := redisCache.(*infraCache.RedisCache); ok {
		// Redis is a soft dependency: lookups fall through to Postgres
		if err := rc.Connect(context.Background()); err != nil {
			log.Printf("redis connection failed (non-critical): %v", err)
		} else {
			log.Println("redis connected")
		}
	}
	c.Cache = redisCache

	// ========================================
	// STEP 4: QUEUE + VERIFIERS
	// ========================================
	c.Dispatcher = queue.NewDispatcher(cfg.Redis.Host)

	if err := c.initVerifiers(); err != nil {
		return nil, fmt.Errorf("failed to init webhook verifiers: %w", err)
	}

	// ========================================
	// STEP 5: REPOSITORIES
	// ========================================
	c.initRepositories()

	// ========================================
	// STEP 6: SERVICES
	// ========================================
	c.initServices()

	// ========================================
	// STEP 7: HANDLERS
	// ========================================
	c.initHandlers()

	log.Println("container initialized")
	return c, nil
}

// initVerifiers registers one verification strategy per gateway.
func (c *Container) initVerifiers() error {
	registry := verifier.NewRegistry()

	registry.Register(gatewayModel.GatewayCashfree, verifier.NewCashfreeVerifier(
		c.Config.Cashfree.WebhookSecret,
		c.Config.Webhook.TimestampSkew,
	))
	registry.Register(gatewayModel.GatewayRazorpay, verifier.NewRazorpayVerifier(
		c.Config.Razorpay.WebhookSecret,
	))

	runpaisa, err := verifier.NewRunpaisaVerifier(
		c.Config.Runpaisa.SharedSecret,
		c.Config.Runpaisa.PublicKeyPEM,
	)
	if err != nil {
		return err
	}
	registry.Register(gatewayModel.GatewayRunpaisa, runpaisa)

	c.Verifiers = registry
	return nil
}

func (c *Container) initRepositories() {
	pool := c.DB.Pool

	c.GatewayRepo = gatewayRepo.NewGatewayRepository(pool, c.Cache)
	c.SchemaRepo = schemaRepo.NewSchemaRepository(pool, c.Cache)
	c.LedgerRepo = txnRepo.NewLedgerRepository(pool)
	c.WalletRepo = walletRepo.NewWalletRepository(pool)
	c.WebhookRepo = webhookRepo.NewWebhookRepository(pool)
}

func (c *Container) initServices() {
	c.RateResolver = schemaService.NewRateResolver(c.SchemaRepo, c.GatewayRepo)
	c.SchemaService = schemaService.NewSchemaService(c.SchemaRepo, c.GatewayRepo)

	c.PaymentSvc = txnService.NewPaymentService(c.LedgerRepo, c.GatewayRepo, c.RateResolver)
	c.WalletSvc = walletService.NewWalletService(c.WalletRepo)

	c.BillSvc = billingService.NewBillService(
		billingService.NewMockBillFetcher(),
		c.Cache,
		c.Config.Bill.CacheTTL,
	)

	c.Reconciler = webhookService.NewReconcilerService(
		c.Verifiers,
		c.WebhookRepo,
		c.LedgerRepo,
		c.WalletRepo,
		c.RateResolver,
		c.BillSvc,
		c.Dispatcher,
	)
}

func (c *Container) initHandlers() {
	c.PaymentHandler = txnHandler.NewPaymentHandler(c.PaymentSvc)
	c.WebhookHandler = webhookHandler.NewWebhookHandler(c.Reconciler)
	c.BillHandler = billingHandler.NewBillHandler(c.BillSvc)
	c.WalletHandler = walletHandler.NewWalletHandler(c.WalletSvc)
}

// Cleanup releases connections during graceful shutdown.
func (c *Container) Cleanup() {
	if c.DB != nil && c.DB.Pool != nil {
		c.DB.Pool.Close()
		log.Println("database connections closed")
	}

	if c.Cache != nil {
		if rc, ok := c.Cache.(*infraCache.RedisCache); ok {
			if err := rc.Close(); err != nil {
				log.Printf("failed to close redis: %v", err)
			}
		}
	}
}
