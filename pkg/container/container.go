package container

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/hibiken/asynq"

	"library-backend/internal/config"
	infraCache "library-backend/internal/infrastructure/cache"
	"library-backend/internal/infrastructure/database"
	"library-backend/internal/infrastructure/scheduling"
	"library-backend/internal/infrastructure/storage"
	"library-backend/pkg/cache"
	"library-backend/pkg/jwt"

	bookHandler "library-backend/internal/domains/book/handler"
	bookRepo "library-backend/internal/domains/book/repository"
	bookService "library-backend/internal/domains/book/service"
	memberHandler "library-backend/internal/domains/member/handler"
	memberRepo "library-backend/internal/domains/member/repository"
	memberService "library-backend/internal/domains/member/service"
	professorHandler "library-backend/internal/domains/professor/handler"
	professorRepo "library-backend/internal/domains/professor/repository"
	professorService "library-backend/internal/domains/professor/service"
	ratingHandler "library-backend/internal/domains/rating/handler"
	ratingRepo "library-backend/internal/domains/rating/repository"
	ratingService "library-backend/internal/domains/rating/service"
	txnHandler "library-backend/internal/domains/transaction/handler"
	txnRepo "library-backend/internal/domains/transaction/repository"
	txnService "library-backend/internal/domains/transaction/service"
	wishlistHandler "library-backend/internal/domains/wishlist/handler"
	wishlistRepo "library-backend/internal/domains/wishlist/repository"
	wishlistService "library-backend/internal/domains/wishlist/service"
)

// ========================================
// CONTAINER STRUCT
// ========================================

// Container holds every dependency of the application and is the root
// of the dependency graph. All components are singletons.
type Container struct {
	// Infrastructure layer, shared across all domains
	Config      *config.Config
	DB          *database.PostgresDB
	Cache       cache.Cache
	Invalidator *infraCache.ViewInvalidator
	JWTManager  *jwt.Manager
	Storage     *storage.MinIOStorage
	Images      *storage.ImageProcessor
	Scheduler   *scheduling.Client
	AsynqClient *asynq.Client

	// Repository layer
	BookRepo        bookRepo.Repository
	MemberRepo      memberRepo.Repository
	TransactionRepo txnRepo.Repository
	WishlistRepo    wishlistRepo.Repository
	RatingRepo      ratingRepo.Repository
	ProfessorRepo   professorRepo.Repository

	// Service layer
	BookService        bookService.Service
	MemberService      memberService.Service
	TransactionService txnService.Service
	WishlistService    wishlistService.Service
	RatingService      ratingService.Service
	ProfessorService   professorService.Service

	// Handler layer
	BookHandler        *bookHandler.BookHandler
	MemberHandler      *memberHandler.MemberHandler
	TransactionHandler *txnHandler.TransactionHandler
	WishlistHandler    *wishlistHandler.WishlistHandler
	RatingHandler      *ratingHandler.RatingHandler
	ProfessorHandler   *professorHandler.ProfessorHandler
}

// ========================================
// CONSTRUCTOR: BUILD CONTAINER
// ========================================

// NewContainer creates and initializes the whole dependency graph.
// Initialization order matters: config, then infrastructure, then
// repositories, services and handlers.
func NewContainer() (*Container, error) {
	log.Println("🔧 Initializing DI Container...")

	c := &Container{}

	// Step 1: configuration
	log.Println("📋 Loading configuration...")

	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	c.Config = cfg
	log.Printf("✅ Config loaded (Environment: %s)", cfg.App.Environment)

	// Step 2: database
	log.Println("🗄️  Connecting to PostgreSQL...")

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

	if err := db.HealthCheck(context.Background()); err != nil {
		return nil, fmt.Errorf("database health check failed: %w", err)
	}

	c.DB = db
	log.Println("✅ Database connected")

	// Step 3: cache
	log.Println("🔴 Connecting to Redis...")

	redisCache := infraCache.NewRedisCache(
		cfg.Redis.Host,
		cfg.Redis.Password,
		cfg.Redis.DB,
	)

	if err := redisCache.Connect(context.Background()); err != nil {
		// Redis failure is not critical: views just stop being cached
		log.Printf("⚠️  Redis connection failed (non-critical): %v", err)
	} else {
		log.Println("✅ Redis connected")
	}

	c.Cache = redisCache
	c.Invalidator = infraCache.NewViewInvalidator(c.Cache)
	c.JWTManager = jwt.NewManager(cfg.JWT.Secret)

	// Step 4: object storage and image pipeline
	log.Println("🪣 Connecting to MinIO...")

	minioStorage, err := storage.NewMinIOStorage(cfg.MinIO)
	if err != nil {
		// Cover uploads fail cleanly without storage; everything else works
		log.Printf("⚠️  MinIO connection failed (non-critical): %v", err)
	} else {
		c.Storage = minioStorage
		log.Println("✅ MinIO connected")
	}
	c.Images = storage.NewImageProcessor()

	// Step 5: outbound scheduling client and task queue
	c.Scheduler = scheduling.NewClient(cfg.Calendly)
	c.AsynqClient = asynq.NewClient(asynq.RedisClientOpt{
		Addr:     cfg.Redis.Host,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})

	// Step 6: repositories
	log.Println("📦 Initializing repositories...")
	c.initRepositories()
	log.Println("✅ Repositories initialized")

	// Step 7: services
	log.Println("⚙️  Initializing services...")
	c.initServices()
	log.Println("✅ Services initialized")

	// Step 8: handlers
	log.Println("🎯 Initializing handlers...")
	c.initHandlers()
	log.Println("✅ Handlers initialized")

	log.Println("🎉 DI Container initialized successfully")
	return c, nil
}

// ========================================
// PRIVATE INITIALIZATION METHODS
// ========================================

func (c *Container) initRepositories() {
	pool := c.DB.Pool

	c.BookRepo = bookRepo.NewPostgresRepository(pool)
	c.MemberRepo = memberRepo.NewPostgresRepository(pool)

	// The transaction repository carries the book repository so the
	// compound Issue/Return mutations can join one database transaction
	c.TransactionRepo = txnRepo.NewPostgresRepository(pool, c.BookRepo)

	c.WishlistRepo = wishlistRepo.NewPostgresRepository(pool)
	c.RatingRepo = ratingRepo.NewPostgresRepository(pool)
	c.ProfessorRepo = professorRepo.NewPostgresRepository(pool)
}

func (c *Container) initServices() {
	c.BookService = bookService.NewBookService(
		c.BookRepo,
		c.Cache,
		storageOrNil(c.Storage),
		c.Images,
		c.AsynqClient,
		c.Invalidator,
	)

	c.MemberService = memberService.NewMemberService(c.MemberRepo, c.JWTManager, imageStorageOrNil(c.Storage))

	c.TransactionService = txnService.NewLedgerService(
		c.TransactionRepo,
		c.BookRepo, // cross-domain: availability check at request time
		c.Invalidator,
	)

	c.WishlistService = wishlistService.NewWishlistService(c.WishlistRepo)

	c.RatingService = ratingService.NewRatingService(
		c.RatingRepo,
		c.BookRepo, // cross-domain: mean write-back to the catalog row
		c.Invalidator,
	)

	c.ProfessorService = professorService.NewProfessorService(c.ProfessorRepo, c.Scheduler)
}

func (c *Container) initHandlers() {
	c.BookHandler = bookHandler.NewBookHandler(c.BookService)
	c.MemberHandler = memberHandler.NewMemberHandler(c.MemberService)
	c.TransactionHandler = txnHandler.NewTransactionHandler(c.TransactionService)
	c.WishlistHandler = wishlistHandler.NewWishlistHandler(c.WishlistService)
	c.RatingHandler = ratingHandler.NewRatingHandler(c.RatingService)
	c.ProfessorHandler = professorHandler.NewProfessorHandler(c.ProfessorService)
}

// storageOrNil keeps the service's nil check honest when MinIO is down:
// a typed nil pointer inside a non-nil interface would defeat it.
func storageOrNil(s *storage.MinIOStorage) bookService.CoverStorage {
	if s == nil {
		return nil
	}
	return s
}

func imageStorageOrNil(s *storage.MinIOStorage) memberService.ImageStorage {
	if s == nil {
		return nil
	}
	return s
}

// ========================================
// CLEANUP
// ========================================

// Cleanup releases container resources during graceful shutdown
func (c *Container) Cleanup() {
	log.Println("🧹 Cleaning up container resources...")

	if c.AsynqClient != nil {
		if err := c.AsynqClient.Close(); err != nil {
			log.Printf("⚠️  Failed to close task queue client: %v", err)
		}
	}

	if c.DB != nil && c.DB.Pool != nil {
		c.DB.Pool.Close()
		log.Println("✅ Database connections closed")
	}

	if c.Cache != nil {
		if rc, ok := c.Cache.(*infraCache.RedisCache); ok {
			if err := rc.Close(); err != nil {
				log.Printf("⚠️  Failed to close Redis: %v", err)
			} else {
				log.Println("✅ Redis connections closed")
			}
		}
	}

	log.Println("✅ Container cleanup completed")
}
