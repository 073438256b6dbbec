package main

import (
	"context"
	"errors"
	stdlog "log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"gostore/config"
	_ "gostore/docs"
	"gostore/internal/pkg/cache"
	"gostore/internal/pkg/database"
	"gostore/internal/pkg/logger"
	"gostore/internal/pkg/metrics"
	"gostore/internal/pkg/token"

	"gostore/internal/api/customer"
	"gostore/internal/api/exchange"
	"gostore/internal/api/faq"
	"gostore/internal/api/item"
	"gostore/internal/api/location"
	"gostore/internal/api/router"
	"gostore/internal/api/staff"
	"gostore/internal/api/stock"
	"gostore/internal/api/warranty"
	"gostore/internal/repository/customerrepo"
	"gostore/internal/repository/exchangerepo"
	"gostore/internal/repository/faqrepo"
	"gostore/internal/repository/itemrepo"
	"gostore/internal/repository/locationrepo"
	"gostore/internal/repository/staffrepo"
	"gostore/internal/repository/stockrepo"
	"gostore/internal/repository/txmanager"
	"gostore/internal/repository/warrantyrepo"
	"gostore/internal/service/customerservice"
	"gostore/internal/service/exchangeservice"
	"gostore/internal/service/faqservice"
	"gostore/internal/service/itemservice"
	"gostore/internal/service/locationservice"
	"gostore/internal/service/staffservice"
	"gostore/internal/service/stockservice"
	"gostore/internal/service/warrantyservice"
)

// @title GoStore API
// @version 1.0
// @description Trocas, estoque e cadastros das lojas GoStore.
// @BasePath /v1
// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name Authorization
func main() {
	stdlog.Println("⚡ Inicializando serviço GoStore...")
	if err := godotenv.Load(); err != nil {
		stdlog.Println("⚠️ Aviso: arquivo .env não encontrado. Carregando configs apenas do ambiente do sistema.")
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		stdlog.Fatalf("Configuração inválida: %v", err)
	}
	log := logger.NewLogger(cfg.LogLevel)
	log.Info("Configurações carregadas.", map[string]interface{}{"env": cfg.Environment, "square_locations": len(cfg.SquareLocations)})

	// 1. Infraestrutura

	db, err := database.NewPostgresDB(cfg.DatabaseURL)
	if err != nil {
		log.Fatal("Falha ao conectar ao banco de dados.", err)
	}
	defer db.Close()
	log.Info("Conexão PostgreSQL estabelecida.", nil)

	var cacheClient cache.Client
	redisClient, err := cache.NewRedisClient(cfg.RedisAddr, cfg.CacheTimeout)
	if err != nil {
		log.Warn("Redis indisponível, usando cache em memória.", map[string]interface{}{"addr": cfg.RedisAddr, "error": err.Error()})
		_ = redisClient.Close()
		cacheClient = cache.NewMemoryClient()
	} else {
		defer redisClient.Close()
		cacheClient = redisClient
		log.Info("Conexão Redis estabelecida.", nil)
	}

	recorder := metrics.NewPrometheusRecorder("gostore")
	tokenSvc := token.NewService(cfg.JWTSecretKey, cfg.TokenExpiry)

	// 2. Repositórios

	customerRepo := customerrepo.NewCustomerRepository(db, cfg.DBTimeout, log)
	itemRepo := itemrepo.NewItemRepository(db, cacheClient, cfg.DBTimeout, cfg.CacheTTL, log)
	staffRepo := staffrepo.NewStaffRepository(db, cfg.DBTimeout, log)
	locationRepo := locationrepo.NewLocationRepository(db, cacheClient, cfg.DBTimeout, cfg.CacheTTL, log)
	stockRepo := stockrepo.NewStockRepository(db, cfg.DBTimeout, log)
	exchangeRepo := exchangerepo.NewExchangeRepository(db, cfg.DBTimeout, log)
	warrantyTypeRepo := warrantyrepo.NewTypeRepository(db, cfg.DBTimeout, log)
	warrantyRepo := warrantyrepo.NewRepository(db, cfg.DBTimeout, log)
	faqRepo := faqrepo.NewFAQRepository(db, cfg.DBTimeout, log)
	log.Debug("Repositórios inicializados.", nil)

	// 3. Serviços

	txManager := txmanager.NewManager(db, cfg.DBTimeout, log)
	exchangeSvc := exchangeservice.NewService(exchangeRepo, txManager, exchangeservice.References{
		Customers: customerRepo,
		Items:     itemRepo,
		Staff:     staffRepo,
	}, recorder, log)
	stockSvc := stockservice.NewService(stockRepo, recorder, log)
	itemSvc := itemservice.NewService(itemRepo, log)
	locationSvc := locationservice.NewService(locationRepo, cfg.SquareLocations, log)
	staffSvc := staffservice.NewService(staffRepo, tokenSvc, log)
	customerSvc := customerservice.NewService(customerRepo, log)
	warrantySvc := warrantyservice.NewService(warrantyTypeRepo, warrantyRepo, customerRepo, itemRepo, log)
	faqSvc := faqservice.NewService(faqRepo, log)
	log.Debug("Serviços inicializados.", nil)

	// 4. Roteador e servidor

	r := router.NewRouter(router.Handlers{
		Exchange: exchange.NewHandler(exchangeSvc, log),
		Stock:    stock.NewHandler(stockSvc, log),
		Item:     item.NewHandler(itemSvc, log),
		Location: location.NewHandler(locationSvc, log),
		Staff:    staff.NewHandler(staffSvc, log),
		Customer: customer.NewHandler(customerSvc, log),
		Warranty: warranty.NewHandler(warrantySvc, log),
		FAQ:      faq.NewHandler(faqSvc, log),
	}, router.Options{
		TokenService:    tokenSvc,
		RateLimitCache:  cacheClient,
		RateLimitMax:    cfg.RateLimitMaxRequests,
		RateLimitPeriod: cfg.RateLimitPeriod,
		Metrics:         recorder.Handler(),
		Logger:          log,
	})

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info("Servidor GoStore ouvindo na porta", map[string]interface{}{"port": cfg.Port})
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Servidor falhou.", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	<-quit
	log.Info("Sinal de encerramento recebido. Desligando servidor...", nil)

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Error("Desligamento do servidor forçado.", err)
	}

	log.Info("Servidor encerrado com sucesso.", nil)
}
