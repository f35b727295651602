package main

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gorilla/mux"
	_ "github.com/lib/pq"
	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"

	"github.com/Everton617/CadCustomer/internal/config"
	"github.com/Everton617/CadCustomer/internal/crypto"
	"github.com/Everton617/CadCustomer/internal/handler"
	"github.com/Everton617/CadCustomer/internal/repository"
	"github.com/Everton617/CadCustomer/internal/service"
)

func main() {
	logger := logrus.New()
	// Уровень логирования (Debug для разработки, Info для продакшена)
	logger.SetLevel(logrus.DebugLevel)
	logger.SetFormatter(&logrus.JSONFormatter{})

	// Загрузка конфигурации приложения
	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Fatalf("Ошибка загрузки конфигурации: %v", err)
	}

	// Подключение к PostgreSQL
	db, err := sql.Open("postgres", fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		cfg.DBHost, cfg.DBPort, cfg.DBUser, cfg.DBPassword, cfg.DBName,
	))
	if err != nil {
		logger.Fatalf("Ошибка подключения к базе данных: %v", err)
	}
	defer db.Close()

	// Проверка соединения с БД
	if err := db.Ping(); err != nil {
		logger.Fatalf("Ошибка проверки соединения с БД: %v", err)
	}

	// Инициализация PGP для шифрования данных карт
	pgpManager, err := crypto.NewPGPManager(cfg.PGPKeyPath)
	if err != nil {
		logger.Fatalf("Ошибка инициализации PGP: %v", err)
	}

	pgpKey := pgpManager.GetEntity()
	hmacKey := []byte(os.Getenv("HMAC_SECRET"))
	if len(hmacKey) == 0 {
		logger.Fatal("Переменная окружения HMAC_SECRET не установлена")
	}
	if len(hmacKey) < 32 {
		logger.Fatal("HMAC ключ должен быть длиной минимум 32 байта")
	}

	// Инициализация репозиториев
	logger.Info("Инициализация репозиториев...")
	userRepo := repository.NewUserRepository(db, logger)
	customerRepo := repository.NewCustomerRepository(db, logger)
	cardRepo := repository.NewCardRepository(db, logger)
	emailSender := service.NewEmailSender(logger)

	// Инициализация сервисов
	logger.Info("Инициализация сервисов...")
	authService := service.NewAuthService(userRepo, cfg.JWTSecret, cfg.TokenExpiry, logger)
	cardService := service.NewCardService(customerRepo, cardRepo, emailSender, pgpKey, hmacKey, logger)
	customerService := service.NewCustomerService(userRepo, customerRepo, cardRepo, cardService, emailSender, logger)
	viacepClient := service.NewViaCEPClient(cfg.ViaCEPURL, logger)

	// Инициализация HTTP обработчиков
	logger.Info("Инициализация обработчиков API...")
	authHandler := handler.NewAuthHandler(authService, logger)
	customerHandler := handler.NewCustomerHandler(customerService, logger)
	cardHandler := handler.NewCardHandler(cardService, customerService, logger)
	addressHandler := handler.NewAddressHandler(viacepClient, logger)

	// Настройка маршрутизатора
	router := mux.NewRouter()

	// 1. Публичные маршруты для аутентификации
	publicRouter := router.PathPrefix("/auth").Subrouter()
	authHandler.RegisterRoutes(publicRouter) // Регистрация /signup и /signin

	// 2. Защищенные API маршруты (требуется JWT токен)
	apiRouter := router.PathPrefix("/api").Subrouter()
	apiRouter.Use(handler.AuthMiddleware(authService, logger))

	// Маршруты для работы с клиентами
	customerRouter := apiRouter.PathPrefix("/customers").Subrouter()
	customerHandler.RegisterRoutes(customerRouter)

	// Маршруты для работы с картами
	cardRouter := apiRouter.PathPrefix("/cards").Subrouter()
	cardHandler.RegisterRoutes(cardRouter)

	// Маршрут поиска адреса по CEP
	addressRouter := apiRouter.PathPrefix("/address").Subrouter()
	addressHandler.RegisterRoutes(addressRouter)

	// Настройка планировщика уведомлений об истекающих картах
	logger.Info("Настройка планировщика уведомлений...")
	c := cron.New()
	_, err = c.AddFunc("0 */12 * * *", func() {
		logger.Info("Запуск проверки истекающих карт")
		if err := cardService.NotifyExpiring(context.Background()); err != nil {
			logger.WithError(err).Error("Ошибка проверки истекающих карт")
		} else {
			logger.Info("Проверка истекающих карт завершена успешно")
		}
	})
	if err != nil {
		logger.Fatalf("Ошибка настройки планировщика: %v", err)
	}
	c.Start()

	// Настройка и запуск HTTP сервера
	server := &http.Server{
		Addr:    ":8080",
		Handler: router,
	}

	go func() {
		logger.Info("Запуск сервера на порту :8080")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatalf("Ошибка сервера: %v", err)
		}
	}()

	// Ожидание сигналов для graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Завершение работы сервера...")
	if err := server.Shutdown(context.Background()); err != nil {
		logger.Errorf("Ошибка при завершении работы сервера: %v", err)
	}
	logger.Info("Сервер успешно остановлен")
}
