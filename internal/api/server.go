package api

import (
	"context"
	"log"

	"github.com/chatterly/chat_service/config"
	"github.com/chatterly/chat_service/infra/queue"
	"github.com/chatterly/chat_service/internal/api/rest/handlers"
	"github.com/chatterly/chat_service/internal/domain"
	"github.com/chatterly/chat_service/internal/helper"
	"github.com/chatterly/chat_service/internal/repository"
	"github.com/chatterly/chat_service/internal/services"
	"github.com/chatterly/chat_service/pkg/cloudinary"
	"github.com/chatterly/chat_service/pkg/mailer"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func StartServer(cfg config.Config) {
	app := fiber.New()

	// ---------- CORS ----------
	app.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.BaseURL,
		AllowHeaders:     "Content-Type, Accept, Authorization",
		AllowMethods:     "GET, POST, PUT, PATCH, DELETE, OPTIONS",
		AllowCredentials: true,
	}))

	// ---------- DB ----------
	db, err := gorm.Open(postgres.New(postgres.Config{
		DSN:                  cfg.DatabaseDSN,
		PreferSimpleProtocol: true,
	}), &gorm.Config{})
	if err != nil {
		log.Fatalf("database connection error: %v", err)
	}
	log.Println("database connected")

	// ---------- MIGRATION (guarded by advisory lock) ----------
	const migrateLockID int64 = 20260829

	if err := db.Exec("SELECT pg_advisory_lock(?)", migrateLockID).Error; err != nil {
		log.Fatalf("migration lock error: %v", err)
	}
	defer func() {
		_ = db.Exec("SELECT pg_advisory_unlock(?)", migrateLockID).Error
	}()

	if err := db.AutoMigrate(
		&domain.User{},
		&domain.FriendRequest{},
		&domain.Chat{},
		&domain.Message{},
	); err != nil {
		log.Fatalf("migration error: %v", err)
	}
	log.Println("migration successful")

	// ---------- Infra ----------
	kafkaProducer := queue.NewProducer(
		cfg.KafkaBroker,
		cfg.KafkaTopic,
		cfg.KafkaUsername,
		cfg.KafkaPassword,
	)
	cld, err := cloudinary.New(cfg.CloudinaryUrl)
	if err != nil {
		log.Fatalf("cloudinary init error: %v", err)
	}
	up := cloudinary.NewCloudinaryUploader(cld)
	smtpMailer := mailer.NewSMTPMailer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPassword)

	authHelper := helper.SetupAuth(cfg.AccessSecret, cfg.AccessTokenTTL, cfg.RefreshTokenTTL)

	// ---------- Repositories ----------
	userRepo := repository.NewUserRepository(db)
	requestRepo := repository.NewFriendRequestRepository(db)
	chatRepo := repository.NewChatRepository(db)
	msgRepo := repository.NewMessageRepository(db)

	// ---------- Services ----------
	authSvc := services.NewAuthService(
		userRepo,
		smtpMailer,
		authHelper,
		cfg.ResetTokenTTL,
		cfg.MailFrom,
		cfg.MailFromName,
		cfg.ResetBaseURL,
	)
	userSvc := services.NewUserService(userRepo, requestRepo, chatRepo, kafkaProducer)
	chatSvc := services.NewChatService(chatRepo, msgRepo, userRepo, kafkaProducer)

	// ---------- Handlers ----------
	handlers.NewAuthHandler(authSvc).SetupRoutes(app)
	handlers.NewUserHandler(userSvc, authHelper).SetupRoutes(app)
	handlers.NewChatHandler(chatSvc, authHelper).SetupRoutes(app)
	handlers.NewUploadHandler(up, userSvc, authHelper).SetupRoutes(app)

	// ---------- Event log worker ----------
	if cfg.KafkaGroupID != "" {
		consumer := queue.NewKafkaConsumer(
			cfg.KafkaBroker,
			cfg.KafkaTopic,
			cfg.KafkaGroupID,
			queue.NewEventLogger(),
		)
		go consumer.Listen(context.Background())
	}

	// ---------- Health ----------
	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	// ---------- Listen ----------
	addr := cfg.ServerPort
	log.Println("listening on", addr)
	log.Fatal(app.Listen(addr))
}
