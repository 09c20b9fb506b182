package main

import (
	"log"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rabbitmq/amqp091-go"
	"github.com/redis/go-redis/v9"

	"github.com/YxungHermes/LVR-HM-sub001/internal/infra/database"
	"github.com/YxungHermes/LVR-HM-sub001/internal/infra/http/handlers"
	"github.com/YxungHermes/LVR-HM-sub001/internal/infra/http/middleware"
	"github.com/YxungHermes/LVR-HM-sub001/internal/infra/integration/airtable"
	"github.com/YxungHermes/LVR-HM-sub001/internal/infra/integration/payments"
	"github.com/YxungHermes/LVR-HM-sub001/internal/infra/integration/turnstile"
	"github.com/YxungHermes/LVR-HM-sub001/internal/infra/mail"
	"github.com/YxungHermes/LVR-HM-sub001/internal/infra/queue"
	"github.com/YxungHermes/LVR-HM-sub001/internal/usecase"
)

func main() {
	godotenv.Load()

	// 1. Database (required)
	db, err := database.NewDBConnection(os.Getenv("DATABASE_URL"))
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	// 2. Optional infrastructure: Redis (rate limits), RabbitMQ (lead
	// event fan-out). Both degrade to local behavior when absent.
	var rdb *redis.Client
	if url := os.Getenv("REDIS_URL"); url != "" {
		opts, err := redis.ParseURL(url)
		if err != nil {
			log.Fatalf("redis: %v", err)
		}
		rdb = redis.NewClient(opts)
	}

	var rabbitMQ *queue.RabbitMQ
	var producer queue.QueueProducerInterface
	if url := os.Getenv("RABBITMQ_URL"); url != "" {
		rabbitMQ, err = queue.NewRabbitMQ(url)
		if err != nil {
			log.Fatalf("rabbitmq: %v", err)
		}
		defer rabbitMQ.Conn.Close()
		defer rabbitMQ.Ch.Close()
		producer = queue.NewProducer(rabbitMQ.Conn, rabbitMQ.Ch)
	} else {
		log.Println("RABBITMQ_URL not set, lead events will not be published")
	}

	// 3. Repositories
	leadRepo := database.NewLeadRepository(db)
	activityRepo := database.NewActivityRepository(db)
	noteRepo := database.NewNoteRepository(db)
	templateRepo := database.NewTemplateRepository(db)
	eventRepo := database.NewProcessedEventRepository(db)

	// 4. Gateways and adapters
	gateway := payments.NewClient(os.Getenv("PAYMENTS_API_KEY"), os.Getenv("PAYMENTS_API_URL"))
	captcha := turnstile.NewClient(os.Getenv("TURNSTILE_SECRET_KEY"))

	var transport usecase.EmailTransport
	if host := os.Getenv("MAIL_HOST"); host != "" {
		port, _ := strconv.Atoi(os.Getenv("MAIL_PORT"))
		if port == 0 {
			port = 587
		}
		transport = mail.NewEmailSender(
			host, port, os.Getenv("MAIL_USER"), os.Getenv("MAIL_PASS"), os.Getenv("MAIL_FROM"),
		)
	} else {
		log.Println("MAIL_HOST not set, outbound email disabled")
	}

	notifier := usecase.NewNotifier(templateRepo, activityRepo, transport, os.Getenv("APP_ENV"))

	// 5. Airtable mirror worker (consumes the lead event queue)
	if rabbitMQ != nil {
		mirror := airtable.NewClient(
			os.Getenv("AIRTABLE_API_KEY"), os.Getenv("AIRTABLE_BASE_ID"), os.Getenv("AIRTABLE_TABLE"),
		)
		if mirror.Configured() {
			worker := queue.NewWorker(rabbitMQ.Ch, mirror)
			go worker.Start(queue.QueueName)
		} else {
			log.Println("Airtable not configured, lead event mirror disabled")
		}
	}

	// 6. Use cases
	inquiryUC := usecase.NewCreateInquiryUseCase(leadRepo, activityRepo, notifier, producer)
	checkoutUC := usecase.NewCreateCheckoutUseCase(leadRepo, activityRepo, gateway, producer, os.Getenv("SITE_URL"))
	completePaymentUC := usecase.NewCompletePaymentUseCase(leadRepo, activityRepo, eventRepo, notifier, producer)
	sweepUC := usecase.NewFollowUpSweepUseCase(leadRepo, notifier, producer)

	// 7. Handlers
	allowedOrigins := splitCSV(os.Getenv("ALLOWED_ORIGINS"))
	inquiryHandler := handlers.NewInquiryHandler(inquiryUC, captcha)
	checkoutHandler := handlers.NewCheckoutHandler(checkoutUC, allowedOrigins)
	webhookHandler := handlers.NewWebhookHandler(completePaymentUC, os.Getenv("PAYMENTS_WEBHOOK_SECRET"))
	cronHandler := handlers.NewCronHandler(sweepUC)
	leadHandler := handlers.NewLeadHandler(leadRepo, activityRepo, noteRepo)

	var rabbitConn *amqp091.Connection
	if rabbitMQ != nil {
		rabbitConn = rabbitMQ.Conn
	}
	healthHandler := handlers.NewHealthHandler(db, rabbitConn)

	inquiryLimit := middleware.NewLimiter(rdb, "inquiry", 5, 15*time.Minute)
	checkoutLimit := middleware.NewLimiter(rdb, "checkout", 5, time.Minute)

	// 8. Router
	r := chi.NewRouter()
	r.Use(chimiddleware.Logger)
	r.Use(middleware.Metrics)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Content-Type", "Authorization", "X-Staff-Password"},
	}))

	r.With(middleware.RateLimit(inquiryLimit)).Post("/inquiry", inquiryHandler.Handle)
	r.With(middleware.RateLimit(checkoutLimit)).Post("/checkout/create", checkoutHandler.Handle)

	// The processor signs its own requests; this route must stay
	// outside every other auth gate.
	r.Post("/webhook/payment", webhookHandler.Handle)

	r.With(middleware.CronGate(os.Getenv("CRON_SECRET"))).Get("/cron/follow-ups", cronHandler.HandleFollowUps)

	r.Route("/leads", func(r chi.Router) {
		r.Use(middleware.StaffGate(os.Getenv("STAFF_PASSWORD")))
		r.Get("/", leadHandler.List)
		r.Get("/{id}", leadHandler.Get)
		r.Patch("/{id}", leadHandler.Patch)
		r.Delete("/{id}", leadHandler.Delete)
		r.Get("/{id}/notes", leadHandler.ListNotes)
		r.Post("/{id}/notes", leadHandler.CreateNote)
		r.Get("/{id}/activities", leadHandler.ListActivities)
	})

	r.Get("/health", healthHandler.Handle)
	r.Handle("/metrics", promhttp.Handler())

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	log.Printf("studio API listening on :%s", port)
	if err := http.ListenAndServe(":"+port, r); err != nil {
		log.Fatal(err)
	}
}

func splitCSV(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
