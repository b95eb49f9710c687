package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/lib/pq"
	"github.com/redis/go-redis/v9"

	"github.com/arogyahq/care-platform/internal/adapters/cache"
	"github.com/arogyahq/care-platform/internal/adapters/handler"
	"github.com/arogyahq/care-platform/internal/adapters/messaging"
	"github.com/arogyahq/care-platform/internal/adapters/middleware"
	"github.com/arogyahq/care-platform/internal/adapters/repository"
	"github.com/arogyahq/care-platform/internal/config"
	"github.com/arogyahq/care-platform/internal/core/services"
)

func main() {
	cfg := config.Load()

	db, err := sql.Open("postgres", cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer db.Close()

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	if err := db.PingContext(ctx); err != nil {
		cancel()
		log.Fatalf("Failed to ping database: %v", err)
	}
	cancel()
	log.Println("Connected to PostgreSQL")

	if err := runMigrations(db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddress,
		Password: cfg.RedisPassword,
	})
	defer redisClient.Close()

	ctx, cancel = context.WithTimeout(context.Background(), 5*time.Second)
	if err := redisClient.Ping(ctx).Err(); err != nil {
		cancel()
		log.Fatalf("Failed to ping Redis: %v", err)
	}
	cancel()
	log.Println("Connected to Redis")

	broker, err := messaging.NewRabbitMQBroker(cfg.RabbitMQURL, cfg.EventQueue)
	if err != nil {
		log.Fatalf("Failed to connect to RabbitMQ: %v", err)
	}
	defer broker.Close()
	log.Println("Connected to RabbitMQ")

	// Repositories
	userRepo := repository.NewUserRepository(db)
	emergencyRepo := repository.NewEmergencyRepository(db)
	medicalRepo := repository.NewMedicalRepository(db)
	homeRepo := repository.NewHomeServiceRepository(db)
	wellnessRepo := repository.NewWellnessRepository(db)
	familyRepo := repository.NewFamilyRepository(db)
	supportRepo := repository.NewSupportRepository(db)
	tokenStore := cache.NewRedisTokenStore(redisClient)

	// Services
	authService := services.NewAuthService(userRepo, tokenStore, cfg.JWTSecret,
		cfg.AccessTokenTTL, cfg.RefreshTokenTTL, cfg.ResetTokenTTL)
	userService := services.NewUserService(userRepo)
	emergencyService := services.NewEmergencyService(emergencyRepo, broker)
	medicalService := services.NewMedicalService(medicalRepo, broker)
	homeService := services.NewHomeServiceService(homeRepo, broker)
	wellnessService := services.NewWellnessService(wellnessRepo)
	familyService := services.NewFamilyService(familyRepo, userRepo)
	supportService := services.NewSupportService(supportRepo, broker)

	// Handlers
	authHandler := handler.NewAuthHandler(authService)
	userHandler := handler.NewUserHandler(userService)
	emergencyHandler := handler.NewEmergencyHandler(emergencyService)
	medicalHandler := handler.NewMedicalHandler(medicalService)
	homeHandler := handler.NewHomeServiceHandler(homeService)
	wellnessHandler := handler.NewWellnessHandler(wellnessService)
	familyHandler := handler.NewFamilyHandler(familyService)
	supportHandler := handler.NewSupportHandler(supportService)
	healthHandler := handler.NewHealthHandler(db, redisClient)

	authMW := middleware.NewAuthMiddleware(cfg.JWTSecret)
	authLimiter := middleware.NewRateLimiter(cfg.AuthRatePerMinute)

	mux := http.NewServeMux()

	// Infrastructure endpoints
	mux.Handle("GET /metrics", middleware.MetricsHandler())
	mux.HandleFunc("GET /health", healthHandler.Health)
	mux.HandleFunc("GET /health/ready", healthHandler.Ready)
	mux.HandleFunc("GET /health/live", healthHandler.Live)

	// Public auth endpoints, rate limited per client IP.
	public := http.NewServeMux()
	public.HandleFunc("POST /api/v1/auth/register", authHandler.Register)
	public.HandleFunc("POST /api/v1/auth/login", authHandler.Login)
	public.HandleFunc("POST /api/v1/auth/refresh", authHandler.Refresh)
	public.HandleFunc("POST /api/v1/auth/forgot-password", authHandler.ForgotPassword)
	public.HandleFunc("POST /api/v1/auth/reset-password", authHandler.ResetPassword)
	mux.Handle("/api/v1/auth/", authLimiter.Limit(public))

	// Everything below requires a valid access token.
	private := http.NewServeMux()

	private.HandleFunc("POST /api/v1/account/logout", authHandler.Logout)
	private.HandleFunc("POST /api/v1/account/change-password", authHandler.ChangePassword)

	private.HandleFunc("GET /api/v1/users/profile", userHandler.GetProfile)
	private.HandleFunc("PUT /api/v1/users/profile", userHandler.UpdateProfile)
	private.HandleFunc("PUT /api/v1/users/preferences", userHandler.UpdatePreferences)
	private.HandleFunc("DELETE /api/v1/users/account", userHandler.DeactivateAccount)
	private.HandleFunc("GET /api/v1/users/stats", userHandler.GetStats)

	private.HandleFunc("POST /api/v1/emergency/contacts", emergencyHandler.CreateContact)
	private.HandleFunc("GET /api/v1/emergency/contacts", emergencyHandler.ListContacts)
	private.HandleFunc("PUT /api/v1/emergency/contacts/{id}", emergencyHandler.UpdateContact)
	private.HandleFunc("DELETE /api/v1/emergency/contacts/{id}", emergencyHandler.DeleteContact)
	private.HandleFunc("POST /api/v1/emergency/sos", emergencyHandler.CreateSOSAlert)
	private.HandleFunc("GET /api/v1/emergency/sos", emergencyHandler.ListSOSAlerts)
	private.HandleFunc("PUT /api/v1/emergency/sos/{id}", emergencyHandler.UpdateSOSAlert)
	private.HandleFunc("POST /api/v1/emergency/reminders", emergencyHandler.CreateReminder)
	private.HandleFunc("GET /api/v1/emergency/reminders", emergencyHandler.ListReminders)
	private.HandleFunc("PUT /api/v1/emergency/reminders/{id}", emergencyHandler.UpdateReminder)
	private.HandleFunc("DELETE /api/v1/emergency/reminders/{id}", emergencyHandler.DeleteReminder)
	private.HandleFunc("POST /api/v1/emergency/reminders/{id}/snooze", emergencyHandler.SnoozeReminder)

	private.HandleFunc("GET /api/v1/medical/doctors", medicalHandler.ListDoctors)
	private.HandleFunc("GET /api/v1/medical/doctors/{id}", medicalHandler.GetDoctor)
	private.HandleFunc("POST /api/v1/medical/appointments", medicalHandler.CreateAppointment)
	private.HandleFunc("GET /api/v1/medical/appointments", medicalHandler.ListAppointments)
	private.HandleFunc("PUT /api/v1/medical/appointments/{id}", medicalHandler.UpdateAppointment)
	private.HandleFunc("DELETE /api/v1/medical/appointments/{id}", medicalHandler.CancelAppointment)
	private.HandleFunc("GET /api/v1/medical/lab-tests", medicalHandler.ListLabTests)
	private.HandleFunc("POST /api/v1/medical/lab-bookings", medicalHandler.BookLabTests)
	private.HandleFunc("GET /api/v1/medical/lab-bookings", medicalHandler.ListLabBookings)
	private.HandleFunc("GET /api/v1/medical/pharmacies", medicalHandler.ListPharmacies)
	private.HandleFunc("POST /api/v1/medical/prescriptions", medicalHandler.OrderPrescription)
	private.HandleFunc("GET /api/v1/medical/prescriptions", medicalHandler.ListPrescriptionOrders)
	private.HandleFunc("POST /api/v1/medical/transfers", medicalHandler.RequestTransfer)
	private.HandleFunc("GET /api/v1/medical/transfers", medicalHandler.ListTransfers)
	private.HandleFunc("GET /api/v1/medical/vaccinations", medicalHandler.ListVaccinations)
	private.HandleFunc("POST /api/v1/medical/vaccination-bookings", medicalHandler.BookVaccination)
	private.HandleFunc("GET /api/v1/medical/vaccination-bookings", medicalHandler.ListVaccinationBookings)

	private.HandleFunc("GET /api/v1/home/services", homeHandler.ListServices)
	private.HandleFunc("GET /api/v1/home/services/{id}", homeHandler.GetService)
	private.HandleFunc("GET /api/v1/home/providers", homeHandler.ListProviders)
	private.HandleFunc("GET /api/v1/home/providers/{id}", homeHandler.GetProvider)
	private.HandleFunc("POST /api/v1/home/bookings", homeHandler.BookService)
	private.HandleFunc("GET /api/v1/home/bookings", homeHandler.ListBookings)
	private.HandleFunc("PUT /api/v1/home/bookings/{id}", homeHandler.UpdateBooking)
	private.HandleFunc("DELETE /api/v1/home/bookings/{id}", homeHandler.CancelBooking)
	private.HandleFunc("POST /api/v1/home/bookings/{id}/rate", homeHandler.RateBooking)
	private.HandleFunc("POST /api/v1/home/assistance", homeHandler.CreateAssistanceRequest)
	private.HandleFunc("GET /api/v1/home/assistance", homeHandler.ListAssistanceRequests)
	private.HandleFunc("PUT /api/v1/home/assistance/{id}", homeHandler.UpdateAssistanceRequest)
	private.HandleFunc("DELETE /api/v1/home/assistance/{id}", homeHandler.CancelAssistanceRequest)

	private.HandleFunc("GET /api/v1/wellness/diet-plans", wellnessHandler.ListDietPlans)
	private.HandleFunc("GET /api/v1/wellness/diet-plans/{id}", wellnessHandler.GetDietPlan)
	private.HandleFunc("GET /api/v1/wellness/exercise-programs", wellnessHandler.ListExercisePrograms)
	private.HandleFunc("GET /api/v1/wellness/exercise-programs/{id}", wellnessHandler.GetExerciseProgram)
	private.HandleFunc("GET /api/v1/wellness/yoga-sessions", wellnessHandler.ListYogaSessions)
	private.HandleFunc("GET /api/v1/wellness/yoga-sessions/{id}", wellnessHandler.GetYogaSession)
	private.HandleFunc("POST /api/v1/wellness/subscriptions", wellnessHandler.Subscribe)
	private.HandleFunc("GET /api/v1/wellness/subscriptions", wellnessHandler.ListSubscriptions)
	private.HandleFunc("GET /api/v1/wellness/subscriptions/{id}", wellnessHandler.GetSubscription)
	private.HandleFunc("POST /api/v1/wellness/subscriptions/{id}/pause", wellnessHandler.PauseSubscription)
	private.HandleFunc("POST /api/v1/wellness/subscriptions/{id}/resume", wellnessHandler.ResumeSubscription)
	private.HandleFunc("DELETE /api/v1/wellness/subscriptions/{id}", wellnessHandler.CancelSubscription)
	private.HandleFunc("PUT /api/v1/wellness/subscriptions/{id}/progress", wellnessHandler.UpdateProgress)
	private.HandleFunc("GET /api/v1/wellness/recommendations", wellnessHandler.Recommendations)

	private.HandleFunc("POST /api/v1/family/members", familyHandler.AddMember)
	private.HandleFunc("GET /api/v1/family/members", familyHandler.ListMembers)
	private.HandleFunc("GET /api/v1/family/members/{id}", familyHandler.GetMember)
	private.HandleFunc("PUT /api/v1/family/members/{id}", familyHandler.UpdateMember)
	private.HandleFunc("DELETE /api/v1/family/members/{id}", familyHandler.RemoveMember)
	private.HandleFunc("POST /api/v1/family/history", familyHandler.AddHistory)
	private.HandleFunc("GET /api/v1/family/history", familyHandler.ListHistory)
	private.HandleFunc("GET /api/v1/family/history/{id}", familyHandler.GetHistory)
	private.HandleFunc("PUT /api/v1/family/history/{id}", familyHandler.UpdateHistory)
	private.HandleFunc("DELETE /api/v1/family/history/{id}", familyHandler.RemoveHistory)
	private.HandleFunc("POST /api/v1/family/permissions", familyHandler.GrantPermission)
	private.HandleFunc("GET /api/v1/family/permissions/granted", familyHandler.ListPermissionsGranted)
	private.HandleFunc("GET /api/v1/family/permissions/received", familyHandler.ListPermissionsReceived)
	private.HandleFunc("PUT /api/v1/family/permissions/{id}", familyHandler.UpdatePermission)
	private.HandleFunc("DELETE /api/v1/family/permissions/{id}", familyHandler.RevokePermission)
	private.HandleFunc("GET /api/v1/family/shared/{userId}", familyHandler.SharedHistory)

	private.HandleFunc("POST /api/v1/support/disputes", supportHandler.CreateDispute)
	private.HandleFunc("GET /api/v1/support/disputes", supportHandler.ListDisputes)
	private.HandleFunc("GET /api/v1/support/disputes/{id}", supportHandler.GetDispute)
	private.HandleFunc("PUT /api/v1/support/disputes/{id}", supportHandler.UpdateDispute)
	private.HandleFunc("POST /api/v1/support/disputes/{id}/rate", supportHandler.RateDispute)
	private.HandleFunc("POST /api/v1/support/tickets", supportHandler.CreateTicket)
	private.HandleFunc("GET /api/v1/support/tickets", supportHandler.ListTickets)
	private.HandleFunc("GET /api/v1/support/tickets/{id}", supportHandler.GetTicket)
	private.HandleFunc("POST /api/v1/support/tickets/{id}/messages", supportHandler.AddTicketMessage)
	private.HandleFunc("POST /api/v1/support/tickets/{id}/close", supportHandler.CloseTicket)
	private.HandleFunc("GET /api/v1/support/faqs", supportHandler.ListFAQs)
	private.HandleFunc("GET /api/v1/support/faqs/categories", supportHandler.FAQCategories)
	private.HandleFunc("GET /api/v1/support/faqs/{id}", supportHandler.GetFAQ)
	private.HandleFunc("POST /api/v1/support/faqs/{id}/helpful", supportHandler.MarkFAQHelpful)
	private.HandleFunc("GET /api/v1/support/stats", supportHandler.GetStats)

	mux.Handle("/api/v1/", authMW.Require(private))

	root := middleware.CORSMiddleware(cfg.AllowedOrigins)(middleware.InstrumentHandler(mux))

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      root,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("Server listening on port %s", cfg.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}
	log.Println("Server exited")
}

func runMigrations(db *sql.DB) error {
	sqlBytes, err := os.ReadFile("db/migrations/001_init.sql")
	if err != nil {
		return fmt.Errorf("read migration file: %w", err)
	}
	if _, err := db.Exec(string(sqlBytes)); err != nil {
		return fmt.Errorf("apply migrations: %w", err)
	}
	log.Println("Migrations applied")
	return nil
}
