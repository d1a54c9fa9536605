package main

import (
	"collaborative-annotation-server/internal/annotation"
	"collaborative-annotation-server/internal/blobstore"
	"collaborative-annotation-server/internal/config"
	"collaborative-annotation-server/internal/db"
	"collaborative-annotation-server/internal/document"
	"collaborative-annotation-server/internal/domain"
	"collaborative-annotation-server/internal/download"
	"collaborative-annotation-server/internal/label"
	"collaborative-annotation-server/internal/middleware"
	"collaborative-annotation-server/internal/project"
	"collaborative-annotation-server/internal/stats"
	"collaborative-annotation-server/internal/upload"
	"collaborative-annotation-server/internal/user"
	"collaborative-annotation-server/internal/worker"
	"collaborative-annotation-server/redis"
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

func main() {
	// Load configuration
	config.LoadConfig()

	// Connect to database
	if err := db.ConnectDb(); err != nil {
		log.Fatalf("Database connection failed: %v", err)
	}
	defer db.CloseDb()

	// Migrate database schema
	db.Migrate()

	// Seed database with initial data (for development)
	db.SeedData()

	// Initialize Redis
	redis.InitRedis()
	cache := redis.NewCache(redis.RedisClient)

	// Background pool for off-request work such as cache invalidation
	pool := worker.NewPool(4, 256)
	defer pool.Shutdown()

	blobs := blobstore.NewSFTPClient(blobstore.SFTPConfig{
		Host:     config.AppConfig.BlobHost,
		Port:     config.AppConfig.BlobPort,
		Username: config.AppConfig.BlobUser,
		Password: config.AppConfig.BlobPassword,
		KeyFile:  config.AppConfig.BlobKeyFile,
	})

	// Initialize repositories
	userRepo := user.NewRepository(db.AppDb)
	projectRepo := project.NewRepository(db.AppDb)
	labelRepo := label.NewRepository(db.AppDb)
	docRepo := document.NewRepository(db.AppDb)
	annotationRepo := annotation.NewRepository(db.AppDb)
	statsRepo := stats.NewRepository(db.AppDb)
	importRepo := upload.NewRepository(db.AppDb)
	exportRepo := download.NewRepository(db.AppDb)

	// Initialize services
	userService := user.NewService(userRepo)
	projectService := project.NewService(projectRepo)
	labelService := label.NewService(labelRepo)
	docService := document.NewService(docRepo)
	statsService := stats.NewService(statsRepo, cache, pool)
	annotationService := annotation.NewService(annotationRepo, statsService)
	uploadService := upload.NewService(importRepo, statsService)
	downloadService := download.NewService(exportRepo)

	// Initialize handlers
	userHandler := user.NewHandler(userService)
	projectHandler := project.NewHandler(projectService)
	labelHandler := label.NewHandler(labelService)
	docHandler := document.NewHandler(docService, projectService)
	annotationHandler := annotation.NewHandler(annotationService, projectService)
	statsHandler := stats.NewHandler(statsService, projectService)
	uploadHandler := upload.NewHandler(uploadService, projectService, blobs)
	downloadHandler := download.NewHandler(downloadService, projectService, blobs)

	authMw := &middleware.Auth{UserService: userService, RoleService: projectService}

	// Initialize Gin router
	router := gin.Default()
	router.Use(middleware.ErrorHandler())

	// cors setting
	corsConfig := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition"},
		AllowCredentials: false,
	}

	if config.AppConfig.Environment == "development" {
		// Allow all origins in development
		corsConfig.AllowAllOrigins = true
	} else {
		// Restrict origins in production
		corsConfig.AllowOrigins = []string{"https://production-frontend.com"}
	}
	router.Use(cors.New(corsConfig))

	anyMember := []string{domain.RoleProjectAdmin, domain.RoleAnnotator, domain.RoleAnnotationApprover}
	adminOnly := []string{domain.RoleProjectAdmin}
	approvers := []string{domain.RoleProjectAdmin, domain.RoleAnnotationApprover}

	// User routes
	router.POST("/register", userHandler.Register)
	router.POST("/login", userHandler.Login)

	authed := router.Group("/", authMw.AuthMiddleWare())
	authed.GET("/me", userHandler.Me)
	authed.GET("/users", userHandler.ListUsers)
	authed.DELETE("/users/:user_id", userHandler.Deactivate)

	// Project routes
	authed.POST("/projects", projectHandler.Create)
	authed.GET("/projects", projectHandler.List)

	projects := authed.Group("/projects/:project_id")
	projects.GET("", authMw.RequireProjectRole(anyMember...), projectHandler.Show)
	projects.PATCH("", authMw.RequireProjectRole(adminOnly...), projectHandler.Update)
	projects.DELETE("", authMw.RequireProjectRole(adminOnly...), projectHandler.Delete)

	// Membership routes
	projects.GET("/members", authMw.RequireProjectRole(anyMember...), projectHandler.ListMembers)
	projects.POST("/members", authMw.RequireProjectRole(adminOnly...), projectHandler.AddMember)
	projects.PUT("/members/:mapping_id", authMw.RequireProjectRole(adminOnly...), projectHandler.ChangeMemberRole)
	projects.DELETE("/members/:mapping_id", authMw.RequireProjectRole(adminOnly...), projectHandler.RemoveMember)

	// Label routes
	projects.GET("/labels", authMw.RequireProjectRole(anyMember...), labelHandler.List)
	projects.GET("/labels/:label_id", authMw.RequireProjectRole(anyMember...), labelHandler.Show)
	projects.POST("/labels", authMw.RequireProjectRole(adminOnly...), labelHandler.Create)
	projects.PATCH("/labels/:label_id", authMw.RequireProjectRole(adminOnly...), labelHandler.Update)
	projects.DELETE("/labels/:label_id", authMw.RequireProjectRole(adminOnly...), labelHandler.Delete)
	projects.POST("/labels/upload", authMw.RequireProjectRole(adminOnly...), labelHandler.Upload)

	// Document routes
	projects.GET("/docs", authMw.RequireProjectRole(anyMember...), docHandler.List)
	projects.GET("/docs/:doc_id", authMw.RequireProjectRole(anyMember...), docHandler.Show)
	projects.POST("/docs", authMw.RequireProjectRole(adminOnly...), docHandler.Create)
	projects.PATCH("/docs/:doc_id", authMw.RequireProjectRole(adminOnly...), docHandler.Update)
	projects.DELETE("/docs/:doc_id", authMw.RequireProjectRole(adminOnly...), docHandler.Delete)
	projects.POST("/docs/:doc_id/approve", authMw.RequireProjectRole(approvers...), docHandler.Approve)

	// Annotation routes
	projects.GET("/docs/:doc_id/annotations", authMw.RequireProjectRole(anyMember...), annotationHandler.List)
	projects.POST("/docs/:doc_id/annotations", authMw.RequireProjectRole(anyMember...), annotationHandler.Create)
	projects.DELETE("/docs/:doc_id/annotations/:annotation_id", authMw.RequireProjectRole(anyMember...), annotationHandler.Delete)

	// Statistics
	projects.GET("/statistics", authMw.RequireProjectRole(anyMember...), statsHandler.Show)

	// Bulk import/export
	projects.POST("/docs/upload", authMw.RequireProjectRole(adminOnly...), uploadHandler.Upload)
	projects.POST("/docs/cloud-upload", authMw.RequireProjectRole(adminOnly...), uploadHandler.CloudUpload)
	projects.GET("/docs/download", authMw.RequireProjectRole(anyMember...), downloadHandler.Download)
	projects.POST("/docs/cloud-download", authMw.RequireProjectRole(adminOnly...), downloadHandler.CloudDownload)

	// Server configuration
	serverPort := config.AppConfig.ServerPort
	server := &http.Server{
		Addr:    fmt.Sprintf(":%s", serverPort),
		Handler: router.Handler(),
	}

	// Start server
	go func() {
		log.Printf("Server listening on port %s", serverPort)
		err := server.ListenAndServe()
		if err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed to start: %v", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Println("Server shutdown error:", err)
	}

	log.Println("Server shutdown complete")
}
