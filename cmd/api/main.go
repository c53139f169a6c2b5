package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go-agrimarket/internal/handler"
	"go-agrimarket/internal/middleware"
	"go-agrimarket/internal/model"
	"go-agrimarket/internal/notify"
	"go-agrimarket/internal/repository"
	"go-agrimarket/internal/service"
	"go-agrimarket/internal/ws"
	"go-agrimarket/pkg/blob"
	"go-agrimarket/pkg/database"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/joho/godotenv"
	"gorm.io/gorm"
)

func main() {
	// 1. Load Env
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found")
	}

	// 2. Setup Database
	db := database.ConnectDB()
	db.AutoMigrate(&model.Role{}, &model.User{}, &model.Product{})

	// 3. Seed default roles and demo accounts
	seedRolesAndAccounts(db)

	// 4. Setup WebSocket Hub
	wsHub := ws.NewHub()
	go wsHub.Run()

	// 5. External collaborators
	notifier := notify.FromEnv()
	blobStore, err := blob.NewMinioStore()
	if err != nil {
		log.Println("Warning: blob store unavailable, product images disabled:", err)
	}

	// 6. Dependency Injection (Wiring Layers)
	userRepo := repository.NewUserRepo(db)
	roleRepo := repository.NewRoleRepo(db)
	productRepo := repository.NewProductRepo(db)

	authService := service.NewAuthService(userRepo, roleRepo)
	farmerService := service.NewFarmerService(userRepo, roleRepo, notifier, wsHub)
	productService := service.NewProductService(productRepo, blobStore, wsHub)

	authHandler := handler.NewAuthHandler(authService)
	farmerHandler := handler.NewFarmerHandler(farmerService)
	productHandler := handler.NewProductHandler(productService, blobStore)

	// 7. Setup Fiber
	app := fiber.New(fiber.Config{
		AppName: "AgriMarket API v1.0",
	})

	// Middleware
	app.Use(logger.New())  // Logging request
	app.Use(recover.New()) // Panic recovery
	app.Use(cors.New())    // CORS

	// 8. Routes
	api := app.Group("/api/v1")

	// ============ PUBLIC ROUTES ============
	auth := api.Group("/auth")
	auth.Post("/login", authHandler.Login)
	auth.Post("/register", authHandler.Register)
	auth.Post("/reset-password", authHandler.ResetPassword)
	auth.Post("/validate-token", authHandler.ValidateToken)

	// ============ PROTECTED ROUTES ============
	protected := api.Group("", middleware.RequireAuth(userRepo))

	// Farmer lifecycle (employee only)
	employees := protected.Group("/farmers", middleware.RequireRole(model.RoleEmployee))
	employees.Post("", farmerHandler.Onboard)
	employees.Get("", farmerHandler.ListFarmers)
	employees.Post("/activate", farmerHandler.Activate)

	// Product catalog (any authenticated account can browse)
	protected.Get("/products/search", productHandler.SearchProducts)

	// Product management (farmer only)
	farmers := protected.Group("/products", middleware.RequireRole(model.RoleFarmer))
	farmers.Get("/mine", productHandler.MyProducts)
	farmers.Post("", productHandler.CreateProduct)
	farmers.Put("/:id", productHandler.UpdateProduct)
	farmers.Delete("/:id", productHandler.DeleteProduct)

	// WebSocket dashboard feed
	app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return c.SendStatus(fiber.StatusUpgradeRequired)
	})
	app.Get("/ws", websocket.New(func(c *websocket.Conn) {
		wsHub.Register <- c
		defer func() { wsHub.Unregister <- c }()

		for {
			// Keep alive loop
			if _, _, err := c.ReadMessage(); err != nil {
				break
			}
		}
	}))

	// 9. Graceful Shutdown
	go func() {
		port := os.Getenv("PORT")
		if port == "" {
			port = "3000"
		}
		if err := app.Listen(":" + port); err != nil {
			log.Panic(err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")
	if err := app.Shutdown(); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	log.Println("Server exited")
}

// seedRolesAndAccounts creates the default roles and demo accounts if they
// don't exist. Safe to run on every boot.
func seedRolesAndAccounts(db *gorm.DB) {
	userRepo := repository.NewUserRepo(db)
	roleRepo := repository.NewRoleRepo(db)

	// 1. Seed roles first
	if err := roleRepo.SeedDefaults(); err != nil {
		log.Printf("Warning: Failed to seed roles: %v", err)
	}

	// 2. Demo farmer (already activated so it can log in out of the box)
	seedAccount(userRepo, roleRepo, &model.User{
		Email:            "farmer@test.com",
		FirstName:        "John",
		LastName:         "Doe",
		PhoneNumber:      "1234567890",
		Status:           model.StatusActive,
		RegistrationDate: time.Now(),
	}, "Farmer1!", model.RoleFarmer)

	// 3. Demo employee
	seedAccount(userRepo, roleRepo, &model.User{
		Email:            "employee@test.com",
		FirstName:        "Jane",
		LastName:         "Smith",
		PhoneNumber:      "0987654321",
		Status:           model.StatusActive,
		RegistrationDate: time.Now(),
	}, "Employee123!", model.RoleEmployee)
}

func seedAccount(userRepo repository.UserRepository, roleRepo repository.RoleRepository, user *model.User, password, roleCode string) {
	if existing, _ := userRepo.FindByEmail(user.Email); existing != nil {
		return
	}

	if err := user.SetPassword(password); err != nil {
		log.Printf("Warning: Failed to hash password for %s: %v", user.Email, err)
		return
	}

	if err := userRepo.Create(user); err != nil {
		log.Printf("Warning: Failed to seed account %s: %v", user.Email, err)
		return
	}

	if err := roleRepo.Grant(user.ID, roleCode); err != nil {
		log.Printf("Warning: Failed to grant %s to %s: %v", roleCode, user.Email, err)
		return
	}

	log.Printf("Seeded account %s (%s)", user.Email, roleCode)
}
