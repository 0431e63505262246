package main

import (
	"context"
	"log"
	"os"
	"strconv"
	"time"

	apimod "github.com/example/task-manager-api/modules/api"
	taskmod "github.com/example/task-manager-api/modules/task"
	gfshutdown "github.com/gelmium/graceful-shutdown"
	"github.com/go-monolith/mono"
)

const (
	appName    = "Task Manager API"
	appVersion = "1.0.0"

	shutdownTimeout = 30 * time.Second
)

// Config is the immutable process configuration, built once from the
// environment and passed to the modules that need it.
type Config struct {
	HTTPPort    int
	DBPath      string
	CORSOrigins string
	Debug       bool
}

func loadConfig() Config {
	return Config{
		HTTPPort:    getEnvInt("HTTP_PORT", 8000),
		DBPath:      getEnv("DB_PATH", "./tasks.db"),
		CORSOrigins: getEnv("CORS_ORIGINS", "*"),
		Debug:       getEnvBool("DEBUG", false),
	}
}

func main() {
	cfg := loadConfig()

	log.Printf("=== %s v%s ===", appName, appVersion)
	log.Printf("Database: %s", cfg.DBPath)
	log.Printf("HTTP Port: %d", cfg.HTTPPort)
	log.Printf("CORS Origins: %s", cfg.CORSOrigins)
	log.Printf("Debug: %v", cfg.Debug)

	// Create modules
	taskModule := taskmod.NewModule(cfg.DBPath, cfg.Debug)
	apiModule := apimod.NewModule(apimod.Config{
		AppName:     appName,
		Version:     appVersion,
		Port:        cfg.HTTPPort,
		CORSOrigins: cfg.CORSOrigins,
		Debug:       cfg.Debug,
	})

	// Task module must be wired before the API module starts.
	apiModule.SetTaskModule(taskModule)

	// Create mono application
	app, err := mono.NewMonoApplication(
		mono.WithShutdownTimeout(shutdownTimeout),
		mono.WithLogLevel(mono.LogLevelInfo),
	)
	if err != nil {
		log.Fatalf("Failed to create mono application: %v", err)
	}

	// Register modules
	app.Register(taskModule)
	app.Register(apiModule)

	// Start modules
	if err := app.Start(context.Background()); err != nil {
		log.Fatalf("Failed to start app: %v", err)
	}

	log.Println("=== Application Started ===")
	log.Printf("API available at http://localhost:%d", cfg.HTTPPort)
	log.Println("Endpoints:")
	log.Println("  GET    /                            - Root / app info")
	log.Println("  GET    /health                      - Health check")
	log.Println("  GET    /api/v1/tasks                - List tasks (filters + pagination)")
	log.Println("  POST   /api/v1/tasks                - Create task")
	log.Println("  GET    /api/v1/tasks/:id            - Get task")
	log.Println("  PUT    /api/v1/tasks/:id            - Update task (partial)")
	log.Println("  DELETE /api/v1/tasks/:id            - Delete task")
	log.Println("  GET    /api/v1/tasks/stats/summary  - Task statistics")
	log.Println("")
	log.Println("Press Ctrl+C to shutdown")

	// Setup graceful shutdown using gelmium/graceful-shutdown
	wait := gfshutdown.GracefulShutdown(
		context.Background(),
		shutdownTimeout,
		map[string]gfshutdown.Operation{
			"mono-app": func(ctx context.Context) error {
				log.Println("Graceful shutdown initiated...")
				return app.Stop(ctx)
			},
		},
	)

	exitCode := <-wait
	log.Printf("Application exited with code: %d", exitCode)
	os.Exit(exitCode)
}

// getEnv returns environment variable value or default.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt returns environment variable as int or default.
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
		log.Printf("Warning: invalid int value for %s: %s, using default: %d", key, value, defaultValue)
	}
	return defaultValue
}

// getEnvBool returns environment variable as bool or default.
func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
		log.Printf("Warning: invalid bool value for %s: %s, using default: %v", key, value, defaultValue)
	}
	return defaultValue
}
