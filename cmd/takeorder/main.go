package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"gopkg.in/yaml.v3"

	"takeorder/internal/chat"
	"takeorder/internal/ledger"
	"takeorder/internal/menu"
	"takeorder/internal/monitoring"
	"takeorder/internal/store"
)

var (
	port        = flag.Int("port", 8080, "API server port")
	metricsPort = flag.Int("metrics-port", 9090, "Metrics server port")
	configFile  = flag.String("config", "configs/config.yaml", "Path to configuration file")
)

func main() {
	flag.Parse()

	// Load configuration
	config, err := loadConfig(*configFile)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize database, shared by the ledger service and the kv store
	db, err := ledger.OpenDB(config.Database.Path)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	st := store.NewWithDB(db)
	monitor := monitoring.NewMonitor()

	// The ledger client points at this process by default; a remote
	// ledger is configured with ledger.base_url.
	baseURL := config.Ledger.BaseURL
	if baseURL == "" {
		baseURL = fmt.Sprintf("http://127.0.0.1:%d", *port)
	}
	client := ledger.NewClient(baseURL)

	// Chat surface plus ledger endpoints on one router
	chatServer := chat.NewServer(menu.Default(), client, st, monitor)
	ledgerService := ledger.NewService(db)
	ledgerService.RegisterRoutes(chatServer.Router())

	// Start metrics server
	go startMetricsServer(*metricsPort)

	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", *port),
		Handler: chatServer.Router(),
	}

	// Graceful shutdown
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan

		log.Println("Shutting down servers...")

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			log.Printf("API server shutdown error: %v", err)
		}
	}()

	// Start server
	log.Printf("Starting API server on port %d", *port)
	if err := server.ListenAndServe(); err != http.ErrServerClosed {
		log.Fatalf("API server error: %v", err)
	}
}

// Config represents the application configuration
type Config struct {
	Database struct {
		Path string `yaml:"path"`
	} `yaml:"database"`
	Ledger struct {
		BaseURL string `yaml:"base_url"`
	} `yaml:"ledger"`
}

func loadConfig(path string) (*Config, error) {
	config := &Config{}
	config.Database.Path = "takeorder.db"

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			log.Printf("Config file %s not found, using defaults", path)
			return config, nil
		}
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if config.Database.Path == "" {
		config.Database.Path = "takeorder.db"
	}
	return config, nil
}

func startMetricsServer(port int) {
	metricsRouter := gin.Default()
	metricsRouter.GET("/metrics", gin.WrapH(promhttp.Handler()))

	metricsServer := &http.Server{
		Addr:    fmt.Sprintf(":%d", port),
		Handler: metricsRouter,
	}

	log.Printf("Starting metrics server on port %d", port)
	if err := metricsServer.ListenAndServe(); err != http.ErrServerClosed {
		log.Printf("Metrics server error: %v", err)
	}
}
