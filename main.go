package main

import (
	"fmt"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"
	"github.com/rs/cors"

	"github.com/lllpei/ofacpartyapi/config"
	"github.com/lllpei/ofacpartyapi/handlers"
	"github.com/lllpei/ofacpartyapi/mcptools"
	"github.com/lllpei/ofacpartyapi/repository"
)

func main() {
	err := godotenv.Load()
	if err != nil {
		log.Printf("Info: No .env file found or error loading: %v", err)
	}
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("FATAL: Failed to load configuration: %v", err)
	}

	if _, err := os.Stat(cfg.DatabasePath); err != nil {
		// requests surface this as a 500 per call; the server still starts
		log.Printf("Warning: database file not found at startup: %s", cfg.DatabasePath)
	}

	log.Printf("Using database: %s", cfg.DatabasePath)
	log.Printf("Proxy target: %s (timeout %ds)", cfg.BaseURL, cfg.ProxyTimeoutSeconds)

	partyRepo := repository.NewPartyRepository(cfg.DatabasePath)
	partyHandler := &handlers.PartyHandler{Repo: partyRepo}

	proxyClient := mcptools.NewClient(cfg.BaseURL, time.Duration(cfg.ProxyTimeoutSeconds)*time.Second)
	mcpServer := mcptools.NewServer(proxyClient)

	r := chi.NewRouter()

	corsOptions := cors.Options{
		AllowedOrigins: cfg.AllowedOrigins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
		MaxAge:         300,
	}
	corsHandler := cors.New(corsOptions)

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(corsHandler.Handler)

	r.Route("/ofacParty", func(r chi.Router) {
		r.Get("/", partyHandler.GetParty)
		r.Get("/search", partyHandler.SearchParty)
	})

	r.Mount("/mcp", mcptools.NewSSEHandler(mcpServer, "/mcp"))
	log.Printf("Registered MCP SSE server at /mcp")

	serverAddr := ":" + cfg.Port
	fmt.Printf("Server starting on http://localhost:%s\n", cfg.Port)
	log.Printf("Server listening on %s", serverAddr)
	server := &http.Server{
		Addr:        serverAddr,
		Handler:     r,
		ReadTimeout: 10 * time.Second,
		// no WriteTimeout: MCP SSE connections stay open indefinitely
		IdleTimeout: 120 * time.Second,
	}
	log.Fatal(server.ListenAndServe())
}
