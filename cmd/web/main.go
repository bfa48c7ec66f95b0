// Web server for go-pressleaf
package main

import (
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"

	prof "github.com/go-while/go-cpu-mem-profiler"
	"github.com/go-while/go-pressleaf/internal/config"
	"github.com/go-while/go-pressleaf/internal/database"
	"github.com/go-while/go-pressleaf/internal/web"
)

var (
	// command-line flags
	webport     int
	webssl      bool
	webcertFile string
	webkeyFile  string
	dataDir     string
	pprofAddr   string
)

var appVersion = "-unset-"

var Prof *prof.Profiler

func main() {
	config.AppVersion = appVersion

	flag.IntVar(&webport, "webport", 0, "Web server port (default: 11990)")
	flag.BoolVar(&webssl, "webssl", false, "Enable SSL")
	flag.StringVar(&webcertFile, "websslcert", "", "SSL certificate file (/path/to/fullchain.pem)")
	flag.StringVar(&webkeyFile, "websslkey", "", "SSL key file (/path/to/privkey.pem)")
	flag.StringVar(&dataDir, "datadir", "", "Directory holding the database file (default: ./data)")
	flag.StringVar(&pprofAddr, "pprofweb", "", "Start pprof web server on this address (e.g. :51111)")
	flag.Parse()

	mainConfig := config.NewDefaultConfig()
	log.Printf("Starting go-pressleaf web server (version: %s)", appVersion)

	// Override config with command-line flags if provided
	webConfig := &mainConfig.Web
	if webport > 0 {
		webConfig.ListenPort = webport
	}
	if webssl {
		webConfig.SSL = true
	}
	if webcertFile != "" {
		webConfig.CertFile = webcertFile
	}
	if webkeyFile != "" {
		webConfig.KeyFile = webkeyFile
	}

	// Validate port
	if webConfig.ListenPort < 1024 || webConfig.ListenPort > 65535 {
		log.Fatalf("[WEB]: Invalid port number: %d (must be between 1024 and 65535)", webConfig.ListenPort)
	}

	if pprofAddr != "" {
		Prof = prof.NewProf()
		go Prof.PprofWeb(pprofAddr)
		log.Printf("[WEB]: pprof web server listening on %s", pprofAddr)
	}

	// Initialize database
	dbConfig := database.DefaultDBConfig()
	if dataDir != "" {
		dbConfig.DataDir = dataDir
	}
	db, err := database.OpenDatabase(dbConfig)
	if err != nil {
		log.Fatalf("[WEB]: Failed to initialize database: %v", err)
	}

	server := web.NewServer(db, webConfig)
	server.StartSessionCleanup()

	// Set up cross-platform signal handling for graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt)

	// Start web server in goroutine to make it non-blocking
	webServerErrChan := make(chan error, 1)
	go func() {
		if err := server.Start(); err != nil && err != http.ErrServerClosed {
			webServerErrChan <- err
		}
	}()

	log.Printf("[WEB]: Server started successfully. Press Ctrl+C to gracefully shutdown...")

	select {
	case <-sigChan:
		log.Printf("[WEB]: Received shutdown signal, initiating graceful shutdown...")
	case err := <-webServerErrChan:
		log.Fatalf("[WEB]: Failed to start web server: %v", err)
	}

	// Signal background tasks to stop
	close(db.StopChan)

	if err := db.Shutdown(); err != nil {
		log.Fatalf("[WEB]: Failed to shutdown database: %v", err)
	}
	log.Printf("[WEB]: Graceful shutdown completed")
}
