// Command rulegrid-server starts the rule-grid puzzle server.
//
// It supports two modes:
//  1. "server" (default) – runs the HTTP server exposing REST API, WebSocket, and an /mcp HTTP endpoint
//  2. "stdio-mcp" – runs an MCP stdio server and spins up an internal HTTP API if none is available
//
// Defaults come from the environment (and a .env file when present); flags
// override them.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"github.com/mark3labs/mcp-go/server"
	"github.com/wricardo/mcp-training/rulegrid/api"
	"github.com/wricardo/mcp-training/rulegrid/game/config"
	"github.com/wricardo/mcp-training/rulegrid/game/service"
	"github.com/wricardo/mcp-training/rulegrid/game/session"
	"github.com/wricardo/mcp-training/rulegrid/transport/mcp"
	"github.com/wricardo/mcp-training/rulegrid/transport/websocket"
	"golang.ngrok.com/ngrok"
	ngrokConfig "golang.ngrok.com/ngrok/config"
)

// Version information
const (
	Version = "1.0.0"
	AppName = "Rule Grid Server"
)

// serverConfig holds every startup setting. Environment variables seed the
// values, command-line flags override them.
type serverConfig struct {
	Port       int           `env:"RULEGRID_PORT" envDefault:"8080"`
	Host       string        `env:"RULEGRID_HOST" envDefault:"localhost"`
	ConfigDir  string        `env:"CONFIG_DIR" envDefault:"configs"`
	SessionTTL time.Duration `env:"RULEGRID_SESSION_TTL" envDefault:"24h"`
	Debug      bool          `env:"RULEGRID_DEBUG"`

	NgrokEnabled   bool   `env:"NGROK_ENABLED"`
	NgrokAuthToken string `env:"NGROK_AUTHTOKEN"`
	NgrokAuthAlt   string `env:"NGROK_AUTH_TOKEN"`
	NgrokDomain    string `env:"NGROK_DOMAIN"`

	Version bool   `env:"-"`
	Mode    string `env:"-"`
}

// loadConfig reads the environment and then parses args on top of it
func loadConfig(args []string) (*serverConfig, error) {
	cfg := &serverConfig{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	fs := flag.NewFlagSet("rulegrid-server", flag.ContinueOnError)
	fs.IntVar(&cfg.Port, "port", cfg.Port, "HTTP server port")
	fs.StringVar(&cfg.Host, "host", cfg.Host, "HTTP server host")
	fs.StringVar(&cfg.ConfigDir, "config-dir", cfg.ConfigDir, "Directory containing level configurations")
	fs.DurationVar(&cfg.SessionTTL, "session-ttl", cfg.SessionTTL, "Drop sessions idle for longer than this")
	fs.BoolVar(&cfg.Debug, "debug", cfg.Debug, "Enable debug logging")
	fs.BoolVar(&cfg.Version, "version", false, "Show version information")
	fs.BoolVar(&cfg.NgrokEnabled, "ngrok", cfg.NgrokEnabled, "Enable ngrok tunnel")
	fs.StringVar(&cfg.NgrokAuthToken, "ngrok-auth", cfg.NgrokAuthToken, "Ngrok auth token (or use NGROK_AUTHTOKEN env var)")
	fs.StringVar(&cfg.NgrokDomain, "ngrok-domain", cfg.NgrokDomain, "Custom ngrok domain (optional)")
	fs.Usage = func() { usage(fs) }

	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	if cfg.Port <= 0 || cfg.Port > 65535 {
		return nil, fmt.Errorf("invalid port: %d", cfg.Port)
	}
	if cfg.NgrokAuthToken == "" {
		cfg.NgrokAuthToken = cfg.NgrokAuthAlt
	}

	cfg.Mode = "server"
	if fs.NArg() > 0 {
		cfg.Mode = fs.Arg(0)
	}
	return cfg, nil
}

func usage(fs *flag.FlagSet) {
	out := fs.Output()
	fmt.Fprintf(out, "Usage: %s [OPTIONS] [MODE]\n\n", os.Args[0])
	fmt.Fprintf(out, "%s v%s\n\n", AppName, Version)
	fmt.Fprintf(out, "Available modes:\n")
	fmt.Fprintf(out, "  server, http     Run HTTP server with API, WebSocket, and MCP endpoint (default)\n")
	fmt.Fprintf(out, "  stdio-mcp        Run MCP stdio server with internal HTTP server\n")
	fmt.Fprintf(out, "  mcp-stdio, mcp   Aliases for stdio-mcp\n")
	fmt.Fprintf(out, "\nOptions:\n")
	fs.PrintDefaults()
	fmt.Fprintf(out, "\nEnvironment:\n")
	fmt.Fprintf(out, "  RULEGRID_PORT, RULEGRID_HOST, CONFIG_DIR, RULEGRID_SESSION_TTL, RULEGRID_DEBUG\n")
	fmt.Fprintf(out, "  NGROK_ENABLED, NGROK_AUTHTOKEN, NGROK_DOMAIN\n")
}

// main loads configuration, initializes services, and starts the selected mode.
func main() {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			log.Printf("Warning: Error loading .env file: %v", err)
		}
	} else {
		log.Println("Loaded environment variables from .env file")
	}

	cfg, err := loadConfig(os.Args[1:])
	if errors.Is(err, flag.ErrHelp) {
		os.Exit(0)
	}
	if err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	if cfg.Version {
		fmt.Printf("%s v%s\n", AppName, Version)
		os.Exit(0)
	}

	if cfg.Debug {
		log.SetFlags(log.LstdFlags | log.Lshortfile)
	} else {
		log.SetFlags(log.LstdFlags)
	}

	log.Printf("Starting %s v%s (mode: %s)", AppName, Version, cfg.Mode)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	gameService, sessions, err := initializeServices(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize services: %v", err)
	}
	go sessionCleanupRoutine(ctx, sessions, time.Hour, cfg.SessionTTL)

	switch cfg.Mode {
	case "stdio-mcp", "mcp-stdio", "mcp":
		runStdioMCPWithInternalServer(ctx, gameService)

	case "server", "http":
		runHTTPServer(ctx, cfg, gameService)

	default:
		log.Fatalf("Unknown mode: %s. Use 'server' (default) or 'stdio-mcp'", cfg.Mode)
	}
}

// mcpHandler serves single JSON-RPC messages over HTTP POST
func mcpHandler(mcpClient *mcp.Client) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}

		body, err := io.ReadAll(r.Body)
		if err != nil {
			http.Error(w, "Failed to read request", http.StatusBadRequest)
			return
		}
		defer r.Body.Close()

		response := mcpClient.GetMCPServer().HandleMessage(r.Context(), body)

		w.Header().Set("Content-Type", "application/json")
		responseData, err := json.Marshal(response)
		if err != nil {
			http.Error(w, "Failed to marshal response", http.StatusInternalServerError)
			return
		}
		w.Write(responseData)
	}
}

// newRouter mounts the REST API at the root and the MCP endpoint at /mcp
func newRouter(apiServer *api.Server, mcpClient *mcp.Client) *http.ServeMux {
	mainRouter := http.NewServeMux()
	mainRouter.Handle("/", apiServer)
	mainRouter.HandleFunc("/mcp", mcpHandler(mcpClient))
	return mainRouter
}

// runHTTPServer starts the HTTP server with REST API, WebSocket hub, and an /mcp proxy endpoint.
// If ngrok is enabled it also provisions a public tunnel.
func runHTTPServer(ctx context.Context, cfg *serverConfig, gameService service.GameService) {
	hub := websocket.NewHub()
	go hub.Run(ctx)

	addr := fmt.Sprintf("%s:%d", cfg.Host, cfg.Port)
	mainRouter := newRouter(api.NewServer(gameService, hub), mcp.NewClient("http://"+addr))

	httpServer := &http.Server{
		Addr:         addr,
		Handler:      mainRouter,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()

		log.Printf("HTTP server listening on %s", addr)
		log.Printf("REST API: http://%s/api", addr)
		log.Printf("WebSocket: ws://%s/ws?session=<session_id>", addr)
		log.Printf("MCP endpoint: http://%s/mcp", addr)

		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("HTTP server failed: %v", err)
		}
	}()

	if cfg.NgrokEnabled {
		wg.Add(1)
		go func() {
			defer wg.Done()
			runNgrokTunnel(ctx, cfg, mainRouter)
		}()
	}

	<-ctx.Done()
	log.Println("Shutting down...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Printf("HTTP server shutdown error: %v", err)
	}

	wg.Wait()
	log.Println("Server stopped")
}

// runNgrokTunnel serves handler through an ngrok endpoint until ctx ends
func runNgrokTunnel(ctx context.Context, cfg *serverConfig, handler http.Handler) {
	if cfg.NgrokAuthToken == "" {
		log.Println("WARNING: Ngrok enabled but no auth token provided (use --ngrok-auth, NGROK_AUTHTOKEN, or NGROK_AUTH_TOKEN env var)")
		return
	}

	log.Println("Starting ngrok tunnel...")

	var tunnel ngrokConfig.Tunnel
	if cfg.NgrokDomain != "" {
		tunnel = ngrokConfig.HTTPEndpoint(ngrokConfig.WithDomain(cfg.NgrokDomain))
		log.Printf("Using custom ngrok domain: %s", cfg.NgrokDomain)
	} else {
		tunnel = ngrokConfig.HTTPEndpoint()
	}

	tun, err := ngrok.Listen(ctx, tunnel, ngrok.WithAuthtoken(cfg.NgrokAuthToken))
	if err != nil {
		log.Printf("Failed to start ngrok tunnel: %v", err)
		return
	}

	ngrokURL := tun.URL()
	log.Printf("Ngrok tunnel established: %s", ngrokURL)
	log.Printf("  REST API (ngrok): %s/api", ngrokURL)
	log.Printf("  WebSocket (ngrok): %s/ws?session=<session_id>", ngrokURL)
	log.Printf("  MCP endpoint (ngrok): %s/mcp", ngrokURL)

	go func() {
		<-ctx.Done()
		if err := tun.Close(); err != nil {
			log.Printf("Failed to close ngrok tunnel: %v", err)
		}
	}()

	if err := http.Serve(tun, handler); err != nil && err != http.ErrServerClosed && ctx.Err() == nil {
		log.Printf("Ngrok server error: %v", err)
	}
	log.Println("Ngrok tunnel closed")
}

// initializeServices wires the session and config managers into the game service
func initializeServices(cfg *serverConfig) (service.GameService, *session.Manager, error) {
	configManager, err := config.NewManager(cfg.ConfigDir)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create config manager: %w", err)
	}

	sessionManager := session.NewManager()
	gameService := service.NewGameService(sessionManager, configManager)

	return gameService, sessionManager, nil
}

// sessionCleanupRoutine periodically removes sessions that have not been accessed
// within ttl. It stops when ctx is cancelled.
func sessionCleanupRoutine(ctx context.Context, manager *session.Manager, every, ttl time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if removed := manager.CleanupExpiredSessions(ttl); removed > 0 {
				log.Printf("Cleaned up %d expired sessions", removed)
			}
		}
	}
}

// runStdioMCPWithInternalServer runs an MCP stdio server.
// It tries to reuse an external API at http://localhost:8080; if unavailable, it
// starts a minimal internal HTTP API bound to a random loopback port and targets that.
func runStdioMCPWithInternalServer(ctx context.Context, gameService service.GameService) {
	baseURL := "http://localhost:8080"
	log.Printf("Checking for external API server at %s...", baseURL)

	testClient := &http.Client{Timeout: 2 * time.Second}
	resp, err := testClient.Get(baseURL + "/api/health")
	if err == nil && resp.StatusCode == http.StatusOK {
		resp.Body.Close()
		log.Printf("External API server found at %s, using it for MCP", baseURL)
	} else {
		if err == nil {
			resp.Body.Close()
		}
		log.Printf("No external API server found, starting internal HTTP server")

		listener, err := net.Listen("tcp", "127.0.0.1:0")
		if err != nil {
			log.Fatalf("Failed to get available port: %v", err)
		}
		baseURL = "http://" + listener.Addr().String()
		log.Printf("Starting internal HTTP server on %s for MCP stdio", listener.Addr())

		hub := websocket.NewHub()
		go hub.Run(ctx)

		httpServer := &http.Server{Handler: api.NewServer(gameService, hub)}
		go func() {
			if err := httpServer.Serve(listener); err != nil && err != http.ErrServerClosed {
				log.Printf("Internal HTTP server error: %v", err)
			}
		}()
		go func() {
			<-ctx.Done()
			httpServer.Close()
		}()
	}

	mcpClient := mcp.NewClient(baseURL)
	log.Printf("MCP stdio server ready (API at %s)", baseURL)

	if err := server.ServeStdio(mcpClient.GetMCPServer()); err != nil {
		log.Fatalf("MCP stdio server error: %v", err)
	}
}
