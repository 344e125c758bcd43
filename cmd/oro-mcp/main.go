package main

import (
	"crypto/tls"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/mark3labs/mcp-go/server"
	toml "github.com/pelletier/go-toml/v2"

	"github.com/orotools/oro-mcp/internal/auth"
	"github.com/orotools/oro-mcp/internal/catalog"
	"github.com/orotools/oro-mcp/internal/client"
	"github.com/orotools/oro-mcp/internal/common"
	"github.com/orotools/oro-mcp/internal/swagger"
)

// ServerConfig holds MCP server settings.
type ServerConfig struct {
	Name string `toml:"name"`
	Port string `toml:"port"`
}

// OroConfig holds the upstream ORO API connection settings.
type OroConfig struct {
	BaseURL      string `toml:"base_url"`
	TokenURL     string `toml:"token_url"`
	ClientID     string `toml:"client_id"`
	ClientSecret string `toml:"client_secret"`
	SwaggerFile  string `toml:"swagger_file"`
	InsecureTLS  bool   `toml:"insecure_tls"`
}

// Config holds all oro-mcp configuration.
type Config struct {
	Server  ServerConfig         `toml:"server"`
	Oro     OroConfig            `toml:"oro"`
	Logging common.LoggingConfig `toml:"logging"`
}

// newDefaultConfig returns a Config with sensible defaults.
func newDefaultConfig() Config {
	return Config{
		Server: ServerConfig{
			Name: "Oro-MCP",
			Port: "4280",
		},
		Oro: OroConfig{
			SwaggerFile: "swagger.json",
		},
		Logging: common.LoggingConfig{
			Level:      "info",
			Outputs:    []string{"console", "file"},
			FilePath:   "logs/oro-mcp.log",
			MaxSizeMB:  100,
			MaxBackups: 3,
		},
	}
}

// loadConfig loads configuration from a TOML file with defaults and env overrides.
func loadConfig(path string) Config {
	cfg := newDefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			if !os.IsNotExist(err) {
				log.Fatalf("Failed to read config file %s: %v", path, err)
			}
			// File not found — use defaults
		} else {
			if err := toml.Unmarshal(data, &cfg); err != nil {
				log.Fatalf("Failed to parse config file %s: %v", path, err)
			}
		}
	}

	// Apply environment overrides
	if v := os.Getenv("ORO_BASE_URL"); v != "" {
		cfg.Oro.BaseURL = v
	}
	if v := os.Getenv("ORO_TOKEN_URL"); v != "" {
		cfg.Oro.TokenURL = v
	}
	if v := os.Getenv("ORO_CLIENT_ID"); v != "" {
		cfg.Oro.ClientID = v
	}
	if v := os.Getenv("ORO_CLIENT_SECRET"); v != "" {
		cfg.Oro.ClientSecret = v
	}
	if v := os.Getenv("ORO_SWAGGER_FILE"); v != "" {
		cfg.Oro.SwaggerFile = v
	}
	if v := os.Getenv("ORO_INSECURE_TLS"); v == "true" || v == "1" {
		cfg.Oro.InsecureTLS = true
	}
	if v := os.Getenv("ORO_MCP_PORT"); v != "" {
		cfg.Server.Port = v
	}

	return cfg
}

func main() {
	stdio := flag.Bool("stdio", false, "Use stdio transport (for Claude Desktop)")
	configFile := flag.String("config", "oro-mcp.toml", "Path to config file")
	flag.Parse()

	cfg := loadConfig(*configFile)

	// Load version
	common.LoadVersionFromFile()

	// Setup logging
	logger := common.NewLoggerFromConfig(cfg.Logging)

	if cfg.Oro.BaseURL == "" {
		log.Fatal("ORO base URL is required (set oro.base_url or ORO_BASE_URL)")
	}
	if cfg.Oro.TokenURL == "" {
		cfg.Oro.TokenURL = cfg.Oro.BaseURL + "/oauth2-token"
	}

	// Load the API schema and synthesize the tool catalog
	doc, err := swagger.LoadFile(cfg.Oro.SwaggerFile)
	if err != nil {
		log.Fatalf("Failed to load API schema %s: %v", cfg.Oro.SwaggerFile, err)
	}
	if doc.IsSwagger2() {
		logger.Warn().
			Str("version", doc.Swagger).
			Msg("Schema declares Swagger 2.x, proceeding with best-effort parsing")
	}

	endpoints := swagger.Enumerate(doc)
	cat := catalog.NewCatalog(catalog.SynthesizeTools(endpoints), logger)
	logger.Info().
		Int("endpoints", len(endpoints)).
		Int("tools", cat.Len()).
		Str("title", doc.Info.Title).
		Msg("Tool catalog built from API schema")

	httpClient := &http.Client{Timeout: 300 * time.Second}
	if cfg.Oro.InsecureTLS {
		logger.Warn().Msg("TLS certificate verification disabled")
		httpClient.Transport = &http.Transport{
			TLSClientConfig: &tls.Config{InsecureSkipVerify: true},
		}
	}

	tokens := auth.NewTokenManager(cfg.Oro.TokenURL, cfg.Oro.ClientID, cfg.Oro.ClientSecret, httpClient, logger)
	oro := client.NewOroClient(cfg.Oro.BaseURL, httpClient, tokens, logger)

	// Create MCP server with tool definitions
	mcpServer := server.NewMCPServer(
		cfg.Server.Name,
		common.GetVersion(),
		server.WithToolCapabilities(true),
	)

	// Register catalog tools plus the meta tools
	registerTools(mcpServer, oro, cat, logger)

	if *stdio {
		// Stdio transport — reads stdin, writes stdout
		if err := server.ServeStdio(mcpServer); err != nil {
			fmt.Fprintf(os.Stderr, "stdio server error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	port := cfg.Server.Port

	// Streamable HTTP transport — listens on configured port
	httpServer := server.NewStreamableHTTPServer(mcpServer,
		server.WithStateLess(true),
	)

	log.Printf("Starting MCP Streamable HTTP on :%s", port)
	fmt.Fprintf(os.Stderr, "Starting MCP Streamable HTTP on :%s\n", port)

	if err := httpServer.Start(":" + port); err != nil {
		fmt.Fprintf(os.Stderr, "http server error: %v\n", err)
		os.Exit(1)
	}
}
