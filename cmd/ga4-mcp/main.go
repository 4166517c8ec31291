package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/zmcp/ga4-mcp/internal/bridge"
	"github.com/zmcp/ga4-mcp/internal/config"
	"github.com/zmcp/ga4-mcp/internal/transport"
	httptransport "github.com/zmcp/ga4-mcp/internal/transport/http"
	"github.com/zmcp/ga4-mcp/internal/transport/stdio"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "ga4-mcp",
	Short: "Google Analytics 4 MCP server",
	Long: `Google Analytics 4 MCP server.

Exposes the GA4 Data and Admin APIs as Model Context Protocol tools,
resources, and prompts, authenticated with a service account.

Required environment variables (a .env file is loaded if present):
  GOOGLE_CLIENT_EMAIL   service account email
  GOOGLE_PRIVATE_KEY    service account private key (PEM, \n-escaped)
  GA_PROPERTY_ID        default GA4 property ID

Examples:
  ga4-mcp
  ga4-mcp --property 213025502 --verbose
  ga4-mcp --transport http --http-addr :8080`,
	Args: cobra.NoArgs,
	RunE: runServer,
}

func init() {
	// Load .env file if it exists
	godotenv.Load()

	cfg = &config.Config{}

	rootCmd.Flags().StringVar(&cfg.PropertyID, "property", "", "Default GA4 property ID (overrides GA_PROPERTY_ID env var)")
	rootCmd.Flags().StringVar(&cfg.ClientEmail, "client-email", "", "Service account email (overrides GOOGLE_CLIENT_EMAIL env var)")
	rootCmd.Flags().StringVar(&cfg.PrivateKeyFile, "private-key-file", "", "Path to a PEM file with the service account private key")

	rootCmd.Flags().StringVar(&cfg.Transport, "transport", "stdio", "Transport type: 'stdio' or 'http' (SSE)")
	rootCmd.Flags().StringVar(&cfg.HTTPAddr, "http-addr", ":8080", "HTTP server address (used with --transport http)")

	rootCmd.Flags().BoolVarP(&cfg.Verbose, "verbose", "v", false, "Enable verbose output to stderr")
	rootCmd.Flags().BoolVar(&cfg.Debug, "debug", false, "Alias for --verbose")
	rootCmd.Flags().BoolVar(&cfg.Trace, "trace", false, "Initialize, print the registered tools, resources, and prompts as JSON, then exit")

	viper.BindPFlag("property_id", rootCmd.Flags().Lookup("property"))
	viper.BindPFlag("client_email", rootCmd.Flags().Lookup("client-email"))
	viper.BindPFlag("verbose", rootCmd.Flags().Lookup("verbose"))

	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()
}

func runServer(cmd *cobra.Command, args []string) error {
	if cfg.Debug {
		cfg.Verbose = true
	}

	// Flags win over environment
	if cfg.ClientEmail == "" {
		cfg.ClientEmail = viper.GetString("GOOGLE_CLIENT_EMAIL")
	}
	if cfg.PrivateKey == "" {
		cfg.PrivateKey = viper.GetString("GOOGLE_PRIVATE_KEY")
	}
	if cfg.PropertyID == "" {
		cfg.PropertyID = viper.GetString("GA_PROPERTY_ID")
	}

	if cfg.PrivateKeyFile != "" {
		data, err := os.ReadFile(cfg.PrivateKeyFile)
		if err != nil {
			return fmt.Errorf("failed to read private key file: %w", err)
		}
		cfg.PrivateKey = string(data)
	}

	var missing []string
	if cfg.ClientEmail == "" {
		missing = append(missing, "GOOGLE_CLIENT_EMAIL")
	}
	if cfg.PrivateKey == "" {
		missing = append(missing, "GOOGLE_PRIVATE_KEY")
	}
	if cfg.PropertyID == "" {
		missing = append(missing, "GA_PROPERTY_ID")
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing required configuration: %s", strings.Join(missing, ", "))
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ga4Bridge, err := bridge.NewGA4MCPBridge(ctx, cfg)
	if err != nil {
		return fmt.Errorf("failed to create GA4 MCP bridge: %w", err)
	}

	if cfg.Trace {
		return printTraceInfo(ga4Bridge)
	}

	mcpServer := ga4Bridge.GetServer()
	handler := func(ctx context.Context, msg *transport.Message) (*transport.Message, error) {
		return mcpServer.HandleMessage(ctx, msg)
	}

	var trans transport.Transport
	if cfg.UseHTTP() {
		if cfg.Verbose {
			fmt.Fprintf(os.Stderr, "[VERBOSE] Starting HTTP/SSE transport on %s\n", cfg.HTTPAddr)
		}
		trans = httptransport.NewSSE(cfg.HTTPAddr, handler)
	} else {
		if cfg.Verbose {
			fmt.Fprintf(os.Stderr, "[VERBOSE] Starting stdio transport\n")
		}
		trans = stdio.New(handler)
	}

	mcpServer.SetTransport(trans)

	go func() {
		<-sigChan
		if cfg.Verbose {
			fmt.Fprintf(os.Stderr, "[VERBOSE] Shutting down\n")
		}
		ga4Bridge.Stop()
		cancel()
	}()

	if err := ga4Bridge.Run(); err != nil && err != context.Canceled {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}

func printTraceInfo(b *bridge.GA4MCPBridge) error {
	data, err := json.MarshalIndent(b.GetTraceInfo(), "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(data))
	return nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
