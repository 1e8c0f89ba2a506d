package main

import (
	"fmt"
	"log"
	"os"

	"github.com/ironsheep/facade-tools-mcp/internal/facade"
	"github.com/ironsheep/facade-tools-mcp/internal/server"
)

// Version information - set by ldflags during build
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

func main() {
	// Handle --version and -v flags
	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "--version", "-v", "version":
			fmt.Printf("facade-tools-mcp %s\n", Version)
			fmt.Printf("  Build time: %s\n", BuildTime)
			fmt.Printf("  Git commit: %s\n", GitCommit)
			return
		case "--help", "-h", "help":
			fmt.Println("facade-tools-mcp - MCP server for facade segmentation")
			fmt.Println()
			fmt.Println("Usage: facade-tools-mcp [options]")
			fmt.Println()
			fmt.Println("Options:")
			fmt.Println("  --version, -v    Print version information")
			fmt.Println("  --help, -h       Print this help message")
			fmt.Println()
			fmt.Println("Environment variables:")
			fmt.Println("  FACADE_MCP_LOG_LEVEL=debug    Enable debug logging of every pipeline stage")
			fmt.Println("  FACADE_MCP_CONFIG=<file>      YAML pipeline configuration (defaults otherwise)")
			fmt.Println()
			fmt.Println("This server communicates via MCP protocol over stdin/stdout.")
			fmt.Println("Configure it in your MCP client (e.g., Claude Desktop).")
			return
		}
	}

	// Configure logging to stderr (stdout is for MCP protocol)
	log.SetOutput(os.Stderr)
	log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)

	debug := os.Getenv("FACADE_MCP_LOG_LEVEL") == "debug"
	if debug {
		log.Printf("Facade MCP Server v%s (built %s, commit %s)", Version, BuildTime, GitCommit)
	}

	cfg := facade.DefaultConfig()
	if path := os.Getenv("FACADE_MCP_CONFIG"); path != "" {
		var err error
		if cfg, err = facade.LoadConfig(path); err != nil {
			log.Fatalf("Config error: %v", err)
		}
		if debug {
			log.Printf("Loaded configuration from %s", path)
		}
	}

	srv, err := server.NewWithConfig(cfg, debug)
	if err != nil {
		log.Fatalf("Config error: %v", err)
	}
	if err := srv.Run(); err != nil {
		log.Fatalf("Server error: %v", err)
	}
}
