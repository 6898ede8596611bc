// Task board MCP server.
//
// Exposes the task board to AI coding tools over the Model Context
// Protocol (stdio transport). Shares the database and service layer with
// the HTTP API, so both surfaces see the same boards and archive.
//
// Usage:
//
//	taskboard-mcp serve    # Start MCP server (stdio transport)
package main

import (
	"fmt"
	"os"

	_ "github.com/joho/godotenv/autoload"
	"github.com/mark3labs/mcp-go/server"

	"taskboard-api/internal/config"
	"taskboard-api/internal/mcpserver"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "serve":
		if err := run(); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	case "--help", "-h", "help":
		printUsage()
		os.Exit(0)
	case "--version", "-v", "version":
		fmt.Printf("taskboard-mcp v%s\n", mcpserver.Version)
		os.Exit(0)
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}
}

func run() error {
	cfg := config.Load()

	s, err := mcpserver.New(cfg)
	if err != nil {
		return fmt.Errorf("creating server: %w", err)
	}

	return server.ServeStdio(s)
}

func printUsage() {
	fmt.Fprintf(os.Stderr, `taskboard-mcp v%s — Task Board MCP Server

Usage:
  taskboard-mcp serve    Start the MCP server (stdio transport)

Configuration:
  Database and archiving settings come from the environment (or a .env
  file), the same variables the HTTP server uses.

  Add to your AI tool's MCP config:

  {
    "mcpServers": {
      "taskboard": {
        "command": "taskboard-mcp",
        "args": ["serve"]
      }
    }
  }
`, mcpserver.Version)
}
