// kabunga-mcp is a stdio MCP bridge for assistants running on another
// machine than the server. Tools are served locally over stdio while the
// data comes from the remote REST API (typically over Tailscale).
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/claude/kabunga/internal/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"
)

// Version is set at build time via -ldflags.
var Version = "dev"

func main() {
	serverURL := flag.String("server", "", "Kabunga server URL (e.g. https://kabunga.tail1234.ts.net)")
	version := flag.Bool("version", false, "print version and exit")
	flag.Parse()

	if *version {
		fmt.Println("kabunga-mcp", Version)
		return
	}

	// stdout carries the protocol; logs go to stderr
	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo}))

	if *serverURL == "" {
		fmt.Fprintf(os.Stderr, "Usage: kabunga-mcp -server <URL>\n\n")
		flag.PrintDefaults()
		os.Exit(1)
	}
	*serverURL = strings.TrimRight(*serverURL, "/")

	ds := mcp.NewHTTPClient(*serverURL)

	// No tracker here: the live session tool reports unavailable and the
	// assistant falls back to the REST-backed tools.
	srv := mcp.New(ds, nil, Version, log)

	log.Info("kabunga-mcp serving stdio", "server", *serverURL)
	if err := mcpserver.ServeStdio(srv); err != nil {
		log.Error("stdio server failed", "error", err)
		os.Exit(1)
	}
}
