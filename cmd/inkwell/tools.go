package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/inkwell-ai/inkwell/internal/agent"
)

// clientContentDir is where per-client knowledge base documents live:
// one subdirectory per client, markdown or text files inside.
func clientContentDir() string {
	if dataHome := os.Getenv("XDG_DATA_HOME"); dataHome != "" {
		return filepath.Join(dataHome, "inkwell", "clients")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", ".inkwell", "clients")
	}
	return filepath.Join(home, ".local", "share", "inkwell", "clients")
}

// builtinTools registers the tools workflow prompts may invoke.
func builtinTools() *agent.ToolRegistry {
	registry := agent.NewToolRegistry()
	registry.Register("rag_get_client_content", ragGetClientContent)
	registry.Register("web_search", webSearch)
	return registry
}

// ragGetClientContent concatenates the client's local knowledge base
// documents, newest-named last for stable output.
func ragGetClientContent(ctx context.Context, args string) (string, error) {
	client := strings.ToLower(strings.ReplaceAll(strings.TrimSpace(args), " ", "_"))
	if client == "" {
		return "", fmt.Errorf("client name is required")
	}

	dir := filepath.Join(clientContentDir(), client)
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Sprintf("No knowledge base documents found for client %q. Add files under %s.", args, dir), nil
		}
		return "", fmt.Errorf("read client content dir: %w", err)
	}

	var names []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		switch filepath.Ext(e.Name()) {
		case ".md", ".txt":
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)

	var b strings.Builder
	for _, name := range names {
		data, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			return "", fmt.Errorf("read %s: %w", name, err)
		}
		fmt.Fprintf(&b, "=== %s ===\n%s\n\n", name, strings.TrimSpace(string(data)))
	}
	if b.Len() == 0 {
		return fmt.Sprintf("No knowledge base documents found for client %q. Add .md or .txt files under %s.", args, dir), nil
	}
	return strings.TrimRight(b.String(), "\n"), nil
}

// webSearch is not wired to a live search backend; the error surfaces in
// the response as a tool error marker so the workflow keeps going.
func webSearch(ctx context.Context, args string) (string, error) {
	return "", fmt.Errorf("web search backend not configured; query was %q", args)
}
