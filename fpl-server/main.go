package main

import (
	"context"
	"crypto/subtle"
	"encoding/json"
	"flag"
	"fmt"
	"net/http"
	"os"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/rs/zerolog"

	"github.com/aatrey56/fpl-squad-planner/internal/chip"
	"github.com/aatrey56/fpl-squad-planner/internal/config"
)

type toolInfo struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

func main() {
	var (
		addr         = flag.String("addr", ":8080", "HTTP listen address")
		mcpPath      = flag.String("path", "/mcp", "HTTP path for MCP endpoint")
		configPath   = flag.String("config", "config.yaml", "planner configuration file")
		rawRoot      = flag.String("raw-root", "", "root directory for raw JSON (overrides config)")
		derivedRoot  = flag.String("derived-root", "", "root directory for derived JSON (overrides config)")
		sqlitePath   = flag.String("sqlite", "", "players SQLite database (overrides config)")
		writeDerived = flag.Bool("write-derived", true, "write plan reports to derived root")
		requireAuth  = flag.Bool("require-auth", true, "require API key auth via FPL_PLANNER_API_KEY")
		authHeader   = flag.String("auth-header", "X-API-Key", "HTTP header to read API key from")
	)
	flag.Parse()

	logger := zerolog.New(os.Stderr).With().Timestamp().Logger()

	planner, err := config.Load(*configPath)
	if err != nil {
		logger.Fatal().Err(err).Str("path", *configPath).Msg("load config")
	}

	cfg := ServerConfig{
		Planner:      planner,
		RawRoot:      planner.Data.RawRoot,
		DerivedRoot:  planner.Data.DerivedRoot,
		SQLitePath:   planner.Data.SQLitePath,
		WriteDerived: *writeDerived,
	}
	if *rawRoot != "" {
		cfg.RawRoot = *rawRoot
	}
	if *derivedRoot != "" {
		cfg.DerivedRoot = *derivedRoot
	}
	if *sqlitePath != "" {
		cfg.SQLitePath = *sqlitePath
	}

	// One chip state per planning session; the server process is the session.
	chipState := chip.NewState()

	server := mcp.NewServer(
		&mcp.Implementation{
			Name:    "fpl-squad-planner",
			Version: "0.1.0",
		},
		nil,
	)

	registry := make([]toolInfo, 0, 8)

	addTool(server, &registry, &mcp.Tool{
		Name:        "optimal_squad",
		Description: "Build the optimal 15-player squad under budget, composition, and club limits",
	}, func(ctx context.Context, req *mcp.CallToolRequest, args OptimalSquadArgs) (*mcp.CallToolResult, any, error) {
		out, err := buildOptimalSquad(ctx, cfg, args)
		if err != nil {
			return toolError(err), nil, nil
		}
		return toolJSON(out)
	})

	addTool(server, &registry, &mcp.Tool{
		Name:        "lineup",
		Description: "Pick the best starting XI, captain, and bench order for a fixed squad",
	}, func(ctx context.Context, req *mcp.CallToolRequest, args LineupArgs) (*mcp.CallToolResult, any, error) {
		out, err := buildLineup(ctx, cfg, args)
		if err != nil {
			return toolError(err), nil, nil
		}
		return toolJSON(out)
	})

	addTool(server, &registry, &mcp.Tool{
		Name:        "transfer_plan",
		Description: "Rank transfer options for a squad (weak links out, shortlisted replacements in, point hits priced)",
	}, func(ctx context.Context, req *mcp.CallToolRequest, args TransferPlanArgs) (*mcp.CallToolResult, any, error) {
		out, err := buildTransferPlan(ctx, cfg, args)
		if err != nil {
			return toolError(err), nil, nil
		}
		return toolJSON(out)
	})

	addTool(server, &registry, &mcp.Tool{
		Name:        "chip_advice",
		Description: "Evaluate Triple Captain, Bench Boost, Wildcard, and Free Hit for this gameweek",
	}, func(ctx context.Context, req *mcp.CallToolRequest, args ChipAdviceArgs) (*mcp.CallToolResult, any, error) {
		out, err := buildChipAdvice(ctx, cfg, chipState, args)
		if err != nil {
			return toolError(err), nil, nil
		}
		return toolJSON(out)
	})

	addTool(server, &registry, &mcp.Tool{
		Name:        "pool_rankings",
		Description: "Rank eligible pool players per position by projected points over the horizon",
	}, func(ctx context.Context, req *mcp.CallToolRequest, args PoolRankingsArgs) (*mcp.CallToolResult, any, error) {
		out, err := buildPoolRankings(ctx, cfg, args)
		if err != nil {
			return toolError(err), nil, nil
		}
		return toolJSON(out)
	})

	addTool(server, &registry, &mcp.Tool{
		Name:        "fixture_ease",
		Description: "Convert a fixture difficulty rating (1-5) to a fixture ease score (0-1)",
	}, func(ctx context.Context, req *mcp.CallToolRequest, args FixtureEaseArgs) (*mcp.CallToolResult, any, error) {
		out, err := buildFixtureEase(args)
		if err != nil {
			return toolError(err), nil, nil
		}
		return toolJSON(out)
	})

	addTool(server, &registry, &mcp.Tool{
		Name:        "player_lookup",
		Description: "Lookup a pool player by id",
	}, func(ctx context.Context, req *mcp.CallToolRequest, args PlayerLookupArgs) (*mcp.CallToolResult, any, error) {
		if args.PlayerID == 0 {
			return toolError(fmt.Errorf("player_id is required")), nil, nil
		}
		out, err := lookupPlayer(ctx, cfg, args.PlayerID)
		if err != nil {
			return toolError(err), nil, nil
		}
		return toolJSON(out)
	})

	handler := mcp.NewStreamableHTTPHandler(func(r *http.Request) *mcp.Server {
		return server
	}, &mcp.StreamableHTTPOptions{JSONResponse: true})

	apiKey := strings.TrimSpace(os.Getenv("FPL_PLANNER_API_KEY"))
	if *requireAuth && apiKey == "" {
		logger.Fatal().Msg("FPL_PLANNER_API_KEY is required (set env var or run with --require-auth=false)")
	}

	withAuth := func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			if apiKey == "" {
				next(w, r)
				return
			}
			key := strings.TrimSpace(r.Header.Get(*authHeader))
			if key == "" {
				if authz := r.Header.Get("Authorization"); strings.HasPrefix(strings.ToLower(authz), "bearer ") {
					key = strings.TrimSpace(authz[7:])
				}
			}
			if subtle.ConstantTimeCompare([]byte(key), []byte(apiKey)) != 1 {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusUnauthorized)
				w.Write([]byte(`{"error":"unauthorized"}`))
				return
			}
			next(w, r)
		}
	}

	http.HandleFunc("/health", withAuth(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	}))

	http.HandleFunc("/tools", withAuth(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		b, _ := json.MarshalIndent(map[string]any{"tools": registry}, "", "  ")
		w.Write(b)
	}))

	http.HandleFunc(*mcpPath, withAuth(func(w http.ResponseWriter, r *http.Request) {
		handler.ServeHTTP(w, r)
	}))

	logger.Info().Str("addr", *addr).Str("path", *mcpPath).Msg("MCP HTTP server listening")
	if err := http.ListenAndServe(*addr, nil); err != nil {
		logger.Fatal().Err(err).Msg("serve")
	}
}

func addTool[T any](server *mcp.Server, registry *[]toolInfo, tool *mcp.Tool, handler func(context.Context, *mcp.CallToolRequest, T) (*mcp.CallToolResult, any, error)) {
	*registry = append(*registry, toolInfo{Name: tool.Name, Description: tool.Description})
	mcp.AddTool(server, tool, handler)
}

func toolJSON(v any) (*mcp.CallToolResult, any, error) {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return toolError(err), nil, nil
	}
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: string(b)},
		},
	}, nil, nil
}

func toolError(err error) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		IsError: true,
		Content: []mcp.Content{
			&mcp.TextContent{Text: fmt.Sprintf("error: %v", err)},
		},
	}
}
