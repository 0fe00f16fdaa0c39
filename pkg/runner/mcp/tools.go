package mcp

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

func registerTools(srv *server.MCPServer, svc *Service) {
	registerListGamesTool(srv, svc)
	registerListSectionsTool(srv, svc)
	registerSetSegmentTool(srv, svc)
	registerProgressTool(srv, svc)
	registerToggleSlotTool(srv, svc)
	registerSetBoxTool(srv, svc)
	registerExportShareTool(srv, svc)
	registerImportShareTool(srv, svc)
	registerSearchSlotsTool(srv, svc)
}

func gameArg() mcp.ToolOption {
	return mcp.WithString("game",
		mcp.Description("Game id such as home or swsh. Defaults to the configured game."),
	)
}

func registerListGamesTool(srv *server.MCPServer, svc *Service) {
	tool := mcp.NewTool(
		"list_games",
		mcp.WithDescription("List every trackable game and its segments."),
	)

	srv.AddTool(tool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		games, err := svc.ListGames(ctx)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return toJSONResult(map[string]any{
			"games": games,
			"count": len(games),
		})
	})
}

func registerListSectionsTool(srv *server.MCPServer, svc *Service) {
	tool := mcp.NewTool(
		"list_sections",
		mcp.WithDescription("List a game's segments with their enabled state and slot ranges."),
		gameArg(),
	)

	srv.AddTool(tool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		game := request.GetString("game", "")
		sections, err := svc.Sections(ctx, game)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return toJSONResult(map[string]any{
			"game":     game,
			"sections": sections,
		})
	})
}

func registerSetSegmentTool(srv *server.MCPServer, svc *Service) {
	tool := mcp.NewTool(
		"set_segment",
		mcp.WithDescription("Enable or disable an optional segment such as a DLC dex. Slot numbers after it shift."),
		gameArg(),
		mcp.WithString("key",
			mcp.Required(),
			mcp.Description("Segment key to change."),
		),
		mcp.WithBoolean("enabled",
			mcp.Required(),
			mcp.Description("Whether the segment should be included."),
		),
	)

	srv.AddTool(tool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		var args struct {
			Game    string `json:"game"`
			Key     string `json:"key"`
			Enabled bool   `json:"enabled"`
		}
		if err := request.BindArguments(&args); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("invalid arguments: %v", err)), nil
		}
		sections, err := svc.SetSegment(ctx, args.Game, args.Key, args.Enabled)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return toJSONResult(map[string]any{
			"game":     args.Game,
			"sections": sections,
		})
	})
}

func registerProgressTool(srv *server.MCPServer, svc *Service) {
	tool := mcp.NewTool(
		"progress",
		mcp.WithDescription("Report caught counts overall, per section and optionally per box."),
		gameArg(),
		mcp.WithBoolean("boxes",
			mcp.Description("Include one row per box of 30."),
		),
	)

	srv.AddTool(tool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		report, err := svc.Progress(ctx, request.GetString("game", ""), request.GetBool("boxes", false))
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return toJSONResult(report)
	})
}

func registerToggleSlotTool(srv *server.MCPServer, svc *Service) {
	tool := mcp.NewTool(
		"toggle_slot",
		mcp.WithDescription("Toggle a slot, or mark it caught or uncaught."),
		gameArg(),
		mcp.WithNumber("slot",
			mcp.Required(),
			mcp.Description("Global slot number, starting at 1."),
			mcp.Min(1),
		),
		mcp.WithString("mode",
			mcp.Description("toggle (default), catch or clear."),
			mcp.Enum("toggle", "catch", "clear"),
		),
	)

	srv.AddTool(tool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		slot, err := request.RequireInt("slot")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		dto, err := svc.ToggleSlot(ctx, request.GetString("game", ""), slot, request.GetString("mode", ""))
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return toJSONResult(dto)
	})
}

func registerSetBoxTool(srv *server.MCPServer, svc *Service) {
	tool := mcp.NewTool(
		"set_box",
		mcp.WithDescription("Mark every slot in a box caught or uncaught."),
		gameArg(),
		mcp.WithNumber("box",
			mcp.Required(),
			mcp.Description("Box number, starting at 1."),
			mcp.Min(1),
		),
		mcp.WithBoolean("caught",
			mcp.Required(),
			mcp.Description("true to catch the whole box, false to clear it."),
		),
	)

	srv.AddTool(tool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		var args struct {
			Game   string `json:"game"`
			Box    int    `json:"box"`
			Caught bool   `json:"caught"`
		}
		if err := request.BindArguments(&args); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("invalid arguments: %v", err)), nil
		}
		dto, err := svc.SetBox(ctx, args.Game, args.Box, args.Caught)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return toJSONResult(dto)
	})
}

func registerExportShareTool(srv *server.MCPServer, svc *Service) {
	tool := mcp.NewTool(
		"export_share",
		mcp.WithDescription("Produce a share link carrying the game's caught flags."),
		gameArg(),
		mcp.WithString("base_url",
			mcp.Description("Page URL to attach the #s= fragment to. Empty returns the fragment alone."),
		),
	)

	srv.AddTool(tool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		game := request.GetString("game", "")
		link, err := svc.ExportShare(ctx, game, request.GetString("base_url", ""))
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return toJSONResult(map[string]any{
			"game": game,
			"link": link,
		})
	})
}

func registerImportShareTool(srv *server.MCPServer, svc *Service) {
	tool := mcp.NewTool(
		"import_share",
		mcp.WithDescription("Preview a share link and, with confirm set, overwrite the game's progress with it."),
		gameArg(),
		mcp.WithString("link",
			mcp.Required(),
			mcp.Description("Share link or #s= fragment."),
		),
		mcp.WithBoolean("confirm",
			mcp.Description("Apply the import. Without it only the caught counts are reported."),
		),
	)

	srv.AddTool(tool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		link, err := request.RequireString("link")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		res, err := svc.ImportShare(ctx, request.GetString("game", ""), link, request.GetBool("confirm", false))
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return toJSONResult(res)
	})
}

func registerSearchSlotsTool(srv *server.MCPServer, svc *Service) {
	tool := mcp.NewTool(
		"search_slots",
		mcp.WithDescription("Find slots by number (#25 or 25) or by species name substring."),
		gameArg(),
		mcp.WithString("query",
			mcp.Required(),
			mcp.Description("Slot or species number, or part of a name."),
		),
		mcp.WithNumber("limit",
			mcp.Description("Maximum number of slots to return (default 20)."),
			mcp.Min(1),
			mcp.Max(200),
		),
	)

	srv.AddTool(tool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		query, err := request.RequireString("query")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		limit := request.GetInt("limit", 20)

		results, err := svc.SearchSlots(ctx, request.GetString("game", ""), query, limit)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return toJSONResult(map[string]any{
			"query":   query,
			"limit":   limit,
			"results": results,
			"count":   len(results),
		})
	})
}

func toJSONResult(data any) (*mcp.CallToolResult, error) {
	result, err := mcp.NewToolResultJSON(data)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("marshal error: %v", err)), nil
	}
	return result, nil
}
