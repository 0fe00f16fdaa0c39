package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

func registerResources(srv *server.MCPServer, svc *Service) {
	registerGamesResource(srv, svc)
	registerProgressTemplate(srv, svc)
	registerBoxTemplate(srv, svc)
}

func registerGamesResource(srv *server.MCPServer, svc *Service) {
	resource := mcp.NewResource(
		"livedex://games",
		"Games",
		mcp.WithResourceDescription("All trackable games with their segments."),
		mcp.WithMIMEType("application/json"),
	)

	srv.AddResource(resource, func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		games, err := svc.ListGames(ctx)
		if err != nil {
			return nil, err
		}

		payload := map[string]any{
			"games": games,
			"count": len(games),
		}
		return encodeResourceJSON(request.Params.URI, payload)
	})
}

func registerProgressTemplate(srv *server.MCPServer, svc *Service) {
	template := mcp.NewResourceTemplate(
		"livedex://games/{id}/progress",
		"Game Progress",
		mcp.WithTemplateDescription("Caught counts for a game, overall and per section and box."),
		mcp.WithTemplateMIMEType("application/json"),
	)

	srv.AddResourceTemplate(template, func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		id := templateArg(request, "id")
		if id == "" {
			return nil, fmt.Errorf("game id is required")
		}

		report, err := svc.Progress(ctx, id, true)
		if err != nil {
			return nil, err
		}
		return encodeResourceJSON(request.Params.URI, report)
	})
}

func registerBoxTemplate(srv *server.MCPServer, svc *Service) {
	template := mcp.NewResourceTemplate(
		"livedex://games/{id}/boxes/{box}",
		"Box Contents",
		mcp.WithTemplateDescription("The slots of one box of 30 with caught flags."),
		mcp.WithTemplateMIMEType("application/json"),
	)

	srv.AddResourceTemplate(template, func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		id := templateArg(request, "id")
		n, err := strconv.Atoi(templateArg(request, "box"))
		if id == "" || err != nil || n < 1 {
			return nil, fmt.Errorf("game id and a box number are required")
		}

		box, err := svc.Box(ctx, id, n)
		if err != nil {
			return nil, err
		}
		return encodeResourceJSON(request.Params.URI, box)
	})
}

// templateArg reads a URI template variable. Depending on the matcher the
// value arrives as a string or a one-element slice.
func templateArg(request mcp.ReadResourceRequest, name string) string {
	switch v := request.Params.Arguments[name].(type) {
	case string:
		return v
	case []string:
		if len(v) > 0 {
			return v[0]
		}
	}
	return ""
}

func encodeResourceJSON(uri string, payload any) ([]mcp.ResourceContents, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		},
	}, nil
}
