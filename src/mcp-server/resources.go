// Copyright (c) 2025 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/H0llyW00dzZ/brssl-bridge/src/config"
	"github.com/H0llyW00dzZ/brssl-bridge/src/mcp-server/templates"
	"github.com/H0llyW00dzZ/brssl-bridge/src/native"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

const (
	configTemplateURI = "config://template"
	ownershipURI      = "docs://ownership"
	errorCodesURI     = "brssl://engine/error-codes"
)

// createResources returns the static resources served to clients.
func createResources() []server.ServerResource {
	return []server.ServerResource{
		{
			Resource: mcp.NewResource(
				configTemplateURI,
				"Configuration Template",
				mcp.WithResourceDescription("Default bridge configuration as JSON"),
				mcp.WithMIMEType("application/json"),
			),
			Handler: handleConfigResource,
		},
		{
			Resource: mcp.NewResource(
				ownershipURI,
				"Ownership Rules",
				mcp.WithResourceDescription("Which side of the bridge owns each object and when it is released"),
				mcp.WithMIMEType("text/markdown"),
			),
			Handler: handleOwnershipResource,
		},
		{
			Resource: mcp.NewResource(
				errorCodesURI,
				"Engine Error Codes",
				mcp.WithResourceDescription("Engine and X.509 error codes with their symbolic names"),
				mcp.WithMIMEType("application/json"),
			),
			Handler: handleErrorCodesResource,
		},
	}
}

func handleConfigResource(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	data, err := json.MarshalIndent(config.Default(), "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal config template: %w", err)
	}
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      configTemplateURI,
			MIMEType: "application/json",
			Text:     string(data),
		},
	}, nil
}

func handleOwnershipResource(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	data, err := templates.MagicEmbed.ReadFile("ownership.md")
	if err != nil {
		return nil, fmt.Errorf("failed to read ownership document: %w", err)
	}
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      ownershipURI,
			MIMEType: "text/markdown",
			Text:     string(data),
		},
	}, nil
}

type errorCode struct {
	Code int32  `json:"code"`
	Name string `json:"name"`
}

func handleErrorCodesResource(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	codes := native.ErrorCodes()
	out := make([]errorCode, 0, len(codes))
	for _, c := range codes {
		out = append(out, errorCode{Code: c, Name: native.ErrorName(c)})
	}

	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal error codes: %w", err)
	}
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      errorCodesURI,
			MIMEType: "application/json",
			Text:     string(data),
		},
	}, nil
}
