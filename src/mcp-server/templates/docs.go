// Copyright (c) 2025 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

// Package templates provides embedded filesystem access for MCP server
// template files: the server instructions template rendered at start-up and
// the ownership documentation served as a resource.
//
// Example usage:
//
//	import "github.com/H0llyW00dzZ/brssl-bridge/src/mcp-server/templates"
//
//	content, err := templates.MagicEmbed.ReadFile("ownership.md")
//	if err != nil {
//		return fmt.Errorf("failed to read ownership rules: %w", err)
//	}
package templates
