// Copyright (c) 2025 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

// Package logger provides the Logger interface used for command output, with
// a human-readable CLILogger and a zap-backed JSONLogger. NewZap builds the
// structured logger that receives host and bridge lifecycle events.
package logger
