// Copyright (c) 2025 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package posix

import (
	"os"
	"path"
	"strings"
)

// DefaultName is used when the process was started without argv[0].
const DefaultName = "brssl-bridge"

// GetExecutableName returns [ExecutableName] of os.Args[0], or [DefaultName]
// when the process has no arguments.
func GetExecutableName() string {
	if len(os.Args) == 0 {
		return DefaultName
	}
	return ExecutableName(os.Args[0])
}

// ExecutableName reduces argv0 to a bare command name for usage strings.
// Both '/' and '\' separate path components regardless of the host OS, so a
// Windows path seen on a Unix system still yields the program name. A
// trailing ".exe" is removed in any letter case.
//
//   - "/usr/local/bin/brssl-bridge" → "brssl-bridge"
//   - `C:\bin\brssl-bridge.EXE` → "brssl-bridge"
//   - "" or a path ending in a separator → [DefaultName]
func ExecutableName(argv0 string) string {
	name := path.Base(strings.ReplaceAll(argv0, `\`, "/"))
	if name == "." || name == "/" {
		return DefaultName
	}

	if ext := path.Ext(name); strings.EqualFold(ext, ".exe") {
		name = strings.TrimSuffix(name, ext)
	}
	if name == "" {
		return DefaultName
	}
	return name
}
