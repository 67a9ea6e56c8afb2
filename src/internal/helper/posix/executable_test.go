// Copyright (c) 2025 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package posix

import (
	"os"
	"testing"
)

func TestExecutableName(t *testing.T) {
	tests := []struct {
		name     string
		argv0    string
		expected string
	}{
		{name: "Just filename", argv0: "brssl-bridge", expected: "brssl-bridge"},
		{name: "Relative path", argv0: "./bin/myapp", expected: "myapp"},
		{name: "Unix absolute path", argv0: "/usr/local/bin/myapp", expected: "myapp"},
		{name: "Windows absolute path with .exe", argv0: `C:\Program Files\myapp.exe`, expected: "myapp"},
		{name: "Windows extension in upper case", argv0: `C:\bin\MyApp.EXE`, expected: "MyApp"},
		{name: "Mixed separators", argv0: `C:\Users\user/bin\myapp.exe`, expected: "myapp"},
		{name: "Other extensions are kept", argv0: "/opt/tool.sh", expected: "tool.sh"},
		{name: "Only an extension", argv0: "/bin/.exe", expected: DefaultName},
		{name: "Trailing separator", argv0: "/usr/bin/", expected: "bin"},
		{name: "Root", argv0: "/", expected: DefaultName},
		{name: "Empty", argv0: "", expected: DefaultName},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ExecutableName(tt.argv0); got != tt.expected {
				t.Errorf("ExecutableName(%q) = %q, want %q", tt.argv0, got, tt.expected)
			}
		})
	}
}

func TestGetExecutableName(t *testing.T) {
	tests := []struct {
		name     string
		args     []string
		expected string
	}{
		{name: "No arguments", args: []string{}, expected: DefaultName},
		{name: "Empty first arg", args: []string{""}, expected: DefaultName},
		{name: "Path", args: []string{"/usr/bin/myapp", "anchors"}, expected: "myapp"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			orig := os.Args
			os.Args = tt.args
			defer func() { os.Args = orig }()

			if got := GetExecutableName(); got != tt.expected {
				t.Errorf("GetExecutableName() = %q, want %q", got, tt.expected)
			}
		})
	}
}
