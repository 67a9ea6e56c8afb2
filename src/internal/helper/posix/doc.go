// Copyright (c) 2025 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

// Package posix turns the process's argv[0] into the command name shown in
// usage and example strings, the way [POSIX] utilities print their own name.
//
// The command tree uses it for its Use field, so a binary renamed or
// installed as "brssl" documents itself as "brssl":
//
//	rootCmd := &cobra.Command{
//	    Use:     posix.GetExecutableName(),
//	    Example: fmt.Sprintf("  %s anchors roots.pem", posix.GetExecutableName()),
//	}
//
// [ExecutableName] works on any string and treats both path separators
// alike, so "/usr/bin/myapp" and `C:\bin\myapp.EXE` both become "myapp".
//
// [POSIX]: https://grokipedia.com/page/POSIX
package posix
