// Copyright (c) 2025 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package posix

import (
	"os"
	"path/filepath"
	"strings"
)

// fallbackName is reported when os.Args carries no program name.
const fallbackName = "installcert"

// GetExecutableName returns the executable name without extension, cross-platform compatible.
// It is used to build the usage line printed when the target host is missing:
//   - Linux/macOS: "installcert" from "/usr/local/bin/installcert"
//   - Windows: "installcert" from "C:\bin\installcert.exe"
//   - Fallback: "installcert" if os.Args[0] is unavailable
//
// Returns:
//   - string: Clean executable name suitable for CLI usage
func GetExecutableName() string {
	if len(os.Args) == 0 || os.Args[0] == "" {
		return fallbackName
	}
	return trimExecutable(os.Args[0])
}

// trimExecutable strips directories using both separator styles, since a
// Windows path seen on a Unix host is not split by filepath.Base.
func trimExecutable(arg0 string) string {
	name := filepath.Base(arg0)
	if i := strings.LastIndexAny(name, `/\`); i >= 0 {
		name = name[i+1:]
	}
	if name == "" || name == "." || name == string(filepath.Separator) {
		return fallbackName
	}
	return strings.TrimSuffix(name, ".exe")
}
