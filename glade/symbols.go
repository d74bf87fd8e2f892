package glade

import (
	"regexp"
	"strings"
)

var (
	identifierRun = regexp.MustCompile(`\w+`)
	classRun      = regexp.MustCompile(`[a-zA-Z0-9]+`)
	instanceBreak = regexp.MustCompile(`([a-z])([A-Z])`)
)

// Normalize strips every character that cannot appear in a Python identifier,
// joining the remaining runs with underscores.
//
//	"main-window.glade" -> "main_window_glade"
//	"!!!"               -> ""
func Normalize(name string) string {
	return strings.Join(identifierRun.FindAllString(name, -1), "_")
}

// Capitalize converts a widget id to a class name.
// The id is normalized, split on alphanumeric runs, and each run's first
// letter is upper-cased (e.g., "main_window" -> "MainWindow").
func Capitalize(name string) string {
	var result strings.Builder
	for _, run := range classRun.FindAllString(Normalize(name), -1) {
		result.WriteString(strings.ToUpper(run[:1]))
		result.WriteString(run[1:])
	}
	return result.String()
}

// Uncapitalize converts a widget id to an instance name.
// The first letter is lower-cased and every lower/upper boundary gets an
// underscore (e.g., "MainWindow" -> "main_window").
func Uncapitalize(name string) string {
	base := Normalize(name)
	if base == "" {
		return ""
	}
	base = strings.ToLower(base[:1]) + base[1:]
	return instanceBreak.ReplaceAllStringFunc(base, func(pair string) string {
		return pair[:1] + "_" + strings.ToLower(pair[1:])
	})
}
