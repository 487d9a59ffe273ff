package bundler

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// Stats is the subset of webpack's stats JSON mk cares about.
type Stats struct {
	Errors   []string
	Warnings []string
}

// rawStats mirrors the stats JSON. webpack 4 emits messages as strings,
// webpack 5 as objects, so each entry is decoded lazily.
type rawStats struct {
	Errors   []json.RawMessage `json:"errors"`
	Warnings []json.RawMessage `json:"warnings"`
	Children []rawStats        `json:"children"`
}

// rawMessage is a webpack 5 stats error/warning object.
type rawMessage struct {
	Message    string `json:"message"`
	ModuleName string `json:"moduleName"`
	Loc        string `json:"loc"`
}

// ParseStats decodes webpack stats JSON. Any text before the first '{'
// (banner lines some plugins print to stdout) is skipped. Errors and
// warnings of child compilations are appended after the parent's.
func ParseStats(out []byte) (*Stats, error) {
	start := bytes.IndexByte(out, '{')
	if start < 0 {
		return nil, fmt.Errorf("bundler printed no stats JSON")
	}

	var raw rawStats
	if err := json.Unmarshal(out[start:], &raw); err != nil {
		return nil, fmt.Errorf("failed to decode bundler stats: %w", err)
	}

	s := &Stats{}
	collect(&raw, s)
	return s, nil
}

func collect(raw *rawStats, s *Stats) {
	for _, m := range raw.Errors {
		s.Errors = append(s.Errors, formatMessage(m))
	}
	for _, m := range raw.Warnings {
		s.Warnings = append(s.Warnings, formatMessage(m))
	}
	for i := range raw.Children {
		collect(&raw.Children[i], s)
	}
}

// formatMessage turns one stats entry into a readable message: the module
// location on the first line, then the message without stack frames.
func formatMessage(m json.RawMessage) string {
	var text string
	if err := json.Unmarshal(m, &text); err != nil {
		var obj rawMessage
		if objErr := json.Unmarshal(m, &obj); objErr != nil {
			return strings.TrimSpace(string(m))
		}
		text = obj.Message
		if obj.ModuleName != "" {
			header := obj.ModuleName
			if obj.Loc != "" {
				header += " " + obj.Loc
			}
			if !strings.HasPrefix(text, obj.ModuleName) {
				text = header + "\n" + text
			}
		}
	}
	return stripStackFrames(text)
}

// stripStackFrames drops "    at fn (file:line)" lines that webpack keeps
// in loader errors; they point into node_modules and bury the message.
func stripStackFrames(text string) string {
	lines := strings.Split(text, "\n")
	kept := lines[:0]
	for _, l := range lines {
		if strings.HasPrefix(strings.TrimSpace(l), "at ") && strings.HasPrefix(l, " ") {
			continue
		}
		kept = append(kept, l)
	}
	return strings.TrimSpace(strings.Join(kept, "\n"))
}
