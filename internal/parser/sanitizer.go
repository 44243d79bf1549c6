package parser

import (
	"regexp"
	"strings"
)

// blockScalarKeys lists the keys whose values get promoted to a YAML
// block scalar when they look multi-line, contain an unquoted colon,
// or (content only) run long.
var blockScalarKeys = map[string]bool{
	"description": true,
	"content":     true,
	"comments":    true,
	"oldString":   true,
	"newString":   true,
}

var siblingKeyRe = regexp.MustCompile(`^([A-Za-z_][\w-]*)\s*:\s*`)

// isSiblingKeyLine reports whether line starts a new key at exactly
// indentWidth leading spaces.
func isSiblingKeyLine(line string, indentWidth int) bool {
	trimmed := strings.TrimLeft(line, " ")
	leading := len(line) - len(trimmed)
	if leading != indentWidth {
		return false
	}
	return siblingKeyRe.MatchString(trimmed)
}

// sanitize applies four ordered rewrite rules to a
// raw (pre-YAML-decode) action block body.
func sanitize(body string) string {
	lines := strings.Split(body, "\n")
	lines = promoteBlockScalars(lines)
	lines = quoteColonValues(lines)
	lines = promoteCmdBlockScalar(lines)
	lines = reindentContentBlocks(lines)
	return strings.Join(lines, "\n")
}

var topLevelKeyRe = regexp.MustCompile(`^([A-Za-z_][\w-]*)\s*:\s?(.*)$`)

// promoteBlockScalars implements rule 1.
func promoteBlockScalars(lines []string) []string {
	var out []string
	i := 0
	for i < len(lines) {
		line := lines[i]
		if strings.TrimLeft(line, " ") == line { // indent 0
			m := topLevelKeyRe.FindStringSubmatch(line)
			if m != nil && blockScalarKeys[m[1]] {
				key, value := m[1], m[2]
				end := nextSiblingIndex(lines, i+1, 0)
				spanning := end > i+1
				longContent := key == "content" && len(value) > 100
				hasColon := strings.Contains(value, ": ")
				if !isAlreadyBlockOrQuoted(value) && (spanning || hasColon || longContent) {
					out = append(out, promoteLines(key, value, lines[i+1:end])...)
					i = end
					continue
				}
			}
		}
		out = append(out, line)
		i++
	}
	return out
}

// promoteCmdBlockScalar implements rule 3, the same promotion applied
// specifically to the "cmd:" key.
func promoteCmdBlockScalar(lines []string) []string {
	var out []string
	i := 0
	for i < len(lines) {
		line := lines[i]
		if strings.TrimLeft(line, " ") == line {
			m := topLevelKeyRe.FindStringSubmatch(line)
			if m != nil && m[1] == "cmd" {
				value := m[2]
				end := nextSiblingIndex(lines, i+1, 0)
				spanning := end > i+1
				hasColon := strings.Contains(value, ": ")
				if !isAlreadyBlockOrQuoted(value) && (spanning || hasColon) {
					out = append(out, promoteLines("cmd", value, lines[i+1:end])...)
					i = end
					continue
				}
			}
		}
		out = append(out, line)
		i++
	}
	return out
}

func isAlreadyBlockOrQuoted(value string) bool {
	v := strings.TrimSpace(value)
	return v == "|" || v == ">" || v == "|-" || v == ">-" ||
		(strings.HasPrefix(v, `"`) && strings.HasSuffix(v, `"`)) ||
		(strings.HasPrefix(v, "'") && strings.HasSuffix(v, "'"))
}

// nextSiblingIndex scans lines starting at from for the next line that
// opens a sibling key at exactly indentWidth, or len(lines) if none.
func nextSiblingIndex(lines []string, from, indentWidth int) int {
	for j := from; j < len(lines); j++ {
		if strings.TrimSpace(lines[j]) == "" {
			continue
		}
		if isSiblingKeyLine(lines[j], indentWidth) {
			return j
		}
	}
	return len(lines)
}

// promoteLines renders key/value plus any trailing continuation lines
// as a YAML block scalar ("key: |" followed by a two-space-indented body).
func promoteLines(key, value string, continuation []string) []string {
	out := []string{key + ": |"}
	body := continuation
	if value != "" {
		body = append([]string{value}, continuation...)
	}
	for _, l := range body {
		if strings.TrimSpace(l) == "" {
			out = append(out, "")
			continue
		}
		out = append(out, "  "+l)
	}
	return out
}

// quoteColonValues implements rule 2.
func quoteColonValues(lines []string) []string {
	out := make([]string, len(lines))
	for i, line := range lines {
		m := topLevelKeyRe.FindStringSubmatch(line)
		if m == nil || blockScalarKeys[m[1]] || m[1] == "cmd" {
			out[i] = line
			continue
		}
		value := m[2]
		if value == "" || isAlreadyBlockOrQuoted(value) {
			out[i] = line
			continue
		}
		if strings.Contains(value, ": ") {
			escaped := strings.ReplaceAll(value, `"`, `\"`)
			out[i] = m[1] + `: "` + escaped + `"`
			continue
		}
		out[i] = line
	}
	return out
}

var contentBlockHeaderRe = regexp.MustCompile(`^(\s*)content:\s*\|\s*$`)

// reindentContentBlocks implements rule 4.
func reindentContentBlocks(lines []string) []string {
	var out []string
	i := 0
	for i < len(lines) {
		line := lines[i]
		m := contentBlockHeaderRe.FindStringSubmatch(line)
		if m == nil {
			out = append(out, line)
			i++
			continue
		}
		keyIndent := len(m[1])
		required := keyIndent + 2
		out = append(out, line)
		i++
		end := nextSiblingIndex(lines, i, keyIndent)
		for ; i < end; i++ {
			body := lines[i]
			if strings.TrimSpace(body) == "" {
				out = append(out, body)
				continue
			}
			leading := len(body) - len(strings.TrimLeft(body, " "))
			if leading < required {
				out = append(out, "  "+body)
			} else {
				out = append(out, body)
			}
		}
	}
	return out
}
