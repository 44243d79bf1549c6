// Package parser implements the response parser: it
// extracts tagged action blocks from free-form LLM text, recovers
// malformed YAML via a domain-specific sanitizer, and yields typed
// action variants plus parse errors. It is pure over its input — no I/O.
package parser

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/turnagent/core/internal/action"
	"gopkg.in/yaml.v3"
)

// Result is the parser's output: decoded actions, parse errors, and
// whether any action tag was attempted at all.
type Result struct {
	Actions            []action.Action
	Errors             []string
	FoundActionAttempt bool
}

var openTagRe = regexp.MustCompile(`(?m)^[ \t]*<(\w+)>[ \t]*\r?$`)

type rawBlock struct {
	Tag  string
	Body string
}

// Parse extracts and decodes every action block in raw.
func Parse(raw string) Result {
	opens := openTagRe.FindAllStringSubmatchIndex(raw, -1)

	foundAttempt := false
	for _, m := range opens {
		tag := raw[m[2]:m[3]]
		if !action.IgnoredTags[tag] {
			foundAttempt = true
			break
		}
	}

	blocks := findWellFormedPairs(raw, opens)
	if len(blocks) == 0 && len(opens) > 0 {
		blocks = repairModeBlocks(raw, opens)
	}

	var result Result
	result.FoundActionAttempt = foundAttempt

	for _, b := range blocks {
		a, err := decodeBlock(b.Tag, b.Body)
		if err != nil {
			result.Errors = append(result.Errors, err.Error())
			continue
		}
		result.Actions = append(result.Actions, a)
	}

	return result
}

// findWellFormedPairs pairs each line-start opening tag with the first
// textually-following closing tag of the same name. Go's RE2 engine has
// no backreferences, so pairing is done by scanning for "</tag>" after
// each open match rather than by a single regex, reproducing
// well-formed open/close pairing without assuming nesting.
func findWellFormedPairs(raw string, opens [][]int) []rawBlock {
	var blocks []rawBlock
	pos := 0
	for _, m := range opens {
		start, end := m[0], m[1]
		if start < pos {
			continue
		}
		tag := raw[m[2]:m[3]]
		closeTag := "</" + tag + ">"
		rel := strings.Index(raw[end:], closeTag)
		if rel < 0 {
			continue
		}
		closeStart := end + rel
		if action.IgnoredTags[tag] {
			pos = closeStart + len(closeTag)
			continue
		}
		blocks = append(blocks, rawBlock{Tag: tag, Body: raw[end:closeStart]})
		pos = closeStart + len(closeTag)
	}
	return blocks
}

// repairModeBlocks handles the case where bare (unclosed, or
// non-adjacent-closed) opening tags exist but no well-formed pair was
// found anywhere in the text: each opening tag's block runs until the
// next opening tag or EOF, with a trailing closing tag stripped. This
// is best-effort and may swallow content between mis-nested tags, as
// documented behavior, not a bug.
func repairModeBlocks(raw string, opens [][]int) []rawBlock {
	var blocks []rawBlock
	for i, m := range opens {
		tag := raw[m[2]:m[3]]
		contentStart := m[1]
		blockEnd := len(raw)
		if i+1 < len(opens) {
			blockEnd = opens[i+1][0]
		}
		body := raw[contentStart:blockEnd]
		trimmed := strings.TrimRight(body, " \t\r\n")
		closeTag := "</" + tag + ">"
		if strings.HasSuffix(trimmed, closeTag) {
			body = trimmed[:len(trimmed)-len(closeTag)]
		}
		if action.IgnoredTags[tag] {
			continue
		}
		blocks = append(blocks, rawBlock{Tag: tag, Body: body})
	}
	return blocks
}

// compositeParents is the set of tags that read an inner "action:" key.
var compositeParents = map[string]bool{"file": true, "search": true, "scratchpad": true}

func decodeBlock(tag, body string) (action.Action, error) {
	node, yamlErr := decodeYAML(body)
	if yamlErr != nil {
		sanitized := sanitize(body)
		node, yamlErr = decodeYAML(sanitized)
	}
	if yamlErr != nil {
		if tag == "report" {
			if a, ok := fallbackParseReport(body); ok {
				return a, nil
			}
		}
		return nil, fmt.Errorf("[%s] YAML error: %v", tag, yamlErr)
	}

	normalizeKeys(node)
	mapping := mappingNode(node)
	if tag == "report" && mapping.Kind != yaml.MappingNode {
		if a, ok := fallbackParseReport(body); ok {
			return a, nil
		}
	}

	var a action.Action
	var err error
	if compositeParents[tag] {
		discriminant, _ := mappingValue(mapping, "action")
		a, err = action.DecodeComposite(tag, discriminant, mapping)
	} else if action.KnownTags(tag) {
		a, err = action.DecodeSimple(tag, mapping)
	} else {
		return nil, fmt.Errorf("Unknown action type: %s", tag)
	}

	if err != nil {
		if _, ok := err.(*action.ValidationError); ok {
			return nil, fmt.Errorf("%s", action.Envelope(tag, err))
		}
		return nil, fmt.Errorf("[%s] %v", tag, err)
	}
	return a, nil
}

func decodeYAML(body string) (*yaml.Node, error) {
	var doc yaml.Node
	if strings.TrimSpace(body) == "" {
		doc.Kind = yaml.DocumentNode
		doc.Content = []*yaml.Node{{Kind: yaml.MappingNode}}
		return &doc, nil
	}
	if err := yaml.Unmarshal([]byte(body), &doc); err != nil {
		return nil, err
	}
	if doc.Kind == 0 {
		doc.Kind = yaml.DocumentNode
		doc.Content = []*yaml.Node{{Kind: yaml.MappingNode}}
	}
	return &doc, nil
}

func mappingNode(doc *yaml.Node) *yaml.Node {
	if doc.Kind == yaml.DocumentNode && len(doc.Content) > 0 {
		return doc.Content[0]
	}
	return doc
}

func mappingValue(node *yaml.Node, key string) (string, bool) {
	if node == nil || node.Kind != yaml.MappingNode {
		return "", false
	}
	for i := 0; i+1 < len(node.Content); i += 2 {
		if node.Content[i].Value == key {
			return node.Content[i+1].Value, true
		}
	}
	return "", false
}

var (
	reportContextRe = regexp.MustCompile(`(?s)<context\s+id="([^"]*)"\s*>\s*<content>(.*?)</content>\s*</context>`)
	reportCommentsRe = regexp.MustCompile(`(?s)<comments>(.*?)</comments>`)
)

// fallbackParseReport extracts <context id="…"><content>…</content></context>
// and <comments>…</comments> from raw XML-within-YAML text, for report
// blocks whose YAML body twice failed to decode or decoded to something
// other than a mapping.
func fallbackParseReport(body string) (action.Report, bool) {
	matches := reportContextRe.FindAllStringSubmatch(body, -1)
	commentsMatch := reportCommentsRe.FindStringSubmatch(body)

	if len(matches) == 0 && commentsMatch == nil {
		return action.Report{}, false
	}

	r := action.Report{}
	for _, m := range matches {
		r.Contexts = append(r.Contexts, action.ReportContext{
			ID:      strings.TrimSpace(m[1]),
			Content: strings.TrimSpace(m[2]),
		})
	}
	if commentsMatch != nil {
		r.Comments = strings.TrimSpace(commentsMatch[1])
	}
	return r, true
}
