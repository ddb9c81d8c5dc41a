// Package parse extracts structured actions from raw LLM output.
//
// Models rarely emit the Thought / Action protocol cleanly.
// Parse therefore tries progressively looser readings of the text:
//
//  1. A "Final Answer:" label terminates the run with everything after it.
//  2. An inline JSON object with a "tool" key (or the looser "action"
//     alias), found by balanced-brace scanning anywhere in the text, names
//     the tool directly.
//  3. The legacy labeled form, "Action: <name>" followed by "Action Input:",
//     with malformed JSON repaired or, failing that, wrapped as a query.
//  4. Anything else is a no-action response; the caller decides whether to
//     accept it as an answer or push back.
//
// Parse never fails: every input maps to one of the four kinds.
package parse

import (
	"encoding/json"
	"regexp"
	"strings"

	"github.com/kaptinlin/jsonrepair"
)

// FinalAnswerAction is the sentinel recorded in place of a tool name when
// the model produced a final answer instead of an action.
const FinalAnswerAction = "Final Answer"

// Kind classifies how a response was read.
type Kind int

const (
	// KindNoAction means no tool call and no final answer label were found.
	KindNoAction Kind = iota

	// KindFinalAnswer means the text carried a "Final Answer:" label.
	KindFinalAnswer

	// KindInlineAction means a JSON object naming a tool was found.
	KindInlineAction

	// KindLegacyAction means the labeled "Action:" form was found.
	KindLegacyAction
)

func (k Kind) String() string {
	switch k {
	case KindNoAction:
		return "no-action"
	case KindFinalAnswer:
		return "final-answer"
	case KindInlineAction:
		return "inline-action"
	case KindLegacyAction:
		return "legacy-action"
	default:
		return "unknown"
	}
}

// Response is the structured reading of one LLM turn.
type Response struct {
	// Kind says which reading produced this response.
	Kind Kind

	// Thought is the model's reasoning text. Never empty for non-empty
	// input; falls back to the first line when no "Thought:" label exists.
	Thought string

	// Action is the tool to invoke, or FinalAnswerAction for a final
	// answer, or "" for a no-action response.
	Action string

	// ActionInput holds the tool arguments. Nil unless Kind is an action.
	ActionInput map[string]any

	// FinalAnswer is the answer text. Set only for KindFinalAnswer.
	FinalAnswer string

	// Raw is the original text as received.
	Raw string
}

// IsAction reports whether the response names a tool to invoke.
func (r *Response) IsAction() bool {
	return r.Kind == KindInlineAction || r.Kind == KindLegacyAction
}

var (
	finalAnswerRe  = regexp.MustCompile(`(?i)final\s+answer\s*:`)
	legacyActionRe = regexp.MustCompile(`(?i)action\s*:\s*([\w-]+)`)
	actionInputRe  = regexp.MustCompile(`(?i)action\s+input\s*:`)
	thoughtRe      = regexp.MustCompile(`(?i)thought\s*:`)
)

// Parse reads one LLM turn. It never returns nil.
func Parse(raw string) *Response {
	text := strings.TrimSpace(raw)
	resp := &Response{Raw: raw, Thought: extractThought(text)}

	if loc := finalAnswerRe.FindStringIndex(text); loc != nil {
		resp.Kind = KindFinalAnswer
		resp.Action = FinalAnswerAction
		resp.FinalAnswer = strings.TrimSpace(text[loc[1]:])
		return resp
	}

	if action, input, ok := findInlineAction(text); ok {
		resp.Kind = KindInlineAction
		resp.Action = action
		resp.ActionInput = input
		return resp
	}

	if m := legacyActionRe.FindStringSubmatchIndex(text); m != nil {
		resp.Kind = KindLegacyAction
		resp.Action = text[m[2]:m[3]]
		resp.ActionInput = parseLegacyInput(text[m[1]:])
		return resp
	}

	resp.Kind = KindNoAction
	return resp
}

// extractThought takes the text between a "Thought:" label and the next
// "Action:" or "Final Answer:" label. Without a label it falls back to the
// first non-empty line.
func extractThought(text string) string {
	if loc := thoughtRe.FindStringIndex(text); loc != nil {
		rest := text[loc[1]:]
		end := len(rest)
		if m := legacyActionRe.FindStringIndex(rest); m != nil && m[0] < end {
			end = m[0]
		}
		if m := finalAnswerRe.FindStringIndex(rest); m != nil && m[0] < end {
			end = m[0]
		}
		if thought := strings.TrimSpace(rest[:end]); thought != "" {
			return thought
		}
	}
	for _, line := range strings.Split(text, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			return line
		}
	}
	return ""
}

// findInlineAction scans for balanced JSON objects and returns the first
// one naming a tool: a string "tool" key with arguments under "input", or
// the "action"/"action_input" alias some models emit instead. Objects
// inside strings and escaped quotes are handled by the scanner state
// machine.
func findInlineAction(text string) (string, map[string]any, bool) {
	for i := 0; i < len(text); i++ {
		if text[i] != '{' {
			continue
		}
		end, ok := scanObject(text, i)
		if !ok {
			continue
		}
		candidate := text[i : end+1]

		var obj map[string]any
		if err := json.Unmarshal([]byte(candidate), &obj); err != nil {
			continue
		}
		tool, input := inlineToolCall(obj)
		if tool == "" {
			continue
		}
		return tool, input, true
	}
	return "", nil, false
}

// inlineToolCall reads the tool name and arguments out of a decoded object,
// preferring the tool/input keys over the action/action_input alias.
// Returns "" when the object is not a tool call.
func inlineToolCall(obj map[string]any) (string, map[string]any) {
	nameKey, inputKey := "tool", "input"
	if _, ok := obj["tool"].(string); !ok {
		nameKey, inputKey = "action", "action_input"
	}
	tool, ok := obj[nameKey].(string)
	if !ok || tool == "" {
		return "", nil
	}
	input, _ := obj[inputKey].(map[string]any)
	if input == nil {
		input = map[string]any{}
	}
	return tool, input
}

// scanObject finds the index of the brace closing the object opened at
// start, respecting JSON string literals and escapes.
func scanObject(text string, start int) (int, bool) {
	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(text); i++ {
		c := text[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return i, true
			}
		}
	}
	return 0, false
}

// parseLegacyInput reads the arguments following an "Action:" label. The
// JSON may be well-formed, nearly-formed (single quotes, trailing commas,
// unquoted keys), or not JSON at all; the last case becomes a query
// argument so the tool still receives something useful.
func parseLegacyInput(afterAction string) map[string]any {
	loc := actionInputRe.FindStringIndex(afterAction)
	if loc == nil {
		return map[string]any{}
	}
	payload := strings.TrimSpace(afterAction[loc[1]:])
	if idx := strings.IndexByte(payload, '{'); idx >= 0 {
		if end, ok := scanObject(payload, idx); ok {
			payload = payload[idx : end+1]
		}
	}
	if payload == "" {
		return map[string]any{}
	}

	var input map[string]any
	if err := json.Unmarshal([]byte(payload), &input); err == nil {
		return input
	}
	if repaired, err := jsonrepair.JSONRepair(payload); err == nil {
		if err := json.Unmarshal([]byte(repaired), &input); err == nil {
			return input
		}
	}
	// First line only: free text after the label is usually a bare query,
	// and anything below it belongs to the next protocol section.
	if idx := strings.IndexByte(payload, '\n'); idx >= 0 {
		payload = strings.TrimSpace(payload[:idx])
	}
	return map[string]any{"query": strings.Trim(payload, `"'`)}
}
