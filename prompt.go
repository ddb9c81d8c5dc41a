package reagent

import (
	"encoding/json"
	"strings"
	"text/template"
)

// systemTemplate is the fixed frame of the system prompt. The tool
// catalogue and optional request context are injected per run.
const systemTemplate = `You are a research assistant analyzing customer journey transcripts for a retail bank. Answer questions using ONLY facts you obtain from your tools.

Rules:
- Ground every claim in tool output. If the tools return nothing relevant, say so instead of guessing.
- Cite concrete figures from observations; never invent counts, dates, or customer details.
- Prefer one focused tool call per step over broad queries.

You have access to the following tools:

{{.Tools}}
To use a tool, respond in exactly this format:

Thought: your reasoning about what to do next
Action: {"tool": "the tool name, one of [{{.ToolNames}}]", "input": {"argument": "value"}}

After each action you will receive an Observation with the tool's output. Repeat Thought/Action as needed. When you have enough information, respond with:

Thought: your final reasoning
Final Answer: the complete answer to the question
{{- if .Context}}

Additional context for this request:
{{.Context}}
{{- end}}
{{- if .History}}

Conversation so far:
{{.History}}
{{- end}}`

const synthesisTemplate = `You have used all available research steps for the question below. Using ONLY the observations gathered so far, write the best complete answer you can. Do not request any more tools. If the observations are insufficient, say what is missing.

Question: {{.Query}}

Research so far:
{{.Scratchpad}}

Final Answer:`

const followUpTemplate = `Based on the question and answer below, suggest up to {{.Max}} short follow-up questions the user might ask next. Each must be answerable from customer journey transcript data. Respond with one question per line and nothing else.

Question: {{.Query}}

Answer: {{.Answer}}`

// PromptBuilder renders every prompt the engine sends. The zero value is
// not usable; construct with NewPromptBuilder. Safe for concurrent use.
type PromptBuilder struct {
	system    *template.Template
	synthesis *template.Template
	followUp  *template.Template
}

func NewPromptBuilder() *PromptBuilder {
	return &PromptBuilder{
		system:    template.Must(template.New("system").Parse(systemTemplate)),
		synthesis: template.Must(template.New("synthesis").Parse(synthesisTemplate)),
		followUp:  template.Must(template.New("followup").Parse(followUpTemplate)),
	}
}

// BuildSystemPrompt renders the system prompt for a run: role and grounding
// rules, the tool catalogue in registration order, the response protocol,
// and any request context or prior conversation.
func (b *PromptBuilder) BuildSystemPrompt(reg *Registry, req *ResearchRequest) string {
	var history strings.Builder
	for _, msg := range req.ConversationHistory {
		history.WriteString(roleLabel(msg.Role))
		history.WriteString(": ")
		history.WriteString(msg.Content)
		history.WriteString("\n")
	}

	reqContext := strings.TrimSpace(req.Context)
	if req.CustomerID != "" {
		scope := "Limit your research to customer " + req.CustomerID + "."
		if reqContext != "" {
			reqContext += "\n" + scope
		} else {
			reqContext = scope
		}
	}

	var out strings.Builder
	_ = b.system.Execute(&out, map[string]any{
		"Tools":     reg.DescribeAll(),
		"ToolNames": strings.Join(reg.Names(), ", "),
		"Context":   reqContext,
		"History":   strings.TrimSpace(history.String()),
	})
	return out.String()
}

// BuildIterationPrompt renders the user prompt for one loop iteration: the
// question, the scratchpad of prior steps, and a trailing cue for the next
// thought.
func (b *PromptBuilder) BuildIterationPrompt(query string, state *AgentState) string {
	var out strings.Builder
	out.WriteString("Question: ")
	out.WriteString(query)
	out.WriteString("\n")
	if scratchpad := RenderScratchpad(state.Steps); scratchpad != "" {
		out.WriteString("\n")
		out.WriteString(scratchpad)
		out.WriteString("\n")
	}
	out.WriteString("\nThought:")
	return out.String()
}

// BuildSynthesisPrompt renders the forced-synthesis prompt used when the
// iteration budget is exhausted without a final answer.
func (b *PromptBuilder) BuildSynthesisPrompt(query string, state *AgentState) string {
	var out strings.Builder
	_ = b.synthesis.Execute(&out, map[string]any{
		"Query":      query,
		"Scratchpad": RenderScratchpad(state.Steps),
	})
	return out.String()
}

// followUpAnswerLimit caps the answer excerpt in the follow-up prompt; the
// full answer adds tokens without improving the suggestions.
const followUpAnswerLimit = 600

// BuildFollowUpPrompt renders the prompt asking for follow-up questions,
// with a truncated answer summary rather than the full answer text.
func (b *PromptBuilder) BuildFollowUpPrompt(query, answer string, max int) string {
	var out strings.Builder
	_ = b.followUp.Execute(&out, map[string]any{
		"Query":  query,
		"Answer": TruncateText(answer, followUpAnswerLimit),
		"Max":    max,
	})
	return out.String()
}

// RenderScratchpad renders completed steps in the same Thought / Action /
// Observation form the model is asked to produce, one blank line between
// steps. Steps without an action omit the action line.
func RenderScratchpad(steps []ReasoningStep) string {
	blocks := make([]string, 0, len(steps))
	for _, step := range steps {
		var b strings.Builder
		b.WriteString("Thought: ")
		b.WriteString(step.Thought)
		if step.Action != "" && step.Action != FinalAnswerAction {
			b.WriteString("\nAction: ")
			b.WriteString(encodeToolCall(step.Action, step.ActionInput))
		}
		if step.Observation != "" {
			b.WriteString("\nObservation: ")
			b.WriteString(step.Observation)
		}
		blocks = append(blocks, b.String())
	}
	return strings.Join(blocks, "\n\n")
}

func roleLabel(role string) string {
	switch role {
	case RoleUser:
		return "User"
	case RoleAssistant:
		return "Assistant"
	default:
		return role
	}
}

func encodeToolCall(tool string, input map[string]any) string {
	args := "{}"
	if len(input) > 0 {
		if b, err := json.Marshal(input); err == nil {
			args = string(b)
		}
	}
	return `{"tool":` + encodeJSONString(tool) + `,"input":` + args + `}`
}

func encodeJSONString(s string) string {
	b, err := json.Marshal(s)
	if err != nil {
		return `""`
	}
	return string(b)
}

// noActionObservation is fed back to the model when its response contained
// neither an action nor a final answer.
func noActionObservation(query string) string {
	tool, example := SuggestTool(query)
	return "SYSTEM: Your response contained no action and no final answer. " +
		`Either call a tool with an Action line carrying {"tool": ..., "input": ...}, or finish with 'Final Answer:'. ` +
		"The " + tool + " tool may help, for example: " + example
}

// prematureFinalAnswerObservation is fed back when the model tries to
// finish without having consulted any tool.
func prematureFinalAnswerObservation(query string) string {
	tool, example := SuggestTool(query)
	return "SYSTEM: You attempted to give a final answer without consulting any data. " +
		"Answers must be grounded in tool output. Call a tool first, for example: " + example +
		". The " + tool + " tool is a reasonable starting point."
}
