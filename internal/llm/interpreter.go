package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/javiermolinar/blockclock/internal/timeline"
)

// ErrEmptyRequest is returned when there is nothing to interpret.
var ErrEmptyRequest = errors.New("request cannot be empty")

const interpreterSystemPrompt = `You are a time management assistant for a time-blocking app.
The day is split into %d-minute blocks. The user describes something they want to do.
Turn it into ONE task and reply to the user in one short, friendly sentence.

Rules:
- title: short imperative phrase, max 6 words.
- description: one sentence.
- priority: "low", "medium" or "high".
- minutes: how long the user said it takes, 0 if not mentioned.
- reply: what you would say out loud to the user.

Respond ONLY with valid JSON (no markdown, no explanation):
{
  "title": "string",
  "description": "string",
  "priority": "low" | "medium" | "high",
  "minutes": 0,
  "reply": "string"
}`

// InterpretedTask is the JSON reply expected from the model.
type InterpretedTask struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Priority    string `json:"priority"`
	Minutes     int    `json:"minutes"`
	Reply       string `json:"reply"`
}

// Interpretation is a free-text request turned into a block task.
type Interpretation struct {
	Task   timeline.Task
	Blocks int    // blocks the request asks for, at least 1
	Reply  string // conversational answer for the user
}

// Interpreter turns free text into tasks using an LLM.
type Interpreter struct {
	client Client
	newID  func() string
}

// NewInterpreter creates a new Interpreter with the given LLM client.
func NewInterpreter(client Client) *Interpreter {
	return &Interpreter{client: client, newID: uuid.NewString}
}

// Interpret converts a request like "review the design mockups for 20
// minutes" into a task sized for blocks of the given duration.
func (i *Interpreter) Interpret(ctx context.Context, text string, duration int) (*Interpretation, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, ErrEmptyRequest
	}
	if duration <= 0 {
		duration = timeline.DefaultDuration
	}

	messages := []Message{
		{Role: RoleSystem, Content: fmt.Sprintf(interpreterSystemPrompt, duration)},
		{Role: RoleUser, Content: text},
	}

	var resp InterpretedTask
	if err := i.client.ChatJSON(ctx, messages, &resp); err != nil {
		return nil, fmt.Errorf("interpreting request: %w", err)
	}

	return i.toInterpretation(resp, text, duration), nil
}

func (i *Interpreter) toInterpretation(resp InterpretedTask, text string, duration int) *Interpretation {
	title := strings.TrimSpace(resp.Title)
	if title == "" {
		title = text
	}
	priority := normalizePriority(resp.Priority)

	blocks := 1
	if resp.Minutes > duration {
		blocks = (resp.Minutes + duration - 1) / duration
	}

	return &Interpretation{
		Task: timeline.Task{
			ID:          "voice-" + i.newID(),
			Title:       title,
			Type:        timeline.TypeCustom,
			Color:       priorityColor(priority),
			Description: strings.TrimSpace(resp.Description),
			Priority:    priority,
		},
		Blocks: blocks,
		Reply:  strings.TrimSpace(resp.Reply),
	}
}

func normalizePriority(p string) string {
	switch p = strings.ToLower(strings.TrimSpace(p)); p {
	case "low", "high":
		return p
	default:
		return "medium"
	}
}

func priorityColor(priority string) string {
	switch priority {
	case "high":
		return "red"
	case "low":
		return "green"
	default:
		return "blue"
	}
}
