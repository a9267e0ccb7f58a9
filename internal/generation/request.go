package generation

import (
	"bytes"
	_ "embed"
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"
	"text/template"
	"time"

	"github.com/phrazzld/aiplanner/internal/domain"
)

// Working window offered to the generation service.
const (
	WorkdayStart = "09:00"
	WorkdayEnd   = "17:00"
)

//go:embed templates/schedule_system.tmpl
var defaultSystemTemplate string

// RequestPayload is everything the generation service is sent for one scheduling run.
type RequestPayload struct {
	SystemInstruction string
	UserMessage       string
	// TaskIDs lists the tasks included in UserMessage, in listing order.
	TaskIDs []int64
	Now     time.Time
}

type systemPromptData struct {
	Now             string
	HighestPriority int
	LowestPriority  int
	WorkdayStart    string
	WorkdayEnd      string
}

// RequestBuilder renders scheduling requests from a system instruction template.
type RequestBuilder struct {
	tmpl *template.Template
}

// NewRequestBuilder parses the system instruction template at templatePath,
// or the embedded default when templatePath is empty.
func NewRequestBuilder(templatePath string) (*RequestBuilder, error) {
	text := defaultSystemTemplate
	name := "schedule_system"
	if templatePath != "" {
		b, err := os.ReadFile(templatePath)
		if err != nil {
			return nil, fmt.Errorf("%w: reading prompt template: %v", ErrInvalidConfig, err)
		}
		text = string(b)
		name = templatePath
	}

	tmpl, err := template.New(name).Option("missingkey=error").Parse(text)
	if err != nil {
		return nil, fmt.Errorf("%w: parsing prompt template: %v", ErrInvalidConfig, err)
	}
	return &RequestBuilder{tmpl: tmpl}, nil
}

var defaultBuilder = func() *RequestBuilder {
	b, err := NewRequestBuilder("")
	if err != nil {
		panic(err)
	}
	return b
}()

// BuildRequest builds a request with the embedded system instruction.
func BuildRequest(now time.Time, tasks []domain.Task) (RequestPayload, error) {
	return defaultBuilder.BuildRequest(now, tasks)
}

// BuildRequest builds the scheduling request for the schedulable tasks in the batch.
// Tasks are listed by priority, then due date, then ID. Returns ErrEmptyBatch when
// no task is schedulable.
func (b *RequestBuilder) BuildRequest(now time.Time, tasks []domain.Task) (RequestPayload, error) {
	eligible := make([]domain.Task, 0, len(tasks))
	for _, t := range tasks {
		if domain.IsSchedulable(t) {
			eligible = append(eligible, t)
		}
	}
	if len(eligible) == 0 {
		return RequestPayload{}, ErrEmptyBatch
	}

	sort.SliceStable(eligible, func(i, j int) bool {
		a, c := eligible[i], eligible[j]
		if a.Priority != c.Priority {
			return a.Priority < c.Priority
		}
		if !a.DueDate.Equal(c.DueDate) {
			return a.DueDate.Before(c.DueDate)
		}
		return a.ID < c.ID
	})

	var system bytes.Buffer
	err := b.tmpl.Execute(&system, systemPromptData{
		Now:             now.Format("Monday, 2006-01-02 15:04 MST"),
		HighestPriority: domain.PriorityHighest,
		LowestPriority:  domain.PriorityLowest,
		WorkdayStart:    WorkdayStart,
		WorkdayEnd:      WorkdayEnd,
	})
	if err != nil {
		return RequestPayload{}, fmt.Errorf("%w: executing prompt template: %v", ErrInvalidConfig, err)
	}

	var user strings.Builder
	ids := make([]int64, 0, len(eligible))
	for i, t := range eligible {
		if i > 0 {
			user.WriteString("\n")
		}
		fmt.Fprintf(&user, "task_id = %d\n", t.ID)
		fmt.Fprintf(&user, "task_name = %s\n", strconv.Quote(t.Name))
		fmt.Fprintf(&user, "priority_level = %d\n", t.Priority)
		fmt.Fprintf(&user, "due_date = %s\n", t.DueDate.Format(domain.DateLayout))
		ids = append(ids, t.ID)
	}

	return RequestPayload{
		SystemInstruction: system.String(),
		UserMessage:       user.String(),
		TaskIDs:           ids,
		Now:               now,
	}, nil
}
