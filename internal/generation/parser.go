package generation

import (
	"fmt"
	"log/slog"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/phrazzld/aiplanner/internal/domain"
)

// Field names of the response grammar, in the order a block lists them.
const (
	FieldTaskID    = "task_id"
	FieldDate      = "assigned_block_date"
	FieldStartTime = "assigned_block_start_time"
	FieldDuration  = "assigned_block_duration"
)

// MaxBlockHours is the longest block accepted from the service.
const MaxBlockHours = 24

var (
	fieldToken   = regexp.MustCompile(`\b(task_id|assigned_block_date|assigned_block_start_time|assigned_block_duration)\s*=\s*(\S+)`)
	datePattern  = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
	clockPattern = regexp.MustCompile(`^\d{2}:\d{2}(:\d{2})?$`)
	hourPattern  = regexp.MustCompile(`^\d+$`)
)

// grammar is the field expected after each accepted field of a block.
var grammar = map[string]string{
	FieldTaskID:    FieldDate,
	FieldDate:      FieldStartTime,
	FieldStartTime: FieldDuration,
}

// DroppedBlock records a block that did not become a proposal.
type DroppedBlock struct {
	TaskID string // raw task_id value
	Field  string // offending field, empty when the block was incomplete
	Value  string // raw offending value
	Reason string
}

// ParseResult is the outcome of parsing one service reply.
type ParseResult struct {
	Proposals []domain.ScheduleProposal
	Dropped   []DroppedBlock
}

// ResponseParser extracts block proposals from the service's semi-structured reply.
type ResponseParser struct {
	logger *slog.Logger
}

// NewResponseParser creates a parser that logs every dropped block.
func NewResponseParser(logger *slog.Logger) *ResponseParser {
	if logger == nil {
		logger = slog.Default()
	}
	return &ResponseParser{logger: logger.With(slog.String("component", "schedule_parser"))}
}

type openBlock struct {
	raw    map[string]string
	expect string
}

// Parse scans the reply for key = value tokens. A task_id opens a block, the
// other fields are taken only in grammar order, and the duration closes the
// block. Text between tokens is ignored. A block left open when the next
// task_id arrives, or at the end of input, is dropped, and so is any closed
// block with an invalid field. Parse never fails; an empty result is valid.
func (p *ResponseParser) Parse(raw string) ParseResult {
	result := ParseResult{Proposals: []domain.ScheduleProposal{}}
	var open *openBlock

	abandon := func() {
		if open == nil {
			return
		}
		p.drop(&result, DroppedBlock{
			TaskID: open.raw[FieldTaskID],
			Reason: "incomplete block: expected " + open.expect,
		})
		open = nil
	}

	for _, m := range fieldToken.FindAllStringSubmatch(raw, -1) {
		key, value := m[1], cleanValue(m[2])

		if key == FieldTaskID {
			abandon()
			open = &openBlock{raw: map[string]string{FieldTaskID: value}, expect: FieldDate}
			continue
		}
		if open == nil || key != open.expect {
			continue
		}

		open.raw[key] = value
		if key != FieldDuration {
			open.expect = grammar[key]
			continue
		}

		proposal, bad := validateBlock(open.raw)
		if bad != nil {
			p.drop(&result, *bad)
		} else {
			result.Proposals = append(result.Proposals, proposal)
		}
		open = nil
	}
	abandon()

	return result
}

func (p *ResponseParser) drop(result *ParseResult, d DroppedBlock) {
	p.logger.Warn("dropping schedule block",
		slog.String("task_id", d.TaskID),
		slog.String("field", d.Field),
		slog.String("value", d.Value),
		slog.String("reason", d.Reason))
	result.Dropped = append(result.Dropped, d)
}

// cleanValue strips quoting and trailing punctuation the service tends to add.
func cleanValue(v string) string {
	v = strings.TrimRight(v, ",;.")
	v = strings.Trim(v, "'\"`*")
	return strings.TrimRight(v, ",;.")
}

func validateBlock(raw map[string]string) (domain.ScheduleProposal, *DroppedBlock) {
	rawID := raw[FieldTaskID]
	reject := func(field, reason string) (domain.ScheduleProposal, *DroppedBlock) {
		return domain.ScheduleProposal{}, &DroppedBlock{TaskID: rawID, Field: field, Value: raw[field], Reason: reason}
	}

	id, err := strconv.ParseInt(rawID, 10, 64)
	if err != nil || id <= 0 {
		return reject(FieldTaskID, "task id is not a positive integer")
	}

	rawDate := raw[FieldDate]
	if !datePattern.MatchString(rawDate) {
		return reject(FieldDate, "date is not YYYY-MM-DD")
	}
	date, err := time.Parse(domain.DateLayout, rawDate)
	if err != nil {
		return reject(FieldDate, "date is not a calendar date")
	}

	rawStart := raw[FieldStartTime]
	if !clockPattern.MatchString(rawStart) {
		return reject(FieldStartTime, "start time is not HH:MM")
	}
	// Seconds, when present, are discarded
	start, err := domain.ParseClockTime(rawStart[:5] + ":00")
	if err != nil {
		return reject(FieldStartTime, "start time is not a time of day")
	}

	rawHours := raw[FieldDuration]
	if !hourPattern.MatchString(rawHours) {
		return reject(FieldDuration, "duration is not a whole number of hours")
	}
	hours, err := strconv.Atoi(rawHours)
	if err != nil || hours <= 0 || hours > MaxBlockHours {
		return reject(FieldDuration, fmt.Sprintf("duration must be between 1 and %d hours", MaxBlockHours))
	}

	return domain.ScheduleProposal{
		TaskID:    id,
		Date:      date,
		StartTime: start,
		Duration:  time.Duration(hours) * time.Hour,
	}, nil
}

// Render lists the proposals as "field: value" lines in extraction order.
func Render(proposals []domain.ScheduleProposal) string {
	var b strings.Builder
	for _, p := range proposals {
		fmt.Fprintf(&b, "%s: %d\n", FieldTaskID, p.TaskID)
		fmt.Fprintf(&b, "%s: %s\n", FieldDate, p.Date.Format(domain.DateLayout))
		fmt.Fprintf(&b, "%s: %s\n", FieldStartTime, p.StartTime.HHMM())
		fmt.Fprintf(&b, "%s: %d\n", FieldDuration, int(p.Duration/time.Hour))
	}
	return b.String()
}
