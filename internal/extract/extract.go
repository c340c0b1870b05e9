package extract

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/dpriskorn/WikidataPaperFinder/internal/llm"
)

// Error marker messages stored in Response.Error.
const (
	MsgParseFailed   = "Failed to parse JSON from response"
	MsgRequestFailed = "AI request failed"
)

// ErrMalformedReply indicates the AI reply was not a flat JSON object of
// scalar values.
var ErrMalformedReply = errors.New("malformed AI reply")

// replySchema accepts a single object whose known keys hold strings,
// numbers or null. Other keys are tolerated and dropped.
const replySchema = `{
  "type": "object",
  "properties": {
    "title":   {"type": ["string", "number", "null"]},
    "journal": {"type": ["string", "number", "null"]},
    "year":    {"type": ["string", "number", "null"]},
    "volume":  {"type": ["string", "number", "null"]},
    "pages":   {"type": ["string", "number", "null"]}
  }
}`

var compiledReplySchema = jsonschema.MustCompileString("reply.json", replySchema)

// Prompt returns the fixed extraction instruction with the citation embedded.
func Prompt(referenceText string) string {
	return fmt.Sprintf(`Please extract the title, journal, year, volume, and page numbers from this reference in a paper and give me the result as one line of unformatted JSON with the keys "title", "journal", "year", "volume" and "pages". Don't format the year as a date, just return strings. Copy the journal name verbatim. Only output the JSON: "%s"`, referenceText)
}

// CleanReply strips markdown fences, a leading "json" language tag and
// surrounding whitespace from a raw AI reply.
func CleanReply(reply string) string {
	text := strings.TrimSpace(reply)
	text = strings.TrimPrefix(text, "```")
	text = strings.TrimSuffix(text, "```")
	text = strings.TrimSpace(text)
	text = strings.TrimPrefix(text, "json")
	return strings.TrimSpace(text)
}

// Parse decodes a raw AI reply into a Response.
func Parse(reply string) (*Response, error) {
	text := CleanReply(reply)

	var doc any
	if err := json.Unmarshal([]byte(text), &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedReply, err)
	}
	if err := compiledReplySchema.Validate(doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedReply, err)
	}

	obj := doc.(map[string]any)
	values := make(map[string]string, len(obj))
	for key, raw := range obj {
		switch v := raw.(type) {
		case string:
			values[key] = v
		case float64:
			values[key] = strconv.FormatFloat(v, 'f', -1, 64)
		}
	}
	// An "error" key from the model is not our marker.
	delete(values, KeyError)

	return FromMap(values), nil
}

// Extractor runs the extraction stage against an AI text service.
type Extractor struct {
	completer llm.Completer
}

// New creates an Extractor backed by c.
func New(c llm.Completer) *Extractor {
	return &Extractor{completer: c}
}

// Extract asks the AI service for the fields of referenceText. The returned
// Response is never nil: on failure it is the error marker and err says why.
// The AI call is not retried.
func (e *Extractor) Extract(ctx context.Context, referenceText string) (*Response, error) {
	reply, err := e.completer.Complete(ctx, Prompt(referenceText))
	if err != nil {
		return ErrorResponse(MsgRequestFailed), fmt.Errorf("completing extraction prompt: %w", err)
	}

	resp, err := Parse(reply)
	if err != nil {
		return ErrorResponse(MsgParseFailed), err
	}
	return resp, nil
}
