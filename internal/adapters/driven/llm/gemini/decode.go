package gemini

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/veridian-labs/docqa/internal/core/domain"
)

// answerEnvelope is the JSON shape the batch prompt demands.
type answerEnvelope struct {
	Answers []string `json:"answers"`
}

var numberedLine = regexp.MustCompile(`^\s*(\d+)[\.\)]\s+(.*)$`)

// DecodeAnswers splits a batch response back into one answer per
// question. The model is told to return a JSON envelope, but it is not
// always obedient: fenced code blocks are stripped first, and a
// numbered-list reply is accepted as a fallback. The result always has
// exactly n entries, padded with the not-available sentinel or
// truncated as needed.
func (u *Upstream) DecodeAnswers(raw string, n int) ([]string, error) {
	text := stripFences(strings.TrimSpace(raw))
	if text == "" {
		return nil, fmt.Errorf("%w: empty response", domain.ErrParse)
	}

	answers, ok := decodeEnvelope(text)
	if !ok {
		answers, ok = decodeNumberedList(text)
	}
	if !ok {
		return nil, fmt.Errorf("%w: response is neither a JSON envelope nor a numbered list", domain.ErrParse)
	}

	return fit(answers, n), nil
}

func decodeEnvelope(text string) ([]string, bool) {
	// The envelope may be embedded in surrounding prose.
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start < 0 || end <= start {
		return nil, false
	}

	var env answerEnvelope
	if err := json.Unmarshal([]byte(text[start:end+1]), &env); err != nil {
		return nil, false
	}
	if env.Answers == nil {
		return nil, false
	}
	return env.Answers, true
}

func decodeNumberedList(text string) ([]string, bool) {
	var answers []string
	for _, line := range strings.Split(text, "\n") {
		m := numberedLine.FindStringSubmatch(line)
		if m == nil {
			// Continuation lines belong to the previous answer.
			if len(answers) > 0 && strings.TrimSpace(line) != "" {
				answers[len(answers)-1] += " " + strings.TrimSpace(line)
			}
			continue
		}
		answers = append(answers, strings.TrimSpace(m[2]))
	}
	return answers, len(answers) > 0
}

func stripFences(text string) string {
	if !strings.HasPrefix(text, "```") {
		return text
	}
	text = strings.TrimPrefix(text, "```json")
	text = strings.TrimPrefix(text, "```")
	text = strings.TrimSuffix(strings.TrimSpace(text), "```")
	return strings.TrimSpace(text)
}

func fit(answers []string, n int) []string {
	out := make([]string, n)
	for i := range out {
		if i < len(answers) && strings.TrimSpace(answers[i]) != "" {
			out[i] = strings.TrimSpace(answers[i])
		} else {
			out[i] = domain.AnswerNotAvailable
		}
	}
	return out
}
