package gemini

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/veridian-labs/docqa/internal/core/domain"
)

func TestDecodeAnswers_JSONEnvelope(t *testing.T) {
	u := &Upstream{}

	answers, err := u.DecodeAnswers(`{"answers": ["First.", "Second."]}`, 2)
	require.NoError(t, err)
	assert.Equal(t, []string{"First.", "Second."}, answers)
}

func TestDecodeAnswers_FencedEnvelope(t *testing.T) {
	u := &Upstream{}

	raw := "```json\n{\"answers\": [\"Inside a fence.\"]}\n```"
	answers, err := u.DecodeAnswers(raw, 1)
	require.NoError(t, err)
	assert.Equal(t, []string{"Inside a fence."}, answers)
}

func TestDecodeAnswers_EnvelopeWithSurroundingProse(t *testing.T) {
	u := &Upstream{}

	raw := "Here is the result:\n{\"answers\": [\"Extracted.\"]}\nHope that helps!"
	answers, err := u.DecodeAnswers(raw, 1)
	require.NoError(t, err)
	assert.Equal(t, []string{"Extracted."}, answers)
}

func TestDecodeAnswers_PadsShortEnvelope(t *testing.T) {
	u := &Upstream{}

	answers, err := u.DecodeAnswers(`{"answers": ["Only one."]}`, 3)
	require.NoError(t, err)
	require.Len(t, answers, 3)
	assert.Equal(t, "Only one.", answers[0])
	assert.Equal(t, domain.AnswerNotAvailable, answers[1])
	assert.Equal(t, domain.AnswerNotAvailable, answers[2])
}

func TestDecodeAnswers_TruncatesLongEnvelope(t *testing.T) {
	u := &Upstream{}

	answers, err := u.DecodeAnswers(`{"answers": ["a", "b", "c"]}`, 2)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, answers)
}

func TestDecodeAnswers_NumberedListFallback(t *testing.T) {
	u := &Upstream{}

	raw := "1. The first answer\nand its continuation.\n2) The second answer"
	answers, err := u.DecodeAnswers(raw, 2)
	require.NoError(t, err)
	assert.Equal(t, "The first answer and its continuation.", answers[0])
	assert.Equal(t, "The second answer", answers[1])
}

func TestDecodeAnswers_BlankAnswerBecomesNotAvailable(t *testing.T) {
	u := &Upstream{}

	answers, err := u.DecodeAnswers(`{"answers": ["", "kept"]}`, 2)
	require.NoError(t, err)
	assert.Equal(t, domain.AnswerNotAvailable, answers[0])
	assert.Equal(t, "kept", answers[1])
}

func TestDecodeAnswers_Unreadable(t *testing.T) {
	u := &Upstream{}

	_, err := u.DecodeAnswers("the model rambled with no structure", 2)
	require.ErrorIs(t, err, domain.ErrParse)

	_, err = u.DecodeAnswers("   ", 1)
	require.ErrorIs(t, err, domain.ErrParse)
}

func TestBatchPrompt_NumbersQuestions(t *testing.T) {
	p := batchPrompt([]string{"What is the term?", "Who signs?"})

	assert.Contains(t, p, "1. What is the term?")
	assert.Contains(t, p, "2. Who signs?")
	assert.Contains(t, p, "exactly 2 answers")
	assert.Contains(t, p, `"answers"`)
}

func TestContextPrompt_IncludesExcerpts(t *testing.T) {
	p := contextPrompt("What is covered?", []string{"alpha text", "beta text"})

	assert.Contains(t, p, "[Excerpt 1]\nalpha text")
	assert.Contains(t, p, "[Excerpt 2]\nbeta text")
	assert.Contains(t, p, "QUESTION: What is covered?")
}
