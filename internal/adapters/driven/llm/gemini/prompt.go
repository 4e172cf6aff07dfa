package gemini

import (
	"fmt"
	"strings"
)

// batchPrompt asks every question at once and demands a JSON answer
// envelope so the response can be split back per question.
func batchPrompt(questions []string) string {
	var numbered strings.Builder
	for i, q := range questions {
		fmt.Fprintf(&numbered, "%d. %s\n", i+1, q)
	}

	return fmt.Sprintf(`You are an expert document analyst. Analyze the uploaded document and answer ALL the following questions accurately and concisely.

QUESTIONS TO ANSWER:
%s
RESPONSE FORMAT:
Provide your answers in the following JSON format exactly:
{
    "answers": [
        "Answer to question 1...",
        "Answer to question 2..."
    ]
}

IMPORTANT INSTRUCTIONS:
- Provide exactly %d answers in the same order as the questions
- Each answer must be based only on the document content
- If information is not available in the document, state "Information not available in the document"
- Keep answers concise but comprehensive
- Return ONLY the JSON object, no additional text`, numbered.String(), len(questions))
}

// contextPrompt asks a single question over retrieved excerpts.
func contextPrompt(question string, excerpts []string) string {
	var ctx strings.Builder
	for i, ex := range excerpts {
		fmt.Fprintf(&ctx, "[Excerpt %d]\n%s\n\n", i+1, ex)
	}

	return fmt.Sprintf(`You are an expert document analyst. Answer the question using only the document excerpts below.

DOCUMENT EXCERPTS:
%s
QUESTION: %s

Answer concisely. If the excerpts do not contain the information, state "Information not available in the document".`, ctx.String(), question)
}
