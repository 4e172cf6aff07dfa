package html

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/veridian-labs/docqa/internal/core/domain"
)

func extract(t *testing.T, content string) string {
	t.Helper()
	e := New()
	text, err := e.Extract(context.Background(), &domain.RawDocument{
		MIMEType: "text/html",
		Content:  []byte(content),
	})
	require.NoError(t, err)
	return text
}

func TestExtract_StripsTags(t *testing.T) {
	text := extract(t, `<html><body><p>The grace period is <b>thirty days</b>.</p></body></html>`)
	assert.Equal(t, "The grace period is thirty days.", text)
}

func TestExtract_RemovesScriptAndStyle(t *testing.T) {
	text := extract(t, `<html>
<head><title>Policy</title><style>p { color: red }</style></head>
<body>
<script>alert("hi")</script>
<p>Visible content.</p>
<noscript>Enable JS</noscript>
</body></html>`)

	assert.Equal(t, "Visible content.", text)
	assert.NotContains(t, text, "alert")
	assert.NotContains(t, text, "color")
	assert.NotContains(t, text, "Enable JS")
}

func TestExtract_BlockElementsBecomeLines(t *testing.T) {
	text := extract(t, `<div>First clause.</div><div>Second clause.</div>`)
	assert.Equal(t, "First clause.\n\nSecond clause.", text)
}

func TestExtract_DecodesEntities(t *testing.T) {
	text := extract(t, `<p>Fish &amp; chips cost &pound;5</p>`)
	assert.Equal(t, "Fish & chips cost £5", text)
}

func TestExtract_RemovesComments(t *testing.T) {
	text := extract(t, `<p>kept</p><!-- secret note -->`)
	assert.Equal(t, "kept", text)
	assert.NotContains(t, text, "secret")
}

func TestExtract_NilDocument(t *testing.T) {
	e := New()
	_, err := e.Extract(context.Background(), nil)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestExtract_NoTextContent(t *testing.T) {
	e := New()
	_, err := e.Extract(context.Background(), &domain.RawDocument{
		MIMEType: "text/html",
		Content:  []byte(`<html><head><title>only head</title></head><body></body></html>`),
	})
	assert.ErrorIs(t, err, domain.ErrExtraction)
}

func TestSupportedMIMETypes(t *testing.T) {
	e := New()
	assert.Equal(t, []string{"text/html", "application/xhtml+xml"}, e.SupportedMIMETypes())
}
