package ingestion

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractTextDropsChrome(t *testing.T) {
	html := `<html><head><style>body{color:red}</style></head><body>
		<nav><a href="/">Home</a></nav>
		<main>
			<h1>Backend Engineer</h1>
			<p>Build services in Go.</p>
			<ul><li>Design APIs</li><li>Operate PostgreSQL</li></ul>
		</main>
		<footer>© Acme</footer>
		<script>track()</script>
	</body></html>`

	text, err := ExtractText(html)
	require.NoError(t, err)

	assert.Contains(t, text, "Backend Engineer")
	assert.Contains(t, text, "Build services in Go.")
	assert.Contains(t, text, "- Design APIs")
	assert.Contains(t, text, "- Operate PostgreSQL")
	assert.NotContains(t, text, "Home")
	assert.NotContains(t, text, "© Acme")
	assert.NotContains(t, text, "track()")
	assert.NotContains(t, text, "color:red")
}

func TestExtractTextNestedDivs(t *testing.T) {
	html := `<body><div class="outer"><div class="inner"><p>Only once.</p></div></div></body>`

	text, err := ExtractText(html)
	require.NoError(t, err)
	assert.Equal(t, "Only once.", text)
}

func TestExtractTextPlainBody(t *testing.T) {
	html := `<body>Just a sentence with no markup.</body>`

	text, err := ExtractText(html)
	require.NoError(t, err)
	assert.Equal(t, "Just a sentence with no markup.", text)
}

func TestCleanText(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "collapses space runs",
			input:    "hello    world",
			expected: "hello world",
		},
		{
			name:     "normalizes line endings",
			input:    "a\r\nb\rc",
			expected: "a\nb\nc",
		},
		{
			name:     "limits blank lines",
			input:    "a\n\n\n\n\nb",
			expected: "a\n\nb",
		},
		{
			name:     "trims edges",
			input:    "  \n  hello  \n  ",
			expected: "hello",
		},
		{
			name:     "empty",
			input:    "",
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, CleanText(tt.input))
		})
	}
}
