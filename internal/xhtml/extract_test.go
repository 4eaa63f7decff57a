package xhtml

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractPlainTextUnchanged(t *testing.T) {
	assert.Equal(t, "just plain text", Extract("just plain text"))
}

func TestExtractEmpty(t *testing.T) {
	assert.Equal(t, "", Extract(""))
}

func TestExtractStripsTags(t *testing.T) {
	markup := `<p>Hello <strong>world</strong></p>`
	assert.Equal(t, "Hello world", Extract(markup))
}

func TestExtractBlockBoundaries(t *testing.T) {
	markup := `<p>first</p><p>second</p>`
	assert.Equal(t, "first second", Extract(markup))
}

func TestExtractInlineTagsNoBoundary(t *testing.T) {
	markup := `<p>un<em>broken</em>word</p>`
	assert.Equal(t, "unbrokenword", Extract(markup))
}

func TestExtractListAndTable(t *testing.T) {
	markup := `<ul><li>one</li><li>two</li></ul><table><tr><td>a</td><td>b</td></tr></table>`
	assert.Equal(t, "one two a b", Extract(markup))
}

func TestExtractSelfClosingBreak(t *testing.T) {
	markup := `line one<br/>line two`
	assert.Equal(t, "line one line two", Extract(markup))
}

func TestExtractCollapsesWhitespace(t *testing.T) {
	markup := "<div>  lots \n\t of   space  </div>"
	assert.Equal(t, "lots of space", Extract(markup))
}

func TestExtractConfluenceMacroMarkup(t *testing.T) {
	markup := `<p>before</p><ac:structured-macro ac:name="info"><ac:rich-text-body><p>note text</p></ac:rich-text-body></ac:structured-macro><p>after</p>`
	assert.Equal(t, "before note text after", Extract(markup))
}

func TestExtractMalformedMarkup(t *testing.T) {
	assert.Equal(t, "unclosed", Extract("<p>unclosed"))
	assert.Equal(t, "dangling", Extract("dangling</p>"))
	assert.Equal(t, "text", Extract("<p><b>text"))
}
