package templates

import (
	"strings"
	"testing"

	"github.com/AtRiskMedia/flexstack-go/internal/domain/entities/flex"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func previewDoc() flex.Document {
	return flex.Document{Bubble: &flex.Bubble{
		ID:     "b1",
		Style:  flex.Style{"styles": map[string]any{"body": map[string]any{"backgroundColor": "#fafafa"}}},
		Header: &flex.Box{Base: flex.Base{ID: "header"}, Layout: flex.LayoutVertical},
		Hero: &flex.Box{Base: flex.Base{ID: "hero"}, Layout: flex.LayoutVertical, Contents: []flex.Node{
			&flex.Video{Base: flex.Base{ID: "vid"}, URL: "https://cdn.example.com/v.mp4", PreviewURL: "https://cdn.example.com/v.png", AspectRatio: "16:9"},
		}},
		Body: &flex.Box{Base: flex.Base{ID: "body"}, Layout: flex.LayoutVertical, Contents: []flex.Node{
			&flex.Text{Base: flex.Base{ID: "title", Style: flex.Style{"weight": "bold", "size": "xl"}}, Text: "Hello"},
		}},
		Footer: &flex.Box{Base: flex.Base{ID: "footer"}, Layout: flex.LayoutHorizontal, Contents: []flex.Node{
			&flex.Button{Base: flex.Base{ID: "go", Style: flex.Style{"style": "primary"}}, Action: flex.Action{Type: "uri", Label: "Open", URI: "https://example.com"}},
			&flex.Button{Base: flex.Base{ID: "pb"}, Action: flex.Action{Type: "postback", Label: "Buy", Data: "sku=1"}},
			&flex.Separator{Base: flex.Base{ID: "sep", Style: flex.Style{"color": "#cccccc"}}},
		}},
	}}
}

func TestRenderDocument_KeepsSectionBoxes(t *testing.T) {
	html, err := NewDocumentRenderer().RenderDocument(previewDoc())
	require.NoError(t, err)

	// The single text child still sits inside its section root box.
	assert.Contains(t, html, `<div id="body" class="flex-box flex-box-vertical" data-kind="box">`+
		`<p id="title" class="flex-text flex-weight-bold" data-kind="text" style="font-size: 22px; white-space: nowrap">Hello</p></div>`)
	assert.Contains(t, html, `<div id="header" class="flex-box flex-box-vertical" data-kind="box"></div>`,
		"empty sections still render")
	assert.True(t, strings.HasPrefix(html, `<div class="flex-preview flex-preview-desktop">`))
	assert.Contains(t, html, `<div id="b1" class="flex-bubble flex-bubble-mega">`)
	assert.Contains(t, html, `data-section="body" style="background-color: #fafafa"`)

	// Sections keep header, hero, body, footer order.
	order := []string{`data-section="header"`, `data-section="hero"`, `data-section="body"`, `data-section="footer"`}
	last := -1
	for _, marker := range order {
		i := strings.Index(html, marker)
		require.Greater(t, i, last, marker)
		last = i
	}
}

func TestRenderDocument_Elements(t *testing.T) {
	html, err := NewDocumentRenderer().RenderDocument(previewDoc())
	require.NoError(t, err)

	assert.Contains(t, html, `<video id="vid" class="flex-video" data-kind="video" src="https://cdn.example.com/v.mp4" poster="https://cdn.example.com/v.png"`)
	assert.Contains(t, html, `style="aspect-ratio: 16 / 9"`)
	assert.Contains(t, html, `<a id="go" class="flex-button whitespace-nowrap flex-style-primary" data-kind="button" href="https://example.com"`)
	assert.Contains(t, html, `data-action="postback" data-payload="sku=1"`)
	assert.Contains(t, html, `<hr id="sep" class="flex-separator" data-kind="separator" style="color: #cccccc; border-top-color: #cccccc">`)
}

func TestRenderForDevice(t *testing.T) {
	html, err := NewDocumentRenderer().RenderForDevice(previewDoc(), flex.DeviceMobile)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(html, `<div class="flex-preview flex-preview-mobile">`))
}

func TestRenderDocument_Carousel(t *testing.T) {
	doc := flex.Document{Carousel: &flex.Carousel{ID: "deck", Contents: []*flex.Bubble{
		{ID: "one", Size: "kilo"},
		{ID: "two"},
	}}}
	html, err := NewDocumentRenderer().RenderDocument(doc)
	require.NoError(t, err)
	assert.Contains(t, html, `<div id="deck" class="flex-carousel">`)
	assert.Contains(t, html, `<div id="one" class="flex-bubble flex-bubble-kilo">`)
	assert.Contains(t, html, `<div id="two" class="flex-bubble flex-bubble-mega">`)
	assert.True(t, strings.HasSuffix(html, `mega"></div></div></div>`))
}

func TestRenderDocument_EscapesContent(t *testing.T) {
	doc := flex.Document{Bubble: &flex.Bubble{ID: "b", Body: &flex.Box{Base: flex.Base{ID: "body"}, Layout: flex.LayoutVertical, Contents: []flex.Node{
		&flex.Text{Base: flex.Base{ID: "x", Style: flex.Style{"color": "red;background:url(evil)"}}, Text: `<script>alert(1)</script>`},
		&flex.Button{Base: flex.Base{ID: "js"}, Action: flex.Action{Type: "uri", Label: "x", URI: "javascript:alert(1)"}},
	}}}}
	html, err := NewDocumentRenderer().RenderDocument(doc)
	require.NoError(t, err)

	assert.NotContains(t, html, "<script>")
	assert.Contains(t, html, "&lt;script&gt;")
	assert.NotContains(t, html, "evil")
	assert.NotContains(t, html, `href="javascript:`)
}

func TestRenderDocument_Errors(t *testing.T) {
	_, err := NewDocumentRenderer().RenderDocument(flex.Document{})
	assert.Error(t, err)

	dup := flex.Document{Bubble: &flex.Bubble{ID: "b", Body: &flex.Box{Base: flex.Base{ID: "x"}, Layout: flex.LayoutVertical, Contents: []flex.Node{
		&flex.Text{Base: flex.Base{ID: "x"}},
	}}}}
	_, err = NewDocumentRenderer().RenderDocument(dup)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate node id")
}

func TestRenderDocument_BlankTextKeepsHeight(t *testing.T) {
	doc := flex.Document{Bubble: &flex.Bubble{ID: "b", Body: &flex.Box{Base: flex.Base{ID: "body"}, Layout: flex.LayoutVertical, Contents: []flex.Node{
		&flex.Text{Base: flex.Base{ID: "blank", Style: flex.Style{"wrap": true}}, Text: "  "},
	}}}}
	html, err := NewDocumentRenderer().RenderDocument(doc)
	require.NoError(t, err)
	assert.Contains(t, html, `<p id="blank" class="flex-text flex-wrap" data-kind="text">`+"\u00a0"+`</p>`)
}
