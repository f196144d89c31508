package flex

import "fmt"

// IDFunc produces a fresh node id.
type IDFunc func() string

// Placeholder media used by freshly dropped elements until an upload lands.
const (
	PlaceholderImageURL = "https://developers-resource.landpress.line.me/fx/img/01_1_cafe.png"
	PlaceholderIconURL  = "https://developers-resource.landpress.line.me/fx/img/review_gold_star_28.png"
	PlaceholderVideoURL = "https://example.com/video.mp4"
)

// NewElement builds an element of the given kind with the defaults the
// builder palette uses. The id is left empty for the caller to assign.
func NewElement(kind Kind) (Node, error) {
	switch kind {
	case KindBox:
		return &Box{Layout: LayoutVertical}, nil
	case KindText:
		return &Text{Text: "Text"}, nil
	case KindImage:
		return &Image{URL: PlaceholderImageURL, Size: "full", AspectMode: "cover", AspectRatio: "20:13"}, nil
	case KindIcon:
		return &Icon{URL: PlaceholderIconURL, Size: "sm"}, nil
	case KindButton:
		return &Button{
			Base:   Base{Style: Style{"style": "primary"}},
			Action: Action{Type: "uri", Label: "Button", URI: "https://example.com"},
		}, nil
	case KindSeparator:
		return &Separator{}, nil
	case KindVideo:
		return &Video{
			Base: Base{Style: Style{"altContent": map[string]any{
				"type": "image", "url": PlaceholderImageURL, "size": "full", "aspectMode": "cover", "aspectRatio": "20:13",
			}}},
			URL:         PlaceholderVideoURL,
			PreviewURL:  PlaceholderImageURL,
			AspectRatio: "20:13",
		}, nil
	}
	return nil, fmt.Errorf("cannot create element of kind %q", kind)
}

// NewBubble returns a bubble with four empty vertical section boxes.
func NewBubble(newID IDFunc) *Bubble {
	section := func() *Box {
		return &Box{Base: Base{ID: newID()}, Layout: LayoutVertical}
	}
	return &Bubble{
		ID:     newID(),
		Header: section(),
		Hero:   section(),
		Body:   section(),
		Footer: section(),
	}
}

// NewDocument returns the empty single-bubble document a new session starts with.
func NewDocument(newID IDFunc) Document {
	return Document{Bubble: NewBubble(newID)}
}

// AssignIDs gives every node in the subtree without an id a fresh one. The
// subtree is expected to be owned by the caller.
func AssignIDs(n Node, newID IDFunc) {
	Walk(n, func(cur Node, _ *Box) bool {
		if cur.Meta().ID == "" {
			cur.Meta().ID = newID()
		}
		return true
	})
}

// Reassign gives every node in the subtree a fresh id.
func Reassign(n Node, newID IDFunc) {
	Walk(n, func(cur Node, _ *Box) bool {
		cur.Meta().ID = newID()
		return true
	})
}
