package editor

import (
	"testing"

	"github.com/AtRiskMedia/flexstack-go/internal/domain/entities/flex"
	"github.com/stretchr/testify/assert"
)

func TestCanPlace(t *testing.T) {
	vertical := &flex.Box{Layout: flex.LayoutVertical}
	horizontal := &flex.Box{Layout: flex.LayoutHorizontal}
	baseline := &flex.Box{Layout: flex.LayoutBaseline}
	text := &flex.Text{Text: "not a container"}

	tests := []struct {
		name   string
		target flex.Node
		role   TargetRole
		kind   flex.Kind
		ok     bool
		reason string
	}{
		{name: "text into vertical", target: vertical, role: RoleBody, kind: flex.KindText, ok: true},
		{name: "text into baseline", target: baseline, role: RoleNested, kind: flex.KindText, ok: true},
		{name: "text into text", target: text, role: RoleNested, kind: flex.KindText, reason: "inside a box"},
		{name: "box into any box", target: baseline, role: RoleFooter, kind: flex.KindBox, ok: true},
		{name: "button into horizontal", target: horizontal, role: RoleFooter, kind: flex.KindButton, ok: true},
		{name: "button into baseline", target: baseline, role: RoleNested, kind: flex.KindButton, reason: "baseline"},
		{name: "separator into baseline", target: baseline, role: RoleBody, kind: flex.KindSeparator, reason: "baseline"},
		{name: "image into baseline", target: baseline, role: RoleHero, kind: flex.KindImage, reason: "baseline"},
		{name: "image into hero", target: vertical, role: RoleHero, kind: flex.KindImage, ok: true},
		{name: "icon into baseline", target: baseline, role: RoleNested, kind: flex.KindIcon, ok: true},
		{name: "icon into vertical", target: vertical, role: RoleBody, kind: flex.KindIcon, reason: "baseline"},
		{name: "video into hero root", target: vertical, role: RoleHero, kind: flex.KindVideo, ok: true},
		{name: "video into body root", target: vertical, role: RoleBody, kind: flex.KindVideo, reason: "hero"},
		{name: "video into box nested in hero", target: vertical, role: RoleNested, kind: flex.KindVideo, reason: "hero"},
		{name: "unknown kind", target: vertical, role: RoleBody, kind: flex.Kind("marquee"), reason: "unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ok, reason := CanPlace(tt.target, tt.role, tt.kind)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.Empty(t, reason)
			} else {
				assert.Contains(t, reason, tt.reason)
			}
		})
	}
}

func TestCheckSubtree(t *testing.T) {
	legal := &flex.Box{Layout: flex.LayoutVertical, Contents: []flex.Node{
		&flex.Box{Layout: flex.LayoutBaseline, Contents: []flex.Node{&flex.Icon{URL: "x"}}},
	}}
	assert.Nil(t, checkSubtree(legal, RoleNested))

	hidden := &flex.Box{Layout: flex.LayoutVertical, Contents: []flex.Node{
		&flex.Box{Layout: flex.LayoutBaseline, Contents: []flex.Node{&flex.Button{}}},
	}}
	r := checkSubtree(hidden, RoleNested)
	if assert.NotNil(t, r) {
		assert.Contains(t, r.Reason, "baseline")
	}

	video := &flex.Box{Layout: flex.LayoutVertical, Contents: []flex.Node{&flex.Video{URL: "v"}}}
	assert.Nil(t, checkSubtree(video, RoleHero))
	assert.NotNil(t, checkSubtree(video, RoleNested))
}
