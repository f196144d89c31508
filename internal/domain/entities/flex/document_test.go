package flex

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleTree() *Box {
	return &Box{Base: Base{ID: "root"}, Layout: LayoutVertical, Contents: []Node{
		&Text{Base: Base{ID: "a"}, Text: "A"},
		&Box{Base: Base{ID: "inner", Style: Style{"spacing": "sm"}}, Layout: LayoutHorizontal, Contents: []Node{
			&Text{Base: Base{ID: "b"}, Text: "B"},
		}},
		&Separator{Base: Base{ID: "c"}},
	}}
}

func TestWalk_PreOrder(t *testing.T) {
	var order []string
	parents := map[string]string{}
	Walk(sampleTree(), func(n Node, parent *Box) bool {
		order = append(order, n.Meta().ID)
		if parent != nil {
			parents[n.Meta().ID] = parent.ID
		}
		return true
	})

	assert.Equal(t, []string{"root", "a", "inner", "b", "c"}, order)
	assert.Equal(t, "inner", parents["b"])
	assert.Equal(t, "root", parents["c"])
	assert.NotContains(t, parents, "root")
}

func TestWalk_Stops(t *testing.T) {
	var visited []string
	completed := Walk(sampleTree(), func(n Node, _ *Box) bool {
		visited = append(visited, n.Meta().ID)
		return n.Meta().ID != "inner"
	})
	assert.False(t, completed)
	assert.Equal(t, []string{"root", "a", "inner"}, visited)
}

func TestFind(t *testing.T) {
	tree := sampleTree()
	found := Find(tree, "b")
	require.NotNil(t, found)
	assert.Equal(t, "B", found.(*Text).Text)
	assert.Nil(t, Find(tree, "missing"))
}

func TestDeepClone_SharesNothing(t *testing.T) {
	tree := sampleTree()
	clone := DeepClone(tree).(*Box)
	require.Equal(t, tree, clone)

	inner := clone.Contents[1].(*Box)
	inner.Style["spacing"] = "xl"
	inner.Contents[0].(*Text).Text = "changed"
	clone.Contents = append(clone.Contents, &Text{Base: Base{ID: "d"}})

	orig := tree.Contents[1].(*Box)
	assert.Equal(t, "sm", orig.Style["spacing"])
	assert.Equal(t, "B", orig.Contents[0].(*Text).Text)
	assert.Len(t, tree.Contents, 3)
}

func TestBox_CloneIsShallow(t *testing.T) {
	tree := sampleTree()
	c := tree.CloneBox()
	c.Contents[0] = &Text{Base: Base{ID: "z"}}

	assert.Equal(t, "a", tree.Contents[0].Meta().ID)
	assert.Same(t, tree.Contents[1], c.Contents[1])
}

func TestBubble_WithSection(t *testing.T) {
	b := NewBubble(counter())
	body := &Box{Base: Base{ID: "new-body"}, Layout: LayoutHorizontal}

	next := b.WithSection(SectionBody, body)
	assert.Same(t, body, next.Body)
	assert.NotSame(t, body, b.Body)
	assert.Same(t, b.Hero, next.Hero)

	role, ok := next.RoleOf("new-body")
	assert.True(t, ok)
	assert.Equal(t, SectionBody, role)
	_, ok = next.RoleOf("nope")
	assert.False(t, ok)
}

func TestDocument_Bubbles(t *testing.T) {
	ids := counter()
	single := NewDocument(ids)
	assert.Len(t, single.Bubbles(), 1)
	assert.Equal(t, 0, single.BubbleIndex(single.Bubble.ID))
	assert.Equal(t, -1, single.BubbleIndex("missing"))
	assert.Nil(t, Document{}.Bubbles())
	assert.True(t, Document{}.IsZero())

	b1, b2 := NewBubble(ids), NewBubble(ids)
	carousel := Document{Carousel: &Carousel{ID: "c", Contents: []*Bubble{b1, b2}}}
	assert.Equal(t, 1, carousel.BubbleIndex(b2.ID))

	replaced := &Bubble{ID: "r"}
	next := carousel.WithBubble(1, replaced)
	assert.Same(t, replaced, next.Carousel.Contents[1])
	assert.Same(t, b2, carousel.Carousel.Contents[1])
}

func TestDocument_IDsAndContains(t *testing.T) {
	b := &Bubble{ID: "bubble", Body: sampleTree()}
	doc := Document{Bubble: b}

	assert.Equal(t, []string{"bubble", "root", "a", "inner", "b", "c"}, doc.IDs())
	assert.True(t, doc.Contains("inner"))
	assert.True(t, doc.Contains("bubble"))
	assert.False(t, doc.Contains(""))
	assert.False(t, doc.Contains("zzz"))
}

func TestNewElement(t *testing.T) {
	for _, kind := range ElementKinds {
		t.Run(string(kind), func(t *testing.T) {
			n, err := NewElement(kind)
			require.NoError(t, err)
			assert.Equal(t, kind, n.Kind())
			assert.Empty(t, n.Meta().ID)
		})
	}

	_, err := NewElement(KindBubble)
	assert.Error(t, err)
}

func TestNewBubble_FourEmptySections(t *testing.T) {
	b := NewBubble(counter())
	for _, role := range SectionOrder {
		s := b.Section(role)
		require.NotNil(t, s, role)
		assert.Equal(t, LayoutVertical, s.Layout)
		assert.Empty(t, s.Contents)
	}
	assert.Len(t, Document{Bubble: b}.IDs(), 5)
}

func TestAssignIDsAndReassign(t *testing.T) {
	tree := &Box{Layout: LayoutVertical, Contents: []Node{
		&Text{Base: Base{ID: "keep"}},
		&Text{},
	}}
	AssignIDs(tree, counter())
	assert.Equal(t, "id-1", tree.ID)
	assert.Equal(t, "keep", tree.Contents[0].Meta().ID)
	assert.Equal(t, "id-2", tree.Contents[1].Meta().ID)

	Reassign(tree, counter())
	assert.Equal(t, "id-2", tree.Contents[0].Meta().ID)
}

func TestParsers(t *testing.T) {
	_, err := ParseElementKind("bubble")
	assert.Error(t, err)
	k, err := ParseElementKind("icon")
	require.NoError(t, err)
	assert.Equal(t, KindIcon, k)

	_, err = ParseLayout("grid")
	assert.Error(t, err)

	_, err = ParseDevice("desktop")
	assert.Error(t, err, "device names are case sensitive")
	d, err := ParseDevice("Tablet")
	require.NoError(t, err)
	assert.Equal(t, DeviceTablet, d)

	role, ok := ParseSectionRole("hero")
	assert.True(t, ok)
	assert.Equal(t, SectionHero, role)
}
