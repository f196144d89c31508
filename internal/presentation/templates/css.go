// Package templates provides CSS extraction from flex node styles
package templates

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/AtRiskMedia/flexstack-go/internal/domain/entities/flex"
	"github.com/AtRiskMedia/flexstack-go/internal/domain/entities/rendering"
)

var (
	hexColor = regexp.MustCompile(`^#(?:[0-9a-fA-F]{6}|[0-9a-fA-F]{8})$`)
	length   = regexp.MustCompile(`^\d+(?:\.\d+)?(?:px|%)$`)
)

// Keyword spacing used by margin, spacing and padding properties.
var spacingKeywords = map[string]string{
	"none": "0px",
	"xs":   "2px",
	"sm":   "4px",
	"md":   "8px",
	"lg":   "12px",
	"xl":   "16px",
	"xxl":  "20px",
}

// Keyword font and icon sizes.
var sizeKeywords = map[string]string{
	"xxs": "11px",
	"xs":  "13px",
	"sm":  "14px",
	"md":  "16px",
	"lg":  "19px",
	"xl":  "22px",
	"xxl": "29px",
	"3xl": "35px",
	"4xl": "48px",
	"5xl": "74px",
}

// Keyword image widths.
var imageSizeKeywords = map[string]string{
	"xxs":  "40px",
	"xs":   "60px",
	"sm":   "80px",
	"md":   "100px",
	"lg":   "120px",
	"xl":   "140px",
	"xxl":  "160px",
	"3xl":  "180px",
	"4xl":  "200px",
	"5xl":  "240px",
	"full": "100%",
}

var cornerKeywords = map[string]string{
	"none": "0px",
	"xs":   "2px",
	"sm":   "4px",
	"md":   "8px",
	"lg":   "12px",
	"xl":   "16px",
	"xxl":  "20px",
}

var borderKeywords = map[string]string{
	"none":      "0px",
	"light":     "0.5px",
	"normal":    "1px",
	"medium":    "2px",
	"semi-bold": "3px",
	"bold":      "4px",
}

// styleProperty maps one flex style key to a CSS property.
type styleProperty struct {
	css      string
	keywords map[string]string
	color    bool
}

var styleProperties = map[string]styleProperty{
	"backgroundColor": {css: "background-color", color: true},
	"color":           {css: "color", color: true},
	"borderColor":     {css: "border-color", color: true},
	"borderWidth":     {css: "border-width", keywords: borderKeywords},
	"cornerRadius":    {css: "border-radius", keywords: cornerKeywords},
	"margin":          {css: "margin-top", keywords: spacingKeywords},
	"spacing":         {css: "gap", keywords: spacingKeywords},
	"paddingAll":      {css: "padding", keywords: spacingKeywords},
	"paddingTop":      {css: "padding-top", keywords: spacingKeywords},
	"paddingBottom":   {css: "padding-bottom", keywords: spacingKeywords},
	"paddingStart":    {css: "padding-left", keywords: spacingKeywords},
	"paddingEnd":      {css: "padding-right", keywords: spacingKeywords},
	"offsetTop":       {css: "top"},
	"offsetBottom":    {css: "bottom"},
	"offsetStart":     {css: "left"},
	"offsetEnd":       {css: "right"},
	"width":           {css: "width"},
	"height":          {css: "height"},
}

// classProperties become class modifiers rather than inline style.
var classProperties = map[string]map[string]bool{
	"align":      {"start": true, "end": true, "center": true},
	"gravity":    {"top": true, "bottom": true, "center": true},
	"weight":     {"regular": true, "bold": true},
	"decoration": {"none": true, "underline": true, "line-through": true},
	"position":   {"relative": true, "absolute": true},
	"style":      {"primary": true, "secondary": true, "link": true, "normal": true, "italic": true},
}

// CSSProcessorImpl derives classes and inline styles from node Style maps.
// Unknown keys and values that fail validation are dropped so the output is
// always safe to place in a style attribute.
type CSSProcessorImpl struct {
	ctx *rendering.RenderContext
}

// NewCSSProcessorImpl creates a new CSS processor
func NewCSSProcessorImpl(ctx *rendering.RenderContext) *CSSProcessorImpl {
	return &CSSProcessorImpl{ctx: ctx}
}

// GetNodeClasses returns defaultClasses followed by modifier classes such as
// flex-align-center or flex-weight-bold.
func (cp *CSSProcessorImpl) GetNodeClasses(nodeID string, defaultClasses string) string {
	node := cp.ctx.AllNodes[nodeID]
	if node == nil {
		return defaultClasses
	}
	return defaultClasses + StyleClasses(node.Meta().Style)
}

// GetNodeStringStyles returns the inline CSS for a node.
func (cp *CSSProcessorImpl) GetNodeStringStyles(nodeID string) string {
	node := cp.ctx.AllNodes[nodeID]
	if node == nil {
		return ""
	}
	style := node.Meta().Style
	css := StyleDeclarations(style)
	switch v := node.(type) {
	case *flex.Text:
		css = appendDeclaration(css, "font-size", lookupSize(style["size"], sizeKeywords))
		if wrap, _ := style["wrap"].(bool); !wrap {
			css = appendDeclaration(css, "white-space", "nowrap")
		}
	case *flex.Image:
		css = appendDeclaration(css, "width", lookupSize(v.Size, imageSizeKeywords))
		css = appendDeclaration(css, "aspect-ratio", aspectRatio(v.AspectRatio))
		fit := "contain"
		if v.AspectMode == "cover" {
			fit = "cover"
		}
		css = appendDeclaration(css, "object-fit", fit)
	case *flex.Icon:
		size := lookupSize(v.Size, sizeKeywords)
		css = appendDeclaration(css, "height", size)
		css = appendDeclaration(css, "aspect-ratio", aspectRatio(v.AspectRatio))
	case *flex.Video:
		css = appendDeclaration(css, "aspect-ratio", aspectRatio(v.AspectRatio))
	case *flex.Separator:
		color, _ := style["color"].(string)
		if hexColor.MatchString(color) {
			css = appendDeclaration(css, "border-top-color", color)
		}
	}
	if grow, ok := flexValue(style["flex"]); ok {
		css = appendDeclaration(css, "flex", grow)
	}
	return css
}

// StyleClasses renders class modifiers for the recognised keyword keys, each
// prefixed with a space.
func StyleClasses(style flex.Style) string {
	keys := make([]string, 0, len(classProperties))
	for key := range classProperties {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	var b strings.Builder
	for _, key := range keys {
		v, _ := style[key].(string)
		if v == "" || !classProperties[key][v] {
			continue
		}
		fmt.Fprintf(&b, " flex-%s-%s", key, v)
	}
	if wrap, _ := style["wrap"].(bool); wrap {
		b.WriteString(" flex-wrap")
	}
	return b.String()
}

// StyleDeclarations renders the CSS declarations for style in a stable order.
func StyleDeclarations(style flex.Style) string {
	keys := make([]string, 0, len(style))
	for key := range style {
		if _, ok := styleProperties[key]; ok {
			keys = append(keys, key)
		}
	}
	sort.Strings(keys)

	css := ""
	for _, key := range keys {
		prop := styleProperties[key]
		raw, _ := style[key].(string)
		css = appendDeclaration(css, prop.css, cssValue(raw, prop))
	}
	return css
}

func cssValue(raw string, prop styleProperty) string {
	if raw == "" {
		return ""
	}
	if prop.color {
		if hexColor.MatchString(raw) {
			return raw
		}
		return ""
	}
	if v, ok := prop.keywords[raw]; ok {
		return v
	}
	if length.MatchString(raw) {
		return raw
	}
	return ""
}

func lookupSize(v any, table map[string]string) string {
	raw, _ := v.(string)
	if size, ok := table[raw]; ok {
		return size
	}
	if length.MatchString(raw) {
		return raw
	}
	return ""
}

func flexValue(v any) (string, bool) {
	switch n := v.(type) {
	case float64:
		if n >= 0 {
			return fmt.Sprintf("%g", n), true
		}
	case int:
		if n >= 0 {
			return fmt.Sprintf("%d", n), true
		}
	}
	return "", false
}

func appendDeclaration(css, property, value string) string {
	if value == "" {
		return css
	}
	if css != "" {
		css += "; "
	}
	return css + property + ": " + value
}

// aspectRatio converts "20:13" into the CSS "20 / 13" form.
func aspectRatio(ratio string) string {
	w, h, ok := strings.Cut(ratio, ":")
	if !ok || !length.MatchString(w+"px") || !length.MatchString(h+"px") {
		return ""
	}
	return w + " / " + h
}
