package templates

// RenderEmpty is the placeholder for a node id that cannot be resolved
func RenderEmpty() string {
	return `<div></div>`
}
