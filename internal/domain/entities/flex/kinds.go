// Package flex defines the flex-message document tree edited by the card builder.
package flex

import "fmt"

// Kind is the wire "type" of a node.
type Kind string

const (
	KindCarousel  Kind = "carousel"
	KindBubble    Kind = "bubble"
	KindBox       Kind = "box"
	KindText      Kind = "text"
	KindImage     Kind = "image"
	KindIcon      Kind = "icon"
	KindButton    Kind = "button"
	KindSeparator Kind = "separator"
	KindVideo     Kind = "video"
)

// ElementKinds lists the kinds that may appear inside a box.
var ElementKinds = []Kind{KindBox, KindText, KindImage, KindIcon, KindButton, KindSeparator, KindVideo}

// ParseElementKind validates an element kind coming from the UI.
func ParseElementKind(s string) (Kind, error) {
	for _, k := range ElementKinds {
		if string(k) == s {
			return k, nil
		}
	}
	return "", fmt.Errorf("unknown element kind %q", s)
}

// Layout is a box layout mode.
type Layout string

const (
	LayoutVertical   Layout = "vertical"
	LayoutHorizontal Layout = "horizontal"
	LayoutBaseline   Layout = "baseline"
)

// ParseLayout validates a box layout.
func ParseLayout(s string) (Layout, error) {
	switch Layout(s) {
	case LayoutVertical, LayoutHorizontal, LayoutBaseline:
		return Layout(s), nil
	}
	return "", fmt.Errorf("unknown box layout %q", s)
}

// SectionRole names one of the four bubble sections.
type SectionRole string

const (
	SectionHeader SectionRole = "header"
	SectionHero   SectionRole = "hero"
	SectionBody   SectionRole = "body"
	SectionFooter SectionRole = "footer"
)

// SectionOrder is the fixed lookup and rendering order of bubble sections.
var SectionOrder = []SectionRole{SectionHeader, SectionHero, SectionBody, SectionFooter}

// ParseSectionRole reports whether s names a section role.
func ParseSectionRole(s string) (SectionRole, bool) {
	for _, r := range SectionOrder {
		if string(r) == s {
			return r, true
		}
	}
	return "", false
}

// Device is the responsive preview mode of the editor canvas.
type Device string

const (
	DeviceDesktop Device = "Desktop"
	DeviceTablet  Device = "Tablet"
	DeviceMobile  Device = "Mobile"
)

// ParseDevice validates a device name.
func ParseDevice(s string) (Device, error) {
	switch Device(s) {
	case DeviceDesktop, DeviceTablet, DeviceMobile:
		return Device(s), nil
	}
	return "", fmt.Errorf("unknown device %q", s)
}
