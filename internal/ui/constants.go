package ui

import "time"

// Layout constants for the panel and its parts.
const (
	// HeaderHeight is the height of the panel header in lines
	HeaderHeight = 1

	// FooterHeight is the height of the footer in lines
	FooterHeight = 1

	// LauncherHeight is the height of the launcher badge row
	LauncherHeight = 1

	// BorderSize is the total border width (1 on each side)
	BorderSize = 2

	// SidebarWidthRatio is the denominator for sidebar width (1/3 of the panel)
	SidebarWidthRatio = 3

	// MinSidebarWidth keeps conversation titles readable on narrow panels
	MinSidebarWidth = 18

	// TextareaHeight is the number of lines for the composer
	TextareaHeight = 3

	// TextareaBorderHeight is the border size around the composer
	TextareaBorderHeight = 2

	// InputPaddingWidth is the horizontal padding inside the composer (Padding(0, 1))
	InputPaddingWidth = 2

	// InputTotalHeight is the total height of the composer area
	InputTotalHeight = TextareaHeight + TextareaBorderHeight

	// DefaultWrapWidth is used when the viewport width is not known yet
	DefaultWrapWidth = 80
)

// Panel sizing. The expanded panel floats in the bottom-right corner and
// takes at most these dimensions.
const (
	MaxPanelWidth  = 110
	MaxPanelHeight = 36

	// MinTerminalWidth and MinTerminalHeight clamp degenerate sizes
	MinTerminalWidth  = 40
	MinTerminalHeight = 12
)

// Modal dimensions
const (
	// ModalWidth is the default width of dialogs
	ModalWidth = 56

	// ModalInputWidth is the width of dialog inputs
	ModalInputWidth = 46
)

// Timing
const (
	// FlashDuration is how long a transient footer notice stays visible
	FlashDuration = 3 * time.Second

	// SidebarTickInterval drives the pending-delete spinner
	SidebarTickInterval = 100 * time.Millisecond
)
