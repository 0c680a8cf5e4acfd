package ui

import (
	"sync"

	"github.com/zhubert/chatmodal/internal/logger"
)

// ViewContext is the one place widget dimensions are derived from the
// terminal size, so the panel, sidebar and chat always agree.
type ViewContext struct {
	TerminalWidth  int
	TerminalHeight int

	// PanelWidth and PanelHeight cover the whole expanded panel, header and
	// footer included. The launcher row sits below it.
	PanelWidth  int
	PanelHeight int

	HeaderHeight  int
	FooterHeight  int
	ContentHeight int // rows between header and footer

	SidebarWidth int
	ChatWidth    int

	mu sync.Mutex
}

var layout = &ViewContext{HeaderHeight: HeaderHeight, FooterHeight: FooterHeight}

// GetViewContext returns the layout shared by every component.
func GetViewContext() *ViewContext { return layout }

// UpdateTerminalSize recomputes the layout for a width x height terminal.
// Sizes below the supported minimum are clamped.
func (v *ViewContext) UpdateTerminalSize(width, height int) {
	width, height = max(width, MinTerminalWidth), max(height, MinTerminalHeight)

	v.mu.Lock()
	v.TerminalWidth, v.TerminalHeight = width, height
	v.HeaderHeight, v.FooterHeight = HeaderHeight, FooterHeight

	// Keep a free column on the right and the launcher row underneath.
	v.PanelWidth = min(MaxPanelWidth, width-1)
	v.PanelHeight = min(MaxPanelHeight, height-LauncherHeight)
	v.ContentHeight = v.PanelHeight - v.HeaderHeight - v.FooterHeight

	v.SidebarWidth = min(v.PanelWidth/2, max(MinSidebarWidth, v.PanelWidth/SidebarWidthRatio))
	v.ChatWidth = v.PanelWidth - v.SidebarWidth
	panelW, panelH, sideW := v.PanelWidth, v.PanelHeight, v.SidebarWidth
	v.mu.Unlock()

	logger.WithComponent("ui").Debug("layout",
		"terminal", []int{width, height},
		"panel", []int{panelW, panelH},
		"sidebar", sideW,
	)
}

// InnerWidth is panelWidth minus the left and right border.
func (v *ViewContext) InnerWidth(panelWidth int) int { return panelWidth - BorderSize }

// InnerHeight is panelHeight minus the top and bottom border.
func (v *ViewContext) InnerHeight(panelHeight int) int { return panelHeight - BorderSize }
