package ui

import "testing"

func TestViewContext_UpdateTerminalSize(t *testing.T) {
	tests := []struct {
		name          string
		width, height int
		panelWidth    int
		panelHeight   int
	}{
		{"large terminal caps panel", 200, 60, MaxPanelWidth, MaxPanelHeight},
		{"small terminal fills", 80, 24, 79, 23},
		{"degenerate clamps to minimum", 10, 5, MinTerminalWidth - 1, MinTerminalHeight - 1},
	}

	ctx := &ViewContext{}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx.UpdateTerminalSize(tt.width, tt.height)
			if ctx.PanelWidth != tt.panelWidth || ctx.PanelHeight != tt.panelHeight {
				t.Errorf("panel = %dx%d, want %dx%d", ctx.PanelWidth, ctx.PanelHeight, tt.panelWidth, tt.panelHeight)
			}
			if ctx.SidebarWidth+ctx.ChatWidth != ctx.PanelWidth {
				t.Errorf("sidebar %d + chat %d != panel %d", ctx.SidebarWidth, ctx.ChatWidth, ctx.PanelWidth)
			}
			if ctx.ContentHeight != ctx.PanelHeight-HeaderHeight-FooterHeight {
				t.Errorf("content height = %d", ctx.ContentHeight)
			}
			if ctx.SidebarWidth > ctx.PanelWidth/2 {
				t.Errorf("sidebar %d wider than half of %d", ctx.SidebarWidth, ctx.PanelWidth)
			}
		})
	}
}

func TestViewContext_Inner(t *testing.T) {
	ctx := GetViewContext()
	if got := ctx.InnerWidth(30); got != 28 {
		t.Errorf("InnerWidth(30) = %d, want 28", got)
	}
	if got := ctx.InnerHeight(10); got != 8 {
		t.Errorf("InnerHeight(10) = %d, want 8", got)
	}
}
