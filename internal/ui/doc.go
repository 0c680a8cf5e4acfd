// Package ui provides the visual components of the chat widget.
//
// # Layout
//
// The widget floats in the bottom-right corner of the terminal. Collapsed,
// only the launcher badge is drawn. Expanded, the panel sits above it:
//
//	                         ┌──────────────────────────────────────┐
//	                         │ Header: product + conversation title │
//	                         ├────────────┬─────────────────────────┤
//	                         │  Sidebar   │  Chat (transcript)      │
//	                         │            ├─────────────────────────┤
//	                         │            │  Composer               │
//	                         ├────────────┴─────────────────────────┤
//	                         │ Footer: bindings or a notice         │
//	                         └──────────────────────────────────────┘
//	                                          [ ✕ Cerrar asistente ]
//
// # Components
//
// ViewContext computes every dimension from the terminal size. Header,
// Footer, Launcher, Sidebar and Chat are plain structs with SetSize/View
// methods; Sidebar and Chat also take Update. Modal wraps a dialog from the
// modals subpackage and centers it over the panel.
//
// # Styles
//
// Styles are package variables regenerated from the active Theme by
// SetTheme. RefreshModalStyles pushes the palette to the modals package.
package ui
