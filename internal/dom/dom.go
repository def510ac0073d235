// Package dom names the page elements shared by the server template and the
// browser build.
package dom

const (
	CanvasID       = "chart1"
	MapContainerID = "aus-map"
	TooltipID      = "map-tip"
	TooltipLabelID = "state-name"
	RegionSelector = ".paths"
)
