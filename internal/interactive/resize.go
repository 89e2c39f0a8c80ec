package interactive

// TargetSize computes the pane size the multiplexer session should be
// resized to from the preview area's dimensions: width is reduced by the
// panel border, height by the metadata rows above the capture (§4.6).
func TargetSize(previewWidth, previewHeight, metadataRows int) (width, height int) {
	width = previewWidth - 2
	height = previewHeight - metadataRows
	if width < 1 {
		width = 1
	}
	if height < 1 {
		height = 1
	}
	return width, height
}

// NeedsResizeRetry reports whether the pane size observed in the next
// cursor-metadata capture still doesn't match target and a retry hasn't
// already run (§4.6's "retry exactly once").
func NeedsResizeRetry(observedW, observedH, targetW, targetH int, alreadyRetried bool) bool {
	if alreadyRetried {
		return false
	}
	return observedW != targetW || observedH != targetH
}
