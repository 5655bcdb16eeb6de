package window

// WindowBuilderOption is a functional option for configuring an engineWindow.
// Use the With* functions to create options.
type WindowBuilderOption func(w *engineWindow)

// WithTitle sets the window title displayed in the title bar.
//
// Parameters:
//   - title: the window title text
//
// Returns:
//   - WindowBuilderOption: option function to apply
func WithTitle(title string) WindowBuilderOption {
	return func(w *engineWindow) {
		w.title = title
	}
}

// WithWidth sets the initial window width.
//
// Parameters:
//   - width: initial width in pixels
//
// Returns:
//   - WindowBuilderOption: option function to apply
func WithWidth(width int) WindowBuilderOption {
	return func(w *engineWindow) {
		w.width = width
	}
}

// WithHeight sets the initial window height.
//
// Parameters:
//   - height: initial height in pixels
//
// Returns:
//   - WindowBuilderOption: option function to apply
func WithHeight(height int) WindowBuilderOption {
	return func(w *engineWindow) {
		w.height = height
	}
}

// WithMinSize sets the smallest size the window can be resized to.
//
// Parameters:
//   - width, height: minimum size in screen coordinates
//
// Returns:
//   - WindowBuilderOption: option function to apply
func WithMinSize(width, height int) WindowBuilderOption {
	return func(w *engineWindow) {
		w.minWidth = width
		w.minHeight = height
	}
}

// WithPanButton selects which mouse button is published as pointer down/up.
//
// Parameters:
//   - button: one of the common.MouseButton* constants
//
// Returns:
//   - WindowBuilderOption: option function to apply
func WithPanButton(button int) WindowBuilderOption {
	return func(w *engineWindow) {
		w.panButton = button
	}
}

// WithWheelScale sets how many wheel-delta pixels one scroll line produces.
//
// Parameters:
//   - scale: pixels per scroll line
//
// Returns:
//   - WindowBuilderOption: option function to apply
func WithWheelScale(scale float32) WindowBuilderOption {
	return func(w *engineWindow) {
		w.wheelScale = scale
	}
}
