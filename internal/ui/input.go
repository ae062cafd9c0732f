package ui

import (
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/driver/mobile"
)

// GestureType represents different types of gestures
type GestureType int

const (
	GestureTap GestureType = iota
	GestureSwipeLeft
	GestureSwipeRight
	GestureSwipeUp
	GestureSwipeDown
	GestureLongPress
)

// Gesture thresholds constants
const (
	DefaultSwipeThreshold    float32 = 50.0
	DefaultLongPressDuration         = 500 * time.Millisecond
)

// GestureHandler turns raw touch events into gesture callbacks
type GestureHandler struct {
	onGesture func(GestureType)

	// Touch tracking
	touchStartTime time.Time
	touchStartPos  fyne.Position

	// Gesture thresholds
	swipeThreshold    float32
	longPressDuration time.Duration
}

// NewGestureHandler creates a new gesture handler
func NewGestureHandler(onGesture func(GestureType)) *GestureHandler {
	return &GestureHandler{
		onGesture:         onGesture,
		swipeThreshold:    DefaultSwipeThreshold,
		longPressDuration: DefaultLongPressDuration,
	}
}

// TouchDown handles touch down events for gesture detection
func (gh *GestureHandler) TouchDown(event *mobile.TouchEvent) {
	gh.touchStartTime = time.Now()
	gh.touchStartPos = event.Position
}

// TouchUp handles touch up events for gesture detection
func (gh *GestureHandler) TouchUp(event *mobile.TouchEvent) {
	if gh.touchStartTime.IsZero() {
		return
	}
	duration := time.Since(gh.touchStartTime)
	gh.touchStartTime = time.Time{}

	dx := event.Position.X - gh.touchStartPos.X
	dy := event.Position.Y - gh.touchStartPos.Y
	distSq := dx*dx + dy*dy
	threshSq := gh.swipeThreshold * gh.swipeThreshold

	switch {
	case distSq >= threshSq:
		gh.detectSwipeDirection(dx, dy)
	case duration >= gh.longPressDuration:
		gh.triggerGesture(GestureLongPress)
	default:
		gh.triggerGesture(GestureTap)
	}
}

// TouchCancel handles touch cancel events
func (gh *GestureHandler) TouchCancel(event *mobile.TouchEvent) {
	// Reset tracking
	gh.touchStartTime = time.Time{}
}

// detectSwipeDirection determines the direction of a swipe gesture
func (gh *GestureHandler) detectSwipeDirection(dx, dy float32) {
	absDx := dx
	if absDx < 0 {
		absDx = -absDx
	}
	absDy := dy
	if absDy < 0 {
		absDy = -absDy
	}

	if absDx > absDy {
		if dx > 0 {
			gh.triggerGesture(GestureSwipeRight)
		} else {
			gh.triggerGesture(GestureSwipeLeft)
		}
	} else {
		if dy > 0 {
			gh.triggerGesture(GestureSwipeDown)
		} else {
			gh.triggerGesture(GestureSwipeUp)
		}
	}
}

// triggerGesture triggers a gesture callback
func (gh *GestureHandler) triggerGesture(gesture GestureType) {
	if gh.onGesture != nil {
		gh.onGesture(gesture)
	}
}

// SwipeableWidget wraps a canvas object with swipe gesture detection
type SwipeableWidget struct {
	fyne.CanvasObject
	gestureHandler *GestureHandler
}

// NewSwipeableWidget creates a new swipeable widget
func NewSwipeableWidget(widget fyne.CanvasObject, onGesture func(GestureType)) *SwipeableWidget {
	return &SwipeableWidget{
		CanvasObject:   widget,
		gestureHandler: NewGestureHandler(onGesture),
	}
}

// TouchDown handles touch down events
func (sw *SwipeableWidget) TouchDown(event *mobile.TouchEvent) {
	sw.gestureHandler.TouchDown(event)
}

// TouchUp handles touch up events
func (sw *SwipeableWidget) TouchUp(event *mobile.TouchEvent) {
	sw.gestureHandler.TouchUp(event)
}

// TouchCancel handles touch cancel events
func (sw *SwipeableWidget) TouchCancel(event *mobile.TouchEvent) {
	sw.gestureHandler.TouchCancel(event)
}

// BrowserNav is the navigation surface an input strategy can drive.
type BrowserNav interface {
	NavigateUp()
	Refresh()
}

// InputStrategy adapts the browse view to the device's input capabilities.
// The strategy is selected once at startup and never re-evaluated.
type InputStrategy interface {
	Name() string
	WrapBrowser(content fyne.CanvasObject, nav BrowserNav) fyne.CanvasObject
}

// GestureInput maps touch gestures onto browser navigation: swipe right
// goes up one directory, swipe down refreshes the listing.
type GestureInput struct{}

func (GestureInput) Name() string { return "gesture" }

func (GestureInput) WrapBrowser(content fyne.CanvasObject, nav BrowserNav) fyne.CanvasObject {
	return NewSwipeableWidget(content, func(g GestureType) {
		switch g {
		case GestureSwipeRight:
			nav.NavigateUp()
		case GestureSwipeDown:
			nav.Refresh()
		}
	})
}

// BasicInput leaves the content untouched; navigation happens through the
// on-screen buttons only.
type BasicInput struct{}

func (BasicInput) Name() string { return "basic" }

func (BasicInput) WrapBrowser(content fyne.CanvasObject, nav BrowserNav) fyne.CanvasObject {
	return content
}

// SelectInputStrategy picks the strategy for the current device.
func SelectInputStrategy(dev fyne.Device) InputStrategy {
	if dev != nil && dev.IsMobile() {
		return GestureInput{}
	}
	return BasicInput{}
}
