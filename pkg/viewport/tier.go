package viewport

import (
	"strings"

	"github.com/matzehuels/pinmap/pkg/errors"
)

// Tier is a device class.
type Tier string

const (
	TierPointer Tier = "pointer"
	TierTouch   Tier = "touch"
)

// Tiers lists every tier in display order.
var Tiers = []Tier{TierPointer, TierTouch}

// ParseTier parses a tier name. The empty string is TierPointer.
func ParseTier(s string) (Tier, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", string(TierPointer):
		return TierPointer, nil
	case string(TierTouch):
		return TierTouch, nil
	default:
		return "", errors.New(errors.ErrCodeInvalidTier, "unknown device tier %q (want pointer or touch)", s)
	}
}

// Config configures the viewport transform for one tier.
type Config struct {
	MinScale            float64 `json:"min_scale"`
	MaxScale            float64 `json:"max_scale"`
	InitialScale        float64 `json:"initial_scale"`
	WheelEnabled        bool    `json:"wheel_enabled"`
	PinchEnabled        bool    `json:"pinch_enabled"`
	PanEnabled          bool    `json:"pan_enabled"`
	DoubleClickZoomStep float64 `json:"double_click_zoom_step"`
}

// ZoomStep is the multiplicative step used by ZoomIn and ZoomOut.
const ZoomStep = 1.25

// Policies is the device-tier policy table.
var Policies = map[Tier]Config{
	TierPointer: {
		MinScale:            0.5,
		MaxScale:            4,
		InitialScale:        1,
		WheelEnabled:        true,
		PinchEnabled:        false,
		PanEnabled:          false,
		DoubleClickZoomStep: 0.7,
	},
	TierTouch: {
		MinScale:            1,
		MaxScale:            3,
		InitialScale:        1,
		WheelEnabled:        false,
		PinchEnabled:        true,
		PanEnabled:          true,
		DoubleClickZoomStep: 0.5,
	},
}

// ConfigFor returns the policy for t. Unknown tiers get the pointer policy.
func ConfigFor(t Tier) Config {
	if c, ok := Policies[t]; ok {
		return c
	}
	return Policies[TierPointer]
}

// Classifier reports the device class of the current client.
type Classifier interface {
	IsTouchTier() bool
}

// Static is a Classifier with a fixed answer.
type Static bool

// IsTouchTier implements Classifier.
func (s Static) IsTouchTier() bool { return bool(s) }

// UserAgent classifies an HTTP client by its User-Agent header.
type UserAgent string

var touchAgents = []string{"mobi", "android", "iphone", "ipad", "ipod", "tablet", "silk", "kindle"}

// IsTouchTier implements Classifier.
func (ua UserAgent) IsTouchTier() bool {
	s := strings.ToLower(string(ua))
	for _, marker := range touchAgents {
		if strings.Contains(s, marker) {
			return true
		}
	}
	return false
}

// TierOf classifies c. A nil classifier is TierPointer.
func TierOf(c Classifier) Tier {
	if c != nil && c.IsTouchTier() {
		return TierTouch
	}
	return TierPointer
}
