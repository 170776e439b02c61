package realtime

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// Input is one image request sent over the realtime connection.
type Input struct {
	Prompt            string   `json:"prompt"`
	ImageURL          string   `json:"image_url"`
	Seed              int      `json:"seed"`
	SyncMode          bool     `json:"sync_mode"`
	NumInferenceSteps *int     `json:"num_inference_steps,omitempty"`
	GuidanceScale     *float64 `json:"guidance_scale,omitempty"`
	Strength          *float64 `json:"strength,omitempty"`
}

// Image describes one generated output image.
type Image struct {
	URL    string `json:"url"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
}

// Output is a successful result frame.
type Output struct {
	Images []Image `json:"images"`
	Seed   int     `json:"seed"`
}

// ServerError is reported through OnError when the service rejects a request.
type ServerError struct {
	Message string
	Reason  string
}

func (e *ServerError) Error() string {
	if e.Reason == "" {
		return "realtime: " + e.Message
	}
	return fmt.Sprintf("realtime: %s (%s)", e.Message, e.Reason)
}

var ErrInvalidAppID = errors.New("invalid app id")

var legacyAppID = regexp.MustCompile(`^([0-9]+)-([a-zA-Z0-9-]+)$`)

// ParseAppID splits an app id into owner and alias. Both the
// "owner/alias" form and the legacy numeric "123-alias" form are accepted.
func ParseAppID(id string) (owner, alias string, err error) {
	if o, a, ok := strings.Cut(id, "/"); ok && o != "" && a != "" {
		return o, a, nil
	}
	if m := legacyAppID.FindStringSubmatch(id); m != nil {
		return m[1], m[2], nil
	}
	return "", "", fmt.Errorf("%w: %q", ErrInvalidAppID, id)
}

// frame is the envelope every incoming message is peeked through before
// being decoded as a result.
type frame struct {
	Type   string `json:"type"`
	Status string `json:"status"`
	Error  string `json:"error"`
	Reason string `json:"reason"`
}

const (
	frameMessage = "x-fal-message"
	frameError   = "x-fal-error"
)
