// ABOUTME: Event feed message type definitions
// ABOUTME: Defines the JSON envelope and payloads sent to feed listeners
package protocol

import "encoding/json"

// Version is the feed protocol version exchanged in the handshake
const Version = 1

// Message types
const (
	TypeClientHello    = "client/hello"
	TypeServerHello    = "server/hello"
	TypeServerError    = "server/error"
	TypeClipSelected   = "clip/selected"
	TypePlaybackState  = "playback/state"
	TypePlayheadUpdate = "playhead/update"
	TypeMarkerReached  = "marker/reached"
)

// Message is the top-level wrapper for all feed messages
type Message struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload"`
}

// Envelope is a received message with its payload left undecoded
type Envelope struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// Decode unmarshals the payload into v
func (e Envelope) Decode(v interface{}) error {
	return json.Unmarshal(e.Payload, v)
}

// ClientHello is sent by listeners to open the feed
type ClientHello struct {
	ClientID string `json:"client_id"`
	Name     string `json:"name"`
	Version  int    `json:"version"`
}

// DeviceInfo identifies the inspector publishing the feed
type DeviceInfo struct {
	ProductName     string `json:"product_name"`
	Manufacturer    string `json:"manufacturer"`
	SoftwareVersion string `json:"software_version"`
}

// ServerHello is the inspector's response to client/hello
type ServerHello struct {
	ServerID   string      `json:"server_id"`
	Name       string      `json:"name"`
	Version    int         `json:"version"`
	DeviceInfo *DeviceInfo `json:"device_info,omitempty"`
}

// ServerError is sent before the server drops a connection
type ServerError struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// ClipInfo describes the selected clip
type ClipInfo struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Source     string `json:"source,omitempty"`
	SampleRate int    `json:"sample_rate,omitempty"`
	Channels   int    `json:"channels,omitempty"`
	Samples    int    `json:"samples"`
	DurationMs int64  `json:"duration_ms"`
}

// ClipSelected reports a selection change; Clip is null when cleared
type ClipSelected struct {
	Clip *ClipInfo `json:"clip"`
}

// PlaybackState reports play/stop transitions
type PlaybackState struct {
	State  string `json:"state"` // "playing" or "stopped"
	Sample int    `json:"sample"`
}

// PlayheadUpdate reports the playhead position
type PlayheadUpdate struct {
	ClipID string `json:"clip_id"`
	Sample int    `json:"sample"`
	TimeMs int64  `json:"time_ms"`
}

// MarkerReached reports a marker crossing during playback
type MarkerReached struct {
	ClipID   string `json:"clip_id"`
	MarkerID int    `json:"marker_id"`
	Sample   int    `json:"sample"`
	TimeMs   int64  `json:"time_ms"`
}
