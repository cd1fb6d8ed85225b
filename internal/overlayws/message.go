package overlayws

import (
	"encoding/json"

	"github.com/Garsondee/Block-Sense/internal/engine"
)

// Client -> Server message types
const (
	MsgComputeScene uint8 = 0x01
	MsgPing         uint8 = 0x04
)

// Server -> Client message types
const (
	MsgOverlay uint8 = 0x81
	MsgPong    uint8 = 0x86
	MsgError   uint8 = 0x8F
)

// Message is the JSON envelope for every frame. Tick is chosen by the client
// and echoed on the reply so requests can be matched to overlays.
type Message struct {
	Type    uint8           `json:"type"`
	Tick    uint32          `json:"tick"`
	Payload json.RawMessage `json:"payload"`
}

// ScenePayload is the body of MsgComputeScene.
type ScenePayload = engine.Scene

// OverlayPayload is the body of MsgOverlay.
type OverlayPayload = engine.Overlay

type PingPayload struct {
	ClientTime uint64 `json:"clientTime"`
}

type PongPayload struct {
	ClientTime uint64 `json:"clientTime"`
	ServerTime uint64 `json:"serverTime"`
}

type ErrorPayload struct {
	Message string `json:"message"`
}

func Encode(msg Message) ([]byte, error) {
	return json.Marshal(msg)
}

func Decode(data []byte) (Message, error) {
	var msg Message
	err := json.Unmarshal(data, &msg)
	return msg, err
}

func NewMessage(typ uint8, tick uint32, payload any) (Message, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return Message{}, err
	}
	return Message{
		Type:    typ,
		Tick:    tick,
		Payload: json.RawMessage(data),
	}, nil
}
