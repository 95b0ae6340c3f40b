package server

import (
	"encoding/json"
	"fmt"

	"github.com/achilleasa/sdfmarch/renderer"
	"github.com/achilleasa/sdfmarch/scene"
	"github.com/achilleasa/sdfmarch/tracer"
	"github.com/achilleasa/sdfmarch/types"
)

// A control message sent by websocket clients. Only the fields that are
// present are applied.
type ControlMessage struct {
	// Camera.
	Eye   *[3]float32 `json:"eye,omitempty"`
	Yaw   *float32    `json:"yaw,omitempty"`
	Pitch *float32    `json:"pitch,omitempty"`
	Focal *float32    `json:"focal,omitempty"`

	// Scene.
	Sky        *[4]float32 `json:"sky,omitempty"`
	Ambient    *[4]float32 `json:"ambient,omitempty"`
	LightPos   *[3]float32 `json:"light_pos,omitempty"`
	LightColor *[4]float32 `json:"light_color,omitempty"`
	Op         *string     `json:"op,omitempty"`
	Floor      *bool       `json:"floor,omitempty"`

	// Shading mode name.
	Mode *string `json:"mode,omitempty"`
}

// Parse a JSON control message.
func ParseControlMessage(data []byte) (*ControlMessage, error) {
	var msg ControlMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, fmt.Errorf("server: invalid control message: %w", err)
	}
	return &msg, nil
}

// Apply the message to the renderer. Changes take effect on the next frame.
func (m *ControlMessage) Apply(r renderer.Renderer) error {
	if m.Eye != nil || m.Yaw != nil || m.Pitch != nil || m.Focal != nil {
		camera := r.Camera()
		if m.Eye != nil {
			camera.Eye = types.Vec3(*m.Eye)
		}
		if m.Yaw != nil {
			camera.Yaw = *m.Yaw
		}
		if m.Pitch != nil {
			camera.Pitch = *m.Pitch
		}
		if m.Focal != nil {
			camera.FocalLength = *m.Focal
		}
		if err := r.UpdateCamera(camera); err != nil {
			return err
		}
	}

	if m.Sky != nil || m.Ambient != nil || m.LightPos != nil || m.LightColor != nil || m.Op != nil || m.Floor != nil {
		sc := r.Scene()
		if m.Sky != nil {
			sc.SkyColor = types.Color(*m.Sky)
		}
		if m.Ambient != nil {
			sc.Ambient = types.Color(*m.Ambient)
		}
		if m.LightPos != nil {
			sc.Light0Position = types.Vec3(*m.LightPos)
		}
		if m.LightColor != nil {
			sc.Light0Color = types.Color(*m.LightColor)
		}
		if m.Op != nil {
			op, err := scene.ParseOperation(*m.Op)
			if err != nil {
				return err
			}
			if err = sc.SetOperation(op); err != nil {
				return err
			}
		}
		if m.Floor != nil {
			switch {
			case !*m.Floor:
				sc.Floor = nil
			case sc.Floor == nil:
				sc.Floor = scene.NewDefaultScene().Floor
			}
		}
		if err := r.UpdateScene(sc); err != nil {
			return err
		}
	}

	if m.Mode != nil {
		mode, err := tracer.ParseMode(*m.Mode)
		if err != nil {
			return err
		}
		r.SetMode(mode)
	}

	return nil
}
