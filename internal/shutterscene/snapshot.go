package shutterscene

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// State is the scene-state snapshot written next to the rendered images.
type State struct {
	Scene        *Scene         `json:"scene"`
	Render       RenderSettings `json:"render"`
	Intrinsics   [3][3]Real     `json:"camera_intrinsics"`
	CameraParams []CameraParams `json:"camera_params,omitempty"`
	Bodies       []BodyState    `json:"bodies,omitempty"`
}

// SaveState writes the snapshot as indented JSON, creating parent directories.
func SaveState(path string, st *State) error {
	if st == nil || st.Scene == nil {
		return fmt.Errorf("nothing to save to %s", path)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(st, "", "  ")
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return err
	}
	DebugLog("Saved scene state to %s (%d bytes)", path, len(data))
	return nil
}

// LoadState reads a snapshot written by SaveState.
func LoadState(path string) (*State, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var st State
	if err := json.Unmarshal(data, &st); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return &st, nil
}
