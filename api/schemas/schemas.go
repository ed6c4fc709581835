package schemas

// FrameSnapshot is the published output of one tick. It is what a trace sink receives.
type FrameSnapshot struct {
	Frame       uint64             `json:"frame"`
	Roll        float64            `json:"roll"`
	Pitch       float64            `json:"pitch"`
	Calibration string             `json:"calibration"`
	Settings    map[string]float64 `json:"settings"`
	Morphs      map[string]float64 `json:"morphs"`
	Colliders   map[string]float64 `json:"colliders,omitempty"`
}
