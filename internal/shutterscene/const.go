package shutterscene

// Real is the scalar type used across the engine.
type Real = float64

// Channel indices for readability.
const (
	ChR = 0
	ChG = 1
	ChB = 2
	ChA = 3
)

const (
	ResolutionX      = 640
	ResolutionY      = 480
	FrameStart       = 0
	FrameRate        = 24  // rendering framerate
	StepRate         = 240 // simulation framerate
	Spp              = 4   // samples per pixel
	Supersample      = 1   // render at k x resolution and downsample
	Gamma            = 0   // 0 selects the sRGB transfer curve, > 0 a plain power curve
	GIFDelay         = 8   // 100ths of a second per preview frame
	FocalLength      = 50.0
	SensorWidth      = 36.0
	Gravity          = -9.81
	StateFile        = "camera_shutter_example.json"
	DefaultOutDir    = "./output"
	ShadowBias       = 1e-4

	epsDist = 1e-9
)

// Output channel names produced by the renderer.
const (
	LayerRGBA              = "rgba"
	LayerSegmentation      = "segmentation"
	LayerObjectCoordinates = "object_coordinates"
	LayerForwardFlow       = "forward_flow"
	LayerBackwardFlow      = "backward_flow"
	LayerNormal            = "normal"
	LayerDepth             = "depth"
)

// DiscardedLayers are popped from the render output before writing; only color survives.
var DiscardedLayers = []string{
	LayerSegmentation,
	LayerObjectCoordinates,
	LayerForwardFlow,
	LayerBackwardFlow,
	LayerNormal,
	LayerDepth,
}
