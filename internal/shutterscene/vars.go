package shutterscene

var (
	Debug   = false // set to true for verbose debug output
	GIF     = false // set to true to also save an animated GIF preview of the color frames
	RAW     = false // set to true to also dump linear color frames as raw float64
	Workers = 0     // render workers, 0 means runtime.NumCPU()
	SppEnv  = 0     // overrides samples per pixel when > 0
	// Compile time checks that all scene assets can be validated and named
	_ Asset = (*Cube)(nil)
	_ Asset = (*DirectionalLight)(nil)
	_ Asset = (*PerspectiveCamera)(nil)
)
