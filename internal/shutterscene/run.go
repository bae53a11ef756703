package shutterscene

import (
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"time"
)

// Scenario is the set of assets the pipeline places into the scene.
type Scenario struct {
	Floor  *Cube
	Sun    *DirectionalLight
	Camera *PerspectiveCamera
	Pole   *Cube
}

// BuildScenario creates the floor, sun, camera and pole and adds them to scene.
func BuildScenario(scene *Scene, opts Options, rng *rand.Rand) (*Scenario, error) {
	floor, err := CubeCfg{
		Name:           "floor",
		Scale:          Vec3{10, 10, 0.1},
		Position:       Vec3{0, 0, -0.1},
		Static:         true,
		Background:     true,
		SegmentationID: 1,
		Material:       NewPrincipledBSDFMaterial(MustGetColor("black")),
	}.Build()
	if err != nil {
		return nil, err
	}
	sun, err := NewDirectionalLight("sun", Vec3{0, 0, 6}, Vec3{}, 1.5)
	if err != nil {
		return nil, err
	}
	camera, err := NewPerspectiveCamera("camera", Vec3{0, 0, 5}, Vec3{}, FocalLength, SensorWidth)
	if err != nil {
		return nil, err
	}
	if err := scene.Add(floor, sun, camera); err != nil {
		return nil, err
	}
	K := camera.Intrinsics(scene.ResolutionX, scene.ResolutionY)
	InfoLog("camera intrinsics: fx=%.3f fy=%.3f cx=%.3f cy=%.3f", K.At(0, 0), K.At(1, 1), K.At(0, 2), K.At(1, 2))

	velocity := opts.PoleAngularVelocity()
	pole, err := CubeCfg{
		Name:            "rectangle",
		Scale:           Vec3{0.1, 5, 0.1},
		AngularVelocity: velocity,
		Mass:            0.2,
		Friction:        1,
		Restitution:     1,
		Static:          true,
		SegmentationID:  2,
		Material:        NewPrincipledBSDFMaterial(RandomHueColor(rng)),
	}.Build()
	if err != nil {
		return nil, err
	}
	InfoLog("pole position=%v angular velocity=%v scale=%v", pole.Position, pole.AngularVelocity, pole.Scale)
	if err := scene.Add(pole); err != nil {
		return nil, err
	}
	return &Scenario{Floor: floor, Sun: sun, Camera: camera, Pole: pole}, nil
}

func setInterpolation(scene *Scene, interp Interpolation) {
	for _, o := range scene.Objects {
		o.Keyframes.Interpolation = interp
	}
	for _, l := range scene.Lights {
		l.Keyframes.Interpolation = interp
	}
	if scene.Camera != nil {
		scene.Camera.Keyframes.Interpolation = interp
	}
}

// Run executes the whole scenario: scene, optional camera translation, simulation,
// state snapshot, render and writing of the color frames into opts.OutDir.
func Run(opts Options) (*State, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	InfoLog("options: %s", opts)
	cfg, err := loadConfig(opts.SceneConfig)
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(opts.OutDir, 0o755); err != nil {
		return nil, fmt.Errorf("create output directory: %w", err)
	}

	scene, err := NewScene(cfg.ResolutionX, cfg.ResolutionY, FrameStart, FrameStart+opts.NumFrames, cfg.FrameRate, cfg.StepRate)
	if err != nil {
		return nil, err
	}
	scene.Ambient = MustGetColor("white").Mul(cfg.Ambient)
	if scene.Background, err = GetColor(cfg.Background); err != nil {
		return nil, err
	}
	scene.Background.A = 1

	renderer := NewRenderer(scene)
	simulator := NewSimulator(scene)

	seed := opts.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(seed))
	if _, err := BuildScenario(scene, opts, rng); err != nil {
		return nil, err
	}
	interp, err := ParseInterpolation(cfg.Interpolation)
	if err != nil {
		return nil, err
	}
	setInterpolation(scene, interp)

	shutter, err := opts.Shutter()
	if err != nil {
		return nil, err
	}
	renderer.Settings.Shutter = shutter
	renderer.Settings.Spp = cfg.Spp
	if SppEnv > 0 {
		renderer.Settings.Spp = SppEnv
	}
	renderer.Settings.Supersample = cfg.Supersample
	renderer.Settings.Workers = Workers
	renderer.Settings.Seed = seed
	InfoLog("use_motion_blur=%v motion_blur_shutter=%g motion_blur_position=%s rolling_shutter_type=%s rolling_shutter_duration=%g",
		shutter.UseMotionBlur, shutter.MotionBlurShutter, shutter.MotionBlurPosition, shutter.RollingShutterType, shutter.RollingShutterDuration)

	var params []CameraParams
	if opts.TransCamera == 1 {
		if params, err = TranslateCamera(scene, opts.TransVel); err != nil {
			return nil, err
		}
		InfoLog("camera translated to %v over %d keyframes", scene.Camera.Position, len(params))
	}

	start := time.Now()
	bodies, err := simulator.Run()
	if err != nil {
		return nil, err
	}
	DebugLog("Simulated %d moving bodies in %s", len(bodies), time.Since(start))

	st := &State{
		Scene:        scene,
		Render:       renderer.Settings,
		CameraParams: params,
		Bodies:       bodies,
	}
	K := scene.Camera.Intrinsics(scene.ResolutionX, scene.ResolutionY)
	for r := 0; r < 3; r++ {
		for c := 0; c < 3; c++ {
			st.Intrinsics[r][c] = K.At(r, c)
		}
	}
	if err := SaveState(filepath.Join(opts.OutDir, StateFile), st); err != nil {
		return nil, err
	}

	start = time.Now()
	layers, err := renderer.Render()
	if err != nil {
		return nil, err
	}
	InfoLog("rendered %d frames in %s", scene.NumFrames(), time.Since(start))

	for _, name := range DiscardedLayers {
		if _, err := layers.Pop(name); err != nil {
			return nil, err
		}
	}
	if err := WriteImageDict(layers, opts.OutDir, scene.FrameStart, cfg.Gamma); err != nil {
		return nil, err
	}
	if GIF {
		path := filepath.Join(opts.OutDir, LayerRGBA+".gif")
		if err := SaveAnimatedGIF(layers[LayerRGBA], path, cfg.GIFDelay, cfg.Gamma); err != nil {
			return nil, err
		}
		InfoLog("saved animated GIF: %s", path)
	}
	if RAW {
		if err := SaveRawFrames(layers[LayerRGBA], opts.OutDir, scene.FrameStart); err != nil {
			return nil, err
		}
	}
	InfoLog("wrote %v to %s", layers.Names(), opts.OutDir)
	return st, nil
}
