package shutterscene

import (
	"flag"
	"fmt"
	"strings"
)

// Options are the command line settings of one scenario run.
type Options struct {
	NumFrames          int
	RotatePole         int
	AngularVel         Real
	TransCamera        int
	TransVel           Real
	UseMotionBlur      int
	RollingShutterType string
	RollingShutter     Real
	MotionBlurShutter  Real
	MotionBlurPosition string
	OutDir             string
	Seed               int64
	SceneConfig        string
}

// DefaultOptions returns the flag defaults.
func DefaultOptions() Options {
	return Options{
		NumFrames:          6,
		RotatePole:         0,
		AngularVel:         20,
		TransCamera:        0,
		TransVel:           0.5,
		UseMotionBlur:      0,
		RollingShutterType: string(RollingShutterNone),
		RollingShutter:     0.025,
		MotionBlurShutter:  0.5,
		MotionBlurPosition: string(MotionBlurCenter),
		OutDir:             DefaultOutDir,
	}
}

// RegisterFlags binds every option to fs, using the current values as defaults.
func (o *Options) RegisterFlags(fs *flag.FlagSet) {
	fs.IntVar(&o.NumFrames, "num_frames", o.NumFrames, "number of frames to render")
	fs.IntVar(&o.RotatePole, "rotate_pole", o.RotatePole, "1 to spin the pole around the Z axis")
	fs.Float64Var(&o.AngularVel, "angular_vel", o.AngularVel, "pole angular velocity (rad/s)")
	fs.IntVar(&o.TransCamera, "trans_camera", o.TransCamera, "1 to translate the camera along X")
	fs.Float64Var(&o.TransVel, "trans_vel", o.TransVel, "camera translation per frame")
	fs.IntVar(&o.UseMotionBlur, "use_motion_blur", o.UseMotionBlur, "1 to enable motion blur")
	fs.StringVar(&o.RollingShutterType, "rolling_shutter_type", o.RollingShutterType, "rolling shutter type: NONE or TOP")
	fs.Float64Var(&o.RollingShutter, "rolling_shutter", o.RollingShutter, "rolling shutter scanline duration, fraction of the shutter")
	fs.Float64Var(&o.MotionBlurShutter, "motion_blur_shutter", o.MotionBlurShutter, "shutter time in frames")
	fs.StringVar(&o.MotionBlurPosition, "motion_blur_position", o.MotionBlurPosition, "shutter position: START, CENTER or END")
	fs.StringVar(&o.OutDir, "out_dir", o.OutDir, "output directory")
	fs.Int64Var(&o.Seed, "seed", o.Seed, "random seed, 0 means time based")
	fs.StringVar(&o.SceneConfig, "scene_config", o.SceneConfig, "optional JSON file with render settings")
}

// ParseOptions parses args (without the program name) into validated Options.
func ParseOptions(name string, args []string) (Options, error) {
	o := DefaultOptions()
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	o.RegisterFlags(fs)
	if err := fs.Parse(args); err != nil {
		return o, err
	}
	if fs.NArg() > 0 {
		return o, fmt.Errorf("unexpected arguments: %s", strings.Join(fs.Args(), " "))
	}
	if err := o.Validate(); err != nil {
		return o, err
	}
	return o, nil
}

func checkSwitch(name string, v int) error {
	if v != 0 && v != 1 {
		return fmt.Errorf("--%s must be 0 or 1, got %d", name, v)
	}
	return nil
}

func (o Options) Validate() error {
	if o.NumFrames < 1 {
		return fmt.Errorf("--num_frames must be >= 1, got %d", o.NumFrames)
	}
	for _, sw := range []struct {
		name string
		v    int
	}{
		{"rotate_pole", o.RotatePole},
		{"trans_camera", o.TransCamera},
		{"use_motion_blur", o.UseMotionBlur},
	} {
		if err := checkSwitch(sw.name, sw.v); err != nil {
			return err
		}
	}
	if !isFinite(o.AngularVel) || !isFinite(o.TransVel) {
		return fmt.Errorf("velocities must be finite, got angular_vel=%v trans_vel=%v", o.AngularVel, o.TransVel)
	}
	if o.OutDir == "" {
		return fmt.Errorf("--out_dir must not be empty")
	}
	if _, err := o.Shutter(); err != nil {
		return err
	}
	return nil
}

// Shutter converts the shutter flags into renderer settings.
func (o Options) Shutter() (ShutterSettings, error) {
	rs, err := ParseRollingShutterType(o.RollingShutterType)
	if err != nil {
		return ShutterSettings{}, err
	}
	pos, err := ParseMotionBlurPosition(o.MotionBlurPosition)
	if err != nil {
		return ShutterSettings{}, err
	}
	s := ShutterSettings{
		UseMotionBlur:          o.UseMotionBlur == 1,
		MotionBlurShutter:      o.MotionBlurShutter,
		MotionBlurPosition:     pos,
		RollingShutterType:     rs,
		RollingShutterDuration: o.RollingShutter,
	}
	if err := s.Validate(); err != nil {
		return ShutterSettings{}, err
	}
	return s, nil
}

// PoleAngularVelocity is the pole spin: about Z when rotate_pole is set, zero otherwise.
func (o Options) PoleAngularVelocity() Vec3 {
	if o.RotatePole == 1 {
		return Vec3{0, 0, o.AngularVel}
	}
	return Vec3{}
}

func (o Options) String() string {
	return fmt.Sprintf("num_frames=%d rotate_pole=%d angular_vel=%g trans_camera=%d trans_vel=%g use_motion_blur=%d rolling_shutter_type=%s rolling_shutter=%g motion_blur_shutter=%g motion_blur_position=%s out_dir=%s seed=%d scene_config=%q",
		o.NumFrames, o.RotatePole, o.AngularVel, o.TransCamera, o.TransVel, o.UseMotionBlur,
		o.RollingShutterType, o.RollingShutter, o.MotionBlurShutter, o.MotionBlurPosition,
		o.OutDir, o.Seed, o.SceneConfig)
}
