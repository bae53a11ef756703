package shutterscene

import (
	"errors"
	"fmt"
	"math"
	"math/rand"
	"runtime"
	"sync"
	"sync/atomic"
	"time"
)

// RenderSettings control sampling and exposure.
type RenderSettings struct {
	Spp         int             `json:"spp"`         // color samples per pixel
	Supersample int             `json:"supersample"` // render color at k x resolution, then downsample
	Workers     int             `json:"-"`           // 0 means runtime.NumCPU()
	Seed        int64           `json:"seed"`
	Shutter     ShutterSettings `json:"shutter"`
}

// Renderer ray casts the scene into color and auxiliary layers.
type Renderer struct {
	scene    *Scene
	Settings RenderSettings
	Stats    RayStats
}

// NewRenderer attaches a renderer with default settings to the scene.
func NewRenderer(scene *Scene) *Renderer {
	return &Renderer{
		scene: scene,
		Settings: RenderSettings{
			Spp:         Spp,
			Supersample: Supersample,
			Seed:        time.Now().UnixNano(),
			Shutter: ShutterSettings{
				MotionBlurShutter:      0.5,
				MotionBlurPosition:     MotionBlurCenter,
				RollingShutterType:     RollingShutterNone,
				RollingShutterDuration: 0.1,
			},
		},
	}
}

func (r *Renderer) workers() int {
	w := r.Settings.Workers
	if w <= 0 {
		w = runtime.NumCPU()
	}
	return imax(w, 1)
}

// Render produces every layer for every frame in [FrameStart, FrameEnd].
func (r *Renderer) Render() (Layers, error) {
	s := r.scene
	if s == nil {
		return nil, errors.New("renderer has no scene")
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	if s.Camera == nil {
		return nil, errors.New("scene has no camera")
	}
	if r.Settings.Spp <= 0 || r.Settings.Supersample <= 0 {
		return nil, fmt.Errorf("spp and supersample must be positive, got %d / %d", r.Settings.Spp, r.Settings.Supersample)
	}
	if err := r.Settings.Shutter.Validate(); err != nil {
		return nil, err
	}

	W, H, n := s.ResolutionX, s.ResolutionY, s.NumFrames()
	layers := Layers{
		LayerRGBA:              newLayer(LayerRGBA, W, H, 4, n),
		LayerSegmentation:      newLayer(LayerSegmentation, W, H, 1, n),
		LayerObjectCoordinates: newLayer(LayerObjectCoordinates, W, H, 3, n),
		LayerForwardFlow:       newLayer(LayerForwardFlow, W, H, 2, n),
		LayerBackwardFlow:      newLayer(LayerBackwardFlow, W, H, 2, n),
		LayerNormal:            newLayer(LayerNormal, W, H, 3, n),
		LayerDepth:             newLayer(LayerDepth, W, H, 1, n),
	}

	r.Stats.Reset()
	start := time.Now()
	InfoLog("Rendering %d frames at %dx%d (spp=%d, supersample=%d, workers=%d, motion blur=%v, rolling shutter=%s)",
		n, W, H, r.Settings.Spp, r.Settings.Supersample, r.workers(), r.Settings.Shutter.UseMotionBlur, r.Settings.Shutter.RollingShutterType)
	for fi := 0; fi < n; fi++ {
		frame := s.FrameStart + fi
		color := r.renderColor(frame)
		if k := r.Settings.Supersample; k > 1 {
			color = downsample(color, W*k, H*k, W, H)
		}
		layers[LayerRGBA].Frames[fi] = color
		r.renderAux(frame, fi, layers)
		progressLog("RENDER", Real(fi+1)*100/Real(n))
	}
	DebugLog("Rendered %d frames in %s", n, time.Since(start))
	if Debug {
		r.Stats.report()
	}
	return layers, nil
}

// parallelRows runs fn for every row in [0, h) on the worker pool.
// Each row gets its own RNG seeded from (seed, frame, row) so output is deterministic.
// Workers own three scene evaluations so flow can look at neighbouring frames without re-evaluating.
func (r *Renderer) parallelRows(frame, h int, fn func(y int, rng *rand.Rand, sas *[3]*sceneAt)) {
	workers := r.workers()
	if workers > h {
		workers = h
	}
	DebugLogOnce("Row worker pool: %d goroutines for %d rows", workers, h)
	var next int64 = -1
	var wg sync.WaitGroup
	wg.Add(workers)
	for w := 0; w < workers; w++ {
		go func() {
			defer wg.Done()
			sas := &[3]*sceneAt{newSceneAt(r.scene), newSceneAt(r.scene), newSceneAt(r.scene)}
			for {
				y := int(atomic.AddInt64(&next, 1))
				if y >= h {
					return
				}
				seed := r.Settings.Seed ^ int64(uint64(frame*h+y+1)*0x9e3779b97f4a7c15)
				fn(y, rand.New(rand.NewSource(seed)), sas)
			}
		}()
	}
	wg.Wait()
}

// renderColor returns linear RGBA for one frame at the supersampled resolution.
func (r *Renderer) renderColor(frame int) []float32 {
	s := r.scene
	k := r.Settings.Supersample
	w, h := s.ResolutionX*k, s.ResolutionY*k
	buf := make([]float32, w*h*4)
	spp := r.Settings.Spp
	sh := r.Settings.Shutter

	r.parallelRows(frame, h, func(y int, rng *rand.Rand, sas *[3]*sceneAt) {
		sa := sas[0]
		for x := 0; x < w; x++ {
			var acc RGBA
			for i := 0; i < spp; i++ {
				// stratified over the exposure window, jittered inside the pixel
				u := (Real(i) + rng.Float64()) / Real(spp)
				f := sh.SampleFrame(frame, y, h, u)
				jx, jy := 0.5, 0.5
				if spp > 1 {
					jx, jy = rng.Float64(), rng.Float64()
				}
				camTr := s.Camera.TransformAt(f)
				O, D := s.Camera.Ray(camTr, Real(x)+jx, Real(y)+jy, w, h)
				c := r.shade(sa.eval(f), f, O, D)
				acc.R += c.R
				acc.G += c.G
				acc.B += c.B
				acc.A += c.A
			}
			inv := 1 / Real(spp)
			base := (y*w + x) * 4
			buf[base+ChR] = float32(acc.R * inv)
			buf[base+ChG] = float32(acc.G * inv)
			buf[base+ChB] = float32(acc.B * inv)
			buf[base+ChA] = float32(acc.A * inv)
		}
	})
	return buf
}

// shade returns the linear radiance along one primary ray.
func (r *Renderer) shade(sa *sceneAt, f Real, O, D Vec3) RGBA {
	s := r.scene
	hit, ok := sa.nearestHit(O, D, math.Inf(1))
	if !ok {
		r.Stats.logRay(RayMiss)
		return s.Background
	}
	r.Stats.logRay(RayHit)
	mat := hit.obj.Material
	N := hit.N
	if N.Dot(D) > 0 {
		N = N.Mul(-1)
	}
	P := O.Add(D.Mul(hit.t))
	base := mat.Color

	out := RGBA{
		R: base.R * s.Ambient.R,
		G: base.G * s.Ambient.G,
		B: base.B * s.Ambient.B,
		A: 1,
	}
	diffuseW := 1 - mat.Metallic
	f0 := 0.08 * mat.Specular * (1 - mat.Metallic)
	specular := RGBA{
		R: f0 + mat.Metallic*base.R,
		G: f0 + mat.Metallic*base.G,
		B: f0 + mat.Metallic*base.B,
	}
	n := mat.shininess()
	norm := (n + 8) / (8 * math.Pi)

	for _, L := range s.Lights {
		toL := L.Direction(L.TransformAt(f)).Mul(-1)
		ndl := N.Dot(toL)
		if ndl <= 0 {
			continue
		}
		if sa.occluded(P.Add(N.Mul(ShadowBias)), toL, math.Inf(1)) {
			r.Stats.logRay(RayShadowed)
			continue
		}
		r.Stats.logRay(RayLit)
		rad := L.Radiance()
		Hv := toL.Sub(D).Normalize()
		sp := norm * math.Pow(math.Max(0, N.Dot(Hv)), n)
		out.R += (base.R*diffuseW/math.Pi + specular.R*sp) * rad.R * ndl
		out.G += (base.G*diffuseW/math.Pi + specular.G*sp) * rad.G * ndl
		out.B += (base.B*diffuseW/math.Pi + specular.B*sp) * rad.B * ndl
	}
	return out
}

// renderAux fills segmentation, depth, normal, object coordinates and flow for one
// frame. Every pixel is sampled once through its center at the frame instant.
func (r *Renderer) renderAux(frame, fi int, layers Layers) {
	s := r.scene
	W, H := s.ResolutionX, s.ResolutionY
	seg := layers[LayerSegmentation].Frames[fi]
	depth := layers[LayerDepth].Frames[fi]
	normal := layers[LayerNormal].Frames[fi]
	coords := layers[LayerObjectCoordinates].Frames[fi]
	fwd := layers[LayerForwardFlow].Frames[fi]
	bwd := layers[LayerBackwardFlow].Frames[fi]

	f := Real(frame)
	camTr := s.Camera.TransformAt(f)
	hasNext, hasPrev := frame < s.FrameEnd, frame > s.FrameStart
	camNext, camPrev := s.Camera.TransformAt(f+1), s.Camera.TransformAt(f-1)

	r.parallelRows(frame, H, func(y int, _ *rand.Rand, sas *[3]*sceneAt) {
		cur, next, prev := sas[0].eval(f), sas[1], sas[2]
		if hasNext {
			next.eval(f + 1)
		}
		if hasPrev {
			prev.eval(f - 1)
		}
		for x := 0; x < W; x++ {
			px, py := Real(x)+0.5, Real(y)+0.5
			O, D := s.Camera.Ray(camTr, px, py, W, H)
			hit, ok := cur.nearestHit(O, D, math.Inf(1))
			if !ok {
				continue
			}
			p := y*W + x
			seg[p] = float32(hit.obj.SegmentationID)
			depth[p] = float32(hit.t)
			N := hit.N
			if N.Dot(D) > 0 {
				N = N.Mul(-1)
			}
			uvw := hit.obj.ObjectCoordinates(hit.local)
			for c := 0; c < 3; c++ {
				normal[p*3+c] = float32(N[c])
				coords[p*3+c] = float32(uvw[c])
			}
			if hasNext {
				fx, fy := flowTo(s, hit, next, camNext, px, py)
				fwd[p*2], fwd[p*2+1] = float32(fx), float32(fy)
			}
			if hasPrev {
				bx, by := flowTo(s, hit, prev, camPrev, px, py)
				bwd[p*2], bwd[p*2+1] = float32(bx), float32(by)
			}
		}
	})
}

// flowTo is the pixel displacement (dx, dy) of the surface point hit when the
// scene moves to the state in other and the camera to camTr.
func flowTo(s *Scene, hit objectHit, other *sceneAt, camTr Transform, px, py Real) (Real, Real) {
	P := other.transformOf(hit.obj).ToWorld(hit.local)
	qx, qy, ok := s.Camera.Project(camTr, P, s.ResolutionX, s.ResolutionY)
	if !ok {
		return 0, 0
	}
	return qx - px, qy - py
}
