package shutterscene

import "fmt"

// PrincipledBSDFMaterial is the subset of a principled BSDF the ray caster shades with.
type PrincipledBSDFMaterial struct {
	Color     RGBA `json:"color"`
	Metallic  Real `json:"metallic"`
	Roughness Real `json:"roughness"`
	Specular  Real `json:"specular"`
}

// NewPrincipledBSDFMaterial returns a material with the usual principled defaults.
func NewPrincipledBSDFMaterial(color RGBA) *PrincipledBSDFMaterial {
	return &PrincipledBSDFMaterial{
		Color:     color,
		Metallic:  0,
		Roughness: 0.4,
		Specular:  0.5,
	}
}

func (m *PrincipledBSDFMaterial) Validate() error {
	in01 := func(x Real) bool { return x >= 0 && x <= 1 }
	if !in01(m.Metallic) || !in01(m.Roughness) || !in01(m.Specular) {
		return fmt.Errorf("metallic/roughness/specular must be in [0,1]; got metallic=%.6g roughness=%.6g specular=%.6g", m.Metallic, m.Roughness, m.Specular)
	}
	return nil
}

// shininess maps roughness to a Blinn-Phong exponent.
func (m *PrincipledBSDFMaterial) shininess() Real {
	r := m.Roughness
	if r < 0.02 {
		r = 0.02
	}
	return 2/(r*r*r*r) - 2
}
