package sketch

import "math"

// LightKind selects how a Light contributes to shading.
type LightKind uint8

const (
	AmbientLight     LightKind = iota // uniform light from every direction
	DirectionalLight                  // parallel rays along Direction, no attenuation
	PointLight                        // rays radiating from Position
)

// Light represents a light source applied by a Canvas during its passes.
// Positions and directions are in world space.
type Light struct {
	Kind LightKind
	// Color is the tint of the light at full intensity.
	Color Color
	// Intensity scales the contribution; the constructors set it to 1.
	Intensity float64
	// Position is used by PointLight.
	Position Vec3
	// Direction is used by DirectionalLight and points from the light into the scene.
	Direction Vec3
}

// NewAmbientLight returns an ambient light of the given color.
func NewAmbientLight(c Color) Light {
	return Light{Kind: AmbientLight, Color: c, Intensity: 1}
}

// NewDirectionalLight returns a directional light shining along dir.
func NewDirectionalLight(c Color, dir Vec3) Light {
	return Light{Kind: DirectionalLight, Color: c, Intensity: 1, Direction: dir}
}

// NewPointLight returns a point light at pos.
func NewPointLight(c Color, pos Vec3) Light {
	return Light{Kind: PointLight, Color: c, Intensity: 1, Position: pos}
}

// contribution returns the scalar weight of l on a surface with the given
// eye-space normal and position. Lighting is two-sided.
func (l Light) contribution(normal, point Vec3, view Matrix4) float64 {
	switch l.Kind {
	case AmbientLight:
		return l.Intensity
	case DirectionalLight:
		dir := view.TransformDir(l.Direction).Norm()
		return math.Abs(normal.Dot(dir)) * l.Intensity
	case PointLight:
		pos := view.TransformPoint(l.Position)
		return math.Abs(normal.Dot(pos.Sub(point).Norm())) * l.Intensity
	}
	return 0
}
