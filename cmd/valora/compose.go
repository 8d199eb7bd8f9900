package main

import (
	"math"
	"math/rand/v2"

	"github.com/gogpu/valora"
	"github.com/gogpu/valora/composition"
	"github.com/gogpu/valora/mesh"
	"github.com/gogpu/valora/shader"
	"github.com/gogpu/valora/sketch"
	"github.com/gogpu/valora/tween"
)

// invertWGSL inverts the composite beneath it.
const invertWGSL = `@fragment
fn fs_main(in: VertexOutput) -> @location(0) vec4<f32> {
    let prev = sample_secondary(in.frame_pos);
    return vec4<f32>(vec3<f32>(prev.a) - prev.rgb, prev.a);
}`

func invert(in shader.FragmentInput) valora.RGBA {
	prev := in.Secondary.Sample(in.Position)
	return valora.RGBA{R: 1 - prev.R, G: 1 - prev.G, B: 1 - prev.B, A: prev.A}
}

// compose builds the demo: a radial backdrop, a ring of pulsing discs, a
// stroked polygon, and an inversion flash every 24 frames.
func compose(ctx *sketch.Context, rng *rand.Rand) (*composition.Composition, error) {
	aspect := ctx.Aspect()
	center := valora.Pt(0.5, 0.5)

	backdrop := valora.NewRadialGradient(center, 0, 0.75).
		AddColorStop(0, valora.Hex("#1d2b53")).
		AddColorStop(1, valora.Hex("#000000"))
	comp := composition.New().SolidLayer(backdrop)

	palette := []valora.RGBA{
		valora.Hex("#ff004d"), valora.Hex("#ffa300"), valora.Hex("#ffec27"),
		valora.Hex("#00e436"), valora.Hex("#29adff"), valora.Hex("#83769c"),
	}
	n := 6 + rng.IntN(6)
	discs := make(composition.Layers, 0, n)
	for i := range n {
		angle := 2 * math.Pi * float64(i) / float64(n)
		p := valora.Pt(0.5+0.3*math.Cos(angle)/aspect, 0.5+0.3*math.Sin(angle))
		r := 0.04 + 0.06*rng.Float64()
		c := palette[rng.IntN(len(palette))]
		fill := valora.NewLinearGradient(p.Sub(valora.Pt(r, r)), p.Add(valora.Pt(r, r))).
			AddColorStop(0, c).
			AddColorStop(1, c.WithAlpha(0.2))
		disc := mesh.Fill(valora.NewEllipse(p, r/aspect, r, 0), fill).
			WithScale(tween.Oscillation{Min: 0.9, Max: 1.1, Period: 60, Phase: rng.Float64()})
		discs = append(discs, composition.MeshLayer(disc))
	}
	comp.Add(discs)

	outline := valora.RegularPolygon(center, 0.18, 3+rng.IntN(5), rng.Float64()*math.Pi)
	comp.Add(composition.MeshLayer(mesh.Stroke(outline, 0.006, valora.Solid(valora.White))))

	flash := shader.Program{Label: "invert", WGSL: invertWGSL, Fragment: invert}
	comp.Add(composition.EffectLayer(shader.Intermittent{Inner: flash, Gate: shader.Every{N: 24, Offset: 23}}))

	return comp, nil
}
