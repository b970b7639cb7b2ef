package shader

import (
	"go.uber.org/zap"

	"github.com/Faultbox/lumen/internal/engine/gfx"
	"github.com/Faultbox/lumen/internal/engine/material"
	"github.com/Faultbox/lumen/internal/logger"
)

// Table resolves a (material type, lit flag) pair to a compiled program and
// owns external material-type registration.
type Table struct {
	dev gfx.Device

	lit   map[material.Type]*Program
	unlit map[material.Type]*Program

	// fallback is the plain textured unlit solid program; every built-in
	// slot without an explicit program is backfilled with it.
	fallback *Program

	// External ids are monotonically increasing and never reused; only
	// successful creations consume one.
	nextExternal material.Type

	// Internal programs for the renderer's 2D overlay draws.
	Color2D *Program
	Image2D *Program
}

type builtinSpec struct {
	t                material.Type
	fsrc             string
	vsrcLit          string // overrides vsLit when set
	vsrcUnlit        string // overrides vsUnlit when set
	blend            gfx.BlendState
	tangents         bool
	worldSpaceLights bool
}

var builtins = []builtinSpec{
	{t: material.Solid, fsrc: fsSolid},
	{t: material.Lightmap, fsrc: fsLightmap},
	{t: material.LightmapAdd, fsrc: fsLightmapAdd},
	{t: material.LightmapM2, fsrc: fsLightmapM2},
	{t: material.LightmapM4, fsrc: fsLightmapM4},
	{
		t: material.TransparentAdd, fsrc: fsSolid,
		blend: gfx.BlendState{Enabled: true, Src: gfx.BlendSrcAlpha, Dst: gfx.BlendOne},
	},
	{
		t: material.TransparentAlpha, fsrc: fsTransparentAlpha,
		blend: gfx.BlendState{Enabled: true, Src: gfx.BlendSrcAlpha, Dst: gfx.BlendOneMinusSrcAlpha},
	},
	{
		t: material.TransparentAlphaRef, fsrc: fsTransparentAlphaRef,
	},
	{
		t: material.Reflection2Layer, fsrc: fsTwoLayer,
		vsrcLit: vsReflection, vsrcUnlit: vsReflection,
	},
	{
		t: material.TransparentReflection2Layer, fsrc: fsTwoLayer,
		vsrcLit: vsReflection, vsrcUnlit: vsReflection,
		blend: gfx.BlendState{Enabled: true, Src: gfx.BlendSrcAlpha, Dst: gfx.BlendOneMinusSrcAlpha},
	},
	{
		t: material.NormalMapSolid, fsrc: fsNormalMap,
		vsrcLit: vsNormalMap, vsrcUnlit: vsNormalMap,
		tangents: true, worldSpaceLights: true,
	},
	{t: material.TwoTextureBlend, fsrc: fsTwoTextureBlend},
}

// NewTable compiles the built-in programs into the lit and unlit tables and
// backfills every empty reserved slot with the fallback program. Built-in
// compile failures are logged and degrade to the fallback; they never stop
// initialization.
func NewTable(dev gfx.Device) *Table {
	t := &Table{
		dev:          dev,
		lit:          make(map[material.Type]*Program),
		unlit:        make(map[material.Type]*Program),
		nextExternal: material.TypeCount,
	}

	for _, spec := range builtins {
		vsU := vsUnlit
		if spec.vsrcUnlit != "" {
			vsU = spec.vsrcUnlit
		}
		unlit, err := newProgram(dev, vsU, spec.fsrc, spec.blend, spec.tangents)
		if err != nil {
			logger.Error("built-in material failed to compile, falling back",
				zap.Int("materialType", int(spec.t)),
				zap.Bool("lit", false),
				zap.Error(err),
			)
		} else {
			unlit.WorldSpaceLights = spec.worldSpaceLights
			t.unlit[spec.t] = unlit
			if spec.t == material.Solid {
				t.fallback = unlit
			}
		}

		vsL := vsLit
		if spec.vsrcLit != "" {
			vsL = spec.vsrcLit
		}
		lit, err := newProgram(dev, vsL, spec.fsrc, spec.blend, spec.tangents)
		if err != nil {
			logger.Error("built-in material failed to compile, falling back",
				zap.Int("materialType", int(spec.t)),
				zap.Bool("lit", true),
				zap.Error(err),
			)
		} else {
			lit.WorldSpaceLights = spec.worldSpaceLights
			t.lit[spec.t] = lit
		}
	}

	// Backfill: resolve must never return nil for a reserved slot.
	for id := material.Type(0); id < material.TypeCount; id++ {
		if t.unlit[id] == nil {
			t.unlit[id] = t.fallback
		}
		if t.lit[id] == nil {
			t.lit[id] = t.fallback
		}
	}

	t.compile2DPrograms()

	return t
}

func (t *Table) compile2DPrograms() {
	var err error
	t.Color2D, err = newProgram(t.dev, vs2D, fs2DColor, gfx.BlendState{}, false)
	if err != nil {
		logger.Error("2D color program failed to compile", zap.Error(err))
	}
	t.Image2D, err = newProgram(t.dev, vs2D, fs2DImage, gfx.BlendState{}, false)
	if err != nil {
		logger.Error("2D image program failed to compile", zap.Error(err))
	}
}

// Resolve returns the program for the given material type, or nil when none
// exists. Out-of-range lookups degrade to nil; callers treat nil as "skip".
func (t *Table) Resolve(mt material.Type, lit bool) *Program {
	if mt < 0 {
		return nil
	}
	if lit {
		return t.lit[mt]
	}
	return t.unlit[mt]
}

// CreateMaterialType compiles an externally supplied program pair source and
// registers it under a fresh material type id above the reserved range. The
// program is entered into both tables; the caller's vertex shader decides
// whether it implements lighting. Returns material.TypeFailed when
// compilation or linking fails; the failure is logged, never thrown, and
// does not consume an id.
func (t *Table) CreateMaterialType(vsrc, fsrc string, blendEnabled bool, src, dst gfx.BlendFactor) material.Type {
	blend := gfx.BlendState{Enabled: blendEnabled, Src: src, Dst: dst}
	p, err := newProgram(t.dev, vsrc, fsrc, blend, true)
	if err != nil {
		logger.Error("external material type failed to compile", zap.Error(err))
		return material.TypeFailed
	}

	id := t.nextExternal
	t.nextExternal++
	t.lit[id] = p
	t.unlit[id] = p
	return id
}

// Release frees every distinct program in both tables.
func (t *Table) Release() {
	seen := make(map[gfx.ProgramID]bool)
	release := func(p *Program) {
		if p == nil || seen[p.ID] {
			return
		}
		seen[p.ID] = true
		t.dev.DeleteProgram(p.ID)
	}
	for _, p := range t.lit {
		release(p)
	}
	for _, p := range t.unlit {
		release(p)
	}
	release(t.Color2D)
	release(t.Image2D)
}
