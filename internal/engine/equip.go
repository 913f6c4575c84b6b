package engine

import (
	"fmt"

	"github.com/goki/mat32"
)

// Category tags an equipment unit with its process role.
type Category string

const (
	CategoryStorageTank     Category = "storage-tank"
	CategoryJacketedReactor Category = "jacketed-reactor"
	CategoryPipeReactor     Category = "pipe-reactor"
	CategoryScrubber        Category = "scrubber"
	CategoryFan             Category = "fan"
	CategoryConveyor        Category = "conveyor"
	CategoryElevator        Category = "elevator"
	CategoryCyclone         Category = "cyclone"
	CategoryDryer           Category = "dryer"
	CategoryBin             Category = "bin"
	CategoryChillerCluster  Category = "chiller-cluster"
	CategoryGranulator      Category = "granulator"
	CategoryScreen          Category = "screen"
	CategoryDrum            Category = "drum"
)

// UnitParams is the parameter set handed to an equipment builder. Builders
// read the dimensions they understand and ignore the rest; values are
// validated by the layout loader before they get here.
type UnitParams struct {
	Name        string
	Description string
	Pos         mat32.Vec3
	Width       float32
	Height      float32
	Depth       float32
	Radius      float32
	Length      float32
	Color       string
	Accent      string
	Agitator    bool
	Count       int     // sub-unit count (chiller cluster)
	TiltDeg     float32 // screens
}

// Unit is one assembled equipment item: an owned group of visual solids
// tagged with inspection metadata and a label anchor above the unit.
type Unit struct {
	Name        string
	Category    Category
	Description string
	Group       *Node
	LabelAnchor mat32.Vec3 // world position the floating label hangs from
}

// BuilderFunc constructs the visual group for one category. The group is
// returned in local coordinates; the factory positions and registers it.
type BuilderFunc func(p UnitParams, tun Tuning) (*Node, float32)

// builders is the category dispatch table. Adding a category means adding
// one entry here, nothing else changes.
var builders = map[Category]BuilderFunc{
	CategoryStorageTank:     buildStorageTank,
	CategoryJacketedReactor: buildJacketedReactor,
	CategoryPipeReactor:     buildPipeReactor,
	CategoryScrubber:        buildScrubber,
	CategoryFan:             buildFan,
	CategoryConveyor:        buildConveyor,
	CategoryElevator:        buildElevator,
	CategoryCyclone:         buildCyclone,
	CategoryDryer:           buildDryer,
	CategoryBin:             buildBin,
	CategoryChillerCluster:  buildChillerCluster,
	CategoryGranulator:      buildGranulator,
	CategoryScreen:          buildScreen,
	CategoryDrum:            buildDrum,
}

// KnownCategory reports whether cat has a registered builder.
func KnownCategory(cat Category) bool {
	_, ok := builders[cat]
	return ok
}

// BuildUnit invokes the builder for the category, places the group at
// p.Pos, and attaches the inspection metadata. Returns an error only for an
// unknown category; builders themselves have no failure modes.
func BuildUnit(cat Category, p UnitParams, tun Tuning) (*Unit, error) {
	bld, ok := builders[cat]
	if !ok {
		return nil, fmt.Errorf("unknown equipment category %q", cat)
	}
	grp, topY := bld(p, tun)
	grp.Name = p.Name
	grp.Pose.Pos = p.Pos
	grp.Meta = &Metadata{
		Name:        p.Name,
		Category:    string(cat),
		Description: p.Description,
	}
	return &Unit{
		Name:        p.Name,
		Category:    cat,
		Description: p.Description,
		Group:       grp,
		LabelAnchor: p.Pos.Add(mat32.Vec3{X: 0, Y: topY + 1.2, Z: 0}),
	}, nil
}
