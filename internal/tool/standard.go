package tool

import (
	"github.com/osse101/ToolForge_Go/internal/domain"
	"github.com/osse101/ToolForge_Go/internal/part"
)

// Standard tool type names
const (
	TypePickaxe    = "pickaxe"
	TypeShovel     = "shovel"
	TypeHatchet    = "hatchet"
	TypeBroadsword = "broadsword"
	TypeArrow      = "arrow"
)

// Standard types put the handle at slot 0 and the head at slot 1.

// Pickaxe returns the pickaxe descriptor
func Pickaxe() *Type {
	return &Type{
		Name: TypePickaxe,
		Requirements: []part.Requirement{
			part.New(part.KindToolRod, domain.StatKindHandle),
			part.New(part.KindPickHead, domain.StatKindHead),
			part.New(part.KindBinding, domain.StatKindExtra),
		},
		Categories: []domain.Category{domain.CategoryTool, domain.CategoryHarvest},
		Strategy:   SimpleTool{},
	}
}

// Shovel returns the shovel descriptor
func Shovel() *Type {
	return &Type{
		Name: TypeShovel,
		Requirements: []part.Requirement{
			part.New(part.KindToolRod, domain.StatKindHandle),
			part.New(part.KindShovelHead, domain.StatKindHead),
		},
		Categories: []domain.Category{domain.CategoryTool, domain.CategoryHarvest},
		Strategy:   SimpleTool{},
	}
}

// Hatchet returns the hatchet descriptor
func Hatchet() *Type {
	return &Type{
		Name: TypeHatchet,
		Requirements: []part.Requirement{
			part.New(part.KindToolRod, domain.StatKindHandle),
			part.New(part.KindAxeHead, domain.StatKindHead),
		},
		Categories: []domain.Category{domain.CategoryTool, domain.CategoryHarvest, domain.CategoryWeapon},
		Strategy:   SimpleTool{},
	}
}

// Broadsword returns the broadsword descriptor
func Broadsword() *Type {
	return &Type{
		Name: TypeBroadsword,
		Requirements: []part.Requirement{
			part.New(part.KindToolRod, domain.StatKindHandle),
			part.New(part.KindSwordBlade, domain.StatKindHead),
			part.New(part.KindWideGuard, domain.StatKindExtra),
		},
		Categories: []domain.Category{domain.CategoryWeapon},
		Strategy:   SimpleTool{},
	}
}

// Arrow returns the arrow descriptor. Arrows are repaired with their head material.
func Arrow() *Type {
	return &Type{
		Name: TypeArrow,
		Requirements: []part.Requirement{
			part.New(part.KindArrowShaft, domain.StatKindHandle),
			part.New(part.KindArrowHead, domain.StatKindHead),
			part.New(part.KindFletching, domain.StatKindExtra),
		},
		Categories: []domain.Category{domain.CategoryProjectile, domain.CategoryWeapon},
		Strategy:   Projectile{},
	}
}

// StandardTypes returns every built-in tool type
func StandardTypes() []*Type {
	return []*Type{Pickaxe(), Shovel(), Hatchet(), Broadsword(), Arrow()}
}

// StandardCatalog returns a catalog of the built-in tool types
func StandardCatalog() *Catalog {
	c, err := NewCatalog(StandardTypes()...)
	if err != nil {
		// built-in descriptors are static
		panic(err)
	}
	return c
}
