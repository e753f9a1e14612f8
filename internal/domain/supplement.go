package domain

// SupplementClass tags auxiliary (non-primary) sessions that follow their own placement rules.
type SupplementClass string

const (
	SupplementHeavyConditioning SupplementClass = "heavy_conditioning"
	SupplementLightConditioning SupplementClass = "light_conditioning"
	SupplementCore              SupplementClass = "core"
	SupplementFlexibility       SupplementClass = "flexibility"
)

// SupplementClasses lists every class in a stable order.
var SupplementClasses = []SupplementClass{
	SupplementHeavyConditioning,
	SupplementLightConditioning,
	SupplementCore,
	SupplementFlexibility,
}

func (s SupplementClass) Valid() bool {
	switch s {
	case SupplementHeavyConditioning, SupplementLightConditioning, SupplementCore, SupplementFlexibility:
		return true
	}
	return false
}

// Category maps a supplement class onto the intensity table.
func (s SupplementClass) Category() WorkoutCategory {
	switch s {
	case SupplementHeavyConditioning, SupplementLightConditioning:
		return CategoryStrength
	case SupplementCore:
		return CategoryCore
	case SupplementFlexibility:
		return CategoryFlexibility
	}
	return ""
}

// builtinSupplementCodes maps the codes of the built-in library templates to their class.
// Coach-authored templates carry their class explicitly on the template document.
var builtinSupplementCodes = map[string]SupplementClass{
	"str-heavy-lower":      SupplementHeavyConditioning,
	"str-heavy-full":       SupplementHeavyConditioning,
	"str-heavy-posterior":  SupplementHeavyConditioning,
	"str-light-circuit":    SupplementLightConditioning,
	"str-light-bodyweight": SupplementLightConditioning,
	"str-light-plyo":       SupplementLightConditioning,
	"core-stability":       SupplementCore,
	"core-anti-rotation":   SupplementCore,
	"core-express":         SupplementCore,
	"mob-hips":             SupplementFlexibility,
	"mob-full-body":        SupplementFlexibility,
	"yoga-recovery":        SupplementFlexibility,
}

// SupplementClassForCode looks up the class of a built-in template code.
func SupplementClassForCode(code string) (SupplementClass, bool) {
	c, ok := builtinSupplementCodes[code]
	return c, ok
}
