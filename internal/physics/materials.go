package physics

import (
	"sort"
	"strings"

	"tireroll/internal/components"

	"github.com/pkg/errors"
)

// ContactMaterial holds the coefficients used when two materials touch.
type ContactMaterial struct {
	Friction    float32
	Restitution float32
}

// DefaultContact is used when neither a pair nor a fallback is registered.
var DefaultContact = ContactMaterial{Friction: 0.3, Restitution: 0.2}

type pairKey struct {
	a, b components.MaterialID
}

func makePairKey(a, b components.MaterialID) pairKey {
	if a > b {
		a, b = b, a
	}
	return pairKey{a: a, b: b}
}

// MaterialRegistry maps material pairs to contact coefficients. It is filled
// once during setup and sealed; lookups after that are read-only.
type MaterialRegistry struct {
	names       []string // index = id-1
	byName      map[string]components.MaterialID
	pairs       map[pairKey]ContactMaterial
	fallback    ContactMaterial
	hasFallback bool
	sealed      bool
}

func NewMaterialRegistry() *MaterialRegistry {
	return &MaterialRegistry{
		byName: make(map[string]components.MaterialID),
		pairs:  make(map[pairKey]ContactMaterial),
	}
}

// Register returns the ID for name, creating it on first use.
func (r *MaterialRegistry) Register(name string) (components.MaterialID, error) {
	if id, ok := r.byName[name]; ok {
		return id, nil
	}
	if r.sealed {
		return 0, errors.Wrapf(ErrRegistrySealed, "register material %q", name)
	}
	if name == "" {
		return 0, errors.Wrap(ErrUnknownMaterial, "empty material name")
	}
	r.names = append(r.names, name)
	id := components.MaterialID(len(r.names))
	r.byName[name] = id
	return id, nil
}

// Lookup returns the ID registered for name.
func (r *MaterialRegistry) Lookup(name string) (components.MaterialID, bool) {
	id, ok := r.byName[name]
	return id, ok
}

// Name returns the material name, or "" for an unknown ID.
func (r *MaterialRegistry) Name(id components.MaterialID) string {
	if id == 0 || int(id) > len(r.names) {
		return ""
	}
	return r.names[id-1]
}

func (r *MaterialRegistry) known(id components.MaterialID) bool {
	return id != 0 && int(id) <= len(r.names)
}

// RegisterPair sets the coefficients for a (a, b) contact. Order does not matter.
func (r *MaterialRegistry) RegisterPair(a, b components.MaterialID, cm ContactMaterial) error {
	if r.sealed {
		return errors.Wrapf(ErrRegistrySealed, "register pair %q/%q", r.Name(a), r.Name(b))
	}
	if !r.known(a) || !r.known(b) {
		return errors.Wrapf(ErrUnknownMaterial, "register pair %d/%d", a, b)
	}
	if err := validateContact(cm); err != nil {
		return errors.Wrapf(err, "register pair %q/%q", r.Name(a), r.Name(b))
	}
	r.pairs[makePairKey(a, b)] = cm
	return nil
}

// SetFallback sets the coefficients used for pairs with no explicit entry.
func (r *MaterialRegistry) SetFallback(cm ContactMaterial) error {
	if r.sealed {
		return errors.Wrap(ErrRegistrySealed, "set fallback pair")
	}
	if err := validateContact(cm); err != nil {
		return errors.Wrap(err, "set fallback pair")
	}
	r.fallback = cm
	r.hasFallback = true
	return nil
}

func validateContact(cm ContactMaterial) error {
	if cm.Friction < 0 {
		return errors.Wrapf(ErrInvalidContactMaterial, "friction %.3f < 0", cm.Friction)
	}
	if cm.Restitution < 0 || cm.Restitution > 1 {
		return errors.Wrapf(ErrInvalidContactMaterial, "restitution %.3f outside [0,1]", cm.Restitution)
	}
	return nil
}

// HasPair reports whether an explicit entry exists; the fallback does not count.
func (r *MaterialRegistry) HasPair(a, b components.MaterialID) bool {
	_, ok := r.pairs[makePairKey(a, b)]
	return ok
}

// Contact returns the coefficients for a pair, falling back to the generic
// entry and then DefaultContact.
func (r *MaterialRegistry) Contact(a, b components.MaterialID) ContactMaterial {
	if cm, ok := r.pairs[makePairKey(a, b)]; ok {
		return cm
	}
	if r.hasFallback {
		return r.fallback
	}
	return DefaultContact
}

// Require checks that every material in mats has an explicit pair against
// terrain. The error names every missing material.
func (r *MaterialRegistry) Require(terrain components.MaterialID, mats ...components.MaterialID) error {
	if !r.known(terrain) {
		return errors.Wrapf(ErrUnknownMaterial, "terrain material %d", terrain)
	}
	var missing []string
	for _, m := range mats {
		if !r.known(m) {
			return errors.Wrapf(ErrUnknownMaterial, "material %d", m)
		}
		if !r.HasPair(m, terrain) {
			missing = append(missing, r.Name(m))
		}
	}
	if len(missing) > 0 {
		sort.Strings(missing)
		return errors.Wrapf(ErrMissingContactPair, "%s vs %q", strings.Join(missing, ", "), r.Name(terrain))
	}
	return nil
}

// Seal freezes the registry. Further registrations fail.
func (r *MaterialRegistry) Seal() {
	r.sealed = true
}

func (r *MaterialRegistry) Sealed() bool {
	return r.sealed
}

// PairCount is the number of explicit pairs (fallback excluded).
func (r *MaterialRegistry) PairCount() int {
	return len(r.pairs)
}

// MaterialCount is the number of registered materials.
func (r *MaterialRegistry) MaterialCount() int {
	return len(r.names)
}
