package physics

import "github.com/pkg/errors"

// Configuration errors. They are returned wrapped with context; match them
// with errors.Is.
var (
	ErrUnknownMaterial        = errors.New("physics: unknown material")
	ErrMissingContactPair     = errors.New("physics: missing contact pair")
	ErrRegistrySealed         = errors.New("physics: material registry sealed")
	ErrInvalidContactMaterial = errors.New("physics: invalid contact material")
	ErrUnknownBody            = errors.New("physics: unknown body")
	ErrAlreadySubscribed      = errors.New("physics: body already has a contact handler")
	ErrInvalidShape           = errors.New("physics: invalid shape")
)
