package engine

import (
	pdp_model "github.com/dev-mohitbeniwal/echo/abac/pdp/model"
)

// Resolve walks path through the object fields of root. Any step that does
// not land on an existing field of an object yields absent.
func Resolve(root pdp_model.Value, path pdp_model.Path) pdp_model.Value {
	segments := path.Segments()
	if len(segments) == 0 {
		return pdp_model.Absent()
	}

	current := root
	for _, segment := range segments {
		next, ok := current.Field(segment)
		if !ok {
			return pdp_model.Absent()
		}
		current = next
	}
	return current
}

// ResolveString resolves a raw "$."-marked path. Strings without the marker
// are never treated as references and resolve to absent.
func ResolveString(root pdp_model.Value, raw string) pdp_model.Value {
	if !pdp_model.IsReference(raw) {
		return pdp_model.Absent()
	}
	path, err := pdp_model.ParsePath(raw)
	if err != nil {
		return pdp_model.Absent()
	}
	return Resolve(root, path)
}
