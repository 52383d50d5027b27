package thirdparty

// Mappable is a destination the evaluators write into.
type Mappable interface {
	GetFields() Record
	SetField(key string, value Value)
	DeleteField(key string)
}

// appendToString writes value into a free-text field. The first write sets the
// field, later writes append with a single space.
func appendToString(destination Mappable, key string, value Value) {
	existing, exists := destination.GetFields()[key]
	if !exists {
		destination.SetField(key, StringValue(value.String()))
		return
	}
	destination.SetField(key, StringValue(existing.String()+" "+value.String()))
}

// mergeField appends a string onto an existing string field. Any other
// combination overwrites.
func mergeField(destination Mappable, key string, value Value) {
	if s, isString := value.Str(); isString {
		if existing, ok := destination.GetFields()[key].Str(); ok {
			destination.SetField(key, StringValue(existing+" "+s))
			return
		}
	}
	destination.SetField(key, value)
}
