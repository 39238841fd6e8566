package pipeline

import "maps"

// Options is one layer of component configuration. Configuration reaches a
// component in three layers (provider defaults, pipeline defaults, runtime
// options) that merge shallowly, later layers winning key by key.
type Options map[string]any

// Merged returns a fresh Options with the overlays applied in order over o.
// The merge is shallow: a key present in a later layer replaces the same key
// from an earlier one, nested values are not descended into. Neither o nor
// any overlay is modified; the result shares no map with its inputs.
func (o Options) Merged(overlays ...Options) Options {
	merged := make(Options, len(o))
	maps.Copy(merged, o)
	for _, layer := range overlays {
		maps.Copy(merged, layer)
	}
	return merged
}

// SetDefault stores value under key only when the key is absent.
func (o Options) SetDefault(key string, value any) {
	if _, ok := o[key]; !ok {
		o[key] = value
	}
}

// String returns the string value for key.
func (o Options) String(key string) (string, bool) {
	s, ok := o[key].(string)
	return s, ok
}

// Float returns the float value for key. Integer values coerce: YAML and
// JSON decoders disagree on the concrete type of numeric literals.
func (o Options) Float(key string) (float64, bool) {
	switch v := o[key].(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	default:
		return 0, false
	}
}

// Int returns the integer value for key, truncating float values.
func (o Options) Int(key string) (int, bool) {
	switch v := o[key].(type) {
	case int:
		return v, true
	case int64:
		return int(v), true
	case float64:
		return int(v), true
	case float32:
		return int(v), true
	default:
		return 0, false
	}
}
