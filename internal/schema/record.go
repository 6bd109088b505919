package schema

import "github.com/danmuck/rowcodec/internal/attr"

// Record maps attribute names to values. Absent attributes have no key;
// a nil value is treated as absent.
type Record map[string]attr.Value

// Native converts every value to plain Go data.
func (r Record) Native() map[string]any {
	out := make(map[string]any, len(r))
	for name, v := range r {
		if v == nil {
			continue
		}
		out[name] = v.Native()
	}
	return out
}

// Equal reports whether r and other hold the same present attributes.
func (r Record) Equal(other Record) bool {
	if r.present() != other.present() {
		return false
	}
	for name, v := range r {
		if v == nil {
			continue
		}
		if !attr.Equal(v, other[name]) {
			return false
		}
	}
	return true
}

// Merge returns a new record with values from overlays applied in order.
func (r Record) Merge(overlays ...Record) Record {
	out := make(Record, len(r))
	for name, v := range r {
		out[name] = v
	}
	for _, o := range overlays {
		for name, v := range o {
			if v != nil {
				out[name] = v
			}
		}
	}
	return out
}

func (r Record) present() int {
	n := 0
	for _, v := range r {
		if v != nil {
			n++
		}
	}
	return n
}
