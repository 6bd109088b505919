package attr

import (
	"fmt"
	"sort"
	"strings"
	"sync"
)

// Factory builds the codec for a registered type name.
type Factory func() Codec

var (
	registryMu sync.RWMutex
	registry   = map[string]Factory{}
)

func init() {
	for _, width := range []int{1, 2, 4, 8} {
		bits := fmt.Sprint(width * 8)
		w := width
		mustRegister("int"+bits, func() Codec { return newVarInt("int"+bits, w, true) })
		mustRegister("uint"+bits, func() Codec { return newVarInt("uint"+bits, w, false) })
		mustRegister("fixed"+bits, func() Codec { return newFixedInt("fixed"+bits, w) })
	}
	mustRegister("float", func() Codec { return &floatCodec{name: "float", size: 4} })
	mustRegister("double", func() Codec { return &floatCodec{name: "double", size: 8} })
	mustRegister("bool", func() Codec { return boolCodec{} })
	mustRegister("string", func() Codec { return &stringCodec{name: "string"} })
	mustRegister("image", func() Codec { return &stringCodec{name: "image"} })
	mustRegister("ipfs", func() Codec { return ipfsCodec{} })
	mustRegister("bytes", func() Codec { return bytesCodec{} })
}

func mustRegister(name string, f Factory) {
	if err := Register(name, f); err != nil {
		panic(err)
	}
}

// Register adds a scalar type. Register it at start-up, before schemas
// using it are built. Array forms ("name[]") resolve automatically.
func Register(name string, f Factory) error {
	name = strings.TrimSpace(name)
	if name == "" || strings.HasSuffix(name, arraySuffix) || f == nil {
		return fmt.Errorf("%w: invalid registration %q", ErrUnknownType, name)
	}
	registryMu.Lock()
	defer registryMu.Unlock()
	if _, ok := registry[name]; ok {
		return fmt.Errorf("%w: %s", ErrTypeExists, name)
	}
	registry[name] = f
	return nil
}

// Lookup resolves a type name to a codec. "T[]" yields an array of T for
// any scalar T; nested arrays are not supported.
func Lookup(typeName string) (Codec, error) {
	name := strings.TrimSpace(typeName)
	elemName, isArray := strings.CutSuffix(name, arraySuffix)
	if isArray && strings.HasSuffix(elemName, arraySuffix) {
		return nil, fmt.Errorf("%w: %q (nested arrays)", ErrUnknownType, typeName)
	}

	registryMu.RLock()
	f, ok := registry[elemName]
	registryMu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownType, typeName)
	}
	if isArray {
		return &arrayCodec{elem: f()}, nil
	}
	return f(), nil
}

// Types returns the registered scalar type names in sorted order.
func Types() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()
	list := make([]string, 0, len(registry))
	for name := range registry {
		list = append(list, name)
	}
	sort.Strings(list)
	return list
}
