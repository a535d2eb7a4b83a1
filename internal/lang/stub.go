//go:build !cgo

package lang

// Tree-sitter adapters require CGO. Without it no adapters self-register;
// every extension is treated as unrecognized and units carry zero symbols.

// IsAvailable reports whether tree-sitter adapters are compiled in.
func IsAvailable() bool {
	return false
}
