package host

import (
	"errors"
	"fmt"
	"path/filepath"
	"sort"
	"strings"
	"sync"
)

// AssetKind is the category an asset source resolves to. The category is
// decided purely by file extension at registration time.
type AssetKind int

const (
	AssetUnknown AssetKind = iota
	AssetImage
	AssetFont
	AssetAudio
)

func (k AssetKind) String() string {
	switch k {
	case AssetImage:
		return "image"
	case AssetFont:
		return "font"
	case AssetAudio:
		return "audio"
	default:
		return "unknown"
	}
}

var assetKindByExt = map[string]AssetKind{
	".png":   AssetImage,
	".jpg":   AssetImage,
	".jpeg":  AssetImage,
	".gif":   AssetImage,
	".webp":  AssetImage,
	".bmp":   AssetImage,
	".ttf":   AssetFont,
	".otf":   AssetFont,
	".woff":  AssetFont,
	".woff2": AssetFont,
	".wav":   AssetAudio,
	".ogg":   AssetAudio,
	".mp3":   AssetAudio,
	".flac":  AssetAudio,
}

// ClassifyAsset maps a source path to its asset category. Unsupported
// extensions are rejected with an error naming the offending path so script
// authors see what to fix.
func ClassifyAsset(path string) (AssetKind, error) {
	ext := strings.ToLower(filepath.Ext(path))
	if kind, ok := assetKindByExt[ext]; ok {
		return kind, nil
	}
	return AssetUnknown, fmt.Errorf("unsupported asset extension %q in %q", ext, path)
}

// ErrManifestSealed is wrapped into registration errors once the run has
// started; the seal prevents races between asset loading and rendering.
var ErrManifestSealed = errors.New("asset manifest is sealed after start")

// Asset is one registered name→source mapping.
type Asset struct {
	Name string
	Path string
	Kind AssetKind
}

// Manifest is the append-only name→source table a script fills before the
// run starts. Seal is called the instant the run starts; registration
// afterwards is an error. Dimensions are populated separately once the
// asset bytes are actually decoded, main-thread side.
type Manifest struct {
	mu     sync.RWMutex
	sealed bool
	assets map[string]Asset
	dims   map[string][2]int
}

// NewManifest returns an empty, unsealed manifest.
func NewManifest() *Manifest {
	return &Manifest{
		assets: make(map[string]Asset),
		dims:   make(map[string][2]int),
	}
}

// Register adds a name→source mapping. It fails on a sealed manifest, an
// unsupported extension, or a duplicate name.
func (m *Manifest) Register(name, path string) error {
	kind, err := ClassifyAsset(path)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.sealed {
		return fmt.Errorf("cannot register asset %q: %w", name, ErrManifestSealed)
	}
	if _, exists := m.assets[name]; exists {
		return fmt.Errorf("asset %q is already registered", name)
	}
	m.assets[name] = Asset{Name: name, Path: path, Kind: kind}
	return nil
}

// Seal freezes the manifest. Idempotent.
func (m *Manifest) Seal() {
	m.mu.Lock()
	m.sealed = true
	m.mu.Unlock()
}

// Sealed reports whether registration is closed.
func (m *Manifest) Sealed() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.sealed
}

// Lookup resolves a registered asset by name.
func (m *Manifest) Lookup(name string) (Asset, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	a, ok := m.assets[name]
	return a, ok
}

// Assets returns the registered assets in name order.
func (m *Manifest) Assets() []Asset {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]Asset, 0, len(m.assets))
	for _, a := range m.assets {
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// SetDimensions records the pixel size of a loaded asset. Unlike Register
// it works on a sealed manifest: loading completes after the run starts.
func (m *Manifest) SetDimensions(name string, w, h int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.assets[name]; !ok {
		return fmt.Errorf("cannot set dimensions for unregistered asset %q", name)
	}
	m.dims[name] = [2]int{w, h}
	return nil
}

// Dimensions returns the recorded size of an asset, with ok=false when the
// asset has not finished loading (or was never registered).
func (m *Manifest) Dimensions(name string) (w, h int, ok bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	d, ok := m.dims[name]
	return d[0], d[1], ok
}

// ImageSize implements the renderer's image side-table lookup.
func (m *Manifest) ImageSize(name string) (w, h int, ok bool) {
	return m.Dimensions(name)
}
