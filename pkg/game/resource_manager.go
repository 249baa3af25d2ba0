package game

import (
	"errors"
	"fmt"
	"image"
	_ "image/png" // Register PNG decoder
	"io/fs"
	"sort"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/audio"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"golang.org/x/image/font/basicfont"

	"github.com/gonewx/tears-of-aya/internal/synth"
)

// 精灵ID,渲染器按这些ID取图,缺失时退回矢量图形
const (
	SpriteCatcher        = "catcher"
	SpriteTeardropBasic  = "teardrop_basic"
	SpriteTeardropBonus  = "teardrop_bonus"
	SpriteTeardropHazard = "teardrop_hazard"
	SpriteTeardropHeal   = "teardrop_heal"
	SpriteShield         = "shield"
	SpriteHeart          = "heart"
)

// DefaultSprites 精灵ID -> 资源路径
var DefaultSprites = map[string]string{
	SpriteCatcher:        "assets/sprites/catcher.png",
	SpriteTeardropBasic:  "assets/sprites/teardrop_basic.png",
	SpriteTeardropBonus:  "assets/sprites/teardrop_bonus.png",
	SpriteTeardropHazard: "assets/sprites/teardrop_hazard.png",
	SpriteTeardropHeal:   "assets/sprites/teardrop_heal.png",
	SpriteShield:         "assets/sprites/shield.png",
	SpriteHeart:          "assets/sprites/heart.png",
}

// pcmClip 渲染好的音频片段
type pcmClip struct {
	data []byte
	kind synth.Kind
}

// ResourceManager is responsible for centralized management of game resources.
// Images are decoded once from the asset file system and cached; sounds are
// synthesized once and cached as PCM ready for audio players.
//
// This implementation is NOT thread-safe. Load everything from the game goroutine.
//
// Usage:
//
//	rm := NewResourceManager(assetsFS, audio.NewContext(synth.SampleRate.N(time.Second)))
//	if err := rm.LoadSprites(DefaultSprites); err != nil {
//	    log.Warn().Err(err).Msg("some sprites missing")
//	}
type ResourceManager struct {
	fsys         fs.FS                    // Asset file system (embed.FS in builds, MapFS in tests)
	audioContext *audio.Context           // May be nil when audio is unavailable
	imageCache   map[string]*ebiten.Image // path -> Image
	sprites      map[string]*ebiten.Image // sprite id -> Image
	pcmCache     map[string]pcmClip       // sound id -> PCM
	hudFace      *text.GoXFace
}

// NewResourceManager creates a ResourceManager reading from fsys.
// audioContext may be nil, in which case sounds are still rendered but cannot be played.
func NewResourceManager(fsys fs.FS, audioContext *audio.Context) *ResourceManager {
	return &ResourceManager{
		fsys:         fsys,
		audioContext: audioContext,
		imageCache:   make(map[string]*ebiten.Image),
		sprites:      make(map[string]*ebiten.Image),
		pcmCache:     make(map[string]pcmClip),
	}
}

// AudioContext returns the shared audio context (may be nil).
func (rm *ResourceManager) AudioContext() *audio.Context {
	return rm.audioContext
}

// LoadImage loads a PNG from the asset file system and caches it.
// If the image has already been loaded, it returns the cached version.
func (rm *ResourceManager) LoadImage(path string) (*ebiten.Image, error) {
	if cachedImage, exists := rm.imageCache[path]; exists {
		return cachedImage, nil
	}
	if rm.fsys == nil {
		return nil, fmt.Errorf("failed to open image file %s: no asset file system", path)
	}

	file, err := rm.fsys.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open image file %s: %w", path, err)
	}
	defer file.Close()

	img, _, err := image.Decode(file)
	if err != nil {
		return nil, fmt.Errorf("failed to decode image %s: %w", path, err)
	}

	ebitenImg := ebiten.NewImageFromImage(img)
	rm.imageCache[path] = ebitenImg
	return ebitenImg, nil
}

// GetImage retrieves a previously loaded image from the cache, or nil.
func (rm *ResourceManager) GetImage(path string) *ebiten.Image {
	return rm.imageCache[path]
}

// LoadSprites loads every sprite in manifest. Sprites that fail to load are
// skipped and reported together in the returned error; the rest stay usable.
func (rm *ResourceManager) LoadSprites(manifest map[string]string) error {
	ids := make([]string, 0, len(manifest))
	for id := range manifest {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	var errs []error
	for _, id := range ids {
		img, err := rm.LoadImage(manifest[id])
		if err != nil {
			errs = append(errs, fmt.Errorf("sprite %s: %w", id, err))
			continue
		}
		rm.sprites[id] = img
	}
	return errors.Join(errs...)
}

// Sprite returns a loaded sprite by id, or nil.
func (rm *ResourceManager) Sprite(id string) *ebiten.Image {
	return rm.sprites[id]
}

// HUDFace returns the bitmap font face used for the HUD and floating text.
func (rm *ResourceManager) HUDFace() *text.GoXFace {
	if rm.hudFace == nil {
		rm.hudFace = text.NewGoXFace(basicfont.Face7x13)
	}
	return rm.hudFace
}

// LoadSoundPCM synthesizes a sound by id and caches the 16-bit stereo PCM.
func (rm *ResourceManager) LoadSoundPCM(id string) ([]byte, synth.Kind, error) {
	if clip, ok := rm.pcmCache[id]; ok {
		return clip.data, clip.kind, nil
	}
	data, kind, ok := synth.Render(id)
	if !ok {
		return nil, 0, fmt.Errorf("unknown sound id %q", id)
	}
	rm.pcmCache[id] = pcmClip{data: data, kind: kind}
	return data, kind, nil
}
