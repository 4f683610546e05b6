// graphics loads the images listed in the data files and draws them
package graphics

import (
	"encoding/json"
	"image"
	_ "image/png"
	"io/fs"
	"log"

	"github.com/pkg/errors"

	"github.com/shoeengine/bayou/internal/hash"
	"github.com/shoeengine/bayou/internal/renderer"
)

var ErrImageNotFound = errors.New("image not found")

// ImageFactory uploads a decoded image to the renderer
type ImageFactory interface {
	NewImageFromImage(img image.Image) renderer.Image
}

type imageEntry struct {
	id    string
	path  string
	image renderer.Image
}

// ImageManager owns every image loaded from the "images" data section
type ImageManager struct {
	names   *hash.Registry
	factory ImageFactory
	fsys    fs.FS
	images  map[hash.Value]*imageEntry
	order   []hash.Value
}

func NewImageManager(names *hash.Registry, factory ImageFactory, fsys fs.FS) *ImageManager {
	if names == nil {
		names = hash.NewRegistry()
	}
	return &ImageManager{
		names:   names,
		factory: factory,
		fsys:    fsys,
		images:  make(map[hash.Value]*imageEntry),
	}
}

func (m *ImageManager) ManagedType() string {
	return "images"
}

type imageJSON struct {
	ID   string `json:"id"`
	Path string `json:"path"`
}

// CreateFromJSON loads each image in a list like
//
//	[{"id": "alligator", "path": "alligator.png"}]
//
// An image that fails to load is logged and skipped so one bad file
// doesn't stop the rest of the game data from loading.
func (m *ImageManager) CreateFromJSON(data json.RawMessage) error {
	var list []imageJSON
	if err := json.Unmarshal(data, &list); err != nil {
		return errors.Wrap(err, "image manager json error")
	}
	for _, item := range list {
		if item.ID == "" || item.Path == "" {
			log.Printf("image creation error: image needs an \"id\" and \"path\": %+v", item)
			continue
		}
		if err := m.Load(item.ID, item.Path); err != nil {
			log.Printf("image creation error: %v", err)
			continue
		}
	}
	return nil
}

func (m *ImageManager) SerializeToJSON() (json.RawMessage, error) {
	list := make([]imageJSON, 0, len(m.order))
	for _, id := range m.order {
		entry := m.images[id]
		list = append(list, imageJSON{
			ID:   entry.id,
			Path: entry.path,
		})
	}
	b, err := json.Marshal(list)
	if err != nil {
		return nil, errors.Wrap(err, "unable to encode images")
	}
	return b, nil
}

// Load decodes path from the manager's filesystem and stores it under id,
// replacing any image already loaded with that id.
func (m *ImageManager) Load(id, path string) error {
	f, err := m.fsys.Open(path)
	if err != nil {
		return errors.Wrapf(err, "unable to open image %q", id)
	}
	defer f.Close()
	img, _, err := image.Decode(f)
	if err != nil {
		return errors.Wrapf(err, "unable to decode image %q", id)
	}
	key, err := m.names.Register(id)
	if err != nil {
		return errors.Wrapf(err, "unable to register image %q", id)
	}
	if _, ok := m.images[key]; !ok {
		m.order = append(m.order, key)
	}
	m.images[key] = &imageEntry{
		id:    id,
		path:  path,
		image: m.factory.NewImageFromImage(img),
	}
	return nil
}

// Image returns nil if nothing was loaded under id
func (m *ImageManager) Image(id string) renderer.Image {
	return m.ImageByHash(hash.String(id))
}

func (m *ImageManager) ImageByHash(id hash.Value) renderer.Image {
	entry, ok := m.images[id]
	if !ok {
		return nil
	}
	return entry.image
}

// Size returns the width and height of an image
func (m *ImageManager) Size(id string) (int, int, error) {
	img := m.Image(id)
	if img == nil {
		return 0, 0, errors.Wrapf(ErrImageNotFound, "%q", id)
	}
	size := img.Bounds().Size()
	return size.X, size.Y, nil
}
