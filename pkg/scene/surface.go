package scene

import (
	"errors"
	"sync"

	"github.com/Is0meone/TransitTracker/pkg/config"
	"github.com/Is0meone/TransitTracker/pkg/tracker"
)

var ErrNotMounted = errors.New("map surface is not mounted")

// Overlay is anything that can be drawn on top of the map tiles.
type Overlay interface {
	OverlayKind() string
}

func (Segment) OverlayKind() string { return "segment" }
func (Marker) OverlayKind() string  { return "report-marker" }
func (Label) OverlayKind() string   { return "label" }

type SurfaceSettings struct {
	TileURL          string           `json:"tile_url" groups:"basic"`
	Attribution      string           `json:"attribution" groups:"basic"`
	Center           tracker.Location `json:"center" groups:"basic"`
	Zoom             int              `json:"zoom" groups:"basic"`
	ScrollWheelZoom  bool             `json:"scroll_wheel_zoom" groups:"basic"`
	MountedOverlays  int              `json:"mounted_overlays" groups:"detailed"`
	SurfaceIsMounted bool             `json:"mounted" groups:"detailed"`
}

// Surface is the base map that segments and markers are attached to. Overlays
// only live while the surface is mounted.
type Surface struct {
	TileURL         string
	Attribution     string
	Center          tracker.Location
	Zoom            int
	ScrollWheelZoom bool

	mutex    sync.RWMutex
	mounted  bool
	overlays []Overlay
}

func NewSurface(mapConfig config.MapConfig) *Surface {
	return &Surface{
		TileURL:         mapConfig.TileURL,
		Attribution:     mapConfig.Attribution,
		Center:          tracker.Location{Lat: mapConfig.CenterLat, Lng: mapConfig.CenterLng},
		Zoom:            mapConfig.Zoom,
		ScrollWheelZoom: true,
	}
}

func (s *Surface) Mount() {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	s.mounted = true
}

// Unmount removes the surface and drops every attached overlay.
func (s *Surface) Unmount() {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	s.mounted = false
	s.overlays = nil
}

func (s *Surface) Mounted() bool {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	return s.mounted
}

func (s *Surface) Attach(overlays ...Overlay) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	if !s.mounted {
		return ErrNotMounted
	}

	s.overlays = append(s.overlays, overlays...)

	return nil
}

// AttachScene attaches each segment followed by its markers.
func (s *Surface) AttachScene(scene Scene) error {
	var overlays []Overlay
	for _, segment := range scene.Segments {
		overlays = append(overlays, segment)
		for _, marker := range segment.Markers {
			overlays = append(overlays, marker)
		}
	}

	return s.Attach(overlays...)
}

// Clear drops the overlays but keeps the surface mounted.
func (s *Surface) Clear() {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	s.overlays = nil
}

func (s *Surface) Overlays() []Overlay {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	overlays := make([]Overlay, len(s.overlays))
	copy(overlays, s.overlays)

	return overlays
}

func (s *Surface) Settings() SurfaceSettings {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	return SurfaceSettings{
		TileURL:          s.TileURL,
		Attribution:      s.Attribution,
		Center:           s.Center,
		Zoom:             s.Zoom,
		ScrollWheelZoom:  s.ScrollWheelZoom,
		MountedOverlays:  len(s.overlays),
		SurfaceIsMounted: s.mounted,
	}
}
