// Package scene manages the entity collection rendered each frame. Entity ids
// are dense slot indices: the id doubles as the entity's index into the
// per-frame transform array, so removal compacts ids via swap-remove.
package scene

import (
	"runtime"
	"sync"
	"time"

	"github.com/Carmen-Shannon/automation/tools/worker"
	"github.com/Irrgh/webgpu-engine/engine/camera"
	"github.com/Irrgh/webgpu-engine/engine/entity"
)

// Scene manages a collection of entities with a Camera, plus the current
// selection highlighted by the outline pass. Thread-safe for concurrent
// access: the tick loop mutates entities while the render thread snapshots
// them.
type Scene interface {
	// Name returns the scene's identifier.
	Name() string

	// Camera returns the scene's camera.
	Camera() camera.Camera

	// SetCamera replaces the scene's camera.
	//
	// Parameters:
	//   - cam: the new camera
	SetCamera(cam camera.Camera)

	// Count returns the number of entities in the scene.
	//
	// Returns:
	//   - int: the entity count
	Count() int

	// Add adds an entity to the scene and assigns it the next dense id.
	//
	// Parameters:
	//   - e: the entity to add
	//
	// Returns:
	//   - uint64: the assigned entity id
	Add(e entity.Entity) uint64

	// Get retrieves an entity by its id. Returns nil if the id is out of range.
	//
	// Parameters:
	//   - id: the entity id
	//
	// Returns:
	//   - entity.Entity: the entity or nil
	Get(id uint64) entity.Entity

	// Remove removes an entity by id. The last entity is swapped into the
	// freed slot and takes over its id, keeping ids dense. Removing the
	// selected entity clears the selection.
	//
	// Parameters:
	//   - id: the entity id
	Remove(id uint64)

	// Clear removes all entities and clears the selection.
	Clear()

	// Entities returns a snapshot of the entity list in id order. The render
	// thread uses this snapshot for the whole frame so ids stay consistent
	// with transform array indices.
	//
	// Returns:
	//   - []entity.Entity: the entities, index i holding id i
	Entities() []entity.Entity

	// Selected returns the id of the currently selected entity.
	//
	// Returns:
	//   - uint64: the selected entity id
	//   - bool: false if nothing is selected
	Selected() (uint64, bool)

	// SetSelected marks the entity with the given id as selected. Out-of-range
	// ids clear the selection instead.
	//
	// Parameters:
	//   - id: the entity id to select
	SetSelected(id uint64)

	// Deselect clears the selection.
	Deselect()

	// Update advances all entities by dt seconds. Entity updates are
	// distributed across the scene's worker pool and this call blocks until
	// every entity has been updated.
	//
	// Parameters:
	//   - dt: elapsed time in seconds since the previous update
	Update(dt float32)
}

type sceneImpl struct {
	mu *sync.RWMutex

	name     string
	entities []entity.Entity

	selected    uint64
	hasSelected bool

	cam camera.Camera

	// updatePool manages a bounded set of reusable goroutines for the
	// parallel entity update phase. Workers persist across ticks, avoiding
	// per-tick goroutine spawn/teardown overhead.
	updatePool    worker.DynamicWorkerPool
	updateWorkers int
	nextTaskID    int

	// updateBatchSize is the number of entities handed to one worker task.
	updateBatchSize int
}

var _ Scene = &sceneImpl{}

const defaultUpdateBatchSize = 64

// NewScene creates a new Scene with the given camera. The camera is required
// and NewScene panics if it is nil.
//
// Parameters:
//   - name: the name of the scene
//   - cam: the camera to attach (must not be nil)
//   - options: functional options to further configure the scene
//
// Returns:
//   - Scene: the newly created scene
func NewScene(name string, cam camera.Camera, options ...SceneBuilderOption) Scene {
	if cam == nil {
		panic("scene: NewScene requires a non-nil Camera")
	}

	s := &sceneImpl{
		mu:              &sync.RWMutex{},
		name:            name,
		cam:             cam,
		updateWorkers:   max(runtime.NumCPU()-1, 1),
		updateBatchSize: defaultUpdateBatchSize,
	}

	for _, option := range options {
		option(s)
	}

	// Initialize the pool after options so WithUpdateWorkers can override the
	// default. Queue size of 256 accommodates typical batch counts with headroom.
	s.updatePool = worker.NewDynamicWorkerPool(s.updateWorkers, 256, 1*time.Second)

	return s
}

func (s *sceneImpl) Name() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.name
}

func (s *sceneImpl) Camera() camera.Camera {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cam
}

func (s *sceneImpl) SetCamera(cam camera.Camera) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cam = cam
}

func (s *sceneImpl) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entities)
}

func (s *sceneImpl) Add(e entity.Entity) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := uint64(len(s.entities))
	e.SetID(id)
	s.entities = append(s.entities, e)
	return id
}

func (s *sceneImpl) Get(id uint64) entity.Entity {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if id >= uint64(len(s.entities)) {
		return nil
	}
	return s.entities[id]
}

func (s *sceneImpl) Remove(id uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := uint64(len(s.entities))
	if id >= n {
		return
	}

	if s.hasSelected {
		switch s.selected {
		case id:
			s.hasSelected = false
		case n - 1:
			// The last entity is about to take over the freed id.
			s.selected = id
		}
	}

	last := s.entities[n-1]
	s.entities[id] = last
	last.SetID(id)
	s.entities[n-1] = nil
	s.entities = s.entities[:n-1]
}

func (s *sceneImpl) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entities = nil
	s.hasSelected = false
}

func (s *sceneImpl) Entities() []entity.Entity {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]entity.Entity, len(s.entities))
	copy(out, s.entities)
	return out
}

func (s *sceneImpl) Selected() (uint64, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.selected, s.hasSelected
}

func (s *sceneImpl) SetSelected(id uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if id >= uint64(len(s.entities)) {
		s.hasSelected = false
		return
	}
	s.selected = id
	s.hasSelected = true
}

func (s *sceneImpl) Deselect() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.hasSelected = false
}

func (s *sceneImpl) Update(dt float32) {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := len(s.entities)
	if n == 0 {
		return
	}

	// Small scenes skip the pool; the scheduling overhead dominates.
	if n <= s.updateBatchSize {
		for _, e := range s.entities {
			e.Update(dt)
		}
		return
	}

	var wg sync.WaitGroup
	for start := 0; start < n; start += s.updateBatchSize {
		end := min(start+s.updateBatchSize, n)
		batch := s.entities[start:end]

		wg.Add(1)
		id := s.nextTaskID
		s.nextTaskID++
		s.updatePool.SubmitTask(worker.Task{
			ID: id,
			Do: func() (any, error) {
				defer wg.Done()
				for _, e := range batch {
					e.Update(dt)
				}
				return nil, nil
			},
		})
	}
	wg.Wait()
}
