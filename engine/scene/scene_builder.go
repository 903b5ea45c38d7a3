package scene

import (
	"github.com/Irrgh/webgpu-engine/engine/entity"
)

// SceneBuilderOption is a functional option for configuring a Scene.
// Use the With* functions to create options.
type SceneBuilderOption func(s *sceneImpl)

// WithEntities adds initial entities to the scene in the given order.
// Each entity is assigned the next dense id.
//
// Parameters:
//   - entities: the entities to add
//
// Returns:
//   - SceneBuilderOption: option function to apply
func WithEntities(entities ...entity.Entity) SceneBuilderOption {
	return func(s *sceneImpl) {
		for _, e := range entities {
			e.SetID(uint64(len(s.entities)))
			s.entities = append(s.entities, e)
		}
	}
}

// WithUpdateWorkers sets the number of worker goroutines used during the
// parallel entity update phase. Defaults to runtime.NumCPU()-1.
//
// Parameters:
//   - n: the number of update workers (minimum 1)
//
// Returns:
//   - SceneBuilderOption: option function to apply
func WithUpdateWorkers(n int) SceneBuilderOption {
	return func(s *sceneImpl) {
		if n < 1 {
			n = 1
		}
		s.updateWorkers = n
	}
}

// WithUpdateBatchSize sets how many entities one worker task updates per
// tick. Scenes at or below this size are updated inline without the pool.
//
// Parameters:
//   - size: entities per task (minimum 1)
//
// Returns:
//   - SceneBuilderOption: option function to apply
func WithUpdateBatchSize(size int) SceneBuilderOption {
	return func(s *sceneImpl) {
		if size < 1 {
			size = 1
		}
		s.updateBatchSize = size
	}
}
