// Package scene holds the ordered list of mesh instances drawn each frame.
//
// The scene does not release GPU buffers on Clear; the owner of the scene
// decides when instances die and calls Remove or Destroy.
package scene

import (
	"go.uber.org/zap"

	"github.com/Faultbox/pbrview/internal/logger"
)

// Scene is an insertion-ordered collection of mesh instances.
type Scene struct {
	instances []*MeshInstance
	nextID    InstanceID
	log       *zap.Logger
}

// New creates an empty scene.
func New() *Scene {
	return &Scene{log: logger.Named("scene")}
}

// AddInstance appends inst and assigns its ID.
func (s *Scene) AddInstance(inst *MeshInstance) InstanceID {
	s.nextID++
	inst.ID = s.nextID
	s.instances = append(s.instances, inst)
	s.log.Debug("instance added",
		zap.Uint64("id", uint64(inst.ID)),
		zap.String("name", inst.Name),
		zap.Int("indices", inst.IndexCount))
	return inst.ID
}

// Update recomputes every model matrix from its transform.
// Call once per frame before submission.
func (s *Scene) Update() {
	for _, inst := range s.instances {
		inst.Transform.Update()
	}
}

// Get returns the instance with id.
func (s *Scene) Get(id InstanceID) (*MeshInstance, bool) {
	for _, inst := range s.instances {
		if inst.ID == id {
			return inst, true
		}
	}
	return nil, false
}

// Remove releases the instance's buffers and drops it.
func (s *Scene) Remove(id InstanceID) bool {
	for i, inst := range s.instances {
		if inst.ID != id {
			continue
		}
		inst.Release()
		s.instances = append(s.instances[:i], s.instances[i+1:]...)
		s.log.Debug("instance removed", zap.Uint64("id", uint64(id)))
		return true
	}
	return false
}

// Clear drops every instance without releasing GPU buffers.
func (s *Scene) Clear() {
	s.instances = nil
}

// Destroy releases every instance's buffers and clears the scene.
func (s *Scene) Destroy() {
	for _, inst := range s.instances {
		inst.Release()
	}
	if len(s.instances) > 0 {
		s.log.Debug("scene destroyed", zap.Int("instances", len(s.instances)))
	}
	s.Clear()
}

// Instances returns the instances in insertion order.
// The slice must not be modified.
func (s *Scene) Instances() []*MeshInstance {
	return s.instances
}

// Len returns the number of instances.
func (s *Scene) Len() int {
	return len(s.instances)
}

// Empty reports whether the scene has no instances.
func (s *Scene) Empty() bool {
	return len(s.instances) == 0
}
