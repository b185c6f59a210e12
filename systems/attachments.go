package systems

import (
	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/portals/components"
)

// AttachmentSystem keeps attached entities on their parents and removes the
// ones whose parent is gone.
type AttachmentSystem struct {
	filter  ecs.Filter2[components.Pose, components.Attachment]
	poseMap *ecs.Map[components.Pose]
	world   *ecs.World
	orphans []ecs.Entity
}

// NewAttachmentSystem creates an attachment system.
func NewAttachmentSystem(w *ecs.World) *AttachmentSystem {
	return &AttachmentSystem{
		filter:  *ecs.NewFilter2[components.Pose, components.Attachment](w),
		poseMap: ecs.NewMap[components.Pose](w),
		world:   w,
	}
}

// Update moves every attachment onto its parent.
func (s *AttachmentSystem) Update() {
	s.orphans = s.orphans[:0]

	query := s.filter.Query()
	for query.Next() {
		pose, att := query.Get()
		if !s.world.Alive(att.Parent) {
			s.orphans = append(s.orphans, query.Entity())
			continue
		}
		syncAttachment(pose, s.poseMap.Get(att.Parent).Transform, att.Offset)
	}

	for _, e := range s.orphans {
		s.world.RemoveEntity(e)
	}
}
