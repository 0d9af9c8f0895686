package customforms

import (
	"github.com/goliatone/go-auditform/pkg/registry"
)

// Register adds every hand-built form to reg, each constructed with options.
func Register(reg *registry.Registry, options ...Option) error {
	if err := reg.Register(DeminID, OpenDemin(options...)); err != nil {
		return err
	}
	return reg.Register(WaterQualityID, OpenWaterQuality(options...))
}
