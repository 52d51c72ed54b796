package zcldef

import (
	"os"

	"github.com/supby/gigbeescan/internal/logger"
)

// ZCLDefService resolves cluster, attribute and command numeric ids to their
// ZCL names. A miss is an expected case, callers fall back to raw ids.
type ZCLDefService interface {
	GetById(clusterId uint16) (ClusterDefinition, bool)
}

type zclDefService struct {
	zclDefMap map[uint16]ClusterDefinition
}

func (zd *zclDefService) GetById(clusterId uint16) (ClusterDefinition, bool) {
	def, ok := zd.zclDefMap[clusterId]
	return def, ok
}

// New loads ZCL definitions from a JSON file. A missing file leaves the
// registry empty, every lookup then falls back to raw ids.
func New(filename string, log logger.Logger) (ZCLDefService, error) {
	zclDef, err := loadFromFile(filename)
	if os.IsNotExist(err) {
		log.Warn("ZCL definition file %v does not exist, reports will carry raw ids only", filename)
		zclDef = make(map[uint16]ClusterDefinition)
	} else if err != nil {
		return nil, err
	}

	return &zclDefService{
		zclDefMap: zclDef,
	}, nil
}
