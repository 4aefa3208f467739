package ports

import (
	"context"

	"github.com/bnema/coverscreen/internal/domain"
)

// DescriptorSource lists the raw screen records currently advertised by one
// discovery mechanism. Records that could not be read are returned with Err set
// so the caller can skip them individually.
type DescriptorSource interface {
	Name() string
	List(ctx context.Context) ([]domain.DescriptorRecord, error)
}
