package analysis

import "context"

// Repository port for run history. Optional: the pipeline runs fine without one.
type Repository interface {
	Save(ctx context.Context, r *Run) error
	Latest(ctx context.Context, limit int) ([]*Run, error)
}

// ArtifactStore port for offloading chart images to object storage.
type ArtifactStore interface {
	Upload(ctx context.Context, localPath, key string) (string, error)
}
