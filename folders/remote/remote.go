package remote

import (
	"context"

	"github.com/ZanzyTHEbar/fire-folders/folders/types"
)

// Remote is the photo store and grouping service as seen by the curation core.
// Implementations return errors classified as common.ErrRemoteUnavailable or
// common.ErrRemoteRejected.
type Remote interface {
	ListUploads(ctx context.Context) ([]string, error)
	ListGroups(ctx context.Context) ([][]types.Photo, error)
	ListGroupNames(ctx context.Context) (map[int]string, error)
	FetchMetadata(ctx context.Context) (map[types.PhotoID]types.Metadata, error)
	DeleteFile(ctx context.Context, id types.PhotoID) error
	SetRank(ctx context.Context, id types.PhotoID, rank types.Rank) error
	SetGroupName(ctx context.Context, index int, name string) error
}

// File is one file handed to an upload
type File struct {
	Name    string
	Content []byte
}

// Uploader accepts new photos into the pool
type Uploader interface {
	Upload(ctx context.Context, files []File) ([]string, error)
}
