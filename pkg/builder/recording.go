package builder

import (
	"context"
	"fmt"

	"github.com/joeydtaylor/ecgflow/pkg/internal/config"
	"github.com/joeydtaylor/ecgflow/pkg/internal/recording"
	"github.com/joeydtaylor/ecgflow/pkg/internal/types"
)

// LoadDir reads every *.txt recording in dir.
func LoadDir(dir string) (types.NamedSignalSet, error) {
	return recording.LoadDir(dir)
}

// LoadArchive reads every *.txt recording in a zip, tar or tar.gz archive.
func LoadArchive(src string) (types.NamedSignalSet, error) {
	return recording.LoadArchive(src)
}

// LoadS3 reads every *.txt object under prefix.
func LoadS3(ctx context.Context, cli recording.ObjectLister, bucket, prefix string) (types.NamedSignalSet, error) {
	return recording.LoadS3(ctx, cli, bucket, prefix)
}

// LoadRecordings reads from the first configured input: Dir, then Archive, then S3Bucket.
// cli is only used for S3 input.
func LoadRecordings(ctx context.Context, in config.InputConfig, cli recording.ObjectLister) (types.NamedSignalSet, error) {
	switch {
	case in.Dir != "":
		return recording.LoadDir(in.Dir)
	case in.Archive != "":
		return recording.LoadArchive(in.Archive)
	case in.S3Bucket != "":
		return recording.LoadS3(ctx, cli, in.S3Bucket, in.S3Prefix)
	default:
		return nil, fmt.Errorf("no input configured: set input.dir, input.archive or input.s3_bucket")
	}
}
