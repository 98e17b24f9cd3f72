package recording

import (
	"context"
	"fmt"
	"path"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/joeydtaylor/ecgflow/pkg/internal/types"
)

// ObjectLister is the subset of *s3.Client the S3 loader needs.
type ObjectLister interface {
	ListObjectsV2(ctx context.Context, in *s3.ListObjectsV2Input, optFns ...func(*s3.Options)) (*s3.ListObjectsV2Output, error)
	GetObject(ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

// LoadS3 loads every *.txt object under prefix in bucket, following continuation tokens.
func LoadS3(ctx context.Context, cli ObjectLister, bucket, prefix string) (types.NamedSignalSet, error) {
	if cli == nil || bucket == "" {
		return nil, fmt.Errorf("recording: LoadS3 requires client and bucket")
	}
	in := &s3.ListObjectsV2Input{
		Bucket: aws.String(bucket),
		Prefix: aws.String(prefix),
	}

	set := types.NamedSignalSet{}
	for {
		lo, err := cli.ListObjectsV2(ctx, in)
		if err != nil {
			return nil, err
		}
		for _, obj := range lo.Contents {
			key := aws.ToString(obj.Key)
			if path.Ext(key) != Extension {
				continue
			}
			sig, err := getObject(ctx, cli, bucket, key)
			if err != nil {
				return nil, fmt.Errorf("recording s3://%s/%s: %w", bucket, key, err)
			}
			set[KeyFor(key)] = sig
		}
		if aws.ToBool(lo.IsTruncated) && lo.NextContinuationToken != nil {
			in.ContinuationToken = lo.NextContinuationToken
			continue
		}
		return set, nil
	}
}

func getObject(ctx context.Context, cli ObjectLister, bucket, key string) (types.Signal, error) {
	get, err := cli.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, err
	}
	defer get.Body.Close()
	return Parse(get.Body)
}
