package builder

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/credentials/stscreds"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	s3types "github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/aws-sdk-go-v2/service/sts"

	"github.com/joeydtaylor/ecgflow/pkg/internal/config"
)

// sharedResolver maps both S3 and STS to the same endpoint override.
func sharedResolver(endpoint string) aws.EndpointResolverWithOptionsFunc {
	return aws.EndpointResolverWithOptionsFunc(func(service, region string, _ ...interface{}) (aws.Endpoint, error) {
		switch service {
		case s3.ServiceID, sts.ServiceID:
			return aws.Endpoint{URL: endpoint, HostnameImmutable: true}, nil
		default:
			return aws.Endpoint{}, &aws.EndpointNotFoundError{}
		}
	})
}

func baseLoaders(region, endpoint string) []func(*awsconfig.LoadOptions) error {
	var loaders []func(*awsconfig.LoadOptions) error
	if region != "" {
		loaders = append(loaders, awsconfig.WithRegion(region))
	}
	if endpoint != "" {
		loaders = append(loaders, awsconfig.WithEndpointResolverWithOptions(sharedResolver(endpoint)))
	}
	return loaders
}

// NewS3ClientDefault creates an S3 client from the default credential chain.
func NewS3ClientDefault(ctx context.Context, region, endpoint string, forcePathStyle bool) (*s3.Client, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx, baseLoaders(region, endpoint)...)
	if err != nil {
		return nil, err
	}
	return s3.NewFromConfig(cfg, func(o *s3.Options) { o.UsePathStyle = forcePathStyle }), nil
}

// NewS3ClientStatic creates an S3 client using static credentials.
// If endpoint != "", it's used (LocalStack/MinIO). forcePathStyle=true for emulators.
func NewS3ClientStatic(
	ctx context.Context,
	region string,
	accessKey string,
	secretKey string,
	sessionToken string, // "" if none
	endpoint string, // "" for AWS
	forcePathStyle bool,
) (*s3.Client, error) {
	loaders := append(baseLoaders(region, endpoint), awsconfig.WithCredentialsProvider(
		credentials.NewStaticCredentialsProvider(accessKey, secretKey, sessionToken),
	))
	cfg, err := awsconfig.LoadDefaultConfig(ctx, loaders...)
	if err != nil {
		return nil, err
	}
	return s3.NewFromConfig(cfg, func(o *s3.Options) { o.UsePathStyle = forcePathStyle }), nil
}

// NewS3ClientAssumeRole creates an S3 client by assuming an IAM role via STS.
// sourceCreds nil uses the default chain. duration is capped by the role's MaxSessionDuration.
func NewS3ClientAssumeRole(
	ctx context.Context,
	region string,
	roleARN string,
	sessionName string,
	duration time.Duration,
	externalID string,
	sourceCreds aws.CredentialsProvider,
	endpoint string,
	forcePathStyle bool,
) (*s3.Client, error) {
	loaders := baseLoaders(region, endpoint)
	if sourceCreds != nil {
		loaders = append(loaders, awsconfig.WithCredentialsProvider(sourceCreds))
	}
	baseCfg, err := awsconfig.LoadDefaultConfig(ctx, loaders...)
	if err != nil {
		return nil, err
	}

	// STS shares the resolver so emulators see the AssumeRole call.
	stsClient := sts.NewFromConfig(baseCfg)
	provider := stscreds.NewAssumeRoleProvider(stsClient, roleARN, func(o *stscreds.AssumeRoleOptions) {
		if sessionName != "" {
			o.RoleSessionName = sessionName
		}
		if duration > 0 {
			o.Duration = duration
		}
		if externalID != "" {
			o.ExternalID = &externalID
		}
	})

	assumed := baseCfg
	assumed.Credentials = aws.NewCredentialsCache(provider)
	return s3.NewFromConfig(assumed, func(o *s3.Options) { o.UsePathStyle = forcePathStyle }), nil
}

// NewS3ClientWebIdentity assumes a role using an OIDC token file (e.g. EKS IRSA).
func NewS3ClientWebIdentity(
	ctx context.Context,
	region string,
	roleARN string,
	sessionName string,
	tokenFile string,
	duration time.Duration,
	endpoint string,
	forcePathStyle bool,
) (*s3.Client, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx, baseLoaders(region, endpoint)...)
	if err != nil {
		return nil, err
	}
	provider := stscreds.NewWebIdentityRoleProvider(
		sts.NewFromConfig(cfg),
		roleARN,
		stscreds.IdentityTokenFile(tokenFile),
		func(o *stscreds.WebIdentityRoleOptions) {
			if sessionName != "" {
				o.RoleSessionName = sessionName
			}
			if duration > 0 {
				o.Duration = duration
			}
		},
	)

	assumed := cfg
	assumed.Credentials = aws.NewCredentialsCache(provider)
	return s3.NewFromConfig(assumed, func(o *s3.Options) { o.UsePathStyle = forcePathStyle }), nil
}

// NewS3ClientFromConfig picks a constructor from the aws section. RoleARN with a token file
// uses web identity; RoleARN alone assumes the role from static keys or the default chain;
// AccessKey alone uses static credentials; otherwise the default chain is used.
func NewS3ClientFromConfig(ctx context.Context, c config.AWSConfig) (*s3.Client, error) {
	switch {
	case c.RoleARN != "" && c.WebIdentityTokenFile != "":
		return NewS3ClientWebIdentity(ctx, c.Region, c.RoleARN, c.SessionName, c.WebIdentityTokenFile, 0, c.Endpoint, c.ForcePathStyle)
	case c.RoleARN != "":
		var source aws.CredentialsProvider
		if c.AccessKey != "" {
			source = aws.NewCredentialsCache(credentials.NewStaticCredentialsProvider(c.AccessKey, c.SecretKey, c.SessionToken))
		}
		return NewS3ClientAssumeRole(ctx, c.Region, c.RoleARN, c.SessionName, 0, c.ExternalID, source, c.Endpoint, c.ForcePathStyle)
	case c.AccessKey != "":
		return NewS3ClientStatic(ctx, c.Region, c.AccessKey, c.SecretKey, c.SessionToken, c.Endpoint, c.ForcePathStyle)
	default:
		return NewS3ClientDefault(ctx, c.Region, c.Endpoint, c.ForcePathStyle)
	}
}

// LocalstackS3AssumeRoleConfig sets up defaults for LocalStack assume-role clients.
type LocalstackS3AssumeRoleConfig struct {
	RoleARN      string
	SessionName  string
	Region       string
	Duration     time.Duration
	ExternalID   string
	Endpoint     string
	AccessKey    string
	SecretKey    string
	SessionToken string
}

func (cfg *LocalstackS3AssumeRoleConfig) applyDefaults() {
	if cfg.SessionName == "" {
		cfg.SessionName = "ecgflow"
	}
	if cfg.Region == "" {
		cfg.Region = "us-east-1"
	}
	if cfg.Duration == 0 {
		cfg.Duration = 15 * time.Minute
	}
	if cfg.Endpoint == "" {
		cfg.Endpoint = "http://localhost:4566"
	}
	if cfg.AccessKey == "" {
		cfg.AccessKey = "test"
	}
	if cfg.SecretKey == "" {
		cfg.SecretKey = "test"
	}
}

// NewS3ClientAssumeRoleLocalstack builds an assume-role S3 client with LocalStack defaults.
func NewS3ClientAssumeRoleLocalstack(ctx context.Context, cfg LocalstackS3AssumeRoleConfig) (*s3.Client, error) {
	if cfg.RoleARN == "" {
		return nil, fmt.Errorf("role ARN is required")
	}
	cfg.applyDefaults()

	creds := aws.NewCredentialsCache(credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, cfg.SessionToken))
	return NewS3ClientAssumeRole(ctx, cfg.Region, cfg.RoleARN, cfg.SessionName, cfg.Duration, cfg.ExternalID, creds, cfg.Endpoint, true)
}

// BucketCreator is the CreateBucket subset of *s3.Client.
type BucketCreator interface {
	CreateBucket(ctx context.Context, in *s3.CreateBucketInput, optFns ...func(*s3.Options)) (*s3.CreateBucketOutput, error)
}

// EnsureBucket creates bucket. A bucket that already exists is not an error; anything else is.
func EnsureBucket(ctx context.Context, cli BucketCreator, bucket string) error {
	_, err := cli.CreateBucket(ctx, &s3.CreateBucketInput{Bucket: aws.String(bucket)})
	if err == nil {
		return nil
	}
	var owned *s3types.BucketAlreadyOwnedByYou
	var exists *s3types.BucketAlreadyExists
	if errors.As(err, &owned) || errors.As(err, &exists) {
		return nil
	}
	return fmt.Errorf("create bucket %s: %w", bucket, err)
}
