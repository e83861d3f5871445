package catalog

import (
	"context"
	"fmt"
	"io"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// readFromS3 fetches the seed object from the configured bucket.
// Credentials come from the environment or the shared AWS config.
func (l *Loader) readFromS3(ctx context.Context) ([]byte, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(l.cfg.AWSRegion),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg)
	out, err := client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(l.cfg.CatalogBucket),
		Key:    aws.String(l.cfg.CatalogKey),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch catalog seed from s3://%s/%s: %w",
			l.cfg.CatalogBucket, l.cfg.CatalogKey, err)
	}
	defer out.Body.Close()

	data, err := io.ReadAll(out.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog seed body: %w", err)
	}
	return data, nil
}
