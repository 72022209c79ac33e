package service

import (
    "bytes"
    "context"
    "fmt"
    "io"
    "math/rand"
    "mime/multipart"
    "os"
    "path/filepath"
    "strings"
    "time"

    "github.com/aws/aws-sdk-go-v2/aws"
    awsconfig "github.com/aws/aws-sdk-go-v2/config"
    "github.com/aws/aws-sdk-go-v2/credentials"
    "github.com/aws/aws-sdk-go-v2/service/s3"

    appconfig "github.com/savpro/sav-tracker/internal/config"
)

// Uploader stores an uploaded photo and returns the URL the client
// should persist on the declaration.  The URL is opaque to the rest of
// the system.  Disk-backed uploads return a site-relative URL
// (/uploads/<name>) that the upload handler resolves against the
// request host; S3 uploads return an absolute object URL.
type Uploader interface {
    Upload(ctx context.Context, fh *multipart.FileHeader) (string, error)
}

// DiskUploader writes files under a local directory served back by the
// API at /uploads.  Default backend when no S3 bucket is configured.
type DiskUploader struct {
    Dir string
}

// NewDiskUploader creates the upload directory when missing.
func NewDiskUploader(dir string) (*DiskUploader, error) {
    if err := os.MkdirAll(dir, 0o755); err != nil {
        return nil, fmt.Errorf("create upload dir: %w", err)
    }
    return &DiskUploader{Dir: dir}, nil
}

func (u *DiskUploader) Upload(_ context.Context, fh *multipart.FileHeader) (string, error) {
    src, err := fh.Open()
    if err != nil {
        return "", fmt.Errorf("open upload: %w", err)
    }
    defer src.Close()

    name := uniqueName(fh.Filename)
    dst, err := os.Create(filepath.Join(u.Dir, name))
    if err != nil {
        return "", fmt.Errorf("create file: %w", err)
    }
    defer dst.Close()

    if _, err := io.Copy(dst, src); err != nil {
        return "", fmt.Errorf("write file: %w", err)
    }
    return "/uploads/" + name, nil
}

// S3Uploader stores photos in an S3 bucket.
type S3Uploader struct {
    client *s3.Client
    bucket string
    region string
}

// NewS3Uploader builds an S3 client from the static credentials in the
// app config.
func NewS3Uploader(ctx context.Context, cfg appconfig.Config) (*S3Uploader, error) {
    awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
        awsconfig.WithRegion(cfg.AWSRegion),
        awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
            cfg.AWSAccessKey,
            cfg.AWSSecretKey,
            "",
        )),
    )
    if err != nil {
        return nil, fmt.Errorf("load AWS config: %w", err)
    }
    return &S3Uploader{
        client: s3.NewFromConfig(awsCfg),
        bucket: cfg.AWSS3Bucket,
        region: cfg.AWSRegion,
    }, nil
}

func (u *S3Uploader) Upload(ctx context.Context, fh *multipart.FileHeader) (string, error) {
    src, err := fh.Open()
    if err != nil {
        return "", fmt.Errorf("open upload: %w", err)
    }
    defer src.Close()

    content, err := io.ReadAll(src)
    if err != nil {
        return "", fmt.Errorf("read upload: %w", err)
    }

    key := "uploads/" + uniqueName(fh.Filename)
    _, err = u.client.PutObject(ctx, &s3.PutObjectInput{
        Bucket:      aws.String(u.bucket),
        Key:         aws.String(key),
        Body:        bytes.NewReader(content),
        ContentType: aws.String(contentTypeFor(fh.Filename)),
    })
    if err != nil {
        return "", fmt.Errorf("put object: %w", err)
    }
    return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", u.bucket, u.region, key), nil
}

// uniqueName mirrors the mobile client's expectation of flat photo
// names: timestamp plus random suffix plus the original extension.
func uniqueName(original string) string {
    ext := strings.ToLower(filepath.Ext(original))
    return fmt.Sprintf("%d-%d%s", time.Now().UnixNano(), rand.Intn(1_000_000_000), ext)
}

func contentTypeFor(filename string) string {
    switch strings.ToLower(filepath.Ext(filename)) {
    case ".jpg", ".jpeg":
        return "image/jpeg"
    case ".png":
        return "image/png"
    case ".gif":
        return "image/gif"
    case ".webp":
        return "image/webp"
    }
    return "application/octet-stream"
}
