package problem

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/lcpu-club/judgeclient/judge/configure"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

const MinIOScheme = "minio://"

var ErrMinIONotConfigured = fmt.Errorf("minio is not configured")
var ErrInvalidObjectRef = fmt.Errorf("invalid object reference")

type ObjectRef struct {
	Bucket string
	Key    string
}

// ParseObjectRef parses "minio://bucket/key". "minio://key" uses
// defaultBucket. ok is false when ref is not a MinIO reference.
func ParseObjectRef(ref string, defaultBucket string) (obj *ObjectRef, ok bool, err error) {
	if !strings.HasPrefix(ref, MinIOScheme) {
		return nil, false, nil
	}
	rest := strings.TrimPrefix(ref, MinIOScheme)
	bucket, key, found := strings.Cut(rest, "/")
	if !found {
		bucket, key = defaultBucket, rest
	}
	if bucket == "" || key == "" {
		return nil, true, fmt.Errorf("%w: %v", ErrInvalidObjectRef, ref)
	}
	return &ObjectRef{Bucket: bucket, Key: key}, true, nil
}

func NewMinIOClient(conf *configure.MinIOConfigure) (*minio.Client, error) {
	return minio.New(conf.Endpoint, &minio.Options{
		Creds: credentials.NewStaticV4(
			conf.Credentials.AccessKey, conf.Credentials.SecretKey, "",
		),
		Secure: conf.SSL,
		Region: conf.Region,
	})
}

func GetObject(ctx context.Context, mc *minio.Client, bucket string, key string) ([]byte, error) {
	obj, err := mc.GetObject(ctx, bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, err
	}
	defer obj.Close()
	return io.ReadAll(obj)
}

// Loader reads documents from the local file system, or from MinIO when
// a client is set.
type Loader struct {
	mc            *minio.Client
	defaultBucket string
}

func NewLoader(mc *minio.Client, defaultBucket string) *Loader {
	return &Loader{
		mc:            mc,
		defaultBucket: defaultBucket,
	}
}

// ReadRaw returns the bytes behind ref.
func (l *Loader) ReadRaw(ctx context.Context, ref string) ([]byte, error) {
	obj, ok, err := ParseObjectRef(ref, l.defaultBucket)
	if err != nil {
		return nil, err
	}
	if !ok {
		return os.ReadFile(ref)
	}
	if l.mc == nil {
		return nil, ErrMinIONotConfigured
	}
	return GetObject(ctx, l.mc, obj.Bucket, obj.Key)
}

// Load reads ref and decodes it according to its extension.
func (l *Loader) Load(ctx context.Context, ref string) (map[string]interface{}, error) {
	f, err := FormatOf(ref)
	if err != nil {
		return nil, err
	}
	b, err := l.ReadRaw(ctx, ref)
	if err != nil {
		return nil, err
	}
	doc, err := Decode(b, f)
	if err != nil {
		return nil, fmt.Errorf("decode %v: %w", ref, err)
	}
	return doc, nil
}
