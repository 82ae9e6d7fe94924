// Package gridfs implements source.Source over a MongoDB GridFS bucket.
//
// Images are looked up by GridFS filename. Saved sheets are uploaded under
// their name and reported as gridfs://<database>/<bucket>/<name>.
package gridfs

import (
	"bytes"
	"context"
	stderrors "errors"
	"image"
	"io"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	mongofs "go.mongodb.org/mongo-driver/mongo/gridfs"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/tgrunnagle/playing-card-gen/pkg/errors"
	"github.com/tgrunnagle/playing-card-gen/pkg/source"
)

// DefaultBucket is the GridFS bucket name used when none is configured.
const DefaultBucket = "cards"

// Config configures a GridFS Source.
type Config struct {
	URI      string
	Database string
	Bucket   string
}

// store is the subset of a GridFS bucket the source uses.
type store interface {
	open(ctx context.Context, name string) (io.ReadCloser, error)
	upload(ctx context.Context, name string, r io.Reader) error
}

// Source reads and writes images in a GridFS bucket.
type Source struct {
	db     string
	bucket string
	store  store
	client *mongo.Client
}

// Connect dials MongoDB and opens the bucket.
func Connect(ctx context.Context, cfg Config) (*Source, error) {
	if cfg.URI == "" || cfg.Database == "" {
		return nil, errors.Config("gridfs requires uri and database")
	}
	if cfg.Bucket == "" {
		cfg.Bucket = DefaultBucket
	}

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeNetwork, err, "connect mongodb")
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, errors.Wrap(errors.ErrCodeNetwork, err, "ping mongodb")
	}

	b, err := mongofs.NewBucket(client.Database(cfg.Database), options.GridFSBucket().SetName(cfg.Bucket))
	if err != nil {
		_ = client.Disconnect(ctx)
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "open gridfs bucket %s", cfg.Bucket)
	}

	s := newSource(cfg.Database, cfg.Bucket, &bucketStore{b: b})
	s.client = client
	return s, nil
}

func newSource(db, bucket string, st store) *Source {
	return &Source{db: db, bucket: bucket, store: st}
}

// Close disconnects from MongoDB.
func (s *Source) Close(ctx context.Context) error {
	if s.client == nil {
		return nil
	}
	return s.client.Disconnect(ctx)
}

// Get downloads and decodes the file named id.
func (s *Source) Get(ctx context.Context, id string) (image.Image, error) {
	if err := errors.ValidatePath(id); err != nil {
		return nil, err
	}
	rc, err := s.store.open(ctx, id)
	if stderrors.Is(err, mongofs.ErrFileNotFound) {
		return nil, errors.New(errors.ErrCodeImageNotFound, "image %q not found in %s", id, s.location(""))
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeNetwork, err, "download %q", id)
	}
	defer rc.Close()

	img, err := source.Decode(rc)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "image %q", id)
	}
	return img, nil
}

// Save uploads img as a PNG named name.
func (s *Source) Save(ctx context.Context, name string, img image.Image) (string, error) {
	if err := errors.ValidateAssetName(name); err != nil {
		return "", err
	}
	data, err := source.PNGBytes(img)
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeInternal, err, "encode %s", name)
	}
	if err := s.store.upload(ctx, name, bytes.NewReader(data)); err != nil {
		return "", errors.Wrap(errors.ErrCodeNetwork, err, "upload %s", name)
	}
	return s.location(name), nil
}

func (s *Source) location(name string) string {
	return "gridfs://" + s.db + "/" + s.bucket + "/" + name
}

// bucketStore adapts a GridFS bucket. The bucket API is deadline based, so
// the context deadline (if any) is applied before each operation.
type bucketStore struct {
	b *mongofs.Bucket
}

func (bs *bucketStore) open(ctx context.Context, name string) (io.ReadCloser, error) {
	if err := bs.b.SetReadDeadline(deadline(ctx)); err != nil {
		return nil, err
	}
	ds, err := bs.b.OpenDownloadStreamByName(name)
	if err != nil {
		return nil, err
	}
	return ds, nil
}

func (bs *bucketStore) upload(ctx context.Context, name string, r io.Reader) error {
	if err := bs.b.SetWriteDeadline(deadline(ctx)); err != nil {
		return err
	}
	_, err := bs.b.UploadFromStream(name, r)
	return err
}

func deadline(ctx context.Context) time.Time {
	d, _ := ctx.Deadline()
	return d
}

var _ source.Source = (*Source)(nil)
