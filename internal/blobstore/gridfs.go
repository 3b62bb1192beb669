package blobstore

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

// GridFS stores uploaded images in a MongoDB GridFS bucket and hands out
// references of the form {baseURL}/images/{fileID} that the HTTP shell
// resolves via Open.
type GridFS struct {
	bucket  *mongo.GridFSBucket
	baseURL string
}

func NewGridFS(db *mongo.Database, baseURL string) *GridFS {
	return &GridFS{
		bucket:  db.GridFSBucket(),
		baseURL: strings.TrimRight(baseURL, "/"),
	}
}

func (g *GridFS) Put(ctx context.Context, data []byte, contentType string) (string, error) {
	name := "feedback_images/" + uuid.New().String() + extensionFor(contentType)
	opts := options.GridFSUpload().SetMetadata(bson.M{"contentType": contentType})

	fileID, err := g.bucket.UploadFromStream(ctx, name, bytes.NewReader(data), opts)
	if err != nil {
		return "", fmt.Errorf("upload to gridfs: %w", err)
	}
	return g.baseURL + "/images/" + fileID.Hex(), nil
}

// Open streams a previously stored blob by the hex file ID embedded in its
// reference. Used by the image-serving route, not by the pipeline.
func (g *GridFS) Open(ctx context.Context, idHex string) (io.ReadCloser, string, error) {
	fileID, err := bson.ObjectIDFromHex(idHex)
	if err != nil {
		return nil, "", fmt.Errorf("invalid image id %q: %w", idHex, err)
	}

	stream, err := g.bucket.OpenDownloadStream(ctx, fileID)
	if err != nil {
		return nil, "", fmt.Errorf("open gridfs stream: %w", err)
	}

	contentType := "application/octet-stream"
	if file := stream.GetFile(); file != nil && file.Metadata != nil {
		if v, err := file.Metadata.LookupErr("contentType"); err == nil {
			if s, ok := v.StringValueOK(); ok {
				contentType = s
			}
		}
	}
	return stream, contentType, nil
}

func extensionFor(contentType string) string {
	switch contentType {
	case "image/png":
		return ".png"
	case "image/jpeg":
		return ".jpg"
	case "image/gif":
		return ".gif"
	case "image/bmp":
		return ".bmp"
	case "image/tiff":
		return ".tiff"
	case "image/webp":
		return ".webp"
	default:
		return ""
	}
}
