package catalog

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// Source is one candidate location of the exercise catalog document.
type Source interface {
	Name() string
	Fetch(ctx context.Context) ([]byte, error)
}

type FileSource struct {
	Path string
}

func (fs FileSource) Name() string {
	return "file://" + fs.Path
}

func (fs FileSource) Fetch(_ context.Context) ([]byte, error) {
	data, err := os.ReadFile(fs.Path)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}
	return data, nil
}

type HTTPSource struct {
	URL        string
	HTTPClient *http.Client
}

func (hs HTTPSource) Name() string {
	return hs.URL
}

func (hs HTTPSource) Fetch(ctx context.Context) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, hs.URL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := hs.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("http client do: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	respBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response body: %w", err)
	}
	return respBytes, nil
}

// ObjectStore is the part of the minio client used to fetch catalog objects.
type ObjectStore interface {
	GetObject(ctx context.Context, bucketName, objectName string, opts minio.GetObjectOptions) (*minio.Object, error)
}

type ObjectSource struct {
	Bucket string
	Key    string
	Store  ObjectStore
}

func (src ObjectSource) Name() string {
	return fmt.Sprintf("s3://%s/%s", src.Bucket, src.Key)
}

func (src ObjectSource) Fetch(ctx context.Context) ([]byte, error) {
	obj, err := src.Store.GetObject(ctx, src.Bucket, src.Key, minio.GetObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("get object: %w", err)
	}
	defer obj.Close()

	data, err := io.ReadAll(obj)
	if err != nil {
		return nil, fmt.Errorf("read object: %w", err)
	}
	return data, nil
}

func NewMinioClient(endpoint, accessKey, secretKey string, useSSL bool) (*minio.Client, error) {
	return minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(accessKey, secretKey, ""),
		Secure: useSSL,
	})
}

// ParseSources turns the configured candidate paths into sources, keeping their order:
//   - http(s)://... is fetched with the given http client
//   - s3://bucket/key is fetched from object storage
//   - anything else is a local file path
func ParseSources(candidates []string, httpClient *http.Client, objectStore ObjectStore) ([]Source, error) {
	sources := make([]Source, 0, len(candidates))
	for _, c := range candidates {
		c = strings.TrimSpace(c)
		switch {
		case c == "":
			continue
		case strings.HasPrefix(c, "http://"), strings.HasPrefix(c, "https://"):
			if httpClient == nil {
				httpClient = http.DefaultClient
			}
			sources = append(sources, HTTPSource{URL: c, HTTPClient: httpClient})
		case strings.HasPrefix(c, "s3://"):
			if objectStore == nil {
				return nil, fmt.Errorf("catalog source [%s]: object storage not configured", c)
			}
			bucket, key, found := strings.Cut(strings.TrimPrefix(c, "s3://"), "/")
			if !found || bucket == "" || key == "" {
				return nil, fmt.Errorf("catalog source [%s]: expected s3://bucket/key", c)
			}
			sources = append(sources, ObjectSource{Bucket: bucket, Key: key, Store: objectStore})
		default:
			sources = append(sources, FileSource{Path: strings.TrimPrefix(c, "file://")})
		}
	}

	if len(sources) == 0 {
		return nil, errors.New("no catalog sources configured")
	}
	return sources, nil
}
