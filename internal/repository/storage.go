package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/sirupsen/logrus"
)

const metaSuffix = ".meta.json"

var (
	ErrObjectNotFound   = errors.New("object not found")
	ErrInvalidSignature = errors.New("invalid or expired signature")
)

//go:generate mockery --name=Storage

// Storage is the blob storage used by the jobs
type Storage interface {
	DeleteByPrefix(ctx context.Context, prefix string) error
	Upload(ctx context.Context, localPath, remotePath, contentType string) error
	SignedURL(ctx context.Context, remotePath string, ttl time.Duration) (string, error)
}

type Object struct {
	io.ReadCloser
	Size        int64
	ContentType string
}

type ObjectInfo struct {
	Path    string
	Size    int64
	ModTime time.Time
}

type objectMeta struct {
	ContentType string `json:"contentType"`
}

// FileStorage is a single bucket kept in a local directory. Signed urls carry an HS256 token
// whose subject is the object path.
type FileStorage struct {
	root       string
	signingKey []byte
	baseURL    string
	now        func() time.Time
}

func NewFileStorage(root, signingKey, baseURL string) (*FileStorage, error) {
	if signingKey == "" {
		return nil, errors.New("file storage requires a signing key")
	}
	if err := os.MkdirAll(root, 0o750); err != nil {
		return nil, fmt.Errorf("file storage couldn't create root %s: %v", root, err)
	}
	return &FileStorage{
		root:       root,
		signingKey: []byte(signingKey),
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		now:        time.Now,
	}, nil
}

func (s *FileStorage) Upload(ctx context.Context, localPath, remotePath, contentType string) error {
	dst, err := s.objectPath(remotePath)
	if err != nil {
		return err
	}
	if err = ctx.Err(); err != nil {
		return err
	}
	if err = os.MkdirAll(filepath.Dir(dst), 0o750); err != nil {
		return fmt.Errorf("file storage couldn't create dir for %s: %v", remotePath, err)
	}

	src, err := os.Open(localPath)
	if err != nil {
		return fmt.Errorf("file storage couldn't open %s: %v", localPath, err)
	}
	defer src.Close()

	out, err := os.Create(dst)
	if err != nil {
		return fmt.Errorf("file storage couldn't create %s: %v", remotePath, err)
	}
	if _, err = io.Copy(out, src); err != nil {
		out.Close()
		return fmt.Errorf("file storage couldn't write %s: %v", remotePath, err)
	}
	if err = out.Close(); err != nil {
		return fmt.Errorf("file storage couldn't close %s: %v", remotePath, err)
	}

	meta, err := json.Marshal(objectMeta{ContentType: contentType})
	if err != nil {
		return err
	}
	if err = os.WriteFile(dst+metaSuffix, meta, 0o640); err != nil {
		return fmt.Errorf("file storage couldn't write metadata for %s: %v", remotePath, err)
	}
	return nil
}

func (s *FileStorage) DeleteByPrefix(ctx context.Context, prefix string) error {
	objects, err := s.List(ctx, prefix)
	if err != nil {
		return err
	}
	for _, obj := range objects {
		if err = s.Delete(ctx, obj.Path); err != nil {
			return err
		}
	}
	logrus.Debugf("file storage deleted %d objects with prefix %s", len(objects), prefix)
	return nil
}

func (s *FileStorage) SignedURL(_ context.Context, remotePath string, ttl time.Duration) (string, error) {
	clean, err := cleanObjectPath(remotePath)
	if err != nil {
		return "", err
	}
	now := s.now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   clean,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
	})
	signed, err := token.SignedString(s.signingKey)
	if err != nil {
		return "", fmt.Errorf("file storage couldn't sign url for %s: %v", clean, err)
	}
	u := url.URL{Path: "/files/" + clean, RawQuery: url.Values{"token": {signed}}.Encode()}
	return s.baseURL + u.String(), nil
}

// Verify checks a token produced by SignedURL for the object path
func (s *FileStorage) Verify(remotePath, token string) error {
	clean, err := cleanObjectPath(remotePath)
	if err != nil {
		return err
	}
	claims := &jwt.RegisteredClaims{}
	_, err = jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		return s.signingKey, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(s.now), jwt.WithExpirationRequired())
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidSignature, err)
	}
	if claims.Subject != clean {
		return fmt.Errorf("%w: token issued for another object", ErrInvalidSignature)
	}
	return nil
}

func (s *FileStorage) Open(_ context.Context, remotePath string) (*Object, error) {
	p, err := s.objectPath(remotePath)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(p)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%s: %w", remotePath, ErrObjectNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("file storage couldn't open %s: %v", remotePath, err)
	}
	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("file storage couldn't stat %s: %v", remotePath, err)
	}

	contentType := "application/octet-stream"
	if data, err := os.ReadFile(p + metaSuffix); err == nil {
		var meta objectMeta
		if err = json.Unmarshal(data, &meta); err == nil && meta.ContentType != "" {
			contentType = meta.ContentType
		}
	}
	return &Object{ReadCloser: f, Size: info.Size(), ContentType: contentType}, nil
}

// List returns the objects whose path starts with prefix
func (s *FileStorage) List(ctx context.Context, prefix string) ([]ObjectInfo, error) {
	var objects []ObjectInfo
	err := filepath.WalkDir(s.root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if err = ctx.Err(); err != nil {
			return err
		}
		if d.IsDir() || strings.HasSuffix(p, metaSuffix) {
			return nil
		}
		rel, err := filepath.Rel(s.root, p)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)
		if !strings.HasPrefix(rel, prefix) {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return err
		}
		objects = append(objects, ObjectInfo{Path: rel, Size: info.Size(), ModTime: info.ModTime()})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("file storage couldn't list prefix %s: %v", prefix, err)
	}
	return objects, nil
}

func (s *FileStorage) Delete(_ context.Context, remotePath string) error {
	p, err := s.objectPath(remotePath)
	if err != nil {
		return err
	}
	if err = os.Remove(p); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("file storage couldn't delete %s: %v", remotePath, err)
	}
	if err = os.Remove(p + metaSuffix); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("file storage couldn't delete metadata of %s: %v", remotePath, err)
	}
	return nil
}

func (s *FileStorage) objectPath(remotePath string) (string, error) {
	clean, err := cleanObjectPath(remotePath)
	if err != nil {
		return "", err
	}
	return filepath.Join(s.root, filepath.FromSlash(clean)), nil
}

func cleanObjectPath(remotePath string) (string, error) {
	clean := strings.TrimPrefix(path.Clean("/"+remotePath), "/")
	if clean == "" || strings.HasSuffix(clean, metaSuffix) {
		return "", fmt.Errorf("invalid object path %q", remotePath)
	}
	return clean, nil
}
