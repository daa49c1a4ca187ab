package dao

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	echo_errors "github.com/dev-mohitbeniwal/echo/abac/errors"
	logger "github.com/dev-mohitbeniwal/echo/abac/logging"
	"github.com/dev-mohitbeniwal/echo/abac/model"
)

// PolicySnapshot is the content of the policy file at one point in time.
type PolicySnapshot struct {
	Policies []model.Policy
	Version  string
	LoadedAt time.Time
}

// PolicyRetrievalDAO reads policy documents from a YAML or JSON file.
type PolicyRetrievalDAO struct {
	path string
}

func NewPolicyRetrievalDAO(path string) *PolicyRetrievalDAO {
	return &PolicyRetrievalDAO{path: path}
}

func (dao *PolicyRetrievalDAO) Path() string {
	return dao.path
}

// RetrievePolicies reads and decodes the policy file. The version is a hash
// of the raw file content.
func (dao *PolicyRetrievalDAO) RetrievePolicies(ctx context.Context) (*PolicySnapshot, error) {
	start := time.Now()

	data, err := os.ReadFile(dao.path)
	if err != nil {
		logger.Error("Failed to read policy file", zap.Error(err), zap.String("path", dao.path))
		return nil, fmt.Errorf("%w: %v", echo_errors.ErrPolicySource, err)
	}

	snapshot, err := DecodePolicies(data)
	if err != nil {
		logger.Error("Failed to decode policy file", zap.Error(err), zap.String("path", dao.path))
		return nil, err
	}

	logger.Info("Policies retrieved",
		zap.String("path", dao.path),
		zap.String("version", snapshot.Version),
		zap.Int("count", len(snapshot.Policies)),
		zap.Duration("duration", time.Since(start)))
	return snapshot, nil
}

// DecodePolicies decodes a YAML or JSON policy document. An empty document
// is an empty policy set.
func DecodePolicies(data []byte) (*PolicySnapshot, error) {
	var doc model.PolicyDocument
	var err error
	if trimmed := bytes.TrimSpace(data); len(trimmed) > 0 && trimmed[0] == '{' {
		decoder := json.NewDecoder(bytes.NewReader(trimmed))
		decoder.DisallowUnknownFields()
		err = decoder.Decode(&doc)
	} else {
		decoder := yaml.NewDecoder(bytes.NewReader(data))
		decoder.KnownFields(true)
		err = decoder.Decode(&doc)
	}
	if err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: %v", echo_errors.ErrInvalidPolicyData, err)
	}

	return &PolicySnapshot{
		Policies: doc.Policies,
		Version:  fmt.Sprintf("%016x", xxhash.Sum64(data)),
		LoadedAt: time.Now(),
	}, nil
}

// Watch calls onChange whenever the policy file is written, created or
// renamed into place. It blocks until ctx is done.
func (dao *PolicyRetrievalDAO) Watch(ctx context.Context, onChange func(context.Context)) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create policy watcher: %w", err)
	}
	defer watcher.Close()

	// Watch the directory: editors and config maps replace the file.
	dir := filepath.Dir(dao.path)
	if err := watcher.Add(dir); err != nil {
		return fmt.Errorf("watch %s: %w", dir, err)
	}
	target := filepath.Clean(dao.path)

	logger.Info("Watching policy file", zap.String("path", dao.path))
	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != target {
				continue
			}
			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) || event.Has(fsnotify.Rename) {
				logger.Debug("Policy file changed", zap.String("op", event.Op.String()))
				onChange(ctx)
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn("Policy watcher error", zap.Error(err))
		}
	}
}
