package fs

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"sort"
	"strings"
	"sync"

	"github.com/viant/afs"
	"github.com/viant/afs/file"
	"github.com/viant/afs/option"
	"github.com/viant/afs/url"
	"github.com/viant/rotor/model"
	"github.com/viant/rotor/service/dao"
	"github.com/viant/rotor/service/dao/criteria"
)

// Service persists exit records as one JSON file per task
type Service struct {
	basePath string
	fs       afs.Service
	mu       sync.RWMutex
}

var _ dao.Service[int, model.Exit] = (*Service)(nil)

// Save persists an exit record
func (s *Service) Save(ctx context.Context, exit *model.Exit) error {
	if exit == nil {
		return dao.ErrNilEntity
	}
	if exit.TaskID <= 0 {
		return dao.ErrInvalidID
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := json.Marshal(exit)
	if err != nil {
		return fmt.Errorf("failed to marshal exit of task %d: %w", exit.TaskID, err)
	}
	filePath := s.exitPath(exit.TaskID)
	if err = s.fs.Upload(ctx, filePath, file.DefaultFileOsMode, bytes.NewReader(data)); err != nil {
		return fmt.Errorf("failed to save exit to file %s: %w", filePath, err)
	}
	return nil
}

// Load retrieves exit record of task id
func (s *Service) Load(ctx context.Context, id int) (*model.Exit, error) {
	if id <= 0 {
		return nil, dao.ErrInvalidID
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	filePath := s.exitPath(id)
	exists, err := s.fs.Exists(ctx, filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to check if exit exists: %w", err)
	}
	if !exists {
		return nil, fmt.Errorf("%w: exit of task %d", dao.ErrNotFound, id)
	}
	data, err := s.fs.DownloadWithURL(ctx, filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read exit file: %w", err)
	}
	var exit model.Exit
	if err := json.Unmarshal(data, &exit); err != nil {
		return nil, fmt.Errorf("failed to unmarshal exit data: %w", err)
	}
	return &exit, nil
}

// Delete removes exit record of task id
func (s *Service) Delete(ctx context.Context, id int) error {
	if id <= 0 {
		return dao.ErrInvalidID
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	filePath := s.exitPath(id)
	exists, err := s.fs.Exists(ctx, filePath)
	if err != nil {
		return fmt.Errorf("failed to check if exit exists: %w", err)
	}
	if !exists {
		return fmt.Errorf("%w: exit of task %d", dao.ErrNotFound, id)
	}
	if err := s.fs.Delete(ctx, filePath); err != nil {
		return fmt.Errorf("failed to delete exit file: %w", err)
	}
	return nil
}

// List returns exit records matching parameters, ordered by task id
func (s *Service) List(ctx context.Context, parameters ...*dao.Parameter) ([]*model.Exit, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	objects, err := s.fs.List(ctx, s.basePath, option.NewRecursive(false))
	if err != nil {
		return nil, fmt.Errorf("failed to list exit files: %w", err)
	}
	var exits []*model.Exit
	for _, object := range objects {
		if object.IsDir() || !strings.HasSuffix(object.Name(), ".json") {
			continue
		}
		data, err := s.fs.Download(ctx, object)
		if err != nil {
			log.Printf("failed to read exit file %s: %v", object.URL(), err)
			continue
		}
		var exit model.Exit
		if err := json.Unmarshal(data, &exit); err != nil {
			log.Printf("failed to unmarshal exit from %s: %v", object.URL(), err)
			continue
		}
		if criteria.Matches(exit.Fields(), parameters) {
			exits = append(exits, &exit)
		}
	}
	sort.Slice(exits, func(i, j int) bool { return exits[i].TaskID < exits[j].TaskID })
	return exits, nil
}

func (s *Service) exitPath(id int) string {
	return url.Join(s.basePath, fmt.Sprintf("%d.json", id))
}

// New creates a filesystem exit store rooted at basePath
func New(basePath string) (*Service, error) {
	if basePath == "" {
		return nil, errors.New("base path cannot be empty")
	}
	fs := afs.New()
	ctx := context.Background()
	exists, _ := fs.Exists(ctx, basePath)
	if !exists {
		if err := fs.Create(ctx, basePath, file.DefaultDirOsMode, true); err != nil {
			return nil, fmt.Errorf("failed to create base directory: %w", err)
		}
	}
	return &Service{
		basePath: url.Normalize(basePath, file.Scheme),
		fs:       fs,
	}, nil
}
