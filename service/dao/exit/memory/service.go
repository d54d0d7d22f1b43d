package memory

import (
	"context"

	"github.com/viant/rotor/model"
	"github.com/viant/rotor/service/dao"
	"github.com/viant/rotor/service/dao/criteria"
	"github.com/viant/rotor/service/dao/store"
)

// Service keeps exit records in memory, keyed by task id, in the order tasks left.
type Service struct {
	*store.MemoryStore[int, model.Exit]
}

var _ dao.Service[int, model.Exit] = (*Service)(nil)

// Save stores exit record
func (s *Service) Save(ctx context.Context, exit *model.Exit) error {
	if exit == nil {
		return dao.ErrNilEntity
	}
	if exit.TaskID <= 0 {
		return dao.ErrInvalidID
	}
	return s.MemoryStore.Save(ctx, exit)
}

// Load returns exit record of task id
func (s *Service) Load(ctx context.Context, id int) (*model.Exit, error) {
	if id <= 0 {
		return nil, dao.ErrInvalidID
	}
	return s.MemoryStore.Load(ctx, id)
}

// List returns exit records matching parameters (Name, Outcome)
func (s *Service) List(ctx context.Context, parameters ...*dao.Parameter) ([]*model.Exit, error) {
	all, err := s.MemoryStore.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]*model.Exit, 0, len(all))
	for _, exit := range all {
		if criteria.Matches(exit.Fields(), parameters) {
			out = append(out, exit)
		}
	}
	return out, nil
}

func New() *Service {
	return &Service{MemoryStore: store.NewMemoryStore[int, model.Exit](func(exit *model.Exit) int {
		return exit.TaskID
	})}
}
