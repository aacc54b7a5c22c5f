package services

import (
	"context"

	"github.com/kubev2v/pipeline-verifier/internal/models"
	"github.com/kubev2v/pipeline-verifier/internal/store"
)

type HistoryService struct {
	store *store.Store
}

func NewHistoryService(st *store.Store) *HistoryService {
	return &HistoryService{store: st}
}

type HistoryListParams struct {
	OnlyFailed bool
	Limit      uint64
	Offset     uint64
}

type HistoryListResult struct {
	Runs  []models.Run
	Total int
}

func (s *HistoryService) Record(ctx context.Context, run models.Run) error {
	return s.store.Runs().Save(ctx, run)
}

func (s *HistoryService) Get(ctx context.Context, id string) (*models.Run, error) {
	return s.store.Runs().Get(ctx, id)
}

func (s *HistoryService) List(ctx context.Context, params HistoryListParams) (*HistoryListResult, error) {
	runs, err := s.store.Runs().List(ctx, s.buildListOptions(params)...)
	if err != nil {
		return nil, err
	}

	// total ignores pagination
	total, err := s.store.Runs().Count(ctx, s.buildListOptions(HistoryListParams{OnlyFailed: params.OnlyFailed})...)
	if err != nil {
		return nil, err
	}

	return &HistoryListResult{Runs: runs, Total: total}, nil
}

func (s *HistoryService) buildListOptions(params HistoryListParams) []store.ListOption {
	var opts []store.ListOption

	if params.OnlyFailed {
		opts = append(opts, store.OnlyFailed())
	}
	if params.Limit > 0 {
		opts = append(opts, store.WithLimit(params.Limit))
	}
	if params.Offset > 0 {
		opts = append(opts, store.WithOffset(params.Offset))
	}

	return opts
}
