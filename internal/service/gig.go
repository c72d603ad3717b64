package service

import (
	"context"
	"errors"

	"gig-marketplace-api/internal/entity"
	"gig-marketplace-api/internal/metrics"
	"gig-marketplace-api/internal/policy"
	"gig-marketplace-api/internal/repo"
	"gig-marketplace-api/internal/repo/repo_errors"
)

type GigService struct {
	gigRepo repo.Gig
	metrics *metrics.Metrics
}

func NewGigService(repos *repo.Repositories, m *metrics.Metrics) *GigService {
	return &GigService{
		gigRepo: repos.Gig,
		metrics: m,
	}
}

func (s *GigService) CreateGig(ctx context.Context, input *entity.CreateGigInput) (*entity.GigOutputModel, error) {
	id, err := s.gigRepo.CreateGig(ctx, input)
	if err != nil {
		return nil, err
	}

	gig, err := s.gigRepo.GetGigById(ctx, id.String())
	if err != nil {
		return nil, err
	}

	s.metrics.GigsCreatedTotal.Inc()

	return mapGig(gig), nil
}

func (s *GigService) GetGigById(ctx context.Context, gigId string) (*entity.GigOutputModel, error) {
	gig, err := s.gigRepo.GetGigById(ctx, gigId)
	if err != nil {
		if errors.Is(err, repo_errors.ErrNotFound) {
			return nil, ErrGigNotFound
		}

		return nil, err
	}

	return mapGig(gig), nil
}

func (s *GigService) GetOpenGigs(ctx context.Context, titleSearch string) ([]entity.GigOutputModel, error) {
	gigs, err := s.gigRepo.GetOpenGigs(ctx, titleSearch)
	if err != nil {
		return nil, err
	}

	return mapGigs(gigs), nil
}

func (s *GigService) GetOwnerGigs(ctx context.Context, callerId string) ([]entity.GigOutputModel, error) {
	gigs, err := s.gigRepo.GetGigsByOwner(ctx, callerId)
	if err != nil {
		return nil, err
	}

	return mapGigs(gigs), nil
}

func (s *GigService) EditGigById(ctx context.Context, gigId string, callerId string, input *entity.EditGigInput) (*entity.GigOutputModel, error) {
	gig, err := s.gigRepo.GetGigById(ctx, gigId)
	if err != nil {
		if errors.Is(err, repo_errors.ErrNotFound) {
			return nil, ErrGigNotFound
		}

		return nil, err
	}

	if !policy.IsOwner(gig, callerId) {
		return nil, ErrNotGigOwner
	}
	if !policy.IsOpen(gig) {
		return nil, ErrGigNotOpen
	}

	err = s.gigRepo.EditGigById(ctx, gigId, input)
	if err != nil {
		// The open-guard in the repo closes the gap between the check
		// above and the update.
		if errors.Is(err, repo_errors.ErrInvalidState) {
			return nil, ErrGigNotOpen
		}
		if errors.Is(err, repo_errors.ErrNotFound) {
			return nil, ErrGigNotFound
		}

		return nil, err
	}

	gig, err = s.gigRepo.GetGigById(ctx, gigId)
	if err != nil {
		return nil, err
	}

	return mapGig(gig), nil
}

func (s *GigService) DeleteGigById(ctx context.Context, gigId string, callerId string) error {
	gig, err := s.gigRepo.GetGigById(ctx, gigId)
	if err != nil {
		if errors.Is(err, repo_errors.ErrNotFound) {
			return ErrGigNotFound
		}

		return err
	}

	if !policy.IsOwner(gig, callerId) {
		return ErrNotGigOwner
	}
	if !policy.IsOpen(gig) {
		return ErrGigNotOpen
	}

	err = s.gigRepo.DeleteGigById(ctx, gigId)
	if err != nil {
		switch {
		case errors.Is(err, repo_errors.ErrConflict):
			return ErrGigHasBids
		case errors.Is(err, repo_errors.ErrInvalidState):
			return ErrGigNotOpen
		case errors.Is(err, repo_errors.ErrNotFound):
			return ErrGigNotFound
		}

		return err
	}

	return nil
}
