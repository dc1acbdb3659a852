package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/hieptuanle/baby-tracker/internal/gestation"
	"github.com/hieptuanle/baby-tracker/internal/metrics"
	"github.com/hieptuanle/baby-tracker/internal/models"
	"github.com/hieptuanle/baby-tracker/internal/store"
)

// Record is a pregnancy row together with its gestational age today.
type Record struct {
	models.Pregnancy
	GestationalAge gestation.Age `json:"gestationalAge"`
}

// PregnancyService keeps at most one current pregnancy per user: writes
// update the most recent row in place and reads always select it.
type PregnancyService struct {
	pregnancies store.PregnancyStore
	now         func() time.Time
}

// NewPregnancyService returns the service. now defaults to time.Now.
func NewPregnancyService(pregnancies store.PregnancyStore, now func() time.Time) *PregnancyService {
	if now == nil {
		now = time.Now
	}
	return &PregnancyService{pregnancies: pregnancies, now: now}
}

// Get returns the user's current record with its gestational age, or nil
// when the user has none.
func (s *PregnancyService) Get(ctx context.Context, userID uint) (*Record, error) {
	p, err := s.current(ctx, userID)
	if err != nil || p == nil {
		return nil, err
	}

	edd, err := gestation.ParseDate(p.ExpectedDeliveryDate)
	if err != nil {
		return nil, fmt.Errorf("stored pregnancy %d: %w", p.ID, err)
	}
	return &Record{
		Pregnancy:      *p,
		GestationalAge: gestation.AgeAt(edd, s.now()),
	}, nil
}

// Upsert records the dates for the user's current pregnancy, creating the
// record when there is none. created reports which of the two happened.
// When edd is empty it is derived from lmp.
func (s *PregnancyService) Upsert(ctx context.Context, userID uint, edd, lmp string) (p *models.Pregnancy, created bool, err error) {
	eddDate, lmpDate, err := resolveDates(edd, lmp)
	if err != nil {
		return nil, false, err
	}

	cur, err := s.current(ctx, userID)
	if err != nil {
		return nil, false, err
	}
	if cur != nil {
		if err := s.update(ctx, cur, eddDate, lmpDate); err != nil {
			return nil, false, err
		}
		return cur, false, nil
	}

	p = &models.Pregnancy{
		UserID:               userID,
		ExpectedDeliveryDate: eddDate,
		LastMenstrualPeriod:  lmpDate,
	}
	if err := s.pregnancies.Create(ctx, p); err != nil {
		return nil, false, fmt.Errorf("create pregnancy: %w", err)
	}
	metrics.PregnancyWritesTotal.WithLabelValues("create").Inc()
	return p, true, nil
}

// Current returns the user's current record, or ErrPregnancyNotFound.
func (s *PregnancyService) Current(ctx context.Context, userID uint) (*models.Pregnancy, error) {
	p, err := s.current(ctx, userID)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, ErrPregnancyNotFound
	}
	return p, nil
}

// Update changes the dates of the user's current record. Unlike Upsert it
// never creates one.
func (s *PregnancyService) Update(ctx context.Context, userID uint, edd, lmp string) (*models.Pregnancy, error) {
	cur, err := s.current(ctx, userID)
	if err != nil {
		return nil, err
	}
	if cur == nil {
		return nil, ErrPregnancyNotFound
	}

	eddDate, lmpDate, err := resolveDates(edd, lmp)
	if err != nil {
		return nil, err
	}
	if err := s.update(ctx, cur, eddDate, lmpDate); err != nil {
		return nil, err
	}
	return cur, nil
}

// Delete removes the user's current record.
func (s *PregnancyService) Delete(ctx context.Context, userID uint) error {
	cur, err := s.current(ctx, userID)
	if err != nil {
		return err
	}
	if cur == nil {
		return ErrPregnancyNotFound
	}

	err = s.pregnancies.Delete(ctx, cur.ID)
	if errors.Is(err, store.ErrNotFound) {
		return ErrPregnancyNotFound
	}
	if err != nil {
		return fmt.Errorf("delete pregnancy: %w", err)
	}
	metrics.PregnancyWritesTotal.WithLabelValues("delete").Inc()
	return nil
}

func (s *PregnancyService) current(ctx context.Context, userID uint) (*models.Pregnancy, error) {
	p, err := s.pregnancies.Latest(ctx, userID)
	if errors.Is(err, store.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load pregnancy: %w", err)
	}
	return p, nil
}

func (s *PregnancyService) update(ctx context.Context, p *models.Pregnancy, edd string, lmp *string) error {
	now := s.now().UTC()
	err := s.pregnancies.Update(ctx, p.ID, edd, lmp, now)
	if errors.Is(err, store.ErrNotFound) {
		return ErrPregnancyNotFound
	}
	if err != nil {
		return fmt.Errorf("update pregnancy: %w", err)
	}

	p.ExpectedDeliveryDate = edd
	p.LastMenstrualPeriod = lmp
	p.UpdatedAt = now
	metrics.PregnancyWritesTotal.WithLabelValues("update").Inc()
	return nil
}

// resolveDates validates the inputs and returns the canonical EDD and the
// optional LMP to store.
func resolveDates(edd, lmp string) (string, *string, error) {
	edd, lmp = strings.TrimSpace(edd), strings.TrimSpace(lmp)
	if edd == "" && lmp == "" {
		return "", nil, ErrMissingDates
	}

	var lmpOut *string
	var lmpDate time.Time
	if lmp != "" {
		d, err := gestation.ParseDate(lmp)
		if err != nil {
			return "", nil, ErrInvalidDate
		}
		lmpDate = d
		s := gestation.FormatDate(d)
		lmpOut = &s
	}

	if edd != "" {
		d, err := gestation.ParseDate(edd)
		if err != nil {
			return "", nil, ErrInvalidDate
		}
		return gestation.FormatDate(d), lmpOut, nil
	}
	return gestation.FormatDate(gestation.EDDFromLMP(lmpDate)), lmpOut, nil
}
