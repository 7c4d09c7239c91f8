package rate

import (
	"context"
	"errors"
	"fmt"
	"time"

	"bojrates/internal/domain"

	"github.com/sirupsen/logrus"
)

// Load runs one ingestion pass for the range: skip when the range is already
// covered, otherwise fetch, map and persist. Shared by the scheduler job, the
// load endpoint and the loadrates command.
func (s *IngestionService) Load(ctx context.Context, execID string, r domain.DateRange) error {
	// STEP 1: idempotency guard against duplicate rows
	loaded, err := s.AlreadyLoaded(ctx, r)
	if err != nil {
		return fmt.Errorf("failed to check loaded rates: %w", err)
	}
	if loaded {
		logrus.Infof("Exchange rates already loaded for %s; execID: %s", describeRange(r), execID)
		return nil
	}

	// STEP 2: fetch and normalize; any bad row fails the whole batch
	s.metrics.IngestionRunsTotal.Inc()
	rates, err := s.Ingest(ctx, r)
	if err != nil {
		return err
	}
	if len(rates) == 0 {
		logrus.Infof("No exchange rates published for %s; execID: %s", describeRange(r), execID)
		return nil
	}

	// STEP 3: all-or-nothing persist
	if !s.SaveRates(ctx, rates) {
		return errors.New("failed to save exchange rates")
	}

	s.metrics.RatesIngestedTotal.Add(float64(len(rates)))
	logrus.Infof("%d exchange rates saved for %s; execID: %s", len(rates), describeRange(r), execID)
	return nil
}

// TodayRange is the default load window: the current day, start to end.
func TodayRange(now time.Time) domain.DateRange {
	y, m, d := now.Date()
	start := time.Date(y, m, d, 0, 0, 0, 0, now.Location())
	return domain.DateRange{Start: start, End: endOfDay(start)}
}

func describeRange(r domain.DateRange) string {
	if !r.Bounded() {
		return r.Start.Format(inputDateLayout)
	}
	return r.Start.Format(inputDateLayout) + ".." + r.End.Format(inputDateLayout)
}
