package seeder

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/okian/eventreg/pkg/logger"
)

const gaugeName = "participants_total"

// verifyList checks that the list is ordered newest first and contains
// every participant this run created.
func verifyList(ctx context.Context, cfg *Config, created []Participant, stats *Stats) error {
	body, err := newHTTPClient(cfg.Timeout).getBody(ctx, cfg.BaseURL+"/api/participants")
	if err != nil {
		return err
	}

	var list []Participant
	if err := json.Unmarshal(body, &list); err != nil {
		return fmt.Errorf("decode participant list: %w", err)
	}
	stats.Listed = len(list)

	if err := checkOrdering(list); err != nil {
		return err
	}

	seen := make(map[string]struct{}, len(list))
	for _, p := range list {
		seen[p.ID] = struct{}{}
	}
	for _, p := range created {
		if _, ok := seen[p.ID]; !ok {
			return fmt.Errorf("%w: %s", ErrMissing, p.ID)
		}
	}

	logger.Get().Named("seeder").Info(ctx, "participant list verified", logger.Int("listed", len(list)))
	return nil
}

// checkOrdering reports the first adjacent pair that is out of order.
func checkOrdering(list []Participant) error {
	for i := 1; i < len(list); i++ {
		if list[i].RegistrationDate.After(list[i-1].RegistrationDate) {
			return fmt.Errorf("%w: %s (%s) listed after %s (%s)", ErrOrdering,
				list[i].ID, list[i].RegistrationDate, list[i-1].ID, list[i-1].RegistrationDate)
		}
	}
	return nil
}

// verifyGauge scrapes /metrics and checks participants_total covers at least
// the participants this run created.
func verifyGauge(ctx context.Context, cfg *Config, created int, stats *Stats) error {
	body, err := newHTTPClient(cfg.Timeout).getBody(ctx, cfg.BaseURL+"/metrics")
	if err != nil {
		return err
	}

	value, err := parseGauge(body, gaugeName)
	if err != nil {
		return err
	}
	stats.GaugeReported = value

	if value < float64(created) {
		return fmt.Errorf("%w: %v < %d", ErrGaugeTooLow, value, created)
	}

	logger.Get().Named("seeder").Info(ctx, "participant gauge verified", logger.Float64(gaugeName, value))
	return nil
}

// parseGauge finds an unlabelled sample in a text exposition.
func parseGauge(exposition []byte, name string) (float64, error) {
	sc := bufio.NewScanner(bytes.NewReader(exposition))
	for sc.Scan() {
		line := sc.Text()
		if rest, ok := strings.CutPrefix(line, name+" "); ok {
			v, err := strconv.ParseFloat(strings.TrimSpace(rest), 64)
			if err != nil {
				return 0, fmt.Errorf("parse %s: %w", name, err)
			}
			return v, nil
		}
	}
	if err := sc.Err(); err != nil {
		return 0, fmt.Errorf("scan metrics: %w", err)
	}
	return 0, ErrGaugeMissing
}
