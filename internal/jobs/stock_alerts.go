// Package jobs holds the background tasks scheduled with cron.
package jobs

import (
	"strconv"

	"compta-pme-api/internal/metrics"
	"compta-pme-api/internal/repository"
	"compta-pme-api/internal/service"
	"compta-pme-api/pkg/logger"

	"github.com/robfig/cron/v3"
)

// StockAlertScanner walks every société and publishes its low-stock products.
type StockAlertScanner struct {
	societeRepo  repository.SocieteRepository
	stockService service.StockService
	log          *logger.Logger
}

func NewStockAlertScanner(societeRepo repository.SocieteRepository, stockService service.StockService, log *logger.Logger) *StockAlertScanner {
	return &StockAlertScanner{
		societeRepo:  societeRepo,
		stockService: stockService,
		log:          log.WithComponent("stock-alerts"),
	}
}

// Scan runs one pass and returns the number of products found under their
// threshold. A failing société is logged and skipped.
func (s *StockAlertScanner) Scan() (int, error) {
	societes, err := s.societeRepo.FindAll()
	if err != nil {
		metrics.AlertScans.WithLabelValues(strconv.FormatBool(false)).Inc()
		return 0, err
	}

	total := 0
	for _, societe := range societes {
		produits, err := s.stockService.NotifierAlertes(societe.ID)
		if err != nil {
			s.log.Warnw("stock alert scan failed", "societe_id", societe.ID, "error", err)
			continue
		}
		if len(produits) > 0 {
			s.log.Infow("produits en alerte", "societe_id", societe.ID, "count", len(produits))
		}
		total += len(produits)
	}

	metrics.AlertScans.WithLabelValues(strconv.FormatBool(true)).Inc()
	return total, nil
}

// Start schedules Scan on the cron expression. The caller stops the returned
// scheduler on shutdown.
func (s *StockAlertScanner) Start(schedule string) (*cron.Cron, error) {
	c := cron.New()
	_, err := c.AddFunc(schedule, func() {
		if _, err := s.Scan(); err != nil {
			s.log.Errorw("stock alert scan aborted", "error", err)
		}
	})
	if err != nil {
		return nil, err
	}

	c.Start()
	s.log.Infow("stock alert scan scheduled", "schedule", schedule)
	return c, nil
}
