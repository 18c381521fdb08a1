// Package integrity runs a scheduled audit of the rank sequences. The
// ordering engine keeps sequences dense by construction; the audit catches
// drift from external writes or partial outages early instead of at the
// next reorder.
package integrity

import (
	"context"
	"log"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/pedl/portfolio-backend/internal/projects/ordering"
)

type Auditor struct {
	order    *ordering.Service
	cronSpec string
}

func NewAuditor(order *ordering.Service, cronSpec string) *Auditor {
	return &Auditor{order: order, cronSpec: cronSpec}
}

// Start schedules the audit and returns the running scheduler.
func (a *Auditor) Start() (*cron.Cron, error) {
	c := cron.New(cron.WithSeconds())

	_, err := c.AddFunc(a.cronSpec, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		a.RunOnce(ctx)
	})
	if err != nil {
		return nil, err
	}

	log.Printf("Integrity audit scheduled (%s)", a.cronSpec)
	c.Start()
	return c, nil
}

// RunOnce checks every app sequence and logs any density violation.
func (a *Auditor) RunOnce(ctx context.Context) {
	violations, err := a.order.CheckDensity(ctx)
	if err != nil {
		log.Printf("Integrity audit failed: %v", err)
		return
	}

	if len(violations) == 0 {
		log.Println("Integrity audit passed: all rank sequences dense")
		return
	}

	for _, v := range violations {
		log.Printf("Integrity violation in app %q: %s", v.App, v.Detail)
	}
}
