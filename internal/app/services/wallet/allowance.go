package wallet

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/flowmatic-labs/platform/pkg/logger"
)

// allowanceSpec fires at midnight UTC on the first of every month.
const allowanceSpec = "0 0 1 * *"

// AllowanceScheduler grants monthly allowances on a cron schedule. It
// implements the system service lifecycle.
type AllowanceScheduler struct {
	svc  *Service
	log  *logger.Logger
	cron *cron.Cron
	spec string
}

// NewAllowanceScheduler creates a scheduler with the default monthly spec.
func NewAllowanceScheduler(svc *Service, log *logger.Logger) *AllowanceScheduler {
	if log == nil {
		log = logger.NewDefault("wallet-allowance")
	}
	return &AllowanceScheduler{
		svc:  svc,
		log:  log,
		spec: allowanceSpec,
	}
}

// WithSpec overrides the cron spec. Call before Start.
func (a *AllowanceScheduler) WithSpec(spec string) *AllowanceScheduler {
	a.spec = spec
	return a
}

func (a *AllowanceScheduler) Name() string { return "wallet-allowance" }

// Start begins the cron loop. A catch-up run happens immediately so wallets
// that missed a grant while the process was down are topped up on boot.
func (a *AllowanceScheduler) Start(ctx context.Context) error {
	a.cron = cron.New(cron.WithLocation(time.UTC))
	if _, err := a.cron.AddFunc(a.spec, a.run); err != nil {
		return err
	}
	a.cron.Start()
	go a.run()
	return nil
}

// Stop halts the cron loop and waits for an in-flight run to finish, up to
// the context deadline.
func (a *AllowanceScheduler) Stop(ctx context.Context) error {
	if a.cron == nil {
		return nil
	}
	done := a.cron.Stop()
	select {
	case <-done.Done():
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (a *AllowanceScheduler) run() {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	granted, err := a.svc.GrantDueAllowances(ctx, time.Now().UTC())
	if err != nil {
		a.log.WithError(err).Warn("allowance sweep failed")
		return
	}
	if granted > 0 {
		a.log.WithField("granted", granted).Info("allowance sweep complete")
	}
}
