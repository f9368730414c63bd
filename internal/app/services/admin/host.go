package admin

import (
	"context"

	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/host"
	"github.com/shirou/gopsutil/v3/mem"

	domain "github.com/flowmatic-labs/platform/internal/app/domain/admin"
)

// SampleHostStats reads live CPU, memory and uptime figures from the host.
func SampleHostStats(ctx context.Context) (domain.HostSnapshot, error) {
	var snap domain.HostSnapshot

	percents, err := cpu.PercentWithContext(ctx, 0, false)
	if err != nil {
		return domain.HostSnapshot{}, err
	}
	if len(percents) > 0 {
		snap.CPUPercent = percents[0]
	}

	vm, err := mem.VirtualMemoryWithContext(ctx)
	if err != nil {
		return domain.HostSnapshot{}, err
	}
	snap.MemoryPercent = vm.UsedPercent

	uptime, err := host.UptimeWithContext(ctx)
	if err != nil {
		return domain.HostSnapshot{}, err
	}
	snap.UptimeSeconds = uptime

	return snap, nil
}
