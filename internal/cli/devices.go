package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/procgen/internal/device"
)

// DevicesOptions holds flags for the devices command.
type DevicesOptions struct {
	*RootOptions
	Catalog string
	CPU     bool
}

// NewDevicesCommand creates the devices command.
func NewDevicesCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &DevicesOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "devices",
		Short: "Select render devices",
		Long: `Select the compute backend and devices a render would use.

Devices are read from a YAML catalog. The most preferred backend type present
wins (OPTIX, CUDA, METAL, HIP, ONEAPI, then CPU) and every device of that type
is enabled.

Example:
  procgen devices --catalog devices.yaml
  procgen devices --cpu`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDevices(opts, cmd)
		},
	}

	addDeviceFlags(cmd, &opts.Catalog, &opts.CPU)

	return cmd
}

func addDeviceFlags(cmd *cobra.Command, catalog *string, cpu *bool) {
	cmd.Flags().StringVar(catalog, "catalog", envOr(EnvDeviceCatalog, ""), "YAML device catalog")
	cmd.Flags().BoolVar(cpu, "cpu", false, "render on CPU only")
}

func runDevices(opts *DevicesOptions, cmd *cobra.Command) error {
	formatter := opts.formatter(cmd)
	logger := opts.Logger(cmd.ErrOrStderr())

	useGPU := !opts.CPU
	backend, err := loadBackend(opts.Catalog, useGPU)
	if err != nil {
		return formatter.Fail("device selection failed", err)
	}
	sel, err := selectDevices(cmd.Context(), logger, backend, useGPU)
	if err != nil {
		return formatter.Fail("device selection failed", err)
	}
	return formatter.Success(selectionOutput{sel})
}

// loadBackend loads the device catalog. A CPU-only run needs none.
func loadBackend(path string, useGPU bool) (device.Backend, error) {
	if !useGPU {
		return nil, nil
	}
	if path == "" {
		return nil, &usageError{
			code:    ErrCodeUsage,
			message: fmt.Sprintf("no device catalog: pass --catalog or set %s", EnvDeviceCatalog),
		}
	}
	catalog, err := device.LoadCatalog(path)
	if err != nil {
		return nil, &usageError{code: ErrCodeCatalog, message: err.Error()}
	}
	return catalog, nil
}

// selectionOutput is the reported form of a device selection.
type selectionOutput struct {
	*device.Selection
}

func (o selectionOutput) Text() string {
	var b strings.Builder
	fmt.Fprintf(&b, "mode: %s\n", o.Mode)
	if o.Kind != "" {
		fmt.Fprintf(&b, "type: %s\n", o.Kind)
	}
	if len(o.Available) > 0 {
		kinds := make([]string, len(o.Available))
		for i, k := range o.Available {
			kinds[i] = string(k)
		}
		fmt.Fprintf(&b, "available: %s\n", strings.Join(kinds, ", "))
	}
	if len(o.Enabled) > 0 {
		b.WriteString("enabled:\n")
		for _, d := range o.Enabled {
			fmt.Fprintf(&b, "  %s [%s]\n", d.Name, d.ID)
		}
	}
	return b.String()
}

func deviceNames(devices []*device.Device) []string {
	names := make([]string, len(devices))
	for i, d := range devices {
		names[i] = d.Name
	}
	return names
}
