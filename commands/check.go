package commands

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/fatih/color"
	"github.com/friendsofgo/errors"
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/joho/godotenv"
	"github.com/schoolyear/vm-maintenance-cli/azure"
	"github.com/schoolyear/vm-maintenance-cli/cloud"
	"github.com/schoolyear/vm-maintenance-cli/inventory"
	"github.com/urfave/cli/v2"
)

const defaultReportBlobName = "vm-maintenance-report.json"

var CheckCommand = &cli.Command{
	Name:  "check",
	Usage: "Check the maintenance redeploy status of every VM in the inventory",
	Flags: []cli.Flag{
		&cli.PathFlag{
			Name:      "inventory",
			Usage:     "Path to the inventory file listing the subscriptions per cloud provider (.yml, .yaml, .json or .json5)",
			Value:     inventory.DefaultPath,
			Aliases:   []string{"i"},
			EnvVars:   []string{"VMM_INVENTORY"},
			TakesFile: true,
		},
		&cli.StringFlag{
			Name:    "provider",
			Usage:   "Cloud provider section of the inventory to process",
			Value:   string(cloud.ProviderAzure),
			Aliases: []string{"p"},
			EnvVars: []string{"VMM_PROVIDER"},
		},
		&cli.StringFlag{
			Name:    "azure-tenant-id",
			Usage:   "Overwrite the default Azure Tenant ID",
			Aliases: []string{"atd"},
			EnvVars: []string{"AZURE_TENANT_ID"},
		},
		&cli.StringFlag{
			Name:   "azure-cli",
			Usage:  "Azure CLI executable",
			Value:  azure.DefaultCLICommand,
			Hidden: true,
		},
		&cli.DurationFlag{
			Name:  "cli-timeout",
			Usage: "Maximum time a single Azure CLI call may take. 0 disables the timeout. Valid time units are \"ns\", \"us\" (or \"µs\"), \"ms\", \"s\", \"m\", \"h\"",
			Value: azure.DefaultCLITimeout,
		},
		&cli.StringSliceFlag{
			Name:      "env",
			Usage:     "Paths to .env files to load before looking for Azure credentials (e.g. AZURE_CLIENT_ID)",
			Aliases:   []string{"e"},
			TakesFile: true,
		},
		&cli.PathFlag{
			Name:      "report",
			Usage:     "Path to which a JSON report of the results is written",
			Aliases:   []string{"r"},
			TakesFile: true,
		},
		&cli.StringFlag{
			Name:  "report-blob-uri",
			Usage: "Upload the JSON report to Azure Blob Storage. E.g. \"https://<storageaccount>.blob.core.windows.net/<containername>[/<path>]\"",
		},
		&cli.BoolFlag{
			Name:  "no-color",
			Usage: "Disable colored output",
		},
	},
	Action: func(c *cli.Context) error {
		if c.Bool("no-color") {
			color.NoColor = true
		}

		cfg := checkConfig{
			InventoryPath: c.Path("inventory"),
			Provider:      c.String("provider"),
			TenantID:      c.String("azure-tenant-id"),
			AzureCLI:      c.String("azure-cli"),
			CLITimeout:    c.Duration("cli-timeout"),
			EnvFiles:      c.StringSlice("env"),
			ReportPath:    c.Path("report"),
			ReportBlobURI: c.String("report-blob-uri"),
		}

		if err := validation.Validate(cfg); err != nil {
			return errors.Wrap(err, "invalid flags")
		}

		if len(cfg.EnvFiles) > 0 {
			if err := godotenv.Load(cfg.EnvFiles...); err != nil {
				return errors.Wrap(err, "failed to read env files")
			}
		}

		runCheck(c.Context, cfg, os.Stdout, newBackend)
		return nil
	},
}

type checkConfig struct {
	InventoryPath string
	Provider      string
	TenantID      string
	AzureCLI      string
	CLITimeout    time.Duration
	EnvFiles      []string
	ReportPath    string
	ReportBlobURI string
}

func (c checkConfig) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.InventoryPath, validation.Required),
		validation.Field(&c.Provider, validation.Required),
		validation.Field(&c.AzureCLI, validation.Required),
		validation.Field(&c.CLITimeout, validation.Min(time.Duration(0))),
	)
}

// reportUploader uploads the JSON report to the provider's storage
type reportUploader func(ctx context.Context, uri string, data []byte) error

type backendFactory func(ctx context.Context, provider cloud.Provider, cfg checkConfig, out io.Writer) (cloud.Backend, reportUploader)

// newBackend maps every supported provider to its implementation
func newBackend(ctx context.Context, provider cloud.Provider, cfg checkConfig, out io.Writer) (cloud.Backend, reportUploader) {
	switch provider {
	case cloud.ProviderAzure:
		return newAzureBackend(ctx, cfg, out)
	default:
		panic("programming error: no backend for provider " + provider)
	}
}

func newAzureBackend(ctx context.Context, cfg checkConfig, out io.Writer) (cloud.Backend, reportUploader) {
	warn := color.New(color.FgYellow)

	var subscriptionNames map[string]string
	if err := azure.CheckCLI(cfg.AzureCLI); err != nil {
		warn.Fprintf(out, "Warning: %v\n", err)
		warn.Fprintln(out, "Maintenance details cannot be retrieved without the Azure CLI")
	} else {
		fmt.Fprintf(out, "Checking if you are logged in to the Azure CLI...")
		names, err := azure.SubscriptionNames(ctx, cfg.AzureCLI)
		if err != nil {
			warn.Fprintf(out, "[WARNING]: %v\n", err)
		} else {
			color.New(color.FgGreen).Fprintln(out, "[DONE]")
			subscriptionNames = names
		}
	}

	credential := azure.NewDefaultCredential(cfg.TenantID)

	backend := cloud.Backend{
		Lister: azure.NewComputeLister(credential, &azure.ComputeListerOptions{
			Progress: os.Stderr,
		}),
		Fetcher: &azure.CLIFetcher{
			Command: cfg.AzureCLI,
			Timeout: cfg.CLITimeout,
		},
		SubscriptionNames: subscriptionNames,
	}

	upload := func(ctx context.Context, uri string, data []byte) error {
		blob, err := azure.ParseBlobURI(uri, defaultReportBlobName)
		if err != nil {
			return errors.Wrap(err, "failed to parse report-blob-uri flag")
		}
		return azure.UploadBlob(ctx, credential, blob, data)
	}

	return backend, upload
}

// loadInventory loads the inventory and checks the section of the provider can be decoded
func loadInventory(path string, provider cloud.Provider) (inventory.Inventory, error) {
	inv, err := inventory.Load(path)
	if err != nil {
		return nil, err
	}
	if _, err := inv.Subscriptions(string(provider)); err != nil {
		return nil, err
	}
	return inv, nil
}

// runCheck never fails: every problem is reported on out and the run continues or ends early
func runCheck(ctx context.Context, cfg checkConfig, out io.Writer, backendFor backendFactory) {
	errorOut := color.New(color.FgRed)

	provider, err := cloud.ParseProvider(cfg.Provider)
	if err != nil {
		errorOut.Fprintf(out, "Invalid cloud provider %q. Choose from: %s\n", cfg.Provider, cloud.SupportedProviderNames())
		return
	}

	inv, err := loadInventory(cfg.InventoryPath, provider)
	switch {
	case errors.Is(err, inventory.ErrEmptyInventory):
		// the file was read, it just lists nothing
		fmt.Fprintln(out, "Inventory Loaded Successfully!")
		fmt.Fprintln(out, "Failed to load inventory. Exiting.")
		return
	case err != nil:
		errorOut.Fprintf(out, "Error reading inventory file: %v\n", err)
		fmt.Fprintln(out, "Failed to load inventory. Exiting.")
		return
	}
	fmt.Fprintln(out, "Inventory Loaded Successfully!")

	backend, upload := backendFor(ctx, provider, cfg, out)

	client, err := cloud.Select(provider, inv, backend, cloud.WithOutput(out))
	if err != nil {
		errorOut.Fprintf(out, "Error: %v\n", err)
		return
	}

	report := client.ProcessAll(ctx)

	fmt.Fprintln(out)
	fmt.Fprintf(out, "Checked %d VM(s) in %d subscription(s): ", report.VMCount(), len(report.Subscriptions))
	if marked := len(report.MarkedForMaintenance()); marked > 0 {
		color.New(color.FgYellow).Fprintf(out, "%d marked for maintenance\n", marked)
	} else {
		color.New(color.FgGreen).Fprintln(out, "none marked for maintenance")
	}

	if cfg.ReportPath == "" && cfg.ReportBlobURI == "" {
		return
	}

	data, err := report.MarshalIndent()
	if err != nil {
		errorOut.Fprintf(out, "Error: failed to serialize report: %v\n", err)
		return
	}

	if cfg.ReportPath != "" {
		fmt.Fprintf(out, "Writing report to %s...", cfg.ReportPath)
		if err := os.WriteFile(cfg.ReportPath, data, 0644); err != nil {
			errorOut.Fprintf(out, "[ERROR]: %v\n", err)
		} else {
			color.New(color.FgGreen).Fprintln(out, "[DONE]")
		}
	}

	if cfg.ReportBlobURI != "" {
		fmt.Fprintf(out, "Uploading report to %s...", cfg.ReportBlobURI)
		if upload == nil {
			errorOut.Fprintf(out, "[ERROR]: report upload is not supported for %s\n", provider)
		} else if err := upload(ctx, cfg.ReportBlobURI, data); err != nil {
			errorOut.Fprintf(out, "[ERROR]: %v\n", err)
		} else {
			color.New(color.FgGreen).Fprintln(out, "[DONE]")
		}
	}
}
