package commands

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/friendsofgo/errors"
	"github.com/schollz/progressbar/v3"
	"github.com/schoolyear/vm-maintenance-cli/lib"
	"github.com/schoolyear/vm-maintenance-cli/lib/lib_github"
	"github.com/schoolyear/vm-maintenance-cli/static"
	"github.com/urfave/cli/v2"
	"golang.org/x/mod/semver"
)

var UpdateCommand = &cli.Command{
	Name:  "update",
	Usage: "update your local vm-maintenance binary",
	Flags: []cli.Flag{
		&cli.BoolFlag{
			Name:    "yes",
			Usage:   "Automatic yes to prompts; assume \"yes\" as answer to all prompts and run non-interactively.",
			Aliases: []string{"y"},
		},
		&cli.BoolFlag{
			Name:  "downgrade",
			Usage: "Force update to a lower version",
		},
	},
	Action: func(c *cli.Context) error {
		yesFlag := c.Bool("yes")
		downgradeFlag := c.Bool("downgrade")

		execPath, err := os.Executable()
		if err != nil {
			return errors.Wrap(err, "could not get the path of the current executable")
		}

		fmt.Println("Checking latest version...")
		latestVersion, latestDownloadURL, err := lib_github.FetchLatestVersion(c.Context)
		if err != nil {
			return errors.Wrap(err, "failed to fetch latest version")
		}

		fmt.Printf("Current: \t%s\nLatest: \t%s\n", static.Version, latestVersion)
		if latestVersion == static.Version {
			color.Green("You are on the latest version already!")
			return nil
		}

		if isDowngrade(static.Version, latestVersion) {
			if !downgradeFlag {
				return errors.New("The latest public version is older than your current version. Use -downgrade to install the latest public version anyway")
			}
			color.Yellow("Note: this is a downgrade")
		}

		tmpFile := execPath + ".tmp"
		fmt.Printf("Download from:\t%s\n", latestDownloadURL)
		fmt.Printf("Download to:\t%s\n", tmpFile)
		fmt.Printf("Install to:\t%s\n", execPath)

		if !yesFlag {
			if !lib.PromptYesNo("Do you want to download & install the update") {
				fmt.Println(`update canceled. You must enter "yes" or "y" to confirm.`)
				return nil
			}
		}

		if err := installUpdate(c.Context, latestDownloadURL, execPath, tmpFile); err != nil {
			return errors.Wrap(err, "failed to perform update")
		}
		color.Green("Update complete!")

		return nil
	},
}

// isDowngrade reports whether latest is older than current.
// Development builds without a valid version never count as a downgrade.
func isDowngrade(current, latest string) bool {
	return semver.IsValid(current) && semver.IsValid(latest) && semver.Compare(current, latest) == 1
}

func installUpdate(ctx context.Context, downloadUrl, targetPath, tmpFilePath string) error {
	originalFileInfo, err := os.Stat(targetPath)
	if err != nil {
		return errors.Wrap(err, "failed to get the file permissions of the current executable")
	}

	tmpFile, err := os.OpenFile(tmpFilePath, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, originalFileInfo.Mode().Perm())
	if err != nil {
		return errors.Wrapf(err, "failed to create temp file in %s", tmpFilePath)
	}
	defer func() {
		tmpFile.Close()
		os.Remove(tmpFilePath)
	}()

	err = lib_github.DownloadRelease(ctx, downloadUrl, tmpFile, func(size int64) io.Writer {
		return progressbar.DefaultBytes(size, "Downloading")
	})
	if err != nil {
		return err
	}

	if err := tmpFile.Close(); err != nil {
		return errors.Wrap(err, "failed to write update to disk")
	}

	if err := os.Rename(tmpFilePath, targetPath); err != nil {
		return errors.Wrap(err, "failed to replace current version with newly downloaded version")
	}

	return nil
}
