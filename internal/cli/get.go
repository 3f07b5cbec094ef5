package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/ytget/yt-queue/internal/platform"
)

var urlListFile string

var getCmd = &cobra.Command{
	Use:   "get [url...]",
	Short: "Download URLs without the GUI",
	Args:  cobra.ArbitraryArgs,
	Run: func(cmd *cobra.Command, args []string) {
		if len(args) == 0 && urlListFile == "" {
			PrintError("No URL or URL list provided")
			os.Exit(1)
		}
		jobs, err := collectJobs(args, urlListFile)
		if err != nil {
			PrintError(err.Error())
			os.Exit(1)
		}

		eng, err := newProcessEngine(firstNonEmpty(engineFlag, env.EngineCommand))
		if err != nil {
			PrintError(err.Error())
			os.Exit(1)
		}
		eng.SetResolveTimeout(env.ResolveTimeout)

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		fmt.Println(FHeader(fmt.Sprintf("Downloading %d item(s) to %s", len(jobs), outputFolder())))
		report, err := NewRunner(eng, platform.NewPlaylistParser(), outputFolder(), os.Stdout).Run(ctx, jobs)
		fmt.Println()
		fmt.Println(summaryTable(report.Rows()))

		if errors.Is(err, context.Canceled) {
			PrintError("Interrupted")
			os.Exit(1)
		}
		if failed := report.Failed(); failed > 0 {
			PrintError(fmt.Sprintf("%d download(s) failed", failed))
			os.Exit(1)
		}
		PrintSuccess("All downloads completed")
	},
}

// collectJobs merges command line URLs or the list file with the option flags
func collectJobs(args []string, listFile string) ([]Job, error) {
	if listFile != "" && len(args) > 0 {
		return nil, errors.New("cannot specify url arguments and --list together, choose one")
	}
	base := flagOptions()

	if listFile == "" {
		jobs := make([]Job, 0, len(args))
		for _, url := range args {
			jobs = append(jobs, Job{URL: url, Options: base})
		}
		return jobs, nil
	}

	entries, err := ReadDownloadList(listFile)
	if err != nil {
		return nil, err
	}
	jobs := make([]Job, 0, len(entries))
	for _, entry := range entries {
		jobs = append(jobs, Job{URL: entry.Link, Options: entry.Options(base).WithDefaults()})
	}
	return jobs, nil
}

func init() {
	getCmd.Flags().StringVarP(&urlListFile, "list", "l", "", "Path to YAML file with links and per-link options")
	addOptionFlags(getCmd)
}
