package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/cdaprod/nodeprop/internal/config"
	"github.com/cdaprod/nodeprop/internal/github"
	"github.com/cdaprod/nodeprop/internal/nodeprop"
	"github.com/cdaprod/nodeprop/internal/trigger"
)

type cliError struct {
	code int
	err  error
}

func (e cliError) Error() string { return e.err.Error() }

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil)).With("run_id", uuid.NewString())
	root := newRootCommand(logger)
	if err := root.Execute(); err != nil {
		var ce cliError
		if errors.As(err, &ce) {
			fmt.Fprintln(os.Stderr, ce.err)
			os.Exit(ce.code)
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCommand(logger *slog.Logger) *cobra.Command {
	root := &cobra.Command{
		Use:           "nodeprop",
		Short:         "Deterministic repository configuration descriptors",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newGenerateCommand(logger))
	root.AddCommand(newVerifyCommand())
	root.AddCommand(newTriggerCommand())
	return root
}

func newGenerateCommand(logger *slog.Logger) *cobra.Command {
	var configFile, storagePath, repoRoot, specFile string
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate and persist the configuration descriptor",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := config.Load()
			if configFile != "" {
				cfg.ConfigFile = configFile
			}
			if storagePath != "" {
				cfg.StoragePath = storagePath
			}
			if repoRoot != "" {
				cfg.RepoRoot = repoRoot
			}
			if specFile != "" {
				cfg.SpecFile = specFile
			}

			fetcher := github.NewClient(cfg.APIBaseURL, cfg.Token, logger)
			svc := nodeprop.NewService(cfg, fetcher, logger)
			outcome, err := svc.Generate(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Println(outcome.Document.ID)
			return nil
		},
	}
	cmd.Flags().StringVar(&configFile, "config-file", "", "destination for the emitted document")
	cmd.Flags().StringVar(&storagePath, "storage", "", "root of the content-addressed store")
	cmd.Flags().StringVar(&repoRoot, "root", "", "directory scanned for capability markers")
	cmd.Flags().StringVar(&specFile, "spec-file", "", "optional spec YAML merged into the document")
	return cmd
}

func newVerifyCommand() *cobra.Command {
	var docPath, schemaPath string
	cmd := &cobra.Command{
		Use:   "verify",
		Short: "Recompute and check an emitted document's identifier",
		RunE: func(_ *cobra.Command, _ []string) error {
			result, err := nodeprop.Verify(docPath, schemaPath)
			if err != nil {
				return err
			}
			if !result.Match {
				return cliError{
					code: nodeprop.ExitHashMismatch,
					err:  fmt.Errorf("identifier mismatch: document says %s, recomputed %s", result.ID, result.Recomputed),
				}
			}
			if len(result.SchemaErrors) > 0 {
				for _, e := range result.SchemaErrors {
					fmt.Fprintln(os.Stderr, e)
				}
				return cliError{code: nodeprop.ExitSchemaFail, err: fmt.Errorf("document failed schema validation")}
			}
			fmt.Printf("%s verified\n", result.ID)
			return nil
		},
	}
	cmd.Flags().StringVar(&docPath, "in", ".nodeprop.yml", "document to verify")
	cmd.Flags().StringVar(&schemaPath, "schema", "schemas/nodeprop.schema.json", "JSON schema path, empty to skip")
	return cmd
}

func newTriggerCommand() *cobra.Command {
	triggerCmd := &cobra.Command{Use: "trigger", Short: "Dispatch GitHub workflows and events"}

	var repo, ref, workflowFile, eventType string
	var params []string

	workflowCmd := &cobra.Command{
		Use:   "workflow",
		Short: "Dispatch a workflow file on a ref",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := config.Load()
			if repo == "" {
				repo = cfg.Repository
			}
			if workflowFile == "" {
				return fmt.Errorf("--workflow is required")
			}
			d := trigger.NewDispatcher(cfg.APIBaseURL, cfg.Token)
			return d.Workflow(cmd.Context(), repo, workflowFile, ref, parseParams(params))
		},
	}
	workflowCmd.Flags().StringVar(&repo, "repo", "", "owner/name, defaults to GITHUB_REPOSITORY")
	workflowCmd.Flags().StringVar(&workflowFile, "workflow", "", "workflow file name")
	workflowCmd.Flags().StringVar(&ref, "ref", "main", "git ref to run on")
	workflowCmd.Flags().StringArrayVar(&params, "param", nil, "workflow input as key=value")

	eventCmd := &cobra.Command{
		Use:   "event",
		Short: "Fire a repository_dispatch event",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := config.Load()
			if repo == "" {
				repo = cfg.Repository
			}
			if eventType == "" {
				return fmt.Errorf("--type is required")
			}
			d := trigger.NewDispatcher(cfg.APIBaseURL, cfg.Token)
			return d.Repository(cmd.Context(), repo, eventType, parseParams(params))
		},
	}
	eventCmd.Flags().StringVar(&repo, "repo", "", "owner/name, defaults to GITHUB_REPOSITORY")
	eventCmd.Flags().StringVar(&eventType, "type", "", "event type")
	eventCmd.Flags().StringArrayVar(&params, "param", nil, "payload entry as key=value")

	triggerCmd.AddCommand(workflowCmd)
	triggerCmd.AddCommand(eventCmd)
	return triggerCmd
}

func parseParams(pairs []string) map[string]string {
	out := make(map[string]string, len(pairs))
	for _, p := range pairs {
		k, v, ok := strings.Cut(p, "=")
		if !ok || k == "" {
			continue
		}
		out[k] = v
	}
	return out
}
