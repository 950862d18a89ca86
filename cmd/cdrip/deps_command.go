package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"cdrip/internal/deps"
)

type depsReport struct {
	Dependencies []dependencyStatus `json:"dependencies"`
	Ready        bool               `json:"ready"`
}

type dependencyStatus struct {
	Name        string `json:"name"`
	Command     string `json:"command"`
	Description string `json:"description"`
	Optional    bool   `json:"optional"`
	Available   bool   `json:"available"`
	Detail      string `json:"detail,omitempty"`
}

func newDepsCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:         "deps",
		Short:       "Check the external tools cdrip drives",
		Annotations: map[string]string{"skipConfigLoad": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			results := deps.CheckBinaries(deps.ScannerRequirements())
			report := depsReport{Ready: true}
			for _, status := range results {
				if !status.Available && !status.Optional {
					report.Ready = false
				}
				report.Dependencies = append(report.Dependencies, dependencyStatus(status))
			}

			if err := ctx.emit(cmd, report, func() error {
				out := cmd.OutOrStdout()
				colorize := shouldColorize(out)
				printLines(out, renderSectionHeader("Dependencies", colorize)...)
				for _, dep := range report.Dependencies {
					printLines(out, renderStatusLine(dep.Name, dependencyKind(dep), dependencyMessage(dep), colorize))
				}
				return nil
			}); err != nil {
				return err
			}
			if !report.Ready {
				return fmt.Errorf("required dependencies are missing")
			}
			return nil
		},
	}
}

func dependencyKind(dep dependencyStatus) statusKind {
	switch {
	case dep.Available:
		return statusOK
	case dep.Optional:
		return statusWarn
	default:
		return statusError
	}
}

func dependencyMessage(dep dependencyStatus) string {
	switch {
	case dep.Available:
		return fmt.Sprintf("%s (%s)", dep.Description, dep.Command)
	case dep.Optional:
		return fmt.Sprintf("optional, %s: %s", dep.Detail, dep.Description)
	default:
		return fmt.Sprintf("%s: %s", dep.Detail, dep.Description)
	}
}
