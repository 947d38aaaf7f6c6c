package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"patternforge/internal/sandbox"
)

var sandboxMounts []string

// sandboxCmd manages the isolated Docker container for AI tools.
var sandboxCmd = &cobra.Command{
	Use:   "sandbox",
	Short: "Manage the AI tool sandbox container",
	Long: `Runs AI tools inside a Docker container with no network access and no
credential mounts. The workspace is the only host path the tool sees.

  forge sandbox init       write the compose file and Dockerfile templates
  forge sandbox build      build the sandbox image
  forge sandbox start      launch the container (network disabled)
  forge sandbox shell      open a shell inside the container
  forge sandbox validate   verify isolation is intact
  forge sandbox stop       stop the container`,
}

var sandboxInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write the sandbox compose file and Dockerfile",
	RunE: func(cmd *cobra.Command, args []string) error {
		created, err := sandbox.Init(workspace, cfg.Sandbox)
		if err != nil {
			return err
		}
		if len(created) == 0 {
			fmt.Println("sandbox files already present")
			return nil
		}
		for _, name := range created {
			fmt.Printf("wrote %s\n", name)
		}
		return nil
	},
}

var sandboxBuildCmd = &cobra.Command{
	Use:   "build",
	Short: "Build the sandbox image",
	RunE: func(cmd *cobra.Command, args []string) error {
		return newSandbox().Build(cmd.Context())
	},
}

var sandboxStartCmd = &cobra.Command{
	Use:   "start",
	Short: "Start the sandbox container",
	RunE: func(cmd *cobra.Command, args []string) error {
		var extra []sandbox.Mount
		for _, raw := range sandboxMounts {
			m, err := sandbox.ParseMount(raw)
			if err != nil {
				return err
			}
			extra = append(extra, m)
		}

		id, err := newSandbox().Start(cmd.Context(), extra)
		if err != nil {
			return err
		}
		fmt.Printf("sandbox started: %s\n", id[:min(12, len(id))])
		return nil
	},
}

var sandboxStopCmd = &cobra.Command{
	Use:   "stop",
	Short: "Stop the sandbox container",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := newSandbox().Stop(cmd.Context()); err != nil {
			return err
		}
		fmt.Println("sandbox stopped")
		return nil
	},
}

var sandboxShellCmd = &cobra.Command{
	Use:   "shell [command...]",
	Short: "Open a shell (or run a command) in the sandbox",
	RunE: func(cmd *cobra.Command, args []string) error {
		return newSandbox().Shell(cmd.Context(), args)
	},
}

var sandboxValidateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Verify the sandbox is isolated",
	RunE: func(cmd *cobra.Command, args []string) error {
		health := newSandbox().Validate(cmd.Context())
		fmt.Print(health.Render())
		if !health.Healthy() {
			return fmt.Errorf("sandbox validation failed")
		}
		return nil
	},
}

func init() {
	sandboxStartCmd.Flags().StringSliceVar(&sandboxMounts, "mount", nil,
		"Extra bind mounts (source:target[:ro]); credential paths are refused")

	sandboxCmd.AddCommand(sandboxInitCmd)
	sandboxCmd.AddCommand(sandboxBuildCmd)
	sandboxCmd.AddCommand(sandboxStartCmd)
	sandboxCmd.AddCommand(sandboxStopCmd)
	sandboxCmd.AddCommand(sandboxShellCmd)
	sandboxCmd.AddCommand(sandboxValidateCmd)
}

func newSandbox() *sandbox.Manager {
	return sandbox.NewManager(workspace, cfg.Sandbox)
}
