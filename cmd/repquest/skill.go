// ABOUTME: install-skill command: teaches Claude Code to drive repquest.
// ABOUTME: The skill is embedded in the binary and written to ~/.claude/skills/repquest/.
package main

import (
	"bufio"
	"bytes"
	"embed"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

//go:embed skill/SKILL.md
var skillFS embed.FS

const skillFile = "skill/SKILL.md"

var (
	skillSkipConfirm bool
	skillPrint       bool
)

var installSkillCmd = &cobra.Command{
	Use:   "install-skill",
	Short: "Install Claude Code skill",
	Long: `Install the repquest skill for Claude Code.

The skill lets Claude log sets, finish days, and read progress by running
repquest commands. It is written to ~/.claude/skills/repquest/SKILL.md.

  repquest install-skill           ask before writing
  repquest install-skill --yes     write without asking
  repquest install-skill --print   print the skill instead of installing`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if skillPrint {
			content, err := skillFS.ReadFile(skillFile)
			if err != nil {
				return fmt.Errorf("failed to read embedded skill: %w", err)
			}
			_, err = cmd.OutOrStdout().Write(content)
			return err
		}
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("failed to get home directory: %w", err)
		}
		return installSkill(home, os.Stdin, cmd.OutOrStdout())
	},
}

func init() {
	installSkillCmd.Flags().BoolVarP(&skillSkipConfirm, "yes", "y", false, "skip confirmation prompt")
	installSkillCmd.Flags().BoolVar(&skillPrint, "print", false, "print the skill to stdout")
	rootCmd.AddCommand(installSkillCmd)
}

func skillPath(home string) string {
	return filepath.Join(home, ".claude", "skills", "repquest", "SKILL.md")
}

// installSkill writes the embedded skill under home. Unless --yes was given
// it asks on in; EOF counts as no.
func installSkill(home string, in io.Reader, out io.Writer) error {
	content, err := skillFS.ReadFile(skillFile)
	if err != nil {
		return fmt.Errorf("failed to read embedded skill: %w", err)
	}
	path := skillPath(home)

	existing, err := os.ReadFile(path)
	switch {
	case err == nil && bytes.Equal(existing, content):
		fmt.Fprintf(out, "Skill already up to date at %s\n", path)
		return nil
	case err == nil:
		fmt.Fprintf(out, "A different skill file exists at %s and will be replaced.\n", path)
	case !errors.Is(err, os.ErrNotExist):
		return fmt.Errorf("failed to read existing skill: %w", err)
	default:
		fmt.Fprintf(out, "Installing the repquest skill to %s\n", path)
	}

	if !skillSkipConfirm {
		fmt.Fprint(out, "Continue? [y/N] ")
		answer, err := bufio.NewReader(in).ReadString('\n')
		if err != nil && err != io.EOF {
			return fmt.Errorf("failed to read response: %w", err)
		}
		answer = strings.ToLower(strings.TrimSpace(answer))
		if answer != "y" && answer != "yes" {
			fmt.Fprintln(out, "Installation canceled.")
			return nil
		}
	}

	if err := os.MkdirAll(filepath.Dir(path), 0750); err != nil {
		return fmt.Errorf("failed to create skill directory: %w", err)
	}
	if err := os.WriteFile(path, content, 0600); err != nil {
		return fmt.Errorf("failed to write skill file: %w", err)
	}

	color.New(color.FgGreen).Fprintln(out, "✓ Installed repquest skill")
	fmt.Fprintln(out, `Try asking Claude: "Log 135 for 8 on bench" or "How is my squat trending?"`)
	return nil
}
