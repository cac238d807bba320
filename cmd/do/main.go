package main

import (
	"fmt"
	"io/fs"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/lexdesk/lexdesk/cmd/do/cmd"

	"github.com/spf13/cobra"
)

func main() {
	maybeRebuild()

	rootCmd := &cobra.Command{
		Use:   "do",
		Short: "Development and operator tools for lexdesk",
	}

	rootCmd.AddCommand(cmd.DevCmd())
	rootCmd.AddCommand(cmd.GenCmd())
	rootCmd.AddCommand(cmd.MigrateCmd())
	rootCmd.AddCommand(cmd.SeedCmd())
	rootCmd.AddCommand(cmd.ReconcileCmd())
	rootCmd.AddCommand(cmd.UserCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// maybeRebuild rebuilds and re-execs bin/do when its sources changed. The
// operator commands link the application packages, so internal/ counts too.
func maybeRebuild() {
	exe, err := os.Executable()
	if err != nil || !strings.HasSuffix(exe, "bin/do") {
		return
	}
	info, err := os.Stat(exe)
	if err != nil {
		return
	}
	if !changedSince(info.ModTime(), "cmd/do", "internal") {
		return
	}

	fmt.Println("Rebuilding bin/do...")
	build := exec.Command("go", "build", "-o", exe, "./cmd/do")
	build.Stdout = os.Stdout
	build.Stderr = os.Stderr
	if err := build.Run(); err != nil {
		fmt.Println("Rebuild failed:", err)
		return
	}

	if err := syscall.Exec(exe, os.Args, os.Environ()); err != nil {
		fmt.Println("Re-exec failed:", err)
	}
}

// changedSince reports whether any non-test Go file or embedded SQL/HTML
// under roots is newer than t.
func changedSince(t time.Time, roots ...string) bool {
	changed := false
	for _, root := range roots {
		_ = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil || d.IsDir() || strings.HasSuffix(path, "_test.go") {
				return nil
			}
			switch filepath.Ext(path) {
			case ".go", ".sql", ".html":
			default:
				return nil
			}
			if fi, err := d.Info(); err == nil && fi.ModTime().After(t) {
				changed = true
				return filepath.SkipAll
			}
			return nil
		})
		if changed {
			return true
		}
	}
	return false
}
