package cmd

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/spf13/cobra"
)

const (
	cssInput  = "assets/css/input.css"
	cssOutput = "assets/css/output.css"
)

type generator struct {
	name   string
	bin    string
	args   []string
	skipFn func() bool
}

func GenCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "gen",
		Short: "Run code generators (templ, tailwind) in parallel",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGen(force)
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "regenerate even when outputs are up to date")
	return cmd
}

func runGen(force bool) error {
	if _, err := exec.LookPath("tailwindcss"); err != nil {
		fmt.Println("Missing binary: tailwindcss")
		fmt.Println("Install the standalone CLI: https://tailwindcss.com/blog/standalone-cli")
		return fmt.Errorf("tailwindcss not found")
	}

	// templ is pinned by the tool directive in go.mod
	generators := []generator{
		{
			name:   "templ",
			bin:    "go",
			args:   []string{"tool", "templ", "generate"},
			skipFn: skipTempl,
		},
		{
			name:   "tailwindcss",
			bin:    "tailwindcss",
			args:   []string{"-i", cssInput, "-o", cssOutput, "--minify"},
			skipFn: skipTailwind,
		},
	}

	start := time.Now()
	var wg sync.WaitGroup
	errCh := make(chan error, len(generators))

	for _, g := range generators {
		wg.Add(1)
		go func(g generator) {
			defer wg.Done()

			if !force && g.skipFn() {
				fmt.Printf("[%s] skipped\n", g.name)
				return
			}

			genStart := time.Now()
			cmd := exec.Command(g.bin, g.args...)
			cmd.Stdout = os.Stdout
			cmd.Stderr = os.Stderr
			if err := cmd.Run(); err != nil {
				errCh <- fmt.Errorf("%s: %w", g.name, err)
				return
			}
			fmt.Printf("[%s] done (%s)\n", g.name, time.Since(genStart).Round(time.Millisecond))
		}(g)
	}

	wg.Wait()
	close(errCh)

	var errs []error
	for err := range errCh {
		errs = append(errs, err)
	}
	if len(errs) > 0 {
		return errors.Join(errs...)
	}

	fmt.Printf("done (%s)\n", time.Since(start).Round(time.Millisecond))
	return nil
}

// skipTailwind reports whether output.css is newer than every file whose
// classes end up in it.
func skipTailwind() bool {
	inputs := []string{cssInput}
	_ = filepath.WalkDir("internal/ui", func(path string, d os.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return nil
		}
		if strings.HasSuffix(path, ".templ") || (strings.HasSuffix(path, ".go") && !strings.HasSuffix(path, "_test.go")) {
			inputs = append(inputs, path)
		}
		return nil
	})
	jsFiles, _ := filepath.Glob("assets/js/*.js")
	return isUpToDate(cssOutput, append(inputs, jsFiles...))
}

// skipTempl reports whether every .templ file has a newer _templ.go.
func skipTempl() bool {
	upToDate := true
	_ = filepath.WalkDir("internal", func(path string, d os.DirEntry, err error) error {
		if err != nil || d.IsDir() || !strings.HasSuffix(path, ".templ") {
			return nil
		}
		if !isUpToDate(strings.TrimSuffix(path, ".templ")+"_templ.go", []string{path}) {
			upToDate = false
			return filepath.SkipAll
		}
		return nil
	})
	return upToDate
}

func isUpToDate(output string, inputs []string) bool {
	outInfo, err := os.Stat(output)
	if err != nil {
		return false
	}
	outMod := outInfo.ModTime()

	for _, input := range inputs {
		inInfo, err := os.Stat(input)
		if err != nil {
			continue
		}
		if inInfo.ModTime().After(outMod) {
			return false
		}
	}
	return true
}
