package cmd

import (
	"fmt"
	"os"
	"os/exec"
	"strconv"
	"syscall"

	"github.com/spf13/cobra"
)

func DevCmd() *cobra.Command {
	var (
		appPort   int
		proxyPort int
		seedFile  string
	)

	cmd := &cobra.Command{
		Use:   "dev",
		Short: "Run the server under air with live reload",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDev(appPort, proxyPort, seedFile)
		},
	}
	cmd.Flags().IntVar(&appPort, "port", 8090, "port the server listens on")
	cmd.Flags().IntVar(&proxyPort, "proxy-port", 8080, "port of the live-reload proxy")
	cmd.Flags().StringVar(&seedFile, "seed", "", "seed file to load before starting")
	return cmd
}

func runDev(appPort, proxyPort int, seedFile string) error {
	airPath, err := exec.LookPath("air")
	if err != nil {
		fmt.Println("Missing binary: air")
		fmt.Println("Install with:")
		fmt.Println("  go install github.com/air-verse/air@latest")
		return fmt.Errorf("air not found")
	}

	env := os.Environ()
	env = append(env,
		"PORT="+strconv.Itoa(appPort),
		fmt.Sprintf("APP_URL=http://localhost:%d", proxyPort),
	)
	if os.Getenv("APP_ENV") == "" {
		env = append(env, "APP_ENV=development")
	}

	if err := run(env, "go", "build", "-o", "bin/do", "./cmd/do"); err != nil {
		return fmt.Errorf("failed to build do: %w", err)
	}
	if seedFile != "" {
		if err := run(env, "./bin/do", "seed", seedFile); err != nil {
			return fmt.Errorf("failed to seed: %w", err)
		}
	}

	airArgs := []string{
		"air",
		"-c", "/dev/null",
		"-root", ".",
		"-build.cmd", "./bin/do gen && go build -o ./tmp/main ./cmd/server",
		"-build.bin", "./tmp/main",
		"-build.delay", "100",
		"-build.exclude_dir", "bin,node_modules,tmp,data,uploads",
		"-build.exclude_regex", "_test.go$|_templ\\.go$|output\\.css$",
		"-build.include_ext", "go,templ,css,js,sql,html,md",
		"-build.kill_delay", "500ms",
		"-build.send_interrupt", "true",
		"-proxy.enabled", "true",
		"-proxy.proxy_port", strconv.Itoa(proxyPort),
		"-proxy.app_port", strconv.Itoa(appPort),
	}

	return syscall.Exec(airPath, airArgs, env)
}

func run(env []string, name string, args ...string) error {
	c := exec.Command(name, args...)
	c.Env = env
	c.Stdout = os.Stdout
	c.Stderr = os.Stderr
	return c.Run()
}
