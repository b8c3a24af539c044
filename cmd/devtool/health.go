package main

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/spf13/cobra"
)

const (
	defaultForgeURL = "http://localhost:8080"
	healthTimeout   = 5 * time.Second
	slowHealthReply = time.Second
)

// newHealthCheckCmd probes a running forge. A nil client gets a default one
// with a short timeout.
func newHealthCheckCmd(client *http.Client) *cobra.Command {
	var base string

	cmd := &cobra.Command{
		Use:   "health-check",
		Short: "Probe /healthz and /readyz of a running forge",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if client == nil {
				client = &http.Client{Timeout: healthTimeout}
			}
			base = strings.TrimRight(base, "/")
			p := newPrinter(cmd.OutOrStdout())
			p.Header(fmt.Sprintf("Health Check (%s)", base))

			for _, path := range []string{"/healthz", "/readyz"} {
				start := time.Now()
				resp, err := client.Get(base + path)
				if err != nil {
					p.Error("%s failed: %v", path, err)
					return err
				}
				resp.Body.Close()
				duration := time.Since(start)

				if resp.StatusCode != http.StatusOK {
					p.Error("%s returned %d", path, resp.StatusCode)
					return fmt.Errorf("%s returned status %d", path, resp.StatusCode)
				}
				if duration > slowHealthReply {
					p.Warning("%s slow response time (%v)", path, duration)
				} else {
					p.Success("%s passed (response time: %v)", path, duration)
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&base, "url", defaultForgeURL, "Base URL of the forge")
	return cmd
}
