package main

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
)

var (
	baseURL string
	timeout time.Duration
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "gastoledger-cli",
		Short: "GastoLedger CLI tool",
		Long:  `A command line interface for interacting with the GastoLedger API.`,
	}

	rootCmd.PersistentFlags().StringVar(&baseURL, "url", "http://localhost:8080", "Base URL of the GastoLedger API")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 10*time.Second, "Request timeout")

	// Expense commands
	expensesCmd := &cobra.Command{
		Use:   "expenses",
		Short: "Expense operations",
	}
	expensesCmd.AddCommand(captureCmd(), getExpenseCmd(), listExpensesCmd(), journalCmd())
	rootCmd.AddCommand(expensesCmd)

	// Ledger commands
	ledgerCmd := &cobra.Command{
		Use:   "ledger",
		Short: "Ledger operations",
	}
	ledgerCmd.AddCommand(consistencyCmd())
	rootCmd.AddCommand(ledgerCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func captureCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "capture <file.json>",
		Short: "Capture an expense from a JSON draft",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			payload, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}

			resp, err := apiClient().Post(baseURL+"/api/v1/expenses", "application/json", strings.NewReader(string(payload)))
			if err != nil {
				return err
			}
			defer resp.Body.Close()

			return printResponse(resp, http.StatusCreated)
		},
	}
}

func getExpenseCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <id>",
		Short: "Get a normalized expense",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			resp, err := apiClient().Get(baseURL + "/api/v1/expenses/" + args[0])
			if err != nil {
				return err
			}
			defer resp.Body.Close()

			return printResponse(resp, http.StatusOK)
		},
	}
}

func listExpensesCmd() *cobra.Command {
	var workflow string
	var limit int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List expenses",
		RunE: func(cmd *cobra.Command, args []string) error {
			url := fmt.Sprintf("%s/api/v1/expenses?limit=%d", baseURL, limit)
			if workflow != "" {
				url += "&workflow=" + workflow
			}

			resp, err := apiClient().Get(url)
			if err != nil {
				return err
			}
			defer resp.Body.Close()

			return printResponse(resp, http.StatusOK)
		},
	}

	cmd.Flags().StringVar(&workflow, "workflow", "", "Filter by workflow stage")
	cmd.Flags().IntVar(&limit, "limit", 50, "Maximum number of expenses")

	return cmd
}

func journalCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "journal <id>",
		Short: "Show the generated journal of an expense",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			resp, err := apiClient().Get(baseURL + "/api/v1/expenses/" + args[0] + "/journal")
			if err != nil {
				return err
			}
			defer resp.Body.Close()

			return printResponse(resp, http.StatusOK)
		},
	}
}

func consistencyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "consistency",
		Short: "Check ledger consistency",
		RunE: func(cmd *cobra.Command, args []string) error {
			resp, err := apiClient().Get(baseURL + "/api/v1/ledger/consistency")
			if err != nil {
				return err
			}
			defer resp.Body.Close()

			body, _ := io.ReadAll(resp.Body)
			if resp.StatusCode != http.StatusOK {
				return fmt.Errorf("consistency check failed (status %d): %s", resp.StatusCode, truncate(string(body), 200))
			}

			var result map[string]any
			if err := json.Unmarshal(body, &result); err != nil {
				return fmt.Errorf("failed to parse response: %w", err)
			}

			if consistent, ok := result["consistent"].(bool); ok && consistent {
				fmt.Println("Consistency check PASSED")
			} else {
				fmt.Println("Consistency check FAILED")
			}
			printJSON(result)

			return nil
		},
	}
}

func apiClient() *http.Client {
	return &http.Client{Timeout: timeout}
}

func printResponse(resp *http.Response, wantStatus int) error {
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}

	if resp.StatusCode != wantStatus {
		return fmt.Errorf("unexpected status %d: %s", resp.StatusCode, truncate(string(body), 200))
	}

	var decoded any
	if err := json.Unmarshal(body, &decoded); err != nil {
		return err
	}
	printJSON(decoded)

	return nil
}

func printJSON(v any) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		fmt.Printf("failed to encode output: %v\n", err)
		return
	}
	fmt.Println(string(data))
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max-3] + "..."
}
