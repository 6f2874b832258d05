package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"text/tabwriter"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/skypagos/ledger/internal/adapter/http/dto"
	"github.com/skypagos/ledger/internal/infrastructure/postgres"
)

type options struct {
	baseURL string
	token   string
	timeout time.Duration
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	rootCmd := &cobra.Command{
		Use:           "skypagos",
		Short:         "SkyPagos ledger CLI",
		Long:          `A command line interface for the SkyPagos wallet ledger API.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVar(&opts.baseURL, "url", "http://localhost:8080", "Base URL of the ledger API")
	rootCmd.PersistentFlags().StringVar(&opts.token, "token", os.Getenv("SKYPAGOS_TOKEN"), "Bearer token (defaults to $SKYPAGOS_TOKEN)")
	rootCmd.PersistentFlags().DurationVar(&opts.timeout, "timeout", 10*time.Second, "Request timeout")

	rootCmd.AddCommand(
		transferCmd(opts),
		payCmd(opts),
		historyCmd(opts),
		txCmd(opts),
		ledgerCmd(opts),
		reconcileCmd(opts),
		migrateCmd(),
	)

	return rootCmd
}

func transferCmd(opts *options) *cobra.Command {
	var req dto.TransferRequest
	var idempotencyKey string

	cmd := &cobra.Command{
		Use:   "transfer",
		Short: "Send money to another wallet",
		Example: `  skypagos transfer --from 01J... --to 77712345 --amount 150.00 --description "alquiler"`,
		RunE: func(cmd *cobra.Command, args []string) error {
			var resp dto.TransferResponse
			if err := newAPIClient(opts).do(cmd.Context(), http.MethodPost, "/api/v1/transfers", req, idempotencyKey, &resp); err != nil {
				return err
			}
			printJSON(cmd.OutOrStdout(), resp)
			return nil
		},
	}

	cmd.Flags().StringVar(&req.OriginAccountID, "from", "", "Origin account ID")
	cmd.Flags().StringVar(&req.DestinationIdentifier, "to", "", "Destination phone or account number")
	cmd.Flags().StringVar(&req.Amount, "amount", "", "Amount in BOB")
	cmd.Flags().StringVar(&req.Description, "description", "", "Description shown to both parties")
	cmd.Flags().StringVar(&req.Reference, "reference", "", "Client reference; repeating it replays the result")
	cmd.Flags().StringVar(&idempotencyKey, "idempotency-key", "", "Idempotency key (generated when empty)")
	_ = cmd.MarkFlagRequired("from")
	_ = cmd.MarkFlagRequired("to")
	_ = cmd.MarkFlagRequired("amount")

	return cmd
}

func payCmd(opts *options) *cobra.Command {
	var req dto.PaymentRequest
	var idempotencyKey string

	cmd := &cobra.Command{
		Use:   "pay",
		Short: "Pay a service from a wallet",
		Example: `  skypagos pay --account 01J... --service svc-tigo --amount 50 --destination 71234567`,
		RunE: func(cmd *cobra.Command, args []string) error {
			var resp dto.PaymentResponse
			if err := newAPIClient(opts).do(cmd.Context(), http.MethodPost, "/api/v1/payments", req, idempotencyKey, &resp); err != nil {
				return err
			}
			printJSON(cmd.OutOrStdout(), resp)
			return nil
		},
	}

	cmd.Flags().StringVar(&req.AccountID, "account", "", "Paying account ID")
	cmd.Flags().StringVar(&req.ServiceID, "service", "", "Service ID")
	cmd.Flags().StringVar(&req.Amount, "amount", "", "Amount in BOB")
	cmd.Flags().StringVar(&req.DestinationIdentifier, "destination", "", "Service customer identifier, e.g. the phone to top up")
	cmd.Flags().StringVar(&req.Description, "description", "", "Description")
	cmd.Flags().StringVar(&req.Reference, "reference", "", "Client reference")
	cmd.Flags().StringVar(&idempotencyKey, "idempotency-key", "", "Idempotency key (generated when empty)")
	_ = cmd.MarkFlagRequired("account")
	_ = cmd.MarkFlagRequired("service")
	_ = cmd.MarkFlagRequired("amount")

	return cmd
}

func historyCmd(opts *options) *cobra.Command {
	var page, pageSize int

	cmd := &cobra.Command{
		Use:   "history <account-id>",
		Short: "List the transactions of an account, newest first",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			query := url.Values{}
			query.Set("page", strconv.Itoa(page))
			query.Set("page_size", strconv.Itoa(pageSize))

			var resp dto.HistoryResponse
			path := "/api/v1/accounts/" + url.PathEscape(args[0]) + "/transactions?" + query.Encode()
			if err := newAPIClient(opts).do(cmd.Context(), http.MethodGet, path, nil, "", &resp); err != nil {
				return err
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "CODE\tKIND\tSTATUS\tAMOUNT\tCOMMISSION\tCOUNTERPARTY\tDATE")
			for _, t := range resp.Transactions {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
					t.Code, t.Kind, t.Status, t.Amount, t.Commission,
					truncate(t.DestinationName, 24), t.CreatedAt.Format(time.RFC3339))
			}
			return w.Flush()
		},
	}

	cmd.Flags().IntVar(&page, "page", 1, "Page number")
	cmd.Flags().IntVar(&pageSize, "page-size", 20, "Page size")

	return cmd
}

func txCmd(opts *options) *cobra.Command {
	var withEntries bool

	cmd := &cobra.Command{
		Use:   "tx <code>",
		Short: "Look up a transaction by its reference code",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client := newAPIClient(opts)
			path := "/api/v1/transactions/" + url.PathEscape(args[0])

			var txn dto.TransactionResponse
			if err := client.do(cmd.Context(), http.MethodGet, path, nil, "", &txn); err != nil {
				return err
			}
			printJSON(cmd.OutOrStdout(), txn)

			if !withEntries {
				return nil
			}

			var entries []dto.EntryResponse
			if err := client.do(cmd.Context(), http.MethodGet, path+"/entries", nil, "", &entries); err != nil {
				return err
			}
			printJSON(cmd.OutOrStdout(), entries)
			return nil
		},
	}

	cmd.Flags().BoolVar(&withEntries, "entries", false, "Also print the ledger entries")

	return cmd
}

func ledgerCmd(opts *options) *cobra.Command {
	ledgerCmd := &cobra.Command{
		Use:   "ledger",
		Short: "Ledger operations",
	}

	ledgerCmd.AddCommand(&cobra.Command{
		Use:   "consistency",
		Short: "Check that balances and entries add up",
		RunE: func(cmd *cobra.Command, args []string) error {
			var resp dto.ConsistencyResponse
			err := newAPIClient(opts).do(cmd.Context(), http.MethodGet, "/api/v1/ledger/consistency", nil, "", &resp)

			// An inconsistent ledger answers 409 with the totals.
			var apiErr *apiError
			if errors.As(err, &apiErr) && apiErr.Status == http.StatusConflict {
				if jsonErr := json.Unmarshal(apiErr.Body, &resp); jsonErr == nil {
					err = nil
				}
			}
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Total balance: %s\nTotal entries: %s\n", resp.TotalBalance, resp.TotalEntries)
			if !resp.Consistent {
				return errors.New("consistency check FAILED")
			}
			fmt.Fprintln(out, "Consistency check PASSED")
			return nil
		},
	})

	return ledgerCmd
}

func reconcileCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "reconcile <account-id>",
		Short: "Compare an account balance with its entries",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var resp dto.ReconciliationResponse
			path := "/api/v1/accounts/" + url.PathEscape(args[0]) + "/reconcile"
			if err := newAPIClient(opts).do(cmd.Context(), http.MethodGet, path, nil, "", &resp); err != nil {
				return err
			}

			printJSON(cmd.OutOrStdout(), resp)
			if !resp.Reconciled {
				return fmt.Errorf("account %s is off by %s", resp.AccountID, resp.Difference)
			}
			return nil
		},
	}
}

func migrateCmd() *cobra.Command {
	var databaseURL, path string
	var down bool

	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply database migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			if databaseURL == "" {
				return errors.New("--database-url or $DATABASE_URL is required")
			}

			log := zerolog.New(zerolog.ConsoleWriter{Out: cmd.ErrOrStderr()}).With().Timestamp().Logger()
			if down {
				return postgres.RunMigrationsDown(databaseURL, path, log)
			}
			return postgres.RunMigrations(databaseURL, path, log)
		},
	}

	cmd.Flags().StringVar(&databaseURL, "database-url", os.Getenv("DATABASE_URL"), "PostgreSQL connection URL")
	cmd.Flags().StringVar(&path, "path", "migrations", "Migrations directory")
	cmd.Flags().BoolVar(&down, "down", false, "Roll back the last migration")

	return cmd
}

// apiError is a non-2xx answer from the API.
type apiError struct {
	Status  int
	Code    string
	Message string
	Body    []byte
}

func (e *apiError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("%s (HTTP %d): %s", e.Code, e.Status, e.Message)
	}
	return fmt.Sprintf("request failed with HTTP %d", e.Status)
}

type apiClient struct {
	baseURL string
	token   string
	http    *http.Client
}

func newAPIClient(opts *options) *apiClient {
	return &apiClient{
		baseURL: opts.baseURL,
		token:   opts.token,
		http:    &http.Client{Timeout: opts.timeout},
	}
}

// do sends body as JSON and decodes a 2xx answer into out. POST requests
// always carry an idempotency key so a retried command cannot pay twice.
func (c *apiClient) do(ctx context.Context, method, path string, body any, idempotencyKey string, out any) error {
	if ctx == nil {
		ctx = context.Background()
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	if method == http.MethodPost {
		if idempotencyKey == "" {
			idempotencyKey = ulid.Make().String()
		}
		req.Header.Set("Idempotency-Key", idempotencyKey)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("error making request: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("error reading response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		apiErr := &apiError{Status: resp.StatusCode, Body: raw}
		var errResp dto.ErrorResponse
		if json.Unmarshal(raw, &errResp) == nil {
			apiErr.Code = errResp.Error
			apiErr.Message = errResp.Message
		}
		return apiErr
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("failed to parse response: %w", err)
	}
	return nil
}

func printJSON(w io.Writer, v any) {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(v)
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	if max <= 3 {
		return s[:max]
	}
	return s[:max-3] + "..."
}
