package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/tidecart/internal/apiclient"
	"github.com/tidecart/internal/apiclient/fallback"
	"github.com/tidecart/internal/config"
	"github.com/tidecart/internal/logger"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

const defaultTokenFile = ".tidecart_token"

// shopperCLI 命令共享状态
type shopperCLI struct {
	cfg       *config.Config
	client    *apiclient.Client
	fixtures  *fallback.Catalog
	baseURL   string
	token     string
	tokenFile string
	mock      bool
	verbose   bool
	timeout   time.Duration
}

func newRootCmd() *cobra.Command {
	cli := &shopperCLI{}
	root := &cobra.Command{
		Use:           "shopper",
		Short:         "tidecart shopper client",
		Long:          "Browse the catalog, manage the cart and run checkout against a tidecart API.",
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return cli.init(cmd)
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			_ = logger.Z().Sync()
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&cli.baseURL, "base-url", "", "API base url (default client.base_url)")
	flags.StringVar(&cli.token, "token", "", "bearer token (default client.token or token file)")
	flags.StringVar(&cli.tokenFile, "token-file", defaultTokenFile, "file that stores the login token")
	flags.BoolVar(&cli.mock, "mock", false, "serve catalog from built-in fixtures without calling the API")
	flags.BoolVarP(&cli.verbose, "verbose", "v", false, "log retries and fallbacks")
	flags.DurationVar(&cli.timeout, "timeout", time.Minute, "overall command timeout")

	root.AddCommand(
		cli.catalogCmd(),
		cli.loginCmd(),
		cli.cartCmd(),
		cli.checkoutCmd(),
	)
	return root
}

func (s *shopperCLI) init(cmd *cobra.Command) error {
	if s.verbose {
		logger.Init("debug", logger.Options{})
	} else {
		logger.L = zap.NewNop()
	}
	s.cfg = config.Load()

	clientCfg := s.cfg.Client
	if strings.TrimSpace(s.baseURL) != "" {
		clientCfg.BaseURL = s.baseURL
	}
	if s.mock {
		clientCfg.AlwaysMock = true
	}
	s.cfg.Client = clientCfg

	fixtures, err := fallback.Default()
	if err != nil {
		return fmt.Errorf("load fallback fixtures: %w", err)
	}
	s.fixtures = fixtures
	s.client = apiclient.New(clientCfg, apiclient.WithTokenSource(s.tokenSource()))
	return nil
}

// tokenSource 命令行参数 > 配置 > 登录保存的 token 文件
func (s *shopperCLI) tokenSource() apiclient.TokenSource {
	if token := strings.TrimSpace(s.token); token != "" {
		return apiclient.StaticToken(token)
	}
	if token := strings.TrimSpace(s.cfg.Client.Token); token != "" {
		return apiclient.StaticToken(token)
	}
	raw, err := os.ReadFile(s.tokenFile)
	if err != nil {
		return apiclient.StaticToken("")
	}
	return apiclient.StaticToken(strings.TrimSpace(string(raw)))
}

func (s *shopperCLI) context(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	if s.timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, s.timeout)
}

// explain 把 API 错误翻译成命令行提示
func explain(err error) error {
	if err == nil {
		return nil
	}
	if apiclient.IsUnauthorized(err) {
		return errors.New("not signed in or session expired: run `shopper login` first")
	}
	if apiErr, ok := apiclient.AsAPIError(err); ok && apiErr.Code != 0 {
		return fmt.Errorf("%s (code %d)", apiErr.Message, apiErr.Code)
	}
	return err
}
