package cli

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/ram-us/internal/config"
	applog "github.com/ram-us/internal/logger"
	"github.com/ram-us/internal/models"
	"github.com/ram-us/internal/repository"
	"github.com/ram-us/internal/storefront"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	gormlogger "gorm.io/gorm/logger"
)

const (
	defaultServer = "http://127.0.0.1:8080/api/v1"
	tokenEnv      = "RAMUS_TOKEN"
)

// ValidFormats 支持的输出格式
var ValidFormats = []string{"text", "json"}

// RootOptions 全局参数
type RootOptions struct {
	Server  string
	Token   string
	Format  string
	StateDB string
	Timeout time.Duration
	Verbose bool
}

// NewRootCommand 创建 ramusctl 根命令
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "ramusctl",
		Short: "RAM-US storefront client",
		Long:  "Command line client for the RAM-US auto parts Mini App API: catalog, cart, garage, delivery and checkout.",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !isValidFormat(opts.Format) {
				return fmt.Errorf("invalid format %q: must be one of %v", opts.Format, ValidFormats)
			}
			if opts.Token == "" {
				opts.Token = strings.TrimSpace(os.Getenv(tokenEnv))
			}
			return nil
		},
		SilenceUsage: true,
	}

	cmd.PersistentFlags().StringVar(&opts.Server, "server", defaultServer, "API base url")
	cmd.PersistentFlags().StringVar(&opts.Token, "token", "", "user token (defaults to $"+tokenEnv+")")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")
	cmd.PersistentFlags().StringVar(&opts.StateDB, "state-db", "", "sqlite file that keeps cart and garage between runs")
	cmd.PersistentFlags().DurationVar(&opts.Timeout, "timeout", 15*time.Second, "request timeout")
	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")

	cmd.AddCommand(NewLoginCommand(opts))
	cmd.AddCommand(NewCategoriesCommand(opts))
	cmd.AddCommand(NewProductsCommand(opts))
	cmd.AddCommand(NewCartCommand(opts))
	cmd.AddCommand(NewGarageCommand(opts))
	cmd.AddCommand(NewFavoritesCommand(opts))
	cmd.AddCommand(NewCitiesCommand(opts))
	cmd.AddCommand(NewTariffsCommand(opts))
	cmd.AddCommand(NewCheckoutCommand(opts))

	return cmd
}

func isValidFormat(format string) bool {
	for _, f := range ValidFormats {
		if f == format {
			return true
		}
	}
	return false
}

func (o *RootOptions) client() *storefront.Client {
	client := storefront.NewClient(o.Server, o.Timeout)
	client.SetToken(o.Token)
	return client
}

// log --verbose 时输出 debug，否则仅 warn 以上写 stderr
func (o *RootOptions) log() *zap.SugaredLogger {
	opts := applog.Options{}
	if o.Verbose {
		opts.Level = "debug"
	}
	return applog.New(applog.ModeCLI, opts).Sugar()
}

// storage 指定 --state-db 时落到本地 sqlite，否则仅保存在内存
func (o *RootOptions) storage() (storefront.Storage, func(), error) {
	if strings.TrimSpace(o.StateDB) == "" {
		return storefront.NewMemoryStorage(), func() {}, nil
	}
	db, err := models.Open(config.DatabaseConfig{
		Driver: "sqlite",
		DSN:    o.StateDB,
		Pool:   config.DatabasePoolConfig{MaxOpenConns: 1, MaxIdleConns: 1},
	}, gormlogger.Silent)
	if err != nil {
		return nil, nil, fmt.Errorf("open state db: %w", err)
	}
	if err := db.AutoMigrate(&models.StateBlob{}); err != nil {
		return nil, nil, fmt.Errorf("migrate state db: %w", err)
	}
	closeFn := func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	}
	return storefront.NewBlobStorage(repository.NewStateBlobRepository(db)), closeFn, nil
}

// session 组装会话并加载本地购物车与车库
func (o *RootOptions) session(ctx context.Context) (*storefront.Session, *storefront.Client, func(), error) {
	storage, closeFn, err := o.storage()
	if err != nil {
		return nil, nil, nil, err
	}
	client := o.client()
	sess := storefront.NewClientSession(client, storage, o.log())
	sess.Cart.Hydrate(ctx)
	sess.Garage.Hydrate(ctx)
	cleanup := func() {
		sess.Delivery.Close()
		closeFn()
	}
	return sess, client, cleanup, nil
}

func (o *RootOptions) formatter(cmd *cobra.Command) *OutputFormatter {
	return &OutputFormatter{Format: o.Format, Writer: cmd.OutOrStdout()}
}
