package main

import (
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/dropDatabas3/ezdine/internal/app"
	"github.com/dropDatabas3/ezdine/internal/config"
	dto "github.com/dropDatabas3/ezdine/internal/http/dto/users"
	jwtx "github.com/dropDatabas3/ezdine/internal/jwt"
	"github.com/dropDatabas3/ezdine/internal/observability/logger"
	"github.com/dropDatabas3/ezdine/internal/store/pg"
)

var version = "dev"

func main() {
	// .env es opcional; las variables del sistema tienen prioridad.
	_ = godotenv.Load()

	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var cfgPath string

	root := &cobra.Command{
		Use:           "ezdine",
		Short:         "Servicio de autenticación de ezdine (login, sesión única y roles)",
		SilenceUsage:  true,
		SilenceErrors: false,
		Version:       version,
	}
	root.PersistentFlags().StringVar(&cfgPath, "config", envOr("CONFIG_PATH", ""), "Archivo YAML de configuración (env CONFIG_PATH)")

	loadConfig := func() (*config.Config, error) {
		cfg, err := config.Load(cfgPath)
		if err != nil {
			return nil, err
		}
		logger.Init(logger.Config{
			Env:         cfg.App.Env,
			Level:       cfg.Log.Level,
			ServiceName: "ezdine",
			Version:     version,
		})
		return cfg, nil
	}

	root.AddCommand(
		newServeCmd(loadConfig),
		newMigrateCmd(),
		newUserCmd(loadConfig),
		newKeysCmd(),
	)
	return root
}

func newServeCmd(loadConfig func() (*config.Config, error)) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Levanta el servidor HTTP",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			defer func() { _ = logger.Sync() }()

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			c, err := app.New(ctx, cfg)
			if err != nil {
				logger.L().Error("startup failed", logger.Err(err))
				return err
			}
			defer c.Close()
			return c.Run(ctx)
		},
	}
}

func newMigrateCmd() *cobra.Command {
	var dsn string
	cmd := &cobra.Command{
		Use:       "migrate [up|down]",
		Short:     "Aplica (up) o revierte un paso (down) de las migraciones de Postgres",
		Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		ValidArgs: []string{"up", "down"},
		RunE: func(cmd *cobra.Command, args []string) error {
			if strings.TrimSpace(dsn) == "" {
				return errors.New("falta DSN (flag --dsn o env STORAGE_DSN)")
			}
			if err := pg.Migrate(cmd.Context(), dsn, args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "migrate %s ok\n", args[0])
			return nil
		},
	}
	cmd.Flags().StringVar(&dsn, "dsn", envOr("STORAGE_DSN", ""), "DSN de Postgres (env STORAGE_DSN)")
	return cmd
}

func newUserCmd(loadConfig func() (*config.Config, error)) *cobra.Command {
	userCmd := &cobra.Command{
		Use:   "user",
		Short: "Operaciones sobre cuentas",
	}

	var email, pass, role string
	createCmd := &cobra.Command{
		Use:   "create",
		Short: "Crea una cuenta (por ejemplo el primer ROLE_ADMIN)",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			c, err := app.New(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer c.Close()

			res, err := c.Services.Users.Users.Provision(cmd.Context(), dto.RegisterRequest{
				Email:    email,
				Password: pass,
				Role:     role,
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "created %s %v\n", res.Email, res.Role)
			return nil
		},
	}
	createCmd.Flags().StringVar(&email, "email", "", "Email de la cuenta")
	createCmd.Flags().StringVar(&pass, "password", "", "Password en claro")
	createCmd.Flags().StringVar(&role, "role", "ROLE_USER", "ROLE_USER | ROLE_ADMIN")
	_ = createCmd.MarkFlagRequired("email")
	_ = createCmd.MarkFlagRequired("password")

	userCmd.AddCommand(createCmd)
	return userCmd
}

func newKeysCmd() *cobra.Command {
	keysCmd := &cobra.Command{
		Use:   "keys",
		Short: "Manejo de la clave de firma Ed25519",
	}

	var kid string
	genCmd := &cobra.Command{
		Use:   "generate",
		Short: "Genera un seed nuevo para SIGNING_KEY e imprime su JWKS",
		RunE: func(cmd *cobra.Command, _ []string) error {
			seed, err := jwtx.GenerateSeed()
			if err != nil {
				return err
			}
			raw, err := jwtx.ParseSeed(seed)
			if err != nil {
				return err
			}
			ks, err := jwtx.NewKeySet(raw, kid)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "SIGNING_KEY=%s\n", seed)
			fmt.Fprintf(out, "SIGNING_KID=%s\n", ks.KID)
			fmt.Fprintf(out, "# jwks: %s\n", ks.JWKSJSON())
			return nil
		},
	}
	genCmd.Flags().StringVar(&kid, "kid", "ezdine-1", "Key ID")

	keysCmd.AddCommand(genCmd)
	return keysCmd
}

func envOr(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

