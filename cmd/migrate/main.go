package main

import (
	"database/sql"
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"
	"github.com/pressly/goose/v3"
	"github.com/spf13/cobra"

	"gostore/internal/pkg/database"
)

type migrateFlags struct {
	dir         string
	databaseURL string
	verbose     bool
}

func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf("⚠️ Aviso: arquivo .env não encontrado, usando apenas o ambiente do sistema: %v", err)
	}

	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	flags := &migrateFlags{}

	root := &cobra.Command{
		Use:          "migrate",
		Short:        "Aplica as migrações do banco do GoStore",
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVar(&flags.dir, "dir", "./sql", "diretório com os arquivos de migração")
	root.PersistentFlags().StringVar(&flags.databaseURL, "database-url", os.Getenv("DATABASE_URL"), "DSN do PostgreSQL")
	root.PersistentFlags().BoolVarP(&flags.verbose, "verbose", "v", false, "mostra o log do goose")

	root.AddCommand(
		gooseCmd(flags, "up", "Aplica todas as migrações pendentes", goose.Up),
		gooseCmd(flags, "down", "Desfaz a última migração", goose.Down),
		gooseCmd(flags, "status", "Mostra o estado das migrações", goose.Status),
		gooseCmd(flags, "reset", "Desfaz todas as migrações", goose.Reset),
	)
	return root
}

func gooseCmd(flags *migrateFlags, use, short string, run func(*sql.DB, string, ...goose.OptionsFunc) error) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if flags.databaseURL == "" {
				return fmt.Errorf("DATABASE_URL não definida (use --database-url)")
			}

			db, err := database.NewPostgresDB(flags.databaseURL)
			if err != nil {
				return fmt.Errorf("goose: falha ao conectar ao DB: %w", err)
			}
			defer db.Close()

			if !flags.verbose {
				goose.SetLogger(goose.NopLogger())
			}
			if err := goose.SetDialect("postgres"); err != nil {
				return err
			}
			if err := run(db, flags.dir); err != nil {
				return fmt.Errorf("goose %s: %w", use, err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "goose %s: sucesso\n", use)
			return nil
		},
	}
}
