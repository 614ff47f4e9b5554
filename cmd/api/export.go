package main

import (
	"fmt"
	"net/url"
	"os"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var (
	exportBranch string
	exportOut    string
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write the eligible units of a branch to an xlsx file",
	RunE:  runExport,
}

func init() {
	exportCmd.Flags().StringVar(&exportBranch, "branch", "", "branch name")
	exportCmd.Flags().StringVar(&exportOut, "out", "", "output file (default care_units_<branch>.xlsx)")
	_ = exportCmd.MarkFlagRequired("branch")
	rootCmd.AddCommand(exportCmd)
}

func runExport(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	db, err := openDatabase(cfg)
	if err != nil {
		return err
	}
	if sqlDB, err := db.DB(); err == nil {
		defer sqlDB.Close()
	}

	svc := newDashboard(db, cfg, logrus.StandardLogger())
	data, err := svc.ExportEligibleUnits(cmd.Context(), exportBranch, time.Now())
	if err != nil {
		return fmt.Errorf("export branch %q: %w", exportBranch, err)
	}

	out := exportOut
	if out == "" {
		out = fmt.Sprintf("care_units_%s.xlsx", exportBranch)
	}
	if err := os.WriteFile(out, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", out, err)
	}

	logrus.WithFields(logrus.Fields{
		"branch": exportBranch,
		"file":   out,
		"size":   humanize.Bytes(uint64(len(data))),
	}).Info("export written")
	return nil
}

// redactDSN hides the password of URL-style DSNs.
func redactDSN(dsn string) string {
	u, err := url.Parse(dsn)
	if err != nil || u.User == nil {
		return dsn
	}
	return u.Redacted()
}
