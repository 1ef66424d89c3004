// Command confirmctl runs one install confirmation in the terminal against a
// local manifest and an installed-packages seed.
//
//	confirmctl [-root dir] [-installed seed.yaml] [-catalog catalog.yaml] <package-uri>
//
// Gestures: s (scrolled to the bottom), i (install), c (cancel). Exits 0 when
// the install proceeds and 1 when it is cancelled.
package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"pkgconfirm/internal/confirm/models"
	confirmService "pkgconfirm/internal/confirm/service"
	sessionmemory "pkgconfirm/internal/confirm/store/memory"
	"pkgconfirm/internal/packages"
	"pkgconfirm/internal/packages/catalog"
	"pkgconfirm/internal/packages/installed"
	installedmemory "pkgconfirm/internal/packages/installed/memory"
	"pkgconfirm/internal/packages/manifest"
	"pkgconfirm/internal/platform/logger"
	"pkgconfirm/pkg/platform/audit/publisher"
	auditlogger "pkgconfirm/pkg/platform/audit/store/logger"
)

const (
	exitProceed   = 0
	exitCancelled = 1
	exitError     = 2
)

func main() {
	os.Exit(run(context.Background(), os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

func run(ctx context.Context, args []string, in io.Reader, out, errOut io.Writer) int {
	fs := flag.NewFlagSet("confirmctl", flag.ContinueOnError)
	fs.SetOutput(errOut)
	root := fs.String("root", "", "directory package URIs are resolved against")
	seed := fs.String("installed", "", "YAML list of installed packages")
	catalogPath := fs.String("catalog", "", "permission catalog overlay")
	verbose := fs.Bool("v", false, "log audit events to stderr")
	if err := fs.Parse(args); err != nil {
		return exitError
	}
	if fs.NArg() != 1 {
		fmt.Fprintln(errOut, "usage: confirmctl [flags] <package-uri>")
		return exitError
	}

	svc, err := buildService(ctx, *root, *seed, *catalogPath, *verbose, errOut)
	if err != nil {
		fmt.Fprintln(errOut, "error:", err)
		return exitError
	}

	session, err := svc.Start(ctx, fs.Arg(0))
	if err != nil {
		fmt.Fprintln(errOut, "error:", err)
		return exitError
	}
	printSession(out, session)
	return prompt(ctx, svc, session, bufio.NewScanner(in), out, errOut)
}

func buildService(ctx context.Context, root, seed, catalogPath string, verbose bool, errOut io.Writer) (*confirmService.Service, error) {
	c, err := catalog.Load(catalogPath)
	if err != nil {
		return nil, err
	}
	store := installedmemory.New()
	if seed != "" {
		records, err := installed.LoadSeed(seed)
		if err != nil {
			return nil, err
		}
		if err := installed.Seed(ctx, store, records); err != nil {
			return nil, err
		}
	}

	level := "warn"
	if verbose {
		level = "info"
	}
	log := logger.NewWithWriter(errOut, "development", level)
	resolver := packages.NewResolver(manifest.NewLoader(root, c), store, c)
	return confirmService.New(sessionmemory.New(), resolver,
		confirmService.WithLogger(log),
		confirmService.WithAuditor(publisher.NewPublisher(auditlogger.New(log))),
	), nil
}

func prompt(ctx context.Context, svc *confirmService.Service, session *models.Session, in *bufio.Scanner, out, errOut io.Writer) int {
	for {
		fmt.Fprintf(out, "[%s] s=scrolled to bottom, i=%s, c=cancel > ", session.State, session.ActionLabel())
		if !in.Scan() {
			fmt.Fprintln(out)
			if _, err := svc.Cancel(ctx, session.ID); err != nil {
				fmt.Fprintln(errOut, "error:", err)
				return exitError
			}
			fmt.Fprintln(out, "cancelled")
			return exitCancelled
		}

		var err error
		switch strings.ToLower(strings.TrimSpace(in.Text())) {
		case "s":
			session, err = svc.Acknowledge(ctx, session.ID)
		case "i":
			var res *confirmService.ProceedResult
			res, err = svc.Proceed(ctx, session.ID)
			if err == nil {
				session = res.Session
				if res.Decision == models.DecisionProceed {
					fmt.Fprintf(out, "installing %s\n", session.Candidate.PackageName)
					return exitProceed
				}
				fmt.Fprintf(out, "review the permissions before installing (from %s)\n", res.ScrollTo)
				printDisclosure(out, session)
			}
		case "c":
			if _, err = svc.Cancel(ctx, session.ID); err == nil {
				fmt.Fprintln(out, "cancelled")
				return exitCancelled
			}
		default:
			fmt.Fprintln(out, "unknown gesture")
		}
		if err != nil {
			fmt.Fprintln(errOut, "error:", err)
			return exitError
		}
	}
}

func printSession(out io.Writer, s *models.Session) {
	fmt.Fprintf(out, "%s %s\n", s.Candidate.PackageName, s.Candidate.Version)
	if s.Renamed() {
		fmt.Fprintf(out, "  declared as %s\n", s.DeclaredName)
	}
	if s.Installed != nil {
		fmt.Fprintf(out, "  installed %s (%s)\n", s.Installed.Version, s.VersionChange)
	}
	fmt.Fprintf(out, "  %s\n", s.Plan.Summary)
	printDisclosure(out, s)
}

func printDisclosure(out io.Writer, s *models.Session) {
	for _, section := range s.Plan.Sections {
		fmt.Fprintf(out, "  == %s\n", section)
		var names []string
		switch section {
		case models.SectionNewPermissions:
			names = s.Plan.NewPermissions.Names()
		case models.SectionPersonal:
			names = s.Candidate.Permissions.Personal()
		case models.SectionDevice:
			names = s.Candidate.Permissions.Device()
		}
		for _, n := range names {
			fmt.Fprintf(out, "     %s\n", n)
		}
	}
}

