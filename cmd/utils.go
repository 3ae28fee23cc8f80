package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/zheng/documember/internal/coverage"
	"github.com/zheng/documember/internal/inspect"
	"github.com/zheng/documember/internal/summary"
)

func outputJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// walkFlags are the member selection flags shared by the audit commands
type walkFlags struct {
	includePrivate  bool
	includeDunder   bool
	includeImported bool
	ignoreAll       bool
	maxDepth        int
}

func (f *walkFlags) register(cmd *cobra.Command) {
	cmd.Flags().BoolVar(&f.includePrivate, "include-private", false, "include members with a single leading underscore")
	cmd.Flags().BoolVar(&f.includeDunder, "include-dunder", false, "include members with double leading and trailing underscores")
	cmd.Flags().BoolVar(&f.includeImported, "include-imported", false, "include members defined in other namespaces")
	cmd.Flags().BoolVar(&f.ignoreAll, "ignore-all", false, "ignore declared export lists when selecting and ordering members")
	cmd.Flags().IntVar(&f.maxDepth, "max-depth", 0, "maximum submodule recursion depth (0 = unlimited)")
}

// fingerprint encodes the flag values that change which members a walk
// visits. Snapshots taken with different fingerprints are not comparable.
func (f *walkFlags) fingerprint() string {
	return fmt.Sprintf("private=%t,dunder=%t,imported=%t,ignore_all=%t,max_depth=%d",
		f.includePrivate, f.includeDunder, f.includeImported, f.ignoreAll, f.maxDepth)
}

func (f *walkFlags) config(logger *log.Logger) summary.Config {
	return summary.Config{
		IncludePrivate:  f.includePrivate,
		IncludeDunder:   f.includeDunder,
		IncludeImported: f.includeImported,
		IgnoreExports:   f.ignoreAll,
		MaxDepth:        f.maxDepth,
		Logger:          logger,
	}
}

// audit resolves a target and builds its summary tree
func audit(target string, cfg summary.Config, logger *log.Logger) (*summary.Node, error) {
	mod, err := inspect.Resolve(target, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to inspect %s: %w", target, err)
	}
	return summary.Build(mod, cfg), nil
}

// printStats writes coverage stats as aligned text
func printStats(stats *coverage.Stats) {
	fmt.Printf("Target:     %s\n", stats.Target)
	fmt.Printf("Members:    %d\n", stats.Total.Total)
	fmt.Printf("Documented: %d\n", stats.Total.Documented)
	fmt.Printf("Coverage:   %.1f%%\n", stats.Total.Percent())

	if len(stats.ByKind) > 0 {
		fmt.Println()
		for _, kind := range []summary.MemberKind{
			summary.KindModule, summary.KindClass, summary.KindFunc, summary.KindAttribute,
		} {
			counts, ok := stats.ByKind[kind]
			if !ok || counts.Total == 0 {
				continue
			}
			fmt.Printf("  %-10s %3d/%-3d (%.1f%%)\n", kind, counts.Documented, counts.Total, counts.Percent())
		}
	}

	if len(stats.Namespaces) > 0 {
		fmt.Println("\nWorst namespaces:")
		shown := stats.Namespaces
		if len(shown) > 5 {
			shown = shown[:5]
		}
		for _, ns := range shown {
			fmt.Printf("  %-40s %3d/%-3d (%.1f%%)\n", ns.QualName, ns.Documented, ns.Total, ns.Percent())
		}
	}
}
