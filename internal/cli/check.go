package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/eliu243/agentops-sdk/internal/denylist"
	"github.com/eliu243/agentops-sdk/internal/policy"
)

var (
	checkDirection string
	checkDenylist  string
	checkForbidden []string
	checkFormat    string
)

func init() {
	rootCmd.AddCommand(checkCmd)
	checkCmd.Flags().StringVarP(&checkDirection, "direction", "d", policy.Egress, "Message direction (egress|ingress)")
	checkCmd.Flags().StringVar(&checkDenylist, "denylist", "", "Path to denylist YAML (optional)")
	checkCmd.Flags().StringSliceVar(&checkForbidden, "forbidden", nil, "Extra forbidden substrings")
	checkCmd.Flags().StringVarP(&checkFormat, "format", "f", "text", "Output format (text|json)")
}

var checkCmd = &cobra.Command{
	Use:   "check [message]",
	Short: "Evaluate a message against the content policy",
	Long: "Runs the keyword/regex policy stage over a message and reports the\n" +
		"verdict. The message comes from the argument, or stdin when omitted.\n\n" +
		"Exit code 0 if allowed, 1 if denied.\n" +
		"Use to test deny-list changes before rolling them out.",
	RunE: runCheck,
}

func runCheck(cmd *cobra.Command, args []string) error {
	if checkDirection != policy.Egress && checkDirection != policy.Ingress {
		return fmt.Errorf("invalid direction %q", checkDirection)
	}

	text := strings.Join(args, " ")
	if text == "" {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return fmt.Errorf("read stdin: %w", err)
		}
		text = strings.TrimSpace(string(data))
	}

	dl, err := denylist.Load(checkDenylist)
	if err != nil {
		return fmt.Errorf("load denylist: %w", err)
	}

	ev := policy.NewEvaluator(dl, policy.Config{})
	verdict := ev.Evaluate(context.Background(), text, checkDirection, checkForbidden)

	switch checkFormat {
	case "json":
		out, err := json.MarshalIndent(map[string]any{
			"allowed": verdict.Allowed,
			"label":   verdict.Label,
			"reason":  verdict.Reason,
			"matches": verdict.Matches,
		}, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(out))
	default:
		if verdict.Allowed {
			fmt.Printf("ALLOW  %s\n", verdict.Reason)
		} else {
			fmt.Printf("DENY   %s\n", verdict.Reason)
			for _, m := range verdict.Matches {
				fmt.Printf("       match: %s\n", m)
			}
		}
	}

	if !verdict.Allowed {
		os.Exit(1)
	}
	return nil
}
