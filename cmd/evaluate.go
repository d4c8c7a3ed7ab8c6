package cmd

import (
	"bytes"
	"errors"
	"fmt"
	"os"

	"github.com/bnema/haggle/internal/adapters/render/export"
	"github.com/bnema/haggle/internal/domain"
	"github.com/spf13/cobra"
)

var (
	errStateSourceConflict = errors.New("use only one of --state, --token or --kind")
	errStateSourceMissing  = errors.New("one of --state, --token or --kind is required")
)

type evaluateOptions struct {
	statePath   string
	outPath     string
	token       string
	printToken  bool
	format      string
	offer       float64
	kind        string
	min         float64
	max         float64
	maxDiscount float64
}

func newEvaluateCmd(app *app) *cobra.Command {
	opts := evaluateOptions{}

	cmd := &cobra.Command{
		Use:   "evaluate",
		Short: "Run one round over caller-held state without touching storage",
		Long: "evaluate reads a negotiation state from --state (JSON, YAML or TOML by extension), a sealed --token, " +
			"or builds a fresh one from --kind and the bounds flags, then evaluates --offer and writes the next state to --out.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			outputFormat, err := export.ParseFormat(opts.format)
			if err != nil {
				return err
			}

			state, err := app.resolveEvaluateState(cmd, opts)
			if err != nil {
				return err
			}

			next, decision, err := app.negotiations.Evaluate(state, opts.offer)
			if err != nil {
				return err
			}

			if opts.outPath != "" {
				if err := writeStateFile(opts.outPath, next); err != nil {
					return err
				}
			}

			if outputFormat == export.FormatText {
				if err := printDecision(cmd.OutOrStdout(), decision, next); err != nil {
					return err
				}
			} else {
				doc := export.Evaluation{Decision: export.FromDecision(decision), State: export.FromState(next)}
				if err := export.Encode(cmd.OutOrStdout(), outputFormat, doc); err != nil {
					return err
				}
			}

			if !opts.printToken {
				return nil
			}

			sealer, err := app.sealer(cmd.Context())
			if err != nil {
				return err
			}
			token, err := sealer.Seal(next)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "token: %s\n", token)
			return err
		},
	}

	cmd.Flags().Float64Var(&opts.offer, "offer", 0, "offered price")
	cmd.Flags().StringVar(&opts.statePath, "state", "", "state file to read")
	cmd.Flags().StringVar(&opts.outPath, "out", "", "file to write the next state to")
	cmd.Flags().StringVar(&opts.token, "token", "", "sealed state token to read")
	cmd.Flags().BoolVar(&opts.printToken, "print-token", false, "print the next state as a sealed token")
	cmd.Flags().StringVar(&opts.format, "format", "text", "output format: text, json, yaml or toml")
	cmd.Flags().StringVar(&opts.kind, "kind", "", "start a fresh state: product or delivery")
	cmd.Flags().Float64Var(&opts.min, "min", 0, "fresh state minimum price")
	cmd.Flags().Float64Var(&opts.max, "max", 0, "fresh state maximum price")
	cmd.Flags().Float64Var(&opts.maxDiscount, "max-discount", 0, "fresh state largest discount in percent")
	_ = cmd.MarkFlagRequired("offer")

	return cmd
}

func (a *app) resolveEvaluateState(cmd *cobra.Command, opts evaluateOptions) (domain.State, error) {
	sources := 0
	for _, set := range []bool{opts.statePath != "", opts.token != "", opts.kind != ""} {
		if set {
			sources++
		}
	}
	switch {
	case sources == 0:
		return domain.State{}, errStateSourceMissing
	case sources > 1:
		return domain.State{}, errStateSourceConflict
	}

	switch {
	case opts.statePath != "":
		return a.readStateFile(opts.statePath)
	case opts.token != "":
		sealer, err := a.sealer(cmd.Context())
		if err != nil {
			return domain.State{}, err
		}
		return sealer.Open(opts.token)
	default:
		kind, err := domain.ParseKind(opts.kind)
		if err != nil {
			return domain.State{}, err
		}
		return a.negotiations.NewState(kind, domain.Bounds{
			Min:         opts.min,
			Max:         opts.max,
			MaxDiscount: opts.maxDiscount / 100,
		})
	}
}

func (a *app) readStateFile(path string) (domain.State, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return domain.State{}, fmt.Errorf("read state file: %w", err)
	}

	var doc export.State
	if err := export.Decode(bytes.NewReader(data), export.FormatFromPath(path), &doc); err != nil {
		return domain.State{}, fmt.Errorf("decode state file %s: %w", path, err)
	}

	return doc.ToDomain(func(kind domain.Kind) domain.Strategy {
		return a.cfg.Strategies[kind]
	})
}

func writeStateFile(path string, state domain.State) error {
	var buf bytes.Buffer
	if err := export.Encode(&buf, export.FormatFromPath(path), export.FromState(state)); err != nil {
		return err
	}

	if err := os.WriteFile(path, buf.Bytes(), 0o600); err != nil {
		return fmt.Errorf("write state file: %w", err)
	}

	return nil
}
