package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/evisdrenova/zonaei-skill/internal/alexa"
	"github.com/evisdrenova/zonaei-skill/internal/config"
)

type simulateOptions struct {
	file        string
	requestType string
	intent      string
	slots       []string
	attributes  string
}

// newSimulateCmd runs a single envelope through the skill locally, either read
// from a file / stdin or built from flags.
func newSimulateCmd(loadConfig func() (config.Config, error)) *cobra.Command {
	var opts simulateOptions

	cmd := &cobra.Command{
		Use:   "simulate",
		Short: "Run one request envelope through the skill and print the response.",
		Example: `  zonaei simulate --intent Information --slot programaName="Tec Lean Discover" --attributes '{"app-state":1}'
  zonaei simulate --file launch.json
  cat envelope.json | zonaei simulate --file -`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			env, err := opts.envelope(cmd.InOrStdin())
			if err != nil {
				return err
			}

			ctx := log.Logger.WithContext(cmd.Context())
			skill, cleanup, err := buildSkill(ctx, cfg)
			if err != nil {
				return err
			}
			defer cleanup()

			out, err := skill.Invoke(ctx, env)
			if err != nil {
				return err
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			enc.SetEscapeHTML(false)
			return enc.Encode(out)
		},
	}

	cmd.Flags().StringVarP(&opts.file, "file", "f", "", "request envelope JSON file ('-' for stdin)")
	cmd.Flags().StringVar(&opts.requestType, "type", alexa.IntentRequest, "request type when building the envelope from flags")
	cmd.Flags().StringVar(&opts.intent, "intent", "", "intent name when building the envelope from flags")
	cmd.Flags().StringArrayVar(&opts.slots, "slot", nil, "slot as name=value (repeatable)")
	cmd.Flags().StringVar(&opts.attributes, "attributes", "", "session attributes as a JSON object")
	return cmd
}

func (o simulateOptions) envelope(stdin io.Reader) (*alexa.RequestEnvelope, error) {
	if o.file != "" {
		var r io.Reader = stdin
		if o.file != "-" {
			f, err := os.Open(o.file)
			if err != nil {
				return nil, err
			}
			defer f.Close()
			r = f
		}
		var env alexa.RequestEnvelope
		if err := json.NewDecoder(r).Decode(&env); err != nil {
			return nil, fmt.Errorf("decode envelope: %w", err)
		}
		return &env, nil
	}

	if o.requestType == alexa.IntentRequest && o.intent == "" {
		return nil, fmt.Errorf("either --file or --intent is required")
	}

	attrs := map[string]any{}
	if o.attributes != "" {
		if err := json.Unmarshal([]byte(o.attributes), &attrs); err != nil {
			return nil, fmt.Errorf("parse --attributes: %w", err)
		}
	}

	req := &alexa.Request{
		Type:      o.requestType,
		RequestID: "amzn1.echo-api.request." + uuid.NewString(),
		Timestamp: time.Now().UTC(),
		Locale:    "es-MX",
	}
	if o.requestType == alexa.IntentRequest {
		req.Intent = &alexa.Intent{Name: o.intent, Slots: map[string]*alexa.Slot{}}
		for _, kv := range o.slots {
			name, value, ok := strings.Cut(kv, "=")
			if !ok {
				return nil, fmt.Errorf("slot %q: want name=value", kv)
			}
			req.Intent.Slots[name] = &alexa.Slot{Name: name, Value: value}
		}
	}

	return &alexa.RequestEnvelope{
		Version: "1.0",
		Session: &alexa.Session{
			New:        len(attrs) == 0,
			SessionID:  "amzn1.echo-api.session." + uuid.NewString(),
			Attributes: attrs,
			User:       alexa.User{UserID: "amzn1.ask.account.simulate"},
		},
		Request: req,
	}, nil
}
